// Package apply pushes pending configuration changes onto the window.
package apply

import (
	"github.com/charmbracelet/log"

	"github.com/five82/framekeeper/internal/platform"
	"github.com/five82/framekeeper/internal/protocol"
	"github.com/five82/framekeeper/internal/state"
)

// Engine is the only consumer of pending changes.
type Engine struct {
	store      *state.Store
	decorator  platform.Decorator
	capability state.Capability
	build      uint32
	out        *protocol.Writer
	logger     *log.Logger
}

// New returns an engine for an OS of the given build.
func New(store *state.Store, decorator platform.Decorator, build uint32, out *protocol.Writer, logger *log.Logger) *Engine {
	return &Engine{
		store:      store,
		decorator:  decorator,
		capability: state.ClassifyBuild(build),
		build:      build,
		out:        out,
		logger:     logger.With("component", "apply"),
	}
}

// Run applies changes until the session ends. A decoration failure is
// broadcast, ends the session and is returned.
func (e *Engine) Run() error {
	for {
		var (
			stop bool
			err  error
		)
		e.store.WithLock(func(c *state.Config) {
			e.store.WaitForChangeOrInvalid(c)
			if !c.Valid() {
				stop = true
				return
			}
			if err = e.applyPending(c); err != nil {
				stop = true
				e.logger.Error("apply failed", "err", err)
				e.out.Errorf("%v", err)
				c.Invalidate()
				e.store.NotifyChanged()
				return
			}
			c.Pending = state.Changes{}
		})
		if stop {
			return err
		}
	}
}

// applyPending runs with the lock held. Border extension changes the frame
// geometry the other attributes render against, so it goes first.
func (e *Engine) applyPending(c *state.Config) error {
	pending := c.Pending
	e.logger.Debug("applying", "changes", pending.String())

	if pending.ExtendBorder {
		if err := e.decorator.ExtendFrame(c.Window, c.ExtendBorder); err != nil {
			return err
		}
	}
	if pending.DarkMode {
		if err := e.decorator.SetDarkMode(c.Window, c.DarkMode); err != nil {
			return err
		}
	}
	if pending.Backdrop {
		return e.applyBackdrop(c)
	}
	return nil
}

func (e *Engine) applyBackdrop(c *state.Config) error {
	switch {
	case e.capability == state.CapabilityFull:
		return e.decorator.SetBackdrop(c.Window, c.Backdrop)
	case e.capability == state.CapabilityMicaOnly && e.capability.Supports(c.Backdrop):
		// Default and none both clear the legacy mica flag.
		return e.decorator.SetMica(c.Window, c.Backdrop == state.BackdropMica)
	case c.Backdrop == state.BackdropDefault:
		// Nothing to undo on builds without backdrop support.
		return nil
	default:
		e.logger.Warn("backdrop unsupported", "backdrop", c.Backdrop.String(), "build", e.build)
		e.out.Errorf("unsupported windows version for backdrop type %d", c.Backdrop)
		return nil
	}
}
