// Package command reads host requests and answers them.
package command

import (
	"errors"
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/five82/framekeeper/internal/platform"
	"github.com/five82/framekeeper/internal/protocol"
	"github.com/five82/framekeeper/internal/state"
)

// LineSource is the host input. Cancel must make a pending ReadLine return
// io.EOF when the source supports interrupting it.
type LineSource interface {
	ReadLine() (string, error)
	Cancel() bool
}

type readResult struct {
	line string
	err  error
}

// Processor is the only consumer of the host input.
type Processor struct {
	store      *state.Store
	input      LineSource
	themes     platform.ThemeSource
	decorator  platform.Decorator
	capability state.Capability
	build      uint32
	out        *protocol.Writer
	logger     *log.Logger

	stop     chan struct{}
	stopOnce sync.Once
}

// Options carry the collaborators of a Processor.
type Options struct {
	Store     *state.Store
	Input     LineSource
	Themes    platform.ThemeSource
	Decorator platform.Decorator
	Build     uint32
	Out       *protocol.Writer
	Logger    *log.Logger
}

// New returns a processor.
func New(opts Options) *Processor {
	return &Processor{
		store:      opts.Store,
		input:      opts.Input,
		themes:     opts.Themes,
		decorator:  opts.Decorator,
		capability: state.ClassifyBuild(opts.Build),
		build:      opts.Build,
		out:        opts.Out,
		logger:     opts.Logger.With("component", "reader"),
		stop:       make(chan struct{}),
	}
}

// Cancel abandons the pending read and makes Run return. Only the first call
// has an effect. When the input cannot interrupt a read already in progress,
// that read finishes in the background and its line is discarded.
func (p *Processor) Cancel() {
	p.stopOnce.Do(func() {
		close(p.stop)
		if !p.input.Cancel() {
			p.logger.Debug("input read not interruptible; abandoning it")
		}
	})
}

// Run handles requests until the host exits, the input ends, the session is
// shut down, or a live query fails. Only the last case returns an error.
func (p *Processor) Run() error {
	lines := make(chan readResult)
	go p.readLoop(lines)

	for {
		var res readResult
		select {
		case <-p.stop:
			return nil
		case r, ok := <-lines:
			if !ok {
				return nil
			}
			res = r
		}

		if errors.Is(res.err, io.EOF) {
			p.logger.Debug("input closed")
			return nil
		}

		var (
			stop bool
			err  error
		)
		p.store.WithLock(func(c *state.Config) {
			if !c.Valid() || !p.decorator.IsWindow(c.Window) {
				p.logger.Debug("window gone; stopping")
				stop = true
				return
			}
			stop, err = p.handle(c, res)
		})
		if stop {
			return err
		}
	}
}

// readLoop performs the blocking reads without holding the lock.
func (p *Processor) readLoop(lines chan<- readResult) {
	defer close(lines)
	for {
		line, err := p.input.ReadLine()
		select {
		case lines <- readResult{line: line, err: err}:
		case <-p.stop:
			return
		}
		if err != nil && !errors.Is(err, protocol.ErrLineTooLong) {
			return
		}
	}
}

// handle runs with the lock held for the whole validate-mutate-respond
// sequence.
func (p *Processor) handle(c *state.Config, res readResult) (stop bool, err error) {
	switch {
	case errors.Is(res.err, protocol.ErrLineTooLong):
		p.out.Errorf("line too long")
		return false, nil
	case res.err != nil:
		p.logger.Error("read failed", "err", res.err)
		p.out.Errorf("read input: %v", res.err)
		return true, res.err
	}

	req, perr := protocol.ParseRequest(res.line)
	if perr != nil {
		p.out.Errorf("invalid command: %q", res.line)
		return false, nil
	}
	p.logger.Debug("request", "serial", req.Serial, "type", req.Type, "content", req.Content)

	switch req.Type {
	case protocol.TypeConfig:
		p.configure(c, req)
	case protocol.TypeTheme:
		return p.theme(c, req)
	case protocol.TypeAccent:
		return p.accent(c, req)
	case protocol.TypeExit:
		p.out.Respond(req.Serial, protocol.StatusOK, "")
		p.logger.Info("exit requested")
		// Nothing may follow the exit response.
		c.Invalidate()
		p.store.NotifyChanged()
		return true, nil
	default:
		p.out.Respondf(req.Serial, protocol.StatusError, "invalid command: %q", req.Type)
	}
	return false, nil
}

// configure validates both digits before touching state.
func (p *Processor) configure(c *state.Config, req protocol.Request) {
	content := req.Content
	if len(content) != 2 {
		p.out.Respondf(req.Serial, protocol.StatusError, "invalid length: %d", len(content))
		return
	}
	if content[0] != '0' && content[0] != '1' {
		p.out.Respondf(req.Serial, protocol.StatusError, "invalid extend border value: %c", content[0])
		return
	}
	backdrop, ok := state.ParseBackdrop(content[1])
	if !ok {
		p.out.Respondf(req.Serial, protocol.StatusError, "invalid backdrop type: %c", content[1])
		return
	}
	if !p.capability.Supports(backdrop) {
		p.out.Respondf(req.Serial, protocol.StatusError, "unsupported backdrop type for windows build %d: %c", p.build, content[1])
		return
	}

	var changes state.Changes
	if extend := content[0] == '1'; extend != c.ExtendBorder {
		c.ExtendBorder = extend
		changes.ExtendBorder = true
	}
	if backdrop != c.Backdrop {
		c.Backdrop = backdrop
		changes.Backdrop = true
	}
	c.Mark(changes)
	p.store.NotifyChanged()
	p.out.Respond(req.Serial, protocol.StatusOK, "")
}

func (p *Processor) theme(c *state.Config, req protocol.Request) (bool, error) {
	dark, err := p.themes.DarkMode()
	if err != nil {
		return true, p.fail(c, req, err)
	}
	p.out.Respond(req.Serial, protocol.StatusOK, protocol.Bool(dark))
	return false, nil
}

func (p *Processor) accent(c *state.Config, req protocol.Request) (bool, error) {
	accent, err := p.themes.Accent()
	if err != nil {
		return true, p.fail(c, req, err)
	}
	p.out.Respond(req.Serial, protocol.StatusOK, protocol.FormatAccent(accent.Opaque, accent.RGBA))
	return false, nil
}

// fail answers the request with the query error and ends the session.
func (p *Processor) fail(c *state.Config, req protocol.Request, err error) error {
	p.logger.Error("query failed", "type", req.Type, "err", err)
	p.out.Respondf(req.Serial, protocol.StatusError, "%v", err)
	c.Invalidate()
	p.store.NotifyChanged()
	return err
}
