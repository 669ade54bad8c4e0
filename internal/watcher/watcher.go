// Package watcher mirrors OS theme changes into the shared state and reports
// them to the host.
package watcher

import (
	"github.com/charmbracelet/log"

	"github.com/five82/framekeeper/internal/platform"
	"github.com/five82/framekeeper/internal/protocol"
	"github.com/five82/framekeeper/internal/state"
)

// Watcher consumes theme-source notifications. The receive happens without the
// state lock; each notification is then handled with the lock held.
type Watcher struct {
	store  *state.Store
	themes platform.ThemeSource
	out    *protocol.Writer
	logger *log.Logger
}

// New returns a watcher over themes.
func New(store *state.Store, themes platform.ThemeSource, out *protocol.Writer, logger *log.Logger) *Watcher {
	return &Watcher{
		store:  store,
		themes: themes,
		out:    out,
		logger: logger.With("component", "watcher"),
	}
}

// Run blocks until the session ends. It returns the error that ended it, or
// nil when the theme source was closed or another worker shut down first.
func (w *Watcher) Run() error {
	for ev := range w.themes.Events() {
		stop, err := w.handle(ev)
		if stop {
			return err
		}
	}
	w.logger.Debug("theme source closed")
	return nil
}

func (w *Watcher) handle(ev platform.Event) (stop bool, err error) {
	w.store.WithLock(func(c *state.Config) {
		if !c.Valid() {
			stop = true
			return
		}
		if ev.Err != nil {
			err = ev.Err
		} else {
			switch ev.Kind {
			case platform.PreferenceChanged:
				err = w.preferenceChanged(c)
			case platform.AccentChanged:
				w.logger.Debug("accent changed", "opaque", ev.Accent.Opaque, "rgba", ev.Accent.RGBA)
				w.out.Broadcast(protocol.BroadcastAccentChange, protocol.FormatAccent(ev.Accent.Opaque, ev.Accent.RGBA))
			}
		}
		if err != nil {
			stop = true
			w.logger.Error("theme notification failed", "err", err)
			w.out.Errorf("%v", err)
			c.Invalidate()
			w.store.NotifyChanged()
		}
	})
	return stop, err
}

func (w *Watcher) preferenceChanged(c *state.Config) error {
	dark, err := w.themes.DarkMode()
	if err != nil {
		return err
	}
	if dark == c.DarkMode {
		return nil
	}

	w.logger.Info("theme changed", "dark", dark)
	c.DarkMode = dark
	c.Mark(state.Changes{DarkMode: true})
	w.out.Broadcast(protocol.BroadcastThemeChange, protocol.Bool(dark))
	w.store.NotifyChanged()
	return nil
}
