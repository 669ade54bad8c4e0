package sim

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/five82/framekeeper/internal/platform"
	"github.com/five82/framekeeper/internal/themefile"
)

type themeSource struct {
	path    string
	logger  *log.Logger
	watcher *fsnotify.Watcher

	events chan platform.Event
	done   chan struct{}
	once   sync.Once

	mu     sync.Mutex
	closed bool

	// owned by pump
	lastAccent platform.Accent
}

func openThemeSource(path string, logger *log.Logger) (*themeSource, error) {
	if path == "" {
		return nil, errors.New("theme file not configured")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve theme file: %w", err)
	}

	theme, err := themefile.Load(abs)
	if err != nil {
		return nil, platform.Wrap("themefile.Load", err)
	}
	accent, err := accentOf(theme)
	if err != nil {
		return nil, platform.Wrap("themefile.Load", err)
	}

	dir := filepath.Dir(abs)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create theme dir: %w", err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, platform.Wrap("fsnotify.NewWatcher", err)
	}
	// Watch the directory: editors and themefile.Save replace the file.
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return nil, platform.Wrap("fsnotify.Add", err)
	}

	s := &themeSource{
		path:       abs,
		logger:     logger,
		watcher:    watcher,
		events:     make(chan platform.Event),
		done:       make(chan struct{}),
		lastAccent: accent,
	}
	go s.pump()
	return s, nil
}

func (s *themeSource) DarkMode() (bool, error) {
	theme, err := s.load()
	if err != nil {
		return false, err
	}
	return theme.DarkMode, nil
}

func (s *themeSource) Accent() (platform.Accent, error) {
	theme, err := s.load()
	if err != nil {
		return platform.Accent{}, err
	}
	accent, err := accentOf(theme)
	if err != nil {
		return platform.Accent{}, platform.Wrap("themefile.Load", err)
	}
	return accent, nil
}

func (s *themeSource) Events() <-chan platform.Event {
	return s.events
}

func (s *themeSource) Close() error {
	s.once.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()
		close(s.done)
	})
	return nil
}

func (s *themeSource) load() (themefile.Theme, error) {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return themefile.Theme{}, platform.ErrClosed
	}
	theme, err := themefile.Load(s.path)
	if err != nil {
		return themefile.Theme{}, platform.Wrap("themefile.Load", err)
	}
	return theme, nil
}

func (s *themeSource) pump() {
	defer close(s.events)
	defer func() { _ = s.watcher.Close() }()

	for {
		select {
		case <-s.done:
			return
		case ev, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != s.path || ev.Op == fsnotify.Chmod {
				continue
			}
			s.logger.Debug("theme file changed", "op", ev.Op.String())
			if !s.send(platform.Event{Kind: platform.PreferenceChanged}) {
				return
			}
			if !s.sendAccentChange() {
				return
			}
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.send(platform.Event{Err: platform.Wrap("fsnotify", err)})
			return
		}
	}
}

// sendAccentChange reports the accent when it differs from the last one seen.
// Read failures are left to the preference path, which re-reads the file.
func (s *themeSource) sendAccentChange() bool {
	theme, err := themefile.Load(s.path)
	if err != nil {
		return true
	}
	accent, err := accentOf(theme)
	if err != nil || accent == s.lastAccent {
		return true
	}
	s.lastAccent = accent
	return s.send(platform.Event{Kind: platform.AccentChanged, Accent: accent})
}

func (s *themeSource) send(ev platform.Event) bool {
	select {
	case s.events <- ev:
		return true
	case <-s.done:
		return false
	}
}

func accentOf(theme themefile.Theme) (platform.Accent, error) {
	rgba, err := theme.RGBA()
	if err != nil {
		return platform.Accent{}, err
	}
	return platform.Accent{Opaque: theme.Opaque, RGBA: rgba}, nil
}
