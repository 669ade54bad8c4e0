//go:build windows

package winapi

import (
	"sync"

	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"

	"github.com/five82/framekeeper/internal/platform"
)

const (
	personalizeKey = `SOFTWARE\Microsoft\Windows\CurrentVersion\Themes\Personalize`
	dwmKey         = `SOFTWARE\Microsoft\Windows\DWM`
	lightThemeName = "AppsUseLightTheme"
)

// themeSource watches the personalization key for the light/dark preference
// and the DWM key for colorization (accent) changes.
type themeSource struct {
	personalize registry.Key
	dwm         registry.Key

	prefChanged   windows.Handle
	accentChanged windows.Handle
	quit          windows.Handle

	events chan platform.Event
	done   chan struct{}
	once   sync.Once

	mu     sync.Mutex
	closed bool

	// owned by pump
	lastAccent platform.Accent
}

func openThemeSource() (_ *themeSource, err error) {
	s := &themeSource{
		events: make(chan platform.Event),
		done:   make(chan struct{}),
	}
	defer func() {
		if err != nil {
			s.release()
		}
	}()

	s.personalize, err = registry.OpenKey(registry.CURRENT_USER, personalizeKey, registry.QUERY_VALUE|registry.NOTIFY)
	if err != nil {
		return nil, platform.Wrap("RegOpenKeyEx", err)
	}
	s.dwm, err = registry.OpenKey(registry.CURRENT_USER, dwmKey, registry.NOTIFY)
	if err != nil {
		return nil, platform.Wrap("RegOpenKeyEx", err)
	}
	for _, h := range []*windows.Handle{&s.prefChanged, &s.accentChanged, &s.quit} {
		*h, err = windows.CreateEvent(nil, 0, 0, nil)
		if err != nil {
			return nil, platform.Wrap("CreateEvent", err)
		}
	}
	if s.lastAccent, err = colorizationColor(); err != nil {
		return nil, err
	}
	if err = s.arm(s.personalize, s.prefChanged); err != nil {
		return nil, err
	}
	if err = s.arm(s.dwm, s.accentChanged); err != nil {
		return nil, err
	}

	go s.pump()
	return s, nil
}

func (s *themeSource) DarkMode() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false, platform.ErrClosed
	}
	value, typ, err := s.personalize.GetIntegerValue(lightThemeName)
	if err != nil {
		return false, platform.Wrap("RegQueryValueEx", err)
	}
	if typ != registry.DWORD {
		return false, platform.Wrap("RegQueryValueEx", windows.ERROR_INVALID_PARAMETER)
	}
	return value == 0, nil
}

func (s *themeSource) Accent() (platform.Accent, error) {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return platform.Accent{}, platform.ErrClosed
	}
	return colorizationColor()
}

func (s *themeSource) Events() <-chan platform.Event {
	return s.events
}

// Close signals the pump, which releases the keys and handles once it stops
// using them.
func (s *themeSource) Close() error {
	var err error
	s.once.Do(func() {
		close(s.done)
		s.mu.Lock()
		defer s.mu.Unlock()
		s.closed = true
		if s.quit != 0 {
			err = windows.SetEvent(s.quit)
		}
	})
	return err
}

func (s *themeSource) pump() {
	defer s.release()
	defer close(s.events)

	handles := []windows.Handle{s.quit, s.prefChanged, s.accentChanged}
	for {
		idx, err := windows.WaitForMultipleObjects(handles, false, windows.INFINITE)
		if err != nil {
			s.send(platform.Event{Err: platform.Wrap("WaitForMultipleObjects", err)})
			return
		}

		switch idx - windows.WAIT_OBJECT_0 {
		case 0:
			return
		case 1:
			if !s.send(platform.Event{Kind: platform.PreferenceChanged}) {
				return
			}
			if err := s.arm(s.personalize, s.prefChanged); err != nil {
				s.send(platform.Event{Err: err})
				return
			}
		case 2:
			accent, err := colorizationColor()
			if err != nil {
				s.send(platform.Event{Err: err})
				return
			}
			if accent != s.lastAccent {
				s.lastAccent = accent
				if !s.send(platform.Event{Kind: platform.AccentChanged, Accent: accent}) {
					return
				}
			}
			if err := s.arm(s.dwm, s.accentChanged); err != nil {
				s.send(platform.Event{Err: err})
				return
			}
		}
	}
}

func (s *themeSource) arm(key registry.Key, event windows.Handle) error {
	err := windows.RegNotifyChangeKeyValue(windows.Handle(key), false, windows.REG_NOTIFY_CHANGE_LAST_SET, event, true)
	return platform.Wrap("RegNotifyChangeKeyValue", err)
}

func (s *themeSource) send(ev platform.Event) bool {
	select {
	case s.events <- ev:
		return true
	case <-s.done:
		return false
	}
}

func (s *themeSource) release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.personalize != 0 {
		_ = s.personalize.Close()
		s.personalize = 0
	}
	if s.dwm != 0 {
		_ = s.dwm.Close()
		s.dwm = 0
	}
	for _, h := range []*windows.Handle{&s.prefChanged, &s.accentChanged, &s.quit} {
		if *h != 0 {
			_ = windows.CloseHandle(*h)
			*h = 0
		}
	}
}
