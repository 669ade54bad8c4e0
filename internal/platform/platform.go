// Package platform declares the OS collaborators framekeeper drives: window
// lookup, decoration attributes and the theme-preference store.
//
// Implementations live in subpackages: winapi talks to the real OS on
// Windows, sim is a portable stand-in backed by a TOML file.
package platform

import (
	"errors"
	"fmt"

	"github.com/five82/framekeeper/internal/state"
)

var (
	// ErrWindowNotFound is returned when no window matches the pid and class.
	ErrWindowNotFound = errors.New("window not found")
	// ErrClosed is returned by a ThemeSource used after Close.
	ErrClosed = errors.New("theme source closed")
)

// Backend bundles everything framekeeper needs from the OS.
type Backend interface {
	Decorator

	// Name identifies the implementation in logs.
	Name() string
	// Build returns the OS build number.
	Build() (uint32, error)
	// FindWindow locates the top-level window of class owned by pid.
	FindWindow(pid uint32, class string) (state.Window, error)
	// OpenThemeSource opens the theme-preference store and starts change
	// notification.
	OpenThemeSource() (ThemeSource, error)
}

// Decorator writes window decoration attributes.
type Decorator interface {
	IsWindow(w state.Window) bool
	// ExtendFrame extends the frame into the whole client area when enabled
	// and resets the margins otherwise.
	ExtendFrame(w state.Window, enabled bool) error
	SetDarkMode(w state.Window, dark bool) error
	// SetBackdrop sets the system backdrop attribute.
	SetBackdrop(w state.Window, b state.Backdrop) error
	// SetMica toggles the legacy mica attribute of older builds.
	SetMica(w state.Window, enabled bool) error
}

// ThemeSource reads the OS theme preference and reports changes to it.
type ThemeSource interface {
	DarkMode() (bool, error)
	Accent() (Accent, error)
	// Events delivers change notifications. The channel is closed after
	// Close; an event carrying Err means notification stopped working.
	Events() <-chan Event
	// Close stops notification and releases the store. It does not wait for
	// the consumer of Events.
	Close() error
}

// Accent is the OS accent color.
type Accent struct {
	Opaque bool
	RGBA   uint32
}

// EventKind tells what changed.
type EventKind int

const (
	PreferenceChanged EventKind = iota
	AccentChanged
)

func (k EventKind) String() string {
	switch k {
	case PreferenceChanged:
		return "preference"
	case AccentChanged:
		return "accent"
	default:
		return fmt.Sprintf("event(%d)", int(k))
	}
}

// Event is a single change notification. Accent is set for AccentChanged.
type Event struct {
	Kind   EventKind
	Accent Accent
	Err    error
}

// OpError records the OS operation that failed.
type OpError struct {
	Op  string
	Err error
}

func (e *OpError) Error() string {
	if e.Err == nil {
		return e.Op + ": unknown error"
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *OpError) Unwrap() error { return e.Err }

// Wrap returns nil for a nil err and an *OpError otherwise.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &OpError{Op: op, Err: err}
}
