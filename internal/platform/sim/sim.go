// Package sim is a portable platform backend. The theme preference comes from
// a TOML file watched with fsnotify, and decoration calls are recorded and
// logged instead of reaching a window manager.
package sim

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/five82/framekeeper/internal/platform"
	"github.com/five82/framekeeper/internal/state"
)

// DefaultBuild is reported when Options.Build is zero.
const DefaultBuild uint32 = state.SystemBackdropBuild

// Options configure the simulated backend.
type Options struct {
	ThemeFile string
	Build     uint32
	Logger    *log.Logger
}

// Call is one recorded decoration call.
type Call struct {
	Op     string
	Window state.Window
	Value  string
}

func (c Call) String() string {
	return fmt.Sprintf("%s(%#x, %s)", c.Op, uintptr(c.Window), c.Value)
}

// Backend implements platform.Backend without touching the OS.
type Backend struct {
	opts   Options
	logger *log.Logger

	mu     sync.Mutex
	calls  []Call
	closed map[state.Window]bool
}

var _ platform.Backend = (*Backend)(nil)

// New returns a simulated backend.
func New(opts Options) *Backend {
	if opts.Build == 0 {
		opts.Build = DefaultBuild
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Backend{
		opts:   opts,
		logger: logger.With("component", "sim"),
		closed: make(map[state.Window]bool),
	}
}

func (b *Backend) Name() string { return "sim" }

func (b *Backend) Build() (uint32, error) { return b.opts.Build, nil }

// FindWindow derives a stable handle from pid. Any non-empty class matches.
func (b *Backend) FindWindow(pid uint32, class string) (state.Window, error) {
	if strings.TrimSpace(class) == "" {
		return state.InvalidWindow, platform.ErrWindowNotFound
	}
	return state.Window(uint64(pid)<<8 | 0x1), nil
}

// OpenThemeSource starts watching the theme file.
func (b *Backend) OpenThemeSource() (platform.ThemeSource, error) {
	return openThemeSource(b.opts.ThemeFile, b.logger)
}

// DestroyWindow makes IsWindow report false for w, as if the host closed it.
func (b *Backend) DestroyWindow(w state.Window) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed[w] = true
}

func (b *Backend) IsWindow(w state.Window) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return w != state.InvalidWindow && !b.closed[w]
}

func (b *Backend) ExtendFrame(w state.Window, enabled bool) error {
	return b.record("ExtendFrame", w, fmt.Sprint(enabled))
}

func (b *Backend) SetDarkMode(w state.Window, dark bool) error {
	return b.record("SetDarkMode", w, fmt.Sprint(dark))
}

func (b *Backend) SetBackdrop(w state.Window, backdrop state.Backdrop) error {
	if state.ClassifyBuild(b.opts.Build) != state.CapabilityFull {
		return platform.Wrap("SetBackdrop", fmt.Errorf("attribute not supported on build %d", b.opts.Build))
	}
	return b.record("SetBackdrop", w, backdrop.String())
}

func (b *Backend) SetMica(w state.Window, enabled bool) error {
	return b.record("SetMica", w, fmt.Sprint(enabled))
}

// Calls returns the decoration calls made so far.
func (b *Backend) Calls() []Call {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Call, len(b.calls))
	copy(out, b.calls)
	return out
}

func (b *Backend) record(op string, w state.Window, value string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if w == state.InvalidWindow || b.closed[w] {
		return platform.Wrap(op, fmt.Errorf("invalid window handle %#x", uintptr(w)))
	}
	call := Call{Op: op, Window: w, Value: value}
	b.calls = append(b.calls, call)
	b.logger.Info("decoration", "call", call.String())
	return nil
}
