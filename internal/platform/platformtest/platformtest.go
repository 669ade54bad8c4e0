// Package platformtest provides in-memory platform collaborators for tests.
package platformtest

import (
	"fmt"
	"sync"
	"time"

	"github.com/five82/framekeeper/internal/platform"
	"github.com/five82/framekeeper/internal/state"
)

// ThemeSource is a scripted platform.ThemeSource.
type ThemeSource struct {
	mu        sync.Mutex
	dark      bool
	accent    platform.Accent
	darkErr   error
	accentErr error
	darkReads int
	closes    int

	in     chan delivery
	events chan platform.Event
	done   chan struct{}
	once   sync.Once
}

var _ platform.ThemeSource = (*ThemeSource)(nil)

// NewThemeSource returns a source reporting dark.
func NewThemeSource(dark bool) *ThemeSource {
	s := &ThemeSource{
		dark:   dark,
		accent: platform.Accent{Opaque: true, RGBA: 0x0078d4ff},
		in:     make(chan delivery),
		events: make(chan platform.Event),
		done:   make(chan struct{}),
	}
	go s.pump()
	return s
}

type delivery struct {
	ev  platform.Event
	ack chan bool
}

func (s *ThemeSource) pump() {
	defer close(s.events)
	for {
		select {
		case d := <-s.in:
			select {
			case s.events <- d.ev:
				d.ack <- true
			case <-s.done:
				d.ack <- false
				return
			}
		case <-s.done:
			return
		}
	}
}

// SetDark changes the preference without notifying.
func (s *ThemeSource) SetDark(dark bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dark = dark
}

// SetAccent changes the accent without notifying.
func (s *ThemeSource) SetAccent(a platform.Accent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accent = a
}

// FailDarkMode makes DarkMode return err.
func (s *ThemeSource) FailDarkMode(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.darkErr = err
}

// FailAccent makes Accent return err.
func (s *ThemeSource) FailAccent(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accentErr = err
}

// Emit hands ev to the consumer and returns once it was received. It reports
// false when the source was closed first.
func (s *ThemeSource) Emit(ev platform.Event) bool {
	d := delivery{ev: ev, ack: make(chan bool, 1)}
	select {
	case s.in <- d:
		return <-d.ack
	case <-s.done:
		return false
	}
}

// DarkReads counts DarkMode calls.
func (s *ThemeSource) DarkReads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.darkReads
}

// Closes counts Close calls.
func (s *ThemeSource) Closes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closes
}

func (s *ThemeSource) DarkMode() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.darkReads++
	if s.darkErr != nil {
		return false, s.darkErr
	}
	return s.dark, nil
}

func (s *ThemeSource) Accent() (platform.Accent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.accentErr != nil {
		return platform.Accent{}, s.accentErr
	}
	return s.accent, nil
}

func (s *ThemeSource) Events() <-chan platform.Event {
	return s.events
}

func (s *ThemeSource) Close() error {
	s.mu.Lock()
	s.closes++
	s.mu.Unlock()
	s.once.Do(func() { close(s.done) })
	return nil
}

// Decorator records decoration calls as strings such as "SetDarkMode(true)".
type Decorator struct {
	mu     sync.Mutex
	calls  []string
	fail   map[string]error
	gone   bool
	onCall func(call string)
}

var _ platform.Decorator = (*Decorator)(nil)

// NewDecorator returns an empty recorder.
func NewDecorator() *Decorator {
	return &Decorator{fail: make(map[string]error)}
}

// Fail makes the named operation ("ExtendFrame", "SetDarkMode", "SetBackdrop",
// "SetMica") return err.
func (d *Decorator) Fail(op string, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.fail[op] = err
}

// Destroy makes IsWindow report false.
func (d *Decorator) Destroy() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.gone = true
}

// OnCall registers fn to run after each recorded call.
func (d *Decorator) OnCall(fn func(call string)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.onCall = fn
}

// Calls returns the calls recorded so far.
func (d *Decorator) Calls() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, len(d.calls))
	copy(out, d.calls)
	return out
}

// WaitForCalls polls until at least n calls were recorded.
func (d *Decorator) WaitForCalls(n int, timeout time.Duration) ([]string, bool) {
	deadline := time.Now().Add(timeout)
	for {
		calls := d.Calls()
		if len(calls) >= n {
			return calls, true
		}
		if time.Now().After(deadline) {
			return calls, false
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func (d *Decorator) IsWindow(w state.Window) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return w != state.InvalidWindow && !d.gone
}

func (d *Decorator) ExtendFrame(w state.Window, enabled bool) error {
	return d.record("ExtendFrame", enabled)
}

func (d *Decorator) SetDarkMode(w state.Window, dark bool) error {
	return d.record("SetDarkMode", dark)
}

func (d *Decorator) SetBackdrop(w state.Window, b state.Backdrop) error {
	return d.record("SetBackdrop", b)
}

func (d *Decorator) SetMica(w state.Window, enabled bool) error {
	return d.record("SetMica", enabled)
}

func (d *Decorator) record(op string, value any) error {
	d.mu.Lock()
	if err := d.fail[op]; err != nil {
		d.mu.Unlock()
		return platform.Wrap(op, err)
	}
	call := fmt.Sprintf("%s(%v)", op, value)
	d.calls = append(d.calls, call)
	onCall := d.onCall
	d.mu.Unlock()

	if onCall != nil {
		onCall(call)
	}
	return nil
}

// Backend combines a Decorator and a ThemeSource into a platform.Backend.
type Backend struct {
	*Decorator

	BuildNumber uint32
	Window      state.Window
	FindErr     error
	Themes      *ThemeSource
	OpenErr     error

	mu    sync.Mutex
	found []string
}

var _ platform.Backend = (*Backend)(nil)

// NewBackend returns a backend on a full-capability build with a window at
// 0x100 and a light theme.
func NewBackend() *Backend {
	return &Backend{
		Decorator:   NewDecorator(),
		BuildNumber: state.SystemBackdropBuild,
		Window:      0x100,
		Themes:      NewThemeSource(false),
	}
}

func (b *Backend) Name() string { return "test" }

func (b *Backend) Build() (uint32, error) { return b.BuildNumber, nil }

func (b *Backend) FindWindow(pid uint32, class string) (state.Window, error) {
	b.mu.Lock()
	b.found = append(b.found, fmt.Sprintf("%d/%s", pid, class))
	b.mu.Unlock()
	if b.FindErr != nil {
		return state.InvalidWindow, b.FindErr
	}
	return b.Window, nil
}

// Lookups returns the "pid/class" pairs passed to FindWindow.
func (b *Backend) Lookups() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.found...)
}

func (b *Backend) OpenThemeSource() (platform.ThemeSource, error) {
	if b.OpenErr != nil {
		return nil, b.OpenErr
	}
	return b.Themes, nil
}
