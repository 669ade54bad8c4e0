package apply

import (
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/five82/framekeeper/internal/platform/platformtest"
	"github.com/five82/framekeeper/internal/protocol/protocoltest"
	"github.com/five82/framekeeper/internal/state"
)

type fixture struct {
	store *state.Store
	deco  *platformtest.Decorator
	out   *protocoltest.Recorder
	done  chan error
}

// start seeds the store with fn before the engine runs so that every change
// lands in a single apply pass.
func start(t *testing.T, build uint32, fn func(c *state.Config)) *fixture {
	t.Helper()
	f := &fixture{
		store: state.New(7, 0x100, false),
		deco:  platformtest.NewDecorator(),
		done:  make(chan error, 1),
	}
	writer, rec := protocoltest.NewWriter()
	f.out = rec
	if fn != nil {
		f.store.WithLock(fn)
	}

	e := New(f.store, f.deco, build, writer, log.New(io.Discard))
	go func() { f.done <- e.Run() }()
	return f
}

func (f *fixture) calls(t *testing.T, n int) []string {
	t.Helper()
	calls, ok := f.deco.WaitForCalls(n, 2*time.Second)
	if !ok {
		t.Fatalf("got calls %q, want %d", calls, n)
	}
	return calls
}

func (f *fixture) wait(t *testing.T) error {
	t.Helper()
	select {
	case err := <-f.done:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("engine did not return")
	}
	return nil
}

func (f *fixture) shutdown(t *testing.T) error {
	t.Helper()
	f.store.Shutdown(nil)
	return f.wait(t)
}

func TestEngine_AppliesBorderBeforeBackdrop(t *testing.T) {
	f := start(t, state.SystemBackdropBuild, func(c *state.Config) {
		c.ExtendBorder = true
		c.Backdrop = state.BackdropMica
		c.Mark(state.Changes{Backdrop: true, ExtendBorder: true})
	})

	calls := f.calls(t, 2)
	want := []string{"ExtendFrame(true)", "SetBackdrop(mica)"}
	if strings.Join(calls, ",") != strings.Join(want, ",") {
		t.Fatalf("calls = %q, want %q", calls, want)
	}
	if !f.store.Snapshot().Pending.Empty() {
		t.Fatal("pending changes not cleared after apply")
	}
	if err := f.shutdown(t); err != nil {
		t.Fatalf("Run returned %v", err)
	}
}

func TestEngine_FixedOrderForAllChanges(t *testing.T) {
	f := start(t, state.SystemBackdropBuild, func(c *state.Config) {
		c.DarkMode = true
		c.Backdrop = state.BackdropTabbed
		c.Mark(state.Changes{DarkMode: true, Backdrop: true, ExtendBorder: true})
	})

	calls := f.calls(t, 3)
	want := []string{"ExtendFrame(false)", "SetDarkMode(true)", "SetBackdrop(tabbed)"}
	if strings.Join(calls, ",") != strings.Join(want, ",") {
		t.Fatalf("calls = %q, want %q", calls, want)
	}
	_ = f.shutdown(t)
	if lines := f.out.Lines(); len(lines) != 0 {
		t.Fatalf("unexpected output %q", lines)
	}
}

func TestEngine_LaterChangesWakeTheEngine(t *testing.T) {
	f := start(t, state.SystemBackdropBuild, nil)

	f.store.WithLock(func(c *state.Config) {
		c.DarkMode = true
		c.Mark(state.Changes{DarkMode: true})
		f.store.NotifyChanged()
	})
	f.calls(t, 1)

	f.store.WithLock(func(c *state.Config) {
		c.ExtendBorder = true
		c.Mark(state.Changes{ExtendBorder: true})
		f.store.NotifyChanged()
	})
	calls := f.calls(t, 2)
	if calls[0] != "SetDarkMode(true)" || calls[1] != "ExtendFrame(true)" {
		t.Fatalf("calls = %q", calls)
	}
	_ = f.shutdown(t)
}

func TestEngine_MicaOnlyBuild(t *testing.T) {
	tests := []struct {
		name     string
		backdrop state.Backdrop
		call     string
		output   string
	}{
		{"mica uses legacy toggle", state.BackdropMica, "SetMica(true)", ""},
		{"none clears legacy toggle", state.BackdropNone, "SetMica(false)", ""},
		{"default clears legacy toggle", state.BackdropDefault, "SetMica(false)", ""},
		{"acrylic is reported", state.BackdropAcrylic, "", "-1 error unsupported windows version for backdrop type 3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := start(t, state.MicaOnlyBuild, func(c *state.Config) {
				c.Backdrop = tt.backdrop
				c.Mark(state.Changes{Backdrop: true})
			})

			if tt.call != "" {
				if calls := f.calls(t, 1); calls[0] != tt.call {
					t.Fatalf("calls = %q, want %q", calls, tt.call)
				}
			} else {
				lines, ok := f.out.WaitForLines(1, 2*time.Second)
				if !ok || lines[0] != tt.output {
					t.Fatalf("output = %q, want %q", lines, tt.output)
				}
			}

			if err := f.shutdown(t); err != nil {
				t.Fatalf("Run returned %v; unsupported backdrops must not be fatal", err)
			}
			if tt.call == "" && len(f.deco.Calls()) != 0 {
				t.Fatalf("calls = %q, want none", f.deco.Calls())
			}
		})
	}
}

func TestEngine_NoBackdropSupport(t *testing.T) {
	f := start(t, state.MinimumBuild, func(c *state.Config) {
		c.Backdrop = state.BackdropDefault
		c.DarkMode = true
		c.Mark(state.Changes{Backdrop: true, DarkMode: true})
	})
	if calls := f.calls(t, 1); calls[0] != "SetDarkMode(true)" {
		t.Fatalf("calls = %q", calls)
	}
	_ = f.shutdown(t)
	if lines := f.out.Lines(); len(lines) != 0 {
		t.Fatalf("default backdrop on an old build produced %q", lines)
	}
}

func TestEngine_DecorationFailureShutsDown(t *testing.T) {
	deco := platformtest.NewDecorator()
	deco.Fail("SetDarkMode", errors.New("The parameter is incorrect."))

	store := state.New(7, 0x100, true)
	store.WithLock(func(c *state.Config) {
		c.ExtendBorder = true
		c.Mark(state.Changes{DarkMode: true, ExtendBorder: true, Backdrop: true})
	})
	writer, out := protocoltest.NewWriter()

	err := New(store, deco, state.SystemBackdropBuild, writer, log.New(io.Discard)).Run()
	if err == nil {
		t.Fatal("Run returned nil, want decoration error")
	}
	if lines := out.Lines(); len(lines) != 1 || lines[0] != "-1 error SetDarkMode: The parameter is incorrect." {
		t.Fatalf("output = %q", lines)
	}
	if calls := deco.Calls(); len(calls) != 1 || calls[0] != "ExtendFrame(true)" {
		t.Fatalf("calls = %q, want only the border extension before the failure", calls)
	}
	if store.Snapshot().Valid() {
		t.Fatal("store still valid after failure")
	}
}

func TestEngine_ReturnsOnShutdownWhileIdle(t *testing.T) {
	f := start(t, state.SystemBackdropBuild, nil)
	time.Sleep(10 * time.Millisecond)
	if err := f.shutdown(t); err != nil {
		t.Fatalf("Run returned %v", err)
	}
	if len(f.deco.Calls()) != 0 {
		t.Fatalf("calls = %q, want none", f.deco.Calls())
	}
}
