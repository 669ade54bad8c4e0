package state

import (
	"testing"
	"time"
)

const testWindow Window = 0x1234

func waitDone(t *testing.T, done <-chan struct{}, what string) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for %s", what)
	}
}

func TestStore_WithLockReleasesOnPanic(t *testing.T) {
	s := New(1, testWindow, false)

	func() {
		defer func() { _ = recover() }()
		s.WithLock(func(c *Config) { panic("boom") })
	}()

	done := make(chan struct{})
	go func() {
		s.WithLock(func(c *Config) {})
		close(done)
	}()
	waitDone(t, done, "lock after panic")
}

func TestStore_WaitWakesOnPendingChange(t *testing.T) {
	s := New(1, testWindow, false)

	got := make(chan Changes, 1)
	go func() {
		s.WithLock(func(c *Config) {
			s.WaitForChangeOrInvalid(c)
			got <- c.Pending
		})
	}()

	// Give the waiter a chance to park; the result is the same either way.
	time.Sleep(10 * time.Millisecond)
	s.WithLock(func(c *Config) {
		c.Backdrop = BackdropMica
		c.Mark(Changes{Backdrop: true})
		s.NotifyChanged()
	})

	select {
	case pending := <-got:
		if !pending.Backdrop || pending.DarkMode || pending.ExtendBorder {
			t.Fatalf("Pending = %v, want backdrop only", pending)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("waiter never woke")
	}
}

func TestStore_WaitReturnsImmediatelyWhenPending(t *testing.T) {
	s := New(1, testWindow, true)
	s.WithLock(func(c *Config) { c.Mark(Changes{DarkMode: true}) })

	done := make(chan struct{})
	go func() {
		s.WithLock(func(c *Config) { s.WaitForChangeOrInvalid(c) })
		close(done)
	}()
	waitDone(t, done, "wait with pending changes")
}

func TestStore_ShutdownWakesWaitersOnce(t *testing.T) {
	s := New(1, testWindow, false)

	const waiters = 3
	valid := make(chan bool, waiters)
	for i := 0; i < waiters; i++ {
		go func() {
			s.WithLock(func(c *Config) {
				s.WaitForChangeOrInvalid(c)
				valid <- c.Valid()
			})
		}()
	}
	time.Sleep(10 * time.Millisecond)

	released := 0
	if !s.Shutdown(func() { released++ }) {
		t.Fatal("first Shutdown() = false, want true")
	}
	if s.Shutdown(func() { released++ }) {
		t.Fatal("second Shutdown() = true, want false")
	}
	if released != 1 {
		t.Fatalf("release ran %d times, want 1", released)
	}

	for i := 0; i < waiters; i++ {
		select {
		case v := <-valid:
			if v {
				t.Fatal("waiter saw a valid window after shutdown")
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("waiter %d never woke", i)
		}
	}
}

func TestStore_ShutdownReleasesAfterWorkerInvalidated(t *testing.T) {
	s := New(1, testWindow, false)
	s.WithLock(func(c *Config) { c.Invalidate() })

	released := 0
	if s.Shutdown(func() { released++ }) {
		t.Fatal("Shutdown() = true for an already invalid window")
	}
	s.Shutdown(func() { released++ })
	if released != 1 {
		t.Fatalf("release ran %d times, want 1", released)
	}
}

func TestStore_SnapshotReportsValidity(t *testing.T) {
	s := New(1, testWindow, false)
	if !s.Snapshot().Valid() {
		t.Fatal("Snapshot().Valid() = false for a new store")
	}
	s.Shutdown(nil)
	if s.Snapshot().Valid() {
		t.Fatal("Snapshot().Valid() = true after Shutdown")
	}
}

func TestConfig_MarkIgnoredAfterInvalidate(t *testing.T) {
	s := New(1, testWindow, false)
	s.WithLock(func(c *Config) {
		if !c.Invalidate() {
			t.Fatal("Invalidate() = false, want true")
		}
		c.Mark(Changes{DarkMode: true, Backdrop: true})
	})

	snap := s.Snapshot()
	if !snap.Pending.Empty() {
		t.Fatalf("Pending = %v after invalidate, want none", snap.Pending)
	}
	if snap.Valid() {
		t.Fatal("Valid() = true after invalidate")
	}
}

func TestChanges(t *testing.T) {
	var c Changes
	if !c.Empty() || c.String() != "none" {
		t.Fatalf("zero Changes = %v, want empty", c)
	}
	c = c.Union(Changes{Backdrop: true}).Union(Changes{ExtendBorder: true})
	if c.Empty() {
		t.Fatal("Empty() = true after union")
	}
	if got := c.String(); got != "extend-border,backdrop" {
		t.Fatalf("String() = %q, want %q", got, "extend-border,backdrop")
	}
}
