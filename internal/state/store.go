package state

import (
	"sync"
)

// Window identifies the decorated window. The zero value is invalid.
type Window uintptr

// InvalidWindow marks a store that has been shut down.
const InvalidWindow Window = 0

// Config is the shared record. It is only reachable inside Store.WithLock.
type Config struct {
	PID          uint32
	Window       Window
	DarkMode     bool
	ExtendBorder bool
	Backdrop     Backdrop
	Pending      Changes
}

// Valid reports whether the store is still serving its window.
func (c Config) Valid() bool {
	return c.Window != InvalidWindow
}

// Invalidate ends the session. It reports whether this call performed the
// transition; the window never becomes valid again.
func (c *Config) Invalidate() bool {
	if !c.Valid() {
		return false
	}
	c.Window = InvalidWindow
	return true
}

// Mark adds changes to the pending set. It is a no-op once the store is
// invalid.
func (c *Config) Mark(changes Changes) {
	if !c.Valid() {
		return
	}
	c.Pending = c.Pending.Union(changes)
}

// Store guards the shared Config with a mutex and a condition variable.
type Store struct {
	mu       sync.Mutex
	changed  *sync.Cond
	cfg      Config
	released bool
}

// New returns a store for window owned by pid.
func New(pid uint32, window Window, darkMode bool) *Store {
	s := &Store{cfg: Config{PID: pid, Window: window, DarkMode: darkMode}}
	s.changed = sync.NewCond(&s.mu)
	return s
}

// WithLock runs fn while holding the lock. The lock is released on every exit
// path, panics included.
func (s *Store) WithLock(fn func(c *Config)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.cfg)
}

// NotifyChanged wakes every goroutine parked in WaitForChangeOrInvalid.
func (s *Store) NotifyChanged() {
	s.changed.Broadcast()
}

// WaitForChangeOrInvalid blocks until c has pending changes or is invalid.
// It must be called from inside WithLock with the Config it was handed; the
// lock is released while waiting and held again on return.
func (s *Store) WaitForChangeOrInvalid(c *Config) {
	for c.Valid() && c.Pending.Empty() {
		s.changed.Wait()
	}
}

// Shutdown invalidates the window, runs release under the lock and wakes all
// waiters. It reports whether this call performed the transition. release runs
// on the first Shutdown call only, even when a worker invalidated the window
// before it.
func (s *Store) Shutdown(release func()) bool {
	var transitioned bool
	s.WithLock(func(c *Config) {
		transitioned = c.Invalidate()
		if !s.released {
			s.released = true
			if release != nil {
				release()
			}
		}
		s.NotifyChanged()
	})
	return transitioned
}

// Snapshot returns a copy of the current record.
func (s *Store) Snapshot() Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}
