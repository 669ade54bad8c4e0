// Package state holds the single mutable record shared by framekeeper's
// workers.
//
// # Overview
//
// A Store owns one Config describing the decorated window: its owner's pid,
// the window handle, the last known dark-mode preference, the requested
// border extension and backdrop, and the set of pending changes that have not
// yet been applied to the window.
//
// Every field is read and written only inside Store.WithLock. There is no
// other accessor for the live record; Snapshot returns a copy for tests and
// logging.
//
// # Workers
//
//	Command reader ──┐                       ┌──> decoration calls
//	                 ├─> Config.Mark() ──────┤
//	Theme watcher  ──┘   NotifyChanged()     └── apply engine
//	                                              WaitForChangeOrInvalid()
//
// The apply engine is the only goroutine that clears Pending. It parks in
// WaitForChangeOrInvalid, which releases the lock while waiting (sync.Cond).
// Writers call NotifyChanged while still holding the lock so the apply engine
// sees their changes as soon as it reacquires it.
//
// # Shutdown
//
// The window handle turns invalid exactly once. After that Mark is a no-op,
// WaitForChangeOrInvalid returns immediately, and every worker stops the next
// time it takes the lock. A failing worker invalidates directly; the
// orchestrator then calls Store.Shutdown, which runs its release hook under
// the lock once (the theme source is closed there) and wakes every waiter.
//
// # Capabilities
//
// ClassifyBuild turns an OS build number into a Capability. The command
// reader uses it to reject backdrops the OS cannot show and the apply engine
// uses it to pick the attribute to set, so the build thresholds live in one
// place.
package state
