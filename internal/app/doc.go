// Package app wires one framekeeper session together and runs it.
//
// # Overview
//
// Run is the composition root. It loads configuration, builds the logger,
// selects a platform backend and performs the startup checks. Only when all of
// them pass does it start the three workers that share a state.Store.
//
// # Startup
//
//  1. Load ~/.config/framekeeper/config.toml and apply flag overrides
//  2. Build the charmbracelet/log logger (stderr or log_file)
//  3. Open the backend: native on Windows, simulated otherwise or when asked
//  4. Reject OS builds below the oldest supported one
//  5. Find the window by owning process id and class name
//  6. Take the per-window instance lock when single_instance is set
//  7. Open the theme source, read the preference and mark it pending
//
// A failed step is reported to the host as a single error broadcast and no
// worker is started.
//
// # Workers
//
//	┌──────────┐   events    ┌─────────┐
//	│  theme   │────────────>│ watcher │──┐
//	│  source  │             └─────────┘  │ Mark + NotifyChanged
//	└──────────┘                          v
//	┌──────────┐   lines     ┌─────────┐ ┌───────┐ wait   ┌───────┐
//	│  stdin   │────────────>│ reader  │>│ Store │<───────│ apply │──> window
//	└──────────┘             └─────────┘ └───────┘        └───────┘
//
// Run broadcasts ready just before the workers start, so it is always the
// first line the host sees from a started session. Run then waits for the first
// worker to return or for ctx to end (SIGINT, SIGTERM).
//
// # Shutdown
//
// Shutdown invalidates the store and closes the theme source under the lock,
// then wakes the apply engine. The protocol writer is sealed so nothing is
// written after that point, and the pending stdin read is cancelled. Run waits
// for all three workers before releasing the instance lock. Errors from
// workers are joined and returned for logging; the host has already seen them
// as broadcasts.
package app
