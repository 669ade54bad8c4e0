// Package instance keeps two helpers from decorating the same window.
package instance

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrLocked reports that another process already holds the lock.
var ErrLocked = errors.New("already locked")

// Lock is a held per-window lock.
type Lock struct {
	fl *flock.Flock
}

// Path names the lock file for a window owned by pid.
func Path(dir string, pid uint32, window uintptr) string {
	return filepath.Join(dir, fmt.Sprintf("framekeeper-%d-%x.lock", pid, window))
}

// Acquire takes the lock for a window without waiting. It returns ErrLocked
// when another live process holds it.
func Acquire(dir string, pid uint32, window uintptr) (*Lock, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}

	fl := flock.New(Path(dir, pid, window))
	locked, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !locked {
		return nil, ErrLocked
	}
	return &Lock{fl: fl}, nil
}

// Release drops the lock. The file is left behind for the next holder.
func (l *Lock) Release() error {
	if l == nil {
		return nil
	}
	return l.fl.Unlock()
}
