//go:build windows

// Package winapi is the native Windows backend: DWM attributes, window
// enumeration and the registry-backed theme preference.
package winapi

import (
	"golang.org/x/sys/windows"

	"github.com/five82/framekeeper/internal/platform"
	"github.com/five82/framekeeper/internal/state"
)

// maxClassName bounds window class names, terminator included.
const maxClassName = 512

// Backend implements platform.Backend with Win32 calls.
type Backend struct{}

var _ platform.Backend = (*Backend)(nil)

// New returns the native backend.
func New() *Backend {
	return &Backend{}
}

func (b *Backend) Name() string { return "windows" }

// Build reads the real build number; GetVersionEx lies to unmanifested
// processes.
func (b *Backend) Build() (uint32, error) {
	return windows.RtlGetVersion().BuildNumber, nil
}

// FindWindow enumerates top-level windows for one owned by pid with the given
// class. Each call allocates a callback slot, so it is meant to run once at
// startup.
func (b *Backend) FindWindow(pid uint32, class string) (state.Window, error) {
	var found windows.HWND
	buf := make([]uint16, maxClassName)

	cb := windows.NewCallback(func(hwnd windows.HWND, _ uintptr) uintptr {
		var owner uint32
		if _, err := windows.GetWindowThreadProcessId(hwnd, &owner); err != nil || owner != pid {
			return 1
		}
		n, err := windows.GetClassName(hwnd, &buf[0], int32(len(buf)))
		if err != nil {
			return 1
		}
		if windows.UTF16ToString(buf[:n]) == class {
			found = hwnd
			return 0
		}
		return 1
	})

	// Stopping the enumeration early makes EnumWindows report failure, so the
	// match is checked first.
	err := windows.EnumWindows(cb, nil)
	if found != 0 {
		return state.Window(found), nil
	}
	if err != nil {
		return state.InvalidWindow, platform.Wrap("EnumWindows", err)
	}
	return state.InvalidWindow, platform.ErrWindowNotFound
}

func (b *Backend) OpenThemeSource() (platform.ThemeSource, error) {
	return openThemeSource()
}
