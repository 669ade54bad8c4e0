//go:build windows

package protocol

import (
	"io"
	"os"

	"golang.org/x/sys/windows"
)

// interruptible reports whether r is a console stdin. For any stdin,
// cancelreader reads CONIN$ instead of the handle, which would bypass a pipe
// from the host.
func interruptible(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok || f != os.Stdin {
		return true
	}
	var mode uint32
	return windows.GetConsoleMode(windows.Handle(f.Fd()), &mode) == nil
}
