// Package protocoltest captures protocol output in tests.
package protocoltest

import (
	"bytes"
	"strings"
	"sync"
	"time"

	"github.com/five82/framekeeper/internal/protocol"
)

// Recorder is a goroutine-safe io.Writer that splits what it receives into
// protocol lines.
type Recorder struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

// NewWriter returns a protocol.Writer backed by a new Recorder.
func NewWriter() (*protocol.Writer, *Recorder) {
	r := &Recorder{}
	return protocol.NewWriter(r), r
}

func (r *Recorder) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.buf.Write(p)
}

// Lines returns the complete lines written so far.
func (r *Recorder) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.buf.String()
	if s == "" {
		return nil
	}
	lines := strings.Split(s, "\n")
	return lines[:len(lines)-1]
}

// WaitForLines polls until at least n lines were written.
func (r *Recorder) WaitForLines(n int, timeout time.Duration) ([]string, bool) {
	deadline := time.Now().Add(timeout)
	for {
		lines := r.Lines()
		if len(lines) >= n {
			return lines, true
		}
		if time.Now().After(deadline) {
			return lines, false
		}
		time.Sleep(5 * time.Millisecond)
	}
}
