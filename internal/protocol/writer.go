package protocol

import (
	"bufio"
	"fmt"
	"io"
	"sync"
)

// Writer serializes protocol lines onto a single output stream. Whole lines are
// written and flushed under one mutex so concurrent workers never interleave.
type Writer struct {
	mu     sync.Mutex
	out    *bufio.Writer
	sealed bool
	err    error
}

// NewWriter wraps w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{out: bufio.NewWriterSize(w, MaxLineSize)}
}

// Respond writes a reply correlated to serial.
func (w *Writer) Respond(serial, status, message string) {
	w.writeLine(FormatResponse(serial, status, message))
}

// Respondf writes a reply with a formatted message.
func (w *Writer) Respondf(serial, status, format string, args ...any) {
	w.Respond(serial, status, fmt.Sprintf(format, args...))
}

// Broadcast writes an unsolicited message.
func (w *Writer) Broadcast(typ, content string) {
	w.writeLine(FormatBroadcast(typ, content))
}

// Errorf broadcasts an error message.
func (w *Writer) Errorf(format string, args ...any) {
	w.Broadcast(BroadcastError, fmt.Sprintf(format, args...))
}

// Seal drops every line written afterwards.
func (w *Writer) Seal() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.sealed = true
}

// Err returns the first write error, if any. Once a write fails, further
// output is discarded.
func (w *Writer) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.err
}

func (w *Writer) writeLine(line string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.sealed || w.err != nil {
		return
	}
	if _, err := w.out.WriteString(line); err != nil {
		w.err = err
		return
	}
	if err := w.out.WriteByte('\n'); err != nil {
		w.err = err
		return
	}
	if err := w.out.Flush(); err != nil {
		w.err = err
	}
}
