package protocol

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/muesli/cancelreader"
)

// ErrLineTooLong reports a line that exceeded MaxLineSize. The offending line
// has been consumed; the next read starts after it.
var ErrLineTooLong = fmt.Errorf("line exceeds %d bytes", MaxLineSize)

// LineReader reads newline-terminated protocol lines from the host. A pending
// read can be abandoned with Cancel, which makes it report end of input.
type LineReader struct {
	cr  cancelreader.CancelReader
	buf *bufio.Reader

	once sync.Once
}

// NewLineReader wraps r. When r is a file that supports it (stdin pipes and
// consoles), Cancel interrupts a read that is already blocked. Files the OS
// cannot poll, such as redirected regular files, and piped stdin on Windows get
// a reader whose Cancel only affects the next read.
func NewLineReader(r io.Reader) (*LineReader, error) {
	if !interruptible(r) {
		r = struct{ io.Reader }{r}
	}
	cr, err := cancelreader.NewReader(r)
	if err != nil {
		// Hiding the file methods selects the generic implementation.
		cr, err = cancelreader.NewReader(struct{ io.Reader }{r})
		if err != nil {
			return nil, fmt.Errorf("wrap input: %w", err)
		}
	}
	return &LineReader{
		cr:  cr,
		buf: bufio.NewReaderSize(cr, MaxLineSize),
	}, nil
}

// ReadLine returns the next line without its terminator. A final unterminated
// line is returned before io.EOF. Cancellation is reported as io.EOF.
func (l *LineReader) ReadLine() (string, error) {
	line, err := l.buf.ReadSlice('\n')
	switch {
	case err == nil:
		return trimTerminator(line), nil
	case errors.Is(err, bufio.ErrBufferFull):
		l.discardRest()
		return "", ErrLineTooLong
	case errors.Is(err, cancelreader.ErrCanceled):
		return "", io.EOF
	case errors.Is(err, io.EOF) && len(line) > 0:
		return trimTerminator(line), nil
	default:
		return "", err
	}
}

// Cancel unblocks a pending ReadLine. Only the first call has an effect; it
// reports whether the underlying reader could interrupt an in-flight read.
func (l *LineReader) Cancel() bool {
	interrupted := false
	l.once.Do(func() {
		interrupted = l.cr.Cancel()
	})
	return interrupted
}

// Close releases the cancellation resources. It does not close the wrapped
// reader.
func (l *LineReader) Close() error {
	return l.cr.Close()
}

func (l *LineReader) discardRest() {
	for {
		_, err := l.buf.ReadSlice('\n')
		if !errors.Is(err, bufio.ErrBufferFull) {
			return
		}
	}
}

func trimTerminator(line []byte) string {
	s := strings.TrimSuffix(string(line), "\n")
	return strings.TrimSuffix(s, "\r")
}
