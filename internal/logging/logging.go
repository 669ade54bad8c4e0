// Package logging builds the diagnostic logger. Diagnostics never go to
// stdout, which carries the host protocol.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Options select the destination and verbosity.
type Options struct {
	Level string
	File  string
	// Output is used when File is empty; nil means stderr.
	Output io.Writer
}

// New returns a logger tagged with a fresh session id and a close function for
// the log file, if one was opened.
func New(opts Options) (*log.Logger, func() error, error) {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	closeFn := func() error { return nil }

	if path := strings.TrimSpace(opts.File); path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log dir: %w", err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		out = f
		closeFn = f.Close
	}

	logger := log.NewWithOptions(out, log.Options{
		Level:           ParseLevel(opts.Level),
		Prefix:          "framekeeper",
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
	})
	return logger.With("session", uuid.NewString()[:8]), closeFn, nil
}

// ParseLevel maps a level name to a log level, defaulting to info.
func ParseLevel(s string) log.Level {
	level, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return log.InfoLevel
	}
	return level
}
