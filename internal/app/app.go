package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/five82/framekeeper/internal/config"
	"github.com/five82/framekeeper/internal/instance"
	"github.com/five82/framekeeper/internal/logging"
	"github.com/five82/framekeeper/internal/platform"
	"github.com/five82/framekeeper/internal/protocol"
	"github.com/five82/framekeeper/internal/state"
)

// Options configure one framekeeper session.
type Options struct {
	PID   uint32
	Class string

	In  io.Reader // host requests; nil uses os.Stdin
	Out io.Writer // host protocol; nil uses os.Stdout

	ConfigPath string
	LogLevel   string // overrides log_level when set
	LogFile    string // overrides log_file when set
	Simulate   bool   // forces the sim backend
	LogOutput  io.Writer

	// Backend replaces the configured platform backend.
	Backend platform.Backend
}

// Run manages one window until the host exits, the window goes away, a worker
// fails, or ctx is cancelled. Every failure reaches the host as an error
// broadcast; the returned error is for diagnostics only.
func Run(ctx context.Context, opts Options) error {
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	out := protocol.NewWriter(opts.Out)

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		out.Errorf("load config: %v", err)
		return err
	}
	applyOverrides(&cfg, opts)

	logger, closeLog, err := logging.New(logging.Options{
		Level:  cfg.LogLevel,
		File:   cfg.LogFile,
		Output: opts.LogOutput,
	})
	if err != nil {
		out.Errorf("init logging: %v", err)
		return err
	}
	defer closeLog()

	backend := opts.Backend
	if backend == nil {
		backend = openBackend(cfg, logger)
	}
	logger.Info("starting", "backend", backend.Name(), "pid", opts.PID, "class", opts.Class)

	s, err := start(backend, cfg, opts, out, logger)
	if err != nil {
		logger.Error("startup failed", "err", err)
		out.Errorf("%v", err)
		return err
	}
	return s.run(ctx)
}

func applyOverrides(cfg *config.Config, opts Options) {
	if opts.LogLevel != "" {
		cfg.LogLevel = opts.LogLevel
	}
	if opts.LogFile != "" {
		cfg.LogFile = opts.LogFile
	}
	if opts.Simulate {
		cfg.Simulate = true
	}
}

// start performs every check that can fail before a worker runs.
func start(backend platform.Backend, cfg config.Config, opts Options, out *protocol.Writer, logger *log.Logger) (*session, error) {
	build, err := backend.Build()
	if err != nil {
		return nil, fmt.Errorf("read windows build: %w", err)
	}
	if !state.Supported(build) {
		return nil, fmt.Errorf("windows build unsupported: %d", build)
	}
	logger.Debug("os build", "build", build, "capability", state.ClassifyBuild(build).String())

	window, err := backend.FindWindow(opts.PID, opts.Class)
	if errors.Is(err, platform.ErrWindowNotFound) {
		return nil, fmt.Errorf("cannot find window class %s owned by %d", opts.Class, opts.PID)
	}
	if err != nil {
		return nil, err
	}

	var lock *instance.Lock
	if cfg.SingleInstance {
		lock, err = instance.Acquire(cfg.LockDir, opts.PID, uintptr(window))
		if errors.Is(err, instance.ErrLocked) {
			return nil, fmt.Errorf("window class %s owned by %d is already managed", opts.Class, opts.PID)
		}
		if err != nil {
			return nil, err
		}
	}

	themes, err := backend.OpenThemeSource()
	if err != nil {
		_ = lock.Release()
		return nil, err
	}
	dark, err := themes.DarkMode()
	if err != nil {
		_ = themes.Close()
		_ = lock.Release()
		return nil, err
	}

	input, err := protocol.NewLineReader(opts.In)
	if err != nil {
		_ = themes.Close()
		_ = lock.Release()
		return nil, err
	}

	store := state.New(opts.PID, window, dark)
	store.WithLock(func(c *state.Config) {
		c.Mark(state.Changes{DarkMode: true})
		store.NotifyChanged()
	})

	return newSession(sessionDeps{
		store:   store,
		backend: backend,
		themes:  themes,
		input:   input,
		lock:    lock,
		build:   build,
		out:     out,
		logger:  logger,
	}), nil
}
