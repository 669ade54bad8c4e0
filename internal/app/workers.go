package app

import (
	"context"
	"errors"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/five82/framekeeper/internal/apply"
	"github.com/five82/framekeeper/internal/command"
	"github.com/five82/framekeeper/internal/instance"
	"github.com/five82/framekeeper/internal/platform"
	"github.com/five82/framekeeper/internal/protocol"
	"github.com/five82/framekeeper/internal/state"
	"github.com/five82/framekeeper/internal/watcher"
)

type sessionDeps struct {
	store   *state.Store
	backend platform.Backend
	themes  platform.ThemeSource
	input   *protocol.LineReader
	lock    *instance.Lock
	build   uint32
	out     *protocol.Writer
	logger  *log.Logger
}

// session owns the three workers of a started run.
type session struct {
	sessionDeps

	watcher   *watcher.Watcher
	engine    *apply.Engine
	processor *command.Processor
}

type workerResult struct {
	name string
	err  error
}

func newSession(deps sessionDeps) *session {
	return &session{
		sessionDeps: deps,
		watcher:     watcher.New(deps.store, deps.themes, deps.out, deps.logger),
		engine:      apply.New(deps.store, deps.backend, deps.build, deps.out, deps.logger),
		processor: command.New(command.Options{
			Store:     deps.store,
			Input:     deps.input,
			Themes:    deps.themes,
			Decorator: deps.backend,
			Build:     deps.build,
			Out:       deps.out,
			Logger:    deps.logger,
		}),
	}
}

// run starts the workers, announces readiness and waits for the first worker
// to return or ctx to end. All workers have returned when run does.
func (s *session) run(ctx context.Context) error {
	workers := []struct {
		name string
		run  func() error
	}{
		{"watcher", s.watcher.Run},
		{"apply", s.engine.Run},
		{"reader", s.processor.Run},
	}

	// ready precedes every response and broadcast a worker can produce.
	s.out.Broadcast(protocol.BroadcastReady, "")
	s.logger.Info("ready")

	results := make(chan workerResult, len(workers))
	var wg sync.WaitGroup
	for _, w := range workers {
		w := w
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- workerResult{name: w.name, err: w.run()}
		}()
	}

	select {
	case first := <-results:
		s.logger.Info("worker finished", "worker", first.name, "err", first.err)
		results <- first
	case <-ctx.Done():
		s.logger.Info("interrupted", "cause", context.Cause(ctx))
	}

	s.shutdown()
	wg.Wait()
	close(results)

	var errs []error
	for r := range results {
		if r.err != nil {
			errs = append(errs, r.err)
		}
	}
	if err := s.lock.Release(); err != nil {
		s.logger.Warn("release instance lock", "err", err)
	}
	if err := s.input.Close(); err != nil {
		s.logger.Debug("close input", "err", err)
	}
	s.logger.Info("stopped")
	return errors.Join(errs...)
}

// shutdown ends the session. The theme source is closed under the state lock
// by whichever caller first invalidates, so it is released exactly once.
func (s *session) shutdown() {
	s.store.Shutdown(func() {
		if err := s.themes.Close(); err != nil {
			s.logger.Warn("close theme source", "err", err)
		}
	})
	s.out.Seal()
	s.processor.Cancel()
}
