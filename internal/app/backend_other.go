//go:build !windows

package app

import (
	"github.com/charmbracelet/log"

	"github.com/five82/framekeeper/internal/config"
	"github.com/five82/framekeeper/internal/platform"
	"github.com/five82/framekeeper/internal/platform/sim"
)

// openBackend always simulates; there is no native backend off Windows.
func openBackend(cfg config.Config, logger *log.Logger) platform.Backend {
	if !cfg.Simulate {
		logger.Debug("no native backend on this OS; simulating")
	}
	return sim.New(sim.Options{
		ThemeFile: cfg.Sim.ThemeFile,
		Build:     cfg.Sim.Build,
		Logger:    logger.With("component", "sim"),
	})
}
