//go:build windows

package app

import (
	"github.com/charmbracelet/log"

	"github.com/five82/framekeeper/internal/config"
	"github.com/five82/framekeeper/internal/platform"
	"github.com/five82/framekeeper/internal/platform/sim"
	"github.com/five82/framekeeper/internal/platform/winapi"
)

func openBackend(cfg config.Config, logger *log.Logger) platform.Backend {
	if cfg.Simulate {
		return simBackend(cfg, logger)
	}
	return winapi.New()
}

func simBackend(cfg config.Config, logger *log.Logger) platform.Backend {
	return sim.New(sim.Options{
		ThemeFile: cfg.Sim.ThemeFile,
		Build:     cfg.Sim.Build,
		Logger:    logger.With("component", "sim"),
	})
}
