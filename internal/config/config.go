package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds the settings framekeeper reads at startup.
type Config struct {
	LogLevel       string
	LogFile        string
	SingleInstance bool
	LockDir        string
	Simulate       bool
	Sim            SimConfig
}

// SimConfig configures the simulated back end.
type SimConfig struct {
	ThemeFile string
	Build     uint32
}

const (
	defaultConfigPath = "~/.config/framekeeper/config.toml"
	defaultThemeFile  = "~/.config/framekeeper/theme.toml"
	defaultLogLevel   = "info"
	defaultSimBuild   = 22621
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		LogLevel:       defaultLogLevel,
		SingleInstance: true,
		LockDir:        os.TempDir(),
		Sim: SimConfig{
			ThemeFile: mustExpand(defaultThemeFile),
			Build:     defaultSimBuild,
		},
	}
}

// Load locates and parses the config file, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		LogLevel       string `toml:"log_level"`
		LogFile        string `toml:"log_file"`
		SingleInstance *bool  `toml:"single_instance"`
		LockDir        string `toml:"lock_dir"`
		Simulate       bool   `toml:"simulate"`
		Sim            struct {
			ThemeFile string `toml:"theme_file"`
			Build     uint32 `toml:"build"`
		} `toml:"sim"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if level := strings.TrimSpace(raw.LogLevel); level != "" {
		cfg.LogLevel = strings.ToLower(level)
	}
	if logFile := strings.TrimSpace(raw.LogFile); logFile != "" {
		cfg.LogFile = mustExpand(logFile)
	}
	if raw.SingleInstance != nil {
		cfg.SingleInstance = *raw.SingleInstance
	}
	if lockDir := strings.TrimSpace(raw.LockDir); lockDir != "" {
		cfg.LockDir = mustExpand(lockDir)
	}
	cfg.Simulate = raw.Simulate
	if themeFile := strings.TrimSpace(raw.Sim.ThemeFile); themeFile != "" {
		cfg.Sim.ThemeFile = mustExpand(themeFile)
	}
	if raw.Sim.Build != 0 {
		cfg.Sim.Build = raw.Sim.Build
	}

	return cfg, nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
