// Package config loads framekeeper's optional TOML configuration.
//
// # Configuration Discovery
//
// Load reads the given path, or ~/.config/framekeeper/config.toml when the
// path is empty. A missing file is not an error: defaults are used so the
// helper works without any setup. Blank values also fall back to defaults.
//
// # Default Values
//
//   - log_level: info
//   - log_file: empty, logs go to stderr
//   - single_instance: true
//   - lock_dir: the OS temp directory
//   - simulate: false
//   - sim.theme_file: ~/.config/framekeeper/theme.toml
//   - sim.build: 22621
//
// # TOML Format
//
//	log_level = "debug"
//	log_file = "~/.local/state/framekeeper/framekeeper.log"
//	single_instance = true
//
//	[sim]
//	theme_file = "~/.config/framekeeper/theme.toml"
//	build = 22000
//
// Paths accept a leading tilde and are made absolute. Command-line flags take
// precedence over the file; merging happens in the caller.
package config
