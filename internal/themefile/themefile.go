// Package themefile reads and writes the theme-preference file used by the
// simulated platform. The file stands in for the OS personalization settings:
//
//	dark_mode = true
//	accent = "#0078d4"
//	opaque = true
package themefile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
	toml "github.com/pelletier/go-toml/v2"
)

// Theme is the preference record.
type Theme struct {
	DarkMode bool   `toml:"dark_mode"`
	Accent   string `toml:"accent"`
	Opaque   bool   `toml:"opaque"`
}

// DefaultAccent is used when the file does not name an accent color.
const DefaultAccent = "#0078d4"

// Default returns the preference reported when no file exists.
func Default() Theme {
	return Theme{Accent: DefaultAccent, Opaque: true}
}

// Load reads the theme at path. A missing file yields Default; a file that
// cannot be parsed is an error.
func Load(path string) (Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Theme{}, fmt.Errorf("read theme: %w", err)
	}

	theme := Default()
	if err := toml.Unmarshal(data, &theme); err != nil {
		return Theme{}, fmt.Errorf("parse theme: %w", err)
	}
	if strings.TrimSpace(theme.Accent) == "" {
		theme.Accent = DefaultAccent
	}
	return theme, nil
}

// Save writes the theme to path through a temporary file so watchers never
// observe a partially written file.
func Save(path string, t Theme) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create theme dir: %w", err)
	}

	data, err := toml.Marshal(t)
	if err != nil {
		return fmt.Errorf("marshal theme: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".theme-*.toml")
	if err != nil {
		return fmt.Errorf("create temp theme: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write theme: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write theme: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace theme: %w", err)
	}
	return nil
}

// RGBA packs the accent color as 0xRRGGBBAA with full alpha.
func (t Theme) RGBA() (uint32, error) {
	c, err := colorful.Hex(strings.TrimSpace(t.Accent))
	if err != nil {
		return 0, fmt.Errorf("parse accent %q: %w", t.Accent, err)
	}
	r, g, b := c.Clamped().RGB255()
	return uint32(r)<<24 | uint32(g)<<16 | uint32(b)<<8 | 0xff, nil
}
