package themefile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	theme, err := Load(filepath.Join(t.TempDir(), "theme.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if theme != Default() {
		t.Fatalf("Load = %#v, want %#v", theme, Default())
	}
}

func TestLoad_ReadsExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "theme.toml")
	if err := os.WriteFile(path, []byte("dark_mode = true\naccent = \"#ff8800\"\nopaque = false\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	theme, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !theme.DarkMode || theme.Accent != "#ff8800" || theme.Opaque {
		t.Fatalf("Load = %#v", theme)
	}
}

func TestLoad_BlankAccentUsesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "theme.toml")
	if err := os.WriteFile(path, []byte("accent = \"  \"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	theme, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if theme.Accent != DefaultAccent {
		t.Fatalf("Accent = %q, want %q", theme.Accent, DefaultAccent)
	}
}

func TestLoad_InvalidTOMLFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "theme.toml")
	if err := os.WriteFile(path, []byte("dark_mode = ["), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "parse theme") {
		t.Fatalf("Load error = %v, want parse theme error", err)
	}
}

func TestSave_CreatesDirectoryAndRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "theme.toml")

	want := Theme{DarkMode: true, Accent: "#112233", Opaque: true}
	if err := Save(path, want); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if got != want {
		t.Fatalf("Load = %#v, want %#v", got, want)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("found %d entries, want only theme.toml", len(entries))
	}
}

func TestTheme_RGBA(t *testing.T) {
	tests := []struct {
		accent string
		want   uint32
	}{
		{"#0078d4", 0x0078d4ff},
		{"#ffffff", 0xffffffff},
		{"#000", 0x000000ff},
	}
	for _, tt := range tests {
		got, err := Theme{Accent: tt.accent}.RGBA()
		if err != nil {
			t.Fatalf("RGBA(%q) returned error: %v", tt.accent, err)
		}
		if got != tt.want {
			t.Fatalf("RGBA(%q) = %#08x, want %#08x", tt.accent, got, tt.want)
		}
	}

	if _, err := (Theme{Accent: "blue"}).RGBA(); err == nil {
		t.Fatal("RGBA accepted a non-hex accent")
	}
}
