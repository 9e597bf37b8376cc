package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFromMissingFileReturnsDefaults(t *testing.T) {
	cfg, ok := LoadFrom(filepath.Join(t.TempDir(), "nope.yaml"))
	if !ok {
		t.Error("missing file should report ok=true (defaults, not an error)")
	}
	if cfg.ScrollbackLines != DefaultScrollbackLines {
		t.Errorf("ScrollbackLines = %d, want %d", cfg.ScrollbackLines, DefaultScrollbackLines)
	}
}

func TestLoadFromMalformedYAMLReturnsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("not: [valid: yaml"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, ok := LoadFrom(path)
	if ok {
		t.Error("malformed file should report ok=false")
	}
	if cfg.ScrollbackLines != DefaultScrollbackLines {
		t.Errorf("ScrollbackLines = %d, want default", cfg.ScrollbackLines)
	}
}

func TestLoadFromClampsScrollback(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("scrollback_lines: 999999999\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, ok := LoadFrom(path)
	if !ok {
		t.Fatal("expected ok=true")
	}
	if cfg.ScrollbackLines != MaxScrollbackLines {
		t.Errorf("ScrollbackLines = %d, want clamp to %d", cfg.ScrollbackLines, MaxScrollbackLines)
	}
}

func TestLoadFromNegativeScrollbackUsesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("scrollback_lines: -5\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, _ := LoadFrom(path)
	if cfg.ScrollbackLines != DefaultScrollbackLines {
		t.Errorf("ScrollbackLines = %d, want default", cfg.ScrollbackLines)
	}
}

func TestLoadFromValidSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "scrollback_lines: 5000\nshell: \"zsh -l\"\nscroll_reverse: true\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, ok := LoadFrom(path)
	if !ok {
		t.Fatal("expected ok=true")
	}
	if cfg.ScrollbackLines != 5000 || cfg.Shell != "zsh -l" || !cfg.ScrollReverse {
		t.Errorf("got %+v", cfg)
	}
}

func TestDebugEnabled(t *testing.T) {
	t.Setenv("VTCORE_DEBUG", "")
	if DebugEnabled() {
		t.Error("expected disabled when unset")
	}
	t.Setenv("VTCORE_DEBUG", "0")
	if DebugEnabled() {
		t.Error("expected disabled for 0")
	}
	t.Setenv("VTCORE_DEBUG", "1")
	if !DebugEnabled() {
		t.Error("expected enabled for 1")
	}
}
