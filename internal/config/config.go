// Package config resolves the core's persisted-state locations and the
// handful of settings the core itself owns (scrollback cap, shell override,
// scroll direction). Theme definitions, keybindings, and their live
// reload stay outside the core per spec's scope: this package only carries
// what the PTY/grid/recorder layers need to find files on disk.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const appName = "vtcore"

// Settings is the subset of app configuration the core consumes directly.
type Settings struct {
	// ScrollbackLines caps the grid's history; values above MaxScrollbackLines
	// are clamped to it, and zero or negative values become DefaultScrollbackLines.
	ScrollbackLines int `yaml:"scrollback_lines"`
	// Shell overrides $SHELL (Unix) or the powershell/pwsh/cmd choice (Windows).
	// May include arguments ("zsh -l"); the PTY layer splits it with shlex.
	Shell string `yaml:"shell,omitempty"`
	// ScrollReverse inverts wheel-scroll direction per spec §4.E.
	ScrollReverse bool `yaml:"scroll_reverse"`
}

const (
	// DefaultScrollbackLines is the default scrollback cap (spec §3).
	DefaultScrollbackLines = 10_000
	// MaxScrollbackLines is the hard cap on scrollback history.
	MaxScrollbackLines = 100_000
)

func defaultSettings() Settings {
	return Settings{ScrollbackLines: DefaultScrollbackLines}
}

// ConfigDir returns the platform configuration directory for vtcore.
func ConfigDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "."+appName)
	}
	return filepath.Join(home, "."+appName)
}

// DataDir returns the platform data directory for vtcore (recordings live
// under DataDir()/recordings).
func DataDir() string {
	switch {
	case os.Getenv("XDG_DATA_HOME") != "":
		return filepath.Join(os.Getenv("XDG_DATA_HOME"), appName)
	default:
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(".", "."+appName, "data")
		}
		return filepath.Join(home, "."+appName, "data")
	}
}

// RecordingsDir returns the directory recordings are written to and read from.
func RecordingsDir() string {
	return filepath.Join(DataDir(), "recordings")
}

// Load reads settings from <ConfigDir()>/config.yaml. A missing file, or a
// file that fails to read or parse, yields defaults with no error surfaced
// to the caller; the returned bool is false only in the second case — per spec §7 ("bad TOML/YAML: use
// defaults, warn"), the caller is expected to log the warning itself.
func Load() (Settings, bool) {
	return LoadFrom(filepath.Join(ConfigDir(), "config.yaml"))
}

// LoadFrom reads settings from an explicit path. The bool return is false
// when the file exists but cannot be read or parsed (defaults are then
// substituted); a missing file yields defaults and true.
func LoadFrom(path string) (Settings, bool) {
	cfg := defaultSettings()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, os.IsNotExist(err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return defaultSettings(), false
	}
	cfg.clamp()
	return cfg, true
}

func (c *Settings) clamp() {
	if c.ScrollbackLines <= 0 {
		c.ScrollbackLines = DefaultScrollbackLines
	}
	if c.ScrollbackLines > MaxScrollbackLines {
		c.ScrollbackLines = MaxScrollbackLines
	}
}

// DebugEnabled reports whether the core's debug-logging env var is set, per
// spec §6 ("one env var triggers debug logging").
func DebugEnabled() bool {
	v := os.Getenv("VTCORE_DEBUG")
	return v != "" && v != "0" && v != "false"
}
