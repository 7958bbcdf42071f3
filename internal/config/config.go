// Package config loads the optional, purely-supplemental on-disk
// settings gix consults for defaults: the default platform tag,
// the parent directory for generated build directories, and the
// logger's level. Absence of the file is never an error — every field
// has a built-in default, matching the core's "no required external
// configuration" stance.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config is the decoded shape of the optional TOML file.
type Config struct {
	System          string `toml:"system"`
	BuildRoot       string `toml:"build_root"`
	LogLevel        string `toml:"log_level"`
	ClosureQueryCmd string `toml:"closure_query_command"`
}

// Default returns the built-in defaults applied when no file is found
// or a field is left unset.
func Default() Config {
	return Config{
		System:    "x86_64-linux",
		BuildRoot: os.TempDir(),
		LogLevel:  "info",
	}
}

// Load reads path (DefaultPath() when path is empty), merging its values
// over Default(). A missing file is an error only when explicit is true.
func Load(path string, explicit bool) (Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}

		return cfg, err
	}

	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// DefaultPath returns ~/.config/gix/config.toml, falling back to a
// relative path if the user's home directory cannot be resolved.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".config", "gix", "config.toml")
	}

	return filepath.Join(home, ".config", "gix", "config.toml")
}
