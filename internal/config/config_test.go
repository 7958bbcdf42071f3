package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingDefaultFileIsNotAnError(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.toml"), false)
	require.NoError(t, err)
	assert.Equal(t, Default().System, cfg.System)
}

func TestLoadMissingExplicitFileIsAnError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.toml"), true)
	require.Error(t, err)
}

func TestLoadMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	contents := "system = \"aarch64-linux\"\nlog_level = \"debug\"\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := Load(path, true)
	require.NoError(t, err)

	assert.Equal(t, "aarch64-linux", cfg.System)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, Default().BuildRoot, cfg.BuildRoot, "unset build_root should keep its default")
}
