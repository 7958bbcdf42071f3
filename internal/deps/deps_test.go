package deps

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixedReturnsConfiguredDeps(t *testing.T) {
	oracle := Fixed{
		"/nix/store/abc-foo": {"/nix/store/def-libc"},
	}

	got, err := oracle.RuntimeDeps(context.Background(), "/nix/store/abc-foo")
	require.NoError(t, err)
	assert.Equal(t, []string{"/nix/store/def-libc"}, got)
}

func TestFixedReturnsEmptyForUnknownPath(t *testing.T) {
	oracle := Fixed{}

	got, err := oracle.RuntimeDeps(context.Background(), "/nix/store/unknown")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestNewShellOutRejectsEmptyCommand(t *testing.T) {
	_, err := NewShellOut("")
	require.Error(t, err)
}
