package build

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/conneroisu/gix/internal/deps"
	"github.com/conneroisu/gix/pkg/derivation"
)

func writeDerivationFile(t *testing.T, dir, name string, drv *derivation.Derivation) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, derivation.Encode(drv), 0o644); err != nil {
		t.Fatalf("writing derivation file: %v", err)
	}

	return path
}

func TestMountPathsResolvesInputDrvOutputsAndRuntimeDeps(t *testing.T) {
	dir := t.TempDir()

	inputDrv := &derivation.Derivation{
		Name:    "libc",
		System:  "x86_64-linux",
		Builder: "/bin/sh",
		Outputs: map[string]*derivation.Output{
			"out": {Path: "/nix/store/libc-out"},
		},
		InputDrvs: map[string]*derivation.InputDrvOutputs{},
	}
	inputPath := writeDerivationFile(t, dir, "libc.drv", inputDrv)

	drv := &derivation.Derivation{
		Name:    "hello",
		System:  "x86_64-linux",
		Builder: "/bin/sh",
		Outputs: map[string]*derivation.Output{
			"out": {Path: "/nix/store/hello-out"},
		},
		InputDrvs: map[string]*derivation.InputDrvOutputs{
			inputPath: {OutputNames: []string{"out"}},
		},
		InputSrcs: []string{"/nix/store/builder.sh"},
	}

	oracle := deps.Fixed{
		"/nix/store/libc-out": {"/nix/store/runtime-dep"},
	}

	mounts, err := MountPaths(context.Background(), Config{Derivation: drv, Oracle: oracle})
	if err != nil {
		t.Fatalf("MountPaths: %v", err)
	}

	want := map[string]bool{
		"/nix/store/libc-out":    true,
		"/nix/store/runtime-dep": true,
		"/nix/store/builder.sh":  true,
	}
	if len(mounts) != len(want) {
		t.Fatalf("got %d mounts, want %d: %v", len(mounts), len(want), mounts)
	}
	for _, m := range mounts {
		if !want[m] {
			t.Errorf("unexpected mount %q", m)
		}
	}
}

func TestMountPathsErrorsOnMissingOutput(t *testing.T) {
	dir := t.TempDir()

	inputDrv := &derivation.Derivation{
		Name:      "libc",
		Builder:   "/bin/sh",
		Outputs:   map[string]*derivation.Output{"out": {Path: "/nix/store/libc-out"}},
		InputDrvs: map[string]*derivation.InputDrvOutputs{},
	}
	inputPath := writeDerivationFile(t, dir, "libc.drv", inputDrv)

	drv := &derivation.Derivation{
		Name:    "hello",
		Builder: "/bin/sh",
		Outputs: map[string]*derivation.Output{"out": {Path: "/nix/store/hello-out"}},
		InputDrvs: map[string]*derivation.InputDrvOutputs{
			inputPath: {OutputNames: []string{"dev"}},
		},
	}

	if _, err := MountPaths(context.Background(), Config{Derivation: drv}); err == nil {
		t.Fatal("expected an error for a requested output the input derivation does not have")
	}
}
