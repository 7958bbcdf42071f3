// Package build computes the sandbox mount plan for a derivation and
// drives the sandboxed build to completion. Grounded on
// original_source/src/building/mod.rs's build_derivation_sandboxed /
// get_mount_paths, which resolves every input derivation's output paths
// and their runtime dependency closures before the sandbox is entered,
// since nothing outside the mount plan is visible once inside it.
package build

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/conneroisu/gix/internal/deps"
	"github.com/conneroisu/gix/pkg/derivation"
	"github.com/conneroisu/gix/pkg/sandbox"
)

// Config bundles the inputs a single sandboxed build needs beyond the
// derivation itself.
type Config struct {
	Derivation *derivation.Derivation
	BuildDir   string
	Oracle     deps.Oracle
	Stdout     *os.File
	Stderr     *os.File
	Logger     *zap.Logger
}

// MountPaths resolves the full set of host paths that must be bind
// mounted into the sandbox for cfg.Derivation to build: every input
// derivation's declared output paths, their runtime dependency closure
// (one level, per the Oracle's own contract), and the plain input
// sources.
func MountPaths(ctx context.Context, cfg Config) ([]string, error) {
	seen := make(map[string]bool)
	var mounts []string

	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			mounts = append(mounts, path)
		}
	}

	for drvPath, outs := range cfg.Derivation.InputDrvs {
		inputDrv, err := loadInputDrv(drvPath)
		if err != nil {
			return nil, fmt.Errorf("loading input derivation %s: %w", drvPath, err)
		}

		for _, outName := range outs.OutputNames {
			out, ok := inputDrv.Outputs[outName]
			if !ok {
				return nil, fmt.Errorf("input derivation %s has no output %q", drvPath, outName)
			}
			add(out.Path)

			if cfg.Oracle == nil {
				continue
			}
			rdeps, err := cfg.Oracle.RuntimeDeps(ctx, out.Path)
			if err != nil {
				return nil, fmt.Errorf("resolving runtime deps of %s: %w", out.Path, err)
			}
			for _, d := range rdeps {
				add(d)
			}
		}
	}

	for _, src := range cfg.Derivation.InputSrcs {
		add(src)
	}

	return mounts, nil
}

// loadInputDrv reads and decodes the derivation file at drvPath so its
// declared output paths can be resolved. A derivation only ever names
// its direct dependencies by file path, never by pre-resolved output
// path, so this read is unavoidable before the sandbox is entered.
func loadInputDrv(drvPath string) (*derivation.Derivation, error) {
	data, err := os.ReadFile(drvPath)
	if err != nil {
		return nil, err
	}

	return derivation.Decode(data)
}

// Run resolves the mount plan and runs cfg.Derivation's builder inside
// the sandbox, returning the builder's exit code.
func Run(ctx context.Context, cfg Config) (int, error) {
	mounts, err := MountPaths(ctx, cfg)
	if err != nil {
		return 255, err
	}

	if err := os.MkdirAll(cfg.BuildDir, 0o755); err != nil {
		return 255, fmt.Errorf("creating build dir %s: %w", cfg.BuildDir, err)
	}

	env := make(map[string]string, len(cfg.Derivation.Env)+1)
	for k, v := range cfg.Derivation.Env {
		env[k] = v
	}
	env["NIX_BUILD_TOP"] = filepath.Clean(cfg.BuildDir)

	return sandbox.Run(ctx, sandbox.Config{
		BuildDir: cfg.BuildDir,
		Mounts:   mounts,
		Builder:  cfg.Derivation.Builder,
		Args:     cfg.Derivation.Args,
		Env:      env,
		Stdout:   cfg.Stdout,
		Stderr:   cfg.Stderr,
		Logger:   cfg.Logger,
	})
}
