package gix

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/conneroisu/gix/internal/deps"
	"github.com/conneroisu/gix/pkg/build"
	"github.com/conneroisu/gix/pkg/derivation"
)

var (
	buildStdoutPath string
	buildStderrPath string
	buildDirFlag    string
	buildTimeout    time.Duration
)

var buildDerivationCmd = &cobra.Command{
	Use:   "build-derivation PATH",
	Short: "Build a derivation in the sandbox and print the build directory",
	Args:  cobra.ExactArgs(1),
	RunE:  runBuildDerivation,
}

func init() {
	rootCmd.AddCommand(buildDerivationCmd)
	buildDerivationCmd.Flags().StringVar(&buildStdoutPath, "stdout", "", "file to stream the builder's stdout to (default: inherit)")
	buildDerivationCmd.Flags().StringVar(&buildStderrPath, "stderr", "", "file to stream the builder's stderr to (default: inherit)")
	buildDerivationCmd.Flags().StringVar(&buildDirFlag, "build-dir", "", "directory to build in (default: a fresh directory under build_root)")
	buildDerivationCmd.Flags().DurationVar(&buildTimeout, "timeout", 0, "kill the builder if it runs longer than this (default: no timeout)")
}

func runBuildDerivation(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	drv, err := derivation.Decode(data)
	if err != nil {
		return fmt.Errorf("decoding %s: %w", args[0], err)
	}

	buildDir := buildDirFlag
	if buildDir == "" {
		dir, err := os.MkdirTemp(cfg.BuildRoot, "gix-build-")
		if err != nil {
			return fmt.Errorf("creating build directory: %w", err)
		}
		buildDir = dir
	}

	var stdout, stderr *os.File
	if buildStdoutPath != "" {
		f, err := os.Create(buildStdoutPath)
		if err != nil {
			return fmt.Errorf("opening %s: %w", buildStdoutPath, err)
		}
		defer f.Close()
		stdout = f
	}
	if buildStderrPath != "" {
		f, err := os.Create(buildStderrPath)
		if err != nil {
			return fmt.Errorf("opening %s: %w", buildStderrPath, err)
		}
		defer f.Close()
		stderr = f
	}

	oracle, err := runtimeDepsOracle()
	if err != nil {
		return err
	}

	ctx := context.Background()
	if buildTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, buildTimeout)
		defer cancel()
	}

	code, err := build.Run(ctx, build.Config{
		Derivation: drv,
		BuildDir:   buildDir,
		Oracle:     oracle,
		Stdout:     stdout,
		Stderr:     stderr,
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	fmt.Println(buildDir)
	os.Exit(code)

	return nil
}

// runtimeDepsOracle builds the dependency oracle configured via the
// ambient config file, falling back to an empty fixed table (no
// dependencies resolved beyond the derivation's own direct inputs) when
// no closure query command is configured.
func runtimeDepsOracle() (deps.Oracle, error) {
	if cfg.ClosureQueryCmd == "" {
		return deps.Fixed{}, nil
	}

	return deps.NewShellOut(cfg.ClosureQueryCmd)
}
