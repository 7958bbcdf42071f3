// Package gix wires the cobra command tree for the gix binary: eval,
// show-derivation, and build-derivation, plus the --config/--log-level
// global flags. Grounded on
// _examples/CWBudde-go-dws/cmd/dwscript/cmd/root.go's one-file-per-verb
// layout.
package gix

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/conneroisu/gix/internal/config"
	"github.com/conneroisu/gix/internal/logging"
)

var (
	configPath string
	logLevel   string

	logger *zap.Logger
	cfg    config.Config
)

var rootCmd = &cobra.Command{
	Use:   "gix",
	Short: "A pure Go implementation of a Nix-style expression evaluator and sandboxed builder",
	Long: `gix evaluates a lazy, functional expression language into derivations —
constant build actions — and can realize a derivation by running its
builder inside a Linux mount/user namespace sandbox.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		loaded, err := config.Load(configPath, configPath != "")
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded

		if logLevel == "" {
			logLevel = cfg.LogLevel
		}

		l, err := logging.New(logLevel)
		if err != nil {
			return err
		}
		logger = l

		return nil
	},
}

// Execute runs the root command, printing any error to stderr and
// returning a process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "gix: %v\n", err)

		return 1
	}

	return 0
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a TOML config file (default ~/.config/gix/config.toml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug|info|warn|error (default from config, else info)")
}
