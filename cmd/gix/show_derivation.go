package gix

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/conneroisu/gix/pkg/derivation"
)

var showDerivationCmd = &cobra.Command{
	Use:   "show-derivation PATH...",
	Short: "Decode one or more derivation files and print them as a JSON object keyed by path",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runShowDerivation,
}

func init() {
	rootCmd.AddCommand(showDerivationCmd)
}

func runShowDerivation(_ *cobra.Command, paths []string) error {
	out := make(map[string]*derivation.Derivation, len(paths))

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}

		drv, err := derivation.Decode(data)
		if err != nil {
			return fmt.Errorf("decoding %s: %w", path, err)
		}

		out[path] = drv
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	return enc.Encode(out)
}
