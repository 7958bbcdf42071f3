// Command gix evaluates a lazy, functional expression language into
// derivations and can realize a derivation by running its builder
// inside a Linux namespace sandbox. See cmd/gix for the command tree.
package main

import (
	"os"

	"github.com/conneroisu/gix/cmd/gix"
	"github.com/conneroisu/gix/pkg/sandbox"
)

func main() {
	// Must run before any flag parsing or cobra setup: a re-exec'd
	// sandbox child never reaches the rest of main.
	sandbox.Init()

	os.Exit(gix.Execute())
}
