package deps

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/pkg/errors"
)

// ShellOut resolves runtime dependencies by invoking an external
// closure-query command, configurable rather than hard-coded so the
// core never bakes in a specific store tool's path (per the ambient
// config layer's `closure_query_command` setting).
type ShellOut struct {
	// Command is the external program to invoke, e.g. the path to a
	// nix-store-equivalent binary. It is run as `Command Args... path`.
	Command string
	Args    []string
}

// RuntimeDeps runs the configured command with path appended, treating
// each non-blank line of stdout as one store path in the result, except a
// line equal to path itself, which is left out.
func (s ShellOut) RuntimeDeps(ctx context.Context, path string) ([]string, error) {
	args := append(append([]string(nil), s.Args...), path)
	cmd := exec.CommandContext(ctx, s.Command, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, errors.Wrapf(err, "closure query %q %v: %s", s.Command, args, stderr.String())
	}

	var out []string
	for _, line := range strings.Split(stdout.String(), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || line == path {
			continue
		}
		out = append(out, line)
	}

	return out, nil
}

// errUnconfigured is returned by NewShellOut when no command is given;
// callers should fall back to a Fixed oracle instead of wiring a
// ShellOut with nothing to execute.
var errUnconfigured = fmt.Errorf("deps: no closure query command configured")

// NewShellOut validates command before wrapping it in a ShellOut.
func NewShellOut(command string, args ...string) (ShellOut, error) {
	if command == "" {
		return ShellOut{}, errUnconfigured
	}

	return ShellOut{Command: command, Args: args}, nil
}
