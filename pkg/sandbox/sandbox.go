// Package sandbox isolates a derivation's builder inside a fresh mount
// and user namespace, bind-mounting only the paths the derivation
// declares before pivoting into the build directory as the new root.
// Grounded on original_source/src/sandbox/mod.rs and
// original_source/src/building/mod.rs.
//
// Go cannot safely replicate the original's `clone(closure)` — forking a
// multi-threaded Go runtime and continuing to run arbitrary Go code in
// the child, without an intervening execve, corrupts the runtime the
// same way it would in any GC'd, thread-pooled language. The idiomatic
// Go rendition (the same one runc and containerd use) re-execs the
// current binary into a fresh process with CLONE_NEWNS|CLONE_NEWUSER
// set on the clone, and has that new process — recognizing itself via
// Init, before anything else runs — perform the mount plan, pivot_root,
// and a final execve into the real builder. Two execve calls instead of
// one clone-with-closure, same net isolation.
package sandbox

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"syscall"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/conneroisu/gix/internal/nixerr"
)

// childEnvVar marks a re-exec'd process as the sandbox child rather than
// an ordinary invocation of the gix binary.
const childEnvVar = "_GIX_SANDBOX_CHILD"

// specFD is the file descriptor, inherited via exec.Cmd.ExtraFiles, that
// carries the JSON-encoded childSpec from parent to child.
const specFD = 3

// Config describes one sandboxed build invocation.
type Config struct {
	// BuildDir becomes the new root. Must already exist.
	BuildDir string
	// Mounts is the set of absolute host paths bind-mounted into
	// BuildDir before pivoting (input derivation outputs, their runtime
	// dependencies, and plain input sources).
	Mounts []string
	Builder string
	Args    []string
	Env     map[string]string
	// Stdout/Stderr, if non-nil, are attached to the builder in place of
	// the caller's own stdio.
	Stdout *os.File
	Stderr *os.File
	Logger *zap.Logger
}

type childSpec struct {
	BuildDir string            `json:"buildDir"`
	Mounts   []string          `json:"mounts"`
	Builder  string            `json:"builder"`
	Args     []string          `json:"args"`
	Env      map[string]string `json:"env"`
}

// Init must be called at the very top of main, before flag parsing or
// any goroutines start. If this process is a sandbox child re-exec, it
// runs the mount/pivot_root/exec sequence and calls os.Exit — it never
// returns in that case. Otherwise it returns immediately so ordinary CLI
// startup continues.
func Init() {
	if os.Getenv(childEnvVar) != "1" {
		return
	}

	os.Exit(runChild())
}

// Run clones a fresh mount+user namespace, bind-mounts cfg.Mounts into
// cfg.BuildDir, pivots into it as the new root, and execs cfg.Builder.
// The returned exit code is the builder's own on success, or 255 if
// sandbox setup or the exec itself failed. If ctx carries a deadline, the
// child is killed and a BuilderFailed error returned once it expires;
// there is no enforcement at this layer otherwise.
func Run(ctx context.Context, cfg Config) (int, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	spec := childSpec{
		BuildDir: cfg.BuildDir,
		Mounts:   sortedCopy(cfg.Mounts),
		Builder:  cfg.Builder,
		Args:     cfg.Args,
		Env:      cfg.Env,
	}

	specRead, specWrite, err := os.Pipe()
	if err != nil {
		return 255, nixerr.SandboxInit(errors.Wrap(err, "creating spec pipe"))
	}
	defer specRead.Close()

	self, err := os.Executable()
	if err != nil {
		specWrite.Close()

		return 255, nixerr.SandboxInit(errors.Wrap(err, "resolving own executable path"))
	}

	cmd := exec.CommandContext(ctx, self, "__sandbox_child__")
	cmd.Env = []string{childEnvVar + "=1"}
	cmd.ExtraFiles = []*os.File{specRead}
	cmd.Stdout, cmd.Stderr = os.Stdout, os.Stderr
	if cfg.Stdout != nil {
		cmd.Stdout = cfg.Stdout
	}
	if cfg.Stderr != nil {
		cmd.Stderr = cfg.Stderr
	}
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Cloneflags: syscall.CLONE_NEWNS | syscall.CLONE_NEWUSER,
	}

	logger.Debug("starting sandbox child", zap.String("build_dir", cfg.BuildDir), zap.Int("mounts", len(spec.Mounts)))

	if err := cmd.Start(); err != nil {
		specWrite.Close()

		return 255, nixerr.SandboxInit(errors.Wrap(err, "starting sandbox child"))
	}

	encodeErr := json.NewEncoder(specWrite).Encode(spec)
	specWrite.Close()
	if encodeErr != nil {
		return 255, nixerr.SandboxInit(errors.Wrap(encodeErr, "writing sandbox spec"))
	}

	err = cmd.Wait()
	if err == nil {
		logger.Debug("sandbox child exited", zap.Int("exit_code", 0))

		return 0, nil
	}

	exitErr, ok := err.(*exec.ExitError)
	if !ok {
		return 255, nixerr.SandboxInit(errors.Wrap(err, "waiting for sandbox child"))
	}

	if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
		logger.Debug("sandbox child killed by signal", zap.String("signal", status.Signal().String()))

		return 255, nixerr.BuilderFailed(fmt.Errorf("builder killed by signal %s", status.Signal()))
	}

	logger.Debug("sandbox child exited", zap.Int("exit_code", exitErr.ExitCode()))

	return exitErr.ExitCode(), nil
}

func sortedCopy(paths []string) []string {
	out := append([]string(nil), paths...)
	sort.Strings(out)

	return out
}
