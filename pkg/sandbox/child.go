package sandbox

import (
	"encoding/json"
	"fmt"
	"os"
	"syscall"

	"go.uber.org/zap"
)

// runChild performs the child side of the state machine documented on
// the package: read the spec the parent wrote over the inherited pipe,
// clear the environment, run the mount plan, pivot_root into the build
// directory, and finally exec the builder. It returns only on failure —
// success ends in an execve that never returns to Go code.
func runChild() int {
	logger := childLogger()

	specFile := os.NewFile(specFD, "sandbox-spec")
	var spec childSpec
	if err := json.NewDecoder(specFile).Decode(&spec); err != nil {
		fmt.Fprintf(os.Stderr, "gix: reading sandbox spec: %v\n", err)

		return 255
	}
	specFile.Close()

	os.Clearenv()

	logger.Debug("mounting standard paths", zap.String("build_dir", spec.BuildDir))
	if err := mountStandardPaths(spec.BuildDir); err != nil {
		fmt.Fprintf(os.Stderr, "gix: preparing sandbox: %v\n", err)

		return 255
	}

	for _, m := range spec.Mounts {
		logger.Debug("mounting input path", zap.String("path", m))
		if err := mountPath(m, spec.BuildDir); err != nil {
			fmt.Fprintf(os.Stderr, "gix: preparing sandbox: %v\n", err)

			return 255
		}
	}

	logger.Debug("pivoting root", zap.String("build_dir", spec.BuildDir))
	if err := pivotRoot(spec.BuildDir); err != nil {
		fmt.Fprintf(os.Stderr, "gix: pivoting root: %v\n", err)

		return 255
	}

	argv := append([]string{spec.Builder}, spec.Args...)
	envv := make([]string, 0, len(spec.Env))
	for k, v := range spec.Env {
		envv = append(envv, k+"="+v)
	}

	logger.Debug("exec builder", zap.String("builder", spec.Builder), zap.Strings("args", spec.Args))
	if err := syscall.Exec(spec.Builder, argv, envv); err != nil {
		fmt.Fprintf(os.Stderr, "gix: exec builder %s: %v\n", spec.Builder, err)

		return 255
	}

	return 0
}

// childLogger builds a minimal debug-level logger for the re-exec'd
// child; the parent's own zap.Logger instance does not cross the
// process boundary, so the child gets its own rather than silently
// losing every phase-transition log line a build failure would need.
func childLogger() *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{"stderr"}
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}

	return logger
}
