// Package deps resolves the runtime dependency closure of a realized
// store path — the set of other store paths a build output's own files
// reference and therefore needs present at run time. The build driver
// calls this once per input derivation output and unions the result
// with that output path to compute the sandbox mount plan; it does not
// recurse further, leaving the transitive closure to the Oracle.
//
// Grounded on original_source/src/building/mod.rs's get_mount_paths,
// which calls out to a DepsInfo implementation rather than baking
// closure computation into the build driver itself.
package deps

import "context"

// Oracle resolves the runtime dependency closure of a store path; callers
// do not recurse on the paths it returns.
type Oracle interface {
	RuntimeDeps(ctx context.Context, path string) ([]string, error)
}

// Fixed is a table-driven Oracle for tests and other situations where
// the dependency graph is known ahead of time rather than discovered by
// inspecting a real store.
type Fixed map[string][]string

// RuntimeDeps returns the configured dependency list for path, or an
// empty slice if path has no entry — an unknown path is assumed to have
// no further runtime dependencies rather than being an error, matching
// the original's "closure query returns empty for an unreferenced leaf"
// behavior.
func (f Fixed) RuntimeDeps(_ context.Context, path string) ([]string, error) {
	return f[path], nil
}
