// Package derivation implements derivation records: their ATerm-style
// on-disk encoding (codec.go, grounded on original_source's nom-based
// parser in src/parsers/derivations.rs) and the bridge between a
// `derivation { ... }` call's attribute set and that record.
package derivation

import (
	"fmt"
	"sort"

	"github.com/conneroisu/gix/internal/value"
)

// Output describes one output slot of a Derivation. HashAlgo/Hash are
// empty for a floating (not-yet-realized) output.
type Output struct {
	Path     string `json:"path"`
	HashAlgo string `json:"hashAlgo,omitempty"`
	Hash     string `json:"hash,omitempty"`
}

// InputDrvOutputs names the output(s) of one input derivation this
// derivation depends on, plus an optional recursive map of dynamic
// outputs (an output produced by another output, not known until that
// output is itself realized).
type InputDrvOutputs struct {
	OutputNames    []string                    `json:"outputs"`
	DynamicOutputs map[string]*InputDrvOutputs `json:"dynamicOutputs"`
}

// Derivation is a single, specific, constant build action: a builder
// invoked with a fixed environment and argument list, depending on a set
// of input derivations' outputs and a set of plain input sources.
type Derivation struct {
	Name      string                      `json:"-"`
	System    string                      `json:"system"`
	Builder   string                      `json:"builder"`
	Args      []string                    `json:"args"`
	Env       map[string]string           `json:"env"`
	Outputs   map[string]*Output          `json:"outputs"`
	InputDrvs map[string]*InputDrvOutputs `json:"inputDrvs"`
	InputSrcs []string                    `json:"inputSrcs"`

	// StorePath is the directory assigned to the (currently single,
	// un-split) default output, derived from the canonical encoding's
	// hash. Individual per-output paths live in Outputs[name].Path.
	StorePath string `json:"-"`
}

// sortedKeys returns the keys of m in lexicographic order, matching
// §4.5's ordering requirement for outputs/inputDrvs/env.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys
}

// ToAttrs converts a Derivation into the attribute set returned by the
// `derivation` built-in: drvPath, the per-output paths merged at the top
// level (the "out" convenience nix itself provides), and an `outputs`
// sub-attrset naming them explicitly.
func (d *Derivation) ToAttrs() *value.Attrs {
	attrs := value.NewAttrs()
	attrs.Set("name", value.String(d.Name))
	attrs.Set("system", value.String(d.System))
	attrs.Set("builder", value.String(d.Builder))
	attrs.Set("drvPath", value.String(d.StorePath+".drv"))

	args := make([]value.Value, len(d.Args))
	for i, a := range d.Args {
		args[i] = value.String(a)
	}
	attrs.Set("args", value.NewList(args...))

	outputNames := sortedKeys(d.Outputs)
	outAttrs := value.NewAttrs()
	for _, name := range outputNames {
		outAttrs.Set(name, value.String(d.Outputs[name].Path))
	}
	attrs.Set("outputs", outAttrs)
	attrs.Set("outputName", value.String(firstOr(outputNames, "out")))

	for _, name := range outputNames {
		attrs.Set(name, value.String(d.Outputs[name].Path))
	}

	return attrs
}

func firstOr(names []string, fallback string) string {
	if len(names) == 0 {
		return fallback
	}

	return names[0]
}

// FromAttrs builds a Derivation from the attribute set passed to the
// `derivation` built-in: name/builder are required, system defaults to
// "x86_64-linux", args is a list of strings, every other non-reserved
// attribute becomes an environment variable (coerced via toString rules
// the same way the original stringifies derivation attributes). Output
// paths are assigned once the canonical encoding's hash is known.
func FromAttrs(attrs *value.Attrs) (*Derivation, error) {
	nameVal, ok := attrs.Get("name")
	if !ok {
		return nil, fmt.Errorf("derivation: missing required attribute 'name'")
	}
	name, ok := nameVal.(value.String)
	if !ok {
		return nil, fmt.Errorf("derivation: 'name' must be a string")
	}

	builderVal, ok := attrs.Get("builder")
	if !ok {
		return nil, fmt.Errorf("derivation: missing required attribute 'builder'")
	}
	builder, ok := builderVal.(value.String)
	if !ok {
		return nil, fmt.Errorf("derivation: 'builder' must be a string")
	}

	drv := &Derivation{
		Name:      string(name),
		Builder:   string(builder),
		System:    "x86_64-linux",
		Env:       make(map[string]string),
		Outputs:   make(map[string]*Output),
		InputDrvs: make(map[string]*InputDrvOutputs),
	}

	if systemVal, ok := attrs.Get("system"); ok {
		if systemStr, ok := systemVal.(value.String); ok {
			drv.System = string(systemStr)
		}
	}

	if argsVal, ok := attrs.Get("args"); ok {
		argsList, ok := argsVal.(*value.List)
		if !ok {
			return nil, fmt.Errorf("derivation: 'args' must be a list")
		}
		drv.Args = make([]string, argsList.Len())
		for i := 0; i < argsList.Len(); i++ {
			elem, err := argsList.At(i).Force()
			if err != nil {
				return nil, err
			}
			s, ok := elem.(value.String)
			if !ok {
				return nil, fmt.Errorf("derivation: 'args' element %d is not a string", i)
			}
			drv.Args[i] = string(s)
		}
	}

	outputNames := []string{"out"}
	if outputsVal, ok := attrs.Get("outputs"); ok {
		if outputsList, ok := outputsVal.(*value.List); ok && outputsList.Len() > 0 {
			outputNames = outputNames[:0]
			elems, err := outputsList.Elements()
			if err != nil {
				return nil, err
			}
			for _, elem := range elems {
				s, ok := elem.(value.String)
				if !ok {
					return nil, fmt.Errorf("derivation: 'outputs' elements must be strings")
				}
				outputNames = append(outputNames, string(s))
			}
		}
	}

	reserved := map[string]bool{
		"name": true, "builder": true, "system": true, "args": true, "outputs": true,
	}
	for _, key := range attrs.Keys() {
		if reserved[key] {
			continue
		}
		val, ok := attrs.Get(key)
		if !ok {
			continue
		}
		// Non-reserved entries are coerced via the same toString rules
		// builtins.toString uses, so e.g. `FOO = 1;` sets env["FOO"] =
		// "1" rather than being silently dropped. List/Attrs/Function
		// values still have no string coercion and are omitted.
		s, ok := value.ToNixString(val)
		if !ok {
			continue
		}
		drv.Env[key] = s
	}

	for _, out := range outputNames {
		drv.Outputs[out] = &Output{}
	}

	hash := drv.canonicalHash()
	drv.StorePath = fmt.Sprintf("/nix/store/%s-%s", hash, drv.Name)

	for _, out := range outputNames {
		if out == "out" {
			drv.Outputs[out].Path = drv.StorePath
		} else {
			drv.Outputs[out].Path = drv.StorePath + "-" + out
		}
	}

	return drv, nil
}
