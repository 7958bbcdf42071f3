package eval

import (
	"fmt"
	"path/filepath"

	"github.com/conneroisu/gix/internal/nixerr"
	"github.com/conneroisu/gix/internal/types"
	"github.com/conneroisu/gix/internal/value"
)

// Evaluator implements the semantic evaluation engine for Nix expressions.
// It traverses Abstract Syntax Trees (ASTs) and computes their runtime values,
// implementing lazy evaluation semantics: thunks, not values, flow through
// list elements, attribute set bindings, and function arguments, and are
// only forced when something actually demands the result.
type Evaluator struct {
	baseDir  string                 // Base directory for resolving relative paths
	builtins map[string]value.Value // Built-in functions and constants
}

// New creates a new evaluator instance with the specified base directory.
// The base directory is used for resolving relative path literals in expressions.
// A relative base directory is made absolute against the working directory,
// so resolved path values are always absolute.
func New(baseDir string) *Evaluator {
	if abs, err := filepath.Abs(baseDir); err == nil {
		baseDir = abs
	}
	e := &Evaluator{
		baseDir:  baseDir,
		builtins: make(map[string]value.Value),
	}
	e.registerBuiltins()

	return e
}

// Eval evaluates a Nix expression in a fresh environment populated with
// every registered built-in.
func (e *Evaluator) Eval(expr types.Expr) (value.Value, error) {
	env := value.NewEnv()
	for name, builtin := range e.builtins {
		env.Set(name, value.Evaluated(builtin))
	}

	return e.evalExpr(expr, env)
}

// EvalWithEnv evaluates an expression in an existing environment.
func (e *Evaluator) EvalWithEnv(expr types.Expr, env value.Environment) (value.Value, error) {
	return e.evalExpr(expr, env)
}

// thunkOf wraps expr/env in a Thunk that forces by calling back into
// evalExpr. This is the single place laziness is introduced: every list
// element, attrset binding, and function argument becomes one of these
// instead of an eagerly-computed value.Value.
func (e *Evaluator) thunkOf(expr types.Expr, env value.Environment) *value.Thunk {
	return value.NewThunk(func() (value.Value, error) {
		return e.evalExpr(expr, env)
	})
}

// evalExpr is the central evaluation dispatcher.
func (e *Evaluator) evalExpr(expr types.Expr, env value.Environment) (value.Value, error) {
	switch expr := expr.(type) {
	case *types.IntExpr:
		return value.Int(expr.Value), nil

	case *types.FloatExpr:
		return value.Float(expr.Value), nil

	case *types.StringExpr:
		return e.evalString(expr, env)

	case *types.BoolExpr:
		return value.Bool(expr.Value), nil

	case *types.NullExpr:
		return value.Null{}, nil

	case *types.PathExpr:
		path := e.resolvePath(expr.Value)

		return value.Path(path), nil

	case *types.IdentExpr:
		return e.evalIdent(expr.Name, env)

	case *types.ListExpr:
		return e.evalList(expr, env)

	case *types.AttrSetExpr:
		return e.evalAttrSet(expr, env)

	case *types.BinaryExpr:
		return e.evalBinary(expr, env)

	case *types.UnaryExpr:
		return e.evalUnary(expr, env)

	case *types.IfExpr:
		return e.evalIf(expr, env)

	case *types.LetExpr:
		return e.evalLet(expr, env)

	case *types.WithExpr:
		return e.evalWith(expr, env)

	case *types.AssertExpr:
		return e.evalAssert(expr, env)

	case *types.FunctionExpr:
		if expr.Pattern != nil {
			return value.NewPatternFunction(expr.Pattern, expr.Body, env), nil
		}

		return value.NewFunction(expr.Param, expr.Body, env), nil

	case *types.ApplyExpr:
		return e.evalApply(expr, env)

	case *types.SelectExpr:
		return e.evalSelect(expr, env)

	case *types.HasAttrExpr:
		return e.evalHasAttr(expr, env)

	default:
		return nil, fmt.Errorf("unknown expression type: %T", expr)
	}
}

// evalString assembles an interpolated string by forcing each dynamic
// segment and concatenating; a string with no interpolated parts returns
// its literal text directly.
func (e *Evaluator) evalString(expr *types.StringExpr, env value.Environment) (value.Value, error) {
	if len(expr.Parts) == 0 {
		return value.String(expr.Value), nil
	}

	var out string
	for _, part := range expr.Parts {
		if part.Kind == types.StaticComponent {
			out += part.Text

			continue
		}

		v, err := e.evalExpr(part.Expr, env)
		if err != nil {
			return nil, err
		}

		s, err := stringify(v)
		if err != nil {
			return nil, err
		}
		out += s
	}

	return value.String(out), nil
}

// stringify coerces a value into the text used for string interpolation.
func stringify(v value.Value) (string, error) {
	switch v := v.(type) {
	case value.String:
		return string(v), nil
	case value.Path:
		return string(v), nil
	case value.Int:
		return v.String(), nil
	case value.Float:
		return v.String(), nil
	default:
		return "", nixerr.TypeMismatch(v.Type().NixErrKind(),
			nixerr.TypeString, nixerr.TypePath, nixerr.TypeInt, nixerr.TypeFloat)
	}
}

// evalIdent resolves variable references: first along the lexical
// bindings chain, then, only once that is exhausted, against each
// enclosing with-scope from innermost to outermost, re-forcing the
// scope's attrs on every lookup rather than materializing it once.
func (e *Evaluator) evalIdent(name string, env value.Environment) (value.Value, error) {
	if t, ok := env.Get(name); ok {
		return t.Force()
	}

	for _, scopeThunk := range env.WithFrames() {
		scope, err := scopeThunk.Force()
		if err != nil {
			return nil, err
		}
		attrs, ok := scope.(*value.Attrs)
		if !ok {
			return nil, nixerr.TypeMismatch(scope.Type().NixErrKind(), nixerr.TypeSet)
		}
		if t, ok := attrs.GetThunk(name); ok {
			return t.Force()
		}
	}

	return nil, nixerr.CouldNotFindVariable(name)
}

// evalList builds a list of thunks, one per element expression, without
// forcing any of them.
func (e *Evaluator) evalList(expr *types.ListExpr, env value.Environment) (value.Value, error) {
	thunks := make([]*value.Thunk, len(expr.Elements))
	for i, elem := range expr.Elements {
		thunks[i] = e.thunkOf(elem, env)
	}

	return value.NewThunkedList(thunks...), nil
}

// evalAttrSet evaluates attribute set expressions. Every binding becomes
// a thunk; for a recursive set, those thunks close over an environment
// that already contains every sibling binding (including itself), so
// `rec { x = 1; y = x + 1; }` and mutually-recursive bindings like
// `rec { a = b; b = a; }` both resolve correctly (the latter by blackhole
// detection when something actually forces a or b).
func (e *Evaluator) evalAttrSet(
	expr *types.AttrSetExpr,
	env value.Environment,
) (value.Value, error) {
	attrs := value.NewAttrs()

	evalEnv := env
	if expr.Recursive {
		evalEnv = env.Extend()
	}

	for _, inherit := range expr.Inherits {
		if err := e.evalInherit(inherit, attrs, env, evalEnv); err != nil {
			return nil, err
		}
	}

	for _, binding := range expr.Bindings {
		if err := e.bindAttrPath(attrs, binding.Path, binding.Value, evalEnv); err != nil {
			return nil, err
		}
	}

	if expr.Recursive {
		// Publish every top-level leaf binding into evalEnv so sibling
		// thunks (and the set itself) can see each other by name. Only
		// the outermost component of each path is a lexical name; nested
		// path components are reached through the attrs value itself.
		for _, key := range attrs.Keys() {
			t, _ := attrs.GetThunk(key)
			evalEnv.Set(key, t)
		}
	}

	return attrs, nil
}

// evalInherit implements `inherit a b;` (pulling a, b from the enclosing
// scope) and `inherit (expr) a b;` (pulling them from expr's attrs),
// binding each name as a thunk rather than forcing it immediately.
func (e *Evaluator) evalInherit(
	inherit types.InheritClause,
	attrs *value.Attrs,
	outerEnv value.Environment,
	evalEnv value.Environment,
) error {
	if inherit.From == nil {
		for _, name := range inherit.Attrs {
			t, ok := outerEnv.Get(name)
			if !ok {
				return nixerr.CouldNotFindVariable(name)
			}
			attrs.SetThunk(name, t)
		}

		return nil
	}

	fromThunk := e.thunkOf(inherit.From, evalEnv)
	for _, name := range inherit.Attrs {
		name := name
		attrs.SetThunk(name, value.NewThunk(func() (value.Value, error) {
			from, err := fromThunk.Force()
			if err != nil {
				return nil, err
			}
			fromAttrs, ok := from.(*value.Attrs)
			if !ok {
				return nil, nixerr.TypeMismatch(from.Type().NixErrKind(), nixerr.TypeSet)
			}
			t, ok := fromAttrs.GetThunk(name)
			if !ok {
				return nil, nixerr.MissingAttribute([]string{name})
			}

			return t.Force()
		}))
	}

	return nil
}

// bindAttrPath installs a single binding, possibly nested (a.b.c = v),
// as a thunk. Dynamic path components are resolved eagerly, one at a
// time, interleaved with intermediate-set creation: a component that
// forces to Null means "skip this binding" and the whole binding is
// silently dropped, but any intermediate sets created by components
// before it stay in place. Non-string, non-null dynamic components are a
// type error.
func (e *Evaluator) bindAttrPath(
	attrs *value.Attrs,
	path []types.AttrPathComponent,
	valueExpr types.Expr,
	env value.Environment,
) error {
	current := attrs
	var resolved []string

	for i, comp := range path {
		name := comp.Name
		if comp.Kind != types.StaticComponent {
			v, err := e.evalExpr(comp.Expr, env)
			if err != nil {
				return err
			}
			if _, isNull := v.(value.Null); isNull {
				return nil
			}
			s, ok := v.(value.String)
			if !ok {
				return nixerr.TypeMismatch(v.Type().NixErrKind(), nixerr.TypeString)
			}
			name = string(s)
		}
		resolved = append(resolved, name)

		if i == len(path)-1 {
			if current.Has(name) {
				return nixerr.AttributeAlreadyDefined(resolved)
			}
			current.SetThunk(name, e.thunkOf(valueExpr, env))

			return nil
		}

		if t, ok := current.GetThunk(name); ok {
			existing, err := t.Force()
			if err != nil {
				return err
			}
			nested, ok := existing.(*value.Attrs)
			if !ok {
				return nixerr.AttributeAlreadyDefined(resolved)
			}
			current = nested

			continue
		}

		nested := value.NewAttrs()
		current.SetThunk(name, value.Evaluated(nested))
		current = nested
	}

	return nil
}

// resolvePath resolves path literals against the evaluator's base
// directory. Absolute paths are returned unchanged.
func (e *Evaluator) resolvePath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}

	return filepath.Join(e.baseDir, path)
}
