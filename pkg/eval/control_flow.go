package eval

import (
	"github.com/conneroisu/gix/internal/nixerr"
	"github.com/conneroisu/gix/internal/types"
	"github.com/conneroisu/gix/internal/value"
)

// evalIf evaluates an if-then-else expression.
func (e *Evaluator) evalIf(expr *types.IfExpr, env value.Environment) (value.Value, error) {
	cond, err := e.evalExpr(expr.Cond, env)
	if err != nil {
		return nil, err
	}

	condBool, ok := cond.(value.Bool)
	if !ok {
		return nil, nixerr.TypeMismatch(cond.Type().NixErrKind(), nixerr.TypeBool)
	}

	if condBool {
		return e.evalExpr(expr.Then, env)
	}

	return e.evalExpr(expr.Else, env)
}

// evalLet evaluates a let expression. Bindings are mutually recursive:
// every binding's thunk closes over letEnv, which already holds every
// sibling binding (itself included), so `let a = b; b = 1; in a` and
// `let f = x: if x == 0 then 0 else g (x-1); g = f; in f 3` both resolve.
// A binding that genuinely depends on its own value before producing one
// (`let x = x; in x`) surfaces as value.ErrBlackhole via Thunk.Force.
//
// Bindings share bindAttrPath/evalInherit with rec-attrset construction
// (same mutually-recursive-scope rule), so `let a.b = 1; in a` and
// `let inherit (pkgs) foo; in foo` both work: an intermediate *value.Attrs
// is built up and then its top-level leaves are published into letEnv.
func (e *Evaluator) evalLet(expr *types.LetExpr, env value.Environment) (value.Value, error) {
	letEnv := env.Extend()
	attrs := value.NewAttrs()

	for _, inherit := range expr.Inherits {
		if err := e.evalInherit(inherit, attrs, env, letEnv); err != nil {
			return nil, err
		}
	}

	for _, binding := range expr.Bindings {
		if err := e.bindAttrPath(attrs, binding.Path, binding.Value, letEnv); err != nil {
			return nil, err
		}
	}

	for _, key := range attrs.Keys() {
		t, _ := attrs.GetThunk(key)
		letEnv.Set(key, t)
	}

	return e.evalExpr(expr.Body, letEnv)
}

// evalWith evaluates a with expression. Unlike copying every attribute
// into the lexical bindings map, this pushes the (still-unforced) scope
// expression onto the environment's separate with-namespace chain;
// evalIdent only ever consults it after lexical lookup in every enclosing
// frame has already failed, re-forcing the scope per lookup rather than
// materializing it once up front.
func (e *Evaluator) evalWith(expr *types.WithExpr, env value.Environment) (value.Value, error) {
	scopeThunk := e.thunkOf(expr.Expr, env)
	withEnv := env.ExtendWith(scopeThunk)

	return e.evalExpr(expr.Body, withEnv)
}

// evalAssert evaluates an assert expression.
func (e *Evaluator) evalAssert(expr *types.AssertExpr, env value.Environment) (value.Value, error) {
	cond, err := e.evalExpr(expr.Cond, env)
	if err != nil {
		return nil, err
	}

	condBool, ok := cond.(value.Bool)
	if !ok {
		return nil, nixerr.TypeMismatch(cond.Type().NixErrKind(), nixerr.TypeBool)
	}

	if !condBool {
		return nil, nixerr.Other("assertion failed")
	}

	return e.evalExpr(expr.Body, env)
}
