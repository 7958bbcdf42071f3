package eval

import (
	"github.com/conneroisu/gix/internal/nixerr"
	"github.com/conneroisu/gix/internal/types"
	"github.com/conneroisu/gix/internal/value"
)

// evalApply evaluates function application. The argument is passed as an
// unforced thunk in every case: a simple-parameter lambda binds it
// directly, an attrset-pattern lambda only forces it once (to destructure
// the formals), and a builtin receives it exactly as every other builtin
// argument does, via Builtin.Apply.
func (e *Evaluator) evalApply(expr *types.ApplyExpr, env value.Environment) (value.Value, error) {
	fnVal, err := e.evalExpr(expr.Func, env)
	if err != nil {
		return nil, err
	}

	argThunk := e.thunkOf(expr.Arg, env)

	switch fn := fnVal.(type) {
	case *value.Function:
		if fn.IsPatternFunction() {
			return e.applyPatternFunction(fn, argThunk)
		}

		return e.applySimpleFunction(fn, argThunk)

	case *value.Builtin:
		return fn.Apply(argThunk)

	default:
		return nil, nixerr.TypeMismatch(fnVal.Type().NixErrKind(), nixerr.TypeLambda)
	}
}

func (e *Evaluator) applySimpleFunction(fn *value.Function, argThunk *value.Thunk) (value.Value, error) {
	fnEnv := fn.Env().Extend()
	fnEnv.Set(fn.Param(), argThunk)

	body, ok := fn.Body().(types.Expr)
	if !ok {
		return nil, nixerr.Other("invalid function body")
	}

	return e.evalExpr(body, fnEnv)
}

// applyPatternFunction forces the argument to an attrset, binds each
// formal to either the corresponding attribute or its default (evaluated
// in the function body's own environment, so defaults may reference
// sibling formals), rejects extra attributes unless the pattern has an
// ellipsis, and binds the @-name, if any, to the raw argument attrset.
func (e *Evaluator) applyPatternFunction(fn *value.Function, argThunk *value.Thunk) (value.Value, error) {
	pattern, ok := fn.Pattern().(*types.Pattern)
	if !ok {
		return nil, nixerr.Other("invalid function pattern")
	}

	argVal, err := argThunk.Force()
	if err != nil {
		return nil, err
	}
	argAttrs, ok := argVal.(*value.Attrs)
	if !ok {
		return nil, nixerr.TypeMismatch(argVal.Type().NixErrKind(), nixerr.TypeSet)
	}

	fnEnv := fn.Env().Extend()

	formalNames := make(map[string]bool, len(pattern.Attrs))
	for _, formal := range pattern.Attrs {
		formalNames[formal.Name] = true
	}

	if !pattern.Ellipsis {
		for _, key := range argAttrs.Keys() {
			if !formalNames[key] {
				return nil, nixerr.FunctionCallWithoutArgument(key)
			}
		}
	}

	for _, formal := range pattern.Attrs {
		if t, ok := argAttrs.GetThunk(formal.Name); ok {
			fnEnv.Set(formal.Name, t)

			continue
		}

		if formal.Default == nil {
			return nil, nixerr.FunctionCallWithoutArgument(formal.Name)
		}

		fnEnv.Set(formal.Name, e.thunkOf(formal.Default, fnEnv))
	}

	if pattern.Name != "" {
		fnEnv.Set(pattern.Name, value.Evaluated(argAttrs))
	}

	body, ok := fn.Body().(types.Expr)
	if !ok {
		return nil, nixerr.Other("invalid function body")
	}

	return e.evalExpr(body, fnEnv)
}

// evalSelect evaluates attribute selection, walking a possibly-dynamic
// attribute path.
func (e *Evaluator) evalSelect(expr *types.SelectExpr, env value.Environment) (value.Value, error) {
	val, err := e.evalExpr(expr.Expr, env)
	if err != nil {
		return nil, err
	}

	current := val
	for i, comp := range expr.AttrPath {
		key, err := e.resolveAttrPathComponent(comp, env)
		if err != nil {
			return nil, err
		}

		attrs, ok := current.(*value.Attrs)
		if !ok {
			if expr.Default != nil {
				return e.evalExpr(expr.Default, env)
			}

			return nil, nixerr.TypeMismatch(current.Type().NixErrKind(), nixerr.TypeSet)
		}

		nextThunk, ok := attrs.GetThunk(key)
		if !ok {
			if expr.Default != nil {
				return e.evalExpr(expr.Default, env)
			}

			return nil, nixerr.MissingAttribute([]string{key})
		}
		next, err := nextThunk.Force()
		if err != nil {
			return nil, err
		}

		if i == len(expr.AttrPath)-1 {
			return next, nil
		}

		current = next
	}

	return nil, nixerr.Other("empty attribute path")
}

// evalHasAttr evaluates attribute existence test (e ? a.b.c).
func (e *Evaluator) evalHasAttr(
	expr *types.HasAttrExpr,
	env value.Environment,
) (value.Value, error) {
	val, err := e.evalExpr(expr.Expr, env)
	if err != nil {
		return nil, err
	}

	current := val
	for i, comp := range expr.AttrPath {
		key, err := e.resolveAttrPathComponent(comp, env)
		if err != nil {
			return nil, err
		}

		attrs, ok := current.(*value.Attrs)
		if !ok {
			return value.Bool(false), nil
		}

		next, ok := attrs.Get(key)
		if !ok {
			return value.Bool(false), nil
		}

		if i == len(expr.AttrPath)-1 {
			return value.Bool(true), nil
		}

		current = next
	}

	return value.Bool(true), nil
}

// resolveAttrPathComponent returns the attribute name a path segment
// denotes, evaluating ${expr} segments to a string.
func (e *Evaluator) resolveAttrPathComponent(
	comp types.AttrPathComponent,
	env value.Environment,
) (string, error) {
	if comp.Kind == types.StaticComponent {
		return comp.Name, nil
	}

	v, err := e.evalExpr(comp.Expr, env)
	if err != nil {
		return "", err
	}
	s, ok := v.(value.String)
	if !ok {
		return "", nixerr.TypeMismatch(v.Type().NixErrKind(), nixerr.TypeString)
	}

	return string(s), nil
}
