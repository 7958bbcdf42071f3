package eval

import (
	"encoding/json"
	"os"
	"path"
	"path/filepath"

	"github.com/conneroisu/gix/internal/nixerr"
	"github.com/conneroisu/gix/internal/value"
	"github.com/conneroisu/gix/pkg/derivation"
	"github.com/conneroisu/gix/pkg/lexer"
	"github.com/conneroisu/gix/pkg/parser"
)

// registerBuiltins populates the evaluator with the standard library
// reachable through the `builtins` attrset. Every entry is also bound by
// its bare name at the top level, alongside true, false and null.
func (e *Evaluator) registerBuiltins() {
	e.builtins["true"] = value.Bool(true)
	e.builtins["false"] = value.Bool(false)
	e.builtins["null"] = value.Null{}

	builtinsSet := value.NewAttrs()
	register := func(name string, b *value.Builtin) {
		e.builtins[name] = b
		builtinsSet.Set(name, b)
	}

	register("isNull", makeCurried("isNull", 1, builtinIsNull))
	register("isBool", makeCurried("isBool", 1, builtinIsBool))
	register("isInt", makeCurried("isInt", 1, builtinIsInt))
	register("isFloat", makeCurried("isFloat", 1, builtinIsFloat))
	register("isString", makeCurried("isString", 1, builtinIsString))
	register("isPath", makeCurried("isPath", 1, builtinIsPath))
	register("isList", makeCurried("isList", 1, builtinIsList))
	register("isAttrs", makeCurried("isAttrs", 1, builtinIsAttrs))
	register("isFunction", makeCurried("isFunction", 1, builtinIsFunction))
	register("typeOf", makeCurried("typeOf", 1, builtinTypeOf))

	register("toString", makeCurried("toString", 1, builtinToString))
	register("baseNameOf", makeCurried("baseNameOf", 1, builtinBaseNameOf))
	register("dirOf", makeCurried("dirOf", 1, builtinDirOf))

	register("length", makeCurried("length", 1, builtinLength))
	register("head", makeCurried("head", 1, builtinHead))
	register("tail", makeCurried("tail", 1, builtinTail))
	register("elemAt", makeCurried("elemAt", 2, builtinElemAt))
	register("elem", makeCurried("elem", 2, builtinElem))
	register("concatLists", makeCurried("concatLists", 1, builtinConcatLists))

	register("attrNames", makeCurried("attrNames", 1, builtinAttrNames))
	register("attrValues", makeCurried("attrValues", 1, builtinAttrValues))
	register("hasAttr", makeCurried("hasAttr", 2, builtinHasAttr))
	register("getAttr", makeCurried("getAttr", 2, builtinGetAttr))

	register("add", makeCurried("add", 2, builtinAdd))
	register("sub", makeCurried("sub", 2, builtinSub))
	register("mul", makeCurried("mul", 2, builtinMul))
	register("div", makeCurried("div", 2, builtinDiv))

	register("toJSON", makeCurried("toJSON", 1, builtinToJSON))
	register("fromJSON", makeCurried("fromJSON", 1, builtinFromJSON))

	register("abort", makeCurried("abort", 1, builtinAbort))
	register("throw", makeCurried("throw", 1, builtinThrow))
	register("derivation", makeCurried("derivation", 1, builtinDerivation))

	// all/any, filter, map, tryEval, and import need access to the
	// evaluator itself (to re-enter evalExpr against a user function, or
	// to parse+eval another file), so they are built as closures over e
	// rather than free functions passed to makeCurried.
	register("all", e.builtinAll())
	register("any", e.builtinAny())
	register("filter", e.builtinFilter())
	register("map", e.builtinMap())
	register("tryEval", e.builtinTryEval())
	register("import", e.builtinImport())

	e.builtins["builtins"] = builtinsSet
}

// makeCurried builds a Builtin of the given arity out of a plain
// Go function over already-forced values. Applying fewer than arity
// arguments returns a new partially-applied Builtin rather than invoking
// impl; applying the last one forces every collected argument (in order)
// and calls impl. This is what lets `(add 1) 2` and `add 1 2` both reach
// the same implementation, mirroring how ordinary lambdas curry under
// ApplyExpr's one-argument-per-node grammar.
func makeCurried(
	name string,
	arity int,
	impl func(args []value.Value) (value.Value, error),
) *value.Builtin {
	var build func(collected []*value.Thunk) *value.Builtin
	build = func(collected []*value.Thunk) *value.Builtin {
		return value.NewBuiltin(name, func(args []*value.Thunk) (value.Value, error) {
			all := append(append([]*value.Thunk(nil), collected...), args...)
			if len(all) < arity {
				return build(all), nil
			}

			vals := make([]value.Value, len(all))
			for i, t := range all {
				v, err := t.Force()
				if err != nil {
					return nil, err
				}
				vals[i] = v
			}

			return impl(vals)
		})
	}

	return build(nil)
}

// makeCurriedLazy is like makeCurried but leaves arguments as thunks,
// for built-ins (map, filter, all, any) that must not force more than
// their contract promises.
func makeCurriedLazy(
	name string,
	arity int,
	impl func(args []*value.Thunk) (value.Value, error),
) *value.Builtin {
	var build func(collected []*value.Thunk) *value.Builtin
	build = func(collected []*value.Thunk) *value.Builtin {
		return value.NewBuiltin(name, func(args []*value.Thunk) (value.Value, error) {
			all := append(append([]*value.Thunk(nil), collected...), args...)
			if len(all) < arity {
				return build(all), nil
			}

			return impl(all)
		})
	}

	return build(nil)
}

// Type checking built-ins.

func builtinIsNull(args []value.Value) (value.Value, error) {
	_, ok := args[0].(value.Null)

	return value.Bool(ok), nil
}

func builtinIsBool(args []value.Value) (value.Value, error) {
	_, ok := args[0].(value.Bool)

	return value.Bool(ok), nil
}

func builtinIsInt(args []value.Value) (value.Value, error) {
	_, ok := args[0].(value.Int)

	return value.Bool(ok), nil
}

func builtinIsFloat(args []value.Value) (value.Value, error) {
	_, ok := args[0].(value.Float)

	return value.Bool(ok), nil
}

func builtinIsString(args []value.Value) (value.Value, error) {
	_, ok := args[0].(value.String)

	return value.Bool(ok), nil
}

func builtinIsPath(args []value.Value) (value.Value, error) {
	_, ok := args[0].(value.Path)

	return value.Bool(ok), nil
}

func builtinIsList(args []value.Value) (value.Value, error) {
	_, ok := args[0].(*value.List)

	return value.Bool(ok), nil
}

func builtinIsAttrs(args []value.Value) (value.Value, error) {
	_, ok := args[0].(*value.Attrs)

	return value.Bool(ok), nil
}

func builtinIsFunction(args []value.Value) (value.Value, error) {
	switch args[0].(type) {
	case *value.Function, *value.Builtin:
		return value.Bool(true), nil
	default:
		return value.Bool(false), nil
	}
}

func builtinTypeOf(args []value.Value) (value.Value, error) {
	return value.String(args[0].Type().String()), nil
}

// Conversion built-ins.

func builtinToString(args []value.Value) (value.Value, error) {
	s, ok := value.ToNixString(args[0])
	if !ok {
		return nil, nixerr.TypeMismatch(args[0].Type().NixErrKind(),
			nixerr.TypeString, nixerr.TypeInt, nixerr.TypeFloat, nixerr.TypeBool,
			nixerr.TypeNull, nixerr.TypePath)
	}

	return value.String(s), nil
}

func builtinBaseNameOf(args []value.Value) (value.Value, error) {
	s, err := pathlikeString(args[0])
	if err != nil {
		return nil, err
	}

	return value.String(path.Base(s)), nil
}

func builtinDirOf(args []value.Value) (value.Value, error) {
	s, err := pathlikeString(args[0])
	if err != nil {
		return nil, err
	}
	if _, ok := args[0].(value.Path); ok {
		return value.Path(path.Dir(s)), nil
	}

	return value.String(path.Dir(s)), nil
}

func pathlikeString(v value.Value) (string, error) {
	switch v := v.(type) {
	case value.String:
		return string(v), nil
	case value.Path:
		return string(v), nil
	default:
		return "", nixerr.TypeMismatch(v.Type().NixErrKind(), nixerr.TypeString, nixerr.TypePath)
	}
}

// List built-ins. head/tail/elemAt only force the elements they actually
// need, so `head [1 (1/0)]` returns 1 without ever forcing the second
// element.

func builtinLength(args []value.Value) (value.Value, error) {
	switch v := args[0].(type) {
	case *value.List:
		return value.Int(v.Len()), nil
	case value.String:
		return value.Int(len(v)), nil
	case *value.Attrs:
		return value.Int(v.Len()), nil
	default:
		return nil, nixerr.TypeMismatch(v.Type().NixErrKind(),
			nixerr.TypeList, nixerr.TypeString, nixerr.TypeSet)
	}
}

func builtinHead(args []value.Value) (value.Value, error) {
	list, ok := args[0].(*value.List)
	if !ok {
		return nil, nixerr.TypeMismatch(args[0].Type().NixErrKind(), nixerr.TypeList)
	}
	if list.Len() == 0 {
		return nil, nixerr.Other("head called on an empty list")
	}

	return list.At(0).Force()
}

func builtinTail(args []value.Value) (value.Value, error) {
	list, ok := args[0].(*value.List)
	if !ok {
		return nil, nixerr.TypeMismatch(args[0].Type().NixErrKind(), nixerr.TypeList)
	}
	if list.Len() == 0 {
		return nil, nixerr.Other("tail called on an empty list")
	}

	return value.NewThunkedList(list.Thunks()[1:]...), nil
}

func builtinElemAt(args []value.Value) (value.Value, error) {
	list, ok := args[0].(*value.List)
	if !ok {
		return nil, nixerr.TypeMismatch(args[0].Type().NixErrKind(), nixerr.TypeList)
	}
	idx, ok := args[1].(value.Int)
	if !ok {
		return nil, nixerr.TypeMismatch(args[1].Type().NixErrKind(), nixerr.TypeInt)
	}
	t := list.At(int(idx))
	if t == nil {
		return nil, nixerr.Other("elemAt: index out of bounds")
	}

	return t.Force()
}

func builtinElem(args []value.Value) (value.Value, error) {
	elem := args[0]
	list, ok := args[1].(*value.List)
	if !ok {
		return nil, nixerr.TypeMismatch(args[1].Type().NixErrKind(), nixerr.TypeList)
	}

	for _, t := range list.Thunks() {
		v, err := t.Force()
		if err != nil {
			return nil, err
		}
		if elem.Equals(v) {
			return value.Bool(true), nil
		}
	}

	return value.Bool(false), nil
}

func builtinConcatLists(args []value.Value) (value.Value, error) {
	outer, ok := args[0].(*value.List)
	if !ok {
		return nil, nixerr.TypeMismatch(args[0].Type().NixErrKind(), nixerr.TypeList)
	}

	var flat []*value.Thunk
	for _, t := range outer.Thunks() {
		v, err := t.Force()
		if err != nil {
			return nil, err
		}
		inner, ok := v.(*value.List)
		if !ok {
			return nil, nixerr.TypeMismatch(v.Type().NixErrKind(), nixerr.TypeList)
		}
		flat = append(flat, inner.Thunks()...)
	}

	return value.NewThunkedList(flat...), nil
}

// Attribute set built-ins.

func builtinAttrNames(args []value.Value) (value.Value, error) {
	attrs, ok := args[0].(*value.Attrs)
	if !ok {
		return nil, nixerr.TypeMismatch(args[0].Type().NixErrKind(), nixerr.TypeSet)
	}

	keys := attrs.Keys()
	names := make([]value.Value, len(keys))
	for i, k := range keys {
		names[i] = value.String(k)
	}

	return value.NewList(names...), nil
}

func builtinAttrValues(args []value.Value) (value.Value, error) {
	attrs, ok := args[0].(*value.Attrs)
	if !ok {
		return nil, nixerr.TypeMismatch(args[0].Type().NixErrKind(), nixerr.TypeSet)
	}

	keys := attrs.Keys()
	thunks := make([]*value.Thunk, len(keys))
	for i, k := range keys {
		t, _ := attrs.GetThunk(k)
		thunks[i] = t
	}

	return value.NewThunkedList(thunks...), nil
}

func builtinHasAttr(args []value.Value) (value.Value, error) {
	name, ok := args[0].(value.String)
	if !ok {
		return nil, nixerr.TypeMismatch(args[0].Type().NixErrKind(), nixerr.TypeString)
	}
	attrs, ok := args[1].(*value.Attrs)
	if !ok {
		return nil, nixerr.TypeMismatch(args[1].Type().NixErrKind(), nixerr.TypeSet)
	}

	return value.Bool(attrs.Has(string(name))), nil
}

func builtinGetAttr(args []value.Value) (value.Value, error) {
	name, ok := args[0].(value.String)
	if !ok {
		return nil, nixerr.TypeMismatch(args[0].Type().NixErrKind(), nixerr.TypeString)
	}
	attrs, ok := args[1].(*value.Attrs)
	if !ok {
		return nil, nixerr.TypeMismatch(args[1].Type().NixErrKind(), nixerr.TypeSet)
	}

	t, ok := attrs.GetThunk(string(name))
	if !ok {
		return nil, nixerr.MissingAttribute([]string{string(name)})
	}

	return t.Force()
}

// Arithmetic built-ins delegate to the same implementations as the
// matching binary operators.

func builtinAdd(args []value.Value) (value.Value, error) { return evalAdd(args[0], args[1]) }
func builtinSub(args []value.Value) (value.Value, error) { return evalSub(args[0], args[1]) }
func builtinMul(args []value.Value) (value.Value, error) { return evalMul(args[0], args[1]) }
func builtinDiv(args []value.Value) (value.Value, error) { return evalDiv(args[0], args[1]) }

// JSON built-ins, round-tripping through an intermediate interface{} tree
// built from stdlib encoding/json. Path and Lambda have no JSON
// representation and are a type error.

func builtinToJSON(args []value.Value) (value.Value, error) {
	tree, err := toJSONTree(args[0])
	if err != nil {
		return nil, err
	}

	b, err := json.Marshal(tree)
	if err != nil {
		return nil, nixerr.Other(err.Error())
	}

	return value.String(b), nil
}

func toJSONTree(v value.Value) (interface{}, error) {
	switch v := v.(type) {
	case value.Null:
		return nil, nil
	case value.Bool:
		return bool(v), nil
	case value.Int:
		return int64(v), nil
	case value.Float:
		return float64(v), nil
	case value.String:
		return string(v), nil
	case *value.List:
		elems, err := v.Elements()
		if err != nil {
			return nil, err
		}
		out := make([]interface{}, len(elems))
		for i, e := range elems {
			tree, err := toJSONTree(e)
			if err != nil {
				return nil, err
			}
			out[i] = tree
		}

		return out, nil
	case *value.Attrs:
		out := make(map[string]interface{}, v.Len())
		for _, k := range v.Keys() {
			val, _ := v.Get(k)
			tree, err := toJSONTree(val)
			if err != nil {
				return nil, err
			}
			out[k] = tree
		}

		return out, nil
	default:
		return nil, nixerr.TypeMismatch(v.Type().NixErrKind(),
			nixerr.TypeNull, nixerr.TypeBool, nixerr.TypeInt, nixerr.TypeFloat,
			nixerr.TypeString, nixerr.TypeList, nixerr.TypeSet)
	}
}

func builtinFromJSON(args []value.Value) (value.Value, error) {
	s, ok := args[0].(value.String)
	if !ok {
		return nil, nixerr.TypeMismatch(args[0].Type().NixErrKind(), nixerr.TypeString)
	}

	var tree interface{}
	if err := json.Unmarshal([]byte(s), &tree); err != nil {
		return nil, nixerr.Other(err.Error())
	}

	return fromJSONTree(tree), nil
}

func fromJSONTree(tree interface{}) value.Value {
	switch t := tree.(type) {
	case nil:
		return value.Null{}
	case bool:
		return value.Bool(t)
	case float64:
		if t == float64(int64(t)) {
			return value.Int(int64(t))
		}

		return value.Float(t)
	case string:
		return value.String(t)
	case []interface{}:
		elems := make([]value.Value, len(t))
		for i, e := range t {
			elems[i] = fromJSONTree(e)
		}

		return value.NewList(elems...)
	case map[string]interface{}:
		attrs := value.NewAttrs()
		for k, v := range t {
			attrs.Set(k, fromJSONTree(v))
		}

		return attrs
	default:
		return value.Null{}
	}
}

// abort/throw built-ins.

func builtinAbort(args []value.Value) (value.Value, error) {
	s, ok := args[0].(value.String)
	if !ok {
		return nil, nixerr.TypeMismatch(args[0].Type().NixErrKind(), nixerr.TypeString)
	}

	return nil, nixerr.Abort(string(s))
}

func builtinThrow(args []value.Value) (value.Value, error) {
	s, ok := args[0].(value.String)
	if !ok {
		return nil, nixerr.TypeMismatch(args[0].Type().NixErrKind(), nixerr.TypeString)
	}

	return nil, nixerr.Throw(string(s))
}

// Derivation built-in.

func builtinDerivation(args []value.Value) (value.Value, error) {
	attrs, ok := args[0].(*value.Attrs)
	if !ok {
		return nil, nixerr.TypeMismatch(args[0].Type().NixErrKind(), nixerr.TypeSet)
	}

	drv, err := derivation.FromAttrs(attrs)
	if err != nil {
		return nil, nixerr.Other(err.Error())
	}

	return drv.ToAttrs(), nil
}

// Built-ins needing evaluator access, to apply a user-supplied function
// (all/any/filter/map) or re-enter evalExpr itself (tryEval).

func (e *Evaluator) builtinAll() *value.Builtin {
	return makeCurriedLazy("all", 2, func(args []*value.Thunk) (value.Value, error) {
		pred, err := args[0].Force()
		if err != nil {
			return nil, err
		}
		listVal, err := args[1].Force()
		if err != nil {
			return nil, err
		}
		list, ok := listVal.(*value.List)
		if !ok {
			return nil, nixerr.TypeMismatch(listVal.Type().NixErrKind(), nixerr.TypeList)
		}

		for _, t := range list.Thunks() {
			result, err := e.applyValue(pred, t)
			if err != nil {
				return nil, err
			}
			b, ok := result.(value.Bool)
			if !ok {
				return nil, nixerr.TypeMismatch(result.Type().NixErrKind(), nixerr.TypeBool)
			}
			if !b {
				return value.Bool(false), nil
			}
		}

		return value.Bool(true), nil
	})
}

func (e *Evaluator) builtinAny() *value.Builtin {
	return makeCurriedLazy("any", 2, func(args []*value.Thunk) (value.Value, error) {
		pred, err := args[0].Force()
		if err != nil {
			return nil, err
		}
		listVal, err := args[1].Force()
		if err != nil {
			return nil, err
		}
		list, ok := listVal.(*value.List)
		if !ok {
			return nil, nixerr.TypeMismatch(listVal.Type().NixErrKind(), nixerr.TypeList)
		}

		for _, t := range list.Thunks() {
			result, err := e.applyValue(pred, t)
			if err != nil {
				return nil, err
			}
			b, ok := result.(value.Bool)
			if !ok {
				return nil, nixerr.TypeMismatch(result.Type().NixErrKind(), nixerr.TypeBool)
			}
			if b {
				return value.Bool(true), nil
			}
		}

		return value.Bool(false), nil
	})
}

// builtinFilter lazily keeps list elements for which pred forces true.
// Deciding membership necessarily forces pred on every element (the
// predicate itself can't be deferred), but the elements themselves stay
// thunked in the resulting list.
func (e *Evaluator) builtinFilter() *value.Builtin {
	return makeCurriedLazy("filter", 2, func(args []*value.Thunk) (value.Value, error) {
		pred, err := args[0].Force()
		if err != nil {
			return nil, err
		}
		listVal, err := args[1].Force()
		if err != nil {
			return nil, err
		}
		list, ok := listVal.(*value.List)
		if !ok {
			return nil, nixerr.TypeMismatch(listVal.Type().NixErrKind(), nixerr.TypeList)
		}

		var kept []*value.Thunk
		for _, t := range list.Thunks() {
			result, err := e.applyValue(pred, t)
			if err != nil {
				return nil, err
			}
			b, ok := result.(value.Bool)
			if !ok {
				return nil, nixerr.TypeMismatch(result.Type().NixErrKind(), nixerr.TypeBool)
			}
			if b {
				kept = append(kept, t)
			}
		}

		return value.NewThunkedList(kept...), nil
	})
}

// builtinMap applies fn to each element, producing new thunks that only
// call fn once something forces the corresponding result element.
func (e *Evaluator) builtinMap() *value.Builtin {
	return makeCurriedLazy("map", 2, func(args []*value.Thunk) (value.Value, error) {
		fnThunk, listThunk := args[0], args[1]

		fn, err := fnThunk.Force()
		if err != nil {
			return nil, err
		}
		listVal, err := listThunk.Force()
		if err != nil {
			return nil, err
		}
		list, ok := listVal.(*value.List)
		if !ok {
			return nil, nixerr.TypeMismatch(listVal.Type().NixErrKind(), nixerr.TypeList)
		}

		elemThunks := list.Thunks()
		mapped := make([]*value.Thunk, len(elemThunks))
		for i, elemThunk := range elemThunks {
			elemThunk := elemThunk
			mapped[i] = value.NewThunk(func() (value.Value, error) {
				return e.applyValue(fn, elemThunk)
			})
		}

		return value.NewThunkedList(mapped...), nil
	})
}

// builtinTryEval deep-forces its argument, catching only throw. abort,
// type errors, and infinite recursion still propagate.
func (e *Evaluator) builtinTryEval() *value.Builtin {
	return makeCurriedLazy("tryEval", 1, func(args []*value.Thunk) (value.Value, error) {
		v, err := deepForce(args[0])
		result := value.NewAttrs()
		if err == nil {
			result.Set("success", value.Bool(true))
			result.Set("value", v)

			return result, nil
		}

		var nerr *nixerr.Error
		if ok := asNixErr(err, &nerr); ok && nerr.Catchable() {
			result.Set("success", value.Bool(false))
			result.Set("value", value.Bool(false))

			return result, nil
		}

		return nil, err
	})
}

func asNixErr(err error, target **nixerr.Error) bool {
	if e, ok := err.(*nixerr.Error); ok {
		*target = e

		return true
	}

	return false
}

// deepForce forces a thunk and recursively forces every list element and
// attrset value it contains, the way tryEval's contract requires.
func deepForce(t *value.Thunk) (value.Value, error) {
	v, err := t.Force()
	if err != nil {
		return nil, err
	}

	switch v := v.(type) {
	case *value.List:
		for _, elemT := range v.Thunks() {
			if _, err := deepForce(elemT); err != nil {
				return nil, err
			}
		}
	case *value.Attrs:
		for _, k := range v.Keys() {
			elemT, _ := v.GetThunk(k)
			if _, err := deepForce(elemT); err != nil {
				return nil, err
			}
		}
	}

	return v, nil
}

// DeepForce recursively forces every list element and attrset value
// reachable from v, the same traversal deepForce gives tryEval, exposed
// for callers (the eval CLI command) that already hold a forced top
// value rather than an unforced thunk.
func DeepForce(v value.Value) (value.Value, error) {
	return deepForce(value.NewThunk(func() (value.Value, error) { return v, nil }))
}

// builtinImport reads, parses, and evaluates the file at an absolute path.
// A path literal argument is already absolute, having been resolved
// against the evaluator's base directory; a string argument that is not
// an absolute path is an error. The imported expression is evaluated by a fresh Evaluator scoped to the
// imported file's own directory, so relative paths inside it resolve
// against that file's directory rather than the importing file's.
func (e *Evaluator) builtinImport() *value.Builtin {
	return makeCurried("import", 1, func(args []value.Value) (value.Value, error) {
		p, err := pathlikeString(args[0])
		if err != nil {
			return nil, err
		}

		if !filepath.IsAbs(p) {
			return nil, nixerr.Other("import: path '" + p + "' is not absolute")
		}
		resolved := filepath.Clean(p)

		src, err := os.ReadFile(resolved)
		if err != nil {
			return nil, nixerr.Other(err.Error())
		}

		l := lexer.New(string(src))
		expr, err := parser.New(l).Parse()
		if err != nil {
			return nil, nixerr.ParseError(err.Error())
		}

		return New(filepath.Dir(resolved)).Eval(expr)
	})
}

// applyValue applies fn (a *value.Function or *value.Builtin) to a single
// thunked argument, the way evalApply does for ApplyExpr nodes.
func (e *Evaluator) applyValue(fn value.Value, arg *value.Thunk) (value.Value, error) {
	switch fn := fn.(type) {
	case *value.Function:
		if fn.IsPatternFunction() {
			return e.applyPatternFunction(fn, arg)
		}

		return e.applySimpleFunction(fn, arg)
	case *value.Builtin:
		return fn.Apply(arg)
	default:
		return nil, nixerr.TypeMismatch(fn.Type().NixErrKind(), nixerr.TypeLambda)
	}
}
