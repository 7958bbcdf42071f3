package value

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/conneroisu/gix/internal/nixerr"
)

// Type represents the type of a Nix value.
type Type byte

const (
	TypeNull Type = iota
	TypeBool
	TypeInt
	TypeFloat
	TypeString
	TypePath
	TypeList
	TypeAttrs
	TypeFunction
	TypeBuiltin
)

func (t Type) String() string {
	switch t {
	case TypeNull:
		return "null"
	case TypeBool:
		return "bool"
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float"
	case TypeString:
		return "string"
	case TypePath:
		return "path"
	case TypeList:
		return "list"
	case TypeAttrs:
		return "set"
	case TypeFunction, TypeBuiltin:
		return "lambda"
	default:
		return "unknown"
	}
}

// NixErrKind maps a Type to the TypeKind vocabulary nixerr.TypeMismatch
// expects.
func (t Type) NixErrKind() nixerr.TypeKind {
	switch t {
	case TypeNull:
		return nixerr.TypeNull
	case TypeBool:
		return nixerr.TypeBool
	case TypeInt:
		return nixerr.TypeInt
	case TypeFloat:
		return nixerr.TypeFloat
	case TypeString:
		return nixerr.TypeString
	case TypePath:
		return nixerr.TypePath
	case TypeList:
		return nixerr.TypeList
	case TypeAttrs:
		return nixerr.TypeSet
	case TypeFunction, TypeBuiltin:
		return nixerr.TypeLambda
	default:
		return nixerr.TypeVariadic
	}
}

// Value is the interface all Nix values must implement.
type Value interface {
	Type() Type
	String() string
	Equals(Value) bool
}

// Null represents the null value.
type Null struct{}

func (Null) Type() Type     { return TypeNull }
func (Null) String() string { return "null" }
func (Null) Equals(v Value) bool {
	_, ok := v.(Null)

	return ok
}

// Bool represents a boolean value.
type Bool bool

func (b Bool) Type() Type     { return TypeBool }
func (b Bool) String() string { return fmt.Sprintf("%t", b) }
func (b Bool) Equals(v Value) bool {
	other, ok := v.(Bool)

	return ok && b == other
}

// Int represents an integer value. Arithmetic on Int wraps on overflow,
// matching Go's native int64 semantics rather than trapping.
type Int int64

func (i Int) Type() Type     { return TypeInt }
func (i Int) String() string { return fmt.Sprintf("%d", i) }
func (i Int) Equals(v Value) bool {
	switch other := v.(type) {
	case Int:
		return i == other
	case Float:
		return Float(i) == other
	}

	return false
}

// Float represents a floating-point value.
type Float float64

func (f Float) Type() Type     { return TypeFloat }
func (f Float) String() string { return fmt.Sprintf("%g", f) }
func (f Float) Equals(v Value) bool {
	switch other := v.(type) {
	case Float:
		return f == other
	case Int:
		return f == Float(other)
	}

	return false
}

// String represents a string value. String context (the set of store
// paths a string depends on) is out of scope; this is a bare value.
type String string

func (s String) Type() Type     { return TypeString }
func (s String) String() string { return fmt.Sprintf(`"%s"`, string(s)) }
func (s String) Equals(v Value) bool {
	other, ok := v.(String)

	return ok && s == other
}

// Path represents a path value.
type Path string

func (p Path) Type() Type     { return TypePath }
func (p Path) String() string { return string(p) }
func (p Path) Equals(v Value) bool {
	other, ok := v.(Path)

	return ok && p == other
}

// ToNixString coerces v via Nix's `toString` rules: String/Path pass
// through as their literal text, Int/Float/Bool/Null render as their
// textual form, and anything else (List/Attrs/Function/Builtin) has no
// string coercion and reports ok=false. Shared by builtins.toString and
// derivation attribute-to-environment coercion so both follow one rule.
func ToNixString(v Value) (string, bool) {
	switch t := v.(type) {
	case String:
		return string(t), true
	case Path:
		return string(t), true
	case Int:
		return strconv.FormatInt(int64(t), 10), true
	case Float:
		return strconv.FormatFloat(float64(t), 'f', -1, 64), true
	case Bool:
		if t {
			return "true", true
		}

		return "false", true
	case Null:
		return "null", true
	default:
		return "", false
	}
}

// List represents a list value. Elements are thunks: a list is built by
// wrapping each element expression in a Thunk, so `[(builtins.abort "x") 1]`
// is constructible and only explodes if index 0 is ever forced.
type List struct {
	elems []*Thunk
}

// NewList creates a new list from already-evaluated values, wrapping each
// one in a no-op thunk. Used by built-ins that produce fully-forced lists.
func NewList(elems ...Value) *List {
	thunks := make([]*Thunk, len(elems))
	for i, v := range elems {
		thunks[i] = Evaluated(v)
	}

	return &List{elems: thunks}
}

// NewThunkedList creates a list directly from thunks, preserving laziness.
func NewThunkedList(elems ...*Thunk) *List {
	return &List{elems: append([]*Thunk(nil), elems...)}
}

func (l *List) Type() Type { return TypeList }
func (l *List) Len() int   { return len(l.elems) }

// At returns the thunk at index i, or nil if out of range.
func (l *List) At(i int) *Thunk {
	if i < 0 || i >= len(l.elems) {
		return nil
	}

	return l.elems[i]
}

// Thunks returns a copy of the element thunks, preserving laziness.
func (l *List) Thunks() []*Thunk { return append([]*Thunk(nil), l.elems...) }

// Elements forces every element and returns the resulting values. Callers
// that only need to inspect a prefix (head, elem membership up to a match)
// should use At/Thunks instead to avoid forcing the whole list.
func (l *List) Elements() ([]Value, error) {
	out := make([]Value, len(l.elems))
	for i, t := range l.elems {
		v, err := t.Force()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}

	return out, nil
}

func (l *List) String() string {
	parts := make([]string, len(l.elems))
	for i, t := range l.elems {
		v, err := t.Force()
		if err != nil {
			parts[i] = "<error>"

			continue
		}
		parts[i] = v.String()
	}

	return fmt.Sprintf("[ %s ]", strings.Join(parts, " "))
}

func (l *List) Equals(v Value) bool {
	other, ok := v.(*List)
	if !ok || len(l.elems) != len(other.elems) {
		return false
	}
	for i, t := range l.elems {
		a, err := t.Force()
		if err != nil {
			return false
		}
		b, err := other.elems[i].Force()
		if err != nil {
			return false
		}
		if !a.Equals(b) {
			return false
		}
	}

	return true
}

// Attrs represents an attribute set. Values are thunks for the same reason
// list elements are: `{ x = builtins.abort "boom"; y = 1; }.y` must not
// force x.
type Attrs struct {
	attrs map[string]*Thunk
}

// NewAttrs creates a new empty attribute set.
func NewAttrs() *Attrs {
	return &Attrs{attrs: make(map[string]*Thunk)}
}

// NewAttrsFrom creates an attribute set from already-evaluated values.
func NewAttrsFrom(m map[string]Value) *Attrs {
	a := NewAttrs()
	for k, v := range m {
		a.SetThunk(k, Evaluated(v))
	}

	return a
}

func (a *Attrs) Type() Type { return TypeAttrs }
func (a *Attrs) Len() int   { return len(a.attrs) }

// Get forces and returns the value bound to key.
func (a *Attrs) Get(key string) (Value, bool) {
	t, ok := a.attrs[key]
	if !ok {
		return nil, false
	}
	v, err := t.Force()
	if err != nil {
		return nil, false
	}

	return v, true
}

// GetThunk returns the unforced thunk bound to key, if any.
func (a *Attrs) GetThunk(key string) (*Thunk, bool) {
	t, ok := a.attrs[key]

	return t, ok
}

// Set binds key to an already-evaluated value.
func (a *Attrs) Set(key string, val Value) {
	a.attrs[key] = Evaluated(val)
}

// SetThunk binds key to a thunk, preserving laziness.
func (a *Attrs) SetThunk(key string, t *Thunk) {
	a.attrs[key] = t
}

// Has reports key membership without forcing the bound value.
func (a *Attrs) Has(key string) bool {
	_, ok := a.attrs[key]

	return ok
}

// Keys returns attribute names sorted lexicographically. Nix attribute
// sets have no meaningful insertion order; every external view
// (attrNames, toString, equality, derivation encoding) is lexicographic.
func (a *Attrs) Keys() []string {
	keys := make([]string, 0, len(a.attrs))
	for k := range a.attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys
}

func (a *Attrs) String() string {
	if len(a.attrs) == 0 {
		return "{ }"
	}

	keys := a.Keys()
	parts := make([]string, len(keys))
	for i, k := range keys {
		v, err := a.attrs[k].Force()
		if err != nil {
			parts[i] = fmt.Sprintf("%s = <error>;", k)

			continue
		}
		parts[i] = fmt.Sprintf("%s = %s;", k, v)
	}

	return fmt.Sprintf("{ %s }", strings.Join(parts, " "))
}

func (a *Attrs) Equals(v Value) bool {
	other, ok := v.(*Attrs)
	if !ok || len(a.attrs) != len(other.attrs) {
		return false
	}
	for k, t := range a.attrs {
		otherT, ok := other.attrs[k]
		if !ok {
			return false
		}
		av, err := t.Force()
		if err != nil {
			return false
		}
		bv, err := otherT.Force()
		if err != nil {
			return false
		}
		if !av.Equals(bv) {
			return false
		}
	}

	return true
}

// Function represents a user-defined function (lambda). Body and Pattern
// are opaque (interface{}) to keep this package independent of the AST
// package; the evaluator knows how to re-assert them to *types.Expr /
// *types.Pattern.
type Function struct {
	param   string
	pattern interface{} // *types.Pattern, or nil for a simple-identifier param
	body    interface{} // types.Expr
	env     Environment
}

// NewFunction creates a function with a simple identifier parameter.
func NewFunction(param string, body interface{}, env Environment) *Function {
	return &Function{param: param, body: body, env: env}
}

// NewPatternFunction creates a function whose parameter is an attrset
// pattern (possibly with defaults, ellipsis, and an @-binding).
func NewPatternFunction(pattern interface{}, body interface{}, env Environment) *Function {
	return &Function{pattern: pattern, body: body, env: env}
}

func (f *Function) Type() Type { return TypeFunction }
func (f *Function) String() string {
	if f.pattern != nil {
		return "<LAMBDA pattern>"
	}

	return fmt.Sprintf("<LAMBDA %s>", f.param)
}
func (f *Function) Equals(Value) bool        { return false } // Functions are not comparable
func (f *Function) Param() string            { return f.param }
func (f *Function) Pattern() interface{}     { return f.pattern }
func (f *Function) Body() interface{}        { return f.body }
func (f *Function) Env() Environment         { return f.env }
func (f *Function) IsPatternFunction() bool  { return f.pattern != nil }

// Builtin represents a built-in function. Builtins that take more than
// one argument are curried: Apply is called once per argument, and a
// partially-applied builtin is itself a *Builtin closing over the
// arguments collected so far, so `(add 1) 2` and `add 1 2` both work.
type Builtin struct {
	name string
	fn   func([]*Thunk) (Value, error)
}

// NewBuiltin creates a single-argument (already fully curried) builtin.
func NewBuiltin(name string, fn func([]*Thunk) (Value, error)) *Builtin {
	return &Builtin{name: name, fn: fn}
}

func (b *Builtin) Type() Type     { return TypeBuiltin }
func (b *Builtin) String() string { return fmt.Sprintf("<BUILTIN %s>", b.name) }
func (b *Builtin) Equals(Value) bool { return false } // Builtins, like lambdas, are not comparable
func (b *Builtin) Name() string { return b.name }

// Apply invokes the builtin with one argument thunk.
func (b *Builtin) Apply(arg *Thunk) (Value, error) { return b.fn([]*Thunk{arg}) }

// Environment represents variable bindings along the lexical scope chain,
// plus the separate with-namespace chain.
type Environment interface {
	Get(name string) (*Thunk, bool)
	Set(name string, t *Thunk)
	Extend() Environment
	ExtendWith(scope *Thunk) Environment
	WithFrames() []*Thunk
}

// Constructors for convenience.
func MakeNull() Value           { return Null{} }
func MakeBool(b bool) Value     { return Bool(b) }
func MakeInt(i int64) Value     { return Int(i) }
func MakeFloat(f float64) Value { return Float(f) }
func MakeString(s string) Value { return String(s) }
func MakePath(p string) Value   { return Path(p) }
