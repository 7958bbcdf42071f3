package value

// Env implements the Environment interface with lexical scoping plus a
// separate with-namespace chain. The two chains share the same parent
// pointer but are consulted in two independent passes: Get only ever
// walks `bindings` (regular let/function-parameter/rec bindings); callers
// that also need `with` fallback use WithFrames explicitly, in the order
// spec.md requires — all lexical frames first, then the with-attribute
// namespaces nearest-enclosing-first. A with frame is never merged into
// `bindings`, so a `with` never shadows a sibling regular binding even
// when it is entered after that binding, and each lookup re-forces the
// with expression's thunk (memoized, but re-consulted, not captured into
// a fixed set of names at entry).
type Env struct {
	bindings  map[string]*Thunk
	withScope *Thunk // evaluates to *Attrs; nil if this frame introduces no `with`
	parent    *Env
}

// NewEnv creates a new empty environment.
func NewEnv() *Env {
	return &Env{bindings: make(map[string]*Thunk)}
}

// Get looks up a variable among lexical (non-with) bindings only.
func (e *Env) Get(name string) (*Thunk, bool) {
	for cur := e; cur != nil; cur = cur.parent {
		if t, ok := cur.bindings[name]; ok {
			return t, true
		}
	}

	return nil, false
}

// Set binds a variable in the current environment frame.
func (e *Env) Set(name string, t *Thunk) {
	e.bindings[name] = t
}

// Extend creates a new child environment frame with no with-scope of its
// own (it still sees its ancestors' with-scopes via WithFrames).
func (e *Env) Extend() Environment {
	return &Env{
		bindings: make(map[string]*Thunk),
		parent:   e,
	}
}

// ExtendWith creates a new child frame that introduces a with-namespace.
// scope must force to an *Attrs; that check happens at lookup time, not
// here, so `with` accepts any expression syntactically and only fails
// once a name inside it is actually demanded.
func (e *Env) ExtendWith(scope *Thunk) Environment {
	return &Env{
		bindings:  make(map[string]*Thunk),
		withScope: scope,
		parent:    e,
	}
}

// WithFrames returns the chain of with-scope thunks visible from this
// environment, nearest-enclosing first.
func (e *Env) WithFrames() []*Thunk {
	var frames []*Thunk
	for cur := e; cur != nil; cur = cur.parent {
		if cur.withScope != nil {
			frames = append(frames, cur.withScope)
		}
	}

	return frames
}
