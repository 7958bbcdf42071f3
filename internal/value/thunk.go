package value

import (
	"errors"
	"sync"
)

// ErrBlackhole is returned by Force when a thunk is re-entered while it is
// already being forced — the classic symptom of infinite recursion such as
// `let x = x; in x`. Callers that need a structured error kind wrap this
// sentinel rather than inventing a second signal.
var ErrBlackhole = errors.New("infinite recursion encountered")

type thunkState byte

const (
	thunkUnevaluated thunkState = iota
	thunkInProgress
	thunkEvaluated
)

// Thunk is a memoizing, lazily-forced cell. Nix values are demanded, not
// computed eagerly: list elements, attribute values, and function arguments
// are all wrapped in a Thunk and only forced the first time something
// actually inspects them. Forcing is idempotent — a second Force call
// returns the exact (value, error) pair the first one produced, including
// when the first call failed, so a thunk never re-runs its side effects or
// flips from erroring to succeeding.
type Thunk struct {
	mu    sync.Mutex
	state thunkState
	force func() (Value, error)
	val   Value
	err   error
}

// NewThunk wraps a deferred computation. The closure is invoked at most once.
func NewThunk(force func() (Value, error)) *Thunk {
	return &Thunk{state: thunkUnevaluated, force: force}
}

// Evaluated wraps an already-known value in a no-op thunk. Useful for
// built-ins and constants that have no expression to defer.
func Evaluated(v Value) *Thunk {
	return &Thunk{state: thunkEvaluated, val: v}
}

// Thunked reports whether t has already been forced (used by tests and by
// deep-force diagnostics; never gates correctness).
func (t *Thunk) Thunked() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.state == thunkEvaluated
}

// Force computes and memoizes the thunk's value. Re-entrant calls made
// while the thunk is being forced for the first time (e.g. a recursive
// binding with no base case) receive ErrBlackhole instead of deadlocking.
func (t *Thunk) Force() (Value, error) {
	t.mu.Lock()
	switch t.state {
	case thunkEvaluated:
		defer t.mu.Unlock()

		return t.val, t.err
	case thunkInProgress:
		t.mu.Unlock()

		return nil, ErrBlackhole
	}
	t.state = thunkInProgress
	forceFn := t.force
	t.mu.Unlock()

	val, err := forceFn()

	t.mu.Lock()
	t.val, t.err = val, err
	t.state = thunkEvaluated
	t.force = nil
	t.mu.Unlock()

	return val, err
}
