// Package nixerr defines the structured error-kind sum type used
// throughout the evaluator and builder. It is grounded on the original
// implementation's NixErrorKind/NixTypeKind enums: every evaluation
// failure carries a machine-checkable Kind rather than only a message, so
// callers can use errors.As to branch on CouldNotFindVariable,
// TypeMismatch, MissingAttribute, and so on without parsing strings.
// Message text itself is not contractual (see DESIGN.md); only Kind and
// its structured fields are.
package nixerr

import (
	"fmt"
	"strings"
)

// KindTag identifies which variant of NixError.Kind is populated.
type KindTag int

const (
	// KindAbort corresponds to builtins.abort "msg".
	KindAbort KindTag = iota
	// KindThrow corresponds to builtins.throw "msg"; unlike Abort, it is
	// catchable by tryEval/builtins.tryEval.
	KindThrow
	// KindCouldNotFindVariable is raised when an identifier resolves to
	// nothing in either the lexical chain or any enclosing with-scope.
	KindCouldNotFindVariable
	// KindTypeMismatch is raised when an operator or built-in receives a
	// value of the wrong type.
	KindTypeMismatch
	// KindMissingAttribute is raised by `.` selection (without `or`) and
	// by builtins.getAttr when the path does not resolve.
	KindMissingAttribute
	// KindAttributeAlreadyDefined is raised when two bindings in the same
	// attribute set assign to the same leaf path.
	KindAttributeAlreadyDefined
	// KindFunctionCallWithoutArgument is raised when a pattern-lambda
	// formal has no default and the call site does not supply it, and
	// when the call site supplies an attribute the pattern does not name
	// and the pattern has no `...`.
	KindFunctionCallWithoutArgument
	// KindInfiniteRecursion names re-entrant thunk forcing. Thunk.Force
	// reports that case as the plain value.ErrBlackhole error rather than
	// an *Error of this kind; tryEval catches neither.
	KindInfiniteRecursion
	// KindSandboxInit covers failures setting up the build sandbox
	// (namespace clone, mount plan, pivot_root) before the builder runs.
	KindSandboxInit
	// KindBuilderFailed covers the builder process itself exiting
	// non-zero, being signaled, or failing to exec.
	KindBuilderFailed
	// KindParseError wraps a lex/parse failure surfaced through the same
	// structured path as evaluation errors.
	KindParseError
	// KindOther is a catch-all for errors with no more specific kind.
	KindOther
)

func (k KindTag) String() string {
	names := [...]string{
		"Abort", "Throw", "CouldNotFindVariable", "TypeMismatch",
		"MissingAttribute", "AttributeAlreadyDefined",
		"FunctionCallWithoutArgument", "InfiniteRecursion", "SandboxInit",
		"BuilderFailed", "ParseError", "Other",
	}
	if int(k) < len(names) {
		return names[k]
	}

	return fmt.Sprintf("KindTag(%d)", int(k))
}

// TypeKind mirrors value.Type without importing the value package, so
// nixerr stays a leaf dependency usable from value, eval, derivation, and
// sandbox alike.
type TypeKind string

const (
	TypeBool     TypeKind = "bool"
	TypeFloat    TypeKind = "float"
	TypeInt      TypeKind = "int"
	TypeList     TypeKind = "list"
	TypeNull     TypeKind = "null"
	TypeString   TypeKind = "string"
	TypePath     TypeKind = "path"
	TypeLambda   TypeKind = "lambda"
	TypeSet      TypeKind = "set"
	TypeVariadic TypeKind = "any"
)

// Error is the structured error value produced by evaluation and the
// builder. Message is a human-readable rendering built from Kind; it is
// not itself contractual.
type Error struct {
	Kind KindTag

	// KindCouldNotFindVariable
	VarName string
	// KindTypeMismatch
	Expected []TypeKind
	Got      TypeKind
	// KindMissingAttribute / KindAttributeAlreadyDefined
	AttrPath []string
	// KindFunctionCallWithoutArgument
	Argument string
	// KindAbort / KindThrow / KindOther / KindParseError
	Message string
	// KindSandboxInit / KindBuilderFailed wrap an underlying cause,
	// typically produced with github.com/pkg/errors.Wrap at the syscall
	// boundary.
	Cause error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindAbort:
		return fmt.Sprintf("evaluation aborted with the following message: %s", e.Message)
	case KindThrow:
		return fmt.Sprintf("thrown: %s", e.Message)
	case KindCouldNotFindVariable:
		return fmt.Sprintf("undefined variable '%s'", e.VarName)
	case KindTypeMismatch:
		want := make([]string, len(e.Expected))
		for i, t := range e.Expected {
			want[i] = string(t)
		}

		return fmt.Sprintf("expected %s, got %s", strings.Join(want, " or "), e.Got)
	case KindMissingAttribute:
		return fmt.Sprintf("attribute '%s' missing", strings.Join(e.AttrPath, "."))
	case KindAttributeAlreadyDefined:
		return fmt.Sprintf("attribute '%s' already defined", strings.Join(e.AttrPath, "."))
	case KindFunctionCallWithoutArgument:
		return fmt.Sprintf("function called without required argument '%s'", e.Argument)
	case KindInfiniteRecursion:
		return "infinite recursion encountered"
	case KindSandboxInit:
		return fmt.Sprintf("sandbox initialization failed: %v", e.Cause)
	case KindBuilderFailed:
		return fmt.Sprintf("builder failed: %v", e.Cause)
	case KindParseError:
		return fmt.Sprintf("parse error: %s", e.Message)
	default:
		return fmt.Sprintf("error: %s", e.Message)
	}
}

func (e *Error) Unwrap() error { return e.Cause }

// Catchable reports whether tryEval should catch this error instead of
// letting it propagate. Only Throw is catchable; Abort, type errors, and
// InfiniteRecursion in particular are not (see DESIGN.md Open Question 3).
func (e *Error) Catchable() bool {
	return e.Kind == KindThrow
}

func Abort(msg string) *Error { return &Error{Kind: KindAbort, Message: msg} }
func Throw(msg string) *Error { return &Error{Kind: KindThrow, Message: msg} }

func CouldNotFindVariable(name string) *Error {
	return &Error{Kind: KindCouldNotFindVariable, VarName: name}
}

func TypeMismatch(got TypeKind, expected ...TypeKind) *Error {
	return &Error{Kind: KindTypeMismatch, Expected: expected, Got: got}
}

func MissingAttribute(path []string) *Error {
	return &Error{Kind: KindMissingAttribute, AttrPath: append([]string(nil), path...)}
}

func AttributeAlreadyDefined(path []string) *Error {
	return &Error{Kind: KindAttributeAlreadyDefined, AttrPath: append([]string(nil), path...)}
}

func FunctionCallWithoutArgument(arg string) *Error {
	return &Error{Kind: KindFunctionCallWithoutArgument, Argument: arg}
}

func InfiniteRecursion() *Error { return &Error{Kind: KindInfiniteRecursion} }

func SandboxInit(cause error) *Error { return &Error{Kind: KindSandboxInit, Cause: cause} }

func BuilderFailed(cause error) *Error { return &Error{Kind: KindBuilderFailed, Cause: cause} }

func ParseError(msg string) *Error { return &Error{Kind: KindParseError, Message: msg} }

func Other(msg string) *Error { return &Error{Kind: KindOther, Message: msg} }
