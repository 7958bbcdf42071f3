package eval

import (
	"fmt"
	"path/filepath"

	"github.com/conneroisu/gix/internal/nixerr"
	"github.com/conneroisu/gix/internal/types"
	"github.com/conneroisu/gix/internal/value"
)

// evalBinary evaluates binary operators.
func (e *Evaluator) evalBinary(expr *types.BinaryExpr, env value.Environment) (value.Value, error) {
	// Handle short-circuit operators
	switch expr.Op {
	case types.OpAnd:
		return e.evalAnd(expr, env)
	case types.OpOr:
		return e.evalOr(expr, env)
	case types.OpImpl:
		return e.evalImpl(expr, env)
	}

	// Evaluate both operands for other operators
	left, err := e.evalExpr(expr.Left, env)
	if err != nil {
		return nil, err
	}

	right, err := e.evalExpr(expr.Right, env)
	if err != nil {
		return nil, err
	}

	switch expr.Op {
	// Arithmetic
	case types.OpAdd:
		return evalAdd(left, right)
	case types.OpSub:
		return evalSub(left, right)
	case types.OpMul:
		return evalMul(left, right)
	case types.OpDiv:
		return evalDiv(left, right)

	// String/List operations
	case types.OpConcat:
		return evalConcat(left, right)

	// Comparison
	case types.OpEq:
		return value.Bool(left.Equals(right)), nil
	case types.OpNEq:
		return value.Bool(!left.Equals(right)), nil
	case types.OpLT:
		return evalLess(left, right)
	case types.OpGT:
		return evalGreater(left, right)
	case types.OpLTE:
		return evalLessEq(left, right)
	case types.OpGTE:
		return evalGreaterEq(left, right)

	// Attribute set update
	case types.OpUpdate:
		return evalUpdate(left, right)

	default:
		return nil, fmt.Errorf("unknown binary operator: %v", expr.Op)
	}
}

// evalUnary evaluates unary operators.
func (e *Evaluator) evalUnary(expr *types.UnaryExpr, env value.Environment) (value.Value, error) {
	operand, err := e.evalExpr(expr.Expr, env)
	if err != nil {
		return nil, err
	}

	switch expr.Op {
	case types.OpNot:
		b, ok := operand.(value.Bool)
		if !ok {
			return nil, nixerr.TypeMismatch(operand.Type().NixErrKind(), nixerr.TypeBool)
		}

		return value.Bool(!bool(b)), nil

	case types.OpNeg:
		switch v := operand.(type) {
		case value.Int:
			return value.Int(-v), nil
		case value.Float:
			return value.Float(-v), nil
		default:
			return nil, nixerr.TypeMismatch(operand.Type().NixErrKind(), nixerr.TypeInt, nixerr.TypeFloat)
		}

	default:
		return nil, fmt.Errorf("unknown unary operator: %v", expr.Op)
	}
}

// Short-circuit operators. The right operand's expression is only
// evaluated (and only then forced) when the left operand's value does
// not already decide the result.
func (e *Evaluator) evalAnd(expr *types.BinaryExpr, env value.Environment) (value.Value, error) {
	left, err := e.evalExpr(expr.Left, env)
	if err != nil {
		return nil, err
	}

	leftBool, ok := left.(value.Bool)
	if !ok {
		return nil, nixerr.TypeMismatch(left.Type().NixErrKind(), nixerr.TypeBool)
	}
	if !leftBool {
		return value.Bool(false), nil
	}

	right, err := e.evalExpr(expr.Right, env)
	if err != nil {
		return nil, err
	}

	rightBool, ok := right.(value.Bool)
	if !ok {
		return nil, nixerr.TypeMismatch(right.Type().NixErrKind(), nixerr.TypeBool)
	}

	return rightBool, nil
}

func (e *Evaluator) evalOr(expr *types.BinaryExpr, env value.Environment) (value.Value, error) {
	left, err := e.evalExpr(expr.Left, env)
	if err != nil {
		return nil, err
	}

	leftBool, ok := left.(value.Bool)
	if !ok {
		return nil, nixerr.TypeMismatch(left.Type().NixErrKind(), nixerr.TypeBool)
	}
	if leftBool {
		return value.Bool(true), nil
	}

	right, err := e.evalExpr(expr.Right, env)
	if err != nil {
		return nil, err
	}

	rightBool, ok := right.(value.Bool)
	if !ok {
		return nil, nixerr.TypeMismatch(right.Type().NixErrKind(), nixerr.TypeBool)
	}

	return rightBool, nil
}

func (e *Evaluator) evalImpl(expr *types.BinaryExpr, env value.Environment) (value.Value, error) {
	left, err := e.evalExpr(expr.Left, env)
	if err != nil {
		return nil, err
	}

	leftBool, ok := left.(value.Bool)
	if !ok {
		return nil, nixerr.TypeMismatch(left.Type().NixErrKind(), nixerr.TypeBool)
	}
	if !leftBool {
		return value.Bool(true), nil
	}

	right, err := e.evalExpr(expr.Right, env)
	if err != nil {
		return nil, err
	}

	rightBool, ok := right.(value.Bool)
	if !ok {
		return nil, nixerr.TypeMismatch(right.Type().NixErrKind(), nixerr.TypeBool)
	}

	return rightBool, nil
}

// Arithmetic operations.
func evalAdd(left, right value.Value) (value.Value, error) {
	switch l := left.(type) {
	case value.Int:
		switch r := right.(type) {
		case value.Int:
			return value.Int(l + r), nil
		case value.Float:
			return value.Float(float64(l) + float64(r)), nil
		default:
			return nil, nixerr.TypeMismatch(right.Type().NixErrKind(), nixerr.TypeInt, nixerr.TypeFloat)
		}

	case value.Float:
		switch r := right.(type) {
		case value.Int:
			return value.Float(float64(l) + float64(r)), nil
		case value.Float:
			return value.Float(l + r), nil
		default:
			return nil, nixerr.TypeMismatch(right.Type().NixErrKind(), nixerr.TypeInt, nixerr.TypeFloat)
		}

	case value.String:
		switch r := right.(type) {
		case value.String:
			return value.String(string(l) + string(r)), nil
		case value.Path:
			// string × path is a textual join of the two literal
			// representations, not a filesystem path join.
			return value.String(string(l) + string(r)), nil
		default:
			return nil, nixerr.TypeMismatch(right.Type().NixErrKind(), nixerr.TypeString, nixerr.TypePath)
		}

	case value.Path:
		switch r := right.(type) {
		case value.Path:
			return value.Path(filepath.Join(string(l), string(r))), nil
		case value.String:
			return value.Path(filepath.Join(string(l), string(r))), nil
		default:
			return nil, nixerr.TypeMismatch(right.Type().NixErrKind(), nixerr.TypePath, nixerr.TypeString)
		}

	default:
		return nil, nixerr.TypeMismatch(left.Type().NixErrKind(),
			nixerr.TypeInt, nixerr.TypeFloat, nixerr.TypeString, nixerr.TypePath)
	}
}

func evalSub(left, right value.Value) (value.Value, error) {
	switch l := left.(type) {
	case value.Int:
		switch r := right.(type) {
		case value.Int:
			return value.Int(int64(l) - int64(r)), nil
		case value.Float:
			return value.Float(float64(l) - float64(r)), nil
		default:
			return nil, nixerr.TypeMismatch(right.Type().NixErrKind(), nixerr.TypeInt, nixerr.TypeFloat)
		}

	case value.Float:
		switch r := right.(type) {
		case value.Int:
			return value.Float(float64(l) - float64(r)), nil
		case value.Float:
			return value.Float(l - r), nil
		default:
			return nil, nixerr.TypeMismatch(right.Type().NixErrKind(), nixerr.TypeInt, nixerr.TypeFloat)
		}

	default:
		return nil, nixerr.TypeMismatch(left.Type().NixErrKind(), nixerr.TypeInt, nixerr.TypeFloat)
	}
}

func evalMul(left, right value.Value) (value.Value, error) {
	switch l := left.(type) {
	case value.Int:
		switch r := right.(type) {
		case value.Int:
			return value.Int(int64(l) * int64(r)), nil
		case value.Float:
			return value.Float(float64(l) * float64(r)), nil
		default:
			return nil, nixerr.TypeMismatch(right.Type().NixErrKind(), nixerr.TypeInt, nixerr.TypeFloat)
		}

	case value.Float:
		switch r := right.(type) {
		case value.Int:
			return value.Float(float64(l) * float64(r)), nil
		case value.Float:
			return value.Float(l * r), nil
		default:
			return nil, nixerr.TypeMismatch(right.Type().NixErrKind(), nixerr.TypeInt, nixerr.TypeFloat)
		}

	default:
		return nil, nixerr.TypeMismatch(left.Type().NixErrKind(), nixerr.TypeInt, nixerr.TypeFloat)
	}
}

// evalDiv divides left by right. Int/Int division truncates towards zero
// and stays an Int, matching the original evaluator rather than promoting
// to Float the way the pre-rewrite evaluator incorrectly always did.
func evalDiv(left, right value.Value) (value.Value, error) {
	switch l := left.(type) {
	case value.Int:
		switch r := right.(type) {
		case value.Int:
			if r == 0 {
				return nil, nixerr.Other("division by zero")
			}

			return value.Int(int64(l) / int64(r)), nil
		case value.Float:
			if r == 0 {
				return nil, nixerr.Other("division by zero")
			}

			return value.Float(float64(l) / float64(r)), nil
		default:
			return nil, nixerr.TypeMismatch(right.Type().NixErrKind(), nixerr.TypeInt, nixerr.TypeFloat)
		}

	case value.Float:
		switch r := right.(type) {
		case value.Int:
			if r == 0 {
				return nil, nixerr.Other("division by zero")
			}

			return value.Float(float64(l) / float64(r)), nil
		case value.Float:
			if r == 0 {
				return nil, nixerr.Other("division by zero")
			}

			return value.Float(l / r), nil
		default:
			return nil, nixerr.TypeMismatch(right.Type().NixErrKind(), nixerr.TypeInt, nixerr.TypeFloat)
		}

	default:
		return nil, nixerr.TypeMismatch(left.Type().NixErrKind(), nixerr.TypeInt, nixerr.TypeFloat)
	}
}

// evalConcat joins two lists without forcing their elements.
func evalConcat(left, right value.Value) (value.Value, error) {
	lList, lOk := left.(*value.List)
	rList, rOk := right.(*value.List)

	if !lOk || !rOk {
		return nil, nixerr.TypeMismatch(left.Type().NixErrKind(), nixerr.TypeList)
	}

	thunks := append(lList.Thunks(), rList.Thunks()...)

	return value.NewThunkedList(thunks...), nil
}

// Comparison operations.
func evalLess(left, right value.Value) (value.Value, error) {
	switch l := left.(type) {
	case value.Int:
		switch r := right.(type) {
		case value.Int:
			return value.Bool(l < r), nil
		case value.Float:
			return value.Bool(float64(l) < float64(r)), nil
		default:
			return nil, nixerr.TypeMismatch(right.Type().NixErrKind(), nixerr.TypeInt, nixerr.TypeFloat)
		}

	case value.Float:
		switch r := right.(type) {
		case value.Int:
			return value.Bool(float64(l) < float64(r)), nil
		case value.Float:
			return value.Bool(l < r), nil
		default:
			return nil, nixerr.TypeMismatch(right.Type().NixErrKind(), nixerr.TypeInt, nixerr.TypeFloat)
		}

	case value.String:
		r, ok := right.(value.String)
		if !ok {
			return nil, nixerr.TypeMismatch(right.Type().NixErrKind(), nixerr.TypeString)
		}

		return value.Bool(l < r), nil

	case *value.List:
		r, ok := right.(*value.List)
		if !ok {
			return nil, nixerr.TypeMismatch(right.Type().NixErrKind(), nixerr.TypeList)
		}

		return evalLessList(l, r)

	default:
		return nil, nixerr.TypeMismatch(left.Type().NixErrKind(),
			nixerr.TypeInt, nixerr.TypeFloat, nixerr.TypeString, nixerr.TypeList)
	}
}

// evalLessList compares two lists lexicographically: elements are forced
// and compared pairwise with evalLess; the first pair that differs
// decides the result, and a shorter list that is a prefix of the other
// sorts first.
func evalLessList(l, r *value.List) (value.Value, error) {
	for i := 0; i < l.Len() && i < r.Len(); i++ {
		lv, err := l.At(i).Force()
		if err != nil {
			return nil, err
		}
		rv, err := r.At(i).Force()
		if err != nil {
			return nil, err
		}

		if lv.Equals(rv) {
			continue
		}

		return evalLess(lv, rv)
	}

	return value.Bool(l.Len() < r.Len()), nil
}

func evalGreater(left, right value.Value) (value.Value, error) {
	return evalLess(right, left)
}

func evalLessEq(left, right value.Value) (value.Value, error) {
	less, err := evalLess(left, right)
	if err != nil {
		return nil, err
	}
	if bool(less.(value.Bool)) {
		return value.Bool(true), nil
	}

	return value.Bool(left.Equals(right)), nil
}

func evalGreaterEq(left, right value.Value) (value.Value, error) {
	greater, err := evalGreater(left, right)
	if err != nil {
		return nil, err
	}
	if bool(greater.(value.Bool)) {
		return value.Bool(true), nil
	}

	return value.Bool(left.Equals(right)), nil
}

// evalUpdate merges two attribute sets, right winning on key conflicts.
// Bindings are copied as thunks, not forced values, so `a // { x = abort
// "boom"; }` does not explode until .x is actually selected.
func evalUpdate(left, right value.Value) (value.Value, error) {
	lAttrs, lOk := left.(*value.Attrs)
	rAttrs, rOk := right.(*value.Attrs)

	if !lOk || !rOk {
		return nil, nixerr.TypeMismatch(left.Type().NixErrKind(), nixerr.TypeSet)
	}

	result := value.NewAttrs()

	for _, k := range lAttrs.Keys() {
		t, _ := lAttrs.GetThunk(k)
		result.SetThunk(k, t)
	}

	for _, k := range rAttrs.Keys() {
		t, _ := rAttrs.GetThunk(k)
		result.SetThunk(k, t)
	}

	return result, nil
}
