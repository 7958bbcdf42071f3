package eval

import (
	"errors"
	"testing"

	"github.com/conneroisu/gix/internal/nixerr"
	"github.com/conneroisu/gix/internal/value"
	"github.com/conneroisu/gix/pkg/lexer"
	"github.com/conneroisu/gix/pkg/parser"
)

func testEval(input string) value.Value {
	l := lexer.New(input)
	p := parser.New(l)
	program, _ := p.Parse()
	e := New(".")
	result, _ := e.Eval(program)

	return result
}

func testIntegerObject(t *testing.T, obj value.Value, expected int64) bool {
	result, ok := obj.(value.Int)
	if !ok {
		t.Errorf("object is not Integer. got=%T (%+v)", obj, obj)

		return false
	}
	if int64(result) != expected {
		t.Errorf("object has wrong value. got=%d, want=%d", result, expected)

		return false
	}

	return true
}

func testBooleanObject(t *testing.T, obj value.Value, expected bool) bool {
	result, ok := obj.(value.Bool)
	if !ok {
		t.Errorf("object is not Boolean. got=%T (%+v)", obj, obj)

		return false
	}
	if bool(result) != expected {
		t.Errorf("object has wrong value. got=%t, want=%t", result, expected)

		return false
	}

	return true
}

// typeMismatch marks a table case whose evaluation must fail with a
// TypeMismatch error instead of producing a value.
type typeMismatch struct{}

func testTypeMismatch(t *testing.T, input string) bool {
	_, err := testEvalIn(".", input)
	var nerr *nixerr.Error
	if !errors.As(err, &nerr) || nerr.Kind != nixerr.KindTypeMismatch {
		t.Errorf("%s: expected a TypeMismatch error. got=%v", input, err)

		return false
	}

	return true
}

func testNullObject(t *testing.T, obj value.Value) bool {
	_, ok := obj.(value.Null)
	if !ok {
		t.Errorf("object is not Null. got=%T (%+v)", obj, obj)

		return false
	}

	return true
}

func TestEvalIntegerExpression(t *testing.T) {
	tests := []struct {
		input    string
		expected int64
	}{
		{"5", 5},
		{"10", 10},
		{"-5", -5},
		{"-10", -10},
		{"5 + 5 + 5 + 5 - 10", 10},
		{"2 * 2 * 2 * 2 * 2", 32},
		{"-50 + 100 + -50", 0},
		{"5 * 2 + 10", 20},
		{"5 + 2 * 10", 25},
		{"20 + 2 * -10", 0},
		{"50 / 2 * 2 + 10", 60},
		{"2 * (5 + 10)", 30},
		{"3 * 3 * 3 + 10", 37},
		{"3 * (3 * 3) + 10", 37},
		{"(5 + 10 * 2 + 15 / 3) * 2 + -10", 50},
	}

	for _, tt := range tests {
		evaluated := testEval(tt.input)
		testIntegerObject(t, evaluated, tt.expected)
	}
}

func TestEvalBooleanExpression(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"true", true},
		{"false", false},
		{"1 < 2", true},
		{"1 > 2", false},
		{"1 < 1", false},
		{"1 > 1", false},
		{"1 == 1", true},
		{"1 != 1", false},
		{"1 == 2", false},
		{"1 != 2", true},
		{"true == true", true},
		{"false == false", true},
		{"true == false", false},
		{"true != false", true},
		{"false != true", true},
		{"(1 < 2) == true", true},
		{"(1 < 2) == false", false},
		{"(1 > 2) == true", false},
		{"(1 > 2) == false", true},
	}

	for _, tt := range tests {
		evaluated := testEval(tt.input)
		testBooleanObject(t, evaluated, tt.expected)
	}
}

func TestBangOperator(t *testing.T) {
	tests := []struct {
		input    string
		expected interface{}
	}{
		{"!true", false},
		{"!false", true},
		{"!5", typeMismatch{}},
		{"!!true", true},
		{"!!false", false},
		{"!!5", typeMismatch{}},
	}

	for _, tt := range tests {
		if _, ok := tt.expected.(typeMismatch); ok {
			testTypeMismatch(t, tt.input)

			continue
		}
		evaluated := testEval(tt.input)
		testBooleanObject(t, evaluated, tt.expected.(bool))
	}
}

func TestIfElseExpressions(t *testing.T) {
	tests := []struct {
		input    string
		expected interface{}
	}{
		{"if (true) then 10 else 20", 10},
		{"if (false) then 10 else 20", 20},
		{"if (1) then 10 else 20", typeMismatch{}},
		{"if (1 < 2) then 10 else 20", 10},
		{"if (1 > 2) then 10 else 20", 20},
		{"if (1 > 2) then 10 else null", nil},
		{"if (false) then 10 else null", nil},
	}

	for _, tt := range tests {
		if _, ok := tt.expected.(typeMismatch); ok {
			testTypeMismatch(t, tt.input)

			continue
		}
		evaluated := testEval(tt.input)
		integer, ok := tt.expected.(int)
		if ok {
			testIntegerObject(t, evaluated, int64(integer))
		} else {
			testNullObject(t, evaluated)
		}
	}
}

func TestLetStatements(t *testing.T) {
	tests := []struct {
		input    string
		expected int64
	}{
		{"let a = 5; in a", 5},
		{"let a = 5 * 5; in a", 25},
		{"let a = 5; b = a; in b", 5},
		{"let a = 5; b = a; c = a + b + 5; in c", 15},
	}

	for _, tt := range tests {
		testIntegerObject(t, testEval(tt.input), tt.expected)
	}
}

func TestLetSupportsNestedAttrPaths(t *testing.T) {
	testIntegerObject(t, testEval(`let a.b = 1; in a.b`), 1)
	testIntegerObject(t, testEval(`let a.b = 1; a.c = 2; in a.b + a.c`), 3)
}

func TestLetSupportsInherit(t *testing.T) {
	testIntegerObject(t, testEval(`let x = 5; in let inherit x; in x`), 5)
	testIntegerObject(t, testEval(`let src = { a = 1; b = 2; }; in let inherit (src) a b; in a + b`), 3)
}

func TestFunctionObject(t *testing.T) {
	input := "x: x + 2"

	evaluated := testEval(input)
	fn, ok := evaluated.(*value.Function)
	if !ok {
		t.Fatalf("object is not Function. got=%T (%+v)", evaluated, evaluated)
	}

	if fn.Param() != "x" {
		t.Fatalf("function has wrong parameter. want='x', got=%q", fn.Param())
	}
}

func TestFunctionApplication(t *testing.T) {
	tests := []struct {
		input    string
		expected int64
	}{
		{"(x: x) 5", 5},
		{"(x: x * x) 5", 25},
		{"(x: x + 6) 5", 11},
		{"(x: y: x + y) 5 10", 15},
	}

	for _, tt := range tests {
		testIntegerObject(t, testEval(tt.input), tt.expected)
	}
}

func TestBuiltinFunctions(t *testing.T) {
	tests := []struct {
		input    string
		expected interface{}
	}{
		{`length([])`, 0},
		{`length([1, 2, 3])`, 3},
		{`length("hello")`, 5},
		{`length("")`, 0},
		{`head([1, 2, 3])`, 1},
		{`tail([1, 2, 3])`, []int{2, 3}},
		{`toString(123)`, "123"},
		{`toString(true)`, "true"},
		{`isInt(5)`, true},
		{`isInt("hello")`, false},
		{`isList([1, 2])`, true},
		{`isList(5)`, false},
	}

	for _, tt := range tests {
		evaluated := testEval(tt.input)

		switch expected := tt.expected.(type) {
		case int:
			testIntegerObject(t, evaluated, int64(expected))
		case bool:
			testBooleanObject(t, evaluated, expected)
		case string:
			str, ok := evaluated.(value.String)
			if !ok {
				t.Errorf("object is not String. got=%T (%+v)", evaluated, evaluated)

				continue
			}
			if string(str) != expected {
				t.Errorf("String has wrong value. got=%q", str)
			}
		case []int:
			list, ok := evaluated.(*value.List)
			if !ok {
				t.Errorf("object is not List. got=%T (%+v)", evaluated, evaluated)

				continue
			}
			if list.Len() != len(expected) {
				t.Errorf("wrong number of list elements. want=%d, got=%d",
					len(expected), list.Len())

				continue
			}
			for i, elem := range expected {
				got, err := list.At(i).Force()
				if err != nil {
					t.Errorf("forcing list element %d: %v", i, err)

					continue
				}
				testIntegerObject(t, got, int64(elem))
			}
		}
	}
}

func TestListLiterals(t *testing.T) {
	input := "[1, (2 * 2), (3 + 3)]"

	evaluated := testEval(input)
	result, ok := evaluated.(*value.List)
	if !ok {
		t.Fatalf("object is not List. got=%T (%+v)", evaluated, evaluated)
	}

	if result.Len() != 3 {
		t.Fatalf("list has wrong num of elements. got=%d", result.Len())
	}

	for i, want := range []int64{1, 4, 6} {
		got, err := result.At(i).Force()
		if err != nil {
			t.Fatalf("forcing list element %d: %v", i, err)
		}
		testIntegerObject(t, got, want)
	}
}

func TestAttributeSets(t *testing.T) {
	input := `{ foo = 5; bar = 10; }`

	evaluated := testEval(input)
	attrs, ok := evaluated.(*value.Attrs)
	if !ok {
		t.Fatalf("object is not Attrs. got=%T (%+v)", evaluated, evaluated)
	}

	expectedPairs := map[string]int64{
		"foo": 5,
		"bar": 10,
	}

	for expectedKey, expectedVal := range expectedPairs {
		val, ok := attrs.Get(expectedKey)
		if !ok {
			t.Errorf("no pair for given key. key=%q", expectedKey)

			continue
		}

		testIntegerObject(t, val, expectedVal)
	}
}

func TestDerivationBuiltin(t *testing.T) {
	input := `derivation { name = "hello"; builder = "/bin/sh"; }`

	evaluated := testEval(input)
	attrs, ok := evaluated.(*value.Attrs)
	if !ok {
		t.Fatalf("object is not Attrs. got=%T (%+v)", evaluated, evaluated)
	}

	// Check basic attributes
	nameVal, ok := attrs.Get("name")
	if !ok {
		t.Error("derivation missing 'name' attribute")
	} else {
		name, ok := nameVal.(value.String)
		if !ok || string(name) != "hello" {
			t.Errorf("derivation name wrong. got=%v", nameVal)
		}
	}

	builderVal, ok := attrs.Get("builder")
	if !ok {
		t.Error("derivation missing 'builder' attribute")
	} else {
		builder, ok := builderVal.(value.String)
		if !ok || string(builder) != "/bin/sh" {
			t.Errorf("derivation builder wrong. got=%v", builderVal)
		}
	}

	// Check that outputs exist
	outVal, ok := attrs.Get("out")
	if !ok {
		t.Error("derivation missing 'out' attribute")
	} else {
		_, ok := outVal.(value.String)
		if !ok {
			t.Errorf("derivation out not string. got=%T", outVal)
		}
	}
}

func TestDynamicAttrNullComponentDropsBinding(t *testing.T) {
	evaluated := testEval(`{ ${if true then null else "a"} = 1; b = 2; }`)

	attrs, ok := evaluated.(*value.Attrs)
	if !ok {
		t.Fatalf("object is not Attrs. got=%T (%+v)", evaluated, evaluated)
	}

	if len(attrs.Keys()) != 1 {
		t.Fatalf("expected only 'b' to survive, got keys=%v", attrs.Keys())
	}

	bVal, ok := attrs.Get("b")
	if !ok {
		t.Fatal("expected attribute 'b'")
	}
	testIntegerObject(t, bVal, 2)
}

func TestDynamicAttrNullComponentKeepsPriorNesting(t *testing.T) {
	evaluated := testEval(`{ a.b = 1; a.${if true then null else "c"} = 2; }`)

	attrs, ok := evaluated.(*value.Attrs)
	if !ok {
		t.Fatalf("object is not Attrs. got=%T (%+v)", evaluated, evaluated)
	}

	aVal, ok := attrs.Get("a")
	if !ok {
		t.Fatal("expected attribute 'a'")
	}
	nested, ok := aVal.(*value.Attrs)
	if !ok {
		t.Fatalf("a is not Attrs. got=%T", aVal)
	}

	bVal, ok := nested.Get("b")
	if !ok {
		t.Fatal("expected attribute 'a.b' to survive")
	}
	testIntegerObject(t, bVal, 1)
}
