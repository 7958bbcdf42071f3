package eval

import (
	"testing"

	"github.com/conneroisu/gix/internal/value"
	"github.com/conneroisu/gix/pkg/lexer"
	"github.com/conneroisu/gix/pkg/parser"
)

func testEvalIn(baseDir, input string) (value.Value, error) {
	l := lexer.New(input)
	p := parser.New(l)
	program, err := p.Parse()
	if err != nil {
		return nil, err
	}

	return New(baseDir).Eval(program)
}

func TestAddStringAndPathJoinsTextually(t *testing.T) {
	result, err := testEvalIn("/tmp/x", `"foo" + ./bar`)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}

	s, ok := result.(value.String)
	if !ok {
		t.Fatalf("expected a string, got %T", result)
	}
	if string(s) != "foo/tmp/x/bar" {
		t.Errorf("got %q, want %q", s, "foo/tmp/x/bar")
	}
}

func TestAddPathAndStringJoinsAndNormalizes(t *testing.T) {
	result, err := testEvalIn("/tmp/x", `./bar + "/baz"`)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}

	p, ok := result.(value.Path)
	if !ok {
		t.Fatalf("expected a path, got %T", result)
	}
	if string(p) != "/tmp/x/bar/baz" {
		t.Errorf("got %q, want %q", p, "/tmp/x/bar/baz")
	}
}

func TestAddPathAndPathJoinsAndNormalizes(t *testing.T) {
	result, err := testEvalIn("/tmp/x", `/a/b + /c/d`)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}

	p, ok := result.(value.Path)
	if !ok {
		t.Fatalf("expected a path, got %T", result)
	}
	if string(p) != "/a/b/c/d" {
		t.Errorf("got %q, want %q", p, "/a/b/c/d")
	}
}

func TestLessThanComparesListsLexicographically(t *testing.T) {
	testBooleanObject(t, testEval(`[1] < [2]`), true)
	testBooleanObject(t, testEval(`[1 2] < [1 3]`), true)
	testBooleanObject(t, testEval(`[1] < [1 2]`), true)
	testBooleanObject(t, testEval(`[1 2] < [1]`), false)
	testBooleanObject(t, testEval(`[2] < [1]`), false)
}
