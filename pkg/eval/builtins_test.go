package eval

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/conneroisu/gix/internal/value"
	"github.com/conneroisu/gix/pkg/lexer"
	"github.com/conneroisu/gix/pkg/parser"
)

func TestCurriedBuiltinAcceptsSplitApplication(t *testing.T) {
	full := testEval("builtins.add 1 2")
	testIntegerObject(t, full, 3)

	split := testEval("(builtins.add 1) 2")
	testIntegerObject(t, split, 3)
}

func TestTryEvalCatchesThrow(t *testing.T) {
	result := testEval(`builtins.tryEval (throw "boom")`)

	attrs, ok := result.(*value.Attrs)
	if !ok {
		t.Fatalf("tryEval result is not an attrset, got %T", result)
	}

	success, ok := attrs.Get("success")
	if !ok || success != value.Bool(false) {
		t.Errorf("expected success = false, got %v", success)
	}
}

func TestTryEvalPassesThroughSuccess(t *testing.T) {
	result := testEval(`builtins.tryEval (1 + 2)`)

	attrs, ok := result.(*value.Attrs)
	if !ok {
		t.Fatalf("tryEval result is not an attrset, got %T", result)
	}

	success, _ := attrs.Get("success")
	if success != value.Bool(true) {
		t.Errorf("expected success = true, got %v", success)
	}

	val, ok := attrs.Get("value")
	if !ok {
		t.Fatal("expected a 'value' attribute")
	}
	testIntegerObject(t, val, 3)
}

func TestMapAndFilterAndAllAny(t *testing.T) {
	testIntegerObject(t, testEval(`builtins.length (builtins.filter (x: x > 1) [1 2 3])`), 2)
	testIntegerObject(t, testEval(`builtins.length (map (x: x * 2) [1 2 3])`), 3)
	testBooleanObject(t, testEval(`builtins.all (x: x > 0) [1 2 3]`), true)
	testBooleanObject(t, testEval(`builtins.any (x: x > 2) [1 2 3]`), true)
	testBooleanObject(t, testEval(`builtins.any (x: x > 10) [1 2 3]`), false)
}

func TestToJSONFromJSONRoundTrip(t *testing.T) {
	result := testEval(`builtins.fromJSON (builtins.toJSON { a = 1; b = [1 2 3]; })`)

	attrs, ok := result.(*value.Attrs)
	if !ok {
		t.Fatalf("expected an attrset, got %T", result)
	}

	aVal, _ := attrs.Get("a")
	testIntegerObject(t, aVal, 1)

	bVal, ok := attrs.Get("b")
	if !ok {
		t.Fatal("expected attribute 'b'")
	}
	list, ok := bVal.(*value.List)
	if !ok {
		t.Fatalf("expected a list, got %T", bVal)
	}
	if list.Len() != 3 {
		t.Errorf("expected 3 elements, got %d", list.Len())
	}
}

func TestImportEvaluatesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "value.nix")
	if err := os.WriteFile(path, []byte("1 + 41"), 0o644); err != nil {
		t.Fatalf("writing fixture file: %v", err)
	}

	input := `import "` + path + `"`
	l := lexer.New(input)
	p := parser.New(l)
	ast, err := p.Parse()
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	e := New(dir)
	result, err := e.Eval(ast)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}

	testIntegerObject(t, result, 42)
}

func TestImportResolvesRelativePathsAgainstImportedFilesOwnDirectory(t *testing.T) {
	rootDir := t.TempDir()
	subDir := filepath.Join(rootDir, "sub")
	if err := os.Mkdir(subDir, 0o755); err != nil {
		t.Fatalf("creating sub dir: %v", err)
	}

	siblingPath := filepath.Join(subDir, "sibling.nix")
	if err := os.WriteFile(siblingPath, []byte("41"), 0o644); err != nil {
		t.Fatalf("writing sibling fixture: %v", err)
	}

	// entry.nix imports sub/middle.nix, which imports ./sibling.nix relative
	// to its own directory (sub/), not entry.nix's directory (rootDir).
	middlePath := filepath.Join(subDir, "middle.nix")
	if err := os.WriteFile(middlePath, []byte(`1 + import ./sibling.nix`), 0o644); err != nil {
		t.Fatalf("writing middle fixture: %v", err)
	}

	entryPath := filepath.Join(rootDir, "entry.nix")
	if err := os.WriteFile(entryPath, []byte(`import ./sub/middle.nix`), 0o644); err != nil {
		t.Fatalf("writing entry fixture: %v", err)
	}

	input := `import "` + entryPath + `"`
	l := lexer.New(input)
	p := parser.New(l)
	ast, err := p.Parse()
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	result, err := New(rootDir).Eval(ast)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}

	testIntegerObject(t, result, 42)
}

func TestDeepForceTraversesNestedStructures(t *testing.T) {
	result := testEval(`{ a = [ (1 + 1) ]; }`)

	forced, err := DeepForce(result)
	if err != nil {
		t.Fatalf("DeepForce: %v", err)
	}

	attrs, ok := forced.(*value.Attrs)
	if !ok {
		t.Fatalf("expected an attrset, got %T", forced)
	}
	aVal, _ := attrs.Get("a")
	list, ok := aVal.(*value.List)
	if !ok {
		t.Fatalf("expected a list, got %T", aVal)
	}

	elem, err := list.At(0).Force()
	if err != nil {
		t.Fatalf("forcing list element: %v", err)
	}
	testIntegerObject(t, elem, 2)
}
