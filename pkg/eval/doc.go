// Package eval provides the expression evaluator for the Nix expression language interpreter.
//
// The evaluator is the final stage of the Nix interpreter pipeline, taking Abstract
// Syntax Trees (ASTs) from the parser and computing their runtime values. It implements
// the complete Nix evaluation semantics including lazy evaluation, lexical scoping,
// and built-in functions.
//
// Architecture:
//
// The evaluator uses a tree-walking approach with the following key components:
//   - Evaluator: Main evaluation engine with environment management
//   - Environment: Lexical scoping and variable binding system
//   - Value System: Runtime representation of all Nix values
//   - Built-in Functions: Standard library implementations
//
// The design follows domain-driven principles with clear separation of concerns:
//   - evaluator.go: Core evaluation logic and AST traversal
//   - operators.go: Binary and unary operator implementations
//   - control_flow.go: Control flow constructs (if, let, with, assert)
//   - functions.go: Function application and closure handling
//   - builtins.go: Built-in function library
//
// Evaluation Strategy:
//
// The evaluator is lazy throughout: list elements, attribute set values,
// let bindings, and function arguments are all represented as
// *value.Thunk and only forced on demand.
//   - Function arguments are passed as unforced thunks
//   - Let and rec bindings close over the final extended environment so
//     siblings can reference each other before any of them is forced
//   - Attribute sets support recursive references the same way
//   - Short-circuit evaluation for logical operators, without forcing
//     the unevaluated branch
//
// Supported Language Features:
//
// All major Nix language constructs are supported:
//   - Literals: integers, floats, strings, booleans, null, paths
//   - Operators: arithmetic, comparison, logical, concatenation
//   - Control flow: if-then-else, let-in, with, assert
//   - Functions: definitions, applications, closures
//   - Data structures: lists, attribute sets (recursive and non-recursive)
//   - Built-ins: comprehensive standard library
//   - Derivations: Nix store integration
//
// Built-in Functions:
//
// The evaluator's `builtins` attrset (each entry also reachable at the
// top level) covers:
//   - Type checking: isNull, isBool, isInt, isFloat, isString, isPath, isList, isAttrs, isFunction, typeOf
//   - Conversions: toString, baseNameOf, dirOf
//   - List operations: length, head, tail, elemAt, elem, concatLists, all, any, filter, map
//   - Attribute operations: attrNames, attrValues, hasAttr, getAttr
//   - Math: add, sub, mul, div
//   - JSON: toJSON, fromJSON
//   - Control: abort, throw, tryEval, import
//   - System: derivation
//
// Error Handling:
//
// Comprehensive error reporting with:
//   - Type errors with expected vs actual types
//   - Undefined variable errors
//   - Runtime errors (division by zero, etc.)
//   - Function arity mismatches
//   - Attribute access errors
//
// Performance Features:
//   - Tree-walking evaluation for simplicity and correctness
//   - Immutable values for safety
//   - Structural sharing for memory efficiency
//   - Short-circuit evaluation for logical operators
//
// Usage Example:
//
//	lexer := lexer.New(`let x = 42; f = y: x + y; in f 8`)
//	parser := parser.New(lexer)
//	ast, err := parser.Parse()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	evaluator := eval.New(".")
//	result, err := evaluator.Eval(ast)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println(result.String()) // Output: 50
package eval
