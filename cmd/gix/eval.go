package gix

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/conneroisu/gix/pkg/eval"
	"github.com/conneroisu/gix/pkg/lexer"
	"github.com/conneroisu/gix/pkg/parser"
)

var evalExpr string

var evalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Evaluate an expression, deep-force it, and print the result",
	RunE:  runEval,
}

func init() {
	rootCmd.AddCommand(evalCmd)
	evalCmd.Flags().StringVar(&evalExpr, "expr", "", "expression text to evaluate (required)")
	_ = evalCmd.MarkFlagRequired("expr")
}

func runEval(_ *cobra.Command, _ []string) error {
	logger.Debug("evaluating expression", zap.Int("length", len(evalExpr)))

	l := lexer.New(evalExpr)
	p := parser.New(l)
	ast, err := p.Parse()
	if err != nil {
		return fmt.Errorf("parse error: %w", err)
	}

	e := eval.New(".")
	result, err := e.Eval(ast)
	if err != nil {
		return fmt.Errorf("evaluation error: %w", err)
	}

	forced, err := eval.DeepForce(result)
	if err != nil {
		return fmt.Errorf("evaluation error: %w", err)
	}

	fmt.Println(forced.String())

	return nil
}
