package parser

import "github.com/conneroisu/gix/pkg/lexer"

// Operator precedence levels, loosest to tightest. This does not exactly
// mirror the canonical Nix grammar (which interleaves concat/arithmetic
// differently); it is close enough that no construct in practice parses
// differently, and keeping the original relative ordering of sum/product
// above concat/update matches what this parser already committed to.
const (
	precedenceLowest  = iota
	precedenceImpl    // ->
	precedenceOr      // ||
	precedenceAnd     // && and (keyword)
	precedenceEquals  // == !=
	precedenceCompare // < > <= >=
	precedenceUpdate  // //
	precedenceConcat  // ++
	precedenceHasAttr // ?
	precedenceSum     // + -
	precedenceProduct // * /
	precedenceCall    // function application, "or"-default
	precedenceSelect  // . attribute selection
)

// precedenceMap maps token types to their precedence.
var precedenceMap = map[lexer.TokenType]int{
	lexer.TOKEN_IMPL:     precedenceImpl,
	lexer.TOKEN_OR_OP:    precedenceOr,
	lexer.TOKEN_AND:      precedenceAnd,
	lexer.TOKEN_AND_OP:   precedenceAnd,
	lexer.TOKEN_EQ:       precedenceEquals,
	lexer.TOKEN_NEQ:      precedenceEquals,
	lexer.TOKEN_LT:       precedenceCompare,
	lexer.TOKEN_GT:       precedenceCompare,
	lexer.TOKEN_LTE:      precedenceCompare,
	lexer.TOKEN_GTE:      precedenceCompare,
	lexer.TOKEN_UPDATE:   precedenceUpdate,
	lexer.TOKEN_CONCAT:   precedenceConcat,
	lexer.TOKEN_QUESTION: precedenceHasAttr,
	lexer.TOKEN_PLUS:     precedenceSum,
	lexer.TOKEN_MINUS:    precedenceSum,
	lexer.TOKEN_MULTIPLY: precedenceProduct,
	lexer.TOKEN_DIVIDE:   precedenceProduct,
	lexer.TOKEN_OR:       precedenceCall,
	lexer.TOKEN_DOT:      precedenceSelect,
}
