package parser

import (
	"github.com/conneroisu/gix/internal/types"
	"github.com/conneroisu/gix/pkg/lexer"
)

// parseUnary parses unary expressions.
func (p *Parser) parseUnary(op types.UnaryOp) types.Expr {
	p.advance()
	expr := p.parseExpression(precedenceCall)

	return &types.UnaryExpr{
		Op:   op,
		Expr: expr,
	}
}

// parseBinary parses binary expressions.
func (p *Parser) parseBinary(left types.Expr, op types.BinaryOp) types.Expr {
	precedence := p.curPrecedence()
	p.advance()
	right := p.parseExpression(precedence)

	return &types.BinaryExpr{
		Left:  left,
		Op:    op,
		Right: right,
	}
}

// parseGrouped parses parenthesized expressions.
func (p *Parser) parseGrouped() types.Expr {
	p.advance() // skip '('

	expr := p.parseExpression(precedenceLowest)

	if !p.expectPeek(lexer.TOKEN_RPAREN) {
		return nil
	}

	return expr
}

// parseFunction parses a simple-identifier function definition: `x: body`.
func (p *Parser) parseFunction() types.Expr {
	param := p.cur.Literal

	if !p.expectPeek(lexer.TOKEN_COLON) {
		return nil
	}

	p.advance()
	body := p.parseExpression(precedenceLowest)

	return &types.FunctionExpr{
		Param: param,
		Body:  body,
	}
}

// parsePatternFunction parses an attrset-pattern function definition whose
// formal list opens the expression directly: `{ x, y ? 1, ... }: body`,
// optionally followed by an @-binding: `{ x, y }@all: body`. cur is
// positioned on the opening '{' on entry.
func (p *Parser) parsePatternFunction() types.Expr {
	pattern := p.parsePatternBody()
	if pattern == nil {
		return nil
	}

	if p.peekIs(lexer.TOKEN_AT) {
		p.advance() // cur = '@'
		if !p.expectPeek(lexer.TOKEN_IDENT) {
			return nil
		}
		pattern.Name = p.cur.Literal
	}

	if !p.expectPeek(lexer.TOKEN_COLON) {
		return nil
	}

	p.advance()
	body := p.parseExpression(precedenceLowest)

	return &types.FunctionExpr{Pattern: pattern, Body: body}
}

// parseAtPatternFunction parses `name @ { ... }: body`, where the whole
// argument attrset is bound to name in addition to being destructured.
// cur is positioned on the leading identifier on entry.
func (p *Parser) parseAtPatternFunction() types.Expr {
	name := p.cur.Literal

	p.advance() // cur = '@'
	if !p.expectPeek(lexer.TOKEN_LBRACE) {
		return nil
	}

	pattern := p.parsePatternBody()
	if pattern == nil {
		return nil
	}
	pattern.Name = name

	if !p.expectPeek(lexer.TOKEN_COLON) {
		return nil
	}

	p.advance()
	body := p.parseExpression(precedenceLowest)

	return &types.FunctionExpr{Pattern: pattern, Body: body}
}

// parsePatternBody parses the formals inside `{ ... }`, leaving cur on
// the closing '}'. cur is positioned on the opening '{' on entry.
func (p *Parser) parsePatternBody() *types.Pattern {
	p.advance() // skip '{'

	pattern := &types.Pattern{Type: types.AttrSetPattern}

	if p.curIs(lexer.TOKEN_RBRACE) {
		return pattern
	}

	for {
		if p.curIs(lexer.TOKEN_ELLIPSIS) {
			pattern.Ellipsis = true
			p.advance() // cur = '}' (expected)

			break
		}

		if !p.curIs(lexer.TOKEN_IDENT) {
			p.errors.Addf(p.cur.Line, p.cur.Column,
				"expected identifier in function pattern, got %v", p.cur.Type)

			return nil
		}

		attr := types.PatternAttr{Name: p.cur.Literal}

		if p.peekIs(lexer.TOKEN_QUESTION) {
			p.advance() // cur = '?'
			p.advance() // cur = start of default expression
			attr.Default = p.parseExpression(precedenceLowest)
		}

		pattern.Attrs = append(pattern.Attrs, attr)

		if !p.peekIs(lexer.TOKEN_COMMA) {
			p.advance() // cur = '}' (expected)

			break
		}

		p.advance() // cur = ','
		p.advance() // cur = next formal, '...', or '}'

		if p.curIs(lexer.TOKEN_RBRACE) {
			break
		}
	}

	if !p.curIs(lexer.TOKEN_RBRACE) {
		p.errors.Addf(p.cur.Line, p.cur.Column,
			"expected '}' to close function pattern, got %v", p.cur.Type)

		return nil
	}

	return pattern
}

// parseFunctionApplication parses function applications.
func (p *Parser) parseFunctionApplication(fn types.Expr) types.Expr {
	arg := p.parseExpression(precedenceCall)

	return &types.ApplyExpr{
		Func: fn,
		Arg:  arg,
	}
}

// parseList parses list literals.
func (p *Parser) parseList() types.Expr {
	p.advance() // skip '['

	list := &types.ListExpr{
		Elements: []types.Expr{},
	}

	if p.curIs(lexer.TOKEN_RBRACKET) {
		return list
	}

	// Parse first element
	list.Elements = append(list.Elements, p.parseExpression(precedenceCall+1))

	// Parse remaining elements
	for !p.peekIs(lexer.TOKEN_RBRACKET) && !p.peekIs(lexer.TOKEN_EOF) {
		p.advance()
		if p.curIs(lexer.TOKEN_RBRACKET) {
			break
		}
		// Skip commas if present (for compatibility)
		if p.curIs(lexer.TOKEN_COMMA) {
			p.advance()
		}
		if p.curIs(lexer.TOKEN_RBRACKET) {
			break
		}
		list.Elements = append(list.Elements, p.parseExpression(precedenceCall+1))
	}

	if !p.expectPeek(lexer.TOKEN_RBRACKET) {
		return nil
	}

	return list
}

// parseAttrSet parses attribute set literals, entered either on the
// leading 'rec' keyword of a recursive set or directly on '{'.
func (p *Parser) parseAttrSet() types.Expr {
	attrs := &types.AttrSetExpr{
		Bindings: []types.AttrBinding{},
	}

	if p.curIs(lexer.TOKEN_REC) {
		attrs.Recursive = true
		if !p.expectPeek(lexer.TOKEN_LBRACE) {
			return nil
		}
	}

	p.advance() // skip '{'

	// Empty attribute set
	if p.curIs(lexer.TOKEN_RBRACE) {
		return attrs
	}

	// Parse bindings
	for !p.curIs(lexer.TOKEN_RBRACE) && !p.curIs(lexer.TOKEN_EOF) {
		if p.curIs(lexer.TOKEN_INHERIT) {
			p.parseInherit(attrs)
		} else {
			binding := p.parseBinding()
			if binding != nil {
				attrs.Bindings = append(attrs.Bindings, *binding)
			}
		}

		if p.curIs(lexer.TOKEN_RBRACE) {
			break
		}
	}

	if !p.curIs(lexer.TOKEN_RBRACE) {
		p.errors.Addf(p.cur.Line, p.cur.Column,
			"expected '}', got %v", p.cur.Type)

		return nil
	}

	return attrs
}

// parseBinding parses a single attribute binding.
func (p *Parser) parseBinding() *types.AttrBinding {
	// Parse attribute path
	path := p.parseAttrPath()
	if path == nil {
		return nil
	}

	if !p.expectPeek(lexer.TOKEN_ASSIGN) {
		return nil
	}

	p.advance()
	value := p.parseExpression(precedenceLowest)

	if !p.expectPeek(lexer.TOKEN_SEMICOLON) {
		return nil
	}

	p.advance() // position on next token

	return &types.AttrBinding{
		Path:  path,
		Value: value,
	}
}

// parseAttrPath parses an attribute path: a dot-separated sequence of
// static identifier/string segments and dynamic ${expr} segments
// (a.b."c d".${e}).
func (p *Parser) parseAttrPath() []types.AttrPathComponent {
	comp, ok := p.parseAttrPathComponent()
	if !ok {
		return nil
	}

	path := []types.AttrPathComponent{comp}

	for p.peekIs(lexer.TOKEN_DOT) {
		p.advance() // consume dot
		p.advance() // move onto next component's first token

		comp, ok := p.parseAttrPathComponent()
		if !ok {
			return nil
		}

		path = append(path, comp)
	}

	return path
}

// parseAttrPathComponent parses a single attribute-path segment with cur
// positioned on its first token, leaving cur on the segment's last token.
func (p *Parser) parseAttrPathComponent() (types.AttrPathComponent, bool) {
	switch p.cur.Type {
	case lexer.TOKEN_IDENT, lexer.TOKEN_STRING:
		return types.AttrPathComponent{Kind: types.StaticComponent, Name: p.cur.Literal}, true
	case lexer.TOKEN_INTERP_START:
		p.advance() // move past '${' onto the expression
		expr := p.parseExpression(precedenceLowest)
		if !p.expectPeek(lexer.TOKEN_RBRACE) {
			return types.AttrPathComponent{}, false
		}

		return types.AttrPathComponent{Kind: types.DynamicComponent, Expr: expr}, true
	default:
		p.errors.Addf(p.cur.Line, p.cur.Column,
			"expected identifier, string, or interpolation in attribute path, got %v", p.cur.Type)

		return types.AttrPathComponent{}, false
	}
}

// parseInherit parses `inherit a b;` and `inherit (expr) a b;` forms,
// appending the resulting clause to attrs.Inherits. cur is positioned on
// the 'inherit' keyword on entry and left past the closing ';' on return.
func (p *Parser) parseInherit(attrs *types.AttrSetExpr) {
	attrs.Inherits = append(attrs.Inherits, p.parseInheritClause())
}

// parseInheritClause parses one `inherit a b;` or `inherit (expr) a b;`
// form, shared by attribute-set and let-binding parsing. cur is
// positioned on the 'inherit' keyword on entry and left past the closing
// ';' on return.
func (p *Parser) parseInheritClause() types.InheritClause {
	p.advance() // skip 'inherit'

	var from types.Expr
	if p.curIs(lexer.TOKEN_LPAREN) {
		from = p.parseGrouped()
		p.advance() // move past ')' onto the first inherited name (or ';')
	}

	var names []string
	for p.curIs(lexer.TOKEN_IDENT) || p.curIs(lexer.TOKEN_STRING) {
		names = append(names, p.cur.Literal)
		p.advance()
	}

	if !p.curIs(lexer.TOKEN_SEMICOLON) {
		p.errors.Addf(p.cur.Line, p.cur.Column,
			"expected ';' to close inherit, got %v", p.cur.Type)
	} else {
		p.advance() // consume ';'
	}

	return types.InheritClause{From: from, Attrs: names}
}

// parseSelect parses attribute selection.
func (p *Parser) parseSelect(expr types.Expr) types.Expr {
	p.advance() // consume dot

	path := p.parseAttrPath()
	if path == nil {
		return nil
	}

	return &types.SelectExpr{
		Expr:     expr,
		AttrPath: path,
	}
}

// parseHasAttr parses attribute existence test.
func (p *Parser) parseHasAttr(expr types.Expr) types.Expr {
	p.advance() // consume '?'

	path := p.parseAttrPath()
	if path == nil {
		return nil
	}

	return &types.HasAttrExpr{
		Expr:     expr,
		AttrPath: path,
	}
}

// parseOrDefault parses 'or' default expressions.
func (p *Parser) parseOrDefault(expr types.Expr) types.Expr {
	selectExpr, ok := expr.(*types.SelectExpr)
	if !ok {
		p.errors.Addf(p.cur.Line, p.cur.Column,
			"'or' can only be used with attribute selection")

		return nil
	}

	p.advance()
	selectExpr.Default = p.parseExpression(precedenceLowest)

	return selectExpr
}
