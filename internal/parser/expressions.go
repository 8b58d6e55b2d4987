package parser

import (
	"github.com/funvibe/streem/internal/ast"
	"github.com/funvibe/streem/internal/diagnostics"
	"github.com/funvibe/streem/internal/token"
)

func (p *Parser) parseExpression(precedence int) ast.Expression {
	p.depth++
	defer func() { p.depth-- }()

	if p.depth > MaxRecursionDepth {
		p.addError(diagnostics.ErrP001, p.curToken, "expression too complex: recursion depth limit exceeded")
		return nil
	}

	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.unexpected(p.curToken)
		return nil
	}
	leftExp := prefix()

	for !p.failed() && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return leftExp
		}
		p.nextToken()
		leftExp = infix(leftExp)
	}

	if p.failed() {
		return nil
	}
	return leftExp
}

func (p *Parser) parseIdentifier() ast.Expression {
	return &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}
}

func (p *Parser) parseNumberLiteral() ast.Expression {
	value, _ := p.curToken.Literal.(float64)
	return &ast.NumberLiteral{Token: p.curToken, Value: value}
}

func (p *Parser) parseStringLiteral() ast.Expression {
	value, _ := p.curToken.Literal.(string)
	return &ast.StringLiteral{Token: p.curToken, Value: value}
}

func (p *Parser) parseBoolean() ast.Expression {
	return &ast.BooleanLiteral{Token: p.curToken, Value: p.curTokenIs(token.TRUE)}
}

func (p *Parser) parseNull() ast.Expression {
	return &ast.NullLiteral{Token: p.curToken}
}

func (p *Parser) parsePrefixExpression() ast.Expression {
	expression := &ast.PrefixExpression{
		Token:    p.curToken,
		Operator: p.curToken.Lexeme,
	}
	p.nextToken()
	expression.Right = p.parseExpression(PREFIX)
	return expression
}

// parseInfixExpression parses every binary operator; all are left-associative.
func (p *Parser) parseInfixExpression(left ast.Expression) ast.Expression {
	expression := &ast.InfixExpression{
		Token:    p.curToken,
		Operator: p.curToken.Lexeme,
		Left:     left,
	}

	precedence := p.curPrecedence()
	p.nextToken()
	expression.Right = p.parseExpression(precedence)
	return expression
}

func (p *Parser) parseGroupedExpression() ast.Expression {
	expr := &ast.ParenExpression{Token: p.curToken}
	p.nextToken()
	expr.Expression = p.parseExpression(LOWEST)
	if p.failed() || !p.expectPeek(token.RPAREN) {
		return nil
	}
	return expr
}

func (p *Parser) parseArrayLiteral() ast.Expression {
	array := &ast.ArrayLiteral{Token: p.curToken}
	array.Elements = p.parseExpressionList(token.RBRACKET)
	return array
}

// parseExpressionList parses "a, b, c" up to end, which becomes curToken.
func (p *Parser) parseExpressionList(end token.TokenType) []ast.Expression {
	list := []ast.Expression{}

	if p.peekTokenIs(end) {
		p.nextToken()
		return list
	}

	p.nextToken()
	list = append(list, p.parseExpression(LOWEST))
	for !p.failed() && p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		list = append(list, p.parseExpression(LOWEST))
	}

	if p.failed() || !p.expectPeek(end) {
		return nil
	}
	return list
}

func (p *Parser) parseCallExpression(function ast.Expression) ast.Expression {
	exp := &ast.CallExpression{Token: p.curToken, Function: function}
	exp.Arguments = p.parseExpressionList(token.RPAREN)
	return exp
}

func (p *Parser) parseMemberExpression(left ast.Expression) ast.Expression {
	exp := &ast.MemberExpression{Token: p.curToken, Left: left}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	exp.Member = &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}
	return exp
}

// parseIfExpression parses
//
//	if cond { ... } else if cond { ... } else { ... }
func (p *Parser) parseIfExpression() ast.Expression {
	expr := &ast.IfExpression{Token: p.curToken}

	if p.peekTokenIs(token.LBRACE) {
		p.unexpected(p.peekToken)
		return nil
	}
	p.nextToken()
	expr.Condition = p.parseExpression(LOWEST)
	if p.failed() || !p.expectPeek(token.LBRACE) {
		return nil
	}
	expr.Consequence = p.parseBlockStatement()
	if p.failed() {
		return nil
	}

	if !p.peekTokenIs(token.ELSE) {
		return expr
	}
	p.nextToken()

	if p.peekTokenIs(token.IF) {
		p.nextToken()
		alt := p.parseIfExpression()
		if alt == nil {
			return nil
		}
		expr.Alternative = alt
		return expr
	}

	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	expr.Alternative = p.parseBlockStatement()
	if p.failed() {
		return nil
	}
	return expr
}

// parseFunctionLiteral parses the three block forms:
//
//	{ a, b -> stmts }
//	{ -> stmts }
//	{ stmts }
func (p *Parser) parseFunctionLiteral() ast.Expression {
	lit := &ast.FunctionLiteral{Token: p.curToken}

	if p.peekTokenIs(token.ARROW) {
		p.nextToken()
	} else if p.hasParameterList() {
		lit.Parameters = p.parseFunctionParameters()
		if p.failed() {
			return nil
		}
	}

	lit.Body = &ast.BlockStatement{Token: lit.Token}
	lit.Body.Statements = p.parseBlockBody()
	if p.failed() {
		return nil
	}
	return lit
}

// hasParameterList looks past '{' for identifiers and commas closed by '->'.
func (p *Parser) hasParameterList() bool {
	for i := p.pos + 1; i < len(p.tokens); i++ {
		switch p.tokens[i].Type {
		case token.ARROW:
			return true
		case token.IDENT, token.COMMA:
		default:
			return false
		}
	}
	return false
}

// parseFunctionParameters leaves curToken on '->'.
func (p *Parser) parseFunctionParameters() []*ast.Identifier {
	var params []*ast.Identifier
	seen := make(map[string]bool)

	for {
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		name := p.curToken.Lexeme
		if seen[name] {
			p.addError(diagnostics.ErrP004, p.curToken, "Duplicate parameter %q", name)
			return nil
		}
		seen[name] = true
		params = append(params, &ast.Identifier{Token: p.curToken, Value: name})

		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}

	if !p.expectPeek(token.ARROW) {
		return nil
	}
	return params
}
