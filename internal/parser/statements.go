package parser

import (
	"github.com/funvibe/streem/internal/ast"
	"github.com/funvibe/streem/internal/diagnostics"
	"github.com/funvibe/streem/internal/token"
)

// parseStatements parses until '}' or EOF, leaving curToken on it.
// Statements are separated by line breaks or ';' and may only begin where
// the lexer flagged NewlineBefore.
func (p *Parser) parseStatements() []ast.Statement {
	statements := []ast.Statement{}
	for !p.failed() && !p.curTokenIs(token.EOF) && !p.curTokenIs(token.RBRACE) {
		if p.curTokenIs(token.SEMICOLON) {
			p.nextToken()
			continue
		}
		if !p.curToken.NewlineBefore {
			p.unexpected(p.curToken)
			break
		}
		stmt := p.parseStatement()
		if p.failed() {
			break
		}
		statements = append(statements, stmt)
		p.nextToken()
	}
	return statements
}

func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Type {
	case token.EMIT:
		return p.parseEmitStatement()
	case token.RETURN:
		return p.parseReturnStatement()
	case token.SKIP:
		return &ast.SkipStatement{Token: p.curToken}
	default:
		return p.parseExpressionStatement()
	}
}

// statementEnds reports whether the statement keyword in curToken has no operand.
func (p *Parser) statementEnds() bool {
	return p.peekToken.NewlineBefore ||
		p.peekTokenIs(token.RBRACE) ||
		p.peekTokenIs(token.SEMICOLON) ||
		p.peekTokenIs(token.EOF)
}

func (p *Parser) parseEmitStatement() ast.Statement {
	stmt := &ast.EmitStatement{Token: p.curToken}
	if p.statementEnds() {
		return stmt
	}
	p.nextToken()
	stmt.Values = append(stmt.Values, p.parseExpression(LOWEST))
	for !p.failed() && p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		stmt.Values = append(stmt.Values, p.parseExpression(LOWEST))
	}
	return stmt
}

func (p *Parser) parseReturnStatement() ast.Statement {
	stmt := &ast.ReturnStatement{Token: p.curToken}
	if p.statementEnds() {
		return stmt
	}
	p.nextToken()
	stmt.Value = p.parseExpression(LOWEST)
	return stmt
}

// parseExpressionStatement parses an expression, or an assignment when the
// expression is followed by '=' or a compound operator.
func (p *Parser) parseExpressionStatement() ast.Statement {
	stmt := &ast.ExpressionStatement{Token: p.curToken}
	left := p.parseExpression(LOWEST)
	if p.failed() {
		return stmt
	}

	if !token.IsAssignOperator(p.peekToken.Type) {
		stmt.Expression = left
		return stmt
	}

	p.nextToken()
	opTok := p.curToken
	switch left.(type) {
	case *ast.Identifier, *ast.MemberExpression:
	default:
		p.addError(diagnostics.ErrP003, opTok, "Invalid assignment")
		return stmt
	}

	p.nextToken()
	right := p.parseExpression(LOWEST)
	stmt.Expression = &ast.AssignExpression{
		Token:    opTok,
		Operator: opTok.Lexeme,
		Left:     left,
		Right:    right,
	}
	return stmt
}

// parseBlockBody parses statements after '{' or '->' up to the closing
// brace, leaving curToken on '}'.
func (p *Parser) parseBlockBody() []ast.Statement {
	p.nextToken()
	statements := p.parseStatements()
	if !p.failed() && !p.curTokenIs(token.RBRACE) {
		p.unexpected(p.curToken)
	}
	return statements
}

func (p *Parser) parseBlockStatement() *ast.BlockStatement {
	block := &ast.BlockStatement{Token: p.curToken}
	block.Statements = p.parseBlockBody()
	return block
}
