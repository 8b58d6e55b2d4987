package ast

import (
	"bytes"
	"strings"

	"github.com/funvibe/streem/internal/token"
)

// TokenProvider is an interface for any AST node that can provide its primary token.
// This is useful for error reporting.
type TokenProvider interface {
	GetToken() token.Token
}

// Node is the base interface for all AST nodes.
type Node interface {
	TokenLiteral() string
	GetToken() token.Token
	String() string
}

// Statement is a Node that represents a statement.
type Statement interface {
	Node
	statementNode()
}

// Expression is a Node that represents an expression.
type Expression interface {
	Node
	expressionNode()
}

// Program is the root node of every AST our parser produces.
type Program struct {
	File       string // Source file path
	Statements []Statement
}

func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}
	return ""
}

func (p *Program) GetToken() token.Token {
	if len(p.Statements) > 0 {
		return p.Statements[0].GetToken()
	}
	return token.Token{}
}

func (p *Program) String() string {
	return joinStatements(p.Statements)
}

// ExpressionStatement is a statement that consists of a single expression.
type ExpressionStatement struct {
	Token      token.Token // the first token of the expression
	Expression Expression
}

func (es *ExpressionStatement) statementNode()        {}
func (es *ExpressionStatement) TokenLiteral() string  { return es.Token.Lexeme }
func (es *ExpressionStatement) GetToken() token.Token { return es.Token }
func (es *ExpressionStatement) String() string {
	if es.Expression == nil {
		return ""
	}
	return es.Expression.String()
}

// BlockStatement represents a list of statements within curly braces.
// It does not open a scope by itself: only closure invocation does.
type BlockStatement struct {
	Token      token.Token // {
	Statements []Statement
}

func (bs *BlockStatement) statementNode()        {}
func (bs *BlockStatement) TokenLiteral() string  { return bs.Token.Lexeme }
func (bs *BlockStatement) GetToken() token.Token { return bs.Token }
func (bs *BlockStatement) String() string {
	return "{ " + joinStatements(bs.Statements) + " }"
}

// EmitStatement pushes values to the current emit target.
// emit a, b, c
type EmitStatement struct {
	Token  token.Token // 'emit'
	Values []Expression
}

func (es *EmitStatement) statementNode()        {}
func (es *EmitStatement) TokenLiteral() string  { return es.Token.Lexeme }
func (es *EmitStatement) GetToken() token.Token { return es.Token }
func (es *EmitStatement) String() string {
	if len(es.Values) == 0 {
		return "emit"
	}
	return "emit " + joinExpressions(es.Values)
}

// SkipStatement abandons the current statement list without a value.
type SkipStatement struct {
	Token token.Token // 'skip'
}

func (ss *SkipStatement) statementNode()        {}
func (ss *SkipStatement) TokenLiteral() string  { return ss.Token.Lexeme }
func (ss *SkipStatement) GetToken() token.Token { return ss.Token }
func (ss *SkipStatement) String() string        { return "skip" }

// ReturnStatement; Value is nil for a bare 'return'.
type ReturnStatement struct {
	Token token.Token // 'return'
	Value Expression
}

func (rs *ReturnStatement) statementNode()        {}
func (rs *ReturnStatement) TokenLiteral() string  { return rs.Token.Lexeme }
func (rs *ReturnStatement) GetToken() token.Token { return rs.Token }
func (rs *ReturnStatement) String() string {
	if rs.Value == nil {
		return "return"
	}
	return "return " + rs.Value.String()
}

func joinStatements(stmts []Statement) string {
	parts := make([]string, 0, len(stmts))
	for _, s := range stmts {
		parts = append(parts, s.String())
	}
	return strings.Join(parts, "; ")
}

func joinExpressions(exprs []Expression) string {
	var out bytes.Buffer
	for i, e := range exprs {
		if i > 0 {
			out.WriteString(", ")
		}
		out.WriteString(e.String())
	}
	return out.String()
}
