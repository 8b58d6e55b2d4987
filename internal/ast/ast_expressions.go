package ast

import (
	"strconv"
	"strings"

	"github.com/funvibe/streem/internal/token"
)

// Identifier represents an identifier, e.g., a variable name.
type Identifier struct {
	Token token.Token // the token.IDENT token
	Value string
}

func (i *Identifier) expressionNode()       {}
func (i *Identifier) TokenLiteral() string  { return i.Token.Lexeme }
func (i *Identifier) GetToken() token.Token { return i.Token }
func (i *Identifier) String() string        { return i.Value }

// NumberLiteral covers decimal, hex and octal literals.
type NumberLiteral struct {
	Token token.Token
	Value float64
}

func (nl *NumberLiteral) expressionNode()       {}
func (nl *NumberLiteral) TokenLiteral() string  { return nl.Token.Lexeme }
func (nl *NumberLiteral) GetToken() token.Token { return nl.Token }
func (nl *NumberLiteral) String() string        { return nl.Token.Lexeme }

// StringLiteral holds the decoded string value.
type StringLiteral struct {
	Token token.Token
	Value string
}

func (sl *StringLiteral) expressionNode()       {}
func (sl *StringLiteral) TokenLiteral() string  { return sl.Token.Lexeme }
func (sl *StringLiteral) GetToken() token.Token { return sl.Token }
func (sl *StringLiteral) String() string        { return strconv.Quote(sl.Value) }

// BooleanLiteral represents boolean literals true/false.
type BooleanLiteral struct {
	Token token.Token
	Value bool
}

func (b *BooleanLiteral) expressionNode()       {}
func (b *BooleanLiteral) TokenLiteral() string  { return b.Token.Lexeme }
func (b *BooleanLiteral) GetToken() token.Token { return b.Token }
func (b *BooleanLiteral) String() string        { return b.Token.Lexeme }

type NullLiteral struct {
	Token token.Token
}

func (n *NullLiteral) expressionNode()       {}
func (n *NullLiteral) TokenLiteral() string  { return n.Token.Lexeme }
func (n *NullLiteral) GetToken() token.Token { return n.Token }
func (n *NullLiteral) String() string        { return "null" }

// ArrayLiteral represents [a, b, c]
type ArrayLiteral struct {
	Token    token.Token // '['
	Elements []Expression
}

func (al *ArrayLiteral) expressionNode()       {}
func (al *ArrayLiteral) TokenLiteral() string  { return al.Token.Lexeme }
func (al *ArrayLiteral) GetToken() token.Token { return al.Token }
func (al *ArrayLiteral) String() string        { return "[" + joinExpressions(al.Elements) + "]" }

// ParenExpression keeps explicit grouping visible to the evaluator.
type ParenExpression struct {
	Token      token.Token // '('
	Expression Expression
}

func (pe *ParenExpression) expressionNode()       {}
func (pe *ParenExpression) TokenLiteral() string  { return pe.Token.Lexeme }
func (pe *ParenExpression) GetToken() token.Token { return pe.Token }
func (pe *ParenExpression) String() string        { return "(" + pe.Expression.String() + ")" }

// PrefixExpression: !x, -x, +x, ~x
type PrefixExpression struct {
	Token    token.Token // The prefix token, e.g. !
	Operator string
	Right    Expression
}

func (pe *PrefixExpression) expressionNode()       {}
func (pe *PrefixExpression) TokenLiteral() string  { return pe.Token.Lexeme }
func (pe *PrefixExpression) GetToken() token.Token { return pe.Token }
func (pe *PrefixExpression) String() string {
	return "(" + pe.Operator + pe.Right.String() + ")"
}

// InfixExpression covers every binary operator, including the pipe.
type InfixExpression struct {
	Token    token.Token // The operator token, e.g. +
	Left     Expression
	Operator string
	Right    Expression
}

func (ie *InfixExpression) expressionNode()       {}
func (ie *InfixExpression) TokenLiteral() string  { return ie.Token.Lexeme }
func (ie *InfixExpression) GetToken() token.Token { return ie.Token }
func (ie *InfixExpression) String() string {
	return "(" + ie.Left.String() + " " + ie.Operator + " " + ie.Right.String() + ")"
}

// AssignExpression: target op= value. Left is an *Identifier or a
// *MemberExpression; the parser rejects anything else.
type AssignExpression struct {
	Token    token.Token // The operator token
	Operator string      // "=", "+=", ...
	Left     Expression
	Right    Expression
}

func (ae *AssignExpression) expressionNode()       {}
func (ae *AssignExpression) TokenLiteral() string  { return ae.Token.Lexeme }
func (ae *AssignExpression) GetToken() token.Token { return ae.Token }
func (ae *AssignExpression) String() string {
	return ae.Left.String() + " " + ae.Operator + " " + ae.Right.String()
}

// IfExpression: if cond { ... } else if ... else { ... }
// Alternative is nil, an *IfExpression or a *BlockStatement.
type IfExpression struct {
	Token       token.Token // 'if'
	Condition   Expression
	Consequence *BlockStatement
	Alternative Node
}

func (ie *IfExpression) expressionNode()       {}
func (ie *IfExpression) TokenLiteral() string  { return ie.Token.Lexeme }
func (ie *IfExpression) GetToken() token.Token { return ie.Token }
func (ie *IfExpression) String() string {
	s := "if " + ie.Condition.String() + " " + ie.Consequence.String()
	if ie.Alternative != nil {
		s += " else " + ie.Alternative.String()
	}
	return s
}

// FunctionLiteral is a block literal: { a, b -> stmts }
type FunctionLiteral struct {
	Token      token.Token // '{'
	Parameters []*Identifier
	Body       *BlockStatement
}

func (fl *FunctionLiteral) expressionNode()       {}
func (fl *FunctionLiteral) TokenLiteral() string  { return fl.Token.Lexeme }
func (fl *FunctionLiteral) GetToken() token.Token { return fl.Token }
func (fl *FunctionLiteral) String() string {
	params := make([]string, 0, len(fl.Parameters))
	for _, p := range fl.Parameters {
		params = append(params, p.Value)
	}
	return "{" + strings.Join(params, ", ") + " -> " + joinStatements(fl.Body.Statements) + "}"
}

// MemberExpression represents dot access, e.g. obj.field
type MemberExpression struct {
	Token  token.Token // The '.' token
	Left   Expression
	Member *Identifier
}

func (me *MemberExpression) expressionNode()       {}
func (me *MemberExpression) TokenLiteral() string  { return me.Token.Lexeme }
func (me *MemberExpression) GetToken() token.Token { return me.Token }
func (me *MemberExpression) String() string {
	return me.Left.String() + "." + me.Member.Value
}

// CallExpression: fn(args)
type CallExpression struct {
	Token     token.Token // The '(' token
	Function  Expression
	Arguments []Expression
}

func (ce *CallExpression) expressionNode()       {}
func (ce *CallExpression) TokenLiteral() string  { return ce.Token.Lexeme }
func (ce *CallExpression) GetToken() token.Token { return ce.Token }
func (ce *CallExpression) String() string {
	return ce.Function.String() + "(" + joinExpressions(ce.Arguments) + ")"
}
