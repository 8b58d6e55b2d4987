package parser

import (
	"github.com/funvibe/streem/internal/ast"
	"github.com/funvibe/streem/internal/diagnostics"
	"github.com/funvibe/streem/internal/token"
)

// MaxRecursionDepth bounds expression nesting so hostile input cannot
// exhaust the goroutine stack.
const MaxRecursionDepth = 500

const (
	_ int = iota
	LOWEST
	LOGIC_OR    // ||
	LOGIC_AND   // &&
	BIT_OR      // |
	BIT_XOR     // ^
	BIT_AND     // &
	EQUALS      // == !=
	LESSGREATER // < > <= >=
	SHIFT       // << >>
	SUM         // + -
	PRODUCT     // * / %
	PREFIX      // -x !x ~x +x
	POSTFIX     // f(x) x.name
)

var precedences = map[token.TokenType]int{
	token.OR:       LOGIC_OR,
	token.AND:      LOGIC_AND,
	token.PIPE:     BIT_OR,
	token.CARET:    BIT_XOR,
	token.AMP:      BIT_AND,
	token.EQ:       EQUALS,
	token.NOT_EQ:   EQUALS,
	token.LT:       LESSGREATER,
	token.GT:       LESSGREATER,
	token.LTE:      LESSGREATER,
	token.GTE:      LESSGREATER,
	token.LSHIFT:   SHIFT,
	token.RSHIFT:   SHIFT,
	token.PLUS:     SUM,
	token.MINUS:    SUM,
	token.ASTERISK: PRODUCT,
	token.SLASH:    PRODUCT,
	token.PERCENT:  PRODUCT,
	token.LPAREN:   POSTFIX,
	token.DOT:      POSTFIX,
}

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

// Parser is a Pratt parser over a token slice. It stops at the first
// error: the language has no statement terminator to resynchronize on
// once a block is left unbalanced.
type Parser struct {
	tokens []token.Token
	pos    int

	curToken  token.Token
	peekToken token.Token

	errors []*diagnostics.DiagnosticError
	depth  int

	prefixParseFns map[token.TokenType]prefixParseFn
	infixParseFns  map[token.TokenType]infixParseFn
}

// New creates a parser over tokens, which must end with an EOF token.
func New(tokens []token.Token) *Parser {
	if len(tokens) == 0 || tokens[len(tokens)-1].Type != token.EOF {
		tokens = append(tokens, token.Token{Type: token.EOF, NewlineBefore: true})
	}
	p := &Parser{tokens: tokens, pos: -2}

	p.prefixParseFns = map[token.TokenType]prefixParseFn{
		token.IDENT:    p.parseIdentifier,
		token.NUMBER:   p.parseNumberLiteral,
		token.STRING:   p.parseStringLiteral,
		token.TRUE:     p.parseBoolean,
		token.FALSE:    p.parseBoolean,
		token.NULL:     p.parseNull,
		token.LBRACKET: p.parseArrayLiteral,
		token.LPAREN:   p.parseGroupedExpression,
		token.LBRACE:   p.parseFunctionLiteral,
		token.IF:       p.parseIfExpression,
		token.MINUS:    p.parsePrefixExpression,
		token.PLUS:     p.parsePrefixExpression,
		token.BANG:     p.parsePrefixExpression,
		token.TILDE:    p.parsePrefixExpression,
	}

	p.infixParseFns = make(map[token.TokenType]infixParseFn)
	for tt, prec := range precedences {
		if prec < PREFIX {
			p.infixParseFns[tt] = p.parseInfixExpression
		}
	}
	p.infixParseFns[token.LPAREN] = p.parseCallExpression
	p.infixParseFns[token.DOT] = p.parseMemberExpression

	// Read two tokens, so curToken and peekToken are both set
	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) Errors() []*diagnostics.DiagnosticError {
	return p.errors
}

func (p *Parser) failed() bool {
	return len(p.errors) > 0
}

func (p *Parser) nextToken() {
	p.pos++
	p.curToken = p.tokenAt(p.pos)
	p.peekToken = p.tokenAt(p.pos + 1)
}

func (p *Parser) tokenAt(i int) token.Token {
	if i < 0 {
		return token.Token{}
	}
	if i >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[i]
}

func (p *Parser) curTokenIs(t token.TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t token.TokenType) bool {
	return p.peekToken.Type == t
}

func (p *Parser) expectPeek(t token.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.unexpected(p.peekToken)
	return false
}

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.peekToken.Type]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if prec, ok := precedences[p.curToken.Type]; ok {
		return prec
	}
	return LOWEST
}

// unexpected reports tok as P002 at end of input, otherwise P001.
func (p *Parser) unexpected(tok token.Token) {
	if tok.Type == token.EOF {
		p.addError(diagnostics.ErrP002, tok, "Unexpected EOF")
		return
	}
	p.addError(diagnostics.ErrP001, tok, "Invalid token %q", tok.Lexeme)
}

func (p *Parser) addError(code diagnostics.ErrorCode, tok token.Token, format string, args ...interface{}) {
	if p.failed() {
		return
	}
	p.errors = append(p.errors, diagnostics.NewError(code, tok, format, args...))
}

// ParseProgram parses the whole token stream. On error the returned program
// holds the statements parsed so far and Errors is non-empty.
func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{}
	program.Statements = p.parseStatements()
	if !p.failed() && !p.curTokenIs(token.EOF) {
		// a stray '}' at top level
		p.unexpected(p.curToken)
	}
	return program
}
