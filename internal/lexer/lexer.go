package lexer

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/funvibe/streem/internal/token"
)

type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           rune // current char under examination
	line         int  // current line number
	column       int  // current column number

	sawNewline bool
	errors     []LexError
}

// LexError is an invalid character or malformed literal at Offset.
type LexError struct {
	Offset  int
	Line    int
	Column  int
	Message string
}

func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1, column: 0, sawNewline: true}
	l.readChar()
	return l
}

func (l *Lexer) Errors() []LexError {
	return l.errors
}

func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}

	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = len(l.input)
		l.readPosition = len(l.input) + 1
		l.column++
		return
	}
	r, w := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.ch = r
	l.position = l.readPosition
	l.readPosition += w
	l.column++
}

func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

func (l *Lexer) atEOF() bool {
	return l.position >= len(l.input)
}

// Tokenize lexes the whole input. The last token is always EOF.
func (l *Lexer) Tokenize() []token.Token {
	var tokens []token.Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			return tokens
		}
	}
}

func (l *Lexer) NextToken() token.Token {
	for {
		l.skipWhitespace()
		if l.atEOF() {
			return l.finish(token.Token{Type: token.EOF, Lexeme: "", Offset: len(l.input), Line: l.line, Column: l.column})
		}
		if l.ch == '\n' {
			l.sawNewline = true
			l.readChar()
			continue
		}
		break
	}

	start, line, col := l.position, l.line, l.column
	mk := func(t token.TokenType, width int) token.Token {
		for i := 0; i < width; i++ {
			l.readChar()
		}
		lexeme := l.input[start:l.position]
		return l.finish(token.Token{Type: t, Lexeme: lexeme, Literal: lexeme, Offset: start, Line: line, Column: col})
	}
	next := l.peekChar()

	switch l.ch {
	case '(':
		return mk(token.LPAREN, 1)
	case ')':
		return mk(token.RPAREN, 1)
	case '{':
		return mk(token.LBRACE, 1)
	case '}':
		return mk(token.RBRACE, 1)
	case '[':
		return mk(token.LBRACKET, 1)
	case ']':
		return mk(token.RBRACKET, 1)
	case ',':
		return mk(token.COMMA, 1)
	case '.':
		return mk(token.DOT, 1)
	case ';':
		return mk(token.SEMICOLON, 1)
	case '~':
		return mk(token.TILDE, 1)
	case '&':
		switch next {
		case '&':
			return mk(token.AND, 2)
		case '=':
			return mk(token.AMP_ASSIGN, 2)
		}
		return mk(token.AMP, 1)
	case '|':
		switch next {
		case '|':
			return mk(token.OR, 2)
		case '=':
			return mk(token.PIPE_ASSIGN, 2)
		}
		return mk(token.PIPE, 1)
	case '^':
		if next == '=' {
			return mk(token.CARET_ASSIGN, 2)
		}
		return mk(token.CARET, 1)
	case '+':
		if next == '=' {
			return mk(token.PLUS_ASSIGN, 2)
		}
		return mk(token.PLUS, 1)
	case '-':
		switch next {
		case '=':
			return mk(token.MINUS_ASSIGN, 2)
		case '>':
			return mk(token.ARROW, 2)
		}
		return mk(token.MINUS, 1)
	case '*':
		if next == '=' {
			return mk(token.ASTERISK_ASSIGN, 2)
		}
		return mk(token.ASTERISK, 1)
	case '/':
		if next == '=' {
			return mk(token.SLASH_ASSIGN, 2)
		}
		return mk(token.SLASH, 1)
	case '%':
		if next == '=' {
			return mk(token.PERCENT_ASSIGN, 2)
		}
		return mk(token.PERCENT, 1)
	case '=':
		if next == '=' {
			return mk(token.EQ, 2)
		}
		return mk(token.ASSIGN, 1)
	case '!':
		if next == '=' {
			return mk(token.NOT_EQ, 2)
		}
		return mk(token.BANG, 1)
	case '<':
		switch next {
		case '<':
			if l.peekAt(2) == '=' {
				return mk(token.LSHIFT_ASSIGN, 3)
			}
			return mk(token.LSHIFT, 2)
		case '=':
			return mk(token.LTE, 2)
		case '-':
			return mk(token.LARROW, 2)
		}
		return mk(token.LT, 1)
	case '>':
		switch next {
		case '>':
			if l.peekAt(2) == '=' {
				return mk(token.RSHIFT_ASSIGN, 3)
			}
			return mk(token.RSHIFT, 2)
		case '=':
			return mk(token.GTE, 2)
		}
		return mk(token.GT, 1)
	case '"', '\'':
		return l.finish(l.readString(start, line, col))
	}

	if isDigit(l.ch) {
		return l.finish(l.readNumber(start, line, col))
	}
	if isLetter(l.ch) {
		ident := l.readIdentifier()
		return l.finish(token.Token{Type: token.LookupIdent(ident), Lexeme: ident, Literal: ident, Offset: start, Line: line, Column: col})
	}

	l.errorf(start, line, col, "Invalid character %q", l.ch)
	return mk(token.ILLEGAL, 1)
}

// finish stamps the newline flag and computes it for the next token.
// A statement may also begin right after '{', '->' or ';'.
func (l *Lexer) finish(tok token.Token) token.Token {
	tok.NewlineBefore = l.sawNewline || tok.Type == token.EOF
	switch tok.Type {
	case token.LBRACE, token.ARROW, token.SEMICOLON:
		l.sawNewline = true
	default:
		l.sawNewline = false
	}
	return tok
}

// peekAt returns the byte n positions after the current char (ASCII only).
func (l *Lexer) peekAt(n int) byte {
	i := l.position + n
	if i >= len(l.input) {
		return 0
	}
	return l.input[i]
}

func (l *Lexer) errorf(offset, line, col int, format string, args ...interface{}) {
	l.errors = append(l.errors, LexError{Offset: offset, Line: line, Column: col, Message: fmt.Sprintf(format, args...)})
}

func (l *Lexer) readIdentifier() string {
	position := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	// Predicate names may end in '?', e.g. empty?
	if l.ch == '?' {
		l.readChar()
	}
	return l.input[position:l.position]
}

func (l *Lexer) readNumber(start, line, col int) token.Token {
	tok := token.Token{Type: token.NUMBER, Offset: start, Line: line, Column: col}

	// Hexadecimal
	if l.ch == '0' && (l.peekChar() == 'x' || l.peekChar() == 'X') {
		l.readChar()
		l.readChar()
		digits := l.position
		for isHexDigit(l.ch) {
			l.readChar()
		}
		tok.Lexeme = l.input[start:l.position]
		val, err := strconv.ParseUint(l.input[digits:l.position], 16, 64)
		if err != nil || isLetter(l.ch) {
			l.errorf(start, line, col, "Invalid number %q", tok.Lexeme)
			tok.Type = token.ILLEGAL
			return tok
		}
		tok.Literal = float64(val)
		return tok
	}

	// Octal: a leading zero followed only by octal digits
	if l.ch == '0' && isDigit(l.peekChar()) {
		for isDigit(l.ch) {
			l.readChar()
		}
		tok.Lexeme = l.input[start:l.position]
		val, err := strconv.ParseUint(tok.Lexeme, 8, 64)
		if err != nil || isLetter(l.ch) {
			l.errorf(start, line, col, "Invalid number %q", tok.Lexeme)
			tok.Type = token.ILLEGAL
			return tok
		}
		tok.Literal = float64(val)
		return tok
	}

	for isDigit(l.ch) {
		l.readChar()
	}
	// A fraction needs a digit after the dot; "1.length" is a property access.
	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	if l.ch == 'e' || l.ch == 'E' {
		save := *l
		l.readChar()
		if l.ch == '+' || l.ch == '-' {
			l.readChar()
		}
		if !isDigit(l.ch) {
			*l = save
		} else {
			for isDigit(l.ch) {
				l.readChar()
			}
		}
	}
	tok.Lexeme = l.input[start:l.position]
	val, err := strconv.ParseFloat(tok.Lexeme, 64)
	if err != nil || isLetter(l.ch) {
		l.errorf(start, line, col, "Invalid number %q", tok.Lexeme)
		tok.Type = token.ILLEGAL
		return tok
	}
	tok.Literal = val
	return tok
}

// readString reads a single- or double-quoted string and decodes escapes.
// Strings may not span lines.
func (l *Lexer) readString(start, line, col int) token.Token {
	quote := l.ch
	var out strings.Builder
	tok := token.Token{Type: token.STRING, Offset: start, Line: line, Column: col}

	for {
		l.readChar()
		if l.atEOF() || l.ch == '\n' {
			tok.Lexeme = l.input[start:l.position]
			l.errorf(start, line, col, "Unterminated string")
			tok.Type = token.ILLEGAL
			return tok
		}
		if l.ch == quote {
			l.readChar()
			break
		}
		if l.ch != '\\' {
			out.WriteRune(l.ch)
			continue
		}

		l.readChar()
		switch l.ch {
		case 'n':
			out.WriteByte('\n')
		case 't':
			out.WriteByte('\t')
		case 'r':
			out.WriteByte('\r')
		case 'b':
			out.WriteByte('\b')
		case 'f':
			out.WriteByte('\f')
		case 'v':
			out.WriteByte('\v')
		case '0':
			out.WriteByte(0)
		case 'x':
			v, ok := l.readHexEscape(2)
			if !ok {
				l.errorf(l.position, l.line, l.column, "Invalid escape sequence")
				continue
			}
			out.WriteRune(rune(v))
		case 'u':
			v, ok := l.readHexEscape(4)
			if !ok {
				l.errorf(l.position, l.line, l.column, "Invalid escape sequence")
				continue
			}
			out.WriteRune(rune(v))
		case 0, '\n':
			l.errorf(start, line, col, "Unterminated string")
			tok.Lexeme = l.input[start:l.position]
			tok.Type = token.ILLEGAL
			return tok
		default:
			// \\ \" \' \/ and any other escaped char stand for themselves
			out.WriteRune(l.ch)
		}
	}

	tok.Lexeme = l.input[start:l.position]
	tok.Literal = out.String()
	return tok
}

func (l *Lexer) readHexEscape(n int) (int64, bool) {
	var val int64
	for i := 0; i < n; i++ {
		l.readChar()
		var d int64
		if l.ch >= '0' && l.ch <= '9' {
			d = int64(l.ch - '0')
		} else if l.ch >= 'a' && l.ch <= 'f' {
			d = int64(l.ch - 'a' + 10)
		} else if l.ch >= 'A' && l.ch <= 'F' {
			d = int64(l.ch - 'A' + 10)
		} else {
			return 0, false
		}
		val = val*16 + d
	}
	return val, true
}

func (l *Lexer) skipWhitespace() {
	for {
		for l.ch == ' ' || l.ch == '\t' || l.ch == '\v' || l.ch == '\r' {
			l.readChar()
		}
		if l.ch == '#' {
			for l.ch != '\n' && !l.atEOF() {
				l.readChar()
			}
			continue
		}
		break
	}
}

func isHexDigit(ch rune) bool {
	return isDigit(ch) || ('a' <= ch && ch <= 'f') || ('A' <= ch && ch <= 'F')
}

func isLetter(ch rune) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}
