package token

type TokenType string

const (
	ILLEGAL TokenType = "ILLEGAL"
	EOF     TokenType = "EOF"

	IDENT  TokenType = "IDENT"
	NUMBER TokenType = "NUMBER"
	STRING TokenType = "STRING"

	// Operators
	ASSIGN          TokenType = "="
	PLUS_ASSIGN     TokenType = "+="
	MINUS_ASSIGN    TokenType = "-="
	ASTERISK_ASSIGN TokenType = "*="
	SLASH_ASSIGN    TokenType = "/="
	PERCENT_ASSIGN  TokenType = "%="
	AMP_ASSIGN      TokenType = "&="
	PIPE_ASSIGN     TokenType = "|="
	CARET_ASSIGN    TokenType = "^="
	LSHIFT_ASSIGN   TokenType = "<<="
	RSHIFT_ASSIGN   TokenType = ">>="

	PLUS     TokenType = "+"
	MINUS    TokenType = "-"
	ASTERISK TokenType = "*"
	SLASH    TokenType = "/"
	PERCENT  TokenType = "%"
	BANG     TokenType = "!"
	TILDE    TokenType = "~"
	AMP      TokenType = "&"
	PIPE     TokenType = "|"
	CARET    TokenType = "^"
	LSHIFT   TokenType = "<<"
	RSHIFT   TokenType = ">>"
	AND      TokenType = "&&"
	OR       TokenType = "||"

	LT     TokenType = "<"
	GT     TokenType = ">"
	LTE    TokenType = "<="
	GTE    TokenType = ">="
	EQ     TokenType = "=="
	NOT_EQ TokenType = "!="

	ARROW     TokenType = "->"
	LARROW    TokenType = "<-"
	DOT       TokenType = "."
	COMMA     TokenType = ","
	SEMICOLON TokenType = ";"
	LPAREN    TokenType = "("
	RPAREN    TokenType = ")"
	LBRACE    TokenType = "{"
	RBRACE    TokenType = "}"
	LBRACKET  TokenType = "["
	RBRACKET  TokenType = "]"

	// Keywords
	IF     TokenType = "IF"
	ELSE   TokenType = "ELSE"
	DO     TokenType = "DO"
	BREAK  TokenType = "BREAK"
	EMIT   TokenType = "EMIT"
	RETURN TokenType = "RETURN"
	SKIP   TokenType = "SKIP"
	TRUE   TokenType = "TRUE"
	FALSE  TokenType = "FALSE"
	NULL   TokenType = "NULL"
)

var keywords = map[string]TokenType{
	"if":     IF,
	"else":   ELSE,
	"do":     DO,
	"break":  BREAK,
	"emit":   EMIT,
	"return": RETURN,
	"skip":   SKIP,
	"true":   TRUE,
	"false":  FALSE,
	"null":   NULL,
}

// Token is a lexical unit. Offset is the byte offset of the first character
// in the source; Line and Column are 1-based.
type Token struct {
	Type    TokenType
	Lexeme  string
	Literal interface{} // float64 for NUMBER, decoded string for STRING
	Offset  int
	Line    int
	Column  int
	// NewlineBefore reports whether a line terminator, the start of input,
	// or one of '{' '->' ';' precedes the token. Statements may only begin
	// at such tokens.
	NewlineBefore bool
}

// LookupIdent distinguishes keywords from identifiers.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// IsAssignOperator reports whether t is '=' or a compound assignment.
func IsAssignOperator(t TokenType) bool {
	switch t {
	case ASSIGN, PLUS_ASSIGN, MINUS_ASSIGN, ASTERISK_ASSIGN, SLASH_ASSIGN,
		PERCENT_ASSIGN, AMP_ASSIGN, PIPE_ASSIGN, CARET_ASSIGN, LSHIFT_ASSIGN, RSHIFT_ASSIGN:
		return true
	}
	return false
}
