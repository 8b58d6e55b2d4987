// Package diagnostics defines the error codes and the caret-style rendering
// used for lexer, parser and runtime failures.
package diagnostics

import (
	"fmt"
	"strings"

	"github.com/funvibe/streem/internal/token"
)

type ErrorCode string

const (
	ErrL001 ErrorCode = "L001" // invalid character
	ErrP001 ErrorCode = "P001" // invalid token
	ErrP002 ErrorCode = "P002" // unexpected end of input
	ErrP003 ErrorCode = "P003" // invalid assignment target
	ErrP004 ErrorCode = "P004" // duplicate parameter
	ErrR001 ErrorCode = "R001" // runtime error
)

// DiagnosticError is a located error produced by one of the pipeline stages.
type DiagnosticError struct {
	Code    ErrorCode
	Token   token.Token
	Message string
	File    string
	// Offset is the byte offset into the source, -1 when unknown.
	Offset int
	// Trace holds optional extra lines (runtime stack traces).
	Trace []string
}

func NewError(code ErrorCode, tok token.Token, format string, args ...interface{}) *DiagnosticError {
	return &DiagnosticError{
		Code:    code,
		Token:   tok,
		Message: fmt.Sprintf(format, args...),
		Offset:  tok.Offset,
	}
}

// NewErrorAt builds a diagnostic from a bare byte offset.
func NewErrorAt(code ErrorCode, offset int, message string) *DiagnosticError {
	return &DiagnosticError{Code: code, Message: message, Offset: offset}
}

func (e *DiagnosticError) Error() string {
	if e.Token.Line > 0 {
		return fmt.Sprintf("[%s] %d:%d: %s", e.Code, e.Token.Line, e.Token.Column, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Position converts a byte offset into a 1-based line and column.
func Position(source string, offset int) (line, column int) {
	if offset < 0 {
		return 0, 0
	}
	if offset > len(source) {
		offset = len(source)
	}
	line = 1 + strings.Count(source[:offset], "\n")
	start := strings.LastIndexByte(source[:offset], '\n') + 1
	column = offset - start + 1
	return line, column
}

// sourceLine returns the text of the given 1-based line without its terminator.
func sourceLine(source string, line int) string {
	lines := strings.Split(source, "\n")
	if line < 1 || line > len(lines) {
		return ""
	}
	return strings.TrimRight(lines[line-1], "\r")
}

const (
	ansiReset   = "\x1b[0m"
	ansiRedBold = "\x1b[31;1m"
	ansiRed     = "\x1b[31;22m"
	ansiBlue    = "\x1b[34;22m"
)

// Format renders a diagnostic as
//
//	path:line:col: error: message
//	<source line>
//	     ^
//
// followed by any trace lines. Color adds ANSI escapes.
func Format(e *DiagnosticError, source string, color bool) string {
	var b strings.Builder
	line, col := e.Token.Line, e.Token.Column
	if line == 0 {
		line, col = Position(source, e.Offset)
	}

	file := e.File
	if file == "" {
		file = "<stdin>"
	}
	label := "error"
	if color {
		label = ansiRedBold + "error" + ansiReset
	}

	if line > 0 {
		fmt.Fprintf(&b, "%s:%d:%d: %s: %s\n", file, line, col, label, e.Message)
		text := sourceLine(source, line)
		b.WriteString(text)
		b.WriteByte('\n')
		pad := caretPadding(text, col)
		if color {
			b.WriteString(pad + ansiRed + "^" + ansiReset + "\n")
		} else {
			b.WriteString(pad + "^\n")
		}
	} else {
		fmt.Fprintf(&b, "%s: %s: %s\n", file, label, e.Message)
	}

	for _, t := range e.Trace {
		if color {
			b.WriteString(ansiBlue + "  " + t + ansiReset + "\n")
		} else {
			b.WriteString("  " + t + "\n")
		}
	}
	return b.String()
}

// caretPadding keeps tabs so the caret lines up under tab-indented source.
func caretPadding(text string, col int) string {
	var pad strings.Builder
	for i := 0; i < col-1 && i < len(text); i++ {
		if text[i] == '\t' {
			pad.WriteByte('\t')
		} else {
			pad.WriteByte(' ')
		}
	}
	return pad.String()
}
