package evaluator

import (
	"fmt"
)

// ErrorKind classifies runtime failures.
type ErrorKind string

const (
	UndefinedVariable      ErrorKind = "UndefinedVariable"
	InvalidOperand         ErrorKind = "InvalidOperand"
	InvalidUnaryOperand    ErrorKind = "InvalidUnaryOperand"
	PropertyOfNull         ErrorKind = "PropertyOfNull"
	UndefinedProperty      ErrorKind = "UndefinedProperty"
	NotCallable            ErrorKind = "NotCallable"
	WrongNumberOfArguments ErrorKind = "WrongNumberOfArguments"
	RuntimeError           ErrorKind = "RuntimeError"
	IOError                ErrorKind = "IOError"
)

// Error is both a program value (inside the tree walk) and a Go error
// (across stage and event loop boundaries).
type Error struct {
	Kind    ErrorKind
	Message string
	// Offset is the byte offset of the failing node, -1 when unknown.
	Offset     int
	Line       int
	Column     int
	StackTrace []StackFrame
}

// StackFrame for error stack traces
type StackFrame struct {
	Name   string
	Line   int
	Column int
}

func (e *Error) Type() ObjectType { return ERROR_OBJ }
func (e *Error) Inspect() string {
	var result string
	if e.Line > 0 {
		result = fmt.Sprintf("ERROR at %d:%d: %s", e.Line, e.Column, e.Message)
	} else {
		result = "ERROR: " + e.Message
	}
	for i := len(e.StackTrace) - 1; i >= 0; i-- {
		result += "\n  " + e.StackTrace[i].String()
	}
	return result
}

func (e *Error) Error() string { return e.Message }

// Trace renders the stack innermost first.
func (e *Error) Trace() []string {
	lines := make([]string, 0, len(e.StackTrace))
	for i := len(e.StackTrace) - 1; i >= 0; i-- {
		lines = append(lines, e.StackTrace[i].String())
	}
	return lines
}

func (f StackFrame) String() string {
	return fmt.Sprintf("at %s (%d:%d)", f.Name, f.Line, f.Column)
}

type endMarker struct{}

func (m *endMarker) Type() ObjectType { return END_OBJ }
func (m *endMarker) Inspect() string  { return "END" }

// End terminates a stream. Sources write it once they are exhausted.
var End Object = &endMarker{}
