package evaluator

import (
	"errors"
	"fmt"
	"strings"
)

// CallFrame represents a single frame in the call stack
type CallFrame struct {
	Name   string
	Line   int
	Column int
}

func newError(kind ErrorKind, format string, a ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, a...), Offset: -1}
}

func isError(obj Object) bool {
	if obj != nil {
		return obj.Type() == ERROR_OBJ
	}
	return false
}

// asError converts a Go error from a stage or the event loop into an *Error.
func asError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return newError(RuntimeError, "%v", err)
}

// PushCall adds a call frame to the stack
func (e *Evaluator) PushCall(name string, line, column int) {
	e.CallStack = append(e.CallStack, CallFrame{Name: name, Line: line, Column: column})
}

// PopCall removes the top call frame
func (e *Evaluator) PopCall() {
	if len(e.CallStack) > 0 {
		e.CallStack = e.CallStack[:len(e.CallStack)-1]
	}
}

// attachStack copies the current call stack into err unless it has one.
func (e *Evaluator) attachStack(err *Error) {
	if len(err.StackTrace) > 0 || len(e.CallStack) == 0 {
		return
	}
	err.StackTrace = make([]StackFrame, len(e.CallStack))
	for i, frame := range e.CallStack {
		err.StackTrace[i] = StackFrame{Name: frame.Name, Line: frame.Line, Column: frame.Column}
	}
}

func typeName(obj Object) string {
	if obj == nil {
		return "NULL"
	}
	return string(obj.Type())
}

func errInvalidOperand(op string, left, right Object) *Error {
	return newError(InvalidOperand, "Invalid operand for '%s': %s and %s", op, typeName(left), typeName(right))
}

func errInvalidUnaryOperand(op string, operand Object) *Error {
	return newError(InvalidUnaryOperand, "Invalid unary operand for '%s': %s", op, typeName(operand))
}

func errWrongArguments(expected, got int) *Error {
	return newError(WrongNumberOfArguments, "Wrong number of arguments: expected %d, got %d", expected, got)
}

// toText renders a value the way it is written to a file: strings raw,
// arrays as comma-joined elements with null shown as nothing. An array
// nested in itself renders as nothing at the point of the cycle.
func toText(obj Object) string {
	return textValue(obj, nil)
}

func textValue(obj Object, path map[Object]bool) string {
	switch obj := obj.(type) {
	case *String:
		return obj.Value
	case *Number:
		return formatNumber(obj.Value)
	case *Bytes:
		return string(obj.Value)
	case *Null:
		return ""
	case *Array:
		if path[obj] {
			return ""
		}
		path = enter(path, obj)
		defer delete(path, obj)

		parts := make([]string, len(obj.Elements))
		for i, el := range obj.Elements {
			parts[i] = textValue(el, path)
		}
		return strings.Join(parts, ",")
	default:
		return inspectValue(obj, path)
	}
}
