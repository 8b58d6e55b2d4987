package evaluator

import (
	"math"
	"strings"

	"github.com/funvibe/streem/internal/ast"
)

func (e *Evaluator) evalPrefixExpression(operator string, right Object) Object {
	if operator == "!" {
		return nativeBoolToBooleanObject(!isTruthy(right))
	}

	num, ok := right.(*Number)
	if !ok {
		return errInvalidUnaryOperand(operator, right)
	}
	switch operator {
	case "+":
		return num
	case "-":
		return &Number{Value: -num.Value}
	case "~":
		return &Number{Value: float64(^toInt(num.Value))}
	}
	return errInvalidUnaryOperand(operator, right)
}

// evalInfix short-circuits && and || and returns the deciding operand.
func (e *Evaluator) evalInfix(node *ast.InfixExpression, env *Environment) Object {
	left := e.Eval(node.Left, env)
	if isError(left) {
		return left
	}

	switch node.Operator {
	case "&&":
		if !isTruthy(left) {
			return left
		}
		return e.Eval(node.Right, env)
	case "||":
		if isTruthy(left) {
			return left
		}
		return e.Eval(node.Right, env)
	}

	right := e.Eval(node.Right, env)
	if isError(right) {
		return right
	}
	return e.evalInfixExpression(node.Operator, left, right)
}

func (e *Evaluator) evalInfixExpression(operator string, left, right Object) Object {
	switch operator {
	case "==":
		return nativeBoolToBooleanObject(objectsEqual(left, right))
	case "!=":
		return nativeBoolToBooleanObject(!objectsEqual(left, right))
	case "|":
		return e.evalPipeOperator(left, right)
	case "<<":
		if arr, ok := left.(*Array); ok {
			arr.Elements = append(arr.Elements, right)
			return arr
		}
	case "*":
		switch l := left.(type) {
		case *String:
			if n, ok := right.(*Number); ok {
				count, err := repeatCount(len(l.Value), n.Value)
				if err != nil {
					return err
				}
				return &String{Value: strings.Repeat(l.Value, count)}
			}
		case *Array:
			if n, ok := right.(*Number); ok {
				count, err := repeatCount(len(l.Elements), n.Value)
				if err != nil {
					return err
				}
				return &Array{Elements: repeatArray(l.Elements, count)}
			}
		}
	case "+":
		switch l := left.(type) {
		case *String:
			if r, ok := right.(*String); ok {
				return &String{Value: l.Value + r.Value}
			}
		case *Array:
			if r, ok := right.(*Array); ok {
				elements := make([]Object, 0, len(l.Elements)+len(r.Elements))
				elements = append(elements, l.Elements...)
				elements = append(elements, r.Elements...)
				return &Array{Elements: elements}
			}
		}
	case "<", ">", "<=", ">=":
		if l, ok := left.(*String); ok {
			if r, ok := right.(*String); ok {
				return nativeBoolToBooleanObject(compareStrings(operator, l.Value, r.Value))
			}
		}
	}

	l, lok := left.(*Number)
	r, rok := right.(*Number)
	if !lok || !rok {
		return errInvalidOperand(operator, left, right)
	}
	return evalNumberInfixExpression(operator, l.Value, r.Value, left, right)
}

func evalNumberInfixExpression(operator string, l, r float64, left, right Object) Object {
	switch operator {
	case "+":
		return &Number{Value: l + r}
	case "-":
		return &Number{Value: l - r}
	case "*":
		return &Number{Value: l * r}
	case "/":
		return &Number{Value: l / r}
	case "%":
		return &Number{Value: math.Mod(l, r)}
	case "<":
		return nativeBoolToBooleanObject(l < r)
	case ">":
		return nativeBoolToBooleanObject(l > r)
	case "<=":
		return nativeBoolToBooleanObject(l <= r)
	case ">=":
		return nativeBoolToBooleanObject(l >= r)
	case "&":
		return &Number{Value: float64(toInt(l) & toInt(r))}
	case "|":
		return &Number{Value: float64(toInt(l) | toInt(r))}
	case "^":
		return &Number{Value: float64(toInt(l) ^ toInt(r))}
	case "<<":
		return &Number{Value: float64(toInt(l) << shiftCount(r))}
	case ">>":
		return &Number{Value: float64(toInt(l) >> shiftCount(r))}
	}
	return errInvalidOperand(operator, left, right)
}

// toInt truncates toward zero; NaN and infinities become 0.
func toInt(f float64) int64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int64(f)
}

func shiftCount(f float64) uint64 {
	return uint64(toInt(f)) & 63
}

func compareStrings(operator, l, r string) bool {
	switch operator {
	case "<":
		return l < r
	case ">":
		return l > r
	case "<=":
		return l <= r
	default:
		return l >= r
	}
}

// objectsEqual never fails: scalars compare by value, everything else by
// identity.
func objectsEqual(left, right Object) bool {
	switch l := left.(type) {
	case *Number:
		r, ok := right.(*Number)
		return ok && l.Value == r.Value
	case *String:
		r, ok := right.(*String)
		return ok && l.Value == r.Value
	}
	return left == right
}

// maxRepeatLength bounds the result of string and array repetition.
const maxRepeatLength = 1 << 28

// repeatCount truncates toward zero; anything below one repeats nothing.
// A result longer than maxRepeatLength is an error.
func repeatCount(length int, f float64) (int, *Error) {
	if math.IsNaN(f) || f < 1 || length == 0 {
		return 0, nil
	}
	if f > float64(maxRepeatLength/length) {
		return 0, newError(RuntimeError, "Repeat count too large: %s", formatNumber(f))
	}
	return int(f), nil
}

func repeatArray(elements []Object, n int) []Object {
	result := make([]Object, 0, len(elements)*n)
	for i := 0; i < n; i++ {
		result = append(result, elements...)
	}
	return result
}
