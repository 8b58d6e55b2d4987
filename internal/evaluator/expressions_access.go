package evaluator

import (
	"strings"
	"unicode/utf8"

	"github.com/funvibe/streem/internal/ast"
	"github.com/funvibe/streem/internal/config"
)

func (e *Evaluator) evalMemberExpression(node *ast.MemberExpression, env *Environment) Object {
	left := e.Eval(node.Left, env)
	if isError(left) {
		return left
	}
	return e.getProperty(left, node.Member.Value)
}

func (e *Evaluator) getProperty(obj Object, name string) Object {
	switch obj := obj.(type) {
	case *Null:
		return newError(PropertyOfNull, "Cannot read property '%s' of null", name)
	case *Record:
		if val, ok := obj.Fields[name]; ok {
			return val
		}
	case *String:
		switch name {
		case config.LengthProp:
			return &Number{Value: float64(utf8.RuneCountInString(obj.Value))}
		case config.SplitMethod:
			return boundMethod(name, func(e *Evaluator, args ...Object) Object {
				sep, err := stringArg(name, args)
				if err != nil {
					return err
				}
				parts := strings.Split(obj.Value, sep)
				elements := make([]Object, len(parts))
				for i, p := range parts {
					elements[i] = &String{Value: p}
				}
				return &Array{Elements: elements}
			})
		case config.TrimMethod:
			return boundMethod(name, func(e *Evaluator, args ...Object) Object {
				if len(args) != 0 {
					return errWrongArguments(0, len(args))
				}
				return &String{Value: strings.TrimSpace(obj.Value)}
			})
		}
	case *Array:
		switch name {
		case config.LengthProp:
			return &Number{Value: float64(len(obj.Elements))}
		case config.JoinMethod:
			return boundMethod(name, func(e *Evaluator, args ...Object) Object {
				sep, err := stringArg(name, args)
				if err != nil {
					return err
				}
				path := map[Object]bool{obj: true}
				parts := make([]string, len(obj.Elements))
				for i, el := range obj.Elements {
					parts[i] = textValue(el, path)
				}
				return &String{Value: strings.Join(parts, sep)}
			})
		}
	case *Bytes:
		if name == config.LengthProp {
			return &Number{Value: float64(len(obj.Value))}
		}
	case *File:
		switch name {
		case config.PathProp:
			return &String{Value: obj.Path}
		case config.TTYProp:
			return nativeBoolToBooleanObject(obj.IsTerminal())
		}
	}
	return newError(UndefinedProperty, "Undefined property '%s' of %s", name, typeName(obj))
}

func boundMethod(name string, fn BuiltinFunction) *Builtin {
	return &Builtin{Name: name, Fn: fn}
}

func stringArg(name string, args []Object) (string, *Error) {
	if len(args) != 1 {
		return "", errWrongArguments(1, len(args))
	}
	s, ok := args[0].(*String)
	if !ok {
		return "", newError(RuntimeError, "%s: expected STRING, got %s", name, typeName(args[0]))
	}
	return s.Value, nil
}

// evalAssignExpression returns the value stored, which for compound
// operators is the combined result.
func (e *Evaluator) evalAssignExpression(node *ast.AssignExpression, env *Environment) Object {
	switch target := node.Left.(type) {
	case *ast.Identifier:
		right := e.Eval(node.Right, env)
		if isError(right) {
			return right
		}
		if node.Operator == "=" {
			return env.Set(target.Value, right)
		}
		current, ok := env.Get(target.Value)
		if !ok {
			return newError(UndefinedVariable, "Undefined variable '%s'", target.Value)
		}
		result := e.evalInfixExpression(compoundOperator(node.Operator), current, right)
		if isError(result) {
			return result
		}
		return env.Set(target.Value, result)

	case *ast.MemberExpression:
		obj := e.Eval(target.Left, env)
		if isError(obj) {
			return obj
		}
		right := e.Eval(node.Right, env)
		if isError(right) {
			return right
		}
		return e.setProperty(obj, target.Member.Value, node.Operator, right)
	}
	return newError(RuntimeError, "Invalid assignment target")
}

func (e *Evaluator) setProperty(obj Object, name, operator string, value Object) Object {
	rec, ok := obj.(*Record)
	if !ok {
		if obj == NULL {
			return newError(PropertyOfNull, "Cannot set property '%s' of null", name)
		}
		return newError(RuntimeError, "Cannot assign property '%s' of %s", name, typeName(obj))
	}

	if operator != "=" {
		current, ok := rec.Fields[name]
		if !ok {
			return newError(UndefinedProperty, "Undefined property '%s' of %s", name, typeName(obj))
		}
		value = e.evalInfixExpression(compoundOperator(operator), current, value)
		if isError(value) {
			return value
		}
	}
	rec.Fields[name] = value
	return value
}

// compoundOperator maps "+=" to "+".
func compoundOperator(op string) string {
	return strings.TrimSuffix(op, "=")
}
