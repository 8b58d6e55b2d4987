package evaluator

import (
	"fortio.org/log"

	"github.com/funvibe/streem/internal/ast"
)

// evalStatements runs a statement list in env. A pending skip ends the
// list with null; a pending return ends it with the returned value. The
// signal stays set for the invocation boundary to interpret.
func (e *Evaluator) evalStatements(stmts []ast.Statement, env *Environment) Object {
	var result Object = NULL
	for _, stmt := range stmts {
		result = e.Eval(stmt, env)
		if isError(result) {
			return result
		}
		switch e.frame.signal {
		case SignalSkip:
			return NULL
		case SignalReturn:
			return result
		}
	}
	return result
}

func (e *Evaluator) evalReturnStatement(node *ast.ReturnStatement, env *Environment) Object {
	var val Object = NULL
	if node.Value != nil {
		val = e.Eval(node.Value, env)
		if isError(val) {
			return val
		}
	}
	e.frame.signal = SignalReturn
	return val
}

func (e *Evaluator) evalEmitStatement(node *ast.EmitStatement, env *Environment) Object {
	for _, exp := range node.Values {
		val := e.Eval(exp, env)
		if isError(val) {
			return val
		}
		if e.frame.emitTarget == nil {
			log.LogVf("emit of %s discarded: no stage", val.Inspect())
			continue
		}
		e.frame.emitTarget.Emit(val)
	}
	return NULL
}

// evalIfExpression: the branches share the enclosing scope.
func (e *Evaluator) evalIfExpression(ie *ast.IfExpression, env *Environment) Object {
	condition := e.Eval(ie.Condition, env)
	if isError(condition) {
		return condition
	}

	if isTruthy(condition) {
		return e.Eval(ie.Consequence, env)
	} else if ie.Alternative != nil {
		return e.Eval(ie.Alternative, env)
	}
	return NULL
}
