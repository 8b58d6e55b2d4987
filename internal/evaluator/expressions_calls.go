package evaluator

import (
	"fortio.org/log"

	"github.com/funvibe/streem/internal/ast"
)

// evalCallExpression accepts any expression as the callee.
func (e *Evaluator) evalCallExpression(node *ast.CallExpression, env *Environment) Object {
	function := e.Eval(node.Function, env)
	if isError(function) {
		return function
	}

	args := e.evalExpressions(node.Arguments, env)
	if len(args) == 1 && isError(args[0]) {
		return args[0]
	}

	e.PushCall(calleeName(node.Function), node.Token.Line, node.Token.Column)
	defer e.PopCall()
	return e.applyFunction(function, args)
}

func calleeName(node ast.Expression) string {
	switch n := node.(type) {
	case *ast.Identifier:
		return n.Value
	case *ast.MemberExpression:
		return n.Member.Value
	}
	return "<anonymous>"
}

// applyFunction is a plain call: emits go to the closure's captured stage
// and a skip makes the call evaluate to null.
func (e *Evaluator) applyFunction(fn Object, args []Object) Object {
	switch fn := fn.(type) {
	case *Function:
		result, _ := e.invoke(fn, args, fn.Stage)
		return result
	case *Builtin:
		result := fn.Fn(e, args...)
		if result == nil {
			return NULL
		}
		return result
	}
	return newError(NotCallable, "Not callable: %s", typeName(fn))
}

// invoke runs fn in a fresh scope and frame. A skipped body yields null;
// the signal is returned so a stage can tell skip from a null value.
func (e *Evaluator) invoke(fn *Function, args []Object, target *TransformStage) (Object, Signal) {
	if len(args) != len(fn.Parameters) {
		return errWrongArguments(len(fn.Parameters), len(args)), SignalNormal
	}

	env := NewEnclosedEnvironment(fn.Env)
	for i, param := range fn.Parameters {
		env.Define(param.Value, args[i])
	}

	saved := e.frame
	e.frame = &Frame{emitTarget: target}
	result := e.Eval(fn.Body, env)
	signal := e.frame.signal
	e.frame = saved

	if err, ok := result.(*Error); ok {
		e.attachStack(err)
		return err, SignalNormal
	}
	if signal == SignalSkip {
		return NULL, SignalSkip
	}
	return result, signal
}

// invokeStage calls the stage's callable with one upstream value. Emits
// are queued on the stage as they happen, then a non-null result is
// queued after them.
func (e *Evaluator) invokeStage(s *TransformStage, value Object) error {
	var result Object
	switch fn := s.fn.(type) {
	case *Function:
		var signal Signal
		e.PushCall("<stage>", fn.Line, fn.Column)
		result, signal = e.invoke(fn, []Object{value}, s)
		e.PopCall()
		if signal == SignalSkip {
			s.skipped = true
			log.LogVf("stage %p skipped %s", s, value.Inspect())
			return nil
		}
	case *Builtin:
		saved := e.frame
		e.frame = &Frame{emitTarget: s}
		result = fn.Fn(e, value)
		e.frame = saved
	default:
		return newError(NotCallable, "Not callable: %s", typeName(s.fn))
	}

	if err, ok := result.(*Error); ok {
		return err
	}
	if result != nil && result != NULL {
		s.queue.Enqueue(result)
	}
	return nil
}
