package evaluator

import (
	"context"
	"io"
	"os"

	"fortio.org/log"
	"github.com/google/uuid"

	"github.com/funvibe/streem/internal/ast"
	"github.com/funvibe/streem/internal/config"
	"github.com/funvibe/streem/internal/eventloop"
)

// Signal is the pending control transfer of the running statement list.
type Signal int

const (
	SignalNormal Signal = iota
	SignalReturn
	SignalSkip
)

// Frame is pushed for every closure invocation, so signals never leak
// from a callee into its caller.
type Frame struct {
	signal Signal
	// emitTarget receives the values of emit statements; nil discards them.
	emitTarget *TransformStage
}

type Evaluator struct {
	// Context for cancellation
	Context context.Context

	Config *config.Config
	Loop   *eventloop.Loop

	In     io.Reader
	Out    io.Writer
	ErrOut io.Writer

	// RunID tags log lines of one evaluator.
	RunID string

	// CallStack for stack traces on errors
	CallStack []CallFrame

	frame  *Frame
	claims map[*File]int

	stdin, stdout, stderr *File

	// evalDepth tracks the current nesting depth of Eval calls to prevent stack overflow
	evalDepth int
}

type Option func(*Evaluator)

func WithConfig(cfg *config.Config) Option {
	return func(e *Evaluator) { e.Config = cfg }
}

// WithStdio replaces the process standard streams.
func WithStdio(in io.Reader, out, errOut io.Writer) Option {
	return func(e *Evaluator) {
		e.In, e.Out, e.ErrOut = in, out, errOut
	}
}

func New(opts ...Option) *Evaluator {
	e := &Evaluator{
		Context: context.Background(),
		Config:  config.Default(),
		Loop:    eventloop.New(),
		In:      os.Stdin,
		Out:     os.Stdout,
		ErrOut:  os.Stderr,
		RunID:   uuid.New().String(),
		frame:   &Frame{},
		claims:  make(map[*File]int),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.Config.MaxDepth <= 0 {
		e.Config.MaxDepth = config.DefaultMaxDepth
	}
	if e.Config.ChunkSize <= 0 {
		e.Config.ChunkSize = config.DefaultChunkSize
	}

	sync := e.Config.Sync()
	e.stdin = newStdFile(config.StdinName, e.In, nil, sync)
	e.stdout = newStdFile(config.StdoutName, nil, e.Out, sync)
	e.stderr = newStdFile(config.StderrName, nil, e.ErrOut, sync)
	return e
}

// Run evaluates program in env and then drains the event loop. On failure
// every file claim still held is released before the error is returned.
func (e *Evaluator) Run(ctx context.Context, program *ast.Program, env *Environment) (Object, error) {
	e.Context = ctx
	e.frame = &Frame{}
	e.CallStack = nil
	log.LogVf("run %s: %d statements", e.RunID, len(program.Statements))

	result := e.Eval(program, env)
	if err, ok := result.(*Error); ok {
		return nil, e.abort(err)
	}

	if err := e.Loop.Run(ctx); err != nil {
		return nil, e.abort(asError(err))
	}
	log.LogVf("run %s: done", e.RunID)
	return result, nil
}

func (e *Evaluator) abort(err *Error) *Error {
	log.LogVf("run %s aborted: %s", e.RunID, err.Message)
	e.releaseAll()
	// Continuations of the failed run must not leak into the next one.
	e.Loop = eventloop.New()
	return err
}

func (e *Evaluator) Eval(node ast.Node, env *Environment) Object {
	// Check recursion depth to prevent Go stack overflow
	e.evalDepth++
	defer func() { e.evalDepth-- }()
	if e.evalDepth > e.Config.MaxDepth {
		return newError(RuntimeError, "maximum recursion depth exceeded")
	}

	// Check for cancellation
	if e.Context != nil {
		select {
		case <-e.Context.Done():
			return newError(RuntimeError, "execution cancelled: %v", e.Context.Err())
		default:
		}
	}

	obj := e.evalCore(node, env)
	if err, ok := obj.(*Error); ok && err.Offset < 0 && node != nil {
		if provider, ok := node.(ast.TokenProvider); ok {
			tok := provider.GetToken()
			err.Offset = tok.Offset
			err.Line = tok.Line
			err.Column = tok.Column
		}
	}
	return obj
}

func (e *Evaluator) evalCore(node ast.Node, env *Environment) Object {
	switch node := node.(type) {
	// Statements
	case *ast.Program:
		return e.evalStatements(node.Statements, env)
	case *ast.ExpressionStatement:
		return e.Eval(node.Expression, env)
	case *ast.BlockStatement:
		return e.evalStatements(node.Statements, env)
	case *ast.EmitStatement:
		return e.evalEmitStatement(node, env)
	case *ast.ReturnStatement:
		return e.evalReturnStatement(node, env)
	case *ast.SkipStatement:
		e.frame.signal = SignalSkip
		return NULL

	// Expressions
	case *ast.Identifier:
		return e.evalIdentifier(node, env)
	case *ast.NumberLiteral:
		return &Number{Value: node.Value}
	case *ast.StringLiteral:
		return &String{Value: node.Value}
	case *ast.BooleanLiteral:
		return nativeBoolToBooleanObject(node.Value)
	case *ast.NullLiteral:
		return NULL
	case *ast.ArrayLiteral:
		elements := e.evalExpressions(node.Elements, env)
		if len(elements) == 1 && isError(elements[0]) {
			return elements[0]
		}
		return &Array{Elements: elements}
	case *ast.ParenExpression:
		return e.Eval(node.Expression, env)
	case *ast.PrefixExpression:
		right := e.Eval(node.Right, env)
		if isError(right) {
			return right
		}
		return e.evalPrefixExpression(node.Operator, right)
	case *ast.InfixExpression:
		return e.evalInfix(node, env)
	case *ast.AssignExpression:
		return e.evalAssignExpression(node, env)
	case *ast.IfExpression:
		return e.evalIfExpression(node, env)
	case *ast.FunctionLiteral:
		return &Function{
			Parameters: node.Parameters,
			Body:       node.Body,
			Env:        env,
			Stage:      e.frame.emitTarget,
			Line:       node.Token.Line,
			Column:     node.Token.Column,
		}
	case *ast.MemberExpression:
		return e.evalMemberExpression(node, env)
	case *ast.CallExpression:
		return e.evalCallExpression(node, env)
	}
	return newError(RuntimeError, "unknown node type: %T", node)
}

func (e *Evaluator) evalIdentifier(node *ast.Identifier, env *Environment) Object {
	if val, ok := env.Get(node.Value); ok {
		return val
	}
	return newError(UndefinedVariable, "Undefined variable '%s'", node.Value)
}

// evalExpressions evaluates in order; on error it returns just the error.
func (e *Evaluator) evalExpressions(exps []ast.Expression, env *Environment) []Object {
	result := make([]Object, 0, len(exps))
	for _, exp := range exps {
		evaluated := e.Eval(exp, env)
		if isError(evaluated) {
			return []Object{evaluated}
		}
		result = append(result, evaluated)
	}
	return result
}
