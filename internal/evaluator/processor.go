package evaluator

import (
	"context"

	"github.com/funvibe/streem/internal/diagnostics"
	"github.com/funvibe/streem/internal/pipeline"
	"github.com/funvibe/streem/internal/token"
)

// EvaluatorProcessor runs a parsed program. Env may be kept between runs
// (REPL); a nil Env gets a fresh global scope.
type EvaluatorProcessor struct {
	Context   context.Context
	Evaluator *Evaluator
	Env       *Environment
}

func (ep *EvaluatorProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	// If previous steps failed, don't run
	if ctx.AstRoot == nil || len(ctx.Errors) > 0 {
		return ctx
	}

	if ep.Evaluator == nil {
		ep.Evaluator = New()
	}
	if ep.Env == nil {
		ep.Env = NewGlobalEnvironment(ep.Evaluator)
	}
	runCtx := ep.Context
	if runCtx == nil {
		runCtx = context.Background()
	}

	result, err := ep.Evaluator.Run(runCtx, ctx.AstRoot, ep.Env)
	if err != nil {
		ctx.Errors = append(ctx.Errors, runtimeDiagnostic(asError(err), ctx.FilePath))
		return ctx
	}
	ctx.Result = result
	return ctx
}

func runtimeDiagnostic(err *Error, file string) *diagnostics.DiagnosticError {
	tok := token.Token{Offset: err.Offset, Line: err.Line, Column: err.Column}
	diag := diagnostics.NewError(diagnostics.ErrR001, tok, "%s: %s", err.Kind, err.Message)
	diag.File = file
	diag.Trace = err.Trace()
	return diag
}
