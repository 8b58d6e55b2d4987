package pipeline

import (
	"github.com/funvibe/streem/internal/ast"
	"github.com/funvibe/streem/internal/diagnostics"
	"github.com/funvibe/streem/internal/token"
)

// PipelineContext carries a program through the processing stages.
type PipelineContext struct {
	SourceCode string
	FilePath   string
	Tokens     []token.Token
	AstRoot    *ast.Program
	Errors     []*diagnostics.DiagnosticError
	// Result is the value produced by evaluation, if any.
	Result interface{}
}

// Processor is one stage of the pipeline.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// Pipeline represents a sequence of processing stages.
type Pipeline struct {
	processors []Processor
}

func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Run executes the pipeline.
func (p *Pipeline) Run(initialCtx *PipelineContext) *PipelineContext {
	ctx := initialCtx
	for _, processor := range p.processors {
		ctx = processor.Process(ctx)
		// Later stages check ctx.Errors themselves so that lexer and parser
		// problems are all reported together.
	}
	return ctx
}
