package parser

import (
	"github.com/funvibe/streem/internal/pipeline"
)

type ParserProcessor struct{}

func (pp *ParserProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	// Lexer errors leave ILLEGAL tokens behind; parsing them only repeats
	// the same problem as P001.
	if len(ctx.Errors) > 0 {
		return ctx
	}

	parser := New(ctx.Tokens)
	program := parser.ParseProgram()
	program.File = ctx.FilePath

	for _, err := range parser.Errors() {
		if err.File == "" {
			err.File = ctx.FilePath
		}
		ctx.Errors = append(ctx.Errors, err)
	}
	if len(parser.Errors()) == 0 {
		ctx.AstRoot = program
	}
	return ctx
}
