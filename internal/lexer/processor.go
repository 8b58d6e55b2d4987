package lexer

import (
	"github.com/funvibe/streem/internal/diagnostics"
	"github.com/funvibe/streem/internal/pipeline"
	"github.com/funvibe/streem/internal/token"
)

type LexerProcessor struct{}

func (lp *LexerProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	l := New(ctx.SourceCode)
	ctx.Tokens = l.Tokenize()

	for _, le := range l.Errors() {
		tok := token.Token{Type: token.ILLEGAL, Offset: le.Offset, Line: le.Line, Column: le.Column}
		err := diagnostics.NewError(diagnostics.ErrL001, tok, "%s", le.Message)
		err.File = ctx.FilePath
		ctx.Errors = append(ctx.Errors, err)
	}
	return ctx
}
