package pipeline

import (
	"testing"

	"github.com/funvibe/streem/internal/diagnostics"
	"github.com/funvibe/streem/internal/token"
)

type recordingProcessor struct {
	name  string
	order *[]string
	fail  bool
}

func (rp *recordingProcessor) Process(ctx *PipelineContext) *PipelineContext {
	*rp.order = append(*rp.order, rp.name)
	if rp.fail {
		ctx.Errors = append(ctx.Errors, diagnostics.NewError(diagnostics.ErrP001, token.Token{}, "%s failed", rp.name))
	}
	return ctx
}

func TestPipelineRunsEveryProcessor(t *testing.T) {
	var order []string
	p := New(
		&recordingProcessor{name: "lex", order: &order},
		&recordingProcessor{name: "parse", order: &order, fail: true},
		&recordingProcessor{name: "eval", order: &order},
	)
	ctx := p.Run(&PipelineContext{SourceCode: "1", FilePath: "x.strm"})

	if len(order) != 3 || order[0] != "lex" || order[2] != "eval" {
		t.Errorf("unexpected processor order %v", order)
	}
	if len(ctx.Errors) != 1 || ctx.Errors[0].Message != "parse failed" {
		t.Errorf("unexpected errors %v", ctx.Errors)
	}
	if ctx.FilePath != "x.strm" {
		t.Errorf("context was not threaded through, path %q", ctx.FilePath)
	}
}
