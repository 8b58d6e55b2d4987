package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/peterh/liner"

	"github.com/funvibe/streem/internal/diagnostics"
	"github.com/funvibe/streem/internal/evaluator"
	"github.com/funvibe/streem/internal/pipeline"
)

const (
	prompt         = "streem> "
	continuePrompt = "   ...> "
)

// repl reads programs line by line. A line that ends inside an open block
// or expression keeps reading until the program is complete.
func (r *runner) repl() int {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	var pending strings.Builder
	for {
		p := prompt
		if pending.Len() > 0 {
			p = continuePrompt
		}
		input, err := line.Prompt(p)
		if errors.Is(err, liner.ErrPromptAborted) {
			pending.Reset()
			continue
		}
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(r.stdout)
			return ExitOK
		}
		if err != nil {
			fmt.Fprintf(r.stderr, "streem: %v\n", err)
			return ExitError
		}

		if pending.Len() == 0 && strings.TrimSpace(input) == "" {
			continue
		}
		pending.WriteString(input)
		pending.WriteByte('\n')

		source := pending.String()
		ctx := r.process(context.Background(), source, "<repl>")
		if incomplete(ctx) {
			continue
		}
		line.AppendHistory(strings.TrimRight(source, "\n"))
		pending.Reset()
		r.show(ctx)
	}
}

// incomplete reports whether parsing only failed because input ended.
func incomplete(ctx *pipeline.PipelineContext) bool {
	return len(ctx.Errors) == 1 && ctx.Errors[0].Code == diagnostics.ErrP002
}

func (r *runner) show(ctx *pipeline.PipelineContext) {
	if len(ctx.Errors) > 0 {
		r.report(ctx)
		return
	}
	if obj, ok := ctx.Result.(evaluator.Object); ok && obj != evaluator.NULL {
		fmt.Fprintln(r.stdout, obj.Inspect())
	}
}
