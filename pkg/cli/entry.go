// Package cli is the streem command-line front end.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"fortio.org/log"
	"github.com/docopt/docopt-go"
	"github.com/mattn/go-isatty"

	"github.com/funvibe/streem/internal/config"
	"github.com/funvibe/streem/internal/diagnostics"
	"github.com/funvibe/streem/internal/evaluator"
	"github.com/funvibe/streem/internal/lexer"
	"github.com/funvibe/streem/internal/parser"
	"github.com/funvibe/streem/internal/pipeline"
)

// Exit codes
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

const usage = `streem

Usage:
  streem [options] [SCRIPT]
  streem -h | --help
  streem --version

Arguments:
  SCRIPT  Path to a streem program. Without it the program is read from
          stdin, or an interactive session starts when stdin is a terminal.

Options:
  -e EXPR, --eval=EXPR  Evaluate EXPR instead of a script.
  --config=FILE         Load settings from FILE instead of the nearest streem.yaml.
  --log-level=LEVEL     Log level: debug, verbose, info, warning or error.
  --color=WHEN          Color diagnostics: auto, always or never.
  -h, --help            Display this help.
  --version             Print the streem version.
`

// options are the parsed command line.
type options struct {
	script   string
	expr     string
	hasExpr  bool
	config   string
	logLevel string
	color    string
}

func parseOptions(args []string, stdout, stderr io.Writer) (*options, int, bool) {
	handled := false
	code := ExitOK
	p := &docopt.Parser{
		HelpHandler: func(err error, output string) {
			handled = true
			if err != nil {
				fmt.Fprintln(stderr, output)
				code = ExitUsage
				return
			}
			fmt.Fprintln(stdout, output)
		},
	}

	opts, err := p.ParseArgs(usage, args, "streem "+config.Version)
	if handled {
		return nil, code, false
	}
	if err != nil {
		fmt.Fprintln(stderr, err)
		return nil, ExitUsage, false
	}

	o := &options{}
	o.script, _ = opts.String("SCRIPT")
	if expr, ok := opts["--eval"].(string); ok {
		o.expr, o.hasExpr = expr, true
	}
	o.config, _ = opts.String("--config")
	o.logLevel, _ = opts.String("--log-level")
	o.color, _ = opts.String("--color")

	if o.hasExpr && o.script != "" {
		fmt.Fprintln(stderr, "streem: --eval and SCRIPT are mutually exclusive")
		return nil, ExitUsage, false
	}
	return o, ExitOK, true
}

// loadConfig reads --config, or the streem.yaml nearest to the script,
// and applies the command line overrides.
func loadConfig(o *options) (*config.Config, error) {
	path := o.config
	if path == "" {
		dir := "."
		if o.script != "" {
			dir = filepath.Dir(o.script)
		}
		found, err := config.FindConfig(dir)
		if err != nil {
			return nil, err
		}
		path = found
	}

	cfg := config.Default()
	if path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	if o.color != "" {
		cfg.Color = o.color
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Main runs the command line and returns the process exit code.
func Main(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	o, code, ok := parseOptions(args, stdout, stderr)
	if !ok {
		return code
	}

	cfg, err := loadConfig(o)
	if err != nil {
		fmt.Fprintf(stderr, "streem: %v\n", err)
		return ExitUsage
	}
	log.SetOutput(stderr)
	if err := log.SetLogLevelStr(cfg.LogLevel); err != nil {
		fmt.Fprintf(stderr, "streem: %v\n", err)
		return ExitUsage
	}

	r := &runner{
		stdout: stdout,
		stderr: stderr,
		color:  useColor(cfg.Color, stderr),
	}
	r.eval = evaluator.New(evaluator.WithConfig(cfg), evaluator.WithStdio(stdin, stdout, stderr))
	r.env = evaluator.NewGlobalEnvironment(r.eval)

	switch {
	case o.hasExpr:
		return r.runSource(o.expr, "<eval>")
	case o.script != "":
		source, err := os.ReadFile(o.script)
		if err != nil {
			fmt.Fprintf(stderr, "streem: %v\n", err)
			return ExitError
		}
		return r.runSource(string(source), resolvePath(o.script))
	case isTerminal(stdin):
		return r.repl()
	}

	source, err := io.ReadAll(stdin)
	if err != nil {
		fmt.Fprintf(stderr, "streem: reading stdin: %v\n", err)
		return ExitError
	}
	// the program consumed stdin, STDIN is empty from here on
	return r.runSource(string(source), "<stdin>")
}

// runner holds the evaluator shared by every program of one invocation.
type runner struct {
	eval   *evaluator.Evaluator
	env    *evaluator.Environment
	stdout io.Writer
	stderr io.Writer
	color  bool
}

func (r *runner) process(ctx context.Context, source, path string) *pipeline.PipelineContext {
	p := pipeline.New(
		&lexer.LexerProcessor{},
		&parser.ParserProcessor{},
		&evaluator.EvaluatorProcessor{Context: ctx, Evaluator: r.eval, Env: r.env},
	)
	return p.Run(&pipeline.PipelineContext{SourceCode: source, FilePath: path})
}

func (r *runner) report(ctx *pipeline.PipelineContext) {
	for _, err := range ctx.Errors {
		fmt.Fprint(r.stderr, diagnostics.Format(err, ctx.SourceCode, r.color))
	}
}

func (r *runner) runSource(source, path string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	result := r.process(ctx, source, path)
	if len(result.Errors) > 0 {
		r.report(result)
		return ExitError
	}
	return ExitOK
}

// resolvePath makes diagnostics name the script by its absolute path.
func resolvePath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}

func useColor(mode string, w io.Writer) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	return isTerminal(w)
}

func isTerminal(stream interface{}) bool {
	f, ok := stream.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
