package evaluator

import (
	"fmt"
	"strings"

	"github.com/funvibe/streem/internal/ast"
)

// Function is a closure over the Environment it was created in.
type Function struct {
	Parameters []*ast.Identifier
	Body       *ast.BlockStatement
	Env        *Environment
	// Stage is the transform stage that was running when the closure was
	// created, if any. Emits from a plain call of the closure go there.
	Stage *TransformStage
	// Source location for stack traces
	Line   int
	Column int
}

func (f *Function) Type() ObjectType { return FUNCTION_OBJ }
func (f *Function) Inspect() string {
	params := []string{}
	for _, p := range f.Parameters {
		params = append(params, p.Value)
	}
	return fmt.Sprintf("{%s -> ...}", strings.Join(params, ", "))
}

// BuiltinFunction receives already evaluated arguments.
type BuiltinFunction func(e *Evaluator, args ...Object) Object

type Builtin struct {
	Fn   BuiltinFunction
	Name string
}

func (b *Builtin) Type() ObjectType { return BUILTIN_OBJ }
func (b *Builtin) Inspect() string  { return "builtin " + b.Name }
