package evaluator

import (
	"math"
	"strconv"
	"strings"
	"time"

	"fortio.org/log"

	"github.com/funvibe/streem/internal/config"
)

// NewGlobalEnvironment returns a fresh root scope bound to e's standard
// streams. Nothing in it is shared between runs.
func NewGlobalEnvironment(e *Evaluator) *Environment {
	env := NewEnvironment()
	env.Define(config.StdinName, e.stdin)
	env.Define(config.StdoutName, e.stdout)
	env.Define(config.StderrName, e.stderr)
	for name, fn := range builtins {
		env.Define(name, &Builtin{Name: name, Fn: fn})
	}
	return env
}

var builtins map[string]BuiltinFunction

func init() {
	builtins = map[string]BuiltinFunction{
		config.SeqFuncName:     builtinSeq,
		config.NumberFuncName:  builtinNumber,
		config.StringFuncName:  builtinString,
		config.BooleanFuncName: builtinBoolean,
		config.FileFuncName:    builtinFile,
		config.PrintFuncName:   builtinPrint,
		config.CollectFuncName: builtinCollect,
		config.AfterFuncName:   builtinAfter,
		config.RecordFuncName:  builtinRecord,
		config.LenFuncName:     builtinLen,
	}
}

// seq(max) -> [1, 2, ..., max]
func builtinSeq(e *Evaluator, args ...Object) Object {
	if len(args) != 1 {
		return errWrongArguments(1, len(args))
	}
	max, ok := args[0].(*Number)
	if !ok {
		return newError(RuntimeError, "seq: expected NUMBER, got %s", typeName(args[0]))
	}
	elements := []Object{}
	for i := 1.0; i <= max.Value; i++ {
		elements = append(elements, &Number{Value: i})
	}
	return &Array{Elements: elements}
}

func builtinNumber(e *Evaluator, args ...Object) Object {
	if len(args) != 1 {
		return errWrongArguments(1, len(args))
	}
	return &Number{Value: toNumber(args[0])}
}

// toNumber: blank strings are 0, malformed ones NaN.
func toNumber(obj Object) float64 {
	switch obj := obj.(type) {
	case *Number:
		return obj.Value
	case *String:
		s := strings.TrimSpace(obj.Value)
		if s == "" {
			return 0
		}
		if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
			n, err := strconv.ParseUint(s[2:], 16, 64)
			if err != nil {
				return math.NaN()
			}
			return float64(n)
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	case *Boolean:
		if obj.Value {
			return 1
		}
		return 0
	case *Null:
		return 0
	case *Bytes:
		return toNumber(&String{Value: string(obj.Value)})
	}
	return math.NaN()
}

func builtinString(e *Evaluator, args ...Object) Object {
	if len(args) != 1 {
		return errWrongArguments(1, len(args))
	}
	switch arg := args[0].(type) {
	case *String:
		return arg
	case *Null:
		return &String{Value: "null"}
	}
	return &String{Value: toText(args[0])}
}

func builtinBoolean(e *Evaluator, args ...Object) Object {
	if len(args) != 1 {
		return errWrongArguments(1, len(args))
	}
	return nativeBoolToBooleanObject(isTruthy(args[0]))
}

func builtinFile(e *Evaluator, args ...Object) Object {
	path, err := stringArg(config.FileFuncName, args)
	if err != nil {
		return err
	}
	return newFile(path)
}

// print writes its arguments space separated to standard output. The write
// is queued behind any pipeline writing to STDOUT.
func builtinPrint(e *Evaluator, args ...Object) Object {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = toText(arg)
	}
	e.writeFile(e.stdout, []byte(strings.Join(parts, " ")+"\n"), func(err error) error {
		if err != nil {
			return newError(IOError, "print: %v", err)
		}
		return nil
	})
	return NULL
}

// collect drains a stream into an array, running the event loop until the
// stream ends.
func builtinCollect(e *Evaluator, args ...Object) Object {
	if len(args) != 1 {
		return errWrongArguments(1, len(args))
	}
	if arr, ok := args[0].(*Array); ok {
		return &Array{Elements: append([]Object{}, arr.Elements...)}
	}
	if !isSource(args[0]) {
		return newError(RuntimeError, "collect: expected a stream, got %s", typeName(args[0]))
	}
	if s, ok := args[0].(Stage); ok && s.links().downstream != nil {
		return newError(RuntimeError, "Stage is already connected downstream")
	}

	src, err := e.asSource(args[0])
	if err != nil {
		return err
	}
	sink := newArraySink(e)
	if err := e.pipe(src, sink); err != nil {
		return asError(err)
	}
	if err := e.Loop.RunUntil(e.Context, sink.Done); err != nil {
		return asError(err)
	}
	if !sink.Done() {
		log.Warnf("collect: stream stalled after %d values", len(sink.Result.Elements))
	}
	return sink.Result
}

// after(ms, fn) calls fn with no arguments once ms milliseconds passed.
func builtinAfter(e *Evaluator, args ...Object) Object {
	if len(args) != 2 {
		return errWrongArguments(2, len(args))
	}
	ms, ok := args[0].(*Number)
	if !ok {
		return newError(RuntimeError, "after: expected NUMBER, got %s", typeName(args[0]))
	}
	fn := args[1]
	switch fn.(type) {
	case *Function, *Builtin:
	default:
		return newError(NotCallable, "Not callable: %s", typeName(fn))
	}

	d := time.Duration(ms.Value * float64(time.Millisecond))
	e.Loop.After(d, func() error {
		if err, ok := e.applyFunction(fn, nil).(*Error); ok {
			return err
		}
		return nil
	})
	return NULL
}

// record(k1, v1, k2, v2, ...) builds a Record.
func builtinRecord(e *Evaluator, args ...Object) Object {
	if len(args)%2 != 0 {
		return newError(WrongNumberOfArguments, "record: expected key/value pairs, got %d arguments", len(args))
	}
	rec := NewRecord()
	for i := 0; i < len(args); i += 2 {
		key, ok := args[i].(*String)
		if !ok {
			return newError(RuntimeError, "record: key must be STRING, got %s", typeName(args[i]))
		}
		rec.Fields[key.Value] = args[i+1]
	}
	return rec
}

func builtinLen(e *Evaluator, args ...Object) Object {
	if len(args) != 1 {
		return errWrongArguments(1, len(args))
	}
	switch arg := args[0].(type) {
	case *String, *Array, *Bytes:
		return e.getProperty(arg, config.LengthProp)
	case *Record:
		return &Number{Value: float64(len(arg.Fields))}
	}
	return newError(RuntimeError, "len: unsupported argument %s", typeName(args[0]))
}
