package evaluator

import (
	"fortio.org/log"
)

// Reader is a stage that can be pulled: Read delivers at most one value to
// the downstream Writer, now or from a later loop task.
type Reader interface {
	Read() error
}

// Writer is a stage that accepts values. Connect is called once, right
// after the stage became the downstream end of a pipe.
type Writer interface {
	Write(value Object) error
	Connect() error
}

// Stage is a pipeline element exposed to programs.
type Stage interface {
	Object
	links() *stageLinks
}

// stageLinks are set once by pipe and never change afterwards.
type stageLinks struct {
	upstream   Reader
	downstream Writer
}

func (l *stageLinks) links() *stageLinks { return l }

// evalPipeOperator resolves '|' by operand types: two numbers are bitwise
// OR, a source and a sink are composed, anything else is invalid.
func (e *Evaluator) evalPipeOperator(left, right Object) Object {
	if l, ok := left.(*Number); ok {
		if r, ok := right.(*Number); ok {
			return &Number{Value: float64(toInt(l.Value) | toInt(r.Value))}
		}
	}
	if !isSource(left) || !isSink(right) {
		return errInvalidOperand("|", left, right)
	}

	if s, ok := left.(Stage); ok && s.links().downstream != nil {
		return newError(RuntimeError, "Stage is already connected downstream")
	}

	src, err := e.asSource(left)
	if err != nil {
		return err
	}
	dst, err := e.asSink(right)
	if err != nil {
		if _, ok := left.(*File); ok {
			src.(*FileSource).release()
		}
		return err
	}

	if err := e.pipe(src, dst); err != nil {
		return asError(err)
	}
	return dst
}

func isSource(obj Object) bool {
	switch obj := obj.(type) {
	case *Array, *File:
		return true
	case Stage:
		_, ok := obj.(Reader)
		return ok
	}
	return false
}

func isSink(obj Object) bool {
	switch obj.(type) {
	case *Function, *Builtin, *File:
		return true
	}
	return false
}

func (e *Evaluator) asSource(obj Object) (Stage, *Error) {
	switch obj := obj.(type) {
	case *Array:
		return newArraySource(obj), nil
	case *File:
		return e.newFileSource(obj)
	case Stage:
		return obj, nil
	}
	return nil, newError(InvalidOperand, "Not a stream source: %s", typeName(obj))
}

func (e *Evaluator) asSink(obj Object) (Stage, *Error) {
	switch obj := obj.(type) {
	case *Function, *Builtin:
		return e.newTransformStage(obj), nil
	case *File:
		return e.newFileSink(obj)
	}
	return nil, newError(InvalidOperand, "Not a stream sink: %s", typeName(obj))
}

// pipe links src to dst and lets dst start pulling.
func (e *Evaluator) pipe(src, dst Stage) error {
	reader, ok := src.(Reader)
	if !ok {
		return newError(RuntimeError, "%s is not readable", src.Inspect())
	}
	writer, ok := dst.(Writer)
	if !ok {
		return newError(RuntimeError, "%s is not writable", dst.Inspect())
	}
	if src.links().downstream != nil || dst.links().upstream != nil {
		return newError(RuntimeError, "Stage is already connected")
	}

	src.links().downstream = writer
	dst.links().upstream = reader
	log.LogVf("pipe %s | %s", src.Inspect(), dst.Inspect())
	return writer.Connect()
}
