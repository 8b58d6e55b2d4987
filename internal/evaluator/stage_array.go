package evaluator

import "fmt"

// ArraySource delivers the elements of an array snapshot, then End.
type ArraySource struct {
	stageLinks
	// items holds the remaining elements in reverse order.
	items []Object
}

func newArraySource(arr *Array) *ArraySource {
	n := len(arr.Elements)
	items := make([]Object, n)
	for i, el := range arr.Elements {
		items[n-1-i] = el
	}
	return &ArraySource{items: items}
}

func (s *ArraySource) Type() ObjectType { return STAGE_OBJ }
func (s *ArraySource) Inspect() string  { return fmt.Sprintf("<array source, %d left>", len(s.items)) }

func (s *ArraySource) Read() error {
	n := len(s.items)
	if n == 0 {
		return s.downstream.Write(End)
	}
	value := s.items[n-1]
	s.items = s.items[:n-1]
	return s.downstream.Write(value)
}

// ArraySink collects everything delivered to it into Result.
type ArraySink struct {
	stageLinks
	e      *Evaluator
	Result *Array
	done   bool
}

func newArraySink(e *Evaluator) *ArraySink {
	return &ArraySink{e: e, Result: &Array{}}
}

func (s *ArraySink) Type() ObjectType { return STAGE_OBJ }
func (s *ArraySink) Inspect() string {
	return fmt.Sprintf("<array sink, %d collected>", len(s.Result.Elements))
}

func (s *ArraySink) Connect() error {
	return s.upstream.Read()
}

func (s *ArraySink) Write(value Object) error {
	if s.done {
		return nil
	}
	if value == End {
		s.done = true
		return nil
	}
	s.Result.Elements = append(s.Result.Elements, value)
	s.e.Loop.Defer(s.upstream.Read)
	return nil
}

// Done reports whether End has arrived.
func (s *ArraySink) Done() bool {
	return s.done
}
