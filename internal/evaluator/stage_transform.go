package evaluator

import (
	"fortio.org/log"
)

// TransformStage runs a callable once per upstream value. The callable's
// emits and non-null result are queued and handed downstream one per pull.
type TransformStage struct {
	stageLinks
	e  *Evaluator
	fn Object

	queue Queue
	// awaiting is set when a pull found nothing to deliver; the next emit
	// completes that pull.
	awaiting bool
	skipped  bool
}

func (e *Evaluator) newTransformStage(fn Object) *TransformStage {
	return &TransformStage{e: e, fn: fn}
}

func (s *TransformStage) Type() ObjectType { return STAGE_OBJ }
func (s *TransformStage) Inspect() string  { return "<stage " + s.fn.Inspect() + ">" }

// Connect does nothing: a transform only works when pulled.
func (s *TransformStage) Connect() error {
	return nil
}

func (s *TransformStage) Write(value Object) error {
	if value == End {
		return s.downstream.Write(End)
	}
	s.skipped = false
	s.awaiting = false
	if err := s.e.invokeStage(s, value); err != nil {
		return err
	}
	return s.send()
}

// send completes the pending pull: from the queue if possible, by asking
// upstream again after a skip, otherwise by waiting for an emit.
func (s *TransformStage) send() error {
	if value, ok := s.queue.Dequeue(); ok {
		return s.downstream.Write(value)
	}
	if s.skipped {
		s.skipped = false
		s.e.Loop.Defer(s.upstream.Read)
		return nil
	}
	s.awaiting = true
	return nil
}

func (s *TransformStage) Read() error {
	if value, ok := s.queue.Dequeue(); ok {
		return s.downstream.Write(value)
	}
	return s.upstream.Read()
}

// Emit queues values produced by the callable, possibly long after the
// invocation that captured this stage has returned.
func (s *TransformStage) Emit(values ...Object) {
	for _, v := range values {
		s.queue.Enqueue(v)
	}
	log.LogVf("emit %d value(s) on %p, %d queued", len(values), s, s.queue.Len())
	if s.awaiting && s.downstream != nil {
		s.awaiting = false
		s.e.Loop.Defer(s.send)
	}
}
