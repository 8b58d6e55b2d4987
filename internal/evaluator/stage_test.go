package evaluator

import (
	"testing"
)

func TestPipelines(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"identity", "collect([1, 2, 3] | {x -> x})", "[1, 2, 3]"},
		{"identity_empty", "collect([] | {x -> x})", "[]"},
		{"identity_mixed", `collect([1, "a", [2], true] | {x -> x})`, `[1, "a", [2], true]`},
		{"null_result_awaits_emit", "collect([1, null, 2] | {x -> x})", "[1]"},
		{"emit_doubles", "collect([1, 2, 3] | {x -> emit x * 2})", "[2, 4, 6]"},
		{"emits_before_result", "collect([1, 2] | {x -> emit x, x * 10\n x * 100})", "[1, 10, 100, 2, 20, 200]"},
		{"skip_filters", "collect([1, 2, 3, 4, 5] | {x -> if x % 2 == 0 { skip } ; emit x})", "[1, 3, 5]"},
		{"skip_everything", "collect([1, 2, 3] | {x -> skip})", "[]"},
		{"chained", "collect([1, 2, 3] | {x -> x + 1} | {x -> x * 10})", "[20, 30, 40]"},
		{"builtin_transform", "collect([1, 2] | string)", `["1", "2"]`},
		{"seq_source", "collect(seq(3) | {x -> x * x})", "[1, 4, 9]"},
		{"source_is_snapshot", "a = [1, 2]\ns = a | {x -> x}\na << 3\ncollect(s)", "[1, 2]"},
		{"timer_emit_resumes_stage", "collect([1, 2] | {x -> after(1, {-> emit x})})", "[1, 2]"},
		{"timer_emits_in_order", "collect([1, 2] | {x -> after(3 - x, {-> emit x})})", "[1, 2]"},
		{"closure_state", "n = 0\ncollect([5, 5, 5] | {x -> n += x})", "[5, 10, 15]"},
		{"nested_collect", "collect([2, 3] | {x -> collect(seq(x) | {y -> y * x})})", "[[2, 4], [3, 6, 9]]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectInspect(t, tt.input, tt.expected)
		})
	}
}

func TestPipelineErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kind  ErrorKind
	}{
		{"relink_source", "s = [1] | {x -> x}\nt = s | {x -> x}\ns | {x -> x}", RuntimeError},
		{"sink_not_source", "s = [1] | STDOUT\ns | {x -> x}", InvalidOperand},
		{"error_in_stage", `[1] | {x -> x + "a"} | STDOUT`, InvalidOperand},
		{"error_in_timer", "after(1, {-> missing})", UndefinedVariable},
		{"after_not_callable", "after(1, 2)", NotCallable},
		{"stage_arity", "collect([1] | {a, b -> a})", WrongNumberOfArguments},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectErrorKind(t, tt.input, tt.kind)
		})
	}
}

func TestPipeToStdout(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"numbers", "[1, 2, 3] | {x -> x * 2} | STDOUT", "2\n4\n6\n"},
		{"single_newline", `["a` + "\\n" + `", "b"] | STDOUT`, "a\nb\n"},
		{"null_and_empty_drain", `[1, null, "", 2] | STDOUT`, "1\n2\n"},
		{"arrays_as_text", "[[1, 2], 3] | STDOUT", "1,2\n3\n"},
		{"two_pipelines", "[1] | STDOUT\n[2] | STDOUT", "1\n2\n"},
		{"skip_to_stdout", "seq(6) | {x -> if x % 3 != 0 { skip }\n x} | STDOUT", "3\n6\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, out := newTestEvaluator()
			if _, err := evalIn(t, e, NewGlobalEnvironment(e), tt.input); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if out.String() != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, out.String())
			}
			if len(e.claims) != 0 {
				t.Errorf("expected all claims released, %d left", len(e.claims))
			}
		})
	}
}

func TestPipeReturnsSink(t *testing.T) {
	result, err := testEval(t, "[1] | {x -> x}")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := result.(*TransformStage); !ok {
		t.Errorf("expected *TransformStage, got %T", result)
	}
}

func TestTransformStageQueue(t *testing.T) {
	e, _ := newTestEvaluator()
	stage := e.newTransformStage(&Builtin{Name: "id", Fn: func(e *Evaluator, args ...Object) Object { return args[0] }})
	sink := newArraySink(e)
	if err := e.pipe(newArraySource(&Array{}), stage); err != nil {
		t.Fatalf("pipe: %v", err)
	}

	// values emitted before anyone pulls are served first
	stage.Emit(&Number{Value: 7}, &Number{Value: 8})
	if stage.queue.Len() != 2 {
		t.Fatalf("expected 2 queued values, got %d", stage.queue.Len())
	}
	if err := e.pipe(stage, sink); err != nil {
		t.Fatalf("pipe: %v", err)
	}
	if err := e.Loop.RunUntil(e.Context, sink.Done); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := sink.Result.Inspect(); got != "[7, 8]" {
		t.Errorf("expected [7, 8], got %s", got)
	}
}

func TestQueue(t *testing.T) {
	var q Queue
	if _, ok := q.Dequeue(); ok {
		t.Fatal("expected empty queue")
	}
	for i := 1; i <= 3; i++ {
		q.Enqueue(&Number{Value: float64(i)})
	}
	for i := 1; i <= 3; i++ {
		v, ok := q.Dequeue()
		if !ok || v.(*Number).Value != float64(i) {
			t.Fatalf("expected %d, got %v", i, v)
		}
	}
	if q.Len() != 0 {
		t.Errorf("expected empty queue, got %d", q.Len())
	}
	q.Enqueue(NULL)
	if v, _ := q.Dequeue(); v != NULL {
		t.Errorf("expected null after reuse, got %v", v)
	}
}
