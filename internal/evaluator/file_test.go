package evaluator

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/funvibe/streem/internal/config"
)

func readFileString(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func boundFile(t *testing.T, env *Environment, name string) *File {
	t.Helper()
	obj, ok := env.Get(name)
	if !ok {
		t.Fatalf("%s is not defined", name)
	}
	f, ok := obj.(*File)
	if !ok {
		t.Fatalf("%s is %T, not a file", name, obj)
	}
	return f
}

func TestFileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	e, _ := newTestEvaluator()
	env := NewGlobalEnvironment(e)

	input := fmt.Sprintf("out = file(%q)\n[1, \"two\", 3] | {x -> x} | out", path)
	if _, err := evalIn(t, e, env, input); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := readFileString(t, path); got != "1\ntwo\n3\n" {
		t.Errorf("expected %q, got %q", "1\ntwo\n3\n", got)
	}
	f := boundFile(t, env, "out")
	if f.refs != 0 || f.handle != nil {
		t.Errorf("expected closed file, refs=%d open=%t", f.refs, f.handle != nil)
	}
}

func TestFileSinkWritesText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	e, _ := newTestEvaluator()

	input := fmt.Sprintf("[1, \"two\", [3, 4]] | file(%q)", path)
	if _, err := evalIn(t, e, NewGlobalEnvironment(e), input); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := readFileString(t, path); got != "1\ntwo\n3,4\n" {
		t.Errorf("expected %q, got %q", "1\ntwo\n3,4\n", got)
	}
}

func TestFileSinkSequentialPipelines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	e, _ := newTestEvaluator()
	env := NewGlobalEnvironment(e)

	if _, err := evalIn(t, e, env, fmt.Sprintf("out = file(%q)\n[1, 2] | out", path)); err != nil {
		t.Fatalf("first run: %v", err)
	}
	f := boundFile(t, env, "out")
	if f.refs != 0 || f.handle != nil {
		t.Fatalf("first run left refs=%d open=%t", f.refs, f.handle != nil)
	}
	if got := readFileString(t, path); got != "1\n2\n" {
		t.Errorf("first run wrote %q", got)
	}

	// reopening for write truncates
	if _, err := evalIn(t, e, env, "[3] | out"); err != nil {
		t.Fatalf("second run: %v", err)
	}
	if f.refs != 0 || f.handle != nil {
		t.Errorf("second run left refs=%d open=%t", f.refs, f.handle != nil)
	}
	if got := readFileString(t, path); got != "3\n" {
		t.Errorf("second run wrote %q", got)
	}
	if len(e.claims) != 0 {
		t.Errorf("expected no claims, got %d", len(e.claims))
	}
}

func TestFileSinkSharedByConcurrentPipelines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	e, _ := newTestEvaluator()
	env := NewGlobalEnvironment(e)

	input := fmt.Sprintf("out = file(%q)\n[1, 2] | out\n[3, 4] | out", path)
	if _, err := evalIn(t, e, env, input); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimSuffix(readFileString(t, path), "\n"), "\n")
	sort.Strings(lines)
	if strings.Join(lines, ",") != "1,2,3,4" {
		t.Errorf("unexpected lines %v", lines)
	}
	f := boundFile(t, env, "out")
	if f.refs != 0 || f.handle != nil {
		t.Errorf("expected closed file, refs=%d open=%t", f.refs, f.handle != nil)
	}
}

func TestFileSource(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.txt")
	if err := os.WriteFile(in, []byte("hello\nworld\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Run("copy_to_stdout", func(t *testing.T) {
		e, out := newTestEvaluator()
		if _, err := evalIn(t, e, NewGlobalEnvironment(e), fmt.Sprintf("file(%q) | STDOUT", in)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.String() != "hello\nworld\n" {
			t.Errorf("expected file content, got %q", out.String())
		}
		if len(e.claims) != 0 {
			t.Errorf("expected no claims, got %d", len(e.claims))
		}
	})

	t.Run("copy_to_file", func(t *testing.T) {
		dst := filepath.Join(dir, "copy.txt")
		e, _ := newTestEvaluator()
		if _, err := evalIn(t, e, NewGlobalEnvironment(e), fmt.Sprintf("file(%q) | file(%q)", in, dst)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := readFileString(t, dst); got != "hello\nworld\n" {
			t.Errorf("expected copy, got %q", got)
		}
	})

	t.Run("chunks", func(t *testing.T) {
		e, _ := newTestEvaluator(WithConfig(&config.Config{ChunkSize: 5}))
		result, err := evalIn(t, e, NewGlobalEnvironment(e), fmt.Sprintf("collect(file(%q))", in))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		arr := result.(*Array)
		if len(arr.Elements) != 3 {
			t.Fatalf("expected 3 chunks, got %s", arr.Inspect())
		}
		if got := arr.Elements[0].(*Bytes).Value; string(got) != "hello" {
			t.Errorf("expected first chunk %q, got %q", "hello", got)
		}
	})

	t.Run("transform_chunks", func(t *testing.T) {
		e, _ := newTestEvaluator()
		input := fmt.Sprintf("collect(file(%q) | {chunk -> len(chunk)})", in)
		result, err := evalIn(t, e, NewGlobalEnvironment(e), input)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Inspect() != "[12]" {
			t.Errorf("expected [12], got %s", result.Inspect())
		}
	})
}

func TestStdinSource(t *testing.T) {
	var out strings.Builder
	e := New(WithStdio(strings.NewReader("a\nb\n"), &out, &out))
	if _, err := evalIn(t, e, NewGlobalEnvironment(e), "STDIN | STDOUT"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.String() != "a\nb\n" {
		t.Errorf("expected stdin echoed, got %q", out.String())
	}
}

func TestFileErrors(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.txt")
	if err := os.WriteFile(in, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		input string
		kind  ErrorKind
	}{
		{"missing_file", fmt.Sprintf("file(%q) | STDOUT", filepath.Join(dir, "nope", "x")), IOError},
		{"write_to_stdin", "[1] | STDIN", RuntimeError},
		{"read_from_stdout", "STDOUT | STDERR", RuntimeError},
		{"read_then_write", fmt.Sprintf("f = file(%q)\ns = f | {x -> x}\n[1] | f", in), RuntimeError},
		{"file_needs_string", "file(1)", RuntimeError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectErrorKind(t, tt.input, tt.kind)
		})
	}
}

func TestAbortReleasesClaims(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.txt")
	if err := os.WriteFile(in, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	e, _ := newTestEvaluator()
	env := NewGlobalEnvironment(e)

	input := fmt.Sprintf("f = file(%q)\ns = f | {x -> x}\nmissing", in)
	if _, err := evalIn(t, e, env, input); err == nil {
		t.Fatal("expected error")
	}
	f := boundFile(t, env, "f")
	if f.refs != 0 || f.handle != nil {
		t.Errorf("expected released file, refs=%d open=%t", f.refs, f.handle != nil)
	}
	if len(e.claims) != 0 {
		t.Errorf("expected no claims, got %d", len(e.claims))
	}
}

// Standard streams written off the loop goroutine: print and a STDOUT sink
// share one ordered writer.
func TestPrintWithAsyncStdout(t *testing.T) {
	async := false
	e, out := newTestEvaluator(WithConfig(&config.Config{SyncStdio: &async}))
	input := "seq(200) | STDOUT\nprint(\"x\")\ncollect(seq(200) | {x -> print(x)\n x})"
	result, err := evalIn(t, e, NewGlobalEnvironment(e), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := len(result.(*Array).Elements); n != 200 {
		t.Errorf("expected 200 collected values, got %d", n)
	}

	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	if len(lines) != 401 {
		t.Fatalf("expected 401 lines, got %d", len(lines))
	}
	counts := map[string]int{}
	for _, line := range lines {
		counts[line]++
	}
	if counts["x"] != 1 || counts["1"] != 2 || counts["200"] != 2 {
		t.Errorf("unexpected line counts x=%d 1=%d 200=%d", counts["x"], counts["1"], counts["200"])
	}
}

func TestStageErrorReleasesFileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	e, _ := newTestEvaluator()
	env := NewGlobalEnvironment(e)

	input := fmt.Sprintf("out = file(%q)\n[1, \"a\"] | {x -> x + 1} | out", path)
	_, err := evalIn(t, e, env, input)
	if err == nil {
		t.Fatal("expected error")
	}
	if kind := err.(*Error).Kind; kind != InvalidOperand {
		t.Errorf("expected %s, got %s", InvalidOperand, kind)
	}

	f := boundFile(t, env, "out")
	if f.refs != 0 || f.handle != nil {
		t.Errorf("expected closed file, refs=%d open=%t", f.refs, f.handle != nil)
	}
	if len(e.claims) != 0 {
		t.Errorf("expected no claims, got %d", len(e.claims))
	}
	if got := readFileString(t, path); got != "2\n" {
		t.Errorf("expected the value before the failure, got %q", got)
	}
}

type failingIO struct{}

func (failingIO) Read(p []byte) (int, error)  { return 0, errors.New("device gone") }
func (failingIO) Write(p []byte) (int, error) { return 0, errors.New("device gone") }

func TestStdioFailuresReleaseClaims(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"write_error", "[1, 2] | STDOUT"},
		{"read_error", "collect(STDIN)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New(WithStdio(failingIO{}, failingIO{}, failingIO{}))
			_, err := evalIn(t, e, NewGlobalEnvironment(e), tt.input)
			if err == nil {
				t.Fatal("expected error")
			}
			if kind := err.(*Error).Kind; kind != IOError {
				t.Errorf("expected %s, got %s", IOError, kind)
			}
			if len(e.claims) != 0 {
				t.Errorf("expected no claims, got %d", len(e.claims))
			}
			if e.stdin.refs != 0 || e.stdout.refs != 0 {
				t.Errorf("expected released streams, stdin refs=%d stdout refs=%d", e.stdin.refs, e.stdout.refs)
			}
		})
	}
}
