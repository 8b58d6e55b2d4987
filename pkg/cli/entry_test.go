package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/funvibe/streem/internal/config"
)

func runMain(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := Main(args, strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCommandLine(t *testing.T) {
	dir := t.TempDir()
	script := writeFile(t, dir, "double.strm", "[1, 2] | {x -> x * 10} | STDOUT\n")
	broken := writeFile(t, dir, "broken.strm", "a = 1\nb = a.c\n")

	tests := []struct {
		name      string
		stdin     string
		args      []string
		code      int
		stdout    string
		stderrHas []string
	}{
		{name: "eval", args: []string{"-e", "print(1 + 2)"}, code: ExitOK, stdout: "3\n"},
		{name: "eval_long", args: []string{"--eval=print(\"x\")"}, code: ExitOK, stdout: "x\n"},
		{name: "script", args: []string{script}, code: ExitOK, stdout: "10\n20\n"},
		{name: "stdin_program", stdin: `print("hi")`, code: ExitOK, stdout: "hi\n"},
		{
			name:      "runtime_error",
			args:      []string{"-e", "null.x"},
			code:      ExitError,
			stderrHas: []string{"<eval>:1:5: error: PropertyOfNull", "null.x\n    ^"},
		},
		{
			name:      "runtime_error_in_script",
			args:      []string{broken},
			code:      ExitError,
			stderrHas: []string{"broken.strm:2:6", "UndefinedProperty"},
		},
		{
			name:      "parse_error",
			args:      []string{"-e", "1 +"},
			code:      ExitError,
			stderrHas: []string{"Unexpected EOF"},
		},
		{
			name:      "lex_error",
			args:      []string{"-e", "a = 1 @"},
			code:      ExitError,
			stderrHas: []string{"Invalid character"},
		},
		{
			name:      "color_always",
			args:      []string{"--color=always", "-e", "missing"},
			code:      ExitError,
			stderrHas: []string{"\x1b[31;1merror"},
		},
		{name: "missing_script", args: []string{filepath.Join(dir, "nope.strm")}, code: ExitError},
		{name: "eval_and_script", args: []string{"-e", "1", script}, code: ExitUsage},
		{name: "unknown_flag", args: []string{"--bogus"}, code: ExitUsage},
		{name: "bad_log_level", args: []string{"--log-level=loud", "-e", "1"}, code: ExitUsage},
		{name: "bad_color", args: []string{"--color=sometimes", "-e", "1"}, code: ExitUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, stderr := runMain(t, tt.stdin, tt.args...)
			if code != tt.code {
				t.Fatalf("expected exit %d, got %d (stderr: %s)", tt.code, code, stderr)
			}
			if tt.stdout != "" && stdout != tt.stdout {
				t.Errorf("expected stdout %q, got %q", tt.stdout, stdout)
			}
			for _, want := range tt.stderrHas {
				if !strings.Contains(stderr, want) {
					t.Errorf("expected stderr to contain %q, got %q", want, stderr)
				}
			}
		})
	}
}

func TestVersionAndHelp(t *testing.T) {
	code, stdout, _ := runMain(t, "", "--version")
	if code != ExitOK || !strings.Contains(stdout, config.Version) {
		t.Errorf("--version: exit %d, stdout %q", code, stdout)
	}

	code, stdout, stderr := runMain(t, "", "--help")
	if code != ExitOK || !strings.Contains(stdout+stderr, "Usage:") {
		t.Errorf("--help: exit %d, output %q", code, stdout+stderr)
	}
}

func TestConfigFile(t *testing.T) {
	t.Run("found_next_to_script", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, config.ConfigFileName, "log_level: loud\n")
		script := writeFile(t, dir, "main.strm", "print(1)\n")
		code, _, stderr := runMain(t, "", script)
		if code != ExitUsage || !strings.Contains(stderr, "log_level") {
			t.Errorf("expected config error, exit %d, stderr %q", code, stderr)
		}
	})

	t.Run("explicit", func(t *testing.T) {
		dir := t.TempDir()
		cfg := writeFile(t, dir, "custom.yaml", "chunk_size: 3\ncolor: never\n")
		in := writeFile(t, dir, "in.txt", "abcdefg")
		code, stdout, stderr := runMain(t, "", "--config="+cfg, "-e", "print(len(collect(file(\""+in+"\"))))")
		if code != ExitOK {
			t.Fatalf("exit %d, stderr %q", code, stderr)
		}
		if stdout != "3\n" {
			t.Errorf("expected 3 chunks, got %q", stdout)
		}
	})

	t.Run("unknown_key", func(t *testing.T) {
		dir := t.TempDir()
		cfg := writeFile(t, dir, "custom.yaml", "chunk: 3\n")
		code, _, _ := runMain(t, "", "--config", cfg, "-e", "1")
		if code != ExitUsage {
			t.Errorf("expected exit %d, got %d", ExitUsage, code)
		}
	})
}

func TestDiagnosticsUseAbsoluteScriptPath(t *testing.T) {
	script := filepath.Join("testdata", "error.strm")
	abs, err := filepath.Abs(script)
	if err != nil {
		t.Fatal(err)
	}
	code, _, stderr := runMain(t, "", script)
	if code != ExitError {
		t.Fatalf("expected exit %d, got %d", ExitError, code)
	}
	if !strings.HasPrefix(stderr, abs+":3:2: error: ") {
		t.Errorf("expected diagnostic to start with %q, got %q", abs, stderr)
	}
}
