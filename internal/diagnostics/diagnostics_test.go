package diagnostics

import (
	"strings"
	"testing"

	"github.com/funvibe/streem/internal/token"
)

func TestPosition(t *testing.T) {
	source := "a = 1\n\tb = 2\n"
	tests := []struct {
		offset    int
		line, col int
	}{
		{0, 1, 1},
		{4, 1, 5},
		{6, 2, 1},
		{7, 2, 2},
		{len(source), 3, 1},
		{100, 3, 1},
		{-1, 0, 0},
	}
	for _, tt := range tests {
		line, col := Position(source, tt.offset)
		if line != tt.line || col != tt.col {
			t.Errorf("Position(%d) = %d:%d, want %d:%d", tt.offset, line, col, tt.line, tt.col)
		}
	}
}

func TestFormat(t *testing.T) {
	source := "x = 1\n\ty = x.z\n"

	t.Run("token_position", func(t *testing.T) {
		err := NewError(ErrR001, token.Token{Line: 2, Column: 7, Offset: 12}, "UndefinedProperty: %s", "z")
		err.File = "prog.strm"
		want := "prog.strm:2:7: error: UndefinedProperty: z\n\ty = x.z\n\t     ^\n"
		if got := Format(err, source, false); got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("offset_only", func(t *testing.T) {
		err := NewErrorAt(ErrL001, 4, "Invalid character")
		want := "<stdin>:1:5: error: Invalid character\nx = 1\n    ^\n"
		if got := Format(err, source, false); got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("no_position", func(t *testing.T) {
		err := NewErrorAt(ErrR001, -1, "interrupted")
		err.File = "prog.strm"
		if got := Format(err, source, false); got != "prog.strm: error: interrupted\n" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("trace", func(t *testing.T) {
		err := NewError(ErrR001, token.Token{Line: 1, Column: 1}, "boom")
		err.Trace = []string{"at f (1:1)", "at g (2:2)"}
		got := Format(err, source, false)
		if !strings.HasSuffix(got, "  at f (1:1)\n  at g (2:2)\n") {
			t.Errorf("trace missing from %q", got)
		}
	})

	t.Run("color", func(t *testing.T) {
		err := NewError(ErrR001, token.Token{Line: 1, Column: 3}, "boom")
		got := Format(err, source, true)
		if !strings.Contains(got, ansiRedBold+"error"+ansiReset) || !strings.Contains(got, "  "+ansiRed+"^") {
			t.Errorf("expected colored output, got %q", got)
		}
	})
}

func TestDiagnosticErrorString(t *testing.T) {
	err := NewError(ErrP002, token.Token{Line: 3, Column: 4}, "Unexpected EOF")
	if err.Error() != "[P002] 3:4: Unexpected EOF" {
		t.Errorf("unexpected %q", err.Error())
	}
	if s := NewErrorAt(ErrL001, 0, "bad").Error(); s != "[L001] bad" {
		t.Errorf("unexpected %q", s)
	}
}
