package errors

import (
	"strings"
	"testing"

	"github.com/sdv-framework/sdvidlc/internal/lexer"
)

func TestErrorOneLineForm(t *testing.T) {
	e := New(KindParse, lexer.Position{Line: 3, Column: 5}, "expected '}'", "", "door.idl")
	want := "door.idl(3,5): parse error: expected '}'"
	if got := e.Error(); got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
}

func TestErrorNoFile(t *testing.T) {
	e := New(KindInternal, lexer.Position{Line: 1, Column: 1}, "unreachable", "", "")
	if got := e.Error(); !strings.HasPrefix(got, "(1,1): internal error:") {
		t.Fatalf("Error() = %q", got)
	}
}

func TestFormatRendersCaret(t *testing.T) {
	src := "struct Door {\n  int angle\n}\n"
	e := New(KindParse, lexer.Position{Line: 2, Column: 13}, "expected ';'", src, "door.idl")
	out := e.Format(false)
	if !strings.Contains(out, "int angle") {
		t.Fatalf("Format should include the offending source line, got %q", out)
	}
	if !strings.Contains(out, "^") {
		t.Fatalf("Format should include a caret, got %q", out)
	}
}

func TestFormatWithContextIncludesSurroundingLines(t *testing.T) {
	src := "module doors {\nstruct Door {\n  int angle\n}\n}\n"
	e := New(KindSemantic, lexer.Position{Line: 3, Column: 3}, "duplicate member", src, "door.idl")
	out := e.FormatWithContext(1, false)
	if !strings.Contains(out, "struct Door") || !strings.Contains(out, "}") {
		t.Fatalf("expected context lines around line 3, got %q", out)
	}
}

func TestDiagnosticsAggregation(t *testing.T) {
	var d Diagnostics
	d.Add(nil)
	if d.HasErrors() {
		t.Fatalf("Add(nil) must not record a diagnostic")
	}
	d.Add(New(KindLex, lexer.Position{Line: 1, Column: 1}, "bad escape", "", "a.idl"))
	d.Add(New(KindParse, lexer.Position{Line: 2, Column: 1}, "unexpected token", "", "a.idl"))
	if !d.HasErrors() || len(d.Errors()) != 2 {
		t.Fatalf("expected 2 diagnostics, got %d", len(d.Errors()))
	}
	out := d.Format(false, false)
	if !strings.Contains(out, "2 error(s)") {
		t.Fatalf("expected aggregate count in output, got %q", out)
	}
}
