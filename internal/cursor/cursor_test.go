package cursor

import (
	"testing"

	"github.com/sdv-framework/sdvidlc/internal/lexer"
)

func TestCursor_PeekAndAdvance(t *testing.T) {
	c := New(lexer.New("t.idl", "struct Foo { int32 bar; };"))
	if c.Current().Lexeme != "struct" {
		t.Fatalf("got %q, want struct", c.Current().Lexeme)
	}
	if got := c.Peek(1).Lexeme; got != "Foo" {
		t.Errorf("Peek(1) = %q, want Foo", got)
	}
	if got := c.Peek(2).Lexeme; got != "{" {
		t.Errorf("Peek(2) = %q, want {", got)
	}
	c.Advance()
	if c.Current().Lexeme != "Foo" {
		t.Errorf("after Advance, got %q, want Foo", c.Current().Lexeme)
	}
}

func TestCursor_MarkReset(t *testing.T) {
	c := New(lexer.New("t.idl", "a b c"))
	m := c.Mark()
	c.Advance()
	c.Advance()
	if c.Current().Lexeme != "c" {
		t.Fatalf("got %q, want c", c.Current().Lexeme)
	}
	c.Reset(m)
	if c.Current().Lexeme != "a" {
		t.Errorf("after Reset, got %q, want a", c.Current().Lexeme)
	}
}

func TestCursor_AdvancePastEOFIsNoOp(t *testing.T) {
	c := New(lexer.New("t.idl", "a"))
	c.Advance()
	if c.Current().Kind != lexer.EOF {
		t.Fatalf("expected EOF, got %v", c.Current().Kind)
	}
	c.Advance()
	if c.Current().Kind != lexer.EOF {
		t.Fatalf("expected EOF after extra Advance, got %v", c.Current().Kind)
	}
}
