package lexer

import "testing"

func collectKinds(l *Lexer) []Kind {
	var kinds []Kind
	for {
		tok := l.NextToken()
		kinds = append(kinds, tok.Kind)
		if tok.Kind == EOF {
			return kinds
		}
	}
}

func TestNextToken_Identifiers(t *testing.T) {
	l := New("t.idl", "struct Foo { int32 bar; };")
	var lexemes []string
	for {
		tok := l.NextToken()
		if tok.Kind == EOF {
			break
		}
		lexemes = append(lexemes, tok.Lexeme)
	}
	want := []string{"struct", "Foo", "{", "int32", "bar", ";", "}", ";"}
	if len(lexemes) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(lexemes), len(want), lexemes)
	}
	for i, w := range want {
		if lexemes[i] != w {
			t.Errorf("token %d: got %q want %q", i, lexemes[i], w)
		}
	}
}

func TestNextToken_IntegerLiterals(t *testing.T) {
	tests := []struct {
		src     string
		wantInt uint64
		sfx     IntSuffix
	}{
		{"123", 123, SuffixNone},
		{"0x1F", 0x1F, SuffixNone},
		{"010", 8, SuffixNone},
		{"0b101", 5, SuffixNone},
		{"100u", 100, SuffixU},
		{"100ull", 100, SuffixULL},
	}
	for _, tt := range tests {
		l := New("t.idl", tt.src)
		tok := l.NextToken()
		if tok.Kind != INT {
			t.Fatalf("%q: got kind %v, want INT", tt.src, tok.Kind)
		}
		if tok.Literal.Int != tt.wantInt {
			t.Errorf("%q: got value %d, want %d", tt.src, tok.Literal.Int, tt.wantInt)
		}
		if tok.Literal.IntSfx != tt.sfx {
			t.Errorf("%q: got suffix %v, want %v", tt.src, tok.Literal.IntSfx, tt.sfx)
		}
	}
}

func TestNextToken_MulticharCharLiteral(t *testing.T) {
	l := New("t.idl", "'DCBA'")
	tok := l.NextToken()
	if tok.Kind != CHAR {
		t.Fatalf("got kind %v, want CHAR", tok.Kind)
	}
	if uint32(tok.Literal.Rune) != 0x44434241 {
		t.Errorf("got %#x, want 0x44434241", uint32(tok.Literal.Rune))
	}
}

func TestNextToken_EncodedStringLiteralsConcatenate(t *testing.T) {
	l := New("t.idl", `"foo" "bar"`)
	tok := l.NextToken()
	if tok.Kind != STRING || tok.Literal.Str != "foobar" {
		t.Fatalf("got %q, want concatenated \"foobar\"", tok.Literal.Str)
	}
}

func TestNextToken_MixedEncodingConcatenationErrors(t *testing.T) {
	l := New("t.idl", `"foo" L"bar"`)
	l.NextToken()
	if len(l.Errors()) == 0 {
		t.Fatalf("expected a lex error for mixed-encoding concatenation")
	}
}

func TestNextToken_CommentStyles(t *testing.T) {
	tests := []struct {
		src   string
		style CommentStyle
	}{
		{"// line\n", CommentCppLine},
		{"/// doc\n", CommentCppLineDoc},
		{"//! qt\n", CommentCppLineQt},
		{"/* block */", CommentCBlock},
		{"/** doc */", CommentCBlockDoc},
		{"/*! qt */", CommentCBlockQt},
	}
	for _, tt := range tests {
		l := NewWithOptions("t.idl", tt.src, WithPreserveComments(true))
		tok := l.NextToken()
		if tok.Kind != COMMENT {
			t.Fatalf("%q: got kind %v, want COMMENT", tt.src, tok.Kind)
		}
		if tok.CommentStyle != tt.style {
			t.Errorf("%q: got style %v, want %v", tt.src, tok.CommentStyle, tt.style)
		}
	}
}

func TestNextToken_IncludeDirective(t *testing.T) {
	l := New("t.idl", `#include "other.idl"` + "\n")
	tok := l.NextToken()
	if tok.Kind != PREPROC {
		t.Fatalf("got kind %v, want PREPROC", tok.Kind)
	}
	d := ParseDirective(tok.Lexeme)
	if d.Kind != DirInclude || d.Target != "other.idl" || d.IsSystem {
		t.Errorf("got %+v", d)
	}
}

func TestNextToken_SkipIfZeroBlock(t *testing.T) {
	src := "#if 0\nstruct Hidden {};\n#endif\nstruct Visible {};"
	l := New("t.idl", src)
	kinds := collectKinds(l)
	// PREPROC, IDENT(struct), IDENT(Visible), PUNCT({), PUNCT(}), PUNCT(;), EOF
	if kinds[0] != PREPROC {
		t.Fatalf("expected leading PREPROC token, got %v", kinds[0])
	}
	found := false
	l2 := New("t.idl", src)
	for {
		tok := l2.NextToken()
		if tok.Kind == EOF {
			break
		}
		if tok.Lexeme == "Hidden" {
			t.Fatalf("skip-block content leaked through: saw %q", tok.Lexeme)
		}
		if tok.Lexeme == "Visible" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected to see Visible struct after skip block")
	}
}

func TestNextToken_UnterminatedStringIsError(t *testing.T) {
	l := New("t.idl", `"unterminated`)
	l.NextToken()
	if len(l.Errors()) == 0 {
		t.Fatalf("expected lex error for unterminated string")
	}
}

func TestNextToken_OperatorsAndPunctuation(t *testing.T) {
	l := New("t.idl", "<= >= << >> == != && || :: ~")
	var got []string
	for {
		tok := l.NextToken()
		if tok.Kind == EOF {
			break
		}
		got = append(got, tok.Lexeme)
	}
	want := []string{"<=", ">=", "<<", ">>", "==", "!=", "&&", "||", "::", "~"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %q want %q", i, got[i], want[i])
		}
	}
}
