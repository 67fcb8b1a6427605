// Package cursor provides a random-access, rewindable token stream (T in
// the compiler's component design) over an internal/lexer.Lexer.
//
// It buffers tokens as they are pulled from the lexer so the parser can
// Peek an arbitrary distance ahead and Mark/Reset to backtrack, without
// re-lexing. The parser uses a bounded lookahead of k<=4 to distinguish
// declaration vs. definition vs. assignment at each recursion point.
package cursor

import "github.com/sdv-framework/sdvidlc/internal/lexer"

// Cursor is a buffered, peekable view over a token stream.
type Cursor struct {
	lex    *lexer.Lexer
	tokens []lexer.Token
	index  int
}

// New creates a Cursor positioned at the first token of lex.
func New(lex *lexer.Lexer) *Cursor {
	first := lex.NextToken()
	tokens := make([]lexer.Token, 1, 32)
	tokens[0] = first
	return &Cursor{lex: lex, tokens: tokens}
}

// Current returns the token at the cursor's current position.
func (c *Cursor) Current() lexer.Token { return c.tokens[c.index] }

// Peek returns the token n positions ahead of the current position.
// Peek(0) is equivalent to Current().
func (c *Cursor) Peek(n int) lexer.Token {
	if n < 0 {
		return c.Current()
	}
	target := c.index + n
	c.fill(target)
	if target >= len(c.tokens) {
		return c.tokens[len(c.tokens)-1] // EOF
	}
	return c.tokens[target]
}

func (c *Cursor) fill(target int) {
	for target >= len(c.tokens) {
		last := c.tokens[len(c.tokens)-1]
		if last.Kind == lexer.EOF {
			return
		}
		c.tokens = append(c.tokens, c.lex.NextToken())
	}
}

// Advance moves the cursor forward by one token and returns the new
// current token. Advancing past EOF is a no-op.
func (c *Cursor) Advance() lexer.Token {
	if c.Current().Kind != lexer.EOF {
		c.fill(c.index + 1)
		if c.index+1 < len(c.tokens) {
			c.index++
		}
	}
	return c.Current()
}

// PreviousLine returns the source line of the token immediately before
// the cursor's current position, or 0 if the cursor is at the start of
// the stream. Used for same-line trailing-comment attachment.
func (c *Cursor) PreviousLine() int {
	if c.index == 0 {
		return 0
	}
	return c.tokens[c.index-1].Pos.Line
}

// Mark is an opaque cursor position usable with Reset.
type Mark int

// Mark returns the cursor's current position for later Reset.
func (c *Cursor) Mark() Mark { return Mark(c.index) }

// Reset rewinds the cursor to a previously captured Mark.
func (c *Cursor) Reset(m Mark) { c.index = int(m) }

// Is reports whether the current token has the given kind and lexeme.
func (c *Cursor) Is(kind lexer.Kind, lexeme string) bool {
	t := c.Current()
	return t.Kind == kind && t.Lexeme == lexeme
}

// IsKind reports whether the current token has the given kind.
func (c *Cursor) IsKind(kind lexer.Kind) bool {
	return c.Current().Kind == kind
}

// IsAny reports whether the current token's lexeme matches any of the
// given candidates, regardless of kind.
func (c *Cursor) IsAny(lexemes ...string) bool {
	cur := c.Current().Lexeme
	for _, l := range lexemes {
		if cur == l {
			return true
		}
	}
	return false
}

// SkipComments advances past any buffered COMMENT tokens, returning the
// comments it skipped in source order. Used by the parser's comment
// attachment pass when the lexer was built with
// lexer.WithPreserveComments(true).
func (c *Cursor) SkipComments() []lexer.Token {
	var comments []lexer.Token
	for c.Current().Kind == lexer.COMMENT {
		comments = append(comments, c.Current())
		c.Advance()
	}
	return comments
}
