// Package codegen provides the generator framework shared by the
// definition, proxy/stub, serdes, and build-descriptor emitters: an
// output-path computer, a file-header renderer, an indentation engine,
// a keyword templater, and a per-file streaming context.
package codegen

import (
	"fmt"
	"strings"

	"github.com/sdv-framework/sdvidlc/internal/entity"
)

// IndentWidth is the fixed number of spaces per indent level.
const IndentWidth = 4

// Stream accumulates emitted text at a tracked indent level.
type Stream struct {
	b      strings.Builder
	indent int
	atBOL  bool
}

// NewStream returns an empty Stream starting at column zero.
func NewStream() *Stream { return &Stream{atBOL: true} }

// Indent increases the current indent level by one.
func (s *Stream) Indent() { s.indent++ }

// Dedent decreases the current indent level by one, floored at zero.
func (s *Stream) Dedent() {
	if s.indent > 0 {
		s.indent--
	}
}

// Line writes one line of text at the current indent level, followed by
// a newline.
func (s *Stream) Line(format string, args ...any) {
	s.writeIndent()
	fmt.Fprintf(&s.b, format, args...)
	s.b.WriteByte('\n')
	s.atBOL = true
}

// Blank writes an empty line (no indentation).
func (s *Stream) Blank() {
	s.b.WriteByte('\n')
	s.atBOL = true
}

// Raw writes text verbatim, with no indentation applied and no trailing
// newline added — used for passed-through verbatim blocks.
func (s *Stream) Raw(text string) {
	s.b.WriteString(text)
	s.atBOL = strings.HasSuffix(text, "\n")
}

func (s *Stream) writeIndent() {
	if !s.atBOL {
		return
	}
	s.b.WriteString(strings.Repeat(" ", s.indent*IndentWidth))
	s.atBOL = false
}

// String returns the accumulated text.
func (s *Stream) String() string { return s.b.String() }

// Context carries the per-scope state threaded through one generator's
// walk of the entity graph: the current scoped name, the output streams,
// and the forward-declaration set collected for the file preface
// forward declarations are collected in first-use order.
type Context struct {
	Arena    *entity.Arena
	Preface  *Stream
	Body     *Stream
	forwards []entity.Handle
	seenFwd  map[entity.Handle]bool
}

// NewContext creates a Context over arena with empty preface/body streams.
func NewContext(a *entity.Arena) *Context {
	return &Context{
		Arena:   a,
		Preface: NewStream(),
		Body:    NewStream(),
		seenFwd: make(map[entity.Handle]bool),
	}
}

// RequireForward records that h needs a forward declaration in the file
// preface, in first-use order, and returns whether it was newly added.
func (c *Context) RequireForward(h entity.Handle) bool {
	if c.seenFwd[h] {
		return false
	}
	c.seenFwd[h] = true
	c.forwards = append(c.forwards, h)
	return true
}

// Forwards returns the recorded forward-declaration handles in first-use
// order.
func (c *Context) Forwards() []entity.Handle { return c.forwards }

// ScopedName renders h's fully qualified name using the entity tree.
func (c *Context) ScopedName(h entity.Handle) string { return c.Arena.ScopedName(h) }
