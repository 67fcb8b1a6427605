package parser

import (
	"github.com/sdv-framework/sdvidlc/internal/entity"
	"github.com/sdv-framework/sdvidlc/internal/lexer"
)

// attachTrailingComment binds a same-line succeeding comment to h: a
// comment starting on the same line as the end of a declaration binds to
// that declaration rather than to whatever follows it. lastLine is the
// source line of the last token consumed for h (typically its closing
// ';' or '}').
func (p *Parser) attachTrailingComment(h entity.Handle, lastLine int) {
	if p.cur.Current().Kind != lexer.COMMENT {
		return
	}
	if p.cur.Current().Pos.Line != lastLine {
		return
	}
	tok := p.cur.Current()
	p.cur.Advance()
	p.arena.SetComments(h, p.arena.Get(h).CommentsBefore(), []lexer.Token{tok})
}
