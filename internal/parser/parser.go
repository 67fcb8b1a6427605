// Package parser drives the lexer and token cursor to build the semantic
// entity graph.
package parser

import (
	"fmt"

	"github.com/sdv-framework/sdvidlc/internal/cursor"
	"github.com/sdv-framework/sdvidlc/internal/entity"
	cerrors "github.com/sdv-framework/sdvidlc/internal/errors"
	"github.com/sdv-framework/sdvidlc/internal/lexer"
	"github.com/sdv-framework/sdvidlc/internal/value"
)

// MetaItem is a preprocessor-meta token captured at the point it appeared
// in the unit, for pass-through to the definition emitter.
type MetaItem struct {
	Tok   lexer.Token
	Scope entity.Handle
}

// Parser builds one Arena from one compilation unit's token stream.
type Parser struct {
	arena    *entity.Arena
	builtins *entity.BuiltinTable
	cur      *cursor.Cursor
	file     string
	source   string
	diags    cerrors.Diagnostics
	scopes   []entity.Handle
	meta     []MetaItem

	// forwards maps a scoped name to its outstanding ForwardDecl handle,
	// so a later body can be collapsed onto it.
	forwards map[string]entity.Handle
}

// New creates a Parser for one file's source text, with the lexer
// configured to preserve comments for the attachment pass.
func New(file, source string) *Parser {
	arena := entity.NewArena()
	return &Parser{
		arena:    arena,
		builtins: entity.NewBuiltinTable(arena),
		cur:      cursor.New(lexer.NewWithOptions(file, source, lexer.WithPreserveComments(true))),
		file:     file,
		source:   source,
		scopes:   []entity.Handle{entity.Root},
		forwards: make(map[string]entity.Handle),
	}
}

// Arena returns the entity graph built so far.
func (p *Parser) Arena() *entity.Arena { return p.arena }

// Builtins returns the interned primitive/sequence/pointer/any table.
func (p *Parser) Builtins() *entity.BuiltinTable { return p.builtins }

// Diagnostics returns every error recorded while parsing.
func (p *Parser) Diagnostics() *cerrors.Diagnostics { return &p.diags }

// Meta returns preprocessor-meta items in source order.
func (p *Parser) Meta() []MetaItem { return p.meta }

func (p *Parser) scope() entity.Handle { return p.scopes[len(p.scopes)-1] }

func (p *Parser) pushScope(h entity.Handle) { p.scopes = append(p.scopes, h) }

func (p *Parser) popScope() { p.scopes = p.scopes[:len(p.scopes)-1] }

// errf records a parse-kind diagnostic and returns it as an error so
// callers can return immediately.
func (p *Parser) errf(pos lexer.Position, format string, args ...any) error {
	e := cerrors.New(cerrors.KindParse, pos, fmt.Sprintf(format, args...), p.source, p.file)
	p.diags.Add(e)
	return e
}

func (p *Parser) semanticErrf(pos lexer.Position, format string, args ...any) error {
	e := cerrors.New(cerrors.KindSemantic, pos, fmt.Sprintf(format, args...), p.source, p.file)
	p.diags.Add(e)
	return e
}

// expectLexeme consumes the current token if its lexeme matches, else
// leaves the cursor in place and returns false (the caller reports the
// diagnostic so it can phrase the expectation).
func (p *Parser) expectLexeme(lexeme string) bool {
	if p.cur.Current().Lexeme == lexeme {
		p.cur.Advance()
		return true
	}
	return false
}

func (p *Parser) expectKeyword(word string) bool {
	if p.cur.Current().Kind == lexer.IDENT && p.cur.Current().Lexeme == word {
		p.cur.Advance()
		return true
	}
	return false
}

// collectExprTokens gathers tokens up to (not including) the next token
// whose lexeme equals stop, honoring nested '(' '[' '{' so a stop lexeme
// inside a nested group doesn't end the collection early.
func (p *Parser) collectExprTokens(stop string) []lexer.Token {
	var toks []lexer.Token
	depth := 0
	for {
		tok := p.cur.Current()
		if tok.Kind == lexer.EOF {
			break
		}
		if depth == 0 && tok.Lexeme == stop {
			break
		}
		switch tok.Lexeme {
		case "(", "[", "{":
			depth++
		case ")", "]", "}":
			depth--
		}
		toks = append(toks, tok)
		p.cur.Advance()
	}
	return toks
}

// resolver adapts the parser's current scope to value.Resolver so the
// expression evaluator can resolve const-variable and enum-entry
// identifiers.
func (p *Parser) resolver() value.Resolver { return scopeResolver{p} }

type scopeResolver struct{ p *Parser }

func (r scopeResolver) Resolve(name string) (value.ResolvedIdent, bool) {
	h, ok := entity.Lookup(r.p.arena, r.p.scope(), name)
	if !ok {
		return value.ResolvedIdent{}, false
	}
	declaredKind := func(dt *entity.DeclType) value.Kind {
		b, ok := r.p.arena.Get(dt.Definition).(*entity.Builtin)
		switch {
		case ok && b.Prim.IsIntegral():
			return value.KindI64
		case ok && (b.Prim == entity.PrimFloat || b.Prim == entity.PrimDouble):
			return value.KindF64
		case ok && b.Prim == entity.PrimLongDouble:
			return value.KindLongDouble
		case ok && b.Prim == entity.PrimBoolean:
			return value.KindBool
		}
		return value.KindInvalid
	}
	switch d := r.p.arena.Get(h).(type) {
	case *entity.ConstVariable:
		sv, ok := d.Value().(*entity.ScalarValue)
		if !ok {
			return value.ResolvedIdent{}, false
		}
		if sv.State == entity.StateDynamic {
			return value.ResolvedIdent{Dynamic: true, Kind: declaredKind(d.Type())}, true
		}
		return value.ResolvedIdent{Value: sv.Variant, Kind: sv.Variant.Kind}, true
	case *entity.EnumEntry:
		return value.ResolvedIdent{Value: value.I64(d.NumericValue), Kind: value.KindI64}, true
	case *entity.Variable:
		return value.ResolvedIdent{Dynamic: true, Kind: declaredKind(d.Type())}, true
	default:
		return value.ResolvedIdent{}, false
	}
}

// ParseUnit parses the full token stream: `unit := { meta | definition |
// declaration | ';' }`. It does not stop at the first error: each failing
// top-level item is
// skipped to the next statement boundary so later items can still be
// checked, while the file is still reported as failed overall.
func (p *Parser) ParseUnit() error {
	for p.cur.Current().Kind != lexer.EOF {
		before := p.cur.SkipComments()
		if p.cur.Current().Kind == lexer.EOF {
			break
		}
		if p.cur.Current().Lexeme == ";" {
			p.cur.Advance()
			continue
		}
		if p.cur.Current().Kind == lexer.PREPROC {
			p.meta = append(p.meta, MetaItem{Tok: p.cur.Current(), Scope: p.scope()})
			p.cur.Advance()
			continue
		}
		h, err := p.parseTopLevelItem()
		if err != nil {
			p.recoverToStatementBoundary()
			continue
		}
		if h != 0 {
			p.arena.SetComments(h, before, nil)
			p.attachTrailingComment(h, p.cur.PreviousLine())
		}
	}
	if p.diags.HasErrors() {
		return fmt.Errorf("%d error(s) parsing %s", len(p.diags.Errors()), p.file)
	}
	return nil
}

// recoverToStatementBoundary implements the file-level recovery rule:
// skip forward to the next ';' or '}' so subsequent top-level items can
// still be checked.
func (p *Parser) recoverToStatementBoundary() {
	for {
		tok := p.cur.Current()
		if tok.Kind == lexer.EOF {
			return
		}
		if tok.Lexeme == ";" || tok.Lexeme == "}" {
			p.cur.Advance()
			return
		}
		p.cur.Advance()
	}
}

// parseTopLevelItem dispatches on the current keyword to a definition or
// falls back to a declaration statement.
func (p *Parser) parseTopLevelItem() (entity.Handle, error) {
	tok := p.cur.Current()
	if tok.Kind != lexer.IDENT {
		return 0, p.errf(tok.Pos, "unexpected token %q", tok.Lexeme)
	}
	switch tok.Lexeme {
	case "module":
		return p.parseModule()
	case "struct":
		return p.parseStruct()
	case "exception":
		return p.parseException()
	case "enum":
		return p.parseEnum()
	case "union":
		return p.parseUnion()
	case "interface":
		return p.parseInterface()
	case "typedef":
		return p.parseTypedef()
	default:
		return p.parseDeclStatement()
	}
}
