package parser

import (
	"github.com/sdv-framework/sdvidlc/internal/entity"
	"github.com/sdv-framework/sdvidlc/internal/lexer"
	"github.com/sdv-framework/sdvidlc/internal/value"
)

// parseModule parses `module Name { unit-items }`.
// A module reopens an existing module of the same name in the same scope
// rather than erroring, matching C++ namespace semantics.
func (p *Parser) parseModule() (entity.Handle, error) {
	p.cur.Advance() // 'module'
	nameTok := p.cur.Current()
	if nameTok.Kind != lexer.IDENT {
		return 0, p.errf(nameTok.Pos, "expected module name")
	}
	p.cur.Advance()

	var h entity.Handle
	if existing, ok := p.arena.FindChildByName(p.scope(), nameTok.Lexeme); ok {
		if _, isModule := p.arena.Get(existing).(*entity.Module); isModule {
			h = existing
		}
	}
	if h == 0 {
		h = p.arena.Alloc(&entity.Module{Base: entity.NewBase(nameTok.Lexeme, nameTok.Pos)})
		p.arena.AddChild(p.scope(), h)
	}

	if !p.expectLexeme("{") {
		return 0, p.errf(p.cur.Current().Pos, "expected '{' after module name")
	}
	p.pushScope(h)
	for p.cur.Current().Lexeme != "}" && p.cur.Current().Kind != lexer.EOF {
		before := p.cur.SkipComments()
		if p.cur.Current().Lexeme == "}" {
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
		child, err := p.parseTopLevelItem()
		if err != nil {
			p.popScope()
			return h, err
		}
		if child != 0 {
			p.arena.SetComments(child, before, nil)
			p.attachTrailingComment(child, p.cur.PreviousLine())
		}
	}
	p.popScope()
	if !p.expectLexeme("}") {
		return h, p.errf(p.cur.Current().Pos, "expected '}' to close module %q", nameTok.Lexeme)
	}
	p.expectLexeme(";")
	return h, nil
}

// parseStruct parses a struct definition or forward declaration.
func (p *Parser) parseStruct() (entity.Handle, error) {
	p.cur.Advance() // 'struct'
	return p.parseRecordLike(entity.DefStruct)
}

// parseRecordLike implements the shared struct/exception grammar: an
// optional name, an optional `: Base1, Base2` list, and either a `{...}`
// body or a `;` forward declaration.
func (p *Parser) parseRecordLike(kind entity.DefKind) (entity.Handle, error) {
	nameTok := p.cur.Current()
	named := nameTok.Kind == lexer.IDENT && nameTok.Lexeme != "{" && nameTok.Lexeme != ":"
	name := ""
	pos := nameTok.Pos
	if named {
		name = nameTok.Lexeme
		p.cur.Advance()
	}

	var bases []string
	if p.cur.Current().Lexeme == ":" {
		p.cur.Advance()
		for {
			bases = append(bases, p.parseScopedName())
			if p.cur.Current().Lexeme != "," {
				break
			}
			p.cur.Advance()
		}
	}

	if p.cur.Current().Lexeme == ";" {
		// Forward declaration.
		h := p.arena.Alloc(&entity.ForwardDecl{Base: entity.NewBase(name, pos), Target: kind})
		p.arena.AddChild(p.scope(), h)
		if name != "" {
			p.forwards[p.arena.ScopedName(h)] = h
		}
		p.cur.Advance()
		return h, nil
	}

	if !p.expectLexeme("{") {
		return 0, p.errf(p.cur.Current().Pos, "expected '{' or ';'")
	}

	baseHandles, err := p.resolveBases(bases)
	if err != nil {
		return 0, err
	}

	var h entity.Handle
	switch kind {
	case entity.DefStruct:
		h = p.arena.Alloc(&entity.Struct{Base: entity.NewBase(name, pos), Named: named, Bases: baseHandles})
	case entity.DefException:
		h = p.arena.Alloc(&entity.Exception{Base: entity.NewBase(name, pos), Named: named, Bases: baseHandles})
	}
	p.arena.AddChild(p.scope(), h)

	if err := entity.CheckInheritanceDAG(p.arena, h, baseHandles); err != nil {
		return h, p.semanticErrf(pos, "%v", err)
	}

	if fwd, ok := p.forwards[p.arena.ScopedName(h)]; ok {
		p.arena.Complete(fwd, h)
		delete(p.forwards, p.arena.ScopedName(h))
	}

	p.pushScope(h)
	err = p.parseMemberList(kind)
	p.popScope()
	if err != nil {
		return h, err
	}

	if !p.expectLexeme("}") {
		return h, p.errf(p.cur.Current().Pos, "expected '}' to close %s %q", kind, name)
	}
	p.expectLexeme(";")
	return h, nil
}

func (p *Parser) resolveBases(names []string) ([]entity.Handle, error) {
	var handles []entity.Handle
	for _, n := range names {
		h, ok := entity.Lookup(p.arena, p.scope(), n)
		if !ok {
			return nil, p.semanticErrf(p.cur.Current().Pos, "undefined base %q", n)
		}
		handles = append(handles, h)
	}
	return handles, nil
}

// parseMemberList parses the body of a struct/exception: a sequence of
// member variable declarations, nested definitions, or unions, until the
// closing '}' (not consumed here).
func (p *Parser) parseMemberList(kind entity.DefKind) error {
	for p.cur.Current().Lexeme != "}" && p.cur.Current().Kind != lexer.EOF {
		before := p.cur.SkipComments()
		if p.cur.Current().Lexeme == "}" {
			break
		}
		if p.cur.Current().Lexeme == ";" {
			p.cur.Advance()
			continue
		}
		var child entity.Handle
		var err error
		switch p.cur.Current().Lexeme {
		case "union":
			child, err = p.parseUnion()
		case "struct":
			p.cur.Advance()
			child, err = p.parseRecordLike(entity.DefStruct)
		case "enum":
			child, err = p.parseEnum()
		default:
			child, err = p.parseDeclStatement()
		}
		if err != nil {
			return err
		}
		if child != 0 {
			p.arena.SetComments(child, before, nil)
			p.attachTrailingComment(child, p.cur.PreviousLine())
		}
	}
	return nil
}

// parseException parses `exception [Name] [: Bases] { members } ;`: a
// struct whose first hidden member is a description string.
func (p *Parser) parseException() (entity.Handle, error) {
	p.cur.Advance() // 'exception'
	return p.parseRecordLike(entity.DefException)
}

// parseTypedef parses `typedef T Name [dims] ;`.
func (p *Parser) parseTypedef() (entity.Handle, error) {
	p.cur.Advance() // 'typedef'
	target, err := p.parseTypeRef()
	if err != nil {
		return 0, err
	}
	nameTok := p.cur.Current()
	if nameTok.Kind != lexer.IDENT {
		return 0, p.errf(nameTok.Pos, "expected typedef name")
	}
	p.cur.Advance()
	dims, err := p.parseArrayDims()
	if err != nil {
		return 0, err
	}
	if !p.expectLexeme(";") {
		return 0, p.errf(p.cur.Current().Pos, "expected ';' after typedef")
	}
	h := p.arena.Alloc(&entity.Typedef{
		Base:   entity.NewBase(nameTok.Lexeme, nameTok.Pos),
		Target: entity.DeclType{Definition: target, Dims: dims},
	})
	p.arena.AddChild(p.scope(), h)
	return h, nil
}

// parseEnum parses `enum [Name] [: underlying] { entries } ;` — the
// underlying type defaults to int32 when omitted.
func (p *Parser) parseEnum() (entity.Handle, error) {
	p.cur.Advance() // 'enum'
	nameTok := p.cur.Current()
	named := nameTok.Kind == lexer.IDENT && nameTok.Lexeme != "{" && nameTok.Lexeme != ":"
	name := ""
	pos := nameTok.Pos
	if named {
		name = nameTok.Lexeme
		p.cur.Advance()
	}

	underlying := p.builtins.Prim(entity.PrimInt32)
	if p.cur.Current().Lexeme == ":" {
		p.cur.Advance()
		u, err := p.parseTypeRef()
		if err != nil {
			return 0, err
		}
		underlying = u
		if b, ok := p.arena.Get(u).(*entity.Builtin); !ok || !b.Prim.IsIntegral() {
			return 0, p.semanticErrf(pos, "enum underlying type must be integral")
		}
	}

	if p.cur.Current().Lexeme == ";" {
		h := p.arena.Alloc(&entity.ForwardDecl{Base: entity.NewBase(name, pos), Target: entity.DefEnum})
		p.arena.AddChild(p.scope(), h)
		p.cur.Advance()
		return h, nil
	}

	if !p.expectLexeme("{") {
		return 0, p.errf(p.cur.Current().Pos, "expected '{' or ';' after enum name")
	}

	h := p.arena.Alloc(&entity.Enum{Base: entity.NewBase(name, pos), Named: named, Underlying: entity.DeclType{Definition: underlying}})
	p.arena.AddChild(p.scope(), h)

	used := map[int64]bool{}
	maxUsed := int64(-1)
	for p.cur.Current().Lexeme != "}" && p.cur.Current().Kind != lexer.EOF {
		before := p.cur.SkipComments()
		if p.cur.Current().Lexeme == "}" {
			break
		}
		entryTok := p.cur.Current()
		if entryTok.Kind != lexer.IDENT {
			return h, p.errf(entryTok.Pos, "expected enum entry name")
		}
		p.cur.Advance()

		explicit := false
		numeric := int64(0)
		if p.cur.Current().Lexeme == "=" {
			p.cur.Advance()
			toks := p.collectExprTokens(",")
			res, err := value.Evaluate(toks, p.resolver())
			if err != nil {
				return h, p.semanticErrf(entryTok.Pos, "enum entry value: %v", err)
			}
			if res.Dynamic {
				return h, p.semanticErrf(entryTok.Pos, "enum entry value must be a constant expression")
			}
			n, err := res.Value.AsInt64()
			if err != nil {
				return h, p.semanticErrf(entryTok.Pos, "enum entry value: %v", err)
			}
			numeric = n
			explicit = true
		} else {
			numeric = entity.NextEnumValue(used, maxUsed)
		}
		used[numeric] = true
		if numeric > maxUsed {
			maxUsed = numeric
		}

		entryH := p.arena.Alloc(&entity.EnumEntry{Base: entity.NewBase(entryTok.Lexeme, entryTok.Pos), NumericValue: numeric, Explicit: explicit})
		p.arena.AddChild(h, entryH)
		p.arena.SetComments(entryH, before, nil)

		if p.cur.Current().Lexeme == "," {
			p.cur.Advance()
		}
	}
	if err := entity.CheckEnumUniqueness(p.arena, h); err != nil {
		return h, p.semanticErrf(pos, "%v", err)
	}
	if !p.expectLexeme("}") {
		return h, p.errf(p.cur.Current().Pos, "expected '}' to close enum %q", name)
	}
	p.expectLexeme(";")
	return h, nil
}
