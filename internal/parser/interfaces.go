package parser

import (
	"github.com/sdv-framework/sdvidlc/internal/entity"
	"github.com/sdv-framework/sdvidlc/internal/lexer"
)

// parseInterface parses `interface [local] Name [: Bases] { members } ;`.
// A `local` interface is never marshaled: the proxy/stub and serdes
// emitters skip it entirely.
func (p *Parser) parseInterface() (entity.Handle, error) {
	p.cur.Advance() // 'interface'
	local := false
	if p.cur.Current().Lexeme == "local" {
		local = true
		p.cur.Advance()
	}

	nameTok := p.cur.Current()
	named := nameTok.Kind == lexer.IDENT
	name := ""
	pos := nameTok.Pos
	if named {
		name = nameTok.Lexeme
		p.cur.Advance()
	}

	var baseNames []string
	if p.cur.Current().Lexeme == ":" {
		p.cur.Advance()
		for {
			baseNames = append(baseNames, p.parseScopedName())
			if p.cur.Current().Lexeme != "," {
				break
			}
			p.cur.Advance()
		}
	}

	if p.cur.Current().Lexeme == ";" {
		h := p.arena.Alloc(&entity.ForwardDecl{Base: entity.NewBase(name, pos), Target: entity.DefInterface})
		p.arena.AddChild(p.scope(), h)
		if name != "" {
			p.forwards[p.arena.ScopedName(h)] = h
		}
		p.cur.Advance()
		return h, nil
	}

	if !p.expectLexeme("{") {
		return 0, p.errf(p.cur.Current().Pos, "expected '{' or ';' after interface name")
	}

	bases, err := p.resolveBases(baseNames)
	if err != nil {
		return 0, err
	}

	h := p.arena.Alloc(&entity.Interface{Base: entity.NewBase(name, pos), Named: named, Bases: bases, Local: local})
	p.arena.AddChild(p.scope(), h)

	if err := entity.CheckInheritanceDAG(p.arena, h, bases); err != nil {
		return h, p.semanticErrf(pos, "%v", err)
	}

	if fwd, ok := p.forwards[p.arena.ScopedName(h)]; ok {
		p.arena.Complete(fwd, h)
		delete(p.forwards, p.arena.ScopedName(h))
	}

	p.pushScope(h)
	err = p.parseInterfaceBody()
	p.popScope()
	if err != nil {
		return h, err
	}

	if !p.expectLexeme("}") {
		return h, p.errf(p.cur.Current().Pos, "expected '}' to close interface %q", name)
	}
	p.expectLexeme(";")
	return h, nil
}

// parseInterfaceBody parses a sequence of attribute and operation members.
func (p *Parser) parseInterfaceBody() error {
	for p.cur.Current().Lexeme != "}" && p.cur.Current().Kind != lexer.EOF {
		before := p.cur.SkipComments()
		if p.cur.Current().Lexeme == "}" {
			break
		}
		if p.cur.Current().Lexeme == ";" {
			p.cur.Advance()
			continue
		}
		var h entity.Handle
		var err error
		if p.cur.Current().Lexeme == "attribute" || p.cur.Current().Lexeme == "readonly" {
			h, err = p.parseAttribute()
		} else {
			h, err = p.parseOperation()
		}
		if err != nil {
			return err
		}
		if h != 0 {
			p.arena.SetComments(h, before, nil)
			p.attachTrailingComment(h, p.cur.PreviousLine())
		}
	}
	return nil
}

// parseAttribute parses `[readonly] attribute T name [getraises (...)] [setraises (...)] ;`.
func (p *Parser) parseAttribute() (entity.Handle, error) {
	readOnly := false
	if p.cur.Current().Lexeme == "readonly" {
		readOnly = true
		p.cur.Advance()
	}
	if !p.expectKeyword("attribute") {
		return 0, p.errf(p.cur.Current().Pos, "expected 'attribute'")
	}
	typeH, err := p.parseTypeRef()
	if err != nil {
		return 0, err
	}
	nameTok := p.cur.Current()
	if nameTok.Kind != lexer.IDENT {
		return 0, p.errf(nameTok.Pos, "expected attribute name")
	}
	p.cur.Advance()

	var getRaises, setRaises []entity.Handle
	if p.cur.Current().Lexeme == "getraises" {
		p.cur.Advance()
		getRaises, err = p.parseExceptionList()
		if err != nil {
			return 0, err
		}
	}
	if !readOnly && p.cur.Current().Lexeme == "setraises" {
		p.cur.Advance()
		setRaises, err = p.parseExceptionList()
		if err != nil {
			return 0, err
		}
	}
	if !p.expectLexeme(";") {
		return 0, p.errf(p.cur.Current().Pos, "expected ';' after attribute %q", nameTok.Lexeme)
	}

	h := p.arena.Alloc(&entity.Attribute{
		Base:          entity.NewBase(nameTok.Lexeme, nameTok.Pos),
		DeclTypeValue: entity.DeclType{Definition: typeH},
		ReadOnly:      readOnly,
		GetRaises:     getRaises,
		SetRaises:     setRaises,
	})
	p.arena.AddChild(p.scope(), h)
	return h, nil
}

// parseOperation parses `T name ( params ) [raises (...)] ;`. A `void` return type is represented by the interned PrimVoid
// builtin rather than a nil handle, so Operation.Type() is always valid.
func (p *Parser) parseOperation() (entity.Handle, error) {
	retType, err := p.parseTypeRef()
	if err != nil {
		return 0, err
	}
	nameTok := p.cur.Current()
	if nameTok.Kind != lexer.IDENT {
		return 0, p.errf(nameTok.Pos, "expected operation name")
	}
	p.cur.Advance()

	if !p.expectLexeme("(") {
		return 0, p.errf(p.cur.Current().Pos, "expected '(' after operation name %q", nameTok.Lexeme)
	}
	h := p.arena.Alloc(&entity.Operation{Base: entity.NewBase(nameTok.Lexeme, nameTok.Pos), ReturnType: entity.DeclType{Definition: retType}})
	p.arena.AddChild(p.scope(), h)

	if p.cur.Current().Lexeme != ")" {
		for {
			param, err := p.parseParameter()
			if err != nil {
				return h, err
			}
			p.arena.AddChild(h, param)
			if p.cur.Current().Lexeme != "," {
				break
			}
			p.cur.Advance()
		}
	}
	if !p.expectLexeme(")") {
		return h, p.errf(p.cur.Current().Pos, "expected ')' to close parameter list of %q", nameTok.Lexeme)
	}

	var raises []entity.Handle
	if p.cur.Current().Lexeme == "raises" {
		p.cur.Advance()
		raises, err = p.parseExceptionList()
		if err != nil {
			return h, err
		}
	}
	op := p.arena.Get(h).(*entity.Operation)
	op.Raises = raises
	// op.Params mirrors the child list for the generators' convenience.
	for _, c := range p.arena.Children(h) {
		if _, ok := p.arena.Get(c).(*entity.Parameter); ok {
			op.Params = append(op.Params, c)
		}
	}

	if !p.expectLexeme(";") {
		return h, p.errf(p.cur.Current().Pos, "expected ';' after operation %q", nameTok.Lexeme)
	}
	return h, nil
}

func (p *Parser) parseParameter() (entity.Handle, error) {
	dir := entity.DirIn
	switch p.cur.Current().Lexeme {
	case "in":
		p.cur.Advance()
	case "out":
		dir = entity.DirOut
		p.cur.Advance()
	case "inout":
		dir = entity.DirInOut
		p.cur.Advance()
	}
	typeH, err := p.parseTypeRef()
	if err != nil {
		return 0, err
	}
	nameTok := p.cur.Current()
	if nameTok.Kind != lexer.IDENT {
		return 0, p.errf(nameTok.Pos, "expected parameter name")
	}
	p.cur.Advance()
	return p.arena.Alloc(&entity.Parameter{
		Base:          entity.NewBase(nameTok.Lexeme, nameTok.Pos),
		DeclTypeValue: entity.DeclType{Definition: typeH},
		Direction:     dir,
	}), nil
}

// parseExceptionList parses `( X1, X2 )`, resolving each to an Exception
// definition.
func (p *Parser) parseExceptionList() ([]entity.Handle, error) {
	if !p.expectLexeme("(") {
		return nil, p.errf(p.cur.Current().Pos, "expected '(' to begin exception list")
	}
	var handles []entity.Handle
	if p.cur.Current().Lexeme != ")" {
		for {
			name := p.parseScopedName()
			h, ok := entity.Lookup(p.arena, p.scope(), name)
			if !ok {
				return nil, p.semanticErrf(p.cur.Current().Pos, "undefined exception %q", name)
			}
			handles = append(handles, h)
			if p.cur.Current().Lexeme != "," {
				break
			}
			p.cur.Advance()
		}
	}
	if !p.expectLexeme(")") {
		return nil, p.errf(p.cur.Current().Pos, "expected ')' to close exception list")
	}
	return handles, nil
}
