package parser

import (
	"github.com/sdv-framework/sdvidlc/internal/entity"
	"github.com/sdv-framework/sdvidlc/internal/lexer"
	"github.com/sdv-framework/sdvidlc/internal/value"
)

// parseDeclStatement parses `[ 'const' ] type decl_item { ',' decl_item } ';'`.
// Each decl_item becomes its own Variable or ConstVariable child of the
// current scope, sharing the declared type.
func (p *Parser) parseDeclStatement() (entity.Handle, error) {
	isConst := false
	if p.cur.Current().Lexeme == "const" {
		isConst = true
		p.cur.Advance()
	}

	typeH, err := p.parseTypeRef()
	if err != nil {
		return 0, err
	}
	readOnly := false
	if p.cur.Current().Lexeme == "readonly" {
		readOnly = true
		p.cur.Advance()
	}

	var last entity.Handle
	for {
		h, err := p.parseDeclItem(typeH, readOnly, isConst)
		if err != nil {
			return last, err
		}
		last = h
		if p.cur.Current().Lexeme != "," {
			break
		}
		p.cur.Advance()
	}
	if !p.expectLexeme(";") {
		return last, p.errf(p.cur.Current().Pos, "expected ';' to end declaration")
	}
	return last, nil
}

func (p *Parser) parseDeclItem(typeH entity.Handle, readOnly, isConst bool) (entity.Handle, error) {
	nameTok := p.cur.Current()
	if nameTok.Kind != lexer.IDENT {
		return 0, p.errf(nameTok.Pos, "expected declaration name")
	}
	p.cur.Advance()

	dims, err := p.parseArrayDims()
	if err != nil {
		return 0, err
	}
	declType := entity.DeclType{Definition: typeH, Dims: dims, ReadOnly: readOnly}

	var valueNode entity.ValueNode
	if p.cur.Current().Lexeme == "=" {
		p.cur.Advance()
		init, err := p.parseInitializerSyntax()
		if err != nil {
			return 0, err
		}
		valueNode, err = p.buildValueNode(declType, init)
		if err != nil {
			return 0, err
		}
	} else if isConst {
		return 0, p.semanticErrf(nameTok.Pos, "const declaration %q requires an initializer", nameTok.Lexeme)
	}

	var h entity.Handle
	if isConst {
		h = p.arena.Alloc(&entity.ConstVariable{Base: entity.NewBase(nameTok.Lexeme, nameTok.Pos), DeclTypeValue: declType, ValueNodeV: valueNode})
	} else {
		h = p.arena.Alloc(&entity.Variable{Base: entity.NewBase(nameTok.Lexeme, nameTok.Pos), DeclTypeValue: declType, ValueNodeV: valueNode})
	}
	p.arena.AddChild(p.scope(), h)
	return h, nil
}

// initSyntax is the parsed shape of an initializer, before it is resolved
// against a declared type: either a brace-delimited list of nested
// initializers, or a leaf token run to be evaluated as an expression.
type initSyntax struct {
	isList bool
	list   []initSyntax
	tokens []lexer.Token
}

func (p *Parser) parseInitializerSyntax() (initSyntax, error) {
	if p.cur.Current().Lexeme == "{" {
		p.cur.Advance()
		var list []initSyntax
		if p.cur.Current().Lexeme != "}" {
			for {
				item, err := p.parseInitializerSyntax()
				if err != nil {
					return initSyntax{}, err
				}
				list = append(list, item)
				if p.cur.Current().Lexeme == "," {
					p.cur.Advance()
					if p.cur.Current().Lexeme == "}" {
						break
					}
					continue
				}
				break
			}
		}
		if !p.expectLexeme("}") {
			return initSyntax{}, p.errf(p.cur.Current().Pos, "expected '}' to close initializer")
		}
		return initSyntax{isList: true, list: list}, nil
	}
	toks := p.collectInitializerTokens()
	return initSyntax{tokens: toks}, nil
}

// collectInitializerTokens gathers a leaf initializer's expression tokens,
// stopping before an unparenthesized ',' ';' or '}'.
func (p *Parser) collectInitializerTokens() []lexer.Token {
	var toks []lexer.Token
	depth := 0
	for {
		tok := p.cur.Current()
		if tok.Kind == lexer.EOF {
			break
		}
		if depth == 0 && (tok.Lexeme == "," || tok.Lexeme == ";" || tok.Lexeme == "}") {
			break
		}
		switch tok.Lexeme {
		case "(", "[":
			depth++
		case ")", "]":
			depth--
		}
		toks = append(toks, tok)
		p.cur.Advance()
	}
	return toks
}

// buildValueNode resolves a parsed initializer shape against a declared
// type, producing the matching ValueNode variant.
func (p *Parser) buildValueNode(dt entity.DeclType, init initSyntax) (entity.ValueNode, error) {
	if td, ok := p.arena.Get(dt.Definition).(*entity.Typedef); ok {
		dims := append(append([]entity.ArrayDim{}, dt.Dims...), td.Target.Dims...)
		return p.buildValueNode(entity.DeclType{Definition: td.Target.Definition, Dims: dims, ReadOnly: dt.ReadOnly}, init)
	}
	if len(dt.Dims) > 0 {
		if !init.isList {
			return nil, p.errf(p.posOf(init), "expected a brace-delimited array initializer")
		}
		inner := entity.DeclType{Definition: dt.Definition, Dims: dt.Dims[1:], ReadOnly: dt.ReadOnly}
		arr := &entity.ArrayValue{}
		dim := dt.Dims[0]
		switch {
		case dim.Dynamic:
			arr.SizeState = entity.SizeDynamic
		case dim.Size == 0:
			arr.SizeState = entity.SizeFixedByInitializer
		default:
			arr.SizeState = entity.SizeFixed
		}
		for _, item := range init.list {
			v, err := p.buildValueNode(inner, item)
			if err != nil {
				return nil, err
			}
			arr.Elements = append(arr.Elements, v)
		}
		return arr, nil
	}

	switch d := p.arena.Get(dt.Definition).(type) {
	case *entity.Struct:
		return p.buildCompoundValue(d.Handle(), init)
	case *entity.Exception:
		return p.buildCompoundValue(d.Handle(), init)
	case *entity.Union:
		return p.buildCompoundValue(d.Handle(), init)
	case *entity.Enum:
		return p.buildEnumValue(d.Handle(), init)
	case *entity.Interface:
		return p.buildInterfaceValue(init)
	case *entity.PointerType:
		return p.buildInterfaceValue(init)
	default:
		return p.buildScalarValue(init)
	}
}

func (p *Parser) buildCompoundValue(defHandle entity.Handle, init initSyntax) (entity.ValueNode, error) {
	if !init.isList {
		return nil, p.errf(p.posOf(init), "expected a brace-delimited struct initializer")
	}
	cv := entity.NewCompoundValue()
	members := memberDeclarations(p.arena, defHandle)
	for i, item := range init.list {
		if i >= len(members) {
			return nil, p.errf(p.posOf(init), "too many initializers for %q", p.arena.ScopedName(defHandle))
		}
		memberH := members[i]
		decl := p.arena.Get(memberH).(entity.Declaration)
		v, err := p.buildValueNode(*decl.Type(), item)
		if err != nil {
			return nil, err
		}
		cv.Set(p.arena.Get(memberH).Name(), v)
	}
	return cv, nil
}

// memberDeclarations returns the Declaration children of a compound
// definition, in declaration order, for positional initializer matching.
func memberDeclarations(a *entity.Arena, h entity.Handle) []entity.Handle {
	var out []entity.Handle
	for _, c := range a.Children(h) {
		if _, ok := a.Get(c).(entity.Declaration); ok {
			out = append(out, c)
		}
	}
	return out
}

// buildEnumValue resolves an enum-typed initializer: either the entry's
// bare name (visible directly as a child of the enum) or a scoped
// reference such as `Color::Red` resolved via the normal lookup rules.
func (p *Parser) buildEnumValue(enumHandle entity.Handle, init initSyntax) (entity.ValueNode, error) {
	if init.isList || len(init.tokens) != 1 || init.tokens[0].Kind != lexer.IDENT {
		return nil, p.errf(p.posOf(init), "expected an enum entry reference")
	}
	name := init.tokens[0].Lexeme
	if entryH, ok := p.arena.FindChildByName(enumHandle, name); ok {
		return &entity.EnumValue{Entry: entryH}, nil
	}
	if h, ok := entity.Lookup(p.arena, p.scope(), name); ok {
		if _, ok := p.arena.Get(h).(*entity.EnumEntry); ok {
			return &entity.EnumValue{Entry: h}, nil
		}
	}
	return nil, p.semanticErrf(p.posOf(init), "%q is not an entry of enum %q", name, p.arena.ScopedName(enumHandle))
}

func (p *Parser) buildInterfaceValue(init initSyntax) (entity.ValueNode, error) {
	if !init.isList && len(init.tokens) == 1 && init.tokens[0].Lexeme == "null" {
		return &entity.InterfaceValue{IsNull: true}, nil
	}
	return nil, p.semanticErrf(p.posOf(init), "interface/pointer values are only assignable from 'null'")
}

func (p *Parser) buildScalarValue(init initSyntax) (entity.ValueNode, error) {
	if init.isList {
		return nil, p.errf(p.posOf(init), "unexpected brace-delimited initializer for a scalar")
	}
	res, err := value.Evaluate(init.tokens, p.resolver())
	if err != nil {
		return nil, p.semanticErrf(p.posOf(init), "%v", err)
	}
	if res.Dynamic {
		return &entity.ScalarValue{State: entity.StateDynamic, Tokens: init.tokens}, nil
	}
	return &entity.ScalarValue{State: entity.StateFixed, Variant: res.Value, Tokens: init.tokens}, nil
}

func (p *Parser) posOf(init initSyntax) lexer.Position {
	if len(init.tokens) > 0 {
		return init.tokens[0].Pos
	}
	if len(init.list) > 0 {
		return p.posOf(init.list[0])
	}
	return p.cur.Current().Pos
}
