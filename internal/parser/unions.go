package parser

import (
	"github.com/sdv-framework/sdvidlc/internal/entity"
	"github.com/sdv-framework/sdvidlc/internal/lexer"
	"github.com/sdv-framework/sdvidlc/internal/value"
)

// parseUnion parses `union [Name] switch ( switchSpec ) { case K: decl;
// ... default: decl; } ;`. switchSpec is either
// a primitive integral type (type-based: an inline `switch_value`
// discriminant is synthesized) or an identifier naming a sibling
// declaration (variable-based: lifecycle code is hosted on the nearest
// common ancestor of the union and that sibling).
func (p *Parser) parseUnion() (entity.Handle, error) {
	p.cur.Advance() // 'union'
	nameTok := p.cur.Current()
	named := nameTok.Kind == lexer.IDENT && nameTok.Lexeme != "switch"
	name := ""
	pos := nameTok.Pos
	if named {
		name = nameTok.Lexeme
		p.cur.Advance()
	}

	if !p.expectKeyword("switch") {
		return 0, p.errf(p.cur.Current().Pos, "expected 'switch' in union declaration")
	}
	if !p.expectLexeme("(") {
		return 0, p.errf(p.cur.Current().Pos, "expected '(' after 'switch'")
	}

	sw, err := p.parseSwitchSpec(pos)
	if err != nil {
		return 0, err
	}
	if !p.expectLexeme(")") {
		return 0, p.errf(p.cur.Current().Pos, "expected ')' to close switch specification")
	}

	if p.cur.Current().Lexeme == ";" {
		h := p.arena.Alloc(&entity.ForwardDecl{Base: entity.NewBase(name, pos), Target: entity.DefUnion})
		p.arena.AddChild(p.scope(), h)
		if name != "" {
			p.forwards[p.arena.ScopedName(h)] = h
		}
		p.cur.Advance()
		return h, nil
	}

	if !p.expectLexeme("{") {
		return 0, p.errf(p.cur.Current().Pos, "expected '{' to begin union body")
	}

	h := p.arena.Alloc(&entity.Union{Base: entity.NewBase(name, pos), Named: named, Switch: sw})
	p.arena.AddChild(p.scope(), h)
	if fwd, ok := p.forwards[p.arena.ScopedName(h)]; ok {
		p.arena.Complete(fwd, h)
		delete(p.forwards, p.arena.ScopedName(h))
	}

	if sw.Kind == entity.SwitchTypeBased {
		inlineVar := p.arena.Alloc(&entity.SwitchVariable{
			Base:          entity.NewBase("switch_value", pos),
			DeclTypeValue: entity.DeclType{Definition: sw.DiscriminantType.Definition},
		})
		p.arena.AddChild(h, inlineVar)
		u := p.arena.Get(h).(*entity.Union)
		u.Switch.InlineVar = inlineVar
	} else {
		host := entity.NearestCommonAncestor(p.arena, h, sw.VariableRef)
		u := p.arena.Get(h).(*entity.Union)
		u.Switch.HostContainer = host
	}

	p.pushScope(h)
	err = p.parseUnionBody(h)
	p.popScope()
	if err != nil {
		return h, err
	}

	if !p.expectLexeme("}") {
		return h, p.errf(p.cur.Current().Pos, "expected '}' to close union %q", name)
	}
	p.expectLexeme(";")
	return h, nil
}

// parseSwitchSpec decides type-based vs. variable-based: a primitive
// integral keyword is type-based; anything else must be an
// identifier naming a sibling declaration.
func (p *Parser) parseSwitchSpec(unionPos lexer.Position) (entity.SwitchContext, error) {
	tok := p.cur.Current()
	if tok.Kind != lexer.IDENT {
		return entity.SwitchContext{}, p.errf(tok.Pos, "expected a type or variable name in switch specification")
	}
	if prim, ok := primitiveKeywords[tok.Lexeme]; ok && prim.IsIntegral() {
		p.cur.Advance()
		return entity.SwitchContext{Kind: entity.SwitchTypeBased, DiscriminantType: entity.DeclType{Definition: p.builtins.Prim(prim)}}, nil
	}
	if tok.Lexeme == "unsigned" || tok.Lexeme == "long" {
		th, err := p.parseTypeRef()
		if err != nil {
			return entity.SwitchContext{}, err
		}
		return entity.SwitchContext{Kind: entity.SwitchTypeBased, DiscriminantType: entity.DeclType{Definition: th}}, nil
	}

	name := tok.Lexeme
	p.cur.Advance()
	varH, ok := entity.Lookup(p.arena, p.scope(), name)
	if !ok {
		return entity.SwitchContext{}, p.semanticErrf(tok.Pos, "union has no matching switch variable %q", name)
	}
	return entity.SwitchContext{Kind: entity.SwitchVariableBased, VariableRef: varH}, nil
}

// parseUnionBody parses `case <const-expr>: decl;` and `default: decl;`
// arms. Stacked labels (`case 1: case 2: T m;`) share one CaseEntry and
// one member declaration.
func (p *Parser) parseUnionBody(unionHandle entity.Handle) error {
	for p.cur.Current().Lexeme != "}" && p.cur.Current().Kind != lexer.EOF {
		before := p.cur.SkipComments()
		if p.cur.Current().Lexeme == "}" {
			break
		}

		var labels []value.Variant
		isDefault := false
		labelPos := p.cur.Current().Pos
		for p.cur.Current().Lexeme == "case" || p.cur.Current().Lexeme == "default" {
			if p.cur.Current().Lexeme == "default" {
				isDefault = true
				p.cur.Advance()
			} else {
				p.cur.Advance()
				toks := p.collectExprTokens(":")
				res, err := value.Evaluate(toks, p.resolver())
				if err != nil {
					return p.semanticErrf(labelPos, "case label: %v", err)
				}
				if res.Dynamic {
					return p.semanticErrf(labelPos, "case label must be a constant expression")
				}
				labels = append(labels, res.Value)
			}
			if !p.expectLexeme(":") {
				return p.errf(p.cur.Current().Pos, "expected ':' after case/default label")
			}
		}

		memberH, err := p.parseDeclStatement()
		if err != nil {
			return err
		}

		caseH := p.arena.Alloc(&entity.CaseEntry{
			Base:      entity.NewBase("", labelPos),
			Labels:    labels,
			IsDefault: isDefault,
			Member:    memberH,
		})
		p.arena.AddChild(unionHandle, caseH)
		p.arena.SetComments(caseH, before, nil)

		u := p.arena.Get(unionHandle).(*entity.Union)
		u.Cases = append(u.Cases, caseH)
	}
	return nil
}
