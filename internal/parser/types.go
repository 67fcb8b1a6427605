package parser

import (
	"github.com/sdv-framework/sdvidlc/internal/entity"
	"github.com/sdv-framework/sdvidlc/internal/lexer"
	"github.com/sdv-framework/sdvidlc/internal/value"
)

// primitiveKeywords maps the primitive type lexemes to their PrimKind.
// Multi-word primitives (`unsigned long`, `long long`,
// `long double`) are matched by lookahead in parseTypeRef before falling
// back to this table.
var primitiveKeywords = map[string]entity.PrimKind{
	"boolean": entity.PrimBoolean, "char": entity.PrimChar,
	"char16": entity.PrimChar16, "char32": entity.PrimChar32,
	"wchar": entity.PrimWChar, "octet": entity.PrimOctet,
	"short": entity.PrimShort, "int8": entity.PrimInt8,
	"int16": entity.PrimInt16, "int32": entity.PrimInt32,
	"int64": entity.PrimInt64, "uint8": entity.PrimUInt8,
	"uint16": entity.PrimUInt16, "uint32": entity.PrimUInt32,
	"uint64": entity.PrimUInt64, "float": entity.PrimFloat,
	"double": entity.PrimDouble, "fixed": entity.PrimFixed,
	"string": entity.PrimString, "u8string": entity.PrimU8String,
	"u16string": entity.PrimU16String, "u32string": entity.PrimU32String,
	"wstring": entity.PrimWString, "void": entity.PrimVoid,
}

// parseTypeRef parses a type reference: a primitive, `sequence<T[, N]>`,
// `pointer<T>`, `any`, or a scoped name resolved against the current
// scope. It does not consume array-dimension
// suffixes or the read-only flag; callers add those via parseArrayDims.
func (p *Parser) parseTypeRef() (entity.Handle, error) {
	tok := p.cur.Current()
	if tok.Kind != lexer.IDENT {
		return 0, p.errf(tok.Pos, "expected a type name, got %q", tok.Lexeme)
	}

	switch tok.Lexeme {
	case "unsigned":
		p.cur.Advance()
		switch p.cur.Current().Lexeme {
		case "short":
			p.cur.Advance()
			return p.builtins.Prim(entity.PrimUShort), nil
		case "long":
			p.cur.Advance()
			if p.cur.Is(lexer.IDENT, "long") {
				p.cur.Advance()
				return p.builtins.Prim(entity.PrimULongLong), nil
			}
			return p.builtins.Prim(entity.PrimULong), nil
		default:
			return 0, p.errf(p.cur.Current().Pos, "expected 'short' or 'long' after 'unsigned'")
		}
	case "long":
		p.cur.Advance()
		if p.cur.Is(lexer.IDENT, "long") {
			p.cur.Advance()
			return p.builtins.Prim(entity.PrimLongLong), nil
		}
		if p.cur.Is(lexer.IDENT, "double") {
			p.cur.Advance()
			return p.builtins.Prim(entity.PrimLongDouble), nil
		}
		return p.builtins.Prim(entity.PrimLong), nil
	case "sequence":
		return p.parseSequenceType()
	case "pointer":
		return p.parsePointerType()
	case "any":
		p.cur.Advance()
		return p.builtins.Any(), nil
	}

	if prim, ok := primitiveKeywords[tok.Lexeme]; ok {
		p.cur.Advance()
		return p.builtins.Prim(prim), nil
	}

	name := p.parseScopedName()
	h, ok := entity.Lookup(p.arena, p.scope(), name)
	if !ok {
		return 0, p.errf(tok.Pos, "undefined type %q", name)
	}
	if _, isDef := p.arena.Get(h).(entity.Definition); !isDef {
		return 0, p.errf(tok.Pos, "%q does not name a type", name)
	}
	return h, nil
}

// parseScopedName consumes an `ident (:: ident)*` or `:: ident (:: ident)*`
// sequence and returns it joined by "::".
func (p *Parser) parseScopedName() string {
	name := ""
	if p.cur.Is(lexer.PUNCT, "::") || p.cur.Current().Lexeme == "::" {
		name = "::"
		p.cur.Advance()
	}
	name += p.cur.Current().Lexeme
	p.cur.Advance()
	for p.cur.Current().Lexeme == "::" {
		p.cur.Advance()
		name += "::" + p.cur.Current().Lexeme
		p.cur.Advance()
	}
	return name
}

// parseSequenceType parses `sequence < T [ , N ] > `.
func (p *Parser) parseSequenceType() (entity.Handle, error) {
	p.cur.Advance() // 'sequence'
	if !p.expectLexeme("<") {
		return 0, p.errf(p.cur.Current().Pos, "expected '<' after 'sequence'")
	}
	elem, err := p.parseTypeRef()
	if err != nil {
		return 0, err
	}
	bound := int64(0)
	hasBound := false
	if p.cur.Current().Lexeme == "," {
		p.cur.Advance()
		toks := p.collectExprTokens(">")
		res, err := value.Evaluate(toks, p.resolver())
		if err != nil {
			return 0, p.errf(p.cur.Current().Pos, "sequence bound: %v", err)
		}
		if res.Dynamic {
			return 0, p.errf(p.cur.Current().Pos, "sequence bound must be a constant expression")
		}
		n, err := res.Value.AsInt64()
		if err != nil {
			return 0, p.errf(p.cur.Current().Pos, "sequence bound: %v", err)
		}
		bound = n
		hasBound = true
	}
	if !p.expectLexeme(">") {
		return 0, p.errf(p.cur.Current().Pos, "expected '>' to close sequence type")
	}
	return p.builtins.Sequence(elem, bound, hasBound), nil
}

// parsePointerType parses `pointer < T >`.
func (p *Parser) parsePointerType() (entity.Handle, error) {
	p.cur.Advance() // 'pointer'
	if !p.expectLexeme("<") {
		return 0, p.errf(p.cur.Current().Pos, "expected '<' after 'pointer'")
	}
	target, err := p.parseTypeRef()
	if err != nil {
		return 0, err
	}
	if !p.expectLexeme(">") {
		return 0, p.errf(p.cur.Current().Pos, "expected '>' to close pointer type")
	}
	return p.builtins.Pointer(target), nil
}

// parseArrayDims parses zero or more `[ expr ]` suffixes. An empty `[]` (used only inside typedef targets
// in some IDL dialects) is rejected; every dimension must carry an
// expression here.
func (p *Parser) parseArrayDims() ([]entity.ArrayDim, error) {
	var dims []entity.ArrayDim
	for p.cur.Current().Lexeme == "[" {
		p.cur.Advance()
		toks := p.collectExprTokens("]")
		if !p.expectLexeme("]") {
			return nil, p.errf(p.cur.Current().Pos, "expected ']'")
		}
		dim, err := p.evalArrayDim(toks)
		if err != nil {
			return nil, err
		}
		dims = append(dims, dim)
	}
	return dims, nil
}

func (p *Parser) evalArrayDim(toks []lexer.Token) (entity.ArrayDim, error) {
	res, err := value.Evaluate(toks, p.resolver())
	if err != nil {
		return entity.ArrayDim{}, p.errf(p.cur.Current().Pos, "array dimension: %v", err)
	}
	if res.Dynamic {
		return entity.ArrayDim{Expr: toks, Dynamic: true}, nil
	}
	n, err := res.Value.AsInt64()
	if err != nil {
		return entity.ArrayDim{}, p.errf(p.cur.Current().Pos, "array dimension: %v", err)
	}
	return entity.ArrayDim{Expr: toks, Size: n}, nil
}
