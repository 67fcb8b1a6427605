package value

import (
	"github.com/sdv-framework/sdvidlc/internal/lexer"
)

// Resolver looks up an identifier appearing inside a constant expression.
// internal/parser implements this against the current parse scope: the
// identifier must name a const-variable or an enum-entry; anything else
// is an undefined-identifier error, and a reference to a non-const
// variable is reported via Dynamic=true rather than an error.
type Resolver interface {
	Resolve(name string) (result ResolvedIdent, ok bool)
}

// ResolvedIdent is what a Resolver reports for one identifier.
type ResolvedIdent struct {
	Dynamic bool    // true if name refers to a non-const variable
	Value   Variant // meaningful when !Dynamic
	Kind    Kind    // declared scalar category; set even when Dynamic, for type-checking
}

// Result is the outcome of evaluating a constant expression.
type Result struct {
	Dynamic bool
	Value   Variant // meaningful when !Dynamic
	Kind    Kind    // best-known scalar category, set in both cases
}

// Evaluate parses and evaluates tokens as a constant expression using
// precedence climbing: unary, `* / %`, `+ -`, `<< >>`, relational,
// `==`/`!=`, `& ^ |`, `&&`, `||`. Conditional `?:` is intentionally
// unsupported.
func Evaluate(tokens []lexer.Token, resolver Resolver) (Result, error) {
	p := &exprParser{tokens: tokens, resolver: resolver}
	res, err := p.parseLogicalOr()
	if err != nil {
		return Result{}, err
	}
	if p.pos < len(p.tokens) {
		return Result{}, errf("unexpected token %q after expression", p.tokens[p.pos].Lexeme)
	}
	return res, nil
}

type exprParser struct {
	tokens   []lexer.Token
	pos      int
	resolver Resolver
}

func (p *exprParser) peek() lexer.Token {
	if p.pos >= len(p.tokens) {
		return lexer.Token{Kind: lexer.EOF}
	}
	return p.tokens[p.pos]
}

func (p *exprParser) atEnd() bool { return p.pos >= len(p.tokens) }

func (p *exprParser) match(lexeme string) bool {
	if !p.atEnd() && p.peek().Lexeme == lexeme {
		p.pos++
		return true
	}
	return false
}

type binOp func(op string, a, b Variant) (Variant, error)

func combine(a, b Result, op string, fn binOp) (Result, error) {
	if a.Dynamic || b.Dynamic {
		k, err := promote(Variant{Kind: a.Kind}, Variant{Kind: b.Kind})
		if err != nil {
			return Result{}, err
		}
		return Result{Dynamic: true, Kind: k}, nil
	}
	v, err := fn(op, a.Value, b.Value)
	if err != nil {
		return Result{}, err
	}
	return Result{Value: v, Kind: v.Kind}, nil
}

func (p *exprParser) parseLogicalOr() (Result, error) {
	left, err := p.parseLogicalAnd()
	if err != nil {
		return Result{}, err
	}
	for p.match("||") {
		right, err := p.parseLogicalAnd()
		if err != nil {
			return Result{}, err
		}
		left, err = combine(left, right, "||", Logical)
		if err != nil {
			return Result{}, err
		}
	}
	return left, nil
}

func (p *exprParser) parseLogicalAnd() (Result, error) {
	left, err := p.parseBitOr()
	if err != nil {
		return Result{}, err
	}
	for p.match("&&") {
		right, err := p.parseBitOr()
		if err != nil {
			return Result{}, err
		}
		left, err = combine(left, right, "&&", Logical)
		if err != nil {
			return Result{}, err
		}
	}
	return left, nil
}

func (p *exprParser) parseBitOr() (Result, error) {
	left, err := p.parseBitXor()
	if err != nil {
		return Result{}, err
	}
	for !p.atEnd() && p.peek().Lexeme == "|" {
		p.pos++
		right, err := p.parseBitXor()
		if err != nil {
			return Result{}, err
		}
		left, err = combine(left, right, "|", Bitwise)
		if err != nil {
			return Result{}, err
		}
	}
	return left, nil
}

func (p *exprParser) parseBitXor() (Result, error) {
	left, err := p.parseBitAnd()
	if err != nil {
		return Result{}, err
	}
	for p.match("^") {
		right, err := p.parseBitAnd()
		if err != nil {
			return Result{}, err
		}
		left, err = combine(left, right, "^", Bitwise)
		if err != nil {
			return Result{}, err
		}
	}
	return left, nil
}

func (p *exprParser) parseBitAnd() (Result, error) {
	left, err := p.parseEquality()
	if err != nil {
		return Result{}, err
	}
	for !p.atEnd() && p.peek().Lexeme == "&" {
		p.pos++
		right, err := p.parseEquality()
		if err != nil {
			return Result{}, err
		}
		left, err = combine(left, right, "&", Bitwise)
		if err != nil {
			return Result{}, err
		}
	}
	return left, nil
}

func (p *exprParser) parseEquality() (Result, error) {
	left, err := p.parseRelational()
	if err != nil {
		return Result{}, err
	}
	for p.peek().Lexeme == "==" || p.peek().Lexeme == "!=" {
		op := p.peek().Lexeme
		p.pos++
		right, err := p.parseRelational()
		if err != nil {
			return Result{}, err
		}
		left, err = combineCompare(left, right, op)
		if err != nil {
			return Result{}, err
		}
	}
	return left, nil
}

func (p *exprParser) parseRelational() (Result, error) {
	left, err := p.parseShift()
	if err != nil {
		return Result{}, err
	}
	for isRelOp(p.peek().Lexeme) {
		op := p.peek().Lexeme
		p.pos++
		right, err := p.parseShift()
		if err != nil {
			return Result{}, err
		}
		left, err = combineCompare(left, right, op)
		if err != nil {
			return Result{}, err
		}
	}
	return left, nil
}

func isRelOp(s string) bool {
	return s == "<" || s == "<=" || s == ">" || s == ">="
}

func combineCompare(a, b Result, op string) (Result, error) {
	if a.Dynamic || b.Dynamic {
		return Result{Dynamic: true, Kind: KindBool}, nil
	}
	v, err := Compare(op, a.Value, b.Value)
	if err != nil {
		return Result{}, err
	}
	return Result{Value: v, Kind: v.Kind}, nil
}

func (p *exprParser) parseShift() (Result, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return Result{}, err
	}
	for p.peek().Lexeme == "<<" || p.peek().Lexeme == ">>" {
		op := p.peek().Lexeme
		p.pos++
		right, err := p.parseAdditive()
		if err != nil {
			return Result{}, err
		}
		left, err = combine(left, right, op, Bitwise)
		if err != nil {
			return Result{}, err
		}
	}
	return left, nil
}

func (p *exprParser) parseAdditive() (Result, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return Result{}, err
	}
	for p.peek().Lexeme == "+" || p.peek().Lexeme == "-" {
		op := p.peek().Lexeme
		p.pos++
		right, err := p.parseMultiplicative()
		if err != nil {
			return Result{}, err
		}
		left, err = combine(left, right, op, Arith)
		if err != nil {
			return Result{}, err
		}
	}
	return left, nil
}

func (p *exprParser) parseMultiplicative() (Result, error) {
	left, err := p.parseUnary()
	if err != nil {
		return Result{}, err
	}
	for p.peek().Lexeme == "*" || p.peek().Lexeme == "/" || p.peek().Lexeme == "%" {
		op := p.peek().Lexeme
		p.pos++
		right, err := p.parseUnary()
		if err != nil {
			return Result{}, err
		}
		left, err = combine(left, right, op, Arith)
		if err != nil {
			return Result{}, err
		}
	}
	return left, nil
}

func (p *exprParser) parseUnary() (Result, error) {
	tok := p.peek()
	if tok.Lexeme == "+" || tok.Lexeme == "-" {
		p.pos++
		operand, err := p.parseUnary()
		if err != nil {
			return Result{}, err
		}
		if operand.Dynamic {
			return Result{Dynamic: true, Kind: operand.Kind}, nil
		}
		v, err := UnarySign(tok.Lexeme, operand.Value)
		if err != nil {
			return Result{}, err
		}
		return Result{Value: v, Kind: v.Kind}, nil
	}
	if tok.Lexeme == "!" || tok.Lexeme == "~" {
		p.pos++
		operand, err := p.parseUnary()
		if err != nil {
			return Result{}, err
		}
		if operand.Dynamic {
			k := KindBool
			if tok.Lexeme == "~" {
				k = KindI64
			}
			return Result{Dynamic: true, Kind: k}, nil
		}
		v, err := Not(tok.Lexeme, operand.Value)
		if err != nil {
			return Result{}, err
		}
		return Result{Value: v, Kind: v.Kind}, nil
	}
	return p.parsePrimary()
}

func (p *exprParser) parsePrimary() (Result, error) {
	tok := p.peek()
	switch tok.Kind {
	case lexer.INT:
		p.pos++
		v := intLiteralVariant(tok)
		return Result{Value: v, Kind: v.Kind}, nil
	case lexer.FLOAT:
		p.pos++
		v := floatLiteralVariant(tok)
		return Result{Value: v, Kind: v.Kind}, nil
	case lexer.CHAR:
		p.pos++
		if err := ValidateCharEncoding(tok.Literal.Encoding, tok.Literal.Rune); err != nil {
			return Result{}, errf("%s", err)
		}
		v := Char(tok.Literal.Rune, tok.Literal.Encoding)
		return Result{Value: v, Kind: v.Kind}, nil
	case lexer.STRING:
		p.pos++
		v := String(tok.Literal.Str, tok.Literal.Encoding)
		return Result{Value: v, Kind: v.Kind}, nil
	case lexer.IDENT:
		switch tok.Lexeme {
		case "true":
			p.pos++
			return Result{Value: Bool(true), Kind: KindBool}, nil
		case "false":
			p.pos++
			return Result{Value: Bool(false), Kind: KindBool}, nil
		}
		p.pos++
		name := tok.Lexeme
		for !p.atEnd() && p.peek().Lexeme == "::" {
			p.pos++
			if p.atEnd() {
				return Result{}, errf("expected identifier after '::'")
			}
			name += "::" + p.peek().Lexeme
			p.pos++
		}
		resolved, ok := p.resolver.Resolve(name)
		if !ok {
			return Result{}, errf("undefined identifier %q", name)
		}
		if resolved.Dynamic {
			return Result{Dynamic: true, Kind: resolved.Kind}, nil
		}
		return Result{Value: resolved.Value, Kind: resolved.Value.Kind}, nil
	case lexer.PUNCT:
		if tok.Lexeme == "(" {
			p.pos++
			inner, err := p.parseLogicalOr()
			if err != nil {
				return Result{}, err
			}
			if !p.match(")") {
				return Result{}, errf("expected ')'")
			}
			return inner, nil
		}
	}
	return Result{}, errf("unexpected token %q in expression", tok.Lexeme)
}

func intLiteralVariant(tok lexer.Token) Variant {
	switch tok.Literal.IntSfx {
	case lexer.SuffixU, lexer.SuffixUL, lexer.SuffixULL:
		return U64(tok.Literal.Int)
	default:
		return I64(int64(tok.Literal.Int))
	}
}

func floatLiteralVariant(tok lexer.Token) Variant {
	if tok.Literal.IsFixed {
		return FromFixed(ParseFixed(tok.Literal.FixedRaw))
	}
	return F64(tok.Literal.Float)
}
