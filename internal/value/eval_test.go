package value

import (
	"testing"

	"github.com/sdv-framework/sdvidlc/internal/lexer"
)

func tokenize(src string) []lexer.Token {
	l := lexer.New("t.idl", src)
	var toks []lexer.Token
	for {
		tok := l.NextToken()
		if tok.Kind == lexer.EOF {
			return toks
		}
		toks = append(toks, tok)
	}
}

type constResolver map[string]ResolvedIdent

func (m constResolver) Resolve(name string) (ResolvedIdent, bool) {
	r, ok := m[name]
	return r, ok
}

func TestEvaluate_ConstArithmetic(t *testing.T) {
	// const int32 a = 2; const int32 b = (a*5 + 3) % 4;
	resolver := constResolver{"a": {Value: I64(2), Kind: KindI64}}
	res, err := Evaluate(tokenize("(a*5 + 3) % 4"), resolver)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Dynamic {
		t.Fatalf("expected a fixed value, got dynamic")
	}
	if res.Value.Kind != KindI64 || res.Value.I64 != 3 {
		t.Errorf("got %v, want i64(3)", res.Value)
	}
}

func TestEvaluate_DivisionByZeroErrors(t *testing.T) {
	_, err := Evaluate(tokenize("1 / 0"), constResolver{})
	if err == nil {
		t.Fatalf("expected divide-by-zero error")
	}
}

func TestEvaluate_DynamicIdentifierDefersValue(t *testing.T) {
	resolver := constResolver{"x": {Dynamic: true, Kind: KindI64}}
	res, err := Evaluate(tokenize("x + 1"), resolver)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Dynamic {
		t.Fatalf("expected dynamic result")
	}
	if res.Kind != KindI64 {
		t.Errorf("got kind %v, want i64", res.Kind)
	}
}

func TestEvaluate_UndefinedIdentifierErrors(t *testing.T) {
	_, err := Evaluate(tokenize("y + 1"), constResolver{})
	if err == nil {
		t.Fatalf("expected undefined-identifier error")
	}
}

func TestEvaluate_BitwiseAndShift(t *testing.T) {
	res, err := Evaluate(tokenize("(1 << 4) | 3"), constResolver{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Value.I64 != 19 {
		t.Errorf("got %d, want 19", res.Value.I64)
	}
}

func TestEvaluate_ComparisonYieldsBool(t *testing.T) {
	res, err := Evaluate(tokenize("3 < 5"), constResolver{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Value.Kind != KindBool || !res.Value.Bool {
		t.Errorf("got %v, want true", res.Value)
	}
}

func TestFixed_DecimalExactArithmetic(t *testing.T) {
	a := ParseFixed("0.1")
	b := ParseFixed("0.2")
	sum := a.Add(b)
	if sum.String() != "0.3" {
		t.Errorf("got %s, want 0.3", sum.String())
	}
}
