// Package value implements the constant variant (V in the compiler's
// component design) and the expression evaluator that operates on it.
//
// A Variant is a tagged union over the scalar kinds an IDL constant
// expression can produce: i64, u64, f64, long double, fixed (arbitrary
// precision decimal), bool, an encoded char, and an encoded string.
package value

import (
	"fmt"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/sdv-framework/sdvidlc/internal/lexer"
)

// Kind discriminates the scalar category held by a Variant.
type Kind int

const (
	KindInvalid Kind = iota
	KindI64
	KindU64
	KindF64
	KindLongDouble
	KindFixed
	KindBool
	KindChar
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindI64:
		return "i64"
	case KindU64:
		return "u64"
	case KindF64:
		return "f64"
	case KindLongDouble:
		return "long double"
	case KindFixed:
		return "fixed"
	case KindBool:
		return "bool"
	case KindChar:
		return "char"
	case KindString:
		return "string"
	default:
		return "invalid"
	}
}

// IsNumeric reports whether k participates in C arithmetic promotion.
func (k Kind) IsNumeric() bool {
	switch k {
	case KindI64, KindU64, KindF64, KindLongDouble, KindFixed:
		return true
	default:
		return false
	}
}

func (k Kind) IsInteger() bool {
	return k == KindI64 || k == KindU64
}

func (k Kind) IsFloating() bool {
	return k == KindF64 || k == KindLongDouble
}

// Variant is a constant value produced by expression evaluation. Only the
// field(s) matching Kind are meaningful.
type Variant struct {
	Kind Kind

	I64 int64
	U64 uint64
	F64 float64

	Fixed Fixed

	Bool bool

	CharVal rune
	CharEnc lexer.Encoding

	Str    string
	StrEnc lexer.Encoding
}

func I64(v int64) Variant   { return Variant{Kind: KindI64, I64: v} }
func U64(v uint64) Variant  { return Variant{Kind: KindU64, U64: v} }
func F64(v float64) Variant { return Variant{Kind: KindF64, F64: v} }
func LongDouble(v float64) Variant {
	return Variant{Kind: KindLongDouble, F64: v}
}
func Bool(v bool) Variant { return Variant{Kind: KindBool, Bool: v} }
func Char(r rune, enc lexer.Encoding) Variant {
	return Variant{Kind: KindChar, CharVal: r, CharEnc: enc}
}
func String(s string, enc lexer.Encoding) Variant {
	return Variant{Kind: KindString, Str: s, StrEnc: enc}
}
func FromFixed(f Fixed) Variant { return Variant{Kind: KindFixed, Fixed: f} }

// AsFloat64 returns the variant's value widened to float64, for kinds
// where that is meaningful (numeric kinds and char, treated as its code
// point per C rules).
func (v Variant) AsFloat64() (float64, error) {
	switch v.Kind {
	case KindI64:
		return float64(v.I64), nil
	case KindU64:
		return float64(v.U64), nil
	case KindF64, KindLongDouble:
		return v.F64, nil
	case KindFixed:
		return v.Fixed.Float64(), nil
	case KindChar:
		return float64(v.CharVal), nil
	case KindBool:
		if v.Bool {
			return 1, nil
		}
		return 0, nil
	default:
		return 0, fmt.Errorf("cannot convert %s to a numeric value", v.Kind)
	}
}

// AsInt64 returns the variant's value narrowed to int64. Used for
// operations (bitwise, shift) that require an integral operand.
func (v Variant) AsInt64() (int64, error) {
	switch v.Kind {
	case KindI64:
		return v.I64, nil
	case KindU64:
		return int64(v.U64), nil
	case KindChar:
		return int64(v.CharVal), nil
	case KindBool:
		if v.Bool {
			return 1, nil
		}
		return 0, nil
	default:
		return 0, fmt.Errorf("expected an integral value, got %s", v.Kind)
	}
}

func (v Variant) String() string {
	switch v.Kind {
	case KindI64:
		return fmt.Sprintf("%d", v.I64)
	case KindU64:
		return fmt.Sprintf("%d", v.U64)
	case KindF64, KindLongDouble:
		return fmt.Sprintf("%g", v.F64)
	case KindFixed:
		return v.Fixed.String()
	case KindBool:
		return fmt.Sprintf("%t", v.Bool)
	case KindChar:
		return encodingPrefix(v.CharEnc) + fmt.Sprintf("%q", v.CharVal)
	case KindString:
		return encodingPrefix(v.StrEnc) + fmt.Sprintf("%q", v.Str)
	default:
		return "<invalid>"
	}
}

// encodingPrefix returns the C++ literal prefix for a char/string
// encoding: u for char16_t/u16string, U for char32_t/u32string, L for
// wchar_t/wstring, and none for the plain byte encoding.
func encodingPrefix(enc lexer.Encoding) string {
	switch enc {
	case lexer.Enc16:
		return "u"
	case lexer.Enc32:
		return "U"
	case lexer.EncWide:
		return "L"
	default:
		return ""
	}
}

// ValidateCharEncoding rejects a char16_t literal whose code point does
// not fit in a single UTF-16 code unit: C++ has no way to spell a
// char16_t holding half of a surrogate pair, so a rune outside the
// basic multilingual plane is only representable as a u16string, never
// as a single u'...' literal.
func ValidateCharEncoding(enc lexer.Encoding, r rune) error {
	if enc != lexer.Enc16 {
		return nil
	}
	encoder := unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewEncoder()
	encoded, _, err := transform.String(encoder, string(r))
	if err != nil {
		return fmt.Errorf("rune U+%04X cannot be encoded as UTF-16: %w", r, err)
	}
	if len(encoded) > 2 {
		return fmt.Errorf("rune U+%04X requires a UTF-16 surrogate pair and cannot be a single char16_t", r)
	}
	return nil
}

// Equal reports deep equality between two variants of possibly different
// kinds, per C equality semantics (numeric kinds compare by value after
// promotion).
func (v Variant) Equal(other Variant) bool {
	if v.Kind.IsNumeric() && other.Kind.IsNumeric() {
		a, errA := v.AsFloat64()
		b, errB := other.AsFloat64()
		return errA == nil && errB == nil && a == b
	}
	if v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case KindBool:
		return v.Bool == other.Bool
	case KindChar:
		return v.CharVal == other.CharVal
	case KindString:
		return v.Str == other.Str
	default:
		return false
	}
}
