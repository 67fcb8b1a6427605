package value

import (
	"testing"

	"github.com/sdv-framework/sdvidlc/internal/lexer"
)

func TestVariantStringAppliesEncodingPrefix(t *testing.T) {
	tests := []struct {
		name string
		v    Variant
		want string
	}{
		{"plain char", Char('a', lexer.EncByte), `'a'`},
		{"u16 char", Char('a', lexer.Enc16), `u'a'`},
		{"u32 char", Char('a', lexer.Enc32), `U'a'`},
		{"wide char", Char('a', lexer.EncWide), `L'a'`},
		{"plain string", String("hi", lexer.EncByte), `"hi"`},
		{"u16 string", String("hi", lexer.Enc16), `u"hi"`},
		{"u32 string", String("hi", lexer.Enc32), `U"hi"`},
		{"wide string", String("hi", lexer.EncWide), `L"hi"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidateCharEncodingAcceptsBMPCodePoints(t *testing.T) {
	if err := ValidateCharEncoding(lexer.Enc16, 'A'); err != nil {
		t.Errorf("unexpected error for a BMP rune: %v", err)
	}
}

func TestValidateCharEncodingRejectsSupplementaryPlaneAsChar16(t *testing.T) {
	// U+1F600 (an emoji) lies outside the BMP and needs a UTF-16
	// surrogate pair, so it cannot be a single char16_t.
	if err := ValidateCharEncoding(lexer.Enc16, 0x1F600); err == nil {
		t.Error("expected an error for a supplementary-plane rune as char16_t")
	}
}

func TestValidateCharEncodingIgnoresOtherEncodings(t *testing.T) {
	for _, enc := range []lexer.Encoding{lexer.EncByte, lexer.Enc32, lexer.EncWide} {
		if err := ValidateCharEncoding(enc, 0x1F600); err != nil {
			t.Errorf("encoding %v: unexpected error for a supplementary-plane rune: %v", enc, err)
		}
	}
}
