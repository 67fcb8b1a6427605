package serdes

import (
	"strings"
	"testing"

	"github.com/sdv-framework/sdvidlc/internal/parser"
)

func mustParse(t *testing.T, src string) *parser.Parser {
	t.Helper()
	p := parser.New("t.idl", src)
	if err := p.ParseUnit(); err != nil {
		t.Fatalf("ParseUnit failed: %v", err)
	}
	if p.Diagnostics().HasErrors() {
		t.Fatalf("ParseUnit produced diagnostics: %s", p.Diagnostics().Format(true, false))
	}
	return p
}

func TestEmitRendersStructTriplet(t *testing.T) {
	src := `
struct SHingePosition {
    int32 degrees;
};
`
	p := mustParse(t, src)
	out := Emit(p.Arena(), "hinge.idl", "hinge.h")
	for _, want := range []string{
		"calc_size(const SHingePosition&",
		"serialize(sdv::byte_buffer& buf, std::size_t& offset, const SHingePosition&",
		"deserialize(const sdv::byte_buffer& buf, std::size_t& offset, SHingePosition&",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Emit() output missing %q:\n%s", want, out)
		}
	}
}

func TestEmitRendersEnumTriplet(t *testing.T) {
	src := `
enum EHingeSide { side_left, side_right };
`
	p := mustParse(t, src)
	out := Emit(p.Arena(), "hinge.idl", "hinge.h")
	if !strings.Contains(out, "EHingeSide") {
		t.Errorf("Emit() output missing enum serdes:\n%s", out)
	}
}

func TestEmitRendersVariableBasedUnionDispatch(t *testing.T) {
	src := `
struct S {
    int32 tag;
    union tag switch (tag) {
        case 1: int32 i;
        case 2: string s;
    };
};
`
	p := mustParse(t, src)
	out := Emit(p.Arena(), "s.idl", "s.h")
	for _, want := range []string{"get_switch_tag()", "switch_to_tag("} {
		if !strings.Contains(out, want) {
			t.Errorf("Emit() output missing %q for variable-based union dispatch:\n%s", want, out)
		}
	}
}

func TestEmitRendersUnionDispatchOnGeneratedAccessors(t *testing.T) {
	src := `
struct Holder {
    union body switch (int32) {
        case 0: int32 as_int;
        case 1: double as_double;
    };
};
`
	p := mustParse(t, src)
	out := Emit(p.Arena(), "hinge.idl", "hinge.h")
	for _, want := range []string{"get_switch_body()", "switch_to_body("} {
		if !strings.Contains(out, want) {
			t.Errorf("Emit() output missing %q for union dispatch:\n%s", want, out)
		}
	}
}
