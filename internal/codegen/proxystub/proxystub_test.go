package proxystub

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

const hingeSrc = `
exception BadAngle { };
interface Hinge {
  readonly attribute int32 angle;
  void rotate(in int32 degrees) raises (BadAngle);
};
`

func TestEmitProxyUnitRendersClassAndMarshalingCalls(t *testing.T) {
	p := mustParse(t, hingeSrc)
	header, source := EmitProxyUnit(p.Arena(), "hinge.idl", "hinge.h")

	if !strings.Contains(header, "class Hinge_proxy : public ::Hinge {") {
		t.Errorf("proxy header missing class declaration:\n%s", header)
	}
	if !strings.Contains(source, `#include "hinge_proxy.h"`) {
		t.Errorf("proxy source's self-include derived wrong; source:\n%s", source)
	}
	for _, want := range []string{"do_call(request, reply, exception_id)", "Hinge_proxy::rotate"} {
		if !strings.Contains(source, want) {
			t.Errorf("proxy source missing %q:\n%s", want, source)
		}
	}
}

func TestEmitStubUnitDispatchesByFunctionIndex(t *testing.T) {
	p := mustParse(t, hingeSrc)
	header, source := EmitStubUnit(p.Arena(), "hinge.idl", "hinge.h")

	if !strings.Contains(header, "class Hinge_stub") {
		t.Errorf("stub header missing class declaration:\n%s", header)
	}
	for _, want := range []string{"switch (function_index)", "case 0:", "catch (const BadAngle&"} {
		if !strings.Contains(source, want) {
			t.Errorf("stub source missing %q:\n%s", want, source)
		}
	}
}

func TestEmitProxyUnitRendersOneClassPerInterface(t *testing.T) {
	src := `
interface A { void f(); };
interface B { void g(); };
`
	p := mustParse(t, src)
	header, _ := EmitProxyUnit(p.Arena(), "multi.idl", "multi.h")
	for _, want := range []string{"class A_proxy", "class B_proxy"} {
		if !strings.Contains(header, want) {
			t.Errorf("proxy header missing %q for multi-interface unit:\n%s", want, header)
		}
	}
}

func TestEmitProxyUnitSkipsLocalInterfaces(t *testing.T) {
	src := `local interface Callback { void on_event(); };`
	p := mustParse(t, src)
	header, _ := EmitProxyUnit(p.Arena(), "cb.idl", "cb.h")
	if strings.Contains(header, "Callback_proxy") {
		t.Errorf("proxy header should not include a local interface:\n%s", header)
	}
}
