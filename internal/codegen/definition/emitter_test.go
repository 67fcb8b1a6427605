package definition

import (
	"strings"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
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

func adaptMeta(items []parser.MetaItem) []MetaItem {
	out := make([]MetaItem, len(items))
	for i, m := range items {
		out[i] = MetaItem{Tok: m.Tok, Scope: m.Scope}
	}
	return out
}

func TestEmitRendersStructAndInterface(t *testing.T) {
	src := `
struct SHingePosition {
    int32 degrees;
};
exception BadAngle { };
interface Hinge {
    readonly attribute int32 angle;
    void rotate(in int32 degrees) raises (BadAngle);
};
`
	p := mustParse(t, src)
	e := New(p.Arena(), "hinge.idl", adaptMeta(p.Meta()))
	out, err := e.Emit()
	if err != nil {
		t.Fatalf("Emit() error = %v", err)
	}
	for _, want := range []string{"struct SHingePosition", "class BadAngle", "class Hinge", "rotate"} {
		if !strings.Contains(out, want) {
			t.Errorf("Emit() output missing %q:\n%s", want, out)
		}
	}
}

func TestEmitIncludesGuardAndRuntimeHeader(t *testing.T) {
	p := mustParse(t, `struct Empty { int32 x; };`)
	e := New(p.Arena(), "empty.idl", adaptMeta(p.Meta()))
	out, err := e.Emit()
	if err != nil {
		t.Fatalf("Emit() error = %v", err)
	}
	if !strings.Contains(out, "#pragma once") {
		t.Errorf("Emit() output missing include guard:\n%s", out)
	}
	if !strings.Contains(out, `#include "sdv_runtime.h"`) {
		t.Errorf("Emit() output missing runtime include:\n%s", out)
	}
}

func TestEmitForwardDeclaresPointerTargets(t *testing.T) {
	src := `
struct Node {
    pointer<Node> next;
};
`
	p := mustParse(t, src)
	e := New(p.Arena(), "node.idl", adaptMeta(p.Meta()))
	out, err := e.Emit()
	if err != nil {
		t.Fatalf("Emit() error = %v", err)
	}
	declIdx := strings.Index(out, "struct Node {")
	fwdIdx := strings.Index(out, "struct Node;")
	if fwdIdx < 0 || declIdx < 0 || fwdIdx >= declIdx {
		t.Errorf("expected a forward declaration of Node before its definition:\n%s", out)
	}
}

// TestEmitRendersVariableBasedUnionLifecycle exercises a union switching
// on a sibling field rather than an inline discriminant (the shared-
// container lifecycle case): the switch variable is a *entity.Variable,
// an entity.Declaration but not an entity.Definition, so this path must
// not assume the definition interface.
func TestEmitRendersVariableBasedUnionLifecycle(t *testing.T) {
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
	e := New(p.Arena(), "s.idl", adaptMeta(p.Meta()))
	out, err := e.Emit()
	if err != nil {
		t.Fatalf("Emit() error = %v", err)
	}
	for _, want := range []string{"switch_to_tag(", "get_switch_tag("} {
		if !strings.Contains(out, want) {
			t.Errorf("Emit() output missing %q for variable-based union:\n%s", want, out)
		}
	}
}

// TestEmitMatchesSnapshot pins the full rendered header for a unit
// exercising struct, exception, enum, and interface/attribute/operation
// output together, so an unintended formatting change in any of them
// shows up as a single diff instead of scattered substring breakage.
func TestEmitMatchesSnapshot(t *testing.T) {
	src := `
enum EHingeSide { side_left, side_right };

exception BadAngle {
    int32 attempted;
};

struct SHingePosition {
    EHingeSide side;
    int32 degrees;
};

interface Hinge {
    readonly attribute SHingePosition position;
    void rotate(in int32 degrees) raises (BadAngle);
};
`
	p := mustParse(t, src)
	e := New(p.Arena(), "hinge.idl", adaptMeta(p.Meta()))
	out, err := e.Emit()
	if err != nil {
		t.Fatalf("Emit() error = %v", err)
	}
	snaps.MatchSnapshot(t, out)
}
