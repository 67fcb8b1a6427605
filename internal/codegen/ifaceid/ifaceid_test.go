package ifaceid

import (
	"testing"

	"github.com/sdv-framework/sdvidlc/internal/entity"
	"github.com/sdv-framework/sdvidlc/internal/lexer"
)

func buildInterface(t *testing.T, opName string) (*entity.Arena, entity.Handle) {
	t.Helper()
	a := entity.NewArena()
	bt := entity.NewBuiltinTable(a)
	mod := a.Alloc(&entity.Module{Base: entity.NewBase("app", lexer.Position{})})
	a.AddChild(entity.Root, mod)

	iface := a.Alloc(&entity.Interface{Base: entity.NewBase("Hinge", lexer.Position{}), Named: true})
	a.AddChild(mod, iface)

	param := a.Alloc(&entity.Parameter{
		Base:          entity.NewBase("degrees", lexer.Position{}),
		DeclTypeValue: entity.DeclType{Definition: bt.Prim(entity.PrimInt32)},
		Direction:     entity.DirIn,
	})
	op := a.Alloc(&entity.Operation{
		Base:       entity.NewBase(opName, lexer.Position{}),
		ReturnType: entity.DeclType{Definition: bt.Prim(entity.PrimVoid)},
		Params:     []entity.Handle{param},
	})
	a.AddChild(iface, op)

	return a, iface
}

func TestInterfaceIDStableAcrossIdenticalSignatures(t *testing.T) {
	a1, h1 := buildInterface(t, "rotate")
	a2, h2 := buildInterface(t, "rotate")

	id1 := InterfaceID(a1, h1)
	id2 := InterfaceID(a2, h2)
	if id1 != id2 {
		t.Errorf("InterfaceID differs for structurally identical interfaces: %d != %d", id1, id2)
	}
}

func TestInterfaceIDChangesWithSemanticChange(t *testing.T) {
	a1, h1 := buildInterface(t, "rotate")
	a2, h2 := buildInterface(t, "rotate_to")

	if InterfaceID(a1, h1) == InterfaceID(a2, h2) {
		t.Errorf("InterfaceID did not change when the operation name changed")
	}
}

func TestExceptionIDHashesScopedName(t *testing.T) {
	a := entity.NewArena()
	mod := a.Alloc(&entity.Module{Base: entity.NewBase("app", lexer.Position{})})
	a.AddChild(entity.Root, mod)
	exc := a.Alloc(&entity.Exception{Base: entity.NewBase("BadAngle", lexer.Position{}), Named: true})
	a.AddChild(mod, exc)

	got := ExceptionID(a, exc)
	want := Hash64(a.ScopedName(exc))
	if got != want {
		t.Errorf("ExceptionID() = %d, want %d", got, want)
	}
}

func TestHash64Deterministic(t *testing.T) {
	if Hash64("foo") != Hash64("foo") {
		t.Errorf("Hash64 is not deterministic for the same input")
	}
	if Hash64("foo") == Hash64("bar") {
		t.Errorf("Hash64 collided for distinct inputs (foo/bar) — pick different fixtures")
	}
}
