package codegen

import (
	"testing"

	"github.com/sdv-framework/sdvidlc/internal/entity"
	"github.com/sdv-framework/sdvidlc/internal/lexer"
)

func namedStruct(a *entity.Arena, parent entity.Handle, name string) entity.Handle {
	h := a.Alloc(&entity.Struct{Base: entity.NewBase(name, lexer.Position{}), Named: true})
	a.AddChild(parent, h)
	return h
}

func namedInterface(a *entity.Arena, parent entity.Handle, name string) entity.Handle {
	h := a.Alloc(&entity.Interface{Base: entity.NewBase(name, lexer.Position{}), Named: true})
	a.AddChild(parent, h)
	return h
}

func namedModule(a *entity.Arena, parent entity.Handle, name string) entity.Handle {
	h := a.Alloc(&entity.Module{Base: entity.NewBase(name, lexer.Position{})})
	a.AddChild(parent, h)
	return h
}

func TestWalkVisitsEveryChildInOrder(t *testing.T) {
	a := entity.NewArena()
	mod := namedModule(a, entity.Root, "app")
	s1 := namedStruct(a, mod, "A")
	s2 := namedStruct(a, mod, "B")

	var seen []entity.Handle
	Walk(a, mod, func(h entity.Handle) bool {
		seen = append(seen, h)
		return false
	})

	if len(seen) != 2 || seen[0] != s1 || seen[1] != s2 {
		t.Errorf("Walk visited %v, want [%v %v]", seen, s1, s2)
	}
}

func TestWalkDescendsOnlyWhenVisitReturnsTrue(t *testing.T) {
	a := entity.NewArena()
	mod := namedModule(a, entity.Root, "app")
	inner := namedStruct(a, mod, "Outer")
	nested := namedStruct(a, inner, "Nested")

	var seen []entity.Handle
	Walk(a, mod, func(h entity.Handle) bool {
		seen = append(seen, h)
		return true
	})

	found := false
	for _, h := range seen {
		if h == nested {
			found = true
		}
	}
	if !found {
		t.Errorf("Walk did not descend into %v, seen = %v", inner, seen)
	}
}

func TestCollectByKindFindsInterfacesAcrossModules(t *testing.T) {
	a := entity.NewArena()
	mod := namedModule(a, entity.Root, "app")
	iface1 := namedInterface(a, mod, "Hinge")
	sub := namedModule(a, mod, "nested")
	iface2 := namedInterface(a, sub, "Lock")

	got := CollectByKind(a, entity.Root, entity.DefInterface)
	if len(got) != 2 || got[0] != iface1 || got[1] != iface2 {
		t.Errorf("CollectByKind() = %v, want [%v %v]", got, iface1, iface2)
	}
}

func TestCollectByKindDescendsIntoStructsAndExceptions(t *testing.T) {
	a := entity.NewArena()
	mod := namedModule(a, entity.Root, "app")
	outer := namedStruct(a, mod, "Outer")
	nestedIface := namedInterface(a, outer, "Callback")

	got := CollectByKind(a, entity.Root, entity.DefInterface)
	if len(got) != 1 || got[0] != nestedIface {
		t.Errorf("CollectByKind() = %v, want [%v]", got, nestedIface)
	}
}
