package entity

import (
	"testing"

	"github.com/sdv-framework/sdvidlc/internal/lexer"
)

func newStruct(a *Arena, parent Handle, name string) Handle {
	h := a.Alloc(&Struct{Base: NewBase(name, lexer.Position{}), Named: true})
	a.AddChild(parent, h)
	return h
}

func newVar(a *Arena, parent Handle, name string) Handle {
	h := a.Alloc(&Variable{Base: NewBase(name, lexer.Position{})})
	a.AddChild(parent, h)
	return h
}

func TestScopedName(t *testing.T) {
	a := NewArena()
	mod := a.Alloc(&Module{Base: NewBase("doors", lexer.Position{})})
	a.AddChild(Root, mod)
	s := newStruct(a, mod, "Hinge")
	v := newVar(a, s, "angle")

	if got := a.ScopedName(s); got != "doors::Hinge" {
		t.Fatalf("ScopedName(s) = %q, want doors::Hinge", got)
	}
	if got := a.ScopedName(v); got != "doors::Hinge::angle" {
		t.Fatalf("ScopedName(v) = %q, want doors::Hinge::angle", got)
	}
}

func TestForwardDeclCollapsesToBody(t *testing.T) {
	a := NewArena()
	fwd := a.Alloc(&ForwardDecl{Base: NewBase("Door", lexer.Position{}), Target: DefStruct})
	a.AddChild(Root, fwd)

	// Something references the forward decl before the body is seen.
	ref := a.Alloc(&Variable{Base: NewBase("next", lexer.Position{})})
	_ = ref

	body := a.Alloc(&Struct{Base: NewBase("Door", lexer.Position{}), Named: true})
	a.Complete(fwd, body)

	if a.Get(fwd) != a.Get(body) {
		t.Fatalf("Get(fwd) should observe the completed body")
	}
	if _, ok := a.Get(fwd).(*Struct); !ok {
		t.Fatalf("Get(fwd) should now type-assert as *Struct, got %T", a.Get(fwd))
	}
}

func TestInheritanceCycleRejected(t *testing.T) {
	a := NewArena()
	base := newStruct(a, Root, "Base")
	derived := newStruct(a, Root, "Derived")

	baseEnt := a.Get(base).(*Struct)
	baseEnt.Bases = []Handle{derived}

	if err := CheckInheritanceDAG(a, derived, []Handle{base}); err == nil {
		t.Fatalf("expected cycle error, got nil")
	}
}

func TestInheritanceMemberCollision(t *testing.T) {
	a := NewArena()
	left := newStruct(a, Root, "Left")
	right := newStruct(a, Root, "Right")
	newVar(a, left, "id")
	newVar(a, right, "id")

	derived := newStruct(a, Root, "Derived")
	if err := CheckInheritanceDAG(a, derived, []Handle{left, right}); err == nil {
		t.Fatalf("expected member collision error, got nil")
	}
}

func TestInheritanceDiamondNoCollision(t *testing.T) {
	a := NewArena()
	top := newStruct(a, Root, "Top")
	newVar(a, top, "id")
	left := newStruct(a, Root, "Left")
	a.Get(left).(*Struct).Bases = []Handle{top}
	right := newStruct(a, Root, "Right")
	a.Get(right).(*Struct).Bases = []Handle{top}

	derived := newStruct(a, Root, "Derived")
	if err := CheckInheritanceDAG(a, derived, []Handle{left, right}); err != nil {
		t.Fatalf("diamond inheritance of the same base should not collide: %v", err)
	}
}

func TestEnumUniqueness(t *testing.T) {
	a := NewArena()
	e := a.Alloc(&Enum{Base: NewBase("Color", lexer.Position{}), Named: true})
	a.AddChild(Root, e)
	red := a.Alloc(&EnumEntry{Base: NewBase("Red", lexer.Position{}), NumericValue: 0, Explicit: true})
	a.AddChild(e, red)
	blue := a.Alloc(&EnumEntry{Base: NewBase("Blue", lexer.Position{}), NumericValue: 0, Explicit: true})
	a.AddChild(e, blue)

	if err := CheckEnumUniqueness(a, e); err == nil {
		t.Fatalf("expected duplicate enum value error, got nil")
	}
}

func TestNextEnumValueSkipsUsed(t *testing.T) {
	used := map[int64]bool{0: true, 1: true, 3: true}
	if got := NextEnumValue(used, 3); got != 4 {
		t.Fatalf("NextEnumValue = %d, want 4", got)
	}

	used2 := map[int64]bool{5: true}
	if got := NextEnumValue(used2, -1); got != 0 {
		t.Fatalf("NextEnumValue with no prior entries = %d, want 0", got)
	}
}

func TestLookupHierarchicalAndInherited(t *testing.T) {
	a := NewArena()
	mod := a.Alloc(&Module{Base: NewBase("doors", lexer.Position{})})
	a.AddChild(Root, mod)
	base := newStruct(a, mod, "Base")
	field := newVar(a, base, "id")
	derived := newStruct(a, mod, "Derived")
	a.Get(derived).(*Struct).Bases = []Handle{base}
	local := newVar(a, derived, "label")

	if h, ok := Lookup(a, derived, "label"); !ok || h != local {
		t.Fatalf("Lookup(local) failed: got %v %v", h, ok)
	}
	if h, ok := Lookup(a, derived, "id"); !ok || h != field {
		t.Fatalf("Lookup(inherited) failed: got %v %v", h, ok)
	}
	if h, ok := Lookup(a, derived, "::doors::Base::id"); !ok || h != field {
		t.Fatalf("Lookup(qualified) failed: got %v %v", h, ok)
	}
	if _, ok := Lookup(a, derived, "nope"); ok {
		t.Fatalf("Lookup(nope) should fail")
	}
}

func TestNearestCommonAncestor(t *testing.T) {
	a := NewArena()
	mod := a.Alloc(&Module{Base: NewBase("doors", lexer.Position{})})
	a.AddChild(Root, mod)
	host := newStruct(a, mod, "Host")
	sibling := newStruct(a, host, "Inner")
	v := newVar(a, host, "kind")
	u := newStruct(a, sibling, "Payload")

	if got := NearestCommonAncestor(a, u, v); got != host {
		t.Fatalf("NearestCommonAncestor = %v, want host %v", got, host)
	}
}

func TestResolveSwitchContextVariableBased(t *testing.T) {
	a := NewArena()
	mod := a.Alloc(&Module{Base: NewBase("doors", lexer.Position{})})
	a.AddChild(Root, mod)
	host := newStruct(a, mod, "Host")
	kindVar := newVar(a, host, "kind")
	union := a.Alloc(&Union{Base: NewBase("Payload", lexer.Position{}), Named: true})
	a.AddChild(host, union)

	sc, err := ResolveSwitchContext(a, union, "kind")
	if err != nil {
		t.Fatalf("ResolveSwitchContext failed: %v", err)
	}
	if sc.VariableRef != kindVar {
		t.Fatalf("VariableRef = %v, want %v", sc.VariableRef, kindVar)
	}
	if sc.HostContainer != host {
		t.Fatalf("HostContainer = %v, want %v", sc.HostContainer, host)
	}
}

func TestResolveSwitchContextUndefined(t *testing.T) {
	a := NewArena()
	union := a.Alloc(&Union{Base: NewBase("Payload", lexer.Position{}), Named: true})
	a.AddChild(Root, union)

	if _, err := ResolveSwitchContext(a, union, "missing"); err == nil {
		t.Fatalf("expected undefined switch variable error")
	}
}

func TestGroupBySwitchVariable(t *testing.T) {
	a := NewArena()
	host := newStruct(a, Root, "Host")
	kindVar := newVar(a, host, "kind")
	u1 := a.Alloc(&Union{Base: NewBase("A", lexer.Position{}), Named: true, Switch: SwitchContext{Kind: SwitchVariableBased, VariableRef: kindVar}})
	a.AddChild(host, u1)
	u2 := a.Alloc(&Union{Base: NewBase("B", lexer.Position{}), Named: true, Switch: SwitchContext{Kind: SwitchVariableBased, VariableRef: kindVar}})
	a.AddChild(host, u2)

	groups := GroupBySwitchVariable(a, []Handle{u1, u2})
	if len(groups[kindVar]) != 2 {
		t.Fatalf("expected 2 unions sharing switch variable, got %d", len(groups[kindVar]))
	}
	if groups[kindVar][0] != u1 || groups[kindVar][1] != u2 {
		t.Fatalf("expected declaration order preserved, got %v", groups[kindVar])
	}
}
