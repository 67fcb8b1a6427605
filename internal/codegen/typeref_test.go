package codegen

import (
	"testing"

	"github.com/sdv-framework/sdvidlc/internal/entity"
	"github.com/sdv-framework/sdvidlc/internal/lexer"
)

func newTestArena() (*entity.Arena, *entity.BuiltinTable) {
	a := entity.NewArena()
	return a, entity.NewBuiltinTable(a)
}

func TestBaseTypeNamePrimitive(t *testing.T) {
	a, bt := newTestArena()
	h := bt.Prim(entity.PrimInt32)
	if got, want := BaseTypeName(a, h), "int32_t"; got != want {
		t.Errorf("BaseTypeName() = %q, want %q", got, want)
	}
}

func TestBaseTypeNameUnboundedSequence(t *testing.T) {
	a, bt := newTestArena()
	elem := bt.Prim(entity.PrimInt32)
	seq := bt.Sequence(elem, 0, false)
	if got, want := BaseTypeName(a, seq), "sdv::sequence<int32_t>"; got != want {
		t.Errorf("BaseTypeName() = %q, want %q", got, want)
	}
}

func TestBaseTypeNameBoundedSequence(t *testing.T) {
	a, bt := newTestArena()
	elem := bt.Prim(entity.PrimOctet)
	seq := bt.Sequence(elem, 16, true)
	if got, want := BaseTypeName(a, seq), "sdv::bounded_sequence<uint8_t, 16>"; got != want {
		t.Errorf("BaseTypeName() = %q, want %q", got, want)
	}
}

func TestBaseTypeNamePointer(t *testing.T) {
	a, bt := newTestArena()
	target := bt.Prim(entity.PrimInt32)
	ptr := bt.Pointer(target)
	if got, want := BaseTypeName(a, ptr), "int32_t*"; got != want {
		t.Errorf("BaseTypeName() = %q, want %q", got, want)
	}
}

func TestBaseTypeNameAny(t *testing.T) {
	a, bt := newTestArena()
	h := bt.Any()
	if got, want := BaseTypeName(a, h), "sdv::any"; got != want {
		t.Errorf("BaseTypeName() = %q, want %q", got, want)
	}
}

func TestBaseTypeNameUserDefinedUsesScopedName(t *testing.T) {
	a, _ := newTestArena()
	h := a.Alloc(&entity.Struct{Base: entity.NewBase("SHingePosition", lexer.Position{}), Named: true})
	a.AddChild(entity.Root, h)
	if got, want := BaseTypeName(a, h), "::SHingePosition"; got != want {
		t.Errorf("BaseTypeName() = %q, want %q", got, want)
	}
}

func TestTypeNameAddsConstForReadOnly(t *testing.T) {
	a, bt := newTestArena()
	h := bt.Prim(entity.PrimInt32)
	dt := entity.DeclType{Definition: h, ReadOnly: true}
	if got, want := TypeName(a, dt), "const int32_t"; got != want {
		t.Errorf("TypeName() = %q, want %q", got, want)
	}
}

func TestArraySuffixFixedDimensions(t *testing.T) {
	dims := []entity.ArrayDim{{Size: 4}, {Size: 2}}
	got := ArraySuffix(dims, nil)
	if want := "[4][2]"; got != want {
		t.Errorf("ArraySuffix() = %q, want %q", got, want)
	}
}

func TestArraySuffixDynamicDimensionUsesRenderExpr(t *testing.T) {
	dims := []entity.ArrayDim{{Dynamic: true}}
	got := ArraySuffix(dims, func(d []entity.ArrayDim) string { return "n" })
	if want := "[n]"; got != want {
		t.Errorf("ArraySuffix() = %q, want %q", got, want)
	}
}

func TestCanonicalTypeStringIndependentOfCxxSpelling(t *testing.T) {
	a, bt := newTestArena()
	elem := bt.Prim(entity.PrimInt32)
	seq := bt.Sequence(elem, 0, false)
	dt := entity.DeclType{Definition: seq, Dims: []entity.ArrayDim{{Size: 3}}, ReadOnly: true}
	got := CanonicalTypeString(a, dt)
	want := "sequence<int32>[3] const"
	if got != want {
		t.Errorf("CanonicalTypeString() = %q, want %q", got, want)
	}
}

func TestCanonicalTypeStringDynamicDimension(t *testing.T) {
	a, bt := newTestArena()
	h := bt.Prim(entity.PrimInt32)
	dt := entity.DeclType{Definition: h, Dims: []entity.ArrayDim{{Dynamic: true}}}
	got := CanonicalTypeString(a, dt)
	if want := "int32[?]"; got != want {
		t.Errorf("CanonicalTypeString() = %q, want %q", got, want)
	}
}
