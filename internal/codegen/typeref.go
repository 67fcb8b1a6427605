package codegen

import (
	"fmt"
	"strings"

	"github.com/sdv-framework/sdvidlc/internal/entity"
)

// primCxx maps a primitive kind to the C++ spelling the definition emitter
// and serdes emitter both render.
var primCxx = map[entity.PrimKind]string{
	entity.PrimBoolean: "bool", entity.PrimChar: "char",
	entity.PrimChar16: "char16_t", entity.PrimChar32: "char32_t",
	entity.PrimWChar: "wchar_t", entity.PrimOctet: "uint8_t",
	entity.PrimShort: "short", entity.PrimLong: "long",
	entity.PrimLongLong: "long long", entity.PrimUShort: "unsigned short",
	entity.PrimULong: "unsigned long", entity.PrimULongLong: "unsigned long long",
	entity.PrimInt8: "int8_t", entity.PrimInt16: "int16_t",
	entity.PrimInt32: "int32_t", entity.PrimInt64: "int64_t",
	entity.PrimUInt8: "uint8_t", entity.PrimUInt16: "uint16_t",
	entity.PrimUInt32: "uint32_t", entity.PrimUInt64: "uint64_t",
	entity.PrimFloat: "float", entity.PrimDouble: "double",
	entity.PrimLongDouble: "long double", entity.PrimFixed: "sdv::fixed",
	entity.PrimString: "std::string", entity.PrimU8String: "std::u8string",
	entity.PrimU16String: "std::u16string", entity.PrimU32String: "std::u32string",
	entity.PrimWString: "std::wstring", entity.PrimVoid: "void",
}

// BaseTypeName renders the C++ spelling of a definition handle, without
// any array-dimension suffix (callers append those separately since C++
// array syntax trails the declarator, not the type).
func BaseTypeName(a *entity.Arena, h entity.Handle) string {
	switch d := a.Get(h).(type) {
	case *entity.Builtin:
		return primCxx[d.Prim]
	case *entity.Sequence:
		elem := BaseTypeName(a, d.Element)
		if d.HasBound {
			return fmt.Sprintf("sdv::bounded_sequence<%s, %d>", elem, d.Bound)
		}
		return fmt.Sprintf("sdv::sequence<%s>", elem)
	case *entity.PointerType:
		return BaseTypeName(a, d.Target) + "*"
	case *entity.AnyType:
		return "sdv::any"
	default:
		return "::" + a.ScopedName(h)
	}
}

// TypeName renders a declaration type as it would read in a
// member/parameter declaration: the base type name, prefixed with
// `const` when read-only. Array dimensions are not included; callers
// append them with ArraySuffix.
func TypeName(a *entity.Arena, dt entity.DeclType) string {
	name := BaseTypeName(a, dt.Definition)
	if dt.ReadOnly {
		name = "const " + name
	}
	return name
}

// ArraySuffix renders the `[N]`/`[expr]` trailer for an array-typed
// declaration, one bracket group per dimension.
func ArraySuffix(dims []entity.ArrayDim, renderExpr func([]entity.ArrayDim) string) string {
	var b strings.Builder
	for i, d := range dims {
		b.WriteByte('[')
		if d.Dynamic {
			b.WriteString(renderExpr(dims[i : i+1]))
		} else {
			fmt.Fprintf(&b, "%d", d.Size)
		}
		b.WriteByte(']')
	}
	return b.String()
}

// CanonicalTypeString renders a type reference into the normalized form
// used by interface-ID hashing: stable across unrelated
// compilations of a structurally identical type, independent of any
// particular C++ spelling choice, so it is computed separately from
// TypeName even though the two agree for scalars.
func CanonicalTypeString(a *entity.Arena, dt entity.DeclType) string {
	var b strings.Builder
	b.WriteString(canonicalDef(a, dt.Definition))
	for _, d := range dt.Dims {
		if d.Dynamic {
			b.WriteString("[?]")
		} else {
			fmt.Fprintf(&b, "[%d]", d.Size)
		}
	}
	if dt.ReadOnly {
		b.WriteString(" const")
	}
	return b.String()
}

func canonicalDef(a *entity.Arena, h entity.Handle) string {
	switch d := a.Get(h).(type) {
	case *entity.Builtin:
		return d.Prim.String()
	case *entity.Sequence:
		if d.HasBound {
			return fmt.Sprintf("sequence<%s,%d>", canonicalDef(a, d.Element), d.Bound)
		}
		return fmt.Sprintf("sequence<%s>", canonicalDef(a, d.Element))
	case *entity.PointerType:
		return "pointer<" + canonicalDef(a, d.Target) + ">"
	case *entity.AnyType:
		return "any"
	default:
		return a.ScopedName(h)
	}
}
