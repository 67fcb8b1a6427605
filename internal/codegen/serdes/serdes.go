// Package serdes implements G3, the serializer/deserializer emitter: a
// calc_size/serialize/deserialize triplet per struct, exception, and
// enum of a unit, with unions and interface pointers held in a struct or
// exception (de)serialized inside that container's triplet, so they can
// be marshaled across the call channel G2 uses.
package serdes

import (
	"fmt"

	"github.com/sdv-framework/sdvidlc/internal/codegen"
	"github.com/sdv-framework/sdvidlc/internal/codegen/ifaceid"
	"github.com/sdv-framework/sdvidlc/internal/entity"
	"github.com/sdv-framework/sdvidlc/internal/lexer"
)

// Emit renders the serdes header for one compilation unit: one
// specialization triplet per struct, exception, and enum reached from
// the unit's definitions. A union member is (de)serialized inside the
// triplet of the struct or exception hosting it; a union declared
// outside any struct or exception gets no triplet. Interfaces serialize
// as a pointer (see emitInterfacePointerSerialize) rather than as a
// named specialization, since an interface has no value representation
// of its own.
func Emit(a *entity.Arena, src, includeName string) string {
	s := codegen.NewStream()
	codegen.FileHeader(s, src, "serdes emitter (G3)")
	codegen.OpenIncludeGuard(s, src)
	s.Line(`#include "sdv_runtime.h"`)
	s.Line(`#include "../%s"`, includeName)
	s.Blank()

	for _, h := range codegen.CollectByKind(a, entity.Root, entity.DefStruct, entity.DefException) {
		emitRecord(a, h, s)
	}
	for _, h := range codegen.CollectByKind(a, entity.Root, entity.DefEnum) {
		emitEnum(a, h, s)
	}
	return s.String()
}

func scopedName(a *entity.Arena, h entity.Handle) string { return a.ScopedName(h) }

func emitEnum(a *entity.Arena, h entity.Handle, s *codegen.Stream) {
	d := a.Get(h).(*entity.Enum)
	under := codegen.TypeName(a, d.Underlying)
	name := scopedName(a, h)
	s.Line("inline std::size_t calc_size(const %s&) { return sizeof(%s); }", name, under)
	s.Line("inline void serialize(sdv::byte_buffer& buf, std::size_t& offset, const %s& v) {", name)
	s.Indent()
	s.Line("serialize(buf, offset, static_cast<%s>(v));", under)
	s.Dedent()
	s.Line("}")
	s.Line("inline void deserialize(const sdv::byte_buffer& buf, std::size_t& offset, %s& v) {", name)
	s.Indent()
	s.Line("%s raw{};", under)
	s.Line("deserialize(buf, offset, raw);")
	s.Line("v = static_cast<%s>(raw);", name)
	s.Dedent()
	s.Line("}")
	s.Blank()
}

// emitRecord renders the calc_size/serialize/deserialize triplet for a
// struct or exception: base-class serdes chained first, then each
// member in declaration order. An exception additionally (de)serializes
// its leading ID for integrity verification on the receiving side.
func emitRecord(a *entity.Arena, h entity.Handle, s *codegen.Stream) {
	name := scopedName(a, h)
	var bases []entity.Handle
	isException := false
	var exceptionID uint64
	switch d := a.Get(h).(type) {
	case *entity.Struct:
		bases = d.Bases
	case *entity.Exception:
		bases = d.Bases
		isException = true
		exceptionID = ifaceid.ExceptionID(a, h)
	}

	members := memberFields(a, h)
	unions := hostUnions(a, h)

	s.Line("inline std::size_t calc_size(const %s& v) {", name)
	s.Indent()
	s.Line("std::size_t sz = 0;")
	if isException {
		s.Line("sz += sizeof(std::uint64_t);")
	}
	for _, b := range bases {
		s.Line("sz += calc_size(static_cast<const %s&>(v));", scopedName(a, b))
	}
	for _, m := range members {
		s.Line("sz += calc_size(v.%s);", m.name)
	}
	for _, u := range unions {
		emitUnionCalcSize(a, a.Get(u).(*entity.Union), s)
	}
	s.Line("return sz;")
	s.Dedent()
	s.Line("}")

	s.Line("inline void serialize(sdv::byte_buffer& buf, std::size_t& offset, const %s& v) {", name)
	s.Indent()
	if isException {
		s.Line("serialize(buf, offset, static_cast<std::uint64_t>(%#x));", exceptionID)
	}
	for _, b := range bases {
		s.Line("serialize(buf, offset, static_cast<const %s&>(v));", scopedName(a, b))
	}
	for _, m := range members {
		emitFieldSerialize(a, m, s)
	}
	for _, u := range unions {
		emitUnionSerialize(a, a.Get(u).(*entity.Union), s)
	}
	s.Dedent()
	s.Line("}")

	s.Line("inline void deserialize(const sdv::byte_buffer& buf, std::size_t& offset, %s& v) {", name)
	s.Indent()
	if isException {
		s.Line("std::uint64_t id = 0;")
		s.Line("deserialize(buf, offset, id);")
		s.Line("if (id != %#x) throw sdv::marshal_integrity_error();", exceptionID)
	}
	for _, b := range bases {
		s.Line("deserialize(buf, offset, static_cast<%s&>(v));", scopedName(a, b))
	}
	for _, m := range members {
		emitFieldDeserialize(a, m, s)
	}
	for _, u := range unions {
		emitUnionDeserialize(a, a.Get(u).(*entity.Union), s)
	}
	s.Dedent()
	s.Line("}")
	s.Blank()
}

type field struct {
	name string
	dt   entity.DeclType
}

func memberFields(a *entity.Arena, h entity.Handle) []field {
	var out []field
	for _, child := range a.Children(h) {
		if v, ok := a.Get(child).(*entity.Variable); ok {
			out = append(out, field{name: v.Name(), dt: *v.Type()})
		}
	}
	return out
}

func emitFieldSerialize(a *entity.Arena, f field, s *codegen.Stream) {
	if _, ok := a.Get(f.dt.Definition).(*entity.PointerType); ok {
		emitInterfacePointerSerialize(a, f, s)
		return
	}
	if f.dt.IsArray() {
		emitArraySerialize(a, f, s)
		return
	}
	s.Line("serialize(buf, offset, v.%s);", f.name)
}

func emitFieldDeserialize(a *entity.Arena, f field, s *codegen.Stream) {
	if _, ok := a.Get(f.dt.Definition).(*entity.PointerType); ok {
		emitInterfacePointerDeserialize(a, f, s)
		return
	}
	if f.dt.IsArray() {
		emitArrayDeserialize(a, f, s)
		return
	}
	s.Line("deserialize(buf, offset, v.%s);", f.name)
}

// emitArraySerialize/Deserialize wrap the per-element call in nested for
// loops honoring dynamic dimensions (rendered from their preserved
// source tokens rather than a numeric literal).
func emitArraySerialize(a *entity.Arena, f field, s *codegen.Stream) {
	iters := emitArrayLoopOpen(f.dt.Dims, s)
	s.Line("serialize(buf, offset, v.%s%s);", f.name, iters)
	emitArrayLoopClose(f.dt.Dims, s)
}

func emitArrayDeserialize(a *entity.Arena, f field, s *codegen.Stream) {
	iters := emitArrayLoopOpen(f.dt.Dims, s)
	s.Line("deserialize(buf, offset, v.%s%s);", f.name, iters)
	emitArrayLoopClose(f.dt.Dims, s)
}

func emitArrayLoopOpen(dims []entity.ArrayDim, s *codegen.Stream) string {
	iters := ""
	for i, d := range dims {
		iter := indexName(i)
		bound := "0"
		if d.Dynamic {
			bound = renderExprTokens(d.Expr)
		} else {
			bound = fmt.Sprintf("%d", d.Size)
		}
		s.Line("for (std::size_t %s = 0; %s < %s; ++%s) {", iter, iter, bound, iter)
		s.Indent()
		iters += "[" + iter + "]"
	}
	return iters
}

func emitArrayLoopClose(dims []entity.ArrayDim, s *codegen.Stream) {
	for range dims {
		s.Dedent()
		s.Line("}")
	}
}

func indexName(i int) string { return fmt.Sprintf("idx%d", i) }

func renderExprTokens(toks []lexer.Token) string {
	out := ""
	for _, t := range toks {
		out += t.Lexeme
	}
	return out
}

// emitInterfacePointerSerialize/Deserialize serialize an interface
// pointer as the interface ID followed by the runtime marshal ID the
// object registry assigns on first export of that object.
func emitInterfacePointerSerialize(a *entity.Arena, f field, s *codegen.Stream) {
	ptr := a.Get(f.dt.Definition).(*entity.PointerType)
	id := uint64(0)
	if _, ok := a.Get(ptr.Target).(*entity.Interface); ok {
		id = ifaceid.InterfaceID(a, ptr.Target)
	}
	s.Line("serialize(buf, offset, static_cast<std::uint64_t>(%#x));", id)
	s.Line("serialize(buf, offset, sdv::object_registry::instance().export_object(v.%s));", f.name)
}

func emitInterfacePointerDeserialize(a *entity.Arena, f field, s *codegen.Stream) {
	s.Line("std::uint64_t %s_iface_id = 0;", f.name)
	s.Line("deserialize(buf, offset, %s_iface_id);", f.name)
	s.Line("std::uint64_t %s_marshal_id = 0;", f.name)
	s.Line("deserialize(buf, offset, %s_marshal_id);", f.name)
	s.Line("v.%s = sdv::object_registry::instance().import_object(%s_iface_id, %s_marshal_id);", f.name, f.name, f.name)
}
