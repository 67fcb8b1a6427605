package proxystub

import (
	"github.com/sdv-framework/sdvidlc/internal/codegen"
	"github.com/sdv-framework/sdvidlc/internal/codegen/ifaceid"
	"github.com/sdv-framework/sdvidlc/internal/entity"
)

// EmitStubUnit renders the stub header+source pair for one compilation
// unit: one stub class per non-local interface, sharing a single
// include guard for the same per-unit-artifact reason as EmitProxyUnit.
func EmitStubUnit(a *entity.Arena, src, includeName string) (header, source string) {
	h := codegen.NewStream()
	emitHeaderCommon(h, src, "stub emitter (G2)", includeName)
	s := codegen.NewStream()
	codegen.FileHeader(s, src, "stub emitter (G2)")
	s.Line(`#include "%s_stub.h"`, stripExt(includeName))
	s.Blank()

	for _, iface := range Interfaces(a) {
		emitStubClass(a, iface, h)
		emitStubSource(a, iface, s)
	}
	return h.String(), s.String()
}

// emitStubClass renders a stub class declaration: a single dispatch()
// method that selects the operation by function index with a switch
// (see emitStubSource); no per-index table is built at construction.
func emitStubClass(a *entity.Arena, iface entity.Handle, h *codegen.Stream) {
	name := a.Get(iface).(*entity.Interface).Name()
	h.Line("class %s_stub {", name)
	h.Indent()
	h.Line("public:")
	h.Line("explicit %s_stub(::%s& target) : target_(target) {}", name, a.ScopedName(iface))
	h.Line("bool dispatch(std::uint32_t function_index, const sdv::byte_buffer& request, sdv::byte_buffer& reply, std::uint64_t& exception_id);")
	h.Line("private:")
	h.Line("::%s& target_;", a.ScopedName(iface))
	h.Dedent()
	h.Line("};")
	h.Blank()
}

// emitStubSource renders dispatch()'s body: deserializing parameters,
// invoking the concrete target, and serializing the result or a caught
// declared exception.
func emitStubSource(a *entity.Arena, iface entity.Handle, s *codegen.Stream) {
	name := a.Get(iface).(*entity.Interface).Name()
	ops := operationsOf(a, iface)

	s.Line("bool %s_stub::dispatch(std::uint32_t function_index, const sdv::byte_buffer& request, sdv::byte_buffer& reply, std::uint64_t& exception_id) {", name)
	s.Indent()
	s.Line("std::size_t offset = 0;")
	s.Line("switch (function_index) {")
	s.Indent()
	for i, op := range ops {
		s.Line("case %d: {", i)
		s.Indent()
		for _, p := range op.params {
			s.Line("%s %s{};", codegen.TypeName(a, p.declType), p.name)
			if p.direction != entity.DirOut {
				s.Line("deserialize(request, offset, %s);", p.name)
			}
		}
		if len(op.raises) > 0 {
			s.Line("try {")
			s.Indent()
		}
		argList := ""
		for i, p := range op.params {
			if i > 0 {
				argList += ", "
			}
			argList += p.name
		}
		if op.isVoid {
			s.Line("target_.%s(%s);", op.name, argList)
		} else {
			s.Line("auto result = target_.%s(%s);", op.name, argList)
		}
		if len(op.raises) > 0 {
			s.Dedent()
			for _, r := range op.raises {
				s.Line("} catch (const %s& e) {", a.ScopedName(r))
				s.Indent()
				s.Line("exception_id = %d;", ifaceid.ExceptionID(a, r))
				s.Line("std::size_t eoff = 0;")
				s.Line("serialize(reply, eoff, e);")
				s.Line("return false;")
				s.Dedent()
			}
			s.Line("}")
		}
		s.Line("std::size_t roff = 0;")
		for _, p := range op.params {
			if p.direction == entity.DirIn {
				continue
			}
			s.Line("serialize(reply, roff, %s);", p.name)
		}
		if !op.isVoid {
			s.Line("serialize(reply, roff, result);")
		}
		s.Line("return true;")
		s.Dedent()
		s.Line("}")
	}
	s.Line("default: exception_id = 0; return false;")
	s.Dedent()
	s.Line("}")
	s.Dedent()
	s.Line("}")
	s.Blank()
}
