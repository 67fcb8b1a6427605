package proxystub

import (
	"github.com/sdv-framework/sdvidlc/internal/codegen"
	"github.com/sdv-framework/sdvidlc/internal/codegen/ifaceid"
	"github.com/sdv-framework/sdvidlc/internal/entity"
)

// EmitProxyUnit renders the proxy header+source pair for one compilation
// unit: one proxy class per non-local interface the unit declares,
// sharing a single include guard, since the output artifact is one
// file per unit rather than one per interface.
func EmitProxyUnit(a *entity.Arena, src, includeName string) (header, source string) {
	h := codegen.NewStream()
	emitHeaderCommon(h, src, "proxy emitter (G2)", includeName)
	s := codegen.NewStream()
	codegen.FileHeader(s, src, "proxy emitter (G2)")
	s.Line(`#include "%s_proxy.h"`, stripExt(includeName))
	s.Blank()

	for _, iface := range Interfaces(a) {
		emitProxyClass(a, iface, h)
		emitProxySource(a, iface, s)
	}
	return h.String(), s.String()
}

// emitProxyClass renders the proxy class implementing one interface by
// serializing the discriminant and in/inout parameters, invoking
// do_call, then deserializing the reply into the return value and
// out/inout parameters, or dispatching a raised exception.
func emitProxyClass(a *entity.Arena, iface entity.Handle, h *codegen.Stream) {
	name := a.Get(iface).(*entity.Interface).Name()
	h.Line("class %s_proxy : public ::%s {", name, a.ScopedName(iface))
	h.Indent()
	h.Line("public:")
	h.Line("explicit %s_proxy(sdv::call_channel& channel) : channel_(channel) {}", name)
	for _, op := range operationsOf(a, iface) {
		h.Line("%s %s(%s) override;", returnDecl(a, op), op.name, paramList(a, op))
	}
	h.Line("private:")
	h.Line("sdv::call_channel& channel_;")
	h.Dedent()
	h.Line("};")
	h.Blank()
}

func emitProxySource(a *entity.Arena, iface entity.Handle, s *codegen.Stream) {
	name := a.Get(iface).(*entity.Interface).Name()
	id := ifaceid.InterfaceID(a, iface)
	ops := operationsOf(a, iface)
	for i, op := range ops {
		s.Line("%s %s_proxy::%s(%s) {", returnDecl(a, op), name, op.name, paramList(a, op))
		s.Indent()
		s.Line("sdv::byte_buffer request;")
		s.Line("std::size_t offset = 0;")
		s.Line("serialize(request, offset, static_cast<std::uint64_t>(%#x));", id)
		s.Line("serialize(request, offset, static_cast<std::uint32_t>(%d));", i)
		for _, p := range op.params {
			if p.direction == entity.DirOut {
				continue
			}
			s.Line("serialize(request, offset, %s);", p.name)
		}
		s.Line("sdv::byte_buffer reply;")
		s.Line("std::uint64_t exception_id = 0;")
		s.Line("if (!channel_.do_call(request, reply, exception_id)) {")
		s.Indent()
		exceptionDispatch(a, op.raises, s)
		s.Dedent()
		s.Line("}")
		s.Line("offset = 0;")
		for _, p := range op.params {
			if p.direction == entity.DirIn {
				continue
			}
			s.Line("deserialize(reply, offset, %s);", p.name)
		}
		if !op.isVoid {
			s.Line("%s result;", returnDecl(a, op))
			s.Line("deserialize(reply, offset, result);")
			s.Line("return result;")
		}
		s.Dedent()
		s.Line("}")
		s.Blank()
	}
}
