// Package proxystub implements G2, the proxy/stub emitter: one proxy
// class per non-local interface that marshals an operation invocation
// over the wire, and one stub class that dispatches a received
// invocation back onto a concrete implementation.
package proxystub

import (
	"strings"

	"github.com/sdv-framework/sdvidlc/internal/codegen"
	"github.com/sdv-framework/sdvidlc/internal/codegen/ifaceid"
	"github.com/sdv-framework/sdvidlc/internal/entity"
)

// syntheticOperation is the uniform shape a proxy/stub method renders
// from, built once per real operation and twice per attribute (a
// synthetic get_<name>/set_<name> pair), so the emitter has a single
// rendering path regardless of source.
type syntheticOperation struct {
	name       string
	returnType entity.DeclType
	isVoid     bool
	params     []paramInfo
	raises     []entity.Handle
}

type paramInfo struct {
	name      string
	declType  entity.DeclType
	direction entity.ParamDirection
}

func operationsOf(a *entity.Arena, iface entity.Handle) []syntheticOperation {
	var out []syntheticOperation
	for _, child := range a.Children(iface) {
		switch m := a.Get(child).(type) {
		case *entity.Operation:
			op := syntheticOperation{name: m.Name(), returnType: m.ReturnType, raises: m.Raises}
			if b, ok := a.Get(m.ReturnType.Definition).(*entity.Builtin); ok && b.Prim == entity.PrimVoid {
				op.isVoid = true
			}
			for _, p := range m.Params {
				param := a.Get(p).(*entity.Parameter)
				op.params = append(op.params, paramInfo{name: param.Name(), declType: *param.Type(), direction: param.Direction})
			}
			out = append(out, op)
		case *entity.Attribute:
			out = append(out, syntheticOperation{
				name:       "get_" + m.Name(),
				returnType: m.DeclTypeValue,
				raises:     m.GetRaises,
			})
			if !m.ReadOnly {
				out = append(out, syntheticOperation{
					name:   "set_" + m.Name(),
					isVoid: true,
					params: []paramInfo{{name: "value", declType: m.DeclTypeValue, direction: entity.DirIn}},
					raises: m.SetRaises,
				})
			}
		}
	}
	return out
}

// Interfaces returns every non-local interface in the unit, in
// declaration order; local interfaces are never marshaled and G2/G3
// skip them entirely.
func Interfaces(a *entity.Arena) []entity.Handle {
	var out []entity.Handle
	for _, h := range codegen.CollectByKind(a, entity.Root, entity.DefInterface) {
		if iface := a.Get(h).(*entity.Interface); !iface.Local {
			out = append(out, h)
		}
	}
	return out
}

func paramDecl(a *entity.Arena, p paramInfo) string {
	base := codegen.TypeName(a, p.declType)
	if _, ok := a.Get(p.declType.Definition).(*entity.Interface); ok {
		base += "*"
	} else if p.direction != entity.DirIn {
		base += "&"
	}
	return base + " " + p.name
}

func returnDecl(a *entity.Arena, op syntheticOperation) string {
	if op.isVoid {
		return "void"
	}
	return codegen.TypeName(a, op.returnType)
}

func paramList(a *entity.Arena, op syntheticOperation) string {
	out := ""
	for i, p := range op.params {
		if i > 0 {
			out += ", "
		}
		out += paramDecl(a, p)
	}
	return out
}

func exceptionDispatch(a *entity.Arena, raises []entity.Handle, s *codegen.Stream) {
	for _, r := range raises {
		s.Line("if (exception_id == %d) { %s err; deserialize(reply, offset, err); throw err; }", ifaceid.ExceptionID(a, r), a.ScopedName(r))
	}
	s.Line("throw sdv::unknown_exception(exception_id);")
}

func emitHeaderCommon(s *codegen.Stream, src, generator, includeName string) {
	codegen.FileHeader(s, src, generator)
	codegen.OpenIncludeGuard(s, src)
	s.Line(`#include "sdv_runtime.h"`)
	s.Line(`#include "../%s"`, includeName)
	s.Blank()
}

func stripExt(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[:i]
	}
	return name
}
