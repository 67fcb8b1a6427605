package definition

import (
	"fmt"

	"github.com/sdv-framework/sdvidlc/internal/codegen"
	"github.com/sdv-framework/sdvidlc/internal/entity"
)

// memberUnions returns the direct-child unions of host whose lifecycle
// code belongs on host itself: every type-based union (always local to
// its declaring container) and every variable-based union whose nearest
// common ancestor with its switch variable is host.
func (e *Emitter) memberUnions(host entity.Handle) []entity.Handle {
	var out []entity.Handle
	for _, child := range e.a.Children(host) {
		u, ok := e.a.Get(child).(*entity.Union)
		if !ok {
			continue
		}
		if u.Switch.Kind == entity.SwitchTypeBased || u.Switch.HostContainer == host {
			out = append(out, child)
		}
	}
	return out
}

// recordSwitchVariableContext handles a cross-container variable-based
// union: when the union's own declaring container differs from the host
// that will carry its lifecycle helpers, a forward declaration of the
// host is required in the file preface. No friend declaration is emitted.
func (e *Emitter) recordSwitchVariableContext(unionHandle entity.Handle) {
	u := e.a.Get(unionHandle).(*entity.Union)
	if u.Switch.Kind != entity.SwitchVariableBased {
		return
	}
	declaring := e.a.Get(unionHandle).Parent()
	if declaring == u.Switch.HostContainer {
		return
	}
	e.ctx.RequireForward(u.Switch.HostContainer)
}

// emitUnionMember renders the raw storage of an embedded union: the
// discriminant (for a type-based union) and a C++ `union { arm... }`
// holding one member per distinct case arm.
func (e *Emitter) emitUnionMember(h entity.Handle, u *entity.Union, s *codegen.Stream) {
	if u.Switch.Kind == entity.SwitchTypeBased {
		sv := e.a.Get(u.Switch.InlineVar).(*entity.SwitchVariable)
		s.Line("%s switch_value;", codegen.TypeName(e.a, sv.DeclTypeValue))
	}

	name := u.Name()
	s.Line("union%s {", nameSuffix(name))
	s.Indent()
	seen := map[entity.Handle]bool{}
	for _, caseH := range u.Cases {
		c := e.a.Get(caseH).(*entity.CaseEntry)
		if seen[c.Member] {
			continue
		}
		seen[c.Member] = true
		v := e.a.Get(c.Member).(*entity.Variable)
		dt := *v.Type()
		s.Line("%s %s%s;", codegen.TypeName(e.a, dt), v.Name(), e.arraySuffix(dt.Dims))
	}
	s.Dedent()
	if name == "" {
		s.Line("};")
	} else {
		s.Line("} %s;", name)
	}
	s.Blank()
}

func nameSuffix(name string) string {
	if name == "" {
		return ""
	}
	return " " + name
}

// emitUnionStandalone renders a union declared at module/file scope as its
// own named type: the lowering is identical to an embedded union, except
// the lifecycle helpers attach to the union's own synthetic wrapper
// struct rather than to a surrounding record.
func (e *Emitter) emitUnionStandalone(h entity.Handle, d *entity.Union, s *codegen.Stream) {
	s.Line("struct %s {", d.Name())
	s.Indent()
	e.emitUnionMember(h, d, s)
	e.emitUnionLifecycle(h, h, s)
	s.Dedent()
	s.Line("};")
	s.Blank()
}

// emitUnionLifecycle renders, for one union hosted on host, the private
// construct_/destruct_ helpers and the public switch_to_/get_switch_
// accessors, all named after the union. It emits no constructor,
// destructor, copy/move constructor, or assignment operator, and unions
// sharing one switch variable are not grouped: each gets its own set.
func (e *Emitter) emitUnionLifecycle(host entity.Handle, unionHandle entity.Handle, s *codegen.Stream) {
	u := e.a.Get(unionHandle).(*entity.Union)
	if !e.unionNeedsLifecycle(u) {
		return
	}

	varName := e.switchAccessorName(u)
	s.Line("private:")
	e.emitConstructHelper(u, varName, s)
	e.emitDestructHelper(u, varName, s)
	s.Line("public:")
	s.Line("void switch_to_%s(%s value) {", varName, e.discriminantTypeName(u))
	s.Indent()
	s.Line("destruct_%s();", varName)
	e.emitSwitchAssign(u, varName, s)
	s.Line("construct_%s();", varName)
	s.Dedent()
	s.Line("}")
	s.Line("%s get_switch_%s() const { return %s; }", e.discriminantTypeName(u), varName, e.switchValueExpr(u))
	s.Blank()
}

// unionNeedsLifecycle reports whether the union gets lifecycle helpers:
// true when at least one arm holds a non-trivial type, and otherwise
// whenever the union has at least one case, so a union whose arms are all
// trivial still gets the construct_/destruct_ helpers and the
// switch_to_/get_switch_ accessors the serdes emitter calls. Only a union
// with no cases reports false.
func (e *Emitter) unionNeedsLifecycle(u *entity.Union) bool {
	for _, caseH := range u.Cases {
		c := e.a.Get(caseH).(*entity.CaseEntry)
		v := e.a.Get(c.Member).(*entity.Variable)
		if !e.isTrivial(*v.Type()) {
			return true
		}
	}
	return len(u.Cases) > 0
}

func (e *Emitter) isTrivial(dt entity.DeclType) bool {
	switch d := e.a.Get(dt.Definition).(type) {
	case *entity.Builtin:
		return d.Prim != entity.PrimString && d.Prim != entity.PrimU8String &&
			d.Prim != entity.PrimU16String && d.Prim != entity.PrimU32String &&
			d.Prim != entity.PrimWString
	case *entity.PointerType, *entity.AnyType:
		return true
	default:
		return false
	}
}

func (e *Emitter) switchAccessorName(u *entity.Union) string {
	if u.Name() != "" {
		return u.Name()
	}
	return "value"
}

func (e *Emitter) discriminantTypeName(u *entity.Union) string {
	if u.Switch.Kind == entity.SwitchTypeBased {
		sv := e.a.Get(u.Switch.InlineVar).(*entity.SwitchVariable)
		return codegen.TypeName(e.a, sv.DeclTypeValue)
	}
	v := e.a.Get(u.Switch.VariableRef).(entity.Declaration)
	return codegen.TypeName(e.a, *v.Type())
}

func (e *Emitter) switchValueExpr(u *entity.Union) string {
	if u.Switch.Kind == entity.SwitchTypeBased {
		return "switch_value"
	}
	return e.a.Get(u.Switch.VariableRef).(entity.Declaration).Name()
}

func (e *Emitter) emitSwitchAssign(u *entity.Union, varName string, s *codegen.Stream) {
	if u.Switch.Kind == entity.SwitchTypeBased {
		s.Line("switch_value = value;")
		return
	}
	s.Line("%s = value;", e.a.Get(u.Switch.VariableRef).(entity.Declaration).Name())
}

// emitConstructHelper placement-initializes exactly one arm, chosen by the
// current discriminant value, defaulting for an unmatched value.
func (e *Emitter) emitConstructHelper(u *entity.Union, varName string, s *codegen.Stream) {
	s.Line("void construct_%s() {", varName)
	s.Indent()
	s.Line("switch (%s) {", e.switchValueExpr(u))
	s.Indent()
	name := u.Name()
	accessor := memberAccessor(name)
	for _, caseH := range u.Cases {
		c := e.a.Get(caseH).(*entity.CaseEntry)
		if c.IsDefault {
			continue
		}
		arm := e.a.Get(c.Member).(*entity.Variable)
		for _, label := range c.Labels {
			s.Line("case %s:", label.String())
		}
		dt := *arm.Type()
		s.Line("new (&%s%s) %s();", accessor, arm.Name(), codegen.TypeName(e.a, dt))
		s.Line("break;")
	}
	for _, caseH := range u.Cases {
		c := e.a.Get(caseH).(*entity.CaseEntry)
		if !c.IsDefault {
			continue
		}
		arm := e.a.Get(c.Member).(*entity.Variable)
		dt := *arm.Type()
		s.Line("default:")
		s.Line("new (&%s%s) %s();", accessor, arm.Name(), codegen.TypeName(e.a, dt))
		s.Line("break;")
	}
	s.Dedent()
	s.Line("}")
	s.Dedent()
	s.Line("}")
}

func (e *Emitter) emitDestructHelper(u *entity.Union, varName string, s *codegen.Stream) {
	s.Line("void destruct_%s() {", varName)
	s.Indent()
	s.Line("switch (%s) {", e.switchValueExpr(u))
	s.Indent()
	accessor := memberAccessor(u.Name())
	for _, caseH := range u.Cases {
		c := e.a.Get(caseH).(*entity.CaseEntry)
		arm := e.a.Get(c.Member).(*entity.Variable)
		if e.isTrivial(*arm.Type()) {
			continue
		}
		for _, label := range c.Labels {
			s.Line("case %s:", label.String())
		}
		if c.IsDefault {
			s.Line("default:")
		}
		dt := *arm.Type()
		s.Line("%s%s.~%s();", accessor, arm.Name(), codegen.BaseTypeName(e.a, dt.Definition))
		s.Line("break;")
	}
	s.Line("default: break;")
	s.Dedent()
	s.Line("}")
	s.Dedent()
	s.Line("}")
}

func memberAccessor(unionName string) string {
	if unionName == "" {
		return ""
	}
	return unionName + "."
}

// emitArrayUnionField renders the construct_/destruct_ helper pair for a
// struct field whose element type is a named union and whose declaration
// carries one or more array dimensions, plus a default constructor and
// destructor for the host struct that invoke them: each helper wraps the
// per-element construct_/destruct_ call in nested for loops over the
// declared dimensions, using synthesized iterator names.
func (e *Emitter) emitArrayUnionField(host string, field entity.Handle, s *codegen.Stream) {
	v := e.a.Get(field).(*entity.Variable)
	dt := *v.Type()
	u := e.a.Get(dt.Definition).(*entity.Union)
	varName := e.switchAccessorName(u)

	s.Line("void construct_%s_elements() {", v.Name())
	s.Indent()
	e.emitArrayLoop(v.Name(), dt.Dims, "construct", varName, s)
	s.Dedent()
	s.Line("}")
	s.Line("void destruct_%s_elements() {", v.Name())
	s.Indent()
	e.emitArrayLoop(v.Name(), dt.Dims, "destruct", varName, s)
	s.Dedent()
	s.Line("}")
	s.Line("%s() { construct_%s_elements(); }", host, v.Name())
	s.Line("~%s() { destruct_%s_elements(); }", host, v.Name())
	s.Blank()
}

func (e *Emitter) emitArrayLoop(fieldName string, dims []entity.ArrayDim, op, varName string, s *codegen.Stream) {
	for i, d := range dims {
		iter := fmt.Sprintf("i%d", i)
		bound := fmt.Sprintf("%d", d.Size)
		if d.Dynamic {
			bound = renderExprTokens(d.Expr)
		}
		s.Line("for (std::size_t %s = 0; %s < %s; ++%s) {", iter, iter, bound, iter)
		s.Indent()
	}
	s.Line("%s[%s].%s_%s();", fieldName, iteratorList(len(dims)), op, varName)
	for range dims {
		s.Dedent()
		s.Line("}")
	}
}

func iteratorList(n int) string {
	out := ""
	for i := 0; i < n; i++ {
		if i > 0 {
			out += "]["
		}
		out += fmt.Sprintf("i%d", i)
	}
	return out
}
