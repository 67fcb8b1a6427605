package serdes

import (
	"github.com/sdv-framework/sdvidlc/internal/codegen"
	"github.com/sdv-framework/sdvidlc/internal/entity"
)

// hostUnions returns host's direct-child unions whose lifecycle helpers
// the definition emitter placed on host: every type-based union, and
// every variable-based union whose nearest common ancestor with its
// switch variable is host itself. A variable-based union hosted
// elsewhere serializes as part of that other container's own triplet
// instead, so it is not repeated here.
func hostUnions(a *entity.Arena, host entity.Handle) []entity.Handle {
	var out []entity.Handle
	for _, child := range a.Children(host) {
		u, ok := a.Get(child).(*entity.Union)
		if !ok {
			continue
		}
		if u.Switch.Kind == entity.SwitchTypeBased || u.Switch.HostContainer == host {
			out = append(out, child)
		}
	}
	return out
}

func unionAccessorName(u *entity.Union) string {
	if u.Name() != "" {
		return u.Name()
	}
	return "value"
}

func unionDiscriminantType(a *entity.Arena, u *entity.Union) string {
	if u.Switch.Kind == entity.SwitchTypeBased {
		sv := a.Get(u.Switch.InlineVar).(*entity.SwitchVariable)
		return codegen.TypeName(a, sv.DeclTypeValue)
	}
	v := a.Get(u.Switch.VariableRef).(entity.Declaration)
	return codegen.TypeName(a, *v.Type())
}

func unionMemberAccessor(u *entity.Union) string {
	if u.Name() == "" {
		return ""
	}
	return u.Name() + "."
}

func hasDefaultCase(a *entity.Arena, u *entity.Union) bool {
	for _, caseH := range u.Cases {
		if a.Get(caseH).(*entity.CaseEntry).IsDefault {
			return true
		}
	}
	return false
}

// emitUnionCalcSize/Serialize/Deserialize dispatch on the discriminant
// the definition emitter's switch_to_/get_switch_ accessors expose,
// touching only the arm currently active rather than every member of
// the raw union storage.
func emitUnionCalcSize(a *entity.Arena, u *entity.Union, s *codegen.Stream) {
	name := unionAccessorName(u)
	accessor := unionMemberAccessor(u)
	s.Line("switch (v.get_switch_%s()) {", name)
	s.Indent()
	for _, caseH := range u.Cases {
		c := a.Get(caseH).(*entity.CaseEntry)
		arm := a.Get(c.Member).(*entity.Variable)
		for _, label := range c.Labels {
			s.Line("case %s:", label.String())
		}
		if c.IsDefault {
			s.Line("default:")
		}
		s.Line("sz += calc_size(v.%s%s);", accessor, arm.Name())
		s.Line("break;")
	}
	if !hasDefaultCase(a, u) {
		s.Line("default: break;")
	}
	s.Dedent()
	s.Line("}")
}

func emitUnionSerialize(a *entity.Arena, u *entity.Union, s *codegen.Stream) {
	name := unionAccessorName(u)
	accessor := unionMemberAccessor(u)
	s.Line("serialize(buf, offset, v.get_switch_%s());", name)
	s.Line("switch (v.get_switch_%s()) {", name)
	s.Indent()
	for _, caseH := range u.Cases {
		c := a.Get(caseH).(*entity.CaseEntry)
		arm := a.Get(c.Member).(*entity.Variable)
		for _, label := range c.Labels {
			s.Line("case %s:", label.String())
		}
		if c.IsDefault {
			s.Line("default:")
		}
		s.Line("serialize(buf, offset, v.%s%s);", accessor, arm.Name())
		s.Line("break;")
	}
	if !hasDefaultCase(a, u) {
		s.Line("default: break;")
	}
	s.Dedent()
	s.Line("}")
}

func emitUnionDeserialize(a *entity.Arena, u *entity.Union, s *codegen.Stream) {
	name := unionAccessorName(u)
	accessor := unionMemberAccessor(u)
	discType := unionDiscriminantType(a, u)
	s.Line("%s %s_switch{};", discType, name)
	s.Line("deserialize(buf, offset, %s_switch);", name)
	s.Line("v.switch_to_%s(%s_switch);", name, name)
	s.Line("switch (%s_switch) {", name)
	s.Indent()
	for _, caseH := range u.Cases {
		c := a.Get(caseH).(*entity.CaseEntry)
		arm := a.Get(c.Member).(*entity.Variable)
		for _, label := range c.Labels {
			s.Line("case %s:", label.String())
		}
		if c.IsDefault {
			s.Line("default:")
		}
		s.Line("deserialize(buf, offset, v.%s%s);", accessor, arm.Name())
		s.Line("break;")
	}
	if !hasDefaultCase(a, u) {
		s.Line("default: break;")
	}
	s.Dedent()
	s.Line("}")
}
