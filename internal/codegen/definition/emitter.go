// Package definition implements G1, the definition emitter: it renders
// the semantic entity graph for one compilation unit into a single
// C++ header that reconstructs the IDL types.
package definition

import (
	"github.com/sdv-framework/sdvidlc/internal/codegen"
	"github.com/sdv-framework/sdvidlc/internal/codegen/ifaceid"
	"github.com/sdv-framework/sdvidlc/internal/entity"
	"github.com/sdv-framework/sdvidlc/internal/lexer"
)

// MetaItem mirrors parser.MetaItem without importing internal/parser
// (which itself imports internal/entity, and would cycle back here if
// internal/parser ever needed codegen). The compiler package adapts.
type MetaItem struct {
	Tok   lexer.Token
	Scope entity.Handle
}

// Emitter renders one unit's entity graph to the definition header text.
type Emitter struct {
	a    *entity.Arena
	ctx  *codegen.Context
	src  string // the input IDL path, for #include rewriting and the file header
	meta []MetaItem
}

// New creates a definition Emitter for one parsed unit.
func New(a *entity.Arena, sourceIDLPath string, meta []MetaItem) *Emitter {
	return &Emitter{a: a, ctx: codegen.NewContext(a), src: sourceIDLPath, meta: meta}
}

// Emit renders the complete header file text. A forward declaration is
// emitted at the top of the file for every struct/exception/interface
// that is the target of any pointer<T> in the unit, whether or not its
// definition precedes the pointer, so self- and mutually-referential
// pointer graphs compile regardless of declaration order.
func (e *Emitter) Emit() (string, error) {
	e.collectPointerForwards(entity.Root)

	s := codegen.NewStream()
	codegen.FileHeader(s, e.src, "definition emitter (G1)")
	codegen.OpenIncludeGuard(s, e.src)
	s.Line(`#include "sdv_runtime.h"`)
	s.Blank()

	for _, h := range e.ctx.Forwards() {
		e.emitForwardDecl(s, h)
	}
	if len(e.ctx.Forwards()) > 0 {
		s.Blank()
	}

	if err := e.emitScope(entity.Root, s); err != nil {
		return "", err
	}
	return s.String(), nil
}

// collectPointerForwards registers a forward declaration for the target of
// every pointer<T> type interned in the arena. Pointer types are interned
// as direct children of the root scope regardless of where pointer<T>
// appears in the source, so no recursive descent is needed.
func (e *Emitter) collectPointerForwards(scope entity.Handle) {
	for _, h := range e.a.Children(scope) {
		p, ok := e.a.Get(h).(*entity.PointerType)
		if !ok {
			continue
		}
		def, ok := e.a.Get(p.Target).(entity.Definition)
		if !ok {
			continue
		}
		switch def.DefKind() {
		case entity.DefStruct, entity.DefException, entity.DefInterface:
			e.ctx.RequireForward(p.Target)
		}
	}
}

func (e *Emitter) emitForwardDecl(s *codegen.Stream, h entity.Handle) {
	def := e.a.Get(h).(entity.Definition)
	switch def.DefKind() {
	case entity.DefStruct:
		s.Line("struct %s;", def.Name())
	case entity.DefException:
		s.Line("class %s;", def.Name())
	case entity.DefInterface:
		s.Line("class %s;", def.Name())
	}
}

// emitScope renders every meta item and child definition of scope, in
// declaration order, recursing into modules to render each as its own
// namespace.
func (e *Emitter) emitScope(scope entity.Handle, s *codegen.Stream) error {
	for _, m := range e.meta {
		if m.Scope == scope {
			e.emitMeta(s, m)
		}
	}
	for _, h := range e.a.Children(scope) {
		if err := e.emitEntity(h, s); err != nil {
			return err
		}
	}
	return nil
}

func (e *Emitter) emitMeta(s *codegen.Stream, m MetaItem) {
	d := lexer.ParseDirective(m.Tok.Lexeme)
	switch d.Kind {
	case lexer.DirInclude:
		name := d.Target
		if len(name) > 4 && name[len(name)-4:] == ".idl" {
			name = name[:len(name)-4] + ".h"
		}
		if d.IsSystem {
			s.Line("#include <%s>", name)
		} else {
			s.Line(`#include "%s"`, name)
		}
	default:
		s.Line("%s", m.Tok.Lexeme)
	}
}

func (e *Emitter) emitEntity(h entity.Handle, s *codegen.Stream) error {
	switch d := e.a.Get(h).(type) {
	case *entity.Module:
		s.Line("namespace %s {", d.Name())
		s.Blank()
		if err := e.emitScope(h, s); err != nil {
			return err
		}
		s.Line("} // namespace %s", d.Name())
		s.Blank()
	case *entity.Struct:
		e.emitRecord(h, d.Name(), d.Bases, entity.DefStruct, s)
	case *entity.Exception:
		e.emitException(h, d, s)
	case *entity.Enum:
		e.emitEnum(h, d, s)
	case *entity.Interface:
		e.emitInterface(h, d, s)
	case *entity.Typedef:
		s.Line("using %s = %s%s;", d.Name(), codegen.TypeName(e.a, d.Target), e.arraySuffix(d.Target.Dims))
	case *entity.Union:
		// A union that is itself a top-level (or module-level) definition
		// is wrapped inside a struct carrying the union's own name.
		e.emitUnionStandalone(h, d, s)
	case *entity.ConstVariable:
		e.emitConstVariable(h, d, s)
	case *entity.Variable:
		e.emitVariable(h, d, s)
	}
	return nil
}

func (e *Emitter) arraySuffix(dims []entity.ArrayDim) string {
	return codegen.ArraySuffix(dims, func(d []entity.ArrayDim) string {
		return renderExprTokens(d[0].Expr)
	})
}

func renderExprTokens(toks []lexer.Token) string {
	out := ""
	for _, t := range toks {
		out += t.Lexeme
	}
	return out
}

func (e *Emitter) emitConstVariable(h entity.Handle, d *entity.ConstVariable, s *codegen.Stream) {
	s.Line("static constexpr %s %s = %s;", codegen.TypeName(e.a, *d.Type()), d.Name(), renderValue(e.a, d.Value()))
}

func (e *Emitter) emitVariable(h entity.Handle, d *entity.Variable, s *codegen.Stream) {
	dt := *d.Type()
	s.Line("%s %s%s;", codegen.TypeName(e.a, dt), d.Name(), e.arraySuffix(dt.Dims))
}

func (e *Emitter) emitRecord(h entity.Handle, name string, bases []entity.Handle, kind entity.DefKind, s *codegen.Stream) {
	s.Line("struct %s%s {", name, baseClause(e.a, bases))
	s.Indent()

	unions := e.memberUnions(h)
	for _, u := range unions {
		e.recordSwitchVariableContext(u)
	}

	var arrayUnionFields []entity.Handle
	for _, child := range e.a.Children(h) {
		switch d := e.a.Get(child).(type) {
		case *entity.Variable:
			dt := *d.Type()
			s.Line("%s %s%s;", codegen.TypeName(e.a, dt), d.Name(), e.arraySuffix(dt.Dims))
			if dt.IsArray() {
				if _, ok := e.a.Get(dt.Definition).(*entity.Union); ok {
					arrayUnionFields = append(arrayUnionFields, child)
				}
			}
		case *entity.ConstVariable:
			e.emitConstVariable(child, d, s)
		case *entity.Struct:
			e.emitRecord(child, d.Name(), d.Bases, entity.DefStruct, s)
		case *entity.Enum:
			e.emitEnum(child, d, s)
		case *entity.Union:
			e.emitUnionMember(child, d, s)
		}
	}

	for _, u := range unions {
		e.emitUnionLifecycle(h, u, s)
	}
	for _, field := range arrayUnionFields {
		e.emitArrayUnionField(name, field, s)
	}

	s.Dedent()
	s.Line("};")
	s.Blank()
}

func baseClause(a *entity.Arena, bases []entity.Handle) string {
	if len(bases) == 0 {
		return ""
	}
	out := " : "
	for i, b := range bases {
		if i > 0 {
			out += ", "
		}
		out += "public " + a.ScopedName(b)
	}
	return out
}

func (e *Emitter) emitException(h entity.Handle, d *entity.Exception, s *codegen.Stream) {
	scoped := e.a.ScopedName(h)
	id := ifaceid.ExceptionID(e.a, h)
	s.Line("class %s%s {", d.Name(), baseClause(e.a, d.Bases))
	s.Indent()
	s.Line("public:")
	s.Line("static constexpr uint64_t id = 0x%xULL;", id)
	s.Line(`const char* _description = "%s";`, d.AutoDescription(scoped))
	for _, child := range e.a.Children(h) {
		if v, ok := e.a.Get(child).(*entity.Variable); ok {
			dt := *v.Type()
			s.Line("%s %s%s;", codegen.TypeName(e.a, dt), v.Name(), e.arraySuffix(dt.Dims))
		}
	}
	s.Line("virtual const char* what() const { return _description; }")
	s.Dedent()
	s.Line("};")
	s.Blank()
}

func (e *Emitter) emitEnum(h entity.Handle, d *entity.Enum, s *codegen.Stream) {
	s.Line("enum class %s : %s {", d.Name(), codegen.TypeName(e.a, d.Underlying))
	s.Indent()
	for _, child := range e.a.Children(h) {
		entry := e.a.Get(child).(*entity.EnumEntry)
		s.Line("%s = %d,", entry.Name(), entry.NumericValue)
	}
	s.Dedent()
	s.Line("};")
	s.Blank()
}

func (e *Emitter) emitInterface(h entity.Handle, d *entity.Interface, s *codegen.Stream) {
	id := ifaceid.InterfaceID(e.a, h)
	s.Line("class %s%s {", d.Name(), baseClause(e.a, d.Bases))
	s.Indent()
	s.Line("public:")
	s.Line("static constexpr uint64_t interface_id = 0x%xULL;", id)
	s.Line("virtual ~%s() = default;", d.Name())
	for _, child := range e.a.Children(h) {
		switch m := e.a.Get(child).(type) {
		case *entity.Attribute:
			e.emitAttribute(m, s)
		case *entity.Operation:
			e.emitOperation(m, s)
		}
	}
	s.Dedent()
	s.Line("};")
	s.Blank()
}

func (e *Emitter) emitAttribute(m *entity.Attribute, s *codegen.Stream) {
	dt := *m.Type()
	s.Line("virtual %s get_%s() = 0;", codegen.TypeName(e.a, dt), m.Name())
	if !m.ReadOnly {
		s.Line("virtual void set_%s(%s value) = 0;", m.Name(), paramPassing(e.a, dt, entity.DirIn))
	}
}

func (e *Emitter) emitOperation(m *entity.Operation, s *codegen.Stream) {
	params := ""
	for i, p := range m.Params {
		param := e.a.Get(p).(*entity.Parameter)
		if i > 0 {
			params += ", "
		}
		params += paramPassing(e.a, *param.Type(), param.Direction) + " " + param.Name()
	}
	retName := "void"
	if b, ok := e.a.Get(m.ReturnType.Definition).(*entity.Builtin); !ok || b.Prim != entity.PrimVoid {
		retName = codegen.TypeName(e.a, m.ReturnType)
	}
	s.Line("virtual %s %s(%s) = 0;", retName, m.Name(), params)
}

// paramPassing implements the parameter-passing rule: by value
// for scalars, const-ref for complex in-params, non-const-ref for
// out/inout, raw pointer for interface params.
func paramPassing(a *entity.Arena, dt entity.DeclType, dir entity.ParamDirection) string {
	base := codegen.TypeName(a, dt)
	switch a.Get(dt.Definition).(type) {
	case *entity.Interface:
		return base + "*"
	case *entity.Builtin:
		if dir == entity.DirIn {
			return base
		}
		return base + "&"
	default:
		if dir == entity.DirIn {
			return "const " + base + "&"
		}
		return base + "&"
	}
}

func renderValue(a *entity.Arena, v entity.ValueNode) string {
	sv, ok := v.(*entity.ScalarValue)
	if !ok {
		return "{}"
	}
	if sv.State == entity.StateDynamic {
		return renderExprTokens(sv.Tokens)
	}
	return sv.Variant.String()
}
