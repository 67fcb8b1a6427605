package entity

import "github.com/sdv-framework/sdvidlc/internal/value"

// Variable is a plain member/local variable declaration.
type Variable struct {
	Base
	DeclTypeValue DeclType
	ValueNodeV    ValueNode
}

func (v *Variable) DeclKind() DeclKind  { return DeclVariable }
func (v *Variable) Type() *DeclType     { return &v.DeclTypeValue }
func (v *Variable) Value() ValueNode    { return v.ValueNodeV }
func (v *Variable) SetValue(n ValueNode) { v.ValueNodeV = n }

// ConstVariable is a `const` declaration; the parser enforces that it
// always carries an initializer.
type ConstVariable struct {
	Base
	DeclTypeValue DeclType
	ValueNodeV    ValueNode
}

func (c *ConstVariable) DeclKind() DeclKind  { return DeclConstVariable }
func (c *ConstVariable) Type() *DeclType     { return &c.DeclTypeValue }
func (c *ConstVariable) Value() ValueNode    { return c.ValueNodeV }
func (c *ConstVariable) SetValue(n ValueNode) { c.ValueNodeV = n }

// Attribute lowers to a pure-virtual getter and, unless ReadOnly, a
// pure-virtual setter, each with its own exception list.
type Attribute struct {
	Base
	DeclTypeValue DeclType
	ReadOnly      bool
	GetRaises     []Handle // Exception definitions
	SetRaises     []Handle
}

func (a *Attribute) DeclKind() DeclKind  { return DeclAttribute }
func (a *Attribute) Type() *DeclType     { return &a.DeclTypeValue }
func (a *Attribute) Value() ValueNode    { return nil }
func (a *Attribute) SetValue(ValueNode)  {}

// Operation lowers to a pure-virtual function; parameters
// are children Parameter declarations in declaration order.
type Operation struct {
	Base
	ReturnType DeclType
	Params     []Handle
	Raises     []Handle // Exception definitions, in declaration order
}

func (o *Operation) DeclKind() DeclKind  { return DeclOperation }
func (o *Operation) Type() *DeclType     { return &o.ReturnType }
func (o *Operation) Value() ValueNode    { return nil }
func (o *Operation) SetValue(ValueNode)  {}

// Parameter carries a passing direction in addition to its type.
type Parameter struct {
	Base
	DeclTypeValue DeclType
	Direction     ParamDirection
}

func (p *Parameter) DeclKind() DeclKind  { return DeclParameter }
func (p *Parameter) Type() *DeclType     { return &p.DeclTypeValue }
func (p *Parameter) Value() ValueNode    { return nil }
func (p *Parameter) SetValue(ValueNode)  {}

// EnumEntry is one member of an enum, with its resolved numeric value.
type EnumEntry struct {
	Base
	NumericValue int64
	Explicit     bool
}

func (e *EnumEntry) DeclKind() DeclKind  { return DeclEnumEntry }
func (e *EnumEntry) Type() *DeclType     { return nil }
func (e *EnumEntry) Value() ValueNode    { return nil }
func (e *EnumEntry) SetValue(ValueNode)  {}

// CaseEntry is one `case K:` (or `default:`) label of a union, selecting
// the union-arm member declaration it guards.
type CaseEntry struct {
	Base
	Labels    []value.Variant
	IsDefault bool
	Member    Handle // the union-arm Variable declaration this label selects
}

func (c *CaseEntry) DeclKind() DeclKind  { return DeclCaseEntry }
func (c *CaseEntry) Type() *DeclType     { return nil }
func (c *CaseEntry) Value() ValueNode    { return nil }
func (c *CaseEntry) SetValue(ValueNode)  {}

// SwitchVariable is the synthesized inline `switch_value` discriminant of
// a type-based union.
type SwitchVariable struct {
	Base
	DeclTypeValue DeclType
}

func (s *SwitchVariable) DeclKind() DeclKind  { return DeclSwitchVariable }
func (s *SwitchVariable) Type() *DeclType     { return &s.DeclTypeValue }
func (s *SwitchVariable) Value() ValueNode    { return nil }
func (s *SwitchVariable) SetValue(ValueNode)  {}
