package entity

import (
	"github.com/sdv-framework/sdvidlc/internal/lexer"
	"github.com/sdv-framework/sdvidlc/internal/value"
)

// ValueState is the lifecycle state of a scalar value node. Dynamic means
// the value depends on a non-const variable, so only its expression
// tokens are known at compile time.
type ValueState int

const (
	StateUndefined ValueState = iota
	StateFixed
	StateDynamic
)

func (s ValueState) String() string {
	switch s {
	case StateFixed:
		return "fixed"
	case StateDynamic:
		return "dynamic"
	default:
		return "undefined"
	}
}

// ArraySizeState is the lifecycle state of an array value node's size.
type ArraySizeState int

const (
	SizeUndefined ArraySizeState = iota
	SizeFixed
	SizeDynamic
	SizeFixedByInitializer
)

// ValueKind discriminates the concrete shape of a ValueNode.
type ValueKind int

const (
	ValueKindScalar ValueKind = iota
	ValueKindArray
	ValueKindCompound
	ValueKindEnum
	ValueKindInterface
)

// ValueNode is the initializer tree attached to a declaration; its shape mirrors the declaration's type.
type ValueNode interface {
	ValueKind() ValueKind
}

// ScalarValue holds a constant variant, the source expression tokens
// (preserved for literal rendering), and a lifecycle state.
type ScalarValue struct {
	State   ValueState
	Variant value.Variant
	Tokens  []lexer.Token
}

func (s *ScalarValue) ValueKind() ValueKind { return ValueKindScalar }

// ArrayValue holds ordered children indexed 0..N-1.
type ArrayValue struct {
	SizeState ArraySizeState
	Elements  []ValueNode
}

func (a *ArrayValue) ValueKind() ValueKind { return ValueKindArray }

// CompoundValue holds children keyed by member name, one per member
// declaration of the struct/exception/union, in declaration order.
type CompoundValue struct {
	Order   []string
	Members map[string]ValueNode
}

func NewCompoundValue() *CompoundValue {
	return &CompoundValue{Members: make(map[string]ValueNode)}
}

func (c *CompoundValue) Set(name string, v ValueNode) {
	if _, exists := c.Members[name]; !exists {
		c.Order = append(c.Order, name)
	}
	c.Members[name] = v
}

func (c *CompoundValue) ValueKind() ValueKind { return ValueKindCompound }

// EnumValue references the chosen enum-entry entity.
type EnumValue struct {
	Entry Handle
}

func (e *EnumValue) ValueKind() ValueKind { return ValueKindEnum }

// InterfaceValue is assignable only from the literal null.
type InterfaceValue struct {
	IsNull bool
}

func (i *InterfaceValue) ValueKind() ValueKind { return ValueKindInterface }
