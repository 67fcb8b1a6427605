package entity

// Module is a namespace. The implicit global module lives at Root.
type Module struct {
	Base
}

func (m *Module) DefKind() DefKind { return DefModule }
func (m *Module) IsNamed() bool    { return m.name != "" }

// Struct is a record type with ordered public members.
type Struct struct {
	Base
	Named   bool
	Forward bool // never set by the parser: forward declarations are ForwardDecl entities
	Bases   []Handle
}

func (s *Struct) DefKind() DefKind { return DefStruct }
func (s *Struct) IsNamed() bool    { return s.Named }

// Exception is a struct whose first hidden member is a description
// string; it additionally carries an ID constant and a what() accessor.
type Exception struct {
	Base
	Named       bool
	Bases       []Handle
	Description string // user-provided, or "" to auto-generate "<Name> exception"
	UserDescription bool
}

func (e *Exception) DefKind() DefKind { return DefException }
func (e *Exception) IsNamed() bool    { return e.Named }

// AutoDescription returns the description this exception would render
// when none was supplied explicitly.
func (e *Exception) AutoDescription(scopedName string) string {
	if e.UserDescription {
		return e.Description
	}
	return scopedName + " exception"
}

// Enum is an enum with an explicit underlying integral type; entries are
// children in declaration order.
type Enum struct {
	Base
	Named      bool
	Underlying DeclType
}

func (e *Enum) DefKind() DefKind { return DefEnum }
func (e *Enum) IsNamed() bool    { return e.Named }

// SwitchKind discriminates a union's discriminant shape.
type SwitchKind int

const (
	SwitchTypeBased SwitchKind = iota
	SwitchVariableBased
)

// SwitchContext describes a union's discriminant.
type SwitchContext struct {
	Kind SwitchKind

	// Type-based: the chosen integral discriminant type, and the handle
	// of the synthesized inline `switch_value` SwitchVariable declaration.
	DiscriminantType DeclType
	InlineVar        Handle

	// Variable-based: the sibling declaration this union discriminates on,
	// and the nearest common ancestor container that must host the
	// generated lifecycle code.
	VariableRef   Handle
	HostContainer Handle
}

// Union is a tagged union lowered by G1/G3 into constructor/destructor/
// serializer logic.
type Union struct {
	Base
	Named  bool
	Switch SwitchContext
	Cases  []Handle // CaseEntry declarations, in declaration order
}

func (u *Union) DefKind() DefKind { return DefUnion }
func (u *Union) IsNamed() bool    { return u.Named }

// Interface is a record with only operations and attributes, plus a
// 64-bit interface ID constant. Local interfaces
// (Local=true) are never marshaled: G2/G3 skip them (SPEC_FULL.md).
type Interface struct {
	Base
	Named bool
	Bases []Handle
	Local bool
}

func (i *Interface) DefKind() DefKind { return DefInterface }
func (i *Interface) IsNamed() bool    { return i.Named }

// Typedef is a type alias.
type Typedef struct {
	Base
	Target DeclType
}

func (t *Typedef) DefKind() DefKind { return DefTypedef }
func (t *Typedef) IsNamed() bool    { return true }

// PrimKind enumerates the IDL primitive scalar and string types. Every PrimKind is interned once per Arena (see BuiltinTable) so
// DeclType.Definition handles are comparable across the whole unit.
type PrimKind int

const (
	PrimBoolean PrimKind = iota
	PrimChar
	PrimChar16
	PrimChar32
	PrimWChar
	PrimOctet
	PrimShort
	PrimLong
	PrimLongLong
	PrimUShort
	PrimULong
	PrimULongLong
	PrimInt8
	PrimInt16
	PrimInt32
	PrimInt64
	PrimUInt8
	PrimUInt16
	PrimUInt32
	PrimUInt64
	PrimFloat
	PrimDouble
	PrimLongDouble
	PrimFixed
	PrimString
	PrimU8String
	PrimU16String
	PrimU32String
	PrimWString
	PrimVoid
)

var primNames = map[PrimKind]string{
	PrimBoolean: "boolean", PrimChar: "char", PrimChar16: "char16",
	PrimChar32: "char32", PrimWChar: "wchar", PrimOctet: "octet",
	PrimShort: "short", PrimLong: "long", PrimLongLong: "long long",
	PrimUShort: "unsigned short", PrimULong: "unsigned long",
	PrimULongLong: "unsigned long long", PrimInt8: "int8", PrimInt16: "int16",
	PrimInt32: "int32", PrimInt64: "int64", PrimUInt8: "uint8",
	PrimUInt16: "uint16", PrimUInt32: "uint32", PrimUInt64: "uint64",
	PrimFloat: "float", PrimDouble: "double", PrimLongDouble: "long double",
	PrimFixed: "fixed", PrimString: "string", PrimU8String: "u8string",
	PrimU16String: "u16string", PrimU32String: "u32string",
	PrimWString: "wstring", PrimVoid: "void",
}

func (k PrimKind) String() string { return primNames[k] }

// IsIntegral reports whether k is a valid enum underlying type.
func (k PrimKind) IsIntegral() bool {
	switch k {
	case PrimChar, PrimChar16, PrimChar32, PrimWChar, PrimOctet, PrimShort,
		PrimLong, PrimLongLong, PrimUShort, PrimULong, PrimULongLong,
		PrimInt8, PrimInt16, PrimInt32, PrimInt64, PrimUInt8, PrimUInt16,
		PrimUInt32, PrimUInt64:
		return true
	default:
		return false
	}
}

// Builtin is an interned primitive scalar/string type. Each
// PrimKind has exactly one Builtin entity, parented directly at Root.
type Builtin struct {
	Base
	Prim PrimKind
}

func (b *Builtin) DefKind() DefKind { return DefBuiltin }
func (b *Builtin) IsNamed() bool    { return true }

// Sequence is a `sequence<T[, N]>` type: an unbounded or
// bounded homogeneous run of Element. Each distinct (Element, Bound) pair
// is interned once per Arena.
type Sequence struct {
	Base
	Element  Handle
	Bound    int64
	HasBound bool
}

func (s *Sequence) DefKind() DefKind { return DefSequence }
func (s *Sequence) IsNamed() bool    { return false }

// PointerType is a `pointer<T>` type.
type PointerType struct {
	Base
	Target Handle
}

func (p *PointerType) DefKind() DefKind { return DefPointer }
func (p *PointerType) IsNamed() bool    { return false }

// AnyType is the `any` type: a single interned singleton.
type AnyType struct {
	Base
}

func (a *AnyType) DefKind() DefKind { return DefAny }
func (a *AnyType) IsNamed() bool    { return true }

// ForwardDecl is a placeholder definition produced on first sight of a
// name without a body. When the matching body later appears, the parser
// calls Arena.Complete to retarget every existing handle to the body.
type ForwardDecl struct {
	Base
	Target DefKind // the definition kind expected to complete this forward decl
}

func (f *ForwardDecl) DefKind() DefKind { return DefForward }
func (f *ForwardDecl) IsNamed() bool    { return true }
