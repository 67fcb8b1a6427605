package entity

import "github.com/sdv-framework/sdvidlc/internal/lexer"

// BuiltinTable interns the primitive, sequence, pointer, and any types of
// one Arena so that structurally identical type references compare equal
// by Handle. The parser consults it whenever it resolves a
// type reference that isn't a user-defined name.
type BuiltinTable struct {
	arena     *Arena
	prims     map[PrimKind]Handle
	sequences map[seqKey]Handle
	pointers  map[Handle]Handle
	anyType   Handle
	hasAny    bool
}

type seqKey struct {
	element  Handle
	bound    int64
	hasBound bool
}

// NewBuiltinTable creates an empty table bound to arena.
func NewBuiltinTable(arena *Arena) *BuiltinTable {
	return &BuiltinTable{
		arena:     arena,
		prims:     make(map[PrimKind]Handle),
		sequences: make(map[seqKey]Handle),
		pointers:  make(map[Handle]Handle),
	}
}

// Prim returns the interned Builtin entity for k, allocating it on first use.
func (t *BuiltinTable) Prim(k PrimKind) Handle {
	if h, ok := t.prims[k]; ok {
		return h
	}
	h := t.arena.Alloc(&Builtin{Base: NewBase(k.String(), lexer.Position{}), Prim: k})
	t.arena.AddChild(Root, h)
	t.prims[k] = h
	return h
}

// Sequence returns the interned Sequence(element, bound) entity.
func (t *BuiltinTable) Sequence(element Handle, bound int64, hasBound bool) Handle {
	key := seqKey{element, bound, hasBound}
	if h, ok := t.sequences[key]; ok {
		return h
	}
	h := t.arena.Alloc(&Sequence{Base: NewBase("", lexer.Position{}), Element: element, Bound: bound, HasBound: hasBound})
	t.arena.AddChild(Root, h)
	t.sequences[key] = h
	return h
}

// Pointer returns the interned PointerType(target) entity.
func (t *BuiltinTable) Pointer(target Handle) Handle {
	if h, ok := t.pointers[target]; ok {
		return h
	}
	h := t.arena.Alloc(&PointerType{Base: NewBase("", lexer.Position{}), Target: target})
	t.arena.AddChild(Root, h)
	t.pointers[target] = h
	return h
}

// Any returns the singleton AnyType entity.
func (t *BuiltinTable) Any() Handle {
	if t.hasAny {
		return t.anyType
	}
	h := t.arena.Alloc(&AnyType{Base: NewBase("any", lexer.Position{})})
	t.arena.AddChild(Root, h)
	t.anyType = h
	t.hasAny = true
	return h
}
