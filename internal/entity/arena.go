// Package entity implements the semantic entity graph (E in the
// compiler's component design): a tree of modules, types, and
// declarations rooted at an implicit global module.
//
// Every cross-edge other than parent->child ownership (a declaration's
// reference to its type, a value node's reference to an enum entry, a
// union's reference to its switch variable) is a non-owning Handle into
// a single Arena, so the graph can be built in one pass without
// invalidating references when a forward declaration is later completed.
package entity

import "github.com/sdv-framework/sdvidlc/internal/lexer"

// Handle is a stable reference to an entity stored in an Arena. The zero
// Handle (Root) is reserved for the implicit global module.
type Handle int

// Root is the handle of the implicit global module every compilation
// unit is rooted at.
const Root Handle = 0

// Arena owns every entity produced while parsing one compilation unit
// (one IDL file; the files it includes are not parsed into it).
type Arena struct {
	entities []Entity
	redirect map[Handle]Handle
}

// NewArena creates an empty Arena and allocates the root module at Handle(0).
func NewArena() *Arena {
	a := &Arena{redirect: make(map[Handle]Handle)}
	root := &Module{}
	root.name = ""
	root.parent = -1
	a.Alloc(root)
	return a
}

// Alloc stores e in the arena and assigns it a stable Handle.
func (a *Arena) Alloc(e Entity) Handle {
	h := Handle(len(a.entities))
	e.setHandle(h)
	a.entities = append(a.entities, e)
	return h
}

// Get resolves a Handle to its Entity, following any forward-to-body
// redirect installed by Complete. Returns nil for an out-of-range handle.
func (a *Arena) Get(h Handle) Entity {
	seen := map[Handle]bool{}
	for {
		if seen[h] {
			return nil // defensive: redirect cycle, should never happen
		}
		seen[h] = true
		if t, ok := a.redirect[h]; ok {
			h = t
			continue
		}
		break
	}
	if h < 0 || int(h) >= len(a.entities) {
		return nil
	}
	return a.entities[h]
}

// Complete collapses a forward-declaration slot into its completed body:
// every existing handle that pointed at `forward` transparently observes
// `body` from now on. The forward entity itself remains in
// the arena (for diagnostics) but Get(forward) now returns the body.
func (a *Arena) Complete(forward, body Handle) {
	a.redirect[forward] = body
}

// ScopedName computes the double-colon-separated fully qualified name of
// h by walking parent handles up to the root.
func (a *Arena) ScopedName(h Handle) string {
	e := a.Get(h)
	if e == nil {
		return ""
	}
	if e.Parent() < 0 || e.Parent() == h {
		return e.Name()
	}
	parentName := a.ScopedName(e.Parent())
	if parentName == "" {
		return e.Name()
	}
	if e.Name() == "" {
		return parentName
	}
	return parentName + "::" + e.Name()
}

// AddChild appends child to parent's child list and sets child's parent
// link, maintaining the tree's sole ownership edge.
func (a *Arena) AddChild(parent, child Handle) {
	p := a.Get(parent)
	c := a.Get(child)
	if p == nil || c == nil {
		return
	}
	p.addChild(child)
	c.setParent(parent)
}

// Children returns h's child handles in declaration order.
func (a *Arena) Children(h Handle) []Handle {
	e := a.Get(h)
	if e == nil {
		return nil
	}
	return e.Children()
}

// FindChildByName returns the first child of parent (of any kind) whose
// unqualified Name matches name.
func (a *Arena) FindChildByName(parent Handle, name string) (Handle, bool) {
	for _, c := range a.Children(parent) {
		if e := a.Get(c); e != nil && e.Name() == name {
			return c, true
		}
	}
	return 0, false
}

// SetComments attaches the comments before and after an entity per the
// preceding/succeeding position rule.
func (a *Arena) SetComments(h Handle, before, after []lexer.Token) {
	if e := a.Get(h); e != nil {
		e.setComments(before, after)
	}
}
