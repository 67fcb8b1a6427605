package entity

import "strings"

// Lookup resolves name against the scope chain starting at from: search
// the current scope, then each enclosing scope up to the root
// (hierarchical lookup). A qualified name (`A::B::C`) bypasses
// the stack: `::A::...` starts at the root; otherwise it starts at the
// nearest enclosing scope that contains `A`.
func Lookup(a *Arena, from Handle, name string) (Handle, bool) {
	if strings.HasPrefix(name, "::") {
		return lookupQualified(a, Root, name[2:])
	}
	if strings.Contains(name, "::") {
		head, _, _ := strings.Cut(name, "::")
		scope := findEnclosingScopeContaining(a, from, head)
		if scope < 0 {
			return 0, false
		}
		return lookupQualified(a, scope, name)
	}
	return lookupUnqualified(a, from, name)
}

// lookupUnqualified walks from's scope, then each ancestor scope, looking
// for an immediate child named `name`. Inherited members of struct/
// interface ancestors are also visible.
func lookupUnqualified(a *Arena, from Handle, name string) (Handle, bool) {
	scope := from
	for scope >= 0 {
		if h, ok := a.FindChildByName(scope, name); ok {
			return h, true
		}
		if h, ok := lookupInherited(a, scope, name, map[Handle]bool{}); ok {
			return h, true
		}
		e := a.Get(scope)
		if e == nil || e.Parent() == scope {
			break
		}
		scope = e.Parent()
	}
	return 0, false
}

// lookupInherited searches base containers (struct/interface Bases) for
// name, in declaration order, guarding against the DAG revisiting a base
// twice.
func lookupInherited(a *Arena, scope Handle, name string, visited map[Handle]bool) (Handle, bool) {
	bases := basesOf(a, scope)
	for _, base := range bases {
		if visited[base] {
			continue
		}
		visited[base] = true
		if h, ok := a.FindChildByName(base, name); ok {
			return h, true
		}
		if h, ok := lookupInherited(a, base, name, visited); ok {
			return h, true
		}
	}
	return 0, false
}

func basesOf(a *Arena, h Handle) []Handle {
	switch e := a.Get(h).(type) {
	case *Struct:
		return e.Bases
	case *Exception:
		return e.Bases
	case *Interface:
		return e.Bases
	default:
		return nil
	}
}

// findEnclosingScopeContaining returns the nearest scope at or above
// `from` that has an immediate child named head.
func findEnclosingScopeContaining(a *Arena, from Handle, head string) Handle {
	scope := from
	for scope >= 0 {
		if _, ok := a.FindChildByName(scope, head); ok {
			return scope
		}
		e := a.Get(scope)
		if e == nil || e.Parent() == scope {
			break
		}
		scope = e.Parent()
	}
	if _, ok := a.FindChildByName(Root, head); ok {
		return Root
	}
	return -1
}

// lookupQualified resolves a (possibly multi-component) name starting at
// a fixed scope, descending one component at a time with no hierarchical
// fallback between components.
func lookupQualified(a *Arena, scope Handle, name string) (Handle, bool) {
	parts := strings.Split(name, "::")
	current := scope
	for _, part := range parts {
		h, ok := a.FindChildByName(current, part)
		if !ok {
			h, ok = lookupInherited(a, current, part, map[Handle]bool{})
			if !ok {
				return 0, false
			}
		}
		current = h
	}
	return current, true
}
