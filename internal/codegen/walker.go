package codegen

import "github.com/sdv-framework/sdvidlc/internal/entity"

// Visit is called once per child entity in declaration order, depth
// first: Walk recurses into a visited handle only when visit returns
// true, letting each generator decide which containers to descend into
// so each generator decides which containers to descend into.
type Visit func(h entity.Handle) (descend bool)

// Walk iterates a.Children(scope) in order, calling visit on each and
// recursing into it when visit reports true.
func Walk(a *entity.Arena, scope entity.Handle, visit Visit) {
	for _, child := range a.Children(scope) {
		if visit(child) {
			Walk(a, child, visit)
		}
	}
}

// CollectByKind returns the descendants of scope (scope itself is not
// checked) whose Definition is one of the given kinds, in declaration
// order. It recurses only into modules, structs, and exceptions, so
// definitions nested inside any other container are not returned. Used
// by G2/G3 to find the interfaces and named types that need a proxy/stub
// or serdes specialization.
func CollectByKind(a *entity.Arena, scope entity.Handle, kinds ...entity.DefKind) []entity.Handle {
	want := make(map[entity.DefKind]bool, len(kinds))
	for _, k := range kinds {
		want[k] = true
	}
	var out []entity.Handle
	Walk(a, scope, func(h entity.Handle) bool {
		def, ok := a.Get(h).(entity.Definition)
		if ok && want[def.DefKind()] {
			out = append(out, h)
		}
		_, isModule := a.Get(h).(*entity.Module)
		return isModule || (ok && def.DefKind() == entity.DefStruct) || (ok && def.DefKind() == entity.DefException)
	})
	return out
}
