package entity

// NearestCommonAncestor walks both handles' parent chains to find the
// lowest container common to both, used to resolve which container must
// host the generated constructor/destructor/switch logic for a
// variable-based union.
func NearestCommonAncestor(a *Arena, x, y Handle) Handle {
	ancestors := map[Handle]bool{}
	for h := x; h >= 0; {
		ancestors[h] = true
		e := a.Get(h)
		if e == nil || e.Parent() == h {
			break
		}
		h = e.Parent()
	}
	for h := y; h >= 0; {
		if ancestors[h] {
			return h
		}
		e := a.Get(h)
		if e == nil || e.Parent() == h {
			break
		}
		h = e.Parent()
	}
	return Root
}

// ResolveSwitchContext locates the switch-variable declaration for a
// variable-based union by name lookup from the union's own context, and
// records the nearest common ancestor container that must host the
// lifecycle code.
func ResolveSwitchContext(a *Arena, unionHandle Handle, switchVarName string) (SwitchContext, error) {
	varHandle, ok := Lookup(a, unionHandle, switchVarName)
	if !ok {
		return SwitchContext{}, &UndefinedSwitchVariableError{Union: a.ScopedName(unionHandle), Name: switchVarName}
	}
	host := NearestCommonAncestor(a, unionHandle, varHandle)
	return SwitchContext{
		Kind:          SwitchVariableBased,
		VariableRef:   varHandle,
		HostContainer: host,
	}, nil
}

// UndefinedSwitchVariableError reports a union whose switch(...) argument
// does not name a reachable sibling declaration.
type UndefinedSwitchVariableError struct {
	Union string
	Name  string
}

func (e *UndefinedSwitchVariableError) Error() string {
	return e.Union + ": switch variable " + e.Name + " is not a sibling declaration reachable from this union"
}

// GroupBySwitchVariable groups unions (given as handles to Union
// definitions already resolved to SwitchVariableBased) by their shared
// discriminant, preserving declaration order — multiple unions may share
// one switch variable. The definition emitter does not use this grouping:
// it emits each union's lifecycle helpers on their own and generates no
// constructor for the shared container.
func GroupBySwitchVariable(a *Arena, unions []Handle) map[Handle][]Handle {
	groups := make(map[Handle][]Handle)
	for _, u := range unions {
		union, ok := a.Get(u).(*Union)
		if !ok || union.Switch.Kind != SwitchVariableBased {
			continue
		}
		key := union.Switch.VariableRef
		groups[key] = append(groups[key], u)
	}
	return groups
}
