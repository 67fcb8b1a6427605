package entity

import "fmt"

// CheckInheritanceDAG verifies that adding `bases` as the base list of `h`
// does not introduce a cycle, and that no two branches introduce a
// colliding member name.
func CheckInheritanceDAG(a *Arena, h Handle, bases []Handle) error {
	for _, b := range bases {
		if err := checkNoCycle(a, h, b, map[Handle]bool{h: true}); err != nil {
			return err
		}
	}
	return checkNoMemberCollision(a, bases)
}

func checkNoCycle(a *Arena, origin, base Handle, visiting map[Handle]bool) error {
	if visiting[base] {
		return fmt.Errorf("cyclic inheritance involving %q", a.ScopedName(origin))
	}
	visiting[base] = true
	for _, next := range basesOf(a, base) {
		if err := checkNoCycle(a, origin, next, visiting); err != nil {
			return err
		}
	}
	return nil
}

func checkNoMemberCollision(a *Arena, bases []Handle) error {
	type origin struct{ base, member Handle }
	seen := map[string]origin{}
	for _, base := range bases {
		for _, child := range allInheritedMembers(a, base, map[Handle]bool{}) {
			e := a.Get(child)
			if e == nil || e.Name() == "" {
				continue
			}
			if prev, ok := seen[e.Name()]; ok && prev.base != base && prev.member != child {
				return fmt.Errorf("member %q is inherited ambiguously from multiple base branches", e.Name())
			}
			seen[e.Name()] = origin{base, child}
		}
	}
	return nil
}

func allInheritedMembers(a *Arena, base Handle, visited map[Handle]bool) []Handle {
	if visited[base] {
		return nil
	}
	visited[base] = true
	members := append([]Handle{}, a.Children(base)...)
	for _, next := range basesOf(a, base) {
		members = append(members, allInheritedMembers(a, next, visited)...)
	}
	return members
}
