// Package ifaceid computes the stable 64-bit interface and exception IDs
// used by the definition and proxy/stub emitters: a normalized signature
// string hashed with xxhash, so structurally
// identical interfaces hash identically across unrelated compilations
// while any semantic change perturbs the hash.
package ifaceid

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/sdv-framework/sdvidlc/internal/codegen"
	"github.com/sdv-framework/sdvidlc/internal/entity"
)

// Hash64 returns the fixed 64-bit hash of a canonical signature string.
func Hash64(signature string) uint64 {
	return xxhash.Sum64String(signature)
}

// ExceptionID hashes an exception's scoped name alone, the ID constant
// derived from the scoped name.
func ExceptionID(a *entity.Arena, h entity.Handle) uint64 {
	return Hash64(a.ScopedName(h))
}

// InterfaceSignature builds the canonical byte sequence for an interface
// entity: scoped name, each base's own canonical bytes,
// then every operation and attribute in declaration order. Pure comment
// changes and additions of unrelated child types never reach this
// function's inputs, so they cannot perturb the result.
func InterfaceSignature(a *entity.Arena, h entity.Handle) string {
	var b strings.Builder
	writeInterfaceSignature(a, h, &b, make(map[entity.Handle]bool))
	return b.String()
}

func writeInterfaceSignature(a *entity.Arena, h entity.Handle, b *strings.Builder, seen map[entity.Handle]bool) {
	if seen[h] {
		return
	}
	seen[h] = true
	iface, ok := a.Get(h).(*entity.Interface)
	if !ok {
		return
	}
	b.WriteString(a.ScopedName(h))
	b.WriteByte(';')
	for _, base := range iface.Bases {
		writeInterfaceSignature(a, base, b, seen)
	}
	for _, child := range a.Children(h) {
		switch m := a.Get(child).(type) {
		case *entity.Operation:
			fmt.Fprintf(b, "op %s %s(", m.Name(), codegen.CanonicalTypeString(a, m.ReturnType))
			for i, p := range m.Params {
				param := a.Get(p).(*entity.Parameter)
				if i > 0 {
					b.WriteByte(',')
				}
				fmt.Fprintf(b, "%s %s %s", param.Direction, codegen.CanonicalTypeString(a, param.DeclTypeValue), param.Name())
			}
			b.WriteString(") raises(")
			for i, r := range m.Raises {
				if i > 0 {
					b.WriteByte(',')
				}
				b.WriteString(a.ScopedName(r))
			}
			b.WriteString(");")
		case *entity.Attribute:
			fmt.Fprintf(b, "attr %s %s ro=%v get=(", m.Name(), codegen.CanonicalTypeString(a, m.DeclTypeValue), m.ReadOnly)
			for i, r := range m.GetRaises {
				if i > 0 {
					b.WriteByte(',')
				}
				b.WriteString(a.ScopedName(r))
			}
			b.WriteString(") set=(")
			for i, r := range m.SetRaises {
				if i > 0 {
					b.WriteByte(',')
				}
				b.WriteString(a.ScopedName(r))
			}
			b.WriteString(");")
		}
	}
}

// InterfaceID computes the stable 64-bit interface ID.
func InterfaceID(a *entity.Arena, h entity.Handle) uint64 {
	return Hash64(InterfaceSignature(a, h))
}
