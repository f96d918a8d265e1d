// Package identity assigns per-archive object identities: a monotonic
// counter keyed by pointer identity, scoped to one archive, standing
// in for a raw memory address that Go's runtime never exposes
// stably.
package identity

import "reflect"

// Assigner hands out small dense identities for object pointers,
// scoped to a single archive. Identities are never reused within one
// Assigner's lifetime; the only contract is injectivity within one
// encode/decode pair, not stability across archives.
type Assigner struct {
	next  uint64
	ids   map[uintptr]uint64
}

// NewAssigner returns an empty Assigner. Identity 0 is reserved to
// mean "null"/"never seen".
func NewAssigner() *Assigner {
	return &Assigner{next: 1, ids: make(map[uintptr]uint64)}
}

// key extracts the pointer bit pattern used purely as a map key, never
// dereferenced as a number; this works uniformly for any pointer kind
// reflect can see.
func key(v reflect.Value) uintptr {
	return v.Pointer()
}

// IdentityFor returns the identity assigned to the pointer v, assigning
// a fresh one on first sight. v must be a non-nil pointer-kind
// reflect.Value. The second return reports whether this is the first
// time this pointer has been seen by this Assigner.
func (a *Assigner) IdentityFor(v reflect.Value) (id uint64, first bool) {
	k := key(v)
	if id, ok := a.ids[k]; ok {
		return id, false
	}
	id = a.next
	a.next++
	a.ids[k] = id
	return id, true
}

// Seen reports whether v has already been assigned an identity,
// without assigning one.
func (a *Assigner) Seen(v reflect.Value) (uint64, bool) {
	id, ok := a.ids[key(v)]
	return id, ok
}
