// Package archive implements the generic traversal engine: for any
// user value it discovers how to serialize it, manages the stack of
// named scopes via the codec, and handles identity-preserving
// traversal of graphs with shared ownership, weak references, and
// cycles.
//
// The driver itself never imports a concrete codec (codec/text,
// codec/binary) or the registry package; it is handed a codec.Codec
// and, optionally, a TypeRegistry at construction time.
package archive

import (
	"reflect"

	"github.com/joshuapare/zen/codec"
	"github.com/joshuapare/zen/errs"
	"github.com/joshuapare/zen/internal/identity"
	"github.com/joshuapare/zen/internal/refs"
)

// RegEntry holds the four callables associated with a registered type
// tag: a default constructor, the base-typed save/load dispatch pair,
// and (via TypeRegistry.TagFor) the reverse type -> tag mapping.
type RegEntry struct {
	New      func() any
	SaveBase func(v any, a *Archive) error
	LoadBase func(v any, a *Archive) error
	Type     reflect.Type
}

// TypeRegistry is the narrow view of registry.Registry the driver
// needs. registry.Registry implements this interface structurally;
// archive never imports package registry so the two packages can
// depend on each other's types without a cycle (RegEntry embeds
// *Archive in its callables, which is why it has to live here).
type TypeRegistry interface {
	Lookup(tag string) (RegEntry, bool)
	TagFor(t reflect.Type) (string, bool)
}

// Archive is the stateful driver for a single encode or decode
// operation. It owns a reference tracker and an identity assigner
// scoped to its own lifetime; it is not safe for concurrent use by
// more than one goroutine.
type Archive struct {
	c       codec.Codec
	reg     TypeRegistry
	tracker *refs.Tracker
	ids     *identity.Assigner
}

// New constructs an Archive driving c. reg may be nil if the graph
// being processed never needs polymorphic dispatch; attempting
// polymorphic dispatch against a nil registry fails with KindRegistry.
func New(c codec.Codec, reg TypeRegistry) *Archive {
	return &Archive{
		c:       c,
		reg:     reg,
		tracker: refs.NewTracker(),
		ids:     identity.NewAssigner(),
	}
}

// IsInput reports whether this archive is decoding. A single
// Serialize method can use this to branch when a type's encoding is
// asymmetric.
func (a *Archive) IsInput() bool { return a.c.IsInput() }

// Flush commits any buffered encoder output. A no-op for decode.
func (a *Archive) Flush() error { return a.c.Flush() }

// Value submits the field addressed by ptr under name (empty meaning
// "auto-generate"), dispatching by the category its value falls into.
// On encode, *ptr is read; on decode, *ptr is populated. This is the
// one generic entrypoint user Serialize methods call for each field.
func Value[T any](a *Archive, name string, ptr *T) error {
	return a.dispatch(name, reflect.ValueOf(ptr).Elem())
}

// Save encodes v (addressed by ptr so both encode and decode share one
// code path through dispatch) and flushes the codec. v must not be a
// decode-mode archive.
func Save[T any](a *Archive, v *T) error {
	if a.c.IsInput() {
		return &errs.Error{Kind: errs.KindDomain, Msg: "Save called on an input archive"}
	}
	if err := Value(a, "", v); err != nil {
		return err
	}
	return a.Flush()
}

// Load decodes into *v. The archive must be in decode mode.
func Load[T any](a *Archive, v *T) error {
	if !a.c.IsInput() {
		return &errs.Error{Kind: errs.KindDomain, Msg: "Load called on an output archive"}
	}
	return Value(a, "", v)
}
