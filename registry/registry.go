// Package registry implements the process-wide polymorphic type
// registry: a mapping between stable tag strings and the callables the
// archive driver needs to construct, serialize, and deserialize a
// concrete type through a base-typed reference.
//
// Registration is idempotent (last registration for a tag wins) and
// is expected to complete before any archive operation runs. Freeze
// makes every later Register call fail. Lookup and TagFor take a shared
// read lock whether or not the registry is frozen; reads are not
// lock-free after Freeze.
//
// Registry implements archive.TypeRegistry structurally; the archive
// package never imports registry, which is what lets both packages
// exist without a dependency cycle (archive.RegEntry carries
// *archive.Archive in its callables, so the entry type has to live in
// archive, not here).
package registry

import (
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/joshuapare/zen/archive"
	"github.com/joshuapare/zen/errs"
	"github.com/joshuapare/zen/log"
)

// Registry is a tag <-> type table. The zero value is not usable; use
// New or the package-level Default.
type Registry struct {
	mu     sync.RWMutex
	byTag  map[string]archive.RegEntry
	byType map[reflect.Type]string
	frozen atomic.Bool
}

// New returns an empty, unfrozen Registry. Most programs use Default;
// New exists for isolated tests and for embedders that want more than
// one closed universe of tags.
func New() *Registry {
	return &Registry{
		byTag:  make(map[string]archive.RegEntry),
		byType: make(map[reflect.Type]string),
	}
}

// Default is the process-wide registry programs use unless an archive
// is explicitly constructed with another.
var Default = New()

// Register installs tag -> entry, overwriting any previous
// registration for the same tag (idempotent, last wins). It also
// installs the reverse type -> tag mapping. Register after Freeze
// returns ErrRegistryFrozen.
func (r *Registry) Register(tag string, e archive.RegEntry) error {
	if r.frozen.Load() {
		return errs.Wrap(errs.ErrRegistryFrozen, fmt.Sprintf("register %q", tag), nil)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byTag[tag] = e
	r.byType[e.Type] = tag
	log.Debug("registry: registered tag", "tag", tag, "type", e.Type.String())
	return nil
}

// Freeze marks the registry read-only. Calls after Freeze to Register
// fail; Lookup/TagFor remain safe for concurrent use and still take the
// read lock.
func (r *Registry) Freeze() {
	r.frozen.Store(true)
	log.Debug("registry: frozen", "tags", len(r.byTag))
}

// Frozen reports whether Freeze has been called.
func (r *Registry) Frozen() bool { return r.frozen.Load() }

// Lookup returns the entry registered for tag.
func (r *Registry) Lookup(tag string) (archive.RegEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.byTag[tag]
	return e, ok
}

// TagFor returns the tag registered for the exact pointer type t (the
// reflect.Type of *T, matching RegEntry.Type), used by the driver to
// pick a tag for a polymorphic reference's runtime type.
func (r *Registry) TagFor(t reflect.Type) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tag, ok := r.byType[t]
	return tag, ok
}

// Register registers T under tag: newT default-constructs a *T,
// saveBase/loadBase dispatch the base-typed (de)serialization. T must
// be the concrete (non-pointer) struct type; entries always carry *T.
func Register[T any](r *Registry, tag string, newT func() *T,
	saveBase func(*T, *archive.Archive) error,
	loadBase func(*T, *archive.Archive) error) error {
	var zero *T
	return r.Register(tag, archive.RegEntry{
		New: func() any { return newT() },
		SaveBase: func(v any, a *archive.Archive) error {
			return saveBase(v.(*T), a)
		},
		LoadBase: func(v any, a *archive.Archive) error {
			return loadBase(v.(*T), a)
		},
		Type: reflect.TypeOf(zero),
	})
}
