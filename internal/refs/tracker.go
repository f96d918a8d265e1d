// Package refs implements the per-archive reference tracker: on
// output, a visited set that short-circuits duplicate emission of
// shared-owning bodies; on input, a table resolving a wire identity
// back to the single reconstructed instance so later encounters
// (shared or weak) alias it instead of allocating again.
//
// A Go pointer already plays the role of both a raw memory location
// and an owning handle, so there is no separate owning-handle control
// block to keep in sync: Tracker keeps a single identity ->
// reflect.Value(pointer) map on the input side.
package refs

import (
	"reflect"

	"github.com/joshuapare/zen/errs"
)

// Tracker is constructed fresh per archive instance and must not be
// shared across concurrent archives.
type Tracker struct {
	// visited marks identities whose body has already been written on
	// the output side: each identity gets a full body exactly once per
	// archive.
	visited map[uint64]struct{}

	// installed maps an identity decoded on input to the single
	// reconstructed pointer, so duplicate shared/weak encounters alias
	// the same instance instead of re-allocating.
	installed map[uint64]reflect.Value
}

// NewTracker returns an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{
		visited:   make(map[uint64]struct{}),
		installed: make(map[uint64]reflect.Value),
	}
}

// MarkVisited records that id's body is about to be written. It
// reports an error if id was already marked, which would indicate a
// driver bug: the output path is expected never to re-invoke it for
// one identity once short-circuited by the handle logic in
// archive/handle.go.
func (t *Tracker) MarkVisited(id uint64) error {
	if _, ok := t.visited[id]; ok {
		return errs.Wrap(errs.ErrDuplicateIdentity, "output", nil)
	}
	t.visited[id] = struct{}{}
	return nil
}

// HasVisited reports whether id's body has already been written.
func (t *Tracker) HasVisited(id uint64) bool {
	_, ok := t.visited[id]
	return ok
}

// Install records the reconstructed pointer for id. Returns an error
// if id is already installed: installing two bodies for the same
// identity is a driver error.
func (t *Tracker) Install(id uint64, v reflect.Value) error {
	if _, ok := t.installed[id]; ok {
		return errs.Wrap(errs.ErrDuplicateIdentity, "input", nil)
	}
	t.installed[id] = v
	return nil
}

// Resolve returns the pointer installed for id, if any.
func (t *Tracker) Resolve(id uint64) (reflect.Value, bool) {
	v, ok := t.installed[id]
	return v, ok
}
