package archive

import (
	"reflect"

	"github.com/joshuapare/zen/errs"
)

// freeFuncEntry holds the free-function analogues of the member
// save/load/serialize categories, for types that cannot carry methods
// of their own (builtins, or types from a package the caller does not
// control).
type freeFuncEntry struct {
	save      func(a *Archive, target reflect.Value) error
	load      func(a *Archive, target reflect.Value) error
	serialize func(a *Archive, target reflect.Value) error
}

var freeFuncs = map[reflect.Type]freeFuncEntry{}

// RegisterFunc installs a free save/load pair for T: the free-function
// analogue of a member Save/Load method pair, checked after a member
// Save/Load pair and before a member Serialize method. Either save or
// load may be nil if only one direction is needed.
func RegisterFunc[T any](save func(a *Archive, v *T) error, load func(a *Archive, v *T) error) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	e := freeFuncs[t]
	if save != nil {
		e.save = func(a *Archive, target reflect.Value) error {
			return save(a, target.Interface().(*T))
		}
	}
	if load != nil {
		e.load = func(a *Archive, target reflect.Value) error {
			return load(a, target.Interface().(*T))
		}
	}
	freeFuncs[t] = e
}

// RegisterSerializeFunc installs a free serialize overload for T: the
// free-function analogue of a member Serialize method, checked last,
// after a member Serialize method.
func RegisterSerializeFunc[T any](fn func(a *Archive, v *T) error) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	e := freeFuncs[t]
	e.serialize = func(a *Archive, target reflect.Value) error {
		return fn(a, target.Interface().(*T))
	}
	freeFuncs[t] = e
}

// lookupFreeSaveLoad returns target's free save/load overload, if any.
// target must be the addressable pointer value asSerializer resolved;
// a non-pointer target (an unaddressable rv) never matches, since a
// free save/load pair is always expressed in terms of *T.
func lookupFreeSaveLoad(t reflect.Type, target reflect.Value) (userSerializeFunc, bool) {
	if target.Kind() != reflect.Ptr {
		return nil, false
	}
	e, ok := freeFuncs[t]
	if !ok || (e.save == nil && e.load == nil) {
		return nil, false
	}
	return func(a *Archive) error {
		if a.IsInput() {
			if e.load == nil {
				return errs.Wrap(errs.ErrNoSerializer, t.String(), nil)
			}
			return e.load(a, target)
		}
		if e.save == nil {
			return errs.Wrap(errs.ErrNoSerializer, t.String(), nil)
		}
		return e.save(a, target)
	}, true
}

// lookupFreeSerialize returns target's free serialize overload, if any.
func lookupFreeSerialize(t reflect.Type, target reflect.Value) (userSerializeFunc, bool) {
	if target.Kind() != reflect.Ptr {
		return nil, false
	}
	e, ok := freeFuncs[t]
	if !ok || e.serialize == nil {
		return nil, false
	}
	return func(a *Archive) error { return e.serialize(a, target) }, true
}
