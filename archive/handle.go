package archive

import (
	"reflect"

	"github.com/joshuapare/zen/errs"
)

// Shared is an owning handle whose value may be reachable from more
// than one holder: the first encounter during encode writes the full
// body and every later encounter writes only the identity; on decode,
// later encounters alias the one reconstructed instance instead of
// allocating again.
type Shared[T any] struct{ ptr *T }

// NewShared wraps v as a shared-owning handle.
func NewShared[T any](v *T) Shared[T] { return Shared[T]{ptr: v} }

// Get returns the wrapped pointer, or nil if s is nil or empty.
func (s *Shared[T]) Get() *T {
	if s == nil {
		return nil
	}
	return s.ptr
}

// Set replaces the wrapped pointer.
func (s *Shared[T]) Set(v *T) { s.ptr = v }

// Weak is a non-owning back reference: it must resolve to an instance
// installed by a Shared encounter elsewhere in the same graph, and
// never itself carries a body on the wire.
type Weak[T any] struct{ ptr *T }

// NewWeak wraps v as a non-owning back reference.
func NewWeak[T any](v *T) Weak[T] { return Weak[T]{ptr: v} }

// Get returns the wrapped pointer, or nil if w is nil or unresolved.
func (w *Weak[T]) Get() *T {
	if w == nil {
		return nil
	}
	return w.ptr
}

// Set replaces the wrapped pointer.
func (w *Weak[T]) Set(v *T) { w.ptr = v }

type handleFlavor int

const (
	flavorShared handleFlavor = iota
	flavorWeak
)

// handle is implemented by *Shared[T] and *Weak[T] for any T, which is
// what lets the reflection-driven dispatcher recognize either wrapper
// without itself being generic over T.
type handle interface {
	handleFlavor() handleFlavor
	elemType() reflect.Type
	ptrValue() reflect.Value
	setPtrValue(reflect.Value)
}

func (s *Shared[T]) handleFlavor() handleFlavor { return flavorShared }
func (s *Shared[T]) elemType() reflect.Type {
	var zero *T
	return reflect.TypeOf(zero).Elem()
}
func (s *Shared[T]) ptrValue() reflect.Value { return reflect.ValueOf(s.ptr) }
func (s *Shared[T]) setPtrValue(v reflect.Value) {
	if v.IsZero() {
		s.ptr = nil
		return
	}
	s.ptr = v.Interface().(*T)
}

func (w *Weak[T]) handleFlavor() handleFlavor { return flavorWeak }
func (w *Weak[T]) elemType() reflect.Type {
	var zero *T
	return reflect.TypeOf(zero).Elem()
}
func (w *Weak[T]) ptrValue() reflect.Value { return reflect.ValueOf(w.ptr) }
func (w *Weak[T]) setPtrValue(v reflect.Value) {
	if v.IsZero() {
		w.ptr = nil
		return
	}
	w.ptr = v.Interface().(*T)
}

// asHandle type-asserts an addressable struct value against handle.
func asHandle(rv reflect.Value) (handle, bool) {
	if !rv.CanAddr() {
		return nil, false
	}
	h, ok := rv.Addr().Interface().(handle)
	return h, ok
}

// dispatchHandle services Shared[T] and Weak[T] fields. Both share the
// identity bookkeeping; Weak never reads or writes a body.
func (a *Archive) dispatchHandle(h handle) error {
	if a.IsInput() {
		return a.decodeHandle(h)
	}
	return a.encodeHandle(h)
}

func (a *Archive) encodeHandle(h handle) error {
	ptr := h.ptrValue()
	if h.handleFlavor() == flavorWeak {
		if ptr.IsNil() {
			return a.c.EmitUint(0)
		}
		id, ok := a.ids.Seen(ptr)
		if !ok {
			return errs.Wrap(errs.ErrUnresolvedBackRef, "encode", nil)
		}
		return a.c.EmitUint(id)
	}

	// Shared.
	if ptr.IsNil() {
		if err := a.c.OpenObject(); err != nil {
			return err
		}
		a.c.SetNextName("id")
		if err := a.c.EmitUint(0); err != nil {
			return err
		}
		return a.c.CloseObject()
	}
	id, first := a.ids.IdentityFor(ptr)
	if err := a.c.OpenObject(); err != nil {
		return err
	}
	a.c.SetNextName("id")
	if err := a.c.EmitUint(id); err != nil {
		return err
	}
	if !first {
		return a.c.CloseObject()
	}
	if err := a.tracker.MarkVisited(id); err != nil {
		return err
	}
	if err := a.encodeHandleBody(ptr, h.elemType()); err != nil {
		return err
	}
	return a.c.CloseObject()
}

// encodeHandleBody writes the optional tag and the "data" body for a
// handle whose target is being written for the first time.
func (a *Archive) encodeHandleBody(ptr reflect.Value, elemType reflect.Type) error {
	concrete := ptr
	var tag string
	var hasTag bool
	if elemType.Kind() == reflect.Interface {
		iface := ptr.Elem()
		if iface.Kind() != reflect.Interface || iface.IsNil() {
			return errs.Wrap(errs.ErrUnsupportedType, "nil polymorphic handle target", nil)
		}
		concrete = iface.Elem()
		if a.reg == nil {
			return errs.Wrap(errs.ErrNotRegistered, concrete.Type().String(), nil)
		}
		t, ok := a.reg.TagFor(concrete.Type())
		if !ok {
			return errs.Wrap(errs.ErrNotRegistered, concrete.Type().String(), nil)
		}
		tag, hasTag = t, true
	}

	a.c.SetNextName("hasTag")
	if err := a.c.EmitBool(hasTag); err != nil {
		return err
	}
	if hasTag {
		a.c.SetNextName("tag")
		if err := a.c.EmitString(tag); err != nil {
			return err
		}
	}
	a.c.SetNextName("data")
	if hasTag {
		entry, _ := a.reg.Lookup(tag)
		if err := a.c.OpenObject(); err != nil {
			return err
		}
		if err := entry.SaveBase(concrete.Interface(), a); err != nil {
			return err
		}
		return a.c.CloseObject()
	}
	return a.dispatch("", concrete.Elem())
}

func (a *Archive) decodeHandle(h handle) error {
	if h.handleFlavor() == flavorWeak {
		id, err := a.c.ConsumeUint()
		if err != nil {
			return err
		}
		if id == 0 {
			h.setPtrValue(reflect.Zero(reflect.PointerTo(h.elemType())))
			return nil
		}
		v, ok := a.tracker.Resolve(id)
		if !ok {
			return errs.Wrap(errs.ErrUnresolvedBackRef, "decode", nil)
		}
		h.setPtrValue(v)
		return nil
	}

	if err := a.c.OpenObject(); err != nil {
		return err
	}
	a.c.SetNextName("id")
	id, err := a.c.ConsumeUint()
	if err != nil {
		return err
	}
	if id == 0 {
		h.setPtrValue(reflect.Zero(reflect.PointerTo(h.elemType())))
		return a.c.CloseObject()
	}
	if existing, ok := a.tracker.Resolve(id); ok {
		h.setPtrValue(existing)
		return a.c.CloseObject()
	}
	instance, err := a.decodeHandleBody(id, h.elemType())
	if err != nil {
		return err
	}
	h.setPtrValue(instance)
	return a.c.CloseObject()
}

func (a *Archive) decodeHandleBody(id uint64, elemType reflect.Type) (reflect.Value, error) {
	a.c.SetNextName("hasTag")
	hasTag, err := a.c.ConsumeBool()
	if err != nil {
		return reflect.Value{}, err
	}

	var instance reflect.Value // *Concrete
	var entry RegEntry
	var haveEntry bool
	if hasTag {
		a.c.SetNextName("tag")
		tag, err := a.c.ConsumeString()
		if err != nil {
			return reflect.Value{}, err
		}
		if a.reg == nil {
			return reflect.Value{}, errs.Wrap(errs.ErrUnknownTag, tag, nil)
		}
		e, ok := a.reg.Lookup(tag)
		if !ok {
			return reflect.Value{}, errs.Wrap(errs.ErrUnknownTag, tag, nil)
		}
		entry, haveEntry = e, true
		instance = reflect.ValueOf(entry.New())
	} else {
		if elemType.Kind() == reflect.Interface {
			return reflect.Value{}, errs.Wrap(errs.ErrNotRegistered, "interface handle with no tag", nil)
		}
		instance = reflect.New(elemType)
	}

	if err := a.tracker.Install(id, instance); err != nil {
		return reflect.Value{}, err
	}

	a.c.SetNextName("data")
	if haveEntry {
		if err := a.c.OpenObject(); err != nil {
			return reflect.Value{}, err
		}
		if err := entry.LoadBase(instance.Interface(), a); err != nil {
			return reflect.Value{}, err
		}
		if err := a.c.CloseObject(); err != nil {
			return reflect.Value{}, err
		}
	} else {
		if err := a.dispatch("", instance.Elem()); err != nil {
			return reflect.Value{}, err
		}
	}

	if elemType.Kind() == reflect.Interface {
		boxed := reflect.New(elemType) // *T where T is the interface type
		boxed.Elem().Set(instance)
		return boxed, nil
	}
	return instance, nil
}
