package archive

import (
	"reflect"

	"github.com/joshuapare/zen/errs"
	"github.com/joshuapare/zen/internal/reflectutil"
)

// dispatch is the category engine: it inspects rv and routes it to the
// handler for the category it falls into. name is pushed as the next
// field hint when non-empty; array elements and the archive root call
// it with "" since positional scopes ignore hints.
func (a *Archive) dispatch(name string, rv reflect.Value) error {
	if name != "" {
		a.c.SetNextName(name)
	}

	if h, ok := asHandle(rv); ok {
		return a.dispatchHandle(h)
	}

	if rv.Kind() == reflect.Ptr {
		return a.dispatchOwning(rv)
	}

	if s, ok := asSerializer(rv); ok {
		return a.dispatchUserType(rv, s)
	}

	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return a.dispatchInt(rv)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return a.dispatchUint(rv)
	case reflect.Float32, reflect.Float64:
		return a.dispatchFloat(rv)
	case reflect.Bool:
		return a.dispatchBool(rv)
	case reflect.String:
		return a.dispatchString(rv, false)
	case reflect.Complex64, reflect.Complex128:
		return a.dispatchComplex(rv)
	case reflect.Slice, reflect.Array:
		return a.dispatchSequence(rv)
	case reflect.Map:
		return a.dispatchMap(rv)
	case reflect.Struct:
		return a.dispatchAggregate(rv)
	default:
		return errs.Wrap(errs.ErrUnsupportedType, rv.Type().String(), nil)
	}
}

// userSerializeFunc adapts Saver/Loader/Serializer to one shape so
// dispatchUserType doesn't need to branch on which of the three a type
// implements.
type userSerializeFunc func(a *Archive) error

// asSerializer resolves rv's user-type dispatch function by checking,
// in order, first match wins: (1) a member Save/Load method pair, (2)
// a free save/load overload registered via RegisterFunc, (3) a member
// Serialize method, (4) a free serialize overload registered via
// RegisterSerializeFunc.
func asSerializer(rv reflect.Value) (userSerializeFunc, bool) {
	target := rv
	if rv.CanAddr() {
		target = rv.Addr()
	}
	if !target.CanInterface() {
		return nil, false
	}
	iface := target.Interface()

	save, canSave := iface.(Saver)
	load, canLoad := iface.(Loader)
	if canSave || canLoad {
		return func(a *Archive) error {
			if a.IsInput() {
				if !canLoad {
					return errs.Wrap(errs.ErrNoSerializer, rv.Type().String(), nil)
				}
				return load.Load(a)
			}
			if !canSave {
				return errs.Wrap(errs.ErrNoSerializer, rv.Type().String(), nil)
			}
			return save.Save(a)
		}, true
	}

	if fn, ok := lookupFreeSaveLoad(rv.Type(), target); ok {
		return fn, true
	}

	if s, ok := iface.(Serializer); ok {
		return s.Serialize, true
	}

	if fn, ok := lookupFreeSerialize(rv.Type(), target); ok {
		return fn, true
	}

	return nil, false
}

// dispatchUserType opens an object scope around a user type with a
// per-type serialize function and calls into it.
func (a *Archive) dispatchUserType(rv reflect.Value, fn userSerializeFunc) error {
	if err := a.c.OpenObject(); err != nil {
		return err
	}
	if err := fn(a); err != nil {
		return err
	}
	return a.c.CloseObject()
}

// dispatchAggregate is the fallback for struct types with no
// save/load/serialize entry point at all: enumerate exported fields in
// declaration order and submit each by name.
func (a *Archive) dispatchAggregate(rv reflect.Value) error {
	if err := a.c.OpenObject(); err != nil {
		return err
	}
	for _, f := range reflectutil.Fields(rv) {
		if f.CP1252 && f.Value.Kind() == reflect.String {
			a.c.SetNextName(f.Name)
			if err := a.dispatchString(f.Value, true); err != nil {
				return err
			}
			continue
		}
		if err := a.dispatch(f.Name, f.Value); err != nil {
			return err
		}
	}
	return a.c.CloseObject()
}

func (a *Archive) dispatchInt(rv reflect.Value) error {
	if a.IsInput() {
		v, err := a.c.ConsumeInt()
		if err != nil {
			return err
		}
		rv.SetInt(v)
		return nil
	}
	return a.c.EmitInt(rv.Int())
}

func (a *Archive) dispatchUint(rv reflect.Value) error {
	if a.IsInput() {
		v, err := a.c.ConsumeUint()
		if err != nil {
			return err
		}
		rv.SetUint(v)
		return nil
	}
	return a.c.EmitUint(rv.Uint())
}

func (a *Archive) dispatchFloat(rv reflect.Value) error {
	if a.IsInput() {
		v, err := a.c.ConsumeFloat()
		if err != nil {
			return err
		}
		rv.SetFloat(v)
		return nil
	}
	return a.c.EmitFloat(rv.Float())
}

func (a *Archive) dispatchBool(rv reflect.Value) error {
	if a.IsInput() {
		v, err := a.c.ConsumeBool()
		if err != nil {
			return err
		}
		rv.SetBool(v)
		return nil
	}
	return a.c.EmitBool(rv.Bool())
}

func (a *Archive) dispatchString(rv reflect.Value, legacyCP1252 bool) error {
	if legacyCP1252 {
		return a.dispatchCP1252String(rv)
	}
	if a.IsInput() {
		v, err := a.c.ConsumeString()
		if err != nil {
			return err
		}
		rv.SetString(v)
		return nil
	}
	return a.c.EmitString(rv.String())
}

// dispatchOwning services a plain *T field: an exclusive-owning
// handle. Unlike Shared it never short-circuits a repeat encounter of
// the same identity; a repeat is a driver error, since an exclusive
// owner is never supposed to have two holders.
func (a *Archive) dispatchOwning(rv reflect.Value) error {
	if a.IsInput() {
		return a.decodeOwning(rv)
	}
	return a.encodeOwning(rv)
}

func (a *Archive) encodeOwning(rv reflect.Value) error {
	if rv.IsNil() {
		if err := a.c.OpenObject(); err != nil {
			return err
		}
		a.c.SetNextName("id")
		if err := a.c.EmitUint(0); err != nil {
			return err
		}
		return a.c.CloseObject()
	}
	id, first := a.ids.IdentityFor(rv)
	if !first {
		return errs.Wrap(errs.ErrDuplicateIdentity, "exclusive handle re-encountered", nil)
	}
	if err := a.c.OpenObject(); err != nil {
		return err
	}
	a.c.SetNextName("id")
	if err := a.c.EmitUint(id); err != nil {
		return err
	}
	if err := a.tracker.MarkVisited(id); err != nil {
		return err
	}
	if err := a.encodeHandleBody(rv, rv.Type().Elem()); err != nil {
		return err
	}
	return a.c.CloseObject()
}

func (a *Archive) decodeOwning(rv reflect.Value) error {
	elemType := rv.Type().Elem()
	if err := a.c.OpenObject(); err != nil {
		return err
	}
	a.c.SetNextName("id")
	id, err := a.c.ConsumeUint()
	if err != nil {
		return err
	}
	if id == 0 {
		rv.Set(reflect.Zero(rv.Type()))
		return a.c.CloseObject()
	}
	instance, err := a.decodeHandleBody(id, elemType)
	if err != nil {
		return err
	}
	rv.Set(instance)
	return a.c.CloseObject()
}
