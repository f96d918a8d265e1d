package archive

import (
	"reflect"
	"unsafe"

	"github.com/joshuapare/zen/codec"
	"github.com/joshuapare/zen/errs"
)

// fastPathKinds are the element kinds eligible for the contiguous
// memcopy shortcut. Uint8 is excluded: dispatchSequence sends a []byte
// slice to the byte-span primitive before the fast-path check, and a
// byte array goes through the per-element loop.
var fastPathKinds = map[reflect.Kind]bool{
	reflect.Int8: true, reflect.Int16: true, reflect.Int32: true, reflect.Int64: true,
	reflect.Uint16: true, reflect.Uint32: true, reflect.Uint64: true,
	reflect.Float32: true, reflect.Float64: true,
}

// dispatchSequence handles slice and array values: a raw byte buffer
// goes through the codec's byte-span primitive directly; everything
// else goes through the range-size + per-element loop, taking the
// contiguous fast path when the codec and element kind both allow it.
func (a *Archive) dispatchSequence(rv reflect.Value) error {
	elemType := rv.Type().Elem()
	if elemType.Kind() == reflect.Uint8 && rv.Kind() == reflect.Slice {
		return a.dispatchByteSlice(rv)
	}
	if a.IsInput() {
		return a.decodeSequence(rv, elemType)
	}
	return a.encodeSequence(rv, elemType)
}

func (a *Archive) dispatchByteSlice(rv reflect.Value) error {
	if a.IsInput() {
		b, err := a.c.ConsumeBytes()
		if err != nil {
			return err
		}
		rv.SetBytes(b)
		return nil
	}
	return a.c.EmitBytes(rv.Bytes())
}

func (a *Archive) encodeSequence(rv reflect.Value, elemType reflect.Type) error {
	n := rv.Len()
	if err := a.c.EmitRangeSize(uint64(n)); err != nil {
		return err
	}
	if err := a.c.OpenArray(); err != nil {
		return err
	}
	if raw, ok := a.rawSpanCodec(); ok && fastPathKinds[elemType.Kind()] && n > 0 {
		if err := raw.EmitRawSpan(sliceBytes(rv, elemType)); err != nil {
			return err
		}
		return a.c.CloseArray()
	}
	for i := 0; i < n; i++ {
		if err := a.dispatch("", rv.Index(i)); err != nil {
			return err
		}
	}
	return a.c.CloseArray()
}

func (a *Archive) decodeSequence(rv reflect.Value, elemType reflect.Type) error {
	n, err := a.c.ConsumeRangeSize()
	if err != nil {
		return err
	}
	if err := a.c.OpenArray(); err != nil {
		return err
	}
	if rv.Kind() == reflect.Slice {
		rv.Set(reflect.MakeSlice(rv.Type(), int(n), int(n)))
	} else if int(n) != rv.Len() {
		return errs.Wrap(errs.ErrUnsupportedType, "array length does not match wire range size", nil)
	}
	if raw, ok := a.rawSpanCodec(); ok && fastPathKinds[elemType.Kind()] && n > 0 {
		buf, err := raw.ConsumeRawSpan(int(n) * int(elemType.Size()))
		if err != nil {
			return err
		}
		copy(sliceBytes(rv, elemType), buf)
		return a.c.CloseArray()
	}
	for i := 0; i < int(n); i++ {
		if err := a.dispatch("", rv.Index(i)); err != nil {
			return err
		}
	}
	return a.c.CloseArray()
}

func (a *Archive) rawSpanCodec() (codec.RawSpanCodec, bool) {
	if !a.c.IsBinary() {
		return nil, false
	}
	raw, ok := a.c.(codec.RawSpanCodec)
	return raw, ok
}

// sliceBytes reinterprets a contiguous slice or array of a fixed-width
// arithmetic element as a raw byte buffer, for the §4.5 fast path. It
// is the moral equivalent of a reinterpret_cast<byte*> over the
// buffer's first element.
func sliceBytes(rv reflect.Value, elemType reflect.Type) []byte {
	n := rv.Len()
	if n == 0 {
		return nil
	}
	size := int(elemType.Size())
	ptr := unsafe.Pointer(rv.Index(0).Addr().Pointer())
	return unsafe.Slice((*byte)(ptr), n*size)
}

// dispatchMap encodes a map as a range-size followed by an array of
// {key, value} objects. Key/value order follows Go's map iteration
// order, which is intentionally randomized; callers who need a stable
// wire byte sequence should sort their data into a slice of pairs
// instead.
func (a *Archive) dispatchMap(rv reflect.Value) error {
	if a.IsInput() {
		return a.decodeMap(rv)
	}
	return a.encodeMap(rv)
}

func (a *Archive) encodeMap(rv reflect.Value) error {
	keys := rv.MapKeys()
	if err := a.c.EmitRangeSize(uint64(len(keys))); err != nil {
		return err
	}
	if err := a.c.OpenArray(); err != nil {
		return err
	}
	for _, k := range keys {
		if err := a.c.OpenObject(); err != nil {
			return err
		}
		if err := a.dispatch("key", addressableCopy(k)); err != nil {
			return err
		}
		if err := a.dispatch("value", addressableCopy(rv.MapIndex(k))); err != nil {
			return err
		}
		if err := a.c.CloseObject(); err != nil {
			return err
		}
	}
	return a.c.CloseArray()
}

func (a *Archive) decodeMap(rv reflect.Value) error {
	n, err := a.c.ConsumeRangeSize()
	if err != nil {
		return err
	}
	if err := a.c.OpenArray(); err != nil {
		return err
	}
	mt := rv.Type()
	out := reflect.MakeMapWithSize(mt, int(n))
	for i := 0; i < int(n); i++ {
		if err := a.c.OpenObject(); err != nil {
			return err
		}
		keyPtr := reflect.New(mt.Key())
		if err := a.dispatch("key", keyPtr.Elem()); err != nil {
			return err
		}
		valPtr := reflect.New(mt.Elem())
		if err := a.dispatch("value", valPtr.Elem()); err != nil {
			return err
		}
		out.SetMapIndex(keyPtr.Elem(), valPtr.Elem())
		if err := a.c.CloseObject(); err != nil {
			return err
		}
	}
	rv.Set(out)
	return a.c.CloseArray()
}

// addressableCopy returns an addressable reflect.Value holding v's
// value: map keys/values are not addressable, but dispatch needs an
// addressable target to support in-place mutation paths shared with
// decode (encode itself never mutates it).
func addressableCopy(v reflect.Value) reflect.Value {
	p := reflect.New(v.Type())
	p.Elem().Set(v)
	return p.Elem()
}
