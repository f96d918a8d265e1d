package archive

import (
	"path/filepath"
	"reflect"
	"strconv"

	"golang.org/x/text/encoding/charmap"

	"github.com/joshuapare/zen/errs"
)

// dispatchComplex services complex64/complex128, the one unavoidable
// built-in special case: neither type can carry methods, so it can't
// implement Serializer the way the library's other special
// container-likes do. Encoded as a two-field object so both codecs see
// ordinary primitives underneath.
func (a *Archive) dispatchComplex(rv reflect.Value) error {
	if err := a.c.OpenObject(); err != nil {
		return err
	}
	if a.IsInput() {
		a.c.SetNextName("real")
		re, err := a.c.ConsumeFloat()
		if err != nil {
			return err
		}
		a.c.SetNextName("imag")
		im, err := a.c.ConsumeFloat()
		if err != nil {
			return err
		}
		rv.SetComplex(complex(re, im))
		return a.c.CloseObject()
	}
	c := rv.Complex()
	a.c.SetNextName("real")
	if err := a.c.EmitFloat(real(c)); err != nil {
		return err
	}
	a.c.SetNextName("imag")
	if err := a.c.EmitFloat(imag(c)); err != nil {
		return err
	}
	return a.c.CloseObject()
}

// dispatchCP1252String transcodes a string field tagged `zen:",cp1252"`
// through a legacy Windows-1252 byte encoding instead of UTF-8 text,
// for interop with data produced by older Windows-locale tooling.
func (a *Archive) dispatchCP1252String(rv reflect.Value) error {
	if a.IsInput() {
		raw, err := a.c.ConsumeBytes()
		if err != nil {
			return err
		}
		decoded, err := charmap.Windows1252.NewDecoder().Bytes(raw)
		if err != nil {
			return errs.Wrap(errs.ErrUnsupportedType, "cp1252 decode", err)
		}
		rv.SetString(string(decoded))
		return nil
	}
	encoded, err := charmap.Windows1252.NewEncoder().Bytes([]byte(rv.String()))
	if err != nil {
		return errs.Wrap(errs.ErrUnsupportedType, "cp1252 encode", err)
	}
	return a.c.EmitBytes(encoded)
}

// Optional is a present-or-empty adapter with no distinct null state
// beyond absence. It implements Serializer itself, so the driver's
// dispatch table needs no dedicated case for it; this is the general
// pattern every special container-like type in this package follows.
type Optional[T any] struct {
	Value T
	Valid bool
}

// Some wraps v as a present Optional.
func Some[T any](v T) Optional[T] { return Optional[T]{Value: v, Valid: true} }

// None returns an absent Optional[T].
func None[T any]() Optional[T] { return Optional[T]{} }

// Get returns the wrapped value and whether it is present.
func (o Optional[T]) Get() (T, bool) { return o.Value, o.Valid }

func (o *Optional[T]) Serialize(a *Archive) error {
	if a.IsInput() {
		valid, err := namedBool(a, "valid")
		if err != nil {
			return err
		}
		o.Valid = valid
		if !valid {
			var zero T
			o.Value = zero
			return nil
		}
		return Value(a, "value", &o.Value)
	}
	if err := emitNamedBool(a, "valid", o.Valid); err != nil {
		return err
	}
	if !o.Valid {
		return nil
	}
	return Value(a, "value", &o.Value)
}

// Result is an "expected<T, E>"-shaped adapter: a value on success, an
// error payload on failure, decided by a discriminant written up
// front.
type Result[T any, E any] struct {
	Value T
	Err   E
	Ok    bool
}

// OkResult wraps v as a successful Result.
func OkResult[T any, E any](v T) Result[T, E] { return Result[T, E]{Value: v, Ok: true} }

// ErrResult wraps e as a failed Result.
func ErrResult[T any, E any](e E) Result[T, E] { return Result[T, E]{Err: e, Ok: false} }

func (r *Result[T, E]) Serialize(a *Archive) error {
	if a.IsInput() {
		ok, err := namedBool(a, "ok")
		if err != nil {
			return err
		}
		r.Ok = ok
		if ok {
			var zero E
			r.Err = zero
			return Value(a, "value", &r.Value)
		}
		var zero T
		r.Value = zero
		return Value(a, "error", &r.Err)
	}
	if err := emitNamedBool(a, "ok", r.Ok); err != nil {
		return err
	}
	if r.Ok {
		return Value(a, "value", &r.Value)
	}
	return Value(a, "error", &r.Err)
}

// Pair is a fixed two-element heterogeneous tuple.
type Pair[A any, B any] struct {
	First  A
	Second B
}

func MakePair[A any, B any](first A, second B) Pair[A, B] {
	return Pair[A, B]{First: first, Second: second}
}

func (p *Pair[A, B]) Serialize(a *Archive) error {
	if err := Value(a, "first", &p.First); err != nil {
		return err
	}
	return Value(a, "second", &p.Second)
}

// Tuple is a fixed-arity heterogeneous product type, the N-ary
// generalization of Pair: elements are submitted under their ordinal
// string ("0", "1", ...) rather than first/second, mirroring
// std::tuple<Args...>.
type Tuple struct {
	elems []reflect.Value
}

// NewTuple returns a Tuple over the given element types, each
// zero-valued.
func NewTuple(elemTypes ...reflect.Type) *Tuple {
	elems := make([]reflect.Value, len(elemTypes))
	for i, t := range elemTypes {
		elems[i] = reflect.New(t).Elem()
	}
	return &Tuple{elems: elems}
}

// Len reports the tuple's arity.
func (t *Tuple) Len() int { return len(t.elems) }

// At returns the element at index i.
func (t *Tuple) At(i int) any { return t.elems[i].Interface() }

// Set assigns val to the element at index i, which must be assignable
// to that element's type.
func (t *Tuple) Set(i int, val any) error {
	rv := reflect.ValueOf(val)
	if !rv.Type().AssignableTo(t.elems[i].Type()) {
		return errs.Wrap(errs.ErrUnsupportedType, "tuple element type mismatch", nil)
	}
	t.elems[i].Set(rv)
	return nil
}

func (t *Tuple) Serialize(a *Archive) error {
	for i := range t.elems {
		if err := a.dispatch(strconv.Itoa(i), t.elems[i]); err != nil {
			return err
		}
	}
	return nil
}

// Bitset is a fixed-size bit vector, kept packed into bytes in memory
// but serialized as its canonical binary-digit string (most
// significant bit first), matching std::bitset::to_string(): the wire
// form is a single "value" string, not a byte span.
type Bitset struct {
	bits []byte
	n    int
}

// NewBitset returns a Bitset able to hold n bits, initially all clear.
func NewBitset(n int) *Bitset {
	return &Bitset{bits: make([]byte, (n+7)/8), n: n}
}

func (b *Bitset) Len() int { return b.n }

func (b *Bitset) Set(i int, v bool) {
	if v {
		b.bits[i/8] |= 1 << uint(i%8)
	} else {
		b.bits[i/8] &^= 1 << uint(i%8)
	}
}

func (b *Bitset) Test(i int) bool {
	return b.bits[i/8]&(1<<uint(i%8)) != 0
}

func (b *Bitset) Serialize(a *Archive) error {
	if a.IsInput() {
		s, err := namedString(a, "value")
		if err != nil {
			return err
		}
		b.n = len(s)
		b.bits = make([]byte, (b.n+7)/8)
		for i, ch := range s {
			switch ch {
			case '1':
				b.Set(b.n-1-i, true)
			case '0':
				// already clear
			default:
				return errs.Wrap(errs.ErrUnsupportedType, "bitset digit", nil)
			}
		}
		return nil
	}
	buf := make([]byte, b.n)
	for i := 0; i < b.n; i++ {
		if b.Test(b.n - 1 - i) {
			buf[i] = '1'
		} else {
			buf[i] = '0'
		}
	}
	return emitNamedString(a, "value", string(buf))
}

// Path is a filesystem path, encoded as its plain Unicode string form:
// it carries no dedicated wire shape of its own and rides the same
// string primitive every other string field uses.
type Path string

// NewPath returns p cleaned via filepath.Clean.
func NewPath(p string) Path { return Path(filepath.Clean(p)) }

func (p Path) String() string { return string(p) }

// Variant is a closed tagged union over a fixed set of alternative
// types, mirroring std::variant<Args...>: exactly one alternative is
// active at a time, selected by an index and reconstructed by that
// index's type on decode.
type Variant struct {
	alternatives []reflect.Type
	index        int
	value        reflect.Value
}

// NewVariant returns a Variant over the given alternative types, with
// alternative 0 active and zero-valued.
func NewVariant(alternatives ...reflect.Type) *Variant {
	v := &Variant{alternatives: alternatives}
	if len(alternatives) > 0 {
		v.value = reflect.New(alternatives[0]).Elem()
	}
	return v
}

// Index reports which alternative is currently active.
func (v *Variant) Index() int { return v.index }

// Value returns the active alternative's value.
func (v *Variant) Value() any { return v.value.Interface() }

// Set activates alternative i holding val, which must be assignable to
// that alternative's type.
func (v *Variant) Set(i int, val any) error {
	if i < 0 || i >= len(v.alternatives) {
		return errs.Wrap(errs.ErrVariantIndex, "set", nil)
	}
	rv := reflect.ValueOf(val)
	if !rv.Type().AssignableTo(v.alternatives[i]) {
		return errs.Wrap(errs.ErrUnsupportedType, "variant alternative type mismatch", nil)
	}
	nv := reflect.New(v.alternatives[i]).Elem()
	nv.Set(rv)
	v.index = i
	v.value = nv
	return nil
}

func (v *Variant) Serialize(a *Archive) error {
	if a.IsInput() {
		idx, err := namedUint(a, "index")
		if err != nil {
			return err
		}
		if int(idx) >= len(v.alternatives) {
			return errs.Wrap(errs.ErrVariantIndex, "decode", nil)
		}
		v.index = int(idx)
		v.value = reflect.New(v.alternatives[v.index]).Elem()
		return a.dispatch("value", v.value)
	}
	if v.index < 0 || v.index >= len(v.alternatives) {
		return errs.Wrap(errs.ErrVariantIndex, "encode", nil)
	}
	if err := emitNamedUint(a, "index", uint64(v.index)); err != nil {
		return err
	}
	return a.dispatch("value", v.value)
}

func namedBool(a *Archive, name string) (bool, error) {
	a.c.SetNextName(name)
	return a.c.ConsumeBool()
}

func emitNamedBool(a *Archive, name string, v bool) error {
	a.c.SetNextName(name)
	return a.c.EmitBool(v)
}

func namedUint(a *Archive, name string) (uint64, error) {
	a.c.SetNextName(name)
	return a.c.ConsumeUint()
}

func emitNamedUint(a *Archive, name string, v uint64) error {
	a.c.SetNextName(name)
	return a.c.EmitUint(v)
}

func namedString(a *Archive, name string) (string, error) {
	a.c.SetNextName(name)
	return a.c.ConsumeString()
}

func emitNamedString(a *Archive, name string, v string) error {
	a.c.SetNextName(name)
	return a.c.EmitString(v)
}
