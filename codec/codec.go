// Package codec defines the narrow interface the archive driver uses to
// emit and consume primitives and structural brackets. Two
// implementations exist: codec/text (a self-describing JSON-shaped
// tree) and codec/binary (a compact, host-order wire format). Neither
// implementation is imported directly by archive; archive only depends
// on the Codec interface so either back end can drive the same
// traversal.
package codec

// Codec is the format-specific back end the archive driver calls into.
// Every Open* must be paired with the matching Close*; codecs are not
// required to tolerate a Close of the wrong kind and may report
// ErrScopeMismatch-shaped errors instead.
type Codec interface {
	// SetNextName pushes a name hint for the next primitive emission or
	// scope open inside the current object scope. Hints are consumed in
	// LIFO order. Array scopes discard hints silently: children there
	// are positional.
	SetNextName(hint string)

	OpenObject() error
	CloseObject() error
	OpenArray() error
	CloseArray() error

	EmitInt(v int64) error
	EmitUint(v uint64) error
	EmitFloat(v float64) error
	EmitBool(v bool) error
	EmitString(v string) error
	EmitBytes(v []byte) error
	EmitRangeSize(n uint64) error

	ConsumeInt() (int64, error)
	ConsumeUint() (uint64, error)
	ConsumeFloat() (float64, error)
	ConsumeBool() (bool, error)
	ConsumeString() (string, error)
	ConsumeBytes() ([]byte, error)
	ConsumeRangeSize() (uint64, error)

	// IsBinary reports whether the codec wants the bulk-byte fast path
	// for contiguous arithmetic sequences. The text codec always answers
	// false.
	IsBinary() bool

	// IsInput reports whether this codec instance is decoding (true) or
	// encoding (false). The archive forwards this via Archive.IsInput so
	// a single user Serialize method can service both directions.
	IsInput() bool

	// Flush commits any buffered output to the underlying sink. A no-op
	// for input codecs.
	Flush() error
}

// RawSpanCodec is an optional capability implemented by codecs that
// support the contiguous-arithmetic fast path: a single raw byte span
// standing in for count × sizeof(element) individually emitted
// elements. The archive driver type-asserts for this after confirming
// Codec.IsBinary(); the text codec never implements it, since a JSON-shaped
// tree has nowhere to put an opaque byte span that round-trips losslessly.
type RawSpanCodec interface {
	EmitRawSpan(data []byte) error
	ConsumeRawSpan(n int) ([]byte, error)
}
