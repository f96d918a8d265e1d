package binary

import (
	"bufio"
	"io"
	"math"

	"github.com/joshuapare/zen/errs"
)

type scopeKind int

const (
	scopeObject scopeKind = iota
	scopeArray
)

// Codec is the compact binary implementation of codec.Codec. Scope
// brackets produce no wire bytes; the scope stack here exists only to
// validate that each Close call matches the innermost open scope.
type Codec struct {
	input   bool
	w       *bufio.Writer
	r       *bufio.Reader
	scopes  []scopeKind
	started bool // header written/read
}

// NewEncoder returns a Codec that writes the stream header on the
// first operation and frames each primitive at fixed width.
func NewEncoder(w io.Writer) *Codec {
	return &Codec{w: bufio.NewWriter(w)}
}

// NewDecoder returns a Codec that validates the stream header on the
// first operation.
func NewDecoder(r io.Reader) *Codec {
	return &Codec{input: true, r: bufio.NewReader(r)}
}

func (c *Codec) ensureHeader() error {
	if c.started {
		return nil
	}
	c.started = true
	if c.input {
		return readHeader(c.r)
	}
	return writeHeader(c.w)
}

func (c *Codec) IsBinary() bool { return true }
func (c *Codec) IsInput() bool  { return c.input }

// SetNextName is accepted for interface symmetry but has no wire
// effect: the binary format carries no field names, only positions.
func (c *Codec) SetNextName(string) {}

func (c *Codec) OpenObject() error { return c.openScope(scopeObject) }
func (c *Codec) OpenArray() error  { return c.openScope(scopeArray) }

func (c *Codec) openScope(k scopeKind) error {
	if err := c.ensureHeader(); err != nil {
		return err
	}
	c.scopes = append(c.scopes, k)
	return nil
}

func (c *Codec) CloseObject() error { return c.closeScope(scopeObject) }
func (c *Codec) CloseArray() error  { return c.closeScope(scopeArray) }

func (c *Codec) closeScope(want scopeKind) error {
	if len(c.scopes) == 0 {
		return errs.ErrEmptyStack
	}
	top := c.scopes[len(c.scopes)-1]
	if top != want {
		return errs.ErrScopeMismatch
	}
	c.scopes = c.scopes[:len(c.scopes)-1]
	return nil
}

func (c *Codec) EmitInt(v int64) error   { return c.EmitUint(uint64(v)) }
func (c *Codec) EmitUint(v uint64) error {
	if err := c.ensureHeader(); err != nil {
		return err
	}
	var buf [8]byte
	putUint64(buf[:], v)
	return writeFull(c.w, buf[:])
}

func (c *Codec) EmitFloat(v float64) error {
	return c.EmitUint(math.Float64bits(v))
}

func (c *Codec) EmitBool(v bool) error {
	if err := c.ensureHeader(); err != nil {
		return err
	}
	b := byte(0)
	if v {
		b = 1
	}
	return writeFull(c.w, []byte{b})
}

func (c *Codec) EmitString(v string) error {
	if err := c.EmitUint(uint64(len(v))); err != nil {
		return err
	}
	return writeFull(c.w, []byte(v))
}

func (c *Codec) EmitBytes(v []byte) error {
	if err := c.EmitUint(uint64(len(v))); err != nil {
		return err
	}
	if len(v) == 0 {
		return nil
	}
	return writeFull(c.w, v)
}

func (c *Codec) EmitRangeSize(n uint64) error { return c.EmitUint(n) }

func (c *Codec) ConsumeInt() (int64, error) {
	v, err := c.ConsumeUint()
	return int64(v), err
}

func (c *Codec) ConsumeUint() (uint64, error) {
	if err := c.ensureHeader(); err != nil {
		return 0, err
	}
	var buf [8]byte
	if err := readFull(c.r, buf[:]); err != nil {
		return 0, err
	}
	return readUint64(buf[:]), nil
}

func (c *Codec) ConsumeFloat() (float64, error) {
	bits, err := c.ConsumeUint()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(bits), nil
}

func (c *Codec) ConsumeBool() (bool, error) {
	if err := c.ensureHeader(); err != nil {
		return false, err
	}
	var buf [1]byte
	if err := readFull(c.r, buf[:]); err != nil {
		return false, err
	}
	return buf[0] != 0, nil
}

func (c *Codec) ConsumeString() (string, error) {
	b, err := c.ConsumeBytes()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (c *Codec) ConsumeBytes() ([]byte, error) {
	n, err := c.ConsumeUint()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	buf := make([]byte, n)
	if err := readFull(c.r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func (c *Codec) ConsumeRangeSize() (uint64, error) { return c.ConsumeUint() }

// EmitRawSpan writes data verbatim with no length prefix: the caller
// (archive/sequence.go) has already emitted the element count via
// EmitRangeSize, so the frame on the wire is a u64 element count
// followed by count × sizeof(element) raw bytes.
func (c *Codec) EmitRawSpan(data []byte) error {
	if err := c.ensureHeader(); err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}
	return writeFull(c.w, data)
}

// ConsumeRawSpan reads exactly n bytes verbatim.
func (c *Codec) ConsumeRawSpan(n int) ([]byte, error) {
	if err := c.ensureHeader(); err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	buf := make([]byte, n)
	if err := readFull(c.r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// Flush commits buffered output. A no-op in input mode.
func (c *Codec) Flush() error {
	if c.input {
		return nil
	}
	if err := c.ensureHeader(); err != nil {
		return err
	}
	return c.w.Flush()
}
