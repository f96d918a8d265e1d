package text

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"

	"github.com/joshuapare/zen/errs"
)

// Options configures a text Codec.
type Options struct {
	// Indent is the number of spaces per nesting level when flushing.
	// -1 (the default) renders compact output with no whitespace.
	Indent int
}

// DefaultOptions returns compact-rendering options.
func DefaultOptions() *Options { return &Options{Indent: -1} }

type frameKind int

const (
	frameObject frameKind = iota
	frameArray
)

type frame struct {
	kind  frameKind
	node  *node
	idx   int
	hints int // len(Codec.hints) when this scope was opened
}

// Codec is the text (JSON-shaped) implementation of codec.Codec. On
// input, the whole document is parsed up front; scope operations then
// descend into the parsed tree. On output, nodes are built bottom-up
// and attached to their parent on scope close.
type Codec struct {
	input   bool
	w       io.Writer
	opts    *Options
	root    *node
	frames  []frame
	hints   []string
	counter int
	pending *node // cached child resolved by ConsumeRangeSize, consumed by the next Open*
}

// NewEncoder returns a Codec that builds a tree and renders it to w on Flush.
func NewEncoder(w io.Writer, opts *Options) *Codec {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &Codec{w: w, opts: opts}
}

// NewDecoder parses the full document from r and returns a Codec ready
// to drive an archive in input mode.
func NewDecoder(r io.Reader) (*Codec, error) {
	root, err := parseTree(r)
	if err != nil {
		return nil, errs.Wrap(errs.ErrShortRead, "parse text document", err)
	}
	return &Codec{input: true, root: root}, nil
}

func (c *Codec) IsBinary() bool { return false }
func (c *Codec) IsInput() bool  { return c.input }

func (c *Codec) SetNextName(hint string) {
	c.hints = append(c.hints, hint)
}

// nextName pops the top hint (if any) and returns it, synthesizing
// valueN when absent or empty.
func (c *Codec) nextName() string {
	if len(c.hints) > 0 {
		h := c.hints[len(c.hints)-1]
		c.hints = c.hints[:len(c.hints)-1]
		if h != "" {
			return h
		}
	}
	name := fmt.Sprintf("value%d", c.counter)
	c.counter++
	return name
}

// discardHint drops a hint pushed inside the current array scope
// without using it, since array children are positional. Hints pushed
// before the array was opened (such as the array's own name) are kept.
func (c *Codec) discardHint() {
	top := c.frames[len(c.frames)-1]
	if len(c.hints) > top.hints {
		c.hints = c.hints[:len(c.hints)-1]
	}
}

// resolveNext locates, but does not push, the node the next operation
// applies to: the current array's next item, the current object's
// named field, or the document root if no scope is open yet.
func (c *Codec) resolveNext() (*node, error) {
	if len(c.frames) == 0 {
		if c.root == nil {
			return nil, errs.ErrShortRead
		}
		return c.root, nil
	}
	top := &c.frames[len(c.frames)-1]
	switch top.kind {
	case frameObject:
		name := c.nextName()
		child := top.node.get(name)
		if child == nil {
			return nil, errs.Wrap(errs.ErrNotObject, fmt.Sprintf("missing field %q", name), nil)
		}
		return child, nil
	case frameArray:
		c.discardHint()
		if top.idx >= len(top.node.items) {
			return nil, errs.Wrap(errs.ErrNotArray, "array index out of range", nil)
		}
		child := top.node.items[top.idx]
		top.idx++
		return child, nil
	}
	return nil, errs.ErrNotObject
}

// attach places n under the current parent on output: under the next
// consumed name if the parent is an object, appended if an array, or
// as the document root if no scope is open.
func (c *Codec) attach(n *node) {
	if len(c.frames) == 0 {
		c.root = n
		return
	}
	parent := &c.frames[len(c.frames)-1]
	if parent.kind == frameObject {
		parent.node.set(c.nextName(), n)
	} else {
		c.discardHint()
		parent.node.items = append(parent.node.items, n)
	}
}

func (c *Codec) OpenObject() error { return c.openScope(frameObject, kindObject) }
func (c *Codec) OpenArray() error  { return c.openScope(frameArray, kindArray) }

func (c *Codec) openScope(fk frameKind, nk kind) error {
	if !c.input {
		var n *node
		if nk == kindObject {
			n = newObject()
		} else {
			n = newArray()
		}
		c.frames = append(c.frames, frame{kind: fk, node: n, hints: len(c.hints)})
		return nil
	}

	var n *node
	var err error
	if c.pending != nil {
		n, c.pending = c.pending, nil
	} else {
		n, err = c.resolveNext()
		if err != nil {
			return err
		}
	}
	if n.kind != nk {
		return errs.Wrap(errs.ErrNotObject, "scope kind mismatch", nil)
	}
	c.frames = append(c.frames, frame{kind: fk, node: n, hints: len(c.hints)})
	return nil
}

func (c *Codec) CloseObject() error { return c.closeScope(frameObject) }
func (c *Codec) CloseArray() error  { return c.closeScope(frameArray) }

func (c *Codec) closeScope(want frameKind) error {
	if len(c.frames) == 0 {
		return errs.ErrEmptyStack
	}
	top := c.frames[len(c.frames)-1]
	if top.kind != want {
		return errs.ErrScopeMismatch
	}
	c.frames = c.frames[:len(c.frames)-1]
	if !c.input {
		c.attach(top.node)
	}
	return nil
}

func (c *Codec) EmitInt(v int64) error     { c.attach(&node{kind: kindInt, i: v}); return nil }
func (c *Codec) EmitUint(v uint64) error   { c.attach(&node{kind: kindUint, u: v}); return nil }
func (c *Codec) EmitFloat(v float64) error { c.attach(&node{kind: kindFloat, f: v}); return nil }
func (c *Codec) EmitBool(v bool) error     { c.attach(&node{kind: kindBool, b: v}); return nil }
func (c *Codec) EmitString(v string) error { c.attach(&node{kind: kindString, str: v}); return nil }

func (c *Codec) EmitBytes(v []byte) error {
	c.attach(&node{kind: kindString, str: base64.StdEncoding.EncodeToString(v)})
	return nil
}

// EmitRangeSize is a no-op on output: the text codec relies on the
// array's own cardinality.
func (c *Codec) EmitRangeSize(uint64) error { return nil }

func (c *Codec) ConsumeInt() (int64, error) {
	n, err := c.resolveNext()
	if err != nil {
		return 0, err
	}
	switch n.kind {
	case kindInt:
		return n.i, nil
	case kindUint:
		return int64(n.u), nil
	case kindFloat:
		return int64(n.f), nil
	}
	return 0, errs.Wrap(errs.ErrNotObject, "expected number", nil)
}

func (c *Codec) ConsumeUint() (uint64, error) {
	n, err := c.resolveNext()
	if err != nil {
		return 0, err
	}
	switch n.kind {
	case kindUint:
		return n.u, nil
	case kindInt:
		return uint64(n.i), nil
	case kindFloat:
		return uint64(n.f), nil
	}
	return 0, errs.Wrap(errs.ErrNotObject, "expected number", nil)
}

func (c *Codec) ConsumeFloat() (float64, error) {
	n, err := c.resolveNext()
	if err != nil {
		return 0, err
	}
	switch n.kind {
	case kindFloat:
		return n.f, nil
	case kindInt:
		return float64(n.i), nil
	case kindUint:
		return float64(n.u), nil
	}
	return 0, errs.Wrap(errs.ErrNotObject, "expected number", nil)
}

func (c *Codec) ConsumeBool() (bool, error) {
	n, err := c.resolveNext()
	if err != nil {
		return false, err
	}
	if n.kind != kindBool {
		return false, errs.Wrap(errs.ErrNotObject, "expected bool", nil)
	}
	return n.b, nil
}

func (c *Codec) ConsumeString() (string, error) {
	n, err := c.resolveNext()
	if err != nil {
		return "", err
	}
	if n.kind != kindString {
		return "", errs.Wrap(errs.ErrNotObject, "expected string", nil)
	}
	return n.str, nil
}

func (c *Codec) ConsumeBytes() ([]byte, error) {
	s, err := c.ConsumeString()
	if err != nil {
		return nil, err
	}
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, errs.Wrap(errs.ErrShortRead, "invalid base64 byte span", err)
	}
	return b, nil
}

func (c *Codec) ConsumeRangeSize() (uint64, error) {
	n, err := c.resolveNext()
	if err != nil {
		return 0, err
	}
	if n.kind != kindArray {
		return 0, errs.Wrap(errs.ErrNotArray, "range_size outside array", nil)
	}
	c.pending = n
	return uint64(len(n.items)), nil
}

// Flush renders the built tree to the underlying writer. A no-op in
// input mode.
func (c *Codec) Flush() error {
	if c.input {
		return nil
	}
	if len(c.frames) != 0 {
		return errs.Wrap(errs.ErrScopeMismatch, "flush with unclosed scopes", nil)
	}
	if c.root == nil {
		return nil
	}
	var buf bytes.Buffer
	c.root.render(&buf, c.opts.Indent, 0)
	n, err := c.w.Write(buf.Bytes())
	if err != nil {
		return err
	}
	if n != buf.Len() {
		return errs.ErrShortWrite
	}
	return nil
}
