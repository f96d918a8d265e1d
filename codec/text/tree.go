package text

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// kind discriminates the tree's leaf/branch shapes. The text format is
// JSON-shaped: objects keep field order, arrays keep element order,
// leaves are string/number/bool.
type kind int

const (
	kindObject kind = iota
	kindArray
	kindString
	kindInt
	kindUint
	kindFloat
	kindBool
)

// field is one ordered (name, value) entry of an object node.
type field struct {
	name string
	val  *node
}

// node is one element of the parsed or to-be-rendered tree. Exactly one
// of its payload fields is meaningful, selected by kind.
type node struct {
	kind   kind
	fields []field
	items  []*node
	str    string
	i      int64
	u      uint64
	f      float64
	b      bool
}

func newObject() *node { return &node{kind: kindObject} }
func newArray() *node  { return &node{kind: kindArray} }

// get returns the child field named name, or nil if absent.
func (n *node) get(name string) *node {
	for _, fl := range n.fields {
		if fl.name == name {
			return fl.val
		}
	}
	return nil
}

// set appends or replaces the field named name.
func (n *node) set(name string, v *node) {
	for i, fl := range n.fields {
		if fl.name == name {
			n.fields[i].val = v
			return
		}
	}
	n.fields = append(n.fields, field{name: name, val: v})
}

// render writes n to buf as JSON text. indent < 0 means compact (no
// whitespace at all); indent >= 0 means that many spaces per level.
func (n *node) render(buf *bytes.Buffer, indent, level int) {
	pretty := indent >= 0
	nl := func(lvl int) {
		if !pretty {
			return
		}
		buf.WriteByte('\n')
		for i := 0; i < indent*lvl; i++ {
			buf.WriteByte(' ')
		}
	}

	switch n.kind {
	case kindObject:
		if len(n.fields) == 0 {
			buf.WriteString("{}")
			return
		}
		buf.WriteByte('{')
		for i, fl := range n.fields {
			if i > 0 {
				buf.WriteByte(',')
			}
			nl(level + 1)
			buf.Write(quoteJSON(fl.name))
			buf.WriteByte(':')
			if pretty {
				buf.WriteByte(' ')
			}
			fl.val.render(buf, indent, level+1)
		}
		nl(level)
		buf.WriteByte('}')
	case kindArray:
		if len(n.items) == 0 {
			buf.WriteString("[]")
			return
		}
		buf.WriteByte('[')
		for i, it := range n.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			nl(level + 1)
			it.render(buf, indent, level+1)
		}
		nl(level)
		buf.WriteByte(']')
	case kindString:
		buf.Write(quoteJSON(n.str))
	case kindInt:
		buf.WriteString(strconv.FormatInt(n.i, 10))
	case kindUint:
		buf.WriteString(strconv.FormatUint(n.u, 10))
	case kindFloat:
		buf.WriteString(strconv.FormatFloat(n.f, 'g', -1, 64))
	case kindBool:
		if n.b {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	}
}

func quoteJSON(s string) []byte {
	b, _ := json.Marshal(s)
	return b
}

// parseTree decodes a full JSON document from r into an order-preserving
// node tree. Go's encoding/json does not preserve object key order
// through map[string]any, so this walks the token stream directly; see
// DESIGN.md for why this is not delegated to a third-party library.
func parseTree(r io.Reader) (*node, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	n, err := parseValue(dec)
	if err != nil {
		return nil, err
	}
	return n, nil
}

func parseValue(dec *json.Decoder) (*node, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	return buildFromToken(dec, tok)
}

func buildFromToken(dec *json.Decoder, tok json.Token) (*node, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			obj := newObject()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("text codec: object key was not a string")
				}
				val, err := parseValue(dec)
				if err != nil {
					return nil, err
				}
				obj.set(key, val)
			}
			if _, err := dec.Token(); err != nil { // consume '}'
				return nil, err
			}
			return obj, nil
		case '[':
			arr := newArray()
			for dec.More() {
				val, err := parseValue(dec)
				if err != nil {
					return nil, err
				}
				arr.items = append(arr.items, val)
			}
			if _, err := dec.Token(); err != nil { // consume ']'
				return nil, err
			}
			return arr, nil
		default:
			return nil, fmt.Errorf("text codec: unexpected delimiter %v", t)
		}
	case string:
		return &node{kind: kindString, str: t}, nil
	case bool:
		return &node{kind: kindBool, b: t}, nil
	case nil:
		return &node{kind: kindString, str: ""}, nil
	case json.Number:
		if iv, err := t.Int64(); err == nil {
			return &node{kind: kindInt, i: iv}, nil
		}
		fv, err := t.Float64()
		if err != nil {
			return nil, fmt.Errorf("text codec: bad number %q: %w", t.String(), err)
		}
		return &node{kind: kindFloat, f: fv}, nil
	default:
		return nil, fmt.Errorf("text codec: unexpected token %T", tok)
	}
}
