// Package reflectutil enumerates a struct's exported fields in
// declaration order, for use by the archive driver's aggregate
// fallback when a type has no serialize entry point of its own. It
// never imports package archive: it hands back reflect.Values and
// field metadata, leaving the actual submission (and therefore the
// import of archive.Value) to the caller.
package reflectutil

import (
	"reflect"
	"strings"
)

// Field describes one submittable struct field.
type Field struct {
	// Name is the wire name: the struct field name, or the first
	// comma-separated component of a `zen:"..."` tag when present.
	Name string
	// Value addresses the field itself.
	Value reflect.Value
	// CP1252 is set when the tag carries a ",cp1252" option, asking the
	// driver to route a string field through a legacy Windows-1252
	// byte transcoding instead of emitting it as UTF-8 text.
	CP1252 bool
}

// Fields returns rv's exported fields in declaration order, honoring
// `zen:"name"` and `zen:"name,cp1252"` tags and skipping fields tagged
// `zen:"-"`. rv must be a struct.
func Fields(rv reflect.Value) []Field {
	t := rv.Type()
	out := make([]Field, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		name := sf.Name
		cp1252 := false
		if tag, ok := sf.Tag.Lookup("zen"); ok {
			parts := strings.Split(tag, ",")
			if parts[0] == "-" {
				continue
			}
			if parts[0] != "" {
				name = parts[0]
			}
			for _, opt := range parts[1:] {
				if opt == "cp1252" {
					cp1252 = true
				}
			}
		}
		out = append(out, Field{Name: name, Value: rv.Field(i), CP1252: cp1252})
	}
	return out
}
