// Package feature models geographic features as geometry plus an ordered
// attribute mapping, and provides column projection over collections.
package feature

import (
	"fmt"

	"github.com/twpayne/go-geom"
)

// valueKind discriminates the attribute value variant.
type valueKind uint8

const (
	kindAbsent valueKind = iota
	kindScalar
	kindList
)

// Value is an attribute value: absent, a single string, or a list of strings.
// OSM tags are scalar; list values come from container files with array columns.
type Value struct {
	kind  valueKind
	str   string
	items []string
}

// Absent returns the absent value.
func Absent() Value { return Value{} }

// String returns a scalar value.
func String(s string) Value { return Value{kind: kindScalar, str: s} }

// Stringf coerces an arbitrary value to its scalar string form.
func Stringf(v any) Value {
	if v == nil {
		return Absent()
	}
	return Value{kind: kindScalar, str: fmt.Sprint(v)}
}

// List returns a list value. Nil elements are dropped; a list with no
// remaining elements collapses to absent.
func List(items ...any) Value {
	var kept []string
	for _, it := range items {
		if it == nil {
			continue
		}
		kept = append(kept, fmt.Sprint(it))
	}
	if len(kept) == 0 {
		return Absent()
	}
	return Value{kind: kindList, items: kept}
}

// IsAbsent reports whether the value is absent.
func (v Value) IsAbsent() bool { return v.kind == kindAbsent }

// Strings returns the value's string forms in order. Absent yields nil.
func (v Value) Strings() []string {
	switch v.kind {
	case kindScalar:
		return []string{v.str}
	case kindList:
		return v.items
	default:
		return nil
	}
}

// Scalar returns the single string form of a scalar value.
func (v Value) Scalar() (string, bool) {
	if v.kind != kindScalar {
		return "", false
	}
	return v.str, true
}

// Flat returns a single string form suitable for tabular export: the scalar
// itself, or list elements joined by semicolons. Absent yields "".
func (v Value) Flat() string {
	switch v.kind {
	case kindScalar:
		return v.str
	case kindList:
		out := ""
		for i, it := range v.items {
			if i > 0 {
				out += ";"
			}
			out += it
		}
		return out
	default:
		return ""
	}
}

// Feature is one geographic entity: a polygon or multipolygon geometry in
// EPSG:4326 plus an attribute mapping with insertion-ordered keys. The order
// matters: classification text is concatenated in attribute-iteration order.
type Feature struct {
	Geom geom.T
	City string

	keys []string
	vals map[string]Value
}

// New creates a Feature with the given geometry and no attributes.
func New(g geom.T) *Feature {
	return &Feature{Geom: g, vals: make(map[string]Value)}
}

// Set stores an attribute value. A new key keeps its insertion position;
// setting an existing key updates it in place.
func (f *Feature) Set(key string, v Value) {
	if _, ok := f.vals[key]; !ok {
		f.keys = append(f.keys, key)
	}
	f.vals[key] = v
}

// Get returns the value for key, or absent if the key was never set.
func (f *Feature) Get(key string) Value {
	return f.vals[key]
}

// Has reports whether key was set with a non-absent value.
func (f *Feature) Has(key string) bool {
	v, ok := f.vals[key]
	return ok && !v.IsAbsent()
}

// Keys returns the attribute keys in insertion order.
func (f *Feature) Keys() []string {
	return f.keys
}
