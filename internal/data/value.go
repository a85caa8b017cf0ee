// Package data holds the document data a template is rendered against.
package data

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Kind identifies which variant a Value holds.
type Kind int

// Value kinds.
const (
	KindNull Kind = iota
	KindScalar
	KindSequence
	KindMapping
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindScalar:
		return "scalar"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is a schema-free document value: null, scalar, sequence, or mapping.
// The zero Value is Null, which doubles as the Absent marker.
type Value struct {
	kind   Kind
	scalar any
	items  []Value
	keys   []string
	fields map[string]Value
}

// Null returns the Absent value.
func Null() Value {
	return Value{}
}

// String returns a text scalar.
func String(s string) Value {
	return Value{kind: KindScalar, scalar: s}
}

// Scalar wraps a bool, number, string or time.Time. A nil argument yields Null.
func Scalar(v any) Value {
	if v == nil {
		return Null()
	}
	return Value{kind: KindScalar, scalar: v}
}

// Sequence builds a sequence from items.
func Sequence(items ...Value) Value {
	return Value{kind: KindSequence, items: items}
}

// Mapping builds an empty mapping. Use Set to add fields in order.
func Mapping() Value {
	return Value{kind: KindMapping, fields: map[string]Value{}}
}

// Set adds or replaces a mapping field, keeping first-insertion order.
// It is a no-op on non-mapping values.
func (v *Value) Set(key string, val Value) {
	if v.kind != KindMapping {
		return
	}
	if v.fields == nil {
		v.fields = map[string]Value{}
	}
	if _, exists := v.fields[key]; !exists {
		v.keys = append(v.keys, key)
	}
	v.fields[key] = val
}

// Kind returns the variant held by v.
func (v Value) Kind() Kind {
	return v.kind
}

// IsAbsent reports whether v is the Absent (null) marker.
func (v Value) IsAbsent() bool {
	return v.kind == KindNull
}

// IsEmpty reports whether v carries no value: Absent, empty text, or an
// empty collection. Numbers and booleans are never empty.
func (v Value) IsEmpty() bool {
	switch v.kind {
	case KindNull:
		return true
	case KindScalar:
		s, ok := v.scalar.(string)
		return ok && s == ""
	case KindSequence:
		return len(v.items) == 0
	case KindMapping:
		return len(v.keys) == 0
	}
	return true
}

// Len returns the number of items or fields; zero for scalars and Null.
func (v Value) Len() int {
	switch v.kind {
	case KindSequence:
		return len(v.items)
	case KindMapping:
		return len(v.keys)
	}
	return 0
}

// Get returns the field stored under key, or Null.
func (v Value) Get(key string) Value {
	if v.kind != KindMapping {
		return Null()
	}
	return v.fields[key]
}

// Index returns the i-th sequence item, or Null when out of range.
func (v Value) Index(i int) Value {
	if v.kind != KindSequence || i < 0 || i >= len(v.items) {
		return Null()
	}
	return v.items[i]
}

// Keys returns mapping keys in document order.
func (v Value) Keys() []string {
	if v.kind != KindMapping {
		return nil
	}
	return append([]string(nil), v.keys...)
}

// Items returns the sequence items.
func (v Value) Items() []Value {
	if v.kind != KindSequence {
		return nil
	}
	return append([]Value(nil), v.items...)
}

// Lookup walks a dotted path such as "basics.profiles.0.url".
// Numeric segments index sequences. Any miss yields Null.
func (v Value) Lookup(path string) Value {
	if path == "" {
		return v
	}
	cur := v
	for _, seg := range strings.Split(path, ".") {
		switch cur.kind {
		case KindMapping:
			cur = cur.Get(seg)
		case KindSequence:
			i, err := strconv.Atoi(seg)
			if err != nil {
				return Null()
			}
			cur = cur.Index(i)
		default:
			return Null()
		}
	}
	return cur
}

// Text coerces v to text. Null is the empty string.
func (v Value) Text() string {
	switch v.kind {
	case KindNull:
		return ""
	case KindScalar:
		return scalarText(v.scalar)
	default:
		return fmt.Sprint(v.Interface())
	}
}

// Interface converts v to plain Go values: nil, scalars, []any and map[string]any.
func (v Value) Interface() any {
	switch v.kind {
	case KindScalar:
		return v.scalar
	case KindSequence:
		out := make([]any, len(v.items))
		for i, item := range v.items {
			out[i] = item.Interface()
		}
		return out
	case KindMapping:
		out := make(map[string]any, len(v.keys))
		for _, key := range v.keys {
			out[key] = v.fields[key].Interface()
		}
		return out
	}
	return nil
}

// FromAny converts a plain Go value into a Value. Maps with non-string keys
// have their keys coerced to text; map fields are added in sorted key order
// since Go maps carry no order of their own.
func FromAny(in any) Value {
	switch x := in.(type) {
	case nil:
		return Null()
	case Value:
		return x
	case string, bool, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, float32, float64, time.Time:
		return Scalar(x)
	case []any:
		items := make([]Value, len(x))
		for i, item := range x {
			items[i] = FromAny(item)
		}
		return Sequence(items...)
	case []string:
		items := make([]Value, len(x))
		for i, item := range x {
			items[i] = String(item)
		}
		return Sequence(items...)
	case map[string]any:
		m := Mapping()
		for _, key := range sortedKeys(x) {
			m.Set(key, FromAny(x[key]))
		}
		return m
	case map[any]any:
		conv := make(map[string]any, len(x))
		for key, val := range x {
			conv[scalarText(key)] = val
		}
		return FromAny(conv)
	case fmt.Stringer:
		return String(x.String())
	default:
		return String(fmt.Sprint(x))
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func scalarText(s any) string {
	switch x := s.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		// Capitalized, as the template engine prints a bare boolean.
		if x {
			return "True"
		}
		return "False"
	case float64:
		return floatText(x, 64)
	case float32:
		return floatText(float64(x), 32)
	case time.Time:
		if x.Hour() == 0 && x.Minute() == 0 && x.Second() == 0 && x.Nanosecond() == 0 {
			return x.Format(time.DateOnly)
		}
		return x.Format(time.RFC3339)
	default:
		return fmt.Sprint(x)
	}
}

func floatText(f float64, bits int) string {
	switch {
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	case math.IsNaN(f):
		return ".nan"
	}
	return strconv.FormatFloat(f, 'g', -1, bits)
}
