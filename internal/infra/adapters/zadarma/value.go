package zadarma

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// Kind tags the shape of a parameter Value.
type Kind int

const (
	KindScalar Kind = iota
	KindSequence
	KindMapping
)

// Value is a request parameter: a scalar, a sequence of values, or an
// ordered mapping. The zero Value is the empty string scalar.
type Value struct {
	kind    Kind
	text    string
	plain   bool // scalar built from a Go string
	items   []Value
	entries []Entry
}

// Entry is one key of a Mapping value.
type Entry struct {
	Key   string
	Value Value
}

// Params is the top-level parameter set of a request. Its keys are sorted
// before serialization, so map iteration order never leaks into the wire.
type Params map[string]Value

func String(s string) Value { return Value{kind: KindScalar, text: s, plain: true} }

func Int(n int64) Value { return Value{kind: KindScalar, text: strconv.FormatInt(n, 10)} }

// Float renders like the provider's reference SDK: integral values keep a
// trailing ".0".
func Float(f float64) Value {
	var s string
	switch {
	case math.IsInf(f, 1):
		s = "inf"
	case math.IsInf(f, -1):
		s = "-inf"
	case math.IsNaN(f):
		s = "nan"
	case f == 0 || (math.Abs(f) >= 1e-4 && math.Abs(f) < 1e16):
		s = strconv.FormatFloat(f, 'f', -1, 64)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
	default:
		s = strconv.FormatFloat(f, 'e', -1, 64)
	}
	return Value{kind: KindScalar, text: s}
}

func Bool(b bool) Value {
	if b {
		return Value{kind: KindScalar, text: "True"}
	}
	return Value{kind: KindScalar, text: "False"}
}

// List builds a Sequence; element order is preserved on the wire.
func List(items ...Value) Value {
	return Value{kind: KindSequence, items: append([]Value(nil), items...)}
}

// Strings is List over plain strings.
func Strings(ss ...string) Value {
	items := make([]Value, len(ss))
	for i, s := range ss {
		items[i] = String(s)
	}
	return Value{kind: KindSequence, items: items}
}

// Map builds a Mapping whose entries render in the given order.
func Map(entries ...Entry) Value {
	return Value{kind: KindMapping, entries: append([]Entry(nil), entries...)}
}

// MapOf builds a Mapping from a Go map. Go maps have no insertion order,
// so keys are sorted.
func MapOf(m map[string]Value) Value {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	entries := make([]Entry, 0, len(keys))
	for _, k := range keys {
		entries = append(entries, Entry{Key: k, Value: m[k]})
	}
	return Value{kind: KindMapping, entries: entries}
}

func (v Value) Kind() Kind { return v.kind }

// Text returns the rendered scalar; it is empty for sequences and mappings.
func (v Value) Text() string { return v.text }

// IsPlainString reports whether v is a scalar built from a string.
func (v Value) IsPlainString() bool { return v.kind == KindScalar && v.plain }

// with returns a copy of p with key set to v; p itself is left untouched.
func (p Params) with(key string, v Value) Params {
	out := make(Params, len(p)+1)
	for k, val := range p {
		out[k] = val
	}
	out[key] = v
	return out
}

func (p Params) sortedKeys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
