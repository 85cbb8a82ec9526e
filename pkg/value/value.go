// Package value implements the closed tagged-union data model the template
// engine renders against: null, bool, integer, unsigned, float, string,
// array, and ordered string-keyed map.
package value

import (
	"sort"
	"strconv"
)

// Kind discriminates the variant held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindUint
	KindFloat
	KindString
	KindArray
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindUint:
		return "uint"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindMap:
		return "map"
	default:
		return "unknown"
	}
}

// Value is a single closed variant. It is never extended through an
// interface hierarchy: every operation over a Value is a switch on Kind.
type Value struct {
	kind Kind
	b    bool
	i    int64
	u    uint64
	f    float64
	s    string
	arr  []Value
	m    *OrderedMap
}

// Null returns the null value.
func Null() Value { return Value{kind: KindNull} }

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int wraps a signed integer.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Uint wraps an unsigned integer.
func Uint(u uint64) Value { return Value{kind: KindUint, u: u} }

// Float wraps a double.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// String wraps a string.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Array wraps an array of values.
func Array(items []Value) Value { return Value{kind: KindArray, arr: items} }

// Map wraps an ordered map of values.
func Map(m *OrderedMap) Value {
	if m == nil {
		m = NewOrderedMap()
	}
	return Value{kind: KindMap, m: m}
}

func (v Value) Kind() Kind { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

func (v Value) AsBool() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.b, true
}

func (v Value) AsInt() (int64, bool) {
	if v.kind != KindInt {
		return 0, false
	}
	return v.i, true
}

func (v Value) AsUint() (uint64, bool) {
	if v.kind != KindUint {
		return 0, false
	}
	return v.u, true
}

func (v Value) AsFloat() (float64, bool) {
	if v.kind != KindFloat {
		return 0, false
	}
	return v.f, true
}

func (v Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.s, true
}

func (v Value) AsArray() ([]Value, bool) {
	if v.kind != KindArray {
		return nil, false
	}
	return v.arr, true
}

func (v Value) AsMap() (*OrderedMap, bool) {
	if v.kind != KindMap {
		return nil, false
	}
	return v.m, true
}

// Len returns the number of elements/bytes for string/array/map kinds, and
// (0, false) for kinds len() does not support (callers decide how to error).
func (v Value) Len() (int, bool) {
	switch v.kind {
	case KindNull:
		return 0, true
	case KindString:
		return len(v.s), true
	case KindArray:
		return len(v.arr), true
	case KindMap:
		return v.m.Len(), true
	default:
		return 0, false
	}
}

// Index looks up a map key by exact match or an array by parsed unsigned
// decimal index. The result is Null with indexNotContainer when the kind
// cannot be indexed at all (the caller turns that into a render error),
// Null with indexBadKey when an array segment is not an unsigned integer,
// and Null with indexMissing for an absent key or an out-of-range index.
func (v Value) Index(segment string) (Value, indexResult) {
	switch v.kind {
	case KindMap:
		if val, ok := v.m.Get(segment); ok {
			return val, indexFound
		}
		return Null(), indexMissing
	case KindArray:
		idx, err := strconv.ParseUint(segment, 10, 64)
		if err != nil {
			return Null(), indexBadKey
		}
		if idx >= uint64(len(v.arr)) {
			return Null(), indexMissing
		}
		return v.arr[idx], indexFound
	default:
		return Null(), indexNotContainer
	}
}

type indexResult int

const (
	indexFound indexResult = iota
	indexMissing
	indexBadKey
	indexNotContainer
)

// IndexFound reports whether Index located a present element.
func IndexFound(r indexResult) bool { return r == indexFound }

// IndexNotContainer reports whether Index was called on a non-container.
func IndexNotContainer(r indexResult) bool { return r == indexNotContainer }

// IndexBadKey reports whether an array index segment failed to parse.
func IndexBadKey(r indexResult) bool { return r == indexBadKey }

// Equal implements structural equality, used by eq/ne.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		// Numeric kinds compare across representations (1 == 1.0 == 1u).
		af, aok := CoerceNumber(a)
		bf, bok := CoerceNumber(b)
		if aok && bok && isNumericKind(a.kind) && isNumericKind(b.kind) {
			return af == bf
		}
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindBool:
		return a.b == b.b
	case KindInt:
		return a.i == b.i
	case KindUint:
		return a.u == b.u
	case KindFloat:
		return a.f == b.f
	case KindString:
		return a.s == b.s
	case KindArray:
		if len(a.arr) != len(b.arr) {
			return false
		}
		for i := range a.arr {
			if !Equal(a.arr[i], b.arr[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if a.m.Len() != b.m.Len() {
			return false
		}
		for _, k := range a.m.Keys() {
			av, _ := a.m.Get(k)
			bv, ok := b.m.Get(k)
			if !ok || !Equal(av, bv) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func isNumericKind(k Kind) bool {
	return k == KindInt || k == KindUint || k == KindFloat
}

// IsTruthy implements the spec's truthiness projection.
func IsTruthy(v Value) bool {
	switch v.kind {
	case KindNull:
		return false
	case KindBool:
		return v.b
	case KindInt:
		return v.i != 0
	case KindUint:
		return v.u != 0
	case KindFloat:
		return v.f != 0
	case KindString:
		return v.s != ""
	case KindArray:
		return len(v.arr) > 0
	case KindMap:
		return v.m.Len() > 0
	default:
		return false
	}
}

// IsEmpty implements the spec's emptiness projection, used by helpers like
// default/empty. It differs from IsTruthy only in that an array is empty
// when every element is empty, not merely when it has zero length — a
// non-empty array whose elements are all empty is still empty.
func IsEmpty(v Value) bool {
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return !v.b
	case KindInt:
		return v.i == 0
	case KindUint:
		return v.u == 0
	case KindFloat:
		return v.f == 0
	case KindString:
		return v.s == ""
	case KindArray:
		for _, e := range v.arr {
			if !IsEmpty(e) {
				return false
			}
		}
		return true
	case KindMap:
		return v.m.Len() == 0
	default:
		return true
	}
}

// ValueToString renders a Value the way an action body writes it to output.
func ValueToString(v Value) string {
	switch v.kind {
	case KindNull:
		return ""
	case KindBool:
		if v.b {
			return "true"
		}
		return "false"
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindUint:
		return strconv.FormatUint(v.u, 10)
	case KindFloat:
		return formatFloat(v.f)
	case KindString:
		return v.s
	case KindArray, KindMap:
		enc, err := Marshal(v)
		if err != nil {
			return ""
		}
		return string(enc)
	default:
		return ""
	}
}

func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !containsDot(s) {
		return s
	}
	// Trim trailing zeros after the decimal point, then the point itself.
	end := len(s)
	for end > 0 && s[end-1] == '0' {
		end--
	}
	if end > 0 && s[end-1] == '.' {
		end--
	}
	return s[:end]
}

func containsDot(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			return true
		}
	}
	return false
}

// CoerceNumber widens integers to float64 and parses strings as float64;
// any other kind fails.
func CoerceNumber(v Value) (float64, bool) {
	switch v.kind {
	case KindInt:
		return float64(v.i), true
	case KindUint:
		return float64(v.u), true
	case KindFloat:
		return v.f, true
	case KindString:
		f, err := strconv.ParseFloat(v.s, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// ParseNumber parses a lexed number literal's text into an Int, Uint, or
// Float value per spec §4.3: no '.', 'e', 'E' and it fits signed or
// unsigned 64-bit -> integer; otherwise a double; otherwise the text does
// not parse as a number at all.
func ParseNumber(text string) (Value, bool) {
	if !hasFloatMarker(text) {
		if i, err := strconv.ParseInt(text, 10, 64); err == nil {
			return Int(i), true
		}
		if u, err := strconv.ParseUint(text, 10, 64); err == nil {
			return Uint(u), true
		}
	}
	if f, err := strconv.ParseFloat(text, 64); err == nil {
		return Float(f), true
	}
	return Null(), false
}

func hasFloatMarker(s string) bool {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '.', 'e', 'E':
			return true
		}
	}
	return false
}

// SortedKeys is a convenience used by helpers like keys/values that must
// return lexicographically sorted keys rather than insertion order.
func SortedKeys(m *OrderedMap) []string {
	ks := append([]string(nil), m.Keys()...)
	sort.Strings(ks)
	return ks
}
