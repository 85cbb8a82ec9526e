// Package helpers bundles the stock text/template functions plus the
// sprig-style catalog spec §6 names, registered into a registry.Builder in
// one call. Each file below mirrors one module of the original Rust
// implementation's functions/ directory and its register(builder) pattern
// (lists.go <- lists.rs, dicts.go <- dict.rs, etc.), translated to the
// SlowFunc calling convention (caller registry.Caller, args []value.Value).
package helpers

import (
	"fmt"

	"github.com/walteh/gotmpl/pkg/registry"
	"github.com/walteh/gotmpl/pkg/span"
	"github.com/walteh/gotmpl/pkg/value"
)

// Register wires every bundled helper into b, the way lithos-sprig's
// install_all composes each module's register(builder) into one call.
func Register(b *registry.Builder) {
	registerStock(b)
	registerFlow(b)
	registerLists(b)
	registerDicts(b)
	registerStrings(b)
	registerSplitJoin(b)
}

func argErrorf(name string, position int, format string, args ...any) error {
	msg := fmt.Sprintf("%s argument %d %s", name, position, fmt.Sprintf(format, args...))
	return span.NewRenderErrorNoSpan(msg)
}

func expectMinArgs(name string, args []value.Value, min int) error {
	if len(args) < min {
		return span.NewRenderErrorNoSpan(
			fmt.Sprintf("%s expected at least %d arguments, got %d", name, min, len(args)))
	}
	return nil
}

func expectExactArgs(name string, args []value.Value, n int) error {
	if len(args) != n {
		plural := "s"
		if n == 1 {
			plural = ""
		}
		return span.NewRenderErrorNoSpan(
			fmt.Sprintf("%s expected %d argument%s, got %d", name, n, plural, len(args)))
	}
	return nil
}

// expectString coerces a scalar Value to its string form the way the
// original's expect_string does; arrays and maps are never coercible.
func expectString(name string, v value.Value, position int) (string, error) {
	switch v.Kind() {
	case value.KindArray, value.KindMap:
		return "", argErrorf(name, position, "must be coercible to string, got %s", v.Kind())
	default:
		return value.ValueToString(v), nil
	}
}

// expectArray returns v's elements, treating null as an empty array.
func expectArray(name string, v value.Value, position int) ([]value.Value, error) {
	if v.IsNull() {
		return nil, nil
	}
	arr, ok := v.AsArray()
	if !ok {
		return nil, argErrorf(name, position, "must be an array, got %s", v.Kind())
	}
	return arr, nil
}

// expectMap returns v as an ordered map, treating null as an empty one.
func expectMap(name string, v value.Value, position int) (*value.OrderedMap, error) {
	if v.IsNull() {
		return value.NewOrderedMap(), nil
	}
	m, ok := v.AsMap()
	if !ok {
		return nil, argErrorf(name, position, "expects a map as the argument, got %s", v.Kind())
	}
	return m, nil
}

// expectCount coerces v to a non-negative int used for counts, widths, and
// indices across the string helpers.
func expectCount(name string, v value.Value, position int) (int, error) {
	switch v.Kind() {
	case value.KindInt:
		n, _ := v.AsInt()
		if n < 0 {
			return 0, argErrorf(name, position, "must be a non-negative integer, got %d", n)
		}
		return int(n), nil
	case value.KindUint:
		n, _ := v.AsUint()
		return int(n), nil
	case value.KindFloat:
		f, _ := v.AsFloat()
		if f < 0 {
			return 0, argErrorf(name, position, "must be a non-negative integer, got %v", f)
		}
		return int(f), nil
	case value.KindString:
		s, _ := v.AsString()
		n, err := parseNonNegativeInt(s)
		if err != nil {
			return 0, argErrorf(name, position, "must be a non-negative integer, got %q", s)
		}
		return n, nil
	default:
		return 0, argErrorf(name, position, "must be a non-negative integer, got %s", v.Kind())
	}
}

func parseNonNegativeInt(s string) (int, error) {
	n := 0
	if s == "" {
		return 0, fmt.Errorf("empty")
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("not a digit")
		}
		n = n*10 + int(r-'0')
	}
	return n, nil
}

// clampCharRange mirrors clamp_char_range: converts a [startChars,
// startChars+lenChars) window (lenChars == -1 meaning "to the end") into
// byte offsets over s's grapheme clusters, clamped to s's bounds.
func clampCharRange(s string, startChars int, lenChars int) (int, int) {
	clusters := graphemeClusters(s)
	total := len(clusters)
	start := startChars
	if start > total {
		start = total
	}
	end := total
	if lenChars >= 0 {
		end = start + lenChars
		if end > total {
			end = total
		}
	}
	startByte := 0
	for i := 0; i < start; i++ {
		startByte += len(clusters[i])
	}
	endByte := startByte
	for i := start; i < end; i++ {
		endByte += len(clusters[i])
	}
	return startByte, endByte
}
