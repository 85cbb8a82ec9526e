package helpers

import (
	"sort"
	"strings"

	"github.com/walteh/gotmpl/pkg/registry"
	"github.com/walteh/gotmpl/pkg/value"
)

func registerSplitJoin(b *registry.Builder) {
	b.Register("splitList", splitList)
	b.Register("split", splitMap)
	b.Register("splitn", splitn)
	b.Register("join", join)
	b.Register("sortAlpha", sortAlpha)
}

func splitList(_ registry.Caller, args []value.Value) (value.Value, error) {
	if err := expectExactArgs("splitList", args, 2); err != nil {
		return value.Null(), err
	}
	sep, err := expectString("splitList", args[0], 1)
	if err != nil {
		return value.Null(), err
	}
	s, err := expectString("splitList", args[1], 2)
	if err != nil {
		return value.Null(), err
	}
	parts := strings.Split(s, sep)
	out := make([]value.Value, len(parts))
	for i, p := range parts {
		out[i] = value.String(p)
	}
	return value.Array(out), nil
}

// splitMap returns a map keyed "_0", "_1", ... in split order, matching the
// original's string_slice::split (a map, not an array, so individual
// segments stay addressable by index in a template action without a helper).
func splitMap(_ registry.Caller, args []value.Value) (value.Value, error) {
	if err := expectExactArgs("split", args, 2); err != nil {
		return value.Null(), err
	}
	sep, err := expectString("split", args[0], 1)
	if err != nil {
		return value.Null(), err
	}
	s, err := expectString("split", args[1], 2)
	if err != nil {
		return value.Null(), err
	}
	parts := strings.Split(s, sep)
	m := value.NewOrderedMap()
	for i, p := range parts {
		m.Set("_"+itoa(i), value.String(p))
	}
	return value.Map(m), nil
}

func splitn(_ registry.Caller, args []value.Value) (value.Value, error) {
	if err := expectExactArgs("splitn", args, 3); err != nil {
		return value.Null(), err
	}
	sep, err := expectString("splitn", args[0], 1)
	if err != nil {
		return value.Null(), err
	}
	n, err := expectCount("splitn", args[1], 2)
	if err != nil {
		return value.Null(), err
	}
	s, err := expectString("splitn", args[2], 3)
	if err != nil {
		return value.Null(), err
	}
	parts := strings.SplitN(s, sep, n)
	m := value.NewOrderedMap()
	for i, p := range parts {
		m.Set("_"+itoa(i), value.String(p))
	}
	return value.Map(m), nil
}

func join(_ registry.Caller, args []value.Value) (value.Value, error) {
	if err := expectExactArgs("join", args, 2); err != nil {
		return value.Null(), err
	}
	sep, err := expectString("join", args[0], 1)
	if err != nil {
		return value.Null(), err
	}
	list, err := expectArray("join", args[1], 2)
	if err != nil {
		return value.Null(), err
	}
	parts := make([]string, len(list))
	for i, v := range list {
		parts[i] = value.ValueToString(v)
	}
	return value.String(strings.Join(parts, sep)), nil
}

// sortAlpha sorts a copy of the array by each element's rendered string
// representation, matching the original's lexical "sort as text" semantics
// regardless of the underlying element kind.
func sortAlpha(_ registry.Caller, args []value.Value) (value.Value, error) {
	if err := expectExactArgs("sortAlpha", args, 1); err != nil {
		return value.Null(), err
	}
	list, err := expectArray("sortAlpha", args[0], 1)
	if err != nil {
		return value.Null(), err
	}
	out := make([]value.Value, len(list))
	copy(out, list)
	sort.SliceStable(out, func(i, j int) bool {
		return value.ValueToString(out[i]) < value.ValueToString(out[j])
	})
	return value.Array(out), nil
}
