package helpers

import (
	"github.com/walteh/gotmpl/pkg/registry"
	"github.com/walteh/gotmpl/pkg/span"
	"github.com/walteh/gotmpl/pkg/value"
)

func registerDicts(b *registry.Builder) {
	b.Register("dict", dictFunc)
	b.Register("get", get)
	b.Register("set", set)
	b.Register("unset", unset)
	b.Register("merge", merge)
	b.Register("hasKey", hasKey)
	b.Register("keys", keys)
	b.Register("values", values)
	b.Register("pick", pick)
	b.Register("omit", omit)
	b.Register("pluck", pluck)
	b.Register("dig", dig)
}

func dictFunc(_ registry.Caller, args []value.Value) (value.Value, error) {
	if len(args)%2 != 0 {
		return value.Null(), span.NewRenderErrorNoSpan("dict requires an even number of arguments (key/value pairs)")
	}
	m := value.NewOrderedMap()
	for i := 0; i < len(args); i += 2 {
		key, err := expectString("dict", args[i], i+1)
		if err != nil {
			return value.Null(), err
		}
		m.Set(key, args[i+1])
	}
	return value.Map(m), nil
}

func get(_ registry.Caller, args []value.Value) (value.Value, error) {
	if err := expectExactArgs("get", args, 2); err != nil {
		return value.Null(), err
	}
	m, err := expectMap("get", args[0], 1)
	if err != nil {
		return value.Null(), err
	}
	key, err := expectString("get", args[1], 2)
	if err != nil {
		return value.Null(), err
	}
	v, _ := m.Get(key)
	return v, nil
}

func set(_ registry.Caller, args []value.Value) (value.Value, error) {
	if err := expectExactArgs("set", args, 3); err != nil {
		return value.Null(), err
	}
	m, err := expectMap("set", args[0], 1)
	if err != nil {
		return value.Null(), err
	}
	key, err := expectString("set", args[1], 2)
	if err != nil {
		return value.Null(), err
	}
	out := m.Clone()
	out.Set(key, args[2])
	return value.Map(out), nil
}

func unset(_ registry.Caller, args []value.Value) (value.Value, error) {
	if err := expectExactArgs("unset", args, 2); err != nil {
		return value.Null(), err
	}
	m, err := expectMap("unset", args[0], 1)
	if err != nil {
		return value.Null(), err
	}
	key, err := expectString("unset", args[1], 2)
	if err != nil {
		return value.Null(), err
	}
	out := m.Clone()
	out.Delete(key)
	return value.Map(out), nil
}

// merge applies later maps over earlier ones, last key wins, matching the
// original's dict::merge overwrite order.
func merge(_ registry.Caller, args []value.Value) (value.Value, error) {
	if err := expectMinArgs("merge", args, 1); err != nil {
		return value.Null(), err
	}
	out := value.NewOrderedMap()
	for i, v := range args {
		m, err := expectMap("merge", v, i+1)
		if err != nil {
			return value.Null(), err
		}
		m.Each(func(k string, val value.Value) {
			out.Set(k, val)
		})
	}
	return value.Map(out), nil
}

func hasKey(_ registry.Caller, args []value.Value) (value.Value, error) {
	if err := expectExactArgs("hasKey", args, 2); err != nil {
		return value.Null(), err
	}
	m, err := expectMap("hasKey", args[0], 1)
	if err != nil {
		return value.Null(), err
	}
	key, err := expectString("hasKey", args[1], 2)
	if err != nil {
		return value.Null(), err
	}
	_, ok := m.Get(key)
	return value.Bool(ok), nil
}

func keys(_ registry.Caller, args []value.Value) (value.Value, error) {
	if err := expectExactArgs("keys", args, 1); err != nil {
		return value.Null(), err
	}
	m, err := expectMap("keys", args[0], 1)
	if err != nil {
		return value.Null(), err
	}
	sorted := value.SortedKeys(m)
	out := make([]value.Value, len(sorted))
	for i, k := range sorted {
		out[i] = value.String(k)
	}
	return value.Array(out), nil
}

func values(_ registry.Caller, args []value.Value) (value.Value, error) {
	if err := expectExactArgs("values", args, 1); err != nil {
		return value.Null(), err
	}
	m, err := expectMap("values", args[0], 1)
	if err != nil {
		return value.Null(), err
	}
	sorted := value.SortedKeys(m)
	out := make([]value.Value, len(sorted))
	for i, k := range sorted {
		v, _ := m.Get(k)
		out[i] = v
	}
	return value.Array(out), nil
}

// pick returns a new map containing only the named keys that exist in the
// source map. Not present in the original functions; generalized from
// get/set's map-manipulation style.
func pick(_ registry.Caller, args []value.Value) (value.Value, error) {
	if err := expectMinArgs("pick", args, 1); err != nil {
		return value.Null(), err
	}
	m, err := expectMap("pick", args[0], 1)
	if err != nil {
		return value.Null(), err
	}
	out := value.NewOrderedMap()
	for i, keyArg := range args[1:] {
		key, err := expectString("pick", keyArg, i+2)
		if err != nil {
			return value.Null(), err
		}
		if v, ok := m.Get(key); ok {
			out.Set(key, v)
		}
	}
	return value.Map(out), nil
}

// omit returns a new map excluding the named keys.
func omit(_ registry.Caller, args []value.Value) (value.Value, error) {
	if err := expectMinArgs("omit", args, 1); err != nil {
		return value.Null(), err
	}
	m, err := expectMap("omit", args[0], 1)
	if err != nil {
		return value.Null(), err
	}
	drop := make(map[string]bool, len(args)-1)
	for i, keyArg := range args[1:] {
		key, err := expectString("omit", keyArg, i+2)
		if err != nil {
			return value.Null(), err
		}
		drop[key] = true
	}
	out := value.NewOrderedMap()
	for _, k := range m.Keys() {
		if drop[k] {
			continue
		}
		v, _ := m.Get(k)
		out.Set(k, v)
	}
	return value.Map(out), nil
}

// pluck collects the named key's value out of each map passed as its own
// argument after the key, skipping any map lacking that key, mirroring
// sprig's pluck. An array of maps is not accepted in place of the maps.
func pluck(_ registry.Caller, args []value.Value) (value.Value, error) {
	if err := expectMinArgs("pluck", args, 2); err != nil {
		return value.Null(), err
	}
	key, err := expectString("pluck", args[0], 1)
	if err != nil {
		return value.Null(), err
	}
	var out []value.Value
	for i, v := range args[1:] {
		m, err := expectMap("pluck", v, i+2)
		if err != nil {
			return value.Null(), err
		}
		if found, ok := m.Get(key); ok {
			out = append(out, found)
		}
	}
	return value.Array(out), nil
}

// dig walks a chain of map keys, returning the final fallback argument if
// any step along the way is missing or not a map.
func dig(_ registry.Caller, args []value.Value) (value.Value, error) {
	if err := expectMinArgs("dig", args, 3); err != nil {
		return value.Null(), err
	}
	fallback := args[len(args)-2]
	m := args[len(args)-1]
	keyArgs := args[:len(args)-2]
	for _, keyArg := range keyArgs {
		key, err := expectString("dig", keyArg, 1)
		if err != nil {
			return value.Null(), err
		}
		if m.Kind() != value.KindMap {
			return fallback, nil
		}
		mm, _ := m.AsMap()
		v, ok := mm.Get(key)
		if !ok {
			return fallback, nil
		}
		m = v
	}
	return m, nil
}
