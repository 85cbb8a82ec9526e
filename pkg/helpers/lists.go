package helpers

import (
	"github.com/walteh/gotmpl/pkg/registry"
	"github.com/walteh/gotmpl/pkg/span"
	"github.com/walteh/gotmpl/pkg/value"
)

func registerLists(b *registry.Builder) {
	b.Register("list", listFunc)
	b.Register("first", first)
	b.Register("last", last)
	b.Register("rest", rest)
	b.Register("initial", initial)
	b.Register("append", appendFunc)
	b.Register("prepend", prepend)
	b.Register("concat", concat)
	b.Register("reverse", reverse)
	b.Register("compact", compact)
	b.Register("uniq", uniq)
	b.Register("without", without)
	b.Register("has", has)
	b.Register("max", maxFunc)
	b.Register("min", minFunc)
}

func listFunc(_ registry.Caller, args []value.Value) (value.Value, error) {
	out := make([]value.Value, len(args))
	copy(out, args)
	return value.Array(out), nil
}

func first(_ registry.Caller, args []value.Value) (value.Value, error) {
	if err := expectExactArgs("first", args, 1); err != nil {
		return value.Null(), err
	}
	list, err := expectArray("first", args[0], 1)
	if err != nil {
		return value.Null(), err
	}
	if len(list) == 0 {
		return value.Null(), nil
	}
	return list[0], nil
}

func last(_ registry.Caller, args []value.Value) (value.Value, error) {
	if err := expectExactArgs("last", args, 1); err != nil {
		return value.Null(), err
	}
	list, err := expectArray("last", args[0], 1)
	if err != nil {
		return value.Null(), err
	}
	if len(list) == 0 {
		return value.Null(), nil
	}
	return list[len(list)-1], nil
}

func rest(_ registry.Caller, args []value.Value) (value.Value, error) {
	if err := expectExactArgs("rest", args, 1); err != nil {
		return value.Null(), err
	}
	list, err := expectArray("rest", args[0], 1)
	if err != nil {
		return value.Null(), err
	}
	if len(list) == 0 {
		return value.Array(nil), nil
	}
	out := make([]value.Value, len(list)-1)
	copy(out, list[1:])
	return value.Array(out), nil
}

func initial(_ registry.Caller, args []value.Value) (value.Value, error) {
	if err := expectExactArgs("initial", args, 1); err != nil {
		return value.Null(), err
	}
	list, err := expectArray("initial", args[0], 1)
	if err != nil {
		return value.Null(), err
	}
	if len(list) == 0 {
		return value.Array(nil), nil
	}
	out := make([]value.Value, len(list)-1)
	copy(out, list[:len(list)-1])
	return value.Array(out), nil
}

func appendFunc(_ registry.Caller, args []value.Value) (value.Value, error) {
	if err := expectMinArgs("append", args, 2); err != nil {
		return value.Null(), err
	}
	list, err := expectArray("append", args[0], 1)
	if err != nil {
		return value.Null(), err
	}
	out := make([]value.Value, 0, len(list)+len(args)-1)
	out = append(out, list...)
	out = append(out, args[1:]...)
	return value.Array(out), nil
}

func prepend(_ registry.Caller, args []value.Value) (value.Value, error) {
	if err := expectExactArgs("prepend", args, 2); err != nil {
		return value.Null(), err
	}
	list, err := expectArray("prepend", args[0], 1)
	if err != nil {
		return value.Null(), err
	}
	out := make([]value.Value, 0, len(list)+1)
	out = append(out, args[1])
	out = append(out, list...)
	return value.Array(out), nil
}

func concat(_ registry.Caller, args []value.Value) (value.Value, error) {
	if err := expectMinArgs("concat", args, 1); err != nil {
		return value.Null(), err
	}
	var combined []value.Value
	for i, v := range args {
		list, err := expectArray("concat", v, i+1)
		if err != nil {
			return value.Null(), err
		}
		combined = append(combined, list...)
	}
	return value.Array(combined), nil
}

func reverse(_ registry.Caller, args []value.Value) (value.Value, error) {
	if err := expectExactArgs("reverse", args, 1); err != nil {
		return value.Null(), err
	}
	list, err := expectArray("reverse", args[0], 1)
	if err != nil {
		return value.Null(), err
	}
	out := make([]value.Value, len(list))
	for i, v := range list {
		out[len(list)-1-i] = v
	}
	return value.Array(out), nil
}

func compact(_ registry.Caller, args []value.Value) (value.Value, error) {
	if err := expectExactArgs("compact", args, 1); err != nil {
		return value.Null(), err
	}
	list, err := expectArray("compact", args[0], 1)
	if err != nil {
		return value.Null(), err
	}
	var out []value.Value
	for _, v := range list {
		if !value.IsEmpty(v) {
			out = append(out, v)
		}
	}
	return value.Array(out), nil
}

func uniq(_ registry.Caller, args []value.Value) (value.Value, error) {
	if err := expectExactArgs("uniq", args, 1); err != nil {
		return value.Null(), err
	}
	list, err := expectArray("uniq", args[0], 1)
	if err != nil {
		return value.Null(), err
	}
	var out []value.Value
	for _, v := range list {
		dup := false
		for _, existing := range out {
			if value.Equal(existing, v) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, v)
		}
	}
	return value.Array(out), nil
}

func without(_ registry.Caller, args []value.Value) (value.Value, error) {
	if err := expectMinArgs("without", args, 2); err != nil {
		return value.Null(), err
	}
	list, err := expectArray("without", args[0], 1)
	if err != nil {
		return value.Null(), err
	}
	remove := args[1:]
	var out []value.Value
	for _, v := range list {
		drop := false
		for _, r := range remove {
			if value.Equal(r, v) {
				drop = true
				break
			}
		}
		if !drop {
			out = append(out, v)
		}
	}
	return value.Array(out), nil
}

func has(_ registry.Caller, args []value.Value) (value.Value, error) {
	if err := expectMinArgs("has", args, 2); err != nil {
		return value.Null(), err
	}
	target, haystack := args[0], args[1]
	switch haystack.Kind() {
	case value.KindArray:
		arr, _ := haystack.AsArray()
		for _, v := range arr {
			if value.Equal(v, target) {
				return value.Bool(true), nil
			}
		}
		return value.Bool(false), nil
	case value.KindString:
		s, _ := haystack.AsString()
		return value.Bool(contains1(s, value.ValueToString(target))), nil
	case value.KindNull:
		return value.Bool(false), nil
	default:
		return value.Null(), span.NewRenderErrorNoSpan("has expects a string or array as the second argument")
	}
}

func contains1(haystack, needle string) bool {
	return len(needle) == 0 || indexOf(haystack, needle) >= 0
}

func indexOf(haystack, needle string) int {
	n, m := len(haystack), len(needle)
	if m > n {
		return -1
	}
	for i := 0; i+m <= n; i++ {
		if haystack[i:i+m] == needle {
			return i
		}
	}
	return -1
}

func findExtreme(name string, args []value.Value, better func(candidate, current float64) bool) (value.Value, error) {
	if len(args) == 0 {
		return value.Null(), span.NewRenderErrorNoSpan(name + " requires at least one argument")
	}
	scores := make([]float64, 0, len(args))
	for i, v := range args {
		if v.Kind() == value.KindArray {
			scores = append(scores, 0)
			continue
		}
		f, ok := value.CoerceNumber(v)
		if !ok {
			return value.Null(), span.NewRenderErrorNoSpan(
				name+" argument "+itoa(i+1)+" must be numeric")
		}
		scores = append(scores, f)
	}
	best := scores[0]
	for _, s := range scores[1:] {
		if better(s, best) {
			best = s
		}
	}
	return scoreToValue(best), nil
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

func scoreToValue(score float64) value.Value {
	if score == float64(int64(score)) {
		return value.Int(int64(score))
	}
	return value.Float(score)
}

func maxFunc(_ registry.Caller, args []value.Value) (value.Value, error) {
	return findExtreme("max", args, func(candidate, current float64) bool { return candidate > current })
}

func minFunc(_ registry.Caller, args []value.Value) (value.Value, error) {
	return findExtreme("min", args, func(candidate, current float64) bool { return candidate < current })
}
