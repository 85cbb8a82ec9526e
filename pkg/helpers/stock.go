package helpers

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/walteh/gotmpl/pkg/registry"
	"github.com/walteh/gotmpl/pkg/span"
	"github.com/walteh/gotmpl/pkg/value"
)

// registerStock wires the "stock text/template" row of the catalog: the
// comparison family the parser's operator rewrite targets, the boolean
// combinators, container access, print/printf, the three escape helpers,
// and call (dynamic dispatch back through the registry by name).
func registerStock(b *registry.Builder) {
	b.Register("eq", eqFunc)
	b.Register("ne", neFunc)
	b.Register("lt", ltFunc)
	b.Register("le", leFunc)
	b.Register("gt", gtFunc)
	b.Register("ge", geFunc)
	b.Register("not", notFunc)
	b.Register("and", andFunc)
	b.Register("or", orFunc)
	b.Register("len", lenFunc)
	b.Register("index", indexFunc)
	b.Register("slice", sliceFunc)
	b.Register("print", printFunc)
	b.Register("println", printlnFunc)
	b.Register("printf", printfFunc)
	b.Register("html", htmlEscape)
	b.Register("js", jsEscape)
	b.Register("urlquery", urlQuery)
	b.Register("call", callFunc)
}

func eqFunc(_ registry.Caller, args []value.Value) (value.Value, error) {
	if err := expectMinArgs("eq", args, 2); err != nil {
		return value.Null(), err
	}
	for _, other := range args[1:] {
		if value.Equal(args[0], other) {
			return value.Bool(true), nil
		}
	}
	return value.Bool(false), nil
}

func neFunc(_ registry.Caller, args []value.Value) (value.Value, error) {
	if err := expectExactArgs("ne", args, 2); err != nil {
		return value.Null(), err
	}
	return value.Bool(!value.Equal(args[0], args[1])), nil
}

func compareOrdered(name string, args []value.Value, ok func(cmp int) bool) (value.Value, error) {
	if err := expectExactArgs(name, args, 2); err != nil {
		return value.Null(), err
	}
	af, aIsNum := value.CoerceNumber(args[0])
	bf, bIsNum := value.CoerceNumber(args[1])
	if aIsNum && bIsNum {
		return value.Bool(ok(cmpFloat(af, bf))), nil
	}
	as, aOk := args[0].AsString()
	bs, bOk := args[1].AsString()
	if aOk && bOk {
		return value.Bool(ok(strings.Compare(as, bs))), nil
	}
	return value.Null(), span.NewRenderErrorNoSpan(
		fmt.Sprintf("%s cannot compare %s and %s", name, args[0].Kind(), args[1].Kind()))
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func ltFunc(_ registry.Caller, args []value.Value) (value.Value, error) {
	return compareOrdered("lt", args, func(c int) bool { return c < 0 })
}

func leFunc(_ registry.Caller, args []value.Value) (value.Value, error) {
	return compareOrdered("le", args, func(c int) bool { return c <= 0 })
}

func gtFunc(_ registry.Caller, args []value.Value) (value.Value, error) {
	return compareOrdered("gt", args, func(c int) bool { return c > 0 })
}

func geFunc(_ registry.Caller, args []value.Value) (value.Value, error) {
	return compareOrdered("ge", args, func(c int) bool { return c >= 0 })
}

func notFunc(_ registry.Caller, args []value.Value) (value.Value, error) {
	if err := expectExactArgs("not", args, 1); err != nil {
		return value.Null(), err
	}
	return value.Bool(!value.IsTruthy(args[0])), nil
}

// andFunc returns the first falsy argument, or the last argument if every
// one is truthy. Arguments are already evaluated eagerly by the evaluator
// before the call reaches here, so and/or cannot short-circuit evaluation
// the way Go's compiler-level and/or does — only which already-computed
// value is selected.
func andFunc(_ registry.Caller, args []value.Value) (value.Value, error) {
	if err := expectMinArgs("and", args, 1); err != nil {
		return value.Null(), err
	}
	last := args[0]
	for _, a := range args {
		last = a
		if !value.IsTruthy(a) {
			return a, nil
		}
	}
	return last, nil
}

func orFunc(_ registry.Caller, args []value.Value) (value.Value, error) {
	if err := expectMinArgs("or", args, 1); err != nil {
		return value.Null(), err
	}
	last := args[0]
	for _, a := range args {
		last = a
		if value.IsTruthy(a) {
			return a, nil
		}
	}
	return last, nil
}

func lenFunc(_ registry.Caller, args []value.Value) (value.Value, error) {
	if err := expectExactArgs("len", args, 1); err != nil {
		return value.Null(), err
	}
	n, ok := args[0].Len()
	if !ok {
		return value.Null(), span.NewRenderErrorNoSpan(
			fmt.Sprintf("len: %s has no length", args[0].Kind()))
	}
	return value.Int(int64(n)), nil
}

func toIndexSegment(v value.Value) string {
	switch v.Kind() {
	case value.KindInt:
		n, _ := v.AsInt()
		return strconv.FormatInt(n, 10)
	case value.KindUint:
		n, _ := v.AsUint()
		return strconv.FormatUint(n, 10)
	default:
		return value.ValueToString(v)
	}
}

func indexFunc(_ registry.Caller, args []value.Value) (value.Value, error) {
	if err := expectMinArgs("index", args, 1); err != nil {
		return value.Null(), err
	}
	cur := args[0]
	for i, key := range args[1:] {
		next, res := cur.Index(toIndexSegment(key))
		if value.IndexNotContainer(res) {
			return value.Null(), span.NewRenderErrorNoSpan(
				fmt.Sprintf("index: argument %d is not indexable (%s)", i+2, cur.Kind()))
		}
		cur = next
	}
	return cur, nil
}

func sliceFunc(_ registry.Caller, args []value.Value) (value.Value, error) {
	if err := expectMinArgs("slice", args, 1); err != nil {
		return value.Null(), err
	}
	switch args[0].Kind() {
	case value.KindArray:
		arr, _ := args[0].AsArray()
		start, end, err := resolveSliceBounds(len(arr), args[1:])
		if err != nil {
			return value.Null(), err
		}
		out := make([]value.Value, end-start)
		copy(out, arr[start:end])
		return value.Array(out), nil
	case value.KindString:
		s, _ := args[0].AsString()
		start, end, err := resolveSliceBounds(len(s), args[1:])
		if err != nil {
			return value.Null(), err
		}
		return value.String(s[start:end]), nil
	default:
		return value.Null(), span.NewRenderErrorNoSpan(
			fmt.Sprintf("slice: cannot slice %s", args[0].Kind()))
	}
}

// resolveSliceBounds implements go slice-expression semantics (0, 1, or 2
// index arguments) and requires 0 <= start <= end <= length in one pass,
// surfacing the spec's stable "slice indices out of range" substring
// otherwise (DESIGN.md Open Question 1).
func resolveSliceBounds(length int, indexArgs []value.Value) (int, int, error) {
	start, end := 0, length
	switch len(indexArgs) {
	case 0:
	case 1:
		s, err := expectCount("slice", indexArgs[0], 2)
		if err != nil {
			return 0, 0, err
		}
		start = s
	case 2:
		s, err := expectCount("slice", indexArgs[0], 2)
		if err != nil {
			return 0, 0, err
		}
		e, err := expectCount("slice", indexArgs[1], 3)
		if err != nil {
			return 0, 0, err
		}
		start, end = s, e
	default:
		return 0, 0, span.NewRenderErrorNoSpan("slice: too many index arguments")
	}
	if start < 0 || end < start || end > length {
		return 0, 0, span.NewRenderErrorNoSpan("slice indices out of range")
	}
	return start, end, nil
}

func toGoValue(v value.Value) any {
	switch v.Kind() {
	case value.KindNull:
		return nil
	case value.KindBool:
		b, _ := v.AsBool()
		return b
	case value.KindInt:
		n, _ := v.AsInt()
		return n
	case value.KindUint:
		n, _ := v.AsUint()
		return n
	case value.KindFloat:
		f, _ := v.AsFloat()
		return f
	case value.KindString:
		s, _ := v.AsString()
		return s
	default:
		return value.ValueToString(v)
	}
}

func printFunc(_ registry.Caller, args []value.Value) (value.Value, error) {
	vals := make([]any, len(args))
	for i, a := range args {
		vals[i] = toGoValue(a)
	}
	return value.String(fmt.Sprint(vals...)), nil
}

func printlnFunc(_ registry.Caller, args []value.Value) (value.Value, error) {
	vals := make([]any, len(args))
	for i, a := range args {
		vals[i] = toGoValue(a)
	}
	return value.String(fmt.Sprintln(vals...)), nil
}

// printfVerbCount counts conversion verbs in a format string (each "%",
// except an escaped "%%", introduces one), used to pre-validate argument
// counts since fmt.Sprintf has no error return of its own — it embeds
// "%!x(MISSING)" in the output instead, which would bury the stable
// "printf: not enough arguments" substring spec §4.6 requires.
func printfVerbCount(format string) int {
	count := 0
	for i := 0; i < len(format); i++ {
		if format[i] != '%' {
			continue
		}
		if i+1 < len(format) && format[i+1] == '%' {
			i++
			continue
		}
		count++
	}
	return count
}

func printfFunc(_ registry.Caller, args []value.Value) (value.Value, error) {
	if err := expectMinArgs("printf", args, 1); err != nil {
		return value.Null(), err
	}
	format, err := expectString("printf", args[0], 1)
	if err != nil {
		return value.Null(), err
	}
	rest := args[1:]
	if printfVerbCount(format) > len(rest) {
		return value.Null(), span.NewRenderErrorNoSpan("printf: not enough arguments")
	}
	vals := make([]any, len(rest))
	for i, a := range rest {
		vals[i] = toGoValue(a)
	}
	return value.String(fmt.Sprintf(format, vals...)), nil
}

func htmlEscape(_ registry.Caller, args []value.Value) (value.Value, error) {
	if err := expectMinArgs("html", args, 1); err != nil {
		return value.Null(), err
	}
	s, err := expectString("html", args[0], 1)
	if err != nil {
		return value.Null(), err
	}
	replacer := strings.NewReplacer(
		"&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&#34;", "'", "&#39;",
	)
	return value.String(replacer.Replace(s)), nil
}

func jsEscape(_ registry.Caller, args []value.Value) (value.Value, error) {
	if err := expectMinArgs("js", args, 1); err != nil {
		return value.Null(), err
	}
	s, err := expectString("js", args[0], 1)
	if err != nil {
		return value.Null(), err
	}
	replacer := strings.NewReplacer(
		`\`, `\\`, `"`, `\"`, "'", `\'`, "\n", `\n`, "\r", `\r`,
	)
	return value.String(replacer.Replace(s)), nil
}

func urlQuery(_ registry.Caller, args []value.Value) (value.Value, error) {
	if err := expectMinArgs("urlquery", args, 1); err != nil {
		return value.Null(), err
	}
	s, err := expectString("urlquery", args[0], 1)
	if err != nil {
		return value.Null(), err
	}
	return value.String(url.QueryEscape(s)), nil
}

func callFunc(caller registry.Caller, args []value.Value) (value.Value, error) {
	if err := expectMinArgs("call", args, 1); err != nil {
		return value.Null(), err
	}
	name, err := expectString("call", args[0], 1)
	if err != nil {
		return value.Null(), err
	}
	return caller.Call(name, args[1:])
}
