package helpers

import (
	"bufio"
	"strconv"
	"strings"
	"unicode"

	"github.com/apparentlymart/go-textseg/v13/textseg"
	"github.com/iancoleman/strcase"
	"github.com/mitchellh/go-wordwrap"

	"github.com/walteh/gotmpl/pkg/registry"
	"github.com/walteh/gotmpl/pkg/value"
)

func registerStrings(b *registry.Builder) {
	b.Register("upper", upper)
	b.Register("lower", lower)
	b.Register("title", title)
	b.Register("snakecase", snakecase)
	b.Register("camelcase", camelcase)
	b.Register("kebabcase", kebabcase)
	b.Register("swapcase", swapcase)

	b.Register("trim", trim)
	b.Register("trimAll", trimAll)
	b.Register("trimPrefix", trimPrefixHelper)
	b.Register("trimSuffix", trimSuffixHelper)
	b.Register("hasPrefix", hasPrefix)
	b.Register("hasSuffix", hasSuffix)

	b.Register("contains", contains)
	b.Register("replace", replace)
	b.Register("substr", substr)
	b.Register("trunc", trunc)

	b.Register("wrap", wrap)
	b.Register("indent", indent)
	b.Register("nindent", nindent)
	b.Register("nospace", nospace)
	b.Register("repeat", repeat)
	b.Register("cat", cat)
	b.Register("quote", quote)
	b.Register("squote", squote)
}

// graphemeClusters splits s into its visible character units, so
// substr/trunc count the way a human reading the string would rather than
// by raw byte (or even rune) count. wrap and indent do not use it.
func graphemeClusters(s string) []string {
	sc := bufio.NewScanner(strings.NewReader(s))
	sc.Split(textseg.ScanGraphemeClusters)
	var out []string
	for sc.Scan() {
		out = append(out, sc.Text())
	}
	return out
}

func titleCase(input string) string {
	words := strings.Fields(input)
	for i, w := range words {
		r := []rune(w)
		if len(r) == 0 {
			continue
		}
		r[0] = unicode.ToUpper(r[0])
		for j := 1; j < len(r); j++ {
			r[j] = unicode.ToLower(r[j])
		}
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

func indentText(spaces int, input string) string {
	pad := strings.Repeat(" ", spaces)
	lines := strings.Split(input, "\n")
	for i, line := range lines {
		lines[i] = pad + line
	}
	return strings.Join(lines, "\n")
}

func renderNonNull(args []value.Value, render func(string) string) string {
	var parts []string
	for _, v := range args {
		if v.IsNull() {
			continue
		}
		parts = append(parts, render(value.ValueToString(v)))
	}
	return strings.Join(parts, " ")
}

func upper(_ registry.Caller, args []value.Value) (value.Value, error) {
	if err := expectMinArgs("upper", args, 1); err != nil {
		return value.Null(), err
	}
	s, err := expectString("upper", args[0], 1)
	if err != nil {
		return value.Null(), err
	}
	return value.String(strings.ToUpper(s)), nil
}

func lower(_ registry.Caller, args []value.Value) (value.Value, error) {
	if err := expectMinArgs("lower", args, 1); err != nil {
		return value.Null(), err
	}
	s, err := expectString("lower", args[0], 1)
	if err != nil {
		return value.Null(), err
	}
	return value.String(strings.ToLower(s)), nil
}

func title(_ registry.Caller, args []value.Value) (value.Value, error) {
	if err := expectMinArgs("title", args, 1); err != nil {
		return value.Null(), err
	}
	s, err := expectString("title", args[0], 1)
	if err != nil {
		return value.Null(), err
	}
	return value.String(titleCase(s)), nil
}

func trim(_ registry.Caller, args []value.Value) (value.Value, error) {
	if err := expectExactArgs("trim", args, 1); err != nil {
		return value.Null(), err
	}
	s, err := expectString("trim", args[0], 1)
	if err != nil {
		return value.Null(), err
	}
	return value.String(strings.TrimSpace(s)), nil
}

func trimAll(_ registry.Caller, args []value.Value) (value.Value, error) {
	if err := expectExactArgs("trimAll", args, 2); err != nil {
		return value.Null(), err
	}
	cutset, err := expectString("trimAll", args[0], 1)
	if err != nil {
		return value.Null(), err
	}
	s, err := expectString("trimAll", args[1], 2)
	if err != nil {
		return value.Null(), err
	}
	return value.String(strings.Trim(s, cutset)), nil
}

func trimPrefixHelper(_ registry.Caller, args []value.Value) (value.Value, error) {
	if err := expectExactArgs("trimPrefix", args, 2); err != nil {
		return value.Null(), err
	}
	prefix, err := expectString("trimPrefix", args[0], 1)
	if err != nil {
		return value.Null(), err
	}
	s, err := expectString("trimPrefix", args[1], 2)
	if err != nil {
		return value.Null(), err
	}
	return value.String(strings.TrimPrefix(s, prefix)), nil
}

func trimSuffixHelper(_ registry.Caller, args []value.Value) (value.Value, error) {
	if err := expectExactArgs("trimSuffix", args, 2); err != nil {
		return value.Null(), err
	}
	suffix, err := expectString("trimSuffix", args[0], 1)
	if err != nil {
		return value.Null(), err
	}
	s, err := expectString("trimSuffix", args[1], 2)
	if err != nil {
		return value.Null(), err
	}
	return value.String(strings.TrimSuffix(s, suffix)), nil
}

func hasPrefix(_ registry.Caller, args []value.Value) (value.Value, error) {
	if err := expectExactArgs("hasPrefix", args, 2); err != nil {
		return value.Null(), err
	}
	prefix, err := expectString("hasPrefix", args[0], 1)
	if err != nil {
		return value.Null(), err
	}
	s, err := expectString("hasPrefix", args[1], 2)
	if err != nil {
		return value.Null(), err
	}
	return value.Bool(strings.HasPrefix(s, prefix)), nil
}

func hasSuffix(_ registry.Caller, args []value.Value) (value.Value, error) {
	if err := expectExactArgs("hasSuffix", args, 2); err != nil {
		return value.Null(), err
	}
	suffix, err := expectString("hasSuffix", args[0], 1)
	if err != nil {
		return value.Null(), err
	}
	s, err := expectString("hasSuffix", args[1], 2)
	if err != nil {
		return value.Null(), err
	}
	return value.Bool(strings.HasSuffix(s, suffix)), nil
}

func contains(_ registry.Caller, args []value.Value) (value.Value, error) {
	if err := expectMinArgs("contains", args, 2); err != nil {
		return value.Null(), err
	}
	needle, err := expectString("contains", args[0], 1)
	if err != nil {
		return value.Null(), err
	}
	haystack, err := expectString("contains", args[1], 2)
	if err != nil {
		return value.Null(), err
	}
	return value.Bool(strings.Contains(haystack, needle)), nil
}

func replace(_ registry.Caller, args []value.Value) (value.Value, error) {
	if err := expectMinArgs("replace", args, 3); err != nil {
		return value.Null(), err
	}
	old, err := expectString("replace", args[0], 1)
	if err != nil {
		return value.Null(), err
	}
	replacement, err := expectString("replace", args[1], 2)
	if err != nil {
		return value.Null(), err
	}
	text, err := expectString("replace", args[2], 3)
	if err != nil {
		return value.Null(), err
	}
	if len(args) > 3 {
		count, err := expectCount("replace", args[3], 4)
		if err != nil {
			return value.Null(), err
		}
		return value.String(strings.Replace(text, old, replacement, count)), nil
	}
	return value.String(strings.ReplaceAll(text, old, replacement)), nil
}

func substr(_ registry.Caller, args []value.Value) (value.Value, error) {
	if err := expectMinArgs("substr", args, 2); err != nil {
		return value.Null(), err
	}
	start, err := expectCount("substr", args[0], 1)
	if err != nil {
		return value.Null(), err
	}
	lenChars := -1
	stringIdx := 1
	if len(args) == 3 {
		end, err := expectCount("substr", args[1], 2)
		if err != nil {
			return value.Null(), err
		}
		if end > start {
			lenChars = end - start
		} else {
			lenChars = 0
		}
		stringIdx = 2
	}
	text, err := expectString("substr", args[stringIdx], stringIdx+1)
	if err != nil {
		return value.Null(), err
	}
	startByte, endByte := clampCharRange(text, start, lenChars)
	return value.String(text[startByte:endByte]), nil
}

func trunc(_ registry.Caller, args []value.Value) (value.Value, error) {
	if err := expectExactArgs("trunc", args, 2); err != nil {
		return value.Null(), err
	}
	length, err := expectCount("trunc", args[0], 1)
	if err != nil {
		return value.Null(), err
	}
	text, err := expectString("trunc", args[1], 2)
	if err != nil {
		return value.Null(), err
	}
	_, endByte := clampCharRange(text, 0, length)
	return value.String(text[:endByte]), nil
}

func wrap(_ registry.Caller, args []value.Value) (value.Value, error) {
	if err := expectExactArgs("wrap", args, 2); err != nil {
		return value.Null(), err
	}
	width, err := expectCount("wrap", args[0], 1)
	if err != nil {
		return value.Null(), err
	}
	text, err := expectString("wrap", args[1], 2)
	if err != nil {
		return value.Null(), err
	}
	if width == 0 {
		return value.String(text), nil
	}
	return value.String(wordwrap.WrapString(text, uint(width))), nil
}

func indent(_ registry.Caller, args []value.Value) (value.Value, error) {
	if err := expectExactArgs("indent", args, 2); err != nil {
		return value.Null(), err
	}
	spaces, err := expectCount("indent", args[0], 1)
	if err != nil {
		return value.Null(), err
	}
	s, err := expectString("indent", args[1], 2)
	if err != nil {
		return value.Null(), err
	}
	return value.String(indentText(spaces, s)), nil
}

func nindent(caller registry.Caller, args []value.Value) (value.Value, error) {
	out, err := indent(caller, args)
	if err != nil {
		return value.Null(), err
	}
	s, _ := out.AsString()
	return value.String("\n" + s), nil
}

func nospace(_ registry.Caller, args []value.Value) (value.Value, error) {
	if err := expectExactArgs("nospace", args, 1); err != nil {
		return value.Null(), err
	}
	s, err := expectString("nospace", args[0], 1)
	if err != nil {
		return value.Null(), err
	}
	var sb strings.Builder
	for _, r := range s {
		if !unicode.IsSpace(r) {
			sb.WriteRune(r)
		}
	}
	return value.String(sb.String()), nil
}

func repeat(_ registry.Caller, args []value.Value) (value.Value, error) {
	if err := expectExactArgs("repeat", args, 2); err != nil {
		return value.Null(), err
	}
	count, err := expectCount("repeat", args[0], 1)
	if err != nil {
		return value.Null(), err
	}
	s, err := expectString("repeat", args[1], 2)
	if err != nil {
		return value.Null(), err
	}
	return value.String(strings.Repeat(s, count)), nil
}

func cat(_ registry.Caller, args []value.Value) (value.Value, error) {
	var parts []string
	for _, v := range args {
		if v.IsNull() {
			continue
		}
		parts = append(parts, value.ValueToString(v))
	}
	return value.String(strings.Join(parts, " ")), nil
}

func quote(_ registry.Caller, args []value.Value) (value.Value, error) {
	return value.String(renderNonNull(args, strconv.Quote)), nil
}

func squote(_ registry.Caller, args []value.Value) (value.Value, error) {
	return value.String(renderNonNull(args, func(raw string) string {
		return "'" + raw + "'"
	})), nil
}

func snakecase(_ registry.Caller, args []value.Value) (value.Value, error) {
	if err := expectExactArgs("snakecase", args, 1); err != nil {
		return value.Null(), err
	}
	s, err := expectString("snakecase", args[0], 1)
	if err != nil {
		return value.Null(), err
	}
	return value.String(strcase.ToSnake(s)), nil
}

func camelcase(_ registry.Caller, args []value.Value) (value.Value, error) {
	if err := expectExactArgs("camelcase", args, 1); err != nil {
		return value.Null(), err
	}
	s, err := expectString("camelcase", args[0], 1)
	if err != nil {
		return value.Null(), err
	}
	return value.String(strcase.ToCamel(s)), nil
}

func kebabcase(_ registry.Caller, args []value.Value) (value.Value, error) {
	if err := expectExactArgs("kebabcase", args, 1); err != nil {
		return value.Null(), err
	}
	s, err := expectString("kebabcase", args[0], 1)
	if err != nil {
		return value.Null(), err
	}
	return value.String(strcase.ToKebab(s)), nil
}

func swapcase(_ registry.Caller, args []value.Value) (value.Value, error) {
	if err := expectExactArgs("swapcase", args, 1); err != nil {
		return value.Null(), err
	}
	s, err := expectString("swapcase", args[0], 1)
	if err != nil {
		return value.Null(), err
	}
	var sb strings.Builder
	for _, r := range s {
		switch {
		case unicode.IsLower(r):
			sb.WriteRune(unicode.ToUpper(r))
		case unicode.IsUpper(r):
			sb.WriteRune(unicode.ToLower(r))
		default:
			sb.WriteRune(r)
		}
	}
	return value.String(sb.String()), nil
}

