package helpers

import (
	"strings"

	"github.com/walteh/gotmpl/pkg/registry"
	"github.com/walteh/gotmpl/pkg/span"
	"github.com/walteh/gotmpl/pkg/value"
)

func registerFlow(b *registry.Builder) {
	b.Register("default", defaultFunc)
	b.Register("coalesce", coalesceFunc)
	b.Register("ternary", ternaryFunc)
	b.Register("empty", emptyFunc)
	b.Register("fail", failFunc)
	b.Register("fromJson", fromJSON)
	b.Register("mustFromJson", mustFromJSON)
	b.Register("toJson", toJSON)
	b.Register("mustToJson", mustToJSON)
	b.Register("toPrettyJson", toPrettyJSON)
	b.Register("mustToPrettyJson", mustToPrettyJSON)
	b.Register("toRawJson", toJSON)
	b.Register("mustToRawJson", mustToJSON)
}

func defaultFunc(_ registry.Caller, args []value.Value) (value.Value, error) {
	if err := expectMinArgs("default", args, 2); err != nil {
		return value.Null(), err
	}
	fallback, candidate := args[0], args[1]
	if value.IsEmpty(candidate) {
		return fallback, nil
	}
	return candidate, nil
}

func coalesceFunc(_ registry.Caller, args []value.Value) (value.Value, error) {
	for _, v := range args {
		if !value.IsEmpty(v) {
			return v, nil
		}
	}
	return value.Null(), nil
}

func ternaryFunc(_ registry.Caller, args []value.Value) (value.Value, error) {
	if err := expectExactArgs("ternary", args, 3); err != nil {
		return value.Null(), err
	}
	if value.IsTruthy(args[2]) {
		return args[0], nil
	}
	return args[1], nil
}

func emptyFunc(_ registry.Caller, args []value.Value) (value.Value, error) {
	if err := expectExactArgs("empty", args, 1); err != nil {
		return value.Null(), err
	}
	return value.Bool(value.IsEmpty(args[0])), nil
}

func failFunc(_ registry.Caller, args []value.Value) (value.Value, error) {
	if err := expectMinArgs("fail", args, 1); err != nil {
		return value.Null(), err
	}
	parts := make([]string, len(args))
	for i, v := range args {
		parts[i] = value.ValueToString(v)
	}
	return value.Null(), span.NewRenderErrorNoSpan(strings.Join(parts, " "))
}

func fromJSON(_ registry.Caller, args []value.Value) (value.Value, error) {
	if err := expectExactArgs("fromJson", args, 1); err != nil {
		return value.Null(), err
	}
	text, err := expectString("fromJson", args[0], 1)
	if err != nil {
		return value.Null(), err
	}
	v, decodeErr := value.Unmarshal([]byte(text))
	if decodeErr != nil {
		return value.Null(), nil
	}
	return v, nil
}

func mustFromJSON(_ registry.Caller, args []value.Value) (value.Value, error) {
	if err := expectExactArgs("mustFromJson", args, 1); err != nil {
		return value.Null(), err
	}
	text, err := expectString("mustFromJson", args[0], 1)
	if err != nil {
		return value.Null(), err
	}
	v, decodeErr := value.Unmarshal([]byte(text))
	if decodeErr != nil {
		return value.Null(), span.NewRenderErrorNoSpan("mustFromJson failed: " + decodeErr.Error())
	}
	return v, nil
}

func toJSON(_ registry.Caller, args []value.Value) (value.Value, error) {
	if err := expectExactArgs("toJson", args, 1); err != nil {
		return value.Null(), err
	}
	enc, encErr := value.Marshal(args[0])
	if encErr != nil {
		return value.String(""), nil
	}
	return value.String(string(enc)), nil
}

func mustToJSON(_ registry.Caller, args []value.Value) (value.Value, error) {
	if err := expectExactArgs("mustToJson", args, 1); err != nil {
		return value.Null(), err
	}
	enc, encErr := value.Marshal(args[0])
	if encErr != nil {
		return value.Null(), span.NewRenderErrorNoSpan("mustToJson failed: " + encErr.Error())
	}
	return value.String(string(enc)), nil
}

func toPrettyJSON(_ registry.Caller, args []value.Value) (value.Value, error) {
	if err := expectExactArgs("toPrettyJson", args, 1); err != nil {
		return value.Null(), err
	}
	enc, encErr := value.MarshalIndent(args[0], "", "  ")
	if encErr != nil {
		return value.String(""), nil
	}
	return value.String(string(enc)), nil
}

func mustToPrettyJSON(_ registry.Caller, args []value.Value) (value.Value, error) {
	if err := expectExactArgs("mustToPrettyJson", args, 1); err != nil {
		return value.Null(), err
	}
	enc, encErr := value.MarshalIndent(args[0], "", "  ")
	if encErr != nil {
		return value.Null(), span.NewRenderErrorNoSpan("mustToPrettyJson failed: " + encErr.Error())
	}
	return value.String(string(enc)), nil
}
