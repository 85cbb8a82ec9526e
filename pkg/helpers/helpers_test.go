package helpers_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/walteh/gotmpl/pkg/helpers"
	"github.com/walteh/gotmpl/pkg/registry"
	"github.com/walteh/gotmpl/pkg/value"
)

type caller struct{ reg *registry.Registry }

func (c caller) Call(name string, args []value.Value) (value.Value, error) {
	return c.reg.Call(c, name, args)
}

func newRegistry(t *testing.T) caller {
	t.Helper()
	b := registry.NewBuilder()
	helpers.Register(b)
	reg, err := b.Build()
	require.NoError(t, err)
	return caller{reg: reg}
}

func arr(vs ...value.Value) value.Value { return value.Array(vs) }

func strs(ss ...string) value.Value {
	vs := make([]value.Value, len(ss))
	for i, s := range ss {
		vs[i] = value.String(s)
	}
	return value.Array(vs)
}
