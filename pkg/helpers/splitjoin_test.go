package helpers_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/gotmpl/pkg/value"
)

func TestSplitListReturnsArray(t *testing.T) {
	c := newRegistry(t)
	out, err := c.Call("splitList", []value.Value{value.String(","), value.String("a,b,c")})
	require.NoError(t, err)
	vs, _ := out.AsArray()
	require.Len(t, vs, 3)
}

func TestSplitMapUsesIncrementingKeys(t *testing.T) {
	c := newRegistry(t)
	out, err := c.Call("split", []value.Value{value.String(","), value.String("a,b")})
	require.NoError(t, err)
	m, ok := out.AsMap()
	require.True(t, ok)
	v0, ok := m.Get("_0")
	require.True(t, ok)
	s0, _ := v0.AsString()
	assert.Equal(t, "a", s0)
	v1, _ := m.Get("_1")
	s1, _ := v1.AsString()
	assert.Equal(t, "b", s1)
}

func TestSplitnTruncatesToRequestedSegments(t *testing.T) {
	c := newRegistry(t)
	out, err := c.Call("splitn", []value.Value{value.String(","), value.Int(2), value.String("a,b,c")})
	require.NoError(t, err)
	m, _ := out.AsMap()
	assert.Equal(t, 2, m.Len())
	v1, _ := m.Get("_1")
	s1, _ := v1.AsString()
	assert.Equal(t, "b,c", s1)
}

func TestJoinConcatenatesWithSeparator(t *testing.T) {
	c := newRegistry(t)
	out, err := c.Call("join", []value.Value{value.String("-"), strs("a", "b", "c")})
	require.NoError(t, err)
	s, _ := out.AsString()
	assert.Equal(t, "a-b-c", s)
}

func TestSortAlphaSortsByStringRepresentation(t *testing.T) {
	c := newRegistry(t)
	out, err := c.Call("sortAlpha", []value.Value{strs("banana", "apple", "cherry")})
	require.NoError(t, err)
	vs, _ := out.AsArray()
	s0, _ := vs[0].AsString()
	assert.Equal(t, "apple", s0)
}

func TestSortAlphaDoesNotMutateInput(t *testing.T) {
	c := newRegistry(t)
	in := strs("b", "a")
	input, _ := in.AsArray()
	_, err := c.Call("sortAlpha", []value.Value{in})
	require.NoError(t, err)
	s0, _ := input[0].AsString()
	assert.Equal(t, "b", s0)
}
