package helpers_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/gotmpl/pkg/value"
)

func TestFirstRequiresArrayInput(t *testing.T) {
	c := newRegistry(t)
	_, err := c.Call("first", []value.Value{value.String("not-an-array")})
	require.Error(t, err)
}

func TestFirstOfEmptyArrayIsNull(t *testing.T) {
	c := newRegistry(t)
	out, err := c.Call("first", []value.Value{arr()})
	require.NoError(t, err)
	assert.True(t, out.IsNull())
}

func TestLastReturnsFinalElement(t *testing.T) {
	c := newRegistry(t)
	out, err := c.Call("last", []value.Value{strs("a", "b", "c")})
	require.NoError(t, err)
	s, _ := out.AsString()
	assert.Equal(t, "c", s)
}

func TestRestDropsFirstElement(t *testing.T) {
	c := newRegistry(t)
	out, err := c.Call("rest", []value.Value{strs("a", "b", "c")})
	require.NoError(t, err)
	vs, _ := out.AsArray()
	require.Len(t, vs, 2)
	s, _ := vs[0].AsString()
	assert.Equal(t, "b", s)
}

func TestInitialDropsLastElement(t *testing.T) {
	c := newRegistry(t)
	out, err := c.Call("initial", []value.Value{strs("a", "b", "c")})
	require.NoError(t, err)
	vs, _ := out.AsArray()
	require.Len(t, vs, 2)
	s, _ := vs[1].AsString()
	assert.Equal(t, "b", s)
}

func TestAppendAddsTrailingElements(t *testing.T) {
	c := newRegistry(t)
	out, err := c.Call("append", []value.Value{strs("a"), value.String("b"), value.String("c")})
	require.NoError(t, err)
	vs, _ := out.AsArray()
	require.Len(t, vs, 3)
}

func TestPrependAddsLeadingElement(t *testing.T) {
	c := newRegistry(t)
	out, err := c.Call("prepend", []value.Value{strs("b"), value.String("a")})
	require.NoError(t, err)
	vs, _ := out.AsArray()
	require.Len(t, vs, 2)
	s, _ := vs[0].AsString()
	assert.Equal(t, "a", s)
}

func TestConcatPropagatesFirstNonArrayError(t *testing.T) {
	c := newRegistry(t)
	_, err := c.Call("concat", []value.Value{strs("a"), value.Int(1)})
	require.Error(t, err)
}

func TestReverseFlipsOrder(t *testing.T) {
	c := newRegistry(t)
	out, err := c.Call("reverse", []value.Value{strs("a", "b", "c")})
	require.NoError(t, err)
	vs, _ := out.AsArray()
	s, _ := vs[0].AsString()
	assert.Equal(t, "c", s)
}

func TestCompactDropsEmptyElements(t *testing.T) {
	c := newRegistry(t)
	out, err := c.Call("compact", []value.Value{arr(value.String(""), value.String("a"), value.Null())})
	require.NoError(t, err)
	vs, _ := out.AsArray()
	require.Len(t, vs, 1)
}

func TestUniqDropsDuplicates(t *testing.T) {
	c := newRegistry(t)
	out, err := c.Call("uniq", []value.Value{strs("a", "b", "a")})
	require.NoError(t, err)
	vs, _ := out.AsArray()
	require.Len(t, vs, 2)
}

func TestWithoutHandlesDuplicatesAndNulls(t *testing.T) {
	c := newRegistry(t)
	out, err := c.Call("without", []value.Value{
		arr(value.String("a"), value.Null(), value.String("a"), value.String("b")),
		value.String("a"), value.Null(),
	})
	require.NoError(t, err)
	vs, _ := out.AsArray()
	require.Len(t, vs, 1)
	s, _ := vs[0].AsString()
	assert.Equal(t, "b", s)
}

func TestHasRejectsInvalidHaystackType(t *testing.T) {
	c := newRegistry(t)
	_, err := c.Call("has", []value.Value{value.String("a"), value.Int(1)})
	require.Error(t, err)
}

func TestHasFindsElementInArray(t *testing.T) {
	c := newRegistry(t)
	out, err := c.Call("has", []value.Value{value.String("b"), strs("a", "b")})
	require.NoError(t, err)
	b, _ := out.AsBool()
	assert.True(t, b)
}

func TestMaxOverVariadicArgs(t *testing.T) {
	c := newRegistry(t)
	out, err := c.Call("max", []value.Value{value.Int(3), value.Int(9), value.Int(1)})
	require.NoError(t, err)
	n, _ := out.AsInt()
	assert.EqualValues(t, 9, n)
}

func TestMinOverVariadicArgs(t *testing.T) {
	c := newRegistry(t)
	out, err := c.Call("min", []value.Value{value.Int(3), value.Int(9), value.Int(1)})
	require.NoError(t, err)
	n, _ := out.AsInt()
	assert.EqualValues(t, 1, n)
}

func TestMaxReturnsFloatWhenWinnerHasFraction(t *testing.T) {
	c := newRegistry(t)
	out, err := c.Call("max", []value.Value{value.Int(3), value.Float(3.5)})
	require.NoError(t, err)
	assert.Equal(t, value.KindFloat, out.Kind())
}
