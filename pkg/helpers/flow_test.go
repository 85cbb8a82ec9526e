package helpers_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/gotmpl/pkg/value"
)

func TestDefaultRequiresTwoArguments(t *testing.T) {
	c := newRegistry(t)
	_, err := c.Call("default", []value.Value{value.String("fallback")})
	require.Error(t, err)
}

func TestDefaultUsesFallbackWhenCandidateEmpty(t *testing.T) {
	c := newRegistry(t)
	out, err := c.Call("default", []value.Value{value.String("fallback"), value.String("")})
	require.NoError(t, err)
	s, _ := out.AsString()
	assert.Equal(t, "fallback", s)
}

func TestCoalesceReturnsFirstNonEmpty(t *testing.T) {
	c := newRegistry(t)
	out, err := c.Call("coalesce", []value.Value{value.Null(), value.String(""), value.String("x")})
	require.NoError(t, err)
	s, _ := out.AsString()
	assert.Equal(t, "x", s)
}

func TestTernaryRejectsWrongArgumentCount(t *testing.T) {
	c := newRegistry(t)
	_, err := c.Call("ternary", []value.Value{value.String("a"), value.String("b")})
	require.Error(t, err)
}

func TestTernarySelectsByLastArgument(t *testing.T) {
	c := newRegistry(t)
	out, err := c.Call("ternary", []value.Value{value.String("yes"), value.String("no"), value.Bool(true)})
	require.NoError(t, err)
	s, _ := out.AsString()
	assert.Equal(t, "yes", s)
}

func TestFailReturnsJoinedMessage(t *testing.T) {
	c := newRegistry(t)
	_, err := c.Call("fail", []value.Value{value.String("bad"), value.String("input")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad input")
}

func TestFromJSONSwallowsDecodeErrors(t *testing.T) {
	c := newRegistry(t)
	out, err := c.Call("fromJson", []value.Value{value.String("not json")})
	require.NoError(t, err)
	assert.True(t, out.IsNull())
}

func TestMustFromJSONSurfacesDecodeErrors(t *testing.T) {
	c := newRegistry(t)
	_, err := c.Call("mustFromJson", []value.Value{value.String("not json")})
	require.Error(t, err)
}

func TestToJSONEncodesSimpleMap(t *testing.T) {
	c := newRegistry(t)
	m := value.NewOrderedMap()
	m.Set("a", value.Int(1))
	out, err := c.Call("toJson", []value.Value{value.Map(m)})
	require.NoError(t, err)
	s, _ := out.AsString()
	assert.Equal(t, `{"a":1}`, s)
}

func TestToRawJSONIsAliasOfToJSON(t *testing.T) {
	c := newRegistry(t)
	out, err := c.Call("toRawJson", []value.Value{value.String("x")})
	require.NoError(t, err)
	s, _ := out.AsString()
	assert.Equal(t, `"x"`, s)
}
