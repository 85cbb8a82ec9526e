package helpers_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/gotmpl/pkg/value"
)

func TestUpperRejectsUncoercibleInput(t *testing.T) {
	c := newRegistry(t)
	_, err := c.Call("upper", []value.Value{strs("a")})
	require.Error(t, err)
}

func TestUpperUppercasesString(t *testing.T) {
	c := newRegistry(t)
	out, err := c.Call("upper", []value.Value{value.String("hi")})
	require.NoError(t, err)
	s, _ := out.AsString()
	assert.Equal(t, "HI", s)
}

func TestTitleCapitalizesEachWord(t *testing.T) {
	c := newRegistry(t)
	out, err := c.Call("title", []value.Value{value.String("hello world")})
	require.NoError(t, err)
	s, _ := out.AsString()
	assert.Equal(t, "Hello World", s)
}

func TestSubstrReturnsEmptyStringWhenStartExceedsLength(t *testing.T) {
	c := newRegistry(t)
	out, err := c.Call("substr", []value.Value{value.Int(10), value.String("hi")})
	require.NoError(t, err)
	s, _ := out.AsString()
	assert.Equal(t, "", s)
}

func TestSubstrWithEndClampsToLength(t *testing.T) {
	c := newRegistry(t)
	out, err := c.Call("substr", []value.Value{value.Int(1), value.Int(100), value.String("hello")})
	require.NoError(t, err)
	s, _ := out.AsString()
	assert.Equal(t, "ello", s)
}

func TestTruncLimitsToCharacterCount(t *testing.T) {
	c := newRegistry(t)
	out, err := c.Call("trunc", []value.Value{value.Int(3), value.String("hello")})
	require.NoError(t, err)
	s, _ := out.AsString()
	assert.Equal(t, "hel", s)
}

func TestWrapTextRespectsWordBoundaries(t *testing.T) {
	c := newRegistry(t)
	out, err := c.Call("wrap", []value.Value{value.Int(5), value.String("hello world")})
	require.NoError(t, err)
	s, _ := out.AsString()
	assert.Contains(t, s, "\n")
}

func TestIndentPrependsSpacesToEachLine(t *testing.T) {
	c := newRegistry(t)
	out, err := c.Call("indent", []value.Value{value.Int(2), value.String("a\nb")})
	require.NoError(t, err)
	s, _ := out.AsString()
	assert.Equal(t, "  a\n  b", s)
}

func TestNindentPrependsNewlineBeforeIndent(t *testing.T) {
	c := newRegistry(t)
	out, err := c.Call("nindent", []value.Value{value.Int(2), value.String("a")})
	require.NoError(t, err)
	s, _ := out.AsString()
	assert.Equal(t, "\n  a", s)
}

func TestRepeatRejectsNegativeCounts(t *testing.T) {
	c := newRegistry(t)
	_, err := c.Call("repeat", []value.Value{value.Int(-1), value.String("a")})
	require.Error(t, err)
}

func TestCatSkipsNullArguments(t *testing.T) {
	c := newRegistry(t)
	out, err := c.Call("cat", []value.Value{value.String("a"), value.Null(), value.String("b")})
	require.NoError(t, err)
	s, _ := out.AsString()
	assert.Equal(t, "a b", s)
}

func TestQuoteWrapsInGoStringSyntax(t *testing.T) {
	c := newRegistry(t)
	out, err := c.Call("quote", []value.Value{value.String("hi")})
	require.NoError(t, err)
	s, _ := out.AsString()
	assert.Equal(t, `"hi"`, s)
}

func TestSnakecaseConvertsFromCamel(t *testing.T) {
	c := newRegistry(t)
	out, err := c.Call("snakecase", []value.Value{value.String("HelloWorld")})
	require.NoError(t, err)
	s, _ := out.AsString()
	assert.Equal(t, "hello_world", s)
}

func TestKebabcaseConvertsFromSnake(t *testing.T) {
	c := newRegistry(t)
	out, err := c.Call("kebabcase", []value.Value{value.String("hello_world")})
	require.NoError(t, err)
	s, _ := out.AsString()
	assert.Equal(t, "hello-world", s)
}

func TestSwapcaseFlipsEachRune(t *testing.T) {
	c := newRegistry(t)
	out, err := c.Call("swapcase", []value.Value{value.String("Hello")})
	require.NoError(t, err)
	s, _ := out.AsString()
	assert.Equal(t, "hELLO", s)
}

func TestReplaceAllByDefault(t *testing.T) {
	c := newRegistry(t)
	out, err := c.Call("replace", []value.Value{value.String("a"), value.String("b"), value.String("banana")})
	require.NoError(t, err)
	s, _ := out.AsString()
	assert.Equal(t, "bbnbnb", s)
}
