package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/gotmpl/pkg/lexer"
)

func kinds(toks []lexer.Token) []lexer.Kind {
	out := make([]lexer.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestLexSimpleField(t *testing.T) {
	toks, err := lexer.Lex(".Name", 0)
	require.NoError(t, err)
	assert.Equal(t, []lexer.Kind{lexer.Dot, lexer.Identifier}, kinds(toks))
	assert.Equal(t, 0, toks[0].Span.Start)
	assert.Equal(t, 1, toks[0].Span.End)
}

func TestLexVariableDeclare(t *testing.T) {
	toks, err := lexer.Lex("$x := .Name", 0)
	require.NoError(t, err)
	assert.Equal(t, lexer.Identifier, toks[0].Kind)
	assert.Equal(t, "$x", toks[0].Text)
	assert.Equal(t, lexer.Declare, toks[1].Kind)
}

func TestLexOperators(t *testing.T) {
	toks, err := lexer.Lex("$x == $y", 0)
	require.NoError(t, err)
	assert.Equal(t, lexer.Eq, toks[1].Kind)

	toks, err = lexer.Lex("$x != $y", 0)
	require.NoError(t, err)
	assert.Equal(t, lexer.Ne, toks[1].Kind)

	toks, err = lexer.Lex("$x <= $y", 0)
	require.NoError(t, err)
	assert.Equal(t, lexer.Le, toks[1].Kind)
}

func TestLexBangWithoutEqualsErrors(t *testing.T) {
	_, err := lexer.Lex("!$x", 0)
	require.Error(t, err)
}

func TestLexKeywords(t *testing.T) {
	toks, err := lexer.Lex("if .Cond", 0)
	require.NoError(t, err)
	assert.Equal(t, lexer.KeywordIf, toks[0].Kind)
}

func TestLexStringEscapes(t *testing.T) {
	toks, err := lexer.Lex(`"a\nb\"c"`, 0)
	require.NoError(t, err)
	require.Len(t, toks, 1)
	assert.Equal(t, "a\nb\"c", toks[0].Text)
}

func TestLexUnterminatedString(t *testing.T) {
	_, err := lexer.Lex(`"abc`, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unterminated string literal")
}

func TestLexRawString(t *testing.T) {
	toks, err := lexer.Lex("`{{ \"d\" }`", 0)
	require.NoError(t, err)
	require.Len(t, toks, 1)
	assert.Equal(t, lexer.RawStringLit, toks[0].Kind)
	assert.Equal(t, `{{ "d" }`, toks[0].Text)
}

func TestLexUnterminatedRawString(t *testing.T) {
	_, err := lexer.Lex("`abc", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unterminated raw string literal")
}

func TestLexNumber(t *testing.T) {
	toks, err := lexer.Lex("3.14", 0)
	require.NoError(t, err)
	require.Len(t, toks, 1)
	assert.Equal(t, lexer.NumberLit, toks[0].Kind)
	assert.Equal(t, "3.14", toks[0].Text)
}

func TestLexAbsoluteOffsets(t *testing.T) {
	toks, err := lexer.Lex(".Name", 10)
	require.NoError(t, err)
	assert.Equal(t, 10, toks[0].Span.Start)
	assert.Equal(t, 11, toks[1].Span.Start)
}

func TestLexUnexpectedCharacter(t *testing.T) {
	_, err := lexer.Lex("@", 0)
	require.Error(t, err)
}
