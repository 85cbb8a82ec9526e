package span_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/walteh/gotmpl/pkg/span"
)

func TestContains(t *testing.T) {
	outer := span.New(0, 10)
	assert.True(t, outer.Contains(span.New(2, 5)))
	assert.False(t, outer.Contains(span.New(2, 11)))
}

func TestText(t *testing.T) {
	s := "hello world"
	assert.Equal(t, "hello", span.New(0, 5).Text(s))
	assert.Equal(t, "", span.New(5, 2).Text(s))
	assert.Equal(t, "world", span.New(6, 100).Text(s))
}

func TestParseErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	pe := span.NewParseError("unclosed action", span.New(0, 2), cause)
	assert.Contains(t, pe.Error(), "unclosed action")
	assert.Contains(t, pe.Error(), "boom")
	assert.ErrorIs(t, pe, cause)
}

func TestRenderErrorNoSpan(t *testing.T) {
	re := span.NewRenderErrorNoSpan(`variable $v not defined`)
	assert.Nil(t, re.Span)
	assert.Contains(t, re.Error(), "variable $v not defined")
}
