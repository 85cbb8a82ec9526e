// Package span defines the byte-offset span type and the two error
// taxonomies (parse, render) that carry diagnostics back to callers of the
// template engine.
package span

import "gitlab.com/tozd/go/errors"

// Span is a half-open byte range [Start, End) into the original template
// source. Every AST node carries one covering its full textual footprint,
// including surrounding "{{"/"}}" delimiters.
type Span struct {
	Start int
	End   int
}

// New constructs a Span, useful at call sites that build one inline.
func New(start, end int) Span {
	return Span{Start: start, End: end}
}

// Contains reports whether s fully contains other, the invariant every AST
// node's span must hold over its children's spans.
func (s Span) Contains(other Span) bool {
	return s.Start <= other.Start && other.End <= s.End
}

// Text slices source by the span, clamping to its bounds defensively (a
// span is always expected to be in range, but diagnostics code should never
// panic on a malformed one).
func (s Span) Text(source string) string {
	start, end := s.Start, s.End
	if start < 0 {
		start = 0
	}
	if end > len(source) {
		end = len(source)
	}
	if start > end {
		return ""
	}
	return source[start:end]
}

// ParseError is returned when a template source fails to parse into an AST.
type ParseError struct {
	Msg  string
	Span *Span
	Err  error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *ParseError) Unwrap() error { return e.Err }

// NewParseError builds a ParseError with a span, wrapping cause (if any)
// through gitlab.com/tozd/go/errors so stack traces compose the way the
// rest of this module's error paths do.
func NewParseError(msg string, sp Span, cause error) *ParseError {
	err := &ParseError{Msg: msg, Span: &sp}
	if cause != nil {
		err.Err = errors.Errorf("%w", cause)
	}
	return err
}

// NewParseErrorNoSpan builds a ParseError without a span (rare: only when
// the failure is detected after the relevant bytes are no longer at hand).
func NewParseErrorNoSpan(msg string) *ParseError {
	return &ParseError{Msg: msg}
}

// RenderError is returned when evaluation of a parsed template against data
// fails.
type RenderError struct {
	Msg  string
	Span *Span
	Err  error
}

func (e *RenderError) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *RenderError) Unwrap() error { return e.Err }

// NewRenderError builds a RenderError with a span.
func NewRenderError(msg string, sp Span, cause error) *RenderError {
	err := &RenderError{Msg: msg, Span: &sp}
	if cause != nil {
		err.Err = errors.Errorf("%w", cause)
	}
	return err
}

// NewRenderErrorNoSpan builds a RenderError without a span (e.g. a helper
// returning an error that has no notion of source position).
func NewRenderErrorNoSpan(msg string) *RenderError {
	return &RenderError{Msg: msg}
}
