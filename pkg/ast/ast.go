// Package ast defines the immutable node types the parser produces and the
// evaluator/analyzer walk. Nodes are never mutated after construction (spec
// §3 "Lifecycle"); a single closed set of concrete struct types stands in
// for what a deeper class hierarchy would otherwise model (spec §9
// "Polymorphic values" applies equally here: the node set is closed and
// small enough that a sum-of-structs beats an interface zoo).
package ast

import "github.com/walteh/gotmpl/pkg/span"

// Node is any element of a Block: Text, Comment, Action, If, Range, or With.
type Node interface {
	Span() span.Span
	node()
}

// Block is a sequence of nodes in source order with adjacent-but-disjoint
// spans (spec §3 invariant).
type Block []Node

// Text is a literal chunk of source outside any action.
type Text struct {
	SpanVal span.Span
	Content string
}

func (t *Text) Span() span.Span { return t.SpanVal }
func (*Text) node()             {}

// Comment is a "{{/* ... */}}" action. Content holds the comment body with
// markers removed and inner whitespace trimmed.
type Comment struct {
	SpanVal             span.Span
	Content             string
	TrimLeft, TrimRight bool
}

func (c *Comment) Span() span.Span { return c.SpanVal }
func (*Comment) node()             {}

// Action is a "{{ pipeline }}" action that is neither a control keyword nor
// a comment.
type Action struct {
	SpanVal             span.Span
	Body                string // the raw trimmed body text, delimiters stripped
	Pipeline            *Pipeline
	TrimLeft, TrimRight bool
}

func (a *Action) Span() span.Span { return a.SpanVal }
func (*Action) node()             {}

// If is "{{if pipeline}}then{{else if pipeline}}...{{else}}else{{end}}".
// else-if branches are modeled as a nested If occupying the sole node of
// Else (DESIGN.md Open Question 2: nested-frame strategy), so a bare If
// with Else == nil covers the common case and a chain of "else if" reads
// as Else == Block{&If{...}}.
type If struct {
	SpanVal  span.Span
	Pipeline *Pipeline
	Then     Block
	Else     Block // nil if absent; may contain a single nested *If for "else if"
}

func (n *If) Span() span.Span { return n.SpanVal }
func (*If) node()             {}

// Range is "{{range pipeline}}then{{else}}else{{end}}".
type Range struct {
	SpanVal  span.Span
	Pipeline *Pipeline
	Then     Block
	Else     Block // nil if absent
}

func (n *Range) Span() span.Span { return n.SpanVal }
func (*Range) node()             {}

// With is "{{with pipeline}}then{{else}}else{{end}}".
type With struct {
	SpanVal  span.Span
	Pipeline *Pipeline
	Then     Block
	Else     Block // nil if absent
}

func (n *With) Span() span.Span { return n.SpanVal }
func (*With) node()             {}

// DeclKind distinguishes ":=" (Declare) from "=" (Assign) pipeline
// declarations.
type DeclKind int

const (
	Declare DeclKind = iota
	Assign
)

// PipelineDeclarations captures the "$a, $b := " / "$a, $b = " prefix of a
// pipeline, if any.
type PipelineDeclarations struct {
	Kind      DeclKind
	Variables []string // each includes the leading "$"
}

// Pipeline is a non-empty sequence of Commands, optionally preceded by
// PipelineDeclarations.
type Pipeline struct {
	SpanVal      span.Span
	Declarations *PipelineDeclarations
	Commands     []*Command
}

// Command is an expression target optionally followed by argument
// expressions.
type Command struct {
	SpanVal span.Span
	Target  Expression
	Args    []Expression
}

// Expression is the sum type of pipeline terms.
type Expression interface {
	Span() span.Span
	expression()
}

// Identifier names a bare word that is not a variable ("$..."); resolved
// either as a registered helper (in command-target position) or as a map
// lookup that walks the dot stack innermost-first and returns the key from
// the first map-valued element holding it (spec §4.3).
type Identifier struct {
	SpanVal span.Span
	Name    string
}

func (n *Identifier) Span() span.Span { return n.SpanVal }
func (*Identifier) expression()       {}

// Variable is a "$name" reference (Name includes the leading "$").
type Variable struct {
	SpanVal span.Span
	Name    string
}

func (n *Variable) Span() span.Span { return n.SpanVal }
func (*Variable) expression()       {}

// Field is a dotted path. VarName is "" when the path starts at the
// current dot (".a.b"); otherwise VarName holds the leading "$var" the
// path starts from ("$x.a.b").
type Field struct {
	SpanVal span.Span
	VarName string
	Parts   []string
}

func (n *Field) Span() span.Span { return n.SpanVal }
func (*Field) expression()       {}

// PipelineExpr is a parenthesized sub-pipeline used as an expression, e.g.
// "(f .x)" inside a larger pipeline.
type PipelineExpr struct {
	SpanVal span.Span
	Inner   *Pipeline
}

func (n *PipelineExpr) Span() span.Span { return n.SpanVal }
func (*PipelineExpr) expression()       {}

// StringLiteral is a double-quoted or raw string literal; Value already has
// escapes decoded (or, for raw strings, is the verbatim content).
type StringLiteral struct {
	SpanVal span.Span
	Value   string
	Raw     bool
}

func (n *StringLiteral) Span() span.Span { return n.SpanVal }
func (*StringLiteral) expression()       {}

// NumberLiteral holds the literal's source text; numeric interpretation is
// deferred to the evaluator (spec §4.1/§4.3).
type NumberLiteral struct {
	SpanVal span.Span
	Text    string
}

func (n *NumberLiteral) Span() span.Span { return n.SpanVal }
func (*NumberLiteral) expression()       {}

// BoolLiteral is "true" or "false".
type BoolLiteral struct {
	SpanVal span.Span
	Value   bool
}

func (n *BoolLiteral) Span() span.Span { return n.SpanVal }
func (*BoolLiteral) expression()       {}

// NilLiteral is the "nil" keyword.
type NilLiteral struct {
	SpanVal span.Span
}

func (n *NilLiteral) Span() span.Span { return n.SpanVal }
func (*NilLiteral) expression()       {}

// Template is the parsed result: the root block plus the original source
// (kept for diagnostic rendering and canonicalization, spec §6).
type Template struct {
	Name   string
	Source string
	Root   Block
}
