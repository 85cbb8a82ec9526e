// Package engine is the facade spec §6 describes as "External Interfaces":
// a thin layer gluing the lexer/parser, evaluator, registry, and analyzer
// into the three calls an embedder actually needs.
package engine

import (
	"github.com/walteh/gotmpl/pkg/analyzer"
	"github.com/walteh/gotmpl/pkg/ast"
	"github.com/walteh/gotmpl/pkg/eval"
	"github.com/walteh/gotmpl/pkg/parser"
	"github.com/walteh/gotmpl/pkg/registry"
	"github.com/walteh/gotmpl/pkg/telemetry"
	"github.com/walteh/gotmpl/pkg/value"
)

// Parse parses source into an AST. reg is accepted to match spec §6's
// documented external signature; the grammar never needs it (DESIGN.md
// Open Question 4) so it is ignored here. Render and Analyze use the
// registry passed to New, where helper existence actually matters.
func Parse(name, source string, reg *registry.Registry) (*ast.Template, error) {
	_ = reg
	return parser.Parse(name, source)
}

// Engine bundles a frozen registry and telemetry hook so repeated
// Render/Analyze calls against many parsed templates don't each need to
// thread both through by hand.
type Engine struct {
	registry *registry.Registry
	hook     telemetry.Hook
}

// New constructs an Engine over a frozen registry. A nil hook defaults to
// telemetry.NoopHook.
func New(reg *registry.Registry, hook telemetry.Hook) *Engine {
	return &Engine{registry: reg, hook: hook}
}

// Render evaluates tmpl against data using the engine's registry.
func (e *Engine) Render(tmpl *ast.Template, data value.Value) (string, error) {
	return eval.New(e.registry, e.hook).Render(tmpl, data)
}

// Analyze produces a structural report for tmpl against the engine's
// registry, without evaluating it.
func (e *Engine) Analyze(tmpl *ast.Template) *analyzer.Report {
	return analyzer.Analyze(tmpl, e.registry)
}
