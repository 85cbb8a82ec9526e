// Package analyzer walks a parsed template and produces a structural report
// (spec §4.5) without evaluating it: every variable access, helper call,
// template invocation, and control construct the AST contains, plus a list
// of advisory issues and an overall precision flag. It never renders
// anything and never needs a data value — only an optional registry, used
// to classify helper calls as Registered or Unknown.
package analyzer

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/walteh/gotmpl/pkg/ast"
	"github.com/walteh/gotmpl/pkg/registry"
	"github.com/walteh/gotmpl/pkg/span"
)

// VarKind distinguishes a dot-relative access from a "$"-prefixed one.
type VarKind int

const (
	KindDot VarKind = iota
	KindDollar
)

// Certainty reflects whether a field access's path is known to be a plain
// identifier chain (spec §4.5: uncertain when a segment is not pure
// [A-Za-z0-9_]).
type Certainty int

const (
	Certain Certainty = iota
	Uncertain
)

// VariableAccess records one dot- or variable-relative read.
type VariableAccess struct {
	Path      string
	Span      span.Span
	Kind      VarKind
	Certainty Certainty
}

// HelperSource distinguishes a call the supplied registry resolves from one
// it doesn't (or from one analyzed with no registry at all, which is always
// Unknown since nothing can confirm it).
type HelperSource int

const (
	Registered HelperSource = iota
	Unknown
)

// HelperCall records one command whose target names a helper.
type HelperCall struct {
	Name   string
	Span   span.Span
	Source HelperSource
}

// TemplateInvocation records one use of the "template" pseudo-keyword (spec
// §1 non-goals: named sub-template dispatch is not executed, only
// recognized for analysis). Name is the statically-known template name when
// the first argument is a string literal; Indirect is true otherwise.
type TemplateInvocation struct {
	Span     span.Span
	Name     string
	Indirect bool
}

// ControlKind names which control construct a ControlUsage describes.
type ControlKind int

const (
	ControlIf ControlKind = iota
	ControlRange
	ControlWith
)

// ControlUsage records one if/range/with construct.
type ControlUsage struct {
	Kind ControlKind
	Span span.Span
}

// Precision summarizes how much the report can be trusted as exhaustive.
type Precision int

const (
	Precise Precision = iota
	Conservative
)

// Issue is one advisory finding surfaced during analysis. It implements
// error so Report.IssuesAsError can fold a slice of them into one combined
// error without any conversion step.
type Issue struct {
	Msg  string
	Span span.Span
}

func (i Issue) Error() string { return i.Msg }

// Report is the complete result of analyzing one template.
type Report struct {
	Variables             []VariableAccess
	HelperCalls           []HelperCall
	TemplateInvocations   []TemplateInvocation
	Controls              []ControlUsage
	Issues                []Issue
	HasTemplateInvocation bool
	Precision             Precision
}

// IssuesAsError folds Issues into one combined error for callers (the CLI's
// lint subcommand) that want a single non-nil error to return from main
// when the report carries any. Returns nil when Issues is empty.
func (r *Report) IssuesAsError() error {
	if len(r.Issues) == 0 {
		return nil
	}
	var result *multierror.Error
	for _, issue := range r.Issues {
		result = multierror.Append(result, issue)
	}
	return result.ErrorOrNil()
}

// Analyze walks tmpl's AST and builds its Report. reg may be nil, in which
// case every helper call is classified Unknown (there is nothing to confirm
// it against); a bare identifier with no arguments and no piped input is
// still recorded as a dot-scope VariableAccess.
func Analyze(tmpl *ast.Template, reg *registry.Registry) *Report {
	w := &walker{report: &Report{}, registry: reg}
	w.walkBlock(tmpl.Root)
	w.report.HasTemplateInvocation = len(w.report.TemplateInvocations) > 0
	if len(w.report.Issues) > 0 {
		w.report.Precision = Conservative
	} else {
		w.report.Precision = Precise
	}
	return w.report
}

type walker struct {
	report   *Report
	registry *registry.Registry
}

func (w *walker) addIssue(msg string, sp span.Span) {
	w.report.Issues = append(w.report.Issues, Issue{Msg: msg, Span: sp})
}

func (w *walker) walkBlock(b ast.Block) {
	for _, n := range b {
		w.walkNode(n)
	}
}

func (w *walker) walkNode(n ast.Node) {
	switch v := n.(type) {
	case *ast.Text, *ast.Comment:
		// nothing to record
	case *ast.Action:
		w.walkPipeline(v.Pipeline)
	case *ast.If:
		w.report.Controls = append(w.report.Controls, ControlUsage{Kind: ControlIf, Span: v.SpanVal})
		w.walkPipeline(v.Pipeline)
		w.walkBlock(v.Then)
		w.walkBlock(v.Else)
	case *ast.Range:
		w.report.Controls = append(w.report.Controls, ControlUsage{Kind: ControlRange, Span: v.SpanVal})
		w.walkPipeline(v.Pipeline)
		w.walkBlock(v.Then)
		w.walkBlock(v.Else)
	case *ast.With:
		w.report.Controls = append(w.report.Controls, ControlUsage{Kind: ControlWith, Span: v.SpanVal})
		w.walkPipeline(v.Pipeline)
		w.walkBlock(v.Then)
		w.walkBlock(v.Else)
	}
}

func (w *walker) walkPipeline(p *ast.Pipeline) {
	if p.Declarations != nil {
		if p.Declarations.Kind == ast.Assign {
			w.addIssue("assignment narrows static analysis precision", p.SpanVal)
		}
		for _, name := range p.Declarations.Variables {
			w.report.Variables = append(w.report.Variables, VariableAccess{
				Path: name, Span: p.SpanVal, Kind: KindDollar, Certainty: Certain,
			})
		}
	}
	for i, cmd := range p.Commands {
		w.walkCommand(cmd, i > 0)
	}
}

// walkCommand classifies cmd.Target: the "template" pseudo-keyword becomes
// a TemplateInvocation; any other Identifier becomes either a HelperCall
// (when registered, or when called with arguments/a pipe — the shape that
// would actually fail at render time if unregistered) or a plain dot-scope
// VariableAccess (a bare identifier with no arguments behaves as a map
// lookup at render time, per pkg/eval, so the analyzer mirrors that rather
// than reporting every bare word as an "unknown helper").
func (w *walker) walkCommand(cmd *ast.Command, piped bool) {
	if ident, ok := cmd.Target.(*ast.Identifier); ok {
		switch {
		case ident.Name == "template":
			w.walkTemplateInvocation(cmd)
		case w.registry != nil && w.registry.Has(ident.Name):
			w.recordHelperCall(ident, cmd.SpanVal, Registered)
		case len(cmd.Args) > 0 || piped:
			w.addIssue(fmt.Sprintf("unknown helper %q", ident.Name), cmd.SpanVal)
			w.recordHelperCall(ident, cmd.SpanVal, Unknown)
		default:
			w.report.Variables = append(w.report.Variables, VariableAccess{
				Path: ident.Name, Span: ident.SpanVal, Kind: KindDot, Certainty: Certain,
			})
		}
	} else {
		w.walkExpr(cmd.Target)
	}
	for _, a := range cmd.Args {
		w.walkExpr(a)
	}
}

func (w *walker) recordHelperCall(ident *ast.Identifier, sp span.Span, source HelperSource) {
	if ident.Name == "index" {
		w.addIssue("dynamic index call narrows static analysis precision", sp)
	}
	w.report.HelperCalls = append(w.report.HelperCalls, HelperCall{Name: ident.Name, Span: sp, Source: source})
}

func (w *walker) walkTemplateInvocation(cmd *ast.Command) {
	inv := TemplateInvocation{Span: cmd.SpanVal, Indirect: true}
	if len(cmd.Args) > 0 {
		if lit, ok := cmd.Args[0].(*ast.StringLiteral); ok {
			inv.Name = lit.Value
			inv.Indirect = false
		}
	}
	if inv.Indirect {
		w.addIssue("indirect template invocation cannot be statically resolved", cmd.SpanVal)
	}
	w.report.TemplateInvocations = append(w.report.TemplateInvocations, inv)
}

func (w *walker) walkExpr(e ast.Expression) {
	switch v := e.(type) {
	case *ast.Identifier:
		w.report.Variables = append(w.report.Variables, VariableAccess{
			Path: v.Name, Span: v.SpanVal, Kind: KindDot, Certainty: Certain,
		})
	case *ast.Variable:
		w.report.Variables = append(w.report.Variables, VariableAccess{
			Path: v.Name, Span: v.SpanVal, Kind: KindDollar, Certainty: Certain,
		})
	case *ast.Field:
		cert := Certain
		for _, part := range v.Parts {
			if !isPureIdentSegment(part) {
				cert = Uncertain
			}
		}
		kind := KindDot
		if v.VarName != "" {
			kind = KindDollar
		}
		path := ast.ExpressionString(v)
		w.report.Variables = append(w.report.Variables, VariableAccess{
			Path: path, Span: v.SpanVal, Kind: kind, Certainty: cert,
		})
		if cert == Uncertain {
			w.addIssue(fmt.Sprintf("uncertain field access %q", path), v.SpanVal)
		}
	case *ast.PipelineExpr:
		w.walkPipeline(v.Inner)
	default:
		// string/number/bool/nil literals carry no variable or helper signal
	}
}

func isPureIdentSegment(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		isLetter := r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'
		isDigit := r >= '0' && r <= '9'
		if !isLetter && !isDigit && r != '_' {
			return false
		}
	}
	return true
}
