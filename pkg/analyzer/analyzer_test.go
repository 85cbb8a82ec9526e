package analyzer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/gotmpl/pkg/analyzer"
	"github.com/walteh/gotmpl/pkg/parser"
	"github.com/walteh/gotmpl/pkg/registry"
	"github.com/walteh/gotmpl/pkg/value"
)

func TestAnalyzeTemplateInvocationIndirect(t *testing.T) {
	tmpl, err := parser.Parse("t", "{{ template .name . }}")
	require.NoError(t, err)

	report := analyzer.Analyze(tmpl, nil)

	assert.True(t, report.HasTemplateInvocation)
	assert.Equal(t, analyzer.Conservative, report.Precision)
	require.Len(t, report.TemplateInvocations, 1)
	assert.True(t, report.TemplateInvocations[0].Indirect)
	assert.Empty(t, report.TemplateInvocations[0].Name)
}

func TestAnalyzeTemplateInvocationStaticName(t *testing.T) {
	tmpl, err := parser.Parse("t", `{{ template "partial" . }}`)
	require.NoError(t, err)

	report := analyzer.Analyze(tmpl, nil)

	assert.True(t, report.HasTemplateInvocation)
	assert.Equal(t, analyzer.Precise, report.Precision)
	require.Len(t, report.TemplateInvocations, 1)
	assert.False(t, report.TemplateInvocations[0].Indirect)
	assert.Equal(t, "partial", report.TemplateInvocations[0].Name)
}

func TestAnalyzeVariableAccessCertainty(t *testing.T) {
	tmpl, err := parser.Parse("t", "{{ .a.b }}")
	require.NoError(t, err)

	report := analyzer.Analyze(tmpl, nil)

	require.Len(t, report.Variables, 1)
	assert.Equal(t, ".a.b", report.Variables[0].Path)
	assert.Equal(t, analyzer.Certain, report.Variables[0].Certainty)
	assert.Equal(t, analyzer.Precise, report.Precision)
}

func TestAnalyzeHelperCallRegisteredVsUnknown(t *testing.T) {
	b := registry.NewBuilder()
	b.Register("upper", func(_ registry.Caller, args []value.Value) (value.Value, error) {
		return value.Null(), nil
	})
	reg, err := b.Build()
	require.NoError(t, err)

	tmpl, err := parser.Parse("t", "{{ upper .x }}{{ nope .x }}")
	require.NoError(t, err)

	report := analyzer.Analyze(tmpl, reg)

	require.Len(t, report.HelperCalls, 2)
	assert.Equal(t, "upper", report.HelperCalls[0].Name)
	assert.Equal(t, analyzer.Registered, report.HelperCalls[0].Source)
	assert.Equal(t, "nope", report.HelperCalls[1].Name)
	assert.Equal(t, analyzer.Unknown, report.HelperCalls[1].Source)
	assert.Equal(t, analyzer.Conservative, report.Precision)
}

func TestAnalyzeControlUsages(t *testing.T) {
	tmpl, err := parser.Parse("t", "{{if .x}}a{{end}}{{range .y}}b{{end}}{{with .z}}c{{end}}")
	require.NoError(t, err)

	report := analyzer.Analyze(tmpl, nil)

	require.Len(t, report.Controls, 3)
	assert.Equal(t, analyzer.ControlIf, report.Controls[0].Kind)
	assert.Equal(t, analyzer.ControlRange, report.Controls[1].Kind)
	assert.Equal(t, analyzer.ControlWith, report.Controls[2].Kind)
}

func TestAnalyzeUnknownHelperWithArgsIsConservative(t *testing.T) {
	tmpl, err := parser.Parse("t", "{{ nope .x }}")
	require.NoError(t, err)

	report := analyzer.Analyze(tmpl, nil)

	require.Len(t, report.HelperCalls, 1)
	assert.Equal(t, analyzer.Unknown, report.HelperCalls[0].Source)
	assert.Equal(t, analyzer.Conservative, report.Precision)
	require.NotEmpty(t, report.Issues)
	err2 := report.IssuesAsError()
	require.Error(t, err2)
	assert.Contains(t, err2.Error(), "unknown helper")
}

func TestAnalyzeBareIdentifierNoArgsIsVariableAccess(t *testing.T) {
	tmpl, err := parser.Parse("t", "{{ name }}")
	require.NoError(t, err)

	report := analyzer.Analyze(tmpl, nil)

	require.Empty(t, report.HelperCalls)
	require.Len(t, report.Variables, 1)
	assert.Equal(t, "name", report.Variables[0].Path)
	assert.Equal(t, analyzer.KindDot, report.Variables[0].Kind)
	assert.Equal(t, analyzer.Precise, report.Precision)
}

func TestAnalyzeIndexCallNarrowsPrecision(t *testing.T) {
	b := registry.NewBuilder()
	reg, err := b.Build()
	require.NoError(t, err)

	tmpl, err := parser.Parse("t", "{{ index .items 0 }}")
	require.NoError(t, err)

	report := analyzer.Analyze(tmpl, reg)

	require.Len(t, report.HelperCalls, 1)
	assert.Equal(t, "index", report.HelperCalls[0].Name)
	assert.Equal(t, analyzer.Conservative, report.Precision)
}

func TestAnalyzeAssignmentNarrowsPrecision(t *testing.T) {
	tmpl, err := parser.Parse("t", "{{ $v := 1 }}{{ $v = 2 }}")
	require.NoError(t, err)

	report := analyzer.Analyze(tmpl, nil)

	assert.Equal(t, analyzer.Conservative, report.Precision)
}

func TestAnalyzeEmptyIssuesIsNilError(t *testing.T) {
	report := &analyzer.Report{}
	assert.NoError(t, report.IssuesAsError())
}
