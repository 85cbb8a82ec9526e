package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/gotmpl/pkg/ast"
	"github.com/walteh/gotmpl/pkg/parser"
)

func TestParseSimpleField(t *testing.T) {
	tmpl, err := parser.Parse("t", "Hello, {{.name}}!")
	require.NoError(t, err)
	require.Len(t, tmpl.Root, 3)

	text1, ok := tmpl.Root[0].(*ast.Text)
	require.True(t, ok)
	assert.Equal(t, "Hello, ", text1.Content)

	action, ok := tmpl.Root[1].(*ast.Action)
	require.True(t, ok)
	require.Len(t, action.Pipeline.Commands, 1)
	field, ok := action.Pipeline.Commands[0].Target.(*ast.Field)
	require.True(t, ok)
	assert.Equal(t, []string{"name"}, field.Parts)

	text2, ok := tmpl.Root[2].(*ast.Text)
	require.True(t, ok)
	assert.Equal(t, "!", text2.Content)
}

func TestParseFieldWithNumericSegment(t *testing.T) {
	tmpl, err := parser.Parse("t", "{{.items.0}}")
	require.NoError(t, err)
	action, ok := tmpl.Root[0].(*ast.Action)
	require.True(t, ok)
	field, ok := action.Pipeline.Commands[0].Target.(*ast.Field)
	require.True(t, ok)
	assert.Equal(t, []string{"items", "0"}, field.Parts)
}

func TestParseIfElse(t *testing.T) {
	tmpl, err := parser.Parse("t", "{{if .cond}}yes{{else}}no{{end}}")
	require.NoError(t, err)
	require.Len(t, tmpl.Root, 1)
	ifNode, ok := tmpl.Root[0].(*ast.If)
	require.True(t, ok)
	require.Len(t, ifNode.Then, 1)
	assert.Equal(t, "yes", ifNode.Then[0].(*ast.Text).Content)
	require.Len(t, ifNode.Else, 1)
	assert.Equal(t, "no", ifNode.Else[0].(*ast.Text).Content)
}

func TestParseElseIfChain(t *testing.T) {
	tmpl, err := parser.Parse("t", "{{if .a}}A{{else if .b}}B{{else}}C{{end}}")
	require.NoError(t, err)
	outer := tmpl.Root[0].(*ast.If)
	assert.Equal(t, "A", outer.Then[0].(*ast.Text).Content)
	require.Len(t, outer.Else, 1)
	inner, ok := outer.Else[0].(*ast.If)
	require.True(t, ok)
	assert.Equal(t, "B", inner.Then[0].(*ast.Text).Content)
	require.Len(t, inner.Else, 1)
	assert.Equal(t, "C", inner.Else[0].(*ast.Text).Content)
}

func TestParseRangeElseWithVars(t *testing.T) {
	tmpl, err := parser.Parse("t", "{{range $i, $v := .items}}{{$i}}{{else}}empty{{end}}")
	require.NoError(t, err)
	rng, ok := tmpl.Root[0].(*ast.Range)
	require.True(t, ok)
	require.NotNil(t, rng.Pipeline.Declarations)
	assert.Equal(t, []string{"$i", "$v"}, rng.Pipeline.Declarations.Variables)
	require.Len(t, rng.Else, 1)
	assert.Equal(t, "empty", rng.Else[0].(*ast.Text).Content)
}

func TestParseWith(t *testing.T) {
	tmpl, err := parser.Parse("t", "{{with .user}}{{.Name}}{{end}}")
	require.NoError(t, err)
	w, ok := tmpl.Root[0].(*ast.With)
	require.True(t, ok)
	require.Len(t, w.Then, 1)
}

func TestParseTrimMarkers(t *testing.T) {
	tmpl, err := parser.Parse("t", "a \n {{- .x -}} \n b")
	require.NoError(t, err)
	require.Len(t, tmpl.Root, 3)
	assert.Equal(t, "a", tmpl.Root[0].(*ast.Text).Content)
	assert.Equal(t, "b", tmpl.Root[2].(*ast.Text).Content)
}

func TestParseRawStringWithBraces(t *testing.T) {
	tmpl, err := parser.Parse("t", "{{ `{{ \"d\" }` }}")
	require.NoError(t, err)
	action := tmpl.Root[0].(*ast.Action)
	lit, ok := action.Pipeline.Commands[0].Target.(*ast.StringLiteral)
	require.True(t, ok)
	assert.True(t, lit.Raw)
	assert.Equal(t, `{{ "d" }`, lit.Value)
}

func TestParseDefaultPrintfPipe(t *testing.T) {
	tmpl, err := parser.Parse("t", `{{ printf "%d" (default 5 .x) | upper }}`)
	require.NoError(t, err)
	action := tmpl.Root[0].(*ast.Action)
	require.Len(t, action.Pipeline.Commands, 2)

	printfCmd := action.Pipeline.Commands[0]
	assert.Equal(t, "printf", printfCmd.Target.(*ast.Identifier).Name)
	require.Len(t, printfCmd.Args, 2)
	sub, ok := printfCmd.Args[1].(*ast.PipelineExpr)
	require.True(t, ok)
	require.Len(t, sub.Inner.Commands, 1)
	assert.Equal(t, "default", sub.Inner.Commands[0].Target.(*ast.Identifier).Name)

	upperCmd := action.Pipeline.Commands[1]
	assert.Equal(t, "upper", upperCmd.Target.(*ast.Identifier).Name)
}

func TestParseComparisonRewrite(t *testing.T) {
	tmpl, err := parser.Parse("t", "{{if $x == $y}}eq{{end}}")
	require.NoError(t, err)
	ifNode := tmpl.Root[0].(*ast.If)
	cmd := ifNode.Pipeline.Commands[0]
	assert.Equal(t, "eq", cmd.Target.(*ast.Identifier).Name)
	require.Len(t, cmd.Args, 2)
	assert.Equal(t, "$x", cmd.Args[0].(*ast.Variable).Name)
}

func TestParseVariableFieldChain(t *testing.T) {
	tmpl, err := parser.Parse("t", "{{$x.a.b}}")
	require.NoError(t, err)
	action := tmpl.Root[0].(*ast.Action)
	field, ok := action.Pipeline.Commands[0].Target.(*ast.Field)
	require.True(t, ok)
	assert.Equal(t, "$x", field.VarName)
	assert.Equal(t, []string{"a", "b"}, field.Parts)
}

func TestParseTwoSeparateFieldsNotOneChain(t *testing.T) {
	tmpl, err := parser.Parse("t", "{{.a .b}}")
	require.NoError(t, err)
	action := tmpl.Root[0].(*ast.Action)
	cmd := action.Pipeline.Commands[0]
	target := cmd.Target.(*ast.Field)
	assert.Equal(t, []string{"a"}, target.Parts)
	require.Len(t, cmd.Args, 1)
	arg := cmd.Args[0].(*ast.Field)
	assert.Equal(t, []string{"b"}, arg.Parts)
}

func TestParseUnclosedActionErrors(t *testing.T) {
	_, err := parser.Parse("t", "Hello {{.name")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unclosed action")
}

func TestParseUnclosedCommentErrors(t *testing.T) {
	_, err := parser.Parse("t", "{{/* oops")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unclosed comment")
}

func TestParseMismatchedEndErrors(t *testing.T) {
	_, err := parser.Parse("t", "{{end}}")
	require.Error(t, err)
}

func TestParseUnterminatedControlErrors(t *testing.T) {
	_, err := parser.Parse("t", "{{if .x}}yes")
	require.Error(t, err)
}

func TestParseComment(t *testing.T) {
	tmpl, err := parser.Parse("t", "a{{/* note */}}b")
	require.NoError(t, err)
	require.Len(t, tmpl.Root, 3)
	c, ok := tmpl.Root[1].(*ast.Comment)
	require.True(t, ok)
	assert.Equal(t, "note", c.Content)
}

func TestParseVariableDeclarationAndAssign(t *testing.T) {
	tmpl, err := parser.Parse("t", "{{$x := .a}}{{$x = .b}}")
	require.NoError(t, err)
	decl := tmpl.Root[0].(*ast.Action).Pipeline.Declarations
	require.NotNil(t, decl)
	assert.Equal(t, ast.Declare, decl.Kind)

	assign := tmpl.Root[1].(*ast.Action).Pipeline.Declarations
	require.NotNil(t, assign)
	assert.Equal(t, ast.Assign, assign.Kind)
}
