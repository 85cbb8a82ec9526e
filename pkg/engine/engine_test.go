package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/gotmpl/pkg/analyzer"
	"github.com/walteh/gotmpl/pkg/engine"
	"github.com/walteh/gotmpl/pkg/helpers"
	"github.com/walteh/gotmpl/pkg/registry"
	"github.com/walteh/gotmpl/pkg/value"
)

func buildRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	b := registry.NewBuilder()
	helpers.Register(b)
	reg, err := b.Build()
	require.NoError(t, err)
	return reg
}

func TestParseIgnoresRegistryArgument(t *testing.T) {
	reg := buildRegistry(t)
	tmpl, err := engine.Parse("t", "hello {{ .name }}", reg)
	require.NoError(t, err)
	assert.Equal(t, "t", tmpl.Name)
}

func TestEngineRendersParsedTemplate(t *testing.T) {
	reg := buildRegistry(t)
	tmpl, err := engine.Parse("t", "hello {{ upper .name }}", reg)
	require.NoError(t, err)

	e := engine.New(reg, nil)
	m := value.NewOrderedMap()
	m.Set("name", value.String("world"))
	out, err := e.Render(tmpl, value.Map(m))
	require.NoError(t, err)
	assert.Equal(t, "hello WORLD", out)
}

func TestEngineAnalyzeReportsHelperCalls(t *testing.T) {
	reg := buildRegistry(t)
	tmpl, err := engine.Parse("t", "{{ upper .name }}", reg)
	require.NoError(t, err)

	e := engine.New(reg, nil)
	report := e.Analyze(tmpl)
	require.Len(t, report.HelperCalls, 1)
	assert.Equal(t, "upper", report.HelperCalls[0].Name)
	assert.Equal(t, analyzer.Registered, report.HelperCalls[0].Source)
}
