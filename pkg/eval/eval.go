// Package eval implements the template evaluator (spec §4.3): a scope
// stack of "dot" values, a parallel variable-scope stack, and pipeline/
// command/expression evaluation that invokes helpers through a registry.
package eval

import (
	"strings"

	"github.com/google/uuid"

	"github.com/walteh/gotmpl/pkg/ast"
	"github.com/walteh/gotmpl/pkg/debug"
	"github.com/walteh/gotmpl/pkg/registry"
	"github.com/walteh/gotmpl/pkg/telemetry"
	"github.com/walteh/gotmpl/pkg/value"
)

// Evaluator renders parsed templates against data values. It holds only
// immutable collaborators (a frozen registry, a telemetry hook) and is
// safe to share across concurrent renders; all mutable state lives in the
// per-render evalContext.
type Evaluator struct {
	registry *registry.Registry
	hook     telemetry.Hook
}

// New constructs an Evaluator. A nil hook is replaced with NoopHook.
func New(reg *registry.Registry, hook telemetry.Hook) *Evaluator {
	if hook == nil {
		hook = telemetry.NoopHook{}
	}
	return &Evaluator{registry: reg, hook: hook}
}

// Render evaluates tmpl against data, returning the rendered output or the
// first render error encountered (partial output is discarded, spec §7).
func (e *Evaluator) Render(tmpl *ast.Template, data value.Value) (string, error) {
	renderID := uuid.NewString()
	debug.Printf("render %s: starting (render_id=%s)", tmpl.Name, renderID)

	c := &evalContext{
		registry: e.registry,
		hook:     e.hook,
		renderID: renderID,
		scopes:   []value.Value{data},
		vars:     []*value.OrderedMap{value.NewOrderedMap()},
	}

	var sb strings.Builder
	if err := c.renderBlock(&sb, tmpl.Root); err != nil {
		debug.Printf("render %s: failed (render_id=%s): %v", tmpl.Name, renderID, err)
		return "", err
	}
	return sb.String(), nil
}

// evalContext is the per-render mutable state: the dot stack, the
// variable-scope stack, and the collaborators needed to dispatch helper
// calls. It implements registry.Caller so helpers like "call" can
// re-enter the registry without this package and pkg/registry importing
// each other.
type evalContext struct {
	registry *registry.Registry
	hook     telemetry.Hook
	renderID string

	scopes []value.Value
	vars   []*value.OrderedMap
}

func (c *evalContext) dot() value.Value { return c.scopes[len(c.scopes)-1] }

func (c *evalContext) pushDot(v value.Value) { c.scopes = append(c.scopes, v) }
func (c *evalContext) popDot()               { c.scopes = c.scopes[:len(c.scopes)-1] }

func (c *evalContext) pushVars() { c.vars = append(c.vars, value.NewOrderedMap()) }
func (c *evalContext) popVars()  { c.vars = c.vars[:len(c.vars)-1] }

func (c *evalContext) topVars() *value.OrderedMap { return c.vars[len(c.vars)-1] }

// Call implements registry.Caller: it is how a helper (e.g. "call") can
// re-enter the registry by name, going through the same invocation path
// (telemetry, debug logging) that ordinary command evaluation uses.
func (c *evalContext) Call(name string, args []value.Value) (value.Value, error) {
	if !c.registry.Has(name) {
		return value.Null(), c.unknownFunctionError(name)
	}
	return c.invokeHelper(name, args)
}

func (c *evalContext) invokeHelper(name string, args []value.Value) (value.Value, error) {
	debug.Printf("render: invoking helper %q with %d argument(s) (render_id=%s)", name, len(args), c.renderID)
	kind := classifyHelper(name)
	out, err := c.registry.Call(c, name, args)
	if err != nil {
		c.hook.HelperInvoked(c.renderID, name, kind, false)
		return value.Null(), err
	}
	c.hook.HelperInvoked(c.renderID, name, kind, true)
	return out, nil
}
