package eval

import (
	"github.com/walteh/gotmpl/pkg/ast"
	"github.com/walteh/gotmpl/pkg/span"
	"github.com/walteh/gotmpl/pkg/value"
)

// evalPipelineCommands evaluates only the commands of p, threading each
// command's result as the final implicit argument of the next (spec
// §4.3 "Pipeline evaluation"). It never applies p.Declarations — callers
// decide how (and whether) to bind the result, since if/with/action and
// range each bind differently.
func (c *evalContext) evalPipelineCommands(p *ast.Pipeline) (value.Value, error) {
	if len(p.Commands) == 0 {
		return value.Null(), span.NewRenderErrorNoSpan("empty pipeline")
	}
	var result value.Value
	var piped *value.Value
	for _, cmd := range p.Commands {
		r, err := c.evalCommand(cmd, piped)
		if err != nil {
			return value.Null(), err
		}
		result = r
		piped = &result
	}
	return result, nil
}

// evalPipelineWithDecl evaluates p's commands and, if p carries
// declarations, binds the result via the generic (non-range) binding
// rules (spec §4.3 "Binding rules"). Used by actions, if, and with.
func (c *evalContext) evalPipelineWithDecl(p *ast.Pipeline) (value.Value, error) {
	result, err := c.evalPipelineCommands(p)
	if err != nil {
		return value.Null(), err
	}
	if err := c.bindPipelineResult(p.Declarations, result); err != nil {
		return value.Null(), err
	}
	return result, nil
}

func (c *evalContext) evalCommand(cmd *ast.Command, piped *value.Value) (value.Value, error) {
	ident, isIdent := cmd.Target.(*ast.Identifier)

	if isIdent && c.registry.Has(ident.Name) {
		args := make([]value.Value, 0, len(cmd.Args)+1)
		for _, a := range cmd.Args {
			v, err := c.evalExpression(a)
			if err != nil {
				return value.Null(), err
			}
			args = append(args, v)
		}
		if piped != nil {
			args = append(args, *piped)
		}
		return c.invokeHelper(ident.Name, args)
	}

	if isIdent {
		if len(cmd.Args) > 0 || piped != nil {
			return value.Null(), c.unknownFunctionError(ident.Name)
		}
		return c.evalExpression(cmd.Target)
	}

	if len(cmd.Args) > 0 {
		return value.Null(), span.NewRenderError("arguments supplied to non-function expression", cmd.SpanVal, nil)
	}
	if piped != nil {
		return value.Null(), span.NewRenderError("cannot pipe value into non-function expression", cmd.SpanVal, nil)
	}
	return c.evalExpression(cmd.Target)
}

func (c *evalContext) evalExpression(e ast.Expression) (value.Value, error) {
	switch v := e.(type) {
	case *ast.Identifier:
		return c.lookupIdentifier(v.Name), nil
	case *ast.Variable:
		return c.lookupVariable(v.Name), nil
	case *ast.Field:
		return c.evalField(v)
	case *ast.PipelineExpr:
		if v.Inner.Declarations != nil {
			return value.Null(), span.NewRenderError("pipeline declarations not allowed in expression", v.SpanVal, nil)
		}
		return c.evalPipelineCommands(v.Inner)
	case *ast.StringLiteral:
		return value.String(v.Value), nil
	case *ast.NumberLiteral:
		n, ok := value.ParseNumber(v.Text)
		if !ok {
			return value.Null(), span.NewRenderError("invalid number literal", v.SpanVal, nil)
		}
		return n, nil
	case *ast.BoolLiteral:
		return value.Bool(v.Value), nil
	case *ast.NilLiteral:
		return value.Null(), nil
	default:
		return value.Null(), span.NewRenderErrorNoSpan("unsupported expression")
	}
}

// lookupIdentifier walks the dot stack top-down; at each map-valued element
// it returns the key's value if present. A miss anywhere is null, never an
// error (spec §4.3).
func (c *evalContext) lookupIdentifier(name string) value.Value {
	for i := len(c.scopes) - 1; i >= 0; i-- {
		if m, ok := c.scopes[i].AsMap(); ok {
			if v, ok := m.Get(name); ok {
				return v
			}
		}
	}
	return value.Null()
}

// lookupVariable resolves a "$name" reference: "$" alone is always the
// root datum; otherwise the variable stack is walked top-down for the
// first scope defining name.
func (c *evalContext) lookupVariable(name string) value.Value {
	if name == "$" {
		return c.scopes[0]
	}
	for i := len(c.vars) - 1; i >= 0; i-- {
		if v, ok := c.vars[i].Get(name); ok {
			return v
		}
	}
	return value.Null()
}

func (c *evalContext) evalField(f *ast.Field) (value.Value, error) {
	var cur value.Value
	if f.VarName != "" {
		cur = c.lookupVariable(f.VarName)
	} else {
		cur = c.dot()
	}
	for _, part := range f.Parts {
		next, res := cur.Index(part)
		if value.IndexNotContainer(res) {
			return value.Null(), span.NewRenderError("cannot access field \""+part+"\" on non-container value", f.SpanVal, nil)
		}
		if value.IndexBadKey(res) {
			return value.Null(), span.NewRenderError("array index must be integer", f.SpanVal, nil)
		}
		cur = next
	}
	return cur, nil
}

// bindPipelineResult applies the generic (non-range) binding rules: single
// declared name binds the whole result; multiple names on an array result
// bind positionally (missing indices -> null); multiple names on anything
// else all bind the whole result (spec §4.3 "Binding rules").
func (c *evalContext) bindPipelineResult(decl *ast.PipelineDeclarations, result value.Value) error {
	if decl == nil {
		return nil
	}
	if len(decl.Variables) == 1 {
		return c.bindName(decl.Kind, decl.Variables[0], result)
	}
	if arr, ok := result.AsArray(); ok {
		for i, name := range decl.Variables {
			var v value.Value
			if i < len(arr) {
				v = arr[i]
			} else {
				v = value.Null()
			}
			if err := c.bindName(decl.Kind, name, v); err != nil {
				return err
			}
		}
		return nil
	}
	for _, name := range decl.Variables {
		if err := c.bindName(decl.Kind, name, result); err != nil {
			return err
		}
	}
	return nil
}

// bindRangeNames implements range's dedicated (key, value) binding: a
// single declared name binds the value alone; two bind (key, value).
func (c *evalContext) bindRangeNames(decl *ast.PipelineDeclarations, key, val value.Value) error {
	if len(decl.Variables) == 1 {
		return c.bindName(decl.Kind, decl.Variables[0], val)
	}
	if err := c.bindName(decl.Kind, decl.Variables[0], key); err != nil {
		return err
	}
	if len(decl.Variables) > 1 {
		if err := c.bindName(decl.Kind, decl.Variables[1], val); err != nil {
			return err
		}
	}
	for _, extra := range decl.Variables[min(2, len(decl.Variables)):] {
		if err := c.bindName(decl.Kind, extra, value.Null()); err != nil {
			return err
		}
	}
	return nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func (c *evalContext) bindName(kind ast.DeclKind, name string, v value.Value) error {
	if name == "$" {
		return span.NewRenderErrorNoSpan("cannot assign to root variable")
	}
	if kind == ast.Declare {
		c.topVars().Set(name, v)
		return nil
	}
	for i := len(c.vars) - 1; i >= 0; i-- {
		if _, ok := c.vars[i].Get(name); ok {
			c.vars[i].Set(name, v)
			return nil
		}
	}
	return span.NewRenderErrorNoSpan("variable " + name + " not defined")
}
