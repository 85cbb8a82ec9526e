package eval

import (
	"strings"

	"github.com/walteh/gotmpl/pkg/ast"
	"github.com/walteh/gotmpl/pkg/value"
)

func (c *evalContext) renderBlock(sb *strings.Builder, b ast.Block) error {
	for _, n := range b {
		if err := c.renderNode(sb, n); err != nil {
			return err
		}
	}
	return nil
}

func (c *evalContext) renderNode(sb *strings.Builder, n ast.Node) error {
	switch v := n.(type) {
	case *ast.Text:
		sb.WriteString(v.Content)
		return nil
	case *ast.Comment:
		return nil
	case *ast.Action:
		return c.renderAction(sb, v)
	case *ast.If:
		return c.renderIf(sb, v)
	case *ast.Range:
		return c.renderRange(sb, v)
	case *ast.With:
		return c.renderWith(sb, v)
	default:
		return nil
	}
}

func (c *evalContext) renderAction(sb *strings.Builder, a *ast.Action) error {
	result, err := c.evalPipelineWithDecl(a.Pipeline)
	if err != nil {
		return err
	}
	if a.Pipeline.Declarations != nil {
		return nil
	}
	sb.WriteString(value.ValueToString(result))
	return nil
}

func (c *evalContext) renderIf(sb *strings.Builder, n *ast.If) error {
	result, err := c.evalPipelineWithDecl(n.Pipeline)
	if err != nil {
		return err
	}
	if value.IsTruthy(result) {
		return c.renderBlock(sb, n.Then)
	}
	if len(n.Else) > 0 {
		return c.renderBlock(sb, n.Else)
	}
	return nil
}

func (c *evalContext) renderWith(sb *strings.Builder, n *ast.With) error {
	result, err := c.evalPipelineWithDecl(n.Pipeline)
	if err != nil {
		return err
	}
	if value.IsTruthy(result) {
		c.pushDot(result)
		c.pushVars()
		err := c.renderBlock(sb, n.Then)
		c.popVars()
		c.popDot()
		return err
	}
	if len(n.Else) > 0 {
		return c.renderBlock(sb, n.Else)
	}
	return nil
}

// renderRange implements range's iteration and scoping (spec §4.3
// "Control rendering" / "range"). A single variable scope spans the whole
// construct (pushed once, reused across iterations and by the else
// branch) while the dot stack gets a fresh push/pop per element, since
// only the dot — not the declared loop variables — is meant to be
// per-element state that outlives nothing.
func (c *evalContext) renderRange(sb *strings.Builder, n *ast.Range) error {
	decl := n.Pipeline.Declarations
	result, err := c.evalPipelineCommands(n.Pipeline)
	if err != nil {
		return err
	}

	c.pushVars()
	defer c.popVars()

	if decl != nil {
		for _, name := range decl.Variables {
			if err := c.bindName(decl.Kind, name, value.Null()); err != nil {
				return err
			}
		}
	}

	renderElse := func() error {
		if len(n.Else) > 0 {
			return c.renderBlock(sb, n.Else)
		}
		return nil
	}

	if arr, ok := result.AsArray(); ok {
		if len(arr) == 0 {
			return renderElse()
		}
		for i, elem := range arr {
			if decl != nil {
				if err := c.bindRangeNames(decl, value.Int(int64(i)), elem); err != nil {
					return err
				}
			}
			c.pushDot(elem)
			err := c.renderBlock(sb, n.Then)
			c.popDot()
			if err != nil {
				return err
			}
		}
		return nil
	}

	if m, ok := result.AsMap(); ok {
		keys := m.Keys()
		if len(keys) == 0 {
			return renderElse()
		}
		for _, k := range keys {
			elem, _ := m.Get(k)
			if decl != nil {
				if err := c.bindRangeNames(decl, value.String(k), elem); err != nil {
					return err
				}
			}
			c.pushDot(elem)
			err := c.renderBlock(sb, n.Then)
			c.popDot()
			if err != nil {
				return err
			}
		}
		return nil
	}

	return renderElse()
}
