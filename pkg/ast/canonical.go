package ast

import (
	"strconv"
	"strings"
)

// Canonicalize re-emits a Template from its stored nodes, collapsing
// intra-action whitespace to a single canonical form (spec §6 "inverse
// pretty-printer"; spec §8 invariant 1). Two source strings differing only
// in whitespace inside an action produce identical output.
func Canonicalize(t *Template) string {
	var sb strings.Builder
	writeBlock(&sb, t.Root)
	return sb.String()
}

func writeBlock(sb *strings.Builder, b Block) {
	for _, n := range b {
		writeNode(sb, n)
	}
}

func writeNode(sb *strings.Builder, n Node) {
	switch v := n.(type) {
	case *Text:
		sb.WriteString(v.Content)
	case *Comment:
		sb.WriteString(openDelim(v.TrimLeft))
		sb.WriteString("/* ")
		sb.WriteString(v.Content)
		sb.WriteString(" */")
		sb.WriteString(closeDelim(v.TrimRight))
	case *Action:
		sb.WriteString(openDelim(v.TrimLeft))
		sb.WriteString(" ")
		sb.WriteString(PipelineString(v.Pipeline))
		sb.WriteString(" ")
		sb.WriteString(closeDelim(v.TrimRight))
	case *If:
		writeIf(sb, v, "if")
	case *Range:
		sb.WriteString("{{range ")
		sb.WriteString(PipelineString(v.Pipeline))
		sb.WriteString("}}")
		writeBlock(sb, v.Then)
		if v.Else != nil {
			sb.WriteString("{{else}}")
			writeBlock(sb, v.Else)
		}
		sb.WriteString("{{end}}")
	case *With:
		sb.WriteString("{{with ")
		sb.WriteString(PipelineString(v.Pipeline))
		sb.WriteString("}}")
		writeBlock(sb, v.Then)
		if v.Else != nil {
			sb.WriteString("{{else}}")
			writeBlock(sb, v.Else)
		}
		sb.WriteString("{{end}}")
	}
}

func writeIf(sb *strings.Builder, n *If, keyword string) {
	sb.WriteString("{{")
	sb.WriteString(keyword)
	sb.WriteString(" ")
	sb.WriteString(PipelineString(n.Pipeline))
	sb.WriteString("}}")
	writeBlock(sb, n.Then)
	if len(n.Else) == 1 {
		if nested, ok := n.Else[0].(*If); ok {
			sb.WriteString("{{else ")
			sb.WriteString(PipelineString(nested.Pipeline))
			// the rest of the nested if is rendered as an elseif chain by
			// recursing without re-emitting its own opening delimiter
			sb.WriteString("}}")
			writeBlock(sb, nested.Then)
			if nested.Else != nil {
				writeElseTail(sb, nested.Else)
			}
			sb.WriteString("{{end}}")
			return
		}
	}
	if n.Else != nil {
		sb.WriteString("{{else}}")
		writeBlock(sb, n.Else)
	}
	sb.WriteString("{{end}}")
}

// writeElseTail renders a trailing else/else-if chain without emitting an
// extra {{end}} (the outermost writeIf call owns the closing {{end}}).
func writeElseTail(sb *strings.Builder, b Block) {
	if len(b) == 1 {
		if nested, ok := b[0].(*If); ok {
			sb.WriteString("{{else ")
			sb.WriteString(PipelineString(nested.Pipeline))
			sb.WriteString("}}")
			writeBlock(sb, nested.Then)
			if nested.Else != nil {
				writeElseTail(sb, nested.Else)
			}
			return
		}
	}
	sb.WriteString("{{else}}")
	writeBlock(sb, b)
}

func openDelim(trim bool) string {
	if trim {
		return "{{-"
	}
	return "{{"
}

func closeDelim(trim bool) string {
	if trim {
		return "-}}"
	}
	return "}}"
}

// PipelineString re-emits a Pipeline from its declarations/commands, the
// canonical collapsed-whitespace form every Action/If/Range/With reuses.
func PipelineString(p *Pipeline) string {
	var sb strings.Builder
	if p.Declarations != nil {
		for i, v := range p.Declarations.Variables {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(v)
		}
		if p.Declarations.Kind == Declare {
			sb.WriteString(" := ")
		} else {
			sb.WriteString(" = ")
		}
	}
	for i, c := range p.Commands {
		if i > 0 {
			sb.WriteString(" | ")
		}
		sb.WriteString(CommandString(c))
	}
	return sb.String()
}

// CommandString re-emits a Command.
func CommandString(c *Command) string {
	var sb strings.Builder
	sb.WriteString(ExpressionString(c.Target))
	for _, a := range c.Args {
		sb.WriteString(" ")
		sb.WriteString(ExpressionString(a))
	}
	return sb.String()
}

// ExpressionString re-emits a single Expression.
func ExpressionString(e Expression) string {
	switch v := e.(type) {
	case *Identifier:
		return v.Name
	case *Variable:
		return v.Name
	case *Field:
		var sb strings.Builder
		if v.VarName != "" {
			sb.WriteString(v.VarName)
		}
		for _, p := range v.Parts {
			sb.WriteString(".")
			sb.WriteString(p)
		}
		if v.VarName == "" && len(v.Parts) == 0 {
			return "."
		}
		return sb.String()
	case *PipelineExpr:
		return "(" + PipelineString(v.Inner) + ")"
	case *StringLiteral:
		if v.Raw {
			return "`" + v.Value + "`"
		}
		return strconv.Quote(v.Value)
	case *NumberLiteral:
		return v.Text
	case *BoolLiteral:
		if v.Value {
			return "true"
		}
		return "false"
	case *NilLiteral:
		return "nil"
	default:
		return ""
	}
}
