package parser

import (
	"strings"

	"github.com/walteh/gotmpl/pkg/ast"
	"github.com/walteh/gotmpl/pkg/lexer"
	"github.com/walteh/gotmpl/pkg/span"
)

// parsePipeline parses a full action body's tokens (everything between the
// keyword, if any, and the action's close) into a Pipeline: an optional
// "$a, $b := " / "$a, $b = " declarations prefix, then one or more
// "|"-separated Commands.
func parsePipeline(toks []lexer.Token) (*ast.Pipeline, error) {
	if len(toks) == 0 {
		return nil, span.NewParseErrorNoSpan("empty pipeline")
	}
	decl, rest, err := extractDeclarations(toks)
	if err != nil {
		return nil, err
	}
	if len(rest) == 0 {
		return nil, span.NewParseErrorNoSpan("pipeline has no command after declaration")
	}
	pl, err := parseCommandsOnly(rest)
	if err != nil {
		return nil, err
	}
	pl.Declarations = decl
	if decl != nil {
		pl.SpanVal = span.New(toks[0].Span.Start, pl.SpanVal.End)
	}
	return pl, nil
}

// extractDeclarations recognizes a "$a (, $b)* (:= | =)" prefix. It never
// errors on a non-match: a leading run of "$name" tokens that does not turn
// out to be followed by ":=" or "=" is left untouched for the command
// parser, since "$x" alone is an ordinary variable reference command.
func extractDeclarations(toks []lexer.Token) (*ast.PipelineDeclarations, []lexer.Token, error) {
	if toks[0].Kind != lexer.Identifier || !strings.HasPrefix(toks[0].Text, "$") {
		return nil, toks, nil
	}
	i := 0
	var vars []string
	for {
		if i >= len(toks) || toks[i].Kind != lexer.Identifier || !strings.HasPrefix(toks[i].Text, "$") {
			return nil, toks, nil
		}
		vars = append(vars, toks[i].Text)
		i++
		if i < len(toks) && toks[i].Kind == lexer.Comma {
			i++
			continue
		}
		break
	}
	if i >= len(toks) || (toks[i].Kind != lexer.Declare && toks[i].Kind != lexer.Assign) {
		return nil, toks, nil
	}
	kind := ast.Declare
	if toks[i].Kind == lexer.Assign {
		kind = ast.Assign
	}
	return &ast.PipelineDeclarations{Kind: kind, Variables: vars}, toks[i+1:], nil
}

// parseCommandsOnly splits toks into "|"-separated Commands with no
// declarations prefix (used both at top level, after declarations are
// stripped, and for parenthesized sub-pipelines).
func parseCommandsOnly(toks []lexer.Token) (*ast.Pipeline, error) {
	segments := splitByPipe(toks)
	cmds := make([]*ast.Command, 0, len(segments))
	for _, seg := range segments {
		if len(seg) == 0 {
			return nil, span.NewParseErrorNoSpan("empty pipeline segment")
		}
		cmd, err := parseCommandTokens(seg)
		if err != nil {
			return nil, err
		}
		cmds = append(cmds, cmd)
	}
	sp := span.New(toks[0].Span.Start, toks[len(toks)-1].Span.End)
	return &ast.Pipeline{SpanVal: sp, Commands: cmds}, nil
}

func splitByPipe(toks []lexer.Token) [][]lexer.Token {
	var out [][]lexer.Token
	depth := 0
	start := 0
	for i, t := range toks {
		switch t.Kind {
		case lexer.LParen:
			depth++
		case lexer.RParen:
			if depth > 0 {
				depth--
			}
		case lexer.Pipe:
			if depth == 0 {
				out = append(out, toks[start:i])
				start = i + 1
			}
		}
	}
	out = append(out, toks[start:])
	return out
}

// parseCommandTokens parses one pipe-separated segment. A segment shaped
// "left OP right", where OP is a comparison operator, is rewritten into a
// call of the matching canonical helper (spec §4.3): "$x == $y" becomes the
// same Command as "eq $x $y". Anything else is an ordinary command: a
// target expression followed by zero or more argument expressions, with a
// top-level comma between arguments simply skipped rather than rejected.
func parseCommandTokens(seg []lexer.Token) (*ast.Command, error) {
	ep := &exprParser{toks: seg}
	left, err := ep.parseExpr()
	if err != nil {
		return nil, err
	}
	if tok, ok := ep.peek(); ok && isComparisonOp(tok.Kind) {
		ep.advance()
		right, err := ep.parseExpr()
		if err != nil {
			return nil, err
		}
		if extra, ok := ep.peek(); ok {
			return nil, span.NewParseError("unexpected token after comparison expression", extra.Span, nil)
		}
		sp := span.New(left.Span().Start, right.Span().End)
		return &ast.Command{
			SpanVal: sp,
			Target:  &ast.Identifier{SpanVal: tok.Span, Name: comparisonHelperName(tok.Kind)},
			Args:    []ast.Expression{left, right},
		}, nil
	}

	var args []ast.Expression
	for {
		tok, ok := ep.peek()
		if !ok {
			break
		}
		if tok.Kind == lexer.Comma {
			ep.advance()
			continue
		}
		arg, err := ep.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	end := left.Span().End
	if len(args) > 0 {
		end = args[len(args)-1].Span().End
	}
	return &ast.Command{SpanVal: span.New(left.Span().Start, end), Target: left, Args: args}, nil
}

func isComparisonOp(k lexer.Kind) bool {
	switch k {
	case lexer.Eq, lexer.Ne, lexer.Lt, lexer.Le, lexer.Gt, lexer.Ge:
		return true
	default:
		return false
	}
}

func comparisonHelperName(k lexer.Kind) string {
	switch k {
	case lexer.Eq:
		return "eq"
	case lexer.Ne:
		return "ne"
	case lexer.Lt:
		return "lt"
	case lexer.Le:
		return "le"
	case lexer.Gt:
		return "gt"
	case lexer.Ge:
		return "ge"
	default:
		return ""
	}
}

// exprParser walks a fixed token slice (one pipe segment, or the inside of
// a parenthesized sub-pipeline) producing one Expression per call.
type exprParser struct {
	toks []lexer.Token
	pos  int
}

func (ep *exprParser) peek() (lexer.Token, bool) {
	return ep.peekAt(0)
}

func (ep *exprParser) peekAt(offset int) (lexer.Token, bool) {
	i := ep.pos + offset
	if i < 0 || i >= len(ep.toks) {
		return lexer.Token{}, false
	}
	return ep.toks[i], true
}

func (ep *exprParser) advance() { ep.pos++ }

func (ep *exprParser) parseExpr() (ast.Expression, error) {
	tok, ok := ep.peek()
	if !ok {
		return nil, span.NewParseErrorNoSpan("expected expression")
	}
	switch tok.Kind {
	case lexer.Dot:
		ep.advance()
		return ep.continueField("", tok.Span, tok.Span.End)
	case lexer.Identifier:
		ep.advance()
		if strings.HasPrefix(tok.Text, "$") {
			field, err := ep.continueField(tok.Text, tok.Span, tok.Span.End)
			if err != nil {
				return nil, err
			}
			if len(field.Parts) == 0 {
				return &ast.Variable{SpanVal: field.SpanVal, Name: tok.Text}, nil
			}
			return field, nil
		}
		return &ast.Identifier{SpanVal: tok.Span, Name: tok.Text}, nil
	case lexer.StringLit:
		ep.advance()
		return &ast.StringLiteral{SpanVal: tok.Span, Value: tok.Text}, nil
	case lexer.RawStringLit:
		ep.advance()
		return &ast.StringLiteral{SpanVal: tok.Span, Value: tok.Text, Raw: true}, nil
	case lexer.NumberLit:
		ep.advance()
		return &ast.NumberLiteral{SpanVal: tok.Span, Text: tok.Text}, nil
	case lexer.KeywordTrue:
		ep.advance()
		return &ast.BoolLiteral{SpanVal: tok.Span, Value: true}, nil
	case lexer.KeywordFalse:
		ep.advance()
		return &ast.BoolLiteral{SpanVal: tok.Span, Value: false}, nil
	case lexer.KeywordNil:
		ep.advance()
		return &ast.NilLiteral{SpanVal: tok.Span}, nil
	case lexer.LParen:
		ep.advance()
		inner, err := ep.parsePipelineUntilRParen()
		if err != nil {
			return nil, err
		}
		closeTok, ok := ep.peek()
		if !ok || closeTok.Kind != lexer.RParen {
			return nil, span.NewParseErrorNoSpan("expected closing parenthesis")
		}
		ep.advance()
		return &ast.PipelineExpr{SpanVal: span.New(tok.Span.Start, closeTok.Span.End), Inner: inner}, nil
	default:
		return nil, span.NewParseError("unexpected token in expression", tok.Span, nil)
	}
}

// continueField extends a Field chain for as long as a "." token is
// byte-adjacent to the end of what precedes it — the position-aware rule
// that distinguishes ".a.b" (one Field, two segments) from ".a .b" (two
// Fields) per spec §4.3. varName is "" for a bare-dot-rooted Field, or the
// leading "$name" text for a variable-rooted one.
func (ep *exprParser) continueField(varName string, startSpan span.Span, end int) (*ast.Field, error) {
	var parts []string
	if varName == "" {
		if tok, ok := ep.peek(); ok && tok.Span.Start == end && isFieldSegmentToken(tok) {
			parts = append(parts, tok.Text)
			end = tok.Span.End
			ep.advance()
		}
	}
	for {
		dotTok, ok := ep.peek()
		if !ok || dotTok.Kind != lexer.Dot || dotTok.Span.Start != end {
			break
		}
		segTok, ok2 := ep.peekAt(1)
		if !ok2 || segTok.Span.Start != dotTok.Span.End || !isFieldSegmentToken(segTok) {
			break
		}
		ep.advance()
		ep.advance()
		parts = append(parts, segTok.Text)
		end = segTok.Span.End
	}
	return &ast.Field{SpanVal: span.New(startSpan.Start, end), VarName: varName, Parts: parts}, nil
}

// isFieldSegmentToken reports whether tok can stand as one Field segment:
// a plain identifier (not a "$name") or a number literal, the latter
// letting ".items.0"-style array-index field syntax parse as a single
// Field (spec §4.2/§4.3).
func isFieldSegmentToken(tok lexer.Token) bool {
	switch tok.Kind {
	case lexer.Identifier:
		return !strings.HasPrefix(tok.Text, "$")
	case lexer.NumberLit:
		return true
	default:
		return false
	}
}

// parsePipelineUntilRParen consumes tokens up to (but not including) the
// ")" matching the "(" the caller already advanced past, parsing them as a
// no-declarations Pipeline. Nested parens are balanced so a ")" closing a
// further-nested call is not mistaken for the closer.
func (ep *exprParser) parsePipelineUntilRParen() (*ast.Pipeline, error) {
	start := ep.pos
	depth := 0
	end := -1
	for i := ep.pos; i < len(ep.toks); i++ {
		switch ep.toks[i].Kind {
		case lexer.LParen:
			depth++
		case lexer.RParen:
			if depth == 0 {
				end = i
			} else {
				depth--
			}
		}
		if end >= 0 {
			break
		}
	}
	if end < 0 {
		return nil, span.NewParseErrorNoSpan("unterminated parenthesized pipeline")
	}
	sub := ep.toks[start:end]
	ep.pos = end
	if len(sub) == 0 {
		return nil, span.NewParseErrorNoSpan("empty parenthesized pipeline")
	}
	return parseCommandsOnly(sub)
}
