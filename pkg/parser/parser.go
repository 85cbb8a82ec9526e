// Package parser implements the single forward-pass template parser (spec
// §4.2): it walks the source bytes once, delegating action bodies to
// pkg/lexer and to the pipeline sub-parser in this package, and maintains
// two parallel stacks — open control frames and their append targets — the
// way spec §9 "Cyclic ownership" describes, instead of child-to-parent
// back-pointers.
package parser

import (
	"strings"

	"github.com/walteh/gotmpl/pkg/ast"
	"github.com/walteh/gotmpl/pkg/lexer"
	"github.com/walteh/gotmpl/pkg/span"
)

type frameKind int

const (
	frameIf frameKind = iota
	frameRange
	frameWith
)

// frame is an open control block: "if"/"range"/"with" that has not yet seen
// its matching "{{end}}". It is moved into the enclosing block's node list
// once closed — never linked back to its parent, per spec §9.
type frame struct {
	kind      frameKind
	startSpan span.Span
	pipeline  *ast.Pipeline
	then      ast.Block
	elseBlk   ast.Block
	hasElse   bool
	inElse    bool
	sawElse   bool

	// synthetic marks a frame pushed by handleElse for an "else if" branch.
	// It has no "{{end}}" of its own in the source — the single "{{end}}"
	// that closes the outermost "if" in the chain closes it too, so
	// handleEnd cascades through every synthetic frame it pops.
	synthetic bool
}

type parser struct {
	name   string
	source string
	pos    int
	root   ast.Block
	frames []*frame
}

// Parse parses source into a Template. name is a diagnostic label only.
func Parse(name, source string) (*ast.Template, error) {
	p := &parser{name: name, source: source}
	if err := p.run(); err != nil {
		return nil, err
	}
	if len(p.frames) > 0 {
		top := p.frames[len(p.frames)-1]
		return nil, span.NewParseError("unterminated control structure", top.startSpan, nil)
	}
	return &ast.Template{Name: name, Source: source, Root: p.root}, nil
}

func (p *parser) run() error {
	for p.pos < len(p.source) {
		idx := strings.Index(p.source[p.pos:], "{{")
		if idx < 0 {
			p.appendText(p.pos, len(p.source), false)
			p.pos = len(p.source)
			return nil
		}
		actionStart := p.pos + idx
		bodyStart := actionStart + 2

		end, err := p.findActionEnd(bodyStart)
		if err != nil {
			return err
		}
		fullEnd := end + 2
		raw := p.source[bodyStart:end]

		trimLeft := strings.HasPrefix(raw, "-")
		trimRight := strings.HasSuffix(raw, "-")
		body := raw
		bodyOffset := bodyStart
		if trimLeft {
			body = body[1:]
			bodyOffset++
		}
		if trimRight {
			body = body[:len(body)-1]
		}

		p.appendText(p.pos, actionStart, trimLeft)
		p.pos = actionStart

		fullSpan := span.New(actionStart, fullEnd)
		if err := p.dispatchAction(body, bodyOffset, fullSpan, trimLeft, trimRight); err != nil {
			return err
		}

		p.pos = fullEnd
		if trimRight {
			for p.pos < len(p.source) && isASCIISpace(p.source[p.pos]) {
				p.pos++
			}
		}
	}
	return nil
}

// appendText appends the source slice [start,end) as a Text node to the
// current append target, trimming trailing ASCII whitespace first when
// trimLeft is set (spec §4.2 step 6). Empty text is elided.
func (p *parser) appendText(start, end int, trimLeft bool) {
	content := p.source[start:end]
	if trimLeft {
		content = strings.TrimRight(content, " \t\r\n")
		end = start + len(content)
	}
	if content == "" {
		return
	}
	p.append(&ast.Text{SpanVal: span.New(start, end), Content: content})
}

func isASCIISpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n'
}

// dispatchAction handles one action body: comment detection, keyword
// dispatch (if/range/with/else/end), or a plain pipeline action.
func (p *parser) dispatchAction(body string, bodyOffset int, fullSpan span.Span, trimLeft, trimRight bool) error {
	core := strings.TrimSpace(body)
	if strings.HasPrefix(core, "/*") {
		if !strings.HasSuffix(core, "*/") || len(core) < 4 {
			return span.NewParseError("unclosed comment", fullSpan, nil)
		}
		inner := strings.TrimSpace(core[2 : len(core)-2])
		p.append(&ast.Comment{SpanVal: fullSpan, Content: inner, TrimLeft: trimLeft, TrimRight: trimRight})
		return nil
	}
	if core == "" {
		return span.NewParseError("empty action", fullSpan, nil)
	}

	toks, err := lexer.Lex(body, bodyOffset)
	if err != nil {
		return err
	}
	if len(toks) == 0 {
		return span.NewParseError("empty action", fullSpan, nil)
	}

	switch toks[0].Kind {
	case lexer.KeywordIf:
		return p.pushControlFrame(frameIf, toks[1:], fullSpan)
	case lexer.KeywordRange:
		return p.pushControlFrame(frameRange, toks[1:], fullSpan)
	case lexer.KeywordWith:
		return p.pushControlFrame(frameWith, toks[1:], fullSpan)
	case lexer.KeywordElse:
		return p.handleElse(toks[1:], fullSpan)
	case lexer.KeywordEnd:
		return p.handleEnd(fullSpan)
	default:
		pl, err := parsePipeline(toks)
		if err != nil {
			return err
		}
		p.append(&ast.Action{SpanVal: fullSpan, Body: core, Pipeline: pl, TrimLeft: trimLeft, TrimRight: trimRight})
		return nil
	}
}

func (p *parser) pushControlFrame(kind frameKind, toks []lexer.Token, startSpan span.Span) error {
	if len(toks) == 0 {
		return span.NewParseError(keywordName(kind)+" requires a pipeline", startSpan, nil)
	}
	pl, err := parsePipeline(toks)
	if err != nil {
		return err
	}
	p.frames = append(p.frames, &frame{kind: kind, startSpan: startSpan, pipeline: pl})
	return nil
}

func keywordName(k frameKind) string {
	switch k {
	case frameIf:
		return "if"
	case frameRange:
		return "range"
	case frameWith:
		return "with"
	default:
		return "control"
	}
}

func (p *parser) handleElse(toks []lexer.Token, elseSpan span.Span) error {
	if len(p.frames) == 0 {
		return span.NewParseError("unexpected else", elseSpan, nil)
	}
	top := p.frames[len(p.frames)-1]
	if top.sawElse {
		return span.NewParseError("duplicate else block", elseSpan, nil)
	}
	if len(toks) == 0 {
		top.sawElse = true
		top.hasElse = true
		top.inElse = true
		return nil
	}
	if toks[0].Kind == lexer.KeywordIf {
		if top.kind != frameIf {
			return span.NewParseError("unexpected else", elseSpan, nil)
		}
		pl, err := parsePipeline(toks[1:])
		if err != nil {
			return err
		}
		if len(pl.Commands) == 0 {
			return span.NewParseError("if requires a pipeline", elseSpan, nil)
		}
		top.sawElse = true
		top.hasElse = true
		top.inElse = true
		p.frames = append(p.frames, &frame{kind: frameIf, startSpan: elseSpan, pipeline: pl, synthetic: true})
		return nil
	}
	// DESIGN.md Open Question 3: only bare "else" or "else if <pipeline>" is
	// accepted; "else with"/"else range" are rejected.
	return span.NewParseError("unexpected else", elseSpan, nil)
}

// handleEnd closes the innermost open frame. A frame pushed for an
// "else if" branch (frame.synthetic) has no "{{end}}" of its own in the
// source — the single "{{end}}" that closes the outermost "if" in the
// chain closes every synthetic frame nested under it too — so closing one
// cascades into closing its host frame, recursively, until a
// non-synthetic frame (or the root) is reached.
func (p *parser) handleEnd(endSpan span.Span) error {
	if len(p.frames) == 0 {
		return span.NewParseError("nested block closed out of order", span.Span{}, nil)
	}
	top := p.frames[len(p.frames)-1]
	p.frames = p.frames[:len(p.frames)-1]

	var elseBlk ast.Block
	if top.hasElse {
		elseBlk = top.elseBlk
	}
	nodeSpan := span.New(top.startSpan.Start, endSpan.End)
	switch top.kind {
	case frameIf:
		p.append(&ast.If{SpanVal: nodeSpan, Pipeline: top.pipeline, Then: top.then, Else: elseBlk})
	case frameRange:
		p.append(&ast.Range{SpanVal: nodeSpan, Pipeline: top.pipeline, Then: top.then, Else: elseBlk})
	case frameWith:
		p.append(&ast.With{SpanVal: nodeSpan, Pipeline: top.pipeline, Then: top.then, Else: elseBlk})
	}
	if top.synthetic {
		return p.handleEnd(endSpan)
	}
	return nil
}

// append attaches n to whichever block is currently the append target: the
// innermost open frame's then/else block, or the root block if none is
// open.
func (p *parser) append(n ast.Node) {
	if len(p.frames) == 0 {
		p.root = append(p.root, n)
		return
	}
	top := p.frames[len(p.frames)-1]
	if top.inElse {
		top.elseBlk = append(top.elseBlk, n)
	} else {
		top.then = append(top.then, n)
	}
}

// findActionEnd scans forward from bodyStart for the "}}" that closes this
// action, honoring the brace-muting rules of spec §4.2 step 2: double
// quoted strings, backtick raw strings, and /* */ comments all mute "}}"
// scanning, and a backslash inside a quoted string escapes the next byte.
func (p *parser) findActionEnd(bodyStart int) (int, error) {
	s := p.source
	i := bodyStart
	for i < len(s) {
		switch {
		case s[i] == '"':
			i++
			for i < len(s) && s[i] != '"' {
				if s[i] == '\\' && i+1 < len(s) {
					i += 2
					continue
				}
				i++
			}
			if i >= len(s) {
				return 0, p.unterminated(bodyStart)
			}
			i++
		case s[i] == '`':
			i++
			for i < len(s) && s[i] != '`' {
				i++
			}
			if i >= len(s) {
				return 0, p.unterminated(bodyStart)
			}
			i++
		case i+1 < len(s) && s[i] == '/' && s[i+1] == '*':
			i += 2
			for i+1 < len(s) && !(s[i] == '*' && s[i+1] == '/') {
				i++
			}
			if i+1 >= len(s) {
				return 0, p.unterminated(bodyStart)
			}
			i += 2
		case i+1 < len(s) && s[i] == '}' && s[i+1] == '}':
			return i, nil
		default:
			i++
		}
	}
	return 0, p.unterminated(bodyStart)
}

func (p *parser) unterminated(bodyStart int) error {
	i := bodyStart
	if i < len(p.source) && p.source[i] == '-' {
		i++
	}
	for i < len(p.source) && isASCIISpace(p.source[i]) {
		i++
	}
	sp := span.New(bodyStart-2, len(p.source))
	if i+1 < len(p.source) && p.source[i] == '/' && p.source[i+1] == '*' {
		return span.NewParseError("unclosed comment", sp, nil)
	}
	return span.NewParseError("unclosed action", sp, nil)
}
