// Package lexer tokenizes the trimmed inner body of a single template
// action. It never sees "{{"/"}}" or trim markers — the parser strips those
// before handing a byte range to the lexer (spec §4.1).
package lexer

import "github.com/walteh/gotmpl/pkg/span"

// Kind identifies a token's lexical category.
type Kind int

const (
	Identifier Kind = iota
	StringLit
	RawStringLit
	NumberLit
	Dot
	Pipe
	Comma
	Colon
	Assign    // "="
	Declare   // ":="
	Eq        // "=="
	Ne        // "!="
	Lt        // "<"
	Le        // "<="
	Gt        // ">"
	Ge        // ">="
	LParen
	RParen
	LBracket
	RBracket

	KeywordIf
	KeywordElse
	KeywordEnd
	KeywordRange
	KeywordWith
	KeywordNil
	KeywordTrue
	KeywordFalse
)

func (k Kind) String() string {
	switch k {
	case Identifier:
		return "identifier"
	case StringLit:
		return "string"
	case RawStringLit:
		return "raw string"
	case NumberLit:
		return "number"
	case Dot:
		return "."
	case Pipe:
		return "|"
	case Comma:
		return ","
	case Colon:
		return ":"
	case Assign:
		return "="
	case Declare:
		return ":="
	case Eq:
		return "=="
	case Ne:
		return "!="
	case Lt:
		return "<"
	case Le:
		return "<="
	case Gt:
		return ">"
	case Ge:
		return ">="
	case LParen:
		return "("
	case RParen:
		return ")"
	case LBracket:
		return "["
	case RBracket:
		return "]"
	case KeywordIf:
		return "if"
	case KeywordElse:
		return "else"
	case KeywordEnd:
		return "end"
	case KeywordRange:
		return "range"
	case KeywordWith:
		return "with"
	case KeywordNil:
		return "nil"
	case KeywordTrue:
		return "true"
	case KeywordFalse:
		return "false"
	default:
		return "?"
	}
}

// Token is a single lexed unit: its kind, its absolute byte span in the
// original template source, and its literal text. For StringLit, Text
// holds the decoded value (escapes resolved); for RawStringLit, Text holds
// the raw contents verbatim; for everything else Text is the source slice.
type Token struct {
	Kind Kind
	Span span.Span
	Text string
}

var keywords = map[string]Kind{
	"if":    KeywordIf,
	"else":  KeywordElse,
	"end":   KeywordEnd,
	"range": KeywordRange,
	"with":  KeywordWith,
	"nil":   KeywordNil,
	"true":  KeywordTrue,
	"false": KeywordFalse,
}
