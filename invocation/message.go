// Package invocation parses the arguments of a static-string macro call,
//
//	"shutdown reason", clock
//	status.AsStaticStr(), clock
//
// into an Invocation: a classified Message and an opaque clock expression.
package invocation

import (
	"go/ast"
	"go/token"

	"github.com/chazu/anchor/symbol"
)

// Kind tags the active variant of a Message.
type Kind uint8

const (
	KindLiteral Kind = iota
	KindExpression
)

var kindNames = map[Kind]string{
	KindLiteral:    "literal",
	KindExpression: "expression",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Message is either a string literal or an expression whose value provides a
// static string at runtime. The variant is fixed at construction.
type Message struct {
	kind    Kind
	text    string
	expr    ast.Expr
	printer Printer
}

// Literal returns a literal message holding text verbatim.
func Literal(text string) Message {
	return Message{kind: KindLiteral, text: text}
}

// Expression returns an expression message. Its identity for naming is the
// text printer produces for expr; a nil printer means CanonicalPrinter.
func Expression(expr ast.Expr, printer Printer) Message {
	if printer == nil {
		printer = CanonicalPrinter
	}
	return Message{kind: KindExpression, expr: expr, printer: printer}
}

// Kind reports which variant m holds.
func (m Message) Kind() Kind { return m.kind }

// IsLiteral reports whether m is a string literal message.
func (m Message) IsLiteral() bool { return m.kind == KindLiteral }

// IsExpression reports whether m is an expression message.
func (m Message) IsExpression() bool { return m.kind == KindExpression }

// Text is the unquoted literal value; empty for expression messages.
func (m Message) Text() string { return m.text }

// Expr is the parsed expression; nil for literal messages.
func (m Message) Expr() ast.Expr { return m.expr }

// Source is the text identifying the message: the literal value itself, or
// the canonical reprint of the expression.
func (m Message) Source() string {
	if m.kind == KindExpression {
		return m.printer(m.expr)
	}
	return m.text
}

// Content is the byte sequence the identifier is derived from.
func (m Message) Content() []byte {
	return []byte(m.Source())
}

// Identifier names the message with n. A literal and an expression whose
// reprint equals that literal get the same identifier.
func (m Message) Identifier(n symbol.Namer) symbol.Identifier {
	return n.Name(m.Content())
}

// Invocation is one parsed macro call.
type Invocation struct {
	Message Message

	// Clock is passed through untouched; ClockSource is its original spelling.
	Clock       ast.Expr
	ClockSource string

	// Pos is where the argument list starts.
	Pos token.Position
}
