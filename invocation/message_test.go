package invocation

import (
	"go/ast"
	"testing"

	"github.com/chazu/anchor/symbol"
)

func TestMessageTagExclusive(t *testing.T) {
	msgs := []Message{
		Literal(""),
		Literal("shutdown reason"),
		Expression(ast.NewIdent("status"), nil),
		Expression(&ast.BasicLit{Value: `"quoted"`}, CanonicalPrinter),
	}
	for _, m := range msgs {
		if m.IsLiteral() == m.IsExpression() {
			t.Errorf("%s message: IsLiteral=%v IsExpression=%v", m.Kind(), m.IsLiteral(), m.IsExpression())
		}
	}
}

func TestKindString(t *testing.T) {
	if KindLiteral.String() != "literal" || KindExpression.String() != "expression" {
		t.Errorf("kind names: %s, %s", KindLiteral, KindExpression)
	}
	if Kind(9).String() != "unknown" {
		t.Errorf("Kind(9) = %s", Kind(9))
	}
}

func TestLiteralIdentifier(t *testing.T) {
	a := Literal("Timer too close").Identifier(symbol.DefaultNamer)
	b := Literal("Timer too close").Identifier(symbol.DefaultNamer)
	if a != b {
		t.Errorf("equal literals named %q and %q", a, b)
	}
	if c := Literal("Timer too close ").Identifier(symbol.DefaultNamer); c == a {
		t.Errorf("distinct literals share %q", a)
	}
	if got := Literal("").Identifier(symbol.DefaultNamer); got != symbol.DefaultPrefix {
		t.Errorf("empty literal = %q, want %q", got, symbol.DefaultPrefix)
	}
}

func TestExpressionIdentifierUsesReprint(t *testing.T) {
	inv, err := ParseString("status.as_static_str(), clk")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	want := symbol.DefaultNamer.NameString("status.as_static_str()")
	if got := inv.Message.Identifier(symbol.DefaultNamer); got != want {
		t.Errorf("identifier = %q, want %q", got, want)
	}
	if string(inv.Message.Content()) != "status.as_static_str()" {
		t.Errorf("content = %q", inv.Message.Content())
	}
}

// Literal and expression namespaces meet only on byte-identical content.
func TestLiteralExpressionNamespaces(t *testing.T) {
	n := symbol.DefaultNamer

	lit, err := ParseString(`"status", clk`)
	if err != nil {
		t.Fatal(err)
	}
	expr, err := ParseString(`status, clk`)
	if err != nil {
		t.Fatal(err)
	}
	if lit.Message.Identifier(n) != expr.Message.Identifier(n) {
		t.Error("literal \"status\" and expression status should share an identifier")
	}

	lit, err = ParseString(`"status . str()", clk`)
	if err != nil {
		t.Fatal(err)
	}
	expr, err = ParseString(`status . str(), clk`)
	if err != nil {
		t.Fatal(err)
	}
	if lit.Message.Identifier(n) == expr.Message.Identifier(n) {
		t.Error("literal text is not canonicalized; identifiers should differ")
	}
}

func TestMessageLowerCaseNamer(t *testing.T) {
	n := symbol.Namer{Prefix: "msg_", Upper: false}
	if got := Literal("A").Identifier(n); got != "msg_eb" {
		t.Errorf("identifier = %q, want %q", got, "msg_eb")
	}
}
