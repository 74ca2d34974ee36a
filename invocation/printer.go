package invocation

import (
	"bytes"
	"go/ast"
	"go/printer"
	"go/token"
)

// Printer renders an expression as text. Implementations must return equal
// text for equal trees, or identical messages stop sharing an identifier.
type Printer func(ast.Expr) string

var canonicalConfig = printer.Config{Mode: printer.UseSpaces, Tabwidth: 8}

// CanonicalPrinter reprints expr with go/printer against an empty file set.
// With no position information every expression prints on a single line with
// gofmt spacing, so the original whitespace and line breaks do not matter.
func CanonicalPrinter(expr ast.Expr) string {
	var buf bytes.Buffer
	// Writes into a bytes.Buffer cannot fail.
	_ = canonicalConfig.Fprint(&buf, token.NewFileSet(), expr)
	return buf.String()
}
