package invocation

import (
	"go/token"
	"strings"
)

// SyntaxError reports an argument list that does not match
//
//	(STRING | Expr) "," Expr
//
// Pos is in the coordinates of the file the arguments came from.
type SyntaxError struct {
	Pos      token.Position
	Expected string
	Found    string
	// Detail carries the scanner or go/parser message when there is one.
	Detail string
}

func (e *SyntaxError) Error() string {
	var b strings.Builder
	if e.Pos.IsValid() {
		b.WriteString(e.Pos.String())
		b.WriteString(": ")
	}
	b.WriteString("expected ")
	b.WriteString(e.Expected)
	if e.Found != "" {
		b.WriteString(", found ")
		b.WriteString(e.Found)
	}
	if e.Detail != "" {
		b.WriteString(" (")
		b.WriteString(e.Detail)
		b.WriteString(")")
	}
	return b.String()
}
