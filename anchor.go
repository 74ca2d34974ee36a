// Package anchor holds the runtime side of generated static-string tables.
//
// anchorgen scans firmware sources for macro calls such as
//
//	anchor.Shutdown("shutdown reason", clock)
//	anchor.Shutdown(status, clock)
//
// and emits one StaticString per distinct message. The second form requires
// status to implement StaticStringProvider.
package anchor

// StaticStringProvider is implemented by values, typically enums, that can
// stand in for a literal message.
type StaticStringProvider interface {
	// AsStaticStr returns a string fixed for the life of the program.
	AsStaticStr() string
}

// StaticString is one entry of a generated table. Text is set for literal
// messages; Expr holds the canonical source of an expression message, whose
// text is only known at runtime.
type StaticString struct {
	ID   uint16
	Text string
	Expr string
}

// AsStaticStr returns the literal text. It is empty for expression entries:
// their text comes from the message value at the call site, which Resolve
// reads through its own AsStaticStr.
func (s *StaticString) AsStaticStr() string { return s.Text }

// IsExpr reports whether the entry came from an expression message.
func (s *StaticString) IsExpr() bool { return s.Expr != "" }

// Table is the generated list of entries, ordered by ID.
type Table []*StaticString

// Lookup returns the entry with the given ID.
func (t Table) Lookup(id uint16) (*StaticString, bool) {
	if int(id) < len(t) && t[id] != nil && t[id].ID == id {
		return t[id], true
	}
	for _, s := range t {
		if s != nil && s.ID == id {
			return s, true
		}
	}
	return nil, false
}

// Resolve returns the runtime text of p. For an expression entry the text
// comes from the value itself.
func Resolve(p StaticStringProvider) string {
	if p == nil {
		return ""
	}
	return p.AsStaticStr()
}
