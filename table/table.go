// Package table collects named messages into a deduplicated static-string
// table and renders it as Go source and as a host-side dictionary.
package table

import (
	"fmt"
	"go/token"
	"sort"

	"github.com/tliron/commonlog"

	"github.com/chazu/anchor/invocation"
	"github.com/chazu/anchor/scan"
	"github.com/chazu/anchor/symbol"
)

// log is looked up per call so a backend registered after this package is
// initialized still takes effect.
func log() commonlog.Logger { return commonlog.GetLogger("anchor.table") }

// MaxEntries is the number of distinct IDs a table can hand out.
const MaxEntries = 1 << 16

// Entry is one distinct message. Text is the literal value for literal
// messages and the canonical source for expression messages.
type Entry struct {
	ID         uint16
	Identifier symbol.Identifier
	Kind       invocation.Kind
	Text       string
	Sites      []token.Position
}

// ConflictError is returned when one identifier is reached by a literal and
// by an expression, e.g. "status" and status.
type ConflictError struct {
	Identifier symbol.Identifier
	Existing   invocation.Kind
	Incoming   invocation.Kind
	Pos        token.Position
	First      token.Position
}

func (e *ConflictError) Error() string {
	msg := fmt.Sprintf("%s message names %s, already taken by the %s message", e.Incoming, e.Identifier, e.Existing)
	if e.First.IsValid() {
		msg += " at " + e.First.String()
	}
	if e.Pos.IsValid() {
		return e.Pos.String() + ": " + msg
	}
	return msg
}

// Table maps identifiers to entries. Adding the same content twice only
// records another site.
type Table struct {
	namer   symbol.Namer
	entries map[symbol.Identifier]*Entry
}

// New returns an empty table naming messages with namer.
func New(namer symbol.Namer) *Table {
	return &Table{namer: namer, entries: make(map[symbol.Identifier]*Entry)}
}

// Namer returns the namer the table was created with.
func (t *Table) Namer() symbol.Namer { return t.namer }

// Len returns the number of distinct entries.
func (t *Table) Len() int { return len(t.entries) }

// Add records inv, found at pos, and returns its identifier.
func (t *Table) Add(inv *invocation.Invocation, pos token.Position) (symbol.Identifier, error) {
	msg := inv.Message
	id := msg.Identifier(t.namer)

	if e, ok := t.entries[id]; ok {
		if e.Kind != msg.Kind() {
			var first token.Position
			if len(e.Sites) > 0 {
				first = e.Sites[0]
			}
			return id, &ConflictError{Identifier: id, Existing: e.Kind, Incoming: msg.Kind(), Pos: pos, First: first}
		}
		e.Sites = append(e.Sites, pos)
		return id, nil
	}

	if len(t.entries) >= MaxEntries {
		return id, fmt.Errorf("%s: static-string table is full (%d entries)", pos, MaxEntries)
	}
	t.entries[id] = &Entry{
		Identifier: id,
		Kind:       msg.Kind(),
		Text:       msg.Source(),
		Sites:      []token.Position{pos},
	}
	log().Debugf("new entry %s for %s message %q", id, msg.Kind(), msg.Source())
	return id, nil
}

// AddSites adds every parsed site and returns the errors of those that could
// not be added. Sites that failed to parse are skipped.
func (t *Table) AddSites(sites []scan.Site) []error {
	var errs []error
	for _, s := range sites {
		if s.Err != nil {
			continue
		}
		if _, err := t.Add(s.Invocation, s.Pos); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// Entries returns every entry ordered by identifier, with IDs assigned in
// that order. The result depends only on the set of messages added.
func (t *Table) Entries() []Entry {
	out := make([]Entry, 0, len(t.entries))
	for _, e := range t.entries {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Identifier < out[j].Identifier })
	for i := range out {
		out[i].ID = uint16(i)
	}
	return out
}

// EntriesFor returns the entries referenced by sites, keeping the IDs
// assigned by Entries.
func (t *Table) EntriesFor(sites []scan.Site) []Entry {
	used := make(map[symbol.Identifier]bool)
	for _, s := range sites {
		if s.Err == nil {
			used[s.Invocation.Message.Identifier(t.namer)] = true
		}
	}
	var out []Entry
	for _, e := range t.Entries() {
		if used[e.Identifier] {
			out = append(out, e)
		}
	}
	return out
}
