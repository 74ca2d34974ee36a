// Package symbol derives program identifiers from arbitrary message content.
//
// Every content byte is expanded into two letters, one per nibble, taken from
// the sixteen letters starting at 'A' (or 'a'). The expansion is reversible,
// so two distinct contents can never share an identifier, and the result
// never contains anything but letters after the prefix.
package symbol

import (
	"fmt"
	"go/token"
	"strings"
)

// DefaultPrefix is prepended to every encoded body unless a Namer says otherwise.
const DefaultPrefix = "STATIC_STRING_"

// Identifier is a generated symbol name: a prefix followed by an encoded body.
type Identifier string

func (id Identifier) String() string { return string(id) }

// Encode expands content into its letter body. Upper selects the 'A' base,
// otherwise 'a' is used.
func Encode(content []byte, upper bool) string {
	return string(AppendEncode(make([]byte, 0, 2*len(content)), content, upper))
}

// AppendEncode appends the letter body of content to dst.
func AppendEncode(dst, content []byte, upper bool) []byte {
	base := byte('a')
	if upper {
		base = 'A'
	}
	for _, b := range content {
		dst = append(dst, base+(b>>4)&0xF, base+b&0xF)
	}
	return dst
}

// Decode reverses Encode. Either letter case is accepted, even mixed; any
// letter outside a-p / A-P or an odd-length body is an error.
func Decode(body string) ([]byte, error) {
	if len(body)%2 != 0 {
		return nil, fmt.Errorf("symbol: odd body length %d", len(body))
	}
	out := make([]byte, len(body)/2)
	for i := 0; i < len(body); i += 2 {
		hi, ok := nibble(body[i])
		if !ok {
			return nil, fmt.Errorf("symbol: invalid letter %q at offset %d", body[i], i)
		}
		lo, ok := nibble(body[i+1])
		if !ok {
			return nil, fmt.Errorf("symbol: invalid letter %q at offset %d", body[i+1], i+1)
		}
		out[i/2] = hi<<4 | lo
	}
	return out, nil
}

func nibble(c byte) (byte, bool) {
	switch {
	case c >= 'A' && c <= 'P':
		return c - 'A', true
	case c >= 'a' && c <= 'p':
		return c - 'a', true
	}
	return 0, false
}

// Namer turns content into identifiers with a fixed prefix and letter case.
// The zero value has an empty prefix; use DefaultNamer or NewNamer.
type Namer struct {
	Prefix string
	Upper  bool
}

// DefaultNamer uses DefaultPrefix and upper-case letters.
var DefaultNamer = Namer{Prefix: DefaultPrefix, Upper: true}

// NewNamer returns a Namer after checking that prefix is itself a valid Go
// identifier, which keeps every generated name a valid identifier too.
func NewNamer(prefix string, upper bool) (Namer, error) {
	if !token.IsIdentifier(prefix) {
		return Namer{}, fmt.Errorf("symbol: prefix %q is not a valid identifier", prefix)
	}
	return Namer{Prefix: prefix, Upper: upper}, nil
}

// Name returns the identifier for content. Empty content yields the bare prefix.
func (n Namer) Name(content []byte) Identifier {
	buf := make([]byte, 0, len(n.Prefix)+2*len(content))
	buf = append(buf, n.Prefix...)
	return Identifier(AppendEncode(buf, content, n.Upper))
}

// NameString is Name over the UTF-8 bytes of s.
func (n Namer) NameString(s string) Identifier {
	return n.Name([]byte(s))
}

// Content recovers the bytes an identifier was derived from.
func (n Namer) Content(id Identifier) ([]byte, error) {
	body, ok := strings.CutPrefix(string(id), n.Prefix)
	if !ok {
		return nil, fmt.Errorf("symbol: %q does not start with prefix %q", id, n.Prefix)
	}
	return Decode(body)
}
