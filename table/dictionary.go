package table

import (
	"encoding/json"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
)

// Format selects the dictionary encoding.
type Format string

const (
	FormatCBOR Format = "cbor"
	FormatJSON Format = "json"
)

// Dictionary is what the host needs to turn a static-string ID received from
// the firmware back into text.
type Dictionary struct {
	// Version identifies the table contents; equal tables share a version.
	Version       string            `cbor:"version" json:"version"`
	Prefix        string            `cbor:"prefix" json:"prefix"`
	StaticStrings []DictionaryEntry `cbor:"static_strings" json:"static_strings"`
}

type DictionaryEntry struct {
	ID   uint16 `cbor:"id" json:"id"`
	Name string `cbor:"name" json:"name"`
	Kind string `cbor:"kind" json:"kind"`
	Text string `cbor:"text" json:"text"`
}

// versionSpace is the UUID namespace dictionary versions are derived in.
var versionSpace = uuid.MustParse("6f1c7e52-3a4d-5b8e-9c20-7d41a8e0b3f6")

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("table: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// NewDictionary builds the dictionary for entries, as returned by
// Table.Entries.
func NewDictionary(prefix string, entries []Entry) (*Dictionary, error) {
	d := &Dictionary{
		Prefix:        prefix,
		StaticStrings: make([]DictionaryEntry, 0, len(entries)),
	}
	for _, e := range entries {
		d.StaticStrings = append(d.StaticStrings, DictionaryEntry{
			ID:   e.ID,
			Name: string(e.Identifier),
			Kind: e.Kind.String(),
			Text: e.Text,
		})
	}

	body, err := cborEncMode.Marshal(d.StaticStrings)
	if err != nil {
		return nil, fmt.Errorf("table: encode dictionary entries: %w", err)
	}
	d.Version = uuid.NewSHA1(versionSpace, body).String()
	return d, nil
}

// Marshal encodes the dictionary in format f.
func (d *Dictionary) Marshal(f Format) ([]byte, error) {
	switch f {
	case FormatCBOR:
		return cborEncMode.Marshal(d)
	case FormatJSON:
		data, err := json.MarshalIndent(d, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	}
	return nil, fmt.Errorf("table: unknown dictionary format %q", f)
}

// UnmarshalDictionary decodes a dictionary written by Marshal.
func UnmarshalDictionary(data []byte, f Format) (*Dictionary, error) {
	var d Dictionary
	var err error
	switch f {
	case FormatCBOR:
		err = cbor.Unmarshal(data, &d)
	case FormatJSON:
		err = json.Unmarshal(data, &d)
	default:
		return nil, fmt.Errorf("table: unknown dictionary format %q", f)
	}
	if err != nil {
		return nil, fmt.Errorf("table: unmarshal dictionary: %w", err)
	}
	return &d, nil
}

// Lookup returns the entry with the given ID.
func (d *Dictionary) Lookup(id uint16) (DictionaryEntry, bool) {
	for _, e := range d.StaticStrings {
		if e.ID == id {
			return e, true
		}
	}
	return DictionaryEntry{}, false
}
