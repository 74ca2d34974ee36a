// Package manifest handles anchor.toml project configuration.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/chazu/anchor/symbol"
)

// FileName is the manifest file looked up by Load and FindAndLoad.
const FileName = "anchor.toml"

// Manifest represents an anchor.toml configuration.
type Manifest struct {
	Generate Generate `toml:"generate" json:"generate"`
	Naming   Naming   `toml:"naming" json:"naming"`

	// Dir is the directory containing the anchor.toml file (set at load time).
	Dir string `toml:"-" json:"-"`
}

// Generate configures which calls are scanned and where output goes.
type Generate struct {
	Macros   []string `toml:"macros" json:"macros"`
	Packages []string `toml:"packages" json:"packages"`
	// Output is the file name written into each package directory.
	Output string `toml:"output" json:"output"`
	// Dictionary is relative to Dir; empty disables it.
	Dictionary string `toml:"dictionary" json:"dictionary"`
	Format     string `toml:"format" json:"format"`
	Workers    int    `toml:"workers" json:"workers"`
}

// Naming configures identifier generation.
type Naming struct {
	Prefix string `toml:"prefix" json:"prefix"`
	Case   string `toml:"case" json:"case"`
}

// Default returns the configuration used when no anchor.toml exists.
func Default(dir string) *Manifest {
	m := &Manifest{Dir: dir}
	m.applyDefaults()
	return m
}

// Load parses and validates the anchor.toml file in dir.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	m.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}

	m.applyDefaults()
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// FindAndLoad walks up from startDir to find an anchor.toml file,
// then loads and returns the manifest. Returns nil if no manifest is found.
func FindAndLoad(startDir string) (*Manifest, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, nil
		}
		dir = parent
	}
}

func (m *Manifest) applyDefaults() {
	if len(m.Generate.Macros) == 0 {
		m.Generate.Macros = []string{"anchor.Shutdown"}
	}
	if len(m.Generate.Packages) == 0 {
		m.Generate.Packages = []string{"./..."}
	}
	if m.Generate.Output == "" {
		m.Generate.Output = "static_strings_gen.go"
	}
	if m.Generate.Format == "" {
		if strings.HasSuffix(m.Generate.Dictionary, ".json") {
			m.Generate.Format = "json"
		} else {
			m.Generate.Format = "cbor"
		}
	}
	if m.Naming.Prefix == "" {
		m.Naming.Prefix = symbol.DefaultPrefix
	}
	if m.Naming.Case == "" {
		m.Naming.Case = "upper"
	}
}

// Namer returns the namer described by the [naming] section.
func (m *Manifest) Namer() (symbol.Namer, error) {
	return symbol.NewNamer(m.Naming.Prefix, m.Naming.Case != "lower")
}

// DictionaryPath returns the absolute dictionary path, or "" if disabled.
func (m *Manifest) DictionaryPath() string {
	if m.Generate.Dictionary == "" {
		return ""
	}
	if filepath.IsAbs(m.Generate.Dictionary) {
		return m.Generate.Dictionary
	}
	return filepath.Join(m.Dir, m.Generate.Dictionary)
}
