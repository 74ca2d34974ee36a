package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/chazu/anchor/manifest"
	"github.com/chazu/anchor/scan"
	"github.com/chazu/anchor/table"
)

func newGenerateCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "generate [packages...]",
		Short: "Scan packages and write their static-string tables",
		Long: `Scan the given package patterns (default: [generate] packages in anchor.toml)
for macro calls, write one table per package and, if configured, the
host dictionary.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, opts, args)
		},
	}
}

// loadManifest finds anchor.toml above dir, falling back to defaults rooted at dir.
func loadManifest(dir string) (*manifest.Manifest, error) {
	m, err := manifest.FindAndLoad(dir)
	if err != nil {
		return nil, fmt.Errorf("loading manifest: %w", err)
	}
	if m != nil {
		return m, nil
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	log.Infof("no %s found, using defaults in %s", manifest.FileName, abs)
	return manifest.Default(abs), nil
}

func runGenerate(cmd *cobra.Command, opts *rootOptions, patterns []string) error {
	m, err := loadManifest(opts.Dir)
	if err != nil {
		return err
	}
	namer, err := m.Namer()
	if err != nil {
		return err
	}
	if len(patterns) == 0 {
		patterns = m.Generate.Packages
	}

	s := scan.New(m.Generate.Macros...)
	s.Workers = m.Generate.Workers
	pkgs, err := s.Load(cmd.Context(), m.Dir, patterns...)
	if err != nil {
		return err
	}

	stderr := cmd.ErrOrStderr()
	tab := table.New(namer)
	failed := 0
	for _, p := range pkgs {
		for _, site := range p.Failed() {
			fmt.Fprintln(stderr, site.Err)
			failed++
		}
		for _, err := range tab.AddSites(p.Sites) {
			fmt.Fprintln(stderr, err)
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d invocation(s) failed", failed)
	}

	for _, p := range pkgs {
		if err := writePackageTable(cmd.OutOrStdout(), tab, p, m.Generate.Output); err != nil {
			return err
		}
	}

	path := m.DictionaryPath()
	if path == "" {
		return nil
	}
	dict, err := table.NewDictionary(namer.Prefix, tab.Entries())
	if err != nil {
		return err
	}
	data, err := dict.Marshal(table.Format(m.Generate.Format))
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating dictionary dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d entries, version %s)\n", path, len(dict.StaticStrings), dict.Version)
	return nil
}

// writePackageTable writes the generated file for p, or removes a stale one
// when the package no longer has any invocation.
func writePackageTable(out io.Writer, tab *table.Table, p *scan.Package, output string) error {
	if p.Dir == "" {
		return nil
	}
	path := filepath.Join(p.Dir, output)
	entries := tab.EntriesFor(p.Sites)

	if len(entries) == 0 {
		old, err := os.ReadFile(path)
		if err != nil || !bytes.HasPrefix(old, []byte("// "+table.Header)) {
			return nil
		}
		log.Infof("removing stale %s", path)
		return os.Remove(path)
	}

	code, err := table.GenerateGo(p.Name, entries)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, code, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	fmt.Fprintf(out, "wrote %s (%d entries)\n", path, len(entries))
	return nil
}
