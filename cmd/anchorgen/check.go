package main

import (
	"fmt"
	"go/token"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/chazu/anchor/scan"
	"github.com/chazu/anchor/table"
)

func newCheckCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check FILE...",
		Short: "Parse macro calls in Go files and print their identifiers",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadManifest(opts.Dir)
			if err != nil {
				return err
			}
			namer, err := m.Namer()
			if err != nil {
				return err
			}

			s := scan.New(m.Generate.Macros...)
			s.Workers = m.Generate.Workers
			tab := table.New(namer)
			fset := token.NewFileSet()
			out, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()

			failed := 0
			for _, name := range args {
				src, err := os.ReadFile(name)
				if err != nil {
					return err
				}
				sites, err := s.ScanFile(cmd.Context(), fset, name, src)
				if err != nil {
					return err
				}
				for _, site := range sites {
					if site.Err != nil {
						fmt.Fprintln(stderr, site.Err)
						failed++
						continue
					}
					id, err := tab.Add(site.Invocation, site.Pos)
					if err != nil {
						fmt.Fprintln(stderr, err)
						failed++
						continue
					}
					msg := site.Invocation.Message
					text := msg.Source()
					if msg.IsLiteral() {
						text = strconv.Quote(text)
					}
					fmt.Fprintf(out, "%s: %s %s %s\n", site.Pos, id, msg.Kind(), text)
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d invocation(s) failed", failed)
			}
			fmt.Fprintf(out, "%d distinct message(s)\n", tab.Len())
			return nil
		},
	}
}
