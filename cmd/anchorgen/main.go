// anchorgen generates static-string tables for anchor firmware.
package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
)

var log = commonlog.GetLogger("anchorgen")

// rootOptions holds global flags for all commands.
type rootOptions struct {
	Verbose int
	Dir     string
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "anchorgen",
		Short:         "Generate static-string tables from anchor macro calls",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			commonlog.Configure(opts.Verbose, nil)
		},
	}

	cmd.PersistentFlags().CountVarP(&opts.Verbose, "verbose", "v", "increase log verbosity (repeatable)")
	cmd.PersistentFlags().StringVarP(&opts.Dir, "dir", "C", ".", "project directory to search for anchor.toml")

	cmd.AddCommand(newGenerateCommand(opts))
	cmd.AddCommand(newCheckCommand(opts))
	cmd.AddCommand(newNameCommand())
	cmd.AddCommand(newDecodeCommand())

	return cmd
}
