package main

import (
	"fmt"
	"go/parser"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/chazu/anchor/invocation"
	"github.com/chazu/anchor/symbol"
)

type nameOptions struct {
	Prefix string
	Lower  bool
	Expr   bool
}

func newNameCommand() *cobra.Command {
	opts := &nameOptions{}
	cmd := &cobra.Command{
		Use:   "name TEXT",
		Short: "Print the identifier for a message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			namer, err := symbol.NewNamer(opts.Prefix, !opts.Lower)
			if err != nil {
				return err
			}
			msg := invocation.Literal(args[0])
			if opts.Expr {
				expr, err := parser.ParseExpr(args[0])
				if err != nil {
					return fmt.Errorf("parsing expression: %w", err)
				}
				msg = invocation.Expression(expr, nil)
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg.Identifier(namer))
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.Prefix, "prefix", symbol.DefaultPrefix, "identifier prefix")
	cmd.Flags().BoolVar(&opts.Lower, "lower", false, "encode with lower-case letters")
	cmd.Flags().BoolVar(&opts.Expr, "expr", false, "treat TEXT as a Go expression")
	return cmd
}

func newDecodeCommand() *cobra.Command {
	var prefix string
	cmd := &cobra.Command{
		Use:   "decode IDENTIFIER",
		Short: "Print the message an identifier was derived from",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := symbol.Namer{Prefix: prefix}.Content(symbol.Identifier(args[0]))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), strconv.Quote(string(content)))
			return nil
		},
	}
	cmd.Flags().StringVar(&prefix, "prefix", symbol.DefaultPrefix, "identifier prefix")
	return cmd
}
