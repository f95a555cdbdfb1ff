package main

import (
	"github.com/spf13/cobra"
)

func newChainsCmd(root *rootOptions) *cobra.Command {
	flags := &chainFlags{}
	cmd := &cobra.Command{
		Use:   "chains [files...]",
		Short: "Dump the chain built from the given files as JSON",
		Long: `Build a chain from the given files and write every word pair with its
successors as JSON, in the order the pairs first appeared.

The dump is for inspection only; parrot never reads it back.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			chain, err := buildChain(cmd, args, root, flags)
			if err != nil {
				return err
			}
			return chain.Export(cmd.OutOrStdout())
		},
	}
	flags.register(cmd)
	return cmd
}
