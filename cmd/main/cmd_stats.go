package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/CTAG07/Parrot/pkg/markov"
	"github.com/CTAG07/Parrot/pkg/source"
	"github.com/spf13/cobra"
)

// buildChain reads the named sources and builds a chain with the tokenizer
// settings resolved from config and flags.
func buildChain(cmd *cobra.Command, args []string, root *rootOptions, flags *chainFlags) (*markov.Chain, error) {
	config, err := root.load(cmd)
	if err != nil {
		return nil, err
	}
	flags.apply(cmd, config)

	text, err := source.Read(args)
	if err != nil {
		return nil, err
	}
	return markov.BuildChains(text, config.Generator.TokenizerOptions()...), nil
}

func newStatsCmd(root *rootOptions) *cobra.Command {
	flags := &chainFlags{}
	cmd := &cobra.Command{
		Use:   "stats [files...]",
		Short: "Show statistics for the chain built from the given files",
		Long: `Build a chain from the given files and print its size.

Dead ends are the word pairs a walk can reach that have no successor; a chain
with none can only be stopped by a budget, --max-steps or an interrupt.

Examples:
  parrot stats corpus.txt
  parrot stats --lowercase --strip-punctuation a.txt b.txt`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			chain, err := buildChain(cmd, args, root, flags)
			if err != nil {
				return err
			}
			stats := chain.Stats()

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "Keys:\t%d\n", stats.Keys)
			fmt.Fprintf(w, "Transitions:\t%d\n", stats.Transitions)
			fmt.Fprintf(w, "Vocabulary:\t%d\n", stats.Vocabulary)
			fmt.Fprintf(w, "Dead ends:\t%d\n", stats.DeadEnds)
			fmt.Fprintf(w, "Max fan-out:\t%d\n", stats.MaxFanOut)
			return w.Flush()
		},
	}
	flags.register(cmd)
	return cmd
}
