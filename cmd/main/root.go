package main

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// rootOptions holds the flags shared by every command.
type rootOptions struct {
	configPath string
	logLevel   string
}

// NewRootCmd creates the parrot command tree. Run without a subcommand, parrot
// generates text from the files named as arguments.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	gen := &generateFlags{}

	cmd := &cobra.Command{
		Use:   "parrot [files...]",
		Short: "Generate text from a second-order Markov chain",
		Long: `Parrot builds a chain of every pair of consecutive words in the input
to the words that followed that pair, then walks the chain from a random
pair to produce new text.

Use "-" to read standard input. Running parrot with files and no subcommand
is the same as "parrot generate" and accepts the same flags; see
"parrot generate --help" for them.

Examples:
  parrot corpus.txt
  parrot --policy budgeted --lowercase --strip-punctuation a.txt b.txt
  cat corpus.txt | parrot --policy truncated --eoc . -`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, args, opts, gen)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "JSON config file, created with defaults if missing")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level: debug, info, warn or error")
	// The root takes the generate flags so "parrot [flags] files..." works, but
	// they are listed only under "parrot generate --help".
	gen.register(cmd)
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		f.Hidden = true
	})

	cmd.AddCommand(
		newGenerateCmd(opts, gen),
		newStatsCmd(opts),
		newChainsCmd(opts),
		newHistoryCmd(opts),
		newVersionCmd(),
	)

	return cmd
}

// load resolves the configuration for a command: defaults, then the config
// file, then the environment, then the root flags.
func (o *rootOptions) load(cmd *cobra.Command) (*Config, error) {
	config := DefaultConfig()
	if o.configPath != "" {
		var err error
		if config, err = LoadConfig(o.configPath); err != nil {
			return nil, err
		}
	}
	config.ApplyEnv()
	if cmd.Flags().Changed("log-level") {
		config.LogLevel = o.logLevel
	}
	return config, nil
}

// newLogger returns a text logger writing to w at the configured level.
// Logs never go to stdout, which carries only generated text.
func newLogger(level string, w io.Writer) *slog.Logger {
	logLevel, _ := parseLogLevel(level)
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: logLevel}))
}
