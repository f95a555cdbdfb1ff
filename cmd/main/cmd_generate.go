package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"strings"

	"github.com/CTAG07/Parrot/pkg/markov"
	"github.com/CTAG07/Parrot/pkg/sink"
	"github.com/CTAG07/Parrot/pkg/source"
	"github.com/CTAG07/Parrot/pkg/templating"
	"github.com/spf13/cobra"
)

// chainFlags holds the flags that control how input text is tokenized.
type chainFlags struct {
	lowercase bool
	strip     bool
}

func (f *chainFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&f.lowercase, "lowercase", "l", false, "lower-case all input before building the chain")
	cmd.Flags().BoolVarP(&f.strip, "strip-punctuation", "s", false, "keep only letters in each word")
}

func (f *chainFlags) apply(cmd *cobra.Command, config *Config) {
	if cmd.Flags().Changed("lowercase") {
		config.Generator.Lowercase = f.lowercase
	}
	if cmd.Flags().Changed("strip-punctuation") {
		config.Generator.StripPunctuation = f.strip
	}
}

// generateFlags holds the flags of the generate command.
type generateFlags struct {
	chainFlags
	policy    string
	budget    int
	maxSteps  int
	eoc       string
	seed      uint64
	count     int
	format    string
	out       string
	historyDB string
	stream    bool
}

func (f *generateFlags) register(cmd *cobra.Command) {
	f.chainFlags.register(cmd)
	fl := cmd.Flags()
	fl.StringVarP(&f.policy, "policy", "p", markov.PolicyPlain.String(), "generation policy: plain, truncated or budgeted")
	fl.IntVarP(&f.budget, "budget", "b", markov.DefaultBudget, "character budget for the truncated and budgeted policies")
	fl.IntVar(&f.maxSteps, "max-steps", markov.DefaultMaxSteps, "maximum words drawn by one walk, 0 for no limit")
	fl.StringVar(&f.eoc, "eoc", "", `suffix appended to generated text, such as "."`)
	fl.Uint64Var(&f.seed, "seed", 0, "random seed for reproducible output, 0 picks one")
	fl.IntVarP(&f.count, "count", "n", 1, "number of texts to generate")
	fl.StringVar(&f.format, "format", "", `template for each output line, such as "{{.Seed}}: {{.Text}}"`)
	fl.StringVarP(&f.out, "out", "o", "", "also write the last generated text to this file")
	fl.StringVar(&f.historyDB, "history-db", "", "also record generated text in this SQLite database")
	fl.BoolVar(&f.stream, "stream", false, "print words as they are generated")
}

func (f *generateFlags) apply(cmd *cobra.Command, config *Config) {
	f.chainFlags.apply(cmd, config)
	fl := cmd.Flags()
	if fl.Changed("policy") {
		config.Generator.Policy = f.policy
	}
	if fl.Changed("budget") {
		config.Generator.Budget = f.budget
	}
	if fl.Changed("max-steps") {
		config.Generator.MaxSteps = f.maxSteps
	}
	if fl.Changed("eoc") {
		config.Generator.EOC = f.eoc
	}
	if fl.Changed("seed") {
		config.Generator.Seed = f.seed
	}
	if fl.Changed("format") {
		config.Output.Format = f.format
	}
	if fl.Changed("out") {
		config.Output.FilePath = f.out
	}
	if fl.Changed("history-db") {
		config.Output.HistoryDatabasePath = f.historyDB
	}
}

// newGenerateCmd builds the generate command. flags is shared with the root
// command, which runs the same generation when given files directly.
func newGenerateCmd(root *rootOptions, flags *generateFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate [files...]",
		Short: "Generate text from the given files",
		Long: `Build a chain from the given files and generate text by walking it.

Policies:
  plain      walk until a word pair has no successor (or --max-steps)
  truncated  walk like plain, then keep whole words under --budget characters
  budgeted   stop the walk at the first word that would reach --budget

Examples:
  parrot generate speech.txt
  parrot generate --policy budgeted --budget 280 --count 5 a.txt b.txt
  parrot generate --seed 42 --history-db history.db corpus.txt`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, args, root, flags)
		},
	}
	flags.register(cmd)
	return cmd
}

func runGenerate(cmd *cobra.Command, args []string, root *rootOptions, flags *generateFlags) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	config, err := root.load(cmd)
	if err != nil {
		return err
	}
	flags.apply(cmd, config)
	if err = config.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if flags.count <= 0 {
		return fmt.Errorf("count must be positive, got %d", flags.count)
	}
	logger := newLogger(config.LogLevel, cmd.ErrOrStderr())
	policy, _ := markov.ParsePolicy(config.Generator.Policy)

	text, err := source.Read(args)
	if err != nil {
		return err
	}

	seed := config.Generator.Seed
	for seed == 0 {
		seed = rand.Uint64()
	}
	tokenizer := markov.NewDefaultTokenizer(config.Generator.TokenizerOptions()...)
	trainer := markov.NewGenerator(tokenizer, nil)
	trainer.SetLogger(logger)

	chain, err := trainer.Train(ctx, strings.NewReader(text))
	if err != nil {
		return fmt.Errorf("failed to build chain: %w", err)
	}
	if chain.Len() == 0 {
		return fmt.Errorf("cannot generate from %s: %w", strings.Join(args, ", "), markov.ErrEmptyChain)
	}

	out, closeSinks, err := openSinks(cmd, config, logger, flags.stream)
	if err != nil {
		return err
	}
	defer closeSinks()

	opts := []markov.GenerateOption{
		markov.WithPolicy(policy),
		markov.WithBudget(config.Generator.Budget),
		markov.WithMaxSteps(config.Generator.MaxSteps),
	}

	logger.InfoContext(ctx, "Generating",
		slog.String("policy", policy.String()),
		slog.Uint64("seed", seed),
		slog.Int("count", flags.count),
	)

	for _, outputSeed := range outputSeeds(seed, flags.count) {
		walker := markov.NewGenerator(tokenizer, markov.NewSeededSource(outputSeed))
		walker.SetLogger(logger)

		var generated string
		if flags.stream {
			generated, err = streamTo(ctx, cmd.OutOrStdout(), walker, chain, opts)
		} else {
			generated, err = walker.Generate(ctx, chain, opts...)
		}
		if err != nil {
			if errors.Is(err, markov.ErrEmptyChain) {
				return fmt.Errorf("cannot generate from %s: %w", strings.Join(args, ", "), err)
			}
			return fmt.Errorf("generation failed: %w", err)
		}

		if err = out.Write(ctx, sink.Output{Text: generated, Policy: policy.String(), Seed: outputSeed}); err != nil {
			return err
		}
	}
	return nil
}

// outputSeeds returns one seed per output. The first is base itself, so a
// single run with --seed base repeats it; the rest are drawn from base. Every
// seed is non-zero, so each recorded output replays with --seed alone.
func outputSeeds(base uint64, n int) []uint64 {
	seeds := make([]uint64, 0, n)
	seeds = append(seeds, base)
	rng := rand.New(markov.NewSeededSource(base))
	for len(seeds) < n {
		if s := rng.Uint64(); s != 0 {
			seeds = append(seeds, s)
		}
	}
	return seeds
}

// openSinks builds the sinks a run writes to. Stdout is skipped when words
// are streamed to it directly, so streamed output is never formatted.
func openSinks(cmd *cobra.Command, config *Config, logger *slog.Logger, streaming bool) (sink.Sink, func(), error) {
	var sinks []sink.Sink
	var closers []func()
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	var formatter *templating.Formatter
	if config.Output.Format != "" {
		var err error
		if formatter, err = templating.NewFormatter(config.Output.Format); err != nil {
			return nil, nil, fmt.Errorf("invalid output format: %w", err)
		}
	}

	if !streaming {
		stdout := sink.NewWriterSink(cmd.OutOrStdout())
		stdout.SetFormatter(formatter)
		sinks = append(sinks, stdout)
	}
	if config.Output.FilePath != "" {
		file := sink.NewFileSink(config.Output.FilePath)
		file.SetFormatter(formatter)
		sinks = append(sinks, file)
	}
	if config.Output.HistoryDatabasePath != "" {
		history, closeHistory, err := openHistory(config.Output.HistoryDatabasePath)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		history.SetLogger(logger)
		sinks = append(sinks, history)
		closers = append(closers, closeHistory)
	}

	return sink.Multi(sinks...), closeAll, nil
}

// openHistory opens the history database, creating its schema if needed.
func openHistory(path string) (*sink.SQLSink, func(), error) {
	db, err := initDB(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open history database: %w", err)
	}
	if err = sink.SetupSchema(db); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to set up history schema: %w", err)
	}
	history, err := sink.NewSQLSink(db)
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to prepare history statements: %w", err)
	}
	return history, func() {
		history.Close()
		_ = db.Close()
	}, nil
}

// streamTo writes each generated word to w as it arrives and returns the full text.
func streamTo(ctx context.Context, w io.Writer, gen *markov.Generator, chain *markov.Chain, opts []markov.GenerateOption) (string, error) {
	tokens, err := gen.GenerateStream(ctx, chain, opts...)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	for tok := range tokens {
		sb.WriteString(tok.Text)
		if _, err = io.WriteString(w, tok.Text); err != nil {
			// Drain so the generating goroutine can finish.
			for range tokens {
			}
			return "", err
		}
	}
	if err = ctx.Err(); err != nil {
		return "", err
	}
	_, err = io.WriteString(w, "\n")
	return sb.String(), err
}
