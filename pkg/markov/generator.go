package markov

import (
	"io"
	"log/slog"
	"math/rand/v2"
	"sync"
)

// Generator is the main entry point for interacting with the Markov chain library.
// It holds a tokenizer used for training and joining output, a random source
// used by every walk, and a logger.
type Generator struct {
	tokenizer Tokenizer
	mu        sync.Mutex // guards rng
	rng       *rand.Rand
	logger    *slog.Logger
}

// NewGenerator creates and returns a new Generator. If tokenizer is nil a
// DefaultTokenizer is used. If src is nil the generator draws from a randomly
// seeded source; pass NewSeededSource for reproducible output.
func NewGenerator(tokenizer Tokenizer, src rand.Source) *Generator {
	if tokenizer == nil {
		tokenizer = NewDefaultTokenizer()
	}
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &Generator{
		tokenizer: tokenizer,
		rng:       rand.New(src),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// NewSeededSource returns a deterministic random source for seed.
func NewSeededSource(seed uint64) rand.Source {
	return rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
}

// SetLogger sets the logger for the Generator. By default, all logs are discarded.
// Providing a `log/slog.Logger` will enable logging for training and generation.
func (g *Generator) SetLogger(logger *slog.Logger) {
	if logger != nil {
		g.logger = logger
	}
}

// Tokenizer returns the tokenizer the generator was built with.
func (g *Generator) Tokenizer() Tokenizer {
	return g.tokenizer
}

// intN returns a uniform random int in [0, n).
func (g *Generator) intN(n int) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rng.IntN(n)
}
