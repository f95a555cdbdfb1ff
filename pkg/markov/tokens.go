package markov

import (
	"io"
)

// Token represents a single generated or tokenized word. EOC marks the final
// token of a generated stream, whose Text already carries the configured
// end-of-chain suffix.
type Token struct {
	Text string
	EOC  bool
}

// Tokenizer is an interface that defines the contract for splitting input text
// into normalized words. This allows the chain builder to be independent of the
// specific normalization strategy.
type Tokenizer interface {
	// NewStream returns a stateful StreamTokenizer for processing an io.Reader.
	NewStream(io.Reader) StreamTokenizer
	// Separator returns the string used to join two generated words.
	Separator() string
	// EOC returns the suffix appended to a finished, non-empty generation.
	EOC() string
}

// StreamTokenizer is an interface for a stateful tokenizer that processes a
// stream of data, returning one word at a time.
type StreamTokenizer interface {
	// Next returns the next normalized word from the stream. It returns io.EOF
	// as the error when the stream is fully consumed.
	Next() (string, error)
}
