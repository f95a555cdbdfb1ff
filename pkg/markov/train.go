package markov

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// chainBuilder slides a three-word window over a stream of words, recording
// the third word of each window as a successor of the first two.
type chainBuilder struct {
	chain  *Chain
	window [Order]string
	filled int
	tokens int
}

func newChainBuilder() *chainBuilder {
	return &chainBuilder{chain: NewChain()}
}

// push feeds the next word into the window.
func (b *chainBuilder) push(word string) {
	b.tokens++
	if b.filled < Order {
		b.window[b.filled] = word
		b.filled++
		return
	}
	key := Bigram{First: b.window[0], Second: b.window[1]}
	b.chain.Append(key, word)
	b.window[0], b.window[1] = b.window[1], word
}

// BuildChains normalizes text with a DefaultTokenizer configured by opts and
// returns the chain of every consecutive word pair to the words that followed
// it. Text with fewer than three words yields an empty chain.
func BuildChains(text string, opts ...Option) *Chain {
	builder := newChainBuilder()
	for _, word := range NewDefaultTokenizer(opts...).Tokenize(text) {
		builder.push(word)
	}
	return builder.chain
}

// Train reads a stream of text from an io.Reader, tokenizes it with the
// generator's tokenizer, and returns the resulting chain. It stops early with
// the context's error if ctx is cancelled.
func (g *Generator) Train(ctx context.Context, data io.Reader) (*Chain, error) {
	// checkEvery bounds how often the context is polled while reading.
	const checkEvery = 1024

	builder := newChainBuilder()
	stream := g.tokenizer.NewStream(data)

	for {
		word, err := stream.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("tokenizer error: %w", err)
		}
		builder.push(word)

		if builder.tokens%checkEvery == 0 {
			if err = ctx.Err(); err != nil {
				return nil, err
			}
		}
	}

	stats := builder.chain.Stats()
	g.logger.InfoContext(ctx, "Training completed",
		slog.Int("tokens_processed", builder.tokens),
		slog.Int("keys", stats.Keys),
		slog.Int("transitions", stats.Transitions),
	)

	return builder.chain, nil
}
