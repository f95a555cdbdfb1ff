package markov

import (
	"context"
	"log/slog"
)

// GenerateStream performs one random walk over chain and returns a read-only
// channel of Tokens, one per generated word. Each token's Text carries the
// separator that precedes it, so concatenating every Text yields the same
// string Generate would return for the same random draws. The final token has
// EOC set and includes the end-of-chain suffix.
//
// A bounded policy stops the stream at the first word that would exceed the
// budget; PolicyTruncatedWords and PolicyBudgetedWalk behave identically here.
// The channel is closed once generation is complete or the context is
// cancelled. ErrEmptyChain is returned synchronously.
func (g *Generator) GenerateStream(ctx context.Context, chain *Chain, opts ...GenerateOption) (<-chan Token, error) {
	options, err := newGenerateOptions(opts)
	if err != nil {
		return nil, err
	}
	w, err := g.startWalk(chain)
	if err != nil {
		return nil, err
	}

	var line *budgetLine
	if options.policy.bounded() {
		line = g.newBudgetLine(options.budget)
	}

	tokenChan := make(chan Token)

	go func() {
		defer close(tokenChan)

		send := func(tok Token) bool {
			select {
			case <-ctx.Done():
				return false
			case tokenChan <- tok:
				return true
			}
		}

		// Hold one word back so the last one can be flagged as EOC.
		var pending string
		var havePending, first = false, true
		yield := func(word string) bool {
			if havePending {
				if !send(Token{Text: pending}) {
					return false
				}
			}
			if first {
				pending = word
				first = false
			} else {
				pending = g.tokenizer.Separator() + word
			}
			havePending = true
			return true
		}

		if err := g.walkWords(ctx, w, options.maxSteps, line, yield); err != nil {
			g.logger.DebugContext(ctx, "Generation stream cancelled by context", slog.Any("error", err))
			return
		}
		if ctx.Err() != nil {
			return
		}
		if havePending {
			send(Token{Text: pending + g.tokenizer.EOC(), EOC: true})
		}
	}()

	return tokenChan, nil
}
