package markov

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"
)

const (
	// DefaultBudget is the character budget used by the bounded policies.
	DefaultBudget = 140
	// DefaultMaxSteps bounds a plain walk so that a cyclic chain cannot run forever.
	DefaultMaxSteps = 10000
)

// ErrEmptyChain is returned when generation is asked to start from a chain
// with no entries, for example one built from fewer than three words.
var ErrEmptyChain = errors.New("markov: chain is empty, no starting pair available")

// Policy selects how a walk is terminated and shaped.
type Policy int

const (
	// PolicyPlain walks until it reaches a pair with no successors. A chain
	// containing a cycle with no exit would walk forever, so the walk is also
	// bounded by WithMaxSteps; hitting that bound returns the words so far.
	PolicyPlain Policy = iota
	// PolicyTruncatedWords runs a plain walk, then keeps whole words from its
	// start while the text stays under the budget.
	PolicyTruncatedWords
	// PolicyBudgetedWalk checks the budget before every word is appended and
	// stops the walk at the first word that would not fit.
	PolicyBudgetedWalk
)

var policyNames = map[Policy]string{
	PolicyPlain:          "plain",
	PolicyTruncatedWords: "truncated",
	PolicyBudgetedWalk:   "budgeted",
}

// String returns the name accepted by ParsePolicy.
func (p Policy) String() string {
	if name, ok := policyNames[p]; ok {
		return name
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

// ParsePolicy converts a policy name ("plain", "truncated" or "budgeted") to a Policy.
func ParsePolicy(name string) (Policy, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for p, n := range policyNames {
		if n == name {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown generation policy %q", name)
}

// bounded reports whether the policy enforces the character budget.
func (p Policy) bounded() bool {
	return p == PolicyTruncatedWords || p == PolicyBudgetedWalk
}

// generateOptions Is used by the generate functions to configure default options.
type generateOptions struct {
	policy   Policy
	budget   int
	maxSteps int
}

// GenerateOption is a function that configures generation parameters. It's used
// as a variadic argument in generation functions like Generate and GenerateStream.
type GenerateOption func(*generateOptions)

// WithPolicy selects the termination policy. Default: PolicyPlain.
func WithPolicy(p Policy) GenerateOption {
	return func(o *generateOptions) { o.policy = p }
}

// WithBudget sets the character budget of the bounded policies. Output under
// those policies is always strictly shorter than n characters.
// Default: DefaultBudget.
func WithBudget(n int) GenerateOption {
	return func(o *generateOptions) { o.budget = n }
}

// WithMaxSteps sets the maximum number of successors a plain walk may draw.
// A value of 0 or less removes the bound, which lets a cyclic chain walk
// forever unless the context is cancelled. Default: DefaultMaxSteps.
func WithMaxSteps(n int) GenerateOption {
	return func(o *generateOptions) { o.maxSteps = n }
}

func newGenerateOptions(opts []GenerateOption) (*generateOptions, error) {
	options := &generateOptions{
		policy:   PolicyPlain,
		budget:   DefaultBudget,
		maxSteps: DefaultMaxSteps,
	}
	for _, opt := range opts {
		opt(options)
	}
	if _, ok := policyNames[options.policy]; !ok {
		return nil, fmt.Errorf("unknown generation policy %d", int(options.policy))
	}
	if options.policy.bounded() && options.budget <= 0 {
		return nil, fmt.Errorf("budget must be positive, got %d", options.budget)
	}
	return options, nil
}

// Generate performs one random walk over chain and returns the generated text.
// The walk starts from a uniformly chosen pair and repeatedly appends a
// uniformly chosen successor of the last two words. It fails with
// ErrEmptyChain if chain has no entries.
func (g *Generator) Generate(ctx context.Context, chain *Chain, opts ...GenerateOption) (string, error) {
	options, err := newGenerateOptions(opts)
	if err != nil {
		return "", err
	}
	w, err := g.startWalk(chain)
	if err != nil {
		return "", err
	}

	var words []string
	collect := func(word string) bool {
		words = append(words, word)
		return true
	}

	switch options.policy {
	case PolicyTruncatedWords:
		// Materialize the whole plain walk first, then cut it.
		if err = g.walkWords(ctx, w, options.maxSteps, nil, collect); err != nil {
			return "", err
		}
		line := g.newBudgetLine(options.budget)
		for _, word := range words {
			if !line.fits(word) {
				break
			}
			line.add(word)
		}
		words = line.words
	case PolicyBudgetedWalk:
		err = g.walkWords(ctx, w, options.maxSteps, g.newBudgetLine(options.budget), collect)
	default:
		err = g.walkWords(ctx, w, options.maxSteps, nil, collect)
	}
	if err != nil {
		return "", err
	}

	return g.join(words), nil
}

// join builds the final string from words, appending the end-of-chain suffix
// when there is anything to end.
func (g *Generator) join(words []string) string {
	if len(words) == 0 {
		return ""
	}
	return strings.Join(words, g.tokenizer.Separator()) + g.tokenizer.EOC()
}

// walk holds the per-call state of one random walk. It never modifies the chain.
type walk struct {
	chain *Chain
	key   Bigram
	steps int
}

// startWalk picks a uniformly random starting pair from chain.
func (g *Generator) startWalk(chain *Chain) (*walk, error) {
	if chain.Len() == 0 {
		return nil, ErrEmptyChain
	}
	return &walk{
		chain: chain,
		key:   chain.keys[g.intN(len(chain.keys))],
	}, nil
}

// step draws the next word. It returns false when the current pair has no
// successors, which is the normal end of a walk.
func (g *Generator) step(w *walk) (string, bool) {
	successors, ok := w.chain.lookup(w.key)
	if !ok {
		return "", false
	}
	next := successors[g.intN(len(successors))]
	w.key = w.key.Shift(next)
	w.steps++
	return next, true
}

// walkWords runs w to completion, passing every accepted word to yield. The
// two starting words are passed first. When line is non-nil each word is
// checked against the budget before it is accepted and the walk ends at the
// first word that does not fit. The walk also ends when yield returns false,
// when maxSteps successors have been drawn, or with an error when ctx is done.
func (g *Generator) walkWords(ctx context.Context, w *walk, maxSteps int, line *budgetLine, yield func(string) bool) error {
	accept := func(word string) bool {
		if line != nil {
			if !line.fits(word) {
				g.logger.DebugContext(ctx, "Generation terminated by budget",
					slog.Int("budget", line.budget),
					slog.Int("generated_length", line.length),
					slog.Int("steps", w.steps),
				)
				return false
			}
			line.add(word)
		}
		return yield(word)
	}

	if !accept(w.key.First) || !accept(w.key.Second) {
		return nil
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if maxSteps > 0 && w.steps >= maxSteps {
			g.logger.WarnContext(ctx, "Generation stopped at step limit",
				slog.Int("max_steps", maxSteps),
				slog.String("last_first", w.key.First),
				slog.String("last_second", w.key.Second),
			)
			return nil
		}
		next, ok := g.step(w)
		if !ok {
			g.logger.DebugContext(ctx, "Generation terminated due to dead-end",
				slog.String("last_first", w.key.First),
				slog.String("last_second", w.key.Second),
				slog.Int("steps", w.steps),
			)
			return nil
		}
		if !accept(next) {
			return nil
		}
	}
}

// budgetLine accumulates words while keeping the joined text, including the
// end-of-chain suffix, strictly shorter than budget characters.
type budgetLine struct {
	words  []string
	length int
	sepLen int
	eocLen int
	budget int
}

func (g *Generator) newBudgetLine(budget int) *budgetLine {
	return &budgetLine{
		sepLen: utf8.RuneCountInString(g.tokenizer.Separator()),
		eocLen: utf8.RuneCountInString(g.tokenizer.EOC()),
		budget: budget,
	}
}

// fits reports whether appending word would keep the finished text under budget.
func (l *budgetLine) fits(word string) bool {
	n := l.length + utf8.RuneCountInString(word) + l.eocLen
	if len(l.words) > 0 {
		n += l.sepLen
	}
	return n < l.budget
}

func (l *budgetLine) add(word string) {
	if len(l.words) > 0 {
		l.length += l.sepLen
	}
	l.length += utf8.RuneCountInString(word)
	l.words = append(l.words, word)
}
