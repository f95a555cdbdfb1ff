package markov

// ChainStats holds aggregated statistics for a single chain.
type ChainStats struct {
	Keys        int // The number of distinct word pairs with at least one successor.
	Transitions int // The total number of recorded successors, duplicates included.
	Vocabulary  int // The number of distinct words appearing anywhere in the chain.
	DeadEnds    int // The number of distinct pairs a walk can reach that have no successors.
	MaxFanOut   int // The largest successor sequence held by a single key.
}

// Stats returns a snapshot of statistics for the chain.
func (c *Chain) Stats() ChainStats {
	var stats ChainStats
	if c == nil {
		return stats
	}

	vocab := make(map[string]struct{})
	deadEnds := make(map[Bigram]struct{})

	stats.Keys = len(c.keys)
	for _, key := range c.keys {
		vocab[key.First] = struct{}{}
		vocab[key.Second] = struct{}{}

		successors := c.links[key]
		stats.Transitions += len(successors)
		if len(successors) > stats.MaxFanOut {
			stats.MaxFanOut = len(successors)
		}
		for _, next := range successors {
			vocab[next] = struct{}{}
			shifted := key.Shift(next)
			if _, ok := c.links[shifted]; !ok {
				deadEnds[shifted] = struct{}{}
			}
		}
	}

	stats.Vocabulary = len(vocab)
	stats.DeadEnds = len(deadEnds)
	return stats
}
