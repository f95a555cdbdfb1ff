package markov

import (
	"encoding/json"
	"io"
	"slices"
)

// Order is the number of preceding words used to predict the next one.
// Chains built by this package are always second-order.
const Order = 2

// Bigram is an ordered pair of consecutive words used as a chain key.
// Bigrams compare by value, so (a, b) and (b, a) are distinct keys.
type Bigram struct {
	First  string
	Second string
}

// Shift returns the key that follows b once next has been emitted.
func (b Bigram) Shift(next string) Bigram {
	return Bigram{First: b.Second, Second: next}
}

// Chain maps each Bigram seen in a source text to the sequence of words that
// immediately followed it. Successors are kept in source order and include
// duplicates, so a uniform pick over them is frequency-weighted.
//
// Every key in a Chain has at least one successor. A Chain is built once and
// is safe for concurrent readers afterwards.
type Chain struct {
	links map[Bigram][]string
	keys  []Bigram // first-insertion order
}

// NewChain returns an empty chain.
func NewChain() *Chain {
	return &Chain{links: make(map[Bigram][]string)}
}

// Append records next as a successor of key, creating the key on first use.
func (c *Chain) Append(key Bigram, next string) {
	successors, ok := c.links[key]
	if !ok {
		c.keys = append(c.keys, key)
	}
	c.links[key] = append(successors, next)
}

// Len returns the number of distinct keys in the chain.
func (c *Chain) Len() int {
	if c == nil {
		return 0
	}
	return len(c.keys)
}

// Keys returns a copy of the chain's keys in the order they were first seen.
func (c *Chain) Keys() []Bigram {
	if c == nil {
		return nil
	}
	return slices.Clone(c.keys)
}

// Successors returns a copy of the words observed after key. The boolean is
// false if the key was never seen.
func (c *Chain) Successors(key Bigram) ([]string, bool) {
	successors, ok := c.lookup(key)
	if !ok {
		return nil, false
	}
	return slices.Clone(successors), true
}

// lookup returns the internal successor slice without copying. Callers must
// not modify it.
func (c *Chain) lookup(key Bigram) ([]string, bool) {
	if c == nil {
		return nil, false
	}
	successors, ok := c.links[key]
	return successors, ok
}

// ExportedChain is the JSON form of a chain written by Export.
type ExportedChain struct {
	Order int            `json:"order"`
	Links []ExportedLink `json:"links"`
}

// ExportedLink is a single key and its successors within an ExportedChain.
type ExportedLink struct {
	Prefix [Order]string `json:"prefix"`
	Next   []string      `json:"next"`
}

// Export writes the chain as indented JSON to w, keys in first-seen order.
// It is meant for inspection; chains are not reloaded from this format.
func (c *Chain) Export(w io.Writer) error {
	exported := ExportedChain{
		Order: Order,
		Links: make([]ExportedLink, 0, c.Len()),
	}
	for _, key := range c.Keys() {
		successors, _ := c.lookup(key)
		exported.Links = append(exported.Links, ExportedLink{
			Prefix: [Order]string{key.First, key.Second},
			Next:   successors,
		})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(exported)
}
