/*
Package markov provides a small, in-memory toolkit for building second-order
Markov chains over the words of a text and generating new text from them.

A Chain maps every pair of consecutive words (a Bigram) to the words that
followed that pair in the source, in source order and with duplicates kept,
so uniform sampling over the successors reproduces their observed frequency.
A Generator walks the chain from a random starting pair. Generation can run
unbounded (PolicyPlain), be cut to a character budget after the fact
(PolicyTruncatedWords), or stop as soon as the next word would exceed the
budget (PolicyBudgetedWalk).

Chains are read-only once built and can be shared across goroutines. The
Generator's random source is guarded by a mutex, so a single Generator may
serve concurrent Generate calls.
*/
package markov
