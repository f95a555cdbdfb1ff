/*
Package sink delivers generated text to its destinations: a terminal or other
io.Writer, a file replaced atomically on every write, or a SQLite history table
that keeps every output together with the policy and seed that produced it.
Several sinks can be combined with Multi.
*/
package sink
