package markov

import (
	"bufio"
	"errors"
	"io"
	"math"
	"regexp"
	"strings"
)

// defaultStripPattern matches every run of characters that is neither a letter
// nor whitespace.
const defaultStripPattern = `[^\p{L}\s]+`

var punctuationRegex = regexp.MustCompile(defaultStripPattern)

// StripPunctuation removes every character from s that is not a letter or
// whitespace. "Hello, world!" becomes "Hello world".
func StripPunctuation(s string) string {
	return punctuationRegex.ReplaceAllString(s, "")
}

// DefaultTokenizer is a default implementation of the Tokenizer interface.
// It splits text on runs of whitespace and can optionally lower-case words and
// strip punctuation from them. Its behavior can be customized with functional
// options.
type DefaultTokenizer struct {
	separator  string
	eoc        string
	lowercase  bool
	strip      bool
	stripRegex *regexp.Regexp
}

// Option Is a function that configures a DefaultTokenizer.
type Option func(*DefaultTokenizer)

// WithLowercase lower-cases every word before it is added to a chain.
// Default: false
func WithLowercase(enabled bool) Option {
	return func(t *DefaultTokenizer) {
		t.lowercase = enabled
	}
}

// WithStripPunctuation removes every non-letter character from words before
// they are added to a chain. Words left empty are dropped.
// Default: false
func WithStripPunctuation(enabled bool) Option {
	return func(t *DefaultTokenizer) {
		t.strip = enabled
	}
}

// WithStripRegex sets the regex used to remove characters from words when
// punctuation stripping is enabled.
// Default: `[^\p{L}\s]+`
func WithStripRegex(stripRegex string) Option {
	return func(t *DefaultTokenizer) {
		t.stripRegex = regexp.MustCompile(stripRegex)
	}
}

// WithSeparator Sets the string used for joining words during generation.
// Default: " "
func WithSeparator(sep string) Option {
	return func(t *DefaultTokenizer) {
		t.separator = sep
	}
}

// WithEOC Sets the suffix appended to generated text, such as ".".
// Default: ""
func WithEOC(eoc string) Option {
	return func(t *DefaultTokenizer) {
		t.eoc = eoc
	}
}

// NewDefaultTokenizer creates a new tokenizer with default settings, which can be
// overridden by providing one or more Option functions.
func NewDefaultTokenizer(opts ...Option) *DefaultTokenizer {
	t := &DefaultTokenizer{
		separator:  " ",
		eoc:        "",
		stripRegex: punctuationRegex,
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Separator Returns the configured separator string.
func (t *DefaultTokenizer) Separator() string {
	return t.separator
}

// EOC Returns the configured end-of-chain suffix.
func (t *DefaultTokenizer) EOC() string {
	return t.eoc
}

// Tokenize normalizes text and returns its words in order. Words of any
// length are kept.
func (t *DefaultTokenizer) Tokenize(text string) []string {
	var words []string
	for _, field := range strings.Fields(text) {
		if word := t.normalize(field); word != "" {
			words = append(words, word)
		}
	}
	return words
}

// normalize applies the configured stripping and case folding to one word.
// An empty result means the word is dropped.
func (t *DefaultTokenizer) normalize(word string) string {
	if t.strip {
		word = t.stripRegex.ReplaceAllString(word, "")
	}
	if t.lowercase {
		word = strings.ToLower(word)
	}
	return word
}

// NewStream Returns the stream processor. The scanner's buffer grows as needed,
// so a single word longer than bufio.MaxScanTokenSize is still read whole.
func (t *DefaultTokenizer) NewStream(r io.Reader) StreamTokenizer {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), math.MaxInt)
	scanner.Split(bufio.ScanWords)
	return &DefaultStreamTokenizer{
		scanner:   scanner,
		tokenizer: t,
	}
}

// DefaultStreamTokenizer is the default implementation of the StreamTokenizer interface.
// It uses a bufio.Scanner splitting on whitespace and normalizes each word.
type DefaultStreamTokenizer struct {
	scanner   *bufio.Scanner
	tokenizer *DefaultTokenizer
}

// Next returns the next normalized word from the stream. When the stream is
// exhausted, it returns an empty string and io.EOF. Any other error indicates
// a problem reading from the underlying stream.
func (s *DefaultStreamTokenizer) Next() (string, error) {
	for s.scanner.Scan() {
		if word := s.tokenizer.normalize(s.scanner.Text()); word != "" {
			return word, nil
		}
	}
	if err := s.scanner.Err(); err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return "", io.EOF
}
