// Package source reads and joins the input texts a chain is built from.
package source

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Stdin is the source name that reads standard input instead of a file.
const Stdin = "-"

// ErrNoSources is returned, wrapped in an InputError, when Read is given no
// sources at all.
var ErrNoSources = errors.New("no input sources given")

// ErrStdinRepeated is returned, wrapped in an InputError, when "-" is named
// more than once. Standard input can only be read once.
var ErrStdinRepeated = errors.New("standard input named more than once")

// InputError reports a source that could not be read.
type InputError struct {
	Source string
	Err    error
}

func (e *InputError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("input: %v", e.Err)
	}
	return fmt.Sprintf("input %q: %v", e.Source, e.Err)
}

func (e *InputError) Unwrap() error {
	return e.Err
}

// Read reads every named file in order and returns their contents as one
// string. Newlines inside each file become spaces, each file is trimmed, and
// files are joined with a single space. The name "-" reads os.Stdin.
func Read(paths []string) (string, error) {
	if len(paths) == 0 {
		return "", &InputError{Err: ErrNoSources}
	}

	stdinSeen := false
	for _, path := range paths {
		if path != Stdin {
			continue
		}
		if stdinSeen {
			return "", &InputError{Source: Stdin, Err: ErrStdinRepeated}
		}
		stdinSeen = true
	}

	parts := make([]string, 0, len(paths))
	for _, path := range paths {
		text, err := readOne(path)
		if err != nil {
			return "", err
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, " "), nil
}

func readOne(path string) (string, error) {
	if path == Stdin {
		return ReadFrom(path, os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return "", &InputError{Source: path, Err: err}
	}
	defer func(f *os.File) {
		_ = f.Close()
	}(f)
	return ReadFrom(path, f)
}

// ReadFrom reads all of r and normalizes it the same way Read normalizes a
// file. name identifies r in errors.
func ReadFrom(name string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", &InputError{Source: name, Err: err}
	}
	return normalize(string(data)), nil
}

// normalize replaces line breaks with spaces and trims the result.
func normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", " ")
	text = strings.ReplaceAll(text, "\n", " ")
	return strings.TrimSpace(text)
}
