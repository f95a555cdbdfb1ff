package templating

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// runes returns the number of characters in s.
func runes(s string) int {
	return utf8.RuneCountInString(s)
}

// words returns the number of whitespace-separated words in s.
func words(s string) int {
	return len(strings.Fields(s))
}

// truncate returns at most n characters of s. n <= 0 yields "".
func truncate(n int, s string) string {
	if n <= 0 {
		return ""
	}
	for i := range s {
		if n == 0 {
			return s[:i]
		}
		n--
	}
	return s
}

func quote(s string) string {
	return strconv.Quote(s)
}

// add returns a + b.
func add(a, b int) int {
	return a + b
}

// sub returns a - b.
func sub(a, b int) int {
	return a - b
}
