/*
Package templating renders generated text through user-supplied Go templates.

A Formatter wraps a text/template with a small function library for shaping a
line of output:

	{{.Text}}                       the generated text
	{{.Policy}} {{.Seed}}           the settings that produced it
	{{upper .Text}} {{lower .Text}} case conversion
	{{runes .Text}} {{words .Text}} character and word counts
	{{truncate 20 .Text}}           the first 20 characters, cut at a rune boundary
	{{quote .Text}}                 a Go-quoted string
	{{add 1 2}} {{sub 3 1}}         integer arithmetic

Formatters are safe for concurrent use once parsed.
*/
package templating
