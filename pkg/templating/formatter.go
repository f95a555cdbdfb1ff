package templating

import (
	"errors"
	"fmt"
	"strings"
	"text/template"
)

// ErrEmptyTemplate is returned by NewFormatter for a blank template.
var ErrEmptyTemplate = errors.New("template is empty")

// Formatter renders values through a parsed template.
type Formatter struct {
	tmpl *template.Template
}

// NewFormatter parses text as a template named "format". Unknown functions
// fail here; unknown fields fail in Render.
func NewFormatter(text string) (*Formatter, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyTemplate
	}
	tmpl, err := template.New("format").
		Option("missingkey=error").
		Funcs(makeFuncMap()).
		Parse(text)
	if err != nil {
		return nil, fmt.Errorf("could not parse template: %w", err)
	}
	return &Formatter{tmpl: tmpl}, nil
}

// Render executes the template against data and returns the result.
func (f *Formatter) Render(data any) (string, error) {
	var sb strings.Builder
	if err := f.tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("could not render template: %w", err)
	}
	return sb.String(), nil
}

func makeFuncMap() template.FuncMap {
	return template.FuncMap{
		// Text (from funcs.go)
		"upper":    strings.ToUpper,
		"lower":    strings.ToLower,
		"runes":    runes,
		"words":    words,
		"truncate": truncate,
		"quote":    quote,

		// Arithmetic
		"add": add,
		"sub": sub,
	}
}
