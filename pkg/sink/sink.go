package sink

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/CTAG07/Parrot/pkg/templating"
	"github.com/natefinch/atomic"
)

// Output is one generated text and the settings that produced it.
type Output struct {
	Text   string
	Policy string
	Seed   uint64
}

// Sink receives generated text.
type Sink interface {
	Write(ctx context.Context, out Output) error
}

// render returns the line written for out: its text, or the formatter's
// rendering of out when one is set.
func render(f *templating.Formatter, out Output) (string, error) {
	if f == nil {
		return out.Text, nil
	}
	return f.Render(out)
}

// WriterSink writes each output's text followed by a newline.
type WriterSink struct {
	w         io.Writer
	formatter *templating.Formatter
}

// NewWriterSink returns a sink writing to w.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

// SetFormatter renders each output through f instead of writing its bare text.
func (s *WriterSink) SetFormatter(f *templating.Formatter) {
	s.formatter = f
}

func (s *WriterSink) Write(_ context.Context, out Output) error {
	line, err := render(s.formatter, out)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(s.w, line)
	return err
}

// FileSink replaces the file at a path with each output's text. Readers never
// observe a partially written file.
type FileSink struct {
	path      string
	formatter *templating.Formatter
}

// NewFileSink returns a sink writing to path.
func NewFileSink(path string) *FileSink {
	return &FileSink{path: path}
}

// SetFormatter renders each output through f instead of writing its bare text.
func (s *FileSink) SetFormatter(f *templating.Formatter) {
	s.formatter = f
}

func (s *FileSink) Write(_ context.Context, out Output) error {
	line, err := render(s.formatter, out)
	if err != nil {
		return err
	}
	if err = atomic.WriteFile(s.path, bytes.NewReader([]byte(line+"\n"))); err != nil {
		return fmt.Errorf("failed to write output file %s: %w", s.path, err)
	}
	return nil
}

// multiSink writes to every sink in order.
type multiSink []Sink

// Multi returns a sink that writes to each of sinks in order. Every sink is
// attempted; the errors of those that fail are joined.
func Multi(sinks ...Sink) Sink {
	return multiSink(sinks)
}

func (m multiSink) Write(ctx context.Context, out Output) error {
	var errs []error
	for _, s := range m {
		if err := s.Write(ctx, out); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
