package markov

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestBuildChains(t *testing.T) {
	c := BuildChains("the cat sat on the mat the cat ran")

	got, ok := c.Successors(Bigram{First: "the", Second: "cat"})
	if !ok {
		t.Fatal("expected key (the, cat)")
	}
	if want := []string{"sat", "ran"}; !reflect.DeepEqual(got, want) {
		t.Errorf("(the, cat) -> %v, want %v", got, want)
	}

	got, _ = c.Successors(Bigram{First: "cat", Second: "sat"})
	if want := []string{"on"}; !reflect.DeepEqual(got, want) {
		t.Errorf("(cat, sat) -> %v, want %v", got, want)
	}

	// 9 tokens give 7 windows; (the, cat) appears twice.
	if c.Len() != 6 {
		t.Errorf("expected 6 keys, got %d", c.Len())
	}
	if _, ok = c.Successors(Bigram{First: "cat", Second: "ran"}); ok {
		t.Error("the final pair should have no successors")
	}
}

func TestBuildChainsShortInput(t *testing.T) {
	for _, text := range []string{"", "   ", "one", "one two", "... one , two !"} {
		c := BuildChains(text, WithStripPunctuation(true))
		if c.Len() != 0 {
			t.Errorf("BuildChains(%q) produced %d keys, want 0", text, c.Len())
		}
	}

	if c := BuildChains("one two three"); c.Len() != 1 {
		t.Errorf("three tokens should produce exactly one key, got %d", c.Len())
	}
}

func TestBuildChainsNormalization(t *testing.T) {
	c := BuildChains("The Cat sat. the cat, ran!", WithLowercase(true), WithStripPunctuation(true))
	got, ok := c.Successors(Bigram{First: "the", Second: "cat"})
	if !ok {
		t.Fatal("expected normalized key (the, cat)")
	}
	if want := []string{"sat", "ran"}; !reflect.DeepEqual(got, want) {
		t.Errorf("(the, cat) -> %v, want %v", got, want)
	}

	// Case is preserved without WithLowercase.
	c = BuildChains("The Cat sat the cat ran")
	if _, ok = c.Successors(Bigram{First: "The", Second: "Cat"}); !ok {
		t.Error("expected case-preserving key (The, Cat)")
	}
}

func TestBuildChainsInvariants(t *testing.T) {
	texts := []string{
		fishText,
		cycleText,
		"the cat sat on the mat the cat ran",
		strings.Repeat("a a a b ", 50),
		createBenchmarkCorpus(),
	}

	for _, text := range texts {
		first := BuildChains(text)
		second := BuildChains(text)

		if !reflect.DeepEqual(first.Keys(), second.Keys()) {
			t.Fatal("building twice produced different key orders")
		}
		for _, key := range first.Keys() {
			a, _ := first.Successors(key)
			b, _ := second.Successors(key)
			if len(a) == 0 {
				t.Fatalf("key %v has no successors", key)
			}
			if !reflect.DeepEqual(a, b) {
				t.Fatalf("key %v: successors differ between builds: %v vs %v", key, a, b)
			}
		}
	}
}

func TestTrainMatchesBuildChains(t *testing.T) {
	g := setupTestGenerator(t, 1, WithLowercase(true), WithStripPunctuation(true))
	text := "One fish, two fish.\nRed fish; blue fish!\n  One fish two fish."

	trained, err := g.Train(context.Background(), strings.NewReader(text))
	if err != nil {
		t.Fatalf("Train() failed: %v", err)
	}
	built := BuildChains(text, WithLowercase(true), WithStripPunctuation(true))

	if !reflect.DeepEqual(trained.Keys(), built.Keys()) {
		t.Fatalf("Train keys %v differ from BuildChains keys %v", trained.Keys(), built.Keys())
	}
	for _, key := range built.Keys() {
		a, _ := trained.Successors(key)
		b, _ := built.Successors(key)
		if !reflect.DeepEqual(a, b) {
			t.Errorf("key %v: Train %v, BuildChains %v", key, a, b)
		}
	}
}

func TestBuildChainsLongWord(t *testing.T) {
	text := "the cat sat " + strings.Repeat("x", 70000) + " on the mat the cat ran"

	// 10 tokens give 8 windows; (the, cat) appears twice.
	built := BuildChains(text)
	if built.Len() != 7 {
		t.Fatalf("expected 7 keys, got %d", built.Len())
	}

	trained, err := setupTestGenerator(t, 1).Train(context.Background(), strings.NewReader(text))
	if err != nil {
		t.Fatalf("Train() failed: %v", err)
	}
	if !reflect.DeepEqual(trained.Keys(), built.Keys()) {
		t.Error("Train and BuildChains disagree on text with a long word")
	}
	got, _ := trained.Successors(Bigram{First: "the", Second: "cat"})
	if want := []string{"sat", "ran"}; !reflect.DeepEqual(got, want) {
		t.Errorf("(the, cat) -> %v, want %v", got, want)
	}
}

func TestTrainCancelled(t *testing.T) {
	g := setupTestGenerator(t, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.Train(ctx, strings.NewReader(strings.Repeat("word ", 5000)))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestTrainReadError(t *testing.T) {
	g := setupTestGenerator(t, 1)
	if _, err := g.Train(context.Background(), failingReader{}); err == nil {
		t.Error("expected an error from a failing reader")
	}
}

func BenchmarkBuildChains(b *testing.B) {
	corpus := createBenchmarkCorpus()
	b.ReportAllocs()
	b.SetBytes(int64(len(corpus)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = BuildChains(corpus)
	}
}
