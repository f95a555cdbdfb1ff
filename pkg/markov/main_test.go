package markov

import (
	"go/build"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// setupTestGenerator creates a Generator with a fixed seed and the given
// tokenizer options.
func setupTestGenerator(t testing.TB, seed uint64, opts ...Option) *Generator {
	t.Helper()
	return NewGenerator(NewDefaultTokenizer(opts...), NewSeededSource(seed))
}

// chainFrom builds a chain directly from explicit links, in order.
func chainFrom(links ...[3]string) *Chain {
	c := NewChain()
	for _, l := range links {
		c.Append(Bigram{First: l[0], Second: l[1]}, l[2])
	}
	return c
}

// cycleText repeats "a b c" so that the chain built from it is a closed
// loop with no dead end.
const cycleText = "a b c a b c a"

// fishText is a small branching corpus used across tests.
const fishText = "one fish two fish red fish blue fish one fish two fish old fish new fish"

var (
	benchmarkCorpus string
	corpusOnce      sync.Once
)

// createBenchmarkCorpus reads Go source files to create a corpus for benchmarking.
func createBenchmarkCorpus() string {
	corpusOnce.Do(func() {
		var sb strings.Builder
		goRoot := build.Default.GOROOT
		filesToRead := []string{
			filepath.Join(goRoot, "src/net/http/server.go"),
			filepath.Join(goRoot, "src/go/parser/parser.go"),
			filepath.Join(goRoot, "src/encoding/json/encode.go"),
		}

		for _, file := range filesToRead {
			content, err := os.ReadFile(file)
			if err != nil {
				benchmarkCorpus = "this is a fallback corpus for benchmarking. it is not very long but will prevent a crash. "
				return
			}
			sb.Write(content)
			sb.WriteString("\n")
		}
		benchmarkCorpus = sb.String()
	})
	return benchmarkCorpus
}
