package summarize

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/dgallion1/docsum/internal/chunker"
	"github.com/dgallion1/docsum/internal/llm"
)

// Generator is the model capability the summarizer needs.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ProgressFunc is called after each chunk completes with the number of
// finished chunks and the total. Calls are serialized.
type ProgressFunc func(done, total int)

// Summarizer runs the map phase: one model call per chunk.
type Summarizer struct {
	gen         Generator
	log         *slog.Logger
	concurrency int
}

// NewSummarizer returns a Summarizer issuing at most concurrency calls at a
// time. A concurrency below one is treated as one.
func NewSummarizer(gen Generator, concurrency int, log *slog.Logger) *Summarizer {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Summarizer{gen: gen, log: log, concurrency: concurrency}
}

// Summarize returns one Result per chunk in chunk order. A failed call only
// marks its own chunk; the remaining chunks are still summarized.
func (s *Summarizer) Summarize(ctx context.Context, chunks []string, settings Settings, progress ProgressFunc) []Result {
	results := make([]Result, len(chunks))
	total := len(chunks)

	var (
		mu   sync.Mutex
		done int
	)
	finish := func() {
		mu.Lock()
		defer mu.Unlock()
		done++
		if progress != nil {
			progress(done, total)
		}
	}

	var g errgroup.Group
	g.SetLimit(s.concurrency)

	for i, chunk := range chunks {
		g.Go(func() error {
			defer finish()
			text, err := s.gen.Generate(ctx, BuildChunkPrompt(settings.Language, settings.Style, chunk))
			if err == nil && strings.TrimSpace(text) == "" {
				err = llm.ErrNoText
			}
			if err != nil {
				s.log.Warn("chunk summary failed",
					"chunk", i+1,
					"tokens_est", chunker.EstimateTokens(chunk),
					"error", err,
				)
				results[i] = Fail(i, err)
				return nil
			}
			results[i] = Ok(i, text)
			return nil
		})
	}
	g.Wait()

	s.log.Info("map phase complete", "chunks", total, "failed", CountFailed(results))
	return results
}
