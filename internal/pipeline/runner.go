package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dgallion1/docsum/internal/chunker"
	"github.com/dgallion1/docsum/internal/summarize"
)

// Model is the guarded model client a Runner drives. Err reports a
// process-wide failure such as a rejected credential.
type Model interface {
	summarize.Generator
	Err() error
}

// Runner executes one summarization run: chunk, summarize, refine.
type Runner struct {
	model      Model
	summarizer *summarize.Summarizer
	refiner    *summarize.Refiner
	answerer   *summarize.Answerer
	log        *slog.Logger
}

func NewRunner(model Model, maxConcurrent, qaMaxContext int, log *slog.Logger) *Runner {
	return &Runner{
		model:      model,
		summarizer: summarize.NewSummarizer(model, maxConcurrent, log),
		refiner:    summarize.NewRefiner(model, log),
		answerer:   summarize.NewAnswerer(model, qaMaxContext, log),
		log:        log,
	}
}

// Run drives s through the run state machine using the settings passed to
// Session.BeginRun. Per-chunk failures are recorded in the results; only a
// disabled model client or cancellation moves the session to StatusError.
func (r *Runner) Run(ctx context.Context, s *Session) {
	log := r.log.With("session_id", s.ID, "filename", s.Filename)
	settings := s.Settings()

	// Phase 1: Chunk
	s.StartRun()
	chunks := chunker.SplitWithConfig(s.Text(), settings.ChunkerConfig())
	texts := chunker.Texts(chunks)
	s.SetTotalChunks(len(chunks))
	log.Info("chunked document",
		"chunks", len(chunks),
		"chunk_size", settings.ChunkSize,
		"overlap", settings.ChunkOverlap,
		"tokens_est", chunker.EstimateChunkTokens(texts),
	)

	// Phase 2: Summarize each chunk.
	s.SetStatus(StatusSummarizing)
	if err := r.globalFailure(ctx); err != nil {
		log.Error("run cannot start", "error", err)
		s.Fail(err)
		return
	}
	results := r.summarizer.Summarize(ctx, texts, settings, s.SetChunksDone)
	s.SetResults(results)

	if err := r.globalFailure(ctx); err != nil {
		log.Error("summarization aborted", "error", err)
		s.Fail(err)
		return
	}

	// Phase 3: Refine
	s.SetStatus(StatusRefining)
	final := r.refiner.Refine(ctx, results, settings.Language)
	if final.Failed() {
		if err := r.globalFailure(ctx); err != nil {
			log.Error("refinement aborted", "error", err)
			s.Fail(err)
			return
		}
		s.AddError(final.Reason())
	}

	s.Finish(final)
	log.Info("run complete",
		"chunks", len(results),
		"failed_chunks", summarize.CountFailed(results),
		"refined", !final.Failed(),
	)
}

// Ask answers question over the session's document text.
func (r *Runner) Ask(ctx context.Context, s *Session, question string) (summarize.Answer, error) {
	text := s.Text()
	if text == "" {
		return summarize.Answer{}, ErrNoDocument
	}
	if err := r.model.Err(); err != nil {
		return summarize.Answer{}, err
	}
	return r.answerer.Answer(ctx, text, question)
}

// Available reports whether model-dependent operations can run.
func (r *Runner) Available() error {
	return r.model.Err()
}

// globalFailure returns the reason a run cannot continue, or nil.
func (r *Runner) globalFailure(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("run cancelled: %w", err)
	}
	return r.model.Err()
}
