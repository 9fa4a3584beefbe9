package summarize

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dgallion1/docsum/internal/llm"
)

// Refiner runs the reduce phase over the map results.
type Refiner struct {
	gen Generator
	log *slog.Logger
}

func NewRefiner(gen Generator, log *slog.Logger) *Refiner {
	return &Refiner{gen: gen, log: log}
}

// Refine merges the display form of every result into one summary with a
// single model call. Failed chunks contribute their sentinel text. Refine
// never returns an error; a failed call yields a failed Result.
func (r *Refiner) Refine(ctx context.Context, results []Result, language Language) Result {
	prompt := BuildRefinePrompt(language, Displays(results))
	text, err := r.gen.Generate(ctx, prompt)
	if err == nil && strings.TrimSpace(text) == "" {
		err = llm.ErrNoText
	}
	if err != nil {
		r.log.Warn("refinement failed", "summaries", len(results), "error", err)
		return Result{Index: refineIndex, Err: fmt.Errorf("refine: %w", err)}
	}
	return Result{Index: refineIndex, Text: text}
}
