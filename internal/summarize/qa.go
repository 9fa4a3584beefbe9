package summarize

import (
	"context"
	"fmt"
	"log/slog"
	"unicode/utf8"
)

// DefaultQAMaxContextChars bounds the document text sent with a question.
const DefaultQAMaxContextChars = 400000

// Answer is the model's reply to one question.
type Answer struct {
	Text      string `json:"answer"`
	Truncated bool   `json:"truncated"`
}

// Answerer answers questions over a document's extracted text.
type Answerer struct {
	gen        Generator
	log        *slog.Logger
	maxContext int
}

// NewAnswerer returns an Answerer that sends at most maxContext runes of
// document text. A non-positive maxContext disables truncation.
func NewAnswerer(gen Generator, maxContext int, log *slog.Logger) *Answerer {
	return &Answerer{gen: gen, log: log, maxContext: maxContext}
}

// Answer asks question about text with one model call. Empty text or an
// empty question are sent as-is.
func (a *Answerer) Answer(ctx context.Context, text, question string) (Answer, error) {
	text, truncated := truncateRunes(text, a.maxContext)
	if truncated {
		a.log.Warn("question context truncated", "max_chars", a.maxContext)
	}

	reply, err := a.gen.Generate(ctx, BuildQuestionPrompt(text, question))
	if err != nil {
		return Answer{}, fmt.Errorf("answer question: %w", err)
	}
	return Answer{Text: reply, Truncated: truncated}, nil
}

// truncateRunes cuts s to at most n runes. n <= 0 means no limit.
func truncateRunes(s string, n int) (string, bool) {
	if n <= 0 || len(s) <= n {
		return s, false
	}
	if utf8.RuneCountInString(s) <= n {
		return s, false
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i], true
		}
		count++
	}
	return s, false
}
