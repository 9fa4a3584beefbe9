package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Supported providers.
const (
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
)

// IsProvider reports whether name is a supported provider.
func IsProvider(name string) bool {
	switch name {
	case ProviderGemini, ProviderAnthropic, ProviderOpenAI:
		return true
	}
	return false
}

// Options selects and configures a backend.
type Options struct {
	Provider  string
	APIKey    string
	Model     string
	BaseURL   string
	Timeout   time.Duration
	RateLimit float64
}

// errMissingKey is surfaced when no credential is configured.
var errMissingKey = errors.New("no API key configured")

// New builds a guarded backend. A missing or unusable credential is not an
// error: it yields a disabled guard and a single warning so the process keeps
// serving everything that does not need the model.
func New(ctx context.Context, opts Options, log *slog.Logger) (*Guard, error) {
	if !IsProvider(opts.Provider) {
		return nil, fmt.Errorf("unknown llm provider %q", opts.Provider)
	}
	if opts.APIKey == "" {
		return NewDisabledGuard(opts.Model, fmt.Errorf("%s: %w", opts.Provider, errMissingKey), log), nil
	}

	var backend Generator
	switch opts.Provider {
	case ProviderGemini:
		g, err := NewGeminiClient(ctx, opts.APIKey, opts.Model)
		if err != nil {
			return NewDisabledGuard(opts.Model, err, log), nil
		}
		backend = g
	case ProviderAnthropic:
		backend = NewClaudeClient(opts.APIKey, opts.Model).WithEndpoint(opts.BaseURL)
	case ProviderOpenAI:
		backend = NewOpenAIClient(opts.BaseURL, opts.APIKey, opts.Model)
	}

	log.Info("model client ready", "provider", opts.Provider, "model", opts.Model)
	return NewGuard(backend, GuardConfig{
		Timeout:     opts.Timeout,
		RateLimit:   opts.RateLimit,
		StatsWindow: time.Hour,
	}, log), nil
}
