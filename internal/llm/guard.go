package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// GuardConfig bounds every call made through a Guard.
type GuardConfig struct {
	Timeout     time.Duration // Per-call deadline; 0 disables it.
	RateLimit   float64       // Calls per second; 0 means unlimited.
	StatsWindow time.Duration
}

// Guard wraps a backend with a per-call timeout, a shared rate limit, call
// outcome stats and an authorization latch. After the first ErrClientAuth every call
// fails fast without reaching the provider.
type Guard struct {
	next    Generator
	model   string
	timeout time.Duration
	limiter *rate.Limiter
	log     *slog.Logger

	Stats *CallStats

	mu       sync.Mutex
	disabled error
	warnOnce sync.Once
}

func NewGuard(next Generator, cfg GuardConfig, log *slog.Logger) *Guard {
	g := &Guard{
		next:    next,
		model:   next.Model(),
		timeout: cfg.Timeout,
		log:     log,
		Stats:   NewCallStats(cfg.StatsWindow),
	}
	if cfg.RateLimit > 0 {
		burst := int(cfg.RateLimit * 2)
		if burst < 1 {
			burst = 1
		}
		g.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	return g
}

// NewDisabledGuard returns a guard that rejects every call, used when the
// process starts without a usable credential.
func NewDisabledGuard(model string, reason error, log *slog.Logger) *Guard {
	g := &Guard{
		model: model,
		log:   log,
		Stats: NewCallStats(time.Hour),
	}
	g.disable(reason)
	return g
}

// Generate forwards prompt to the backend under the guard's limits.
func (g *Guard) Generate(ctx context.Context, prompt string) (string, error) {
	if err := g.Err(); err != nil {
		g.Stats.Reject()
		return "", err
	}
	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("%w: rate limit wait: %w", ErrModelCall, err)
		}
	}

	callCtx := ctx
	if g.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := g.next.Generate(callCtx, prompt)
	latency := time.Since(start)
	if err == nil {
		g.Stats.Record(OutcomeOK, latency)
		return text, nil
	}

	switch {
	case errors.Is(err, ErrClientAuth):
		g.Stats.Record(OutcomeAuth, latency)
		g.disable(err)
		return "", err
	case errors.Is(callCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil:
		g.Stats.Record(OutcomeTimeout, latency)
		return "", fmt.Errorf("%w: timed out after %s: %w", ErrModelCall, g.timeout, err)
	case errors.Is(err, ErrNoText):
		g.Stats.Record(OutcomeEmpty, latency)
	default:
		g.Stats.Record(OutcomeFailed, latency)
	}
	if errors.Is(err, ErrModelCall) {
		return "", err
	}
	return "", fmt.Errorf("%w: %w", ErrModelCall, err)
}

// Err reports why the guard is disabled, or nil when calls may proceed.
func (g *Guard) Err() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.disabled
}

// Available reports whether model-dependent actions can run.
func (g *Guard) Available() bool {
	return g.Err() == nil
}

// Model returns the backend model name.
func (g *Guard) Model() string {
	return g.model
}

// Close releases the backend.
func (g *Guard) Close() {
	if g.next != nil {
		g.next.Close()
	}
}

func (g *Guard) disable(cause error) {
	g.mu.Lock()
	if g.disabled == nil {
		if errors.Is(cause, ErrClientAuth) {
			g.disabled = cause
		} else {
			g.disabled = fmt.Errorf("%w: %w", ErrClientAuth, cause)
		}
	}
	reason := g.disabled
	g.mu.Unlock()

	g.warnOnce.Do(func() {
		g.log.Warn("model client disabled, summaries and answers are unavailable",
			"model", g.model,
			"error", reason,
		)
	})
}
