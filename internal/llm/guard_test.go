package llm

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/dgallion1/docsum/internal/llm/llmtest"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestGuard_PassesThrough(t *testing.T) {
	fake := llmtest.Echo("summary text")
	g := NewGuard(fake, GuardConfig{Timeout: time.Second}, discardLogger())

	got, err := g.Generate(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "summary text" {
		t.Errorf("expected %q, got %q", "summary text", got)
	}
	if snap := g.Stats.Snapshot(); snap.Calls != 1 || snap.OK != 1 {
		t.Errorf("expected one successful call recorded, got %+v", snap)
	}
	if g.Model() != "fake-model" {
		t.Errorf("expected model name from backend, got %q", g.Model())
	}
}

func TestGuard_WrapsPlainErrorsAsModelCall(t *testing.T) {
	fake := &llmtest.Func{Fn: func(context.Context, string) (string, error) {
		return "", errors.New("connection reset")
	}}
	g := NewGuard(fake, GuardConfig{}, discardLogger())

	_, err := g.Generate(context.Background(), "p")
	if !errors.Is(err, ErrModelCall) {
		t.Fatalf("expected ErrModelCall, got %v", err)
	}
	if !g.Available() {
		t.Error("a model call failure must not disable the guard")
	}
}

func TestGuard_AuthFailureLatches(t *testing.T) {
	fake := &llmtest.Func{Fn: func(context.Context, string) (string, error) {
		return "", classifyStatus("test", 401, "bad key")
	}}
	g := NewGuard(fake, GuardConfig{}, discardLogger())

	if _, err := g.Generate(context.Background(), "first"); !errors.Is(err, ErrClientAuth) {
		t.Fatalf("expected ErrClientAuth, got %v", err)
	}
	if g.Available() {
		t.Fatal("expected guard to be disabled after auth failure")
	}

	if _, err := g.Generate(context.Background(), "second"); !errors.Is(err, ErrClientAuth) {
		t.Fatalf("expected ErrClientAuth on later call, got %v", err)
	}
	if fake.Calls() != 1 {
		t.Errorf("expected backend to be called once, got %d", fake.Calls())
	}
	if snap := g.Stats.Snapshot(); snap.Auth != 1 || snap.Rejected != 1 || snap.Calls != 1 {
		t.Errorf("expected one auth failure and one rejected call, got %+v", snap)
	}
}

func TestGuard_Timeout(t *testing.T) {
	fake := &llmtest.Func{Fn: func(ctx context.Context, _ string) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}}
	g := NewGuard(fake, GuardConfig{Timeout: 20 * time.Millisecond}, discardLogger())

	start := time.Now()
	_, err := g.Generate(context.Background(), "slow")
	if !errors.Is(err, ErrModelCall) {
		t.Fatalf("expected ErrModelCall, got %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded in chain, got %v", err)
	}
	if time.Since(start) > 2*time.Second {
		t.Error("timeout did not bound the call")
	}
	if snap := g.Stats.Snapshot(); snap.Timeouts != 1 || snap.Failed != 0 {
		t.Errorf("expected the call counted as a timeout, got %+v", snap)
	}
}

func TestGuard_RecordsOutcomes(t *testing.T) {
	replies := []error{nil, ErrNoText, errors.New("upstream 502"), nil}
	i := 0
	fake := &llmtest.Func{Fn: func(context.Context, string) (string, error) {
		err := replies[i]
		i++
		if err != nil {
			return "", err
		}
		return "text", nil
	}}
	g := NewGuard(fake, GuardConfig{}, discardLogger())

	for range replies {
		g.Generate(context.Background(), "p")
	}

	snap := g.Stats.Snapshot()
	if snap.Calls != 4 || snap.OK != 2 || snap.Empty != 1 || snap.Failed != 1 {
		t.Fatalf("unexpected outcome counts %+v", snap)
	}
	if snap.FailureRate != 0.5 {
		t.Errorf("expected failure rate 0.5, got %f", snap.FailureRate)
	}
	if !g.Available() {
		t.Error("empty and failed calls must not disable the guard")
	}
}

func TestGuard_RateLimitHonoursContext(t *testing.T) {
	fake := llmtest.Echo("ok")
	g := NewGuard(fake, GuardConfig{RateLimit: 0.001}, discardLogger())

	// Burst of one is consumed by the first call.
	if _, err := g.Generate(context.Background(), "a"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := g.Generate(ctx, "b"); !errors.Is(err, ErrModelCall) {
		t.Fatalf("expected rate limit wait to fail as ErrModelCall, got %v", err)
	}
	if fake.Calls() != 1 {
		t.Errorf("expected only the first call to reach the backend, got %d", fake.Calls())
	}
}

func TestDisabledGuard(t *testing.T) {
	g := NewDisabledGuard("gemini-2.5-flash", errors.New("no API key configured"), discardLogger())
	if g.Available() {
		t.Fatal("expected disabled guard")
	}
	_, err := g.Generate(context.Background(), "p")
	if !errors.Is(err, ErrClientAuth) {
		t.Errorf("expected ErrClientAuth, got %v", err)
	}
	if g.Model() != "gemini-2.5-flash" {
		t.Errorf("expected model name kept, got %q", g.Model())
	}
	if snap := g.Stats.Snapshot(); snap.Calls != 0 || snap.Rejected != 1 {
		t.Errorf("expected a rejected call without backend traffic, got %+v", snap)
	}
	g.Close()
}

func TestNew_MissingKeyIsNotFatal(t *testing.T) {
	g, err := New(context.Background(), Options{Provider: ProviderGemini, Model: "m"}, discardLogger())
	if err != nil {
		t.Fatalf("expected no error for missing key, got %v", err)
	}
	if g.Available() {
		t.Error("expected guard without credential to be disabled")
	}
}

func TestNew_UnknownProvider(t *testing.T) {
	if _, err := New(context.Background(), Options{Provider: "nope", APIKey: "k"}, discardLogger()); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestNew_AnthropicAndOpenAI(t *testing.T) {
	for _, p := range []string{ProviderAnthropic, ProviderOpenAI} {
		g, err := New(context.Background(), Options{Provider: p, APIKey: "k", Model: "m"}, discardLogger())
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", p, err)
		}
		if !g.Available() {
			t.Errorf("%s: expected guard to be available", p)
		}
		g.Close()
	}
}

func TestGuard_CloseClosesBackend(t *testing.T) {
	fake := llmtest.Echo("x")
	g := NewGuard(fake, GuardConfig{}, discardLogger())
	g.Close()
	if !fake.Closed() {
		t.Error("expected backend to be closed")
	}
}
