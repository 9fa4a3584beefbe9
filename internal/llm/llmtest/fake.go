// Package llmtest provides scripted Generator implementations for tests.
package llmtest

import (
	"context"
	"sync"
)

// Func adapts a function into an llm.Generator and records every prompt.
type Func struct {
	Fn   func(ctx context.Context, prompt string) (string, error)
	Name string

	mu      sync.Mutex
	prompts []string
	closed  bool
}

func (f *Func) Generate(ctx context.Context, prompt string) (string, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()
	return f.Fn(ctx, prompt)
}

func (f *Func) Model() string {
	if f.Name == "" {
		return "fake-model"
	}
	return f.Name
}

func (f *Func) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}

// Prompts returns a copy of the prompts received so far.
func (f *Func) Prompts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.prompts))
	copy(out, f.prompts)
	return out
}

// Calls returns the number of Generate calls.
func (f *Func) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

// Closed reports whether Close was called.
func (f *Func) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// Echo returns a generator that answers every prompt with reply.
func Echo(reply string) *Func {
	return &Func{Fn: func(context.Context, string) (string, error) { return reply, nil }}
}
