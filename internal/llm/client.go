package llm

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrClientAuth means the provider rejected or never received a credential.
	ErrClientAuth = errors.New("model client authorization failed")

	// ErrModelCall wraps every other failed generate call: network, quota,
	// timeout, or a malformed response.
	ErrModelCall = errors.New("model call failed")

	// ErrNoText means the response carried no text to return.
	ErrNoText = fmt.Errorf("%w: response has no text", ErrModelCall)
)

// Generator is a single-shot text generation capability.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Model() string
	Close()
}

// StatusError is a non-2xx response from a provider's HTTP API.
type StatusError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s api status %d: %s", e.Provider, e.StatusCode, truncate(e.Message, 200))
}

// classifyStatus maps an HTTP status to the error kinds callers match on.
func classifyStatus(provider string, code int, body string) error {
	se := &StatusError{Provider: provider, StatusCode: code, Message: body}
	if isAuthStatus(code) {
		return fmt.Errorf("%w: %w", ErrClientAuth, se)
	}
	return fmt.Errorf("%w: %w", ErrModelCall, se)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
