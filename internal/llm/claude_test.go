package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func claudeServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-api-key") != "test-key" {
			t.Errorf("missing api key header")
		}
		var req anthropicRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(req.Messages) != 1 || req.Messages[0].Role != "user" {
			t.Errorf("expected a single user message, got %+v", req.Messages)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClaudeClient_Generate(t *testing.T) {
	srv := claudeServer(t, http.StatusOK,
		`{"content":[{"type":"text","text":"Hello "},{"type":"tool_use"},{"type":"text","text":"world"}]}`)
	c := NewClaudeClient("test-key", "claude-test").WithEndpoint(srv.URL)

	got, err := c.Generate(context.Background(), "hi")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Hello world" {
		t.Errorf("expected %q, got %q", "Hello world", got)
	}
}

func TestClaudeClient_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"unauthorized", http.StatusUnauthorized, `{"error":{"type":"authentication_error","message":"invalid x-api-key"}}`, ErrClientAuth},
		{"forbidden", http.StatusForbidden, `{}`, ErrClientAuth},
		{"server error", http.StatusInternalServerError, `overloaded`, ErrModelCall},
		{"empty content", http.StatusOK, `{"content":[]}`, ErrNoText},
		{"bad json", http.StatusOK, `not json`, ErrModelCall},
		{"error body", http.StatusOK, `{"error":{"type":"permission_error","message":"nope"}}`, ErrClientAuth},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := claudeServer(t, tt.status, tt.body)
			c := NewClaudeClient("test-key", "claude-test").WithEndpoint(srv.URL)
			_, err := c.Generate(context.Background(), "hi")
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestClaudeClient_StatusErrorDetail(t *testing.T) {
	srv := claudeServer(t, http.StatusTooManyRequests, `rate limited`)
	c := NewClaudeClient("test-key", "claude-test").WithEndpoint(srv.URL)

	_, err := c.Generate(context.Background(), "hi")
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected StatusError in chain, got %v", err)
	}
	if se.StatusCode != http.StatusTooManyRequests || se.Provider != "claude" {
		t.Errorf("unexpected status error: %+v", se)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("abc", 5); got != "abc" {
		t.Errorf("expected unchanged, got %q", got)
	}
	if got := truncate("abcdef", 3); got != "abc..." {
		t.Errorf("expected %q, got %q", "abc...", got)
	}
}
