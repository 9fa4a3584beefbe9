package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "LLM_PROVIDER", "LLM_API_KEY", "LLM_MODEL", "GEMINI_API_KEY", "GOOGLE_API_KEY", "DEFAULT_CHUNK_SIZE", "DEFAULT_CHUNK_OVERLAP"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	if cfg.Port != "8090" {
		t.Errorf("expected port 8090, got %q", cfg.Port)
	}
	if cfg.LLMProvider != "gemini" || cfg.LLMModel != "gemini-2.5-flash" {
		t.Errorf("unexpected model defaults %q %q", cfg.LLMProvider, cfg.LLMModel)
	}
	if cfg.DefaultChunkSize != 1200 || cfg.DefaultChunkOverlap != 150 {
		t.Errorf("expected 1200/150, got %d/%d", cfg.DefaultChunkSize, cfg.DefaultChunkOverlap)
	}
	if cfg.LLMTimeout != 60*time.Second {
		t.Errorf("expected 60s timeout, got %s", cfg.LLMTimeout)
	}
	if cfg.QAMaxContextChars != 400000 {
		t.Errorf("expected 400000, got %d", cfg.QAMaxContextChars)
	}
	if cfg.MaxConcurrentSummaries != 4 {
		t.Errorf("expected 4, got %d", cfg.MaxConcurrentSummaries)
	}
	if !cfg.PDFFallbackPdftotext {
		t.Error("expected pdftotext fallback on by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate without a key: %v", err)
	}
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("LLM_PROVIDER", "Anthropic")
	t.Setenv("LLM_API_KEY", "")
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant")
	t.Setenv("LLM_MODEL", "")
	t.Setenv("LLM_TIMEOUT", "5s")
	t.Setenv("WORKER_COUNT", "-3")
	t.Setenv("DEFAULT_CHUNK_OVERLAP", "0")

	cfg := Load()
	if cfg.Port != "9000" {
		t.Errorf("expected port 9000, got %q", cfg.Port)
	}
	if cfg.LLMProvider != "anthropic" || cfg.LLMAPIKey != "sk-ant" {
		t.Errorf("expected anthropic key, got %q %q", cfg.LLMProvider, cfg.LLMAPIKey)
	}
	if cfg.LLMModel != "claude-sonnet-4-5-20250929" {
		t.Errorf("unexpected default model %q", cfg.LLMModel)
	}
	if cfg.LLMTimeout != 5*time.Second {
		t.Errorf("expected 5s, got %s", cfg.LLMTimeout)
	}
	if cfg.WorkerCount != 2 {
		t.Errorf("expected fallback worker count, got %d", cfg.WorkerCount)
	}
	if cfg.DefaultChunkOverlap != 0 {
		t.Errorf("expected zero overlap to be kept, got %d", cfg.DefaultChunkOverlap)
	}
}

func TestLoad_GoogleKeyFallback(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "")
	t.Setenv("LLM_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "g-key")

	if cfg := Load(); cfg.LLMAPIKey != "g-key" {
		t.Errorf("expected GOOGLE_API_KEY fallback, got %q", cfg.LLMAPIKey)
	}
}

func TestLoadFile(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("LLM_MODEL", "")
	t.Setenv("DEFAULT_CHUNK_SIZE", "")
	path := filepath.Join(t.TempDir(), "docsum.yaml")
	body := "port: \"7070\"\nllm_model: gemini-2.0-flash\ndefault_chunk_size: 800\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Port != "7070" || cfg.LLMModel != "gemini-2.0-flash" || cfg.DefaultChunkSize != 800 {
		t.Errorf("file values not applied: %+v", cfg)
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	base := Load()
	base.LLMProvider = "gemini"
	base.LLMModel = "m"
	base.DefaultChunkSize = 1200
	base.DefaultChunkOverlap = 150

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no port", func(c *Config) { c.Port = "" }},
		{"bad provider", func(c *Config) { c.LLMProvider = "cohere" }},
		{"no model", func(c *Config) { c.LLMModel = "" }},
		{"chunk too big", func(c *Config) { c.DefaultChunkSize = 5000 }},
		{"overlap too big", func(c *Config) { c.DefaultChunkOverlap = 400 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base
			c.Port = "8090"
			tt.mutate(&c)
			if err := c.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
