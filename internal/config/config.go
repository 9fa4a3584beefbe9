package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/dgallion1/docsum/internal/llm"
	"github.com/dgallion1/docsum/internal/summarize"
)

type Config struct {
	Port string

	// Auth
	DocsumAPIKey string

	// Language model
	LLMProvider  string
	LLMAPIKey    string
	LLMModel     string
	LLMBaseURL   string
	LLMTimeout   time.Duration
	LLMRateLimit float64

	// Worker pool
	WorkerCount            int
	MaxQueueSize           int
	MaxConcurrentSummaries int

	// Upload limits
	MaxUploadBytes int64

	// Chunking defaults
	DefaultChunkSize    int
	DefaultChunkOverlap int

	// Question answering
	QAMaxContextChars int

	// Session state
	SessionTTL time.Duration

	// PDF
	PDFFallbackPdftotext bool
}

var defaults = map[string]any{
	"port":                     "8090",
	"llm_provider":             llm.ProviderGemini,
	"llm_timeout":              60 * time.Second,
	"llm_rate_limit":           0.0,
	"worker_count":             2,
	"max_queue_size":           100,
	"max_concurrent_summaries": 4,
	"max_upload_bytes":         int64(52428800), // 50MB
	"default_chunk_size":       summarize.DefaultChunkSize,
	"default_chunk_overlap":    summarize.DefaultChunkOverlap,
	"qa_max_context_chars":     summarize.DefaultQAMaxContextChars,
	"session_ttl":              time.Hour,
	"pdf_fallback_pdftotext":   true,
}

// defaultModels is used when LLM_MODEL is unset.
var defaultModels = map[string]string{
	llm.ProviderGemini:    "gemini-2.5-flash",
	llm.ProviderAnthropic: "claude-sonnet-4-5-20250929",
	llm.ProviderOpenAI:    "gpt-4o-mini",
}

// providerKeys lists the provider-specific credential variables consulted
// when LLM_API_KEY is unset, in order.
var providerKeys = map[string][]string{
	llm.ProviderGemini:    {"gemini_api_key", "google_api_key"},
	llm.ProviderAnthropic: {"anthropic_api_key"},
	llm.ProviderOpenAI:    {"openai_api_key"},
}

// NewViper returns a viper instance with defaults and environment lookup
// installed. Keys are the lower-case forms of the environment variables.
func NewViper() *viper.Viper {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.AutomaticEnv()
	return v
}

// Load reads configuration from the environment.
func Load() Config {
	return FromViper(NewViper())
}

// LoadFile reads configuration from a YAML file, with the environment taking
// precedence over file values.
func LoadFile(path string) (Config, error) {
	v := NewViper()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}
	return FromViper(v), nil
}

// FromViper builds a Config from v, applying the same fallbacks as Load.
func FromViper(v *viper.Viper) Config {
	cfg := Config{
		Port: v.GetString("port"),

		DocsumAPIKey: v.GetString("docsum_api_key"),

		LLMProvider:  strings.ToLower(strings.TrimSpace(v.GetString("llm_provider"))),
		LLMModel:     v.GetString("llm_model"),
		LLMBaseURL:   v.GetString("llm_base_url"),
		LLMTimeout:   v.GetDuration("llm_timeout"),
		LLMRateLimit: v.GetFloat64("llm_rate_limit"),

		WorkerCount:            v.GetInt("worker_count"),
		MaxQueueSize:           v.GetInt("max_queue_size"),
		MaxConcurrentSummaries: v.GetInt("max_concurrent_summaries"),

		MaxUploadBytes: v.GetInt64("max_upload_bytes"),

		DefaultChunkSize:    v.GetInt("default_chunk_size"),
		DefaultChunkOverlap: v.GetInt("default_chunk_overlap"),

		QAMaxContextChars: v.GetInt("qa_max_context_chars"),

		SessionTTL: v.GetDuration("session_ttl"),

		PDFFallbackPdftotext: v.GetBool("pdf_fallback_pdftotext"),
	}

	cfg.LLMAPIKey = v.GetString("llm_api_key")
	if cfg.LLMAPIKey == "" {
		for _, key := range providerKeys[cfg.LLMProvider] {
			if k := v.GetString(key); k != "" {
				cfg.LLMAPIKey = k
				break
			}
		}
	}
	if cfg.LLMModel == "" {
		cfg.LLMModel = defaultModels[cfg.LLMProvider]
	}

	if cfg.LLMTimeout <= 0 {
		cfg.LLMTimeout = 60 * time.Second
	}
	if cfg.LLMRateLimit < 0 {
		cfg.LLMRateLimit = 0
	}
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 2
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxConcurrentSummaries <= 0 {
		cfg.MaxConcurrentSummaries = 4
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.DefaultChunkSize <= 0 {
		cfg.DefaultChunkSize = summarize.DefaultChunkSize
	}
	if cfg.DefaultChunkOverlap < 0 {
		cfg.DefaultChunkOverlap = summarize.DefaultChunkOverlap
	}
	if cfg.QAMaxContextChars <= 0 {
		cfg.QAMaxContextChars = summarize.DefaultQAMaxContextChars
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = time.Hour
	}

	return cfg
}

// Validate rejects values no component can work with. A missing model
// credential is not an error: the model client starts disabled instead.
func (c Config) Validate() error {
	var errs []error
	if c.Port == "" {
		errs = append(errs, errors.New("PORT is required"))
	}
	if !llm.IsProvider(c.LLMProvider) {
		errs = append(errs, fmt.Errorf("LLM_PROVIDER %q is not one of gemini, anthropic, openai", c.LLMProvider))
	}
	if c.LLMModel == "" {
		errs = append(errs, errors.New("LLM_MODEL is required"))
	}
	if err := c.DefaultSettings().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("default chunking: %w", err))
	}
	return errors.Join(errs...)
}

// DefaultSettings returns the run settings used when a caller supplies none.
func (c Config) DefaultSettings() summarize.Settings {
	s := summarize.DefaultSettings()
	s.ChunkSize = c.DefaultChunkSize
	s.ChunkOverlap = c.DefaultChunkOverlap
	return s
}

// LLMOptions converts the model fields for llm.New.
func (c Config) LLMOptions() llm.Options {
	return llm.Options{
		Provider:  c.LLMProvider,
		APIKey:    c.LLMAPIKey,
		Model:     c.LLMModel,
		BaseURL:   c.LLMBaseURL,
		Timeout:   c.LLMTimeout,
		RateLimit: c.LLMRateLimit,
	}
}
