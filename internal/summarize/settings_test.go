package summarize

import (
	"errors"
	"testing"
)

func TestSettingsValidate(t *testing.T) {
	base := DefaultSettings()
	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr bool
	}{
		{"defaults", func(*Settings) {}, false},
		{"min size", func(s *Settings) { s.ChunkSize = 500 }, false},
		{"max size", func(s *Settings) { s.ChunkSize = 2000 }, false},
		{"size too small", func(s *Settings) { s.ChunkSize = 499 }, true},
		{"size too large", func(s *Settings) { s.ChunkSize = 2001 }, true},
		{"zero overlap", func(s *Settings) { s.ChunkOverlap = 0 }, false},
		{"max overlap", func(s *Settings) { s.ChunkOverlap = 300 }, false},
		{"negative overlap", func(s *Settings) { s.ChunkOverlap = -1 }, true},
		{"overlap too large", func(s *Settings) { s.ChunkOverlap = 301 }, true},
		{"unknown style", func(s *Settings) { s.Style = "Poetic" }, true},
		{"unknown language", func(s *Settings) { s.Language = "German" }, true},
		{"empty style", func(s *Settings) { s.Style = "" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := base
			tt.mutate(&s)
			err := s.Validate()
			if tt.wantErr && !errors.Is(err, ErrInvalidSettings) {
				t.Errorf("expected ErrInvalidSettings, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	if s.ChunkSize != 1200 || s.ChunkOverlap != 150 {
		t.Errorf("expected 1200/150, got %d/%d", s.ChunkSize, s.ChunkOverlap)
	}
	if s.Style != StyleConcise || s.Language != LanguageEnglish {
		t.Errorf("unexpected defaults %+v", s)
	}
	cfg := s.ChunkerConfig()
	if cfg.ChunkSize != 1200 || cfg.ChunkOverlap != 150 {
		t.Errorf("unexpected chunker config %+v", cfg)
	}
}

func TestParseStyleAndLanguage(t *testing.T) {
	if s, err := ParseStyle(" bullet points "); err != nil || s != StyleBulletPoints {
		t.Errorf("ParseStyle: got %q, %v", s, err)
	}
	if l, err := ParseLanguage("hindi"); err != nil || l != LanguageHindi {
		t.Errorf("ParseLanguage: got %q, %v", l, err)
	}
	if _, err := ParseLanguage("Klingon"); !errors.Is(err, ErrInvalidSettings) {
		t.Errorf("expected ErrInvalidSettings, got %v", err)
	}
}

func TestResultDisplay(t *testing.T) {
	if got := Ok(4, "text").Display(); got != "text" {
		t.Errorf("expected text, got %q", got)
	}
	if got := Fail(4, errors.New("x")).Display(); got != "[Error in chunk 5]" {
		t.Errorf("expected sentinel, got %q", got)
	}
	if got := Fail(0, errors.New("x")).Reason(); got != "x" {
		t.Errorf("expected reason, got %q", got)
	}
}
