package summarize

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dgallion1/docsum/internal/chunker"
)

// Style controls how the model is asked to write each summary.
type Style string

const (
	StyleConcise      Style = "Concise"
	StyleDetailed     Style = "Detailed"
	StyleBulletPoints Style = "Bullet Points"
)

// Language is the output language requested from the model.
type Language string

const (
	LanguageEnglish Language = "English"
	LanguageHindi   Language = "Hindi"
	LanguageFrench  Language = "French"
)

// Chunking bounds accepted from callers.
const (
	MinChunkSize        = 500
	MaxChunkSize        = 2000
	MinChunkOverlap     = 0
	MaxChunkOverlap     = 300
	DefaultChunkSize    = 1200
	DefaultChunkOverlap = 150
)

// ErrInvalidSettings is returned by Settings.Validate.
var ErrInvalidSettings = errors.New("invalid settings")

// Styles lists the supported styles in display order.
func Styles() []Style {
	return []Style{StyleConcise, StyleDetailed, StyleBulletPoints}
}

// Languages lists the supported languages in display order.
func Languages() []Language {
	return []Language{LanguageEnglish, LanguageHindi, LanguageFrench}
}

// ParseStyle matches name against the supported styles, ignoring case and
// surrounding whitespace.
func ParseStyle(name string) (Style, error) {
	name = strings.TrimSpace(name)
	for _, s := range Styles() {
		if strings.EqualFold(name, string(s)) {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: unknown style %q", ErrInvalidSettings, name)
}

// ParseLanguage matches name against the supported languages, ignoring case
// and surrounding whitespace.
func ParseLanguage(name string) (Language, error) {
	name = strings.TrimSpace(name)
	for _, l := range Languages() {
		if strings.EqualFold(name, string(l)) {
			return l, nil
		}
	}
	return "", fmt.Errorf("%w: unknown language %q", ErrInvalidSettings, name)
}

// Settings is the read-only configuration of one summarization run.
type Settings struct {
	Style        Style    `json:"style"`
	Language     Language `json:"language"`
	ChunkSize    int      `json:"chunk_size"`
	ChunkOverlap int      `json:"chunk_overlap"`
}

// DefaultSettings returns Concise English output with the default chunking.
func DefaultSettings() Settings {
	return Settings{
		Style:        StyleConcise,
		Language:     LanguageEnglish,
		ChunkSize:    DefaultChunkSize,
		ChunkOverlap: DefaultChunkOverlap,
	}
}

// Validate checks every field against the supported values and ranges.
func (s Settings) Validate() error {
	var errs []error
	if _, err := ParseStyle(string(s.Style)); err != nil {
		errs = append(errs, err)
	}
	if _, err := ParseLanguage(string(s.Language)); err != nil {
		errs = append(errs, err)
	}
	if s.ChunkSize < MinChunkSize || s.ChunkSize > MaxChunkSize {
		errs = append(errs, fmt.Errorf("%w: chunk size %d outside [%d, %d]", ErrInvalidSettings, s.ChunkSize, MinChunkSize, MaxChunkSize))
	}
	if s.ChunkOverlap < MinChunkOverlap || s.ChunkOverlap > MaxChunkOverlap {
		errs = append(errs, fmt.Errorf("%w: chunk overlap %d outside [%d, %d]", ErrInvalidSettings, s.ChunkOverlap, MinChunkOverlap, MaxChunkOverlap))
	}
	return errors.Join(errs...)
}

// ChunkerConfig converts the chunking fields for the chunker package.
func (s Settings) ChunkerConfig() chunker.Config {
	return chunker.Config{ChunkSize: s.ChunkSize, ChunkOverlap: s.ChunkOverlap}
}

// Options describes every selectable value, for shells that render pickers.
type Options struct {
	Styles              []Style    `json:"styles"`
	Languages           []Language `json:"languages"`
	MinChunkSize        int        `json:"min_chunk_size"`
	MaxChunkSize        int        `json:"max_chunk_size"`
	DefaultChunkSize    int        `json:"default_chunk_size"`
	MinChunkOverlap     int        `json:"min_chunk_overlap"`
	MaxChunkOverlap     int        `json:"max_chunk_overlap"`
	DefaultChunkOverlap int        `json:"default_chunk_overlap"`
}

// AvailableOptions returns the supported styles, languages and ranges.
func AvailableOptions() Options {
	return Options{
		Styles:              Styles(),
		Languages:           Languages(),
		MinChunkSize:        MinChunkSize,
		MaxChunkSize:        MaxChunkSize,
		DefaultChunkSize:    DefaultChunkSize,
		MinChunkOverlap:     MinChunkOverlap,
		MaxChunkOverlap:     MaxChunkOverlap,
		DefaultChunkOverlap: DefaultChunkOverlap,
	}
}
