package chunker

import (
	"strings"
	"unicode/utf8"

	"github.com/dgallion1/docsum/internal/doctree"
)

// Config controls chunking behavior.
type Config struct {
	ChunkSize    int // Window size in characters.
	ChunkOverlap int // Characters shared by consecutive windows.
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		ChunkSize:    1200,
		ChunkOverlap: 150,
	}
}

// Split breaks text into fixed-size windows that overlap by up to overlap
// characters. Offsets count characters, not bytes, so multi-byte scripts are
// never cut inside a character. A byte that is not valid UTF-8 counts as one
// character and is carried through unchanged.
//
// The cursor only ever moves forward: when end-overlap would not advance past
// the current cursor (overlap >= size) the next window starts at end, which
// degrades to non-overlapping chunks instead of looping. Splitting stops
// once a window reaches the end of the text.
func Split(text string, size, overlap int) []doctree.Chunk {
	if size <= 0 || text == "" {
		return nil
	}
	if overlap < 0 {
		overlap = 0
	}

	bounds := charBounds(text)
	n := len(bounds) - 1

	var chunks []doctree.Chunk
	start := 0
	for start < n {
		end := min(start+size, n)
		chunks = append(chunks, doctree.Chunk{
			Text:   text[bounds[start]:bounds[end]],
			Index:  len(chunks),
			Start:  start,
			Length: end - start,
		})
		if end == n {
			// A further window would lie entirely inside this one.
			break
		}
		if next := end - overlap; next > start {
			start = next
		} else {
			start = end
		}
	}
	return chunks
}

// charBounds returns the byte offset of every character in text followed by
// len(text).
func charBounds(text string) []int {
	bounds := make([]int, 0, len(text)+1)
	for i := 0; i < len(text); {
		bounds = append(bounds, i)
		_, w := utf8.DecodeRuneInString(text[i:])
		i += w
	}
	return append(bounds, len(text))
}

// SplitWithConfig is Split driven by a Config.
func SplitWithConfig(text string, cfg Config) []doctree.Chunk {
	return Split(text, cfg.ChunkSize, cfg.ChunkOverlap)
}

// Texts returns the text of each chunk, in order.
func Texts(chunks []doctree.Chunk) []string {
	out := make([]string, len(chunks))
	for i, c := range chunks {
		out[i] = c.Text
	}
	return out
}

// Reassemble rebuilds the source text from chunks by dropping the part of each
// chunk already covered by its predecessor.
func Reassemble(chunks []doctree.Chunk) string {
	var sb strings.Builder
	covered := 0
	for _, c := range chunks {
		text := c.Text
		if skip := covered - c.Start; skip > 0 {
			bounds := charBounds(text)
			if skip >= len(bounds)-1 {
				continue
			}
			text = text[bounds[skip]:]
		}
		sb.WriteString(text)
		covered = c.End()
	}
	return sb.String()
}
