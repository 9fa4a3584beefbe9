package chunker

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSplit_OverlapScenario(t *testing.T) {
	chunks := Split("ABCDEFGHIJ", 4, 1)
	want := []string{"ABCD", "DEFG", "GHIJ"}
	got := Texts(chunks)
	if len(got) != len(want) {
		t.Fatalf("expected %d chunks, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("chunk %d: expected %q, got %q", i, want[i], got[i])
		}
	}

	starts := []int{0, 3, 6}
	for i, c := range chunks {
		if c.Start != starts[i] {
			t.Errorf("chunk %d: expected start %d, got %d", i, starts[i], c.Start)
		}
		if c.Index != i {
			t.Errorf("chunk %d: expected index %d, got %d", i, i, c.Index)
		}
		if c.Length != 4 {
			t.Errorf("chunk %d: expected length 4, got %d", i, c.Length)
		}
	}
}

func TestSplit_OverlapEqualsSize(t *testing.T) {
	got := Texts(Split("ABCDEFGHIJ", 5, 5))
	want := []string{"ABCDE", "FGHIJ"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("chunk %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestSplit_OverlapAtLeastSizeTerminates(t *testing.T) {
	text := strings.Repeat("x", 1003)
	tests := []struct {
		size, overlap int
	}{
		{10, 10},
		{10, 11},
		{7, 300},
		{1, 1},
		{500, 500},
	}
	for _, tt := range tests {
		chunks := Split(text, tt.size, tt.overlap)
		want := (len(text) + tt.size - 1) / tt.size
		if len(chunks) != want {
			t.Errorf("size=%d overlap=%d: expected %d chunks, got %d", tt.size, tt.overlap, want, len(chunks))
		}
		for i := 1; i < len(chunks); i++ {
			if chunks[i].Start != chunks[i-1].End() {
				t.Errorf("size=%d overlap=%d: chunk %d overlaps its predecessor", tt.size, tt.overlap, i)
			}
		}
	}
}

func TestSplit_EmptyText(t *testing.T) {
	for _, cfg := range []Config{{500, 0}, {1200, 150}, {5, 5}} {
		if chunks := Split("", cfg.ChunkSize, cfg.ChunkOverlap); len(chunks) != 0 {
			t.Errorf("size=%d overlap=%d: expected no chunks, got %d", cfg.ChunkSize, cfg.ChunkOverlap, len(chunks))
		}
	}
}

func TestSplit_NonPositiveSize(t *testing.T) {
	if chunks := Split("abc", 0, 0); chunks != nil {
		t.Errorf("expected nil for size 0, got %v", chunks)
	}
}

func TestSplit_NegativeOverlapTreatedAsZero(t *testing.T) {
	got := Texts(Split("abcdef", 2, -3))
	want := []string{"ab", "cd", "ef"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestSplit_ShorterThanSize(t *testing.T) {
	chunks := Split("short", 1200, 150)
	if len(chunks) != 1 || chunks[0].Text != "short" {
		t.Fatalf("expected single chunk %q, got %v", "short", Texts(chunks))
	}
}

func TestSplit_RuneOffsets(t *testing.T) {
	// Devanagari and accented Latin are multi-byte in UTF-8.
	text := "नमस्ते दुनिया café"
	chunks := Split(text, 4, 1)
	for i, c := range chunks {
		if !utf8.ValidString(c.Text) {
			t.Errorf("chunk %d is not valid UTF-8: %q", i, c.Text)
		}
		if n := len([]rune(c.Text)); n != c.Length {
			t.Errorf("chunk %d: length %d does not match rune count %d", i, c.Length, n)
		}
	}
	if got := Reassemble(chunks); got != text {
		t.Errorf("reassembled text mismatch: got %q", got)
	}
}

func TestSplit_InvalidUTF8KeptVerbatim(t *testing.T) {
	text := "ab\xffcd\xe0\xa4"
	for _, tt := range []struct{ size, overlap int }{{2, 1}, {3, 0}, {100, 0}} {
		chunks := Split(text, tt.size, tt.overlap)
		if got := Reassemble(chunks); got != text {
			t.Errorf("size=%d overlap=%d: expected %q, got %q", tt.size, tt.overlap, text, got)
		}
		for i, c := range chunks {
			if strings.Contains(c.Text, "\uFFFD") {
				t.Errorf("size=%d overlap=%d: chunk %d gained a replacement character: %q", tt.size, tt.overlap, i, c.Text)
			}
		}
	}

	// "\xe0\xa4" is a truncated sequence: each byte is its own character.
	chunks := Split(text, 3, 0)
	if got := chunks[len(chunks)-1]; got.End() != 7 {
		t.Errorf("expected 7 characters, last chunk ends at %d", got.End())
	}
}

func TestSplit_CoversEveryCharacter(t *testing.T) {
	text := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 97)
	tests := []struct {
		size, overlap int
	}{
		{500, 0},
		{500, 150},
		{1200, 300},
		{2000, 0},
		{13, 12},
		{13, 13},
		{3, 50},
	}
	for _, tt := range tests {
		chunks := Split(text, tt.size, tt.overlap)
		if got := Reassemble(chunks); got != text {
			t.Errorf("size=%d overlap=%d: reassembly does not reconstruct the input", tt.size, tt.overlap)
		}
		if chunks[0].Start != 0 {
			t.Errorf("size=%d overlap=%d: first chunk starts at %d", tt.size, tt.overlap, chunks[0].Start)
		}
		last := chunks[len(chunks)-1]
		if last.End() != len([]rune(text)) {
			t.Errorf("size=%d overlap=%d: last chunk ends at %d", tt.size, tt.overlap, last.End())
		}
		for i, c := range chunks {
			if c.Length > tt.size {
				t.Errorf("size=%d overlap=%d: chunk %d has length %d", tt.size, tt.overlap, i, c.Length)
			}
			if i > 0 && c.Start <= chunks[i-1].Start {
				t.Errorf("size=%d overlap=%d: chunk %d does not advance", tt.size, tt.overlap, i)
			}
		}
	}
}

func TestSplitWithConfig_Defaults(t *testing.T) {
	text := strings.Repeat("a", 2500)
	chunks := SplitWithConfig(text, DefaultConfig())
	// 0..1200, 1050..2250, 2100..2500
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	if chunks[1].Start != 1050 || chunks[2].Start != 2100 {
		t.Errorf("unexpected starts %d, %d", chunks[1].Start, chunks[2].Start)
	}
}

func TestEstimateTokens(t *testing.T) {
	if got := EstimateTokens(""); got != 0 {
		t.Errorf("expected 0 for empty text, got %d", got)
	}
	if got := EstimateTokens("   "); got != 1 {
		t.Errorf("expected floor of 1 for whitespace, got %d", got)
	}
	if got := EstimateTokens(strings.Repeat("word ", 100)); got != 133 {
		t.Errorf("expected 133, got %d", got)
	}
	if got := EstimateChunkTokens([]string{"one two", "three"}); got != 3 {
		t.Errorf("expected 3, got %d", got)
	}
}
