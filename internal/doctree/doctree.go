package doctree

import "strings"

// DocTree is the root of an extracted document.
type DocTree struct {
	Title    string     // Document title (from filename)
	Children []*DocNode // One node per source page, in page order
}

// DocNode is a single page of extracted text.
type DocNode struct {
	Title string // e.g. "Page 3"
	Text  string // Extracted page text, empty when the page had none
	Page  int    // 1-based source page
}

// Text joins page texts into the document text. Every page that yielded text
// contributes its text followed by a newline; empty pages contribute nothing.
func (t *DocTree) Text() string {
	var sb strings.Builder
	for _, n := range t.Children {
		if n.Text == "" {
			continue
		}
		sb.WriteString(n.Text)
		sb.WriteString("\n")
	}
	return sb.String()
}

// PageCount returns the number of source pages, including empty ones.
func (t *DocTree) PageCount() int {
	return len(t.Children)
}

// Chunk is a window of document text ready for summarization.
// Start and Length count characters; an invalid UTF-8 byte is one character.
type Chunk struct {
	Text   string
	Index  int // Sequence number within document
	Start  int
	Length int
}

// End returns the character offset one past the end of the chunk.
func (c Chunk) End() int {
	return c.Start + c.Length
}
