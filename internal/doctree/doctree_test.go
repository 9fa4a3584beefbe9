package doctree

import "testing"

func TestDocTree_TextSkipsEmptyPages(t *testing.T) {
	tree := &DocTree{
		Children: []*DocNode{
			{Text: "first", Page: 1},
			{Text: "", Page: 2},
			{Text: "third", Page: 3},
		},
	}
	if got, want := tree.Text(), "first\nthird\n"; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
	if tree.PageCount() != 3 {
		t.Errorf("expected 3 pages, got %d", tree.PageCount())
	}
}

func TestDocTree_TextKeepsWhitespace(t *testing.T) {
	tree := &DocTree{
		Children: []*DocNode{
			{Text: "  lead and trail ", Page: 1},
			{Text: " \n", Page: 2},
			{Text: "", Page: 3},
		},
	}
	if got, want := tree.Text(), "  lead and trail \n \n\n"; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestDocTree_TextNoPages(t *testing.T) {
	tree := &DocTree{Title: "empty"}
	if got := tree.Text(); got != "" {
		t.Errorf("expected empty text, got %q", got)
	}
}

func TestChunk_End(t *testing.T) {
	c := Chunk{Start: 3, Length: 4}
	if c.End() != 7 {
		t.Errorf("expected end 7, got %d", c.End())
	}
}
