package pipeline

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/dgallion1/docsum/internal/doctree"
	"github.com/dgallion1/docsum/internal/parser"
)

// Extract parses an uploaded document into s. On failure the session moves
// to StatusError and the returned error wraps parser.ErrExtraction.
func Extract(s *Session, data []byte, fallbackPdftotext bool) (*doctree.DocTree, error) {
	s.SetStatus(StatusExtracting)

	tree, err := parseDocument(data, s.Filename, fallbackPdftotext)
	if err != nil {
		s.Fail(err)
		return nil, err
	}
	s.SetDocument(tree)
	return tree, nil
}

func parseDocument(data []byte, filename string, fallbackPdftotext bool) (*doctree.DocTree, error) {
	p, err := parser.ForFile(filename, fallbackPdftotext)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", parser.ErrExtraction, err)
	}
	tree, err := p.Parse(bytes.NewReader(data), filename)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filename, err)
	}
	if strings.TrimSpace(tree.Text()) == "" {
		return nil, fmt.Errorf("%w: no extractable text in %s", parser.ErrExtraction, filename)
	}
	return tree, nil
}
