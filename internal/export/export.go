// Package export renders a final summary into downloadable documents.
package export

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Title heads every exported document.
const Title = "AI PDF Summary"

var (
	// ErrExport wraps every failure to build a document.
	ErrExport = errors.New("export failed")

	// ErrUnknownFormat is returned by ForFormat for unsupported names.
	ErrUnknownFormat = fmt.Errorf("%w: unknown format", ErrExport)
)

// Format is one downloadable rendering of a summary.
type Format struct {
	Name     string
	Filename string
	MIME     string
	Render   func(summary string) ([]byte, error)
}

var formats = map[string]Format{
	"txt": {
		Name:     "txt",
		Filename: "summary.txt",
		MIME:     "text/plain",
		Render:   func(s string) ([]byte, error) { return PlainText(s), nil },
	},
	"docx": {
		Name:     "docx",
		Filename: "summary.docx",
		MIME:     "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		Render:   DOCX,
	},
	"pdf": {
		Name:     "pdf",
		Filename: "summary.pdf",
		MIME:     "application/pdf",
		Render:   PDF,
	},
	"html": {
		Name:     "html",
		Filename: "summary.html",
		MIME:     "text/html; charset=utf-8",
		Render:   HTML,
	},
}

// ForFormat resolves a format name such as "docx" or ".DOCX".
func ForFormat(name string) (Format, error) {
	key := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), "."))
	f, ok := formats[key]
	if !ok {
		return Format{}, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
	return f, nil
}

// Formats returns the supported format names, sorted.
func Formats() []string {
	names := make([]string, 0, len(formats))
	for name := range formats {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PlainText returns the summary bytes unchanged.
func PlainText(summary string) []byte {
	return []byte(summary)
}
