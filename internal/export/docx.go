package export

import (
	"bytes"
	"fmt"

	"github.com/fumiama/go-docx"
)

// DOCX builds a Word document with a Heading1 title and one paragraph
// holding the summary.
func DOCX(summary string) ([]byte, error) {
	doc := docx.New().WithDefaultTheme()

	doc.AddParagraph().Style("Heading1").AddText(Title)
	doc.AddParagraph().AddText(summary)

	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("%w: write docx: %w", ErrExport, err)
	}
	return buf.Bytes(), nil
}
