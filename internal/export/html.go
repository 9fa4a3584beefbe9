package export

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// HTML renders the summary as Markdown inside a standalone HTML document.
// Model output frequently uses Markdown lists and emphasis, especially in
// the Bullet Points style.
func HTML(summary string) ([]byte, error) {
	var fragment bytes.Buffer
	if err := goldmark.Convert([]byte(summary), &fragment); err != nil {
		return nil, fmt.Errorf("%w: render markdown: %w", ErrExport, err)
	}

	body := element(atom.Body)
	nodes, err := html.ParseFragment(&fragment, body)
	if err != nil {
		return nil, fmt.Errorf("%w: parse fragment: %w", ErrExport, err)
	}

	h1 := element(atom.H1)
	h1.AppendChild(&html.Node{Type: html.TextNode, Data: Title})
	body.AppendChild(h1)
	for _, n := range nodes {
		body.AppendChild(n)
	}

	meta := element(atom.Meta)
	meta.Attr = []html.Attribute{{Key: "charset", Val: "utf-8"}}
	title := element(atom.Title)
	title.AppendChild(&html.Node{Type: html.TextNode, Data: Title})
	head := element(atom.Head)
	head.AppendChild(meta)
	head.AppendChild(title)

	root := element(atom.Html)
	root.AppendChild(head)
	root.AppendChild(body)

	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})
	doc.AppendChild(root)

	var out bytes.Buffer
	if err := html.Render(&out, doc); err != nil {
		return nil, fmt.Errorf("%w: render html: %w", ErrExport, err)
	}
	return out.Bytes(), nil
}

func element(a atom.Atom) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
}
