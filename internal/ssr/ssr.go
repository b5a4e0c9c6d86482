// Package ssr expands the design system's custom elements into plain HTML before a page is sent.
package ssr

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/ceotarot/ceotarot/internal/errors"
	"golang.org/x/net/html"
	"io"
	"strings"
)

type component struct {
	tag   string
	class string
}

// components maps a custom element to the element and classes it is rendered as. An element can also
// opt in with an as="<custom element>" attribute to keep its own tag.
var components = map[string]component{
	"gold-button":  {tag: "button", class: "btn btn-gold"},
	"ghost-button": {tag: "button", class: "btn btn-ghost"},
	"glass-panel":  {tag: "section", class: "glass-panel"},
}

func expand(doc *goquery.Document) {
	for name, c := range components {
		doc.Find(name).Each(func(_ int, s *goquery.Selection) {
			s.AddClass(c.class)
			s.Nodes[0].Data = c.tag
		})
		doc.Find(`[as="` + name + `"]`).Each(func(_ int, s *goquery.Selection) {
			s.RemoveAttr("as")
			s.AddClass(c.class)
		})
	}
}

// ReplaceCustomElements expands a fragment such as an htmx partial.
func ReplaceCustomElements(writer io.Writer, reader io.Reader) error {
	doc, err := goquery.NewDocumentFromReader(reader)
	if err != nil {
		return errors.Wrap(err, "parse fragment")
	}
	expand(doc)

	// The parser wraps fragments in html and body. Only the body children are written back.
	body := doc.Find("body")
	if len(body.Nodes) == 0 {
		return nil
	}
	for c := body.Nodes[0].FirstChild; c != nil; c = c.NextSibling {
		if err = html.Render(writer, c); err != nil {
			return errors.Wrap(err, "render fragment")
		}
	}
	return nil
}

// ReplaceCustomElementsDocument expands a complete HTML document.
func ReplaceCustomElementsDocument(writer io.Writer, reader io.Reader) error {
	doc, err := goquery.NewDocumentFromReader(reader)
	if err != nil {
		return errors.Wrap(err, "parse document")
	}
	expand(doc)
	if err = html.Render(writer, doc.Nodes[0]); err != nil {
		return errors.Wrap(err, "render document")
	}
	return nil
}

// IsDocument reports whether rendered starts with a doctype.
func IsDocument(rendered []byte) bool {
	const prefix = "<!doctype"
	head := strings.TrimSpace(string(rendered[:min(len(rendered), 64)]))
	return len(head) >= len(prefix) && strings.EqualFold(head[:len(prefix)], prefix)
}
