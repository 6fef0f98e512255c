// Package page parses generated HTML pages, extracts their heading stream
// for the outline builder, and injects the rendered navigation fragments
// back into the host page's containers.
package page

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/starford/raido/internal/outline"
)

// Container element ids the page template reserves for injected navigation.
const (
	OutlineContainerID = "outline"
	GraphContainerID   = "graph"
)

// Doc is a parsed page plus the live references from heading records back
// to their source elements, so anchors written by the outline builder can
// be applied to the markup.
type Doc struct {
	root  *html.Node
	heads []headingRef
}

type headingRef struct {
	rec *outline.Heading
	el  *html.Node
}

// Parse parses a rendered page and collects its h1-h4 elements in document
// order. Headings inside script, style, nav, and the reserved navigation
// containers are not part of the page's content stream and are skipped.
func Parse(r io.Reader) (*Doc, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("page: parse html: %w", err)
	}
	d := &Doc{root: root}

	scope := findBody(root)
	if scope == nil {
		scope = root
	}
	d.collect(scope)
	return d, nil
}

// Headings returns the page's heading records in document order.
func (d *Doc) Headings() []*outline.Heading {
	out := make([]*outline.Heading, len(d.heads))
	for i, h := range d.heads {
		out[i] = h.rec
	}
	return out
}

// ApplyAnchors writes each heading's assigned anchor onto its source
// element's id attribute so in-page links resolve. Headings without an
// anchor (excluded ones) are left untouched.
func (d *Doc) ApplyAnchors() {
	for _, h := range d.heads {
		if h.rec.AnchorID == "" {
			continue
		}
		setAttr(h.el, "id", h.rec.AnchorID)
	}
}

// Inject replaces the children of the element with the given id by the
// parsed fragment. The fragment is trusted markup produced by this
// program.
func (d *Doc) Inject(id string, fragment []byte) error {
	el := findByID(d.root, id)
	if el == nil {
		return fmt.Errorf("page: container #%s not found", id)
	}

	ctx := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(string(fragment)), ctx)
	if err != nil {
		return fmt.Errorf("page: parse fragment: %w", err)
	}

	for c := el.FirstChild; c != nil; {
		next := c.NextSibling
		el.RemoveChild(c)
		c = next
	}
	for _, n := range nodes {
		el.AppendChild(n)
	}
	return nil
}

// RemoveContainer drops the element with the given id from the page
// entirely; used when a page has no eligible headings and the outline
// panel should not appear at all. Missing containers are fine.
func (d *Doc) RemoveContainer(id string) {
	el := findByID(d.root, id)
	if el == nil || el.Parent == nil {
		return
	}
	el.Parent.RemoveChild(el)
}

// Render serializes the page back to HTML.
func (d *Doc) Render(w io.Writer) error {
	if err := html.Render(w, d.root); err != nil {
		return fmt.Errorf("page: render: %w", err)
	}
	return nil
}

func (d *Doc) collect(n *html.Node) {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "script", "style", "nav":
			return
		}
		if id := getAttr(n, "id"); id == OutlineContainerID || id == GraphContainerID {
			return
		}
		if level := headingLevel(n.Data); level > 0 {
			d.heads = append(d.heads, headingRef{
				rec: &outline.Heading{Level: level, Text: textContent(n)},
				el:  n,
			})
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		d.collect(c)
	}
}

func headingLevel(tag string) int {
	switch tag {
	case "h1":
		return 1
	case "h2":
		return 2
	case "h3":
		return 3
	case "h4":
		return 4
	}
	return 0
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}

func findByID(n *html.Node, id string) *html.Node {
	if n.Type == html.ElementNode && getAttr(n, "id") == id {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if el := findByID(c, id); el != nil {
			return el
		}
	}
	return nil
}

func getAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}
