// Package svg renders a layout simulation state onto a fixed-size vector
// drawing surface: one line per edge, one linked circle plus label per node.
package svg

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/starford/raido/internal/sim"
	"github.com/starford/raido/internal/truncate"
)

// DefaultMaxLabel is the label width budget in characters.
const DefaultMaxLabel = 18

// labelGap is the vertical distance between a node's circle and its label.
// The current node's larger glyph gets extra clearance.
const (
	labelGap        = 8
	currentLabelGap = 12
)

// Render draws the state's nodes and edges as a standalone SVG document.
// Node circles are wrapped in links to /{path}.html so the graph doubles
// as navigation. An empty state yields an empty surface, not an error.
func Render(s *sim.State, maxLabel int) []byte {
	if maxLabel <= 0 {
		maxLabel = DefaultMaxLabel
	}
	cfg := s.Config()

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f" class="link-graph">`,
		cfg.Width, cfg.Height, cfg.Width, cfg.Height)
	buf.WriteByte('\n')

	for _, e := range s.Edges {
		a, b := s.Nodes[e.Source], s.Nodes[e.Target]
		fmt.Fprintf(&buf, `  <line class="edge" x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f"/>`,
			a.X, a.Y, b.X, b.Y)
		buf.WriteByte('\n')
	}

	for _, n := range s.Nodes {
		class := "node"
		gap := n.Radius + labelGap
		if n.Current {
			class = "node current"
			gap = n.Radius + currentLabelGap
		}
		href := html.EscapeString("/" + n.Path + ".html")
		label := html.EscapeString(truncate.Fit(lastSegment(n.Path), maxLabel))

		fmt.Fprintf(&buf, `  <a href="%s"><circle class="%s" cx="%.2f" cy="%.2f" r="%.1f"/></a>`,
			href, class, n.X, n.Y, n.Radius)
		buf.WriteByte('\n')
		fmt.Fprintf(&buf, `  <text class="label" x="%.2f" y="%.2f" text-anchor="middle">%s</text>`,
			n.X, n.Y+gap, label)
		buf.WriteByte('\n')
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// lastSegment returns the final path segment of a note path.
func lastSegment(p string) string {
	if i := strings.LastIndexByte(p, '/'); i >= 0 {
		return p[i+1:]
	}
	return p
}
