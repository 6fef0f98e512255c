package outline

import (
	"bytes"
	"fmt"
	"html"
)

// RenderHTML renders the outline tree as a nested <ul> list whose entries
// link to in-page anchors. Returns nil for an empty tree so callers can
// drop the containing panel instead of emitting an empty list.
func RenderHTML(nodes []*Node) []byte {
	if len(nodes) == 0 {
		return nil
	}
	var buf bytes.Buffer
	writeList(&buf, nodes)
	return buf.Bytes()
}

func writeList(buf *bytes.Buffer, nodes []*Node) {
	buf.WriteString("<ul>")
	for _, n := range nodes {
		fmt.Fprintf(buf, `<li><a href="#%s">%s</a>`,
			html.EscapeString(n.AnchorID), html.EscapeString(n.Text))
		if len(n.Children) > 0 {
			writeList(buf, n.Children)
		}
		buf.WriteString("</li>")
	}
	buf.WriteString("</ul>")
}
