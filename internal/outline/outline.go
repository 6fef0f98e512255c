// Package outline reconstructs a page's heading hierarchy and renders it
// as a nested navigation list.
package outline

// Heading levels the site generator emits. Anything outside this range is
// treated as a corrupt entry and inserted at the root level.
const (
	MinLevel = 1
	MaxLevel = 4
)

// Heading is one entry of the ordered heading stream extracted from a
// rendered page. Build writes AnchorID back onto it so the caller can
// propagate the anchor to the source element.
type Heading struct {
	Level    int
	Text     string
	AnchorID string
}

// Node is one entry of the reconstructed outline tree.
type Node struct {
	Level    int
	Text     string
	AnchorID string
	Children []*Node
}

// ExcludeTitle returns a predicate that skips the page's own title heading:
// a level-1 heading whose text equals title. With an empty title nothing is
// excluded.
func ExcludeTitle(title string) func(*Heading) bool {
	return func(h *Heading) bool {
		return title != "" && h.Level == 1 && h.Text == title
	}
}

// Build reconstructs the outline tree from headings in a single
// left-to-right pass and assigns each heading its anchor identifier
// (the heading text verbatim; duplicate texts collide and the last
// one wins, matching in-page anchor resolution).
//
// Nesting follows the open-ancestor chain: a heading deeper than the
// previous one becomes its child even when levels are skipped, and a
// shallower heading ascends until it finds an ancestor strictly above
// its own level. An empty result means the caller should omit the
// navigation panel entirely.
func Build(headings []*Heading, exclude func(*Heading) bool) []*Node {
	root := &Node{}
	// Chain of open nodes from root to the most recently inserted one.
	stack := []*Node{root}

	for _, h := range headings {
		if exclude != nil && exclude(h) {
			continue
		}

		h.AnchorID = h.Text
		n := &Node{Level: h.Level, Text: h.Text, AnchorID: h.Text}

		if h.Level < MinLevel || h.Level > MaxLevel {
			// Corrupt level: keep the entry but form no nested
			// relationship, and close any open chain.
			root.Children = append(root.Children, n)
			stack = stack[:1]
			continue
		}

		for len(stack) > 1 && stack[len(stack)-1].Level >= h.Level {
			stack = stack[:len(stack)-1]
		}
		parent := stack[len(stack)-1]
		parent.Children = append(parent.Children, n)
		stack = append(stack, n)
	}

	return root.Children
}
