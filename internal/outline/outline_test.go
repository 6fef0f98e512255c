package outline

import (
	"strings"
	"testing"
)

func heads(pairs ...any) []*Heading {
	var out []*Heading
	for i := 0; i < len(pairs); i += 2 {
		out = append(out, &Heading{Level: pairs[i].(int), Text: pairs[i+1].(string)})
	}
	return out
}

func TestBuild_FlatSiblings(t *testing.T) {
	nodes := Build(heads(2, "A", 2, "B", 2, "C"), nil)
	if len(nodes) != 3 {
		t.Fatalf("len = %d, want 3", len(nodes))
	}
	for i, want := range []string{"A", "B", "C"} {
		if nodes[i].Text != want {
			t.Errorf("node %d = %q, want %q", i, nodes[i].Text, want)
		}
	}
}

func TestBuild_StrictNestingDepth(t *testing.T) {
	// Levels non-decreasing by at most 1: depth = max - min + 1.
	nodes := Build(heads(1, "A", 2, "B", 3, "C", 4, "D"), nil)
	depth := 0
	for n := nodes; len(n) > 0; n = n[len(n)-1].Children {
		depth++
	}
	if depth != 4 {
		t.Errorf("depth = %d, want 4", depth)
	}
}

func TestBuild_SkippedLevelAndAscend(t *testing.T) {
	// (1,A) (3,B) (2,C) (2,D): B nests under A despite the skip; C ascends
	// past B back to A; D is C's sibling.
	nodes := Build(heads(1, "A", 3, "B", 2, "C", 2, "D"), nil)
	if len(nodes) != 1 || nodes[0].Text != "A" {
		t.Fatalf("root = %v, want single node A", nodes)
	}
	kids := nodes[0].Children
	if len(kids) != 3 {
		t.Fatalf("children of A = %d, want 3 (B, C, D)", len(kids))
	}
	for i, want := range []string{"B", "C", "D"} {
		if kids[i].Text != want {
			t.Errorf("child %d = %q, want %q", i, kids[i].Text, want)
		}
	}
	if len(kids[0].Children) != 0 {
		t.Errorf("B should have no children, got %d", len(kids[0].Children))
	}
}

func TestBuild_TopLevelNotOne(t *testing.T) {
	// Pages often start at level 2; top-level entries carry whatever level
	// they arrived with.
	nodes := Build(heads(2, "Intro", 3, "Detail", 2, "Next"), nil)
	if len(nodes) != 2 {
		t.Fatalf("len = %d, want 2", len(nodes))
	}
	if len(nodes[0].Children) != 1 || nodes[0].Children[0].Text != "Detail" {
		t.Errorf("Intro children = %v", nodes[0].Children)
	}
}

func TestBuild_ExcludePredicate(t *testing.T) {
	hs := heads(1, "Page Title", 2, "Section")
	nodes := Build(hs, ExcludeTitle("Page Title"))
	if len(nodes) != 1 || nodes[0].Text != "Section" {
		t.Fatalf("nodes = %v, want only Section", nodes)
	}
	// Excluded heading gets no anchor.
	if hs[0].AnchorID != "" {
		t.Errorf("excluded heading anchor = %q, want empty", hs[0].AnchorID)
	}
	if hs[1].AnchorID != "Section" {
		t.Errorf("anchor = %q, want %q", hs[1].AnchorID, "Section")
	}
}

func TestBuild_CorruptLevelBecomesRootSibling(t *testing.T) {
	nodes := Build(heads(2, "A", 7, "weird", 2, "B"), nil)
	if len(nodes) != 3 {
		t.Fatalf("len = %d, want 3 (corrupt entry kept at root)", len(nodes))
	}
	if nodes[1].Text != "weird" || len(nodes[1].Children) != 0 {
		t.Errorf("corrupt entry = %+v, want childless root sibling", nodes[1])
	}
}

func TestBuild_Empty(t *testing.T) {
	if nodes := Build(nil, nil); len(nodes) != 0 {
		t.Errorf("nodes = %v, want empty", nodes)
	}
	hs := heads(1, "Only Title")
	if nodes := Build(hs, ExcludeTitle("Only Title")); len(nodes) != 0 {
		t.Errorf("nodes = %v, want empty after exclusion", nodes)
	}
}

func TestBuild_AnchorIsTextVerbatim(t *testing.T) {
	hs := heads(2, "Hello World")
	Build(hs, nil)
	if hs[0].AnchorID != "Hello World" {
		t.Errorf("anchor = %q, want verbatim text", hs[0].AnchorID)
	}
}

func TestRenderHTML_Nested(t *testing.T) {
	nodes := Build(heads(1, "A", 2, "B"), nil)
	out := string(RenderHTML(nodes))
	want := `<ul><li><a href="#A">A</a><ul><li><a href="#B">B</a></li></ul></li></ul>`
	if out != want {
		t.Errorf("RenderHTML = %s, want %s", out, want)
	}
}

func TestRenderHTML_EscapesText(t *testing.T) {
	nodes := Build(heads(2, `Q "A" <B>`), nil)
	out := string(RenderHTML(nodes))
	if strings.Contains(out, "<B>") {
		t.Errorf("unescaped markup in %s", out)
	}
}

func TestRenderHTML_EmptyIsNil(t *testing.T) {
	if out := RenderHTML(nil); out != nil {
		t.Errorf("RenderHTML(nil) = %q, want nil", out)
	}
}
