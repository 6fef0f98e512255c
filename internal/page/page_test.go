package page

import (
	"bytes"
	"strings"
	"testing"
)

const samplePage = `<!DOCTYPE html>
<html><head><title>Note</title></head><body>
<nav class="topnav"><h1>Site Name</h1></nav>
<nav id="outline"></nav>
<article>
<h1>My Note</h1>
<p>intro</p>
<h2>Section One</h2>
<h3>Detail</h3>
<h2>Section Two</h2>
<h5>too deep</h5>
</article>
<div id="graph"></div>
<script>var x = "<h2>not a heading</h2>";</script>
</body></html>`

func parseSample(t *testing.T) *Doc {
	t.Helper()
	d, err := Parse(strings.NewReader(samplePage))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return d
}

func TestParse_CollectsContentHeadingsInOrder(t *testing.T) {
	d := parseSample(t)
	heads := d.Headings()
	want := []string{"My Note", "Section One", "Detail", "Section Two"}
	if len(heads) != len(want) {
		t.Fatalf("headings = %d, want %d (nav/script/h5 skipped)", len(heads), len(want))
	}
	for i, h := range heads {
		if h.Text != want[i] {
			t.Errorf("heading %d = %q, want %q", i, h.Text, want[i])
		}
	}
	if heads[0].Level != 1 || heads[2].Level != 3 {
		t.Errorf("levels = %d,%d want 1,3", heads[0].Level, heads[2].Level)
	}
}

func TestApplyAnchors(t *testing.T) {
	d := parseSample(t)
	heads := d.Headings()
	heads[1].AnchorID = "Section One"
	d.ApplyAnchors()

	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, `<h2 id="Section One">Section One</h2>`) {
		t.Errorf("anchor not applied:\n%s", out)
	}
	// Heading without an assigned anchor stays bare.
	if strings.Contains(out, `<h1 id=`) {
		t.Error("anchor applied to excluded heading")
	}
}

func TestInjectOutline(t *testing.T) {
	d := parseSample(t)
	if err := d.Inject(OutlineContainerID, []byte(`<ul><li><a href="#A">A</a></li></ul>`)); err != nil {
		t.Fatalf("Inject: %v", err)
	}
	var buf bytes.Buffer
	_ = d.Render(&buf)
	if !strings.Contains(buf.String(), `<nav id="outline"><ul><li><a href="#A">A</a></li></ul></nav>`) {
		t.Errorf("outline not injected:\n%s", buf.String())
	}
}

func TestInjectReplacesPreviousContent(t *testing.T) {
	d := parseSample(t)
	_ = d.Inject(GraphContainerID, []byte(`<svg class="old"></svg>`))
	_ = d.Inject(GraphContainerID, []byte(`<svg class="new"></svg>`))
	var buf bytes.Buffer
	_ = d.Render(&buf)
	if strings.Contains(buf.String(), "old") {
		t.Error("previous injection survived")
	}
	if !strings.Contains(buf.String(), `class="new"`) {
		t.Error("new injection missing")
	}
}

func TestInjectMissingContainer(t *testing.T) {
	d := parseSample(t)
	if err := d.Inject("nope", []byte("<p>x</p>")); err == nil {
		t.Error("expected error for missing container")
	}
}

func TestRemoveContainer(t *testing.T) {
	d := parseSample(t)
	d.RemoveContainer(OutlineContainerID)
	var buf bytes.Buffer
	_ = d.Render(&buf)
	if strings.Contains(buf.String(), `id="outline"`) {
		t.Error("container still present")
	}
	// Removing a missing container is a no-op.
	d.RemoveContainer("nope")
}

func TestParse_ReEnhancedPageSkipsInjectedHeadings(t *testing.T) {
	// A page that was already enhanced carries outline links; re-parsing
	// must not pick anything up from the reserved containers.
	enhanced := strings.Replace(samplePage,
		`<nav id="outline"></nav>`,
		`<nav id="outline"><ul><li><a href="#X">X</a></li></ul></nav>`, 1)
	d, err := Parse(strings.NewReader(enhanced))
	if err != nil {
		t.Fatal(err)
	}
	if len(d.Headings()) != 4 {
		t.Errorf("headings = %d, want 4", len(d.Headings()))
	}
}
