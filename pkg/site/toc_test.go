package site

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestAnchorHeadings(t *testing.T) {
	fragment := `<h2>Intro</h2><p>text</p><h3>Intro</h3><h2 id="kept">Kept <em>As Is</em></h2><h1>Title</h1>`

	out, toc, err := AnchorHeadings(fragment)
	if err != nil {
		t.Fatalf("AnchorHeadings failed: %v", err)
	}

	want := []TOCEntry{
		{Level: 2, ID: "intro", Text: "Intro"},
		{Level: 3, ID: "intro-2", Text: "Intro"},
		{Level: 2, ID: "kept", Text: "Kept As Is"},
	}
	if diff := cmp.Diff(want, toc); diff != "" {
		t.Errorf("toc mismatch (-want +got):\n%s", diff)
	}

	wantHTML := `<h2 id="intro">Intro</h2><p>text</p><h3 id="intro-2">Intro</h3><h2 id="kept">Kept <em>As Is</em></h2><h1>Title</h1>`
	if out != wantHTML {
		t.Errorf("html = %q\nwant  %q", out, wantHTML)
	}
}

func TestAnchorHeadings_NoHeadings(t *testing.T) {
	fragment := "<p>just a paragraph</p>"
	out, toc, err := AnchorHeadings(fragment)
	if err != nil {
		t.Fatalf("AnchorHeadings failed: %v", err)
	}
	if out != fragment {
		t.Errorf("fragment changed: %q", out)
	}
	if len(toc) != 0 {
		t.Errorf("toc = %v, want empty", toc)
	}
}

func TestAnchorHeadings_SymbolOnlyHeading(t *testing.T) {
	_, toc, err := AnchorHeadings("<h2>???</h2>")
	if err != nil {
		t.Fatalf("AnchorHeadings failed: %v", err)
	}
	if len(toc) != 1 || toc[0].ID != "section" {
		t.Errorf("toc = %+v, want a single \"section\" entry", toc)
	}
}
