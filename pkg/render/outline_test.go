package render

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutline(t *testing.T) {
	md := strings.Join([]string{
		"# Building RAG Agents",
		"",
		"Intro with a [link](https://example.com) and ![diagram](arch.png).",
		"",
		"## Setup",
		"",
		"```python",
		"print('hi')",
		"```",
		"",
		"* one",
		"* two",
	}, "\n")

	s, err := Outline(MarkdownToHTML(md))
	require.NoError(t, err)

	wantHeadings := []Heading{{Level: 1, Text: "Building RAG Agents"}, {Level: 2, Text: "Setup"}}
	if diff := cmp.Diff(wantHeadings, s.Headings); diff != "" {
		t.Errorf("headings mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []Link{{Href: "https://example.com", Text: "link"}}, s.Links)
	assert.Equal(t, []Image{{Src: "arch.png", Alt: "diagram"}}, s.Images)
	assert.Equal(t, 1, s.CodeBlocks)
	assert.Equal(t, 1, s.Lists)
	assert.Equal(t, "1 min read", s.ReadTime)
	assert.Contains(t, s.Text, "print('hi')")
}

func TestOutline_Empty(t *testing.T) {
	s, err := Outline("")
	require.NoError(t, err)
	assert.Equal(t, 0, s.Words)
	assert.Empty(t, s.Headings)
	assert.Equal(t, "1 min read", s.ReadTime)
}

func TestReadTime(t *testing.T) {
	tests := []struct {
		words int
		want  string
	}{
		{0, "1 min read"},
		{1, "1 min read"},
		{200, "1 min read"},
		{201, "2 min read"},
		{2400, "12 min read"},
	}
	for _, tt := range tests {
		if got := ReadTime(tt.words); got != tt.want {
			t.Errorf("ReadTime(%d) = %q, want %q", tt.words, got, tt.want)
		}
	}
}

func TestTextBlocks(t *testing.T) {
	html := bare("# Title\n\nSome **bold** text.\n\n* a\n* b\n\n> quote\n\n```\nx := 1\n  y\n```\n\n---")

	blocks, err := TextBlocks(html)
	require.NoError(t, err)

	want := []TextBlock{
		{Text: "Title"},
		{Text: "Some bold text."},
		{Text: "a", Prefix: "• "},
		{Text: "b", Prefix: "• "},
		{Text: "quote", Prefix: "│ "},
		{Text: "x := 1\n  y", Pre: true},
		{Text: "────────", Pre: true},
	}
	if diff := cmp.Diff(want, blocks); diff != "" {
		t.Errorf("blocks mismatch (-want +got):\n%s", diff)
	}
}
