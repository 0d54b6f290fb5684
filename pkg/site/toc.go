package site

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"github.com/folio-site/folio/pkg/blog"
	"github.com/folio-site/folio/pkg/render"
)

// TOCEntry is one line of a post's table of contents.
type TOCEntry struct {
	Level int    `json:"level"`
	ID    string `json:"id"`
	Text  string `json:"text"`
}

var tocSelector = cascadia.MustCompile("h2, h3, h4")

// AnchorHeadings gives every h2-h4 in fragment an id (keeping existing
// ones) and returns the rewritten fragment with its table of contents.
// A fragment without such headings is returned unchanged.
func AnchorHeadings(fragment string) (string, []TOCEntry, error) {
	root, err := render.ParseFragment(fragment)
	if err != nil {
		return "", nil, err
	}

	headings := tocSelector.MatchAll(root)
	if len(headings) == 0 {
		return fragment, nil, nil
	}

	used := make(map[string]int)
	toc := make([]TOCEntry, 0, len(headings))
	for _, h := range headings {
		text := strings.Join(strings.Fields(nodeText(h)), " ")
		id := attrValue(h, "id")
		if id == "" {
			id = blog.Slug(text)
			if id == "" {
				id = "section"
			}
			used[id]++
			if n := used[id]; n > 1 {
				id = fmt.Sprintf("%s-%d", id, n)
			}
			h.Attr = append(h.Attr, html.Attribute{Key: "id", Val: id})
		}
		toc = append(toc, TOCEntry{Level: int(h.Data[1] - '0'), ID: id, Text: text})
	}

	var buf bytes.Buffer
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", nil, fmt.Errorf("failed to render fragment: %w", err)
		}
	}
	return buf.String(), toc, nil
}

func attrValue(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
