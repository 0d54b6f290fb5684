package render

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// TextBlock is one block of a fragment flattened to plain text.
type TextBlock struct {
	Text   string
	Prefix string // "• " for list items, "│ " for quotes
	Pre    bool   // preformatted; do not reflow
}

// TextBlocks flattens a rendered fragment into plain-text blocks for
// terminal display.
func TextBlocks(fragment string) ([]TextBlock, error) {
	root, err := ParseFragment(fragment)
	if err != nil {
		return nil, err
	}
	var blocks []TextBlock
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if t := strings.Join(strings.Fields(n.Data), " "); t != "" {
				blocks = append(blocks, TextBlock{Text: t})
			}
			return
		}
		if n.Type != html.ElementNode {
			return
		}
		switch n.DataAtom {
		case atom.Pre:
			blocks = append(blocks, TextBlock{Text: strings.TrimRight(preText(n), "\n"), Pre: true})
			return
		case atom.P, atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
			blocks = append(blocks, TextBlock{Text: textOf(n)})
			return
		case atom.Li:
			blocks = append(blocks, TextBlock{Text: textOf(n), Prefix: "• "})
			return
		case atom.Blockquote:
			blocks = append(blocks, TextBlock{Text: textOf(n), Prefix: "│ "})
			return
		case atom.Hr:
			blocks = append(blocks, TextBlock{Text: "────────", Pre: true})
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return blocks, nil
}

func preText(n *html.Node) string {
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
