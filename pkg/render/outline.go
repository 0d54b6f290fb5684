package render

import (
	"fmt"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// WordsPerMinute is the reading speed behind ReadTime.
const WordsPerMinute = 200

// Heading is a heading found in a rendered fragment.
type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
}

// Link is an anchor found in a rendered fragment.
type Link struct {
	Href string `json:"href"`
	Text string `json:"text"`
}

// Image is an image found in a rendered fragment.
type Image struct {
	Src string `json:"src"`
	Alt string `json:"alt"`
}

// Summary describes the structure of a rendered fragment.
type Summary struct {
	Headings   []Heading `json:"headings"`
	Links      []Link    `json:"links"`
	Images     []Image   `json:"images"`
	CodeBlocks int       `json:"code_blocks"`
	Lists      int       `json:"lists"`
	Words      int       `json:"words"`
	ReadTime   string    `json:"read_time"`
	Text       string    `json:"-"`
}

var (
	headingSelector   = cascadia.MustCompile("h1, h2, h3, h4, h5, h6")
	linkSelector      = cascadia.MustCompile("a[href]")
	imageSelector     = cascadia.MustCompile("img[src]")
	codeBlockSelector = cascadia.MustCompile("pre > code")
	listSelector      = cascadia.MustCompile("ul, ol")
)

// Outline parses an HTML fragment and summarises its headings, links,
// images, code blocks and text.
func Outline(fragment string) (*Summary, error) {
	root, err := ParseFragment(fragment)
	if err != nil {
		return nil, err
	}

	s := &Summary{
		Headings: []Heading{},
		Links:    []Link{},
		Images:   []Image{},
	}
	for _, n := range headingSelector.MatchAll(root) {
		s.Headings = append(s.Headings, Heading{
			Level: int(n.Data[1] - '0'),
			Text:  textOf(n),
		})
	}
	for _, n := range linkSelector.MatchAll(root) {
		s.Links = append(s.Links, Link{Href: attr(n, "href"), Text: textOf(n)})
	}
	for _, n := range imageSelector.MatchAll(root) {
		s.Images = append(s.Images, Image{Src: attr(n, "src"), Alt: attr(n, "alt")})
	}
	s.CodeBlocks = len(codeBlockSelector.MatchAll(root))
	s.Lists = len(listSelector.MatchAll(root))

	words := strings.Fields(rawText(root))
	s.Text = strings.Join(words, " ")
	s.Words = len(words)
	s.ReadTime = ReadTime(s.Words)
	return s, nil
}

// ReadTime formats an estimated reading time, never less than one minute.
func ReadTime(words int) string {
	minutes := (words + WordsPerMinute - 1) / WordsPerMinute
	if minutes < 1 {
		minutes = 1
	}
	return fmt.Sprintf("%d min read", minutes)
}

// ParseFragment parses HTML in a <div> context and returns that div with the
// parsed nodes attached.
func ParseFragment(fragment string) (*html.Node, error) {
	root := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), root)
	if err != nil {
		return nil, fmt.Errorf("failed to parse fragment: %w", err)
	}
	for _, n := range nodes {
		root.AppendChild(n)
	}
	return root, nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textOf(n *html.Node) string {
	return strings.Join(strings.Fields(rawText(n)), " ")
}

func rawText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
