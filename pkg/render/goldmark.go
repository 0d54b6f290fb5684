package render

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// Engine names accepted by EngineByName.
const (
	EngineSite     = "site"
	EngineGoldmark = "goldmark"
)

// ErrUnknownEngine is returned for an engine name that is not registered.
var ErrUnknownEngine = errors.New("unknown markdown engine")

// Engine converts a markdown document into an HTML fragment.
type Engine interface {
	Convert(markdown string) (string, error)
}

// Goldmark renders full CommonMark plus GitHub Flavored Markdown. Sites
// whose posts outgrow the site subset (tables, ordered lists, nesting) can
// switch to it in folio.yaml.
type Goldmark struct {
	md goldmark.Markdown
}

// NewGoldmark creates the goldmark engine.
func NewGoldmark() *Goldmark {
	return &Goldmark{
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM, // GitHub Flavored Markdown
				extension.Typographer,
			),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
			goldmark.WithRendererOptions(
				html.WithHardWraps(),
				html.WithXHTML(),
				html.WithUnsafe(), // Allow raw HTML in markdown
			),
		),
	}
}

// Convert converts markdown content to HTML.
func (g *Goldmark) Convert(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := g.md.Convert([]byte(markdown), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// EngineByName resolves an engine name from config or flags. The empty name
// selects the site renderer.
func EngineByName(name string) (Engine, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", EngineSite:
		return New(), nil
	case EngineGoldmark:
		return NewGoldmark(), nil
	default:
		return nil, fmt.Errorf("%w: %q (expected %s|%s)", ErrUnknownEngine, name, EngineSite, EngineGoldmark)
	}
}
