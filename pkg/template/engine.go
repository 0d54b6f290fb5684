// Package template provides a Mustache-like template engine for site pages.
package template

import (
	"fmt"
	"io/fs"
	"regexp"
	"strings"
	"time"

	"github.com/folio-site/folio/pkg/render"
)

// MarkdownRenderer is a function that converts markdown to HTML.
type MarkdownRenderer func(markdown string) (string, error)

// Config holds template engine configuration.
type Config struct {
	PartialsFS       fs.FS            // Where {{> name}} partials are loaded from
	MaxDepth         int              // Maximum nesting of partials and sections (default 10)
	Markers          bool             // Whether to wrap partials in boundary comments
	MarkdownRenderer MarkdownRenderer // Renders .md partials
}

// Engine renders templates with Mustache-like syntax.
type Engine struct {
	config   Config
	maxDepth int
}

// Context holds the variables available during rendering. Nested maps are
// reached with dotted names ({{post.title}}); slices drive sections.
type Context map[string]any

// New creates a new template engine with the given configuration.
func New(cfg Config) *Engine {
	depth := cfg.MaxDepth
	if depth <= 0 {
		depth = 10
	}
	return &Engine{config: cfg, maxDepth: depth}
}

// Render renders a template string with the given context.
// It processes sections ({{#name}}...{{/name}}, {{^name}}...{{/name}}),
// partials ({{> name}}) and variables ({{name}} escaped, {{{name}}} raw).
func (e *Engine) Render(template string, ctx Context) (string, error) {
	out, err := e.renderWithDepth(template, ctx, 0)
	if err != nil {
		return "", err
	}
	return strings.ReplaceAll(out, escapedOpenBrace, "{{"), nil
}

// renderWithDepth renders a template with depth tracking to prevent infinite recursion.
func (e *Engine) renderWithDepth(template string, ctx Context, depth int) (string, error) {
	if depth > e.maxDepth {
		return "", fmt.Errorf("maximum template recursion depth (%d) exceeded", e.maxDepth)
	}

	var err error

	// Sections first; they may contain partials and variables
	template, err = e.processSections(template, ctx, depth)
	if err != nil {
		return "", err
	}

	template, err = e.processPartials(template, ctx, depth)
	if err != nil {
		return "", err
	}

	return e.substituteVariables(template, ctx), nil
}

var (
	rawVarPattern = regexp.MustCompile(`\{\{\{\s*([\w.]+)\s*\}\}\}`)
	varPattern    = regexp.MustCompile(`\{\{\s*([\w.]+)\s*\}\}`)
)

// escapedOpenBrace replaces "{{" in substituted values so that data such as
// a post title containing "{{> partial}}" is never read as template syntax.
// Render restores it once all passes are done.
const escapedOpenBrace = "\x00\x00"

// substituteVariables replaces {{{name}}} and {{name}} with values from ctx.
// Unknown variables are left as-is.
func (e *Engine) substituteVariables(template string, ctx Context) string {
	template = rawVarPattern.ReplaceAllStringFunc(template, func(match string) string {
		name := rawVarPattern.FindStringSubmatch(match)[1]
		v, ok := ctx.Lookup(name)
		if !ok {
			return match
		}
		return strings.ReplaceAll(format(v), "{{", escapedOpenBrace)
	})
	return varPattern.ReplaceAllStringFunc(template, func(match string) string {
		name := varPattern.FindStringSubmatch(match)[1]
		v, ok := ctx.Lookup(name)
		if !ok {
			return match
		}
		return strings.ReplaceAll(render.EscapeHTML(format(v)), "{{", escapedOpenBrace)
	})
}

// Lookup resolves a dotted name. "." is the current loop item.
func (c Context) Lookup(name string) (any, bool) {
	if name == "." {
		v, ok := c["."]
		return v, ok
	}
	var cur any = map[string]any(c)
	for _, part := range strings.Split(name, ".") {
		m, ok := asMap(cur)
		if !ok {
			return nil, false
		}
		if cur, ok = m[part]; !ok {
			return nil, false
		}
	}
	return cur, true
}

// With returns a copy of c with vars layered on top.
func (c Context) With(vars map[string]any) Context {
	out := make(Context, len(c)+len(vars))
	for k, v := range c {
		out[k] = v
	}
	for k, v := range vars {
		out[k] = v
	}
	return out
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case Context:
		return m, true
	case map[string]string:
		out := make(map[string]any, len(m))
		for k, s := range m {
			out[k] = s
		}
		return out, true
	}
	return nil, false
}

func format(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	}
	return fmt.Sprint(v)
}

// FormatHumanDate formats an ISO 8601 date string to human-readable format.
func FormatHumanDate(isoDate string) string {
	t, err := time.Parse("2006-01-02T15:04:05Z", isoDate)
	if err != nil {
		t, err = time.Parse("2006-01-02", isoDate)
		if err != nil {
			return isoDate // Return as-is if parsing fails
		}
	}
	return t.Format("January 2, 2006")
}

// NewContext creates a new context with common defaults.
func NewContext() Context {
	return Context{
		"year": time.Now().Format("2006"),
	}
}
