// Package render converts blog markdown into HTML fragments.
//
// The site renderer is a fixed pipeline of whole-string substitutions over a
// small markdown subset (headings 1-4, fenced and inline code, bold, italic,
// images, links, bullet lists, blockquotes, horizontal rules, paragraphs).
// Every input renders; there is no invalid markdown.
package render

import "strings"

// Option configures a Renderer.
type Option func(*Renderer)

// Renderer is the site markdown renderer. It holds no state between calls
// and is safe for concurrent use.
type Renderer struct {
	classes Classes
	trace   func(step, html string)
}

// New creates a renderer using DefaultClasses unless overridden.
func New(opts ...Option) *Renderer {
	r := &Renderer{classes: DefaultClasses()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// WithClasses sets the class attributes emitted for each element.
func WithClasses(c Classes) Option {
	return func(r *Renderer) {
		r.classes = c
	}
}

// WithoutClasses emits bare tags.
func WithoutClasses() Option {
	return WithClasses(Classes{})
}

// WithTrace calls fn with the intermediate document after every pipeline
// step. Code regions appear as NUL-delimited placeholders until the end.
func WithTrace(fn func(step, html string)) Option {
	return func(r *Renderer) {
		r.trace = fn
	}
}

var defaultRenderer = New()

// MarkdownToHTML renders markdown with the default renderer.
func MarkdownToHTML(markdown string) string {
	return defaultRenderer.Render(markdown)
}

// Render converts markdown to an HTML fragment.
func (r *Renderer) Render(markdown string) string {
	p := &pass{c: r.classes}
	s := normalize(markdown)
	for _, st := range pipeline {
		s = st.apply(p, s)
		if r.trace != nil {
			r.trace(st.name, s)
		}
	}
	return p.restore(s)
}

// Convert implements Engine. The error is always nil.
func (r *Renderer) Convert(markdown string) (string, error) {
	return r.Render(markdown), nil
}

// Steps returns the pipeline step names in execution order.
func Steps() []string {
	names := make([]string, len(pipeline))
	for i, st := range pipeline {
		names[i] = st.name
	}
	return names
}

// normalize unifies line endings and drops NUL bytes, which the pipeline
// reserves for placeholders.
func normalize(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\x00", "")
}
