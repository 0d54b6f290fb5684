package render

import "strings"

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// EscapeHTML maps the five HTML-sensitive characters to their entities.
// It is not idempotent: escaping "&lt;" again yields "&amp;lt;", so callers
// must apply it exactly once to any given span.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}
