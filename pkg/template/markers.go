package template

import (
	"fmt"
	"strings"
)

const (
	markerStart = "<!-- FOLIO-PARTIAL-START: "
	markerEnd   = "<!-- FOLIO-PARTIAL-END: "
)

// WrapWithMarkers wraps content with HTML comment markers naming the partial
// it came from, so a built page can be traced back to its templates.
//
// Format:
//
//	<!-- FOLIO-PARTIAL-START: {path} -->
//	{content}
//	<!-- FOLIO-PARTIAL-END: {path} -->
func WrapWithMarkers(content, path string) string {
	path = strings.TrimSpace(path)
	return fmt.Sprintf("%s%s -->\n%s\n%s%s -->", markerStart, path, content, markerEnd, path)
}

// StripMarkers removes all partial markers from content.
func StripMarkers(content string) string {
	lines := strings.Split(content, "\n")
	result := lines[:0]
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, markerStart) || strings.HasPrefix(trimmed, markerEnd) {
			continue
		}
		result = append(result, line)
	}
	return strings.Join(result, "\n")
}
