package template

import (
	"fmt"
	"io/fs"
	"regexp"
	"strings"
)

// partialPattern matches {{> name}} syntax.
var partialPattern = regexp.MustCompile(`\{\{>\s*([^}]+)\}\}`)

// processPartials expands all {{> name}} includes in the template.
// Supports:
// - {{> header}} - resolved as header.md, header.html, then header
// - {{> header.html}} or {{> about.md}} - explicit extension
func (e *Engine) processPartials(template string, ctx Context, depth int) (string, error) {
	if depth > e.maxDepth {
		return "", fmt.Errorf("maximum partial recursion depth (%d) exceeded", e.maxDepth)
	}

	var lastErr error

	result := partialPattern.ReplaceAllStringFunc(template, func(match string) string {
		if lastErr != nil {
			return match
		}
		name := strings.TrimSpace(partialPattern.FindStringSubmatch(match)[1])

		content, resolved, err := e.loadPartial(name)
		if err != nil {
			lastErr = fmt.Errorf("failed to load partial %q: %w", name, err)
			return match
		}

		processed, err := e.renderWithDepth(content, ctx, depth+1)
		if err != nil {
			lastErr = fmt.Errorf("failed to render partial %q: %w", name, err)
			return match
		}

		if e.config.Markers {
			processed = WrapWithMarkers(processed, resolved)
		}
		return processed
	})

	return result, lastErr
}

// loadPartial loads a partial from PartialsFS.
// Returns content and the resolved file name.
func (e *Engine) loadPartial(name string) (string, string, error) {
	if e.config.PartialsFS == nil {
		return "", "", fmt.Errorf("no partials configured")
	}
	if !fs.ValidPath(name) {
		return "", "", fmt.Errorf("invalid partial name")
	}

	candidates := []string{name}
	if !strings.HasSuffix(name, ".md") && !strings.HasSuffix(name, ".html") {
		// Resolution order: .md -> .html -> exact
		candidates = []string{name + ".md", name + ".html", name}
	}

	for _, path := range candidates {
		data, err := fs.ReadFile(e.config.PartialsFS, path)
		if err != nil {
			continue
		}
		content, err := e.processPartialContent(string(data), path)
		if err != nil {
			return "", "", err
		}
		return content, path, nil
	}
	return "", "", fmt.Errorf("partial not found: %s", name)
}

// processPartialContent renders .md partials to HTML when a markdown
// renderer is configured.
func (e *Engine) processPartialContent(content, path string) (string, error) {
	if !strings.HasSuffix(path, ".md") || e.config.MarkdownRenderer == nil {
		return content, nil
	}
	html, err := e.config.MarkdownRenderer(content)
	if err != nil {
		return "", fmt.Errorf("failed to render %s: %w", path, err)
	}
	return html, nil
}
