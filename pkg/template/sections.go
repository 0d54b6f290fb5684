package template

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
)

// sectionOpenPattern matches {{#name}} and {{^name}} opening tags.
var sectionOpenPattern = regexp.MustCompile(`\{\{([#^])\s*([\w.]+)\s*\}\}`)

// processSections expands every top-level section in the template.
//   - {{#name}}...{{/name}} over a slice renders once per item, with the
//     item layered over the parent context
//   - {{#name}} over a map renders once with the map layered on top
//   - {{#name}} over any other truthy value renders once
//   - {{^name}}...{{/name}} renders only when name is falsy or missing
func (e *Engine) processSections(template string, ctx Context, depth int) (string, error) {
	result := template
	pos := 0

	for {
		match := sectionOpenPattern.FindStringSubmatchIndex(result[pos:])
		if match == nil {
			break
		}
		for i := range match {
			match[i] += pos
		}

		kind := result[match[2]:match[3]]
		name := result[match[4]:match[5]]

		closeStart, closeEnd, ok := findClose(result, match[1], name)
		if !ok {
			return "", fmt.Errorf("unclosed section %q", name)
		}
		content := result[match[1]:closeStart]

		value, _ := ctx.Lookup(name)
		var output string
		var err error
		if kind == "^" {
			if !truthy(value) {
				output, err = e.renderWithDepth(content, ctx, depth+1)
			}
		} else {
			output, err = e.renderSection(content, value, ctx, depth)
		}
		if err != nil {
			return "", fmt.Errorf("section %q: %w", name, err)
		}

		result = result[:match[0]] + output + result[closeEnd:]
		pos = match[0] + len(output)
	}

	return result, nil
}

// findClose finds the {{/name}} matching an opening tag that ends at from,
// skipping nested sections of the same name.
func findClose(s string, from int, name string) (start, end int, ok bool) {
	nested := 0
	for i := from; i < len(s); {
		j := strings.Index(s[i:], "{{")
		if j < 0 {
			break
		}
		i += j
		k := strings.Index(s[i:], "}}")
		if k < 0 {
			break
		}
		tag := s[i+2 : i+k]
		tagEnd := i + k + 2
		if len(tag) > 0 && strings.TrimSpace(tag[1:]) == name {
			switch tag[0] {
			case '#', '^':
				nested++
			case '/':
				if nested == 0 {
					return i, tagEnd, true
				}
				nested--
			}
		}
		i = tagEnd
	}
	return 0, 0, false
}

// renderSection renders a {{#name}} section for value.
func (e *Engine) renderSection(content string, value any, ctx Context, depth int) (string, error) {
	if !truthy(value) {
		return "", nil
	}
	if m, ok := asMap(value); ok {
		return e.renderWithDepth(content, ctx.With(m), depth+1)
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return e.renderWithDepth(content, ctx, depth+1)
	}

	var builder strings.Builder
	for i := 0; i < rv.Len(); i++ {
		item := rv.Index(i).Interface()
		vars := map[string]any{
			".":      item,
			"_index": i,
			"_first": i == 0,
			"_last":  i == rv.Len()-1,
		}
		if m, ok := asMap(item); ok {
			for k, v := range m {
				vars[k] = v
			}
		}
		rendered, err := e.renderWithDepth(content, ctx.With(vars), depth+1)
		if err != nil {
			return "", err
		}
		builder.WriteString(rendered)
	}
	return builder.String(), nil
}

// truthy reports whether a section over v renders: nil, false, "", zero
// numbers and empty collections do not.
func truthy(v any) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool()
	case reflect.String, reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len() > 0
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() != 0
	case reflect.Ptr, reflect.Interface:
		return !rv.IsNil()
	}
	return true
}
