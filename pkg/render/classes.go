package render

import "strings"

// Classes holds the CSS class attribute emitted for each element the
// renderer produces. An empty string omits the attribute.
type Classes struct {
	H1         string
	H2         string
	H3         string
	H4         string
	Pre        string
	CodeBlock  string
	CodeInline string
	Strong     string
	Em         string
	Link       string
	Image      string
	ListItem   string
	List       string
	Blockquote string
	Rule       string
	Paragraph  string
}

// DefaultClasses returns the site's Tailwind styling.
func DefaultClasses() Classes {
	return Classes{
		H1:         "text-4xl font-bold mt-12 mb-6 text-purple-300 font-orbitron",
		H2:         "text-3xl font-bold mt-10 mb-5 text-purple-400 font-orbitron",
		H3:         "text-2xl font-bold mt-8 mb-4 text-cyan-300 font-orbitron",
		H4:         "text-xl font-bold mt-6 mb-3 text-cyan-400 font-orbitron",
		Pre:        "bg-gray-950/50 border border-cyan-500/30 rounded-lg p-4 overflow-x-auto my-4",
		CodeBlock:  "text-cyan-300 text-sm",
		CodeInline: "bg-cyan-900/20 border border-cyan-500/50 px-2 py-1 rounded text-cyan-300 text-sm font-mono",
		Strong:     "font-bold text-purple-300",
		Em:         "italic text-gray-300",
		Link:       "text-cyan-400 hover:text-cyan-300 underline transition-colors",
		Image:      "rounded-lg shadow-lg my-6 max-w-full",
		ListItem:   "ml-6 mb-2",
		List:       "list-disc my-4 text-gray-300",
		Blockquote: "border-l-4 border-cyan-500 pl-4 italic my-4 text-gray-400",
		Rule:       "my-8 border-gray-700",
		Paragraph:  "mb-4 leading-relaxed text-gray-300",
	}
}

// heading returns the class for heading level 1-4.
func (c Classes) heading(level int) string {
	switch level {
	case 1:
		return c.H1
	case 2:
		return c.H2
	case 3:
		return c.H3
	default:
		return c.H4
	}
}

// openTag builds "<name k="v" ...>" from key/value pairs. An empty class
// value drops the attribute; other values are written verbatim, so callers
// escape them first.
func openTag(name string, attrs ...string) string {
	var b strings.Builder
	b.WriteByte('<')
	b.WriteString(name)
	for i := 0; i+1 < len(attrs); i += 2 {
		key, val := attrs[i], attrs[i+1]
		if key == "class" && val == "" {
			continue
		}
		b.WriteByte(' ')
		b.WriteString(key)
		b.WriteString(`="`)
		b.WriteString(val)
		b.WriteByte('"')
	}
	b.WriteByte('>')
	return b.String()
}
