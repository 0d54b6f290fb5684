package render

import (
	"regexp"
	"strconv"
	"strings"
)

// step is one whole-string substitution of the pipeline.
type step struct {
	name  string
	apply func(*pass, string) string
}

// pipeline order is load-bearing: fences must be consumed before any inline
// rule, bold before italic, images before links.
var pipeline = []step{
	{"headings", (*pass).headings},
	{"fenced-code", (*pass).fencedCode},
	{"inline-code", (*pass).inlineCode},
	{"bold", (*pass).bold},
	{"italic", (*pass).italic},
	{"images", (*pass).images},
	{"links", (*pass).links},
	{"list-items", (*pass).listItems},
	{"list-wrap", (*pass).listWrap},
	{"blockquote", (*pass).blockquotes},
	{"rule", (*pass).rules},
	{"paragraphs", (*pass).paragraphs},
}

var (
	headingPatterns = []struct {
		level int
		re    *regexp.Regexp
	}{
		{4, regexp.MustCompile(`(?m)^#### (.*)$`)},
		{3, regexp.MustCompile(`(?m)^### (.*)$`)},
		{2, regexp.MustCompile(`(?m)^## (.*)$`)},
		{1, regexp.MustCompile(`(?m)^# (.*)$`)},
	}
	fencePattern      = regexp.MustCompile("(?ms)^[ \\t]*```([^`\\n]*)\\n(.*?)^[ \\t]*```[ \\t]*$")
	fenceLinePattern  = regexp.MustCompile("(?m)^[ \\t]*```([^`\\n]+)```[ \\t]*$")
	inlineCodePattern = regexp.MustCompile("```([^`\\n]+)```|`([^`\\n]+)`")
	targetPattern     = regexp.MustCompile(`\]\(([^)]+)\)`)
	boldPattern       = regexp.MustCompile(`\*\*(.+?)\*\*`)
	italicPattern     = regexp.MustCompile(`\*(\S(?:.*?\S)?)\*`)
	imagePattern      = regexp.MustCompile(`!\[([^\]]*)\]\(([^)]+)\)`)
	linkPattern       = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
	listItemPatterns  = []*regexp.Regexp{
		regexp.MustCompile(`(?m)^\* (.+)$`),
		regexp.MustCompile(`(?m)^- (.+)$`),
	}
	blockquotePattern  = regexp.MustCompile(`(?m)^> (.+)$`)
	rulePattern        = regexp.MustCompile(`(?m)^---$`)
	blockStartPattern  = regexp.MustCompile(`^(<(h[1-6]|ul|ol|pre|blockquote|hr|div)|\x00B)`)
	placeholderPattern = regexp.MustCompile(`\x00[BI](\d+)\x00`)
)

// pass carries per-call state: the classes in use and the stash of finished
// regions that later steps must not touch.
type pass struct {
	c     Classes
	stash []string
	plain []string // unescaped text of each stashed region
}

// hold stores finished HTML and returns its placeholder. Block placeholders
// are isolated by blank lines so they always form their own chunk.
func (p *pass) hold(html string, block bool) string {
	return p.holdText(html, "", block)
}

// holdText is hold for a region that may end up inside an attribute value,
// where text stands in for html.
func (p *pass) holdText(html, text string, block bool) string {
	n := strconv.Itoa(len(p.stash))
	p.stash = append(p.stash, html)
	p.plain = append(p.plain, text)
	if block {
		return "\n\n\x00B" + n + "\x00\n\n"
	}
	return "\x00I" + n + "\x00"
}

func (p *pass) restore(s string) string {
	if len(p.stash) == 0 {
		return s
	}
	return placeholderPattern.ReplaceAllStringFunc(s, func(m string) string {
		n, err := strconv.Atoi(m[2 : len(m)-1])
		if err != nil || n >= len(p.stash) {
			return m
		}
		return p.stash[n]
	})
}

// text replaces placeholders in s with the plain text they stand for.
// The result is unescaped and meant for attribute values.
func (p *pass) text(s string) string {
	if len(p.stash) == 0 {
		return s
	}
	return placeholderPattern.ReplaceAllStringFunc(s, func(m string) string {
		n, err := strconv.Atoi(m[2 : len(m)-1])
		if err != nil || n >= len(p.plain) {
			return m
		}
		return p.plain[n]
	})
}

// block isolates generated block-level HTML with blank lines so paragraph
// wrapping never swallows it.
func block(html string) string {
	return "\n\n" + html + "\n\n"
}

// headings runs before fences are extracted, so it skips fenced regions
// itself; a "# comment" line inside a shell snippet stays code.
func (p *pass) headings(s string) string {
	spans := fencePattern.FindAllStringIndex(s, -1)
	var b strings.Builder
	last := 0
	for _, span := range spans {
		b.WriteString(p.headingLines(s[last:span[0]]))
		b.WriteString(s[span[0]:span[1]])
		last = span[1]
	}
	b.WriteString(p.headingLines(s[last:]))
	return b.String()
}

func (p *pass) headingLines(s string) string {
	for _, h := range headingPatterns {
		tag := "h" + strconv.Itoa(h.level)
		class := p.c.heading(h.level)
		s = replaceFunc(h.re, s, func(m []string) string {
			return block(openTag(tag, "class", class) + m[1] + "</" + tag + ">")
		})
	}
	return s
}

func (p *pass) fencedCode(s string) string {
	s = replaceFunc(fencePattern, s, func(m []string) string {
		attrs := []string{"class", p.c.CodeBlock}
		if fields := strings.Fields(m[1]); len(fields) > 0 {
			attrs = append(attrs, "data-lang", EscapeHTML(fields[0]))
		}
		html := openTag("pre", "class", p.c.Pre) +
			openTag("code", attrs...) +
			EscapeHTML(strings.TrimSpace(m[2])) +
			"</code></pre>"
		return p.hold(html, true)
	})
	// ```code``` alone on a line is a one-line block
	return replaceFunc(fenceLinePattern, s, func(m []string) string {
		html := openTag("pre", "class", p.c.Pre) +
			openTag("code", "class", p.c.CodeBlock) +
			EscapeHTML(strings.TrimSpace(m[1])) +
			"</code></pre>"
		return p.hold(html, true)
	})
}

// inlineCode stashes code spans, then the targets of links and images, so
// emphasis rules never reach into a URL.
func (p *pass) inlineCode(s string) string {
	s = replaceFunc(inlineCodePattern, s, func(m []string) string {
		code := m[1] + m[2]
		return p.holdText(openTag("code", "class", p.c.CodeInline)+EscapeHTML(code)+"</code>", code, false)
	})
	return replaceFunc(targetPattern, s, func(m []string) string {
		return "](" + p.holdText(p.restore(m[1]), p.text(m[1]), false) + ")"
	})
}

func (p *pass) bold(s string) string {
	return replaceFunc(boldPattern, s, func(m []string) string {
		return openTag("strong", "class", p.c.Strong) + m[1] + "</strong>"
	})
}

func (p *pass) italic(s string) string {
	return replaceFunc(italicPattern, s, func(m []string) string {
		return openTag("em", "class", p.c.Em) + m[1] + "</em>"
	})
}

func (p *pass) images(s string) string {
	return replaceFunc(imagePattern, s, func(m []string) string {
		return openTag("img",
			"src", EscapeHTML(p.text(m[2])),
			"alt", EscapeHTML(p.text(m[1])),
			"class", p.c.Image,
			"loading", "lazy")
	})
}

func (p *pass) links(s string) string {
	return replaceFunc(linkPattern, s, func(m []string) string {
		return openTag("a",
			"href", EscapeHTML(p.text(m[2])),
			"class", p.c.Link,
			"target", "_blank",
			"rel", "noopener noreferrer") + m[1] + "</a>"
	})
}

func (p *pass) listItems(s string) string {
	for _, re := range listItemPatterns {
		s = replaceFunc(re, s, func(m []string) string {
			return openTag("li", "class", p.c.ListItem) + m[1] + "</li>"
		})
	}
	return s
}

// listWrap groups runs of list-item lines into one list. A single blank line
// between two items does not end the run.
func (p *pass) listWrap(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	for i := 0; i < len(lines); {
		if !isListItem(lines[i]) {
			out = append(out, lines[i])
			i++
			continue
		}
		j := i
		var items []string
		for j < len(lines) {
			if isListItem(lines[j]) {
				items = append(items, lines[j])
				j++
				continue
			}
			if strings.TrimSpace(lines[j]) == "" && j+1 < len(lines) && isListItem(lines[j+1]) {
				j++
				continue
			}
			break
		}
		out = append(out, "", openTag("ul", "class", p.c.List))
		out = append(out, items...)
		out = append(out, "</ul>", "")
		i = j
	}
	return strings.Join(out, "\n")
}

func isListItem(line string) bool {
	return strings.HasPrefix(line, "<li>") || strings.HasPrefix(line, "<li ")
}

// blockquotes emits one element per quoted line; consecutive lines are not
// merged.
func (p *pass) blockquotes(s string) string {
	return replaceFunc(blockquotePattern, s, func(m []string) string {
		return block(openTag("blockquote", "class", p.c.Blockquote) + m[1] + "</blockquote>")
	})
}

func (p *pass) rules(s string) string {
	hr := block(openTag("hr", "class", p.c.Rule))
	return rulePattern.ReplaceAllLiteralString(s, hr)
}

// paragraphs wraps every blank-line separated chunk that does not already
// start with a block-level tag.
func (p *pass) paragraphs(s string) string {
	chunks := strings.Split(s, "\n\n")
	out := make([]string, 0, len(chunks))
	for _, c := range chunks {
		c = strings.Trim(c, "\n")
		if strings.TrimSpace(c) == "" {
			continue
		}
		if blockStartPattern.MatchString(c) {
			out = append(out, c)
			continue
		}
		out = append(out, openTag("p", "class", p.c.Paragraph)+c+"</p>")
	}
	return strings.Join(out, "\n")
}

// replaceFunc is ReplaceAllStringFunc with access to submatches.
func replaceFunc(re *regexp.Regexp, s string, fn func(m []string) string) string {
	locs := re.FindAllStringSubmatchIndex(s, -1)
	if locs == nil {
		return s
	}
	var b strings.Builder
	last := 0
	for _, loc := range locs {
		b.WriteString(s[last:loc[0]])
		m := make([]string, len(loc)/2)
		for i := range m {
			if loc[2*i] >= 0 {
				m[i] = s[loc[2*i]:loc[2*i+1]]
			}
		}
		b.WriteString(fn(m))
		last = loc[1]
	}
	b.WriteString(s[last:])
	return b.String()
}
