package render

import (
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// bare renders without class attributes so expectations stay readable.
func bare(markdown string) string {
	return New(WithoutClasses()).Render(markdown)
}

func TestRender_Exact(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"paragraph", "This is a paragraph.", "<p>This is a paragraph.</p>"},
		{"h1", "# Hello", "<h1>Hello</h1>"},
		{"h2", "## Hello", "<h2>Hello</h2>"},
		{"h3", "### Hello", "<h3>Hello</h3>"},
		{"h4", "#### Four", "<h4>Four</h4>"},
		{"five hashes stay text", "##### Five", "<p>##### Five</p>"},
		{"no space after hash", "#tag", "<p>#tag</p>"},
		{
			"heading then paragraph",
			"# Heading\n\nPlain text",
			"<h1>Heading</h1>\n<p>Plain text</p>",
		},
		{
			"heading without blank line",
			"# Heading\nPlain text",
			"<h1>Heading</h1>\n<p>Plain text</p>",
		},
		{
			"bold and italic",
			"Hello **bold** and *em*",
			"<p>Hello <strong>bold</strong> and <em>em</em></p>",
		},
		{
			"inline code escaped",
			"Use `<b>` tags",
			"<p>Use <code>&lt;b&gt;</code> tags</p>",
		},
		{
			"image and link",
			"![alt](img.png) and [text](url)",
			`<p><img src="img.png" alt="alt" loading="lazy"> and <a href="url" target="_blank" rel="noopener noreferrer">text</a></p>`,
		},
		{
			"list",
			"* a\n* b\n* c",
			"<ul>\n<li>a</li>\n<li>b</li>\n<li>c</li>\n</ul>",
		},
		{
			"dash list",
			"- a\n- b",
			"<ul>\n<li>a</li>\n<li>b</li>\n</ul>",
		},
		{
			"list with one blank line",
			"* a\n\n* b",
			"<ul>\n<li>a</li>\n<li>b</li>\n</ul>",
		},
		{
			"list after text",
			"Intro:\n* a",
			"<p>Intro:</p>\n<ul>\n<li>a</li>\n</ul>",
		},
		{
			"blockquote per line",
			"> one\n> two",
			"<blockquote>one</blockquote>\n<blockquote>two</blockquote>",
		},
		{"rule", "---", "<hr>"},
		{
			"fence",
			"```\ncode block\n```",
			"<pre><code>code block</code></pre>",
		},
		{
			"fence with language",
			"```go\nfmt.Println(\"hi\")\n```",
			`<pre><code data-lang="go">fmt.Println(&quot;hi&quot;)</code></pre>`,
		},
		{
			"fence keeps blank lines",
			"```\na\n\nb\n```",
			"<pre><code>a\n\nb</code></pre>",
		},
		{
			"fence between paragraphs",
			"Before\n```\ncode\n```\nAfter",
			"<p>Before</p>\n<pre><code>code</code></pre>\n<p>After</p>",
		},
		{
			"heading inside fence",
			"```sh\n# comment\n```",
			`<pre><code data-lang="sh"># comment</code></pre>`,
		},
		{
			"crlf",
			"# A\r\n\r\nB",
			"<h1>A</h1>\n<p>B</p>",
		},
		{
			"raw html block",
			`<div class="custom">content</div>`,
			`<div class="custom">content</div>`,
		},
		{
			"bold in heading",
			"## A **big** deal",
			"<h2>A <strong>big</strong> deal</h2>",
		},
		{
			"italic inside list item",
			"* item with *emph*",
			"<ul>\n<li>item with <em>emph</em></li>\n</ul>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := bare(tt.input)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Render(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestRender_DefaultClasses(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		contains string
	}{
		{"h1", "# Title", `<h1 class="text-4xl font-bold mt-12 mb-6 text-purple-300 font-orbitron">Title</h1>`},
		{"h4", "#### Title", `<h4 class="text-xl font-bold mt-6 mb-3 text-cyan-400 font-orbitron">`},
		{"strong", "**b**", `<strong class="font-bold text-purple-300">b</strong>`},
		{"link", "[x](https://example.com)", `<a href="https://example.com" class="text-cyan-400 hover:text-cyan-300 underline transition-colors" target="_blank" rel="noopener noreferrer">x</a>`},
		{"image", "![a](b.png)", `<img src="b.png" alt="a" class="rounded-lg shadow-lg my-6 max-w-full" loading="lazy">`},
		{"list", "- x", `<ul class="list-disc my-4 text-gray-300">`},
		{"paragraph", "text", `<p class="mb-4 leading-relaxed text-gray-300">text</p>`},
		{"rule", "---", `<hr class="my-8 border-gray-700">`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			html := MarkdownToHTML(tt.input)
			if !strings.Contains(html, tt.contains) {
				t.Errorf("Expected HTML to contain %q, got %q", tt.contains, html)
			}
		})
	}
}

func TestRender_CustomClasses(t *testing.T) {
	r := New(WithClasses(Classes{Paragraph: "prose"}))
	got := r.Render("hi **there**")
	want := `<p class="prose">hi <strong>there</strong></p>`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRender_Unicode(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"chinese", "# 你好世界", "你好世界"},
		{"emoji", "Hello 🎉 World", "🎉"},
		{"cyrillic", "Привет *мир*", "<em>мир</em>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			html := bare(tt.input)
			if !strings.Contains(html, tt.want) {
				t.Errorf("Expected %q in %q", tt.want, html)
			}
		})
	}
}

func TestRender_Trace(t *testing.T) {
	var seen []string
	r := New(WithTrace(func(step, _ string) {
		seen = append(seen, step)
	}))
	r.Render("# x")

	if diff := cmp.Diff(Steps(), seen); diff != "" {
		t.Errorf("trace steps mismatch (-want +got):\n%s", diff)
	}
}

func TestSteps_Order(t *testing.T) {
	want := []string{
		"headings", "fenced-code", "inline-code", "bold", "italic",
		"images", "links", "list-items", "list-wrap", "blockquote",
		"rule", "paragraphs",
	}
	if diff := cmp.Diff(want, Steps()); diff != "" {
		t.Errorf("Steps() mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_Concurrent(t *testing.T) {
	input := strings.Repeat("# H\n\nText with `code` and **bold**.\n\n```\n<x>\n```\n\n* a\n* b\n\n", 20)
	want := MarkdownToHTML(input)

	var wg sync.WaitGroup
	results := make([]string, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = MarkdownToHTML(input)
		}(i)
	}
	wg.Wait()

	for i, got := range results {
		if got != want {
			t.Errorf("goroutine %d produced different output", i)
		}
	}
}

func TestConvert_NeverErrors(t *testing.T) {
	inputs := []string{"", "```", "**", "[a](", "\x00\x00", "> ", "* ", "`"}
	for _, in := range inputs {
		if _, err := New().Convert(in); err != nil {
			t.Errorf("Convert(%q) returned error: %v", in, err)
		}
	}
}

// Benchmark rendering performance
func BenchmarkMarkdownToHTML_Short(b *testing.B) {
	input := "# Hello\n\nThis is a **test**."
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		MarkdownToHTML(input)
	}
}

func BenchmarkMarkdownToHTML_Long(b *testing.B) {
	input := strings.Repeat("# Heading\n\nParagraph with **bold** and *italic* text.\n\n- List item 1\n- List item 2\n\n", 100)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		MarkdownToHTML(input)
	}
}
