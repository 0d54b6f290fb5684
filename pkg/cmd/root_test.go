package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/folio-site/folio/pkg/blog"
	"github.com/folio-site/folio/pkg/render"
	"github.com/folio-site/folio/pkg/site"
)

// run executes the command tree with captured output. Buffers are not
// terminals, so output defaults to JSON unless -o is given.
func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := NewRootCmd()
	root.SetArgs(args)
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	err := root.ExecuteContext(context.Background())
	if err != nil {
		printError(&stdout, &stderr, err)
	}
	return stdout.String(), stderr.String(), err
}

func newSite(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	_, err := site.Init(dir, site.InitOptions{SiteTitle: "Test Site", Author: "Ada", Email: "ada@example.com"})
	require.NoError(t, err)
	return dir
}

func decode(t *testing.T, out string) map[string]interface{} {
	t.Helper()
	var v map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &v), out)
	return v
}

func TestVersion(t *testing.T) {
	Version = "1.2.3"
	defer func() { Version = "dev" }()

	out, _, err := run(t, "", "version", "-o", "text")
	require.NoError(t, err)
	assert.Equal(t, "folio version 1.2.3\n", out)

	out, _, err = run(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "1.2.3", decode(t, out)["version"])
}

func TestInit(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "site")

	out, _, err := run(t, "", "init", dir, "--site-title", "Notes", "--author", "Ada", "--email", "ada@example.com", "-o", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "[✓] Initialized folio site at: "+dir)
	assert.Contains(t, out, "[i] Created folio.yaml")
	assert.FileExists(t, filepath.Join(dir, "folio.yaml"))
	assert.FileExists(t, filepath.Join(dir, "blogs", "hello-world.md"))

	out, _, err = run(t, "", "init", dir)
	require.Error(t, err)
	v := decode(t, out)
	assert.Equal(t, false, v["success"])
	assert.Contains(t, v["error"], "refusing to overwrite")
}

func TestValidate(t *testing.T) {
	dir := newSite(t)

	out, _, err := run(t, "", "validate", "-C", dir)
	require.NoError(t, err)
	v := decode(t, out)
	assert.Equal(t, "valid", v["status"])

	require.NoError(t, os.Remove(filepath.Join(dir, "blogs", "index.json")))
	out, _, err = run(t, "", "validate", "-C", dir, "-o", "text")
	assert.ErrorIs(t, err, errInvalidSite)
	assert.Contains(t, out, "Status: ")
	assert.Contains(t, out, "Errors:")
}

func TestRender(t *testing.T) {
	dir := newSite(t)

	out, _, err := run(t, "# Hello\n\nSome *text*.", "render", "-C", dir, "--no-cache", "-o", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "Hello</h1>")
	assert.Contains(t, out, "<em")

	out, _, err = run(t, "**bold**", "render", "-", "-C", dir, "--engine", "goldmark", "--no-cache")
	require.NoError(t, err)
	v := decode(t, out)
	assert.Equal(t, "goldmark", v["engine"])
	assert.Equal(t, "-", v["source"])
	assert.Contains(t, v["html"], "<strong>bold</strong>")
}

func TestRenderTrace(t *testing.T) {
	dir := newSite(t)

	_, stderr, err := run(t, "# Hi", "render", "-C", dir, "--trace", "-o", "text")
	require.NoError(t, err)
	assert.Contains(t, stderr, "== ")

	_, _, err = run(t, "# Hi", "render", "-C", dir, "--trace", "--engine", "goldmark")
	assert.Error(t, err)
}

func TestRenderBadEngine(t *testing.T) {
	dir := newSite(t)
	_, _, err := run(t, "x", "render", "-C", dir, "--engine", "nope")
	assert.Error(t, err)
}

func TestQuery(t *testing.T) {
	dir := newSite(t)

	out, _, err := run(t, "# Hi", "render", "-C", dir, "--no-cache", "--query", ".engine")
	require.NoError(t, err)
	assert.Equal(t, "\"site\"", strings.TrimSpace(out))
}

func TestInspect(t *testing.T) {
	dir := newSite(t)
	doc := "---\ntitle: Ignored\n---\n# Title\n\n## Part one\n\nA [link](https://example.com).\n"

	out, _, err := run(t, doc, "inspect", "-C", dir, "-o", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "1 links")
	assert.Contains(t, out, "- Title\n  - Part one\n")
	assert.NotContains(t, out, "Ignored")
}

func TestBuild(t *testing.T) {
	dir := newSite(t)

	out, _, err := run(t, "", "build", "-C", dir)
	require.NoError(t, err)
	v := decode(t, out)
	assert.Equal(t, true, v["success"])
	assert.FileExists(t, filepath.Join(dir, "public", "index.html"))
	assert.FileExists(t, filepath.Join(dir, "public", "blogs", "hello-world.html"))

	out, _, err = run(t, "", "build", "-C", dir, "-o", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "[✓] Built 0 pages")
}

func TestBlogCommands(t *testing.T) {
	dir := newSite(t)

	out, _, err := run(t, "", "blog", "list", "-C", dir, "-o", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "hello-world")

	out, _, err = run(t, "", "blog", "list", "-C", dir, "--tag", "no-such-tag", "-o", "text")
	require.NoError(t, err)
	assert.Equal(t, "No posts.\n", out)

	out, _, err = run(t, "", "blog", "show", "hello-world", "-C", dir, "--width", "40", "-o", "text")
	require.NoError(t, err)
	for _, line := range strings.Split(out, "\n") {
		if !strings.HasPrefix(line, " ") {
			assert.LessOrEqual(t, len([]rune(line)), 60, line)
		}
	}

	out, _, err = run(t, "", "blog", "show", "hello-world", "-C", dir, "--html")
	require.NoError(t, err)
	v := decode(t, out)
	assert.Equal(t, "hello-world", v["id"])
	assert.NotEmpty(t, v["html"])

	_, _, err = run(t, "", "blog", "show", "missing", "-C", dir)
	assert.Error(t, err)

	out, _, err = run(t, "", "blog", "tags", "-C", dir)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(out), "["), out)
}

func TestBlogRebuildIndex(t *testing.T) {
	dir := newSite(t)
	post := "---\ntitle: Second Post\ndate: 2021-05-04\ntags: [go]\n---\nBody text.\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "blogs", "second.md"), []byte(post), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "blogs", "untitled.md"), []byte("no frontmatter"), 0o644))

	out, _, err := run(t, "", "blog", "rebuild-index", "-C", dir, "--dry-run", "-o", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "[✓] Would write 2 posts")
	assert.Contains(t, out, "[!] Skipped untitled.md")

	out, _, err = run(t, "", "blog", "rebuild-index", "-C", dir)
	require.NoError(t, err)
	assert.EqualValues(t, 2, decode(t, out)["posts"])

	out, _, err = run(t, "", "blog", "list", "-C", dir, "--tag", "go", "-o", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "Second Post")
}

func TestCacheCommands(t *testing.T) {
	dir := newSite(t)

	_, _, err := run(t, "# Cached", "render", "-C", dir)
	require.NoError(t, err)

	out, _, err := run(t, "", "cache", "stats", "-C", dir)
	require.NoError(t, err)
	assert.EqualValues(t, 1, decode(t, out)["entries"])

	out, _, err = run(t, "", "cache", "purge", "-C", dir, "-o", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "[✓] Purged render cache")

	out, _, err = run(t, "", "cache", "stats", "-C", dir, "-o", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "Entries: 0")
}

func TestErrorOutput(t *testing.T) {
	var stdout, stderr bytes.Buffer

	outputType = "text"
	printError(&stdout, &stderr, assert.AnError)
	assert.Empty(t, stdout.String())
	assert.Equal(t, "Error: "+assert.AnError.Error()+"\n", stderr.String())

	stderr.Reset()
	outputType = "json"
	printError(&stdout, &stderr, assert.AnError)
	assert.Empty(t, stderr.String())
	assert.JSONEq(t, `{"success":false,"error":"`+assert.AnError.Error()+`"}`, stdout.String())
}

func TestFormatArticle(t *testing.T) {
	a := &blog.Article{Post: blog.Post{Title: "Notes", Date: "2024-01-02", ReadTime: "1 min read", Tags: []string{"go"}}}
	blocks := []render.TextBlock{
		{Text: "one two three four five six"},
		{Text: "alpha beta gamma delta", Prefix: "• "},
		{Text: "keep   this\n  as is", Pre: true},
	}

	got := formatArticle(a, blocks, 20)
	want := "Notes\n" +
		"2024-01-02 · 1 min read · go\n" +
		"\n" +
		"one two three four\n" +
		"five six\n" +
		"\n" +
		"• alpha beta gamma\n" +
		"  delta\n" +
		"\n" +
		"keep   this\n  as is\n"
	assert.Equal(t, want, got)
}

func TestResolveWidth(t *testing.T) {
	var buf bytes.Buffer
	assert.Equal(t, 42, resolveWidth(42, &buf))

	t.Setenv("COLUMNS", "100")
	assert.Equal(t, 100, resolveWidth(0, &buf))

	t.Setenv("COLUMNS", "junk")
	assert.Equal(t, defaultWidth, resolveWidth(0, &buf))
}

func TestBuildRunsHook(t *testing.T) {
	dir := newSite(t)
	hook := filepath.Join(dir, ".folio", "hooks", "post-build.sh")
	require.NoError(t, os.MkdirAll(filepath.Dir(hook), 0o755))
	require.NoError(t, os.WriteFile(hook, []byte("#!/bin/sh\necho deployed $FOLIO_POSTS\n"), 0o755))

	out, _, err := run(t, "", "build", "-C", dir, "-o", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "[✓] Ran post-build hook")
	assert.Contains(t, out, "deployed 1")

	out, _, err = run(t, "", "build", "-C", dir, "--no-hooks", "-o", "text")
	require.NoError(t, err)
	assert.NotContains(t, out, "post-build hook")
}

func TestRenderCacheFollowsVersion(t *testing.T) {
	dir := newSite(t)
	defer func() { Version = "dev" }()

	Version = "1.0.0"
	first := renderFingerprint()
	_, _, err := run(t, "# Cached", "render", "-C", dir)
	require.NoError(t, err)

	Version = "1.1.0"
	assert.NotEqual(t, first, renderFingerprint())
	_, _, err = run(t, "# Cached", "render", "-C", dir)
	require.NoError(t, err)

	out, _, err := run(t, "", "cache", "stats", "-C", dir)
	require.NoError(t, err)
	assert.EqualValues(t, 2, decode(t, out)["entries"])
}
