package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/wordwrap"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/folio-site/folio/pkg/blog"
	"github.com/folio-site/folio/pkg/render"
)

// defaultWidth is used when the terminal width cannot be determined.
const defaultWidth = 80

// postList prints one post per line in text mode.
type postList []blog.Post

func (l postList) Text() string {
	if len(l) == 0 {
		return "No posts."
	}
	var b strings.Builder
	for _, p := range l {
		fmt.Fprintf(&b, "%-10s  %-40s  %s", p.Date, p.ID, p.Title)
		if len(p.Tags) > 0 {
			fmt.Fprintf(&b, "  [%s]", strings.Join(p.Tags, ", "))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// tagList prints the tag cloud in text mode.
type tagList []blog.TagCount

func (l tagList) Text() string {
	var b strings.Builder
	for _, t := range l {
		fmt.Fprintf(&b, "%s (%d)\n", t.Tag, t.Count)
	}
	return b.String()
}

type rebuildSummary struct {
	*blog.RebuildResult
	dryRun bool
}

func (s rebuildSummary) Text() string {
	var b strings.Builder
	verb := "Wrote"
	if s.dryRun {
		verb = "Would write"
	}
	fmt.Fprintf(&b, "[✓] %s %d posts to %s\n", verb, s.Posts, s.Path)
	for _, name := range s.Skipped {
		fmt.Fprintf(&b, "[!] Skipped %s (no title)\n", name)
	}
	return b.String()
}

// articleText is a post rendered for the terminal.
type articleText struct {
	*blog.Article
	text string
}

func (a articleText) Text() string { return a.text }

func newBlogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "blog",
		Short: "List, read and index blog posts",
	}
	cmd.AddCommand(newBlogListCmd(), newBlogShowCmd(), newBlogRebuildCmd(), newBlogTagsCmd())
	return cmd
}

func newProvider() (*blog.Provider, func() error, error) {
	eng, closeEngine, err := openEngine(cfg.Engine, false)
	if err != nil {
		return nil, nil, err
	}
	return blog.NewProvider(blog.DirSource{Dir: cfg.BlogsDir}, eng, logger), closeEngine, nil
}

func newBlogListCmd() *cobra.Command {
	var tag string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List posts, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, closeEngine, err := newProvider()
			if err != nil {
				return err
			}
			defer closeEngine()

			idx, err := p.LoadIndex(cmd.Context())
			if err != nil {
				return err
			}
			return printResult(cmd, postList(idx.FilterByTag(tag)))
		},
	}
	cmd.Flags().StringVar(&tag, "tag", "", "Only list posts with this tag")
	return cmd
}

func newBlogShowCmd() *cobra.Command {
	var (
		asHTML bool
		width  int
	)
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a post as wrapped plain text or HTML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, closeEngine, err := newProvider()
			if err != nil {
				return err
			}
			defer closeEngine()

			article, err := p.Open(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			text := article.HTML
			if !asHTML {
				blocks, err := render.TextBlocks(article.HTML)
				if err != nil {
					return err
				}
				text = formatArticle(article, blocks, resolveWidth(width, cmd.OutOrStdout()))
			}
			return printResult(cmd, articleText{Article: article, text: text})
		},
	}
	cmd.Flags().BoolVar(&asHTML, "html", false, "Print the rendered HTML instead of plain text")
	cmd.Flags().IntVar(&width, "width", 0, "Wrap width (default: terminal width)")
	return cmd
}

func newBlogRebuildCmd() *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "rebuild-index",
		Short: "Regenerate index.json from the frontmatter of every post",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, closeEngine, err := openEngine(cfg.Engine, false)
			if err != nil {
				return err
			}
			defer closeEngine()

			result, err := blog.Rebuild(cfg.BlogsDir, blog.RebuildOptions{Engine: eng, DryRun: dryRun})
			if err != nil {
				return fmt.Errorf("rebuild failed: %w", err)
			}
			for _, name := range result.Skipped {
				logger.WithField("file", name).Warn("skipped post without title")
			}
			return printResult(cmd, rebuildSummary{RebuildResult: result, dryRun: dryRun})
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would be indexed without writing")
	return cmd
}

func newBlogTagsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tags",
		Short: "Show the tag cloud with post counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, closeEngine, err := newProvider()
			if err != nil {
				return err
			}
			defer closeEngine()

			idx, err := p.LoadIndex(cmd.Context())
			if err != nil {
				return err
			}
			return printResult(cmd, tagList(idx.Tags()))
		},
	}
}

// formatArticle lays out a post for the terminal, wrapping prose to width
// and leaving preformatted blocks untouched.
func formatArticle(a *blog.Article, blocks []render.TextBlock, width int) string {
	var b strings.Builder
	b.WriteString(a.Title + "\n")
	meta := a.Date
	if a.ReadTime != "" {
		meta += " · " + a.ReadTime
	}
	if len(a.Tags) > 0 {
		meta += " · " + strings.Join(a.Tags, ", ")
	}
	b.WriteString(meta + "\n")

	for _, block := range blocks {
		b.WriteByte('\n')
		if block.Pre {
			b.WriteString(block.Text + "\n")
			continue
		}
		pad := strings.Repeat(" ", ansi.PrintableRuneWidth(block.Prefix))
		lines := strings.Split(wordwrap.String(block.Text, max(width-len(pad), 10)), "\n")
		for i, line := range lines {
			if i == 0 {
				b.WriteString(block.Prefix)
			} else {
				b.WriteString(pad)
			}
			b.WriteString(line + "\n")
		}
	}
	return b.String()
}

func resolveWidth(width int, w io.Writer) int {
	if width > 0 {
		return width
	}
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if cols, _, err := term.GetSize(int(f.Fd())); err == nil && cols > 0 {
			return cols
		}
	}
	if value := os.Getenv("COLUMNS"); value != "" {
		if cols, err := strconv.Atoi(value); err == nil && cols > 0 {
			return cols
		}
	}
	return defaultWidth
}
