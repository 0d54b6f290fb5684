package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/folio-site/folio/pkg/blog"
	"github.com/folio-site/folio/pkg/render"
)

// inspectResult is the outline of a rendered document.
type inspectResult struct {
	Source string `json:"source"`
	*render.Summary
}

func (r inspectResult) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %d words, %s\n", r.Source, r.Words, r.ReadTime)
	fmt.Fprintf(&b, "%d links, %d images, %d code blocks, %d lists\n", len(r.Links), len(r.Images), r.CodeBlocks, r.Lists)
	if len(r.Headings) > 0 {
		b.WriteString("\nOutline:\n")
		for _, h := range r.Headings {
			fmt.Fprintf(&b, "%s- %s\n", strings.Repeat("  ", h.Level-1), h.Text)
		}
	}
	return b.String()
}

func newInspectCmd() *cobra.Command {
	var engine engineFlag
	cmd := &cobra.Command{
		Use:   "inspect [file|-]",
		Short: "Show the outline, word count and read time of a markdown document",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, markdown, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			_, body := blog.SplitFrontmatter(markdown)

			eng, closeEngine, err := openEngine(engine.or(cfg.Engine), false)
			if err != nil {
				return err
			}
			defer closeEngine()

			html, err := eng.Convert(body)
			if err != nil {
				return fmt.Errorf("render failed: %w", err)
			}
			sum, err := render.Outline(html)
			if err != nil {
				return err
			}
			return printResult(cmd, inspectResult{Source: source, Summary: sum})
		},
	}
	cmd.Flags().Var(&engine, "engine", "Markdown engine (site|goldmark)")
	return cmd
}
