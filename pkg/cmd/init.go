package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/folio-site/folio/pkg/site"
)

type initSummary struct {
	*site.InitResult
}

func (s initSummary) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[✓] Initialized folio site at: %s\n", s.SiteDir)
	for _, name := range s.Created {
		fmt.Fprintf(&b, "[i] Created %s\n", name)
	}
	b.WriteString("\nNext steps:\n")
	b.WriteString("  1. Edit folio.yaml and the files in data/\n")
	b.WriteString("  2. Write a post in blogs/ and run: folio blog rebuild-index\n")
	b.WriteString("  3. Preview the site: folio serve --open\n")
	return b.String()
}

func newInitCmd() *cobra.Command {
	var opts site.InitOptions
	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Create a new site with starter data and a first post",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := getSiteDir()
			if len(args) == 1 {
				dir = args[0]
			}

			result, err := site.Init(dir, opts)
			if err != nil {
				return fmt.Errorf("failed to initialize site: %w", err)
			}
			return printResult(cmd, initSummary{result})
		},
	}
	cmd.Flags().StringVar(&opts.SiteTitle, "site-title", "", "Site display name")
	cmd.Flags().StringVar(&opts.Author, "author", "", "Author name (default: git user.name)")
	cmd.Flags().StringVar(&opts.Email, "email", "", "Contact email (default: git user.email)")
	cmd.Flags().StringVar(&opts.BaseURL, "base-url", "", "Public base URL of the site")
	return cmd
}
