package cmd

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/folio-site/folio/pkg/hooks"
	"github.com/folio-site/folio/pkg/site"
)

// buildSummary is the output of folio build.
type buildSummary struct {
	Success bool `json:"success"`
	*site.BuildStats
	Hook *hooks.HookResult `json:"hook,omitempty"`
}

func (s buildSummary) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[✓] Built %d pages (%d unchanged), %d posts into %s in %s\n",
		s.Pages, s.Unchanged, s.Posts, s.OutputDir, s.Duration.Round(time.Millisecond))
	if s.Assets > 0 {
		fmt.Fprintf(&b, "[i] Copied %d assets\n", s.Assets)
	}
	if s.CacheHits+s.CacheMisses > 0 {
		fmt.Fprintf(&b, "[i] Render cache: %d hits, %d misses\n", s.CacheHits, s.CacheMisses)
	}
	if s.IndexFallback {
		b.WriteString("[!] Blog index missing or invalid; built-in post list used\n")
	}
	if s.Placeholders > 0 {
		fmt.Fprintf(&b, "[!] %d posts could not be read and show a placeholder\n", s.Placeholders)
	}
	if s.PortfolioFallback {
		b.WriteString("[!] Portfolio data incomplete; built-in data used\n")
	}
	if s.Hook != nil && s.Hook.Executed {
		fmt.Fprintf(&b, "[✓] Ran post-build hook %s\n", s.Hook.Path)
		if out := strings.TrimSpace(s.Hook.Output); out != "" {
			b.WriteString(out + "\n")
		}
	}
	return b.String()
}

func newBuildCmd() *cobra.Command {
	var (
		force    bool
		outDir   string
		annotate bool
		noCache  bool
		noHooks  bool
	)
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Generate the static site",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if outDir != "" {
				abs, err := filepath.Abs(outDir)
				if err != nil {
					return err
				}
				cfg.OutputDir = abs
			}

			eng, closeEngine, err := openEngine(cfg.Engine, noCache)
			if err != nil {
				return err
			}
			defer closeEngine()

			b := site.NewBuilder(cfg, eng, logger)
			b.Version = Version
			b.Force = force
			b.Annotate = annotate

			stats, err := b.Build(cmd.Context())
			if err != nil {
				return fmt.Errorf("build failed: %w", err)
			}
			summary := buildSummary{Success: true, BuildStats: stats}
			if !noHooks {
				payload := &hooks.HookPayload{
					Event:         hooks.EventPostBuild,
					OutputDir:     stats.OutputDir,
					Pages:         stats.Pages,
					Posts:         stats.Posts,
					Version:       Version,
					Timestamp:     time.Now().UTC().Format(time.RFC3339),
					CommitMessage: hooks.GenerateCommitMessage(hooks.EventPostBuild, stats.Pages, stats.Posts),
				}
				if summary.Hook, err = hooks.RunHook(cmd.Context(), cfg.Root, &cfg.Hooks, payload); err != nil {
					return err
				}
			}
			return printResult(cmd, summary)
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Rewrite files even when unchanged")
	cmd.Flags().StringVar(&outDir, "out", "", "Output directory (overrides output_dir)")
	cmd.Flags().BoolVar(&annotate, "annotate", false, "Wrap template partials in FOLIO-PARTIAL comments")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Bypass the render cache")
	cmd.Flags().BoolVar(&noHooks, "no-hooks", false, "Skip the post-build hook")
	return cmd
}
