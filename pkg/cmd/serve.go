package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/folio-site/folio/internal/server"
	"github.com/folio-site/folio/pkg/site"
)

func newServeCmd() *cobra.Command {
	var (
		addr    string
		open    bool
		noBuild bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Build the site and serve it with the preview API",
		Long: `Build the site, then serve the output directory together with the
JSON preview API (/api/status, /api/blogs, /api/render, /api/contact,
/api/build) until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if addr == "" {
				addr = cfg.ServerAddr
			}

			eng, closeEngine, err := openEngine(cfg.Engine, false)
			if err != nil {
				return err
			}
			defer closeEngine()

			s := server.New(cfg, eng, logger)
			s.Version = Version
			s.Builder = site.NewBuilder(cfg, eng, logger)
			s.Builder.Version = Version

			if !noBuild {
				stats, err := s.Builder.Build(ctx)
				if err != nil {
					return fmt.Errorf("build failed: %w", err)
				}
				logger.WithField("pages", stats.Pages).Info("initial build done")
			}

			out := cmd.ErrOrStderr()
			return s.Run(ctx, addr, func(url string) {
				fmt.Fprintf(out, "[i] Serving %s on %s\n", cfg.OutputDir, url)
				if open {
					if err := server.OpenBrowser(url); err != nil {
						fmt.Fprintf(out, "[i] Please open %s in your browser\n", url)
					}
				}
			})
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default: server_addr from config)")
	cmd.Flags().BoolVar(&open, "open", false, "Open the site in the default browser")
	cmd.Flags().BoolVar(&noBuild, "no-build", false, "Serve the existing output without building first")
	return cmd
}
