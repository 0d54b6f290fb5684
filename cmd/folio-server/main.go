// folio-server serves a built site and the preview API without the CLI.
// The site directory is FOLIO_SITE, or "site" next to the executable.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/folio-site/folio/internal/server"
	"github.com/folio-site/folio/pkg/config"
	"github.com/folio-site/folio/pkg/logging"
	"github.com/folio-site/folio/pkg/render"
	"github.com/folio-site/folio/pkg/site"
)

// Version is set at build time with -ldflags
var Version = "dev"

func main() {
	siteDir := os.Getenv("FOLIO_SITE")
	if siteDir == "" {
		execPath, err := os.Executable()
		if err != nil {
			log.Fatal("Failed to get executable path:", err)
		}
		siteDir = filepath.Join(filepath.Dir(execPath), "site")
	}

	cfg, err := config.LoadSite(siteDir)
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger, closeLog, err := logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, Output: os.Stderr})
	if err != nil {
		log.Fatal("Failed to set up logging:", err)
	}
	defer closeLog()

	engine, err := render.EngineByName(cfg.Engine)
	if err != nil {
		logger.WithError(err).Fatal("invalid engine")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s := server.New(cfg, engine, logger)
	s.Version = Version
	s.Builder = site.NewBuilder(cfg, engine, logger)
	s.Builder.Version = Version
	if _, err := s.Builder.Build(ctx); err != nil {
		logger.WithError(err).Fatal("build failed")
	}

	err = s.Run(ctx, cfg.ServerAddr, func(url string) {
		logger.WithField("url", url).Info("serving")
	})
	if err != nil {
		logger.WithError(err).Fatal("server stopped")
	}
}
