// Package server provides the local preview server: the built site as
// static files plus a small JSON API over the blog and the renderer.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/exec"
	"runtime"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/folio-site/folio/pkg/blog"
	"github.com/folio-site/folio/pkg/config"
	"github.com/folio-site/folio/pkg/logging"
	"github.com/folio-site/folio/pkg/render"
	"github.com/folio-site/folio/pkg/site"
)

// maxBodySize caps request bodies accepted by the API.
const maxBodySize = 1 << 20

// shutdownTimeout bounds how long Run waits for in-flight requests.
const shutdownTimeout = 5 * time.Second

// Server holds the application state
type Server struct {
	Config   *config.Config
	Provider *blog.Provider
	Engine   render.Engine
	Logger   logrus.FieldLogger
	Version  string

	// Builder, when set, enables POST /api/build.
	Builder *site.Builder
	buildMu sync.Mutex
}

// New creates a server for the site described by cfg. Posts are read
// from cfg.BlogsDir.
func New(cfg *config.Config, engine render.Engine, logger logrus.FieldLogger) *Server {
	if logger == nil {
		logger = logging.Discard()
	}
	if engine == nil {
		engine = render.New()
	}
	return &Server{
		Config:   cfg,
		Provider: blog.NewProvider(blog.DirSource{Dir: cfg.BlogsDir}, engine, logger),
		Engine:   engine,
		Logger:   logger,
		Version:  "dev",
	}
}

// Handler returns the API routes and the static site behind request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	SetupRoutes(mux, s)
	mux.Handle("/", http.FileServer(http.Dir(s.Config.OutputDir)))
	return s.logRequests(mux)
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.Logger.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start).String(),
		}).Debug("request")
	})
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
// The ready callback, if set, receives the bound address once listening.
func (s *Server) Run(ctx context.Context, addr string, ready func(url string)) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	url := "http://" + ln.Addr().String()
	s.Logger.WithFields(logrus.Fields{
		"url":    url,
		"output": s.Config.OutputDir,
	}).Info("preview server listening")
	if ready != nil {
		ready(url)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.Logger.Info("preview server stopped")
	return nil
}

// OpenBrowser opens the default browser to the given URL.
func OpenBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	default:
		return fmt.Errorf("please open %s in your browser", url)
	}
	return cmd.Start()
}
