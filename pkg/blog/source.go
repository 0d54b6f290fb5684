package blog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// Source opens files below the blogs/ directory of a site.
type Source interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

// cleanName rejects names that would leave the blogs directory.
func cleanName(name string) (string, error) {
	if name == "" || strings.Contains(name, "\x00") {
		return "", fmt.Errorf("invalid blog file name %q", name)
	}
	clean := path.Clean("/" + strings.ReplaceAll(name, "\\", "/"))[1:]
	if clean == "" || clean == "." || strings.HasPrefix(clean, "../") || clean != strings.TrimPrefix(name, "./") {
		return "", fmt.Errorf("invalid blog file name %q", name)
	}
	return clean, nil
}

// DirSource reads blog files from a local directory.
type DirSource struct {
	Dir string
}

// Open opens name inside the directory.
func (s DirSource) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	clean, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(filepath.Join(s.Dir, filepath.FromSlash(clean)))
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", name, err)
	}
	return f, nil
}

// HTTPSource fetches blog files from a deployed site. BaseURL points at the
// blogs directory, e.g. https://example.github.io/Prats_Website/blogs/.
type HTTPSource struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewHTTPSource creates an HTTPSource with a 30 second timeout.
func NewHTTPSource(baseURL string) *HTTPSource {
	return &HTTPSource{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// URL returns the absolute URL of name.
func (s *HTTPSource) URL(name string) (string, error) {
	clean, err := cleanName(name)
	if err != nil {
		return "", err
	}
	base, err := url.Parse(strings.TrimSuffix(s.BaseURL, "/") + "/")
	if err != nil {
		return "", fmt.Errorf("invalid base URL %q: %w", s.BaseURL, err)
	}
	return base.ResolveReference(&url.URL{Path: clean}).String(), nil
}

// Open fetches name. Any status of 400 or above is an error.
func (s *HTTPSource) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	u, err := s.URL(name)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	client := s.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", u, err)
	}
	if resp.StatusCode >= 400 {
		resp.Body.Close()
		return nil, fmt.Errorf("fetch failed with status %d for %s", resp.StatusCode, u)
	}
	return resp.Body, nil
}
