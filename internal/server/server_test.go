package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/folio-site/folio/pkg/config"
	"github.com/folio-site/folio/pkg/site"
)

// Helper to create a server over a freshly initialised site
func newTestServer(t *testing.T) *Server {
	t.Helper()
	dir := t.TempDir()
	_, err := site.Init(dir, site.InitOptions{SiteTitle: "Test Site", Author: "Ada", Email: "ada@example.com"})
	require.NoError(t, err)

	cfg, err := config.LoadSite(dir)
	require.NoError(t, err)
	return New(cfg, nil, nil)
}

func do(t *testing.T, s *Server, method, target, contentType, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp), w.Body.String())
	return resp
}

func TestHandleStatus(t *testing.T) {
	s := newTestServer(t)
	s.Version = "1.2.3"

	w := do(t, s, http.MethodGet, "/api/status", "", "")
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode(t, w)
	assert.Equal(t, "Test Site", resp["site_title"])
	assert.Equal(t, "1.2.3", resp["version"])
	validation := resp["validation"].(map[string]interface{})
	assert.Equal(t, string(site.StatusValid), validation["status"])
	assert.NotNil(t, resp["site_info"])
}

func TestHandleBlogs(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"all", "", 1},
		{"tag match ignores case", "?tag=meta", 1},
		{"unknown tag", "?tag=nope", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, s, http.MethodGet, "/api/blogs"+tt.query, "", "")
			require.Equal(t, http.StatusOK, w.Code)
			resp := decode(t, w)
			assert.Len(t, resp["blogs"], tt.want)
			assert.Equal(t, false, resp["fallback"])
		})
	}
}

func TestHandleBlogs_Fallback(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.LoadSite(dir)
	require.NoError(t, err)
	s := New(cfg, nil, nil)

	w := do(t, s, http.MethodGet, "/api/blogs", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.Equal(t, true, resp["fallback"])
	assert.Len(t, resp["blogs"], 7)
}

func TestHandleBlog(t *testing.T) {
	s := newTestServer(t)

	t.Run("found", func(t *testing.T) {
		w := do(t, s, http.MethodGet, "/api/blogs/hello-world", "", "")
		require.Equal(t, http.StatusOK, w.Code)
		resp := decode(t, w)
		assert.Equal(t, "Hello World", resp["title"])
		assert.Contains(t, resp["html"], "<h1")
		assert.Nil(t, resp["placeholder"])
	})

	t.Run("not found", func(t *testing.T) {
		w := do(t, s, http.MethodGet, "/api/blogs/missing", "", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("nested path", func(t *testing.T) {
		w := do(t, s, http.MethodGet, "/api/blogs/a/b", "", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("method not allowed", func(t *testing.T) {
		w := do(t, s, http.MethodDelete, "/api/blogs/hello-world", "", "")
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	})
}

func TestHandleTags(t *testing.T) {
	s := newTestServer(t)

	w := do(t, s, http.MethodGet, "/api/tags", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"tags":[{"tag":"Meta","count":1}]}`, w.Body.String())
}

func TestHandleRender(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name        string
		contentType string
		body        string
		wantCode    int
		wantHTML    string
	}{
		{"raw markdown", "text/markdown", "**bold**", http.StatusOK, "<strong"},
		{"json body", "application/json; charset=utf-8", `{"markdown":"# Title"}`, http.StatusOK, "<h1"},
		{"empty", "text/plain", "", http.StatusOK, ""},
		{"invalid json", "application/json", "{", http.StatusBadRequest, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, s, http.MethodPost, "/api/render", tt.contentType, tt.body)
			require.Equal(t, tt.wantCode, w.Code)
			if tt.wantCode != http.StatusOK {
				return
			}
			resp := decode(t, w)
			assert.Contains(t, resp["html"], tt.wantHTML)
		})
	}

	t.Run("method not allowed", func(t *testing.T) {
		w := do(t, s, http.MethodGet, "/api/render", "", "")
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	})
}

func TestHandleContact(t *testing.T) {
	s := newTestServer(t)

	t.Run("valid", func(t *testing.T) {
		w := do(t, s, http.MethodPost, "/api/contact", "application/json",
			`{"name":"Bob","email":"bob@example.com","message":"Hi there"}`)
		require.Equal(t, http.StatusOK, w.Code)
		resp := decode(t, w)
		assert.Equal(t, true, resp["success"])
		assert.Equal(t,
			"mailto:ada@example.com?subject=Portfolio%20Contact%20from%20Bob&body=Name%3A%20Bob%0AEmail%3A%20bob%40example.com%0A%0AMessage%3A%0AHi%20there",
			resp["mailto"])
	})

	t.Run("invalid email", func(t *testing.T) {
		w := do(t, s, http.MethodPost, "/api/contact", "application/json",
			`{"name":"Bob","email":"bob@","message":"Hi"}`)
		require.Equal(t, http.StatusBadRequest, w.Code)
		resp := decode(t, w)
		assert.Equal(t, false, resp["success"])
		assert.Equal(t, "please enter a valid email address", resp["error"])
	})

	t.Run("not configured", func(t *testing.T) {
		s := newTestServer(t)
		s.Config.ContactEmail = ""
		w := do(t, s, http.MethodPost, "/api/contact", "application/json", `{}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandleBuild(t *testing.T) {
	s := newTestServer(t)

	w := do(t, s, http.MethodPost, "/api/build", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	s.Builder = site.NewBuilder(s.Config, s.Engine, s.Logger)
	w = do(t, s, http.MethodPost, "/api/build", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.EqualValues(t, 5, resp["pages"])

	// The built site is served as static files
	w = do(t, s, http.MethodGet, "/blogs/hello-world.html", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Hello World")
}

func TestRun_GracefulShutdown(t *testing.T) {
	s := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())

	urls := make(chan string, 1)
	done := make(chan error, 1)
	go func() {
		done <- s.Run(ctx, "127.0.0.1:0", func(url string) { urls <- url })
	}()

	var url string
	select {
	case url = <-urls:
	case err := <-done:
		t.Fatalf("Run returned early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not start")
	}

	resp, err := http.Get(url + "/api/status")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down")
	}
}
