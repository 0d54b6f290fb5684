package server

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/folio-site/folio/pkg/blog"
	"github.com/folio-site/folio/pkg/contact"
	"github.com/folio-site/folio/pkg/site"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Run validation to get current state
	validation := site.Validate(s.Config.Root)

	response := map[string]interface{}{
		"site_title": s.Config.SiteTitle,
		"base_url":   s.Config.BaseURL,
		"engine":     s.Config.Engine,
		"version":    s.Version,
		"validation": map[string]interface{}{
			"status": validation.Status,
			"errors": validation.Errors,
		},
	}
	if validation.SiteInfo != nil {
		response["site_info"] = validation.SiteInfo
	}

	writeJSON(w, http.StatusOK, response)
}

// handleBlogs handles GET /api/blogs[?tag=name].
func (s *Server) handleBlogs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	idx, err := s.Provider.LoadIndex(r.Context())
	if err != nil {
		http.Error(w, "Failed to load blog index", http.StatusInternalServerError)
		return
	}

	posts := idx.Blogs
	if tag := r.URL.Query().Get("tag"); tag != "" {
		posts = idx.FilterByTag(tag)
	}
	if posts == nil {
		posts = []blog.Post{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"blogs":    posts,
		"fallback": idx.Fallback,
	})
}

// handleBlog handles GET /api/blogs/{id}.
func (s *Server) handleBlog(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/blogs/")
	if id == "" || strings.Contains(id, "/") {
		http.Error(w, "Post id required", http.StatusBadRequest)
		return
	}

	article, err := s.Provider.Open(r.Context(), id)
	if errors.Is(err, blog.ErrPostNotFound) {
		http.Error(w, "Post not found", http.StatusNotFound)
		return
	}
	if err != nil {
		s.Logger.WithError(err).WithField("post", id).Error("render post failed")
		http.Error(w, "Failed to render post", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, article)
}

// handleTags handles GET /api/tags, the tag cloud.
func (s *Server) handleTags(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	idx, err := s.Provider.LoadIndex(r.Context())
	if err != nil {
		http.Error(w, "Failed to load blog index", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"tags": idx.Tags()})
}

// handleRender handles POST /api/render. The body is either raw markdown
// or JSON {"markdown": "..."} with a JSON content type.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		http.Error(w, "Request too large", http.StatusRequestEntityTooLarge)
		return
	}

	markdown := string(body)
	if mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type")); mt == "application/json" {
		var req struct {
			Markdown string `json:"markdown"`
		}
		if err := json.Unmarshal(body, &req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		markdown = req.Markdown
	}

	html, err := s.Engine.Convert(markdown)
	if err != nil {
		s.Logger.WithError(err).Error("render markdown failed")
		http.Error(w, "Failed to render markdown", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"html": html})
}

// handleBuild handles POST /api/build, rebuilding the site in place.
func (s *Server) handleBuild(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.Builder == nil {
		http.Error(w, "Builds are disabled on this server", http.StatusNotFound)
		return
	}

	s.buildMu.Lock()
	defer s.buildMu.Unlock()

	stats, err := s.Builder.Build(r.Context())
	if err != nil {
		s.Logger.WithError(err).Error("build failed")
		http.Error(w, "Build failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// handleContact handles POST /api/contact, returning the mailto link for
// a valid form.
func (s *Server) handleContact(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.Config.ContactEmail == "" {
		http.Error(w, "Not configured - set contact_email in folio.yaml", http.StatusBadRequest)
		return
	}

	var form contact.Form
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&form); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	mailto, err := contact.Mailto(s.Config.ContactEmail, form)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"mailto":  mailto,
	})
}
