package server

import "net/http"

// SetupRoutes registers all API routes on the given ServeMux.
func SetupRoutes(mux *http.ServeMux, s *Server) {
	mux.HandleFunc("/api/status", s.handleStatus)

	// Blog
	mux.HandleFunc("/api/blogs", s.handleBlogs)
	mux.HandleFunc("/api/blogs/", s.handleBlog)
	mux.HandleFunc("/api/tags", s.handleTags)

	// Rendering and the site
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/build", s.handleBuild)

	mux.HandleFunc("/api/contact", s.handleContact)
}
