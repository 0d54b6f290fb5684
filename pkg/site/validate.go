// Package site builds the static portfolio site and manages its layout on
// disk: scaffolding a new site, validating an existing one and building
// the HTML output.
package site

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/folio-site/folio/pkg/blog"
	"github.com/folio-site/folio/pkg/config"
	"github.com/folio-site/folio/pkg/portfolio"
)

// ValidationStatus represents the result of site validation.
type ValidationStatus string

const (
	StatusValid      ValidationStatus = "valid"
	StatusNotFound   ValidationStatus = "not_found"
	StatusIncomplete ValidationStatus = "incomplete"
	StatusInvalid    ValidationStatus = "invalid"
)

// ValidationError represents a specific validation error.
type ValidationError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Path       string `json:"path,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

// SiteInfo contains information about a valid site.
type SiteInfo struct {
	SiteTitle string `json:"site_title,omitempty"`
	BaseURL   string `json:"base_url,omitempty"`
	Engine    string `json:"engine,omitempty"`
	Posts     int    `json:"posts"`
}

// ValidationResult contains the full validation result.
type ValidationResult struct {
	Status   ValidationStatus  `json:"status"`
	Errors   []ValidationError `json:"errors,omitempty"`
	SiteInfo *SiteInfo         `json:"site_info,omitempty"`
}

// Validate checks if a directory is a usable site: folio.yaml parses, the
// blog index parses and names existing files, and the portfolio data is
// complete. Anything missing here would make a build fall back to
// built-in data.
func Validate(siteDir string) *ValidationResult {
	result := &ValidationResult{
		Status: StatusValid,
		Errors: []ValidationError{},
	}

	info, err := os.Stat(siteDir)
	if os.IsNotExist(err) {
		result.Status = StatusNotFound
		result.Errors = append(result.Errors, ValidationError{
			Code:       "SITE_DIR_NOT_FOUND",
			Message:    "Site directory does not exist",
			Path:       siteDir,
			Suggestion: "Run folio init to create a new site",
		})
		return result
	}
	if err != nil {
		result.Status = StatusInvalid
		result.Errors = append(result.Errors, ValidationError{
			Code:    "SITE_DIR_ERROR",
			Message: "Cannot access site directory: " + err.Error(),
			Path:    siteDir,
		})
		return result
	}
	if !info.IsDir() {
		result.Status = StatusInvalid
		result.Errors = append(result.Errors, ValidationError{
			Code:       "NOT_A_DIRECTORY",
			Message:    "Path is not a directory",
			Path:       siteDir,
			Suggestion: "Provide a path to a directory, not a file",
		})
		return result
	}

	configPath := filepath.Join(siteDir, config.FileName)
	_, statErr := os.Stat(configPath)
	hasConfig := statErr == nil

	cfg, err := config.LoadSite(siteDir)
	if err != nil {
		result.Status = StatusInvalid
		result.Errors = append(result.Errors, ValidationError{
			Code:       "CONFIG_INVALID",
			Message:    err.Error(),
			Path:       configPath,
			Suggestion: "Fix the YAML syntax or the engine name",
		})
		return result
	}

	var errors []ValidationError
	idx, idxErr := validateIndex(cfg.BlogsDir)
	if idxErr != nil {
		errors = append(errors, *idxErr)
	}
	if idx != nil {
		errors = append(errors, validatePostFiles(cfg.BlogsDir, idx)...)
	}
	errors = append(errors, validatePortfolio(cfg.DataDir)...)

	if len(errors) > 0 {
		result.Errors = errors
		if !hasConfig && idx == nil {
			// Nothing that looks like a site
			result.Status = StatusNotFound
		} else {
			result.Status = StatusIncomplete
		}
		return result
	}

	result.SiteInfo = &SiteInfo{
		SiteTitle: cfg.SiteTitle,
		BaseURL:   cfg.BaseURL,
		Engine:    cfg.Engine,
		Posts:     len(idx.Blogs),
	}
	return result
}

// validateIndex checks blogs/index.json.
func validateIndex(blogsDir string) (*blog.Index, *ValidationError) {
	path := filepath.Join(blogsDir, blog.IndexFile)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, &ValidationError{
			Code:       "INDEX_MISSING",
			Message:    "Blog index not found",
			Path:       path,
			Suggestion: "Run folio blog rebuild-index",
		}
	}
	if err != nil {
		return nil, &ValidationError{
			Code:    "INDEX_ERROR",
			Message: "Cannot read blog index: " + err.Error(),
			Path:    path,
		}
	}

	var idx blog.Index
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, &ValidationError{
			Code:       "INDEX_INVALID_JSON",
			Message:    "Blog index contains invalid JSON: " + err.Error(),
			Path:       path,
			Suggestion: "Fix the JSON syntax or run folio blog rebuild-index",
		}
	}
	return &idx, nil
}

// validatePostFiles checks that every indexed post has an id and a file.
func validatePostFiles(blogsDir string, idx *blog.Index) []ValidationError {
	var errors []ValidationError
	seen := make(map[string]bool)
	for i, p := range idx.Blogs {
		if p.ID == "" {
			errors = append(errors, ValidationError{
				Code:    "POST_MISSING_ID",
				Message: fmt.Sprintf("Post %d (%s) has no id", i, p.Title),
			})
			continue
		}
		if seen[p.ID] {
			errors = append(errors, ValidationError{
				Code:       "POST_DUPLICATE_ID",
				Message:    "Duplicate post id " + p.ID,
				Suggestion: "Give each post a unique id",
			})
		}
		seen[p.ID] = true

		path := filepath.Join(blogsDir, filepath.FromSlash(p.Filename))
		if _, err := os.Stat(path); err != nil {
			errors = append(errors, ValidationError{
				Code:       "POST_FILE_MISSING",
				Message:    fmt.Sprintf("Post %s points at a missing file", p.ID),
				Path:       path,
				Suggestion: "Restore the file or run folio blog rebuild-index",
			})
		}
	}
	return errors
}

// validatePortfolio checks that the data files load without falling back.
func validatePortfolio(dataDir string) []ValidationError {
	d, err := portfolio.Load(dataDir)
	if err != nil {
		return []ValidationError{{Code: "PORTFOLIO_ERROR", Message: err.Error(), Path: dataDir}}
	}
	if d.Fallback {
		return []ValidationError{{
			Code:       "PORTFOLIO_INCOMPLETE",
			Message:    d.Cause.Error(),
			Path:       dataDir,
			Suggestion: "All three data files are needed; otherwise the built-in data is used",
		}}
	}
	return nil
}

// IsValidSite is a convenience function that returns true if the directory is a valid site.
func IsValidSite(siteDir string) bool {
	return Validate(siteDir).Status == StatusValid
}
