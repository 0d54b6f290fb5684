package site

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/folio-site/folio/pkg/blog"
	"github.com/folio-site/folio/pkg/config"
	"github.com/folio-site/folio/pkg/portfolio"
)

// InitOptions contains options for initializing a new site.
type InitOptions struct {
	SiteTitle string // Optional site title
	Author    string // Optional author name
	Email     string // Optional contact email
	BaseURL   string // Optional base URL (e.g., https://alice.github.io/portfolio)
}

// InitResult contains the result of site initialization.
type InitResult struct {
	Success bool     `json:"success"`
	SiteDir string   `json:"site_dir"`
	Created []string `json:"created"`
	Error   string   `json:"error,omitempty"`
}

// Init creates a new site in the given directory.
// It will NOT overwrite an existing folio.yaml - this is a safety feature.
func Init(siteDir string, opts InitOptions) (*InitResult, error) {
	result := &InitResult{
		Success: false,
		SiteDir: siteDir,
	}

	// SAFETY: refuse to overwrite an existing site
	configPath := filepath.Join(siteDir, config.FileName)
	if _, err := os.Stat(configPath); err == nil {
		return nil, fmt.Errorf("%s already exists at %s - refusing to overwrite", config.FileName, configPath)
	}

	cfg := config.Default()
	dirs := []string{
		siteDir,
		filepath.Join(siteDir, cfg.BlogsDir),
		filepath.Join(siteDir, cfg.DataDir),
		filepath.Join(siteDir, cfg.AssetsDir, "images"),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	// Get author/email from options or fall back to git config
	cfg.Author = opts.Author
	if cfg.Author == "" {
		cfg.Author = getGitConfig("user.name")
	}
	cfg.ContactEmail = opts.Email
	if cfg.ContactEmail == "" {
		cfg.ContactEmail = getGitConfig("user.email")
	}
	if opts.SiteTitle != "" {
		cfg.SiteTitle = opts.SiteTitle
	}
	cfg.BaseURL = opts.BaseURL

	if err := cfg.Save(configPath); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", config.FileName, err)
	}
	result.Created = append(result.Created, config.FileName)

	created, err := initPortfolioData(filepath.Join(siteDir, cfg.DataDir))
	if err != nil {
		return nil, fmt.Errorf("failed to create portfolio data: %w", err)
	}
	result.Created = append(result.Created, created...)

	if err := initFirstPost(filepath.Join(siteDir, cfg.BlogsDir), cfg.Author); err != nil {
		return nil, fmt.Errorf("failed to create first post: %w", err)
	}
	result.Created = append(result.Created, filepath.Join(cfg.BlogsDir, "hello-world.md"), filepath.Join(cfg.BlogsDir, blog.IndexFile))

	// Non-fatal; a missing .gitignore does not break the site
	if err := initGitignore(siteDir, cfg); err == nil {
		result.Created = append(result.Created, ".gitignore")
	}

	result.Success = true
	return result, nil
}

// initPortfolioData writes the built-in portfolio data as editable files.
// Existing files are kept.
func initPortfolioData(dataDir string) ([]string, error) {
	fb, err := portfolio.Fallback()
	if err != nil {
		return nil, err
	}
	files := []struct {
		name string
		data interface{}
	}{
		{portfolio.SkillsFile, fb.Skills},
		{portfolio.ExperienceFile, fb.Experience},
		{portfolio.CertificationsFile, fb.Certifications},
	}

	var created []string
	for _, f := range files {
		path := filepath.Join(dataDir, f.name)
		if _, err := os.Stat(path); err == nil {
			continue
		}
		data, err := json.MarshalIndent(f.data, "", "  ")
		if err != nil {
			return nil, err
		}
		if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
			return nil, err
		}
		created = append(created, f.name)
	}
	return created, nil
}

// initFirstPost writes a sample post and indexes it.
func initFirstPost(blogsDir, author string) error {
	postPath := filepath.Join(blogsDir, "hello-world.md")
	if _, err := os.Stat(postPath); os.IsNotExist(err) {
		if author == "" {
			author = "me"
		}
		content := fmt.Sprintf(`---
title: Hello World
description: The first post on this site.
date: %s
tags: [Meta]
---
# Hello World

Written by **%s**. Edit this file in *%s* and run `+"`folio build`"+`.

## Next steps

* Add posts to the blogs directory
* Run `+"`folio blog rebuild-index`"+`
`, time.Now().UTC().Format("2006-01-02"), author, filepath.Base(blogsDir))
		if err := os.WriteFile(postPath, []byte(content), 0644); err != nil {
			return err
		}
	}
	_, err := blog.Rebuild(blogsDir, blog.RebuildOptions{})
	return err
}

// initGitignore creates the .gitignore file.
func initGitignore(siteDir string, cfg *config.Config) error {
	gitignorePath := filepath.Join(siteDir, ".gitignore")
	if _, err := os.Stat(gitignorePath); os.IsNotExist(err) {
		content := fmt.Sprintf("/%s/\n/%s\n.env*\n", cfg.OutputDir, filepath.ToSlash(cfg.CachePath))
		return os.WriteFile(gitignorePath, []byte(content), 0644)
	}
	return fmt.Errorf(".gitignore already exists")
}

// getGitConfig retrieves a git config value.
// Returns empty string if git is not available or the config key is not set.
func getGitConfig(key string) string {
	cmd := exec.Command("git", "config", key)
	out, err := cmd.Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}
