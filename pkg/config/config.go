// Package config loads folio.yaml, the per-site configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/folio-site/folio/pkg/hooks"
	"github.com/folio-site/folio/pkg/render"
)

// FileName is the config file looked up in the site root.
const FileName = "folio.yaml"

// Environment variables that override the file.
const (
	EnvBaseURL  = "FOLIO_BASE_URL"
	EnvEngine   = "FOLIO_ENGINE"
	EnvLogLevel = "FOLIO_LOG_LEVEL"
)

// Config holds the site configuration. Relative directories are resolved
// against the site root by Resolve.
type Config struct {
	SiteTitle    string `yaml:"site_title,omitempty" json:"site_title,omitempty"`
	BaseURL      string `yaml:"base_url,omitempty" json:"base_url,omitempty"`
	Author       string `yaml:"author,omitempty" json:"author,omitempty"`
	ContactEmail string `yaml:"contact_email,omitempty" json:"contact_email,omitempty"`

	// Hero lines shown in the terminal box on the home page.
	Hero []string `yaml:"hero,omitempty" json:"hero,omitempty"`

	BlogsDir     string `yaml:"blogs_dir,omitempty" json:"blogs_dir,omitempty"`
	DataDir      string `yaml:"data_dir,omitempty" json:"data_dir,omitempty"`
	AssetsDir    string `yaml:"assets_dir,omitempty" json:"assets_dir,omitempty"`
	OutputDir    string `yaml:"output_dir,omitempty" json:"output_dir,omitempty"`
	TemplatesDir string `yaml:"templates_dir,omitempty" json:"templates_dir,omitempty"`

	Engine    string `yaml:"engine,omitempty" json:"engine,omitempty"`         // site, goldmark
	CachePath string `yaml:"cache_path,omitempty" json:"cache_path,omitempty"` // empty disables the cache

	LogLevel  string `yaml:"log_level,omitempty" json:"log_level,omitempty"`
	LogFormat string `yaml:"log_format,omitempty" json:"log_format,omitempty"` // text, json

	ServerAddr string `yaml:"server_addr,omitempty" json:"server_addr,omitempty"`

	Hooks hooks.HookConfig `yaml:"hooks,omitempty" json:"hooks,omitempty"`

	// Root is the site directory the config belongs to.
	Root string `yaml:"-" json:"root"`
}

// Default returns the configuration used when folio.yaml is absent.
func Default() *Config {
	return &Config{
		SiteTitle:    "Portfolio",
		BlogsDir:     "blogs",
		DataDir:      "assets/data",
		AssetsDir:    "assets",
		OutputDir:    "public",
		TemplatesDir: "templates",
		Engine:       render.EngineSite,
		CachePath:    ".folio/cache.db",
		LogLevel:     "info",
		LogFormat:    "text",
		ServerAddr:   "localhost:8080",
	}
}

// Load loads config from the given path. A missing file yields the
// defaults; fields left out of the file keep their defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	cfg.Root = filepath.Dir(path)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// LoadSite loads folio.yaml from siteDir, applies environment overrides
// and resolves directories.
func LoadSite(siteDir string) (*Config, error) {
	cfg, err := Load(filepath.Join(siteDir, FileName))
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv(os.LookupEnv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.Resolve(siteDir)
	return cfg, nil
}

// ApplyEnv overrides fields from the environment.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvBaseURL); ok && v != "" {
		c.BaseURL = v
	}
	if v, ok := lookup(EnvEngine); ok && v != "" {
		c.Engine = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.LogLevel = v
	}
}

// Validate checks enumerated fields.
func (c *Config) Validate() error {
	if _, err := render.EngineByName(c.Engine); err != nil {
		return fmt.Errorf("config engine: %w", err)
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		return fmt.Errorf("config log_format: unknown format %q", c.LogFormat)
	}
	return nil
}

// Resolve makes every directory absolute relative to siteDir.
func (c *Config) Resolve(siteDir string) {
	if abs, err := filepath.Abs(siteDir); err == nil {
		siteDir = abs
	}
	c.Root = siteDir
	for _, p := range []*string{&c.BlogsDir, &c.DataDir, &c.AssetsDir, &c.OutputDir, &c.TemplatesDir, &c.CachePath} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(siteDir, *p)
		}
	}
}

// Save saves config to the given path.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}
