package site

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/folio-site/folio/pkg/blog"
	"github.com/folio-site/folio/pkg/cache"
	"github.com/folio-site/folio/pkg/config"
	"github.com/folio-site/folio/pkg/logging"
	"github.com/folio-site/folio/pkg/portfolio"
	"github.com/folio-site/folio/pkg/render"
	"github.com/folio-site/folio/pkg/template"
)

// recentPosts is how many posts the home page lists.
const recentPosts = 3

// DefaultHero is shown on the home page when folio.yaml sets no hero lines.
var DefaultHero = []string{
	"> Initializing security protocols...",
	"> Access granted: Prathana Mahendran",
	"> Role: Security Engineer | SIEM Specialist",
	"> Expertise: SIEM | EDR | Threat Detection | Incident Response",
	"> Status: Monitoring threats, protecting systems",
	"> Location: Dubai, UAE",
	"> Welcome to my digital fortress_",
}

// Builder generates the static site into Config.OutputDir.
type Builder struct {
	Config    *config.Config
	Engine    render.Engine
	Provider  *blog.Provider
	Portfolio *portfolio.Data // loaded from Config.DataDir when nil
	Logger    logrus.FieldLogger
	Version   string

	Force    bool // rewrite files whose content did not change
	Annotate bool // wrap partials in FOLIO-PARTIAL comments

	tmpl  *template.Engine
	stats *BuildStats
}

// BuildStats holds statistics from a build.
type BuildStats struct {
	OutputDir         string        `json:"output_dir"`
	Pages             int           `json:"pages"`
	Unchanged         int           `json:"unchanged"`
	Posts             int           `json:"posts"`
	Placeholders      int           `json:"placeholders"`
	Assets            int           `json:"assets"`
	CacheHits         int           `json:"cache_hits"`
	CacheMisses       int           `json:"cache_misses"`
	IndexFallback     bool          `json:"index_fallback"`
	PortfolioFallback bool          `json:"portfolio_fallback"`
	Duration          time.Duration `json:"duration"`
}

// NewBuilder creates a builder reading posts from the configured blogs dir.
func NewBuilder(cfg *config.Config, engine render.Engine, logger logrus.FieldLogger) *Builder {
	if logger == nil {
		logger = logging.Discard()
	}
	if engine == nil {
		engine = render.New()
	}
	return &Builder{
		Config:   cfg,
		Engine:   engine,
		Provider: blog.NewProvider(blog.DirSource{Dir: cfg.BlogsDir}, engine, logger),
		Logger:   logger,
		Version:  "dev",
	}
}

// Build renders every page and copies static assets.
func (b *Builder) Build(ctx context.Context) (*BuildStats, error) {
	start := time.Now()
	out := b.Config.OutputDir
	if out == "" {
		return nil, fmt.Errorf("no output directory configured")
	}
	b.stats = &BuildStats{OutputDir: out}

	b.tmpl = template.New(template.Config{
		PartialsFS:       Templates(b.Config.TemplatesDir),
		Markers:          b.Annotate,
		MarkdownRenderer: b.Engine.Convert,
	})

	data := b.Portfolio
	if data == nil {
		var err error
		if data, err = portfolio.Load(b.Config.DataDir); err != nil {
			return nil, err
		}
	}
	if data.Fallback {
		b.Logger.WithError(data.Cause).Warn("using built-in portfolio data")
	}
	b.stats.PortfolioFallback = data.Fallback

	idx, err := b.Provider.LoadIndex(ctx)
	if err != nil {
		return nil, err
	}
	b.stats.IndexFallback = idx.Fallback

	if err := b.renderPage("index.html", "index", b.homeVars(data, idx)); err != nil {
		return nil, err
	}
	if err := b.renderPage("skills.html", "skills", skillsVars(data)); err != nil {
		return nil, err
	}
	if err := b.renderPage("experience.html", "experience", experienceVars(data)); err != nil {
		return nil, err
	}
	if err := b.renderPage("blogs.html", "blogs", blogsVars(idx)); err != nil {
		return nil, err
	}

	for _, post := range idx.Blogs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := b.buildPost(ctx, post); err != nil {
			return nil, fmt.Errorf("failed to build post %s: %w", post.ID, err)
		}
	}

	indexJSON, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode blog index: %w", err)
	}
	if err := b.write(filepath.Join("blogs", blog.IndexFile), append(indexJSON, '\n')); err != nil {
		return nil, err
	}

	if err := b.copyAssets(); err != nil {
		return nil, err
	}

	if ce, ok := b.Engine.(*cache.Engine); ok {
		b.stats.CacheHits, b.stats.CacheMisses = ce.Stats()
	}
	b.stats.Duration = time.Since(start)

	b.Logger.WithFields(logrus.Fields{
		"pages":     b.stats.Pages,
		"unchanged": b.stats.Unchanged,
		"posts":     b.stats.Posts,
		"output":    out,
	}).Info("site built")

	return b.stats, nil
}

// PostPath returns the output path of a post page relative to the site root.
func PostPath(id string) string {
	slug := blog.Slug(id)
	if slug == "" {
		slug = "post"
	}
	return "blogs/" + slug + ".html"
}

func (b *Builder) buildPost(ctx context.Context, post blog.Post) error {
	article, err := b.Provider.Article(ctx, post)
	if err != nil {
		return err
	}
	if article.Placeholder {
		b.stats.Placeholders++
	}

	content, toc, err := AnchorHeadings(article.HTML)
	if err != nil {
		return err
	}

	entries := make([]map[string]any, 0, len(toc))
	for _, e := range toc {
		entries = append(entries, map[string]any{"level": e.Level, "id": e.ID, "text": e.Text})
	}

	vars := map[string]any{
		"root":        "../",
		"page_title":  post.Title,
		"description": post.Description,
		"nav_blogs":   true,
		"post":        postVars(post),
		"has_toc":     len(entries) > 1,
		"toc":         entries,
		"content":     content,
	}
	if err := b.renderPage(PostPath(post.ID), "post", vars); err != nil {
		return err
	}
	b.stats.Posts++
	return nil
}

// renderPage renders pages/<page> inside the layout and writes it to rel.
func (b *Builder) renderPage(rel, page string, vars map[string]any) error {
	ctx := b.baseContext(rel).With(vars)

	content, err := b.tmpl.Render("{{> pages/"+page+"}}", ctx)
	if err != nil {
		return fmt.Errorf("failed to render %s: %w", rel, err)
	}
	html, err := b.tmpl.Render("{{> layout}}", ctx.With(map[string]any{"content": content}))
	if err != nil {
		return fmt.Errorf("failed to render layout for %s: %w", rel, err)
	}
	return b.write(rel, []byte(html))
}

func (b *Builder) baseContext(rel string) template.Context {
	cfg := b.Config
	canonical := ""
	if cfg.BaseURL != "" {
		canonical = strings.TrimRight(cfg.BaseURL, "/") + "/" + rel
	}
	return template.NewContext().With(map[string]any{
		"site_title":    cfg.SiteTitle,
		"author":        cfg.Author,
		"contact_email": cfg.ContactEmail,
		"version":       b.Version,
		"canonical":     canonical,
		"root":          "",
		"page_title":    cfg.SiteTitle,
		"description":   "",
	})
}

func (b *Builder) homeVars(data *portfolio.Data, idx *blog.Index) map[string]any {
	hero := b.Config.Hero
	if len(hero) == 0 {
		hero = DefaultHero
	}

	certs := make([]map[string]any, 0, len(data.Certifications.Certifications))
	for _, c := range data.Certifications.Certifications {
		certs = append(certs, map[string]any{
			"name":        c.Name,
			"issuer":      c.Issuer,
			"issueDate":   c.IssueDate,
			"description": c.Description,
		})
	}

	n := min(len(idx.Blogs), recentPosts)
	recent := make([]map[string]any, 0, n)
	for _, p := range idx.Blogs[:n] {
		recent = append(recent, map[string]any{
			"url":   PostPath(p.ID),
			"title": p.Title,
			"date":  template.FormatHumanDate(p.Date),
		})
	}

	return map[string]any{
		"page_title":         "Home",
		"nav_home":           true,
		"hero":               hero,
		"has_certifications": len(certs) > 0,
		"certifications":     certs,
		"has_recent_posts":   len(recent) > 0,
		"recent_posts":       recent,
	}
}

func skillsVars(data *portfolio.Data) map[string]any {
	categories := make([]map[string]any, 0, len(data.Skills.Categories))
	for _, c := range data.Skills.Categories {
		skills := make([]map[string]any, 0, len(c.Skills))
		for _, s := range c.Skills {
			badge := portfolio.ToolBadge(s.Name)
			skills = append(skills, map[string]any{
				"name":        s.Name,
				"level":       s.Level,
				"description": s.Description,
				"badge_icon":  badge.Icon,
				"badge_color": badge.Color,
			})
		}
		categories = append(categories, map[string]any{
			"name":   c.Name,
			"icon":   portfolio.CategoryIcon(c.Name),
			"skills": skills,
		})
	}
	return map[string]any{
		"page_title": "Skills",
		"nav_skills": true,
		"categories": categories,
	}
}

func experienceVars(data *portfolio.Data) map[string]any {
	timeline := make([]map[string]any, 0, len(data.Experience.Timeline))
	for _, j := range data.Experience.Timeline {
		techs := make([]map[string]any, 0, len(j.Technologies))
		for _, t := range j.Technologies {
			techs = append(techs, map[string]any{"name": t.Name, "category": t.Category})
		}
		timeline = append(timeline, map[string]any{
			"position":             j.Position,
			"company":              j.Company,
			"location":             j.Location,
			"duration":             j.Duration,
			"current":              j.Current,
			"description":          j.Description,
			"has_responsibilities": len(j.Responsibilities) > 0,
			"responsibilities":     j.Responsibilities,
			"has_highlights":       len(j.Highlights) > 0,
			"highlights":           j.Highlights,
			"has_technologies":     len(techs) > 0,
			"technologies":         techs,
		})
	}
	return map[string]any{
		"page_title":     "Experience",
		"nav_experience": true,
		"timeline":       timeline,
	}
}

func blogsVars(idx *blog.Index) map[string]any {
	posts := make([]map[string]any, 0, len(idx.Blogs))
	for _, p := range idx.Blogs {
		posts = append(posts, postVars(p))
	}

	counts := idx.Tags()
	cloud := make([]map[string]any, 0, len(counts))
	for _, tc := range counts {
		cloud = append(cloud, map[string]any{"tag": tc.Tag, "count": tc.Count})
	}

	return map[string]any{
		"page_title":     "Blog",
		"nav_blogs":      true,
		"index_fallback": idx.Fallback,
		"has_tag_cloud":  len(cloud) > 0,
		"tag_cloud":      cloud,
		"posts":          posts,
	}
}

// postVars sets every key the post templates read so that a missing
// value never resolves to an outer one.
func postVars(p blog.Post) map[string]any {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return map[string]any{
		"id":          p.ID,
		"url":         PostPath(p.ID),
		"title":       p.Title,
		"date":        template.FormatHumanDate(p.Date),
		"readTime":    p.ReadTime,
		"description": p.Description,
		"tags":        tags,
	}
}

// write stores data at rel under the output dir, leaving files whose
// content is already identical untouched unless Force is set.
func (b *Builder) write(rel string, data []byte) error {
	path := filepath.Join(b.stats.OutputDir, filepath.FromSlash(rel))
	if !b.Force {
		if existing, err := os.ReadFile(path); err == nil && bytes.Equal(existing, data) {
			b.stats.Unchanged++
			return nil
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", rel, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", rel, err)
	}
	if strings.HasSuffix(rel, ".html") {
		b.stats.Pages++
	}
	b.Logger.WithField("file", rel).Debug("wrote file")
	return nil
}

// copyAssets mirrors the assets dir into <out>/assets. A missing assets
// dir is not an error.
func (b *Builder) copyAssets() error {
	src := b.Config.AssetsDir
	if src == "" {
		return nil
	}
	if _, err := os.Stat(src); os.IsNotExist(err) {
		return nil
	}

	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != src && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read asset %s: %w", rel, err)
		}
		before := b.stats.Unchanged
		if err := b.write(filepath.ToSlash(filepath.Join("assets", rel)), data); err != nil {
			return err
		}
		if b.stats.Unchanged == before {
			b.stats.Assets++
		}
		return nil
	})
}
