package blog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/folio-site/folio/pkg/logging"
	"github.com/folio-site/folio/pkg/render"
)

// maxPostSize bounds how much of a single markdown file is read.
const maxPostSize = 4 << 20

// Provider loads the blog index and renders posts. Loading never fails
// for missing or broken files: the index falls back to built-in data and
// a post falls back to a placeholder fragment.
type Provider struct {
	Source Source
	Engine render.Engine
	Logger logrus.FieldLogger
}

// NewProvider creates a provider. A nil engine uses the site renderer and a
// nil logger discards output.
func NewProvider(src Source, engine render.Engine, logger logrus.FieldLogger) *Provider {
	if engine == nil {
		engine = render.New()
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Provider{Source: src, Engine: engine, Logger: logger}
}

// Article is a post together with its rendered content.
type Article struct {
	Post
	HTML        string `json:"html"`
	Placeholder bool   `json:"placeholder,omitempty"`
}

// LoadIndex reads index.json. On any failure it logs a warning and returns
// the built-in index. The only error is a cancelled context.
func (p *Provider) LoadIndex(ctx context.Context) (*Index, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	idx, err := p.readIndex(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		p.Logger.WithError(err).Warn("loading blog index from built-in data")
		idx = FallbackIndex()
	}
	idx.SortNewestFirst()
	return idx, nil
}

func (p *Provider) readIndex(ctx context.Context) (*Index, error) {
	if p.Source == nil {
		return nil, fmt.Errorf("no blog source configured")
	}
	rc, err := p.Source.Open(ctx, IndexFile)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var idx Index
	if err := json.NewDecoder(rc).Decode(&idx); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", IndexFile, err)
	}
	if idx.Blogs == nil {
		idx.Blogs = []Post{}
	}
	return &idx, nil
}

// LoadMarkdown returns the body of a post with its frontmatter removed.
func (p *Provider) LoadMarkdown(ctx context.Context, filename string) (string, error) {
	if p.Source == nil {
		return "", fmt.Errorf("no blog source configured")
	}
	rc, err := p.Source.Open(ctx, filename)
	if err != nil {
		return "", err
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, maxPostSize))
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", filename, err)
	}
	_, body := SplitFrontmatter(string(data))
	return body, nil
}

// LoadContent renders a post's markdown. A post that cannot be fetched
// renders as the placeholder fragment. Errors are returned only for a
// cancelled context or a failing engine.
func (p *Provider) LoadContent(ctx context.Context, filename string) (string, error) {
	html, _, err := p.loadContent(ctx, filename)
	return html, err
}

func (p *Provider) loadContent(ctx context.Context, filename string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	md, err := p.LoadMarkdown(ctx, filename)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", false, ctxErr
		}
		p.Logger.WithError(err).WithField("file", filename).Warn("blog post unavailable")
		return Placeholder(filename), true, nil
	}
	html, err := p.Engine.Convert(md)
	if err != nil {
		return "", false, fmt.Errorf("failed to render %s: %w", filename, err)
	}
	return html, false, nil
}

// Open looks up a post by id and renders it.
func (p *Provider) Open(ctx context.Context, id string) (*Article, error) {
	idx, err := p.LoadIndex(ctx)
	if err != nil {
		return nil, err
	}
	post, err := idx.Find(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", err, id)
	}
	return p.Article(ctx, post)
}

// Article renders a post taken from the index.
func (p *Provider) Article(ctx context.Context, post Post) (*Article, error) {
	html, placeholder, err := p.loadContent(ctx, post.Filename)
	if err != nil {
		return nil, err
	}
	return &Article{Post: post, HTML: html, Placeholder: placeholder}, nil
}
