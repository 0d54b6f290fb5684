package blog

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/folio-site/folio/pkg/render"
)

// IndexFile is the name of the index inside the blogs directory.
const IndexFile = "index.json"

// RebuildOptions configures Rebuild.
type RebuildOptions struct {
	// Engine renders bodies for read time and description. Defaults to
	// the site renderer.
	Engine render.Engine
	// DryRun computes the index without writing it.
	DryRun bool
}

// RebuildResult describes a rebuilt index.
type RebuildResult struct {
	Path    string   `json:"path"`
	Posts   int      `json:"posts"`
	Skipped []string `json:"skipped,omitempty"`
	Index   *Index   `json:"-"`
}

// Rebuild scans dir for markdown posts and writes dir/index.json.
// Files without a title are skipped.
func Rebuild(dir string, opts RebuildOptions) (*RebuildResult, error) {
	engine := opts.Engine
	if engine == nil {
		engine = render.New()
	}

	result := &RebuildResult{Path: filepath.Join(dir, IndexFile)}
	idx := &Index{Blogs: []Post{}}
	seen := make(map[string]int)

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".md") {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		post, ok, err := buildPost(path, rel, engine)
		if err != nil {
			return err
		}
		if !ok {
			result.Skipped = append(result.Skipped, rel)
			return nil
		}

		seen[post.ID]++
		if n := seen[post.ID]; n > 1 {
			post.ID = fmt.Sprintf("%s-%d", post.ID, n)
		}
		idx.Blogs = append(idx.Blogs, post)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
	}

	idx.SortNewestFirst()
	result.Posts = len(idx.Blogs)
	result.Index = idx

	if opts.DryRun {
		return result, nil
	}

	data, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode index: %w", err)
	}
	if err := os.WriteFile(result.Path, append(data, '\n'), 0644); err != nil {
		return nil, fmt.Errorf("failed to write index: %w", err)
	}
	return result, nil
}

// buildPost creates the index record for one file. ok is false when the
// file has no title.
func buildPost(path, rel string, engine render.Engine) (Post, bool, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Post{}, false, err
	}
	fm, body, err := ParseFrontmatter(string(content))
	if err != nil {
		return Post{}, false, fmt.Errorf("%s: %w", rel, err)
	}
	if strings.TrimSpace(fm.Title) == "" {
		return Post{}, false, nil
	}

	post := Post{
		ID:          fm.ID,
		Title:       fm.Title,
		Description: fm.Description,
		Date:        fm.Date,
		Tags:        []string(fm.Tags),
		Filename:    rel,
		ReadTime:    fm.ReadTime,
	}
	if post.ID == "" {
		post.ID = Slug(strings.TrimSuffix(filepath.Base(rel), ".md"))
	}
	if post.Tags == nil {
		post.Tags = []string{}
	}
	if post.Date == "" {
		if info, err := os.Stat(path); err == nil {
			post.Date = info.ModTime().UTC().Format("2006-01-02")
		}
	}

	if post.ReadTime == "" || post.Description == "" {
		html, err := engine.Convert(body)
		if err != nil {
			return Post{}, false, fmt.Errorf("%s: %w", rel, err)
		}
		sum, err := render.Outline(html)
		if err != nil {
			return Post{}, false, fmt.Errorf("%s: %w", rel, err)
		}
		if post.ReadTime == "" {
			post.ReadTime = sum.ReadTime
		}
		if post.Description == "" {
			post.Description = excerpt(sum.Text, 160)
		}
	}
	return post, true, nil
}

var (
	slugDash   = regexp.MustCompile(`[^a-z0-9]+`)
	stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// Slug turns a title or file name into a URL id: accents are folded, case is
// lowered, and runs of other characters become a single dash.
func Slug(s string) string {
	folded, _, err := transform.String(stripMarks, s)
	if err != nil {
		folded = s
	}
	return strings.Trim(slugDash.ReplaceAllString(strings.ToLower(folded), "-"), "-")
}

// excerpt cuts text to at most n runes on a word boundary.
func excerpt(text string, n int) string {
	text = strings.Join(strings.Fields(text), " ")
	r := []rune(text)
	if len(r) <= n {
		return text
	}
	cut := string(r[:n])
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, ",.;:") + "…"
}
