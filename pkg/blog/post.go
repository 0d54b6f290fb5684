// Package blog loads the blog index and post content for the site.
package blog

import (
	"errors"
	"sort"
	"strings"

	"github.com/emirpasic/gods/maps/treemap"
)

// ErrPostNotFound is returned when an id is not in the index.
var ErrPostNotFound = errors.New("post not found")

// Post is one record of blogs/index.json.
type Post struct {
	ID          string   `json:"id" yaml:"id"`
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description" yaml:"description"`
	Date        string   `json:"date" yaml:"date"`
	Tags        []string `json:"tags" yaml:"tags"`
	Filename    string   `json:"filename" yaml:"filename"`
	ReadTime    string   `json:"readTime,omitempty" yaml:"read_time,omitempty"`
}

// HasTag reports whether the post carries tag, ignoring case.
func (p Post) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// Index is the blog index document.
type Index struct {
	Blogs []Post `json:"blogs"`

	// Fallback is set when the index came from built-in data because the
	// real index could not be loaded.
	Fallback bool `json:"-"`
}

// Find returns the post with the given id.
func (idx *Index) Find(id string) (Post, error) {
	for _, p := range idx.Blogs {
		if p.ID == id {
			return p, nil
		}
	}
	return Post{}, ErrPostNotFound
}

// FilterByTag returns the posts carrying tag. An empty tag returns all.
func (idx *Index) FilterByTag(tag string) []Post {
	if tag == "" {
		return idx.Blogs
	}
	var out []Post
	for _, p := range idx.Blogs {
		if p.HasTag(tag) {
			out = append(out, p)
		}
	}
	return out
}

// TagCount is one entry of the tag cloud.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// Tags returns every tag with its post count, sorted by name.
func (idx *Index) Tags() []TagCount {
	m := treemap.NewWithStringComparator()
	for _, p := range idx.Blogs {
		for _, t := range p.Tags {
			n := 0
			if v, ok := m.Get(t); ok {
				n = v.(int)
			}
			m.Put(t, n+1)
		}
	}

	tags := make([]TagCount, 0, m.Size())
	it := m.Iterator()
	for it.Next() {
		tags = append(tags, TagCount{Tag: it.Key().(string), Count: it.Value().(int)})
	}
	return tags
}

// SortNewestFirst orders posts by date, newest first. Dates are ISO 8601
// so string order is date order.
func (idx *Index) SortNewestFirst() {
	sort.SliceStable(idx.Blogs, func(i, j int) bool {
		return idx.Blogs[i].Date > idx.Blogs[j].Date
	})
}
