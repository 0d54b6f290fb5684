package blog

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Frontmatter is the YAML header of a post's markdown file.
type Frontmatter struct {
	ID          string  `yaml:"id"`
	Title       string  `yaml:"title"`
	Description string  `yaml:"description"`
	Date        string  `yaml:"date"`
	Tags        TagList `yaml:"tags"`
	ReadTime    string  `yaml:"read_time"`
}

// TagList accepts either a YAML sequence or a comma separated string.
type TagList []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (t *TagList) UnmarshalYAML(n *yaml.Node) error {
	switch n.Kind {
	case yaml.ScalarNode:
		var tags []string
		for _, s := range strings.Split(n.Value, ",") {
			if s = strings.TrimSpace(s); s != "" {
				tags = append(tags, s)
			}
		}
		*t = tags
		return nil
	case yaml.SequenceNode:
		var tags []string
		if err := n.Decode(&tags); err != nil {
			return err
		}
		*t = tags
		return nil
	}
	return fmt.Errorf("line %d: tags must be a list or a string", n.Line)
}

// SplitFrontmatter separates a leading "---" delimited YAML block from the
// markdown body. Content without frontmatter is returned unchanged.
func SplitFrontmatter(content string) (header, body string) {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	if !strings.HasPrefix(content, "---\n") {
		return "", content
	}
	rest := content[4:]
	end := strings.Index(rest, "\n---")
	if end < 0 {
		return "", content
	}
	after := rest[end+4:]
	if after != "" && after[0] != '\n' {
		return "", content
	}
	return rest[:end], strings.TrimPrefix(after, "\n")
}

// ParseFrontmatter decodes the frontmatter of content and returns the body.
func ParseFrontmatter(content string) (Frontmatter, string, error) {
	var fm Frontmatter
	header, body := SplitFrontmatter(content)
	if header == "" {
		return fm, body, nil
	}
	if err := yaml.Unmarshal([]byte(header), &fm); err != nil {
		return fm, body, fmt.Errorf("invalid frontmatter: %w", err)
	}
	return fm, body, nil
}
