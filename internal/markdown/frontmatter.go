package markdown

import (
	"bytes"
	"fmt"
	"time"

	"github.com/adrg/frontmatter"
)

// FrontMatter is the metadata block at the top of a post.
type FrontMatter struct {
	Title      string         `yaml:"title"`
	Slug       string         `yaml:"slug"`
	Excerpt    string         `yaml:"excerpt"`
	Author     string         `yaml:"author"`
	Tags       []string       `yaml:"tags"`
	Date       time.Time      `yaml:"date"`
	Draft      bool           `yaml:"draft"`
	CoverImage string         `yaml:"coverImage"`
	Custom     map[string]any `yaml:",inline"`
}

// Document is a parsed Markdown file.
type Document struct {
	Path         string
	FrontMatter  FrontMatter
	Body         []byte
	Checksum     []byte
	LastModified time.Time
}

// ParseFrontMatter splits source into its frontmatter and Markdown body.
func ParseFrontMatter(source []byte) (FrontMatter, []byte, error) {
	var meta FrontMatter
	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return FrontMatter{}, nil, fmt.Errorf("parse frontmatter: %w", err)
	}
	if meta.Custom == nil {
		meta.Custom = map[string]any{}
	}
	// "summary" is accepted as an alias for older posts.
	if meta.Excerpt == "" {
		if summary, ok := meta.Custom["summary"].(string); ok {
			meta.Excerpt = summary
			delete(meta.Custom, "summary")
		}
	}
	return meta, body, nil
}

// BuildDocument parses source into a Document. The body is left as Markdown;
// rendering happens on import.
func BuildDocument(path string, source []byte, modified time.Time) (*Document, error) {
	meta, body, err := ParseFrontMatter(source)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &Document{
		Path:         path,
		FrontMatter:  meta,
		Body:         body,
		LastModified: modified,
	}, nil
}
