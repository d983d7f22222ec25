// Package markdown imports blog posts written as Markdown files with YAML
// frontmatter into the content store. Documents are discovered on disk,
// rendered to HTML with goldmark and upserted as post records keyed by slug.
package markdown
