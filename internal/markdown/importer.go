package markdown

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/goliatone/go-site-cms/internal/content"
	"github.com/goliatone/go-site-cms/internal/logging"
	"github.com/goliatone/go-site-cms/pkg/interfaces"
	"github.com/goliatone/go-slug"
)

var (
	ErrContentStoreRequired = errors.New("markdown importer: content store is required")
	ErrSlugMissing          = errors.New("markdown importer: slug could not be determined")
)

// ContentStore is the subset of content.Service the importer writes through.
type ContentStore interface {
	GetBySlug(ctx context.Context, contentType, slug string) (*content.Record, error)
	List(ctx context.Context, contentType string, filter content.ListFilter) ([]*content.Record, error)
	Upsert(ctx context.Context, req content.UpsertRequest) (*content.Record, error)
	Delete(ctx context.Context, contentType, key string) error
}

// ImportOptions tune a single import run.
type ImportOptions struct {
	// ContentType selects the target type. Defaults to post.
	ContentType string
	// DryRun reports what would change without writing.
	DryRun bool
}

// SyncOptions extend ImportOptions with orphan removal.
type SyncOptions struct {
	ImportOptions
	// DeleteOrphaned removes records whose slug has no matching document.
	DeleteOrphaned bool
}

// ImportResult lists the slugs touched by an import.
type ImportResult struct {
	Created []string
	Updated []string
	Skipped []string
	Errors  []error
}

// SyncResult is an ImportResult plus the slugs removed as orphans.
type SyncResult struct {
	ImportResult
	Deleted []string
}

// ImporterConfig encapsulates dependencies required to persist documents.
type ImporterConfig struct {
	Content ContentStore
	Parser  Parser
	Logger  interfaces.Logger
}

// Importer converts Documents into content records.
type Importer struct {
	content ContentStore
	parser  Parser
	logger  interfaces.Logger
}

func NewImporter(cfg ImporterConfig) *Importer {
	parser := cfg.Parser
	if parser == nil {
		parser = NewGoldmarkParser(ParseOptions{})
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Importer{
		content: cfg.Content,
		parser:  parser,
		logger:  logger,
	}
}

// ImportDocuments upserts every document. A failing document is recorded in
// the result and does not stop the run; the first failure is also returned.
func (i *Importer) ImportDocuments(ctx context.Context, docs []*Document, opts ImportOptions) (*ImportResult, error) {
	if i.content == nil {
		return nil, ErrContentStoreRequired
	}
	result := &ImportResult{}
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			result.Errors = append(result.Errors, err)
			break
		}
		if err := i.importDocument(ctx, doc, opts, result); err != nil {
			i.logger.Warn("markdown.import.document_failed", "path", doc.Path, "error", err)
			result.Errors = append(result.Errors, err)
		}
	}
	return result, firstError(result.Errors)
}

// SyncDocuments imports docs and optionally deletes records of the same type
// that no document produced.
func (i *Importer) SyncDocuments(ctx context.Context, docs []*Document, opts SyncOptions) (*SyncResult, error) {
	imported, err := i.ImportDocuments(ctx, docs, opts.ImportOptions)
	if imported == nil {
		return nil, err
	}
	result := &SyncResult{ImportResult: *imported}
	if !opts.DeleteOrphaned {
		return result, err
	}

	seen := make(map[string]struct{}, len(docs))
	for _, doc := range docs {
		if slugValue, slugErr := documentSlug(doc); slugErr == nil {
			seen[slugValue] = struct{}{}
		}
	}

	contentType := targetType(opts.ImportOptions)
	existing, listErr := i.content.List(ctx, contentType, content.ListFilter{})
	if listErr != nil {
		result.Errors = append(result.Errors, fmt.Errorf("markdown importer: list %s: %w", contentType, listErr))
		return result, firstError(result.Errors)
	}
	for _, record := range existing {
		if _, ok := seen[record.Slug]; ok {
			continue
		}
		if !opts.DryRun {
			if delErr := i.content.Delete(ctx, contentType, record.ID.String()); delErr != nil {
				result.Errors = append(result.Errors, fmt.Errorf("markdown importer: delete %s: %w", record.Slug, delErr))
				continue
			}
		}
		result.Deleted = append(result.Deleted, record.Slug)
	}
	return result, firstError(result.Errors)
}

func (i *Importer) importDocument(ctx context.Context, doc *Document, opts ImportOptions, result *ImportResult) error {
	if doc == nil {
		return errors.New("markdown importer: nil document")
	}
	slugValue, err := documentSlug(doc)
	if err != nil {
		return fmt.Errorf("%s: %w", doc.Path, err)
	}
	html, err := i.parser.Parse(doc.Body)
	if err != nil {
		return fmt.Errorf("%s: %w", doc.Path, err)
	}

	contentType := targetType(opts)
	fields := buildPostFields(doc, slugValue, html)
	active := !doc.FrontMatter.Draft

	existing, err := i.content.GetBySlug(ctx, contentType, slugValue)
	if err != nil && !errors.Is(err, content.ErrNotFound) {
		return fmt.Errorf("markdown importer: lookup %s: %w", slugValue, err)
	}
	if existing != nil && existing.IsActive == active && sameFields(existing.Fields, fields) {
		result.Skipped = append(result.Skipped, slugValue)
		return nil
	}
	if opts.DryRun {
		if existing == nil {
			result.Created = append(result.Created, slugValue)
		} else {
			result.Updated = append(result.Updated, slugValue)
		}
		return nil
	}

	record, err := i.content.Upsert(ctx, content.UpsertRequest{
		ContentType: contentType,
		Slug:        slugValue,
		IsActive:    &active,
		Fields:      fields,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", doc.Path, err)
	}
	if existing == nil {
		result.Created = append(result.Created, record.Slug)
	} else {
		result.Updated = append(result.Updated, record.Slug)
	}
	logging.WithRecord(i.logger, contentType, record.Slug).Debug("markdown.import.document", "path", doc.Path, "active", active)
	return nil
}

// documentSlug returns the frontmatter slug, or one derived from the title and
// then from the file name.
func documentSlug(doc *Document) (string, error) {
	if value := strings.TrimSpace(doc.FrontMatter.Slug); value != "" {
		return value, nil
	}
	candidates := []string{
		doc.FrontMatter.Title,
		strings.TrimSuffix(path.Base(doc.Path), path.Ext(doc.Path)),
	}
	for _, candidate := range candidates {
		if strings.TrimSpace(candidate) == "" {
			continue
		}
		if normalized, err := slug.Normalize(candidate); err == nil && normalized != "" {
			return normalized, nil
		}
	}
	return "", ErrSlugMissing
}

func buildPostFields(doc *Document, slugValue string, html []byte) map[string]any {
	meta := doc.FrontMatter
	title := strings.TrimSpace(meta.Title)
	if title == "" {
		title = fallbackTitle(slugValue)
	}
	excerpt := strings.TrimSpace(meta.Excerpt)
	if excerpt == "" {
		excerpt = firstParagraph(doc.Body)
	}
	fields := map[string]any{
		"title":   title,
		"excerpt": excerpt,
		"body":    string(bytes.TrimSpace(html)),
	}
	if value := strings.TrimSpace(meta.Author); value != "" {
		fields["author"] = value
	}
	if value := strings.TrimSpace(meta.CoverImage); value != "" {
		fields["coverImage"] = value
	}
	if len(meta.Tags) > 0 {
		tags := make([]any, 0, len(meta.Tags))
		for _, tag := range meta.Tags {
			if tag = strings.TrimSpace(tag); tag != "" {
				tags = append(tags, tag)
			}
		}
		fields["tags"] = tags
	}
	if !meta.Date.IsZero() {
		fields["publishedAt"] = meta.Date.UTC().Format(time.RFC3339)
	}
	return fields
}

func fallbackTitle(slugValue string) string {
	words := strings.Fields(strings.ReplaceAll(slugValue, "-", " "))
	for idx, word := range words {
		first, size := utf8.DecodeRuneInString(word)
		words[idx] = string(unicode.ToUpper(first)) + word[size:]
	}
	return strings.Join(words, " ")
}

// sameFields compares two field maps by their JSON encoding, which sorts keys
// and erases the []string versus []any distinction.
func sameFields(a, b map[string]any) bool {
	left, err := json.Marshal(a)
	if err != nil {
		return false
	}
	right, err := json.Marshal(b)
	if err != nil {
		return false
	}
	return bytes.Equal(left, right)
}

func targetType(opts ImportOptions) string {
	if value := strings.TrimSpace(opts.ContentType); value != "" {
		return value
	}
	return content.TypePost
}

func firstError(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	return errs[0]
}
