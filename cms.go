package cms

import (
	"context"
	"net/http"

	"github.com/goliatone/go-site-cms/internal/content"
	"github.com/goliatone/go-site-cms/internal/di"
	"github.com/goliatone/go-site-cms/internal/links"
	"github.com/goliatone/go-site-cms/internal/markdown"
	"github.com/goliatone/go-site-cms/internal/uploads"
)

// ContentService exports the content store contract for consumers of the cms package.
type ContentService = content.Service

// UploadStore exports the upload backend contract.
type UploadStore = uploads.Store

// MarkdownService exports the markdown importer.
type MarkdownService = *markdown.Service

// Record exports the stored content record.
type Record = content.Record

// Request and filter types accepted by ContentService.
type (
	CreateRequest     = content.CreateRequest
	UpsertRequest     = content.UpsertRequest
	UpdateRequest     = content.UpdateRequest
	ChangeSlugRequest = content.ChangeSlugRequest
	ListFilter        = content.ListFilter
)

// Content type names understood by the store.
const (
	TypePage    = content.TypePage
	TypeProject = content.TypeProject
	TypePost    = content.TypePost
	TypeProduct = content.TypeProduct
	TypeJob     = content.TypeJob
)

// Error sentinels matched with errors.Is against ContentService results.
var (
	ErrValidation         = content.ErrValidation
	ErrConflict           = content.ErrConflict
	ErrNotFound           = content.ErrNotFound
	ErrStorageUnavailable = content.ErrStorageUnavailable
)

// Module represents the top level site CMS runtime façade.
type Module struct {
	container *di.Container
}

// New constructs a CMS module using the provided configuration and optional DI overrides.
func New(ctx context.Context, cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(ctx, cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Content returns the configured content service.
func (m *Module) Content() ContentService {
	return m.container.ContentService()
}

// Uploads returns the configured upload backend.
func (m *Module) Uploads() UploadStore {
	return m.container.UploadStore()
}

// Links returns the resolver that builds public record URLs.
func (m *Module) Links() *links.Resolver {
	return m.container.LinkResolver()
}

// Markdown returns the markdown importer, or an error when it is disabled.
func (m *Module) Markdown() (MarkdownService, error) {
	return m.container.MarkdownService()
}

// Handler returns the admin and public HTTP APIs on one mux.
func (m *Module) Handler() (http.Handler, error) {
	return m.container.Handler()
}

// Close releases resources opened by the module.
func (m *Module) Close() error {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Close()
}
