package http

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/goliatone/go-site-cms/internal/content"
	"github.com/goliatone/go-site-cms/internal/links"
	"github.com/goliatone/go-site-cms/internal/logging"
	"github.com/goliatone/go-site-cms/internal/uploads"
	"github.com/goliatone/go-site-cms/pkg/interfaces"
)

const defaultMaxUploadBytes = 10 << 20

// AdminAPI registers the administrative record and upload endpoints.
type AdminAPI struct {
	basePath       string
	content        content.Service
	uploads        uploads.Store
	links          *links.Resolver
	logger         interfaces.Logger
	maxUploadBytes int64
}

// AdminOption mutates the AdminAPI configuration.
type AdminOption func(*AdminAPI)

// NewAdminAPI constructs an AdminAPI instance.
func NewAdminAPI(opts ...AdminOption) *AdminAPI {
	api := &AdminAPI{
		basePath:       "/admin/api",
		logger:         logging.NoOp(),
		maxUploadBytes: defaultMaxUploadBytes,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(api)
		}
	}
	return api
}

// WithBasePath overrides the base API path (defaults to "/admin/api").
func WithBasePath(path string) AdminOption {
	return func(api *AdminAPI) {
		if trimmed := strings.TrimSpace(path); trimmed != "" {
			api.basePath = trimmed
		}
	}
}

// WithContentService wires the content store.
func WithContentService(service content.Service) AdminOption {
	return func(api *AdminAPI) {
		api.content = service
	}
}

// WithUploadStore wires the upload backend.
func WithUploadStore(store uploads.Store) AdminOption {
	return func(api *AdminAPI) {
		api.uploads = store
	}
}

// WithLinkResolver adds public URLs to record responses.
func WithLinkResolver(resolver *links.Resolver) AdminOption {
	return func(api *AdminAPI) {
		api.links = resolver
	}
}

func WithAdminLogger(logger interfaces.Logger) AdminOption {
	return func(api *AdminAPI) {
		if logger != nil {
			api.logger = logger
		}
	}
}

// WithMaxUploadBytes caps the multipart request size of the upload endpoint.
func WithMaxUploadBytes(limit int64) AdminOption {
	return func(api *AdminAPI) {
		if limit > 0 {
			api.maxUploadBytes = limit
		}
	}
}

// Register attaches the admin endpoints to the provided mux.
func (api *AdminAPI) Register(mux *http.ServeMux) error {
	if mux == nil {
		return fmt.Errorf("http: mux is required")
	}
	if api == nil {
		return fmt.Errorf("http: admin api is nil")
	}

	base := joinPath(api.basePath, "")

	api.registerTypeRoutes(mux, base)
	api.registerUploadRoutes(mux, base)
	api.registerRecordRoutes(mux, base)

	return nil
}
