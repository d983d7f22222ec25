package http

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/goliatone/go-site-cms/internal/content"
	"github.com/goliatone/go-site-cms/internal/links"
)

// PublicAPI serves active records to the site front end.
type PublicAPI struct {
	basePath string
	content  content.Service
	links    *links.Resolver
}

// PublicOption mutates the PublicAPI configuration.
type PublicOption func(*PublicAPI)

func NewPublicAPI(service content.Service, opts ...PublicOption) *PublicAPI {
	api := &PublicAPI{
		basePath: "/api",
		content:  service,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(api)
		}
	}
	return api
}

// WithPublicBasePath overrides the base path (defaults to "/api").
func WithPublicBasePath(path string) PublicOption {
	return func(api *PublicAPI) {
		if trimmed := strings.TrimSpace(path); trimmed != "" {
			api.basePath = trimmed
		}
	}
}

func WithPublicLinkResolver(resolver *links.Resolver) PublicOption {
	return func(api *PublicAPI) {
		api.links = resolver
	}
}

// Register attaches the public endpoints to the provided mux.
func (api *PublicAPI) Register(mux *http.ServeMux) error {
	if mux == nil {
		return fmt.Errorf("http: mux is required")
	}
	if api == nil || api.content == nil {
		return fmt.Errorf("http: public api requires a content service")
	}
	root := joinPath(api.basePath, "{type}")
	mux.HandleFunc("GET "+root, api.handleList)
	mux.HandleFunc("GET "+root+"/{slug}", api.handleGet)
	return nil
}

func (api *PublicAPI) handleList(w http.ResponseWriter, r *http.Request) {
	records, err := api.content.List(r.Context(), r.PathValue("type"), content.ListFilter{ActiveOnly: true})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, buildRecordResponses(api.links, records))
}

// handleGet hides inactive records behind a 404 so drafts are not
// discoverable by slug.
func (api *PublicAPI) handleGet(w http.ResponseWriter, r *http.Request) {
	contentType := r.PathValue("type")
	slugValue := r.PathValue("slug")
	record, err := api.content.GetBySlug(r.Context(), contentType, slugValue)
	if err != nil {
		writeError(w, err)
		return
	}
	if !record.IsActive {
		writeError(w, &content.NotFoundError{Resource: contentType, Key: slugValue})
		return
	}
	writeJSON(w, http.StatusOK, buildRecordResponse(api.links, record))
}
