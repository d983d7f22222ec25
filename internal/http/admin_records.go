package http

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/goliatone/go-site-cms/internal/content"
	"github.com/goliatone/go-site-cms/internal/logging"
	"github.com/google/uuid"
)

type typeResponse struct {
	Name           string   `json:"name"`
	Label          string   `json:"label"`
	RequiredFields []string `json:"required_fields"`
	Sections       []string `json:"sections"`
	Schema         any      `json:"schema,omitempty"`
}

func (api *AdminAPI) registerTypeRoutes(mux *http.ServeMux, base string) {
	mux.HandleFunc("GET "+joinPath(base, "types"), api.handleTypeList)
}

func (api *AdminAPI) registerRecordRoutes(mux *http.ServeMux, base string) {
	root := joinPath(base, "{type}")
	mux.HandleFunc("GET "+root, api.handleRecordList)
	mux.HandleFunc("POST "+root, api.handleRecordCreate)
	mux.HandleFunc("PUT "+root, api.handleRecordUpsert)
	mux.HandleFunc("GET "+root+"/{key}", api.handleRecordGet)
	mux.HandleFunc("PUT "+root+"/{key}", api.handleRecordUpdate)
	mux.HandleFunc("DELETE "+root+"/{key}", api.handleRecordDelete)
	mux.HandleFunc("PUT "+root+"/{key}/slug", api.handleRecordChangeSlug)
}

func (api *AdminAPI) available(w http.ResponseWriter) bool {
	if api == nil || api.content == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return false
	}
	return true
}

func (api *AdminAPI) handleTypeList(w http.ResponseWriter, r *http.Request) {
	if !api.available(w) {
		return
	}
	defs := api.content.Types()
	out := make([]typeResponse, 0, len(defs))
	for _, def := range defs {
		resp := typeResponse{
			Name:           def.Name,
			Label:          def.Label,
			RequiredFields: def.RequiredFields,
			Sections:       def.Sections,
		}
		if def.FieldSchema != nil {
			resp.Schema = def.FieldSchema.Source()
		}
		out = append(out, resp)
	}
	writeJSON(w, http.StatusOK, out)
}

func (api *AdminAPI) handleRecordList(w http.ResponseWriter, r *http.Request) {
	if !api.available(w) {
		return
	}
	filter := content.ListFilter{
		ActiveOnly: parseBoolQuery(r.URL.Query().Get("active"), false),
	}
	records, err := api.content.List(r.Context(), r.PathValue("type"), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, buildRecordResponses(api.links, records))
}

func (api *AdminAPI) handleRecordGet(w http.ResponseWriter, r *http.Request) {
	if !api.available(w) {
		return
	}
	record, err := api.content.GetByKey(r.Context(), r.PathValue("type"), r.PathValue("key"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, buildRecordResponse(api.links, record))
}

func (api *AdminAPI) handleRecordCreate(w http.ResponseWriter, r *http.Request) {
	if !api.available(w) {
		return
	}
	payload, id, ok := decodeRecordPayload(w, r)
	if !ok {
		return
	}
	record, err := api.content.Create(r.Context(), content.CreateRequest{
		ContentType: r.PathValue("type"),
		Slug:        payload.Slug,
		ID:          id,
		ExternalID:  payload.ExternalID,
		IsActive:    payload.IsActive,
		Fields:      payload.Fields,
		Sections:    payload.Sections,
	})
	if err != nil {
		api.logFailure(r, "admin.record.create_failed", payload.Slug, err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, buildRecordResponse(api.links, record))
}

func (api *AdminAPI) handleRecordUpsert(w http.ResponseWriter, r *http.Request) {
	if !api.available(w) {
		return
	}
	payload, id, ok := decodeRecordPayload(w, r)
	if !ok {
		return
	}
	record, err := api.content.Upsert(r.Context(), content.UpsertRequest{
		ContentType: r.PathValue("type"),
		Slug:        payload.Slug,
		ID:          id,
		ExternalID:  payload.ExternalID,
		IsActive:    payload.IsActive,
		Fields:      payload.Fields,
		Sections:    payload.Sections,
	})
	if err != nil {
		api.logFailure(r, "admin.record.upsert_failed", payload.Slug, err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, buildRecordResponse(api.links, record))
}

// handleRecordUpdate accepts an id or a slug in the path and replaces the
// record's fields and sections.
func (api *AdminAPI) handleRecordUpdate(w http.ResponseWriter, r *http.Request) {
	if !api.available(w) {
		return
	}
	contentType := r.PathValue("type")
	payload, _, ok := decodeRecordPayload(w, r)
	if !ok {
		return
	}
	existing, err := api.content.GetByKey(r.Context(), contentType, r.PathValue("key"))
	if err != nil {
		writeError(w, err)
		return
	}
	record, err := api.content.Update(r.Context(), content.UpdateRequest{
		ContentType: contentType,
		ID:          existing.ID,
		Slug:        payload.Slug,
		IsActive:    payload.IsActive,
		Fields:      payload.Fields,
		Sections:    payload.Sections,
	})
	if err != nil {
		api.logFailure(r, "admin.record.update_failed", existing.Slug, err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, buildRecordResponse(api.links, record))
}

func (api *AdminAPI) handleRecordChangeSlug(w http.ResponseWriter, r *http.Request) {
	if !api.available(w) {
		return
	}
	id, err := parseUUID(r.PathValue("key"))
	if err != nil {
		badRequest(w, "invalid id")
		return
	}
	var payload slugPayload
	if err := decodeJSON(r, &payload); err != nil {
		badRequest(w, err.Error())
		return
	}
	record, err := api.content.ChangeSlug(r.Context(), content.ChangeSlugRequest{
		ContentType: r.PathValue("type"),
		ID:          id,
		Slug:        payload.Slug,
	})
	if err != nil {
		api.logFailure(r, "admin.record.change_slug_failed", payload.Slug, err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, buildRecordResponse(api.links, record))
}

func (api *AdminAPI) handleRecordDelete(w http.ResponseWriter, r *http.Request) {
	if !api.available(w) {
		return
	}
	if err := api.content.Delete(r.Context(), r.PathValue("type"), r.PathValue("key")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func decodeRecordPayload(w http.ResponseWriter, r *http.Request) (recordPayload, uuid.UUID, bool) {
	var payload recordPayload
	if err := decodeJSON(r, &payload); err != nil {
		if errors.Is(err, io.EOF) {
			badRequest(w, "request body is required")
		} else {
			badRequest(w, err.Error())
		}
		return payload, uuid.Nil, false
	}
	id := uuid.Nil
	if strings.TrimSpace(payload.ID) != "" {
		parsed, err := parseUUID(payload.ID)
		if err != nil {
			badRequest(w, "invalid id")
			return payload, uuid.Nil, false
		}
		id = parsed
	}
	return payload, id, true
}

func (api *AdminAPI) logFailure(r *http.Request, event, key string, err error) {
	kind := content.KindOf(err)
	logger := logging.WithRecord(api.logger, r.PathValue("type"), key)
	if kind == content.KindStorageUnavailable {
		logger.Error(event, "error", err)
		return
	}
	logger.Debug(event, "error", err, "kind", string(kind))
}
