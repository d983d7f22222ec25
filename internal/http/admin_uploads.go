package http

import (
	"errors"
	"net/http"

	"github.com/goliatone/go-site-cms/internal/uploads"
)

const uploadField = "file"

type uploadResponse struct {
	Path string `json:"path"`
}

func (api *AdminAPI) registerUploadRoutes(mux *http.ServeMux, base string) {
	mux.HandleFunc("POST "+joinPath(base, "uploads"), api.handleUpload)
}

// handleUpload stores the multipart "file" part and returns the opaque path
// the store assigned to it.
func (api *AdminAPI) handleUpload(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.uploads == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, api.maxUploadBytes)
	file, header, err := r.FormFile(uploadField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, uploads.ErrTooLarge)
			return
		}
		badRequest(w, "multipart field \"file\" is required")
		return
	}
	defer file.Close()

	path, err := api.uploads.Put(r.Context(), header.Filename, file)
	if err != nil {
		api.logger.Warn("admin.upload.failed", "filename", header.Filename, "error", err)
		writeError(w, err)
		return
	}
	api.logger.Info("admin.upload.stored", "filename", header.Filename, "path", path)
	writeJSON(w, http.StatusCreated, uploadResponse{Path: path})
}
