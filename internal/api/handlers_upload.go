package api

import (
	"io"
	"net/http"
	"strings"

	"github.com/Jonniie/memoirly/internal/api/respond"
	"github.com/Jonniie/memoirly/internal/model"
	"github.com/Jonniie/memoirly/internal/services"
)

// memory for parsed multipart headers before spilling to disk
const multipartMemoryLimit = 32 << 20

// UploadHandler accepts multipart batches and feeds them to the upload
// pipeline one file at a time.
type UploadHandler struct {
	svc *services.UploadService
}

func NewUploadHandler(svc *services.UploadService) *UploadHandler { return &UploadHandler{svc: svc} }

// UploadBatch POST /api/media/batch
// Multipart form with one or more "files" parts plus optional shared
// attribute fields. The response carries one result per file in input order;
// a failed file never blocks the others.
func (h *UploadHandler) UploadBatch(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(r)
	if !ok {
		respond.WriteUnauthorized(w, "owner identity missing")
		return
	}
	if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
		respond.WriteBadRequest(w, "invalid multipart form: "+err.Error())
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	headers := r.MultipartForm.File["files"]
	items := make([]services.UploadItem, 0, len(headers))
	for _, fh := range headers {
		fh := fh
		items = append(items, services.UploadItem{
			Name:        fh.Filename,
			Size:        fh.Size,
			ContentType: fh.Header.Get("Content-Type"),
			Open:        func() (io.ReadCloser, error) { return fh.Open() },
		})
	}

	attrs := model.MediaAttributes{
		Note:     r.FormValue("note"),
		Emotion:  r.FormValue("emotion"),
		Location: r.FormValue("location"),
		IsPublic: r.FormValue("isPublic") == "true",
	}
	if raw := r.FormValue("tags"); raw != "" {
		for _, t := range strings.Split(raw, ",") {
			if t = strings.TrimSpace(t); t != "" {
				attrs.Tags = append(attrs.Tags, t)
			}
		}
	}

	results, err := h.svc.UploadBatch(r.Context(), owner, items, attrs, nil)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"results": results, "count": len(results)})
}
