package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Jonniie/memoirly/internal/api/respond"
	"github.com/Jonniie/memoirly/internal/api/validate"
	"github.com/Jonniie/memoirly/internal/model"
	"github.com/Jonniie/memoirly/internal/services"
	"github.com/Jonniie/memoirly/internal/view"
)

// MediaHandler is the HTTP transport over MediaService.
type MediaHandler struct {
	svc  *services.MediaService
	tags *services.TagSuggester
}

func NewMediaHandler(svc *services.MediaService, tags *services.TagSuggester) *MediaHandler {
	return &MediaHandler{svc: svc, tags: tags}
}

type createMediaRequest struct {
	URL string `json:"url"`
	model.MediaAttributes
}

// CreateMedia POST /api/media
// Records a memory for an already-hosted asset. Re-posting a URL returns the
// existing record with 200 instead of creating a second one.
func (h *MediaHandler) CreateMedia(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(r)
	if !ok {
		respond.WriteUnauthorized(w, "owner identity missing")
		return
	}
	var req createMediaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	if err := validate.NonEmpty("url", req.URL); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	if req.Title != "" {
		if err := validate.Title(req.Title); err != nil {
			respond.WriteBadRequest(w, err.Error())
			return
		}
	}
	if err := validate.Note(req.Note); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	if err := validate.Tags(req.Tags); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}

	m, isDup, err := h.svc.EnsureMediaRecord(r.Context(), owner, req.URL, req.MediaAttributes)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	status := http.StatusCreated
	if isDup {
		status = http.StatusOK
	}
	respond.WriteJSON(w, status, map[string]interface{}{"memory": m, "duplicate": isDup})
}

// ListMedia GET /api/media
// Returns the owner's records newest first, narrowed by the dashboard's
// filter query parameters.
func (h *MediaHandler) ListMedia(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(r)
	if !ok {
		respond.WriteUnauthorized(w, "owner identity missing")
		return
	}
	spec, err := filterSpecFromQuery(r.URL.Query())
	if err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	all, err := h.svc.ListMedia(r.Context(), model.ListMediaRequest{OwnerID: owner})
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	memories := view.FilterMemories(all, spec)
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"memories": memories,
		"count":    len(memories),
	})
}

// GetMedia GET /api/media/{mediaId}
func (h *MediaHandler) GetMedia(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(r)
	if !ok {
		respond.WriteUnauthorized(w, "owner identity missing")
		return
	}
	m, err := h.svc.GetMedia(r.Context(), owner, mux.Vars(r)["mediaId"])
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, m)
}

// UpdateMedia PATCH /api/media/{mediaId}
// Nil fields stay unchanged.
func (h *MediaHandler) UpdateMedia(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(r)
	if !ok {
		respond.WriteUnauthorized(w, "owner identity missing")
		return
	}
	var upd model.MediaUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	if upd.Title != nil {
		if err := validate.Title(*upd.Title); err != nil {
			respond.WriteBadRequest(w, err.Error())
			return
		}
	}
	if err := validate.MaxLen("note", upd.Note, 2000); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	if upd.Tags != nil {
		if err := validate.Tags(*upd.Tags); err != nil {
			respond.WriteBadRequest(w, err.Error())
			return
		}
	}
	m, err := h.svc.UpdateMedia(r.Context(), owner, mux.Vars(r)["mediaId"], upd)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, m)
}

// DeleteMedia DELETE /api/media/{mediaId}
func (h *MediaHandler) DeleteMedia(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(r)
	if !ok {
		respond.WriteUnauthorized(w, "owner identity missing")
		return
	}
	if err := h.svc.DeleteMedia(r.Context(), owner, mux.Vars(r)["mediaId"]); err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ToggleFavourite POST /api/media/{mediaId}/favourite
func (h *MediaHandler) ToggleFavourite(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(r)
	if !ok {
		respond.WriteUnauthorized(w, "owner identity missing")
		return
	}
	fav, err := h.svc.ToggleFavourite(r.Context(), owner, mux.Vars(r)["mediaId"])
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]bool{"favourite": fav})
}

// SetVisibility PUT /api/media/{mediaId}/visibility
func (h *MediaHandler) SetVisibility(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(r)
	if !ok {
		respond.WriteUnauthorized(w, "owner identity missing")
		return
	}
	var req struct {
		IsPublic bool `json:"isPublic"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	if err := h.svc.SetVisibility(r.Context(), owner, mux.Vars(r)["mediaId"], req.IsPublic); err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]bool{"isPublic": req.IsPublic})
}

// ImportMedia POST /api/media/import
// Replays exported records through normalization and the duplicate guard,
// reporting per-record outcomes like a batch upload.
func (h *MediaHandler) ImportMedia(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(r)
	if !ok {
		respond.WriteUnauthorized(w, "owner identity missing")
		return
	}
	var req struct {
		Records []map[string]interface{} `json:"records"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	if len(req.Records) == 0 {
		respond.WriteBadRequest(w, "no records to import")
		return
	}

	results := make([]services.UploadResult, 0, len(req.Records))
	for i, raw := range req.Records {
		name := importRecordName(raw, i)
		m, isDup, err := h.svc.ImportRecord(r.Context(), owner, raw)
		switch {
		case err != nil:
			results = append(results, services.UploadResult{Name: name, Status: services.UploadFailed, Error: err.Error()})
		case isDup:
			results = append(results, services.UploadResult{Name: name, Status: services.UploadDuplicate, Memory: m})
		default:
			results = append(results, services.UploadResult{Name: name, Status: services.UploadCreated, Memory: m})
		}
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"results": results, "count": len(results)})
}

func importRecordName(raw map[string]interface{}, i int) string {
	if id, ok := raw["id"].(string); ok && id != "" {
		return id
	}
	if u, ok := raw["url"].(string); ok && u != "" {
		return u
	}
	return fmt.Sprintf("record %d", i)
}

// SuggestTags POST /api/media/{mediaId}/suggest-tags
// Best effort; an unreachable classifier yields an empty list, never an error.
func (h *MediaHandler) SuggestTags(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(r)
	if !ok {
		respond.WriteUnauthorized(w, "owner identity missing")
		return
	}
	m, err := h.svc.GetMedia(r.Context(), owner, mux.Vars(r)["mediaId"])
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	var tags []string
	if h.tags != nil {
		tags = h.tags.Suggest(r.Context(), m)
	}
	if tags == nil {
		tags = []string{}
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"tags": tags})
}
