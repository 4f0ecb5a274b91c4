package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Jonniie/memoirly/internal/api/respond"
	"github.com/Jonniie/memoirly/internal/api/validate"
	"github.com/Jonniie/memoirly/internal/model"
	"github.com/Jonniie/memoirly/internal/services"
)

// AlbumHandler is the HTTP transport over AlbumService.
type AlbumHandler struct {
	svc *services.AlbumService
}

func NewAlbumHandler(svc *services.AlbumService) *AlbumHandler { return &AlbumHandler{svc: svc} }

// CreateAlbum POST /api/albums
func (h *AlbumHandler) CreateAlbum(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(r)
	if !ok {
		respond.WriteUnauthorized(w, "owner identity missing")
		return
	}
	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	if err := validate.Title(req.Title); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	a, err := h.svc.CreateAlbum(r.Context(), &model.Album{
		OwnerID:     owner,
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, a)
}

// ListAlbums GET /api/albums
func (h *AlbumHandler) ListAlbums(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(r)
	if !ok {
		respond.WriteUnauthorized(w, "owner identity missing")
		return
	}
	albums, err := h.svc.ListAlbums(r.Context(), owner)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"albums": albums, "count": len(albums)})
}

// GetAlbum GET /api/albums/{albumId}
func (h *AlbumHandler) GetAlbum(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(r)
	if !ok {
		respond.WriteUnauthorized(w, "owner identity missing")
		return
	}
	a, err := h.svc.GetAlbum(r.Context(), owner, mux.Vars(r)["albumId"])
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, a)
}

// UpdateAlbum PATCH /api/albums/{albumId}
func (h *AlbumHandler) UpdateAlbum(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(r)
	if !ok {
		respond.WriteUnauthorized(w, "owner identity missing")
		return
	}
	var req struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	if req.Title != nil {
		if err := validate.Title(*req.Title); err != nil {
			respond.WriteBadRequest(w, err.Error())
			return
		}
	}
	a, err := h.svc.UpdateAlbum(r.Context(), owner, mux.Vars(r)["albumId"], req.Title, req.Description)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, a)
}

// DeleteAlbum DELETE /api/albums/{albumId}
// Member media always survive album deletion.
func (h *AlbumHandler) DeleteAlbum(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(r)
	if !ok {
		respond.WriteUnauthorized(w, "owner identity missing")
		return
	}
	if err := h.svc.DeleteAlbum(r.Context(), owner, mux.Vars(r)["albumId"]); err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AttachMedia POST /api/albums/{albumId}/media/{mediaId}
// Attaching twice is a no-op.
func (h *AlbumHandler) AttachMedia(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(r)
	if !ok {
		respond.WriteUnauthorized(w, "owner identity missing")
		return
	}
	vars := mux.Vars(r)
	if err := h.svc.AttachMedia(r.Context(), owner, vars["albumId"], vars["mediaId"]); err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DetachMedia DELETE /api/albums/{albumId}/media/{mediaId}
func (h *AlbumHandler) DetachMedia(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(r)
	if !ok {
		respond.WriteUnauthorized(w, "owner identity missing")
		return
	}
	vars := mux.Vars(r)
	if err := h.svc.DetachMedia(r.Context(), owner, vars["albumId"], vars["mediaId"]); err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListAlbumMedia GET /api/albums/{albumId}/media
// Members come back most recently attached first.
func (h *AlbumHandler) ListAlbumMedia(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(r)
	if !ok {
		respond.WriteUnauthorized(w, "owner identity missing")
		return
	}
	vars := mux.Vars(r)
	if _, err := h.svc.GetAlbum(r.Context(), owner, vars["albumId"]); err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	memories, err := h.svc.ListAlbumMedia(r.Context(), owner, vars["albumId"])
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"memories": memories, "count": len(memories)})
}

// SetCover PUT /api/albums/{albumId}/cover
// A manual cover becomes the visible cover immediately, even mid-rotation.
func (h *AlbumHandler) SetCover(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(r)
	if !ok {
		respond.WriteUnauthorized(w, "owner identity missing")
		return
	}
	var req struct {
		CoverURL string `json:"coverUrl"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	if err := validate.NonEmpty("coverUrl", req.CoverURL); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	if err := h.svc.SetCover(r.Context(), owner, mux.Vars(r)["albumId"], req.CoverURL); err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RefreshRotation POST /api/albums/{albumId}/rotation
// (Re)starts cover rotation over the album's current image members.
func (h *AlbumHandler) RefreshRotation(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(r)
	if !ok {
		respond.WriteUnauthorized(w, "owner identity missing")
		return
	}
	albumID := mux.Vars(r)["albumId"]
	if _, err := h.svc.RefreshCoverRotation(r.Context(), owner, albumID); err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	cover, live := h.svc.CurrentCover(albumID)
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"rotating": live, "cover": cover})
}

// CurrentCover GET /api/albums/{albumId}/cover
// Reports the cover the rotation is showing right now; falls back to the
// stored album cover when no rotation is live.
func (h *AlbumHandler) CurrentCover(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(r)
	if !ok {
		respond.WriteUnauthorized(w, "owner identity missing")
		return
	}
	albumID := mux.Vars(r)["albumId"]
	if cover, live := h.svc.CurrentCover(albumID); live {
		respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"rotating": true, "cover": cover})
		return
	}
	a, err := h.svc.GetAlbum(r.Context(), owner, albumID)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"rotating": false,
		"cover":    map[string]string{"url": a.CoverURL},
	})
}
