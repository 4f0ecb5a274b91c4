package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/Jonniie/memoirly/internal/api/recovery"
	"github.com/Jonniie/memoirly/internal/identity"
	"github.com/Jonniie/memoirly/internal/services"
)

// Deps carries everything the router needs. Upload and tag suggestion are
// optional; their routes 404 when the collaborator is not configured.
type Deps struct {
	Media     *services.MediaService
	Albums    *services.AlbumService
	Uploads   *services.UploadService
	Tags      *services.TagSuggester
	Identity  identity.Provider
	IsHealthy func() bool
	Log       zerolog.Logger
}

// NewRouter wires every route. Share links and health sit outside the
// identity middleware; everything else requires a resolvable bearer token.
func NewRouter(d Deps) http.Handler {
	r := mux.NewRouter()

	health := NewHealthHandler(d.IsHealthy)
	r.HandleFunc("/api/health", health.CheckHealth).Methods(http.MethodGet)

	share := NewShareHandler(d.Media)
	r.HandleFunc("/api/share/{mediaId}", share.SharedMedia).Methods(http.MethodGet)

	authed := r.PathPrefix("/api").Subrouter()
	authed.Use(RequireOwner(d.Identity, d.Log))

	media := NewMediaHandler(d.Media, d.Tags)
	authed.HandleFunc("/media", media.CreateMedia).Methods(http.MethodPost)
	authed.HandleFunc("/media", media.ListMedia).Methods(http.MethodGet)
	authed.HandleFunc("/media/import", media.ImportMedia).Methods(http.MethodPost)
	if d.Uploads != nil {
		upload := NewUploadHandler(d.Uploads)
		authed.HandleFunc("/media/batch", upload.UploadBatch).Methods(http.MethodPost)
	}
	authed.HandleFunc("/media/{mediaId}", media.GetMedia).Methods(http.MethodGet)
	authed.HandleFunc("/media/{mediaId}", media.UpdateMedia).Methods(http.MethodPatch)
	authed.HandleFunc("/media/{mediaId}", media.DeleteMedia).Methods(http.MethodDelete)
	authed.HandleFunc("/media/{mediaId}/favourite", media.ToggleFavourite).Methods(http.MethodPost)
	authed.HandleFunc("/media/{mediaId}/visibility", media.SetVisibility).Methods(http.MethodPut)
	authed.HandleFunc("/media/{mediaId}/suggest-tags", media.SuggestTags).Methods(http.MethodPost)

	timeline := NewTimelineHandler(d.Media)
	authed.HandleFunc("/timeline", timeline.Timeline).Methods(http.MethodGet)

	albums := NewAlbumHandler(d.Albums)
	authed.HandleFunc("/albums", albums.CreateAlbum).Methods(http.MethodPost)
	authed.HandleFunc("/albums", albums.ListAlbums).Methods(http.MethodGet)
	authed.HandleFunc("/albums/{albumId}", albums.GetAlbum).Methods(http.MethodGet)
	authed.HandleFunc("/albums/{albumId}", albums.UpdateAlbum).Methods(http.MethodPatch)
	authed.HandleFunc("/albums/{albumId}", albums.DeleteAlbum).Methods(http.MethodDelete)
	authed.HandleFunc("/albums/{albumId}/media", albums.ListAlbumMedia).Methods(http.MethodGet)
	authed.HandleFunc("/albums/{albumId}/media/{mediaId}", albums.AttachMedia).Methods(http.MethodPost)
	authed.HandleFunc("/albums/{albumId}/media/{mediaId}", albums.DetachMedia).Methods(http.MethodDelete)
	authed.HandleFunc("/albums/{albumId}/cover", albums.SetCover).Methods(http.MethodPut)
	authed.HandleFunc("/albums/{albumId}/cover", albums.CurrentCover).Methods(http.MethodGet)
	authed.HandleFunc("/albums/{albumId}/rotation", albums.RefreshRotation).Methods(http.MethodPost)

	return recovery.Middleware(r)
}
