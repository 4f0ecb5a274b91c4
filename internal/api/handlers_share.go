package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Jonniie/memoirly/internal/api/respond"
	"github.com/Jonniie/memoirly/internal/services"
)

// ShareHandler serves public share links. It sits outside the identity
// middleware: anyone holding a link may view a public memory.
type ShareHandler struct {
	svc *services.MediaService
}

func NewShareHandler(svc *services.MediaService) *ShareHandler { return &ShareHandler{svc: svc} }

// SharedMedia GET /api/share/{mediaId}
// Private and missing records are indistinguishable to the caller.
func (h *ShareHandler) SharedMedia(w http.ResponseWriter, r *http.Request) {
	m, err := h.svc.GetSharedMedia(r.Context(), mux.Vars(r)["mediaId"])
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, m)
}
