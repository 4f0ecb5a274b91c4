package api

import (
	"net/http"

	"github.com/Jonniie/memoirly/internal/api/respond"
	"github.com/Jonniie/memoirly/internal/model"
	"github.com/Jonniie/memoirly/internal/services"
	"github.com/Jonniie/memoirly/internal/view"
)

// TimelineHandler serves the date-bucketed gallery view.
type TimelineHandler struct {
	svc *services.MediaService
}

func NewTimelineHandler(svc *services.MediaService) *TimelineHandler {
	return &TimelineHandler{svc: svc}
}

// Timeline GET /api/timeline?granularity=day|month
// Buckets the owner's memories by creation date, most recent bucket first.
// The dashboard filter parameters narrow the set before bucketing.
func (h *TimelineHandler) Timeline(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(r)
	if !ok {
		respond.WriteUnauthorized(w, "owner identity missing")
		return
	}

	g := model.Granularity(r.URL.Query().Get("granularity"))
	switch g {
	case "":
		g = model.GroupByDay
	case model.GroupByDay, model.GroupByMonth:
	default:
		respond.WriteBadRequest(w, "granularity must be day or month")
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
	buckets := view.GroupByTime(view.FilterMemories(all, spec), g)
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"granularity": g,
		"buckets":     buckets,
		"count":       len(buckets),
	})
}
