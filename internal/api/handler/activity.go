package handler

import (
	"net/http"
	"strconv"

	"github.com/creamcroissant/podwatch/internal/repository"
)

// ActivityHandler serves the persisted activity history.
type ActivityHandler struct {
	store repository.Store
}

// NewActivityHandler creates an activity handler.
func NewActivityHandler(store repository.Store) *ActivityHandler {
	return &ActivityHandler{store: store}
}

// Recent returns the newest activity rows.
// GET /api/activity?limit=100
func (h *ActivityHandler) Recent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := 100
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	rows, err := h.store.ActivityLogs().ListRecent(ctx, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "activity.recent", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"data": rows})
}
