package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/creamcroissant/podwatch/internal/repository"
)

// NodeHandler serves the cached node status endpoints.
type NodeHandler struct {
	store repository.Store
}

// NewNodeHandler creates a node handler.
func NewNodeHandler(store repository.Store) *NodeHandler {
	return &NodeHandler{store: store}
}

// List returns the cached node statuses ordered by credits.
// GET /api/nodes?limit=100&offset=0
func (h *NodeHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := 100
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 1000 {
			limit = parsed
		}
	}
	offset := 0
	if raw := r.URL.Query().Get("offset"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed >= 0 {
			offset = parsed
		}
	}

	nodes, err := h.store.NodeStatuses().List(ctx, limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "nodes.list", err)
		return
	}
	total, err := h.store.NodeStatuses().Count(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "nodes.count", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"data":  nodes,
		"total": total,
	})
}

// Get returns one cached node status.
// GET /api/nodes/{pubkey}
func (h *NodeHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	pubkey := chi.URLParam(r, "pubkey")

	node, err := h.store.NodeStatuses().FindByPubkey(ctx, pubkey)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(w, http.StatusNotFound, "nodes.get", err)
			return
		}
		respondError(w, http.StatusInternalServerError, "nodes.get", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"data": node})
}
