package handler

import (
	"encoding/json"
	"net/http"

	"github.com/wadjakorntonsri/linkbio/pkg/core/domain"
	"github.com/wadjakorntonsri/linkbio/pkg/core/services"
)

// LinkHandler exposes the link collection operations. Each authenticated
// user works against their session's collection manager, obtained from the
// registry.
type LinkHandler struct {
	registry *services.Registry
}

func NewLinkHandler(registry *services.Registry) *LinkHandler {
	return &LinkHandler{registry: registry}
}

func (h *LinkHandler) collection(r *http.Request) *services.Collection {
	return h.registry.For(UserID(r))
}

// List refreshes and returns the user's links ascending by position.
func (h *LinkHandler) List(w http.ResponseWriter, r *http.Request) {
	links, err := h.collection(r).List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": links})
}

type createLinkRequest struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

func (h *LinkHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	link, err := h.collection(r).Add(r.Context(), req.Title, req.URL)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, link)
}

func (h *LinkHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch domain.LinkPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	linkID := r.PathValue("id")
	if err := h.collection(r).Update(r.Context(), linkID, patch); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *LinkHandler) Delete(w http.ResponseWriter, r *http.Request) {
	linkID := r.PathValue("id")
	if err := h.collection(r).Delete(r.Context(), linkID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type reorderRequest struct {
	LinkIDs []string `json:"link_ids"`
}

// Reorder applies a new order. The response body carries the collection as
// the session now sees it, which on a persist failure may have been
// resynchronized from the store.
func (h *LinkHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	col := h.collection(r)
	if err := col.Reorder(r.Context(), req.LinkIDs); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": col.Cached()})
}
