package handler

import (
	"context"
	"net/http"

	"github.com/wadjakorntonsri/linkbio/pkg/logger"
	"github.com/wadjakorntonsri/linkbio/pkg/ports"
)

type AnalyticsHandler struct {
	analytics ports.AnalyticsService
	log       logger.Logger
}

func NewAnalyticsHandler(analytics ports.AnalyticsService, log logger.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics, log: log}
}

// Snapshot returns the user's aggregate view.
func (h *AnalyticsHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.analytics.Snapshot(r.Context(), UserID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

// Track records a click from a visitor. The response never reflects a
// recording failure: the visitor's navigation to the destination must not be
// blocked by analytics.
func (h *AnalyticsHandler) Track(w http.ResponseWriter, r *http.Request) {
	linkID := r.PathValue("link_id")
	if linkID == "" {
		http.Error(w, "Link id missing", http.StatusBadRequest)
		return
	}

	go func() {
		if err := h.analytics.RecordLinkClick(context.Background(), linkID); err != nil {
			h.log.Error("click not recorded",
				logger.String("link_id", linkID),
				logger.Error(err))
		}
	}()

	w.WriteHeader(http.StatusAccepted)
}
