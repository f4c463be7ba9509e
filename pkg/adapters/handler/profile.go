package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/wadjakorntonsri/linkbio/pkg/core/domain"
	"github.com/wadjakorntonsri/linkbio/pkg/logger"
	"github.com/wadjakorntonsri/linkbio/pkg/ports"
)

type ProfileHandler struct {
	profiles  ports.ProfileService
	analytics ports.AnalyticsService
	log       logger.Logger
}

func NewProfileHandler(profiles ports.ProfileService, analytics ports.AnalyticsService, log logger.Logger) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, analytics: analytics, log: log}
}

// GetPublic serves the public page payload by username and records the
// visit. Recording runs detached: an analytics failure never affects the
// page response.
func (h *ProfileHandler) GetPublic(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")
	if username == "" {
		http.Error(w, "Username required", http.StatusBadRequest)
		return
	}

	page, err := h.profiles.GetByUsername(r.Context(), username)
	if err != nil {
		writeError(w, err)
		return
	}

	userID := page.User.ID
	go func() {
		// The request context is cancelled once the response is written.
		if err := h.analytics.RecordVisit(context.Background(), userID); err != nil {
			h.log.Error("visit not recorded",
				logger.String("user_id", userID),
				logger.Error(err))
		}
	}()

	writeJSON(w, http.StatusOK, page)
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	profile, err := h.profiles.Get(r.Context(), UserID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (h *ProfileHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var patch domain.ProfilePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	profile, err := h.profiles.UpdateSettings(r.Context(), UserID(r), patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

type socialLinksRequest struct {
	SocialLinks []domain.SocialLink `json:"social_links"`
}

func (h *ProfileHandler) SetSocialLinks(w http.ResponseWriter, r *http.Request) {
	var req socialLinksRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.profiles.SetSocialLinks(r.Context(), UserID(r), req.SocialLinks); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
