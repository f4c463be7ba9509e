package handler

import (
	"net/http"

	"github.com/wadjakorntonsri/linkbio/pkg/config"
	"github.com/wadjakorntonsri/linkbio/pkg/core/services"
	"github.com/wadjakorntonsri/linkbio/pkg/logger"
	"github.com/wadjakorntonsri/linkbio/pkg/ports"
)

// NewRouter creates and configures the main application router
func NewRouter(
	cfg *config.Config,
	log logger.Logger,
	auth ports.AuthService,
	registry *services.Registry,
	profiles ports.ProfileService,
	analytics ports.AnalyticsService,
) http.Handler {
	authHandler := NewAuthHandler(cfg, auth, log)
	linkHandler := NewLinkHandler(registry)
	profileHandler := NewProfileHandler(profiles, analytics, log)
	analyticsHandler := NewAnalyticsHandler(analytics, log)

	mw := NewMiddleware(cfg, log)

	mux := http.NewServeMux()

	// Public Routes
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "ok"})
	})
	mux.HandleFunc("GET /u/{username}", profileHandler.GetPublic)
	mux.HandleFunc("POST /t/{link_id}", analyticsHandler.Track)
	mux.HandleFunc("POST /auth/register", authHandler.Register)
	mux.HandleFunc("POST /auth/login", authHandler.LoginPassword)
	mux.HandleFunc("GET /auth/google/login", authHandler.GoogleLogin)
	mux.HandleFunc("GET /auth/google/callback", authHandler.GoogleCallback)
	mux.HandleFunc("POST /auth/logout", authHandler.Logout)

	// Protected Routes (API)
	protectedMux := http.NewServeMux()
	protectedMux.HandleFunc("GET /api/v1/me", authHandler.Me)

	protectedMux.HandleFunc("GET /api/v1/links", linkHandler.List)
	protectedMux.HandleFunc("POST /api/v1/links", linkHandler.Create)
	protectedMux.HandleFunc("PUT /api/v1/links/reorder", linkHandler.Reorder)
	protectedMux.HandleFunc("PUT /api/v1/links/{id}", linkHandler.Update)
	protectedMux.HandleFunc("DELETE /api/v1/links/{id}", linkHandler.Delete)

	protectedMux.HandleFunc("GET /api/v1/profile", profileHandler.Get)
	protectedMux.HandleFunc("PUT /api/v1/profile", profileHandler.UpdateSettings)
	protectedMux.HandleFunc("PUT /api/v1/profile/social-links", profileHandler.SetSocialLinks)

	protectedMux.HandleFunc("GET /api/v1/analytics", analyticsHandler.Snapshot)

	// Apply auth to everything under /api/v1/.
	mux.Handle("/api/v1/", mw.AuthMiddleware(protectedMux))

	return mw.LogMiddleware(mux)
}
