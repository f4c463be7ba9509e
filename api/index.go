package handler

import (
	"net/http"

	"github.com/wadjakorntonsri/linkbio/pkg/adapters/handler"
	"github.com/wadjakorntonsri/linkbio/pkg/adapters/repository/sqlite"
	"github.com/wadjakorntonsri/linkbio/pkg/config"
	"github.com/wadjakorntonsri/linkbio/pkg/core/services"
	"github.com/wadjakorntonsri/linkbio/pkg/logger"
)

var mux http.Handler

func init() {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, false)

	// Note: On Vercel, db.sqlite is ephemeral unless DATABASE_URL points at
	// a remote libsql/Turso database.
	repo, err := sqlite.NewSQLiteRepository(cfg.DatabaseURL)
	if err != nil {
		panic(err)
	}

	registry := services.NewRegistry(repo, repo, log, cfg.StoreTimeout)
	analyticsService := services.NewAnalyticsService(repo, repo, log)
	profileService := services.NewProfileService(repo, repo, repo)
	authService := services.NewAuthService(repo, repo)

	mux = handler.NewRouter(cfg, log, authService, registry, profileService, analyticsService)
}

// Handler is the entrypoint for Vercel
func Handler(w http.ResponseWriter, r *http.Request) {
	mux.ServeHTTP(w, r)
}
