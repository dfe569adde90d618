// internal/routes/routes.go
package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"fleetboard/internal/audit"
	"fleetboard/internal/booking"
	"fleetboard/internal/config"
	"fleetboard/internal/interfaces"
	"fleetboard/internal/jobs"
	"fleetboard/internal/middleware"
	"fleetboard/internal/services"
)

// Deps bundles everything the route tree needs.
type Deps struct {
	Cfg       *config.Config
	S3        *config.S3Config
	Campaigns interfaces.CampaignRepository
	Trucks    interfaces.TruckRepository
	Playlists interfaces.PlaylistRepository
	Videos    interfaces.VideoRepository
	Cities    interfaces.CityRepository
	Allocator *booking.Allocator
	Compiler  *services.PlaylistCompiler
	Liveness  *services.LivenessTracker
	Throttle  *services.HeartbeatThrottle
	Recorder  *audit.Recorder
	Jobs      *jobs.Runner
}

func SetupRoutes(deps Deps) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Device-Id"},
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Admin API
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.AdminAuth(deps.Cfg.JWTSecret))

		RegisterCampaignRoutes(r, deps)
		RegisterTruckRoutes(r, deps)
		RegisterCityRoutes(r, deps)
		RegisterVideoRoutes(r, deps)
		RegisterJobsRoutes(r, deps)
	})

	// Truck hardware API
	r.Route("/api/hardware", func(r chi.Router) {
		RegisterHardwareRoutes(r, deps)
	})

	return r
}
