package routes

import (
	"github.com/go-chi/chi/v5"

	"fleetboard/internal/handlers"
	"fleetboard/internal/middleware"
)

func RegisterHardwareRoutes(r chi.Router, deps Deps) {
	h := handlers.NewHardwareHandler(deps.Trucks, deps.Playlists, deps.Compiler, deps.Liveness, deps.Throttle, nil)

	r.Use(middleware.DeviceAuth(deps.Trucks))
	r.Post("/status", h.Heartbeat)
	r.Get("/playlist", h.Playlist)
	r.Get("/telemetry", h.Telemetry)
}
