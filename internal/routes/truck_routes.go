package routes

import (
	"github.com/go-chi/chi/v5"

	"fleetboard/internal/handlers"
)

func RegisterTruckRoutes(r chi.Router, deps Deps) {
	h := handlers.NewTruckHandler(deps.Trucks, deps.Liveness, deps.Recorder)
	ch := handlers.NewCampaignHandler(deps.Campaigns, deps.Allocator, deps.Recorder)

	r.Route("/trucks", func(r chi.Router) {
		r.Post("/", h.CreateTruck)
		r.Get("/", h.ListTrucks)
		r.Get("/{id}", h.GetTruck)
		r.Put("/{id}", h.UpdateTruck)
		r.Get("/{id}/telemetry", h.GetTruckTelemetry)
		r.Get("/{id}/available-cycles", ch.AvailableCycles)
	})
}
