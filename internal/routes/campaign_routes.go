package routes

import (
	"github.com/go-chi/chi/v5"

	"fleetboard/internal/handlers"
)

func RegisterCampaignRoutes(r chi.Router, deps Deps) {
	h := handlers.NewCampaignHandler(deps.Campaigns, deps.Allocator, deps.Recorder)

	r.Route("/campaigns", func(r chi.Router) {
		r.Post("/", h.CreateCampaign)
		r.Get("/", h.ListCampaigns)
		r.Get("/{id}", h.GetCampaign)
		r.Put("/{id}", h.UpdateCampaign)
		r.Post("/{id}/cancel", h.CancelCampaign)
	})
}
