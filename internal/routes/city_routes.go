package routes

import (
	"github.com/go-chi/chi/v5"

	"fleetboard/internal/handlers"
)

func RegisterCityRoutes(r chi.Router, deps Deps) {
	h := handlers.NewCityHandler(deps.Cities)

	r.Route("/cities", func(r chi.Router) {
		r.Post("/", h.CreateCity)
		r.Get("/", h.ListCities)
		r.Get("/{id}", h.GetCity)
	})
}
