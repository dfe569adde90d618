package routes

import (
	"github.com/go-chi/chi/v5"

	"fleetboard/internal/handlers"
)

func RegisterJobsRoutes(r chi.Router, deps Deps) {
	h := handlers.NewJobsHandler(deps.Jobs)

	r.Post("/jobs/{name}/run", h.RunJob)
}
