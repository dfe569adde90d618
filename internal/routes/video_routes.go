package routes

import (
	"github.com/go-chi/chi/v5"

	"fleetboard/internal/handlers"
)

func RegisterVideoRoutes(r chi.Router, deps Deps) {
	h := handlers.NewVideoHandler(deps.Videos, deps.S3, deps.Recorder)

	r.Route("/videos", func(r chi.Router) {
		r.Post("/upload", h.UploadVideo)
		r.Get("/", h.ListVideos)
		r.Get("/{id}", h.GetVideo)
	})
}
