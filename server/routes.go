package server

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/siherrmann/featuregraph"
)

// SetupRoutes registers the API routes.
func SetupRoutes(router chi.Router, f *featuregraph.Featuregraph, logger *slog.Logger) {
	handlers := NewHandlers(f, logger)

	router.Route("/api", func(r chi.Router) {
		r.Get("/graph", handlers.Graph)
		r.Get("/relationships", handlers.Relationships)
		r.Get("/search", handlers.Search)
		r.Get("/stats", handlers.Stats)
		r.Get("/tags/{collection}", handlers.TagSuggestions)
		r.Get("/permissions", handlers.Permissions)
		r.Get("/objects/{type}", handlers.ObjectOptions)

		r.Get("/feature-views", handlers.FeatureViews)
		r.Get("/feature-views/{name}/consumers", handlers.Consumers)
		r.Get("/feature-services", handlers.FeatureServices)

		r.Route("/snapshots", func(r chi.Router) {
			r.Post("/", handlers.Persist)
			r.Get("/latest", handlers.LatestSnapshot)
		})
	})
}
