package httpapi

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter builds the API router with standard middleware and CORS for
// the dashboard frontend.
//
// Precondition: h must be non-nil.
func NewRouter(h *Handler, allowedOrigins []string) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", h.Healthz)

	r.Route("/api", func(r chi.Router) {
		r.Get("/games", h.Games)
		r.Get("/pokemon", h.Pokemon)
		r.Get("/roster", h.Roster)
		r.Get("/stats", h.Stats)
		r.Get("/insights", h.Insights)

		r.Post("/teams", h.SaveTeam)
		r.Delete("/teams/{game}/{playthrough}", h.DeleteTeam)

		r.Delete("/roster/{position}", h.DeleteEntry)
		r.Delete("/roster", h.Clear)
	})

	return r
}
