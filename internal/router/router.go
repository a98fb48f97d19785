package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/FACorreiaa/go-city-info-engine/internal/api/aggregator"
	"github.com/FACorreiaa/go-city-info-engine/internal/api/comments"
	"github.com/FACorreiaa/go-city-info-engine/internal/api/favorites"
	"github.com/FACorreiaa/go-city-info-engine/internal/api/itinerary"
	"github.com/FACorreiaa/go-city-info-engine/internal/api/search"
)

// Config contains the handlers and middleware the router wires together.
type Config struct {
	AggregatorHandler      *aggregator.Handler
	ItineraryHandler       *itinerary.Handler
	FavoritesHandler       *favorites.Handler
	CommentsHandler        *comments.Handler
	SearchHandler          *search.Handler
	AuthenticateMiddleware func(http.Handler) http.Handler
}

// SetupRouter initializes and configures the main application router.
// Server-wide middleware (logger, requestID, recoverer) are expected to be
// applied before mounting this router in main.go.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("pong"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		// Public routes.
		r.Group(func(r chi.Router) {
			r.Get("/city/info", cfg.AggregatorHandler.GetCityInfo)
			r.Get("/city/comments", cfg.CommentsHandler.ListComments)
			r.Get("/search/top", cfg.SearchHandler.TopCities)
			r.Post("/city/{city}/itinerary", cfg.ItineraryHandler.GenerateItinerary)
		})

		// Protected routes.
		r.Group(func(r chi.Router) {
			r.Use(cfg.AuthenticateMiddleware)

			r.Get("/favorites/toggle", cfg.FavoritesHandler.ToggleFavorite)
			r.Get("/favorites", cfg.FavoritesHandler.ListFavorites)
			r.Post("/city/comments", cfg.CommentsHandler.AppendComment)
		})

		// Operational routes.
		r.Group(func(r chi.Router) {
			r.Use(cfg.AuthenticateMiddleware)

			r.Post("/cache/clear", cfg.AggregatorHandler.ClearCache)
		})
	})

	return r
}
