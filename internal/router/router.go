package router

import (
	"net/http"

	"carbwise/internal/handler"
	"carbwise/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Handlers groups the HTTP handlers served by the router. Meal is required;
// the meal log routes are mounted only when MealLogEnabled is set.
type Handlers struct {
	Food           *handler.FoodHandler
	Meal           *handler.MealHandler
	Catalog        *handler.CatalogHandler
	MealLogEnabled bool
}

// New creates a new HTTP router with all routes and middleware configured.
func New(
	h Handlers,
	limiter *middleware.RateLimiter,
	apiKey string,
	logger zerolog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Apply middleware in order: RequestID -> RealIP -> Recovery -> Logging -> Metrics -> CORS -> RateLimit -> APIKeyAuth
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logging(logger))
	r.Use(middleware.Metrics)
	r.Use(middleware.CORS)
	if limiter != nil {
		r.Use(limiter.Handler)
	}
	r.Use(middleware.APIKeyAuth(apiKey, logger))

	// Health check and metrics (no authentication required)
	r.Get("/health", h.Catalog.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/foods/search", h.Food.Search)
		r.Get("/foods/lookup", h.Food.Lookup)
		r.Get("/portions", h.Food.Portions)
		r.Get("/portions/compare", h.Food.ComparePortions)

		r.Post("/meals/estimate", h.Meal.Estimate)
		r.Post("/glucose/estimate", h.Meal.EstimateGlucose)

		if h.MealLogEnabled {
			r.Post("/meals", h.Meal.Create)
			r.Get("/meals/{id}", h.Meal.GetByID)
		}

		r.Get("/catalog", h.Catalog.Stats)
		r.Post("/catalog/reload", h.Catalog.Reload)
	})

	return r
}
