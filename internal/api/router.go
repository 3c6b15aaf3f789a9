package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"visit-route-service/internal/api/handlers"
	"visit-route-service/internal/metrics"
	"visit-route-service/internal/ports"
)

// NewRouter wires HTTP handlers with their dependencies and returns an
// http.Handler. This is the API composition root: handlers stay unaware of
// concrete adapters.
func NewRouter(
	log *slog.Logger,
	routes ports.RouteRepository,
	stores ports.StoreRepository,
	users ports.UserRepository,
) http.Handler {
	metrics.RegisterDefault()

	routeHandler := &handlers.RouteHandler{Routes: routes, Stores: stores, Users: users}
	storeHandler := &handlers.StoreHandler{Stores: stores}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger(log))
	r.Use(instrument)
	r.Use(chimiddleware.Recoverer)

	r.Get("/health", handlers.Health)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	// Everything below requires an authenticated actor.
	r.Group(func(r chi.Router) {
		r.Use(handlers.Authenticate(users))

		r.Route("/routes", func(r chi.Router) {
			r.Get("/", routeHandler.List)
			r.Post("/", routeHandler.Create)
			r.Get("/{routeID}", routeHandler.Get)
			r.Put("/{routeID}", routeHandler.Update)
			r.Post("/{routeID}/confirm", routeHandler.Confirm)
			r.Post("/{routeID}/reoptimize", routeHandler.Reoptimize)
		})

		r.Get("/stores", storeHandler.List)
	})

	return r
}
