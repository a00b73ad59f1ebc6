package routes

import (
	"github.com/devsetgo/userbase/internal/handlers"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes registers all application routes
func RegisterRoutes(
	router chi.Router,
	userHandler *handlers.UserHandler,
	healthHandler *handlers.HealthHandler,
	metricsOn bool,
) {
	router.Route("/api/v1/users", func(r chi.Router) {
		r.Get("/", userHandler.ListUsers)         // GET /api/v1/users
		r.Post("/", userHandler.CreateUser)       // POST /api/v1/users
		r.Get("/{id}", userHandler.GetUser)       // GET /api/v1/users/{id}
		r.Put("/{id}", userHandler.UpdateUser)    // PUT /api/v1/users/{id}
		r.Delete("/{id}", userHandler.DeleteUser) // DELETE /api/v1/users/{id}
	})

	router.Route("/health", func(r chi.Router) {
		r.Get("/status", healthHandler.Status)
		r.Get("/database", healthHandler.Database)
		r.Get("/system-info", healthHandler.SystemInfo)
		r.Get("/processes", healthHandler.Processes)
		r.Get("/configuration", healthHandler.Configuration)
		r.Get("/heapdump", healthHandler.Heapdump)

		if metricsOn {
			r.Handle("/metrics", promhttp.Handler())
		}
	})
}
