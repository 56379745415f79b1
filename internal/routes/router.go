package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"evently/server/internal/api"
	"evently/server/internal/db"
	"evently/server/internal/logging"
	"evently/server/internal/metrics"
	"evently/server/internal/middleware"
	"evently/server/internal/workers"
)

func RegisterRoutes(upSince time.Time) http.Handler {
	r := chi.NewRouter()

	metricsReg := metrics.NewMetricsRegistry()

	// global middleware
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.MetricsMiddleware(metricsReg))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	deps, err := api.InitDependencies(metricsReg)
	if err != nil {
		panic("Failed to initialize dependencies: " + err.Error())
	}

	logging.Info("Router initialized with metrics and logging middleware")

	r.Get("/healthCheck", api.HealthCheckHandler(db.DB, deps.Redis, upSince))

	workers.InitWorkers(deps.Services.Queue, deps.Services.Mailer)

	RegisterAPIRoutes(r, metricsReg, deps)

	return r
}
