package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/xavierca1/spinnata-waitlist/internal/infra/http/handlers"
	"github.com/xavierca1/spinnata-waitlist/internal/infra/http/middleware"
)

type routerDeps struct {
	LeadHandler    *handlers.LeadHandler
	HealthHandler  *handlers.HealthHandler
	AllowedOrigins []string
	Logger         *zap.Logger
}

func newRouter(deps routerDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(chimw.Timeout(15 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: deps.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Post("/api/lead", deps.LeadHandler.CaptureLead)
	r.Get("/health", deps.HealthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
