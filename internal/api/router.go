package api

import (
	"log/slog"
	"net/http"

	"github.com/UnknownOlympus/locator/internal/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires the locator routes, health check and metrics endpoint.
func NewRouter(log *slog.Logger, h *Handler, reg prometheus.Gatherer, m *metrics.Metrics) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(log, m))
	r.Use(recoverer(log))

	r.Get("/healthz", h.Healthz)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	r.Route("/locators/{id}", func(r chi.Router) {
		r.Get("/feed.{format}", h.Feed)
		r.Delete("/feed-cache", h.PurgeFeed)
		r.Get("/search-form", h.SearchForm)
		r.Get("/settings", h.Settings)
	})

	return r
}
