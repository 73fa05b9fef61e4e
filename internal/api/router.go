package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MikeSquared-Agency/Endorse/internal/config"
	"github.com/MikeSquared-Agency/Endorse/internal/hermes"
	"github.com/MikeSquared-Agency/Endorse/internal/session"
)

func NewRouter(svc *session.Service, cfg config.ServerConfig, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(RequestLogger(logger))
	r.Use(RateLimitMiddleware(cfg.RateLimit))

	influencers := NewInfluencersHandler(svc)
	criteria := NewCriteriaHandler(svc)
	ranking := NewRankingHandler(svc)
	reports := NewReportsHandler(svc)
	admin := NewAdminHandler(svc)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/influencers", influencers.Create)
		r.Get("/influencers", influencers.List)
		r.Get("/influencers/{id}", influencers.Get)
		r.Put("/influencers/{id}", influencers.Update)
		r.Delete("/influencers/{id}", influencers.Delete)

		r.Get("/criteria", criteria.Get)
		r.Put("/criteria", criteria.Replace)
		r.Patch("/criteria/{id}", criteria.UpdateWeight)
		r.Post("/criteria/normalize", criteria.Normalize)
		r.Post("/criteria/reset", criteria.Reset)

		r.Post("/ranking", ranking.Compute)
		r.Get("/ranking/latest", ranking.Latest)
		r.Get("/runs", ranking.Runs)

		r.Get("/stats", reports.Stats)
		r.Get("/export", reports.Export)
		r.Get("/export/formats", reports.Formats)
		r.Get("/exports", reports.Exports)

		r.Group(func(r chi.Router) {
			r.Use(AdminAuthMiddleware(cfg.AdminToken))
			r.Delete("/runs", admin.ClearRuns)
			r.Post("/admin/recompute", admin.Recompute)
		})
	})

	return r
}

// NewMetricsRouter serves /health and /metrics from g. h may be nil when
// event publishing is disabled.
func NewMetricsRouter(g prometheus.Gatherer, h hermes.Client) http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		events := "disabled"
		if h != nil {
			events = "disconnected"
			if h.Connected() {
				events = "connected"
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "events": events})
	})
	r.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	return r
}
