package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the service's Prometheus collectors.
type Metrics struct {
	Rankings        *prometheus.CounterVec
	RankingDuration prometheus.Histogram
	Candidates      prometheus.Gauge
	WeightSum       prometheus.Gauge
	StaleDiscarded  prometheus.Counter
	Exports         *prometheus.CounterVec
	Mutations       *prometheus.CounterVec
}

// New registers the collectors on reg. Pass prometheus.DefaultRegisterer in
// the service and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Rankings: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "endorse",
			Name:      "rankings_total",
			Help:      "Ranking computations by outcome (ok or the scoring error kind).",
		}, []string{"outcome"}),
		RankingDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "endorse",
			Name:      "ranking_duration_seconds",
			Help:      "Time spent computing one ranking.",
			Buckets:   prometheus.ExponentialBuckets(0.00005, 4, 8),
		}),
		Candidates: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "endorse",
			Name:      "candidates",
			Help:      "Candidates in the last computed ranking.",
		}),
		WeightSum: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "endorse",
			Name:      "criteria_weight_sum",
			Help:      "Sum of the current criteria weights.",
		}),
		StaleDiscarded: f.NewCounter(prometheus.CounterOpts{
			Namespace: "endorse",
			Name:      "stale_rankings_discarded_total",
			Help:      "Rankings dropped because a newer generation was already cached.",
		}),
		Exports: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "endorse",
			Name:      "exports_total",
			Help:      "Rendered export reports by format.",
		}, []string{"format"}),
		Mutations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "endorse",
			Name:      "session_mutations_total",
			Help:      "Session mutations by entity and operation.",
		}, []string{"entity", "op"}),
	}
}
