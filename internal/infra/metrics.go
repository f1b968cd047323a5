package infra

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups the Prometheus instruments of the reconciliation service.
type Metrics struct {
	FechamentosTotal    prometheus.Counter
	FechamentoCacheHits prometheus.Counter
	FechamentoDuracao   prometheus.Histogram
	MovimentosTotal     *prometheus.CounterVec
}

// NewMetrics registers the instruments on the default registry (served by
// promhttp on /metrics).
func NewMetrics() *Metrics {
	return &Metrics{
		FechamentosTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "caixapos_fechamentos_total",
			Help: "Reconciliation snapshots computed or served from cache.",
		}),
		FechamentoCacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "caixapos_fechamento_cache_hits_total",
			Help: "Snapshots served from the Redis cache.",
		}),
		FechamentoDuracao: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "caixapos_fechamento_duration_seconds",
			Help:    "End-to-end fetch+compute latency of a fechamento.",
			Buckets: prometheus.DefBuckets,
		}),
		MovimentosTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "caixapos_movimentos_total",
			Help: "Manual movements registered, labelled by tipo.",
		}, []string{"tipo"}),
	}
}
