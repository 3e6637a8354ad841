package manager

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// unknownModelLabel replaces model names that did not resolve, keeping the
// label set bounded by the loaded models.
const unknownModelLabel = "unknown"

var (
	engineCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "aiengine",
			Subsystem: "manager",
			Name:      "calls_total",
			Help:      "Total number of query and prediction calls",
		},
		[]string{"operation", "model", "outcome"},
	)

	engineCallDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "aiengine",
			Subsystem: "manager",
			Name:      "call_duration_seconds",
			Help:      "Duration of query and prediction calls in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation", "model"},
	)

	registryReloadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "aiengine",
			Subsystem: "manager",
			Name:      "registry_reloads_total",
			Help:      "Total model registry scans",
		},
		[]string{"outcome"},
	)

	modelsLoadedGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "aiengine",
			Subsystem: "manager",
			Name:      "models_loaded",
			Help:      "Number of loaded models",
		},
	)
)

func init() {
	prometheus.MustRegister(engineCallsTotal, engineCallDuration, registryReloadsTotal, modelsLoadedGauge)
}

func observeCall(op, model string, err error, start time.Time) {
	outcome := "ok"
	switch {
	case err == nil:
	case IsModelNotFound(err):
		outcome = "not_found"
	case IsUnsupported(err):
		outcome = "unsupported"
	default:
		outcome = "error"
	}
	engineCallsTotal.WithLabelValues(op, model, outcome).Inc()
	engineCallDuration.WithLabelValues(op, model).Observe(time.Since(start).Seconds())
}
