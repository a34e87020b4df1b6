package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the engine.
type Metrics struct {
	registry *prometheus.Registry

	// Resolution metrics
	ResolutionsTotal   *prometheus.CounterVec
	ResolutionDuration prometheus.Histogram
	ModulesRegistered  prometheus.Counter

	// Ordering metrics
	BuildOrderDegradedTotal prometheus.Counter

	// Patch metrics
	FilesPatchedTotal     prometheus.Counter
	PatchErrorsTotal      prometheus.Counter
	VariablesUpdatedTotal prometheus.Counter
}

// NewMetrics creates and registers all engine metrics on a private
// registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		ResolutionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "modprep_resolutions_total",
				Help: "Total resolution runs by outcome",
			},
			[]string{"outcome"},
		),
		ResolutionDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "modprep_resolution_duration_seconds",
				Help:    "Duration of full resolution runs",
				Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
			},
		),
		ModulesRegistered: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "modprep_modules_registered_total",
				Help: "Total dependency registrations",
			},
		),
		BuildOrderDegradedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "modprep_build_order_degraded_total",
				Help: "Build order computations that hit the degrade path",
			},
		),
		FilesPatchedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "modprep_files_patched_total",
				Help: "Configuration files rewritten",
			},
		),
		PatchErrorsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "modprep_patch_errors_total",
				Help: "Per-file patch failures",
			},
		),
		VariablesUpdatedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "modprep_variables_updated_total",
				Help: "Variable assignments rewritten across all files",
			},
		),
	}

	registry.MustRegister(
		m.ResolutionsTotal,
		m.ResolutionDuration,
		m.ModulesRegistered,
		m.BuildOrderDegradedTotal,
		m.FilesPatchedTotal,
		m.PatchErrorsTotal,
		m.VariablesUpdatedTotal,
	)
	return m
}

// Handler returns the /metrics HTTP handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
