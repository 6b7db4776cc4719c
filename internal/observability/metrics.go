package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// analysis engine.
type Metrics struct {
	AnalysesRun      prometheus.Counter
	AnalysisErrors   prometheus.Counter
	LoansProcessed   prometheus.Counter
	AnalysisDuration prometheus.Histogram
	EngineReady      prometheus.Gauge
}

// NewMetrics creates and registers all engine metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.AnalysesRun,
		m.AnalysisErrors,
		m.LoansProcessed,
		m.AnalysisDuration,
		m.EngineReady,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		AnalysesRun: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "climate_engine",
			Name:      "analyses_run_total",
			Help:      "Total completed portfolio analysis runs.",
		}),
		AnalysisErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "climate_engine",
			Name:      "analysis_errors_total",
			Help:      "Total analysis runs rejected or failed.",
		}),
		LoansProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "climate_engine",
			Name:      "loans_processed_total",
			Help:      "Total loans evaluated across all analysis runs.",
		}),
		AnalysisDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "climate_engine",
			Name:      "analysis_duration_seconds",
			Help:      "Duration of a complete portfolio analysis run.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}),
		EngineReady: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "climate_engine",
			Name:      "ready",
			Help:      "1 once the engine has completed an analysis run.",
		}),
	}
}
