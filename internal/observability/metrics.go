package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and histograms for the analysis service.
type Metrics struct {
	FilesLoaded   prometheus.Counter
	RecordsLoaded prometheus.Counter
	LoadErrors    *prometheus.CounterVec // labels: reason={not_found,parse}

	SummariesBuilt prometheus.Counter
	MapsRendered   prometheus.Counter

	LoadDuration      prometheus.Histogram
	MapRenderDuration prometheus.Histogram
}

// NewMetrics creates and registers all service metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		FilesLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fars_analysis",
			Name:      "files_loaded_total",
			Help:      "Total yearly accident files loaded from disk.",
		}),
		RecordsLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fars_analysis",
			Name:      "records_loaded_total",
			Help:      "Total accident rows parsed across all loads.",
		}),
		LoadErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fars_analysis",
			Name:      "load_errors_total",
			Help:      "Load failures by reason.",
		}, []string{"reason"}),
		SummariesBuilt: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fars_analysis",
			Name:      "summaries_built_total",
			Help:      "Total month-by-year summary tables produced.",
		}),
		MapsRendered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fars_analysis",
			Name:      "maps_rendered_total",
			Help:      "Total state point maps rendered.",
		}),
		LoadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "fars_analysis",
			Name:      "load_duration_seconds",
			Help:      "Duration of a single decompress-and-parse load.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		MapRenderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "fars_analysis",
			Name:      "map_render_duration_seconds",
			Help:      "Duration of a complete load-filter-render map cycle.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
	}

	prometheus.MustRegister(
		m.FilesLoaded,
		m.RecordsLoaded,
		m.LoadErrors,
		m.SummariesBuilt,
		m.MapsRendered,
		m.LoadDuration,
		m.MapRenderDuration,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		FilesLoaded:       prometheus.NewCounter(prometheus.CounterOpts{Namespace: "fars_analysis", Name: "files_loaded_total"}),
		RecordsLoaded:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "fars_analysis", Name: "records_loaded_total"}),
		LoadErrors:        prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "fars_analysis", Name: "load_errors_total"}, []string{"reason"}),
		SummariesBuilt:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "fars_analysis", Name: "summaries_built_total"}),
		MapsRendered:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "fars_analysis", Name: "maps_rendered_total"}),
		LoadDuration:      prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "fars_analysis", Name: "load_duration_seconds"}),
		MapRenderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "fars_analysis", Name: "map_render_duration_seconds"}),
	}
}
