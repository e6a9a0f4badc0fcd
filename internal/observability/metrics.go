package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for an
// extraction run.
type Metrics struct {
	PointsProcessed prometheus.Counter
	DateParseErrors prometheus.Counter
	NoDataSamples   prometheus.Counter
	MatchedValues   prometheus.Counter
	PipelineRunning prometheus.Gauge
	RasterBands     prometheus.Gauge
	RunDuration     prometheus.Histogram
}

// NewMetrics creates and registers all extraction metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		PointsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "climate_etl",
			Name:      "points_processed_total",
			Help:      "Total observation points extracted.",
		}),
		DateParseErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "climate_etl",
			Name:      "date_parse_errors_total",
			Help:      "Points whose observation date could not be parsed.",
		}),
		NoDataSamples: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "climate_etl",
			Name:      "nodata_samples_total",
			Help:      "Band samples that were out of extent or hit the no-data sentinel.",
		}),
		MatchedValues: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "climate_etl",
			Name:      "matched_values_total",
			Help:      "Points whose observation month resolved to a non-empty value.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "climate_etl",
			Name:      "pipeline_running",
			Help:      "1 while the extraction run is active, 0 otherwise.",
		}),
		RasterBands: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "climate_etl",
			Name:      "raster_bands",
			Help:      "Number of monthly bands in the loaded raster.",
		}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "climate_etl",
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete extraction run.",
			Buckets:   []float64{0.1, 0.5, 1, 5, 15, 60, 300, 900},
		}),
	}

	prometheus.MustRegister(
		m.PointsProcessed,
		m.DateParseErrors,
		m.NoDataSamples,
		m.MatchedValues,
		m.PipelineRunning,
		m.RasterBands,
		m.RunDuration,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		PointsProcessed: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "climate_etl", Name: "points_processed_total"}),
		DateParseErrors: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "climate_etl", Name: "date_parse_errors_total"}),
		NoDataSamples:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: "climate_etl", Name: "nodata_samples_total"}),
		MatchedValues:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: "climate_etl", Name: "matched_values_total"}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "climate_etl", Name: "pipeline_running"}),
		RasterBands:     prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "climate_etl", Name: "raster_bands"}),
		RunDuration:     prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "climate_etl", Name: "run_duration_seconds"}),
	}
}
