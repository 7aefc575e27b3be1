// Package metrics records ingestion and legend counters with Prometheus and
// exports them in the node-exporter textfile format.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/custodia-labs/borehole-cli/internal/core/domain"
	"github.com/custodia-labs/borehole-cli/internal/core/ports/driven"
)

// Ensure Metrics implements the interface.
var _ driven.Metrics = (*Metrics)(nil)

// Metrics bundles the borehole counters on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	BoreholesTotal     prometheus.Counter
	IntervalsTotal     prometheus.Counter
	ComponentsTotal    prometheus.Counter
	WarningsTotal      *prometheus.CounterVec
	SkippedTotal       prometheus.Counter
	IngestDuration     prometheus.Histogram
	LegendResolutions  *prometheus.CounterVec
	LastIngestUnixTime prometheus.Gauge
}

// New constructs and registers metrics.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		BoreholesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "borehole_ingested_boreholes_total",
			Help: "Total boreholes staged by ingestion",
		}),
		IntervalsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "borehole_ingested_intervals_total",
			Help: "Total intervals staged by ingestion",
		}),
		ComponentsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "borehole_components_registered_total",
			Help: "Total components created by ingestion",
		}),
		WarningsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "borehole_ingest_warnings_total",
				Help: "Total ingestion warnings by kind",
			},
			[]string{"kind"},
		),
		SkippedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "borehole_ingest_skipped_boreholes_total",
			Help: "Total boreholes rejected as a whole",
		}),
		IngestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "borehole_ingest_duration_seconds",
			Help:    "Ingestion run duration in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		LegendResolutions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "borehole_legend_resolutions_total",
				Help: "Total legend resolutions by attribute",
			},
			[]string{"attribute"},
		),
		LastIngestUnixTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "borehole_last_ingest_timestamp_seconds",
			Help: "Unix time of the last ingestion run",
		}),
	}
	m.registry.MustRegister(
		m.BoreholesTotal,
		m.IntervalsTotal,
		m.ComponentsTotal,
		m.WarningsTotal,
		m.SkippedTotal,
		m.IngestDuration,
		m.LegendResolutions,
		m.LastIngestUnixTime,
	)
	return m
}

// Registry returns the registry holding the metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveIngest records an ingestion run.
func (m *Metrics) ObserveIngest(report domain.IngestReport) {
	m.BoreholesTotal.Add(float64(len(report.Boreholes)))
	m.IntervalsTotal.Add(float64(report.Intervals))
	m.ComponentsTotal.Add(float64(report.NewComponents))
	m.SkippedTotal.Add(float64(len(report.Skipped)))
	for _, w := range report.Warnings {
		m.WarningsTotal.WithLabelValues(string(w.Kind)).Inc()
	}
	if !report.StartedAt.IsZero() {
		m.IngestDuration.Observe(time.Since(report.StartedAt).Seconds())
		m.LastIngestUnixTime.SetToCurrentTime()
	}
}

// ObserveLegendResolution records a legend resolution for an attribute.
func (m *Metrics) ObserveLegendResolution(attribute string) {
	m.LegendResolutions.WithLabelValues(attribute).Inc()
}

// WriteTextfile writes the metrics to path in the text exposition format.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
