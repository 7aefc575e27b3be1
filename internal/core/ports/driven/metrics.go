package driven

import "github.com/custodia-labs/borehole-cli/internal/core/domain"

// Metrics records operational counters. Implementations must be safe to call
// with a zero report.
type Metrics interface {
	// ObserveIngest records an ingestion run.
	ObserveIngest(report domain.IngestReport)

	// ObserveLegendResolution records a legend resolution for an attribute.
	ObserveLegendResolution(attribute string)
}

// NopMetrics discards everything.
type NopMetrics struct{}

// ObserveIngest implements Metrics.
func (NopMetrics) ObserveIngest(domain.IngestReport) {}

// ObserveLegendResolution implements Metrics.
func (NopMetrics) ObserveLegendResolution(string) {}
