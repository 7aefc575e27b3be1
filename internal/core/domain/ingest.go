package domain

import "time"

// WarningKind classifies non-fatal ingestion findings.
type WarningKind string

// Ingestion warning kinds.
const (
	WarningMissingZ         WarningKind = "missing_z"
	WarningUnknownValue     WarningKind = "unknown_attribute_value"
	WarningUnknownAttribute WarningKind = "unknown_attribute"
	WarningSchemaViolation  WarningKind = "schema_violation"
	WarningMissingLegend    WarningKind = "missing_legend"
	WarningEmptyRow         WarningKind = "empty_row"
	WarningInvalidCell      WarningKind = "invalid_cell"
)

// Warning is a non-fatal ingestion finding.
type Warning struct {
	Borehole string
	Kind     WarningKind
	Message  string
}

// IngestOptions tunes the ingestion pipeline.
type IngestOptions struct {
	// AverageZ is the collar elevation used for boreholes without Z.
	AverageZ *float64

	// DefaultDiameter is used when a borehole has no diameter.
	DefaultDiameter float64
}

// IngestReport summarises an ingestion run.
type IngestReport struct {
	// RunID identifies the run in logs.
	RunID string

	// StartedAt is when the run began.
	StartedAt time.Time

	// Boreholes lists ingested borehole ids in input order.
	Boreholes []string

	// Intervals is the number of staged intervals.
	Intervals int

	// NewComponents is the number of components created by the run.
	NewComponents int

	// Warnings are aggregated non-fatal findings.
	Warnings []Warning

	// Skipped maps borehole ids rejected as a whole to the reason.
	Skipped map[string]error
}

// WarningsFor returns the warnings concerning a borehole.
func (r IngestReport) WarningsFor(borehole string) []Warning {
	var out []Warning
	for _, w := range r.Warnings {
		if w.Borehole == borehole {
			out = append(out, w)
		}
	}
	return out
}

// IngestResult is the staged output of the ingestor: borehole rows, the
// component registry entries and the link rows keyed by (interval, component).
type IngestResult struct {
	Boreholes  []Borehole
	Components map[int]Component
	Links      map[LinkKey]Link
	Report     IngestReport
}

// BoreholeSpec describes a borehole by its type rather than by intervals.
// Adding it creates one interval spanning the full length.
type BoreholeSpec struct {
	ID           string
	BoreholeType string
	Length       float64
	Diameter     float64
	Date         *time.Time
	X            *float64
	Y            *float64
	Z            *float64
}

// IntervalSpec describes an interval to insert into an existing borehole.
// Top and Base are depths below the collar.
type IntervalSpec struct {
	Top         float64
	Base        float64
	Type        IntervalType
	Description string
	Components  []Component
}
