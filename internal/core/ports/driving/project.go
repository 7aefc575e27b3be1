package driving

import (
	"context"

	"github.com/custodia-labs/borehole-cli/internal/core/domain"
)

// ProjectService is the borehole project aggregate.
// It is not safe for concurrent mutation; callers serialise access.
type ProjectService interface {
	// Refresh reloads boreholes from the session, optionally rebuilding the
	// 3D views and re-resolving legends.
	Refresh(ctx context.Context, update3D, updateLegend bool) error

	// ReprAttribute returns the current display attribute.
	ReprAttribute() string

	// SetReprAttribute switches the display attribute and refreshes.
	SetReprAttribute(ctx context.Context, attribute string) error

	// SetDefaultLegends replaces the default legends and re-resolves.
	SetDefaultLegends(ctx context.Context, legends domain.LegendDict) error

	// Boreholes returns the loaded boreholes in store order.
	Boreholes() []domain.Borehole

	// Attributes returns every attribute present in the project, in first
	// occurrence order.
	Attributes() []string

	// LegendDict returns a copy of the project legend dictionary.
	LegendDict() domain.LegendDict

	// BoreholeLegends returns a copy of each borehole's legend snapshot.
	BoreholeLegends() map[string]domain.LegendDict

	// Scene returns the geometry of every borehole for the current attribute.
	Scene() (domain.Scene, error)

	// IngestFrames ingests, commits and refreshes.
	IngestFrames(ctx context.Context, frames []domain.Frame, opts domain.IngestOptions) (*domain.IngestReport, error)

	// AddBorehole stages and commits a fully-formed borehole.
	AddBorehole(ctx context.Context, borehole domain.Borehole) error

	// AddBoreholeSpec creates a borehole with a single borehole-type interval.
	AddBoreholeSpec(ctx context.Context, spec domain.BoreholeSpec) error

	// InsertIntervalInBorehole appends an interval to an existing borehole.
	InsertIntervalInBorehole(ctx context.Context, boreholeID string, spec domain.IntervalSpec) error

	// DeleteBorehole removes a borehole and its intervals.
	DeleteBorehole(ctx context.Context, id string) error

	// Close releases the session.
	Close() error
}
