package driven

import (
	"context"

	"github.com/custodia-labs/borehole-cli/internal/core/domain"
)

// BoreholeStore opens sessions on the relational store.
type BoreholeStore interface {
	// Open acquires a session. The caller must Close it.
	Open(ctx context.Context) (Session, error)

	// Close releases the store.
	Close() error
}

// Session is a unit of work on the store.
//
// Mutations are staged until Commit publishes them; Rollback discards them.
// Reads inside a session observe its staged rows, so NextID must be called in
// the same session as the insert it allocates for.
type Session interface {
	// CreateBorehole stages a borehole row with its collar. Z is stored as
	// borehole.ZRef(), the elevation interval depths are measured from.
	// Intervals are ignored; insert them with InsertInterval.
	CreateBorehole(ctx context.Context, borehole domain.Borehole) error

	// UpdateBoreholeLength stages a new length for an existing borehole.
	UpdateBoreholeLength(ctx context.Context, id string, length float64) error

	// InsertInterval stages an interval and its two positions.
	// Interval components are ignored; attach them with AddLinks.
	InsertInterval(ctx context.Context, boreholeID string, interval domain.Interval) error

	// AddComponents stages components. Components already registered under
	// the same id are left untouched.
	AddComponents(ctx context.Context, components []domain.Component) error

	// AddLinks stages interval/component links.
	AddLinks(ctx context.Context, links []domain.Link) error

	// DeleteBorehole stages the removal of a borehole, its intervals, their
	// positions and links. Components survive.
	DeleteBorehole(ctx context.Context, id string) error

	// Commit publishes staged work.
	Commit(ctx context.Context) error

	// Rollback discards staged work.
	Rollback(ctx context.Context) error

	// NextID returns max(existing id) + 1 for the entity kind, or 0 if none.
	NextID(ctx context.Context, kind domain.EntityKind) (int, error)

	// FindComponentIDByDescription returns the id of the component with the
	// given description, or domain.ErrNotFound.
	FindComponentIDByDescription(ctx context.Context, description string) (int, error)

	// ListBoreholes returns every borehole with intervals, positions and
	// components loaded, ordered by id.
	ListBoreholes(ctx context.Context) ([]domain.Borehole, error)

	// GetBorehole returns one fully loaded borehole or domain.ErrNotFound.
	GetBorehole(ctx context.Context, id string) (*domain.Borehole, error)

	// ListComponents returns the component registry ordered by id.
	ListComponents(ctx context.Context) ([]domain.Component, error)

	// Close rolls back any staged work and releases the session.
	Close() error
}
