package driving

import (
	"context"

	"github.com/custodia-labs/borehole-cli/internal/core/domain"
	"github.com/custodia-labs/borehole-cli/internal/core/ports/driven"
)

// IngestService normalises tabular frames into boreholes, components and
// links.
type IngestService interface {
	// Build turns frames into staged rows without touching the session
	// beyond id allocation and component lookup.
	Build(ctx context.Context, session driven.Session, frames []domain.Frame, opts domain.IngestOptions) (*domain.IngestResult, error)

	// Stage writes a built result into the session. Nothing is committed.
	Stage(ctx context.Context, session driven.Session, result *domain.IngestResult) error

	// Ingest builds then stages.
	Ingest(ctx context.Context, session driven.Session, frames []domain.Frame, opts domain.IngestOptions) (*domain.IngestResult, error)
}
