package driven

import (
	"context"

	"github.com/custodia-labs/borehole-cli/internal/core/domain"
)

// LegendLoader reads legend files.
// A legend file has the columns "colour, width, component <attribute>".
type LegendLoader interface {
	// LoadFile reads one legend file and returns its attribute and legend.
	LoadFile(ctx context.Context, path string) (string, domain.Legend, error)

	// LoadDir reads every legend file in dir.
	LoadDir(ctx context.Context, dir string) (domain.LegendDict, error)
}
