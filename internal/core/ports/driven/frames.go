package driven

import (
	"context"

	"github.com/custodia-labs/borehole-cli/internal/core/domain"
)

// FrameReader reads tabular input files into frames.
type FrameReader interface {
	// Supports reports whether the reader handles the file at path.
	Supports(path string) bool

	// Read returns the frames found in the file. Single-table formats
	// return one frame whose Kind is the file name without extension.
	Read(ctx context.Context, path string) ([]domain.Frame, error)
}
