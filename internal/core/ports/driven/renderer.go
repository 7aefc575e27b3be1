package driven

import (
	"context"
	"io"

	"github.com/custodia-labs/borehole-cli/internal/core/domain"
)

// Renderer is a rendering collaborator consuming project geometry.
type Renderer interface {
	// Name returns the renderer name (e.g. "pdf", "json").
	Name() string

	// Render writes the scene to w.
	Render(ctx context.Context, scene domain.Scene, w io.Writer) error
}
