// Package render groups the rendering collaborators that consume a project
// scene: striplog writes PDF strip logs, geometry writes JSON for 3D viewers.
package render

import (
	"fmt"

	"github.com/custodia-labs/borehole-cli/internal/adapters/driven/render/geometry"
	"github.com/custodia-labs/borehole-cli/internal/adapters/driven/render/striplog"
	"github.com/custodia-labs/borehole-cli/internal/core/domain"
	"github.com/custodia-labs/borehole-cli/internal/core/ports/driven"
)

// Formats returns the supported output formats.
func Formats() []string {
	return []string{"pdf", "json"}
}

// New returns the renderer for format.
func New(format, title string) (driven.Renderer, error) {
	switch format {
	case "pdf":
		return striplog.New(title), nil
	case "json":
		return geometry.New(true), nil
	default:
		return nil, fmt.Errorf("%w: unknown format %q", domain.ErrInvalidInput, format)
	}
}
