// Package tui provides an interactive terminal browser for borehole projects.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/borehole-cli/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the TUI.
type Ports struct {
	// Project is the loaded borehole project.
	Project driving.ProjectService
}

// NewPorts creates a new Ports aggregate.
func NewPorts(project driving.ProjectService) *Ports {
	return &Ports{Project: project}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Project == nil {
		return ErrMissingProjectService
	}
	return nil
}
