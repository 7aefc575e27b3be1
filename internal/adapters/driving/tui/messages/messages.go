// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/borehole-cli/internal/core/domain"
)

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewBoreholes lists the project boreholes.
	ViewBoreholes ViewType = iota
	// ViewDetail shows the coloured intervals of one borehole.
	ViewDetail
	// ViewLegend shows the project legend for the display attribute.
	ViewLegend
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewBoreholes:
		return "boreholes"
	case ViewDetail:
		return "detail"
	case ViewLegend:
		return "legend"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ProjectLoaded carries a snapshot of the project.
type ProjectLoaded struct {
	Boreholes  []domain.Borehole
	Attributes []string
	Scene      domain.Scene
	Err        error
}

// AttributeChanged signals the display attribute was switched.
type AttributeChanged struct {
	Attribute string
	Err       error
}

// BoreholeSelected signals a borehole was opened.
type BoreholeSelected struct {
	Index int
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
