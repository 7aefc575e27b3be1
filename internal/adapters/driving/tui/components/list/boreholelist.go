// Package list provides list components for the TUI.
package list

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/borehole-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/borehole-cli/internal/core/domain"
)

// BoreholeList displays boreholes with selection.
type BoreholeList struct {
	styles    *styles.Styles
	boreholes []domain.Borehole
	selected  int
	offset    int
	width     int
	height    int
}

// NewBoreholeList creates a new borehole list component.
func NewBoreholeList(s *styles.Styles) *BoreholeList {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &BoreholeList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// SetBoreholes replaces the list content, keeping the selection in range.
func (l *BoreholeList) SetBoreholes(boreholes []domain.Borehole) {
	l.boreholes = boreholes
	if l.selected >= len(boreholes) {
		l.selected = max(len(boreholes)-1, 0)
	}
	l.clampOffset()
}

// Boreholes returns the listed boreholes.
func (l *BoreholeList) Boreholes() []domain.Borehole {
	return l.boreholes
}

// Len returns the number of boreholes.
func (l *BoreholeList) Len() int {
	return len(l.boreholes)
}

// MoveUp moves the selection up.
func (l *BoreholeList) MoveUp() {
	if l.selected > 0 {
		l.selected--
		l.clampOffset()
	}
}

// MoveDown moves the selection down.
func (l *BoreholeList) MoveDown() {
	if l.selected < len(l.boreholes)-1 {
		l.selected++
		l.clampOffset()
	}
}

// SelectedIndex returns the selected index.
func (l *BoreholeList) SelectedIndex() int {
	return l.selected
}

// Selected returns the selected borehole.
func (l *BoreholeList) Selected() (domain.Borehole, bool) {
	if len(l.boreholes) == 0 {
		return domain.Borehole{}, false
	}
	return l.boreholes[l.selected], true
}

// SetDimensions sets the rendering area.
func (l *BoreholeList) SetDimensions(width, height int) {
	l.width = width
	l.height = max(height, 1)
	l.clampOffset()
}

func (l *BoreholeList) clampOffset() {
	if l.selected < l.offset {
		l.offset = l.selected
	}
	if l.selected >= l.offset+l.height {
		l.offset = l.selected - l.height + 1
	}
}

// View renders the visible window of the list.
func (l *BoreholeList) View() string {
	if len(l.boreholes) == 0 {
		return l.styles.Muted.Render("No boreholes. Use `borehole ingest` to load some.")
	}

	end := min(l.offset+l.height, len(l.boreholes))
	var b strings.Builder
	for i := l.offset; i < end; i++ {
		line := l.formatRow(l.boreholes[i])
		if i == l.selected {
			b.WriteString(l.styles.Selected.Render("> " + line))
		} else {
			b.WriteString(l.styles.Normal.Render("  " + line))
		}
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (l *BoreholeList) formatRow(bh domain.Borehole) string {
	return fmt.Sprintf("%-16s %8.2f m  %3d interval(s)  Ø %.2f",
		bh.ID, bh.Length, len(bh.Intervals), bh.Diameter)
}
