package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// theme is the terminal palette.
type theme struct {
	Primary lipgloss.Color
	Muted   lipgloss.Color
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
}

func defaultTheme() theme {
	return theme{
		Primary: lipgloss.Color("#7C3AED"),
		Muted:   lipgloss.Color("#6C7086"),
		Success: lipgloss.Color("#A6E3A1"),
		Warning: lipgloss.Color("#F9E2AF"),
		Error:   lipgloss.Color("#F38BA8"),
	}
}

// outputStyles are the styles used by command output.
type outputStyles struct {
	Title   lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
}

func newOutputStyles(t theme) outputStyles {
	return outputStyles{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		Muted:   lipgloss.NewStyle().Foreground(t.Muted),
		Success: lipgloss.NewStyle().Foreground(t.Success),
		Warning: lipgloss.NewStyle().Foreground(t.Warning),
		Error:   lipgloss.NewStyle().Bold(true).Foreground(t.Error),
	}
}

var styles = newOutputStyles(defaultTheme())

// swatch renders a colour block for a #RRGGBB legend colour.
func swatch(hex string, width int) string {
	if width < 1 {
		width = 1
	}
	return lipgloss.NewStyle().
		Background(lipgloss.Color(hex)).
		Render(strings.Repeat(" ", width))
}
