package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTheme(t *testing.T) {
	theme := DefaultTheme()

	require.NotNil(t, theme)
	assert.Equal(t, lipgloss.Color("#7C3AED"), theme.Primary)
	assert.Equal(t, lipgloss.Color("#A0A0A0"), theme.Unknown)
}

func TestNewStyles_NilTheme(t *testing.T) {
	s := NewStyles(nil)

	require.NotNil(t, s)
	assert.Equal(t, DefaultTheme(), s.Theme())
}

func TestStyles_Render(t *testing.T) {
	s := DefaultStyles()

	assert.Contains(t, s.Title.Render("Boreholes"), "Boreholes")
	assert.Contains(t, s.Error.Render("failed"), "failed")
}

func TestStyles_Swatch(t *testing.T) {
	s := DefaultStyles()

	assert.Equal(t, 4, lipgloss.Width(s.Swatch("#ffff00", 4)))
	assert.Equal(t, 1, lipgloss.Width(s.Swatch("", 0)))
}
