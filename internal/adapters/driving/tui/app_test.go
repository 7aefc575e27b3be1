package tui

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/borehole-cli/internal/adapters/driven/frames"
	"github.com/custodia-labs/borehole-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/borehole-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/borehole-cli/internal/core/domain"
	"github.com/custodia-labs/borehole-cli/internal/core/services"
	"github.com/custodia-labs/borehole-cli/internal/normalisers"
	"github.com/custodia-labs/borehole-cli/internal/pollutants"
)

const lithologyCSV = `ID;X;Y;Z;Top;Base;Lithology
B1;0;0;10;0;2;sand
B1;0;0;10;2;5;clay
B2;5;5;12;0;3;sands
`

func newTestProject(t *testing.T) *services.Project {
	t.Helper()
	ctx := context.Background()

	classifier := pollutants.NewDefault()
	registry, err := normalisers.NewDefaultRegistry(classifier, "")
	require.NoError(t, err)
	session, err := memory.NewBoreholeStore().Open(ctx)
	require.NoError(t, err)

	project := services.NewProject(session,
		services.NewIngestor(registry, nil),
		services.NewLegendResolver(classifier, nil, 1),
		services.ProjectOptions{Legends: domain.LegendDict{
			domain.AttributeLithology: {Legend: domain.Legend{
				{Value: "sand", Colour: "#ffff00"},
				{Value: "clay", Colour: "#aaaaaa"},
			}},
		}})
	t.Cleanup(func() { _ = project.Close() })
	require.NoError(t, project.Refresh(ctx, true, true))

	path := filepath.Join(t.TempDir(), "lithology.csv")
	require.NoError(t, os.WriteFile(path, []byte(lithologyCSV), 0600))
	fs, err := frames.NewDefaultReader().Read(ctx, path)
	require.NoError(t, err)
	_, err = project.IngestFrames(ctx, fs, domain.IngestOptions{})
	require.NoError(t, err)
	require.NoError(t, project.AddBoreholeSpec(ctx, domain.BoreholeSpec{
		ID:           "PZ1",
		BoreholeType: "piezometer",
		Length:       4,
		Diameter:     0.5,
	}))
	return project
}

func newTestApp(t *testing.T) (*App, *services.Project) {
	t.Helper()
	project := newTestProject(t)
	app, err := NewApp(NewPorts(project))
	require.NoError(t, err)
	app.SetDimensions(120, 40)
	send(t, app, app.loadProject()())
	return app, project
}

// send feeds msg to the app and runs any follow-up command synchronously.
func send(t *testing.T, app *App, msg tea.Msg) {
	t.Helper()
	for msg != nil {
		_, cmd := app.Update(msg)
		if cmd == nil {
			return
		}
		msg = cmd()
	}
}

func key(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

func TestNewApp_InvalidPorts(t *testing.T) {
	_, err := NewApp(&Ports{})
	require.ErrorIs(t, err, ErrMissingProjectService)

	_, err = NewApp(nil)
	require.ErrorIs(t, err, ErrInvalidPorts)
}

func TestApp_InitialState(t *testing.T) {
	app, err := NewApp(NewPorts(newTestProject(t)))
	require.NoError(t, err)

	assert.False(t, app.Ready())
	assert.Equal(t, "Initialising...", app.View())
	assert.NotNil(t, app.Init())
	assert.Equal(t, messages.ViewBoreholes, app.CurrentView())
}

func TestApp_ListsBoreholes(t *testing.T) {
	app, _ := newTestApp(t)

	view := app.View()

	assert.Contains(t, view, "coloured by lithology")
	assert.Contains(t, view, "B1")
	assert.Contains(t, view, "B2")
	assert.Contains(t, view, "PZ1")
	assert.Contains(t, view, "3 borehole(s)")
}

func TestApp_DetailView(t *testing.T) {
	app, _ := newTestApp(t)

	send(t, app, key("enter"))
	require.Equal(t, messages.ViewDetail, app.CurrentView())

	view := app.View()
	assert.Contains(t, view, "B1")
	assert.Contains(t, view, "sand")
	assert.Contains(t, view, "clay")
	assert.Contains(t, view, "esc: back")

	send(t, app, key("esc"))
	assert.Equal(t, messages.ViewBoreholes, app.CurrentView())
}

func TestApp_DetailWithoutLegendFallsBackToUnknown(t *testing.T) {
	app, _ := newTestApp(t)

	send(t, app, key("down"))
	send(t, app, key("down"))
	send(t, app, key("enter"))

	view := app.View()
	assert.Contains(t, view, "PZ1")
	assert.Contains(t, view, domain.DefaultAttributeValue)
}

func TestApp_LegendView(t *testing.T) {
	app, _ := newTestApp(t)

	send(t, app, key("l"))
	require.Equal(t, messages.ViewLegend, app.CurrentView())
	view := app.View()
	assert.Contains(t, view, "Legend")
	assert.Contains(t, view, "Sand")
	assert.Contains(t, view, "Clay")

	send(t, app, key("l"))
	assert.Equal(t, messages.ViewBoreholes, app.CurrentView())
}

func TestApp_CycleAttribute(t *testing.T) {
	app, project := newTestApp(t)

	send(t, app, key("tab"))

	assert.Equal(t, domain.AttributeBoreholeType, project.ReprAttribute())
	assert.Contains(t, app.View(), "coloured by "+domain.AttributeBoreholeType)

	send(t, app, key("tab"))
	assert.Equal(t, domain.AttributeLithology, project.ReprAttribute())
}

func TestApp_HelpRestoresPreviousView(t *testing.T) {
	app, _ := newTestApp(t)
	send(t, app, key("l"))

	send(t, app, key("?"))
	require.Equal(t, messages.ViewHelp, app.CurrentView())
	assert.Contains(t, app.View(), "next attribute")

	send(t, app, key("esc"))
	assert.Equal(t, messages.ViewLegend, app.CurrentView())
}

func TestApp_Reload(t *testing.T) {
	app, project := newTestApp(t)
	require.NoError(t, project.DeleteBorehole(context.Background(), "B2"))

	send(t, app, key("r"))

	assert.NotContains(t, app.View(), "B2")
	assert.Contains(t, app.View(), "2 borehole(s)")
}

func TestApp_ErrorOccurred(t *testing.T) {
	app, _ := newTestApp(t)

	send(t, app, messages.ErrorOccurred{Err: domain.ErrNotFound})

	require.ErrorIs(t, app.Err(), domain.ErrNotFound)
	assert.Contains(t, app.View(), "Error:")
}

func TestApp_Quit(t *testing.T) {
	app, _ := newTestApp(t)

	_, cmd := app.Update(key("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
