package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/borehole-cli/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/borehole-cli/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/borehole-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/borehole-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/borehole-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/borehole-cli/internal/core/domain"
	"github.com/custodia-labs/borehole-cli/internal/core/services"
)

// chrome is the number of lines taken by the header and status bar.
const chrome = 4

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	styles *styles.Styles
	keymap *keymap.KeyMap

	// list is the borehole list of the main view.
	list *list.BoreholeList

	// status is the bottom status bar.
	status *status.Bar

	// attributes and scene are the last project snapshot.
	attributes []string
	scene      domain.Scene

	// currentView tracks which view is active.
	currentView messages.ViewType

	// previousView is restored when leaving the help view.
	previousView messages.ViewType

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:       ports,
		ctx:         context.Background(),
		styles:      s,
		keymap:      km,
		list:        list.NewBoreholeList(s),
		status:      status.NewBar(s, km),
		currentView: messages.ViewBoreholes,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	a.status.SetState(status.StateLoading)
	return tea.Batch(
		tea.SetWindowTitle("borehole"),
		a.loadProject(),
	)
}

// Update implements tea.Model.
//
//nolint:gocyclo // central message handler
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case messages.ProjectLoaded:
		if msg.Err != nil {
			return a, a.fail(msg.Err)
		}
		a.err = nil
		a.attributes = msg.Attributes
		a.scene = msg.Scene
		a.list.SetBoreholes(msg.Boreholes)
		a.status.Clear()
		a.status.SetCount(len(msg.Boreholes))
		a.status.SetAttribute(msg.Scene.Attribute)
		a.syncStatusState()
		return a, nil

	case messages.AttributeChanged:
		if msg.Err != nil {
			return a, a.fail(msg.Err)
		}
		return a, a.loadProject()

	case messages.ErrorOccurred:
		a.err = msg.Err
		a.status.SetState(status.StateError)
		a.status.SetMessage(msg.Err.Error())
		return a, nil

	case messages.ViewChanged:
		a.switchView(msg.View)
		return a, nil

	case messages.Quit:
		return a, tea.Quit

	case tea.KeyMsg:
		return a, a.handleKey(msg.String())
	}

	return a, nil
}

func (a *App) handleKey(k string) tea.Cmd {
	km := a.keymap
	if k == "ctrl+c" {
		return tea.Quit
	}

	if a.currentView == messages.ViewHelp {
		if keymap.Matches(k, km.Back) || keymap.Matches(k, km.Help) {
			a.switchView(a.previousView)
		} else if keymap.Matches(k, km.Quit) {
			return tea.Quit
		}
		return nil
	}

	switch {
	case keymap.Matches(k, km.Quit):
		return tea.Quit
	case keymap.Matches(k, km.Help):
		a.switchView(messages.ViewHelp)
	case keymap.Matches(k, km.NextAttribute):
		return a.cycleAttribute(1)
	case keymap.Matches(k, km.PrevAttribute):
		return a.cycleAttribute(-1)
	case keymap.Matches(k, km.Reload):
		a.status.SetState(status.StateLoading)
		return a.reloadProject()
	case keymap.Matches(k, km.Up):
		a.list.MoveUp()
	case keymap.Matches(k, km.Down):
		a.list.MoveDown()
	case keymap.Matches(k, km.Back):
		a.switchView(messages.ViewBoreholes)
	case keymap.Matches(k, km.Select):
		if _, ok := a.list.Selected(); ok && a.currentView == messages.ViewBoreholes {
			a.switchView(messages.ViewDetail)
		}
	case keymap.Matches(k, km.Legend):
		if a.currentView == messages.ViewLegend {
			a.switchView(messages.ViewBoreholes)
		} else {
			a.switchView(messages.ViewLegend)
		}
	}
	return nil
}

func (a *App) switchView(view messages.ViewType) {
	if view == messages.ViewHelp && a.currentView != messages.ViewHelp {
		a.previousView = a.currentView
	}
	a.currentView = view
	a.syncStatusState()
}

func (a *App) syncStatusState() {
	if a.err != nil {
		return
	}
	switch a.currentView {
	case messages.ViewHelp:
		a.status.SetState(status.StateHelp)
	case messages.ViewDetail:
		a.status.SetState(status.StateDetail)
	case messages.ViewBoreholes, messages.ViewLegend:
		a.status.SetState(status.StateReady)
	}
}

func (a *App) fail(err error) tea.Cmd {
	return func() tea.Msg {
		return messages.ErrorOccurred{Err: err}
	}
}

// loadProject snapshots the project without touching the store.
func (a *App) loadProject() tea.Cmd {
	project := a.ports.Project
	return func() tea.Msg {
		scene, err := project.Scene()
		return messages.ProjectLoaded{
			Boreholes:  project.Boreholes(),
			Attributes: project.Attributes(),
			Scene:      scene,
			Err:        err,
		}
	}
}

// reloadProject re-reads the store before taking a snapshot.
func (a *App) reloadProject() tea.Cmd {
	ctx, project, load := a.ctx, a.ports.Project, a.loadProject()
	return func() tea.Msg {
		if err := project.Refresh(ctx, true, true); err != nil {
			return messages.ProjectLoaded{Err: err}
		}
		return load()
	}
}

// cycleAttribute switches the display attribute by step positions in the
// attribute list, wrapping around.
func (a *App) cycleAttribute(step int) tea.Cmd {
	n := len(a.attributes)
	if n == 0 {
		return nil
	}
	current := -1
	for i, attr := range a.attributes {
		if strings.EqualFold(attr, a.ports.Project.ReprAttribute()) {
			current = i
			break
		}
	}
	next := a.attributes[0]
	if current >= 0 {
		next = a.attributes[((current+step)%n+n)%n]
	}

	ctx, project := a.ctx, a.ports.Project
	return func() tea.Msg {
		err := project.SetReprAttribute(ctx, next)
		return messages.AttributeChanged{Attribute: next, Err: err}
	}
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var body string
	switch a.currentView {
	case messages.ViewDetail:
		body = a.viewDetail()
	case messages.ViewLegend:
		body = a.viewLegend()
	case messages.ViewHelp:
		body = a.viewHelp()
	case messages.ViewBoreholes:
		body = a.list.View()
	}

	header := a.styles.Title.Render("Boreholes")
	if a.scene.Attribute != "" {
		header += a.styles.Muted.Render("  coloured by " + a.scene.Attribute)
	}
	return header + "\n\n" + body + "\n\n" + a.status.View()
}

// viewDetail renders the selected borehole as a coloured strip, top first.
func (a *App) viewDetail() string {
	bh, ok := a.list.Selected()
	if !ok {
		return a.styles.Muted.Render("No borehole selected.")
	}

	var b strings.Builder
	b.WriteString(a.styles.Subtitle.Render(bh.ID))
	b.WriteString(a.styles.Muted.Render(fmt.Sprintf("  length %.2f m  Ø %.2f m", bh.Length, bh.Diameter)))
	b.WriteString("\n\n")

	g, ok := a.geometry(bh.ID)
	if !ok || len(g.Segments) == 0 {
		b.WriteString(a.styles.Muted.Render("No intervals."))
		return b.String()
	}

	attr := a.scene.Attribute
	scalars := g.Scalars[attr]
	spec := g.Legends[attr]
	for i, seg := range g.Segments {
		hex, label := "", domain.DefaultAttributeValue
		if i < len(scalars) {
			idx := scalars[i]
			if idx >= 0 && idx < spec.Cmap.Len() {
				hex = spec.Cmap.Colors[idx].Hex()
			}
			if idx >= 0 && idx < len(spec.Values) {
				label = spec.Values[idx]
			}
		}
		fmt.Fprintf(&b, "%s %8.2f  %8.2f  %s\n",
			a.styles.Swatch(hex, 4),
			g.Vertices[seg[0]].Z, g.Vertices[seg[1]].Z,
			a.styles.Normal.Render(label))
	}
	return strings.TrimRight(b.String(), "\n")
}

// viewLegend renders the project legend of the display attribute.
func (a *App) viewLegend() string {
	spec := a.scene.Legend
	if len(spec.Values) == 0 {
		return a.styles.Muted.Render("No legend for " + a.scene.Attribute + ".")
	}

	labels := services.AttribAnnotations(spec).Labels
	var b strings.Builder
	b.WriteString(a.styles.Subtitle.Render("Legend"))
	b.WriteString("\n\n")
	for i, label := range labels {
		hex := ""
		if i < spec.Cmap.Len() {
			hex = spec.Cmap.Colors[i].Hex()
		}
		fmt.Fprintf(&b, "%s %s\n", a.styles.Swatch(hex, 4), a.styles.Normal.Render(label))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (a *App) viewHelp() string {
	var b strings.Builder
	b.WriteString(a.styles.Subtitle.Render("Help"))
	b.WriteString("\n")
	for _, group := range a.keymap.FullHelp() {
		b.WriteString("\n")
		for _, binding := range group {
			h := binding.Help()
			fmt.Fprintf(&b, "  %-12s %s\n", h.Key, h.Desc)
		}
	}
	b.WriteString("\n")
	b.WriteString(a.styles.Muted.Render("[esc] back"))
	return b.String()
}

func (a *App) geometry(id string) (domain.BoreholeGeometry, bool) {
	for _, g := range a.scene.Boreholes {
		if g.Name == id {
			return g, true
		}
	}
	return domain.BoreholeGeometry{}, false
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has received its first window size.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions and resizes components.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.status.SetWidth(width)
	a.list.SetDimensions(width, height-chrome)
}
