// Package segments provides the tab that breaks the filtered view down by
// weather, season and demand tier.
package segments

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/bikeshare-dashboard-tui/internal/app"
)

// Breakdown selects which category the tier chart is grouped by.
type Breakdown int

const (
	// BySeason groups tier counts by season.
	BySeason Breakdown = iota
	// ByWeather groups tier counts by weather.
	ByWeather
)

func (b Breakdown) String() string {
	if b == ByWeather {
		return "weather"
	}
	return "season"
}

type keyMap struct {
	Toggle key.Binding
	Up     key.Binding
	Down   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Toggle: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "season/weather"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll down"),
		),
	}
}

// Model represents the segments tab state.
type Model struct {
	state     *app.State
	keys      keyMap
	viewport  viewport.Model
	breakdown Breakdown
	width     int
	height    int
}

// New creates a new segments model.
func New(state *app.State) *Model {
	return &Model{
		state:    state,
		keys:     defaultKeyMap(),
		viewport: viewport.New(0, 0),
	}
}

// Init initializes the segments tab.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Breakdown returns the active tier grouping.
func (m *Model) Breakdown() Breakdown {
	return m.breakdown
}

// Update handles messages for the segments tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if key.Matches(keyMsg, m.keys.Toggle) {
		m.breakdown = (m.breakdown + 1) % 2
		m.viewport.GotoTop()
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(keyMsg)
	return m, cmd
}

// SetSize sets the available size for the tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.Toggle, m.keys.Down}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Toggle},
		{m.keys.Up, m.keys.Down},
	}
}
