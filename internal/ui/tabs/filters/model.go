// Package filters provides the tab for editing the active filters and
// managing saved presets.
package filters

import (
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/bikeshare-dashboard-tui/internal/app"
	"github.com/j-veylop/bikeshare-dashboard-tui/internal/models"
)

// Section is a group of rows on the filters tab.
type Section int

const (
	// SectionStart is the start date row.
	SectionStart Section = iota
	// SectionEnd is the end date row.
	SectionEnd
	// SectionWeather is the weather checklist.
	SectionWeather
	// SectionSeasons is the season checklist.
	SectionSeasons
	// SectionTiers is the demand tier checklist.
	SectionTiers
	// SectionPresets is the saved preset list.
	SectionPresets
)

// row is one selectable line. index points into the section's options.
type row struct {
	section Section
	index   int
}

// keyMap defines the key bindings specific to the filters tab.
type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Prev     key.Binding
	Next     key.Binding
	PrevMany key.Binding
	NextMany key.Binding
	Toggle   key.Binding
	All      key.Binding
	Apply    key.Binding
	Save     key.Binding
	Delete   key.Binding
	Reset    key.Binding
	Confirm  key.Binding
	Cancel   key.Binding
}

// defaultKeyMap returns the default key bindings for the filters tab.
func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Prev: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "date -1 day"),
		),
		Next: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "date +1 day"),
		),
		PrevMany: key.NewBinding(
			key.WithKeys("H", "pgup"),
			key.WithHelp("H", "date -30 days"),
		),
		NextMany: key.NewBinding(
			key.WithKeys("L", "pgdown"),
			key.WithHelp("L", "date +30 days"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "x"),
			key.WithHelp("space", "toggle"),
		),
		All: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "all/none"),
		),
		Apply: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "apply preset"),
		),
		Save: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "save preset"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d", "delete"),
			key.WithHelp("d", "delete preset"),
		),
		Reset: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "reset filters"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "confirm"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
	}
}

const (
	dayStep   = 1
	monthStep = 30
)

// Model represents the filters tab state.
type Model struct {
	state         *app.State
	keys          keyMap
	nameInput     textinput.Model
	naming        bool
	confirmDelete bool
	deleteName    string
	cursor        int
	width         int
	height        int
}

// New creates a new filters model.
func New(state *app.State) *Model {
	input := textinput.New()
	input.Placeholder = "preset name"
	input.CharLimit = 40
	input.Width = 30

	return &Model{
		state:     state,
		keys:      defaultKeyMap(),
		nameInput: input,
	}
}

// Init initializes the filters tab.
func (m *Model) Init() tea.Cmd {
	return nil
}

// CapturingInput reports whether the preset name field owns the keyboard.
func (m *Model) CapturingInput() bool {
	return m.naming
}

// Focused returns the section under the cursor.
func (m *Model) Focused() Section {
	rows := m.rows()
	if len(rows) == 0 {
		return SectionStart
	}
	return rows[m.clampCursor(len(rows))].section
}

// Update handles messages for the filters tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	if m.naming {
		return m, m.updateNaming(msg)
	}
	if m.confirmDelete {
		return m, m.updateDeleteConfirm(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKeyMsg(msg)
	case app.DatasetReloadedMsg, app.PresetsLoadedMsg:
		m.cursor = m.clampCursor(len(m.rows()))
	}

	return m, nil
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	rows := m.rows()
	m.cursor = m.clampCursor(len(rows))
	current := rows[m.cursor]

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(rows)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Prev):
		return m.stepDate(current.section, -dayStep)
	case key.Matches(msg, m.keys.Next):
		return m.stepDate(current.section, dayStep)
	case key.Matches(msg, m.keys.PrevMany):
		return m.stepDate(current.section, -monthStep)
	case key.Matches(msg, m.keys.NextMany):
		return m.stepDate(current.section, monthStep)
	case key.Matches(msg, m.keys.Toggle):
		return m.toggle(current)
	case key.Matches(msg, m.keys.All):
		return m.toggleAll(current.section)
	case key.Matches(msg, m.keys.Apply):
		if current.section == SectionPresets {
			return m.applyPreset(current.index)
		}
		return m.toggle(current)
	case key.Matches(msg, m.keys.Save):
		m.naming = true
		m.nameInput.SetValue("")
		m.nameInput.Focus()
		return textinput.Blink
	case key.Matches(msg, m.keys.Delete):
		if current.section == SectionPresets {
			presets := m.state.GetPresets()
			if current.index < len(presets) {
				m.confirmDelete = true
				m.deleteName = presets[current.index].Name
			}
		}
	case key.Matches(msg, m.keys.Reset):
		return func() tea.Msg { return app.ResetFiltersMsg{} }
	}

	return nil
}

func (m *Model) updateNaming(msg tea.Msg) tea.Cmd {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.Type {
		case tea.KeyEsc:
			m.stopNaming()
			return nil
		case tea.KeyEnter:
			name := strings.TrimSpace(m.nameInput.Value())
			if name == "" {
				return nil
			}
			m.stopNaming()
			return func() tea.Msg { return app.SavePresetMsg{Name: name} }
		}
	}

	var cmd tea.Cmd
	m.nameInput, cmd = m.nameInput.Update(msg)
	return cmd
}

func (m *Model) stopNaming() {
	m.naming = false
	m.nameInput.Blur()
}

func (m *Model) updateDeleteConfirm(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	name := m.deleteName
	m.confirmDelete = false
	m.deleteName = ""

	if key.Matches(keyMsg, m.keys.Confirm) {
		return func() tea.Msg { return app.DeletePresetMsg{Name: name} }
	}
	return nil
}

// rows lists every selectable line in display order.
func (m *Model) rows() []row {
	rows := []row{{section: SectionStart}, {section: SectionEnd}}

	for i := range m.weatherOptions() {
		rows = append(rows, row{section: SectionWeather, index: i})
	}
	for i := range m.seasonOptions() {
		rows = append(rows, row{section: SectionSeasons, index: i})
	}
	for i := range models.AllTiers {
		rows = append(rows, row{section: SectionTiers, index: i})
	}
	for i := range m.state.GetPresets() {
		rows = append(rows, row{section: SectionPresets, index: i})
	}

	return rows
}

func (m *Model) clampCursor(n int) int {
	return min(max(m.cursor, 0), max(n-1, 0))
}

func (m *Model) weatherOptions() []string {
	ds := m.state.GetDataset()
	if ds == nil {
		return nil
	}
	return ds.WeatherLabels()
}

func (m *Model) seasonOptions() []string {
	ds := m.state.GetDataset()
	if ds == nil {
		return nil
	}
	return ds.SeasonLabels()
}

func changed(spec models.FilterSpec) tea.Cmd {
	return func() tea.Msg { return app.FiltersChangedMsg{Spec: spec} }
}

// stepDate moves the start or end date by days, staying inside the dataset span.
func (m *Model) stepDate(section Section, days int) tea.Cmd {
	if section != SectionStart && section != SectionEnd {
		return nil
	}
	ds := m.state.GetDataset()
	if ds == nil || ds.Len() == 0 {
		return nil
	}

	spec := m.state.GetSpec()
	target := &spec.Start
	if section == SectionEnd {
		target = &spec.End
	}

	next := clampDate(target.AddDate(0, 0, days), ds.MinDate, ds.MaxDate)
	if models.Day(next).Equal(models.Day(*target)) {
		return nil
	}
	*target = next

	return changed(spec)
}

func clampDate(d, lo, hi time.Time) time.Time {
	if d.Before(lo) {
		return lo
	}
	if d.After(hi) {
		return hi
	}
	return d
}

func (m *Model) toggle(r row) tea.Cmd {
	spec := m.state.GetSpec()

	switch r.section {
	case SectionWeather:
		opts := m.weatherOptions()
		if r.index >= len(opts) {
			return nil
		}
		spec.ToggleWeather(opts[r.index])
	case SectionSeasons:
		opts := m.seasonOptions()
		if r.index >= len(opts) {
			return nil
		}
		spec.ToggleSeason(opts[r.index])
	case SectionTiers:
		spec.ToggleTier(models.AllTiers[r.index])
	default:
		return nil
	}

	return changed(spec)
}

// toggleAll selects every option in a checklist, or clears it when all are
// already selected.
func (m *Model) toggleAll(section Section) tea.Cmd {
	spec := m.state.GetSpec()

	switch section {
	case SectionWeather:
		spec.Weather = selectAllOrNone(spec.Weather, m.weatherOptions())
	case SectionSeasons:
		spec.Seasons = selectAllOrNone(spec.Seasons, m.seasonOptions())
	case SectionTiers:
		spec.Tiers = selectAllOrNone(spec.Tiers, models.AllTiers)
	default:
		return nil
	}

	return changed(spec)
}

func selectAllOrNone[T comparable](selected, options []T) []T {
	for _, o := range options {
		if !slices.Contains(selected, o) {
			return slices.Clone(options)
		}
	}
	return []T{}
}

func (m *Model) applyPreset(index int) tea.Cmd {
	presets := m.state.GetPresets()
	if index >= len(presets) {
		return nil
	}
	preset := presets[index]
	return func() tea.Msg { return app.ApplyPresetMsg{Preset: preset} }
}

// SetSize sets the available size for the tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	if m.naming {
		return []key.Binding{m.keys.Cancel}
	}
	return []key.Binding{m.keys.Toggle, m.keys.Prev, m.keys.Next, m.keys.Save, m.keys.Reset}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Up, m.keys.Down},
		{m.keys.Prev, m.keys.Next, m.keys.PrevMany, m.keys.NextMany},
		{m.keys.Toggle, m.keys.All, m.keys.Reset},
		{m.keys.Save, m.keys.Apply, m.keys.Delete},
	}
}
