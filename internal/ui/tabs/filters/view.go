package filters

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/bikeshare-dashboard-tui/internal/models"
	"github.com/j-veylop/bikeshare-dashboard-tui/internal/ui/components"
	"github.com/j-veylop/bikeshare-dashboard-tui/internal/ui/styles"
)

// View renders the filters tab.
func (m *Model) View() string {
	if m.state.GetDataset() == nil {
		return styles.DocStyle.Render(styles.HelpStyle.Render("Waiting for the dataset..."))
	}

	rows := m.rows()
	cur := rows[m.clampCursor(len(rows))]
	spec := m.state.GetSpec()

	colWidth := max((m.width-10)/2, 36)

	left := lipgloss.JoinVertical(lipgloss.Left,
		m.card(cur, colWidth, m.renderDates(cur, spec), SectionStart, SectionEnd),
		m.card(cur, colWidth, m.renderTiers(cur, spec), SectionTiers),
	)
	right := lipgloss.JoinVertical(lipgloss.Left,
		m.card(cur, colWidth, m.renderWeather(cur, spec), SectionWeather),
		m.card(cur, colWidth, m.renderSeasons(cur, spec), SectionSeasons),
		m.card(cur, colWidth, m.renderPresets(cur), SectionPresets),
	)

	sections := []string{
		styles.TitleStyle.Render("Filters"),
		lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right),
	}

	switch {
	case m.naming:
		sections = append(sections, m.renderNameInput())
	case m.confirmDelete:
		sections = append(sections, styles.WarningTextStyle.Render(
			fmt.Sprintf("Delete preset %q? (y to confirm)", m.deleteName),
		))
	}

	return styles.DocStyle.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

// card wraps body in a card, highlighted when the cursor is in one of sections.
func (m *Model) card(cur row, width int, body string, sections ...Section) string {
	style := styles.CardStyle
	for _, s := range sections {
		if cur.section == s {
			style = styles.FocusedCardStyle
			break
		}
	}
	return style.Width(width).Render(body)
}

func (m *Model) renderDates(cur row, spec models.FilterSpec) string {
	ds := m.state.GetDataset()
	focused := cur.section == SectionStart || cur.section == SectionEnd

	title := styles.BlurredStyle.Render("Date range")
	if focused {
		title = styles.FocusedStyle.Render("Date range")
	}

	lines := []string{
		title,
		m.renderDateRow("Start", spec.Start, cur.section == SectionStart),
		m.renderDateRow("End", spec.End, cur.section == SectionEnd),
		styles.HelpStyle.Render(fmt.Sprintf("  dataset: %s to %s",
			ds.MinDate.Format(models.DateLayout),
			ds.MaxDate.Format(models.DateLayout))),
	}

	if models.Day(spec.Start).After(models.Day(spec.End)) {
		lines = append(lines, styles.WarningTextStyle.Render("  start is after end"))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m *Model) renderDateRow(label string, d time.Time, selected bool) string {
	value := d.Format(models.DateLayout)
	if selected {
		return styles.FocusedStyle.Render("▸ ") +
			fmt.Sprintf("%-6s ", label) +
			styles.FocusedStyle.Render("◂ "+value+" ▸")
	}
	return fmt.Sprintf("  %-6s   %s", label, value)
}

func cursorFor(cur row, section Section) (int, bool) {
	if cur.section != section {
		return -1, false
	}
	return cur.index, true
}

func (m *Model) renderWeather(cur row, spec models.FilterSpec) string {
	labels := m.weatherOptions()
	opts := make([]components.Option, len(labels))
	for i, l := range labels {
		opts[i] = components.Option{Label: l, Checked: spec.HasWeather(l)}
	}
	idx, focused := cursorFor(cur, SectionWeather)
	return components.RenderChecklist("Weather", opts, idx, focused)
}

func (m *Model) renderSeasons(cur row, spec models.FilterSpec) string {
	labels := m.seasonOptions()
	opts := make([]components.Option, len(labels))
	for i, l := range labels {
		opts[i] = components.Option{Label: l, Checked: spec.HasSeason(l)}
	}
	idx, focused := cursorFor(cur, SectionSeasons)
	return components.RenderChecklist("Season", opts, idx, focused)
}

func (m *Model) renderTiers(cur row, spec models.FilterSpec) string {
	opts := make([]components.Option, len(models.AllTiers))
	for i, t := range models.AllTiers {
		opts[i] = components.Option{
			Label:   t.String(),
			Checked: spec.HasTier(t),
			Color:   styles.TierColor(t),
		}
	}
	idx, focused := cursorFor(cur, SectionTiers)
	return components.RenderChecklist("Demand tier", opts, idx, focused)
}

func (m *Model) renderPresets(cur row) string {
	idx, focused := cursorFor(cur, SectionPresets)

	title := styles.BlurredStyle.Render("Presets")
	if focused {
		title = styles.FocusedStyle.Render("Presets")
	}
	lines := []string{title}

	presets := m.state.GetPresets()
	if len(presets) == 0 {
		lines = append(lines, styles.HelpStyle.Render("  none saved, press s to save the current filters"))
	}

	active := m.state.GetSpec()
	for i, p := range presets {
		prefix := "  "
		if focused && i == idx {
			prefix = styles.FocusedStyle.Render("▸ ")
		}
		name := p.Name
		if p.Spec.Equal(active) {
			name = styles.SuccessTextStyle.Render(name + " ✓")
		}
		updated := styles.HelpStyle.Render(p.UpdatedAt.Format("2006-01-02 15:04"))
		lines = append(lines, fmt.Sprintf("%s%s  %s", prefix, name, updated))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m *Model) renderNameInput() string {
	return styles.FocusedCardStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		styles.CardTitleStyle.Render("Save preset"),
		m.nameInput.View(),
		styles.HelpStyle.Render("enter save · esc cancel"),
	))
}
