package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/bikeshare-dashboard-tui/internal/app"
	"github.com/j-veylop/bikeshare-dashboard-tui/internal/export"
	"github.com/j-veylop/bikeshare-dashboard-tui/internal/models"
	"github.com/j-veylop/bikeshare-dashboard-tui/internal/ui/components"
	"github.com/j-veylop/bikeshare-dashboard-tui/internal/ui/styles"
)

// View renders the dashboard component.
func (m *Model) View() string {
	if m.state.IsInitialLoading() {
		return m.renderLoading()
	}

	sections := []string{m.renderTitle()}

	d := m.state.GetDashboard()
	switch {
	case m.state.IsEmpty():
		sections = append(sections, m.renderEmpty())
	case d == nil:
		s := m.spinner
		s.SetLabel("Computing...")
		sections = append(sections, s.ViewWithLabel())
	default:
		sections = append(sections,
			m.renderMetrics(d),
			m.renderShare(d),
			m.renderTrend(d),
			m.renderHourly(d),
		)
	}

	sections = append(sections, m.renderExportHint())

	m.viewport.SetContent(lipgloss.JoinVertical(lipgloss.Left, sections...))

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderLoading() string {
	return components.RenderSpinnerCentered(m.spinner, m.width, m.height)
}

func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Bike Sharing Dashboard")
	subtitle := styles.HelpStyle.Render(components.FilterSummary(m.state.GetSpec()))

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) cardWidth() int {
	return max(m.width-6, 40)
}

func (m *Model) renderEmpty() string {
	icon := lipgloss.NewStyle().Foreground(styles.Warning).Render("○")
	rows := []string{
		fmt.Sprintf("%s %s", icon, styles.WarningTextStyle.Render(app.EmptyResultMessage)),
		"",
		styles.InfoTextStyle.Render("  ╰─▶ Widen the date range or select more categories on the Filters tab"),
	}
	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderMetrics(d *models.Dashboard) string {
	cards := []struct {
		label string
		value int
	}{
		{"Total daily rentals", d.TotalDaily},
		{"Total hourly rentals", d.TotalHourly},
		{"Records in view", d.Records},
	}

	width := max((m.cardWidth()-4)/len(cards), 20)

	rendered := make([]string, 0, len(cards))
	for _, c := range cards {
		body := lipgloss.JoinVertical(lipgloss.Left,
			styles.MetricValueStyle.Render(components.FormatCount(c.value)),
			styles.MetricLabelStyle.Render(c.label),
		)
		rendered = append(rendered, styles.CardStyle.Width(width).Render(body))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m *Model) renderShare(d *models.Dashboard) string {
	total := m.state.GetDataset().Len()
	title := styles.CardTitleStyle.Render("Filter coverage")
	bar := m.shareBar.View(d.Records, total, "Records", m.cardWidth()-6)

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, bar),
	)
}

func (m *Model) renderTrend(d *models.Dashboard) string {
	values := make([]float64, len(d.DailyTrend))
	for i, p := range d.DailyTrend {
		values[i] = float64(p.Total)
	}

	caption := "daily rentals"
	if n := len(d.DailyTrend); n > 0 {
		caption = fmt.Sprintf("daily rentals, %s to %s",
			d.DailyTrend[0].Date.Format(models.DateLayout),
			d.DailyTrend[n-1].Date.Format(models.DateLayout))
	}

	chart := components.RenderLineChart(values, m.cardWidth()-16, 8, caption)

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			styles.CardTitleStyle.Render("Daily trend"),
			chart,
		),
	)
}

func (m *Model) renderHourly(d *models.Dashboard) string {
	title := styles.CardTitleStyle.Render("Hourly profile")

	if len(d.HourlyProfile) == 0 {
		return styles.CardStyle.Width(m.cardWidth()).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, styles.HelpStyle.Render("No hourly rows in view")),
		)
	}

	hours := make([]float64, 24)
	bars := make([]components.Bar, 0, len(d.HourlyProfile))
	for _, p := range d.HourlyProfile {
		if p.Hour >= 0 && p.Hour < len(hours) {
			hours[p.Hour] = float64(p.Total)
		}
		bars = append(bars, components.Bar{
			Label: fmt.Sprintf("%02dh", p.Hour),
			Value: float64(p.Total),
		})
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			title,
			components.RenderHourlyHeatmap(hours),
			"",
			components.RenderBarChart(bars, m.cardWidth()-6, "%.0f"),
		),
	)
}

func (m *Model) renderExportHint() string {
	formats := make([]string, 0, len(export.Formats))
	for _, f := range export.Formats {
		if f == m.format {
			formats = append(formats, styles.FocusedStyle.Render(strings.ToUpper(string(f))))
		} else {
			formats = append(formats, styles.BlurredStyle.Render(string(f)))
		}
	}
	return styles.HelpStyle.Render("Export format: ") + strings.Join(formats, " ")
}
