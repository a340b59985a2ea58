package segments

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/bikeshare-dashboard-tui/internal/app"
	"github.com/j-veylop/bikeshare-dashboard-tui/internal/models"
	"github.com/j-veylop/bikeshare-dashboard-tui/internal/ui/components"
	"github.com/j-veylop/bikeshare-dashboard-tui/internal/ui/styles"
)

// View renders the segments tab.
func (m *Model) View() string {
	sections := []string{
		styles.TitleStyle.Render("Segments"),
	}

	d := m.state.GetDashboard()
	switch {
	case m.state.IsEmpty():
		sections = append(sections, styles.CardStyle.Width(m.cardWidth()).Render(
			styles.WarningTextStyle.Render(app.EmptyResultMessage),
		))
	case d == nil:
		sections = append(sections, styles.HelpStyle.Render("Waiting for data..."))
	default:
		sections = append(sections,
			m.renderWeatherMeans(d),
			m.renderTierBreakdown(d),
		)
	}

	m.viewport.SetContent(lipgloss.JoinVertical(lipgloss.Left, sections...))

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) cardWidth() int {
	return max(m.width-6, 40)
}

func (m *Model) renderWeatherMeans(d *models.Dashboard) string {
	bars := make([]components.Bar, 0, len(d.WeatherMeans))
	for _, w := range d.WeatherMeans {
		bars = append(bars, components.Bar{Label: w.Weather, Value: w.Mean})
	}

	body := components.RenderBarChart(bars, m.cardWidth()-6, "%.1f")
	if len(bars) == 0 {
		body = styles.HelpStyle.Render("No hourly rows in view")
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			styles.CardTitleStyle.Render("Mean hourly rentals by weather"),
			body,
		),
	)
}

func (m *Model) renderTierBreakdown(d *models.Dashboard) string {
	counts := d.SeasonDemand
	if m.breakdown == ByWeather {
		counts = d.WeatherDemand
	}

	title := styles.CardTitleStyle.Render(fmt.Sprintf("Demand tiers by %s", m.breakdown))
	toggle := styles.HelpStyle.Render("press b to group by " + m.other())

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			title,
			tierLegend(counts, d.TierRanges),
			"",
			components.RenderGroupedBars(groupByCategory(counts), m.cardWidth()-6, "%.0f"),
			"",
			toggle,
		),
	)
}

func (m *Model) other() string {
	return ((m.breakdown + 1) % 2).String()
}

// groupByCategory turns (category, tier) counts into one bar group per
// category, keeping the order in which categories first appear.
func groupByCategory(counts []models.SegmentCount) []components.BarGroup {
	var groups []components.BarGroup
	index := make(map[string]int)

	for _, c := range counts {
		i, ok := index[c.Category]
		if !ok {
			i = len(groups)
			index[c.Category] = i
			groups = append(groups, components.BarGroup{Label: c.Category})
		}
		groups[i].Bars = append(groups[i].Bars, components.Bar{
			Label: c.Tier.String(),
			Value: float64(c.Count),
			Color: styles.TierColor(c.Tier),
		})
	}

	return groups
}

// tierLegend labels each tier with its record count and daily-count span.
func tierLegend(counts []models.SegmentCount, ranges []models.TierRange) string {
	totals := make(map[models.DemandTier]int)
	for _, c := range counts {
		totals[c.Tier] += c.Count
	}
	spans := make(map[models.DemandTier]models.TierRange)
	for _, r := range ranges {
		spans[r.Tier] = r
	}

	items := make([]components.LegendItem, 0, len(models.AllTiers))
	for _, t := range models.AllTiers {
		label := fmt.Sprintf("%s (%s)", t, components.FormatCount(totals[t]))
		if r, ok := spans[t]; ok {
			label += fmt.Sprintf(" %s-%s/day", components.FormatCount(r.Min), components.FormatCount(r.Max))
		}
		items = append(items, components.LegendItem{
			Label: label,
			Color: styles.TierColor(t),
		})
	}
	return strings.TrimSpace(components.RenderLegend(items))
}
