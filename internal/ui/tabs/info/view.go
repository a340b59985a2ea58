package info

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/bikeshare-dashboard-tui/internal/models"
	"github.com/j-veylop/bikeshare-dashboard-tui/internal/ui/components"
	"github.com/j-veylop/bikeshare-dashboard-tui/internal/ui/styles"
	"github.com/j-veylop/bikeshare-dashboard-tui/internal/version"
)

// View renders the info tab.
func (m *Model) View() string {
	sections := []string{
		m.renderTitle(),
		m.renderDatasetCard(),
		m.renderHistoryCard(),
		m.renderConfigCard(),
		m.renderAboutCard(),
	}

	m.viewport.SetContent(lipgloss.JoinVertical(lipgloss.Left, sections...))

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Info")
	subtitle := styles.HelpStyle.Render("Dataset, configuration and application information")

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) cardWidth() int {
	return min(max(m.width-6, 50), 90)
}

func (m *Model) renderDatasetCard() string {
	rows := []string{styles.CardTitleStyle.Render("Dataset")}

	ds := m.state.GetDataset()
	if ds == nil {
		rows = append(rows, styles.HelpStyle.Render("Not loaded yet"))
	} else {
		rows = append(rows,
			renderRow("File", ds.Path),
			renderRow("Rows", components.FormatCount(ds.Len())),
			renderRow("Span", fmt.Sprintf("%s to %s",
				ds.MinDate.Format(models.DateLayout),
				ds.MaxDate.Format(models.DateLayout))),
			renderRow("Weather", fmt.Sprintf("%d categories", len(ds.WeatherLabels()))),
			renderRow("Seasons", fmt.Sprintf("%d categories", len(ds.SeasonLabels()))),
			renderRow("Loaded at", ds.LoadedAt.Format(time.DateTime)),
		)
	}

	if r := m.state.GetResult(); r != nil {
		rows = append(rows, renderRow("Last compute", r.Duration.Round(time.Microsecond).String()))
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderHistoryCard() string {
	entries := m.state.GetLoadHistory()
	rows := []string{styles.CardTitleStyle.Render("Load history")}

	if len(entries) == 0 {
		rows = append(rows, styles.HelpStyle.Render("No loads recorded"))
		return styles.CardStyle.Width(m.cardWidth()).Render(
			lipgloss.JoinVertical(lipgloss.Left, rows...),
		)
	}

	tableRows := make([]table.Row, 0, len(entries))
	// Entries are newest first; the sparkline reads left to right in time.
	sizes := make([]float64, len(entries))
	for i, e := range entries {
		tableRows = append(tableRows, table.Row{
			e.LoadedAt.Format(time.DateTime),
			components.FormatCount(e.Rows),
			(time.Duration(e.DurationMs) * time.Millisecond).String(),
			filepath.Base(e.Path),
		})
		sizes[len(entries)-1-i] = float64(e.Rows)
	}
	m.history.SetRows(tableRows)
	m.history.SetHeight(len(tableRows) + 2)

	rows = append(rows,
		m.history.View(),
		"",
		styles.HelpStyle.Render("rows per load: ")+components.RenderSparkline(sizes, 30),
	)

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderConfigCard() string {
	rows := []string{styles.CardTitleStyle.Render("Configuration")}

	if m.config == nil {
		rows = append(rows, styles.HelpStyle.Render("Configuration not loaded"))
	} else {
		metricsAddr := m.config.MetricsAddr
		if metricsAddr == "" {
			metricsAddr = "disabled"
		}
		logFile := m.config.LogFile
		if logFile == "" {
			logFile = "stderr"
		}

		rows = append(rows,
			renderRow("Data file", m.config.DataPath),
			renderRow("Database", m.config.DatabasePath),
			renderRow("Export dir", m.config.ExportDir),
			renderRow("Export format", m.config.ExportFormat),
			renderRow("Watch data", strconv.FormatBool(m.config.WatchData)),
			renderRow("Reload debounce", m.config.ReloadDebounce.String()),
			renderRow("Notify on reload", strconv.FormatBool(m.config.NotifyOnReload)),
			renderRow("Metrics", metricsAddr),
			renderRow("Log level", m.config.LogLevel),
			renderRow("Log file", logFile),
		)
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func renderRow(label, value string) string {
	labelStyle := lipgloss.NewStyle().
		Width(18).
		Foreground(styles.TextMuted)

	valueStyle := lipgloss.NewStyle().
		Foreground(styles.TextPrimary)

	return labelStyle.Render(label+":") + " " + valueStyle.Render(value)
}

func (m *Model) renderAboutCard() string {
	rows := []string{
		styles.CardTitleStyle.Render("About"),
		renderRow("Version", version.GetVersion()),
		renderRow("Commit", version.GetCommit()),
		renderRow("Build date", version.GetDate()),
		renderRow("Go version", runtime.Version()),
		renderRow("Platform", fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)),
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}
