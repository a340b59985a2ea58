// Package components provides reusable UI components for the TUI.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/j-veylop/bikeshare-dashboard-tui/internal/ui/styles"
)

// NoDataText is rendered in place of a chart with nothing to plot.
const NoDataText = "No data available"

// Bar is one row of a horizontal bar chart.
type Bar struct {
	Label string
	Value float64
	Color lipgloss.Color
}

// BarGroup is a labelled set of bars rendered together.
type BarGroup struct {
	Label string
	Bars  []Bar
}

// RenderLineChart creates a single-series ASCII line chart.
func RenderLineChart(data []float64, width, height int, caption string) string {
	if len(data) == 0 {
		return styles.HelpStyle.Render(NoDataText)
	}

	width = max(width, 20)
	height = max(height, 3)

	// asciigraph needs two points to draw a line.
	if len(data) == 1 {
		data = []float64{data[0], data[0]}
	}

	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Precision(0),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(asciigraph.Green),
	)
}

// RenderBarChart creates a horizontal bar chart. valueFormat is applied to
// each value, for example "%.0f" or "%.1f".
func RenderBarChart(bars []Bar, width int, valueFormat string) string {
	if len(bars) == 0 {
		return styles.HelpStyle.Render(NoDataText)
	}

	maxVal := 0.0
	maxLabelLen := 0
	maxValueLen := 0
	for _, b := range bars {
		maxVal = max(maxVal, b.Value)
		maxLabelLen = max(maxLabelLen, lipgloss.Width(b.Label))
		maxValueLen = max(maxValueLen, len(fmt.Sprintf(valueFormat, b.Value)))
	}
	if maxVal == 0 {
		maxVal = 1
	}

	barWidth := max(width-maxLabelLen-maxValueLen-4, 10)

	lines := make([]string, 0, len(bars))
	for _, b := range bars {
		lines = append(lines, renderBarLine(b, maxVal, maxLabelLen, barWidth, valueFormat))
	}

	return strings.Join(lines, "\n")
}

func renderBarLine(b Bar, maxVal float64, labelWidth, barWidth int, valueFormat string) string {
	label := fmt.Sprintf("%*s", labelWidth, b.Label)

	barLen := max(int((b.Value/maxVal)*float64(barWidth)), 0)
	if b.Value > 0 && barLen == 0 {
		barLen = 1
	}

	color := b.Color
	if color == "" {
		color = styles.Primary
	}
	bar := lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", barLen))

	return label + " │" + bar + " " + fmt.Sprintf(valueFormat, b.Value)
}

// RenderGroupedBars renders one block of bars per group, all scaled to the
// largest value across groups so lengths stay comparable.
func RenderGroupedBars(groups []BarGroup, width int, valueFormat string) string {
	if len(groups) == 0 {
		return styles.HelpStyle.Render(NoDataText)
	}

	maxVal := 0.0
	maxLabelLen := 0
	maxValueLen := 0
	for _, g := range groups {
		for _, b := range g.Bars {
			maxVal = max(maxVal, b.Value)
			maxLabelLen = max(maxLabelLen, lipgloss.Width(b.Label))
			maxValueLen = max(maxValueLen, len(fmt.Sprintf(valueFormat, b.Value)))
		}
	}
	if maxVal == 0 {
		maxVal = 1
	}

	barWidth := max(width-maxLabelLen-maxValueLen-6, 10)

	var lines []string
	for i, g := range groups {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, styles.SubTitleStyle.Render(g.Label))
		for _, b := range g.Bars {
			lines = append(lines, "  "+renderBarLine(b, maxVal, maxLabelLen, barWidth, valueFormat))
		}
	}

	return strings.Join(lines, "\n")
}

// HeatmapBlocks are Unicode block characters for heatmaps (low to high intensity).
var HeatmapBlocks = []rune{'░', '▒', '▓', '█'}

// RenderHourlyHeatmap creates a 24-hour intensity strip. Values are indexed by hour.
func RenderHourlyHeatmap(values []float64) string {
	hours := make([]float64, 24)
	copy(hours, values)

	maxVal := 0.0
	for _, v := range hours {
		maxVal = max(maxVal, v)
	}
	if maxVal == 0 {
		maxVal = 1
	}

	var result strings.Builder
	result.WriteString("00 ")

	for i, v := range hours {
		intensity := int((v / maxVal) * float64(len(HeatmapBlocks)-1))
		intensity = min(max(intensity, 0), len(HeatmapBlocks)-1)

		var style lipgloss.Style
		switch intensity {
		case 0:
			style = lipgloss.NewStyle().Foreground(styles.Subtle)
		case 1:
			style = lipgloss.NewStyle().Foreground(styles.TierLowColor)
		case 2:
			style = lipgloss.NewStyle().Foreground(styles.TierMediumColor)
		default:
			style = lipgloss.NewStyle().Foreground(styles.TierHighColor)
		}

		result.WriteString(style.Render(string(HeatmapBlocks[intensity])))

		// Gap at noon
		if i == 11 {
			result.WriteString(" ")
		}
	}

	result.WriteString(" 23")
	return result.String()
}

var sparkChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// RenderSparkline creates a compact inline sparkline chart.
func RenderSparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}

	maxVal := 0.0
	for _, v := range values {
		maxVal = max(maxVal, v)
	}
	if maxVal == 0 {
		maxVal = 1
	}

	step := max(float64(len(values))/float64(width), 1)

	var result strings.Builder
	for i := 0; i < width && int(float64(i)*step) < len(values); i++ {
		val := values[int(float64(i)*step)]
		normalized := int((val / maxVal) * float64(len(sparkChars)-1))
		normalized = min(max(normalized, 0), len(sparkChars)-1)
		result.WriteRune(sparkChars[normalized])
	}

	return result.String()
}

// LegendItem represents a single legend entry.
type LegendItem struct {
	Label string
	Color lipgloss.Color
}

// RenderLegend creates a chart legend.
func RenderLegend(items []LegendItem) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		colorBox := lipgloss.NewStyle().Foreground(item.Color).Render("■")
		parts = append(parts, fmt.Sprintf("%s %s", colorBox, item.Label))
	}
	return strings.Join(parts, "  ")
}
