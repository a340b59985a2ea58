package components

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/bikeshare-dashboard-tui/internal/ui/styles"
)

// ShareBar renders a fraction of a whole, such as the records left by the filters.
type ShareBar struct {
	progress progress.Model
}

// NewShareBar creates a share bar with a blue-to-green gradient.
func NewShareBar() ShareBar {
	return ShareBar{
		progress: progress.New(
			progress.WithScaledGradient("#5FAFFF", "#3DDC97"),
			progress.WithWidth(30),
			progress.WithoutPercentage(),
		),
	}
}

// View renders label, bar and percentage for part out of whole.
func (s ShareBar) View(part, whole int, label string, width int) string {
	percent := 0.0
	if whole > 0 {
		percent = float64(part) / float64(whole)
	}
	percent = min(max(percent, 0), 1)

	s.progress.Width = max(width-30, 10)

	labelStr := styles.ProgressLabelStyle.Width(15).Render(label)
	percentStr := lipgloss.NewStyle().
		Foreground(styles.TextPrimary).
		Width(14).
		Align(lipgloss.Right).
		Render(fmt.Sprintf("%.0f%% (%d)", percent*100, part))

	return lipgloss.JoinHorizontal(
		lipgloss.Center,
		labelStr,
		s.progress.ViewAs(percent),
		" ",
		percentStr,
	)
}
