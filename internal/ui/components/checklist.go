package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/bikeshare-dashboard-tui/internal/ui/styles"
)

// Option is one entry of a multi-select list.
type Option struct {
	Label   string
	Checked bool
	Color   lipgloss.Color
}

// RenderChecklist renders a titled multi-select. The cursor is only drawn
// while the list is focused.
func RenderChecklist(title string, options []Option, cursor int, focused bool) string {
	titleStyle := styles.BlurredStyle
	if focused {
		titleStyle = styles.FocusedStyle
	}

	lines := []string{titleStyle.Render(title)}
	if len(options) == 0 {
		lines = append(lines, styles.HelpStyle.Render("  (none in dataset)"))
	}

	for i, opt := range options {
		prefix := "  "
		if focused && i == cursor {
			prefix = styles.FocusedStyle.Render("▸ ")
		}

		box := styles.UncheckedStyle.Render("[ ]")
		if opt.Checked {
			box = styles.CheckedStyle.Render("[x]")
		}

		label := opt.Label
		if opt.Color != "" {
			label = lipgloss.NewStyle().Foreground(opt.Color).Render(label)
		}

		lines = append(lines, prefix+box+" "+label)
	}

	return strings.Join(lines, "\n")
}
