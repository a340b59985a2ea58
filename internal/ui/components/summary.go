package components

import (
	"fmt"
	"strings"

	"github.com/j-veylop/bikeshare-dashboard-tui/internal/models"
)

// FilterSummary renders the active filters on one line.
func FilterSummary(spec models.FilterSpec) string {
	if spec.Start.IsZero() && spec.End.IsZero() {
		return "No filters applied"
	}

	tiers := make([]string, len(spec.Tiers))
	for i, t := range spec.Tiers {
		tiers[i] = t.String()
	}

	return fmt.Sprintf("%s → %s · weather: %s · seasons: %s · tiers: %s",
		spec.Start.Format(models.DateLayout),
		spec.End.Format(models.DateLayout),
		joinOrNone(spec.Weather),
		joinOrNone(spec.Seasons),
		joinOrNone(tiers),
	)
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}
