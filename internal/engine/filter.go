package engine

import (
	"github.com/j-veylop/bikeshare-dashboard-tui/internal/models"
)

// ApplyFilters narrows records by date range, weather and season, assigns demand
// tiers over what remains, then keeps only the selected tiers.
//
// ErrEmptyResultSet is returned when nothing survives the date and category
// filters. Deselecting every tier yields an empty slice without error.
func ApplyFilters(records []models.Record, spec models.FilterSpec) ([]models.TieredRecord, error) {
	weather := toSet(spec.Weather)
	seasons := toSet(spec.Seasons)

	kept := make([]models.Record, 0, len(records))
	for _, r := range records {
		if !spec.InDateRange(r.Date) {
			continue
		}
		if !weather[r.WeatherLabel()] || !seasons[r.SeasonLabel()] {
			continue
		}
		kept = append(kept, r)
	}

	if len(kept) == 0 {
		return nil, ErrEmptyResultSet
	}

	tiers := AssignTiers(kept)

	selected := make(map[models.DemandTier]bool, len(spec.Tiers))
	for _, t := range spec.Tiers {
		selected[t] = true
	}

	out := make([]models.TieredRecord, 0, len(kept))
	for i, r := range kept {
		if selected[tiers[i]] {
			out = append(out, models.TieredRecord{Record: r, Tier: tiers[i]})
		}
	}
	return out, nil
}

// toSet builds a lookup set. The empty label never matches, so records with
// unmapped codes are always excluded.
func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		if item != "" {
			set[item] = true
		}
	}
	return set
}
