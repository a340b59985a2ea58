// Package engine filters rental records and computes the dashboard aggregates.
//
// Every function is pure: inputs are never mutated and results are freshly
// allocated, so one immutable dataset can serve any number of filter changes.
package engine

import (
	"errors"

	"github.com/j-veylop/bikeshare-dashboard-tui/internal/models"
)

// ErrEmptyResultSet is returned when the date and category filters exclude every record.
var ErrEmptyResultSet = errors.New("no records match the selected filters")

// Compute applies spec to records and returns every aggregate for the result.
func Compute(records []models.Record, spec models.FilterSpec) (*models.Dashboard, error) {
	filtered, err := ApplyFilters(records, spec)
	if err != nil {
		return nil, err
	}

	return &models.Dashboard{
		Spec:          spec.Clone(),
		Records:       len(filtered),
		TotalDaily:    TotalDaily(filtered),
		TotalHourly:   TotalHourly(filtered),
		DailyTrend:    DailyTrend(filtered),
		HourlyProfile: HourlyProfile(filtered),
		WeatherMeans:  WeatherProfile(filtered),
		SeasonDemand:  SeasonDemandMatrix(filtered),
		WeatherDemand: WeatherDemandMatrix(filtered),
		TierRanges:    TierRanges(filtered),
	}, nil
}

// TierRanges lists TierBounds in ascending tier order.
func TierRanges(records []models.TieredRecord) []models.TierRange {
	bounds := TierBounds(records)
	ranges := make([]models.TierRange, 0, len(bounds))
	for _, t := range models.AllTiers {
		b, ok := bounds[t]
		if !ok {
			continue
		}
		ranges = append(ranges, models.TierRange{Tier: t, TierName: t.String(), Min: b[0], Max: b[1]})
	}
	return ranges
}
