package models

import (
	"encoding/json"
	"fmt"
	"slices"
	"time"
)

// FilterSpec is the set of user-chosen predicates applied before aggregation.
// An empty label or tier set selects nothing.
type FilterSpec struct {
	Start   time.Time
	End     time.Time
	Weather []string
	Seasons []string
	Tiers   []DemandTier
}

// DefaultFilterSpec selects the full date span and every category present in ds.
func DefaultFilterSpec(ds *Dataset) FilterSpec {
	spec := FilterSpec{
		Tiers: slices.Clone(AllTiers),
	}
	if ds == nil {
		return spec
	}
	spec.Start = ds.MinDate
	spec.End = ds.MaxDate
	spec.Weather = ds.WeatherLabels()
	spec.Seasons = ds.SeasonLabels()
	return spec
}

// InDateRange reports whether d lies within [Start, End], comparing calendar days.
func (f FilterSpec) InDateRange(d time.Time) bool {
	day := Day(d)
	return !day.Before(Day(f.Start)) && !day.After(Day(f.End))
}

// HasWeather reports whether label is selected.
func (f FilterSpec) HasWeather(label string) bool {
	return slices.Contains(f.Weather, label)
}

// HasSeason reports whether label is selected.
func (f FilterSpec) HasSeason(label string) bool {
	return slices.Contains(f.Seasons, label)
}

// HasTier reports whether t is selected.
func (f FilterSpec) HasTier(t DemandTier) bool {
	return slices.Contains(f.Tiers, t)
}

// Clone returns a deep copy so callers can edit without touching the original.
func (f FilterSpec) Clone() FilterSpec {
	return FilterSpec{
		Start:   f.Start,
		End:     f.End,
		Weather: slices.Clone(f.Weather),
		Seasons: slices.Clone(f.Seasons),
		Tiers:   slices.Clone(f.Tiers),
	}
}

// ToggleWeather adds or removes a weather label.
func (f *FilterSpec) ToggleWeather(label string) {
	f.Weather = toggle(f.Weather, label)
}

// ToggleSeason adds or removes a season label.
func (f *FilterSpec) ToggleSeason(label string) {
	f.Seasons = toggle(f.Seasons, label)
}

// ToggleTier adds or removes a demand tier, keeping ascending order.
func (f *FilterSpec) ToggleTier(t DemandTier) {
	f.Tiers = toggle(f.Tiers, t)
	slices.Sort(f.Tiers)
}

func toggle[T comparable](items []T, v T) []T {
	if i := slices.Index(items, v); i >= 0 {
		return slices.Delete(slices.Clone(items), i, i+1)
	}
	return append(slices.Clone(items), v)
}

// filterSpecJSON is the persisted shape of a FilterSpec.
type filterSpecJSON struct {
	Start   string   `json:"start"`
	End     string   `json:"end"`
	Weather []string `json:"weather"`
	Seasons []string `json:"seasons"`
	Tiers   []string `json:"tiers"`
}

// MarshalJSON encodes dates as YYYY-MM-DD and tiers by name.
func (f FilterSpec) MarshalJSON() ([]byte, error) {
	out := filterSpecJSON{
		Start:   f.Start.Format(DateLayout),
		End:     f.End.Format(DateLayout),
		Weather: nonNil(f.Weather),
		Seasons: nonNil(f.Seasons),
		Tiers:   make([]string, 0, len(f.Tiers)),
	}
	for _, t := range f.Tiers {
		out.Tiers = append(out.Tiers, t.String())
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the format written by MarshalJSON.
func (f *FilterSpec) UnmarshalJSON(data []byte) error {
	var in filterSpecJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	start, err := time.Parse(DateLayout, in.Start)
	if err != nil {
		return fmt.Errorf("invalid start date: %w", err)
	}
	end, err := time.Parse(DateLayout, in.End)
	if err != nil {
		return fmt.Errorf("invalid end date: %w", err)
	}
	tiers := make([]DemandTier, 0, len(in.Tiers))
	for _, name := range in.Tiers {
		t, err := ParseDemandTier(name)
		if err != nil {
			return err
		}
		tiers = append(tiers, t)
	}
	*f = FilterSpec{
		Start:   start,
		End:     end,
		Weather: in.Weather,
		Seasons: in.Seasons,
		Tiers:   tiers,
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// Rebase carries a selection made against prev over to next. Bounds that sat on
// the edge of prev's date span follow next's span, and labels that did not
// exist in prev are selected.
func (f FilterSpec) Rebase(prev, next *Dataset) FilterSpec {
	if next == nil {
		return f.Clone()
	}
	if prev == nil {
		return DefaultFilterSpec(next)
	}
	return f.RebaseFrom(DefaultFilterSpec(prev), next)
}

// RebaseFrom is Rebase with the previous dataset described by basis, its
// DefaultFilterSpec. Dates left outside next's span are clamped into it; a
// range that misses the span entirely becomes the full span.
func (f FilterSpec) RebaseFrom(basis FilterSpec, next *Dataset) FilterSpec {
	out := f.Clone()
	if next == nil {
		return out
	}
	if !basis.Start.IsZero() && Day(f.Start).Equal(Day(basis.Start)) {
		out.Start = next.MinDate
	}
	if !basis.End.IsZero() && Day(f.End).Equal(Day(basis.End)) {
		out.End = next.MaxDate
	}
	for _, label := range next.WeatherLabels() {
		if !basis.HasWeather(label) && !out.HasWeather(label) {
			out.Weather = append(out.Weather, label)
		}
	}
	for _, label := range next.SeasonLabels() {
		if !basis.HasSeason(label) && !out.HasSeason(label) {
			out.Seasons = append(out.Seasons, label)
		}
	}

	if Day(out.End).Before(Day(next.MinDate)) || Day(out.Start).After(Day(next.MaxDate)) {
		out.Start, out.End = next.MinDate, next.MaxDate
	}
	out.Start = clampDay(out.Start, next.MinDate, next.MaxDate)
	out.End = clampDay(out.End, next.MinDate, next.MaxDate)
	return out
}

func clampDay(d, lo, hi time.Time) time.Time {
	switch {
	case Day(d).Before(Day(lo)):
		return lo
	case Day(d).After(Day(hi)):
		return hi
	}
	return d
}

// Equal reports whether two specs select the same records.
func (f FilterSpec) Equal(o FilterSpec) bool {
	return Day(f.Start).Equal(Day(o.Start)) &&
		Day(f.End).Equal(Day(o.End)) &&
		sameSet(f.Weather, o.Weather) &&
		sameSet(f.Seasons, o.Seasons) &&
		sameSet(f.Tiers, o.Tiers)
}

func sameSet[T comparable](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	for _, v := range a {
		if !slices.Contains(b, v) {
			return false
		}
	}
	return true
}
