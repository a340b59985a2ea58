package models

import (
	"sort"
	"time"
)

// Dataset is an immutable snapshot of the loaded rental records.
type Dataset struct {
	Path     string
	LoadedAt time.Time
	Records  []Record
	MinDate  time.Time
	MaxDate  time.Time
}

// NewDataset builds a snapshot and computes its date span.
func NewDataset(path string, loadedAt time.Time, records []Record) *Dataset {
	ds := &Dataset{
		Path:     path,
		LoadedAt: loadedAt,
		Records:  records,
	}
	for i, r := range records {
		if i == 0 || r.Date.Before(ds.MinDate) {
			ds.MinDate = r.Date
		}
		if i == 0 || r.Date.After(ds.MaxDate) {
			ds.MaxDate = r.Date
		}
	}
	return ds
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Records)
}

// WeatherLabels returns the distinct weather labels present, in code order.
// Unmapped codes are skipped.
func (d *Dataset) WeatherLabels() []string {
	seen := make(map[WeatherCode]bool)
	for _, r := range d.Records {
		if r.Weather.Valid() {
			seen[r.Weather] = true
		}
	}
	codes := make([]int, 0, len(seen))
	for c := range seen {
		codes = append(codes, int(c))
	}
	sort.Ints(codes)
	labels := make([]string, len(codes))
	for i, c := range codes {
		labels[i] = WeatherCode(c).Label()
	}
	return labels
}

// SeasonLabels returns the distinct season labels present, in calendar order.
func (d *Dataset) SeasonLabels() []string {
	seen := make(map[SeasonCode]bool)
	for _, r := range d.Records {
		if r.Season.Valid() {
			seen[r.Season] = true
		}
	}
	var labels []string
	for _, s := range AllSeasons {
		if seen[s] {
			labels = append(labels, s.Label())
		}
	}
	return labels
}
