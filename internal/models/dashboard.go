package models

import "time"

// DailyPoint is one row of the daily trend.
type DailyPoint struct {
	Date  time.Time `json:"date" yaml:"date"`
	Total int       `json:"total" yaml:"total"`
}

// HourlyPoint is one row of the hourly profile.
type HourlyPoint struct {
	Hour  int `json:"hour" yaml:"hour"`
	Total int `json:"total" yaml:"total"`
}

// WeatherMean is the average hourly rentals for one weather label.
type WeatherMean struct {
	Weather string  `json:"weather" yaml:"weather"`
	Mean    float64 `json:"mean" yaml:"mean"`
}

// SegmentCount is a record count for a (category, tier) pair.
type SegmentCount struct {
	Category string     `json:"category" yaml:"category"`
	Tier     DemandTier `json:"-" yaml:"-"`
	TierName string     `json:"tier" yaml:"tier"`
	Count    int        `json:"count" yaml:"count"`
}

// TierRange is the span of daily counts a demand tier covers in one view.
type TierRange struct {
	Tier     DemandTier `json:"-" yaml:"-"`
	TierName string     `json:"tier" yaml:"tier"`
	Min      int        `json:"min_daily" yaml:"min_daily"`
	Max      int        `json:"max_daily" yaml:"max_daily"`
}

// Dashboard holds every aggregate computed from one filtered view.
type Dashboard struct {
	Spec          FilterSpec     `json:"filters" yaml:"-"`
	Records       int            `json:"records" yaml:"records"`
	TotalDaily    int            `json:"total_daily" yaml:"total_daily"`
	TotalHourly   int            `json:"total_hourly" yaml:"total_hourly"`
	DailyTrend    []DailyPoint   `json:"daily_trend" yaml:"daily_trend"`
	HourlyProfile []HourlyPoint  `json:"hourly_profile" yaml:"hourly_profile"`
	WeatherMeans  []WeatherMean  `json:"weather_profile" yaml:"weather_profile"`
	SeasonDemand  []SegmentCount `json:"season_demand" yaml:"season_demand"`
	WeatherDemand []SegmentCount `json:"weather_demand" yaml:"weather_demand"`
	TierRanges    []TierRange    `json:"tier_ranges" yaml:"tier_ranges"`
}

// LoadEntry records one dataset load for the history list.
type LoadEntry struct {
	ID         int64
	Path       string
	Rows       int
	DurationMs int64
	LoadedAt   time.Time
}

// Preset is a named, persisted filter selection.
type Preset struct {
	Name      string
	Spec      FilterSpec
	UpdatedAt time.Time
}
