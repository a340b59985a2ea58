// Package models defines data structures and domain types.
package models

import "time"

// DateLayout is the calendar date format used in the dataset and in presets.
const DateLayout = "2006-01-02"

// WeatherCode is the categorical weather situation recorded with each observation.
type WeatherCode int

const (
	// WeatherClear covers clear skies and few clouds.
	WeatherClear WeatherCode = iota + 1
	// WeatherMist covers mist and cloudy conditions.
	WeatherMist
	// WeatherLightPrecip covers light snow and light rain.
	WeatherLightPrecip
	// WeatherHeavyPrecip covers heavy rain, snow and fog.
	WeatherHeavyPrecip
)

var weatherLabels = map[WeatherCode]string{
	WeatherClear:       "Clear / Few Clouds",
	WeatherMist:        "Mist / Cloudy",
	WeatherLightPrecip: "Light Snow / Rain",
	WeatherHeavyPrecip: "Heavy Rain / Snow / Fog",
}

// AllWeather lists the known weather codes in code order.
var AllWeather = []WeatherCode{WeatherClear, WeatherMist, WeatherLightPrecip, WeatherHeavyPrecip}

// Valid reports whether the code maps to a label.
func (w WeatherCode) Valid() bool {
	_, ok := weatherLabels[w]
	return ok
}

// Label returns the display label, or "" for unmapped codes.
func (w WeatherCode) Label() string {
	return weatherLabels[w]
}

// SeasonCode is the categorical season recorded with each observation.
type SeasonCode int

const (
	// SeasonSpring is season code 1.
	SeasonSpring SeasonCode = iota + 1
	// SeasonSummer is season code 2.
	SeasonSummer
	// SeasonFall is season code 3.
	SeasonFall
	// SeasonWinter is season code 4.
	SeasonWinter
)

var seasonLabels = map[SeasonCode]string{
	SeasonSpring: "Spring",
	SeasonSummer: "Summer",
	SeasonFall:   "Fall",
	SeasonWinter: "Winter",
}

// AllSeasons lists the known seasons in calendar order.
var AllSeasons = []SeasonCode{SeasonSpring, SeasonSummer, SeasonFall, SeasonWinter}

// Valid reports whether the code maps to a label.
func (s SeasonCode) Valid() bool {
	_, ok := seasonLabels[s]
	return ok
}

// Label returns the display label, or "" for unmapped codes.
func (s SeasonCode) Label() string {
	return seasonLabels[s]
}

// SeasonOrder returns the calendar position of a season label, or -1.
func SeasonOrder(label string) int {
	for i, s := range AllSeasons {
		if s.Label() == label {
			return i
		}
	}
	return -1
}

// Record is one observation of bike rental activity.
// Daily-only rows carry HasHour=false and no hourly count.
type Record struct {
	Date        time.Time
	Hour        int
	HasHour     bool
	DailyCount  int
	HourlyCount int
	Weather     WeatherCode
	Season      SeasonCode
}

// WeatherLabel returns the weather label of the record.
func (r Record) WeatherLabel() string {
	return r.Weather.Label()
}

// SeasonLabel returns the season label of the record.
func (r Record) SeasonLabel() string {
	return r.Season.Label()
}

// Day truncates t to a calendar day in UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
