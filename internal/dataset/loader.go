// Package dataset loads the bike rental CSV and keeps the current snapshot fresh.
package dataset

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/j-veylop/bikeshare-dashboard-tui/internal/models"
)

// ErrMissingColumn is returned when a required column is absent from the header.
var ErrMissingColumn = errors.New("missing required column")

// Column names accepted for each field, first match wins.
var (
	dateColumns        = []string{"dteday", "date"}
	hourColumns        = []string{"hr", "hour"}
	dailyCountColumns  = []string{"cnt_day", "daily_count"}
	hourlyCountColumns = []string{"cnt_hour", "hourly_count"}
	weatherColumns     = []string{"weathersit", "weather_code"}
	seasonColumns      = []string{"season", "season_code"}
)

// LoadFile reads and parses the dataset at path.
func LoadFile(path string) ([]models.Record, error) {
	f, err := os.Open(path) // #nosec G304 -- path comes from user configuration
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Parse(f)
}

// Parse reads CSV rows into records. Every column is read as a string and typed
// here, so blank hour cells on daily-only rows do not poison the column type.
func Parse(r io.Reader) ([]models.Record, error) {
	df := dataframe.ReadCSV(r,
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", df.Err)
	}

	cols, err := resolveColumns(df)
	if err != nil {
		return nil, err
	}

	n := df.Nrow()
	records := make([]models.Record, 0, n)
	for i := 0; i < n; i++ {
		rec, err := cols.record(i)
		if err != nil {
			// +2: one for the header, one for 1-based line numbers
			return nil, fmt.Errorf("line %d: %w", i+2, err)
		}
		records = append(records, rec)
	}

	return records, nil
}

// columns holds the raw string values of each field.
type columns struct {
	date    []string
	hour    []string
	daily   []string
	hourly  []string
	weather []string
	season  []string
}

func resolveColumns(df dataframe.DataFrame) (*columns, error) {
	names := make(map[string]string)
	for _, name := range df.Names() {
		names[strings.ToLower(strings.TrimSpace(name))] = name
	}

	pick := func(candidates []string, required bool) ([]string, error) {
		for _, c := range candidates {
			if name, ok := names[c]; ok {
				return df.Col(name).Records(), nil
			}
		}
		if required {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, candidates[0])
		}
		return nil, nil
	}

	var cols columns
	var err error
	if cols.date, err = pick(dateColumns, true); err != nil {
		return nil, err
	}
	if cols.daily, err = pick(dailyCountColumns, true); err != nil {
		return nil, err
	}
	if cols.weather, err = pick(weatherColumns, true); err != nil {
		return nil, err
	}
	if cols.season, err = pick(seasonColumns, true); err != nil {
		return nil, err
	}
	if cols.hour, err = pick(hourColumns, false); err != nil {
		return nil, err
	}
	if cols.hourly, err = pick(hourlyCountColumns, false); err != nil {
		return nil, err
	}
	return &cols, nil
}

func (c *columns) record(i int) (models.Record, error) {
	var rec models.Record
	var err error

	if rec.Date, err = parseDate(c.date[i]); err != nil {
		return rec, err
	}
	if rec.DailyCount, err = parseCount("daily count", c.daily[i]); err != nil {
		return rec, err
	}

	weather, err := parseInt("weather code", c.weather[i])
	if err != nil {
		return rec, err
	}
	rec.Weather = models.WeatherCode(weather)

	season, err := parseInt("season code", c.season[i])
	if err != nil {
		return rec, err
	}
	rec.Season = models.SeasonCode(season)

	if c.hour != nil && !isBlank(c.hour[i]) {
		hour, err := parseInt("hour", c.hour[i])
		if err != nil {
			return rec, err
		}
		if hour < 0 || hour > 23 {
			return rec, fmt.Errorf("hour %d out of range", hour)
		}
		rec.Hour = hour
		rec.HasHour = true
	}

	if rec.HasHour && c.hourly != nil && !isBlank(c.hourly[i]) {
		if rec.HourlyCount, err = parseCount("hourly count", c.hourly[i]); err != nil {
			return rec, err
		}
	}

	return rec, nil
}

// parseDate accepts plain dates and date-times, keeping only the calendar day.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	layouts := []string{models.DateLayout, "2006-01-02 15:04:05", time.RFC3339}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return models.Day(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

func parseInt(field, s string) (int, error) {
	s = strings.TrimSpace(s)
	if v, err := strconv.Atoi(s); err == nil {
		return v, nil
	}
	// pandas writes integer columns holding NaN as floats ("12.0")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int(f)) {
		return 0, fmt.Errorf("invalid %s %q", field, s)
	}
	return int(f), nil
}

func parseCount(field, s string) (int, error) {
	v, err := parseInt(field, s)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, fmt.Errorf("negative %s %d", field, v)
	}
	return v, nil
}

func isBlank(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || strings.EqualFold(s, "nan") || strings.EqualFold(s, "NA")
}
