package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/j-veylop/bikeshare-dashboard-tui/internal/models"
)

type section struct {
	name   string
	header []string
	rows   [][]string
}

// WriteCSV writes one CSV table per aggregate. Each table is preceded by a
// "# name" line and followed by a blank line.
func WriteCSV(w io.Writer, d *models.Dashboard) error {
	for _, s := range sections(d) {
		if _, err := fmt.Fprintf(w, "# %s\n", s.name); err != nil {
			return err
		}
		if err := writeSection(w, s); err != nil {
			return fmt.Errorf("section %s: %w", s.name, err)
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}

func writeSection(w io.Writer, s section) error {
	if len(s.rows) == 0 {
		_, err := io.WriteString(w, strings.Join(s.header, ",")+"\n")
		return err
	}

	records := append([][]string{s.header}, s.rows...)
	df := dataframe.LoadRecords(records,
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if df.Err != nil {
		return df.Err
	}
	return df.WriteCSV(w)
}

func sections(d *models.Dashboard) []section {
	summary := section{
		name:   "summary",
		header: []string{"records", "total_daily", "total_hourly"},
		rows: [][]string{{
			strconv.Itoa(d.Records),
			strconv.Itoa(d.TotalDaily),
			strconv.Itoa(d.TotalHourly),
		}},
	}

	daily := section{name: "daily_trend", header: []string{"date", "total"}}
	for _, p := range d.DailyTrend {
		daily.rows = append(daily.rows, []string{p.Date.Format(models.DateLayout), strconv.Itoa(p.Total)})
	}

	hourly := section{name: "hourly_profile", header: []string{"hour", "total"}}
	for _, p := range d.HourlyProfile {
		hourly.rows = append(hourly.rows, []string{strconv.Itoa(p.Hour), strconv.Itoa(p.Total)})
	}

	weather := section{name: "weather_profile", header: []string{"weather", "mean_hourly"}}
	for _, m := range d.WeatherMeans {
		weather.rows = append(weather.rows, []string{m.Weather, strconv.FormatFloat(m.Mean, 'f', 2, 64)})
	}

	tiers := section{name: "tier_ranges", header: []string{"tier", "min_daily", "max_daily"}}
	for _, r := range d.TierRanges {
		tiers.rows = append(tiers.rows, []string{r.TierName, strconv.Itoa(r.Min), strconv.Itoa(r.Max)})
	}

	return []section{
		summary,
		daily,
		hourly,
		weather,
		segmentSection("season_demand", "season", d.SeasonDemand),
		segmentSection("weather_demand", "weather", d.WeatherDemand),
		tiers,
	}
}

func segmentSection(name, category string, counts []models.SegmentCount) section {
	s := section{name: name, header: []string{category, "tier", "count"}}
	for _, c := range counts {
		s.rows = append(s.rows, []string{c.Category, c.TierName, strconv.Itoa(c.Count)})
	}
	return s
}
