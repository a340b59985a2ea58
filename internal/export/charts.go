package export

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/j-veylop/bikeshare-dashboard-tui/internal/models"
)

const (
	chartWidth  = 1024
	chartHeight = 480
)

var (
	trendColor   = drawing.ColorFromHex("5a56e0")
	hourlyColor  = drawing.ColorFromHex("04b575")
	weatherColor = drawing.ColorFromHex("ff8c00")
)

// WritePNGCharts renders the daily trend, hourly profile and weather profile
// charts into dir. Charts with no data are skipped.
func WritePNGCharts(dir, stem string, d *models.Dashboard) ([]string, error) {
	type pngChart struct {
		suffix string
		empty  bool
		render func(io.Writer) error
	}

	charts := []pngChart{
		{"daily", len(d.DailyTrend) == 0, func(w io.Writer) error { return RenderDailyTrend(w, d.DailyTrend) }},
		{"hourly", len(d.HourlyProfile) == 0, func(w io.Writer) error { return RenderHourlyProfile(w, d.HourlyProfile) }},
		{"weather", len(d.WeatherMeans) == 0, func(w io.Writer) error { return RenderWeatherProfile(w, d.WeatherMeans) }},
	}

	var paths []string
	for _, c := range charts {
		if c.empty {
			continue
		}
		path := filepath.Join(dir, fmt.Sprintf("%s-%s.png", stem, c.suffix))
		if err := writeFile(path, c.render); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	if len(paths) == 0 {
		return nil, ErrNothingToExport
	}
	return paths, nil
}

// RenderDailyTrend draws total daily rentals over time as a line chart.
func RenderDailyTrend(w io.Writer, points []models.DailyPoint) error {
	if len(points) == 0 {
		return ErrNothingToExport
	}

	xs := make([]time.Time, 0, len(points))
	ys := make([]float64, 0, len(points))
	maxY := 0.0
	for _, p := range points {
		xs = append(xs, p.Date)
		ys = append(ys, float64(p.Total))
		maxY = max(maxY, float64(p.Total))
	}
	// go-chart needs two X values to build a range
	if len(xs) == 1 {
		xs = append(xs, xs[0].Add(24*time.Hour))
		ys = append(ys, ys[0])
	}

	ch := chart.Chart{
		Title:      "Daily Rentals",
		Width:      chartWidth,
		Height:     chartHeight,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis: chart.XAxis{
			Name:           "Date",
			ValueFormatter: chart.TimeDateValueFormatter,
		},
		YAxis: chart.YAxis{
			Name:  "Rentals",
			Range: &chart.ContinuousRange{Min: 0, Max: yMax(maxY)},
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "Total daily",
				XValues: xs,
				YValues: ys,
				Style:   chart.Style{StrokeColor: trendColor, StrokeWidth: 2},
			},
		},
	}
	return ch.Render(chart.PNG, w)
}

// RenderHourlyProfile draws total rentals per hour of day as a bar chart.
func RenderHourlyProfile(w io.Writer, points []models.HourlyPoint) error {
	bars := make([]chart.Value, 0, len(points))
	for _, p := range points {
		bars = append(bars, chart.Value{Label: fmt.Sprintf("%02d", p.Hour), Value: float64(p.Total)})
	}
	return renderBars(w, "Rentals by Hour", bars, hourlyColor)
}

// RenderWeatherProfile draws mean hourly rentals per weather label as a bar chart.
func RenderWeatherProfile(w io.Writer, means []models.WeatherMean) error {
	bars := make([]chart.Value, 0, len(means))
	for _, m := range means {
		bars = append(bars, chart.Value{Label: m.Weather, Value: m.Mean})
	}
	return renderBars(w, "Mean Hourly Rentals by Weather", bars, weatherColor)
}

func renderBars(w io.Writer, title string, bars []chart.Value, color drawing.Color) error {
	if len(bars) == 0 {
		return ErrNothingToExport
	}

	maxY := 0.0
	for i := range bars {
		maxY = max(maxY, bars[i].Value)
		bars[i].Style = chart.Style{FillColor: color, StrokeColor: color}
	}

	bc := chart.BarChart{
		Title:      title,
		Width:      chartWidth,
		Height:     chartHeight,
		Background: chart.Style{Padding: chart.Box{Top: 40}},
		BarWidth:   max(8, (chartWidth-120)/len(bars)-8),
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: yMax(maxY)},
		},
		Bars: bars,
	}
	return bc.Render(chart.PNG, w)
}

// yMax leaves headroom above the tallest value and never returns a zero range.
func yMax(v float64) float64 {
	if v <= 0 {
		return 1
	}
	return v * 1.1
}
