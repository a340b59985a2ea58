package engine

import (
	"sort"
	"time"

	"github.com/j-veylop/bikeshare-dashboard-tui/internal/models"
)

// TotalDaily sums DailyCount across records.
func TotalDaily(records []models.TieredRecord) int {
	total := 0
	for _, r := range records {
		total += r.DailyCount
	}
	return total
}

// TotalHourly sums HourlyCount across records.
func TotalHourly(records []models.TieredRecord) int {
	total := 0
	for _, r := range records {
		total += r.HourlyCount
	}
	return total
}

// DailyTrend sums DailyCount per date, ascending by date.
func DailyTrend(records []models.TieredRecord) []models.DailyPoint {
	sums := make(map[time.Time]int)
	for _, r := range records {
		sums[models.Day(r.Date)] += r.DailyCount
	}

	points := make([]models.DailyPoint, 0, len(sums))
	for day, total := range sums {
		points = append(points, models.DailyPoint{Date: day, Total: total})
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})
	return points
}

// HourlyProfile sums HourlyCount per hour of day, ascending 0..23.
// Records without an hour are skipped.
func HourlyProfile(records []models.TieredRecord) []models.HourlyPoint {
	var sums [24]int
	var seen [24]bool
	for _, r := range records {
		if !r.HasHour || r.Hour < 0 || r.Hour > 23 {
			continue
		}
		sums[r.Hour] += r.HourlyCount
		seen[r.Hour] = true
	}

	var points []models.HourlyPoint
	for h := range sums {
		if seen[h] {
			points = append(points, models.HourlyPoint{Hour: h, Total: sums[h]})
		}
	}
	return points
}

// WeatherProfile averages HourlyCount per weather label over hour-bearing
// records, ordered by label.
func WeatherProfile(records []models.TieredRecord) []models.WeatherMean {
	type acc struct {
		sum   int
		count int
	}
	groups := make(map[string]*acc)
	for _, r := range records {
		if !r.HasHour {
			continue
		}
		label := r.WeatherLabel()
		g, ok := groups[label]
		if !ok {
			g = &acc{}
			groups[label] = g
		}
		g.sum += r.HourlyCount
		g.count++
	}

	out := make([]models.WeatherMean, 0, len(groups))
	for label, g := range groups {
		out = append(out, models.WeatherMean{
			Weather: label,
			Mean:    float64(g.sum) / float64(g.count),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Weather < out[j].Weather
	})
	return out
}

// SeasonDemandMatrix counts records per (season, tier), seasons in calendar order.
func SeasonDemandMatrix(records []models.TieredRecord) []models.SegmentCount {
	out := countSegments(records, models.TieredRecord.SeasonLabel)
	sort.SliceStable(out, func(i, j int) bool {
		si, sj := models.SeasonOrder(out[i].Category), models.SeasonOrder(out[j].Category)
		if si != sj {
			return si < sj
		}
		return out[i].Tier < out[j].Tier
	})
	return out
}

// WeatherDemandMatrix counts records per (weather, tier), labels ascending.
func WeatherDemandMatrix(records []models.TieredRecord) []models.SegmentCount {
	out := countSegments(records, models.TieredRecord.WeatherLabel)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].Tier < out[j].Tier
	})
	return out
}

type segmentKey struct {
	category string
	tier     models.DemandTier
}

func countSegments(records []models.TieredRecord, category func(models.TieredRecord) string) []models.SegmentCount {
	counts := make(map[segmentKey]int)
	for _, r := range records {
		counts[segmentKey{category: category(r), tier: r.Tier}]++
	}

	out := make([]models.SegmentCount, 0, len(counts))
	for k, c := range counts {
		out = append(out, models.SegmentCount{
			Category: k.category,
			Tier:     k.tier,
			TierName: k.tier.String(),
			Count:    c,
		})
	}
	return out
}
