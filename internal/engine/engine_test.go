package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/j-veylop/bikeshare-dashboard-tui/internal/models"
)

func day(s string) time.Time {
	t, err := time.Parse(models.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func rec(date string, hour, daily, hourly int, w models.WeatherCode, s models.SeasonCode) models.Record {
	return models.Record{
		Date:        day(date),
		Hour:        hour,
		HasHour:     true,
		DailyCount:  daily,
		HourlyCount: hourly,
		Weather:     w,
		Season:      s,
	}
}

func allSpec(start, end string) models.FilterSpec {
	spec := models.FilterSpec{
		Start: day(start),
		End:   day(end),
		Tiers: models.AllTiers,
	}
	for _, w := range models.AllWeather {
		spec.Weather = append(spec.Weather, w.Label())
	}
	for _, s := range models.AllSeasons {
		spec.Seasons = append(spec.Seasons, s.Label())
	}
	return spec
}

// nineDays has daily counts 10..90 on consecutive dates.
func nineDays() []models.Record {
	var out []models.Record
	for i := 0; i < 9; i++ {
		d := day("2011-01-01").AddDate(0, 0, i)
		out = append(out, models.Record{
			Date:        d,
			Hour:        i,
			HasHour:     true,
			DailyCount:  (i + 1) * 10,
			HourlyCount: i + 1,
			Weather:     models.WeatherCode(i%3 + 1),
			Season:      models.SeasonCode(i%4 + 1),
		})
	}
	return out
}

func TestAssignTiers_NineRecords(t *testing.T) {
	records := nineDays()
	tiers := AssignTiers(records)

	want := []models.DemandTier{
		models.TierLow, models.TierLow, models.TierLow,
		models.TierMedium, models.TierMedium, models.TierMedium,
		models.TierHigh, models.TierHigh, models.TierHigh,
	}
	assert.Equal(t, want, tiers)
}

func TestAssignTiers_UnsortedInput(t *testing.T) {
	counts := []int{90, 10, 50, 30, 70, 20, 80, 40, 60}
	records := make([]models.Record, len(counts))
	for i, c := range counts {
		records[i] = models.Record{DailyCount: c}
	}

	tiers := AssignTiers(records)
	for i, c := range counts {
		switch {
		case c <= 30:
			assert.Equal(t, models.TierLow, tiers[i], "count %d", c)
		case c <= 60:
			assert.Equal(t, models.TierMedium, tiers[i], "count %d", c)
		default:
			assert.Equal(t, models.TierHigh, tiers[i], "count %d", c)
		}
	}
}

func TestAssignTiers_BalancedSizes(t *testing.T) {
	for n := 3; n <= 20; n++ {
		records := make([]models.Record, n)
		for i := range records {
			records[i] = models.Record{DailyCount: (i * 7) % 11}
		}
		sizes := map[models.DemandTier]int{}
		for _, tier := range AssignTiers(records) {
			sizes[tier]++
		}
		require.Len(t, sizes, 3, "n=%d", n)

		lo, hi := n, 0
		for _, s := range sizes {
			lo = min(lo, s)
			hi = max(hi, s)
		}
		assert.LessOrEqual(t, hi-lo, 1, "n=%d sizes=%v", n, sizes)
	}
}

func TestAssignTiers_TiesBrokenByInputOrder(t *testing.T) {
	records := make([]models.Record, 6)
	for i := range records {
		records[i] = models.Record{DailyCount: 5}
	}

	tiers := AssignTiers(records)
	assert.Equal(t, []models.DemandTier{
		models.TierLow, models.TierLow,
		models.TierMedium, models.TierMedium,
		models.TierHigh, models.TierHigh,
	}, tiers)
}

func TestAssignTiers_Empty(t *testing.T) {
	assert.Empty(t, AssignTiers(nil))
}

func TestApplyFilters_DateRangeInclusive(t *testing.T) {
	records := nineDays()

	got, err := ApplyFilters(records, allSpec("2011-01-03", "2011-01-05"))
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.True(t, got[0].Date.Equal(day("2011-01-03")))
	assert.True(t, got[2].Date.Equal(day("2011-01-05")))
}

func TestApplyFilters_DateWithTimeOfDay(t *testing.T) {
	r := rec("2011-01-05", 3, 10, 1, models.WeatherClear, models.SeasonSpring)
	r.Date = r.Date.Add(15 * time.Hour)

	got, err := ApplyFilters([]models.Record{r}, allSpec("2011-01-05", "2011-01-05"))
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestApplyFilters_EmptyDateRange(t *testing.T) {
	_, err := ApplyFilters(nineDays(), allSpec("2012-01-01", "2012-12-31"))
	assert.ErrorIs(t, err, ErrEmptyResultSet)
}

func TestApplyFilters_StartAfterEnd(t *testing.T) {
	_, err := ApplyFilters(nineDays(), allSpec("2011-01-05", "2011-01-01"))
	assert.ErrorIs(t, err, ErrEmptyResultSet)
}

func TestApplyFilters_Categories(t *testing.T) {
	records := nineDays()
	spec := allSpec("2011-01-01", "2011-01-09")
	spec.Weather = []string{models.WeatherClear.Label()}
	spec.Seasons = []string{models.SeasonSpring.Label(), models.SeasonSummer.Label()}

	got, err := ApplyFilters(records, spec)
	require.NoError(t, err)
	require.NotEmpty(t, got)
	for _, r := range got {
		assert.Equal(t, models.WeatherClear, r.Weather)
		assert.Contains(t, []models.SeasonCode{models.SeasonSpring, models.SeasonSummer}, r.Season)
	}
}

func TestApplyFilters_EmptyCategorySetSelectsNothing(t *testing.T) {
	spec := allSpec("2011-01-01", "2011-01-09")
	spec.Weather = nil

	_, err := ApplyFilters(nineDays(), spec)
	assert.ErrorIs(t, err, ErrEmptyResultSet)
}

func TestApplyFilters_UnmappedCodesExcluded(t *testing.T) {
	records := []models.Record{
		rec("2011-01-01", 0, 10, 1, models.WeatherCode(9), models.SeasonSpring),
		rec("2011-01-01", 1, 10, 1, models.WeatherClear, models.SeasonCode(0)),
	}

	_, err := ApplyFilters(records, allSpec("2011-01-01", "2011-01-01"))
	assert.ErrorIs(t, err, ErrEmptyResultSet)
}

func TestApplyFilters_TiersComputedOverFilteredSet(t *testing.T) {
	records := nineDays()
	// Only the top six daily counts survive the date filter, so 40..60 is now Low.
	spec := allSpec("2011-01-04", "2011-01-09")
	spec.Tiers = []models.DemandTier{models.TierLow}

	got, err := ApplyFilters(records, spec)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 40, got[0].DailyCount)
	assert.Equal(t, 50, got[1].DailyCount)
}

func TestApplyFilters_NoTiersSelected(t *testing.T) {
	spec := allSpec("2011-01-01", "2011-01-09")
	spec.Tiers = nil

	got, err := ApplyFilters(nineDays(), spec)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestApplyFilters_SubsetOfInput(t *testing.T) {
	records := nineDays()
	input := make(map[models.Record]bool)
	for _, r := range records {
		input[r] = true
	}

	spec := allSpec("2011-01-02", "2011-01-08")
	spec.Tiers = []models.DemandTier{models.TierMedium, models.TierHigh}

	got, err := ApplyFilters(records, spec)
	require.NoError(t, err)
	for _, r := range got {
		assert.True(t, input[r.Record], "record %+v not in input", r.Record)
	}
}

func TestApplyFilters_DoesNotMutateInput(t *testing.T) {
	records := nineDays()
	before := append([]models.Record(nil), records...)

	_, err := ApplyFilters(records, allSpec("2011-01-01", "2011-01-09"))
	require.NoError(t, err)
	assert.Equal(t, before, records)
}

func TestCompute_Aggregates(t *testing.T) {
	records := []models.Record{
		rec("2011-01-01", 0, 100, 4, models.WeatherClear, models.SeasonSpring),
		rec("2011-01-01", 1, 100, 6, models.WeatherMist, models.SeasonSpring),
		rec("2011-01-02", 0, 200, 10, models.WeatherClear, models.SeasonWinter),
		{Date: day("2011-01-03"), DailyCount: 300, Weather: models.WeatherClear, Season: models.SeasonSummer},
	}

	dash, err := Compute(records, allSpec("2011-01-01", "2011-01-03"))
	require.NoError(t, err)

	assert.Equal(t, 4, dash.Records)
	assert.Equal(t, 700, dash.TotalDaily)
	assert.Equal(t, 20, dash.TotalHourly)

	require.Len(t, dash.DailyTrend, 3)
	assert.Equal(t, 200, dash.DailyTrend[0].Total)
	assert.Equal(t, 200, dash.DailyTrend[1].Total)
	assert.Equal(t, 300, dash.DailyTrend[2].Total)

	assert.Equal(t, []models.HourlyPoint{{Hour: 0, Total: 14}, {Hour: 1, Total: 6}}, dash.HourlyProfile)

	require.Len(t, dash.WeatherMeans, 2)
	assert.Equal(t, models.WeatherClear.Label(), dash.WeatherMeans[0].Weather)
	assert.InDelta(t, 7.0, dash.WeatherMeans[0].Mean, 1e-9)
	assert.Equal(t, models.WeatherMist.Label(), dash.WeatherMeans[1].Weather)
	assert.InDelta(t, 6.0, dash.WeatherMeans[1].Mean, 1e-9)
}

func TestCompute_TotalDailyMatchesTrend(t *testing.T) {
	dash, err := Compute(nineDays(), allSpec("2011-01-01", "2011-01-09"))
	require.NoError(t, err)

	sum := 0
	for _, p := range dash.DailyTrend {
		sum += p.Total
	}
	assert.Equal(t, dash.TotalDaily, sum)
}

func TestCompute_EmptyResultSet(t *testing.T) {
	dash, err := Compute(nineDays(), allSpec("2020-01-01", "2020-01-31"))
	assert.Nil(t, dash)
	assert.True(t, errors.Is(err, ErrEmptyResultSet))
}

func TestHourlyProfile_AtMost24DistinctHours(t *testing.T) {
	var records []models.TieredRecord
	for i := 0; i < 100; i++ {
		records = append(records, models.TieredRecord{Record: models.Record{
			Hour: i % 24, HasHour: true, HourlyCount: 1,
		}})
	}
	records = append(records, models.TieredRecord{Record: models.Record{HourlyCount: 5}})

	profile := HourlyProfile(records)
	require.Len(t, profile, 24)
	for i, p := range profile {
		assert.Equal(t, i, p.Hour)
	}
}

func TestSeasonDemandMatrix_OrderAndCounts(t *testing.T) {
	records := []models.TieredRecord{
		{Record: models.Record{Season: models.SeasonWinter}, Tier: models.TierHigh},
		{Record: models.Record{Season: models.SeasonSpring}, Tier: models.TierHigh},
		{Record: models.Record{Season: models.SeasonSpring}, Tier: models.TierLow},
		{Record: models.Record{Season: models.SeasonSpring}, Tier: models.TierLow},
	}

	got := SeasonDemandMatrix(records)
	require.Len(t, got, 3)
	assert.Equal(t, "Spring", got[0].Category)
	assert.Equal(t, models.TierLow, got[0].Tier)
	assert.Equal(t, 2, got[0].Count)
	assert.Equal(t, "Spring", got[1].Category)
	assert.Equal(t, "High", got[1].TierName)
	assert.Equal(t, "Winter", got[2].Category)
}

func TestWeatherDemandMatrix_OnlyObservedGroups(t *testing.T) {
	records := []models.TieredRecord{
		{Record: models.Record{Weather: models.WeatherMist}, Tier: models.TierMedium},
		{Record: models.Record{Weather: models.WeatherClear}, Tier: models.TierLow},
	}

	got := WeatherDemandMatrix(records)
	require.Len(t, got, 2)
	assert.Equal(t, models.WeatherClear.Label(), got[0].Category)
	assert.Equal(t, models.WeatherMist.Label(), got[1].Category)
}

func TestTierBounds(t *testing.T) {
	spec := allSpec("2011-01-01", "2011-01-09")
	filtered, err := ApplyFilters(nineDays(), spec)
	require.NoError(t, err)

	bounds := TierBounds(filtered)
	assert.Equal(t, [2]int{10, 30}, bounds[models.TierLow])
	assert.Equal(t, [2]int{40, 60}, bounds[models.TierMedium])
	assert.Equal(t, [2]int{70, 90}, bounds[models.TierHigh])

	ranges := TierRanges(filtered)
	require.Len(t, ranges, 3)
	assert.Equal(t, models.TierRange{Tier: models.TierMedium, TierName: "Medium", Min: 40, Max: 60}, ranges[1])
}

func TestTierRanges_SkipsMissingTiers(t *testing.T) {
	spec := allSpec("2011-01-01", "2011-01-09")
	spec.Tiers = []models.DemandTier{models.TierHigh}
	filtered, err := ApplyFilters(nineDays(), spec)
	require.NoError(t, err)

	ranges := TierRanges(filtered)
	require.Len(t, ranges, 1)
	assert.Equal(t, models.TierHigh, ranges[0].Tier)
}
