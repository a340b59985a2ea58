package engine

import (
	"sort"

	"github.com/j-veylop/bikeshare-dashboard-tui/internal/models"
)

// AssignTiers splits records into three equal-frequency buckets by DailyCount.
//
// Records are ranked by (DailyCount, input position) and rank r of n falls in
// bucket r*3/n, so bucket sizes differ by at most one. Equal counts that straddle
// a boundary are split by input order.
func AssignTiers(records []models.Record) []models.DemandTier {
	n := len(records)
	tiers := make([]models.DemandTier, n)
	if n == 0 {
		return tiers
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return records[order[a]].DailyCount < records[order[b]].DailyCount
	})

	for rank, idx := range order {
		tiers[idx] = models.DemandTier(rank * len(models.AllTiers) / n)
	}
	return tiers
}

// TierBounds returns the smallest and largest DailyCount seen in each tier.
// Tiers with no records are omitted.
func TierBounds(records []models.TieredRecord) map[models.DemandTier][2]int {
	bounds := make(map[models.DemandTier][2]int)
	for _, r := range records {
		b, ok := bounds[r.Tier]
		if !ok {
			bounds[r.Tier] = [2]int{r.DailyCount, r.DailyCount}
			continue
		}
		if r.DailyCount < b[0] {
			b[0] = r.DailyCount
		}
		if r.DailyCount > b[1] {
			b[1] = r.DailyCount
		}
		bounds[r.Tier] = b
	}
	return bounds
}
