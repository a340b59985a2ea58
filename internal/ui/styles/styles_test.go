package styles

import (
	"strings"
	"testing"

	"github.com/j-veylop/bikeshare-dashboard-tui/internal/models"
)

func TestTierColor(t *testing.T) {
	tests := []struct {
		tier models.DemandTier
		want string
	}{
		{models.TierLow, string(TierLowColor)},
		{models.TierMedium, string(TierMediumColor)},
		{models.TierHigh, string(TierHighColor)},
		{models.DemandTier(9), string(Subtle)},
	}
	for _, tt := range tests {
		if got := string(TierColor(tt.tier)); got != tt.want {
			t.Errorf("TierColor(%v) = %s, want %s", tt.tier, got, tt.want)
		}
	}
}

func TestTierColorsDistinct(t *testing.T) {
	seen := map[string]bool{}
	for _, tier := range models.AllTiers {
		c := string(TierColor(tier))
		if seen[c] {
			t.Errorf("tier %v reuses color %s", tier, c)
		}
		seen[c] = true
	}
}

func TestCenterBoth(t *testing.T) {
	out := CenterBoth("x", 9, 3)
	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %d, want 3", len(lines))
	}
	if strings.TrimSpace(lines[1]) != "x" {
		t.Errorf("middle line = %q, want centered x", lines[1])
	}
}
