package models

import (
	"fmt"
	"strings"
)

// DemandTier is the equal-frequency bucket of a record's daily count.
type DemandTier int

const (
	// TierLow is the bottom third.
	TierLow DemandTier = iota
	// TierMedium is the middle third.
	TierMedium
	// TierHigh is the top third.
	TierHigh
)

// AllTiers lists the tiers in ascending order.
var AllTiers = []DemandTier{TierLow, TierMedium, TierHigh}

// String returns the display name of the tier.
func (t DemandTier) String() string {
	switch t {
	case TierLow:
		return "Low"
	case TierMedium:
		return "Medium"
	case TierHigh:
		return "High"
	default:
		return "Unknown"
	}
}

// ParseDemandTier converts a tier name back into a DemandTier.
func ParseDemandTier(s string) (DemandTier, error) {
	for _, t := range AllTiers {
		if strings.EqualFold(t.String(), s) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown demand tier %q", s)
}

// TieredRecord is a filtered record annotated with its demand tier.
type TieredRecord struct {
	Record
	Tier DemandTier
}
