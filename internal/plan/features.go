package plan

import "errors"

// Tier is a user's subscription level.
type Tier string

const (
	TierBase Tier = "base"
	TierPro  Tier = "pro"
	TierPlus Tier = "plus"
)

// ErrUnknownTier is returned by ParseTier for values outside the enumeration.
// Resolve never returns it; entitlement resolution must not block baseline usage.
var ErrUnknownTier = errors.New("unknown plan tier")

// ParseTier validates a client-supplied tier value.
func ParseTier(s string) (Tier, error) {
	switch Tier(s) {
	case TierBase, TierPro, TierPlus:
		return Tier(s), nil
	}
	return "", ErrUnknownTier
}

// Features is the capability set derived from a tier. MaxTasks stays
// unbounded for every tier.
type Features struct {
	Tier              Tier     `json:"plan_type"`
	MaxCategories     int      `json:"max_categories"`
	AIFeatures        bool     `json:"ai_features"`
	AdvancedAnalytics bool     `json:"advanced_analytics"`
	ExportFormats     []string `json:"export_formats"`
}

// Resolve maps a stored tier value to its feature set. It never fails: an
// unrecognized value falls back to the base tier. Callers gating premium
// operations must resolve fresh on every request since the tier can change
// between requests.
func Resolve(tier string) Features {
	switch Tier(tier) {
	case TierPro:
		return Features{
			Tier:              TierPro,
			MaxCategories:     50,
			AIFeatures:        true,
			AdvancedAnalytics: true,
			ExportFormats:     []string{"pdf", "excel", "csv"},
		}
	case TierPlus:
		return Features{
			Tier:              TierPlus,
			MaxCategories:     100,
			AIFeatures:        true,
			AdvancedAnalytics: true,
			ExportFormats:     []string{"pdf", "excel", "csv", "json"},
		}
	default:
		return Features{
			Tier:              TierBase,
			MaxCategories:     5,
			AIFeatures:        false,
			AdvancedAnalytics: false,
			ExportFormats:     []string{"pdf"},
		}
	}
}
