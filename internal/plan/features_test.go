package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	cases := []struct {
		tier          string
		maxCategories int
		ai            bool
		analytics     bool
		exports       []string
	}{
		{"base", 5, false, false, []string{"pdf"}},
		{"pro", 50, true, true, []string{"pdf", "excel", "csv"}},
		{"plus", 100, true, true, []string{"pdf", "excel", "csv", "json"}},
	}
	for _, tc := range cases {
		t.Run(tc.tier, func(t *testing.T) {
			f := Resolve(tc.tier)
			assert.Equal(t, Tier(tc.tier), f.Tier)
			assert.Equal(t, tc.maxCategories, f.MaxCategories)
			assert.Equal(t, tc.ai, f.AIFeatures)
			assert.Equal(t, tc.analytics, f.AdvancedAnalytics)
			assert.Equal(t, tc.exports, f.ExportFormats)
		})
	}
}

func TestResolveUnknownTierFallsBackToBase(t *testing.T) {
	base := Resolve("base")
	for _, tier := range []string{"", "unknown-value", "enterprise", "BASE"} {
		assert.Equal(t, base, Resolve(tier), "tier %q", tier)
	}
}

func TestParseTier(t *testing.T) {
	for _, tier := range []string{"base", "pro", "plus"} {
		got, err := ParseTier(tier)
		assert.NoError(t, err)
		assert.Equal(t, Tier(tier), got)
	}
	_, err := ParseTier("gold")
	assert.ErrorIs(t, err, ErrUnknownTier)
}
