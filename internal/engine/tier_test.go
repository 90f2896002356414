package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyThresholdsAreInclusive(t *testing.T) {
	cfg := testBotConfig()

	cases := []struct {
		peak float64
		want Tier
	}{
		{-20, TierNone},
		{0, TierNone},
		{4.99, TierNone},
		{5, TierLowProtect},
		{14.99, TierLowProtect},
		{15, TierFirst},
		{29.99, TierFirst},
		{30, TierSecond},
		{1000, TierSecond},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, Classify(tc.peak, cfg), "peak=%v", tc.peak)
	}
}

func TestClassifyIsMonotonic(t *testing.T) {
	cfg := testBotConfig()

	peaks := []float64{-50, -1, 0, 3, 5, 7, 15, 22, 30, 80}
	prev := Classify(peaks[0], cfg)
	for _, peak := range peaks[1:] {
		cur := Classify(peak, cfg)
		assert.GreaterOrEqual(t, int(cur), int(prev), "tier regressed at peak=%v", peak)
		prev = cur
	}
}

func TestRetracementTightensWithTier(t *testing.T) {
	cfg := testBotConfig()

	assert.Equal(t, 0.0, TierNone.Retracement(cfg))
	assert.Greater(t, TierLowProtect.Retracement(cfg), TierFirst.Retracement(cfg))
	assert.Greater(t, TierFirst.Retracement(cfg), TierSecond.Retracement(cfg))
}

func TestTierString(t *testing.T) {
	assert.Equal(t, "NONE", TierNone.String())
	assert.Equal(t, "LOW_PROTECT", TierLowProtect.String())
	assert.Equal(t, "TIER_1", TierFirst.String())
	assert.Equal(t, "TIER_2", TierSecond.String())
}
