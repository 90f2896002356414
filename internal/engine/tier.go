package engine

import "trailbot/internal/config"

// Tier is the protection band a position's high-water mark has earned.
// Ordering matters: a higher tier means more accumulated profit and a
// tighter trailing stop.
type Tier int

const (
	TierNone Tier = iota
	TierLowProtect
	TierFirst
	TierSecond
)

func (t Tier) String() string {
	switch t {
	case TierLowProtect:
		return "LOW_PROTECT"
	case TierFirst:
		return "TIER_1"
	case TierSecond:
		return "TIER_2"
	default:
		return "NONE"
	}
}

// Classify maps a high-water-mark profit ratio to its tier. Thresholds are
// inclusive lower bounds, checked highest first. Keyed on the peak rather
// than the live profit, so a symbol's tier never moves backwards.
func Classify(peak float64, cfg config.BotConfig) Tier {
	switch {
	case peak >= cfg.Tier2Threshold:
		return TierSecond
	case peak >= cfg.Tier1Threshold:
		return TierFirst
	case peak >= cfg.LowThreshold:
		return TierLowProtect
	default:
		return TierNone
	}
}

// Retracement returns the fraction of the peak that may be given back before
// the tier's trailing stop fires. Zero for TierNone, which has no trailing
// stop.
func (t Tier) Retracement(cfg config.BotConfig) float64 {
	switch t {
	case TierLowProtect:
		return cfg.LowRetracement
	case TierFirst:
		return cfg.Tier1Retracement
	case TierSecond:
		return cfg.Tier2Retracement
	default:
		return 0
	}
}
