package engine

import "trailbot/internal/models"

// ProfitPct estimates return on margin as a percentage:
// pnl / (size * entry / leverage) * 100. The exchange-reported per-position
// leverage wins over the configured account leverage when present, since
// symbols can carry different configured leverage.
func ProfitPct(pos models.Position, accountLeverage float64) float64 {
	leverage := pos.Leverage
	if leverage <= 0 {
		leverage = accountLeverage
	}
	if leverage <= 0 {
		return 0
	}

	margin := pos.Size * pos.EntryPrice / leverage
	if margin == 0 {
		return 0
	}
	return pos.UnrealizedPnl / margin * 100
}
