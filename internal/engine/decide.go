package engine

import (
	"fmt"
	"trailbot/internal/config"
	"trailbot/internal/models"
)

type Action int

const (
	ActionHold Action = iota
	ActionClose
)

// Close causes, used as metric labels.
const (
	CauseTrailingStop = "trailing_stop"
	CauseHardStop     = "hard_stop"
)

type Decision struct {
	Action Action
	Reason string
	Cause  string
}

// Decide is the close/hold verdict for one position given its high-water
// mark and tier. Pure: same inputs, same decision.
//
// The hard stop-loss is checked even when a tiered check ran and held,
// because a position can fall from an unprotected state straight through the
// loss floor without ever earning a tier.
func Decide(pos models.Position, peak float64, tier Tier, cfg config.BotConfig) Decision {
	if tier != TierNone {
		trigger := peak * (1 - tier.Retracement(cfg))
		if pos.ProfitPct <= trigger {
			return Decision{
				Action: ActionClose,
				Reason: fmt.Sprintf("tiered trailing stop: tier=%s, peak=%.2f, current=%.2f", tier, peak, pos.ProfitPct),
				Cause:  CauseTrailingStop,
			}
		}
	}

	if pos.ProfitPct <= -cfg.HardStopLossPct {
		return Decision{
			Action: ActionClose,
			Reason: fmt.Sprintf("hard stop-loss: current=%.2f", pos.ProfitPct),
			Cause:  CauseHardStop,
		}
	}

	return Decision{Action: ActionHold}
}
