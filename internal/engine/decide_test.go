package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decideAt(t *testing.T, profitPct, peak float64) Decision {
	t.Helper()
	cfg := testBotConfig()
	pos := position("ETHUSDT", 0)
	pos.ProfitPct = profitPct
	return Decide(pos, peak, Classify(peak, cfg), cfg)
}

func TestDecideHoldsAboveTrigger(t *testing.T) {
	// Peak 20 puts the symbol in TIER_1 with a 0.3 retracement, so the
	// trigger sits at 14. 18 is above it.
	dec := decideAt(t, 18, 20)
	assert.Equal(t, ActionHold, dec.Action)
	assert.Empty(t, dec.Reason)
}

func TestDecideClosesOnTieredRetracement(t *testing.T) {
	dec := decideAt(t, 13, 20)
	require.Equal(t, ActionClose, dec.Action)
	assert.Equal(t, "tiered trailing stop: tier=TIER_1, peak=20.00, current=13.00", dec.Reason)
	assert.Equal(t, CauseTrailingStop, dec.Cause)
}

func TestDecideTriggerIsInclusive(t *testing.T) {
	dec := decideAt(t, 14, 20)
	assert.Equal(t, ActionClose, dec.Action)
}

func TestDecideHardStopWithoutTier(t *testing.T) {
	// Peak 2 never earned a tier; the loss floor still applies.
	dec := decideAt(t, -11, 2)
	require.Equal(t, ActionClose, dec.Action)
	assert.Equal(t, "hard stop-loss: current=-11.00", dec.Reason)
	assert.Equal(t, CauseHardStop, dec.Cause)
}

func TestDecideHardStopIsInclusive(t *testing.T) {
	dec := decideAt(t, -10, 0)
	assert.Equal(t, ActionClose, dec.Action)
	assert.Equal(t, CauseHardStop, dec.Cause)

	dec = decideAt(t, -9.99, 0)
	assert.Equal(t, ActionHold, dec.Action)
}

func TestDecideTieredCloseWinsOverHardStop(t *testing.T) {
	// A protected symbol collapsing through both lines reports the
	// trailing-stop reason, since that check runs first.
	dec := decideAt(t, -12, 20)
	require.Equal(t, ActionClose, dec.Action)
	assert.Equal(t, CauseTrailingStop, dec.Cause)
}

func TestDecideHighTierProfitableHold(t *testing.T) {
	// TIER_2 trigger at 85 * 0.85 = 72.25.
	dec := decideAt(t, 80, 85)
	assert.Equal(t, ActionHold, dec.Action)

	dec = decideAt(t, 72, 85)
	assert.Equal(t, ActionClose, dec.Action)
}

func TestDecideIsDeterministic(t *testing.T) {
	cfg := testBotConfig()
	pos := position("ETHUSDT", 0)
	pos.ProfitPct = 13

	first := Decide(pos, 20, Classify(20, cfg), cfg)
	second := Decide(pos, 20, Classify(20, cfg), cfg)
	assert.Equal(t, first, second)
}
