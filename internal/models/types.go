package models

type PositionSide string

const (
	SideLong  PositionSide = "LONG"
	SideShort PositionSide = "SHORT"
)

// Position is one open position as seen in a single snapshot. It is derived
// fresh every polling cycle and never persisted.
type Position struct {
	Symbol        string       `json:"symbol"`
	Side          PositionSide `json:"side"`
	Size          float64      `json:"size"` // absolute contracts, > 0
	EntryPrice    float64      `json:"entry_price"`
	MarkPrice     float64      `json:"mark_price"`
	UnrealizedPnl float64      `json:"unrealized_pnl"` // quote currency
	Leverage      float64      `json:"leverage"`       // as reported by the exchange, 0 if unknown
	ProfitPct     float64      `json:"profit_pct"`     // pnl / margin * 100, filled by the engine
}
