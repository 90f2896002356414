package exchange

import (
	"context"
	"trailbot/internal/models"
)

// CloseRequest asks for a position to be fully flattened with a market
// order. SlippagePct bounds how far the fill may deviate from the mark.
type CloseRequest struct {
	Symbol      string
	Side        models.PositionSide
	Size        float64
	SlippagePct float64
	Reason      string
}

// Client is the exchange boundary. FetchPositions must distinguish "no open
// positions" (empty slice, nil error) from "could not fetch" (non-nil
// error); the monitor wipes trailing state only on the former.
type Client interface {
	FetchPositions(ctx context.Context) ([]models.Position, error)
	ClosePosition(ctx context.Context, req CloseRequest) error
}
