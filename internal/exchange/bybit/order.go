package bybit

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"trailbot/internal/exchange"
	"trailbot/internal/models"

	"github.com/google/uuid"
)

// ClosePosition flattens a position with a reduce-only IOC market order on
// the opposite side. The slippage tolerance caps how far the fill may move
// against the mark before the remainder is cancelled.
func (c *Client) ClosePosition(ctx context.Context, req exchange.CloseRequest) error {
	orderSide := "Sell"
	if req.Side == models.SideShort {
		orderSide = "Buy"
	}

	body := map[string]any{
		"category":              "linear",
		"symbol":                req.Symbol,
		"side":                  orderSide,
		"orderType":             "Market",
		"qty":                   strconv.FormatFloat(req.Size, 'f', -1, 64),
		"timeInForce":           "IOC",
		"reduceOnly":            true,
		"orderLinkId":           closeLinkID(req.Symbol),
		"slippageToleranceType": "Percent",
		"slippageTolerance":     strconv.FormatFloat(req.SlippagePct, 'f', -1, 64),
	}

	resp, err := doRequest[struct {
		OrderID string `json:"orderId"`
	}](ctx, c, http.MethodPost, "/v5/order/create", nil, body)
	if err != nil {
		return err
	}

	c.log.WithSymbol(req.Symbol).WithFields(map[string]interface{}{
		"component": "bybit",
		"order_id":  resp.Result.OrderID,
		"side":      orderSide,
		"qty":       req.Size,
	}).Info("Close order accepted.")
	return nil
}

func closeLinkID(symbol string) string {
	raw := strings.ReplaceAll(uuid.New().String(), "-", "")
	id := "close-" + strings.ToLower(symbol) + "-" + raw
	// orderLinkId is capped at 36 characters on v5.
	if len(id) > 36 {
		id = id[:36]
	}
	return id
}
