package bybit

import (
	"context"
	"net/http"
	"net/url"
	"trailbot/internal/models"
)

type positionPage struct {
	List []struct {
		Symbol        string `json:"symbol"`
		Side          string `json:"side"`
		Size          string `json:"size"`
		AvgPrice      string `json:"avgPrice"`
		MarkPrice     string `json:"markPrice"`
		UnrealisedPnl string `json:"unrealisedPnl"`
		Leverage      string `json:"leverage"`
	} `json:"list"`
	NextPageCursor string `json:"nextPageCursor"`
}

// FetchPositions returns every open USDT-perpetual position on the account,
// following the page cursor until the result set is exhausted — a truncated
// snapshot would leave positions beyond the first page unmonitored.
// Zero-size and zero-mark-price rows are dropped here so the monitor only
// ever sees positions it can evaluate. An empty slice with a nil error means
// the account is genuinely flat.
func (c *Client) FetchPositions(ctx context.Context) ([]models.Position, error) {
	var positions []models.Position
	cursor := ""

	for {
		params := url.Values{}
		params.Set("category", "linear")
		params.Set("settleCoin", "USDT")
		params.Set("limit", "200")
		if cursor != "" {
			params.Set("cursor", cursor)
		}

		resp, err := doRequest[positionPage](ctx, c, http.MethodGet, "/v5/position/list", params, nil)
		if err != nil {
			return nil, err
		}

		for _, item := range resp.Result.List {
			size := parseFloatOrZero(item.Size)
			if size == 0 {
				continue
			}
			markPrice := parseFloatOrZero(item.MarkPrice)
			if markPrice == 0 {
				continue
			}

			side := models.SideLong
			if item.Side == "Sell" {
				side = models.SideShort
			}

			positions = append(positions, models.Position{
				Symbol:        item.Symbol,
				Side:          side,
				Size:          size,
				EntryPrice:    parseFloatOrZero(item.AvgPrice),
				MarkPrice:     markPrice,
				UnrealizedPnl: parseFloatOrZero(item.UnrealisedPnl),
				Leverage:      parseFloatOrZero(item.Leverage),
			})
		}

		cursor = resp.Result.NextPageCursor
		if cursor == "" {
			break
		}
	}

	if positions == nil {
		positions = []models.Position{}
	}
	return positions, nil
}
