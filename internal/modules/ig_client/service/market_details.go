package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"ig_bot/internal/models"
)

// MarketDetails — снапшот bid/offer плюс правила торговли по инструменту
// (GET /markets/{epic}). Один вызов кормит и валидацию размера,
// и ожидаемую цену входа.
func (c *Client) MarketDetails(ctx context.Context, epic string) (*models.MarketDetails, error) {
	data, status, err := c.doAuthorized(ctx, http.MethodGet, "/markets/"+url.PathEscape(epic), nil, "")
	if err != nil {
		return nil, err
	}
	if status/100 != 2 {
		return nil, models.NewNetwork("markets/%s: http %d: %s", epic, status, data)
	}

	var r marketDetailsResponse
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, models.NewNetwork("нечитаемый ответ markets/%s: %v", epic, err)
	}

	return &models.MarketDetails{
		Epic:              epic,
		Name:              r.Instrument.Name,
		MarketStatus:      r.Snapshot.MarketStatus,
		Quote:             models.PriceQuote{Epic: epic, Bid: r.Snapshot.Bid, Offer: r.Snapshot.Offer},
		MinDealSize:       r.DealingRules.MinDealSize.Value,
		DealSizeIncrement: r.DealingRules.DealSizeIncrement.Value,
	}, nil
}

// Quote — только котировка, для цикла монитора.
func (c *Client) Quote(ctx context.Context, epic string) (models.PriceQuote, error) {
	md, err := c.MarketDetails(ctx, epic)
	if err != nil {
		return models.PriceQuote{}, err
	}
	return md.Quote, nil
}
