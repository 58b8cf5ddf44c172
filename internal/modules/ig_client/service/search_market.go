package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"ig_bot/internal/models"
)

// SearchMarket резолвит человекочитаемый символ в epic.
// Берём первый результат поиска — так же, как делает IG web terminal.
func (c *Client) SearchMarket(ctx context.Context, symbol string) (string, error) {
	data, status, err := c.doAuthorized(ctx,
		http.MethodGet, "/markets?searchTerm="+url.QueryEscape(symbol), nil, "")
	if err != nil {
		return "", err
	}
	if status/100 != 2 {
		return "", models.NewResolution("поиск %q не удался, http %d: %s", symbol, status, data)
	}

	var r marketSearchResponse
	if err := json.Unmarshal(data, &r); err != nil {
		return "", models.NewResolution("нечитаемый ответ поиска: %v", err)
	}
	if len(r.Markets) == 0 {
		return "", models.NewResolution("по символу %q не найдено ни одного инструмента", symbol)
	}
	return r.Markets[0].Epic, nil
}
