package service

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/bytedance/sonic"

	"ig_bot/internal/models"
)

// ClosePosition закрывает позицию рыночным ордером противоположного
// направления. IG принимает закрытие как POST /positions/otc с заголовком
// "_method: DELETE". direction — направление САМОЙ позиции, не ордера.
//
// Если позиции на IG уже нет (закрыл сам брокер), возвращается
// OrderRejected с NotFound=true — вызывающий вправе считать её закрытой.
func (c *Client) ClosePosition(ctx context.Context, dealID, epic string, direction models.Direction, size float64) (*models.Confirmation, error) {
	payload, err := sonic.Marshal(map[string]any{
		"dealId":    dealID,
		"direction": string(direction.Opposite()),
		"size":      size,
		"orderType": "MARKET",
	})
	if err != nil {
		return nil, models.NewRejected("ClosePosition marshal: %v", err)
	}

	data, status, err := c.doAuthorized(ctx, http.MethodPost, "/positions/otc", payload, "DELETE")
	if err != nil {
		return nil, err
	}
	if status/100 != 2 {
		if looksLikeMissingPosition(string(data)) {
			return nil, models.NewRejectedNotFound("позиция %s не найдена на IG: %s", dealID, data)
		}
		return nil, models.NewRejected("закрытие отклонено, http %d: %s", status, data)
	}

	var r dealReferenceResponse
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, models.NewRejected("нечитаемый ответ на закрытие: %v; body=%s", err, data)
	}
	if r.DealReference == "" {
		return nil, models.NewRejected("пустой dealReference при закрытии: %s", data)
	}

	return c.DealConfirmation(ctx, r.DealReference)
}
