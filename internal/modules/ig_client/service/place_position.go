package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/bytedance/sonic"

	"ig_bot/internal/models"
)

// OpenPosition отправляет рыночный ордер на IG и дожидается подтверждения
// сделки. Ровно одна повторная отправка при протухшей сессии (401),
// любой другой неуспех — терминальный OrderRejected.
func (c *Client) OpenPosition(ctx context.Context, req models.OrderRequest) (*models.Confirmation, error) {
	body := map[string]any{
		"epic":           req.Epic,
		"direction":      string(req.Direction),
		"size":           req.Size,
		"orderType":      "MARKET",
		"guaranteedStop": false,
		"forceOpen":      true,
		"currencyCode":   req.CurrencyCode,
		"expiry":         "-",
	}
	// уровни либо дистанции — что пришло, то и шлём, без пересчёта
	if req.StopLevel > 0 {
		body["stopLevel"] = req.StopLevel
	}
	if req.LimitLevel > 0 {
		body["limitLevel"] = req.LimitLevel
	}
	if req.StopDistance > 0 {
		body["stopDistance"] = req.StopDistance
	}
	if req.LimitDistance > 0 {
		body["limitDistance"] = req.LimitDistance
	}

	payload, err := sonic.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("OpenPosition marshal: %w", err)
	}

	data, status, err := c.doAuthorized(ctx, http.MethodPost, "/positions/otc", payload, "")
	if err != nil {
		return nil, err
	}
	if status/100 != 2 {
		return nil, models.NewRejected("ордер отклонён, http %d: %s", status, data)
	}

	var r dealReferenceResponse
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, models.NewRejected("нечитаемый ответ на ордер: %v; body=%s", err, data)
	}
	if r.DealReference == "" {
		return nil, models.NewRejected("пустой dealReference: %s", data)
	}

	return c.DealConfirmation(ctx, r.DealReference)
}

// DealConfirmation забирает итоговый статус сделки по dealReference.
// REJECTED превращается в OrderRejected с причиной от брокера.
func (c *Client) DealConfirmation(ctx context.Context, dealReference string) (*models.Confirmation, error) {
	data, status, err := c.doAuthorized(ctx, http.MethodGet, "/confirms/"+dealReference, nil, "")
	if err != nil {
		return nil, err
	}
	if status/100 != 2 {
		return nil, models.NewRejected("confirm недоступен, http %d: %s", status, data)
	}

	var r confirmResponse
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, models.NewRejected("нечитаемый confirm: %v; body=%s", err, data)
	}

	conf := &models.Confirmation{
		DealReference: r.DealReference,
		DealID:        r.DealID,
		Status:        r.DealStatus,
		Reason:        r.Reason,
		Level:         r.Level,
	}
	if r.DealStatus != "ACCEPTED" {
		if looksLikeMissingPosition(r.Reason) {
			return nil, models.NewRejectedNotFound("сделка отклонена: %s", r.Reason)
		}
		return nil, models.NewRejected("сделка отклонена: %s", r.Reason)
	}
	return conf, nil
}
