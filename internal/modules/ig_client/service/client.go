package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"ig_bot/internal/models"
	"ig_bot/internal/modules/config"
)

// Client — REST-клиент IG Markets (gateway/deal).
// Сессию (CST + X-SECURITY-TOKEN) держит внутри и сам перелогинивается,
// когда IG отвечает 401 на защищённый вызов.
type Client struct {
	apiKey     string
	identifier string
	password   string
	baseURL    string
	currency   string

	http    *http.Client
	session session
}

func NewClient(cfg *config.Config) *Client {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		apiKey:     cfg.IG.APIKey,
		identifier: cfg.IG.Identifier,
		password:   cfg.IG.Password,
		baseURL:    cfg.IG.BaseURL,
		currency:   cfg.IG.Currency,
		http:       &http.Client{Timeout: timeout},
	}
}

// do — один сырой вызов IG с текущими токенами сессии.
// methodOverride — значение заголовка _method (IG закрывает позиции
// через POST /positions/otc с "_method: DELETE").
func (c *Client) do(ctx context.Context, method, path string, payload []byte, methodOverride string) ([]byte, int, error) {
	var body io.Reader
	if len(payload) > 0 {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, 0, fmt.Errorf("build request %s %s: %w", method, path, err)
	}

	req.Header.Set("X-IG-API-KEY", c.apiKey)
	req.Header.Set("Accept", "application/json")
	if len(payload) > 0 {
		req.Header.Set("Content-Type", "application/json")
	}
	if methodOverride != "" {
		req.Header.Set("_method", methodOverride)
	}
	if cst, sec, ok := c.session.tokens(); ok {
		req.Header.Set("CST", cst)
		req.Header.Set("X-SECURITY-TOKEN", sec)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, models.WrapNetwork(err, "%s %s", method, path)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	return data, resp.StatusCode, nil
}

// doAuthorized — защищённый вызов: гарантирует сессию и на 401
// один раз сбрасывает её и повторяет тот же запрос. Второй 401
// отдаётся вызывающему как есть.
func (c *Client) doAuthorized(ctx context.Context, method, path string, payload []byte, methodOverride string) ([]byte, int, error) {
	if err := c.EnsureAuthenticated(ctx); err != nil {
		return nil, 0, err
	}

	data, status, err := c.do(ctx, method, path, payload, methodOverride)
	if err != nil {
		return nil, 0, err
	}
	if status != http.StatusUnauthorized {
		return data, status, nil
	}

	c.Invalidate()
	if err := c.EnsureAuthenticated(ctx); err != nil {
		return nil, 0, err
	}
	return c.do(ctx, method, path, payload, methodOverride)
}
