package service

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"sync"

	"github.com/bytedance/sonic"

	"ig_bot/internal/models"
)

// session хранит пару токенов IG. Инвариант: либо оба токена есть,
// либо нет ни одного — половинчатое состояние наружу не выдаём.
type session struct {
	mu            sync.RWMutex
	cst           string
	securityToken string
}

func (s *session) tokens() (cst, securityToken string, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cst == "" || s.securityToken == "" {
		return "", "", false
	}
	return s.cst, s.securityToken, true
}

func (s *session) set(cst, securityToken string) {
	s.mu.Lock()
	s.cst = cst
	s.securityToken = securityToken
	s.mu.Unlock()
}

func (s *session) clear() {
	s.mu.Lock()
	s.cst = ""
	s.securityToken = ""
	s.mu.Unlock()
}

// EnsureAuthenticated — no-op при живой сессии, иначе логин.
// Параллельные вызовы могут залогиниться дважды — это безопасно,
// IG просто выдаст свежую пару токенов, побеждает последняя запись.
func (c *Client) EnsureAuthenticated(ctx context.Context) error {
	if _, _, ok := c.session.tokens(); ok {
		return nil
	}
	return c.login(ctx)
}

// Invalidate заставляет следующий EnsureAuthenticated перелогиниться.
// Зовётся ровно один раз после 401 на защищённом вызове: токены IG
// протухают молча, другого сигнала об этом нет.
func (c *Client) Invalidate() {
	c.session.clear()
}

// login дергает POST /session. Токены IG приезжают не в теле,
// а в заголовках ответа CST и X-SECURITY-TOKEN, поэтому логин
// не ходит через c.do (тот отдаёт только тело и статус).
func (c *Client) login(ctx context.Context) error {
	if c.apiKey == "" || c.identifier == "" || c.password == "" {
		return models.NewAuth("не заданы IG_API_KEY / IG_IDENTIFIER / IG_PASSWORD")
	}

	payload, err := sonic.Marshal(map[string]any{
		"identifier":        c.identifier,
		"password":          c.password,
		"encryptedPassword": false,
	})
	if err != nil {
		return models.NewAuth("marshal login payload: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/session", bytes.NewReader(payload))
	if err != nil {
		return models.NewAuth("build login request: %v", err)
	}
	req.Header.Set("X-IG-API-KEY", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return models.WrapNetwork(err, "POST /session")
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		body, _ := io.ReadAll(resp.Body)
		return models.NewAuth("логин отклонён, http %d: %s", resp.StatusCode, body)
	}

	cst := resp.Header.Get("CST")
	securityToken := resp.Header.Get("X-SECURITY-TOKEN")
	if cst == "" || securityToken == "" {
		return models.NewAuth("IG не вернул токены сессии (CST=%t, X-SECURITY-TOKEN=%t)",
			cst != "", securityToken != "")
	}

	c.session.set(cst, securityToken)
	return nil
}
