package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/opentracing/opentracing-go"

	"ig_bot/internal/models"
	"ig_bot/pkg/logger"
)

// SignalHandler — раннер, проводящий сигнал до зарегистрированной позиции.
type SignalHandler interface {
	HandleSignal(ctx context.Context, sig models.Signal) (*models.SignalResult, error)
}

type MarketInfo interface {
	MarketDetails(ctx context.Context, epic string) (*models.MarketDetails, error)
}

type Positions interface {
	Tracked() []models.TrackedPosition
}

type Handler struct {
	signals   SignalHandler
	markets   MarketInfo
	positions Positions
}

func NewHandler(signals SignalHandler, markets MarketInfo, positions Positions) *Handler {
	return &Handler{signals: signals, markets: markets, positions: positions}
}

func (h *Handler) Mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/webhook", h.handleWebhook)
	mux.HandleFunc("/epic/", h.handleEpicInfo)
	mux.HandleFunc("/positions", h.handlePositions)
	mux.HandleFunc("/env", h.handleEnv)
	mux.HandleFunc("/", h.handleRoot)
	return mux
}

// webhookRequest принимает оба варианта имён полей: sl/tp (TradingView
// алерты из оригинального бота) и stopLoss/takeProfit, size и quantity.
type webhookRequest struct {
	Action     string  `json:"action"`
	Symbol     string  `json:"symbol"`
	Epic       string  `json:"epic"`
	Size       float64 `json:"size"`
	Quantity   float64 `json:"quantity"`
	SL         float64 `json:"sl"`
	TP         float64 `json:"tp"`
	StopLoss   float64 `json:"stopLoss"`
	TakeProfit float64 `json:"takeProfit"`
	SLDistance float64 `json:"slDistance"`
	TPDistance float64 `json:"tpDistance"`
}

func firstNonZero(vals ...float64) float64 {
	for _, v := range vals {
		if v != 0 {
			return v
		}
	}
	return 0
}

type errorResponse struct {
	Status  string `json:"status"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type successResponse struct {
	Status string `json:"status"`
	models.SignalResult
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, kind models.ErrorKind, msg string) {
	writeJSON(w, status, errorResponse{Status: "error", Kind: string(kind), Message: msg})
}

// httpStatusFor: клиентские ошибки — 400, отказ брокера/авторизации — 502,
// транспорт — 504.
func httpStatusFor(kind models.ErrorKind) int {
	switch kind {
	case models.KindValidation, models.KindResolution:
		return http.StatusBadRequest
	case models.KindAuthentication, models.KindOrderRejected:
		return http.StatusBadGateway
	case models.KindNetwork:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) handleWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, models.KindValidation, "только POST")
		return
	}

	raw, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, models.KindValidation, "не смогли прочитать тело запроса")
		return
	}

	var req webhookRequest
	if err := sonic.Unmarshal(raw, &req); err != nil {
		writeError(w, http.StatusBadRequest, models.KindValidation, "тело запроса не является валидным JSON")
		return
	}

	action, ok := models.ParseAction(req.Action)
	if !ok {
		writeError(w, http.StatusBadRequest, models.KindValidation,
			"action должен быть buy или sell, получен "+req.Action)
		return
	}

	span := opentracing.GlobalTracer().StartSpan("webhook.signal")
	defer span.Finish()
	span.SetTag("action", string(action))
	span.SetTag("symbol", req.Symbol)
	span.SetTag("epic", req.Epic)
	ctx := opentracing.ContextWithSpan(r.Context(), span)

	sig := models.Signal{
		Action:        action,
		Symbol:        strings.TrimSpace(req.Symbol),
		Epic:          strings.TrimSpace(req.Epic),
		Size:          firstNonZero(req.Size, req.Quantity),
		StopLoss:      firstNonZero(req.StopLoss, req.SL),
		TakeProfit:    firstNonZero(req.TakeProfit, req.TP),
		StopDistance:  req.SLDistance,
		LimitDistance: req.TPDistance,
	}

	res, err := h.signals.HandleSignal(ctx, sig)
	if err != nil {
		kind := models.KindOf(err)
		span.SetTag("error", true)
		logger.Warn("webhook: signal rejected (%s): %v", kind, err)
		writeError(w, httpStatusFor(kind), kind, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, successResponse{Status: "success", SignalResult: *res})
}

// handleEpicInfo — правила торговли по инструменту (аналог /epic-info).
func (h *Handler) handleEpicInfo(w http.ResponseWriter, r *http.Request) {
	epic := strings.TrimPrefix(r.URL.Path, "/epic/")
	if epic == "" {
		writeError(w, http.StatusBadRequest, models.KindValidation, "нужен epic в пути: /epic/{epic}")
		return
	}

	md, err := h.markets.MarketDetails(r.Context(), epic)
	if err != nil {
		kind := models.KindOf(err)
		writeError(w, httpStatusFor(kind), kind, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"epic":              md.Epic,
		"name":              md.Name,
		"marketStatus":      md.MarketStatus,
		"bid":               md.Quote.Bid,
		"offer":             md.Quote.Offer,
		"minDealSize":       md.MinDealSize,
		"dealSizeIncrement": md.DealSizeIncrement,
	})
}

func (h *Handler) handlePositions(w http.ResponseWriter, r *http.Request) {
	type trackedOut struct {
		DealID     string  `json:"dealId"`
		Epic       string  `json:"epic"`
		Direction  string  `json:"direction"`
		Size       float64 `json:"size"`
		Entry      float64 `json:"entry"`
		StopLoss   float64 `json:"stopLoss"`
		TakeProfit float64 `json:"takeProfit"`
		OpenedAt   int64   `json:"openedAtUnix"`
	}

	positions := h.positions.Tracked()
	out := make([]trackedOut, 0, len(positions))
	for _, p := range positions {
		out = append(out, trackedOut{
			DealID:     p.DealID,
			Epic:       p.Epic,
			Direction:  string(p.Direction),
			Size:       p.Size,
			Entry:      p.Entry,
			StopLoss:   p.StopLoss,
			TakeProfit: p.TakeProfit,
			OpenedAt:   p.OpenedAt.Unix(),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"positions": out})
}

// handleEnv — только факт наличия кредов, никогда значения.
func (h *Handler) handleEnv(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"IG_API_KEY_loaded":    os.Getenv("IG_API_KEY") != "",
		"IG_IDENTIFIER_loaded": os.Getenv("IG_IDENTIFIER") != "",
		"IG_PASSWORD_loaded":   os.Getenv("IG_PASSWORD") != "",
	})
}

func (h *Handler) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeError(w, http.StatusNotFound, models.KindValidation, "нет такой ручки")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "✅ IG бот запущен"})
}
