package runner

import (
	"context"
	"time"

	"ig_bot/internal/helper"
	"ig_bot/internal/models"
	"ig_bot/internal/modules/config"
	"ig_bot/internal/notify"
	"ig_bot/pkg/logger"
)

// Broker — что раннеру нужно от IG-клиента.
type Broker interface {
	SearchMarket(ctx context.Context, symbol string) (string, error)
	MarketDetails(ctx context.Context, epic string) (*models.MarketDetails, error)
	OpenPosition(ctx context.Context, req models.OrderRequest) (*models.Confirmation, error)
}

// Registry — куда регистрировать открытую позицию (монитор).
type Registry interface {
	Register(p models.TrackedPosition)
}

// Runner — адаптер входящих сигналов: resolve -> validate -> open -> register.
// Единственный путь записи в карту монитора снаружи.
type Runner struct {
	cfg *config.Config
	ig  Broker
	mon Registry
	n   notify.Notifier
}

func New(cfg *config.Config, ig Broker, mon Registry, n notify.Notifier) *Runner {
	return &Runner{cfg: cfg, ig: ig, mon: mon, n: n}
}

// HandleSignal проводит один сигнал через весь жизненный цикл.
// Ошибки отдаются вызывающему как есть, с видом из таксономии —
// ни одна не глотается молча.
func (r *Runner) HandleSignal(ctx context.Context, sig models.Signal) (*models.SignalResult, error) {
	if sig.Action != models.ActionBuy && sig.Action != models.ActionSell {
		return nil, models.NewValidation("неизвестный action %q", sig.Action)
	}

	size := sig.Size
	if size == 0 {
		size = r.cfg.OrderSize
	}
	if size <= 0 {
		return nil, models.NewValidation("size должен быть > 0, получен %v", size)
	}

	// 1. Символ -> epic
	epic := sig.Epic
	if epic == "" {
		if sig.Symbol == "" {
			return nil, models.NewValidation("в сигнале нет ни symbol, ни epic")
		}
		resolved, err := r.ig.SearchMarket(ctx, sig.Symbol)
		if err != nil {
			return nil, err
		}
		epic = resolved
	}

	// 2. Снапшот инструмента: ожидаемый вход + правила размера
	md, err := r.ig.MarketDetails(ctx, epic)
	if err != nil {
		return nil, err
	}
	entry := md.Quote.Mid()
	size = helper.ClampSize(size, md.MinDealSize, md.DealSizeIncrement)

	direction := sig.Action.Direction()
	req := models.OrderRequest{
		Epic:          epic,
		Direction:     direction,
		Size:          size,
		CurrencyCode:  r.cfg.IG.Currency,
		StopLevel:     sig.StopLoss,
		LimitLevel:    sig.TakeProfit,
		StopDistance:  sig.StopDistance,
		LimitDistance: sig.LimitDistance,
	}
	if err := req.Validate(entry); err != nil {
		return nil, err
	}

	// 3. Рыночный ордер
	conf, err := r.ig.OpenPosition(ctx, req)
	if err != nil {
		logger.Error("runner: open %s %s failed: %v", epic, direction, err)
		return nil, err
	}

	// 4. Регистрация в мониторе
	if conf.Level > 0 {
		entry = conf.Level
	}
	pos := models.TrackedPosition{
		DealID:     conf.DealID,
		Epic:       epic,
		Direction:  direction,
		Size:       size,
		Entry:      entry,
		StopLoss:   sig.StopLoss,
		TakeProfit: sig.TakeProfit,
		OpenedAt:   time.Now(),
	}
	// дистанции переводим в абсолютные пороги для монитора от факт. входа
	if sig.StopDistance > 0 {
		if direction.IsLong() {
			pos.StopLoss = entry - sig.StopDistance
		} else {
			pos.StopLoss = entry + sig.StopDistance
		}
	}
	if sig.LimitDistance > 0 {
		if direction.IsLong() {
			pos.TakeProfit = entry + sig.LimitDistance
		} else {
			pos.TakeProfit = entry - sig.LimitDistance
		}
	}
	r.mon.Register(pos)

	r.n.Sendf("✅ [%s] OPEN %s size=%.2f @ %.4f | SL=%.4f TP=%.4f (dealId=%s)",
		epic, direction, size, entry, pos.StopLoss, pos.TakeProfit, conf.DealID)

	return &models.SignalResult{
		Epic:          epic,
		Direction:     string(direction),
		Size:          size,
		DealReference: conf.DealReference,
		DealID:        conf.DealID,
		Status:        conf.Status,
	}, nil
}
