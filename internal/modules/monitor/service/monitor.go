package service

import (
	"context"
	"sync"
	"time"

	"ig_bot/internal/models"
	healthsvc "ig_bot/internal/modules/health/service"
	"ig_bot/internal/notify"
	"ig_bot/pkg/logger"
)

// Broker — то, что монитору нужно от IG-клиента. Узкий интерфейс,
// чтобы в тестах подставлять фейк.
type Broker interface {
	Quote(ctx context.Context, epic string) (models.PriceQuote, error)
	ClosePosition(ctx context.Context, dealID, epic string, direction models.Direction, size float64) (*models.Confirmation, error)
}

// Monitor владеет картой отслеживаемых позиций. Единственный писатель
// снаружи — адаптер сигналов через Register; монитор сам только
// снапшотит и удаляет. Позиция зарегистрированная посреди цикла
// просто попадёт в следующий — это ок.
type Monitor struct {
	mu        sync.RWMutex
	positions map[string]models.TrackedPosition

	broker   Broker
	n        notify.Notifier
	state    *healthsvc.State
	interval time.Duration

	done chan struct{}
}

func NewMonitor(broker Broker, n notify.Notifier, state *healthsvc.State, interval time.Duration) *Monitor {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &Monitor{
		positions: make(map[string]models.TrackedPosition),
		broker:    broker,
		n:         n,
		state:     state,
		interval:  interval,
		done:      make(chan struct{}),
	}
}

// Register регистрирует подтверждённую позицию. Повторная регистрация
// того же dealId перетирает запись — на IG один dealId живёт один раз.
func (m *Monitor) Register(p models.TrackedPosition) {
	m.mu.Lock()
	m.positions[p.DealID] = p
	n := len(m.positions)
	m.mu.Unlock()

	if m.state != nil {
		m.state.SetTracked(n)
	}
	logger.Info("monitor: tracking %s %s size=%v sl=%v tp=%v (dealId=%s)",
		p.Epic, p.Direction, p.Size, p.StopLoss, p.TakeProfit, p.DealID)
}

func (m *Monitor) Remove(dealID string) {
	m.mu.Lock()
	delete(m.positions, dealID)
	n := len(m.positions)
	m.mu.Unlock()

	if m.state != nil {
		m.state.SetTracked(n)
	}
}

// Tracked — копия текущего набора; по ней и итерируется цикл,
// чтобы не держать лок на время сетевых вызовов.
func (m *Monitor) Tracked() []models.TrackedPosition {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]models.TrackedPosition, 0, len(m.positions))
	for _, p := range m.positions {
		res = append(res, p)
	}
	return res
}

func (m *Monitor) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.positions)
}

// Run крутит цикл опроса до отмены контекста. Начатый цикл
// дорабатывает до конца, потом закрывается done.
func (m *Monitor) Run(ctx context.Context) {
	defer close(m.done)

	t := time.NewTicker(m.interval)
	defer t.Stop()

	logger.Info("monitor: started, interval=%s", m.interval)
	for {
		select {
		case <-ctx.Done():
			logger.Info("monitor: stopped")
			return
		case <-t.C:
			m.poll(ctx)
		}
	}
}

// Done закрывается, когда цикл полностью остановился.
func (m *Monitor) Done() <-chan struct{} { return m.done }

func (m *Monitor) poll(ctx context.Context) {
	for _, p := range m.Tracked() {
		m.evaluate(ctx, p)
	}
	if m.state != nil {
		m.state.TouchPoll(time.Now())
	}
}

// evaluate — одна позиция за один цикл. Любая ошибка здесь не должна
// мешать остальным позициям: логируем и ждём следующего цикла.
func (m *Monitor) evaluate(ctx context.Context, p models.TrackedPosition) {
	q, err := m.broker.Quote(ctx, p.Epic)
	if err != nil {
		// пропускаем только эту позицию в этом цикле
		logger.Warn("monitor: quote %s failed: %v", p.Epic, err)
		return
	}

	px := p.ExitPrice(q)
	if !p.ShouldClose(px) {
		return
	}

	conf, err := m.broker.ClosePosition(ctx, p.DealID, p.Epic, p.Direction, p.Size)
	if err != nil {
		if models.IsNotFound(err) {
			// IG уже закрыл её сам — перестаём отслеживать
			m.Remove(p.DealID)
			m.n.Sendf("ℹ️ [%s] Позиция уже закрыта на IG, снята с отслеживания (dealId=%s)",
				p.Epic, p.DealID)
			return
		}
		// оставляем в карте — следующий цикл попробует по свежей цене
		logger.Error("monitor: close %s (dealId=%s) failed: %v", p.Epic, p.DealID, err)
		return
	}

	m.Remove(p.DealID)
	m.n.Sendf("📉 [%s] Позиция закрыта по %s: px=%.4f SL=%.4f TP=%.4f (dealId=%s, ref=%s)",
		p.Epic, p.Direction, px, p.StopLoss, p.TakeProfit, p.DealID, conf.DealReference)
}
