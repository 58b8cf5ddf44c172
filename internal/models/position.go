package models

import "time"

// TrackedPosition — наша собственная запись об открытой позиции,
// которую пасёт монитор. Ключ — DealID (ид позиции на IG).
type TrackedPosition struct {
	DealID     string
	Epic       string
	Direction  Direction
	Size       float64
	Entry      float64
	StopLoss   float64
	TakeProfit float64
	OpenedAt   time.Time
}

// ExitPrice — сторона котировки, по которой позиция реально выйдет:
// лонг закрывается продажей по bid, шорт — покупкой по offer.
func (p TrackedPosition) ExitPrice(q PriceQuote) float64 {
	if p.Direction.IsLong() {
		return q.Bid
	}
	return q.Offer
}

// ShouldClose — сработал ли SL или TP по цене выхода.
// Нулевой уровень означает, что эта сторона не взведена.
func (p TrackedPosition) ShouldClose(px float64) bool {
	if px <= 0 {
		return false
	}
	if p.Direction.IsLong() {
		if p.StopLoss > 0 && px <= p.StopLoss {
			return true
		}
		if p.TakeProfit > 0 && px >= p.TakeProfit {
			return true
		}
		return false
	}
	if p.StopLoss > 0 && px >= p.StopLoss {
		return true
	}
	if p.TakeProfit > 0 && px <= p.TakeProfit {
		return true
	}
	return false
}
