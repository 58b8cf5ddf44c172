package models

import "strings"

// Action — то, что присылает источник сигналов (TradingView-алерт и т.п.).
type Action string

const (
	ActionBuy  Action = "buy"
	ActionSell Action = "sell"
)

// Direction — направление сделки в терминах IG ("BUY"/"SELL").
type Direction string

const (
	DirectionBuy  Direction = "BUY"
	DirectionSell Direction = "SELL"
)

// ParseAction нормализует action из сигнала.
func ParseAction(raw string) (Action, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "buy":
		return ActionBuy, true
	case "sell":
		return ActionSell, true
	default:
		return "", false
	}
}

func (a Action) Direction() Direction {
	if a == ActionSell {
		return DirectionSell
	}
	return DirectionBuy
}

// Opposite — направление закрывающего ордера.
func (d Direction) Opposite() Direction {
	if d == DirectionBuy {
		return DirectionSell
	}
	return DirectionBuy
}

// IsLong: BUY открывает лонг.
func (d Direction) IsLong() bool { return d == DirectionBuy }

// Signal — разобранный входящий сигнал.
// Либо Symbol (нужен поиск epic), либо сразу Epic.
// SL/TP — либо абсолютные уровни (StopLoss/TakeProfit),
// либо дистанции от входа (StopDistance/LimitDistance), но не вперемешку.
type Signal struct {
	Action        Action
	Symbol        string
	Epic          string
	Size          float64
	StopLoss      float64
	TakeProfit    float64
	StopDistance  float64
	LimitDistance float64
}

// SignalResult — структурированный ответ вызывающему.
type SignalResult struct {
	Epic          string  `json:"epic"`
	Direction     string  `json:"direction"`
	Size          float64 `json:"size"`
	DealReference string  `json:"dealReference"`
	DealID        string  `json:"dealId"`
	Status        string  `json:"dealStatus"`
}
