package models

// OrderRequest — рыночный ордер для IG /positions/otc.
// Уровни и дистанции не смешиваются: либо StopLevel/LimitLevel,
// либо StopDistance/LimitDistance. Клиент отправляет их как есть,
// без пересчёта.
type OrderRequest struct {
	Epic         string
	Direction    Direction
	Size         float64
	CurrencyCode string

	StopLevel  float64
	LimitLevel float64

	StopDistance  float64
	LimitDistance float64
}

func (r OrderRequest) hasLevels() bool    { return r.StopLevel > 0 || r.LimitLevel > 0 }
func (r OrderRequest) hasDistances() bool { return r.StopDistance > 0 || r.LimitDistance > 0 }

// Validate проверяет инварианты до любого сетевого вызова.
// entry — ожидаемая цена входа (mid по снапшоту); для абсолютных уровней
// SL и TP должны лежать по разные стороны от неё согласно направлению.
func (r OrderRequest) Validate(entry float64) error {
	if r.Epic == "" {
		return NewValidation("пустой epic")
	}
	if r.Direction != DirectionBuy && r.Direction != DirectionSell {
		return NewValidation("неизвестное направление %q", r.Direction)
	}
	if r.Size <= 0 {
		return NewValidation("size должен быть > 0, получен %v", r.Size)
	}
	if r.hasLevels() && r.hasDistances() {
		return NewValidation("нельзя смешивать уровни и дистанции SL/TP в одном ордере")
	}
	if r.StopDistance < 0 || r.LimitDistance < 0 {
		return NewValidation("дистанции SL/TP должны быть положительными")
	}
	if r.StopLevel < 0 || r.LimitLevel < 0 {
		return NewValidation("уровни SL/TP должны быть положительными")
	}

	// Проверка сторон только для абсолютной формы, когда заданы оба уровня.
	if r.StopLevel > 0 && r.LimitLevel > 0 && entry > 0 {
		if r.Direction.IsLong() {
			if !(r.StopLevel < entry && entry < r.LimitLevel) {
				return NewValidation(
					"для лонга требуется SL < entry < TP (sl=%v entry=%v tp=%v)",
					r.StopLevel, entry, r.LimitLevel)
			}
		} else {
			if !(r.LimitLevel < entry && entry < r.StopLevel) {
				return NewValidation(
					"для шорта требуется TP < entry < SL (tp=%v entry=%v sl=%v)",
					r.LimitLevel, entry, r.StopLevel)
			}
		}
	}
	return nil
}

// Confirmation — подтверждение сделки от IG (GET /confirms/{dealReference}).
type Confirmation struct {
	DealReference string
	DealID        string
	Status        string // ACCEPTED / REJECTED
	Reason        string
	Level         float64 // фактическая цена исполнения
}
