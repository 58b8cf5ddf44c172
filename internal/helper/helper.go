package helper

import "math"

// ClampSize приводит размер к правилам инструмента: округляет вниз
// к шагу step и подтягивает до минимума min. Нулевые правила
// (IG их иногда не отдаёт) оставляют размер как есть.
func ClampSize(size, min, step float64) float64 {
	if size <= 0 {
		return size
	}
	if step > 0 {
		steps := math.Floor(size/step + 1e-9)
		size = steps * step
	}
	if min > 0 && size < min {
		size = min
	}
	return size
}
