// Package geometry содержит производные величины позы.
package geometry

import (
	"math"

	"shot-coach/internal/domain/entity"
)

// StraightAngle возвращается, когда один из сегментов вырожден.
const StraightAngle = 180.0

// Angle возвращает угол в градусах при вершине b между сегментами b→a и b→c.
// Результат всегда в [0, 180]. Уверенность точек не учитывается.
func Angle(a, b, c entity.Keypoint) float64 {
	bax, bay := a.X-b.X, a.Y-b.Y
	bcx, bcy := c.X-b.X, c.Y-b.Y

	la, lc := math.Hypot(bax, bay), math.Hypot(bcx, bcy)
	if !usable(la) || !usable(lc) {
		return StraightAngle
	}

	// Единичные векторы: произведения ниже не переполняются и не теряются в нуле.
	ux, uy := bax/la, bay/la
	vx, vy := bcx/lc, bcy/lc

	cross := ux*vy - uy*vx
	dot := ux*vx + uy*vy
	deg := math.Atan2(math.Abs(cross), dot) * 180 / math.Pi
	return math.Min(deg, StraightAngle)
}

// usable — длина сегмента, по которой можно считать направление.
func usable(length float64) bool {
	return length > 0 && !math.IsInf(length, 0) && !math.IsNaN(length)
}
