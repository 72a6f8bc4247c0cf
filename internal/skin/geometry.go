package skin

import (
	"math"

	"skin-vision/internal/domain/entity"
)

// Точки сетки для оценки отёчности: верх века, низ века, скула.
var (
	leftPuffinessPoints  = [3]int{159, 145, 205}
	rightPuffinessPoints = [3]int{386, 374, 425}
)

// Puffiness сравнивает высоту глазной щели с расстоянием от нижнего века до
// скулы: чем уже щель относительно этого расстояния, тем выше оценка.
// Если нужных точек нет, возвращает 0.
func Puffiness(lm entity.LandmarkSet, width, height int) float64 {
	left, ok := puffinessRatio(lm, leftPuffinessPoints, width, height)
	if !ok {
		return 0
	}
	right, ok := puffinessRatio(lm, rightPuffinessPoints, width, height)
	if !ok {
		return 0
	}
	return Normalize((left + right) / 2)
}

func puffinessRatio(lm entity.LandmarkSet, idx [3]int, width, height int) (float64, bool) {
	var pts [3][2]float64
	for i, n := range idx {
		p, ok := lm.At(n)
		if !ok {
			return 0, false
		}
		pts[i] = [2]float64{p.X * float64(width), p.Y * float64(height)}
	}
	eye := dist(pts[0], pts[1])
	cheek := dist(pts[1], pts[2])
	return 1 - eye/(cheek+Epsilon), true
}

func dist(a, b [2]float64) float64 {
	return math.Hypot(a[0]-b[0], a[1]-b[1])
}
