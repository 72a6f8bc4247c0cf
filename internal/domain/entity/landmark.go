package entity

// MinFaceMeshPoints задаёт минимальное число точек сетки лица.
const MinFaceMeshPoints = 468

// Point нормализованная точка (0..1 относительно ширины и высоты кадра).
type Point struct {
	X float64
	Y float64
}

// LandmarkSet упорядоченный набор ключевых точек одного лица.
type LandmarkSet []Point

// At возвращает точку по индексу; ok=false, если индекса нет.
func (l LandmarkSet) At(i int) (Point, bool) {
	if i < 0 || i >= len(l) {
		return Point{}, false
	}
	return l[i], true
}

// Pixels переводит точки с указанными индексами в пиксельные координаты.
// Отсутствующие индексы пропускаются, ok=false сигнализирует о неполном наборе.
func (l LandmarkSet) Pixels(indices []int, width, height int) (xs, ys []int, ok bool) {
	ok = true
	xs = make([]int, 0, len(indices))
	ys = make([]int, 0, len(indices))
	for _, idx := range indices {
		p, found := l.At(idx)
		if !found {
			ok = false
			continue
		}
		xs = append(xs, int(p.X*float64(width)))
		ys = append(ys, int(p.Y*float64(height)))
	}
	return xs, ys, ok
}
