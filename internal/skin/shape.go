package skin

import "math"

// ShapeGate пороги формы, по которым пятно признаётся акне.
type ShapeGate struct {
	MinCircularity  float64
	MaxCircularity  float64
	MaxEccentricity float64
	MaxAreaFraction float64 // доля от площади кадра
}

// ShapeStats измерения одного внешнего контура.
type ShapeStats struct {
	Area      float64
	Perimeter float64
	Points    int // число точек контура
	// Оси вписанного эллипса; учитываются только при Points >= 5.
	MajorAxis float64
	MinorAxis float64
}

// Circularity возвращает 4π·S/P² или 0 при нулевом периметре.
func (s ShapeStats) Circularity() float64 {
	if s.Perimeter <= 0 {
		return 0
	}
	return 4 * math.Pi * s.Area / (s.Perimeter * s.Perimeter)
}

// Eccentricity возвращает √(1−(b/a)²) вписанного эллипса.
// Для контуров короче пяти точек эллипс не строится, результат 1.0.
func (s ShapeStats) Eccentricity() float64 {
	if s.Points < 5 {
		return 1.0
	}
	major, minor := s.MajorAxis, s.MinorAxis
	if minor > major {
		major, minor = minor, major
	}
	if major <= Epsilon {
		return 1.0
	}
	ratio := minor / major
	return math.Sqrt(math.Max(0, 1-ratio*ratio))
}

// Accept решает, проходит ли контур фильтр. frameArea равна h·w кадра,
// minSize минимальная площадь после очистки маски.
func (g ShapeGate) Accept(s ShapeStats, frameArea float64, minSize int) bool {
	if s.Perimeter <= 0 || s.Area < float64(minSize) {
		return false
	}
	circ := s.Circularity()
	if circ < g.MinCircularity || circ > g.MaxCircularity {
		return false
	}
	if s.Eccentricity() >= g.MaxEccentricity {
		return false
	}
	return s.Area < g.MaxAreaFraction*frameArea
}

// MinComponentSize возвращает порог удаления мелких компонент для кадра h×w.
func (p BlemishParams) MinComponentSize(height, width int) int {
	size := int(math.Floor(p.MinSizeFraction * float64(height*width)))
	if size < p.MinSizeFloor {
		return p.MinSizeFloor
	}
	return size
}
