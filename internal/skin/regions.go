package skin

import (
	"image"

	"skin-vision/internal/domain/entity"
)

// RegionPolygon переводит индексы региона в пиксельный многоугольник.
// Отсутствующие точки пропускаются; ok=false, если вершин меньше трёх.
func RegionPolygon(lm entity.LandmarkSet, region FaceRegion, width, height int) ([]image.Point, bool) {
	xs, ys, _ := lm.Pixels(region.Indices, width, height)
	if len(xs) < 3 {
		return nil, false
	}
	pts := make([]image.Point, len(xs))
	for i := range xs {
		pts[i] = image.Pt(xs[i], ys[i])
	}
	return pts, true
}

// ShiftPolygon сдвигает многоугольник на dy пикселей вниз.
func ShiftPolygon(pts []image.Point, dy int) []image.Point {
	out := make([]image.Point, len(pts))
	for i, p := range pts {
		out[i] = image.Pt(p.X, p.Y+dy)
	}
	return out
}

// IsEye сообщает, относится ли регион к глазам.
func IsEye(name string) bool {
	return name == RegionLeftEye || name == RegionRightEye
}
