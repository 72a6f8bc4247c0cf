package skin

import (
	"image"
	"testing"

	"github.com/stretchr/testify/require"

	"skin-vision/internal/domain/entity"
)

func meshWith(points map[int]entity.Point) entity.LandmarkSet {
	lm := make(entity.LandmarkSet, entity.MinFaceMeshPoints)
	for i, p := range points {
		lm[i] = p
	}
	return lm
}

func TestPuffiness(t *testing.T) {
	lm := meshWith(map[int]entity.Point{
		159: {X: 0.3, Y: 0.40}, 145: {X: 0.3, Y: 0.42}, 205: {X: 0.3, Y: 0.52},
		386: {X: 0.7, Y: 0.40}, 374: {X: 0.7, Y: 0.42}, 425: {X: 0.7, Y: 0.52},
	})

	require.InDelta(t, 0.8, Puffiness(lm, 100, 100), 1e-6)
}

func TestPuffiness_MissingLandmarks(t *testing.T) {
	require.Equal(t, 0.0, Puffiness(make(entity.LandmarkSet, 200), 100, 100))
	require.Equal(t, 0.0, Puffiness(nil, 100, 100))
}

func TestPuffiness_WideOpenEyeClampsToZero(t *testing.T) {
	lm := meshWith(map[int]entity.Point{
		159: {X: 0.3, Y: 0.30}, 145: {X: 0.3, Y: 0.50}, 205: {X: 0.3, Y: 0.52},
		386: {X: 0.7, Y: 0.30}, 374: {X: 0.7, Y: 0.50}, 425: {X: 0.7, Y: 0.52},
	})
	require.Equal(t, 0.0, Puffiness(lm, 100, 100))
}

func TestRegionPolygon(t *testing.T) {
	lm := entity.LandmarkSet{{X: 0, Y: 0}, {X: 0.5, Y: 0}, {X: 0.5, Y: 0.5}}

	pts, ok := RegionPolygon(lm, FaceRegion{Name: "tri", Indices: []int{0, 1, 2, 99}}, 10, 20)
	require.True(t, ok)
	require.Equal(t, []image.Point{{0, 0}, {5, 0}, {5, 10}}, pts)

	_, ok = RegionPolygon(lm, FaceRegion{Indices: []int{0, 1}}, 10, 20)
	require.False(t, ok)

	require.Equal(t, []image.Point{{5, 10}}, ShiftPolygon([]image.Point{{5, 0}}, 10))
}

func TestDefaultParams_AreIndependentCopies(t *testing.T) {
	a := DefaultParams()
	b := a.Clone()
	b.Regions[0].Indices[0] = -1
	b.Report.Rules[0].Advice[0] = "changed"

	require.NotEqual(t, -1, a.Regions[0].Indices[0])
	require.NotEqual(t, "changed", a.Report.Rules[0].Advice[0])
	require.Len(t, a.Regions, 7)

	_, ok := a.Region(RegionNose)
	require.True(t, ok)
	_, ok = a.Region("ear")
	require.False(t, ok)
}
