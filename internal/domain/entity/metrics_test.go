package entity

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewMetricVector_ClampsValues(t *testing.T) {
	mv := NewMetricVector(map[string]float64{
		MetricRedness:  1.7,
		MetricOiliness: -0.2,
		MetricWrinkles: math.NaN(),
		MetricPoreSize: 0.25,
	})

	require.Equal(t, 1.0, mv.Value(MetricRedness))
	require.Equal(t, 0.0, mv.Value(MetricOiliness))
	require.Equal(t, 0.0, mv.Value(MetricWrinkles))
	require.Equal(t, 0.25, mv.Value(MetricPoreSize))
	require.Equal(t, 4, mv.Len())
}

func TestMetricVector_IsImmutable(t *testing.T) {
	src := map[string]float64{MetricRedness: 0.5}
	mv := NewMetricVector(src)

	src[MetricRedness] = 0.9
	out := mv.Map()
	out[MetricRedness] = 0.1

	v, ok := mv.Get(MetricRedness)
	require.True(t, ok)
	require.Equal(t, 0.5, v)
}

func TestMetricVector_Names(t *testing.T) {
	mv := NewMetricVector(map[string]float64{MetricWrinkles: 0, MetricAcneSpots: 0})
	require.Equal(t, []string{MetricAcneSpots, MetricWrinkles}, mv.Names())
	require.Len(t, AllMetrics(), 16)
	require.Len(t, BaseMetrics(), 13)
}

func TestLandmarkSet_Pixels(t *testing.T) {
	lm := LandmarkSet{{X: 0.5, Y: 0.25}, {X: 1, Y: 1}}

	xs, ys, ok := lm.Pixels([]int{0, 1}, 100, 200)
	require.True(t, ok)
	require.Equal(t, []int{50, 100}, xs)
	require.Equal(t, []int{50, 200}, ys)

	_, _, ok = lm.Pixels([]int{0, 5}, 100, 200)
	require.False(t, ok)
}
