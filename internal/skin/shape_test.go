package skin

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func defaultGate() ShapeGate {
	return DefaultParams().Blemish.Gate
}

func TestShapeStats_Circle(t *testing.T) {
	r := 5.0
	s := ShapeStats{Area: math.Pi * r * r, Perimeter: 2 * math.Pi * r, Points: 20, MajorAxis: 10, MinorAxis: 10}

	require.InDelta(t, 1.0, s.Circularity(), 1e-9)
	require.InDelta(t, 0.0, s.Eccentricity(), 1e-9)
	require.True(t, defaultGate().Accept(s, 100*100, 5))
}

func TestShapeStats_Eccentricity(t *testing.T) {
	s := ShapeStats{Points: 8, MajorAxis: 6, MinorAxis: 10}
	require.InDelta(t, 0.8, s.Eccentricity(), 1e-9)

	short := ShapeStats{Points: 4, MajorAxis: 10, MinorAxis: 10}
	require.Equal(t, 1.0, short.Eccentricity())
}

func TestShapeGate_RejectsLine(t *testing.T) {
	line := ShapeStats{Area: 0, Perimeter: 38, Points: 2}
	require.False(t, defaultGate().Accept(line, 100*100, 5))

	thin := ShapeStats{Area: 20, Perimeter: 44, Points: 10, MajorAxis: 20, MinorAxis: 1}
	require.False(t, defaultGate().Accept(thin, 100*100, 5))
}

func TestShapeGate_RejectsLargeAndZeroPerimeter(t *testing.T) {
	r := 20.0
	big := ShapeStats{Area: math.Pi * r * r, Perimeter: 2 * math.Pi * r, Points: 40, MajorAxis: 40, MinorAxis: 40}
	require.False(t, defaultGate().Accept(big, 100*100, 5))

	require.False(t, defaultGate().Accept(ShapeStats{Area: 10}, 100*100, 5))
}

func TestMinComponentSize(t *testing.T) {
	p := DefaultParams().Blemish
	require.Equal(t, 5, p.MinComponentSize(100, 100))
	require.Equal(t, 100, p.MinComponentSize(1000, 1000))
}
