package skin

import (
	"testing"

	"github.com/stretchr/testify/require"

	"skin-vision/internal/domain/entity"
)

func TestClassifyTrend(t *testing.T) {
	cases := []struct {
		name        string
		first, last float64
		want        entity.Trend
	}{
		{"significant improvement", 0.5, 0.6, entity.TrendSignificantImprovement},
		{"improvement", 0.5, 0.53, entity.TrendImprovement},
		{"stable", 0.5, 0.5, entity.TrendStable},
		{"worsening", 0.5, 0.47, entity.TrendWorsening},
		{"significant worsening", 0.5, 0.4, entity.TrendSignificantWorsening},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, ClassifyTrend(tc.first, tc.last, 0.05))
		})
	}
}

func TestCompare(t *testing.T) {
	vectors := []entity.MetricVector{
		entity.NewMetricVector(map[string]float64{entity.MetricAcneSpots: 0.6, entity.MetricWrinkles: 0.2}),
		entity.NewMetricVector(map[string]float64{entity.MetricAcneSpots: 0.4, entity.MetricWrinkles: 0.2}),
		entity.NewMetricVector(map[string]float64{entity.MetricAcneSpots: 0.2, entity.MetricWrinkles: 0.5}),
	}

	cmp, err := Compare(vectors, []float64{0.5, 0.6, 0.7}, TrendParams{Significance: 0.05})
	require.NoError(t, err)

	acne := cmp.Metrics[entity.MetricAcneSpots]
	require.InDelta(t, 0.4, acne.Mean, 1e-9)
	require.InDelta(t, 0.2, acne.Min, 1e-9)
	require.InDelta(t, 0.6, acne.Max, 1e-9)
	require.Equal(t, entity.TrendImprovement, acne.Trend)
	require.Equal(t, entity.TrendWorsening, cmp.Metrics[entity.MetricWrinkles].Trend)
	require.Equal(t, entity.TrendSignificantImprovement, cmp.OverallTrend)
	require.Equal(t, 0.7, cmp.LastScore)
}

func TestCompare_InsufficientData(t *testing.T) {
	_, err := Compare([]entity.MetricVector{uniformVector(0)}, []float64{1}, TrendParams{})
	require.ErrorIs(t, err, entity.ErrInsufficientData)

	_, err = Compare(nil, nil, TrendParams{})
	require.ErrorIs(t, err, entity.ErrInsufficientData)

	_, err = Compare([]entity.MetricVector{uniformVector(0)}, nil, TrendParams{})
	require.Error(t, err)
}
