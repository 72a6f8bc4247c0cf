package skin

import (
	"fmt"

	"skin-vision/internal/domain/entity"
)

// ClassifyTrend сравнивает первую и последнюю общую оценку.
// Чем выше оценка, тем лучше кожа.
func ClassifyTrend(first, last, significance float64) entity.Trend {
	switch {
	case last > first+significance:
		return entity.TrendSignificantImprovement
	case last > first:
		return entity.TrendImprovement
	case last < first-significance:
		return entity.TrendSignificantWorsening
	case last < first:
		return entity.TrendWorsening
	default:
		return entity.TrendStable
	}
}

// metricTrend направление для отдельной метрики, где меньше значит лучше.
func metricTrend(first, last float64) entity.Trend {
	switch {
	case last < first:
		return entity.TrendImprovement
	case last > first:
		return entity.TrendWorsening
	default:
		return entity.TrendStable
	}
}

// Compare строит статистику по серии анализов в хронологическом порядке.
// Набор метрик берётся из первого результата.
func Compare(vectors []entity.MetricVector, scores []float64, params TrendParams) (entity.Comparison, error) {
	if len(vectors) != len(scores) {
		return entity.Comparison{}, fmt.Errorf("compare: %d vectors vs %d scores", len(vectors), len(scores))
	}
	if len(vectors) < 2 {
		return entity.Comparison{}, entity.ErrInsufficientData
	}

	names := vectors[0].Names()
	out := entity.Comparison{
		Metrics:    make(map[string]entity.MetricStats, len(names)),
		FirstScore: scores[0],
		LastScore:  scores[len(scores)-1],
	}

	values := make([]float64, len(vectors))
	for _, name := range names {
		for i, mv := range vectors {
			values[i] = mv.Value(name)
		}
		mean, std := MeanStd(values)
		lo, hi := values[0], values[0]
		for _, v := range values[1:] {
			lo = min(lo, v)
			hi = max(hi, v)
		}
		out.Metrics[name] = entity.MetricStats{
			Mean:  mean,
			Std:   std,
			Min:   lo,
			Max:   hi,
			Trend: metricTrend(values[0], values[len(values)-1]),
		}
	}

	out.OverallTrend = ClassifyTrend(out.FirstScore, out.LastScore, params.Significance)
	return out, nil
}
