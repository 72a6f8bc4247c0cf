package telegram

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	app "skin-vision/internal/application"
	"skin-vision/internal/domain/entity"
	"skin-vision/internal/domain/port"
)

func TestFormatReport(t *testing.T) {
	out := &app.AnalysisOutput{
		Analysis: &entity.Analysis{QualityWarnings: []string{"blurry"}},
		Report: entity.Report{
			OverallScore: 0.75,
			Concerns:     []string{"Acne Spots"},
			Recommendations: []string{
				"Use non-comedogenic products",
			},
			MetricsSummary: entity.NewMetricVector(map[string]float64{
				entity.MetricAcneSpots: 0.7,
				entity.MetricPaleness:  0.1,
				entity.MetricWrinkles:  0.4,
			}),
		},
	}

	text := formatReport(out)
	require.Contains(t, text, "0.75 из 1.00")
	require.Contains(t, text, "🔴 Acne Spots: 0.70")
	require.Contains(t, text, "🟢 Paleness: 0.10")
	require.Contains(t, text, "🟡 Wrinkles: 0.40")
	require.Contains(t, text, "Обратите внимание: Acne Spots")
	require.Contains(t, text, "• Use non-comedogenic products")
	require.Contains(t, text, "снимок нечёткий")
	require.NotContains(t, text, "Cyanosis")
}

func TestFormatReport_NoConcerns(t *testing.T) {
	out := &app.AnalysisOutput{
		Analysis: &entity.Analysis{},
		Report: entity.Report{
			OverallScore:   1,
			MetricsSummary: entity.NewMetricVector(map[string]float64{entity.MetricRedness: 0}),
		},
	}

	text := formatReport(out)
	require.NotContains(t, text, "Обратите внимание")
	require.NotContains(t, text, "Качество снимка")
}

func TestFormatHistory(t *testing.T) {
	require.Equal(t, msgNoHistory, formatHistory(nil))

	first := time.Date(2026, 1, 2, 10, 30, 0, 0, time.UTC)
	records := []port.HistoryRecord{
		{Analysis: &entity.Analysis{CreatedAt: first}, Report: entity.Report{OverallScore: 0.5}},
		{Analysis: &entity.Analysis{CreatedAt: first.Add(24 * time.Hour)}, Report: entity.Report{OverallScore: 0.8, Concerns: []string{"Redness"}}},
	}

	text := formatHistory(records)
	require.Contains(t, text, "Сохранено анализов: 2")
	require.Contains(t, text, "03.01.2026 10:30 — оценка 0.80 (Redness)")
	// новые записи идут первыми
	require.Less(t, strings.Index(text, "03.01.2026"), strings.Index(text, "02.01.2026"))
}

func TestFormatTrend(t *testing.T) {
	cmp := entity.Comparison{
		OverallTrend: entity.TrendImprovement,
		FirstScore:   0.5,
		LastScore:    0.6,
		Metrics: map[string]entity.MetricStats{
			entity.MetricRedness:  {Mean: 0.3, Std: 0.1, Trend: entity.TrendSignificantImprovement},
			entity.MetricPaleness: {Mean: 0.2, Trend: entity.TrendStable},
		},
	}

	text := formatTrend(cmp)
	require.Contains(t, text, "Динамика: улучшение (0.50 → 0.60)")
	require.Contains(t, text, "Redness: значительное улучшение")
	require.NotContains(t, text, "Paleness")
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{fmt.Errorf("detect: %w", entity.ErrNoFaceDetected), msgNoFace},
		{fmt.Errorf("decode: %w", entity.ErrInvalidImage), msgBadPhoto},
		{entity.ErrInsufficientData, msgNeedMoreHistory},
		{errors.New("boom"), msgProcessingError},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, userMessage(tt.err))
	}
}
