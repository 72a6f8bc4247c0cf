package entity

// Trend направление изменения между первым и последним результатом.
type Trend string

const (
	TrendSignificantImprovement Trend = "significant_improvement"
	TrendImprovement            Trend = "improvement"
	TrendStable                 Trend = "stable"
	TrendWorsening              Trend = "worsening"
	TrendSignificantWorsening   Trend = "significant_worsening"
)

// MetricStats статистика одной метрики по серии анализов.
type MetricStats struct {
	Mean  float64
	Std   float64
	Min   float64
	Max   float64
	Trend Trend
}

// Comparison результат сравнения серии анализов.
type Comparison struct {
	Metrics      map[string]MetricStats
	OverallTrend Trend
	FirstScore   float64
	LastScore    float64
}
