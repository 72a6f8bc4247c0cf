package entity

// Report итоговый отчёт по вектору метрик.
type Report struct {
	OverallScore    float64      `json:"overall_score"`
	Concerns        []string     `json:"concerns"`
	Recommendations []string     `json:"recommendations"`
	MetricsSummary  MetricVector `json:"metrics_summary"`
}
