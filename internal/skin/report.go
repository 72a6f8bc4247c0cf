package skin

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"skin-vision/internal/domain/entity"
)

// Aggregator сводит вектор метрик в отчёт. Хранит собственную копию таблиц,
// поэтому безопасен для одновременного использования.
type Aggregator struct {
	params ReportParams
}

// NewAggregator создаёт агрегатор с копией переданных таблиц.
func NewAggregator(params ReportParams) *Aggregator {
	return &Aggregator{params: params.clone()}
}

// Score возвращает взвешенное среднее (1−v). Метрики, которых нет в векторе,
// не входят ни в числитель, ни в знаменатель.
func (a *Aggregator) Score(mv entity.MetricVector) float64 {
	var total, weight float64
	for _, w := range a.params.Weights {
		v, ok := mv.Get(w.Metric)
		if !ok {
			continue
		}
		total += (1 - v) * w.Value
		weight += w.Value
	}
	if weight <= 0 {
		return 0
	}
	return total / weight
}

// Concerns возвращает названия метрик, превысивших порог, в порядке таблицы.
func (a *Aggregator) Concerns(mv entity.MetricVector) []string {
	caser := cases.Title(language.Und)
	concerns := make([]string, 0)
	for _, t := range a.params.Concerns {
		v, ok := mv.Get(t.Metric)
		if ok && v > t.Value {
			concerns = append(concerns, DisplayName(caser, t.Metric))
		}
	}
	return concerns
}

// Recommendations возвращает советы сработавших правил или совет по умолчанию.
func (a *Aggregator) Recommendations(mv entity.MetricVector) []string {
	var advice []string
	for _, r := range a.params.Rules {
		if r.fires(mv) {
			advice = append(advice, r.Advice...)
		}
	}
	if len(advice) == 0 {
		return []string{a.params.DefaultAdvice}
	}
	return advice
}

// Build собирает полный отчёт.
func (a *Aggregator) Build(mv entity.MetricVector) entity.Report {
	return entity.Report{
		OverallScore:    a.Score(mv),
		Concerns:        a.Concerns(mv),
		Recommendations: a.Recommendations(mv),
		MetricsSummary:  mv,
	}
}

func (r Rule) fires(mv entity.MetricVector) bool {
	for _, t := range r.AnyOf {
		if mv.Value(t.Metric) > t.Value {
			return true
		}
	}
	return false
}

// DisplayName превращает ключ метрики в заголовок: "acne_spots" -> "Acne Spots".
// Caser не потокобезопасен, поэтому передаётся вызывающим.
func DisplayName(caser cases.Caser, metric string) string {
	return caser.String(strings.ReplaceAll(metric, "_", " "))
}
