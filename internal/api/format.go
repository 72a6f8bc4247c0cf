package telegram

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	app "skin-vision/internal/application"
	"skin-vision/internal/domain/entity"
	"skin-vision/internal/domain/port"
	"skin-vision/internal/skin"
)

var trendLabels = map[entity.Trend]string{
	entity.TrendSignificantImprovement: "значительное улучшение",
	entity.TrendImprovement:            "улучшение",
	entity.TrendStable:                 "стабильно",
	entity.TrendWorsening:              "ухудшение",
	entity.TrendSignificantWorsening:   "значительное ухудшение",
}

var warningLabels = map[string]string{
	"blurry":       "снимок нечёткий",
	"overexposed":  "пересвечен",
	"underexposed": "слишком тёмный",
	"glare":        "много бликов",
}

// formatReport собирает текстовый отчёт по одному анализу.
func formatReport(out *app.AnalysisOutput) string {
	caser := cases.Title(language.Und)
	var sb strings.Builder

	fmt.Fprintf(&sb, "🧴 Общая оценка кожи: %.2f из 1.00\n\n", out.Report.OverallScore)

	sb.WriteString("📊 Метрики (меньше — лучше):\n")
	metrics := out.Report.MetricsSummary
	for _, name := range entity.AllMetrics() {
		v, ok := metrics.Get(name)
		if !ok {
			continue
		}
		fmt.Fprintf(&sb, "%s %s: %.2f\n", skin.TierOf(v).Emoji(), skin.DisplayName(caser, name), v)
	}

	if len(out.Report.Concerns) > 0 {
		fmt.Fprintf(&sb, "\n⚠️ Обратите внимание: %s\n", strings.Join(out.Report.Concerns, ", "))
	}

	sb.WriteString("\n💡 Рекомендации:\n")
	for _, r := range out.Report.Recommendations {
		fmt.Fprintf(&sb, "• %s\n", r)
	}

	if out.Analysis != nil && len(out.Analysis.QualityWarnings) > 0 {
		labels := make([]string, 0, len(out.Analysis.QualityWarnings))
		for _, w := range out.Analysis.QualityWarnings {
			if l, ok := warningLabels[w]; ok {
				labels = append(labels, l)
			} else {
				labels = append(labels, w)
			}
		}
		fmt.Fprintf(&sb, "\n📷 Качество снимка: %s. Результат может быть неточным.\n", strings.Join(labels, ", "))
	}

	return strings.TrimRight(sb.String(), "\n")
}

// formatHistory перечисляет сохранённые анализы от новых к старым.
func formatHistory(records []port.HistoryRecord) string {
	if len(records) == 0 {
		return msgNoHistory
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "🗂 Сохранено анализов: %d\n", len(records))
	for i := len(records) - 1; i >= 0; i-- {
		r := records[i]
		if r.Analysis == nil {
			continue
		}
		fmt.Fprintf(&sb, "%s — оценка %.2f", r.Analysis.CreatedAt.Format("02.01.2006 15:04"), r.Report.OverallScore)
		if len(r.Report.Concerns) > 0 {
			fmt.Fprintf(&sb, " (%s)", strings.Join(r.Report.Concerns, ", "))
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

// formatTrend описывает динамику: общий тренд и метрики, которые изменились.
func formatTrend(cmp entity.Comparison) string {
	caser := cases.Title(language.Und)
	var sb strings.Builder

	fmt.Fprintf(&sb, "📈 Динамика: %s (%.2f → %.2f)\n", trendLabels[cmp.OverallTrend], cmp.FirstScore, cmp.LastScore)

	names := make([]string, 0, len(cmp.Metrics))
	for name, st := range cmp.Metrics {
		if st.Trend != entity.TrendStable {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		st := cmp.Metrics[name]
		fmt.Fprintf(&sb, "• %s: %s (среднее %.2f, разброс %.2f)\n", skin.DisplayName(caser, name), trendLabels[st.Trend], st.Mean, st.Std)
	}
	return strings.TrimRight(sb.String(), "\n")
}

// userMessage переводит ошибку анализа в сообщение пользователю.
func userMessage(err error) string {
	switch {
	case errors.Is(err, entity.ErrNoFaceDetected):
		return msgNoFace
	case errors.Is(err, entity.ErrInvalidImage):
		return msgBadPhoto
	case errors.Is(err, entity.ErrInsufficientData):
		return msgNeedMoreHistory
	default:
		return msgProcessingError
	}
}
