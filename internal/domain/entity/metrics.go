package entity

import (
	"encoding/json"
	"math"
	"sort"
)

// Имена метрик. Набор ключей стабилен между вызовами.
const (
	MetricPaleness         = "paleness"
	MetricCyanosis         = "cyanosis"
	MetricJaundice         = "jaundice"
	MetricRedness          = "redness"
	MetricAcneSpots        = "acne_spots"
	MetricOiliness         = "oiliness"
	MetricPigmentation     = "pigmentation"
	MetricVascularity      = "vascularity"
	MetricPuffiness        = "puffiness"
	MetricDarkCircles      = "dark_circles"
	MetricWrinkles         = "wrinkles"
	MetricTextureRoughness = "texture_roughness"
	MetricPoreSize         = "pore_size"
	MetricMildAcne         = "mild_acne"
	MetricModerateAcne     = "moderate_acne"
	MetricSevereAcne       = "severe_acne"
)

// BaseMetrics возвращает 13 базовых метрик в порядке вычисления.
func BaseMetrics() []string {
	return []string{
		MetricPaleness, MetricCyanosis, MetricJaundice, MetricRedness,
		MetricAcneSpots, MetricOiliness, MetricPigmentation, MetricVascularity,
		MetricPuffiness, MetricDarkCircles, MetricWrinkles, MetricTextureRoughness,
		MetricPoreSize,
	}
}

// SeverityMetrics возвращает метрики тяжести акне.
func SeverityMetrics() []string {
	return []string{MetricMildAcne, MetricModerateAcne, MetricSevereAcne}
}

// AllMetrics возвращает все 16 ключей вектора метрик.
func AllMetrics() []string {
	return append(BaseMetrics(), SeverityMetrics()...)
}

// MetricVector неизменяемый набор метрик, каждое значение в [0,1].
type MetricVector struct {
	values map[string]float64
}

// NewMetricVector копирует значения и зажимает их в [0,1].
func NewMetricVector(values map[string]float64) MetricVector {
	copied := make(map[string]float64, len(values))
	for k, v := range values {
		copied[k] = clamp01(v)
	}
	return MetricVector{values: copied}
}

// Get возвращает значение метрики и признак её наличия.
func (m MetricVector) Get(name string) (float64, bool) {
	v, ok := m.values[name]
	return v, ok
}

// Value возвращает значение метрики или 0, если её нет.
func (m MetricVector) Value(name string) float64 {
	return m.values[name]
}

// Len возвращает количество метрик.
func (m MetricVector) Len() int {
	return len(m.values)
}

// Names возвращает отсортированные имена метрик.
func (m MetricVector) Names() []string {
	names := make([]string, 0, len(m.values))
	for k := range m.values {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Map возвращает копию значений.
func (m MetricVector) Map() map[string]float64 {
	out := make(map[string]float64, len(m.values))
	for k, v := range m.values {
		out[k] = v
	}
	return out
}

// MarshalJSON сериализует вектор как обычный объект.
func (m MetricVector) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Map())
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
