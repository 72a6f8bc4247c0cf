package skin

// Tier уровень выраженности метрики для разметки и текста отчёта.
type Tier int

const (
	TierLow Tier = iota
	TierMedium
	TierHigh
)

// TierOf: < 0.3 низкий, < 0.6 средний, иначе высокий.
func TierOf(v float64) Tier {
	switch {
	case v < 0.3:
		return TierLow
	case v < 0.6:
		return TierMedium
	default:
		return TierHigh
	}
}

// Emoji возвращает цветной маркер уровня.
func (t Tier) Emoji() string {
	switch t {
	case TierLow:
		return "🟢"
	case TierMedium:
		return "🟡"
	default:
		return "🔴"
	}
}
