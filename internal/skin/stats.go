package skin

import (
	"math"
	"sort"
)

// Epsilon защищает отношения от деления на ноль.
const Epsilon = 1e-6

// Normalize зажимает значение в [0,1]; NaN превращается в 0.
func Normalize(x float64) float64 {
	if math.IsNaN(x) || x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// Quantile возвращает q-й процентиль (0..100) с линейной интерполяцией
// между порядковыми статистиками. Входной срез не изменяется.
func Quantile(values []float64, q float64) float64 {
	return Quantiles(values, q)[0]
}

// Quantiles считает несколько процентилей за одну сортировку.
func Quantiles(values []float64, qs ...float64) []float64 {
	out := make([]float64, len(qs))
	if len(values) == 0 {
		return out
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	for i, q := range qs {
		out[i] = quantileSorted(sorted, q)
	}
	return out
}

func quantileSorted(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	q = math.Max(0, math.Min(100, q))
	pos := q / 100 * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// TukeyFence возвращает порог выбросов Q3 + k·IQR.
func TukeyFence(values []float64, k float64) float64 {
	q := Quantiles(values, 25, 75)
	return q[1] + k*(q[1]-q[0])
}

// MeanStd возвращает среднее и стандартное отклонение генеральной совокупности.
func MeanStd(values []float64) (mean, std float64) {
	if len(values) == 0 {
		return 0, 0
	}
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))
	for _, v := range values {
		d := v - mean
		std += d * d
	}
	std = math.Sqrt(std / float64(len(values)))
	return mean, std
}
