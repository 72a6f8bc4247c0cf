//go:build gocv
// +build gocv

package vision

import (
	"image"
	"math"

	"gocv.io/x/gocv"

	"skin-vision/internal/skin"
)

// ColorMetrics считает цветовые метрики кадра. Каждая возвращает [0,1],
// пустая маска даёт 0.
type ColorMetrics struct {
	p skin.ColorParams
}

func NewColorMetrics(p skin.ColorParams) ColorMetrics {
	return ColorMetrics{p: p}
}

// Paleness оценивает светлоту с поправкой на насыщенность по средним Lab.
func (c ColorMetrics) Paleness(f *Frame) float64 {
	if f.MaskCount() == 0 {
		return 0
	}
	mean := MeanChannel(f.Lab(), f.mask)
	l := mean[0] / 255
	chroma := math.Hypot(mean[1]-128, mean[2]-128) / 255
	return skin.Normalize(l * (1 - chroma))
}

// Cyanosis оценивает преобладание синего канала над средним красного и зелёного.
func (c ColorMetrics) Cyanosis(f *Frame) float64 {
	if f.MaskCount() == 0 {
		return 0
	}
	mean := MeanChannel(f.img, f.mask)
	b, g, r := mean[0], mean[1], mean[2]
	score := math.Max(0, (b-(r+g)/2)/255)
	return skin.Normalize(score * c.p.CyanosisGain)
}

// Jaundice считает долю желтоватых насыщенных пикселей.
func (c ColorMetrics) Jaundice(f *Frame) float64 {
	if f.MaskCount() == 0 {
		return 0
	}
	hsv := f.hsvPixels()
	yellow := 0
	for i, in := range f.bits {
		if !in {
			continue
		}
		h, s := float64(hsv[i*3]), float64(hsv[i*3+1])
		if h >= c.p.JaundiceHueMin && h <= c.p.JaundiceHueMax && s > c.p.JaundiceSatMin {
			yellow++
		}
	}
	return skin.Normalize(float64(yellow) / float64(f.MaskCount()) * c.p.JaundiceGain)
}

// Redness считает средний положительный избыток красного.
func (c ColorMetrics) Redness(f *Frame) float64 {
	if f.MaskCount() == 0 {
		return 0
	}
	red := f.redIndex()
	sum := 0.0
	for i, in := range f.bits {
		if in {
			sum += math.Max(0, red[i]) / 255
		}
	}
	return skin.Normalize(sum / float64(f.MaskCount()) * c.p.RednessGain)
}

// Oiliness считает долю ярких ненасыщенных бликов.
func (c ColorMetrics) Oiliness(f *Frame) float64 {
	hsv := f.hsvPixels()
	highlights := 0
	for i, in := range f.bits {
		if !in {
			continue
		}
		s, v := float64(hsv[i*3+1]), float64(hsv[i*3+2])
		if v > c.p.OilValueMin && s <= c.p.OilSatMax {
			highlights++
		}
	}
	return skin.Normalize(float64(highlights) / f.Area() * c.p.OilinessGain)
}

// Pigmentation считает долю пикселей темнее своего размытого окружения.
func (c ColorMetrics) Pigmentation(f *Frame) float64 {
	lab := f.labPixels()

	l := make([]float64, f.rows*f.cols)
	for i := range l {
		l[i] = float64(lab[i*3])
	}
	lMat := floatMat(f.rows, f.cols, l)
	defer lMat.Close()

	blur := gocv.NewMat()
	defer blur.Close()
	k := c.p.PigmentKernel
	gocv.GaussianBlur(lMat, &blur, image.Pt(k, k), 0, 0, gocv.BorderDefault)
	blurred := floatPixels(blur)

	spots := 0
	for i, in := range f.bits {
		if in && blurred[i]-l[i] > c.p.PigmentDelta {
			spots++
		}
	}
	return skin.Normalize(float64(spots) / f.Area() / c.p.PigmentDivisor)
}

// Vascularity считает долю пикселей с сильным откликом лапласиана на R−G.
func (c ColorMetrics) Vascularity(f *Frame) float64 {
	bgr := f.bgrPixels()
	diff := make([]float64, f.rows*f.cols)
	for i := range diff {
		diff[i] = float64(bgr[i*3+2]) - float64(bgr[i*3+1])
	}
	src := floatMat(f.rows, f.cols, diff)
	defer src.Close()

	hp := gocv.NewMat()
	defer hp.Close()
	gocv.Laplacian(src, &hp, gocv.MatTypeCV32F, 3, 1, 0, gocv.BorderDefault)
	resp := floatPixels(hp)

	thr := skin.Quantile(resp, c.p.VascularityPercentile)
	vessels := 0
	for i, in := range f.bits {
		if in && resp[i] > thr {
			vessels++
		}
	}
	return skin.Normalize(float64(vessels) / f.Area() * c.p.VascularityGain)
}
