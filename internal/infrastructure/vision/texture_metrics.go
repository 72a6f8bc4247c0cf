//go:build gocv
// +build gocv

package vision

import (
	"image"
	"math"

	"gocv.io/x/gocv"

	"skin-vision/internal/domain/entity"
	"skin-vision/internal/skin"
)

// TextureMetrics считает метрики рельефа кожи.
type TextureMetrics struct {
	p skin.TextureParams
}

func NewTextureMetrics(p skin.TextureParams) TextureMetrics {
	return TextureMetrics{p: p}
}

// Wrinkles сочетает средний градиент Собеля и плотность границ Кэнни.
func (t TextureMetrics) Wrinkles(f *Frame) float64 {
	gray := f.Gray()

	gx := gocv.NewMat()
	defer gx.Close()
	gocv.Sobel(gray, &gx, gocv.MatTypeCV64F, 1, 0, 3, 1, 0, gocv.BorderDefault)
	gy := gocv.NewMat()
	defer gy.Close()
	gocv.Sobel(gray, &gy, gocv.MatTypeCV64F, 0, 1, 3, 1, 0, gocv.BorderDefault)
	dx, dy := doublePixels(gx), doublePixels(gy)

	blur := gocv.NewMat()
	defer blur.Close()
	gocv.GaussianBlur(gray, &blur, image.Pt(0, 0), t.p.CannySigma, t.p.CannySigma, gocv.BorderDefault)
	edges := gocv.NewMat()
	defer edges.Close()
	gocv.Canny(blur, &edges, t.p.CannyLow, t.p.CannyHigh)
	edgePix := edges.ToBytes()

	var grad float64
	edgeCount := 0
	for i, in := range f.bits {
		if !in {
			continue
		}
		grad += math.Hypot(dx[i], dy[i])
		if edgePix[i] != 0 {
			edgeCount++
		}
	}

	gradScore := grad / f.Area() / 255
	edgeScore := float64(edgeCount) / f.Area()
	return skin.Normalize((gradScore*t.p.GradientWeight + edgeScore*t.p.EdgeWeight) * t.p.WrinkleGain)
}

// Roughness считает энтропию гистограммы uniform LBP под маской.
func (t TextureMetrics) Roughness(f *Frame) float64 {
	if f.MaskCount() == 0 {
		return 0
	}
	codes := skin.UniformLBP(skin.NewGray(f.cols, f.rows, f.grayPixels()), t.p.RoughnessPoints, t.p.RoughnessRadius)
	values := make([]float64, 0, f.MaskCount())
	for i, in := range f.bits {
		if in {
			values = append(values, codes[i])
		}
	}
	return skin.Normalize(skin.HistogramEntropy(values, t.p.RoughnessBins) / t.p.RoughnessDivisor)
}

// PoreSize считает плотность морфологического градиента выше порога Оцу.
func (t TextureMetrics) PoreSize(f *Frame) float64 {
	enhanced := clahe(f.Gray(), t.p.PoreClipLimit, 8)
	defer enhanced.Close()

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(enhanced, &blurred, image.Pt(5, 5), 0, 0, gocv.BorderDefault)

	kernel := gocv.GetStructuringElement(gocv.MorphEllipse, image.Pt(3, 3))
	defer kernel.Close()
	grad := gocv.NewMat()
	defer grad.Close()
	gocv.MorphologyEx(blurred, &grad, gocv.MorphGradient, kernel)

	thresh := gocv.NewMat()
	defer thresh.Close()
	gocv.Threshold(grad, &thresh, 0, 255, gocv.ThresholdBinary|gocv.ThresholdOtsu)

	pores := gocv.NewMat()
	defer pores.Close()
	gocv.BitwiseAnd(thresh, f.mask, &pores)

	density := float64(gocv.CountNonZero(pores)) / f.Area()
	return skin.Normalize(density * t.p.PoreGain)
}

// DarkCircles сравнивает светлоту щёк и области под глазами, смещённой
// вниз на offset пикселей. Пустая область считается белой (L=255).
func DarkCircles(img gocv.Mat, lm entity.LandmarkSet, params skin.Params) float64 {
	rows, cols := img.Rows(), img.Cols()

	union := func(names []string, offset int) gocv.Mat {
		acc := zeroMask(rows, cols)
		for _, name := range names {
			region, ok := params.Region(name)
			if !ok {
				continue
			}
			pts, ok := skin.RegionPolygon(lm, region, cols, rows)
			if !ok {
				continue
			}
			m := PolygonMask(rows, cols, skin.ShiftPolygon(pts, offset))
			gocv.BitwiseOr(acc, m, &acc)
			m.Close()
		}
		return acc
	}

	eyes := union([]string{skin.RegionLeftEye, skin.RegionRightEye}, params.DarkCircleOffset)
	defer eyes.Close()
	cheeks := union([]string{skin.RegionLeftCheek, skin.RegionRightCheek}, 0)
	defer cheeks.Close()

	lab := gocv.NewMat()
	defer lab.Close()
	gocv.CvtColor(img, &lab, gocv.ColorBGRToLab)

	eyeL := meanLightness(lab, eyes)
	cheekL := meanLightness(lab, cheeks)
	return skin.Normalize((cheekL - eyeL) / 255 * 2)
}

func meanLightness(lab, mask gocv.Mat) float64 {
	if gocv.CountNonZero(mask) == 0 {
		return 255
	}
	return MeanChannel(lab, mask)[0]
}
