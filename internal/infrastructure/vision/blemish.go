//go:build gocv
// +build gocv

package vision

import (
	"image"

	"gocv.io/x/gocv"

	"skin-vision/internal/domain/entity"
	"skin-vision/internal/skin"
)

// BlemishResult итог детектора акне по одному кадру.
type BlemishResult struct {
	Score     float64
	Blemishes []entity.Blemish // координаты внутри кадра
}

// DetectBlemishes ищет красные текстурные пятна округлой формы.
func DetectBlemishes(f *Frame, p skin.BlemishParams) BlemishResult {
	eq := clahe(f.Gray(), p.ClipLimit, p.TileGrid)
	defer eq.Close()
	eqPix := eq.ToBytes()

	// Пиксели вне маски заменяем медианой кожи, чтобы граница не давала текстуру.
	skinPix := eqPix
	if f.MaskCount() < len(f.bits) {
		median := 127.0
		if f.MaskCount() > 0 {
			inside := make([]float64, 0, f.MaskCount())
			for i, in := range f.bits {
				if in {
					inside = append(inside, float64(eqPix[i]))
				}
			}
			median = skin.Quantile(inside, 50)
		}
		skinPix = make([]uint8, len(eqPix))
		for i, in := range f.bits {
			if in {
				skinPix[i] = eqPix[i]
			} else {
				skinPix[i] = uint8(median)
			}
		}
	}
	skinMat, err := matFromBytes(f.rows, f.cols, gocv.MatTypeCV8UC1, skinPix)
	if err != nil {
		return BlemishResult{}
	}
	defer skinMat.Close()

	variance := localVariance(skinMat, p.VarianceWindow)
	varThr := skin.TukeyFence(variance, p.TukeyK)

	red := f.redIndex()
	redThr := skin.Quantile(red, p.ChromaPercentile)

	lbp := skin.UniformLBP(grayOf(skinMat), p.LBPPoints, p.LBPRadius)
	lbpThr := skin.Quantile(lbp, p.TexturePercentile)

	entropy := upsampledEntropy(skinMat, p)
	entThr := skin.Quantile(entropy, p.EntropyPercentile)

	bits := make([]bool, len(f.bits))
	for i, in := range f.bits {
		texture := lbp[i] > lbpThr || (entropy != nil && entropy[i] > entThr)
		bits[i] = in && variance[i] > varThr && red[i] > redThr && texture
	}

	minSize := p.MinComponentSize(f.rows, f.cols)
	spots := cleanSpots(maskFromBits(f.rows, f.cols, bits), minSize, p.CloseRadius)
	defer spots.Close()

	filtered := zeroMask(f.rows, f.cols)
	defer filtered.Close()
	blemishes := gateContours(spots, &filtered, p.Gate, f.Area(), minSize)

	score := float64(gocv.CountNonZero(filtered)) / f.Area() / p.ScoreDivisor
	return BlemishResult{Score: skin.Normalize(score), Blemishes: blemishes}
}

// upsampledEntropy считает локальную энтропию на уменьшенном кадре и
// возвращает её в исходном разрешении. Для слишком мелких кадров возвращает nil.
func upsampledEntropy(gray gocv.Mat, p skin.BlemishParams) []float64 {
	w, h := gray.Cols()/p.EntropyDownscale, gray.Rows()/p.EntropyDownscale
	if w == 0 || h == 0 {
		return nil
	}

	small := gocv.NewMat()
	defer small.Close()
	gocv.Resize(gray, &small, image.Pt(w, h), 0, 0, gocv.InterpolationLinear)

	ent := floatMat(h, w, skin.RankEntropy(grayOf(small), p.EntropyRadius))
	defer ent.Close()

	full := gocv.NewMat()
	defer full.Close()
	gocv.Resize(ent, &full, image.Pt(gray.Cols(), gray.Rows()), 0, 0, gocv.InterpolationLinear)
	return floatPixels(full)
}

// cleanSpots: удаление мелких компонент, закрытие, повторное удаление.
// Забирает владение raw.
func cleanSpots(raw gocv.Mat, minSize, radius int) gocv.Mat {
	defer raw.Close()
	first := removeSmallObjects(raw, minSize)
	defer first.Close()
	closed := closeDisk(first, radius)
	defer closed.Close()
	return removeSmallObjects(closed, minSize)
}

// gateContours заливает в dst внешние контуры, прошедшие фильтр формы.
func gateContours(spots gocv.Mat, dst *gocv.Mat, gate skin.ShapeGate, area float64, minSize int) []entity.Blemish {
	contours := gocv.FindContours(spots, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	blemishes := make([]entity.Blemish, 0)
	for i := 0; i < contours.Size(); i++ {
		c := contours.At(i)
		stats := skin.ShapeStats{
			Area:      gocv.ContourArea(c),
			Perimeter: gocv.ArcLength(c, true),
			Points:    c.Size(),
		}
		if stats.Points >= 5 {
			ellipse := gocv.FitEllipse(c)
			stats.MajorAxis = float64(ellipse.Width)
			stats.MinorAxis = float64(ellipse.Height)
		}
		if !gate.Accept(stats, area, minSize) {
			continue
		}

		gocv.DrawContours(dst, contours, i, white, -1)
		rect := gocv.BoundingRect(c)
		blemishes = append(blemishes, entity.Blemish{
			X:            rect.Min.X,
			Y:            rect.Min.Y,
			Width:        rect.Dx(),
			Height:       rect.Dy(),
			Area:         stats.Area,
			Circularity:  stats.Circularity(),
			Eccentricity: stats.Eccentricity(),
		})
	}
	return blemishes
}

// AcneSeverity делит кадр на полосы тяжести по совместным процентилям
// покраснения и локальной дисперсии.
func AcneSeverity(f *Frame, bands []skin.SeverityBand, p skin.BlemishParams) map[string]float64 {
	eq := clahe(f.Gray(), p.ClipLimit, p.TileGrid)
	defer eq.Close()

	variance := localVariance(eq, p.VarianceWindow)
	red := f.redIndex()

	redQ := make([]float64, len(bands))
	varQ := make([]float64, len(bands))
	for i, band := range bands {
		redQ[i] = band.RednessPercentile
		varQ[i] = band.VariancePercentile
	}
	redThr := skin.Quantiles(red, redQ...)
	varThr := skin.Quantiles(variance, varQ...)

	out := make(map[string]float64, len(bands))
	for b, band := range bands {
		hits := 0
		for i, in := range f.bits {
			if in && red[i] > redThr[b] && variance[i] > varThr[b] {
				hits++
			}
		}
		out[band.Metric] = skin.Normalize(float64(hits) / f.Area() / band.Divisor)
	}
	return out
}
