//go:build gocv
// +build gocv

package vision

import (
	"gocv.io/x/gocv"

	"skin-vision/internal/skin"
)

// SkinMask строит маску кожи 0/255 для BGR-фрагмента.
// В режиме off маска покрывает весь фрагмент.
func SkinMask(bgr gocv.Mat, p skin.SegmentationParams) gocv.Mat {
	rows, cols := bgr.Rows(), bgr.Cols()
	if p.Mode == skin.SegmentationOff {
		return fullMask(rows, cols)
	}

	ycrcb := gocv.NewMat()
	defer ycrcb.Close()
	gocv.CvtColor(bgr, &ycrcb, gocv.ColorBGRToYCrCb)
	yc := ycrcb.ToBytes()

	bits := make([]bool, rows*cols)
	for i := range bits {
		cr, cb := float64(yc[i*3+1]), float64(yc[i*3+2])
		bits[i] = cr > p.CrMin && cr < p.CrMax && cb > p.CbMin && cb < p.CbMax
	}

	if p.Mode == skin.SegmentationSimple {
		raw := maskFromBits(rows, cols, bits)
		defer raw.Close()
		return removeSmallObjects(raw, p.SimpleMinSize)
	}

	hsv := gocv.NewMat()
	defer hsv.Close()
	gocv.CvtColor(bgr, &hsv, gocv.ColorBGRToHSV)
	hv := hsv.ToBytes()
	for i := range bits {
		h, s, v := float64(hv[i*3]), float64(hv[i*3+1]), float64(hv[i*3+2])
		bits[i] = bits[i] || (h <= p.HueMax && s > p.SatMin && v > p.ValMin)
	}

	raw := maskFromBits(rows, cols, bits)
	defer raw.Close()
	cleaned := removeSmallObjects(raw, p.AdvancedMinSize)
	defer cleaned.Close()
	return closeDisk(cleaned, p.CloseRadius)
}

// analysisMask пересекает маску региона с маской кожи. Если пересечение
// пусто, используется маска региона.
func analysisMask(region, skinMask gocv.Mat) gocv.Mat {
	out := gocv.NewMat()
	gocv.BitwiseAnd(region, skinMask, &out)
	if gocv.CountNonZero(out) == 0 {
		out.Close()
		return region.Clone()
	}
	return out
}
