//go:build gocv
// +build gocv

package vision

import (
	"gocv.io/x/gocv"
)

// assessQuality проверяет резкость, экспозицию и блики. Нарушения
// возвращаются как предупреждения, анализ продолжается.
func assessQuality(mat gocv.Mat, q QualityThresholds) []string {
	warnings := make([]string, 0)

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(mat, &gray, gocv.ColorBGRToGray)

	edges := gocv.NewMat()
	defer edges.Close()
	gocv.Canny(gray, &edges, 80, 160)
	if ratioOfMask(edges) < q.MinSharpnessEdgeRatio {
		warnings = append(warnings, WarningBlurry)
	}

	bright := gocv.NewMat()
	defer bright.Close()
	gocv.Threshold(gray, &bright, 250, 255, gocv.ThresholdBinary)
	if ratioOfMask(bright) > q.MaxOverexposedRatio {
		warnings = append(warnings, WarningOverexposed)
	}

	dark := gocv.NewMat()
	defer dark.Close()
	gocv.Threshold(gray, &dark, 20, 255, gocv.ThresholdBinaryInv)
	if ratioOfMask(dark) > q.MaxUnderexposedRatio {
		warnings = append(warnings, WarningUnderexposed)
	}

	hsv := gocv.NewMat()
	defer hsv.Close()
	gocv.CvtColor(mat, &hsv, gocv.ColorBGRToHSV)
	channels := gocv.Split(hsv)
	for i := range channels {
		defer channels[i].Close()
	}
	if len(channels) < 3 {
		return warnings
	}

	lowSat := gocv.NewMat()
	defer lowSat.Close()
	gocv.Threshold(channels[1], &lowSat, 40, 255, gocv.ThresholdBinaryInv)

	highVal := gocv.NewMat()
	defer highVal.Close()
	gocv.Threshold(channels[2], &highVal, 245, 255, gocv.ThresholdBinary)

	glare := gocv.NewMat()
	defer glare.Close()
	gocv.BitwiseAnd(lowSat, highVal, &glare)
	if ratioOfMask(glare) > q.MaxGlareRatio {
		warnings = append(warnings, WarningGlare)
	}

	return warnings
}

func ratioOfMask(mask gocv.Mat) float64 {
	total := mask.Cols() * mask.Rows()
	if total <= 0 {
		return 0
	}
	return float64(gocv.CountNonZero(mask)) / float64(total)
}
