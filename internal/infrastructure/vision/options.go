package vision

import (
	"errors"

	"skin-vision/internal/skin"
)

// ErrGoCVDisabled возвращается сборкой без тега gocv.
var ErrGoCVDisabled = errors.New("gocv build tag is not enabled")

// Предупреждения о качестве снимка. Не прерывают анализ.
const (
	WarningBlurry       = "blurry"
	WarningOverexposed  = "overexposed"
	WarningUnderexposed = "underexposed"
	WarningGlare        = "glare"
)

// QualityThresholds пороги проверки качества снимка.
type QualityThresholds struct {
	MinSharpnessEdgeRatio float64
	MaxOverexposedRatio   float64
	MaxUnderexposedRatio  float64
	MaxGlareRatio         float64
}

// AnalyzerConfig настройки анализатора.
type AnalyzerConfig struct {
	Params       skin.Params
	MinImageSide int
	MaxImageSide int
	Quality      QualityThresholds
}

// DefaultAnalyzerConfig возвращает настройки по умолчанию.
func DefaultAnalyzerConfig() AnalyzerConfig {
	return AnalyzerConfig{
		Params:       skin.DefaultParams(),
		MinImageSide: 200,
		MaxImageSide: 1600,
		Quality: QualityThresholds{
			MinSharpnessEdgeRatio: 0.008,
			MaxOverexposedRatio:   0.35,
			MaxUnderexposedRatio:  0.45,
			MaxGlareRatio:         0.08,
		},
	}
}
