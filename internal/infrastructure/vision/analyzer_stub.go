//go:build !gocv
// +build !gocv

package vision

import (
	"context"
	"image"

	"go.uber.org/zap"

	"skin-vision/internal/domain/entity"
	"skin-vision/internal/domain/port"
)

// Analyzer заглушка анализатора для сборки без OpenCV.
type Analyzer struct {
	detector port.LandmarkDetector
	cfg      AnalyzerConfig
	logger   *zap.Logger
}

// NewAnalyzer создаёт анализатор-заглушку.
func NewAnalyzer(detector port.LandmarkDetector, cfg AnalyzerConfig, logger *zap.Logger) *Analyzer {
	return &Analyzer{detector: detector, cfg: cfg, logger: logger.Named("analyzer")}
}

// Analyze возвращает ошибку, если сборка без тега gocv.
func (a *Analyzer) Analyze(ctx context.Context, imageData []byte, opts entity.AnalyzeOptions) (*entity.Analysis, error) {
	_ = ctx
	_ = imageData
	_ = opts
	return nil, ErrGoCVDisabled
}

// AnalyzeImage возвращает ошибку, если сборка без тега gocv.
func (a *Analyzer) AnalyzeImage(ctx context.Context, img image.Image, opts entity.AnalyzeOptions) (*entity.Analysis, error) {
	_ = ctx
	_ = img
	_ = opts
	return nil, ErrGoCVDisabled
}
