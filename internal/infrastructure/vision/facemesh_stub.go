//go:build !gocv
// +build !gocv

package vision

import (
	"context"
	"image"

	"go.uber.org/zap"

	"skin-vision/internal/domain/entity"
)

// FaceMeshConfig пути к моделям и порог уверенности детектора лица.
type FaceMeshConfig struct {
	YuNetModel    string
	FaceMeshModel string
	ScoreThresh   float32
}

// FaceMeshDetector заглушка детектора для сборки без OpenCV.
type FaceMeshDetector struct{}

// NewFaceMeshDetector возвращает ошибку, если сборка без тега gocv.
func NewFaceMeshDetector(cfg FaceMeshConfig, logger *zap.Logger) (*FaceMeshDetector, error) {
	_ = cfg
	_ = logger
	return nil, ErrGoCVDisabled
}

// Detect возвращает ошибку, если сборка без тега gocv.
func (d *FaceMeshDetector) Detect(ctx context.Context, img image.Image) ([]entity.LandmarkSet, error) {
	_ = ctx
	_ = img
	return nil, ErrGoCVDisabled
}

// Close ничего не делает.
func (d *FaceMeshDetector) Close() error {
	return nil
}
