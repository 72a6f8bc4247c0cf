package app

import (
	"context"
	"errors"
	"sync/atomic"

	"skin-vision/internal/domain/entity"
)

var errBadPhoto = errors.New("bad photo")

// stubAnalyzer возвращает вектор, в котором все метрики равны первому байту/255.
type stubAnalyzer struct {
	calls atomic.Int32
}

func (s *stubAnalyzer) Analyze(ctx context.Context, imageData []byte, opts entity.AnalyzeOptions) (*entity.Analysis, error) {
	s.calls.Add(1)
	if len(imageData) == 0 {
		return nil, errBadPhoto
	}
	if imageData[0] == 0 {
		return nil, entity.ErrNoFaceDetected
	}
	v := float64(imageData[0]) / 255
	values := make(map[string]float64)
	for _, name := range entity.AllMetrics() {
		values[name] = v
	}
	return &entity.Analysis{ID: string(imageData), Metrics: entity.NewMetricVector(values)}, nil
}
