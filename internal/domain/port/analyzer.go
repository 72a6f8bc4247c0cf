package port

import (
	"context"

	"skin-vision/internal/domain/entity"
)

// SkinAnalyzer интерфейс анализатора кожи по фотографии
type SkinAnalyzer interface {
	// Analyze декодирует изображение и вычисляет вектор метрик
	Analyze(ctx context.Context, imageData []byte, opts entity.AnalyzeOptions) (*entity.Analysis, error)
}
