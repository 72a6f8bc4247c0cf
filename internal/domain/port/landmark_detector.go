package port

import (
	"context"
	"image"

	"skin-vision/internal/domain/entity"
)

// LandmarkDetector интерфейс внешнего детектора ключевых точек лица
type LandmarkDetector interface {
	// Detect возвращает наборы точек для всех найденных лиц (пустой срез, если лиц нет)
	Detect(ctx context.Context, img image.Image) ([]entity.LandmarkSet, error)

	// Close освобождает ресурсы модели
	Close() error
}
