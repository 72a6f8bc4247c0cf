package port

import (
	"context"

	"skin-vision/internal/domain/entity"
)

// HistoryRecord сохранённый анализ вместе с отчётом.
type HistoryRecord struct {
	Analysis *entity.Analysis
	Report   entity.Report
}

// HistoryRepository интерфейс хранилища истории анализов
type HistoryRepository interface {
	// Append добавляет запись в историю пользователя
	Append(ctx context.Context, userID int64, record HistoryRecord) error

	// List возвращает историю пользователя от старых записей к новым
	List(ctx context.Context, userID int64) ([]HistoryRecord, error)
}
