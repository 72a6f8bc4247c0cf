package storage

import (
	"context"
	"sync"

	"skin-vision/internal/domain/port"
)

// MemoryHistoryRepository хранит последние limit анализов каждого пользователя
type MemoryHistoryRepository struct {
	mu      sync.RWMutex
	limit   int
	records map[int64][]port.HistoryRecord
}

// NewMemoryHistoryRepository создаёт хранилище; limit < 1 трактуется как 1
func NewMemoryHistoryRepository(limit int) *MemoryHistoryRepository {
	if limit < 1 {
		limit = 1
	}
	return &MemoryHistoryRepository{
		limit:   limit,
		records: make(map[int64][]port.HistoryRecord),
	}
}

// Append добавляет запись, вытесняя самые старые сверх лимита
func (r *MemoryHistoryRepository) Append(ctx context.Context, userID int64, record port.HistoryRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	list := append(r.records[userID], record)
	if len(list) > r.limit {
		list = append([]port.HistoryRecord(nil), list[len(list)-r.limit:]...)
	}
	r.records[userID] = list

	return nil
}

// List возвращает копию истории от старых записей к новым
func (r *MemoryHistoryRepository) List(ctx context.Context, userID int64) ([]port.HistoryRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]port.HistoryRecord(nil), r.records[userID]...), nil
}

var _ port.HistoryRepository = (*MemoryHistoryRepository)(nil)
