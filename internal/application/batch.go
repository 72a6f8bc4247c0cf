package app

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"skin-vision/internal/domain/entity"
	"skin-vision/internal/domain/port"
	"skin-vision/internal/skin"
)

// BatchItem одно изображение пакета.
type BatchItem struct {
	Name string
	Data []byte
}

// BatchResult результат одного элемента. Err заполняется вместо Analysis.
type BatchResult struct {
	Name     string
	Analysis *entity.Analysis
	Report   entity.Report
	Err      error
}

// BatchService анализирует набор независимых снимков параллельно.
type BatchService struct {
	analyzer   port.SkinAnalyzer
	aggregator *skin.Aggregator
	trend      skin.TrendParams
	workers    int
	logger     *zap.Logger
}

func NewBatchService(analyzer port.SkinAnalyzer, params skin.Params, workers int, logger *zap.Logger) *BatchService {
	if workers < 1 {
		workers = 1
	}
	return &BatchService{
		analyzer:   analyzer,
		aggregator: skin.NewAggregator(params.Report),
		trend:      params.Trend,
		workers:    workers,
		logger:     logger.Named("batch"),
	}
}

// AnalyzeMany возвращает результаты в порядке входа. Ошибка одного
// элемента не прерывает остальные.
func (s *BatchService) AnalyzeMany(ctx context.Context, items []BatchItem) []BatchResult {
	started := time.Now()
	results := make([]BatchResult, len(items))

	var g errgroup.Group
	g.SetLimit(s.workers)
	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			results[i] = s.analyzeOne(ctx, item)
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	s.logger.Info("batch completed",
		zap.Int("items", len(items)),
		zap.Int("failed", failed),
		zap.Duration("elapsed", time.Since(started)),
	)
	return results
}

func (s *BatchService) analyzeOne(ctx context.Context, item BatchItem) BatchResult {
	res := BatchResult{Name: item.Name}
	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}

	analysis, err := s.analyzer.Analyze(ctx, item.Data, entity.AnalyzeOptions{})
	if err != nil {
		s.logger.Debug("item failed", zap.String("name", item.Name), zap.Error(err))
		res.Err = err
		return res
	}
	res.Analysis = analysis
	res.Report = s.aggregator.Build(analysis.Metrics)
	return res
}

// Compare строит сравнение по успешным результатам в порядке пакета.
func (s *BatchService) Compare(results []BatchResult) (entity.Comparison, error) {
	vectors := make([]entity.MetricVector, 0, len(results))
	scores := make([]float64, 0, len(results))
	for _, r := range results {
		if r.Err != nil || r.Analysis == nil {
			continue
		}
		vectors = append(vectors, r.Analysis.Metrics)
		scores = append(scores, r.Report.OverallScore)
	}
	return skin.Compare(vectors, scores, s.trend)
}
