package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"skin-vision/internal/domain/entity"
	"skin-vision/internal/domain/port"
	"skin-vision/internal/skin"
)

// AnalysisService связывает анализатор, отчёт и историю пользователя.
type AnalysisService struct {
	users      *UserService
	analyzer   port.SkinAnalyzer
	history    port.HistoryRepository
	aggregator *skin.Aggregator
	trend      skin.TrendParams
	overlay    bool
	logger     *zap.Logger
}

// AnalysisOutput содержит анализ и построенный по нему отчёт.
type AnalysisOutput struct {
	Analysis *entity.Analysis
	Report   entity.Report
}

// NewAnalysisService создаёт сервис анализа. overlay включает разметку снимка.
func NewAnalysisService(
	users *UserService,
	analyzer port.SkinAnalyzer,
	history port.HistoryRepository,
	params skin.Params,
	overlay bool,
	logger *zap.Logger,
) *AnalysisService {
	return &AnalysisService{
		users:      users,
		analyzer:   analyzer,
		history:    history,
		aggregator: skin.NewAggregator(params.Report),
		trend:      params.Trend,
		overlay:    overlay,
		logger:     logger.Named("analysis"),
	}
}

// AnalyzePhoto анализирует селфи, строит отчёт и сохраняет его в историю.
// По завершении пользователь возвращается в главное меню.
func (s *AnalysisService) AnalyzePhoto(ctx context.Context, userID, chatID int64, photo []byte) (*AnalysisOutput, error) {
	if s.analyzer == nil {
		return nil, errors.New("analyzer is not configured")
	}

	if _, err := s.users.SetState(ctx, userID, chatID, entity.StateProcessing); err != nil {
		return nil, err
	}
	defer func() {
		if _, err := s.users.SetState(ctx, userID, chatID, entity.StateMainMenu); err != nil {
			s.logger.Warn("failed to reset user state", zap.Int64("user_id", userID), zap.Error(err))
		}
	}()

	analysis, err := s.analyzer.Analyze(ctx, photo, entity.AnalyzeOptions{Overlay: s.overlay})
	if err != nil {
		return nil, err
	}

	out := &AnalysisOutput{Analysis: analysis, Report: s.aggregator.Build(analysis.Metrics)}

	if err := s.history.Append(ctx, userID, port.HistoryRecord{Analysis: analysis, Report: out.Report}); err != nil {
		return nil, fmt.Errorf("save history: %w", err)
	}
	if err := s.users.RecordAnalysis(ctx, userID); err != nil {
		s.logger.Warn("failed to count analysis", zap.Int64("user_id", userID), zap.Error(err))
	}

	s.logger.Info("photo analyzed",
		zap.Int64("user_id", userID),
		zap.String("analysis_id", analysis.ID),
		zap.Float64("overall_score", out.Report.OverallScore),
		zap.Strings("concerns", out.Report.Concerns),
	)
	return out, nil
}

// History возвращает сохранённые анализы пользователя.
func (s *AnalysisService) History(ctx context.Context, userID int64) ([]port.HistoryRecord, error) {
	return s.history.List(ctx, userID)
}

// Trend сравнивает все сохранённые анализы пользователя.
func (s *AnalysisService) Trend(ctx context.Context, userID int64) (entity.Comparison, error) {
	records, err := s.history.List(ctx, userID)
	if err != nil {
		return entity.Comparison{}, err
	}

	vectors := make([]entity.MetricVector, 0, len(records))
	scores := make([]float64, 0, len(records))
	for _, r := range records {
		if r.Analysis == nil {
			continue
		}
		vectors = append(vectors, r.Analysis.Metrics)
		scores = append(scores, r.Report.OverallScore)
	}
	return skin.Compare(vectors, scores, s.trend)
}
