package container

import (
	"go.uber.org/zap"

	app "skin-vision/internal/application"
	"skin-vision/internal/domain/port"
	"skin-vision/internal/skin"
)

// Options параметры сборки сервисов.
type Options struct {
	Params       skin.Params
	Overlay      bool
	BatchWorkers int
}

type Container struct {
	UserService     *app.UserService
	AnalysisService *app.AnalysisService
	BatchService    *app.BatchService
}

func New(
	userRepo port.UserRepository,
	historyRepo port.HistoryRepository,
	analyzer port.SkinAnalyzer,
	opts Options,
	logger *zap.Logger,
) *Container {
	userService := app.NewUserService(userRepo)
	analysisService := app.NewAnalysisService(userService, analyzer, historyRepo, opts.Params, opts.Overlay, logger)
	batchService := app.NewBatchService(analyzer, opts.Params, opts.BatchWorkers, logger)

	return &Container{
		UserService:     userService,
		AnalysisService: analysisService,
		BatchService:    batchService,
	}
}
