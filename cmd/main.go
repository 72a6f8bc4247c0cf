package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"skin-vision/config"
	telegram "skin-vision/internal/api"
	"skin-vision/internal/container"
	"skin-vision/internal/domain/port"
	"skin-vision/internal/infrastructure/storage"
	"skin-vision/internal/infrastructure/vision"
	"skin-vision/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Пул детекторов точек лица: каждая модель обслуживает один снимок за раз
	meshConfig := vision.FaceMeshConfig{
		YuNetModel:    cfg.YuNetModel,
		FaceMeshModel: cfg.FaceMeshModel,
	}
	pool := vision.NewDetectorPool(cfg.DetectorPoolSize, func() (port.LandmarkDetector, error) {
		detector, err := vision.NewFaceMeshDetector(meshConfig, logger)
		if err != nil {
			return nil, err
		}
		return detector, nil
	}, logger)
	defer func() {
		if err := pool.Close(); err != nil {
			logger.Warn("failed to close detector pool", zap.Error(err))
		}
	}()

	params := cfg.Params()

	analyzerConfig := vision.DefaultAnalyzerConfig()
	analyzerConfig.Params = params
	analyzerConfig.MinImageSide = cfg.MinImageSide
	analyzerConfig.MaxImageSide = cfg.MaxImageSide
	analyzer := vision.NewAnalyzer(pool, analyzerConfig, logger)

	// Хранилища в памяти
	userRepo := storage.NewMemoryUserRepository()
	historyRepo := storage.NewMemoryHistoryRepository(cfg.HistoryLimit)

	// Собираем сервисы приложения
	appContainer := container.New(userRepo, historyRepo, analyzer, container.Options{
		Params:       params,
		Overlay:      cfg.Overlay,
		BatchWorkers: cfg.BatchWorkers,
	}, logger)

	bot, err := telegram.NewBot(cfg.TelegramToken, appContainer, logger)
	if err != nil {
		logger.Fatal("failed to create bot", zap.Error(err))
	}

	logger.Info("bot is running",
		zap.Int("detector_pool", cfg.DetectorPoolSize),
		zap.String("segmentation", string(params.Segmentation.Mode)),
	)
	if err := bot.Run(ctx); err != nil {
		logger.Error("bot stopped with error", zap.Error(err))
	}
	logger.Info("bot stopped")
}
