package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"skin-vision/internal/skin"
)

type Config struct {
	TelegramToken string
	LogLevel      string

	// Модели детектора лица и сетки точек
	YuNetModel    string
	FaceMeshModel string

	DetectorPoolSize int
	BatchWorkers     int
	MaxImageSide     int
	MinImageSide     int
	HistoryLimit     int
	Overlay          bool

	DarkCircleOffset int
	Segmentation     skin.SegmentationMode
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	cfg := &Config{
		TelegramToken:    os.Getenv("TELEGRAM_TOKEN"),
		LogLevel:         getString("LOG_LEVEL", "info"),
		YuNetModel:       getString("YUNET_MODEL", "models/face_detection_yunet_2023mar.onnx"),
		FaceMeshModel:    getString("FACEMESH_MODEL", "models/face_mesh.onnx"),
		Segmentation:     skin.SegmentationMode(getString("SKIN_SEGMENTATION", string(skin.SegmentationAdvanced))),
		Overlay:          true,
		DetectorPoolSize: 2,
		BatchWorkers:     4,
		MaxImageSide:     1600,
		MinImageSide:     200,
		HistoryLimit:     20,
		DarkCircleOffset: skin.DefaultParams().DarkCircleOffset,
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"DETECTOR_POOL_SIZE", &cfg.DetectorPoolSize},
		{"BATCH_WORKERS", &cfg.BatchWorkers},
		{"MAX_IMAGE_SIDE", &cfg.MaxImageSide},
		{"MIN_IMAGE_SIDE", &cfg.MinImageSide},
		{"HISTORY_LIMIT", &cfg.HistoryLimit},
		{"DARK_CIRCLE_OFFSET", &cfg.DarkCircleOffset},
	}
	for _, v := range ints {
		if err := getInt(v.key, v.dst); err != nil {
			return nil, err
		}
	}

	if raw := os.Getenv("OVERLAY"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("OVERLAY: %w", err)
		}
		cfg.Overlay = b
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Params возвращает настройки конвейера с учётом переопределений из окружения.
func (c *Config) Params() skin.Params {
	p := skin.DefaultParams()
	p.DarkCircleOffset = c.DarkCircleOffset
	p.Segmentation.Mode = c.Segmentation
	return p
}

func (c *Config) validate() error {
	switch c.Segmentation {
	case skin.SegmentationOff, skin.SegmentationSimple, skin.SegmentationAdvanced:
	default:
		return fmt.Errorf("SKIN_SEGMENTATION: unknown mode %q", c.Segmentation)
	}
	if c.DetectorPoolSize < 1 {
		return fmt.Errorf("DETECTOR_POOL_SIZE must be positive, got %d", c.DetectorPoolSize)
	}
	if c.BatchWorkers < 1 {
		return fmt.Errorf("BATCH_WORKERS must be positive, got %d", c.BatchWorkers)
	}
	if c.MinImageSide < 1 || c.MaxImageSide < c.MinImageSide {
		return fmt.Errorf("invalid image side limits: min=%d max=%d", c.MinImageSide, c.MaxImageSide)
	}
	if c.HistoryLimit < 1 {
		return fmt.Errorf("HISTORY_LIMIT must be positive, got %d", c.HistoryLimit)
	}
	return nil
}

func getString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getInt(key string, dst *int) error {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = v
	return nil
}
