package entity

import "time"

// Analysis хранит итог анализа одной фотографии.
type Analysis struct {
	ID              string
	CreatedAt       time.Time
	ImageWidth      int
	ImageHeight     int
	Metrics         MetricVector
	Blemishes       []Blemish
	QualityWarnings []string
	Overlay         []byte // JPEG с разметкой, если запрошен
}

// AnalyzeOptions управляет необязательными частями анализа.
type AnalyzeOptions struct {
	Overlay bool
}
