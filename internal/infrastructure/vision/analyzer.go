//go:build gocv
// +build gocv

package vision

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/google/uuid"
	"gocv.io/x/gocv"
	"go.uber.org/zap"

	"skin-vision/internal/domain/entity"
	"skin-vision/internal/domain/port"
	"skin-vision/internal/logging"
	"skin-vision/internal/skin"
)

// Analyzer конвейер анализа кожи по одной фотографии. Не хранит состояние
// между вызовами и может использоваться параллельно.
type Analyzer struct {
	detector port.LandmarkDetector
	cfg      AnalyzerConfig
	colors   ColorMetrics
	texture  TextureMetrics
	logger   *zap.Logger
}

// NewAnalyzer создаёт анализатор с собственной копией настроек.
func NewAnalyzer(detector port.LandmarkDetector, cfg AnalyzerConfig, logger *zap.Logger) *Analyzer {
	cfg.Params = cfg.Params.Clone()
	return &Analyzer{
		detector: detector,
		cfg:      cfg,
		colors:   NewColorMetrics(cfg.Params.Color),
		texture:  NewTextureMetrics(cfg.Params.Texture),
		logger:   logger.Named("analyzer"),
	}
}

// Analyze декодирует байты изображения и запускает анализ.
func (a *Analyzer) Analyze(ctx context.Context, imageData []byte, opts entity.AnalyzeOptions) (*entity.Analysis, error) {
	img, err := DecodeImage(imageData, a.cfg.MaxImageSide)
	if err != nil {
		return nil, err
	}
	return a.AnalyzeImage(ctx, img, opts)
}

// AnalyzeImage анализирует уже декодированное изображение.
func (a *Analyzer) AnalyzeImage(ctx context.Context, img image.Image, opts entity.AnalyzeOptions) (*entity.Analysis, error) {
	id := uuid.NewString()
	log := logging.WithOperation(a.logger, "analyze", id)
	started := time.Now()

	b := img.Bounds()
	if b.Dx() < a.cfg.MinImageSide || b.Dy() < a.cfg.MinImageSide {
		return nil, fmt.Errorf("%w: image is too small (%dx%d)", entity.ErrInvalidImage, b.Dx(), b.Dy())
	}

	mat, err := matFromImage(img)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	warnings := assessQuality(mat, a.cfg.Quality)

	faces, err := a.detector.Detect(ctx, img)
	if err != nil {
		return nil, logging.NewOperationError("vision.detect", id, err)
	}
	if len(faces) == 0 {
		return nil, entity.ErrNoFaceDetected
	}
	lm := faces[0]

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	values, blemishes := a.measure(mat, lm, log)
	metrics := entity.NewMetricVector(values)

	analysis := &entity.Analysis{
		ID:              id,
		CreatedAt:       time.Now().UTC(),
		ImageWidth:      mat.Cols(),
		ImageHeight:     mat.Rows(),
		Metrics:         metrics,
		Blemishes:       blemishes,
		QualityWarnings: warnings,
	}

	if opts.Overlay {
		overlay, err := renderOverlay(mat, lm, a.cfg.Params, metrics, blemishes)
		if err != nil {
			log.Warn("overlay failed", zap.Error(err))
		} else {
			analysis.Overlay = overlay
		}
	}

	log.Info("analysis completed",
		zap.Int("width", analysis.ImageWidth),
		zap.Int("height", analysis.ImageHeight),
		zap.Int("blemishes", len(blemishes)),
		zap.Strings("quality_warnings", warnings),
		zap.Duration("elapsed", time.Since(started)),
	)
	return analysis, nil
}

// measure считает все 16 метрик. Пустые регионы ухудшают только зависящие
// от них метрики.
func (a *Analyzer) measure(mat gocv.Mat, lm entity.LandmarkSet, log *zap.Logger) (map[string]float64, []entity.Blemish) {
	p := a.cfg.Params
	masks := a.regionMasks(mat.Rows(), mat.Cols(), lm)
	defer func() {
		for _, m := range masks {
			m.Close()
		}
	}()

	frames := make(map[string]*Frame, 3)
	offsets := make(map[string]image.Point, 3)
	defer func() {
		for _, f := range frames {
			f.Close()
		}
	}()
	for _, name := range []string{skin.RegionLeftCheek, skin.RegionRightCheek, skin.RegionFace} {
		mask, ok := masks[name]
		if !ok {
			continue
		}
		f, origin, err := a.frame(mat, mask)
		if err != nil {
			log.Debug("region skipped", zap.String("region", name), zap.Error(err))
			continue
		}
		frames[name] = f
		offsets[name] = origin
	}

	values := make(map[string]float64, len(entity.AllMetrics()))
	for _, name := range entity.AllMetrics() {
		values[name] = 0
	}

	lc, okL := frames[skin.RegionLeftCheek]
	rc, okR := frames[skin.RegionRightCheek]
	face, okF := frames[skin.RegionFace]
	switch {
	case okL && okR:
		values[entity.MetricPaleness] = (a.colors.Paleness(lc) + a.colors.Paleness(rc)) / 2
	case okF:
		values[entity.MetricPaleness] = a.colors.Paleness(face)
	}

	values[entity.MetricPuffiness] = skin.Puffiness(lm, mat.Cols(), mat.Rows())
	values[entity.MetricDarkCircles] = DarkCircles(mat, lm, p)

	var blemishes []entity.Blemish
	if okF {
		values[entity.MetricCyanosis] = a.colors.Cyanosis(face)
		values[entity.MetricJaundice] = a.colors.Jaundice(face)
		values[entity.MetricRedness] = a.colors.Redness(face)
		values[entity.MetricOiliness] = a.colors.Oiliness(face)
		values[entity.MetricPigmentation] = a.colors.Pigmentation(face)
		values[entity.MetricVascularity] = a.colors.Vascularity(face)
		values[entity.MetricWrinkles] = a.texture.Wrinkles(face)
		values[entity.MetricTextureRoughness] = a.texture.Roughness(face)
		values[entity.MetricPoreSize] = a.texture.PoreSize(face)

		acne := DetectBlemishes(face, p.Blemish)
		values[entity.MetricAcneSpots] = acne.Score
		origin := offsets[skin.RegionFace]
		for _, b := range acne.Blemishes {
			b.X += origin.X
			b.Y += origin.Y
			blemishes = append(blemishes, b)
		}

		for k, v := range AcneSeverity(face, p.Severity, p.Blemish) {
			values[k] = v
		}
	} else {
		log.Warn("face region is empty, face metrics set to zero", zap.Error(entity.ErrEmptyRegion))
	}

	return values, blemishes
}

// regionMasks растеризует регионы и их объединение "face".
func (a *Analyzer) regionMasks(rows, cols int, lm entity.LandmarkSet) map[string]gocv.Mat {
	p := a.cfg.Params
	masks := make(map[string]gocv.Mat, len(p.Regions)+1)
	for _, region := range p.Regions {
		pts, _ := skin.RegionPolygon(lm, region, cols, rows)
		masks[region.Name] = PolygonMask(rows, cols, pts)
	}

	face := zeroMask(rows, cols)
	for _, name := range p.FaceUnion {
		if m, ok := masks[name]; ok {
			gocv.BitwiseOr(face, m, &face)
		}
	}
	masks[skin.RegionFace] = face
	return masks
}

// frame вырезает регион и пересекает его с маской кожи.
func (a *Analyzer) frame(mat, region gocv.Mat) (*Frame, image.Point, error) {
	crop, ok := CropWithMask(mat, region)
	if !ok {
		return nil, image.Point{}, entity.ErrEmptyRegion
	}

	skinMask := SkinMask(crop.Image, a.cfg.Params.Segmentation)
	defer skinMask.Close()
	mask := analysisMask(crop.Mask, skinMask)
	crop.Mask.Close()
	return NewFrame(crop.Image, mask), crop.Bounds.Min, nil
}
