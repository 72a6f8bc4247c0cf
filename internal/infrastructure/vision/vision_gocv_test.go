//go:build gocv
// +build gocv

package vision

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"math/rand"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
	"go.uber.org/zap"

	"skin-vision/internal/domain/entity"
	"skin-vision/internal/skin"
)

type stubDetector struct {
	faces []entity.LandmarkSet
}

func (s stubDetector) Detect(ctx context.Context, img image.Image) ([]entity.LandmarkSet, error) {
	return s.faces, nil
}

func (s stubDetector) Close() error { return nil }

func solidMat(rows, cols int, b, g, r float64) gocv.Mat {
	return gocv.NewMatWithSizeFromScalar(gocv.NewScalar(b, g, r, 0), rows, cols, gocv.MatTypeCV8UC3)
}

func randomImage(seed int64, w, h int) *image.NRGBA {
	rng := rand.New(rand.NewSource(seed))
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(150 + rng.Intn(100)),
				G: uint8(90 + rng.Intn(80)),
				B: uint8(70 + rng.Intn(80)),
				A: 255,
			})
		}
	}
	return img
}

func randomMesh(seed int64) entity.LandmarkSet {
	rng := rand.New(rand.NewSource(seed))
	lm := make(entity.LandmarkSet, entity.MinFaceMeshPoints)
	for i := range lm {
		lm[i] = entity.Point{X: 0.2 + 0.6*rng.Float64(), Y: 0.2 + 0.6*rng.Float64()}
	}
	return lm
}

func testConfig() AnalyzerConfig {
	cfg := DefaultAnalyzerConfig()
	cfg.MinImageSide = 64
	return cfg
}

func TestCropWithMask(t *testing.T) {
	img := solidMat(20, 30, 10, 20, 30)
	defer img.Close()

	empty := zeroMask(20, 30)
	defer empty.Close()
	_, ok := CropWithMask(img, empty)
	require.False(t, ok)

	full := fullMask(20, 30)
	defer full.Close()
	crop, ok := CropWithMask(img, full)
	require.True(t, ok)
	defer crop.Close()
	require.Equal(t, image.Rect(0, 0, 30, 20), crop.Bounds)
	require.Equal(t, img.ToBytes(), crop.Image.ToBytes())

	part := PolygonMask(20, 30, []image.Point{{5, 5}, {10, 5}, {10, 12}, {5, 12}})
	defer part.Close()
	crop2, ok := CropWithMask(img, part)
	require.True(t, ok)
	defer crop2.Close()
	require.Equal(t, image.Rect(5, 5, 11, 13), crop2.Bounds)
}

func TestPolygonMask_Degenerate(t *testing.T) {
	m := PolygonMask(10, 10, []image.Point{{1, 1}, {5, 5}})
	defer m.Close()
	require.Zero(t, gocv.CountNonZero(m))
}

func TestMeanChannel_EmptyMask(t *testing.T) {
	img := solidMat(8, 8, 50, 60, 70)
	defer img.Close()
	empty := zeroMask(8, 8)
	defer empty.Close()
	require.Equal(t, []float64{0, 0, 0}, MeanChannel(img, empty))

	full := fullMask(8, 8)
	defer full.Close()
	require.Equal(t, []float64{50, 60, 70}, MeanChannel(img, full))
}

func TestPaleness_MidGray(t *testing.T) {
	f := NewFrame(solidMat(40, 40, 128, 128, 128), fullMask(40, 40))
	defer f.Close()

	l := MeanChannel(f.Lab(), f.mask)[0]
	got := NewColorMetrics(skin.DefaultParams().Color).Paleness(f)
	require.InDelta(t, l/255, got, 1e-9)
}

func TestColorMetrics_EmptyMaskIsZero(t *testing.T) {
	f := NewFrame(solidMat(20, 20, 40, 60, 200), zeroMask(20, 20))
	defer f.Close()

	c := NewColorMetrics(skin.DefaultParams().Color)
	require.Zero(t, c.Paleness(f))
	require.Zero(t, c.Cyanosis(f))
	require.Zero(t, c.Jaundice(f))
	require.Zero(t, c.Redness(f))
	require.Zero(t, c.Oiliness(f))
}

func TestDetectBlemishes_UniformPatch(t *testing.T) {
	f := NewFrame(solidMat(120, 120, 110, 120, 180), fullMask(120, 120))
	defer f.Close()

	res := DetectBlemishes(f, skin.DefaultParams().Blemish)
	require.Zero(t, res.Score)
	require.Empty(t, res.Blemishes)
}

func TestSkinMask_Off(t *testing.T) {
	img := solidMat(10, 10, 0, 0, 0)
	defer img.Close()
	p := skin.DefaultParams().Segmentation
	p.Mode = skin.SegmentationOff

	m := SkinMask(img, p)
	defer m.Close()
	require.Equal(t, 100, gocv.CountNonZero(m))
}

func TestAnalyzer_NoFace(t *testing.T) {
	a := NewAnalyzer(stubDetector{}, testConfig(), zap.NewNop())
	_, err := a.AnalyzeImage(context.Background(), randomImage(1, 96, 96), entity.AnalyzeOptions{})
	require.ErrorIs(t, err, entity.ErrNoFaceDetected)
}

func TestAnalyzer_TooSmall(t *testing.T) {
	a := NewAnalyzer(stubDetector{faces: []entity.LandmarkSet{randomMesh(1)}}, testConfig(), zap.NewNop())
	_, err := a.AnalyzeImage(context.Background(), randomImage(1, 32, 32), entity.AnalyzeOptions{})
	require.ErrorIs(t, err, entity.ErrInvalidImage)
}

func TestAnalyzer_Deterministic(t *testing.T) {
	a := NewAnalyzer(stubDetector{faces: []entity.LandmarkSet{randomMesh(7)}}, testConfig(), zap.NewNop())
	img := randomImage(7, 160, 160)

	first, err := a.AnalyzeImage(context.Background(), img, entity.AnalyzeOptions{})
	require.NoError(t, err)
	second, err := a.AnalyzeImage(context.Background(), img, entity.AnalyzeOptions{})
	require.NoError(t, err)

	require.Equal(t, first.Metrics.Map(), second.Metrics.Map())
	require.Equal(t, first.Blemishes, second.Blemishes)
	require.NotEqual(t, first.ID, second.ID)
}

func TestAnalyzer_MetricsInRange(t *testing.T) {
	for seed := int64(1); seed <= 5; seed++ {
		a := NewAnalyzer(stubDetector{faces: []entity.LandmarkSet{randomMesh(seed)}}, testConfig(), zap.NewNop())
		res, err := a.AnalyzeImage(context.Background(), randomImage(seed, 128, 128), entity.AnalyzeOptions{})
		require.NoError(t, err)
		require.Equal(t, 16, res.Metrics.Len())
		for _, name := range entity.AllMetrics() {
			v, ok := res.Metrics.Get(name)
			require.True(t, ok, name)
			require.GreaterOrEqual(t, v, 0.0, name)
			require.LessOrEqual(t, v, 1.0, name)
		}
	}
}

func TestAnalyzer_FaceOutsideFrame(t *testing.T) {
	lm := make(entity.LandmarkSet, entity.MinFaceMeshPoints)
	for i := range lm {
		lm[i] = entity.Point{X: 2, Y: 2}
	}
	a := NewAnalyzer(stubDetector{faces: []entity.LandmarkSet{lm}}, testConfig(), zap.NewNop())

	res, err := a.AnalyzeImage(context.Background(), randomImage(3, 96, 96), entity.AnalyzeOptions{})
	require.NoError(t, err)
	require.Equal(t, 16, res.Metrics.Len())
	require.Zero(t, res.Metrics.Value(entity.MetricAcneSpots))
	require.Zero(t, res.Metrics.Value(entity.MetricPaleness))
	require.Zero(t, res.Metrics.Value(entity.MetricDarkCircles))
	require.Empty(t, res.Blemishes)
}

func TestAnalyzer_Overlay(t *testing.T) {
	a := NewAnalyzer(stubDetector{faces: []entity.LandmarkSet{randomMesh(2)}}, testConfig(), zap.NewNop())

	res, err := a.AnalyzeImage(context.Background(), randomImage(2, 128, 96), entity.AnalyzeOptions{Overlay: true})
	require.NoError(t, err)
	require.NotEmpty(t, res.Overlay)

	decoded, err := imaging.Decode(bytes.NewReader(res.Overlay))
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 128, 96), decoded.Bounds())
}
