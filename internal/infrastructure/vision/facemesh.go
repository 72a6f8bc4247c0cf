//go:build gocv
// +build gocv

package vision

import (
	"context"
	"fmt"
	"image"
	"os"

	"gocv.io/x/gocv"
	"go.uber.org/zap"

	"skin-vision/internal/domain/entity"
)

const (
	faceMeshInput  = 192
	faceBoxPadding = 0.25
)

// FaceMeshConfig пути к моделям и порог уверенности детектора лица.
type FaceMeshConfig struct {
	YuNetModel    string
	FaceMeshModel string
	ScoreThresh   float32
}

// FaceMeshDetector находит лицо YuNet и строит 468-точечную сетку
// ONNX-моделью. Экземпляр не потокобезопасен, доступ разделяет DetectorPool.
type FaceMeshDetector struct {
	yunet  gocv.FaceDetectorYN
	net    gocv.Net
	logger *zap.Logger
}

// NewFaceMeshDetector загружает обе модели.
func NewFaceMeshDetector(cfg FaceMeshConfig, logger *zap.Logger) (*FaceMeshDetector, error) {
	for _, path := range []string{cfg.YuNetModel, cfg.FaceMeshModel} {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("model file %s: %w", path, err)
		}
	}

	yunet := gocv.NewFaceDetectorYN(cfg.YuNetModel, "", image.Pt(320, 320))
	if cfg.ScoreThresh > 0 {
		yunet.SetScoreThreshold(cfg.ScoreThresh)
	}

	net := gocv.ReadNet(cfg.FaceMeshModel, "")
	if net.Empty() {
		yunet.Close()
		return nil, fmt.Errorf("failed to load face mesh model %s", cfg.FaceMeshModel)
	}
	net.SetPreferableBackend(gocv.NetBackendDefault)
	net.SetPreferableTarget(gocv.NetTargetCPU)

	return &FaceMeshDetector{yunet: yunet, net: net, logger: logger.Named("facemesh")}, nil
}

// Detect возвращает сетки точек для всех найденных лиц.
func (d *FaceMeshDetector) Detect(ctx context.Context, img image.Image) ([]entity.LandmarkSet, error) {
	mat, err := matFromImage(img)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	d.yunet.SetInputSize(image.Pt(mat.Cols(), mat.Rows()))
	faces := gocv.NewMat()
	defer faces.Close()
	d.yunet.Detect(mat, &faces)

	bounds := image.Rect(0, 0, mat.Cols(), mat.Rows())
	sets := make([]entity.LandmarkSet, 0, faces.Rows())
	for i := 0; i < faces.Rows(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		box := image.Rect(
			int(faces.GetFloatAt(i, 0)),
			int(faces.GetFloatAt(i, 1)),
			int(faces.GetFloatAt(i, 0)+faces.GetFloatAt(i, 2)),
			int(faces.GetFloatAt(i, 1)+faces.GetFloatAt(i, 3)),
		)
		box = squareBox(box, faceBoxPadding).Intersect(bounds)
		if box.Empty() {
			continue
		}

		lm, err := d.mesh(mat, box)
		if err != nil {
			return nil, err
		}
		sets = append(sets, lm)
	}

	d.logger.Debug("faces detected", zap.Int("faces", len(sets)))
	return sets, nil
}

func (d *FaceMeshDetector) mesh(mat gocv.Mat, box image.Rectangle) (entity.LandmarkSet, error) {
	face := mat.Region(box)
	defer face.Close()

	blob := gocv.BlobFromImage(face, 1.0/255, image.Pt(faceMeshInput, faceMeshInput), gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	d.net.SetInput(blob, "")
	out := d.net.Forward("")
	defer out.Close()

	raw, err := out.DataPtrFloat32()
	if err != nil {
		return nil, fmt.Errorf("face mesh output: %w", err)
	}
	if len(raw) < entity.MinFaceMeshPoints*3 {
		return nil, fmt.Errorf("face mesh output has %d values, want %d", len(raw), entity.MinFaceMeshPoints*3)
	}

	w, h := float64(mat.Cols()), float64(mat.Rows())
	sx := float64(box.Dx()) / faceMeshInput
	sy := float64(box.Dy()) / faceMeshInput
	lm := make(entity.LandmarkSet, entity.MinFaceMeshPoints)
	for i := range lm {
		x := float64(raw[i*3])*sx + float64(box.Min.X)
		y := float64(raw[i*3+1])*sy + float64(box.Min.Y)
		lm[i] = entity.Point{X: x / w, Y: y / h}
	}
	return lm, nil
}

// Close освобождает модели.
func (d *FaceMeshDetector) Close() error {
	d.yunet.Close()
	return d.net.Close()
}

// squareBox расширяет прямоугольник на pad с каждой стороны и делает его квадратным.
func squareBox(r image.Rectangle, pad float64) image.Rectangle {
	side := float64(max(r.Dx(), r.Dy())) * (1 + 2*pad)
	cx := float64(r.Min.X+r.Max.X) / 2
	cy := float64(r.Min.Y+r.Max.Y) / 2
	half := side / 2
	return image.Rect(int(cx-half), int(cy-half), int(cx+half), int(cy+half))
}
