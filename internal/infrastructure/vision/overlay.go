//go:build gocv
// +build gocv

package vision

import (
	"bytes"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"gocv.io/x/gocv"

	"skin-vision/internal/domain/entity"
	"skin-vision/internal/skin"
)

var regionColors = map[string]color.RGBA{
	skin.RegionLeftCheek:  {G: 255, A: 255},
	skin.RegionRightCheek: {G: 255, A: 255},
	skin.RegionNose:       {B: 255, A: 255},
	skin.RegionForehead:   {R: 255, G: 255, A: 255},
	skin.RegionChin:       {G: 255, B: 255, A: 255},
	skin.RegionLeftEye:    {R: 255, B: 255, A: 255},
	skin.RegionRightEye:   {R: 255, B: 255, A: 255},
}

var tierColors = map[skin.Tier]color.RGBA{
	skin.TierLow:    {G: 255, A: 255},
	skin.TierMedium: {R: 255, G: 255, A: 255},
	skin.TierHigh:   {R: 255, A: 255},
}

// renderOverlay рисует контуры регионов, рамки пятен и значения метрик
// и кодирует результат в JPEG.
func renderOverlay(src gocv.Mat, lm entity.LandmarkSet, params skin.Params, metrics entity.MetricVector, blemishes []entity.Blemish) ([]byte, error) {
	vis := src.Clone()
	defer vis.Close()

	for _, region := range params.Regions {
		pts, ok := skin.RegionPolygon(lm, region, vis.Cols(), vis.Rows())
		if !ok {
			continue
		}
		c, ok := regionColors[region.Name]
		if !ok {
			c = white
		}
		pv := gocv.NewPointsVectorFromPoints([][]image.Point{pts})
		gocv.Polylines(&vis, pv, true, c, 2)
		pv.Close()
	}

	red := color.RGBA{R: 255, A: 255}
	for _, b := range blemishes {
		rect := image.Rect(b.X, b.Y, b.X+b.Width, b.Y+b.Height)
		gocv.Rectangle(&vis, rect, red, 1)
	}

	y := 30
	for _, name := range metrics.Names() {
		v := metrics.Value(name)
		text := fmt.Sprintf("%s: %.3f", name, v)
		gocv.PutText(&vis, text, image.Pt(10, y), gocv.FontHersheySimplex, 0.5, tierColors[skin.TierOf(v)], 2)
		y += 22
	}

	img, err := vis.ToImage()
	if err != nil {
		return nil, fmt.Errorf("overlay to image: %w", err)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(90)); err != nil {
		return nil, fmt.Errorf("overlay encode: %w", err)
	}
	return buf.Bytes(), nil
}
