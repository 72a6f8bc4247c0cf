//go:build gocv
// +build gocv

package vision

import (
	"fmt"
	"image"
	"image/color"
	"runtime"

	"github.com/disintegration/imaging"
	"gocv.io/x/gocv"

	"skin-vision/internal/domain/entity"
	"skin-vision/internal/skin"
)

var white = color.RGBA{R: 255, G: 255, B: 255, A: 255}

// Crop плотный прямоугольник региона: фрагмент изображения и маски.
type Crop struct {
	Image  gocv.Mat
	Mask   gocv.Mat
	Bounds image.Rectangle // положение фрагмента на исходном кадре
}

// Close освобождает матрицы фрагмента.
func (c *Crop) Close() {
	c.Image.Close()
	c.Mask.Close()
}

// matFromImage переводит image.Image в BGR-матрицу CV_8UC3.
func matFromImage(img image.Image) (gocv.Mat, error) {
	src := imaging.Clone(img)
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	if w == 0 || h == 0 {
		return gocv.NewMat(), entity.ErrInvalidImage
	}

	buf := make([]byte, w*h*3)
	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+w*4]
		for x := 0; x < w; x++ {
			o := (y*w + x) * 3
			buf[o] = row[x*4+2]
			buf[o+1] = row[x*4+1]
			buf[o+2] = row[x*4]
		}
	}
	return matFromBytes(h, w, gocv.MatTypeCV8UC3, buf)
}

// matFromBytes копирует буфер в собственную память OpenCV.
func matFromBytes(rows, cols int, mt gocv.MatType, buf []byte) (gocv.Mat, error) {
	view, err := gocv.NewMatFromBytes(rows, cols, mt, buf)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("mat from bytes: %w", err)
	}
	out := view.Clone()
	view.Close()
	runtime.KeepAlive(buf)
	return out, nil
}

// maskFromBits строит маску 0/255 из булевого среза.
func maskFromBits(rows, cols int, bits []bool) gocv.Mat {
	buf := make([]byte, rows*cols)
	for i, b := range bits {
		if b {
			buf[i] = 255
		}
	}
	m, err := matFromBytes(rows, cols, gocv.MatTypeCV8UC1, buf)
	if err != nil {
		return zeroMask(rows, cols)
	}
	return m
}

// floatMat строит матрицу CV_32F из значений.
func floatMat(rows, cols int, values []float64) gocv.Mat {
	m := gocv.NewMatWithSize(rows, cols, gocv.MatTypeCV32F)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			m.SetFloatAt(y, x, float32(values[y*cols+x]))
		}
	}
	return m
}

func zeroMask(rows, cols int) gocv.Mat {
	return gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), rows, cols, gocv.MatTypeCV8UC1)
}

func fullMask(rows, cols int) gocv.Mat {
	return gocv.NewMatWithSizeFromScalar(gocv.NewScalar(255, 0, 0, 0), rows, cols, gocv.MatTypeCV8UC1)
}

// PolygonMask заливает многоугольник на пустой маске rows×cols.
// Менее трёх вершин дают пустую маску.
func PolygonMask(rows, cols int, pts []image.Point) gocv.Mat {
	mask := zeroMask(rows, cols)
	if len(pts) < 3 {
		return mask
	}
	pv := gocv.NewPointsVectorFromPoints([][]image.Point{pts})
	defer pv.Close()
	gocv.FillPoly(&mask, pv, white)
	return mask
}

// MeanChannel возвращает средние по каналам внутри маски.
// Пустая маска даёт нулевой вектор.
func MeanChannel(img, mask gocv.Mat) []float64 {
	out := make([]float64, img.Channels())
	if gocv.CountNonZero(mask) == 0 {
		return out
	}
	s := img.MeanWithMask(mask)
	vals := [4]float64{s.Val1, s.Val2, s.Val3, s.Val4}
	copy(out, vals[:])
	return out
}

// CropWithMask вырезает описанный прямоугольник маски из изображения и маски.
// Пустая маска даёт ok=false.
func CropWithMask(img, mask gocv.Mat) (Crop, bool) {
	rect, ok := maskBounds(mask)
	if !ok {
		return Crop{}, false
	}

	imgView := img.Region(rect)
	defer imgView.Close()
	maskView := mask.Region(rect)
	defer maskView.Close()

	return Crop{Image: imgView.Clone(), Mask: maskView.Clone(), Bounds: rect}, true
}

func maskBounds(mask gocv.Mat) (image.Rectangle, bool) {
	rows, cols := mask.Rows(), mask.Cols()
	data := mask.ToBytes()
	minX, minY, maxX, maxY := cols, rows, -1, -1
	for y := 0; y < rows; y++ {
		row := data[y*cols : (y+1)*cols]
		for x, v := range row {
			if v == 0 {
				continue
			}
			minX = min(minX, x)
			maxX = max(maxX, x)
			minY = min(minY, y)
			maxY = max(maxY, y)
		}
	}
	if maxX < 0 {
		return image.Rectangle{}, false
	}
	return image.Rect(minX, minY, maxX+1, maxY+1), true
}

// maskBits переводит маску в булев срез.
func maskBits(mask gocv.Mat) []bool {
	data := mask.ToBytes()
	out := make([]bool, len(data))
	for i, v := range data {
		out[i] = v != 0
	}
	return out
}

// floatPixels читает одноканальную матрицу CV_32F.
func floatPixels(m gocv.Mat) []float64 {
	data, err := m.DataPtrFloat32()
	if err != nil {
		return make([]float64, m.Rows()*m.Cols())
	}
	out := make([]float64, len(data))
	for i, v := range data {
		out[i] = float64(v)
	}
	return out
}

// doublePixels читает одноканальную матрицу CV_64F.
func doublePixels(m gocv.Mat) []float64 {
	data, err := m.DataPtrFloat64()
	if err != nil {
		return make([]float64, m.Rows()*m.Cols())
	}
	return append([]float64(nil), data...)
}

func grayOf(m gocv.Mat) skin.Gray {
	return skin.NewGray(m.Cols(), m.Rows(), m.ToBytes())
}

// removeSmallObjects убирает 8-связные компоненты площадью меньше minSize.
func removeSmallObjects(mask gocv.Mat, minSize int) gocv.Mat {
	labels := gocv.NewMat()
	defer labels.Close()
	n := gocv.ConnectedComponents(mask, &labels)

	ids, err := labels.DataPtrInt32()
	if err != nil || n <= 1 {
		return mask.Clone()
	}

	areas := make([]int, n)
	for _, id := range ids {
		areas[id]++
	}
	bits := make([]bool, len(ids))
	for i, id := range ids {
		bits[i] = id != 0 && areas[id] >= minSize
	}
	return maskFromBits(mask.Rows(), mask.Cols(), bits)
}

// closeDisk выполняет морфологическое закрытие эллиптическим ядром радиуса r.
func closeDisk(mask gocv.Mat, r int) gocv.Mat {
	kernel := gocv.GetStructuringElement(gocv.MorphEllipse, image.Pt(2*r+1, 2*r+1))
	defer kernel.Close()
	out := gocv.NewMat()
	gocv.MorphologyEx(mask, &out, gocv.MorphClose, kernel)
	return out
}

func clahe(gray gocv.Mat, clip float64, tiles int) gocv.Mat {
	c := gocv.NewCLAHEWithParams(clip, image.Pt(tiles, tiles))
	defer c.Close()
	out := gocv.NewMat()
	c.Apply(gray, &out)
	return out
}

// localVariance считает E[x²]−E[x]² в квадратном окне size×size.
func localVariance(gray gocv.Mat, size int) []float64 {
	src := gocv.NewMat()
	defer src.Close()
	gray.ConvertTo(&src, gocv.MatTypeCV32F)

	sq := gocv.NewMat()
	defer sq.Close()
	gocv.Multiply(src, src, &sq)

	mean := gocv.NewMat()
	defer mean.Close()
	gocv.Blur(src, &mean, image.Pt(size, size))

	sqMean := gocv.NewMat()
	defer sqMean.Close()
	gocv.Blur(sq, &sqMean, image.Pt(size, size))

	m := floatPixels(mean)
	s := floatPixels(sqMean)
	out := make([]float64, len(m))
	for i := range m {
		out[i] = max(0, s[i]-m[i]*m[i])
	}
	return out
}
