//go:build gocv
// +build gocv

package vision

import (
	"gocv.io/x/gocv"
)

// Frame фрагмент региона с маской анализа. Производные изображения
// считаются лениво и живут до Close.
type Frame struct {
	img  gocv.Mat
	mask gocv.Mat

	rows, cols int
	bits       []bool
	count      int

	converted map[gocv.ColorConversionCode]gocv.Mat
	pixels    map[gocv.ColorConversionCode][]uint8
	bgr       []uint8
	red       []float64
}

// NewFrame забирает владение img (BGR) и mask (0/255).
func NewFrame(img, mask gocv.Mat) *Frame {
	f := &Frame{
		img:       img,
		mask:      mask,
		rows:      img.Rows(),
		cols:      img.Cols(),
		converted: make(map[gocv.ColorConversionCode]gocv.Mat),
		pixels:    make(map[gocv.ColorConversionCode][]uint8),
	}
	f.bits = maskBits(mask)
	for _, b := range f.bits {
		if b {
			f.count++
		}
	}
	return f
}

// Close освобождает все матрицы кадра.
func (f *Frame) Close() {
	for _, m := range f.converted {
		m.Close()
	}
	f.img.Close()
	f.mask.Close()
}

// Area возвращает h·w фрагмента, знаменатель всех долевых метрик.
func (f *Frame) Area() float64 {
	return float64(f.rows * f.cols)
}

// MaskCount возвращает число пикселей под маской.
func (f *Frame) MaskCount() int {
	return f.count
}

func (f *Frame) convert(code gocv.ColorConversionCode) gocv.Mat {
	if m, ok := f.converted[code]; ok {
		return m
	}
	m := gocv.NewMat()
	gocv.CvtColor(f.img, &m, code)
	f.converted[code] = m
	return m
}

func (f *Frame) convertedPixels(code gocv.ColorConversionCode) []uint8 {
	if p, ok := f.pixels[code]; ok {
		return p
	}
	p := f.convert(code).ToBytes()
	f.pixels[code] = p
	return p
}

// Gray возвращает полутоновую версию фрагмента.
func (f *Frame) Gray() gocv.Mat { return f.convert(gocv.ColorBGRToGray) }

// Lab возвращает 8-битный Lab (a, b смещены на 128).
func (f *Frame) Lab() gocv.Mat { return f.convert(gocv.ColorBGRToLab) }

func (f *Frame) labPixels() []uint8   { return f.convertedPixels(gocv.ColorBGRToLab) }
func (f *Frame) hsvPixels() []uint8   { return f.convertedPixels(gocv.ColorBGRToHSV) }
func (f *Frame) ycrcbPixels() []uint8 { return f.convertedPixels(gocv.ColorBGRToYCrCb) }
func (f *Frame) grayPixels() []uint8  { return f.convertedPixels(gocv.ColorBGRToGray) }

func (f *Frame) bgrPixels() []uint8 {
	if f.bgr == nil {
		f.bgr = f.img.ToBytes()
	}
	return f.bgr
}

// redIndex считает R−(G+B)/2 по всем пикселям фрагмента.
func (f *Frame) redIndex() []float64 {
	if f.red != nil {
		return f.red
	}
	bgr := f.bgrPixels()
	f.red = make([]float64, f.rows*f.cols)
	for i := range f.red {
		b, g, r := float64(bgr[i*3]), float64(bgr[i*3+1]), float64(bgr[i*3+2])
		f.red[i] = r - (g+b)/2
	}
	return f.red
}
