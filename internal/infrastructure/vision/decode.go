package vision

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"skin-vision/internal/domain/entity"
)

// DecodeImage декодирует снимок с учётом EXIF-ориентации и вписывает его
// в квадрат maxSide. maxSide <= 0 отключает уменьшение.
func DecodeImage(data []byte, maxSide int) (image.Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty payload", entity.ErrInvalidImage)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrInvalidImage, err)
	}

	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("%w: zero size", entity.ErrInvalidImage)
	}

	if maxSide > 0 && (b.Dx() > maxSide || b.Dy() > maxSide) {
		return imaging.Fit(img, maxSide, maxSide, imaging.Lanczos), nil
	}
	return img, nil
}
