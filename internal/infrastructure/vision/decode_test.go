package vision

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"

	"skin-vision/internal/domain/entity"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 90, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDecodeImage_FitsIntoMaxSide(t *testing.T) {
	img, err := DecodeImage(encodePNG(t, 400, 200), 100)
	require.NoError(t, err)
	require.Equal(t, 100, img.Bounds().Dx())
	require.Equal(t, 50, img.Bounds().Dy())
}

func TestDecodeImage_KeepsSmallImages(t *testing.T) {
	img, err := DecodeImage(encodePNG(t, 40, 30), 100)
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 40, 30), img.Bounds())
}

func TestDecodeImage_Invalid(t *testing.T) {
	_, err := DecodeImage([]byte("not an image"), 100)
	require.ErrorIs(t, err, entity.ErrInvalidImage)

	_, err = DecodeImage(nil, 100)
	require.ErrorIs(t, err, entity.ErrInvalidImage)
}
