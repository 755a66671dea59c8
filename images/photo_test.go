package images

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 100, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestInspect(t *testing.T) {
	data := encodePNG(t, 40, 30)

	format, w, h, err := Inspect(data)
	require.NoError(t, err)
	require.Equal(t, "png", format)
	require.Equal(t, 40, w)
	require.Equal(t, 30, h)
}

func TestInspectRejectsGarbage(t *testing.T) {
	_, _, _, err := Inspect([]byte("not an image"))
	require.Error(t, err)
}

func TestDownscaleKeepsSmallImages(t *testing.T) {
	data := encodePNG(t, 50, 50)

	out, err := Downscale(data, 100)
	require.NoError(t, err)
	require.Equal(t, data, out)
}

func TestDownscaleShrinksOversizedImages(t *testing.T) {
	data := encodePNG(t, 400, 200)

	out, err := Downscale(data, 100)
	require.NoError(t, err)

	_, w, h, err := Inspect(out)
	require.NoError(t, err)
	require.Equal(t, 100, w)
	require.Equal(t, 50, h)
}
