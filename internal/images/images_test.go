package images_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davidhbaek/aidebate/internal/images"
)

// noisyPNG doesn't compress well, so its size tracks its pixel count.
func noisyPNG(t *testing.T, side int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, side, side))
	seed := uint32(7)
	for y := 0; y < side; y++ {
		for x := 0; x < side; x++ {
			seed = seed*1664525 + 1013904223
			img.Set(x, y, color.RGBA{R: uint8(seed >> 24), G: uint8(seed >> 16), B: uint8(seed >> 8), A: 255})
		}
	}

	buffer := bytes.Buffer{}
	require.NoError(t, png.Encode(&buffer, img))
	return buffer.Bytes()
}

func TestFit(t *testing.T) {
	data := noisyPNG(t, 200)

	t.Run("Small images pass through", func(t *testing.T) {
		out, err := images.Fit(data, len(data))
		require.NoError(t, err)
		require.Equal(t, data, out)
	})

	t.Run("Large images are downscaled", func(t *testing.T) {
		limit := len(data) / 4

		out, err := images.Fit(data, limit)
		require.NoError(t, err)
		require.LessOrEqual(t, len(out), limit)

		img, format, err := image.Decode(bytes.NewReader(out))
		require.NoError(t, err)
		require.Equal(t, "png", format)
		require.Less(t, img.Bounds().Dx(), 200)
	})

	t.Run("Not an image", func(t *testing.T) {
		_, err := images.Fit([]byte("definitely not an image"), 4)
		require.Error(t, err)
	})
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rig.png")
	require.NoError(t, os.WriteFile(path, noisyPNG(t, 16), 0o600))

	img, err := images.Load(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, "image/png", img.MediaType)
	require.NotEmpty(t, img.Data)

	_, err = images.Load(context.Background(), filepath.Join(t.TempDir(), "missing.png"))
	require.Error(t, err)
}
