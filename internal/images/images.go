package images

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"math"
	"net/http"
	"os"
	"strings"

	"github.com/nfnt/resize"

	"github.com/davidhbaek/aidebate/internal/wire"
)

const MaxSize = 5 * 1024 * 1024 // 5 MB

// Load reads an image from an https URL or a local path and shrinks it to
// fit MaxSize.
func Load(ctx context.Context, path string) (wire.Image, error) {
	var (
		data []byte
		err  error
	)

	if strings.HasPrefix(path, "https://") {
		data, err = download(ctx, path)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return wire.Image{}, fmt.Errorf("loading image at path=%s: %w", path, err)
	}

	data, err = Fit(data, MaxSize)
	if err != nil {
		return wire.Image{}, fmt.Errorf("resizing image at path=%s: %w", path, err)
	}

	return wire.Image{
		MediaType: http.DetectContentType(data),
		Data:      data,
	}, nil
}

func download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	rsp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer rsp.Body.Close()

	if rsp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", rsp.StatusCode)
	}

	return io.ReadAll(rsp.Body)
}

// Fit returns data unchanged when it is within limit bytes. Larger images are
// downscaled with Lanczos3 and re-encoded in their original format until they
// fit.
func Fit(data []byte, limit int) ([]byte, error) {
	if len(data) <= limit {
		return data, nil
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	// Encoded size scales roughly with pixel count, so shrink each side by
	// the square root of the ratio and keep going if that wasn't enough.
	scale := math.Sqrt(float64(limit) / float64(len(data)))
	for {
		width := uint(float64(img.Bounds().Dx()) * scale)
		height := uint(float64(img.Bounds().Dy()) * scale)
		if width == 0 || height == 0 {
			return nil, fmt.Errorf("cannot fit %s image in %d bytes", format, limit)
		}

		out, err := encode(resize.Resize(width, height, img, resize.Lanczos3), format)
		if err != nil {
			return nil, err
		}

		if len(out) <= limit {
			return out, nil
		}

		scale *= 0.8
	}
}

func encode(img image.Image, format string) ([]byte, error) {
	buffer := bytes.Buffer{}

	var err error
	switch format {
	case "jpeg":
		err = jpeg.Encode(&buffer, img, &jpeg.Options{Quality: jpeg.DefaultQuality})
	case "png":
		encoder := png.Encoder{CompressionLevel: png.BestCompression}
		err = encoder.Encode(&buffer, img)
	case "gif":
		err = gif.Encode(&buffer, img, nil)
	default:
		return nil, fmt.Errorf("unsupported image format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", format, err)
	}

	return buffer.Bytes(), nil
}
