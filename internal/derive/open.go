package derive

import (
	"fmt"
	"image"
	"os"
	"time"

	"photopack/internal/logging"
	"photopack/internal/metrics"

	// Image format decoders
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"  // BMP format support
	_ "golang.org/x/image/tiff" // TIFF format support
	_ "golang.org/x/image/webp" // WebP format support
)

// vipsShrinkThreshold is the pixel count above which a source is worth
// routing through the libvips decode-time shrink when only pixel-bounded
// output is needed. Below it the pure-Go decode is cheap enough.
const vipsShrinkThreshold = 20_000_000

// Dimensions holds image width and height.
type Dimensions struct {
	Width  int
	Height int
}

// Pixels returns the total pixel count.
func (d Dimensions) Pixels() int {
	return d.Width * d.Height
}

// Probe returns image dimensions without fully decoding the image.
func Probe(path string) (Dimensions, error) {
	file, err := os.Open(path)
	if err != nil {
		return Dimensions{}, err
	}
	defer file.Close()

	config, _, err := image.DecodeConfig(file)
	if err != nil {
		return Dimensions{}, fmt.Errorf("decode image header: %w", err)
	}
	return Dimensions{Width: config.Width, Height: config.Height}, nil
}

// Open fully decodes the image at path with orientation normalization.
func Open(path string) (image.Image, error) {
	start := time.Now()
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	metrics.DecodeDuration.WithLabelValues("imaging").Observe(time.Since(start).Seconds())
	return img, nil
}

// Load decodes the image at path. When maxPixels is non-zero no consumer
// needs more than that many pixels, which lets very large sources take the
// libvips decode-time shrink instead of a full decode. maxPixels == 0 forces
// a full decode. Both paths return orientation-normalized pixels.
func Load(path string, maxPixels int) (image.Image, error) {
	if maxPixels > 0 && IsVipsAvailable() {
		dims, err := Probe(path)
		if err == nil && dims.Pixels() > vipsShrinkThreshold && dims.Pixels() > maxPixels {
			w, h := TargetSize(dims.Width, dims.Height, maxPixels)
			img, vipsErr := loadWithVips(path, w, h)
			if vipsErr == nil {
				return img, nil
			}
			logging.Debug("vips load failed for %s, falling back to full decode: %v", path, vipsErr)
		}
	}
	return Open(path)
}
