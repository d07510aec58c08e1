package derive

import (
	"bytes"
	"fmt"
	"image"
	"time"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"

	"photopack/internal/job"
	"photopack/internal/metrics"
)

// maxCeilingIterations bounds the binary search over quality when a byte
// ceiling is configured.
const maxCeilingIterations = 6

// Derivative is one encoded output image.
type Derivative struct {
	Data    []byte
	Width   int
	Height  int
	Quality int
	// Iterations is how many extra encodes the byte-ceiling search used.
	Iterations int
	// CeilingMissed is set when even the minimum quality could not meet the
	// configured byte ceiling; Data then holds the minimum-quality encode.
	CeilingMissed bool
}

// Encode encodes img at the given quality in the category's format.
func Encode(img image.Image, format job.Format, quality int) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case job.FormatWebP:
		if err := webp.Encode(&buf, img, &webp.Options{Lossless: false, Quality: float32(quality)}); err != nil {
			return nil, fmt.Errorf("encode webp: %w", err)
		}
	default:
		if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
			return nil, fmt.Errorf("encode jpeg: %w", err)
		}
	}
	return buf.Bytes(), nil
}

// Generate produces the derivative for one category from an already decoded,
// orientation-normalized source image.
func Generate(img image.Image, cs job.CategorySpec) (*Derivative, error) {
	start := time.Now()

	work := img
	if cs.Category.Compressed() && cs.TargetPixels > 0 {
		work = FitPixels(img, cs.TargetPixels)
	}

	quality := cs.Quality
	if cs.Category.Compressed() {
		quality = AdaptiveQuality(work, cs.Quality, cs.MinQuality)
	}

	d, err := encodeUnderCeiling(work, cs.Format, quality, cs.MinQuality, cs.MaxFileBytes)
	if err != nil {
		metrics.DerivativesTotal.WithLabelValues(cs.Category.String(), "failed").Inc()
		return nil, err
	}

	b := work.Bounds()
	d.Width = b.Dx()
	d.Height = b.Dy()

	metrics.DerivativesTotal.WithLabelValues(cs.Category.String(), "success").Inc()
	metrics.DeriveDuration.WithLabelValues(cs.Category.String()).Observe(time.Since(start).Seconds())
	return d, nil
}

// encodeUnderCeiling encodes at startQuality, then, only when a byte
// ceiling is set and busted, binary-searches quality down to minQuality,
// keeping the highest quality whose output fits. At most
// maxCeilingIterations extra encodes.
func encodeUnderCeiling(img image.Image, format job.Format, startQuality, minQuality int, maxBytes int64) (*Derivative, error) {
	data, err := Encode(img, format, startQuality)
	if err != nil {
		return nil, err
	}
	if maxBytes <= 0 || int64(len(data)) <= maxBytes {
		return &Derivative{Data: data, Quality: startQuality}, nil
	}

	best := []byte(nil)
	bestQuality := 0
	lo, hi := minQuality, startQuality-1
	iterations := 0

	for lo <= hi && iterations < maxCeilingIterations {
		mid := (lo + hi) / 2
		iterations++

		candidate, err := Encode(img, format, mid)
		if err != nil {
			return nil, err
		}
		if int64(len(candidate)) <= maxBytes {
			best = candidate
			bestQuality = mid
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}

	metrics.QualitySearchIterations.Observe(float64(iterations))

	if best != nil {
		return &Derivative{Data: best, Quality: bestQuality, Iterations: iterations}, nil
	}

	// Even the floor can't fit the ceiling. Ship the floor and let the
	// caller surface a warning; a slightly heavy file beats a hole in the
	// delivery.
	floor, err := Encode(img, format, minQuality)
	if err != nil {
		return nil, err
	}
	return &Derivative{Data: floor, Quality: minQuality, Iterations: iterations, CeilingMissed: true}, nil
}
