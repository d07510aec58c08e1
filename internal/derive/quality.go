package derive

import (
	"image"
	"math"
)

// Luminance variance thresholds for the adaptive quality offset. Smooth
// images (skies, studio backdrops) compress well and can afford a lower
// quality; busy images (foliage, confetti) show artifacts first and get a
// bump.
const (
	lowVarianceStdDev  = 30.0
	highVarianceStdDev = 60.0

	lowVarianceOffset  = -10
	highVarianceOffset = +5

	maxAdaptiveQuality = 95

	// qualitySampleBudget bounds how many pixels the stddev pass reads.
	qualitySampleBudget = 10_000
)

// AdaptiveQuality returns the encode quality for img starting from base,
// adjusted by luminance spread and clamped to [minQuality, 95].
func AdaptiveQuality(img image.Image, base, minQuality int) int {
	q := base + varianceOffset(img)
	if q < minQuality {
		q = minQuality
	}
	if q > maxAdaptiveQuality {
		q = maxAdaptiveQuality
	}
	return q
}

func varianceOffset(img image.Image) int {
	stddev := luminanceStdDev(img)
	switch {
	case stddev < lowVarianceStdDev:
		return lowVarianceOffset
	case stddev > highVarianceStdDev:
		return highVarianceOffset
	default:
		return 0
	}
}

// luminanceStdDev computes the standard deviation of the Rec. 601 luma over
// a strided sample of the image.
func luminanceStdDev(img image.Image) float64 {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return 0
	}

	step := int(math.Sqrt(float64(w*h) / qualitySampleBudget))
	if step < 1 {
		step = 1
	}

	var sum, sumSq float64
	var n int
	for y := b.Min.Y; y < b.Max.Y; y += step {
		for x := b.Min.X; x < b.Max.X; x += step {
			r, g, bl, _ := img.At(x, y).RGBA()
			// 16-bit channels scaled to 8-bit luma.
			luma := (0.299*float64(r) + 0.587*float64(g) + 0.114*float64(bl)) / 257.0
			sum += luma
			sumSq += luma * luma
			n++
		}
	}
	if n == 0 {
		return 0
	}

	mean := sum / float64(n)
	variance := sumSq/float64(n) - mean*mean
	if variance < 0 {
		variance = 0
	}
	return math.Sqrt(variance)
}
