package derive

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// TargetSize returns the dimensions that bring width×height down to at most
// targetPixels total pixels while preserving aspect ratio. The scale factor
// sqrt(target/current) applies to both axes and truncates, so the result
// never exceeds the budget. Images already within budget are unchanged.
func TargetSize(width, height, targetPixels int) (int, int) {
	if targetPixels <= 0 || width <= 0 || height <= 0 {
		return width, height
	}
	current := width * height
	if current <= targetPixels {
		return width, height
	}

	scale := math.Sqrt(float64(targetPixels) / float64(current))
	w := int(float64(width) * scale)
	h := int(float64(height) * scale)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

// FitPixels resizes img down to at most targetPixels total pixels using
// Lanczos resampling. Shrink-only: images within budget return unchanged.
func FitPixels(img image.Image, targetPixels int) image.Image {
	b := img.Bounds()
	w, h := TargetSize(b.Dx(), b.Dy(), targetPixels)
	if w == b.Dx() && h == b.Dy() {
		return img
	}
	return imaging.Resize(img, w, h, imaging.Lanczos)
}
