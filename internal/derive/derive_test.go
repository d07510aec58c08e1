package derive

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"photopack/internal/job"
)

func TestTargetSize(t *testing.T) {
	tests := []struct {
		name         string
		width        int
		height       int
		targetPixels int
		wantW        int
		wantH        int
	}{
		{
			name:  "24MP to 2MP",
			width: 6000, height: 4000, targetPixels: 2_000_000,
			wantW: 1732, wantH: 1154,
		},
		{
			name:  "already within budget",
			width: 800, height: 600, targetPixels: 2_000_000,
			wantW: 800, wantH: 600,
		},
		{
			name:  "exactly at budget",
			width: 2000, height: 1000, targetPixels: 2_000_000,
			wantW: 2000, wantH: 1000,
		},
		{
			name:  "extreme aspect ratio clamps to 1px",
			width: 1_000_000, height: 1, targetPixels: 100,
			wantW: 10, wantH: 1,
		},
		{
			name:  "zero target disables resize",
			width: 6000, height: 4000, targetPixels: 0,
			wantW: 6000, wantH: 4000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := TargetSize(tt.width, tt.height, tt.targetPixels)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("TargetSize(%d, %d, %d) = %dx%d, want %dx%d",
					tt.width, tt.height, tt.targetPixels, w, h, tt.wantW, tt.wantH)
			}
			if tt.targetPixels > 0 && w*h > tt.targetPixels && (tt.wantW != tt.width) {
				t.Errorf("result %dx%d exceeds pixel budget %d", w, h, tt.targetPixels)
			}
		})
	}
}

func TestTargetSizePreservesAspect(t *testing.T) {
	w, h := TargetSize(6000, 4000, 2_000_000)
	srcAspect := 6000.0 / 4000.0
	gotAspect := float64(w) / float64(h)
	if diff := srcAspect - gotAspect; diff > 0.01 || diff < -0.01 {
		t.Errorf("aspect ratio drifted: source %.4f, result %.4f", srcAspect, gotAspect)
	}
}

func TestFitPixelsShrinkOnly(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 100, 50))

	same := FitPixels(img, 10_000)
	if same.Bounds() != img.Bounds() {
		t.Error("image within budget was resized")
	}

	small := FitPixels(img, 500)
	b := small.Bounds()
	if b.Dx()*b.Dy() > 500 {
		t.Errorf("resized to %dx%d, exceeds 500 pixel budget", b.Dx(), b.Dy())
	}
}

func flatImage(w, h int, c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func noisyImage(w, h int) image.Image {
	rng := rand.New(rand.NewSource(42))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			// Alternate black and white pixels with noise for maximum
			// luminance spread.
			v := uint8(rng.Intn(2) * 255)
			img.Set(x, y, color.RGBA{v, v, v, 255})
		}
	}
	return img
}

func TestAdaptiveQuality(t *testing.T) {
	flat := flatImage(64, 64, color.RGBA{128, 128, 128, 255})
	noisy := noisyImage(64, 64)

	if got := AdaptiveQuality(flat, 60, 30); got != 50 {
		t.Errorf("flat image quality = %d, want base-10 = 50", got)
	}
	if got := AdaptiveQuality(noisy, 60, 30); got != 65 {
		t.Errorf("noisy image quality = %d, want base+5 = 65", got)
	}

	// Clamping
	if got := AdaptiveQuality(flat, 35, 30); got != 30 {
		t.Errorf("quality below floor = %d, want clamped to 30", got)
	}
	if got := AdaptiveQuality(noisy, 93, 30); got != 95 {
		t.Errorf("quality above cap = %d, want clamped to 95", got)
	}
}

func TestEncodeFormats(t *testing.T) {
	img := flatImage(32, 32, color.RGBA{200, 100, 50, 255})

	jpegData, err := Encode(img, job.FormatJPEG, 80)
	if err != nil {
		t.Fatalf("JPEG encode failed: %v", err)
	}
	if len(jpegData) < 2 || jpegData[0] != 0xFF || jpegData[1] != 0xD8 {
		t.Error("JPEG output missing SOI marker")
	}

	webpData, err := Encode(img, job.FormatWebP, 80)
	if err != nil {
		t.Fatalf("WebP encode failed: %v", err)
	}
	if len(webpData) < 12 || string(webpData[0:4]) != "RIFF" || string(webpData[8:12]) != "WEBP" {
		t.Error("WebP output missing RIFF container header")
	}
}

func TestGenerateOptimizedKeepsResolution(t *testing.T) {
	img := noisyImage(120, 80)

	d, err := Generate(img, job.CategorySpec{
		Category: job.CategoryOptimizedJPEG,
		Format:   job.FormatJPEG,
		Quality:  90,
	})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if d.Width != 120 || d.Height != 80 {
		t.Errorf("optimized output = %dx%d, want native 120x80", d.Width, d.Height)
	}
	if d.Quality != 90 {
		t.Errorf("optimized quality = %d, want configured 90 with no adaptation", d.Quality)
	}
}

func TestGenerateCompressedResizes(t *testing.T) {
	img := noisyImage(200, 100)

	d, err := Generate(img, job.CategorySpec{
		Category:     job.CategoryCompressedJPEG,
		Format:       job.FormatJPEG,
		Quality:      60,
		MinQuality:   30,
		TargetPixels: 5000,
	})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if d.Width*d.Height > 5000 {
		t.Errorf("compressed output %dx%d exceeds 5000 pixel target", d.Width, d.Height)
	}

	// Decode the bytes to confirm the encoded dimensions match the report.
	decoded, err := jpeg.Decode(bytes.NewReader(d.Data))
	if err != nil {
		t.Fatalf("decoding generated JPEG failed: %v", err)
	}
	if decoded.Bounds().Dx() != d.Width || decoded.Bounds().Dy() != d.Height {
		t.Errorf("encoded dimensions %dx%d differ from reported %dx%d",
			decoded.Bounds().Dx(), decoded.Bounds().Dy(), d.Width, d.Height)
	}
}

func TestEncodeUnderCeiling(t *testing.T) {
	img := noisyImage(200, 200)

	// Without a ceiling: single encode at the start quality.
	d, err := encodeUnderCeiling(img, job.FormatJPEG, 80, 30, 0)
	if err != nil {
		t.Fatal(err)
	}
	if d.Quality != 80 || d.Iterations != 0 || d.CeilingMissed {
		t.Errorf("no-ceiling result = %+v, want quality 80, 0 iterations", d)
	}

	// Generous ceiling: first encode already fits.
	big, err := encodeUnderCeiling(img, job.FormatJPEG, 80, 30, 10_000_000)
	if err != nil {
		t.Fatal(err)
	}
	if big.Iterations != 0 {
		t.Errorf("generous ceiling used %d iterations, want 0", big.Iterations)
	}

	// Tight but achievable ceiling: the search must land on a quality whose
	// output fits and stay within the iteration bound.
	atMin, err := encodeUnderCeiling(img, job.FormatJPEG, 95, 5, 4000)
	if err != nil {
		t.Fatal(err)
	}
	if atMin.Iterations > maxCeilingIterations {
		t.Errorf("search used %d iterations, bound is %d", atMin.Iterations, maxCeilingIterations)
	}
	if !atMin.CeilingMissed && int64(len(atMin.Data)) > 4000 {
		t.Errorf("result claims to fit but is %d bytes", len(atMin.Data))
	}

	// Impossible ceiling: floor encode ships with the missed flag.
	missed, err := encodeUnderCeiling(img, job.FormatJPEG, 95, 90, 10)
	if err != nil {
		t.Fatal(err)
	}
	if !missed.CeilingMissed {
		t.Error("impossible ceiling did not set CeilingMissed")
	}
	if len(missed.Data) == 0 {
		t.Error("missed ceiling must still ship the floor encode")
	}
}

func TestProbe(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "probe.jpg")

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := jpeg.Encode(f, image.NewRGBA(image.Rect(0, 0, 40, 30)), nil); err != nil {
		t.Fatal(err)
	}
	f.Close()

	dims, err := Probe(path)
	if err != nil {
		t.Fatalf("Probe failed: %v", err)
	}
	if dims.Width != 40 || dims.Height != 30 {
		t.Errorf("Probe = %dx%d, want 40x30", dims.Width, dims.Height)
	}
	if dims.Pixels() != 1200 {
		t.Errorf("Pixels() = %d, want 1200", dims.Pixels())
	}
}

func TestOpenDecodesJPEG(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "img.jpg")

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := jpeg.Encode(f, image.NewRGBA(image.Rect(0, 0, 20, 10)), nil); err != nil {
		t.Fatal(err)
	}
	f.Close()

	img, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if img.Bounds().Dx() != 20 || img.Bounds().Dy() != 10 {
		t.Errorf("decoded %dx%d, want 20x10", img.Bounds().Dx(), img.Bounds().Dy())
	}
}

func TestLoadFallsBackWithoutVips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "img.jpg")

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := jpeg.Encode(f, image.NewRGBA(image.Rect(0, 0, 20, 10)), nil); err != nil {
		t.Fatal(err)
	}
	f.Close()

	// vips is not initialized in tests; Load must use the pure-Go path.
	img, err := Load(path, 100)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if img.Bounds().Dx() != 20 {
		t.Errorf("Load returned %dx%d", img.Bounds().Dx(), img.Bounds().Dy())
	}
}

func TestOpenMissingFile(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "absent.jpg")); err == nil {
		t.Error("expected error for missing file")
	}
}
