package scan

import (
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("data"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestScanSequenceOrder(t *testing.T) {
	dir := t.TempDir()

	// Written out of sorted order on purpose.
	writeFile(t, dir, "c.jpg")
	writeFile(t, dir, "A.png")
	writeFile(t, dir, "b.JPEG")
	writeFile(t, dir, "notes.txt") // ignored

	res, err := Scan(dir, false, false)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	if len(res.Entries) != 3 {
		t.Fatalf("entries = %d, want 3", len(res.Entries))
	}

	wantOrder := []string{"A.png", "b.JPEG", "c.jpg"}
	for i, e := range res.Entries {
		if e.Rel != wantOrder[i] {
			t.Errorf("entry %d = %s, want %s", i, e.Rel, wantOrder[i])
		}
		if e.Seq != i+1 {
			t.Errorf("entry %s seq = %d, want %d", e.Rel, e.Seq, i+1)
		}
	}
}

func TestScanCaseInsensitiveTiebreak(t *testing.T) {
	entries := []Entry{
		{Rel: "B.jpg"},
		{Rel: "a.jpg"},
		{Rel: "A.jpg"},
		{Rel: "c.jpg"},
	}
	sortEntries(entries)

	want := []string{"A.jpg", "a.jpg", "B.jpg", "c.jpg"}
	for i, e := range entries {
		if e.Rel != want[i] {
			t.Errorf("position %d = %s, want %s", i, e.Rel, want[i])
		}
	}
}

func TestScanRawSeparation(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.jpg")
	writeFile(t, dir, "b.cr2")
	writeFile(t, dir, "c.nef")

	res, err := Scan(dir, false, true)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	if len(res.Entries) != 1 || res.Entries[0].Seq != 1 {
		t.Errorf("standard entries = %+v, want just a.jpg with seq 1", res.Entries)
	}
	if len(res.Raw) != 2 {
		t.Fatalf("raw entries = %d, want 2", len(res.Raw))
	}
	for _, r := range res.Raw {
		if r.Seq != 0 {
			t.Errorf("raw entry %s has seq %d, want 0 (unsequenced)", r.Rel, r.Seq)
		}
		if r.Kind != KindRaw {
			t.Errorf("raw entry %s kind = %s", r.Rel, r.Kind)
		}
	}
}

func TestScanExcludesRawWhenDisabled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.jpg")
	writeFile(t, dir, "b.arw")

	res, err := Scan(dir, false, false)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(res.Raw) != 0 {
		t.Errorf("raw entries = %d, want 0 when disabled", len(res.Raw))
	}
	if len(res.Entries) != 1 {
		t.Errorf("entries = %d, want 1", len(res.Entries))
	}
}

func TestScanRecursive(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "day2")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, dir, "a.jpg")
	writeFile(t, sub, "b.jpg")

	// Non-recursive sees only the top level.
	res, err := Scan(dir, false, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Entries) != 1 {
		t.Errorf("non-recursive entries = %d, want 1", len(res.Entries))
	}

	res, err = Scan(dir, true, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Entries) != 2 {
		t.Fatalf("recursive entries = %d, want 2", len(res.Entries))
	}
	if res.Entries[0].Rel != "a.jpg" || res.Entries[1].Rel != filepath.Join("day2", "b.jpg") {
		t.Errorf("recursive order = %s, %s", res.Entries[0].Rel, res.Entries[1].Rel)
	}
}

func TestScanMissingSourceIsFatal(t *testing.T) {
	if _, err := Scan(filepath.Join(t.TempDir(), "absent"), false, false); err == nil {
		t.Error("expected error for missing source directory")
	}
}

func TestScanSourceMustBeDirectory(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "a.jpg")

	if _, err := Scan(file, false, false); err == nil {
		t.Error("expected error when source path is a file")
	}
}

func TestScanEmptyDirectory(t *testing.T) {
	res, err := Scan(t.TempDir(), false, true)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(res.Entries) != 0 || len(res.Raw) != 0 || len(res.Skipped) != 0 {
		t.Errorf("empty directory produced %+v", res)
	}
}

func TestExtensionSets(t *testing.T) {
	tests := []struct {
		ext      string
		standard bool
		raw      bool
	}{
		{".jpg", true, false},
		{".JPG", true, false},
		{".webp", true, false},
		{".heic", true, false},
		{".cr2", false, true},
		{".ARW", false, true},
		{".dng", false, true},
		{".txt", false, false},
		{"", false, false},
	}

	for _, tt := range tests {
		if got := IsStandardExtension(tt.ext); got != tt.standard {
			t.Errorf("IsStandardExtension(%q) = %v, want %v", tt.ext, got, tt.standard)
		}
		if got := IsRawExtension(tt.ext); got != tt.raw {
			t.Errorf("IsRawExtension(%q) = %v, want %v", tt.ext, got, tt.raw)
		}
	}
}

func TestDescribeWithoutExif(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plain.jpg")

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	if err := jpeg.Encode(f, img, nil); err != nil {
		t.Fatal(err)
	}
	f.Close()

	if _, ok := Describe(path); ok {
		t.Error("Describe reported EXIF details for a file without EXIF")
	}
}

func TestDescribeMissingFile(t *testing.T) {
	if _, ok := Describe(filepath.Join(t.TempDir(), "absent.jpg")); ok {
		t.Error("Describe reported details for a missing file")
	}
}
