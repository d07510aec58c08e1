package archive

import (
	"archive/zip"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"photopack/internal/fsio"
)

func populate(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestCreateArchive(t *testing.T) {
	g := fsio.NewGuard(false)
	dir := t.TempDir()
	src := filepath.Join(dir, "Optimized Files")
	if err := os.MkdirAll(src, 0o755); err != nil {
		t.Fatal(err)
	}
	populate(t, src, map[string]string{
		"Optimized JPGs/001-Shoot.jpg":  "jpeg one",
		"Optimized JPGs/002-Shoot.jpg":  "jpeg two",
		"Optimized WebPs/001-Shoot.webp": "webp one",
	})

	zipPath := filepath.Join(dir, "Optimized Files.zip")
	n, err := Create(g, src, zipPath)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if n <= 0 {
		t.Errorf("compressed size = %d", n)
	}

	r, err := zip.OpenReader(zipPath)
	if err != nil {
		t.Fatalf("opening archive failed: %v", err)
	}
	defer r.Close()

	want := map[string]string{
		"Optimized JPGs/001-Shoot.jpg":   "jpeg one",
		"Optimized JPGs/002-Shoot.jpg":   "jpeg two",
		"Optimized WebPs/001-Shoot.webp": "webp one",
	}
	if len(r.File) != len(want) {
		t.Fatalf("archive holds %d members, want %d", len(r.File), len(want))
	}
	for _, f := range r.File {
		content, ok := want[f.Name]
		if !ok {
			t.Errorf("unexpected member %s", f.Name)
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatal(err)
		}
		got, err := io.ReadAll(rc)
		rc.Close()
		if err != nil || string(got) != content {
			t.Errorf("member %s content = %q, err = %v", f.Name, got, err)
		}
	}
}

func TestCreateReportsOnDiskSize(t *testing.T) {
	g := fsio.NewGuard(false)
	dir := t.TempDir()
	src := filepath.Join(dir, "Export Originals")
	populate(t, src, map[string]string{
		"001-Shoot.jpg": "first payload",
		"002-Shoot.jpg": "second payload with a bit more content",
	})

	zipPath := filepath.Join(dir, "Export Originals.zip")
	n, err := Create(g, src, zipPath)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	info, err := os.Stat(zipPath)
	if err != nil {
		t.Fatal(err)
	}
	if n != info.Size() {
		t.Errorf("reported size %d, archive is %d bytes on disk", n, info.Size())
	}
}

func TestCountingWriterPropagatesErrors(t *testing.T) {
	cw := &countingWriter{w: failingWriter{}}
	if _, err := cw.Write([]byte("data")); err == nil {
		t.Fatal("write error swallowed")
	}
	if cw.n != 0 {
		t.Errorf("counted %d bytes from a failed write", cw.n)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestCreateSkipsEmptyFolder(t *testing.T) {
	g := fsio.NewGuard(false)
	dir := t.TempDir()
	src := filepath.Join(dir, "Compressed Files")
	if err := os.MkdirAll(src, 0o755); err != nil {
		t.Fatal(err)
	}

	zipPath := filepath.Join(dir, "Compressed Files.zip")
	_, err := Create(g, src, zipPath)
	if !errors.Is(err, ErrNothingToArchive) {
		t.Fatalf("err = %v, want ErrNothingToArchive", err)
	}
	if _, statErr := os.Stat(zipPath); !os.IsNotExist(statErr) {
		t.Error("empty folder produced an archive")
	}
}

func TestCreateMissingFolder(t *testing.T) {
	g := fsio.NewGuard(false)
	dir := t.TempDir()

	// A category that was never populated has no folder; that is the same
	// as an empty folder to the archiver.
	_, err := Create(g, filepath.Join(dir, "absent"), filepath.Join(dir, "absent.zip"))
	if !errors.Is(err, ErrNothingToArchive) {
		t.Errorf("err = %v, want ErrNothingToArchive", err)
	}
}

func TestCreateDryRunRefused(t *testing.T) {
	// The runner never archives in dry-run mode; if called anyway, the guard
	// refuses the file creation and no zip appears.
	g := fsio.NewGuard(true)
	dir := t.TempDir()
	src := filepath.Join(dir, "Export Originals")
	populate(t, src, map[string]string{"001-Shoot.jpg": "bytes"})

	zipPath := filepath.Join(dir, "Export Originals.zip")
	if _, err := Create(g, src, zipPath); err == nil {
		t.Fatal("dry-run Create must not succeed")
	}
	if _, err := os.Stat(zipPath); !os.IsNotExist(err) {
		t.Error("dry-run produced an archive file")
	}
}
