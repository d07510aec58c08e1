package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/klauspost/compress/flate"

	"photopack/internal/fsio"
	"photopack/internal/logging"
	"photopack/internal/metrics"
)

// deflateLevel trades a little CPU for a solid size win on already-compressed
// JPEG/WebP payloads' metadata and on text members.
const deflateLevel = 6

// ErrNothingToArchive is returned when the folder holds no files.
var ErrNothingToArchive = errors.New("nothing to archive")

// Create bundles every file under dir into a zip at zipPath, member paths
// relative to dir, in sorted order. Returns the compressed size. A failure
// removes the partial zip before returning.
func Create(g *fsio.Guard, dir, zipPath string) (int64, error) {
	start := time.Now()

	files, err := collectFiles(dir)
	if err != nil {
		return 0, err
	}
	if len(files) == 0 {
		metrics.ArchivesTotal.WithLabelValues("skipped_empty").Inc()
		return 0, ErrNothingToArchive
	}

	out, err := g.Create(zipPath)
	if err != nil {
		metrics.ArchivesTotal.WithLabelValues("failed").Inc()
		return 0, fmt.Errorf("create archive %s: %w", zipPath, err)
	}

	written, err := writeZip(out, dir, files)
	closeErr := out.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		if rmErr := os.Remove(zipPath); rmErr != nil {
			logging.Warn("Could not remove partial archive %s: %v", zipPath, rmErr)
		}
		metrics.ArchivesTotal.WithLabelValues("failed").Inc()
		return 0, fmt.Errorf("write archive %s: %w", zipPath, err)
	}

	metrics.ArchivesTotal.WithLabelValues("success").Inc()
	metrics.ArchiveDuration.Observe(time.Since(start).Seconds())
	metrics.ArchiveBytesWritten.Add(float64(written))
	logging.Info("Archived %d files from %s into %s (%d bytes)", len(files), dir, zipPath, written)

	return written, nil
}

func collectFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if !d.IsDir() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}
	sort.Strings(files)
	return files, nil
}

// countingWriter tracks bytes written through it, so the archive size comes
// from the write path itself instead of a follow-up Seek on the file.
type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

func writeZip(out io.Writer, dir string, files []string) (int64, error) {
	cw := &countingWriter{w: out}
	zw := zip.NewWriter(cw)
	zw.RegisterCompressor(zip.Deflate, func(w io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(w, deflateLevel)
	})

	for _, file := range files {
		rel, err := filepath.Rel(dir, file)
		if err != nil {
			return 0, err
		}

		info, err := os.Stat(file)
		if err != nil {
			return 0, err
		}
		hdr, err := zip.FileInfoHeader(info)
		if err != nil {
			return 0, err
		}
		hdr.Name = filepath.ToSlash(rel)
		hdr.Method = zip.Deflate

		w, err := zw.CreateHeader(hdr)
		if err != nil {
			return 0, err
		}

		src, err := os.Open(file)
		if err != nil {
			return 0, err
		}
		_, err = io.Copy(w, src)
		src.Close()
		if err != nil {
			return 0, err
		}
	}

	if err := zw.Close(); err != nil {
		return 0, err
	}
	return cw.n, nil
}
