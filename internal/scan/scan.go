package scan

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"photopack/internal/logging"
	"photopack/internal/metrics"
)

// Kind classifies a discovered source file.
type Kind int

const (
	// KindStandard is a processable image (JPEG, PNG, WebP, ...).
	KindStandard Kind = iota
	// KindRaw is a camera RAW file, delivered as-is.
	KindRaw
)

// String returns a stable name for logs and metrics.
func (k Kind) String() string {
	if k == KindRaw {
		return "raw"
	}
	return "standard"
}

// Entry is one discovered source file. Immutable after the scan.
type Entry struct {
	// Seq is the 1-based, gap-free sequence number. Zero for RAW and
	// skipped entries, which sit outside the naming sequence.
	Seq  int
	Path string // absolute
	Rel  string // relative to the source root
	Kind Kind
	Size int64

	// Skipped entries were discovered but cannot be processed.
	Skipped bool
	Reason  string
}

// Result holds everything one scan discovered.
type Result struct {
	Entries []Entry // sequenced standard images, in order
	Raw     []Entry // RAW files, sorted but unsequenced
	Skipped []Entry // unreadable or otherwise unprocessable paths
}

// standardExtensions are the image formats eligible for derivative
// generation. Formats the decoder cannot handle still scan and sequence;
// they fail per-category later instead of disappearing from the delivery.
var standardExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".jpe": true, ".jif": true, ".jfif": true,
	".png": true, ".gif": true, ".webp": true, ".avif": true,
	".bmp": true, ".dib": true, ".tiff": true, ".tif": true,
	".heif": true, ".heic": true, ".jp2": true, ".j2k": true,
	".psd": true, ".svg": true, ".ico": true, ".tga": true, ".pcx": true,
}

// rawExtensions are camera RAW formats, delivered without processing.
var rawExtensions = map[string]bool{
	".raw": true, ".arw": true, ".srf": true, ".sr2": true,
	".crw": true, ".cr2": true, ".cr3": true,
	".nef": true, ".nrw": true, ".orf": true, ".rw2": true,
	".raf": true, ".dng": true, ".mos": true, ".kdc": true,
	".dcr": true, ".x3f": true, ".pef": true, ".3fr": true,
	".mef": true, ".erf": true, ".fff": true, ".iiq": true,
	".rwl": true, ".ari": true, ".gpr": true, ".k25": true,
	".mdc": true, ".mrw": true, ".ptx": true, ".pxn": true,
	".r3d": true, ".rwz": true, ".srw": true, ".bay": true,
}

// IsStandardExtension reports whether ext (with dot, any case) is a
// processable image extension.
func IsStandardExtension(ext string) bool {
	return standardExtensions[strings.ToLower(ext)]
}

// IsRawExtension reports whether ext (with dot, any case) is a camera RAW
// extension.
func IsRawExtension(ext string) bool {
	return rawExtensions[strings.ToLower(ext)]
}

// Scan enumerates sourceDir and returns the deterministic, sequenced result.
// includeRaw controls whether RAW files are collected; when false they are
// ignored entirely rather than skipped.
func Scan(sourceDir string, recursive, includeRaw bool) (*Result, error) {
	start := time.Now()

	info, err := os.Stat(sourceDir)
	if err != nil {
		return nil, fmt.Errorf("source directory %s: %w", sourceDir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("source path %s is not a directory", sourceDir)
	}

	var found []Entry

	record := func(path string, d fs.DirEntry) {
		ext := strings.ToLower(filepath.Ext(path))
		var kind Kind
		switch {
		case standardExtensions[ext]:
			kind = KindStandard
		case rawExtensions[ext]:
			if !includeRaw {
				return
			}
			kind = KindRaw
		default:
			return
		}

		rel, relErr := filepath.Rel(sourceDir, path)
		if relErr != nil {
			rel = filepath.Base(path)
		}

		e := Entry{Path: path, Rel: rel, Kind: kind}

		fi, statErr := d.Info()
		if statErr != nil {
			e.Skipped = true
			e.Reason = fmt.Sprintf("stat failed: %v", statErr)
			logging.Warn("Skipping unreadable entry %s: %v", path, statErr)
		} else {
			e.Size = fi.Size()
			if f, openErr := os.Open(path); openErr != nil {
				e.Skipped = true
				e.Reason = fmt.Sprintf("open failed: %v", openErr)
				logging.Warn("Skipping unreadable entry %s: %v", path, openErr)
			} else {
				f.Close()
			}
		}

		found = append(found, e)
	}

	if recursive {
		err = filepath.WalkDir(sourceDir, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				// Unreadable subtree: record the path and keep walking.
				if path != sourceDir {
					found = append(found, Entry{
						Path:    path,
						Rel:     relOrBase(sourceDir, path),
						Skipped: true,
						Reason:  fmt.Sprintf("walk failed: %v", walkErr),
					})
					logging.Warn("Skipping unreadable path %s: %v", path, walkErr)
					return nil
				}
				return walkErr
			}
			if d.IsDir() {
				return nil
			}
			record(path, d)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk source directory: %w", err)
		}
	} else {
		dirEntries, readErr := os.ReadDir(sourceDir)
		if readErr != nil {
			return nil, fmt.Errorf("read source directory: %w", readErr)
		}
		for _, d := range dirEntries {
			if d.IsDir() {
				continue
			}
			record(filepath.Join(sourceDir, d.Name()), d)
		}
	}

	sortEntries(found)

	res := &Result{}
	seq := 0
	for _, e := range found {
		switch {
		case e.Skipped:
			res.Skipped = append(res.Skipped, e)
		case e.Kind == KindRaw:
			res.Raw = append(res.Raw, e)
		default:
			seq++
			e.Seq = seq
			res.Entries = append(res.Entries, e)
		}
	}

	metrics.ScanDuration.Observe(time.Since(start).Seconds())
	metrics.ScanEntriesTotal.WithLabelValues("standard").Add(float64(len(res.Entries)))
	metrics.ScanEntriesTotal.WithLabelValues("raw").Add(float64(len(res.Raw)))
	metrics.ScanEntriesTotal.WithLabelValues("skipped").Add(float64(len(res.Skipped)))

	logging.Info("Scan of %s found %d images, %d raw, %d skipped",
		sourceDir, len(res.Entries), len(res.Raw), len(res.Skipped))

	return res, nil
}

func relOrBase(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return filepath.Base(path)
	}
	return rel
}

// sortEntries orders entries by relative path, comparing case-insensitively
// and breaking ties with the raw byte order, so "B.jpg" sorts between
// "a.jpg" and "c.jpg" but "a.jpg" and "A.jpg" still have a stable order.
func sortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		li, lj := strings.ToLower(entries[i].Rel), strings.ToLower(entries[j].Rel)
		if li != lj {
			return li < lj
		}
		return entries[i].Rel < entries[j].Rel
	})
}
