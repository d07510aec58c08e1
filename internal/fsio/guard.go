package fsio

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"photopack/internal/logging"
	"photopack/internal/metrics"
)

// ErrDryRun is returned by operations that cannot produce a synthetic result,
// such as Create, when the guard is in dry-run mode. Callers that need a real
// file handle must check DryRun() first.
var ErrDryRun = fmt.Errorf("operation suppressed: dry run")

// Guard routes filesystem mutations, suppressing them in dry-run mode.
type Guard struct {
	dryRun bool
	retry  RetryConfig
}

// NewGuard creates a Guard. When dryRun is true every mutation is logged and
// skipped.
func NewGuard(dryRun bool) *Guard {
	return &Guard{dryRun: dryRun, retry: DefaultRetryConfig()}
}

// DryRun reports whether the guard suppresses mutations.
func (g *Guard) DryRun() bool {
	return g.dryRun
}

func (g *Guard) mode() string {
	if g.dryRun {
		return "dryrun"
	}
	return "live"
}

// MkdirAll creates a directory tree.
func (g *Guard) MkdirAll(path string, perm os.FileMode) error {
	metrics.FsMutationsTotal.WithLabelValues("mkdir", g.mode()).Inc()
	if g.dryRun {
		logging.Info("[DRYRUN] mkdir -p %s", path)
		return nil
	}
	return g.retry.withRetry("mkdir", path, func() error {
		return os.MkdirAll(path, perm)
	})
}

// WriteFile writes data to path, replacing any existing file.
func (g *Guard) WriteFile(path string, data []byte, perm os.FileMode) error {
	metrics.FsMutationsTotal.WithLabelValues("write", g.mode()).Inc()
	if g.dryRun {
		logging.Info("[DRYRUN] write %s (%d bytes)", path, len(data))
		return nil
	}
	return g.retry.withRetry("write", path, func() error {
		return os.WriteFile(path, data, perm)
	})
}

// Create opens path for writing, truncating any existing file. It cannot
// synthesize a handle, so in dry-run mode it returns ErrDryRun; callers
// decide per call site whether that is reachable.
func (g *Guard) Create(path string) (*os.File, error) {
	metrics.FsMutationsTotal.WithLabelValues("create", g.mode()).Inc()
	if g.dryRun {
		logging.Info("[DRYRUN] create %s", path)
		return nil, ErrDryRun
	}
	var f *os.File
	err := g.retry.withRetry("create", path, func() error {
		var err error
		f, err = os.Create(path)
		return err
	})
	if err != nil {
		return nil, err
	}
	return f, nil
}

// CopyFile copies src to dst, fsyncing the destination before close. Returns
// the number of bytes copied. In dry-run mode it returns the source size so
// reporting stays structurally identical to a live run.
func (g *Guard) CopyFile(src, dst string) (int64, error) {
	metrics.FsMutationsTotal.WithLabelValues("copy", g.mode()).Inc()
	if g.dryRun {
		logging.Info("[DRYRUN] copy %s -> %s", src, dst)
		info, err := os.Stat(src)
		if err != nil {
			return 0, fmt.Errorf("stat source: %w", err)
		}
		return info.Size(), nil
	}

	in, err := g.Open(src)
	if err != nil {
		return 0, fmt.Errorf("open source: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return 0, fmt.Errorf("create destination: %w", err)
	}

	n, err := io.Copy(out, in)
	if err != nil {
		out.Close()
		os.Remove(dst)
		return n, fmt.Errorf("copy data: %w", err)
	}

	if err := out.Sync(); err != nil {
		out.Close()
		os.Remove(dst)
		return n, fmt.Errorf("sync destination: %w", err)
	}

	if err := out.Close(); err != nil {
		os.Remove(dst)
		return n, fmt.Errorf("close destination: %w", err)
	}

	return n, nil
}

// Remove deletes a file.
func (g *Guard) Remove(path string) error {
	metrics.FsMutationsTotal.WithLabelValues("remove", g.mode()).Inc()
	if g.dryRun {
		logging.Info("[DRYRUN] remove %s", path)
		return nil
	}
	return g.retry.withRetry("remove", path, func() error {
		return os.Remove(path)
	})
}

// Rename moves a file within the filesystem.
func (g *Guard) Rename(oldPath, newPath string) error {
	metrics.FsMutationsTotal.WithLabelValues("rename", g.mode()).Inc()
	if g.dryRun {
		logging.Info("[DRYRUN] rename %s -> %s", oldPath, newPath)
		return nil
	}
	return g.retry.withRetry("rename", oldPath, func() error {
		return os.Rename(oldPath, newPath)
	})
}

// HashFile returns the hex MD5 digest of the file at path. Read-only, so it
// runs in every mode.
func (g *Guard) HashFile(path string) (string, error) {
	f, err := g.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := md5.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
