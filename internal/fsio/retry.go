package fsio

import (
	"errors"
	"os"
	"syscall"
	"time"

	"photopack/internal/logging"
	"photopack/internal/metrics"
)

// RetryConfig configures retry behavior for filesystem operations.
// Network filesystems occasionally return stale file handle errors that
// resolve on a fresh attempt.
type RetryConfig struct {
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// DefaultRetryConfig returns sensible defaults for NFS retry behavior
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:     3,
		InitialBackoff: 50 * time.Millisecond,
		MaxBackoff:     500 * time.Millisecond,
	}
}

// isStaleError checks if an error is an NFS stale file handle error
func isStaleError(err error) bool {
	if err == nil {
		return false
	}

	// ESTALE (stale file handle) - errno 116 on Linux
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return errno == syscall.ESTALE
	}

	return false
}

// withRetry runs fn, retrying with exponential backoff when it fails with an
// NFS stale file handle error. Other errors return immediately.
func (c RetryConfig) withRetry(op, path string, fn func() error) error {
	var lastErr error
	backoff := c.InitialBackoff

	for attempt := 0; attempt <= c.MaxRetries; attempt++ {
		err := fn()
		if err == nil {
			if attempt > 0 {
				logging.Info("%s succeeded on retry %d for %s", op, attempt, path)
				metrics.FsRetrySuccess.WithLabelValues(op).Inc()
			}
			return nil
		}

		lastErr = err

		if !isStaleError(err) {
			return err
		}

		metrics.FsStaleErrors.WithLabelValues(op).Inc()

		if attempt < c.MaxRetries {
			metrics.FsRetryAttempts.WithLabelValues(op).Inc()
			logging.Debug("%s stale file handle for %s, retrying in %v (attempt %d/%d)",
				op, path, backoff, attempt+1, c.MaxRetries)
			time.Sleep(backoff)

			backoff *= 2
			if backoff > c.MaxBackoff {
				backoff = c.MaxBackoff
			}
		}
	}

	logging.Warn("%s failed after %d retries for %s: %v", op, c.MaxRetries, path, lastErr)
	metrics.FsRetryFailures.WithLabelValues(op).Inc()
	return lastErr
}

// Stat performs os.Stat with retry handling for NFS stale file handle errors.
func (g *Guard) Stat(path string) (os.FileInfo, error) {
	var info os.FileInfo
	err := g.retry.withRetry("stat", path, func() error {
		var err error
		info, err = os.Stat(path)
		return err
	})
	if err != nil {
		return nil, err
	}
	return info, nil
}

// Open performs os.Open with retry handling for NFS stale file handle errors.
func (g *Guard) Open(path string) (*os.File, error) {
	var f *os.File
	err := g.retry.withRetry("open", path, func() error {
		var err error
		f, err = os.Open(path)
		return err
	})
	if err != nil {
		return nil, err
	}
	return f, nil
}
