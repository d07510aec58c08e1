package originals

import (
	"fmt"
	"os"
	"path/filepath"

	"photopack/internal/fsio"
	"photopack/internal/job"
	"photopack/internal/logging"
	"photopack/internal/metrics"
	"photopack/internal/report"
)

// Request describes one source file to dispose.
type Request struct {
	Seq        int
	SourcePath string
	Category   job.Category // CategoryOriginal or CategoryRaw
	Action     job.OriginalsAction
	DestDir    string
	DestName   string
}

// Dispose applies the request's action and returns the outcome. It never
// returns an error: every failure mode is an outcome, and the source file
// survives all of them except a fully verified move.
func Dispose(g *fsio.Guard, req Request) report.FileOutcome {
	out := report.FileOutcome{
		Seq:        req.Seq,
		SourcePath: req.SourcePath,
		Category:   req.Category,
	}

	switch req.Action {
	case job.OriginalsLeave:
		out.Status = report.StatusSuccess
		out.Reason = report.ReasonActionLeave
		metrics.OriginalsTotal.WithLabelValues(req.Action.String(), "success").Inc()
		return out

	case job.OriginalsSkipExport:
		out.Status = report.StatusSkipped
		out.Reason = report.ReasonActionSkip
		metrics.OriginalsTotal.WithLabelValues(req.Action.String(), "skipped").Inc()
		return out
	}

	dst := filepath.Join(req.DestDir, req.DestName)

	n, err := g.CopyFile(req.SourcePath, dst)
	if err != nil {
		out.Status = report.StatusFailed
		out.Reason = fmt.Sprintf("copy failed: %v", err)
		metrics.OriginalsTotal.WithLabelValues(req.Action.String(), "failed").Inc()
		return out
	}
	out.OutputPath = dst
	out.Bytes = n

	if req.Action == job.OriginalsMove {
		if g.DryRun() {
			// Nothing was written, so there is nothing to verify and
			// nothing to delete. The live run would do both.
			out.Status = report.StatusSuccess
			metrics.OriginalsTotal.WithLabelValues("move", "success").Inc()
			return out
		}

		if err := verifyCopy(g, req.SourcePath, dst); err != nil {
			logging.Error("Move verification failed for %s: %v", req.SourcePath, err)
			if rmErr := g.Remove(dst); rmErr != nil && !os.IsNotExist(rmErr) {
				logging.Warn("Could not remove unverified copy %s: %v", dst, rmErr)
			}
			out.Status = report.StatusFailed
			out.Reason = report.ReasonMoveVerification
			out.OutputPath = ""
			metrics.OriginalsTotal.WithLabelValues("move", "failed").Inc()
			metrics.MoveVerificationFailures.Inc()
			return out
		}

		if err := g.Remove(req.SourcePath); err != nil {
			// The copy is verified, so the delivery is intact; only the
			// source cleanup failed.
			out.Status = report.StatusFailed
			out.Reason = fmt.Sprintf("source delete failed after verified copy: %v", err)
			metrics.OriginalsTotal.WithLabelValues("move", "failed").Inc()
			return out
		}
	}

	out.Status = report.StatusSuccess
	metrics.OriginalsTotal.WithLabelValues(req.Action.String(), "success").Inc()
	return out
}

// verifyCopy confirms dst is a byte-faithful copy of src: sizes must match
// and MD5 digests must match.
func verifyCopy(g *fsio.Guard, src, dst string) error {
	srcInfo, err := g.Stat(src)
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}
	dstInfo, err := g.Stat(dst)
	if err != nil {
		return fmt.Errorf("stat copy: %w", err)
	}
	if srcInfo.Size() != dstInfo.Size() {
		return fmt.Errorf("size mismatch: source %d bytes, copy %d bytes", srcInfo.Size(), dstInfo.Size())
	}

	srcSum, err := g.HashFile(src)
	if err != nil {
		return fmt.Errorf("hash source: %w", err)
	}
	dstSum, err := g.HashFile(dst)
	if err != nil {
		return fmt.Errorf("hash copy: %w", err)
	}
	if srcSum != dstSum {
		return fmt.Errorf("checksum mismatch: source %s, copy %s", srcSum, dstSum)
	}

	return nil
}
