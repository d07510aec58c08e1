package runner

import (
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"photopack/internal/derive"
	"photopack/internal/exifmeta"
	"photopack/internal/job"
	"photopack/internal/logging"
	"photopack/internal/originals"
	"photopack/internal/report"
	"photopack/internal/scan"
)

// processEntry handles one source file end to end. Derivatives are generated
// before the originals disposition runs, so a move can never delete the
// source out from under the decoder.
func (r *Runner) processEntry(e scan.Entry) {
	if e.Kind == scan.KindRaw {
		r.disposeRaw(e)
		return
	}
	r.processImage(e)
}

func (r *Runner) processImage(e scan.Entry) {
	if len(r.spec.Categories) > 0 {
		r.generateDerivatives(e)
	}

	root := r.spec.OutputRoot()
	out := originals.Dispose(r.guard, originals.Request{
		Seq:        e.Seq,
		SourcePath: e.Path,
		Category:   job.CategoryOriginal,
		Action:     r.spec.OriginalsAction,
		DestDir:    r.spec.Layout.CategoryDir(root, job.CategoryOriginal),
		DestName:   derivativeName(e.Seq, r.spec.BaseName, filepath.Ext(e.Path)),
	})
	r.recordAndEmit(out)
}

func (r *Runner) disposeRaw(e scan.Entry) {
	if !r.spec.IncludeRaw {
		return
	}
	root := r.spec.OutputRoot()
	out := originals.Dispose(r.guard, originals.Request{
		Seq:        e.Seq,
		SourcePath: e.Path,
		Category:   job.CategoryRaw,
		Action:     r.spec.RawAction,
		DestDir:    r.spec.Layout.CategoryDir(root, job.CategoryRaw),
		DestName:   filepath.Base(e.Path),
	})
	r.recordAndEmit(out)
}

// generateDerivatives decodes the source once and encodes every enabled
// category from that image.
func (r *Runner) generateDerivatives(e scan.Entry) {
	img, err := derive.Load(e.Path, r.decodeMaxPixels())
	if err != nil {
		status, reason := report.StatusFailed, report.ReasonDecode
		if errors.Is(err, image.ErrFormat) {
			status, reason = report.StatusSkipped, report.ReasonUnsupported
		}
		logging.Warn("Cannot decode %s: %v", e.Path, err)
		for _, cs := range r.spec.Categories {
			r.recordAndEmit(report.FileOutcome{
				Seq:        e.Seq,
				SourcePath: e.Path,
				Category:   cs.Category,
				Status:     status,
				Reason:     fmt.Sprintf("%s: %v", reason, err),
			})
		}
		return
	}

	meta := r.prepareMetadata(e)

	root := r.spec.OutputRoot()
	for _, cs := range r.spec.Categories {
		d, err := derive.Generate(img, cs)
		if err != nil {
			r.recordAndEmit(report.FileOutcome{
				Seq:        e.Seq,
				SourcePath: e.Path,
				Category:   cs.Category,
				Status:     report.StatusFailed,
				Reason:     fmt.Sprintf("%s: %v", report.ReasonEncode, err),
			})
			continue
		}
		if d.CeilingMissed {
			r.rec.Warn("%s #%03d: minimum quality %d still exceeds the %d byte ceiling (%d bytes shipped)",
				cs.Category, e.Seq, d.Quality, cs.MaxFileBytes, len(d.Data))
		}

		data := d.Data
		if cs.Format == job.FormatJPEG && meta != nil {
			if embedded, embedErr := exifmeta.Embed(data, meta); embedErr != nil {
				r.rec.Warn("%s #%03d: could not re-embed metadata, derivative ships stripped: %v", cs.Category, e.Seq, embedErr)
			} else {
				data = embedded
			}
		}

		name := derivativeName(e.Seq, r.spec.BaseName, cs.Format.Ext())
		dest := filepath.Join(r.spec.Layout.CategoryDir(root, cs.Category), name)
		if err := r.guard.WriteFile(dest, data, 0o644); err != nil {
			r.recordAndEmit(report.FileOutcome{
				Seq:        e.Seq,
				SourcePath: e.Path,
				Category:   cs.Category,
				Status:     report.StatusFailed,
				Reason:     fmt.Sprintf("write failed: %v", err),
			})
			continue
		}

		r.recordAndEmit(report.FileOutcome{
			Seq:        e.Seq,
			SourcePath: e.Path,
			Category:   cs.Category,
			Status:     report.StatusSuccess,
			OutputPath: dest,
			Bytes:      int64(len(data)),
		})
	}
}

// prepareMetadata extracts the source metadata block and applies the job's
// policy. Returns nil when nothing should be embedded. JPEG is the only
// source format the extractor reads and the only derivative format that can
// carry the block; either gap is surfaced as a warning, not an error.
func (r *Runner) prepareMetadata(e scan.Entry) *exifmeta.Block {
	if r.spec.MetadataPolicy == job.MetadataStripAll {
		return nil
	}
	if !isJPEGPath(e.Path) {
		return nil
	}

	block, err := exifmeta.ExtractFromFile(e.Path)
	if err != nil {
		r.rec.Warn("#%03d %s: malformed metadata, derivatives ship stripped: %v", e.Seq, e.Rel, err)
		return nil
	}
	if block == nil {
		return nil
	}

	prepared, fallback := exifmeta.Prepare(block, r.spec.MetadataPolicy)
	if fallback {
		r.rec.Warn("#%03d %s: metadata could not be rewritten under policy %s, derivatives ship stripped",
			e.Seq, e.Rel, r.spec.MetadataPolicy)
		return nil
	}

	if prepared != nil && r.hasWebPCategory() {
		r.rec.Warn("#%03d %s: WebP derivatives cannot carry the retained metadata", e.Seq, e.Rel)
	}
	return prepared
}

func (r *Runner) hasWebPCategory() bool {
	for _, cs := range r.spec.Categories {
		if cs.Format == job.FormatWebP {
			return true
		}
	}
	return false
}

// decodeMaxPixels picks the decode hint: when every enabled category resizes
// to a pixel target, decoding larger than the biggest target is wasted work
// and the loader may downsample during decode. Any native-resolution
// category forces a full decode.
func (r *Runner) decodeMaxPixels() int {
	max := 0
	for _, cs := range r.spec.Categories {
		if cs.TargetPixels == 0 {
			return 0
		}
		if cs.TargetPixels > max {
			max = cs.TargetPixels
		}
	}
	return max
}

func (r *Runner) recordAndEmit(o report.FileOutcome) {
	r.rec.RecordOutcome(o)
	kind := report.EventOutcome
	if o.Status == report.StatusFailed {
		kind = report.EventWarning
	}
	r.emit(report.Event{Kind: kind, Outcome: &o,
		Message: fmt.Sprintf("%s #%03d %s", o.Category, o.Seq, o.Status)})
}

func derivativeName(seq int, base, ext string) string {
	return fmt.Sprintf("%03d-%s%s", seq, base, ext)
}

func isJPEGPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg", ".jpe", ".jif", ".jfif":
		return true
	}
	return false
}
