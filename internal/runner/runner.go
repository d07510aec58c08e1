package runner

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"photopack/internal/archive"
	"photopack/internal/fsio"
	"photopack/internal/job"
	"photopack/internal/logging"
	"photopack/internal/metrics"
	"photopack/internal/report"
	"photopack/internal/scan"
	"photopack/internal/workers"
)

// eventBuffer sizes the subscriber channel. Events beyond a slow
// subscriber's buffer are dropped; the Recorder keeps the canonical record.
const eventBuffer = 64

// Runner executes one delivery job.
type Runner struct {
	spec   *job.Spec
	guard  *fsio.Guard
	rec    *report.Recorder
	events chan report.Event
}

// New validates the job spec and prepares a Runner for it.
func New(spec *job.Spec) (*Runner, error) {
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("invalid job spec: %w", err)
	}
	return &Runner{
		spec:   spec,
		guard:  fsio.NewGuard(spec.DryRun),
		rec:    report.NewRecorder(spec.BaseName, spec.OutputRoot(), spec.DryRun),
		events: make(chan report.Event, eventBuffer),
	}, nil
}

// Events returns the progress event channel. Subscribing is optional and a
// slow subscriber only loses events, never blocks the job.
func (r *Runner) Events() <-chan report.Event {
	return r.events
}

func (r *Runner) emit(e report.Event) {
	e.Time = time.Now()
	select {
	case r.events <- e:
	default:
	}
}

// Run executes the job and returns its summary. The returned error is
// non-nil only for fatal conditions (unusable source or output); per-file
// failures live in the summary.
func (r *Runner) Run(ctx context.Context) (*report.Summary, error) {
	spec := r.spec
	root := spec.OutputRoot()
	start := time.Now()

	metrics.JobsInProgress.Inc()
	defer metrics.JobsInProgress.Dec()
	defer close(r.events)

	logging.Info("Starting delivery job %s: %s -> %s (dry-run=%v, workers=%d)",
		r.rec.JobID(), spec.SourceDir, root, spec.DryRun, spec.Workers)

	// Scan before touching the output: a fatal scan error must not leave an
	// empty delivery skeleton behind.
	result, err := scan.Scan(spec.SourceDir, spec.Recursive, spec.IncludeRaw)
	if err != nil {
		metrics.JobsTotal.WithLabelValues("failed").Inc()
		return nil, err
	}
	r.rec.SetTotalFiles(len(result.Entries))
	r.emit(report.Event{Kind: report.EventScan,
		Message: fmt.Sprintf("scanned %d images, %d raw, %d skipped", len(result.Entries), len(result.Raw), len(result.Skipped))})

	for _, e := range result.Skipped {
		r.rec.RecordOutcome(report.FileOutcome{
			SourcePath: e.Path,
			Category:   job.CategoryOriginal,
			Status:     report.StatusSkipped,
			Reason:     report.ReasonUnreadable + ": " + e.Reason,
		})
	}

	if err := r.createStructure(root, result); err != nil {
		metrics.JobsTotal.WithLabelValues("failed").Inc()
		return nil, err
	}

	r.describeSources(result.Entries)
	r.runTasks(ctx, result)
	r.writeReadmes(root, len(result.Raw) > 0)
	r.createArchives(ctx, root, result)

	summary := r.rec.Summarize()

	logPath := filepath.Join(root, spec.Layout.LogFile)
	if err := r.rec.WriteLog(r.guard, logPath, summary); err != nil {
		logging.Warn("Could not write job log %s: %v", logPath, err)
	}

	switch {
	case ctx.Err() != nil:
		metrics.JobsTotal.WithLabelValues("cancelled").Inc()
	case summary.Failed():
		metrics.JobsTotal.WithLabelValues("failed").Inc()
	default:
		metrics.JobsTotal.WithLabelValues("completed").Inc()
	}
	metrics.JobDuration.Observe(time.Since(start).Seconds())
	metrics.JobFilesProcessed.Observe(float64(len(result.Entries)))

	r.emit(report.Event{Kind: report.EventJobDone, Message: fmt.Sprintf("job %s finished", summary.JobID)})
	logging.Info("Delivery job %s finished in %s", summary.JobID, summary.Elapsed.Round(time.Millisecond))

	return summary, nil
}

// createStructure makes the output folders the job will populate. Folders
// for disabled or unpopulated categories are never created.
func (r *Runner) createStructure(root string, result *scan.Result) error {
	dirs := []string{root}

	if r.spec.OriginalsAction != job.OriginalsSkipExport && r.spec.OriginalsAction != job.OriginalsLeave && len(result.Entries) > 0 {
		dirs = append(dirs, r.spec.Layout.CategoryDir(root, job.CategoryOriginal))
	}
	if len(result.Entries) > 0 {
		for _, cs := range r.spec.Categories {
			dirs = append(dirs, r.spec.Layout.CategoryDir(root, cs.Category))
		}
	}
	if r.spec.IncludeRaw && len(result.Raw) > 0 && r.spec.RawAction != job.OriginalsLeave {
		dirs = append(dirs, r.spec.Layout.CategoryDir(root, job.CategoryRaw))
	}

	for _, dir := range dirs {
		if err := r.guard.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory %s: %w", dir, err)
		}
	}
	return nil
}

// describeSources enriches the job log with best-effort capture details.
func (r *Runner) describeSources(entries []scan.Entry) {
	for _, e := range entries {
		if c, ok := scan.Describe(e.Path); ok {
			switch {
			case !c.Time.IsZero() && c.Camera != "":
				r.rec.Info("#%03d %s: captured %s with %s", e.Seq, e.Rel, c.Time.Format("2006-01-02 15:04:05"), c.Camera)
			case c.Camera != "":
				r.rec.Info("#%03d %s: captured with %s", e.Seq, e.Rel, c.Camera)
			default:
				r.rec.Info("#%03d %s: captured %s", e.Seq, e.Rel, c.Time.Format("2006-01-02 15:04:05"))
			}
		}
	}
}

// runTasks fans one task per source file across the worker pool. Workers==1
// degenerates to a strictly sequential inline loop.
func (r *Runner) runTasks(ctx context.Context, result *scan.Result) {
	tasks := make([]scan.Entry, 0, len(result.Entries)+len(result.Raw))
	tasks = append(tasks, result.Entries...)
	tasks = append(tasks, result.Raw...)

	if len(tasks) == 0 {
		return
	}

	n := workers.Resolve(r.spec.Workers)
	if n == 1 {
		for _, e := range tasks {
			if ctx.Err() != nil {
				r.recordCancelled(e)
				continue
			}
			r.processEntry(e)
		}
		return
	}

	jobs := make(chan scan.Entry, len(tasks))
	var wg sync.WaitGroup

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for e := range jobs {
				if ctx.Err() != nil {
					r.recordCancelled(e)
					continue
				}
				r.processEntry(e)
			}
		}()
	}

	for _, e := range tasks {
		jobs <- e
	}
	close(jobs)
	wg.Wait()
}

func (r *Runner) recordCancelled(e scan.Entry) {
	cat := job.CategoryOriginal
	if e.Kind == scan.KindRaw {
		cat = job.CategoryRaw
	}
	r.rec.RecordOutcome(report.FileOutcome{
		Seq:        e.Seq,
		SourcePath: e.Path,
		Category:   cat,
		Status:     report.StatusSkipped,
		Reason:     report.ReasonCancelled,
	})
}

// writeReadmes writes the delivery README and, when RAW files shipped, the
// RAW folder README.
func (r *Runner) writeReadmes(root string, haveRaw bool) {
	if !r.spec.WriteReadme {
		return
	}

	path := filepath.Join(root, r.spec.Layout.Readme)
	if err := r.guard.WriteFile(path, []byte(deliveryReadme(r.spec)), 0o644); err != nil {
		r.rec.Warn("could not write delivery README: %v", err)
	}

	if haveRaw && r.spec.IncludeRaw && r.spec.RawAction != job.OriginalsLeave {
		rawPath := filepath.Join(r.spec.Layout.CategoryDir(root, job.CategoryRaw), r.spec.Layout.RawReadme)
		if err := r.guard.WriteFile(rawPath, []byte(rawReadme(r.spec)), 0o644); err != nil {
			r.rec.Warn("could not write RAW README: %v", err)
		}
	}
}

// createArchives bundles each populated top-level folder into a zip at the
// output root. Never runs in dry-run mode: the guard would refuse the file
// creation anyway, and the skip keeps the log clean.
func (r *Runner) createArchives(ctx context.Context, root string, result *scan.Result) {
	if !r.spec.CreateArchives || r.spec.DryRun {
		return
	}

	seen := map[string]bool{}
	var dirs []string
	add := func(c job.Category) {
		dir := r.spec.Layout.TopLevelDir(root, c)
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}

	if r.spec.OriginalsAction == job.OriginalsCopy || r.spec.OriginalsAction == job.OriginalsMove {
		add(job.CategoryOriginal)
	}
	for _, cs := range r.spec.Categories {
		add(cs.Category)
	}
	if r.spec.IncludeRaw && len(result.Raw) > 0 && r.spec.RawAction != job.OriginalsLeave {
		add(job.CategoryRaw)
	}

	for _, dir := range dirs {
		if ctx.Err() != nil {
			return
		}
		zipPath := dir + ".zip"
		if _, err := archive.Create(r.guard, dir, zipPath); err != nil {
			if err == archive.ErrNothingToArchive {
				continue
			}
			r.rec.Error("archive %s failed: %v", filepath.Base(zipPath), err)
			continue
		}
		r.rec.RecordArchive(zipPath)
		r.emit(report.Event{Kind: report.EventArchive, Message: zipPath})
	}
}
