package report

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"photopack/internal/job"
)

// Status classifies the result of one operation on one file.
type Status int

const (
	StatusSuccess Status = iota
	StatusSkipped
	StatusFailed
)

// String returns the lowercase name of the status.
func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Reason constants for skipped and failed outcomes. Free-form reasons are
// allowed; these name the families callers branch on.
const (
	ReasonMoveVerification = "move-verification-failed"
	ReasonUnreadable       = "source-unreadable"
	ReasonUnsupported      = "unsupported-format"
	ReasonDecode           = "decode-failed"
	ReasonEncode           = "encode-failed"
	ReasonCancelled        = "cancelled"
	ReasonActionLeave      = "left-in-place"
	ReasonActionSkip       = "export-skipped"
)

// FileOutcome records the result of one category operation on one source file.
type FileOutcome struct {
	Seq        int
	SourcePath string
	Category   job.Category
	Status     Status
	Reason     string
	OutputPath string
	Bytes      int64
	Time       time.Time
}

// EventKind identifies what an Event describes.
type EventKind int

const (
	EventScan EventKind = iota
	EventOutcome
	EventWarning
	EventArchive
	EventJobDone
)

// Event is a progress notification emitted while a job runs. Subscribers
// receive them on a buffered channel; the Recorder remains the canonical
// record regardless of whether anyone listens.
type Event struct {
	Kind    EventKind
	Message string
	Outcome *FileOutcome
	Time    time.Time
}

// CategoryCount aggregates outcome statuses for one category.
type CategoryCount struct {
	Succeeded int
	Skipped   int
	Failed    int
}

// Summary is the aggregate result of a delivery job.
type Summary struct {
	JobID      string
	BaseName   string
	OutputRoot string
	DryRun     bool
	Started    time.Time
	Finished   time.Time
	Elapsed    time.Duration
	TotalFiles int
	Categories map[job.Category]CategoryCount
	Outcomes   []FileOutcome
	Warnings   []string
	Errors     []string
	Archives   []string
}

// Failed reports whether any outcome failed or any error was recorded.
func (s *Summary) Failed() bool {
	if len(s.Errors) > 0 {
		return true
	}
	for _, c := range s.Categories {
		if c.Failed > 0 {
			return true
		}
	}
	return false
}

type logEntry struct {
	at    time.Time
	level string
	text  string
}

// Recorder is the append-only sink for a single job run.
type Recorder struct {
	mu         sync.Mutex
	id         string
	baseName   string
	outputRoot string
	dryRun     bool
	started    time.Time
	totalFiles int
	outcomes   []FileOutcome
	warnings   []string
	errors     []string
	archives   []string
	entries    []logEntry
}

// NewRecorder creates a Recorder for one job run and stamps it with a fresh
// job ID.
func NewRecorder(baseName, outputRoot string, dryRun bool) *Recorder {
	return &Recorder{
		id:         uuid.NewString(),
		baseName:   baseName,
		outputRoot: outputRoot,
		dryRun:     dryRun,
		started:    time.Now(),
	}
}

// JobID returns the identifier stamped on this run.
func (r *Recorder) JobID() string {
	return r.id
}

func (r *Recorder) appendEntry(level, format string, args ...interface{}) {
	r.entries = append(r.entries, logEntry{
		at:    time.Now(),
		level: level,
		text:  fmt.Sprintf(format, args...),
	})
}

// SetTotalFiles records how many source files the scan produced.
func (r *Recorder) SetTotalFiles(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.totalFiles = n
	r.appendEntry("INFO", "scan complete: %d source files", n)
}

// RecordOutcome appends one file outcome. Safe for concurrent use.
func (r *Recorder) RecordOutcome(o FileOutcome) {
	if o.Time.IsZero() {
		o.Time = time.Now()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, o)

	switch o.Status {
	case StatusSuccess:
		r.appendEntry("INFO", "%s #%03d %s -> %s", o.Category, o.Seq, o.SourcePath, o.OutputPath)
	case StatusSkipped:
		r.appendEntry("INFO", "%s #%03d %s skipped (%s)", o.Category, o.Seq, o.SourcePath, o.Reason)
	case StatusFailed:
		r.appendEntry("ERROR", "%s #%03d %s failed (%s)", o.Category, o.Seq, o.SourcePath, o.Reason)
	}
}

// Warn records a non-fatal condition.
func (r *Recorder) Warn(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.warnings = append(r.warnings, msg)
	r.appendEntry("WARN", "%s", msg)
}

// Error records a job-level error that did not stop the run.
func (r *Recorder) Error(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, msg)
	r.appendEntry("ERROR", "%s", msg)
}

// Info records an informational line in the job log.
func (r *Recorder) Info(format string, args ...interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.appendEntry("INFO", format, args...)
}

// RecordArchive notes a created archive.
func (r *Recorder) RecordArchive(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.archives = append(r.archives, path)
	r.appendEntry("INFO", "archive created: %s", path)
}

// Summarize aggregates everything recorded so far into an immutable Summary.
func (r *Recorder) Summarize() *Summary {
	r.mu.Lock()
	defer r.mu.Unlock()

	finished := time.Now()
	s := &Summary{
		JobID:      r.id,
		BaseName:   r.baseName,
		OutputRoot: r.outputRoot,
		DryRun:     r.dryRun,
		Started:    r.started,
		Finished:   finished,
		Elapsed:    finished.Sub(r.started),
		TotalFiles: r.totalFiles,
		Categories: make(map[job.Category]CategoryCount),
		Outcomes:   append([]FileOutcome(nil), r.outcomes...),
		Warnings:   append([]string(nil), r.warnings...),
		Errors:     append([]string(nil), r.errors...),
		Archives:   append([]string(nil), r.archives...),
	}

	for _, o := range r.outcomes {
		c := s.Categories[o.Category]
		switch o.Status {
		case StatusSuccess:
			c.Succeeded++
		case StatusSkipped:
			c.Skipped++
		case StatusFailed:
			c.Failed++
		}
		s.Categories[o.Category] = c
	}

	// Stable ordering for rendering and tests: by sequence, then category.
	sort.SliceStable(s.Outcomes, func(i, j int) bool {
		if s.Outcomes[i].Seq != s.Outcomes[j].Seq {
			return s.Outcomes[i].Seq < s.Outcomes[j].Seq
		}
		return s.Outcomes[i].Category < s.Outcomes[j].Category
	})

	return s
}
