package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Job metrics
var (
	JobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photopack_jobs_total",
			Help: "Total number of delivery jobs",
		},
		[]string{"status"}, // "completed", "failed", "cancelled"
	)

	JobDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "photopack_job_duration_seconds",
			Help:    "Delivery job duration in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600, 1800},
		},
	)

	JobsInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "photopack_jobs_in_progress",
			Help: "Number of delivery jobs currently running",
		},
	)

	JobFilesProcessed = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "photopack_job_files_processed",
			Help:    "Number of source files processed per job",
			Buckets: []float64{1, 10, 25, 50, 100, 250, 500, 1000, 2500},
		},
	)
)

// Scanner metrics
var (
	ScanDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "photopack_scan_duration_seconds",
			Help:    "Source directory scan duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5},
		},
	)

	ScanEntriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photopack_scan_entries_total",
			Help: "Total number of source entries discovered by scans",
		},
		[]string{"kind"}, // "standard", "raw", "skipped"
	)
)

// Derivative metrics
var (
	DerivativesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photopack_derivatives_total",
			Help: "Total number of derivative generations",
		},
		[]string{"category", "status"},
	)

	DeriveDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "photopack_derivative_duration_seconds",
			Help:    "Derivative generation duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"category"},
	)

	DecodeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "photopack_decode_duration_seconds",
			Help:    "Source image decode duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"decoder"}, // "imaging", "vips"
	)

	QualitySearchIterations = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "photopack_quality_search_iterations",
			Help:    "Binary search iterations spent meeting a byte ceiling",
			Buckets: []float64{0, 1, 2, 3, 4, 5, 6},
		},
	)
)

// Metadata metrics
var (
	MetadataOutcomesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photopack_metadata_outcomes_total",
			Help: "Total number of metadata policy applications",
		},
		[]string{"policy", "status"}, // status: "applied", "fallback", "none"
	)
)

// Originals metrics
var (
	OriginalsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photopack_originals_total",
			Help: "Total number of originals dispositions",
		},
		[]string{"action", "status"},
	)

	MoveVerificationFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "photopack_move_verification_failures_total",
			Help: "Total number of moves aborted because the copied bytes did not verify",
		},
	)
)

// Archive metrics
var (
	ArchivesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photopack_archives_total",
			Help: "Total number of archive creations",
		},
		[]string{"status"},
	)

	ArchiveDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "photopack_archive_duration_seconds",
			Help:    "Archive creation duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120},
		},
	)

	ArchiveBytesWritten = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "photopack_archive_bytes_written_total",
			Help: "Total compressed bytes written to archives",
		},
	)
)

// Filesystem guard metrics
var (
	FsMutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photopack_fs_mutations_total",
			Help: "Total number of filesystem mutations routed through the guard",
		},
		[]string{"op", "mode"}, // mode: "live", "dryrun"
	)

	FsRetryAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photopack_fs_retry_attempts_total",
			Help: "Total number of filesystem operation retries",
		},
		[]string{"op"},
	)

	FsRetrySuccess = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photopack_fs_retry_success_total",
			Help: "Total number of filesystem operations that succeeded after retry",
		},
		[]string{"op"},
	)

	FsRetryFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photopack_fs_retry_failures_total",
			Help: "Total number of filesystem operations that exhausted retries",
		},
		[]string{"op"},
	)

	FsStaleErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photopack_fs_stale_errors_total",
			Help: "Total number of NFS stale file handle errors encountered",
		},
		[]string{"op"},
	)
)

// Application info metric
var (
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "photopack_app_info",
			Help: "Application information",
		},
		[]string{"version", "commit", "go_version"},
	)
)

// SetAppInfo sets the application info metric
func SetAppInfo(version, commit, goVersion string) {
	AppInfo.WithLabelValues(version, commit, goVersion).Set(1)
}
