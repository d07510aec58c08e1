package metrics

import (
	"testing"
)

func TestJobMetricsExist(t *testing.T) {
	tests := []struct {
		name   string
		metric interface{}
	}{
		{"JobsTotal", JobsTotal},
		{"JobDuration", JobDuration},
		{"JobsInProgress", JobsInProgress},
		{"JobFilesProcessed", JobFilesProcessed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.metric == nil {
				t.Errorf("%s metric is nil", tt.name)
			}
		})
	}
}

func TestPipelineMetricsExist(t *testing.T) {
	tests := []struct {
		name   string
		metric interface{}
	}{
		{"ScanDuration", ScanDuration},
		{"ScanEntriesTotal", ScanEntriesTotal},
		{"DerivativesTotal", DerivativesTotal},
		{"DeriveDuration", DeriveDuration},
		{"DecodeDuration", DecodeDuration},
		{"QualitySearchIterations", QualitySearchIterations},
		{"MetadataOutcomesTotal", MetadataOutcomesTotal},
		{"OriginalsTotal", OriginalsTotal},
		{"MoveVerificationFailures", MoveVerificationFailures},
		{"ArchivesTotal", ArchivesTotal},
		{"ArchiveDuration", ArchiveDuration},
		{"ArchiveBytesWritten", ArchiveBytesWritten},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.metric == nil {
				t.Errorf("%s metric is nil", tt.name)
			}
		})
	}
}

func TestFilesystemMetricsExist(t *testing.T) {
	tests := []struct {
		name   string
		metric interface{}
	}{
		{"FsMutationsTotal", FsMutationsTotal},
		{"FsRetryAttempts", FsRetryAttempts},
		{"FsRetrySuccess", FsRetrySuccess},
		{"FsRetryFailures", FsRetryFailures},
		{"FsStaleErrors", FsStaleErrors},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.metric == nil {
				t.Errorf("%s metric is nil", tt.name)
			}
		})
	}
}

func TestMetricOperations(t *testing.T) {
	// Verify the metrics accept the label values InitializeMetrics uses
	// without panicking.
	JobsTotal.WithLabelValues("completed").Inc()
	ScanEntriesTotal.WithLabelValues("raw").Add(2)
	DerivativesTotal.WithLabelValues("optimized-jpg", "success").Inc()
	DeriveDuration.WithLabelValues("compressed-webp").Observe(0.25)
	MetadataOutcomesTotal.WithLabelValues("date", "applied").Inc()
	OriginalsTotal.WithLabelValues("move", "success").Inc()
	FsMutationsTotal.WithLabelValues("copy", "dryrun").Inc()
	QualitySearchIterations.Observe(3)
}

func TestInitializeMetrics(t *testing.T) {
	// Must be idempotent and panic-free.
	InitializeMetrics()
	InitializeMetrics()
}

func TestSetAppInfo(t *testing.T) {
	SetAppInfo("1.0.0", "abc123", "go1.25")
}
