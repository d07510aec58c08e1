package metrics

// InitializeMetrics pre-populates all expected label combinations so that
// every metric is exported from the first Prometheus scrape.
// Call this once at startup after metric registration.
func InitializeMetrics() {
	for _, status := range []string{"completed", "failed", "cancelled"} {
		JobsTotal.WithLabelValues(status)
	}

	for _, kind := range []string{"standard", "raw", "skipped"} {
		ScanEntriesTotal.WithLabelValues(kind)
	}

	categories := []string{"optimized-jpg", "optimized-webp", "compressed-jpg", "compressed-webp"}
	for _, c := range categories {
		DeriveDuration.WithLabelValues(c)
		DerivativesTotal.WithLabelValues(c, "success")
		DerivativesTotal.WithLabelValues(c, "failed")
		DerivativesTotal.WithLabelValues(c, "skipped")
	}

	for _, d := range []string{"imaging", "vips"} {
		DecodeDuration.WithLabelValues(d)
	}

	policies := []string{"keep", "strip_all", "date", "camera", "both"}
	for _, p := range policies {
		MetadataOutcomesTotal.WithLabelValues(p, "applied")
		MetadataOutcomesTotal.WithLabelValues(p, "fallback")
		MetadataOutcomesTotal.WithLabelValues(p, "none")
	}

	for _, action := range []string{"copy", "move", "leave", "skip"} {
		OriginalsTotal.WithLabelValues(action, "success")
		OriginalsTotal.WithLabelValues(action, "failed")
		OriginalsTotal.WithLabelValues(action, "skipped")
	}

	for _, status := range []string{"success", "failed", "skipped_empty"} {
		ArchivesTotal.WithLabelValues(status)
	}

	fsOps := []string{"mkdir", "write", "copy", "remove", "rename", "create"}
	for _, op := range fsOps {
		FsMutationsTotal.WithLabelValues(op, "live")
		FsMutationsTotal.WithLabelValues(op, "dryrun")
		FsRetryAttempts.WithLabelValues(op)
		FsRetrySuccess.WithLabelValues(op)
		FsRetryFailures.WithLabelValues(op)
		FsStaleErrors.WithLabelValues(op)
	}
}
