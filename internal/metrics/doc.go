// Package metrics provides Prometheus instrumentation for the delivery pipeline.
//
// All metrics are prefixed with "photopack_" to avoid naming collisions with
// other applications. The package registers everything with the default
// registry via promauto; hosts that want exposition mount
// promhttp.Handler() themselves, no HTTP surface lives here.
//
// Metrics cover the lifecycle of a delivery job: scans, per-category
// derivative generation (including adaptive-quality search effort), metadata
// policy outcomes, originals disposition, archive creation, and every
// filesystem mutation routed through the dry-run guard (labeled "live" or
// "dryrun" so a dry run is visible as zero live mutations).
//
// Call InitializeMetrics once at startup to pre-populate label combinations
// so counters appear at zero on the first scrape.
package metrics
