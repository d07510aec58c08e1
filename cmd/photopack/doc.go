// Command photopack packages a photo shoot into a structured client delivery.
//
// Given a source directory of images, it produces a delivery folder containing:
//
//   - Export Originals: the untouched source files, copied or moved with
//     checksum-verified move safety
//   - Optimized Files: full-resolution JPEG and WebP derivatives at high quality
//   - Compressed Files: pixel-bounded JPEG and WebP derivatives sized for the web
//   - RAW Files: camera RAW exports with an explanatory README (optional)
//   - A client-facing README, one zip archive per folder (optional), and a
//     plain-text job log
//
// Every image is assigned a sequence number at scan time and keeps that number
// across all folders, so photo 012 in one folder is the same shot as photo 012
// in another. Embedded metadata in derivatives follows the selected policy:
// kept, stripped entirely, or selectively cleaned of date and camera tags.
//
// Usage:
//
//	photopack -s <source> -o <output> [flags]
//	photopack version
//
// Run photopack --help for the full flag reference. A dry run (--dry-run)
// logs every action the job would take without touching the filesystem.
//
// Environment:
//
//	PHOTOPACK_WORKERS - Override the worker pool size
//	LOG_LEVEL         - Process log level (debug/info/warn/error)
package main
