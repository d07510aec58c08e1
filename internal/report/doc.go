/*
Package report collects what happened during a delivery job.

A Recorder is an append-only, thread-safe sink for per-file outcomes,
warnings, and errors. Workers record into it concurrently; when the job ends
it aggregates everything into a Summary (per-category counts, warnings,
errors, elapsed time, archive paths) and can render a plain-text job log that
is written into the delivery folder as an artifact for the client.

The Recorder never fails a job: recording is infallible, and per-file failures
live as FileOutcome values with a reason string, not as returned errors.
*/
package report
