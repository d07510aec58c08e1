/*
Package runner orchestrates one delivery job end to end.

A Runner takes a validated job spec and drives the pipeline: scan the
source, create the output structure, fan per-file tasks across a bounded
worker pool, dispose originals and RAW files, write the delivery README,
bundle archives, and close with a summary and the job log artifact.

One task covers one source file and runs that file's metadata, derivative,
and originals work sequentially. Derivatives are always generated before a
move can delete the source, and a file's outcome set stays coherent.
Cancellation is checked between files, never inside one.

Every filesystem mutation goes through the fsio guard, so a dry-run job
traverses the identical code path and produces a structurally identical
summary with zero writes.
*/
package runner
