/*
Package fsio is the single mutation boundary for the delivery pipeline.

Every filesystem write the pipeline performs (directory creation, file
writes, copies, renames, deletions, archive creation) goes through a Guard.
In normal mode the Guard executes the operation with retry handling for
transient NFS errors. In dry-run mode it logs the intended operation and
returns synthetic success without touching the filesystem, so a dry run
produces the same control flow and reporting as a live run with zero
mutations.

Read-only helpers (Stat, Open, HashFile) bypass the dry-run check but share
the same retry handling, since reads are permitted in every mode.
*/
package fsio
