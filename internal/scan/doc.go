/*
Package scan enumerates a shoot's source directory.

The scanner walks the source directory (optionally recursively), filters to
known image extensions, and sorts the survivors by relative path,
case-insensitive first with byte order as the tiebreak, so that the resulting
order is deterministic regardless of filesystem iteration order. Standard
image files are numbered 1..N in that order; the sequence number is fixed
here, once, and every output category derives its filenames from it.

Camera RAW files are discovered alongside standard images but sit outside the
sequence: they are delivered under their original filenames.

Unreadable entries (permission errors, broken symlinks) become skipped entries
with a reason instead of aborting the scan. Only a missing or non-directory
source path is fatal.
*/
package scan
