/*
Package archive bundles populated delivery folders into zip files.

One zip per top-level category folder, written next to the folder it bundles,
with member paths relative to that folder. Compression is deflate level 6
via klauspost/compress, registered on each writer. Empty folders produce no
archive, and a failure mid-write removes the partial zip so the delivery
never contains a truncated archive.
*/
package archive
