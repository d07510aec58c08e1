/*
Package originals disposes source files into the delivery.

Copy writes a verified duplicate and never touches the source. Move is a
copy followed by verification: size and MD5 checksum of the destination
must match the source, and only a verified match deletes the source; any
doubt leaves the source in place, removes the suspect copy, and records a
distinct move-verification failure. Leave records the file without touching
the filesystem. Skip means the category was never enabled.

The same dispositions apply to camera RAW files, which land in their own
folder under their original filenames.
*/
package originals
