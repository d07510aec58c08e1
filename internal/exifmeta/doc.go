/*
Package exifmeta enforces the metadata policy on JPEG derivatives.

A Block is the raw TIFF payload of a JPEG's APP1 EXIF segment. Extract pulls
it from a source file, Apply removes the tag families the policy names, and
Embed writes the surviving block into a freshly encoded JPEG.

Selective stripping rewrites IFD entry tables in place: matched entries are
removed, the remaining entries compacted, the entry count and next-IFD
pointer rewritten, and the vacated bytes zeroed. Value data referenced by
absolute offset is never relocated, so every surviving entry stays valid
without a full TIFF rewrite.

The orientation tag is always removed, whatever the policy: derivative pixels
are orientation-normalized at decode time, and a surviving orientation tag
would make viewers rotate them a second time.

Any EXIF structure the parser cannot account for downgrades the operation to
strip-all. Losing metadata is an acceptable fallback; shipping metadata the
policy said to remove is not.
*/
package exifmeta
