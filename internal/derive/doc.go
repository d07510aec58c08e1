/*
Package derive turns one decoded source image into category derivatives.

Decoding goes through disintegration/imaging with auto-orientation, so every
derivative's pixels are already upright and no orientation metadata is
needed downstream. Very large sources headed only for pixel-bounded
categories can take the libvips decode-time-shrink fast path when libvips is
available; the pure-Go path is always the fallback and the only path
exercised in tests.

Compressed categories resize by total pixel area: the scale factor is
sqrt(target/(width*height)), applied once to both axes, shrink-only. Encode
quality for compressed categories adapts to image content (low luminance
variance allows a lower quality, high variance demands a higher one) and an
optional byte ceiling triggers a bounded binary search over quality.
*/
package derive
