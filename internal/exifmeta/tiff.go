package exifmeta

import (
	"encoding/binary"
	"fmt"

	"photopack/internal/job"
	"photopack/internal/metrics"
)

// EXIF tag IDs this package acts on.
const (
	tagMake              = 0x010F
	tagModel             = 0x0110
	tagOrientation       = 0x0112
	tagSoftware          = 0x0131
	tagDateTime          = 0x0132
	tagExifIFDPointer    = 0x8769
	tagDateTimeOriginal  = 0x9003
	tagDateTimeDigitized = 0x9004
	tagLensSpecification = 0xA432
	tagLensMake          = 0xA433
	tagLensModel         = 0xA434
)

var dateTags = map[uint16]bool{
	tagDateTime:          true,
	tagDateTimeOriginal:  true,
	tagDateTimeDigitized: true,
}

var cameraTags = map[uint16]bool{
	tagMake:              true,
	tagModel:             true,
	tagSoftware:          true,
	tagLensSpecification: true,
	tagLensMake:          true,
	tagLensModel:         true,
}

const ifdEntrySize = 12

// parseHeader validates the TIFF header and returns the byte order and the
// offset of IFD0.
func parseHeader(p []byte) (binary.ByteOrder, uint32, error) {
	if len(p) < 8 {
		return nil, 0, fmt.Errorf("TIFF header truncated")
	}

	var bo binary.ByteOrder
	switch {
	case p[0] == 'I' && p[1] == 'I':
		bo = binary.LittleEndian
	case p[0] == 'M' && p[1] == 'M':
		bo = binary.BigEndian
	default:
		return nil, 0, fmt.Errorf("unrecognized TIFF byte order %q", p[:2])
	}

	if bo.Uint16(p[2:4]) != 42 {
		return nil, 0, fmt.Errorf("bad TIFF magic")
	}

	ifd0 := bo.Uint32(p[4:8])
	if ifd0 < 8 || int(ifd0) >= len(p) {
		return nil, 0, fmt.Errorf("IFD0 offset %d out of range", ifd0)
	}
	return bo, ifd0, nil
}

// compactIFD removes entries whose tags appear in strip from the IFD at off,
// compacting the survivors, rewriting the entry count and next-IFD pointer,
// and zeroing the vacated tail. Value data addressed by absolute offset is
// untouched. Returns the offset of the Exif sub-IFD if the table points to
// one, else 0.
func compactIFD(p []byte, bo binary.ByteOrder, off uint32, strip map[uint16]bool) (uint32, error) {
	if int(off)+2 > len(p) {
		return 0, fmt.Errorf("IFD at %d truncated", off)
	}
	count := int(bo.Uint16(p[off:]))
	entriesStart := int(off) + 2
	entriesEnd := entriesStart + count*ifdEntrySize
	if entriesEnd+4 > len(p) {
		return 0, fmt.Errorf("IFD at %d overruns payload (%d entries)", off, count)
	}

	nextIFD := bo.Uint32(p[entriesEnd:])

	var exifOff uint32
	kept := 0
	for i := 0; i < count; i++ {
		src := entriesStart + i*ifdEntrySize
		tag := bo.Uint16(p[src:])

		if tag == tagExifIFDPointer {
			exifOff = bo.Uint32(p[src+8:])
		}
		if strip[tag] {
			continue
		}

		dst := entriesStart + kept*ifdEntrySize
		if dst != src {
			copy(p[dst:dst+ifdEntrySize], p[src:src+ifdEntrySize])
		}
		kept++
	}

	if kept == count {
		return exifOff, nil
	}

	bo.PutUint16(p[off:], uint16(kept))
	newEnd := entriesStart + kept*ifdEntrySize
	bo.PutUint32(p[newEnd:], nextIFD)
	for i := newEnd + 4; i < entriesEnd+4; i++ {
		p[i] = 0
	}

	return exifOff, nil
}

// withoutTags returns a copy of the block with every entry in strip removed
// from IFD0 and the Exif sub-IFD.
func (b *Block) withoutTags(strip map[uint16]bool) (*Block, error) {
	p := append([]byte(nil), b.payload...)

	bo, ifd0, err := parseHeader(p)
	if err != nil {
		return nil, err
	}

	exifOff, err := compactIFD(p, bo, ifd0, strip)
	if err != nil {
		return nil, err
	}

	if exifOff != 0 {
		if int(exifOff) >= len(p) {
			return nil, fmt.Errorf("Exif IFD offset %d out of range", exifOff)
		}
		if _, err := compactIFD(p, bo, exifOff, strip); err != nil {
			return nil, err
		}
	}

	return &Block{payload: p}, nil
}

// Apply returns the block as it should appear in a derivative under the
// policy. StripAll returns nil. Every other policy also drops the
// orientation tag, since derivative pixels are already normalized.
func (b *Block) Apply(policy job.MetadataPolicy) (*Block, error) {
	if b == nil {
		return nil, nil
	}
	if policy == job.MetadataStripAll {
		return nil, nil
	}

	strip := map[uint16]bool{tagOrientation: true}
	if policy.StripsDate() {
		for t := range dateTags {
			strip[t] = true
		}
	}
	if policy.StripsCamera() {
		for t := range cameraTags {
			strip[t] = true
		}
	}

	return b.withoutTags(strip)
}

// Prepare resolves the policy against a source block, falling back to
// strip-all when the block cannot be rewritten. The fallback return reports
// that downgrade so callers surface a warning.
func Prepare(src *Block, policy job.MetadataPolicy) (block *Block, fallback bool) {
	if src == nil {
		metrics.MetadataOutcomesTotal.WithLabelValues(policy.String(), "none").Inc()
		return nil, false
	}

	out, err := src.Apply(policy)
	if err != nil {
		metrics.MetadataOutcomesTotal.WithLabelValues(policy.String(), "fallback").Inc()
		return nil, true
	}

	metrics.MetadataOutcomesTotal.WithLabelValues(policy.String(), "applied").Inc()
	return out, false
}
