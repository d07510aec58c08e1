package exifmeta

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
)

// JPEG markers
const (
	markerSOI  = 0xD8
	markerAPP1 = 0xE1
	markerSOS  = 0xDA
)

var exifHeader = []byte("Exif\x00\x00")

// maxPayload is the largest TIFF payload an APP1 segment can carry:
// 65535 minus the two length bytes minus the six-byte Exif header.
const maxPayload = 65535 - 2 - len("Exif\x00\x00")

// Block is the TIFF payload of an APP1 EXIF segment.
type Block struct {
	payload []byte
}

// Bytes returns the raw TIFF payload.
func (b *Block) Bytes() []byte {
	if b == nil {
		return nil
	}
	return b.payload
}

// Extract returns the EXIF block from JPEG data, or (nil, nil) when the file
// carries none. A malformed JPEG container is an error.
func Extract(data []byte) (*Block, error) {
	if len(data) < 2 || data[0] != 0xFF || data[1] != markerSOI {
		return nil, fmt.Errorf("not a JPEG stream")
	}

	pos := 2
	for pos+4 <= len(data) {
		if data[pos] != 0xFF {
			return nil, fmt.Errorf("bad segment marker at offset %d", pos)
		}
		marker := data[pos+1]

		// Standalone markers without a length.
		if marker == 0x01 || (marker >= 0xD0 && marker <= 0xD7) {
			pos += 2
			continue
		}
		if marker == markerSOS {
			// Entropy-coded data follows; no EXIF past this point.
			return nil, nil
		}

		segLen := int(binary.BigEndian.Uint16(data[pos+2 : pos+4]))
		if segLen < 2 || pos+2+segLen > len(data) {
			return nil, fmt.Errorf("segment at offset %d overruns the stream", pos)
		}

		if marker == markerAPP1 {
			body := data[pos+4 : pos+2+segLen]
			if bytes.HasPrefix(body, exifHeader) {
				payload := append([]byte(nil), body[len(exifHeader):]...)
				return &Block{payload: payload}, nil
			}
		}

		pos += 2 + segLen
	}

	return nil, nil
}

// ExtractFromFile reads path and extracts its EXIF block.
func ExtractFromFile(path string) (*Block, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Extract(data)
}

// Embed inserts the block as an APP1 segment immediately after SOI and
// returns the new JPEG data. A nil block returns the input unchanged.
func Embed(jpegData []byte, b *Block) ([]byte, error) {
	if b == nil || len(b.payload) == 0 {
		return jpegData, nil
	}
	if len(jpegData) < 2 || jpegData[0] != 0xFF || jpegData[1] != markerSOI {
		return nil, fmt.Errorf("not a JPEG stream")
	}
	if len(b.payload) > maxPayload {
		return nil, fmt.Errorf("EXIF payload %d bytes exceeds APP1 capacity", len(b.payload))
	}

	segLen := 2 + len(exifHeader) + len(b.payload)

	out := make([]byte, 0, len(jpegData)+4+segLen)
	out = append(out, jpegData[:2]...)
	out = append(out, 0xFF, markerAPP1)
	out = binary.BigEndian.AppendUint16(out, uint16(segLen))
	out = append(out, exifHeader...)
	out = append(out, b.payload...)
	out = append(out, jpegData[2:]...)

	return out, nil
}
