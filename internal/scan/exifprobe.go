package scan

import (
	"os"
	"strings"
	"time"

	"github.com/rwcarlsen/goexif/exif"
)

// Capture holds the best-effort shooting details read from a source file's
// EXIF block, used to enrich the delivery log.
type Capture struct {
	Time   time.Time
	Camera string
}

// Describe reads capture details from path. It is strictly best-effort:
// any parse failure returns ok=false and no error, since many valid source
// files carry no EXIF at all.
func Describe(path string) (Capture, bool) {
	f, err := os.Open(path)
	if err != nil {
		return Capture{}, false
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return Capture{}, false
	}

	var c Capture
	if t, err := x.DateTime(); err == nil {
		c.Time = t
	}

	var parts []string
	if tag, err := x.Get(exif.Make); err == nil {
		if s, err := tag.StringVal(); err == nil {
			parts = append(parts, strings.TrimSpace(s))
		}
	}
	if tag, err := x.Get(exif.Model); err == nil {
		if s, err := tag.StringVal(); err == nil {
			parts = append(parts, strings.TrimSpace(s))
		}
	}
	c.Camera = strings.Join(parts, " ")

	if c.Time.IsZero() && c.Camera == "" {
		return Capture{}, false
	}
	return c, true
}
