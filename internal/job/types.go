package job

import (
	"fmt"
	"path/filepath"
	"strings"
)

// OriginalsAction controls what happens to the source file itself.
type OriginalsAction int

const (
	// OriginalsCopy copies each source into the originals folder.
	OriginalsCopy OriginalsAction = iota
	// OriginalsMove copies, verifies the copy, then deletes the source.
	OriginalsMove
	// OriginalsLeave records the file but performs no filesystem action.
	OriginalsLeave
	// OriginalsSkipExport disables the originals category entirely;
	// no originals folder is created.
	OriginalsSkipExport
)

// ParseOriginalsAction maps the user-facing action names to their enum values.
func ParseOriginalsAction(s string) (OriginalsAction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "copy":
		return OriginalsCopy, nil
	case "move":
		return OriginalsMove, nil
	case "leave":
		return OriginalsLeave, nil
	case "skip", "none":
		return OriginalsSkipExport, nil
	}
	return OriginalsCopy, fmt.Errorf("unknown originals action %q (expected copy, move, leave, or skip)", s)
}

// String returns the user-facing name of the action.
func (a OriginalsAction) String() string {
	switch a {
	case OriginalsCopy:
		return "copy"
	case OriginalsMove:
		return "move"
	case OriginalsLeave:
		return "leave"
	case OriginalsSkipExport:
		return "skip"
	default:
		return fmt.Sprintf("unknown(%d)", int(a))
	}
}

// MetadataPolicy controls which embedded metadata tags survive into a
// derivative. Selective policies compose date and camera tag families.
type MetadataPolicy int

const (
	// MetadataKeep retains the source metadata block as-is.
	MetadataKeep MetadataPolicy = iota
	// MetadataStripAll removes the entire metadata block.
	MetadataStripAll
	// MetadataStripDate removes timestamp-family tags only.
	MetadataStripDate
	// MetadataStripCamera removes device/lens-family tags only.
	MetadataStripCamera
	// MetadataStripDateAndCamera removes both families.
	MetadataStripDateAndCamera
)

// ParseMetadataPolicy maps the user-facing policy names to their enum values.
func ParseMetadataPolicy(s string) (MetadataPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "keep":
		return MetadataKeep, nil
	case "strip_all", "strip", "strip-all":
		return MetadataStripAll, nil
	case "date":
		return MetadataStripDate, nil
	case "camera":
		return MetadataStripCamera, nil
	case "both":
		return MetadataStripDateAndCamera, nil
	}
	return MetadataKeep, fmt.Errorf("unknown metadata policy %q (expected keep, date, camera, both, or strip_all)", s)
}

// String returns the user-facing name of the policy.
func (p MetadataPolicy) String() string {
	switch p {
	case MetadataKeep:
		return "keep"
	case MetadataStripAll:
		return "strip_all"
	case MetadataStripDate:
		return "date"
	case MetadataStripCamera:
		return "camera"
	case MetadataStripDateAndCamera:
		return "both"
	default:
		return fmt.Sprintf("unknown(%d)", int(p))
	}
}

// StripsDate reports whether the policy removes timestamp-family tags.
func (p MetadataPolicy) StripsDate() bool {
	return p == MetadataStripDate || p == MetadataStripDateAndCamera
}

// StripsCamera reports whether the policy removes device/lens-family tags.
func (p MetadataPolicy) StripsCamera() bool {
	return p == MetadataStripCamera || p == MetadataStripDateAndCamera
}

// Category enumerates the output categories a source image can populate.
type Category int

const (
	// CategoryOriginal is the exported (copied or moved) source file.
	CategoryOriginal Category = iota
	// CategoryOptimizedJPEG is a full-resolution, high-quality JPEG.
	CategoryOptimizedJPEG
	// CategoryOptimizedWebP is a full-resolution, high-quality WebP.
	CategoryOptimizedWebP
	// CategoryCompressedJPEG is a pixel-bounded, lower-quality JPEG.
	CategoryCompressedJPEG
	// CategoryCompressedWebP is a pixel-bounded, lower-quality WebP.
	CategoryCompressedWebP
	// CategoryRaw is the exported camera RAW file.
	CategoryRaw
)

// String returns a stable name for logs and summaries.
func (c Category) String() string {
	switch c {
	case CategoryOriginal:
		return "original"
	case CategoryOptimizedJPEG:
		return "optimized-jpg"
	case CategoryOptimizedWebP:
		return "optimized-webp"
	case CategoryCompressedJPEG:
		return "compressed-jpg"
	case CategoryCompressedWebP:
		return "compressed-webp"
	case CategoryRaw:
		return "raw"
	default:
		return fmt.Sprintf("unknown(%d)", int(c))
	}
}

// Compressed reports whether the category resizes to a pixel target.
func (c Category) Compressed() bool {
	return c == CategoryCompressedJPEG || c == CategoryCompressedWebP
}

// Format is the encode target of a derivative category.
type Format int

const (
	// FormatJPEG encodes derivatives as baseline JPEG.
	FormatJPEG Format = iota
	// FormatWebP encodes derivatives as lossy WebP.
	FormatWebP
)

// Ext returns the file extension for the format, including the dot.
func (f Format) Ext() string {
	if f == FormatWebP {
		return ".webp"
	}
	return ".jpg"
}

// String returns a stable name for logs.
func (f Format) String() string {
	if f == FormatWebP {
		return "webp"
	}
	return "jpeg"
}

// CategorySpec carries the encode parameters of one enabled derivative
// category. Quality is the configured (starting) encode quality; MinQuality
// is the worst acceptable quality for the adaptive search. TargetPixels
// bounds total pixel count for compressed categories (0 = no resize).
// MaxFileBytes, when non-zero, is a secondary size ceiling enforced by a
// bounded quality search.
type CategorySpec struct {
	Category     Category
	Format       Format
	Quality      int
	MinQuality   int
	TargetPixels int
	MaxFileBytes int64
}

// Defaults mirroring the folder layout's intent: optimized categories encode
// at native resolution, compressed categories resize to ~2 megapixels.
const (
	DefaultOptimizedQuality       = 90
	DefaultCompressedQuality      = 60
	DefaultCompressedTargetPixels = 2_000_000
	DefaultMinQuality             = 30
)

// DefaultCategories returns the four standard derivative categories with
// their default encode parameters.
func DefaultCategories() []CategorySpec {
	return []CategorySpec{
		{Category: CategoryOptimizedJPEG, Format: FormatJPEG, Quality: DefaultOptimizedQuality, MinQuality: DefaultMinQuality},
		{Category: CategoryOptimizedWebP, Format: FormatWebP, Quality: DefaultOptimizedQuality, MinQuality: DefaultMinQuality},
		{Category: CategoryCompressedJPEG, Format: FormatJPEG, Quality: DefaultCompressedQuality, MinQuality: DefaultMinQuality, TargetPixels: DefaultCompressedTargetPixels},
		{Category: CategoryCompressedWebP, Format: FormatWebP, Quality: DefaultCompressedQuality, MinQuality: DefaultMinQuality, TargetPixels: DefaultCompressedTargetPixels},
	}
}

// Branding carries the delivery-facing identity written into the package
// README. All fields are optional.
type Branding struct {
	CompanyName  string
	Website      string
	SupportEmail string
}

// Spec is the immutable input of one packaging job.
type Spec struct {
	// SourceDir is the directory holding the shoot's source images.
	SourceDir string
	// OutputParent is the directory under which the delivery folder is created.
	OutputParent string
	// BaseName names the delivery folder and seeds every derivative filename.
	// Empty defaults to the source directory's name.
	BaseName string
	// Recursive scans the source tree instead of the top level only.
	Recursive bool

	OriginalsAction OriginalsAction
	MetadataPolicy  MetadataPolicy
	Categories      []CategorySpec
	Layout          Layout

	// IncludeRaw adds camera RAW files found in the source to the delivery.
	IncludeRaw bool
	// RawAction disposes RAW files; OriginalsSkipExport is not valid here,
	// use IncludeRaw=false instead.
	RawAction OriginalsAction

	CreateArchives bool
	DryRun         bool
	// Workers bounds the worker pool; 0 resolves to available parallelism,
	// 1 forces strictly sequential execution.
	Workers int

	// WriteReadme writes the client-facing delivery README at the output root.
	WriteReadme bool
	Branding    Branding
}

// OutputRoot returns the delivery folder for this job.
func (s *Spec) OutputRoot() string {
	return filepath.Join(s.OutputParent, s.BaseName)
}

// CategoryEnabled reports whether a derivative category is in the enabled set.
func (s *Spec) CategoryEnabled(c Category) bool {
	for _, cs := range s.Categories {
		if cs.Category == c {
			return true
		}
	}
	return false
}

// Validate normalizes paths, fills defaulted fields, and rejects specs that
// cannot produce a coherent delivery. It is the only place a Spec is mutated.
func (s *Spec) Validate() error {
	if strings.TrimSpace(s.SourceDir) == "" {
		return fmt.Errorf("source directory is required")
	}
	if strings.TrimSpace(s.OutputParent) == "" {
		return fmt.Errorf("output directory is required")
	}

	abs, err := filepath.Abs(s.SourceDir)
	if err != nil {
		return fmt.Errorf("resolve source directory: %w", err)
	}
	s.SourceDir = abs

	abs, err = filepath.Abs(s.OutputParent)
	if err != nil {
		return fmt.Errorf("resolve output directory: %w", err)
	}
	s.OutputParent = abs

	if s.BaseName == "" {
		s.BaseName = filepath.Base(s.SourceDir)
	}
	if strings.ContainsAny(s.BaseName, `/\`) {
		return fmt.Errorf("base name %q must not contain path separators", s.BaseName)
	}

	if s.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got %d", s.Workers)
	}
	if s.RawAction == OriginalsSkipExport {
		return fmt.Errorf("raw action must be copy, move, or leave; disable raw handling instead")
	}

	if s.Categories == nil {
		s.Categories = DefaultCategories()
	}
	for i := range s.Categories {
		cs := &s.Categories[i]
		if cs.Category == CategoryOriginal || cs.Category == CategoryRaw {
			return fmt.Errorf("category %s is controlled by the originals/raw actions, not the category list", cs.Category)
		}
		if cs.Quality < 1 || cs.Quality > 100 {
			return fmt.Errorf("category %s: quality %d out of range [1,100]", cs.Category, cs.Quality)
		}
		if cs.MinQuality == 0 {
			cs.MinQuality = DefaultMinQuality
		}
		if cs.MinQuality < 1 || cs.MinQuality > cs.Quality {
			return fmt.Errorf("category %s: minimum quality %d out of range [1,%d]", cs.Category, cs.MinQuality, cs.Quality)
		}
		if cs.Category.Compressed() && cs.TargetPixels <= 0 {
			cs.TargetPixels = DefaultCompressedTargetPixels
		}
		if !cs.Category.Compressed() && cs.TargetPixels != 0 {
			return fmt.Errorf("category %s: optimized categories encode at native resolution", cs.Category)
		}
		if cs.MaxFileBytes < 0 {
			return fmt.Errorf("category %s: max file bytes must be >= 0", cs.Category)
		}
	}

	s.Layout.applyDefaults()
	return nil
}
