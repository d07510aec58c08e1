package job

import "path/filepath"

// Layout holds the client-facing folder and file names of a delivery
// package. Every name is independently configurable; zero values take the
// standard delivery names.
type Layout struct {
	Originals      string // top-level folder for exported source files
	Raw            string // top-level folder for exported RAW files
	Optimized      string // top-level folder grouping optimized derivatives
	OptimizedJPEG  string // subfolder under Optimized
	OptimizedWebP  string // subfolder under Optimized
	Compressed     string // top-level folder grouping compressed derivatives
	CompressedJPEG string // subfolder under Compressed
	CompressedWebP string // subfolder under Compressed
	Readme         string // delivery README filename at the output root
	RawReadme      string // README filename inside the RAW folder
	LogFile        string // per-job log artifact filename
}

func (l *Layout) applyDefaults() {
	def := func(field *string, value string) {
		if *field == "" {
			*field = value
		}
	}
	def(&l.Originals, "Export Originals")
	def(&l.Raw, "RAW Files")
	def(&l.Optimized, "Optimized Files")
	def(&l.OptimizedJPEG, "Optimized JPGs")
	def(&l.OptimizedWebP, "Optimized WebPs")
	def(&l.Compressed, "Compressed Files")
	def(&l.CompressedJPEG, "Compressed JPGs")
	def(&l.CompressedWebP, "Compressed WebPs")
	def(&l.Readme, "README.txt")
	def(&l.RawReadme, "README.txt")
	def(&l.LogFile, "photopack-run.log")
}

// CategoryDir returns the destination directory of a category relative to
// the job output root.
func (l *Layout) CategoryDir(root string, c Category) string {
	switch c {
	case CategoryOriginal:
		return filepath.Join(root, l.Originals)
	case CategoryRaw:
		return filepath.Join(root, l.Raw)
	case CategoryOptimizedJPEG:
		return filepath.Join(root, l.Optimized, l.OptimizedJPEG)
	case CategoryOptimizedWebP:
		return filepath.Join(root, l.Optimized, l.OptimizedWebP)
	case CategoryCompressedJPEG:
		return filepath.Join(root, l.Compressed, l.CompressedJPEG)
	case CategoryCompressedWebP:
		return filepath.Join(root, l.Compressed, l.CompressedWebP)
	default:
		return root
	}
}

// TopLevelDir returns the archive granularity folder a category belongs to:
// derivative categories archive at their group folder, originals and RAW at
// their own folder.
func (l *Layout) TopLevelDir(root string, c Category) string {
	switch c {
	case CategoryOriginal:
		return filepath.Join(root, l.Originals)
	case CategoryRaw:
		return filepath.Join(root, l.Raw)
	case CategoryOptimizedJPEG, CategoryOptimizedWebP:
		return filepath.Join(root, l.Optimized)
	case CategoryCompressedJPEG, CategoryCompressedWebP:
		return filepath.Join(root, l.Compressed)
	default:
		return root
	}
}
