package runner

import (
	"fmt"
	"strings"

	"photopack/internal/job"
)

// deliveryReadme renders the client-facing README placed at the output root.
// Folder names come from the job layout so renamed folders stay accurate.
func deliveryReadme(spec *job.Spec) string {
	l := spec.Layout
	var b strings.Builder

	fmt.Fprintf(&b, "Thank you for choosing us for your photography needs!\n\n")
	fmt.Fprintf(&b, "Your delivery \"%s\" is organized as follows:\n\n", spec.BaseName)

	if spec.OriginalsAction == job.OriginalsCopy || spec.OriginalsAction == job.OriginalsMove {
		fmt.Fprintf(&b, "%s/\n", l.Originals)
		fmt.Fprintf(&b, "    The untouched source files, exactly as captured. Use these for\n")
		fmt.Fprintf(&b, "    archival and for any future editing.\n\n")
	}

	if spec.CategoryEnabled(job.CategoryOptimizedJPEG) || spec.CategoryEnabled(job.CategoryOptimizedWebP) {
		fmt.Fprintf(&b, "%s/\n", l.Optimized)
		fmt.Fprintf(&b, "    Full-resolution images saved at high quality. Best for printing\n")
		fmt.Fprintf(&b, "    and large displays.\n\n")
	}

	if spec.CategoryEnabled(job.CategoryCompressedJPEG) || spec.CategoryEnabled(job.CategoryCompressedWebP) {
		fmt.Fprintf(&b, "%s/\n", l.Compressed)
		fmt.Fprintf(&b, "    Smaller versions of every image, sized for email, messaging, and\n")
		fmt.Fprintf(&b, "    social media. These load fast and still look great on screens.\n\n")
	}

	if spec.IncludeRaw && spec.RawAction != job.OriginalsLeave {
		fmt.Fprintf(&b, "%s/\n", l.Raw)
		fmt.Fprintf(&b, "    Camera RAW files, for professional editing software. See the\n")
		fmt.Fprintf(&b, "    README inside that folder.\n\n")
	}

	fmt.Fprintf(&b, "Every image is numbered in the same order across all folders, so\n")
	fmt.Fprintf(&b, "photo 012 in one folder is the same shot as photo 012 in another.\n")

	if sig := brandingSignature(spec.Branding); sig != "" {
		b.WriteString("\n")
		b.WriteString(sig)
	}
	return b.String()
}

// rawReadme renders the README placed inside the RAW folder.
func rawReadme(spec *job.Spec) string {
	var b strings.Builder

	fmt.Fprintf(&b, "About these files\n\n")
	fmt.Fprintf(&b, "This folder contains camera RAW files: the unprocessed sensor data\n")
	fmt.Fprintf(&b, "recorded at the moment of capture. They are not regular images and\n")
	fmt.Fprintf(&b, "most photo viewers cannot open them directly.\n\n")
	fmt.Fprintf(&b, "To work with them you need editing software such as Adobe Lightroom,\n")
	fmt.Fprintf(&b, "Capture One, or Darktable. RAW files hold far more detail than the\n")
	fmt.Fprintf(&b, "finished images, which makes them ideal for heavy retouching or\n")
	fmt.Fprintf(&b, "exposure recovery.\n\n")
	fmt.Fprintf(&b, "They keep their original camera filenames and are not part of the\n")
	fmt.Fprintf(&b, "numbered sequence used in the other folders.\n")

	if sig := brandingSignature(spec.Branding); sig != "" {
		b.WriteString("\n")
		b.WriteString(sig)
	}
	return b.String()
}

func brandingSignature(br job.Branding) string {
	var lines []string
	if br.CompanyName != "" {
		lines = append(lines, br.CompanyName)
	}
	if br.Website != "" {
		lines = append(lines, br.Website)
	}
	if br.SupportEmail != "" {
		lines = append(lines, "Questions? "+br.SupportEmail)
	}
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}
