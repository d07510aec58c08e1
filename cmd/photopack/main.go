package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"sort"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"photopack/internal/derive"
	"photopack/internal/job"
	"photopack/internal/logging"
	"photopack/internal/metrics"
	"photopack/internal/report"
	"photopack/internal/runner"
)

// Set at build time via -ldflags.
var (
	version = "dev"
	commit  = "none"
)

// CLI flags
var (
	sourceFlag    string
	outputFlag    string
	nameFlag      string
	recursiveFlag bool

	originalsFlag string
	metadataFlag  string
	rawFlag       bool
	rawActionFlag string

	optimizedJPGFlag   bool
	optimizedWebPFlag  bool
	compressedJPGFlag  bool
	compressedWebPFlag bool

	optimizedQualityFlag  int
	compressedQualityFlag int
	targetPixelsFlag      int
	minQualityFlag        int
	maxBytesFlag          int64

	zipFlag     bool
	readmeFlag  bool
	dryRunFlag  bool
	workersFlag int
	verboseFlag bool

	companyFlag string
	websiteFlag string
	supportFlag string
)

var rootCmd = &cobra.Command{
	Use:   "photopack",
	Short: "Package a photo shoot into a client delivery folder",
	Long: `photopack turns a folder of source images into a structured client
delivery: exported originals, optimized full-resolution derivatives,
compressed web-sized derivatives, optional RAW export, a README, zip
archives, and a job log.

Every image keeps the same sequence number across all folders, so photo
012 in one folder is the same shot as photo 012 in another.

Examples:
  photopack -s ./shoot -o ./deliveries -n "Summer-Wedding"
  photopack -s ./shoot -o ./out --originals move --metadata both
  photopack -s ./shoot -o ./out --dry-run
  photopack -s ./shoot -o ./out --raw --raw-action copy --zip=false`,
	Run: runMain,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("photopack %s (%s, %s)\n", version, commit, runtime.Version())
	},
}

func init() {
	f := rootCmd.Flags()
	f.StringVarP(&sourceFlag, "source", "s", "", "Directory holding the shoot's source images (required)")
	f.StringVarP(&outputFlag, "output", "o", "", "Directory under which the delivery folder is created (required)")
	f.StringVarP(&nameFlag, "name", "n", "", "Delivery name; seeds the folder and every derivative filename (default: source dir name)")
	f.BoolVarP(&recursiveFlag, "recursive", "r", false, "Scan the source tree instead of the top level only")

	f.StringVar(&originalsFlag, "originals", "copy", "Originals disposition: copy, move, leave, or skip")
	f.StringVar(&metadataFlag, "metadata", "keep", "Metadata policy for derivatives: keep, strip_all, date, camera, or both")
	f.BoolVar(&rawFlag, "raw", false, "Include camera RAW files in the delivery")
	f.StringVar(&rawActionFlag, "raw-action", "copy", "RAW disposition: copy, move, or leave")

	f.BoolVar(&optimizedJPGFlag, "optimized-jpg", true, "Generate full-resolution JPEG derivatives")
	f.BoolVar(&optimizedWebPFlag, "optimized-webp", true, "Generate full-resolution WebP derivatives")
	f.BoolVar(&compressedJPGFlag, "compressed-jpg", true, "Generate web-sized JPEG derivatives")
	f.BoolVar(&compressedWebPFlag, "compressed-webp", true, "Generate web-sized WebP derivatives")

	f.IntVar(&optimizedQualityFlag, "optimized-quality", job.DefaultOptimizedQuality, "Encode quality for optimized categories (1-100)")
	f.IntVar(&compressedQualityFlag, "compressed-quality", job.DefaultCompressedQuality, "Base encode quality for compressed categories (1-100)")
	f.IntVar(&targetPixelsFlag, "target-pixels", job.DefaultCompressedTargetPixels, "Pixel budget for compressed categories")
	f.IntVar(&minQualityFlag, "min-quality", job.DefaultMinQuality, "Quality floor for the adaptive search")
	f.Int64Var(&maxBytesFlag, "max-bytes", 0, "Byte ceiling per compressed derivative (0 = no ceiling)")

	f.BoolVar(&zipFlag, "zip", true, "Create one zip archive per delivery folder")
	f.BoolVar(&readmeFlag, "readme", true, "Write the client-facing README into the delivery")
	f.BoolVar(&dryRunFlag, "dry-run", false, "Log every action without touching the filesystem")
	f.IntVar(&workersFlag, "workers", 0, "Worker pool size (0 = auto, 1 = sequential)")
	f.BoolVarP(&verboseFlag, "verbose", "v", false, "Print a line per file outcome")

	f.StringVar(&companyFlag, "company", "", "Company name printed in the README")
	f.StringVar(&websiteFlag, "website", "", "Website printed in the README")
	f.StringVar(&supportFlag, "support-email", "", "Support contact printed in the README")

	rootCmd.MarkFlagRequired("source")
	rootCmd.MarkFlagRequired("output")

	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(2)
	}
}

func runMain(cmd *cobra.Command, args []string) {
	metrics.InitializeMetrics()
	metrics.SetAppInfo(version, commit, runtime.Version())

	spec, err := buildSpec()
	if err != nil {
		exitWithError(err)
	}

	if err := derive.InitVips(); err != nil {
		logging.Debug("vips unavailable, large-image fast path disabled: %v", err)
	}
	defer derive.ShutdownVips()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	r, err := runner.New(spec)
	if err != nil {
		exitWithError(err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for e := range r.Events() {
			printEvent(e)
		}
	}()

	summary, err := r.Run(ctx)
	<-done
	if err != nil {
		exitWithError(err)
	}

	printSummary(spec, summary)
	if summary.Failed() {
		os.Exit(1)
	}
}

// buildSpec maps the parsed flags onto a job spec. Validation happens inside
// the runner; this only translates names into their enum values.
func buildSpec() (*job.Spec, error) {
	action, err := job.ParseOriginalsAction(originalsFlag)
	if err != nil {
		return nil, err
	}
	policy, err := job.ParseMetadataPolicy(metadataFlag)
	if err != nil {
		return nil, err
	}
	rawAction, err := job.ParseOriginalsAction(rawActionFlag)
	if err != nil {
		return nil, err
	}

	var categories []job.CategorySpec
	add := func(c job.Category, f job.Format, quality, targetPixels int, maxBytes int64) {
		categories = append(categories, job.CategorySpec{
			Category:     c,
			Format:       f,
			Quality:      quality,
			MinQuality:   minQualityFlag,
			TargetPixels: targetPixels,
			MaxFileBytes: maxBytes,
		})
	}
	if optimizedJPGFlag {
		add(job.CategoryOptimizedJPEG, job.FormatJPEG, optimizedQualityFlag, 0, 0)
	}
	if optimizedWebPFlag {
		add(job.CategoryOptimizedWebP, job.FormatWebP, optimizedQualityFlag, 0, 0)
	}
	if compressedJPGFlag {
		add(job.CategoryCompressedJPEG, job.FormatJPEG, compressedQualityFlag, targetPixelsFlag, maxBytesFlag)
	}
	if compressedWebPFlag {
		add(job.CategoryCompressedWebP, job.FormatWebP, compressedQualityFlag, targetPixelsFlag, maxBytesFlag)
	}
	if len(categories) == 0 && action != job.OriginalsCopy && action != job.OriginalsMove {
		return nil, fmt.Errorf("nothing to deliver: all derivative categories disabled and originals are not exported")
	}

	return &job.Spec{
		SourceDir:       sourceFlag,
		OutputParent:    outputFlag,
		BaseName:        nameFlag,
		Recursive:       recursiveFlag,
		OriginalsAction: action,
		MetadataPolicy:  policy,
		Categories:      categories,
		IncludeRaw:      rawFlag,
		RawAction:       rawAction,
		CreateArchives:  zipFlag,
		DryRun:          dryRunFlag,
		Workers:         workersFlag,
		WriteReadme:     readmeFlag,
		Branding: job.Branding{
			CompanyName:  companyFlag,
			Website:      websiteFlag,
			SupportEmail: supportFlag,
		},
	}, nil
}

func printEvent(e report.Event) {
	switch e.Kind {
	case report.EventScan, report.EventArchive:
		fmt.Println(e.Message)
	case report.EventWarning:
		if e.Outcome != nil {
			fmt.Printf("FAILED %s #%03d %s (%s)\n", e.Outcome.Category, e.Outcome.Seq, e.Outcome.SourcePath, e.Outcome.Reason)
		} else {
			fmt.Println(e.Message)
		}
	case report.EventOutcome:
		if verboseFlag && e.Outcome != nil {
			o := e.Outcome
			if o.OutputPath != "" {
				fmt.Printf("%s #%03d -> %s\n", o.Category, o.Seq, o.OutputPath)
			} else {
				fmt.Printf("%s #%03d %s (%s)\n", o.Category, o.Seq, o.Status, o.Reason)
			}
		}
	}
}

func printSummary(spec *job.Spec, s *report.Summary) {
	fmt.Println()
	if s.DryRun {
		fmt.Println("DRY RUN: no files were written.")
	}
	fmt.Printf("Delivery %q: %d source files in %s\n", s.BaseName, s.TotalFiles, s.Elapsed.Round(10*time.Millisecond))

	cats := make([]job.Category, 0, len(s.Categories))
	for c := range s.Categories {
		cats = append(cats, c)
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i] < cats[j] })
	for _, c := range cats {
		cc := s.Categories[c]
		fmt.Printf("  %-16s %d succeeded, %d skipped, %d failed\n", c.String()+":", cc.Succeeded, cc.Skipped, cc.Failed)
	}

	if len(s.Archives) > 0 {
		fmt.Printf("  archives: %d\n", len(s.Archives))
	}
	for _, w := range s.Warnings {
		fmt.Printf("  warning: %s\n", w)
	}
	for _, e := range s.Errors {
		fmt.Printf("  error: %s\n", e)
	}
	if !s.DryRun {
		fmt.Printf("Output: %s\n", s.OutputRoot)
	}
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, "Error:", err)
	os.Exit(1)
}
