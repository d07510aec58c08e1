package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"photopack/internal/fsio"
	"photopack/internal/job"
)

const timeLayout = "2006-01-02 15:04:05"

// RenderLog renders the job log as plain text: a header identifying the run,
// every recorded entry in order, and a closing summary block.
func (r *Recorder) RenderLog(s *Summary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "photopack delivery log\n")
	fmt.Fprintf(&b, "job:      %s\n", s.JobID)
	fmt.Fprintf(&b, "delivery: %s\n", s.BaseName)
	fmt.Fprintf(&b, "output:   %s\n", s.OutputRoot)
	fmt.Fprintf(&b, "started:  %s\n", s.Started.Format(timeLayout))
	if s.DryRun {
		fmt.Fprintf(&b, "mode:     DRY RUN (no files were written)\n")
	}
	b.WriteString("\n")

	r.mu.Lock()
	for _, e := range r.entries {
		fmt.Fprintf(&b, "%s [%s] %s\n", e.at.Format(timeLayout), e.level, e.text)
	}
	r.mu.Unlock()

	b.WriteString("\n")
	fmt.Fprintf(&b, "finished: %s (%s)\n", s.Finished.Format(timeLayout), s.Elapsed.Round(10*time.Millisecond))
	fmt.Fprintf(&b, "files:    %d\n", s.TotalFiles)

	cats := make([]job.Category, 0, len(s.Categories))
	for c := range s.Categories {
		cats = append(cats, c)
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i] < cats[j] })
	for _, c := range cats {
		cc := s.Categories[c]
		fmt.Fprintf(&b, "  %-16s %d succeeded, %d skipped, %d failed\n", c.String()+":", cc.Succeeded, cc.Skipped, cc.Failed)
	}

	if len(s.Archives) > 0 {
		fmt.Fprintf(&b, "archives: %d\n", len(s.Archives))
	}
	fmt.Fprintf(&b, "warnings: %d\n", len(s.Warnings))
	fmt.Fprintf(&b, "errors:   %d\n", len(s.Errors))

	return b.String()
}

// WriteLog writes the rendered job log to path through the guard.
func (r *Recorder) WriteLog(g *fsio.Guard, path string, s *Summary) error {
	return g.WriteFile(path, []byte(r.RenderLog(s)), 0o644)
}
