package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/schollz/progressbar/v3"
)

// Progress renders a terminal progress bar for entry evaluation.
// It satisfies audit.Progress.
type Progress struct {
	bar *progressbar.ProgressBar
}

// NewProgress creates a progress bar for total entries written to w.
func NewProgress(w io.Writer, total int) *Progress {
	if w == nil {
		w = os.Stderr
	}

	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Evaluating entries...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			if _, err := fmt.Fprintln(w); err != nil {
				slog.Warn("Failed to write newline after progress bar", "error", err)
			}
		}),
	)

	return &Progress{bar: bar}
}

// Add advances the bar by n entries.
func (p *Progress) Add(n int) error {
	return p.bar.Add(n)
}

// State reports how many entries have been counted so far.
func (p *Progress) State() int64 {
	return p.bar.State().CurrentNum
}
