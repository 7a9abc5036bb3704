package ui

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"osptest/internal/domain"
	"osptest/internal/xunit"
)

// ProgressBar renders case completions of one or more runners. It is a
// Listener and may be shared by the runners of a pool.
type ProgressBar struct {
	xunit.NopListener

	mu      sync.Mutex
	bar     *progressbar.ProgressBar
	success int
	failed  int
	notRun  int
}

// NewProgressBar creates a new progress bar for count declared cases
func NewProgressBar(count int) *ProgressBar {
	return newProgressBar(count, os.Stderr)
}

func newProgressBar(count int, w io.Writer) *ProgressBar {
	bar := progressbar.NewOptions(count,
		progressbar.OptionSetDescription(describe(0, 0, 0)),
		progressbar.OptionSetWidth(50),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        color.CyanString("█"),
			SaucerHead:    color.CyanString("█"),
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWriter(w),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(w, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
	)

	return &ProgressBar{bar: bar}
}

func describe(success, failed, notRun int) string {
	desc := color.CyanString("Running tests: ") +
		color.GreenString("[success: %d", success) +
		" | " +
		color.RedString("failed: %d", failed)
	if notRun > 0 {
		desc += " | " + color.YellowString("not run: %d", notRun)
	}
	return desc + "]"
}

// CaseCompleted advances the bar by one case
func (p *ProgressBar) CaseCompleted(rec domain.CaseRecord) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch rec.Outcome {
	case domain.OutcomeSuccess:
		p.success++
	case domain.OutcomeFail, domain.OutcomeError:
		p.failed++
	default:
		p.notRun++
	}
	_ = p.bar.Add(1)
	p.bar.Describe(describe(p.success, p.failed, p.notRun))
}

// Counts returns the numbers seen so far
func (p *ProgressBar) Counts() (success, failed, notRun int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.success, p.failed, p.notRun
}

// Finish completes the progress bar
func (p *ProgressBar) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	_ = p.bar.Finish()
}
