package ui

import (
	"fmt"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"github.com/RaphaelManke/wing-test-explorer/internal/domain"
)

// ProgressBar renders live run progress. It implements the orchestrator's
// Reporter interface, so finished tests drive the bar directly.
type ProgressBar struct {
	bar *progressbar.ProgressBar

	mu      sync.Mutex
	passed  int
	failed  int
	skipped int
}

// NewProgressBar creates a new progress bar for count tests
func NewProgressBar(count int) *ProgressBar {
	bar := progressbar.NewOptions(count,
		progressbar.OptionSetDescription(describe(0, 0)),
		progressbar.OptionSetWidth(50),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        color.CyanString("█"),
			SaucerHead:    color.CyanString("█"),
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(os.Stderr, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
	)
	return &ProgressBar{bar: bar}
}

func describe(passed, failed int) string {
	return color.CyanString("Running tests: ") +
		color.GreenString("[passed: %d", passed) +
		" | " +
		color.RedString("failed: %d]", failed)
}

// TestEnqueued implements execution.Reporter
func (p *ProgressBar) TestEnqueued(t *domain.TestCase) {}

// TestStarted implements execution.Reporter
func (p *ProgressBar) TestStarted(t *domain.TestCase) {}

// TestFinished advances the bar and updates the pass/fail counts.
func (p *ProgressBar) TestFinished(t *domain.TestCase) {
	p.mu.Lock()
	defer p.mu.Unlock()
	switch t.Status {
	case domain.TestStatusPassed:
		p.passed++
	case domain.TestStatusFailed:
		p.failed++
	case domain.TestStatusSkipped:
		p.skipped++
	}
	p.bar.Set(p.passed + p.failed + p.skipped)
	p.bar.Describe(describe(p.passed, p.failed))
}

// Finish completes the progress bar
func (p *ProgressBar) Finish() {
	p.bar.Finish()
}
