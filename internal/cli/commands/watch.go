package commands

import (
	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/RaphaelManke/wing-test-explorer/internal/config"
	"github.com/RaphaelManke/wing-test-explorer/internal/discovery"
	"github.com/RaphaelManke/wing-test-explorer/internal/domain"
	"github.com/RaphaelManke/wing-test-explorer/internal/execution"
	"github.com/RaphaelManke/wing-test-explorer/internal/tree"
	"github.com/RaphaelManke/wing-test-explorer/internal/ui"
	"github.com/RaphaelManke/wing-test-explorer/internal/watch"
)

// WatchCommand handles the watch command: continuous-run mode on the plain
// terminal.
type WatchCommand struct {
	config       *config.Config
	scanner      *discovery.Scanner
	filter       *discovery.Filter
	reconciler   *tree.Reconciler
	tree         *tree.Tree
	orchestrator *execution.Orchestrator
	bridge       *watch.Bridge
	formatter    *ui.Formatter
	log          zerolog.Logger
}

// NewWatchCommand creates a new WatchCommand
func NewWatchCommand(
	cfg *config.Config,
	scanner *discovery.Scanner,
	filter *discovery.Filter,
	reconciler *tree.Reconciler,
	t *tree.Tree,
	orchestrator *execution.Orchestrator,
	bridge *watch.Bridge,
	formatter *ui.Formatter,
	log zerolog.Logger,
) *WatchCommand {
	return &WatchCommand{
		config:       cfg,
		scanner:      scanner,
		filter:       filter,
		reconciler:   reconciler,
		tree:         t,
		orchestrator: orchestrator,
		bridge:       bridge,
		formatter:    formatter,
		log:          log,
	}
}

// Execute runs the command. It blocks until the context is cancelled
// (Ctrl+C).
func (wc *WatchCommand) Execute(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	scanPath := wc.config.GetScanPath()
	wc.tree.AddWorkspace(scanPath)

	files, err := wc.scanner.Scan(scanPath)
	if err != nil {
		return err
	}
	files = wc.filter.FilterByName(files, wc.config.Flags.NameFilter)
	for _, path := range files {
		wc.reconciler.ResolveOnce(path)
	}

	wc.orchestrator.SetReporter(&summaryPrinter{formatter: wc.formatter})

	// Initial full run, then re-run per changed file.
	if _, err := wc.orchestrator.Run(ctx, domain.RunRequest{}); err != nil {
		return err
	}

	if err := wc.bridge.Start(ctx); err != nil {
		return err
	}
	color.Cyan("Watching for changes (Ctrl+C to stop)...")

	// The bridge already reconciles on change; the continuous loop re-runs
	// the changed file's tests until the context is cancelled.
	wc.orchestrator.Continuous(ctx, wc.bridge.Changes(), wc.reconciler)
	return nil
}

// summaryPrinter prints each finished test as it completes; suited for the
// long-lived watch mode where a progress bar would never finish.
type summaryPrinter struct {
	formatter *ui.Formatter
}

func (p *summaryPrinter) TestEnqueued(t *domain.TestCase) {}
func (p *summaryPrinter) TestStarted(t *domain.TestCase)  {}

func (p *summaryPrinter) TestFinished(t *domain.TestCase) {
	switch t.Status {
	case domain.TestStatusPassed:
		color.Green("✓ %s (%.1fs)", t.Name, t.Duration.Seconds())
	case domain.TestStatusFailed:
		color.Red("✗ %s (%.1fs)", t.Name, t.Duration.Seconds())
		if t.Diagnostic != nil {
			color.Red("    %s", t.Diagnostic.Message)
		}
	case domain.TestStatusSkipped:
		color.Yellow("- %s (skipped)", t.Name)
	}
}
