package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/RaphaelManke/wing-test-explorer/internal/config"
	"github.com/RaphaelManke/wing-test-explorer/internal/discovery"
	"github.com/RaphaelManke/wing-test-explorer/internal/domain"
	"github.com/RaphaelManke/wing-test-explorer/internal/execution"
	"github.com/RaphaelManke/wing-test-explorer/internal/storage"
	"github.com/RaphaelManke/wing-test-explorer/internal/tree"
	"github.com/RaphaelManke/wing-test-explorer/internal/ui"
)

// RunCommand handles the run command
type RunCommand struct {
	config       *config.Config
	scanner      *discovery.Scanner
	filter       *discovery.Filter
	reconciler   *tree.Reconciler
	tree         *tree.Tree
	orchestrator *execution.Orchestrator
	storage      storage.Storage
	formatter    *ui.Formatter
	log          zerolog.Logger
}

// NewRunCommand creates a new RunCommand
func NewRunCommand(
	cfg *config.Config,
	scanner *discovery.Scanner,
	filter *discovery.Filter,
	reconciler *tree.Reconciler,
	t *tree.Tree,
	orchestrator *execution.Orchestrator,
	st storage.Storage,
	formatter *ui.Formatter,
	log zerolog.Logger,
) *RunCommand {
	return &RunCommand{
		config:       cfg,
		scanner:      scanner,
		filter:       filter,
		reconciler:   reconciler,
		tree:         t,
		orchestrator: orchestrator,
		storage:      st,
		formatter:    formatter,
		log:          log,
	}
}

// Execute runs the command
func (rc *RunCommand) Execute(cmd *cobra.Command, args []string) error {
	scanPath := rc.config.GetScanPath()
	rc.tree.AddWorkspace(scanPath)

	files, err := rc.scanner.Scan(scanPath)
	if err != nil {
		return err
	}
	files = rc.filter.FilterByName(files, rc.config.Flags.NameFilter)

	total := 0
	for _, path := range files {
		f := rc.reconciler.ResolveOnce(path)
		total += len(f.Tests)
	}

	if total == 0 {
		color.Yellow("No tests to execute")
		return nil
	}

	progress := ui.NewProgressBar(total)
	rc.orchestrator.SetReporter(progress)

	summary, err := rc.orchestrator.Run(cmd.Context(), domain.RunRequest{})
	if err != nil {
		return err
	}
	progress.Finish()

	if err := rc.storage.Save(summary.Stats, summary.Failures, summary.Duration); err != nil {
		return fmt.Errorf("failed to save test results: %w", err)
	}

	rc.formatter.PrintRunSummary(summary)
	if summary.Stats.Failed > 0 {
		return fmt.Errorf("%d test(s) failed", summary.Stats.Failed)
	}
	return nil
}
