package commands

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/RaphaelManke/wing-test-explorer/internal/config"
	"github.com/RaphaelManke/wing-test-explorer/internal/discovery"
	"github.com/RaphaelManke/wing-test-explorer/internal/domain"
	"github.com/RaphaelManke/wing-test-explorer/internal/storage"
	"github.com/RaphaelManke/wing-test-explorer/internal/tree"
	"github.com/RaphaelManke/wing-test-explorer/internal/ui"
)

// ListCommand handles the list command
type ListCommand struct {
	config     *config.Config
	scanner    *discovery.Scanner
	filter     *discovery.Filter
	reconciler *tree.Reconciler
	tree       *tree.Tree
	storage    storage.Storage
	formatter  *ui.Formatter
}

// NewListCommand creates a new ListCommand
func NewListCommand(
	cfg *config.Config,
	scanner *discovery.Scanner,
	filter *discovery.Filter,
	reconciler *tree.Reconciler,
	t *tree.Tree,
	st storage.Storage,
	formatter *ui.Formatter,
) *ListCommand {
	return &ListCommand{
		config:     cfg,
		scanner:    scanner,
		filter:     filter,
		reconciler: reconciler,
		tree:       t,
		storage:    st,
		formatter:  formatter,
	}
}

// Execute runs the command
func (lc *ListCommand) Execute(cmd *cobra.Command, args []string) error {
	scanPath := lc.config.GetScanPath()
	lc.tree.AddWorkspace(scanPath)

	paths, err := lc.scanner.Scan(scanPath)
	if err != nil {
		return err
	}
	paths = lc.filter.FilterByName(paths, lc.config.Flags.NameFilter)

	if len(paths) == 0 {
		color.Yellow("No source files found")
		return nil
	}

	var files []*domain.SourceFile
	for _, path := range paths {
		files = append(files, lc.reconciler.ResolveOnce(path))
	}

	// Mark files that failed in the last persisted run, when one exists.
	failedPaths := make(map[string]struct{})
	if output, err := lc.storage.Load(); err == nil {
		for _, failure := range output.Failures {
			failedPaths[failure.FilePath] = struct{}{}
		}
	}

	lc.formatter.PrintTestList(files, lc.config.Flags.Cases, failedPaths)
	return nil
}
