package commands

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/RaphaelManke/wing-test-explorer/internal/config"
	"github.com/RaphaelManke/wing-test-explorer/internal/discovery"
	"github.com/RaphaelManke/wing-test-explorer/internal/tree"
	"github.com/RaphaelManke/wing-test-explorer/internal/ui"
	"github.com/RaphaelManke/wing-test-explorer/internal/watch"
)

// ExploreCommand handles the explore command
type ExploreCommand struct {
	config     *config.Config
	scanner    *discovery.Scanner
	filter     *discovery.Filter
	reconciler *tree.Reconciler
	tree       *tree.Tree
	bridge     *watch.Bridge
	explorer   *ui.Explorer
	log        zerolog.Logger
}

// NewExploreCommand creates a new ExploreCommand
func NewExploreCommand(
	cfg *config.Config,
	scanner *discovery.Scanner,
	filter *discovery.Filter,
	reconciler *tree.Reconciler,
	t *tree.Tree,
	bridge *watch.Bridge,
	explorer *ui.Explorer,
	log zerolog.Logger,
) *ExploreCommand {
	return &ExploreCommand{
		config:     cfg,
		scanner:    scanner,
		filter:     filter,
		reconciler: reconciler,
		tree:       t,
		bridge:     bridge,
		explorer:   explorer,
		log:        log,
	}
}

// Execute runs the command
func (ec *ExploreCommand) Execute(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	scanPath := ec.config.GetScanPath()
	ec.tree.AddWorkspace(scanPath)

	files, err := ec.scanner.Scan(scanPath)
	if err != nil {
		return err
	}
	for _, path := range files {
		ec.reconciler.ResolveOnce(path)
	}

	if err := ec.bridge.Start(ctx); err != nil {
		return err
	}

	return ec.explorer.Run(ctx)
}
