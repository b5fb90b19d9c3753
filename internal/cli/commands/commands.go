package commands

import (
	"github.com/spf13/cobra"

	"github.com/RaphaelManke/wing-test-explorer/internal/cli"
	"github.com/RaphaelManke/wing-test-explorer/internal/config"
	"github.com/RaphaelManke/wing-test-explorer/internal/discovery"
	"github.com/RaphaelManke/wing-test-explorer/internal/execution"
	"github.com/RaphaelManke/wing-test-explorer/internal/logging"
	"github.com/RaphaelManke/wing-test-explorer/internal/parser"
	"github.com/RaphaelManke/wing-test-explorer/internal/storage"
	"github.com/RaphaelManke/wing-test-explorer/internal/tree"
	"github.com/RaphaelManke/wing-test-explorer/internal/ui"
	"github.com/RaphaelManke/wing-test-explorer/internal/watch"
)

// Commands holds all CLI commands
type Commands struct {
	Run      *RunCommand
	List     *ListCommand
	Watch    *WatchCommand
	Explore  *ExploreCommand
	Failures *FailuresCommand
}

// NewCommands creates all commands with dependencies
func NewCommands(cfg *config.Config) *Commands {
	log := logging.New(cfg.GetLogLevel())

	scanner := discovery.NewScanner(cfg.Extension, cfg.PathsToIgnore, nil)
	filter := discovery.NewFilter()
	extractor := discovery.NewExtractor()

	model := tree.New()
	coverage := tree.NewCoverage()
	reconciler := tree.NewReconciler(model, extractor, coverage, log)

	runner := execution.NewRunner(cfg, log)
	selector := execution.NewSelector()
	wingParser := parser.NewWingParser()
	orchestrator := execution.NewOrchestrator(model, runner, wingParser, selector, coverage, log)

	bridge := watch.NewBridge(scanner, reconciler, model, cfg.Debounce, log)
	jsonStorage := storage.NewJSONStorage(cfg)
	formatter := ui.NewFormatter(cfg)
	explorer := ui.NewExplorer(cfg, model, reconciler, scanner, orchestrator, bridge, log)
	failureViewer := ui.NewFailureViewer(cfg)

	return &Commands{
		Run:      NewRunCommand(cfg, scanner, filter, reconciler, model, orchestrator, jsonStorage, formatter, log),
		List:     NewListCommand(cfg, scanner, filter, reconciler, model, jsonStorage, formatter),
		Watch:    NewWatchCommand(cfg, scanner, filter, reconciler, model, orchestrator, bridge, formatter, log),
		Explore:  NewExploreCommand(cfg, scanner, filter, reconciler, model, bridge, explorer, log),
		Failures: NewFailuresCommand(cfg, jsonStorage, failureViewer),
	}
}

// Register registers all commands with cobra
func (c *Commands) Register(rootCmd *cobra.Command, flags *cli.Flags, cfg *config.Config) {
	applyFlags := func(cmd *cobra.Command, args []string) error {
		cfg.Flags = flags.ToConfigFlags()
		// The logger was built before flag parsing; the level is global, so
		// applying it here makes --log-level effective for the command run.
		logging.SetLevel(cfg.GetLogLevel())
		return nil
	}

	runCmd := &cobra.Command{
		Use:     "run",
		Short:   "Run the tests of every tracked source file",
		Long:    "Discover test declarations in tracked source files, execute them through the external runner and print the results",
		RunE:    c.Run.Execute,
		PreRunE: applyFlags,
	}
	runCmd.Flags().StringVarP(&flags.Path, "path", "p", "", "Directory to scan for source files")
	runCmd.Flags().StringVarP(&flags.NameFilter, "filter", "f", "", "Filter files by name pattern (supports wildcards, e.g. '*math.w' or '*calc*')")
	rootCmd.AddCommand(runCmd)

	listCmd := &cobra.Command{
		Use:     "list",
		Short:   "List discovered tests",
		Long:    "Scan for tracked source files and list their test declarations without executing them",
		RunE:    c.List.Execute,
		PreRunE: applyFlags,
	}
	listCmd.Flags().StringVarP(&flags.Path, "path", "p", "", "Directory to scan for source files")
	listCmd.Flags().StringVarP(&flags.NameFilter, "filter", "f", "", "Filter files by name pattern")
	listCmd.Flags().BoolVarP(&flags.Cases, "cases", "c", false, "List test cases instead of just files")
	rootCmd.AddCommand(listCmd)

	watchCmd := &cobra.Command{
		Use:     "watch",
		Short:   "Run tests continuously on file changes",
		Long:    "Run all tests once, then re-run the tests of each source file whenever it changes, until interrupted",
		RunE:    c.Watch.Execute,
		PreRunE: applyFlags,
	}
	watchCmd.Flags().StringVarP(&flags.Path, "path", "p", "", "Directory to scan for source files")
	watchCmd.Flags().StringVarP(&flags.NameFilter, "filter", "f", "", "Filter files by name pattern")
	rootCmd.AddCommand(watchCmd)

	exploreCmd := &cobra.Command{
		Use:     "explore",
		Short:   "Open the interactive test explorer",
		Long:    "Browse the file/test tree, run single tests or files, and toggle continuous runs from an interactive TUI",
		RunE:    c.Explore.Execute,
		PreRunE: applyFlags,
	}
	exploreCmd.Flags().StringVarP(&flags.Path, "path", "p", "", "Directory to scan for source files")
	rootCmd.AddCommand(exploreCmd)

	failuresCmd := &cobra.Command{
		Use:     "failures",
		Short:   "View failures of the last run",
		Long:    "Display the persisted test failures from the last run in an interactive viewer",
		RunE:    c.Failures.Execute,
		PreRunE: applyFlags,
	}
	rootCmd.AddCommand(failuresCmd)

	rootCmd.PersistentFlags().StringVar(&flags.LogLevel, "log-level", "", "Log verbosity: info, verbose or debug")
}
