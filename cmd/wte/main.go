package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/RaphaelManke/wing-test-explorer/internal/cli"
	"github.com/RaphaelManke/wing-test-explorer/internal/cli/commands"
	"github.com/RaphaelManke/wing-test-explorer/internal/config"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:     "wte",
		Short:   "Wing test explorer",
		Long:    `Discover test declarations in Wing source files, run them through the wing CLI and explore the results. Supports one-shot runs, continuous runs on file changes and an interactive explorer.`,
		Version: version,
	}

	// Create initial config with defaults
	cfg := config.New()

	// Create flags struct (will be populated by command flags)
	var flags cli.Flags

	// Create commands with dependencies
	cmds := commands.NewCommands(cfg)

	// Register all commands
	cmds.Register(rootCmd, &flags, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
