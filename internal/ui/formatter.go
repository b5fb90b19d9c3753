package ui

import (
	"fmt"
	"path/filepath"

	"github.com/fatih/color"

	"github.com/RaphaelManke/wing-test-explorer/internal/config"
	"github.com/RaphaelManke/wing-test-explorer/internal/domain"
	"github.com/RaphaelManke/wing-test-explorer/internal/execution"
)

// Formatter prints file/test trees and run summaries to the terminal
type Formatter struct {
	config *config.Config
}

// NewFormatter creates a new Formatter
func NewFormatter(cfg *config.Config) *Formatter {
	return &Formatter{config: cfg}
}

// PrintTestList prints the discovered files as a tree, optionally with their
// test cases. failedPaths is optional; files in this set are marked with [F]
// in red (from the last persisted run).
func (f *Formatter) PrintTestList(files []*domain.SourceFile, showCases bool, failedPaths map[string]struct{}) {
	color.Green("Found %d source file(s):\n", len(files))

	for i, file := range files {
		isLastFile := i == len(files)-1

		relPath, err := filepath.Rel(f.config.ProjectPath, file.Path)
		if err != nil {
			relPath = file.Path
		}

		failMarker := ""
		if _, ok := failedPaths[file.Path]; ok {
			failMarker = " " + color.RedString("[F]")
		}

		connector := "├── "
		if isLastFile {
			connector = "└── "
		}
		color.Cyan("%s%s%s", connector, relPath, failMarker)

		if !showCases {
			continue
		}

		childPrefix := "│   "
		if isLastFile {
			childPrefix = "    "
		}

		if file.Err != nil {
			fmt.Printf("%s└── %s\n", childPrefix, color.RedString("(error: %v)", file.Err))
			continue
		}
		if !file.HasTests {
			fmt.Printf("%s└── %s\n", childPrefix, color.YellowString("(no tests found)"))
			continue
		}

		for j, tc := range file.Tests {
			caseConnector := "├── "
			if j == len(file.Tests)-1 {
				caseConnector = "└── "
			}
			fmt.Printf("%s%s%s %s\n", childPrefix, caseConnector, color.YellowString(tc.Name), fmt.Sprintf("(line %d)", tc.Range.Start.Line+1))
		}
	}
}

// PrintRunSummary prints per-test outcomes and the aggregate stats of a run.
func (f *Formatter) PrintRunSummary(summary *execution.RunSummary) {
	fmt.Println()
	for _, t := range summary.Tests {
		relPath, err := filepath.Rel(f.config.ProjectPath, t.File)
		if err != nil {
			relPath = t.File
		}
		label := fmt.Sprintf("%s » %s", relPath, t.Name)

		switch t.Status {
		case domain.TestStatusPassed:
			color.Green("✓ %s (%.1fs)", label, t.Duration.Seconds())
		case domain.TestStatusFailed:
			color.Red("✗ %s (%.1fs)", label, t.Duration.Seconds())
			if t.Diagnostic != nil {
				color.Red("    %s", t.Diagnostic.Message)
			}
		case domain.TestStatusSkipped:
			color.Yellow("- %s (skipped)", label)
		}
	}

	fmt.Println()
	stats := summary.Stats
	if stats.Failed == 0 && stats.Skipped == 0 {
		color.Green("✓ %d test(s) passed in %.1fs", stats.Passed, summary.Duration.Seconds())
	} else if stats.Failed == 0 {
		color.Yellow("%d passed, %d skipped in %.1fs", stats.Passed, stats.Skipped, summary.Duration.Seconds())
	} else {
		color.Red("✗ %d of %d test(s) failed in %.1fs", stats.Failed, stats.Total, summary.Duration.Seconds())
	}
}
