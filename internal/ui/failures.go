package ui

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/RaphaelManke/wing-test-explorer/internal/config"
	"github.com/RaphaelManke/wing-test-explorer/internal/domain"
)

// FailureViewer displays the persisted failures of the last run in an
// interactive TUI: a list on the left, the failure excerpt on the right.
type FailureViewer struct {
	config *config.Config
}

// NewFailureViewer creates a new FailureViewer
func NewFailureViewer(cfg *config.Config) *FailureViewer {
	return &FailureViewer{config: cfg}
}

// View displays the failures of a run
func (v *FailureViewer) View(results *domain.RunOutput) error {
	if len(results.Failures) == 0 {
		color.Green("✓ No test failures in the last run!")
		return nil
	}

	app := tview.NewApplication()

	list := tview.NewList().
		ShowSecondaryText(false).
		SetHighlightFullLine(true)
	list.SetSelectedTextColor(tcell.ColorWhite).
		SetSelectedBackgroundColor(tcell.ColorDarkCyan)

	for i, failure := range results.Failures {
		list.AddItem(fmt.Sprintf("[yellow]%d.[white] %s", i+1, failure.TestName), "", 0, nil)
	}

	details := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true).
		SetWordWrap(true)

	header := tview.NewTextView().
		SetTextAlign(tview.AlignCenter).
		SetDynamicColors(true).
		SetText(fmt.Sprintf(" %d test failure(s) from %s | ↑↓ navigate, Ctrl+C exit ",
			len(results.Failures), results.Meta.Timestamp))

	showDetails := func(index int) {
		if index < 0 || index >= len(results.Failures) {
			return
		}
		failure := results.Failures[index]
		details.Clear()
		fmt.Fprintf(details, "[red]✗ %s[white]\n\n", failure.TestName)
		fmt.Fprintf(details, "[cyan]File:[white] %s\n", failure.FilePath)
		if failure.Line > 0 {
			fmt.Fprintf(details, "[yellow]Line:[white] %d\n", failure.Line+1)
		}
		if failure.Message != "" {
			fmt.Fprintf(details, "\n%s\n", tview.Escape(failure.Message))
		}
	}

	list.SetChangedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
		showDetails(index)
	})
	showDetails(0)

	list.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyCtrlC {
			app.Stop()
			return nil
		}
		return event
	})

	layout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(header, 1, 0, false).
		AddItem(tview.NewFlex().
			SetDirection(tview.FlexColumn).
			AddItem(list, 0, 1, true).
			AddItem(details, 0, 2, false), 0, 1, true)

	if err := app.SetRoot(layout, true).SetFocus(list).Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}
