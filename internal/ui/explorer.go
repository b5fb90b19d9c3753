package ui

import (
	"context"
	"fmt"
	"path/filepath"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/rs/zerolog"

	"github.com/RaphaelManke/wing-test-explorer/internal/config"
	"github.com/RaphaelManke/wing-test-explorer/internal/discovery"
	"github.com/RaphaelManke/wing-test-explorer/internal/domain"
	"github.com/RaphaelManke/wing-test-explorer/internal/execution"
	"github.com/RaphaelManke/wing-test-explorer/internal/tree"
	"github.com/RaphaelManke/wing-test-explorer/internal/watch"
)

// Explorer is the interactive test-explorer surface: a navigable tree of
// file/test nodes with per-test pass/fail/skip state, a details pane for
// failure diagnostics, manual and continuous runs.
type Explorer struct {
	config       *config.Config
	tree         *tree.Tree
	reconciler   *tree.Reconciler
	scanner      *discovery.Scanner
	orchestrator *execution.Orchestrator
	bridge       *watch.Bridge
	log          zerolog.Logger

	app     *tview.Application
	view    *tview.TreeView
	details *tview.TextView
	status  *tview.TextView

	watching atomic.Bool
}

// NewExplorer creates a new Explorer
func NewExplorer(cfg *config.Config, t *tree.Tree, rec *tree.Reconciler, scanner *discovery.Scanner, orch *execution.Orchestrator, bridge *watch.Bridge, log zerolog.Logger) *Explorer {
	return &Explorer{
		config:       cfg,
		tree:         t,
		reconciler:   rec,
		scanner:      scanner,
		orchestrator: orch,
		bridge:       bridge,
		log:          log,
	}
}

// Run builds the UI and blocks until the user quits or ctx is cancelled.
func (e *Explorer) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	e.app = tview.NewApplication()
	e.orchestrator.SetReporter(e)

	root := tview.NewTreeNode("tests").SetColor(tcell.ColorGray)
	e.view = tview.NewTreeView().SetRoot(root).SetCurrentNode(root)

	e.details = tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true).
		SetWordWrap(true)

	e.status = tview.NewTextView().
		SetTextAlign(tview.AlignCenter).
		SetDynamicColors(true)
	e.updateStatus()

	e.rebuild()

	e.view.SetChangedFunc(func(node *tview.TreeNode) {
		e.showDetails(node)
	})

	e.view.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyCtrlC:
			e.app.Stop()
			return nil
		case tcell.KeyRune:
			switch event.Rune() {
			case 'q':
				e.app.Stop()
				return nil
			case 'r':
				e.runSelected(ctx)
				return nil
			case 'a':
				e.runAll(ctx)
				return nil
			case 'g':
				e.refresh()
				return nil
			case 'w':
				e.toggleWatch()
				return nil
			}
		}
		return event
	})

	go e.consumeChanges(ctx)

	layout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(e.status, 1, 0, false).
		AddItem(tview.NewFlex().
			SetDirection(tview.FlexColumn).
			AddItem(e.view, 0, 1, true).
			AddItem(e.details, 0, 1, false), 0, 1, true)

	if err := e.app.SetRoot(layout, true).SetFocus(e.view).Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// rebuild re-derives the whole UI tree from the model snapshot. Node
// references carry the tagged payload variant so key handlers can tell files
// from tests without a side table.
func (e *Explorer) rebuild() {
	root := e.view.GetRoot()
	root.ClearChildren()

	for _, f := range e.tree.Files() {
		snap := e.tree.SnapshotFile(f)
		if snap.Resolved && !snap.HasTests && snap.Err == nil {
			continue
		}

		rel, err := filepath.Rel(e.config.ProjectPath, snap.Path)
		if err != nil {
			rel = snap.Label
		}
		fileNode := tview.NewTreeNode(e.fileLabel(snap, rel)).
			SetReference(&domain.Node{Kind: domain.NodeFile, File: f}).
			SetColor(tcell.ColorLightCyan).
			SetSelectable(true)

		for _, tc := range snap.Tests {
			testNode := tview.NewTreeNode(e.testLabel(e.tree.SnapshotTest(tc))).
				SetReference(&domain.Node{Kind: domain.NodeTest, Test: tc}).
				SetSelectable(true)
			fileNode.AddChild(testNode)
		}
		root.AddChild(fileNode)
	}
}

func (e *Explorer) fileLabel(f domain.SourceFile, rel string) string {
	if f.Err != nil {
		return fmt.Sprintf("[red]%s (error)[white]", rel)
	}
	return rel
}

func (e *Explorer) testLabel(t domain.TestCase) string {
	switch t.Status {
	case domain.TestStatusPassed:
		return fmt.Sprintf("[green]✓ %s (%.1fs)[white]", t.Name, t.Duration.Seconds())
	case domain.TestStatusFailed:
		return fmt.Sprintf("[red]✗ %s (%.1fs)[white]", t.Name, t.Duration.Seconds())
	case domain.TestStatusSkipped:
		return fmt.Sprintf("[yellow]- %s[white]", t.Name)
	case domain.TestStatusRunning:
		return fmt.Sprintf("[cyan]… %s[white]", t.Name)
	case domain.TestStatusEnqueued:
		return fmt.Sprintf("[gray]· %s[white]", t.Name)
	default:
		return t.Name
	}
}

func (e *Explorer) showDetails(node *tview.TreeNode) {
	e.details.Clear()
	ref, _ := node.GetReference().(*domain.Node)
	if ref == nil {
		return
	}

	switch ref.Kind {
	case domain.NodeFile:
		f := e.tree.SnapshotFile(ref.File)
		fmt.Fprintf(e.details, "[cyan]File:[white] %s\n[cyan]Tests:[white] %d\n", f.Path, len(f.Tests))
		if f.Err != nil {
			fmt.Fprintf(e.details, "\n[red]Error:[white] %v\n", f.Err)
		}
	case domain.NodeTest:
		// Copy under the tree lock: run goroutines mutate status, duration
		// and diagnostics concurrently.
		t := e.tree.SnapshotTest(ref.Test)
		fmt.Fprintf(e.details, "[cyan]Test:[white] %s\n[cyan]File:[white] %s\n[cyan]Line:[white] %d\n[cyan]Status:[white] %s\n",
			t.Name, t.File, t.Range.Start.Line+1, t.Status)
		if t.Duration > 0 {
			fmt.Fprintf(e.details, "[cyan]Duration:[white] %.2fs\n", t.Duration.Seconds())
		}
		if t.Diagnostic != nil {
			fmt.Fprintf(e.details, "\n[red]%s[white]\n", tview.Escape(t.Diagnostic.Message))
			if t.Diagnostic.File != "" {
				fmt.Fprintf(e.details, "\n[yellow]at %s:%d[white]\n", t.Diagnostic.File, t.Diagnostic.Line+1)
			}
		}
	}
}

func (e *Explorer) updateStatus() {
	watchState := "[gray]off[white]"
	if e.watching.Load() {
		watchState = "[green]on[white]"
	}
	e.status.SetText(fmt.Sprintf(" [yellow]r[white] run  [yellow]a[white] run all  [yellow]g[white] refresh  [yellow]w[white] watch: %s  [yellow]q[white] quit ", watchState))
}

// runSelected runs the test(s) under the currently selected node.
func (e *Explorer) runSelected(ctx context.Context) {
	node := e.view.GetCurrentNode()
	if node == nil {
		return
	}
	ref, _ := node.GetReference().(*domain.Node)
	if ref == nil {
		e.runAll(ctx)
		return
	}

	var include []string
	switch ref.Kind {
	case domain.NodeFile:
		include = []string{ref.File.Path}
	case domain.NodeTest:
		include = []string{ref.Test.ID}
	}
	e.startRun(ctx, domain.RunRequest{Include: include})
}

func (e *Explorer) runAll(ctx context.Context) {
	e.startRun(ctx, domain.RunRequest{})
}

func (e *Explorer) startRun(ctx context.Context, req domain.RunRequest) {
	go func() {
		if _, err := e.orchestrator.Run(ctx, req); err != nil {
			e.log.Error().Err(err).Msg("run failed")
		}
	}()
}

// refresh rescans the workspace and reconciles unresolved files.
func (e *Explorer) refresh() {
	for _, root := range e.tree.Workspaces() {
		files, err := e.scanner.Scan(root)
		if err != nil {
			e.log.Warn().Str("root", root).Err(err).Msg("rescan failed")
			continue
		}
		for _, path := range files {
			e.reconciler.ResolveOnce(path)
		}
	}
	e.rebuild()
}

func (e *Explorer) toggleWatch() {
	e.watching.Store(!e.watching.Load())
	e.updateStatus()
}

// consumeChanges reacts to watcher notifications: the tree is refreshed on
// every change, and when continuous mode is on the changed file is re-run.
func (e *Explorer) consumeChanges(ctx context.Context) {
	if e.bridge == nil {
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case path, ok := <-e.bridge.Changes():
			if !ok {
				return
			}
			e.app.QueueUpdateDraw(e.rebuild)
			if e.watching.Load() {
				e.startRun(ctx, domain.RunRequest{Include: []string{path}, Continuous: true})
			}
		}
	}
}

// TestEnqueued implements execution.Reporter
func (e *Explorer) TestEnqueued(t *domain.TestCase) { e.redrawTest(t) }

// TestStarted implements execution.Reporter
func (e *Explorer) TestStarted(t *domain.TestCase) { e.redrawTest(t) }

// TestFinished implements execution.Reporter
func (e *Explorer) TestFinished(t *domain.TestCase) { e.redrawTest(t) }

func (e *Explorer) redrawTest(t *domain.TestCase) {
	e.app.QueueUpdateDraw(func() {
		e.view.GetRoot().Walk(func(node, parent *tview.TreeNode) bool {
			if ref, ok := node.GetReference().(*domain.Node); ok && ref.Kind == domain.NodeTest && ref.Test.ID == t.ID {
				node.SetText(e.testLabel(e.tree.SnapshotTest(ref.Test)))
			}
			return true
		})
	})
}
