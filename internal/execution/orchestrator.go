package execution

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/RaphaelManke/wing-test-explorer/internal/domain"
	"github.com/RaphaelManke/wing-test-explorer/internal/parser"
	"github.com/RaphaelManke/wing-test-explorer/internal/tree"
)

// Reporter observes per-test state transitions during a run. Events for a
// given test are strictly ordered: enqueued, then started, then finished
// (or enqueued straight to finished when the test is skipped).
type Reporter interface {
	TestEnqueued(t *domain.TestCase)
	TestStarted(t *domain.TestCase)
	TestFinished(t *domain.TestCase)
}

// RunSummary aggregates the outcome of one run.
type RunSummary struct {
	Stats    domain.RunStats
	Duration time.Duration
	Tests    []*domain.TestCase
	Failures []domain.TestFailure
}

// Orchestrator executes a batch of selected tests against the external
// runner. Each owning file gets exactly one runner invocation; the verdicts
// for its tests are demultiplexed out of the combined output. All files are
// launched concurrently with no cap.
type Orchestrator struct {
	tree     *tree.Tree
	runner   TestRunner
	parser   *parser.WingParser
	selector *Selector
	coverage *tree.Coverage
	reporter Reporter
	log      zerolog.Logger
}

// NewOrchestrator creates a new Orchestrator
func NewOrchestrator(t *tree.Tree, runner TestRunner, p *parser.WingParser, selector *Selector, coverage *tree.Coverage, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		tree:     t,
		runner:   runner,
		parser:   p,
		selector: selector,
		coverage: coverage,
		log:      log,
	}
}

// SetReporter sets the observer for per-test state transitions.
func (o *Orchestrator) SetReporter(rep Reporter) {
	o.reporter = rep
}

// enqueuedTest snapshots a test node and its generation at enqueue time, so
// verdicts arriving after a newer reconciliation replaced the node can be
// discarded.
type enqueuedTest struct {
	test       *domain.TestCase
	generation uint64
}

// Run selects, executes and reports the requested tests. It returns when
// every selected test finished or was skipped. Cancellation is cooperative:
// a file batch that has not started when ctx is cancelled ends skipped;
// already-running external processes are not interrupted.
func (o *Orchestrator) Run(ctx context.Context, req domain.RunRequest) (*RunSummary, error) {
	// Walk over file snapshots: a concurrent reconciliation may swap child
	// slices while the selection runs. The snapshots still carry the live
	// test pointers, which is what the state machine mutates.
	files := o.tree.Files()
	snapshots := make([]*domain.SourceFile, len(files))
	for i, f := range files {
		s := o.tree.SnapshotFile(f)
		snapshots[i] = &s
	}

	tests := o.selector.Select(snapshots, req)
	if len(tests) == 0 {
		return &RunSummary{}, nil
	}

	start := time.Now()

	// Enqueue, grouped per owning file.
	var fileOrder []string
	byFile := make(map[string][]enqueuedTest)
	for _, t := range tests {
		o.tree.UpdateTest(t, func(tc *domain.TestCase) {
			tc.Status = domain.TestStatusEnqueued
			tc.Duration = 0
			tc.Diagnostic = nil
		})
		o.notifyEnqueued(t)
		if _, ok := byFile[t.File]; !ok {
			fileOrder = append(fileOrder, t.File)
		}
		byFile[t.File] = append(byFile[t.File], enqueuedTest{test: t, generation: t.Generation})
	}

	var wg sync.WaitGroup
	for _, file := range fileOrder {
		batch := byFile[file]
		wg.Add(1)
		go func(file string, batch []enqueuedTest) {
			defer wg.Done()
			o.runFile(ctx, file, batch)
		}(file, batch)
	}
	wg.Wait()

	summary := &RunSummary{
		Duration: time.Since(start),
		Tests:    tests,
	}
	for _, t := range tests {
		summary.Stats.Total++
		switch t.Status {
		case domain.TestStatusPassed:
			summary.Stats.Passed++
		case domain.TestStatusFailed:
			summary.Stats.Failed++
			failure := domain.TestFailure{TestName: t.Name, FilePath: t.File, Line: t.Range.Start.Line}
			if t.Diagnostic != nil {
				failure.Message = t.Diagnostic.Message
			}
			summary.Failures = append(summary.Failures, failure)
		case domain.TestStatusSkipped:
			summary.Stats.Skipped++
		}
	}

	o.log.Info().
		Int("total", summary.Stats.Total).
		Int("passed", summary.Stats.Passed).
		Int("failed", summary.Stats.Failed).
		Int("skipped", summary.Stats.Skipped).
		Dur("duration", summary.Duration).
		Msg("run finished")
	return summary, nil
}

// runFile performs the single runner invocation for one file and applies the
// demultiplexed verdicts to its enqueued tests.
func (o *Orchestrator) runFile(ctx context.Context, file string, batch []enqueuedTest) {
	// Cancellation is checked once, before the batch transitions to running.
	if ctx.Err() != nil {
		for _, e := range batch {
			o.tree.UpdateTest(e.test, func(tc *domain.TestCase) {
				tc.Status = domain.TestStatusSkipped
			})
			o.notifyFinished(e.test)
		}
		return
	}

	for _, e := range batch {
		o.tree.UpdateTest(e.test, func(tc *domain.TestCase) {
			tc.Status = domain.TestStatusRunning
		})
		o.notifyStarted(e.test)
	}

	// The invocation itself is detached from ctx: a run cancelled mid-flight
	// does not kill the external process, it only skips batches that have
	// not started.
	res := o.runner.Run(context.Background(), file)

	verdicts := o.parser.Verdicts(res.Output)
	excerpt, hasExcerpt := o.parser.FailureExcerpt(res.Output)
	// No verdicts plus a process error means the invocation itself broke
	// (spawn failure, crash), not that individual tests failed.
	runnerBroke := len(verdicts) == 0 && res.Err != nil

	for _, e := range batch {
		cur := o.tree.TestByID(e.test.ID)
		if cur == nil || cur.Generation != e.generation {
			o.log.Debug().
				Str("test", e.test.ID).
				Uint64("generation", e.generation).
				Msg("discarding verdict for superseded test node")
			continue
		}

		t := e.test
		verdict, known := verdicts[t.Name]
		o.tree.UpdateTest(t, func(tc *domain.TestCase) {
			tc.Duration = res.Duration
			if known && verdict == domain.VerdictPass {
				tc.Status = domain.TestStatusPassed
				return
			}
			tc.Status = domain.TestStatusFailed
			tc.Diagnostic = &domain.Diagnostic{
				Message: o.failureMessage(tc.Name, known, runnerBroke, excerpt, hasExcerpt, res),
				File:    tc.File,
				Line:    tc.Range.Start.Line,
			}
		})

		if o.coverage != nil {
			o.coverage.HitRange(t.File, t.Range.Start.Line, t.Range.End.Line)
		}
		o.notifyFinished(t)
	}
}

// failureMessage picks the most useful text for a failed test. A test absent
// from the runner's output fails with an explicit "no verdict" message rather
// than silently inheriting another test's excerpt.
func (o *Orchestrator) failureMessage(name string, known, runnerBroke bool, excerpt string, hasExcerpt bool, res domain.InvocationResult) string {
	if !known {
		if runnerBroke {
			return fmt.Sprintf("test runner failed: %v", res.Err)
		}
		return fmt.Sprintf("no verdict for test %q in runner output", name)
	}
	if hasExcerpt && excerpt != "" {
		return excerpt
	}
	if res.Err != nil {
		return fmt.Sprintf("test runner failed: %v", res.Err)
	}
	return "test failed"
}

// Continuous re-runs the tests of each changed file as change notifications
// arrive, until ctx is cancelled or the channel closes. Every cycle
// reconciles the file first, so the run always targets the freshest nodes.
func (o *Orchestrator) Continuous(ctx context.Context, changes <-chan string, rec *tree.Reconciler) {
	for {
		select {
		case <-ctx.Done():
			return
		case path, ok := <-changes:
			if !ok {
				return
			}
			rec.Reconcile(path)
			if _, err := o.Run(ctx, domain.RunRequest{Include: []string{path}, Continuous: true}); err != nil {
				o.log.Error().Str("file", path).Err(err).Msg("continuous run failed")
			}
		}
	}
}

func (o *Orchestrator) notifyEnqueued(t *domain.TestCase) {
	if o.reporter != nil {
		o.reporter.TestEnqueued(t)
	}
}

func (o *Orchestrator) notifyStarted(t *domain.TestCase) {
	if o.reporter != nil {
		o.reporter.TestStarted(t)
	}
}

func (o *Orchestrator) notifyFinished(t *domain.TestCase) {
	if o.reporter != nil {
		o.reporter.TestFinished(t)
	}
}
