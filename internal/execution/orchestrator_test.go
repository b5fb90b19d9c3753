package execution

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RaphaelManke/wing-test-explorer/internal/discovery"
	"github.com/RaphaelManke/wing-test-explorer/internal/domain"
	"github.com/RaphaelManke/wing-test-explorer/internal/parser"
	"github.com/RaphaelManke/wing-test-explorer/internal/tree"
)

// fakeRunner records which files were invoked and serves canned output.
type fakeRunner struct {
	mu          sync.Mutex
	invocations []string
	output      func(filePath string) domain.InvocationResult
}

func (f *fakeRunner) Run(_ context.Context, filePath string) domain.InvocationResult {
	f.mu.Lock()
	f.invocations = append(f.invocations, filePath)
	f.mu.Unlock()
	return f.output(filePath)
}

func (f *fakeRunner) invoked() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.invocations...)
}

type recordingReporter struct {
	mu     sync.Mutex
	events []string
}

func (r *recordingReporter) record(kind string, t *domain.TestCase) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, kind+":"+t.Name)
}

func (r *recordingReporter) TestEnqueued(t *domain.TestCase) { r.record("enqueued", t) }
func (r *recordingReporter) TestStarted(t *domain.TestCase)  { r.record("started", t) }
func (r *recordingReporter) TestFinished(t *domain.TestCase) { r.record("finished", t) }

// newFixture writes the given sources under a temp workspace, resolves them
// into a tree and returns the pieces an orchestrator needs.
func newFixture(t *testing.T, sources map[string]string) (*tree.Tree, *tree.Reconciler, *tree.Coverage, map[string]string) {
	t.Helper()
	dir := t.TempDir()

	tr := tree.New()
	tr.AddWorkspace(dir)
	cov := tree.NewCoverage()
	rec := tree.NewReconciler(tr, discovery.NewExtractor(), cov, zerolog.Nop())

	paths := make(map[string]string, len(sources))
	for name, content := range sources {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		paths[name] = path
		f := rec.Reconcile(path)
		require.NoError(t, f.Err)
	}
	return tr, rec, cov, paths
}

const mathSource = "test \"addition\" {\n" +
	"  assert(1 + 1 == 2);\n" +
	"}\n" +
	"test \"subtraction\" {\n" +
	"  assert(2 - 1 == 1);\n" +
	"}\n"

func mathOutput(pass bool) string {
	out := "pass ┌ math.w » test:addition\n"
	if pass {
		return out + "pass ┌ math.w » test:subtraction\n"
	}
	return out +
		"fail ┌ math.w » test:subtraction\n" +
		"     │ Error: assertion failed\n" +
		"     └\n"
}

func TestOrchestrator_Run(t *testing.T) {
	t.Run("one invocation per file, verdicts demultiplexed", func(t *testing.T) {
		tr, _, cov, paths := newFixture(t, map[string]string{
			"math.w":  mathSource,
			"hello.w": "test \"greeting\" {\n  assert(true);\n}\n",
		})

		runner := &fakeRunner{output: func(filePath string) domain.InvocationResult {
			if filePath == paths["math.w"] {
				return domain.InvocationResult{FilePath: filePath, Output: mathOutput(false), Duration: 120 * time.Millisecond}
			}
			return domain.InvocationResult{FilePath: filePath, Success: true, Output: "pass ┌ hello.w » test:greeting\n", Duration: 40 * time.Millisecond}
		}}
		o := NewOrchestrator(tr, runner, parser.NewWingParser(), NewSelector(), cov, zerolog.Nop())

		summary, err := o.Run(context.Background(), domain.RunRequest{})
		require.NoError(t, err)

		// Two files selected, so exactly two runner invocations even though
		// three tests ran.
		assert.Len(t, runner.invoked(), 2)

		assert.Equal(t, 3, summary.Stats.Total)
		assert.Equal(t, 2, summary.Stats.Passed)
		assert.Equal(t, 1, summary.Stats.Failed)
		assert.Zero(t, summary.Stats.Skipped)

		failed := tr.TestByID(domain.TestID(paths["math.w"], "subtraction"))
		require.NotNil(t, failed)
		assert.Equal(t, domain.TestStatusFailed, failed.Status)
		assert.Equal(t, 120*time.Millisecond, failed.Duration)
		require.NotNil(t, failed.Diagnostic)
		assert.Contains(t, failed.Diagnostic.Message, "assertion failed")
		assert.Equal(t, paths["math.w"], failed.Diagnostic.File)

		passed := tr.TestByID(domain.TestID(paths["math.w"], "addition"))
		require.NotNil(t, passed)
		assert.Equal(t, domain.TestStatusPassed, passed.Status)
		assert.Nil(t, passed.Diagnostic)

		require.Len(t, summary.Failures, 1)
		assert.Equal(t, "subtraction", summary.Failures[0].TestName)
	})

	t.Run("cancelled before start skips everything without invoking the runner", func(t *testing.T) {
		tr, _, cov, paths := newFixture(t, map[string]string{"math.w": mathSource})

		runner := &fakeRunner{output: func(filePath string) domain.InvocationResult {
			return domain.InvocationResult{FilePath: filePath, Output: mathOutput(true)}
		}}
		o := NewOrchestrator(tr, runner, parser.NewWingParser(), NewSelector(), cov, zerolog.Nop())

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		summary, err := o.Run(ctx, domain.RunRequest{})
		require.NoError(t, err)

		assert.Empty(t, runner.invoked())
		assert.Equal(t, 2, summary.Stats.Skipped)
		assert.Zero(t, summary.Stats.Passed)
		assert.Zero(t, summary.Stats.Failed)
		for _, name := range []string{"addition", "subtraction"} {
			tc := tr.TestByID(domain.TestID(paths["math.w"], name))
			require.NotNil(t, tc)
			assert.Equal(t, domain.TestStatusSkipped, tc.Status)
		}
	})

	t.Run("test missing from runner output fails with an explicit message", func(t *testing.T) {
		tr, _, cov, paths := newFixture(t, map[string]string{"math.w": mathSource})

		// The runner only reports addition; subtraction never shows up.
		runner := &fakeRunner{output: func(filePath string) domain.InvocationResult {
			return domain.InvocationResult{FilePath: filePath, Output: "pass ┌ math.w » test:addition\n"}
		}}
		o := NewOrchestrator(tr, runner, parser.NewWingParser(), NewSelector(), cov, zerolog.Nop())

		summary, err := o.Run(context.Background(), domain.RunRequest{})
		require.NoError(t, err)
		assert.Equal(t, 1, summary.Stats.Passed)
		assert.Equal(t, 1, summary.Stats.Failed)

		missing := tr.TestByID(domain.TestID(paths["math.w"], "subtraction"))
		require.NotNil(t, missing)
		require.NotNil(t, missing.Diagnostic)
		assert.Equal(t, fmt.Sprintf("no verdict for test %q in runner output", "subtraction"), missing.Diagnostic.Message)
	})

	t.Run("broken invocation surfaces the process error", func(t *testing.T) {
		tr, _, cov, paths := newFixture(t, map[string]string{"math.w": mathSource})

		runner := &fakeRunner{output: func(filePath string) domain.InvocationResult {
			return domain.InvocationResult{FilePath: filePath, Err: errors.New("exec: \"wing\": executable file not found in $PATH")}
		}}
		o := NewOrchestrator(tr, runner, parser.NewWingParser(), NewSelector(), cov, zerolog.Nop())

		summary, err := o.Run(context.Background(), domain.RunRequest{})
		require.NoError(t, err)
		assert.Equal(t, 2, summary.Stats.Failed)

		failed := tr.TestByID(domain.TestID(paths["math.w"], "addition"))
		require.NotNil(t, failed.Diagnostic)
		assert.Contains(t, failed.Diagnostic.Message, "test runner failed")
	})

	t.Run("fail verdict without excerpt gets the generic message", func(t *testing.T) {
		tr, _, cov, paths := newFixture(t, map[string]string{"math.w": mathSource})

		runner := &fakeRunner{output: func(filePath string) domain.InvocationResult {
			return domain.InvocationResult{FilePath: filePath, Output: "pass ── test:addition\nfail ── test:subtraction\n"}
		}}
		o := NewOrchestrator(tr, runner, parser.NewWingParser(), NewSelector(), cov, zerolog.Nop())

		_, err := o.Run(context.Background(), domain.RunRequest{})
		require.NoError(t, err)

		failed := tr.TestByID(domain.TestID(paths["math.w"], "subtraction"))
		require.NotNil(t, failed.Diagnostic)
		assert.Equal(t, "test failed", failed.Diagnostic.Message)
	})

	t.Run("verdicts for superseded nodes are discarded", func(t *testing.T) {
		tr, rec, cov, paths := newFixture(t, map[string]string{"math.w": mathSource})

		// The file gets reconciled while the runner is busy: the enqueued
		// nodes are stale by the time verdicts arrive.
		runner := &fakeRunner{}
		runner.output = func(filePath string) domain.InvocationResult {
			rec.Reconcile(filePath)
			return domain.InvocationResult{FilePath: filePath, Output: mathOutput(true)}
		}
		o := NewOrchestrator(tr, runner, parser.NewWingParser(), NewSelector(), cov, zerolog.Nop())

		summary, err := o.Run(context.Background(), domain.RunRequest{})
		require.NoError(t, err)
		assert.Zero(t, summary.Stats.Passed)
		assert.Zero(t, summary.Stats.Failed)

		// The fresh nodes never saw the stale verdicts.
		fresh := tr.TestByID(domain.TestID(paths["math.w"], "addition"))
		require.NotNil(t, fresh)
		assert.Equal(t, domain.TestStatusPending, fresh.Status)
	})

	t.Run("scoping to one test invokes only its file", func(t *testing.T) {
		tr, _, cov, paths := newFixture(t, map[string]string{
			"math.w":  mathSource,
			"hello.w": "test \"greeting\" {\n  assert(true);\n}\n",
		})

		runner := &fakeRunner{output: func(filePath string) domain.InvocationResult {
			return domain.InvocationResult{FilePath: filePath, Output: "pass ── test:greeting\n"}
		}}
		o := NewOrchestrator(tr, runner, parser.NewWingParser(), NewSelector(), cov, zerolog.Nop())

		summary, err := o.Run(context.Background(), domain.RunRequest{
			Include: []string{domain.TestID(paths["hello.w"], "greeting")},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{paths["hello.w"]}, runner.invoked())
		assert.Equal(t, 1, summary.Stats.Total)
		assert.Equal(t, 1, summary.Stats.Passed)
	})

	t.Run("events per test arrive in lifecycle order", func(t *testing.T) {
		tr, _, cov, _ := newFixture(t, map[string]string{
			"hello.w": "test \"greeting\" {\n  assert(true);\n}\n",
		})

		runner := &fakeRunner{output: func(filePath string) domain.InvocationResult {
			return domain.InvocationResult{FilePath: filePath, Output: "pass ── test:greeting\n"}
		}}
		o := NewOrchestrator(tr, runner, parser.NewWingParser(), NewSelector(), cov, zerolog.Nop())
		rep := &recordingReporter{}
		o.SetReporter(rep)

		_, err := o.Run(context.Background(), domain.RunRequest{})
		require.NoError(t, err)
		assert.Equal(t, []string{"enqueued:greeting", "started:greeting", "finished:greeting"}, rep.events)
	})

	t.Run("empty selection is a no-op", func(t *testing.T) {
		tr, _, cov, _ := newFixture(t, nil)
		runner := &fakeRunner{output: func(filePath string) domain.InvocationResult {
			return domain.InvocationResult{}
		}}
		o := NewOrchestrator(tr, runner, parser.NewWingParser(), NewSelector(), cov, zerolog.Nop())

		summary, err := o.Run(context.Background(), domain.RunRequest{})
		require.NoError(t, err)
		assert.Zero(t, summary.Stats.Total)
		assert.Empty(t, runner.invoked())
	})
}
