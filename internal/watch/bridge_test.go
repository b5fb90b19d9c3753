package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/RaphaelManke/wing-test-explorer/internal/discovery"
	"github.com/RaphaelManke/wing-test-explorer/internal/tree"
)

func newTestBridge(t *testing.T) (*Bridge, *tree.Tree, string) {
	t.Helper()
	dir := t.TempDir()

	tr := tree.New()
	tr.AddWorkspace(dir)
	scanner := discovery.NewScanner(".w", []string{"node_modules"}, nil)
	rec := tree.NewReconciler(tr, discovery.NewExtractor(), tree.NewCoverage(), zerolog.Nop())
	// Short debounce keeps the test fast; production uses 200ms.
	return NewBridge(scanner, rec, tr, 10*time.Millisecond, zerolog.Nop()), tr, dir
}

func TestBridge_CreateReconcilesAndNotifies(t *testing.T) {
	b, tr, dir := newTestBridge(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, b.Start(ctx))

	path := filepath.Join(dir, "math.w")
	content := "test \"addition\" {\n  assert(1 + 1 == 2);\n}\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	require.Eventually(t, func() bool {
		f := tr.File(path)
		return f != nil && f.Resolved && len(f.Tests) == 1
	}, 2*time.Second, 10*time.Millisecond, "created file should be reconciled")

	select {
	case got := <-b.Changes():
		require.Equal(t, path, got)
	case <-time.After(2 * time.Second):
		t.Fatal("no change notification for created file")
	}
}

func TestBridge_RemoveDropsNode(t *testing.T) {
	b, tr, dir := newTestBridge(t)

	path := filepath.Join(dir, "math.w")
	require.NoError(t, os.WriteFile(path, []byte("test \"x\" { assert(true); }\n"), 0o644))
	tr.Upsert(path)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, b.Start(ctx))

	require.NoError(t, os.Remove(path))

	require.Eventually(t, func() bool {
		return tr.File(path) == nil
	}, 2*time.Second, 10*time.Millisecond, "removed file should leave the tree")
}

func TestBridge_IgnoresUntrackedFiles(t *testing.T) {
	b, tr, dir := newTestBridge(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, b.Start(ctx))

	other := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(other, []byte("not a source file"), 0o644))

	// Give the watcher time to (not) react.
	time.Sleep(100 * time.Millisecond)
	require.Nil(t, tr.File(other))
	select {
	case got := <-b.Changes():
		t.Fatalf("unexpected change notification for %s", got)
	default:
	}
}

func TestBridge_WatchesNewSubdirectories(t *testing.T) {
	b, tr, dir := newTestBridge(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, b.Start(ctx))

	sub := filepath.Join(dir, "nested")
	require.NoError(t, os.Mkdir(sub, 0o755))

	// The directory-add races with the file write, so retry the write until
	// the watcher picks it up.
	path := filepath.Join(sub, "deep.w")
	require.Eventually(t, func() bool {
		content := "test \"deep\" { assert(true); }\n"
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return false
		}
		f := tr.File(path)
		return f != nil && f.Resolved
	}, 3*time.Second, 50*time.Millisecond, "file in new subdirectory should be reconciled")
}
