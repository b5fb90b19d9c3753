package tree

import (
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/RaphaelManke/wing-test-explorer/internal/domain"
)

// Workspace groups the source files found under one root directory.
type Workspace struct {
	Root  string
	files map[string]*domain.SourceFile
}

// Tree is the in-memory model of every tracked source file and its test
// cases, grouped per workspace root. All mutation goes through Tree methods
// so that child replacement, flag updates and the generation counter stay
// consistent under concurrent runs and watcher events.
type Tree struct {
	mu         sync.RWMutex
	generation uint64
	roots      []*Workspace
}

// New creates an empty Tree
func New() *Tree {
	return &Tree{}
}

// absPath normalizes a path to its absolute form. Node identity is the
// absolute path; scan results, watcher events and run requests may deliver
// the same file under different spellings (relative vs absolute), and all of
// them must resolve to one node.
func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

// AddWorkspace registers a workspace root. Adding the same root twice is a
// no-op.
func (t *Tree) AddWorkspace(root string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	root = absPath(root)
	if t.workspaceFor(root) != nil {
		return
	}
	t.roots = append(t.roots, &Workspace{
		Root:  root,
		files: make(map[string]*domain.SourceFile),
	})
}

// workspaceFor returns the workspace whose root contains path, or nil.
// Caller holds t.mu and passes a normalized path.
func (t *Tree) workspaceFor(path string) *Workspace {
	for _, ws := range t.roots {
		if path == ws.Root || strings.HasPrefix(path, ws.Root+string(filepath.Separator)) {
			return ws
		}
	}
	return nil
}

// Upsert returns the SourceFile node for path, creating an unresolved node
// in its workspace if it does not exist yet. Files outside every known root
// get a workspace rooted at their directory.
func (t *Tree) Upsert(path string) *domain.SourceFile {
	t.mu.Lock()
	defer t.mu.Unlock()

	path = absPath(path)
	ws := t.workspaceFor(path)
	if ws == nil {
		ws = &Workspace{
			Root:  filepath.Dir(path),
			files: make(map[string]*domain.SourceFile),
		}
		t.roots = append(t.roots, ws)
	}

	if f, ok := ws.files[path]; ok {
		return f
	}
	f := &domain.SourceFile{
		Path:  path,
		Label: filepath.Base(path),
	}
	ws.files[path] = f
	return f
}

// Remove drops the file node for path from its workspace's children. Removing
// an unknown path is not an error.
func (t *Tree) Remove(path string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	path = absPath(path)
	if ws := t.workspaceFor(path); ws != nil {
		delete(ws.files, path)
	}
}

// File returns the node for path, or nil.
func (t *Tree) File(path string) *domain.SourceFile {
	t.mu.RLock()
	defer t.mu.RUnlock()
	path = absPath(path)
	if ws := t.workspaceFor(path); ws != nil {
		return ws.files[path]
	}
	return nil
}

// Files returns a snapshot of every known file node, sorted by path.
func (t *Tree) Files() []*domain.SourceFile {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var files []*domain.SourceFile
	for _, ws := range t.roots {
		for _, f := range ws.files {
			files = append(files, f)
		}
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files
}

// Workspaces returns the workspace roots in registration order.
func (t *Tree) Workspaces() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	roots := make([]string, len(t.roots))
	for i, ws := range t.roots {
		roots[i] = ws.Root
	}
	return roots
}

// TestByID resolves a test case identity to its current node, or nil if the
// test (or its file) no longer exists.
func (t *Tree) TestByID(id string) *domain.TestCase {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, ws := range t.roots {
		for _, f := range ws.files {
			if !strings.HasPrefix(id, f.Path+"/") {
				continue
			}
			if tc := f.Test(strings.TrimPrefix(id, f.Path+"/")); tc != nil {
				return tc
			}
		}
	}
	return nil
}

// UpdateTest mutates a test node's run state under the tree lock. Run
// goroutines write status, duration and diagnostics through here so UI
// readers never observe torn state.
func (t *Tree) UpdateTest(tc *domain.TestCase, fn func(*domain.TestCase)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fn(tc)
}

// SnapshotTest returns a copy of the test node's current state.
func (t *Tree) SnapshotTest(tc *domain.TestCase) domain.TestCase {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return *tc
}

// SnapshotFile returns a copy of the file node's flags and child list, so
// readers are not exposed to a concurrent reconciliation swapping them.
func (t *Tree) SnapshotFile(f *domain.SourceFile) domain.SourceFile {
	t.mu.RLock()
	defer t.mu.RUnlock()
	snap := *f
	snap.Tests = append([]*domain.TestCase(nil), f.Tests...)
	return snap
}

// Generation returns the value of the last reconciliation pass.
func (t *Tree) Generation() uint64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.generation
}

// replaceChildren rewrites the children of the file node wholesale, stamped
// with a fresh generation. Prior run-state is not preserved: stale children
// are dropped unconditionally, matching children get brand-new nodes.
func (t *Tree) replaceChildren(f *domain.SourceFile, decls []domain.TestDecl) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.generation++
	gen := t.generation

	children := make([]*domain.TestCase, 0, len(decls))
	for _, d := range decls {
		children = append(children, &domain.TestCase{
			ID:         domain.TestID(f.Path, d.Name),
			Name:       d.Name,
			File:       f.Path,
			Range:      d.Range,
			Generation: gen,
			Status:     domain.TestStatusPending,
		})
	}

	f.Tests = children
	f.Resolved = true
	f.HasTests = len(children) > 0
	f.Err = nil
	return gen
}

// setError attaches a node-level error, leaving the children untouched.
func (t *Tree) setError(f *domain.SourceFile, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	f.Err = err
}
