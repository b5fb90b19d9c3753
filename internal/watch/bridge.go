package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/RaphaelManke/wing-test-explorer/internal/discovery"
	"github.com/RaphaelManke/wing-test-explorer/internal/tree"
)

// Bridge adapts filesystem create/change/delete events into reconciler calls
// and continuous-run triggers. Create and change reconcile the file node and
// notify the change channel; delete removes the node from its workspace.
type Bridge struct {
	scanner    *discovery.Scanner
	reconciler *tree.Reconciler
	tree       *tree.Tree
	interval   time.Duration
	log        zerolog.Logger

	mu         sync.Mutex
	debouncers map[string]func(f func())

	changes chan string
}

// NewBridge creates a new Bridge. interval is how long events for one path
// are coalesced before reconciling.
func NewBridge(scanner *discovery.Scanner, reconciler *tree.Reconciler, t *tree.Tree, interval time.Duration, log zerolog.Logger) *Bridge {
	return &Bridge{
		scanner:    scanner,
		reconciler: reconciler,
		tree:       t,
		interval:   interval,
		log:        log,
		debouncers: make(map[string]func(f func())),
		changes:    make(chan string, 64),
	}
}

// Changes is the continuous-run notification channel: it receives the path
// of every tracked file that was created or changed.
func (b *Bridge) Changes() <-chan string {
	return b.changes
}

// Start watches every known workspace root until ctx is cancelled. It
// returns after the watcher is installed; events are handled on a background
// goroutine.
func (b *Bridge) Start(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	for _, root := range b.tree.Workspaces() {
		if err := b.addRecursive(watcher, root); err != nil {
			watcher.Close()
			return err
		}
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				b.handleEvent(watcher, event)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				b.log.Warn().Err(err).Msg("watcher error")
			}
		}
	}()
	return nil
}

// addRecursive registers root and every non-skipped subdirectory with the
// watcher. fsnotify does not watch recursively by itself.
func (b *Bridge) addRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && b.scanner.SkipsDir(d.Name()) {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}

func (b *Bridge) handleEvent(watcher *fsnotify.Watcher, event fsnotify.Event) {
	// Event names mirror how the directory was registered; normalize so the
	// tree and the continuous-run scope see one identity per file.
	path := event.Name
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}

	// New directories must be added to the watch set before any file events
	// inside them can arrive.
	if event.Has(fsnotify.Create) {
		if info, err := os.Lstat(path); err == nil && info.IsDir() {
			if !b.scanner.SkipsDir(filepath.Base(path)) {
				if err := watcher.Add(path); err != nil {
					b.log.Warn().Str("dir", path).Err(err).Msg("failed to watch new directory")
				}
			}
			return
		}
	}

	if !b.scanner.Tracks(path) {
		return
	}

	switch {
	case event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename):
		b.log.Debug().Str("file", path).Msg("tracked file removed")
		b.tree.Remove(path)
		b.dropDebouncer(path)

	case event.Has(fsnotify.Create) || event.Has(fsnotify.Write):
		b.debouncer(path)(func() {
			b.reconciler.Reconcile(path)
			select {
			case b.changes <- path:
			default:
				b.log.Debug().Str("file", path).Msg("change channel full, dropping notification")
			}
		})
	}
}

// debouncer returns the per-path debounce function, creating it on first use.
// Editors fire several write events per save; only the last one within the
// interval triggers a reconciliation.
func (b *Bridge) debouncer(path string) func(f func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	d, ok := b.debouncers[path]
	if !ok {
		d = debounce.New(b.interval)
		b.debouncers[path] = d
	}
	return d
}

func (b *Bridge) dropDebouncer(path string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.debouncers, path)
}
