package tree

import (
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/RaphaelManke/wing-test-explorer/internal/discovery"
	"github.com/RaphaelManke/wing-test-explorer/internal/domain"
)

// Reconciler re-derives a file's child test nodes from its current text.
// It has two entry points into the same pass: ResolveOnce for on-demand
// resolution (skipped once a file is resolved) and Reconcile for
// watcher-driven changes (always runs).
type Reconciler struct {
	tree      *Tree
	extractor *discovery.Extractor
	coverage  *Coverage
	log       zerolog.Logger

	// readFile is swappable for tests
	readFile func(string) ([]byte, error)
}

// NewReconciler creates a new Reconciler
func NewReconciler(t *Tree, extractor *discovery.Extractor, coverage *Coverage, log zerolog.Logger) *Reconciler {
	return &Reconciler{
		tree:      t,
		extractor: extractor,
		coverage:  coverage,
		log:       log,
		readFile:  os.ReadFile,
	}
}

// ResolveOnce parses the file only if it has never been successfully parsed.
// Freshness after that relies on watcher-driven reconciliation.
func (r *Reconciler) ResolveOnce(path string) *domain.SourceFile {
	f := r.tree.Upsert(path)
	if f.Resolved {
		return f
	}
	return r.Reconcile(path)
}

// Reconcile reads the file, extracts its test declarations and replaces the
// node's children wholesale. A read failure is attached to the node instead
// of being returned; the children are left as they were.
func (r *Reconciler) Reconcile(path string) *domain.SourceFile {
	f := r.tree.Upsert(path)

	// f.Path is the normalized identity; use it everywhere downstream so
	// coverage and verdict application key on the same string.
	data, err := r.readFile(f.Path)
	if err != nil {
		r.log.Warn().Str("file", f.Path).Err(err).Msg("failed to read source file")
		r.tree.setError(f, err)
		return f
	}

	text := string(data)
	decls := r.extractor.Extract(text)
	gen := r.tree.replaceChildren(f, decls)

	if r.coverage != nil {
		r.coverage.Reset(f.Path, strings.Count(text, "\n")+1)
	}

	r.log.Debug().
		Str("file", f.Path).
		Int("tests", len(decls)).
		Uint64("generation", gen).
		Msg("reconciled source file")
	return f
}
