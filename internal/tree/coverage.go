package tree

import (
	"sync"
	"sync/atomic"
)

// LineHits counts how often each 0-based line of a file was exercised.
// Different tests of the same file report concurrently, so increments are
// atomic to avoid lost updates.
type LineHits struct {
	hits []int64
}

// Hit increments the counter for line. Out-of-range lines are ignored.
func (l *LineHits) Hit(line int) {
	if line < 0 || line >= len(l.hits) {
		return
	}
	atomic.AddInt64(&l.hits[line], 1)
}

// Count returns the counter for line.
func (l *LineHits) Count(line int) int64 {
	if line < 0 || line >= len(l.hits) {
		return 0
	}
	return atomic.LoadInt64(&l.hits[line])
}

// Coverage tracks per-file line-hit counters across runs.
type Coverage struct {
	mu     sync.RWMutex
	byFile map[string]*LineHits
}

// NewCoverage creates an empty Coverage
func NewCoverage() *Coverage {
	return &Coverage{byFile: make(map[string]*LineHits)}
}

// Reset replaces the counter array for path with a zeroed one of the given
// line count. Called on reconciliation, when line numbers may have shifted.
func (c *Coverage) Reset(path string, lines int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.byFile[path] = &LineHits{hits: make([]int64, lines)}
}

// File returns the counters for path, or nil if the file was never
// reconciled.
func (c *Coverage) File(path string) *LineHits {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.byFile[path]
}

// HitRange increments every line of the given span for path.
func (c *Coverage) HitRange(path string, startLine, endLine int) {
	l := c.File(path)
	if l == nil {
		return
	}
	for line := startLine; line <= endLine; line++ {
		l.Hit(line)
	}
}
