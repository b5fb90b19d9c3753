package execution

import (
	"github.com/RaphaelManke/wing-test-explorer/internal/domain"
)

// Selector decides which leaf test cases a run request resolves to.
type Selector struct{}

// NewSelector creates a new Selector
func NewSelector() *Selector {
	return &Selector{}
}

// Select walks the requested inclusion scope (or every known file when no
// inclusion set is given), skips anything in the exclusion set, and collects
// the leaf test cases into the execution queue, in tree order.
func (s *Selector) Select(files []*domain.SourceFile, req domain.RunRequest) []*domain.TestCase {
	var selected []*domain.TestCase
	for _, f := range files {
		if req.Excludes(f.Path) {
			continue
		}
		fileInScope := req.Includes(f.Path)
		for _, t := range f.Tests {
			if req.Excludes(t.ID) {
				continue
			}
			if fileInScope || req.Includes(t.ID) {
				selected = append(selected, t)
			}
		}
	}
	return selected
}
