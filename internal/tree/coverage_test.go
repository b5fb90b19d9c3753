package tree

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoverage_ConcurrentHits(t *testing.T) {
	cov := NewCoverage()
	cov.Reset("/project/math.w", 10)

	// Several tests of the same file report concurrently; no increment may
	// be lost.
	const goroutines = 8
	const hitsEach = 100

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < hitsEach; j++ {
				cov.HitRange("/project/math.w", 2, 4)
			}
		}()
	}
	wg.Wait()

	hits := cov.File("/project/math.w")
	for line := 2; line <= 4; line++ {
		assert.Equal(t, int64(goroutines*hitsEach), hits.Count(line))
	}
	assert.Zero(t, hits.Count(0))
}

func TestCoverage_ResetAndBounds(t *testing.T) {
	cov := NewCoverage()

	// Unknown file: silently ignored.
	cov.HitRange("/project/unknown.w", 0, 3)
	assert.Nil(t, cov.File("/project/unknown.w"))

	cov.Reset("/project/a.w", 3)
	hits := cov.File("/project/a.w")
	hits.Hit(-1)
	hits.Hit(3)
	hits.Hit(1)
	assert.Equal(t, int64(1), hits.Count(1))
	assert.Zero(t, hits.Count(-1))
	assert.Zero(t, hits.Count(3))

	// Reset discards prior counters.
	cov.Reset("/project/a.w", 3)
	assert.Zero(t, cov.File("/project/a.w").Count(1))
}
