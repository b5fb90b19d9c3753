package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RaphaelManke/wing-test-explorer/internal/config"
	"github.com/RaphaelManke/wing-test-explorer/internal/domain"
)

func TestJSONStorage_SaveLoad(t *testing.T) {
	cfg := config.New()
	cfg.ProjectPath = t.TempDir()
	store := NewJSONStorage(cfg)

	stats := domain.RunStats{Total: 3, Passed: 1, Failed: 1, Skipped: 1}
	failures := []domain.TestFailure{{
		TestName: "subtraction",
		FilePath: "/project/math.w",
		Line:     3,
		Message:  "assertion failed",
	}}

	// Save creates the output directory on first use.
	require.NoError(t, store.Save(stats, failures, 1500*time.Millisecond))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, stats, loaded.Meta.Stats)
	assert.Equal(t, "1.5s", loaded.Meta.Duration)
	assert.InDelta(t, 1.5, loaded.Meta.DurationSeconds, 0.001)
	assert.NotEmpty(t, loaded.Meta.Timestamp)
	require.Len(t, loaded.Failures, 1)
	assert.Equal(t, failures[0], loaded.Failures[0])
}

func TestJSONStorage_SaveOverwritesPreviousRun(t *testing.T) {
	cfg := config.New()
	cfg.ProjectPath = t.TempDir()
	store := NewJSONStorage(cfg)

	require.NoError(t, store.Save(domain.RunStats{Total: 5, Failed: 5}, []domain.TestFailure{{TestName: "old"}}, time.Second))
	require.NoError(t, store.Save(domain.RunStats{Total: 2, Passed: 2}, nil, time.Second))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.Meta.Stats.Total)
	assert.Empty(t, loaded.Failures)
}

func TestJSONStorage_LoadWithoutPriorRun(t *testing.T) {
	cfg := config.New()
	cfg.ProjectPath = t.TempDir()
	store := NewJSONStorage(cfg)

	_, err := store.Load()
	assert.Error(t, err)
}
