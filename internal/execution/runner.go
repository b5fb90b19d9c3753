package execution

import (
	"context"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/RaphaelManke/wing-test-explorer/internal/config"
	"github.com/RaphaelManke/wing-test-explorer/internal/domain"
)

// TestRunner invokes the external test command for one source file.
type TestRunner interface {
	Run(ctx context.Context, filePath string) domain.InvocationResult
}

// Runner shells out to `<runner> test <absolute-file-path>` and captures the
// combined stdout+stderr blob. The external process owns all real execution
// semantics; this side only measures wall-clock duration.
type Runner struct {
	config *config.Config
	log    zerolog.Logger
}

// NewRunner creates a new Runner
func NewRunner(cfg *config.Config, log zerolog.Logger) *Runner {
	return &Runner{config: cfg, log: log}
}

// Run executes the runner for a single source file.
func (r *Runner) Run(ctx context.Context, filePath string) domain.InvocationResult {
	abs, err := filepath.Abs(filePath)
	if err != nil {
		abs = filePath
	}

	r.log.Debug().Str("file", abs).Str("runner", r.config.RunnerBinary).Msg("invoking test runner")

	start := time.Now()
	cmd := exec.CommandContext(ctx, r.config.RunnerBinary, "test", abs)
	cmd.Dir = r.config.ProjectPath
	output, err := cmd.CombinedOutput()
	duration := time.Since(start)

	return domain.InvocationResult{
		FilePath: filePath,
		Success:  err == nil,
		Output:   string(output),
		Err:      err,
		Duration: duration,
	}
}
