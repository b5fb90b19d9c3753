package domain

import "time"

// Verdict is the outcome the external runner reports for one test label.
type Verdict string

const (
	VerdictPass Verdict = "pass"
	VerdictFail Verdict = "fail"
)

// RunRequest selects which test nodes to execute. Include and Exclude hold
// node identities (file paths or test IDs). An empty Include means every
// known leaf test case is a candidate. Excluded nodes are never enqueued.
type RunRequest struct {
	Include    []string
	Exclude    []string
	Continuous bool
}

// Excludes reports whether the given node identity is excluded.
func (r RunRequest) Excludes(id string) bool {
	for _, e := range r.Exclude {
		if e == id {
			return true
		}
	}
	return false
}

// Includes reports whether the given node identity is part of the inclusion
// scope. With an empty Include set everything is in scope.
func (r RunRequest) Includes(id string) bool {
	if len(r.Include) == 0 {
		return true
	}
	for _, inc := range r.Include {
		if inc == id {
			return true
		}
	}
	return false
}

// InvocationResult is the raw outcome of one external runner invocation:
// combined stdout+stderr, the process error if any, and the wall-clock
// duration measured by the orchestrator.
type InvocationResult struct {
	FilePath string
	Success  bool
	Output   string
	Err      error
	Duration time.Duration
}

// RunStats aggregates per-test outcomes of a run.
type RunStats struct {
	Total   int `json:"total"`
	Passed  int `json:"passed"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
}

// TestFailure is a persisted record of one failed test case.
type TestFailure struct {
	TestName string `json:"test_name"`
	FilePath string `json:"file_path"`
	Line     int    `json:"line"`
	Message  string `json:"message"`
}

// RunMeta is the persisted summary of a run.
type RunMeta struct {
	Stats           RunStats `json:"stats"`
	Duration        string   `json:"duration"`
	DurationSeconds float64  `json:"duration_seconds"`
	Timestamp       string   `json:"timestamp"`
}

// RunOutput is the complete persisted result of a run.
type RunOutput struct {
	Meta     RunMeta       `json:"meta"`
	Failures []TestFailure `json:"failures"`
}
