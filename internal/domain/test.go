package domain

import "time"

// TestStatus represents the run state of a single test case.
type TestStatus string

const (
	TestStatusPending  TestStatus = "pending"
	TestStatusEnqueued TestStatus = "enqueued"
	TestStatusRunning  TestStatus = "running"
	TestStatusPassed   TestStatus = "passed"
	TestStatusFailed   TestStatus = "failed"
	TestStatusSkipped  TestStatus = "skipped"
)

// Position is a 0-based line/column location in a source file.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Range is a span inside a source file, 0-based, end-exclusive on columns.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Diagnostic carries a failure message with an optional source location.
type Diagnostic struct {
	Message string `json:"message"`
	File    string `json:"file,omitempty"`
	Line    int    `json:"line,omitempty"`
}

// TestDecl is a test declaration found by the extractor: a name and the
// range of the line that declares it.
type TestDecl struct {
	Name  string
	Range Range
}

// TestCase is a single test inside a source file. Its identity is
// "<file path>/<test name>". Run state is owned exclusively by the node;
// the whole node is replaced on reconciliation, so state never survives
// a re-parse of the file.
type TestCase struct {
	ID         string
	Name       string
	File       string // absolute path of the owning source file
	Range      Range
	Generation uint64 // reconciliation pass that produced this node

	Status     TestStatus
	Duration   time.Duration
	Diagnostic *Diagnostic
}

// TestID builds the composite identity of a test case.
func TestID(filePath, name string) string {
	return filePath + "/" + name
}
