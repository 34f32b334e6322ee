package model

import "fmt"

// TestCase is one discovered test source file.
type TestCase struct {
	// Path to the test file, as produced by discovery
	Path string
	// Raw source text of the test file
	Source []byte
	// Exit status the compiled program is expected to terminate with
	Expected int
}

// StageResult is the classified outcome of one pipeline stage.
type StageResult struct {
	// Stage name ("compile", "assemble", "link", "run")
	Stage string
	// Exit code of the stage process; -1 when the process never ran
	ExitCode int
	// Combined stdout/stderr, empty unless capture was requested
	Output string
	// Whether the stage was killed by the per-stage timeout
	TimedOut bool
	// Spawn-level OS error (missing binary etc.); nil when the process ran
	Err error
}

// OK reports whether the stage ran to completion and exited zero.
func (r StageResult) OK() bool {
	return r.Err == nil && !r.TimedOut && r.ExitCode == 0
}

// Reason describes why a non-OK stage failed.
func (r StageResult) Reason() string {
	switch {
	case r.Err != nil:
		return fmt.Sprintf("failed to start: %v", r.Err)
	case r.TimedOut:
		return "timed out"
	default:
		return fmt.Sprintf("exited with code %d", r.ExitCode)
	}
}

// VerdictKind classifies the final outcome of one test case.
type VerdictKind uint8

const (
	// VerdictPassed means the full pipeline ran and the exit status matched.
	VerdictPassed VerdictKind = iota
	// VerdictMissingExpectation means no usable "// expect:" annotation was
	// found; the pipeline was never started.
	VerdictMissingExpectation
	// VerdictStageFailed means a pipeline stage failed before a comparable
	// exit status was produced.
	VerdictStageFailed
	// VerdictStatusMismatch means the pipeline ran to completion but the
	// program's exit status differed from the annotation.
	VerdictStatusMismatch
)

// Verdict is the final classification of one test case. Exactly one verdict
// is produced per discovered test.
type Verdict struct {
	// Path of the test file this verdict belongs to
	Path string
	// Outcome kind
	Kind VerdictKind
	// Failing stage name, set for VerdictStageFailed
	Stage string
	// Human-readable failure reason
	Detail string
	// Captured tool/program output, empty unless capture was requested
	Output string
	// Expected and actual exit status, set for VerdictStatusMismatch
	Expected int
	Actual   int
}

// Passed reports whether the test case passed.
func (v Verdict) Passed() bool {
	return v.Kind == VerdictPassed
}

// Pass builds a passing verdict for path.
func Pass(path string) Verdict {
	return Verdict{Path: path, Kind: VerdictPassed}
}

// MissingExpectation builds a verdict for a test without a usable annotation.
func MissingExpectation(path, detail string) Verdict {
	return Verdict{Path: path, Kind: VerdictMissingExpectation, Detail: detail}
}

// StageFailed builds a verdict from a failed pipeline stage.
func StageFailed(path string, res StageResult) Verdict {
	return Verdict{
		Path:   path,
		Kind:   VerdictStageFailed,
		Stage:  res.Stage,
		Detail: res.Reason(),
		Output: res.Output,
	}
}

// StatusMismatch builds a verdict for a program that exited with the wrong
// status.
func StatusMismatch(path string, expected, actual int, output string) Verdict {
	return Verdict{
		Path:     path,
		Kind:     VerdictStatusMismatch,
		Expected: expected,
		Actual:   actual,
		Output:   output,
	}
}

// Summary aggregates pass/fail counts across one harness run.
type Summary struct {
	// Number of tests that passed
	Passed int
	// Number of tests that did not pass, for any reason
	Failed int
}

// Total is the number of tests evaluated.
func (s Summary) Total() int {
	return s.Passed + s.Failed
}

// Add records one verdict in the summary.
func (s *Summary) Add(v Verdict) {
	if v.Passed() {
		s.Passed++
	} else {
		s.Failed++
	}
}
