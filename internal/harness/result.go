package harness

import (
	"fmt"
	"io"

	"expectest/internal/compare"
)

// Status classifies the outcome of one test-file run.
type Status uint8

const (
	// StatusPass means every expectation was satisfied.
	StatusPass Status = iota
	// StatusFail means expectations and actual diagnostics diverged.
	StatusFail
	// StatusBroken means the test could not be run at all: malformed
	// annotations, an unreadable file, or a compiler that failed to start.
	StatusBroken
	// StatusCached means a previous passing run was reused.
	StatusCached
)

func (s Status) String() string {
	switch s {
	case StatusPass:
		return "PASS"
	case StatusFail:
		return "FAIL"
	case StatusBroken:
		return "BROKEN"
	case StatusCached:
		return "CACHED"
	}
	return "UNKNOWN"
}

// FileResult is the outcome of running one test file under one revision.
type FileResult struct {
	Path string
	// Revision is the configuration tag this run used; empty for untagged.
	Revision string
	Status   Status
	// Result carries the mismatch details for StatusFail.
	Result compare.Result
	// Err is set for StatusBroken.
	Err error
}

// Event is streamed to an optional channel as files finish, for progress UIs.
type Event struct {
	Path     string
	Revision string
	Status   Status
}

// RunResult aggregates a whole harness run.
type RunResult struct {
	Total     int
	Passed    int
	Failed    int
	Broken    int
	FromCache int
}

// OK reports whether the run had no failures and no broken tests.
func (r RunResult) OK() bool {
	return r.Failed == 0 && r.Broken == 0
}

// WriteSummary prints the run totals.
func (r RunResult) WriteSummary(w io.Writer) {
	fmt.Fprintf(w, "expectest summary: %d total, %d passed, %d failed, %d broken, %d from cache\n",
		r.Total, r.Passed, r.Failed, r.Broken, r.FromCache)
}
