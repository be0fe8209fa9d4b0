// Package compare matches expected diagnostics scanned from a test file
// against the actual diagnostics recovered from compiler output.
package compare

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"expectest/internal/diag"
	"expectest/internal/expect"
)

// Result is the outcome of comparing one test file's expectations against
// one compiler run.
type Result struct {
	// Unmatched holds expectations no actual diagnostic satisfied.
	Unmatched []expect.ExpectedError
	// Unexpected holds warning-or-worse diagnostics no expectation claimed.
	// Informational diagnostics (notes, help) are only checked when an
	// expectation asks for them; compilers attach them freely.
	Unexpected []diag.Diagnostic
}

// OK reports whether the run satisfied every expectation with no unexpected
// diagnostics left over.
func (r Result) OK() bool {
	return len(r.Unmatched) == 0 && len(r.Unexpected) == 0
}

// Diagnostics matches expectations against actual diagnostics.
//
// An expectation matches an actual diagnostic when the line numbers are
// equal, the kinds are equal (an empty expected kind matches any), and the
// actual message contains the expected message as a substring. Matching is
// first-fit in input order; each actual diagnostic satisfies at most one
// expectation.
func Diagnostics(expected []expect.ExpectedError, actual []diag.Diagnostic) Result {
	used := make([]bool, len(actual))

	var res Result
	for _, exp := range expected {
		if i := findMatch(exp, actual, used); i >= 0 {
			used[i] = true
			continue
		}
		res.Unmatched = append(res.Unmatched, exp)
	}

	for i, d := range actual {
		if used[i] || d.Severity < diag.SevWarning {
			continue
		}
		res.Unexpected = append(res.Unexpected, d)
	}
	return res
}

func findMatch(exp expect.ExpectedError, actual []diag.Diagnostic, used []bool) int {
	for i, d := range actual {
		if used[i] {
			continue
		}
		if !matches(exp, d) {
			continue
		}
		return i
	}
	return -1
}

func matches(exp expect.ExpectedError, d diag.Diagnostic) bool {
	if int(d.Line) != exp.LineNum {
		return false
	}
	if exp.Kind != "" && exp.Kind != d.Kind {
		return false
	}
	return strings.Contains(d.Message, exp.Msg)
}

// Render writes a human-readable mismatch report. It writes nothing for a
// passing result.
func (r Result) Render(w io.Writer, colorize bool) {
	red := color.New(color.FgRed, color.Bold)
	yellow := color.New(color.FgYellow)
	if !colorize {
		red.DisableColor()
		yellow.DisableColor()
	}

	for _, exp := range r.Unmatched {
		red.Fprint(w, "missing expected diagnostic")
		fmt.Fprintf(w, ": line %d: %s %s\n", exp.LineNum, exp.Kind, exp.Msg)
	}
	for _, d := range r.Unexpected {
		yellow.Fprint(w, "unexpected diagnostic")
		fmt.Fprintf(w, ": %s\n", diag.FormatOneLine(d))
	}
}
