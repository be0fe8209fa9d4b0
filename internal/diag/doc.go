// Package diag models the diagnostics recovered from the output of the
// compiler under test.
//
// Diagnostic is the central record: an optional location (file, 1-based
// line/column), a severity, the raw lower-cased kind label, an optional
// diagnostic code and the message text. Kind is kept alongside Severity
// because expectation matching works on the printed label ("note" and
// "help" both map to SevInfo but are different kinds).
//
// Bag aggregates diagnostics with a hard cap and a deterministic sort.
// FormatStable renders a slice into a stable one-line-per-entry string used
// by failure reports and golden comparisons.
//
// The package performs no IO and no matching; parsing lives in
// internal/output, comparison in internal/compare.
package diag
