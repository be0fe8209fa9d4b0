package diag

import "strings"

// Severity defines the importance of a diagnostic.
type Severity uint8

const (
	// SevInfo covers notes, help and other informational output.
	SevInfo Severity = iota
	// SevWarning is for warning diagnostics.
	SevWarning
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}

// FromKind maps a lower-cased diagnostic kind token onto a severity.
// Unknown kinds are reported as ok=false so callers can decide whether to
// treat them as informational or reject them.
func FromKind(kind string) (Severity, bool) {
	switch strings.ToLower(kind) {
	case "error":
		return SevError, true
	case "warning", "warn":
		return SevWarning, true
	case "note", "help", "info":
		return SevInfo, true
	}
	return SevInfo, false
}
