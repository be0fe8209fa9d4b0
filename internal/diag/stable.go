package diag

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// FormatStable renders diagnostics into a stable one-line-per-entry string
// suitable for golden files and failure reports. The input is not modified;
// entries are sorted with the same key as Bag.Sort. Returns "" for an empty
// slice.
func FormatStable(diags []Diagnostic) string {
	if len(diags) == 0 {
		return ""
	}

	sorted := append([]Diagnostic(nil), diags...)
	sort.SliceStable(sorted, func(i, j int) bool {
		di, dj := sorted[i], sorted[j]
		if di.File != dj.File {
			return di.File < dj.File
		}
		if di.Line != dj.Line {
			return di.Line < dj.Line
		}
		if di.Col != dj.Col {
			return di.Col < dj.Col
		}
		if di.Severity != dj.Severity {
			return di.Severity > dj.Severity
		}
		if di.Code != dj.Code {
			return di.Code < dj.Code
		}
		return di.Message < dj.Message
	})

	var b strings.Builder
	for i, d := range sorted {
		b.WriteString(FormatOneLine(d))
		if i < len(sorted)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// FormatOneLine renders a single diagnostic as
// "kind[ CODE] path:line:col message" with normalized message text.
func FormatOneLine(d Diagnostic) string {
	var b strings.Builder
	b.WriteString(d.Kind)
	if d.Code != "" {
		b.WriteByte(' ')
		b.WriteString(d.Code)
	}
	if d.File != "" {
		fmt.Fprintf(&b, " %s:%d:%d", normalizePath(d.File), d.Line, d.Col)
	}
	if msg := sanitizeMessage(d.Message); msg != "" {
		b.WriteByte(' ')
		b.WriteString(msg)
	}
	return b.String()
}

func normalizePath(path string) string {
	p := filepath.ToSlash(path)
	for strings.HasPrefix(p, "./") {
		p = strings.TrimPrefix(p, "./")
	}
	return p
}

// sanitizeMessage collapses newlines and NFC-normalizes the text so that
// visually identical messages compare equal across compilers.
func sanitizeMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.ReplaceAll(msg, "\r", "\n")
	msg = strings.ReplaceAll(msg, "\n", " ")
	return strings.TrimSpace(norm.NFC.String(msg))
}
