package expect

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"
)

// ExpectedError is one expected compiler diagnostic declared by an
// annotation comment inside a test source file.
//
// Annotations use a fixed trigger token followed by an optional target
// marker and free text:
//
//	//~ ERROR mismatched types        expect ERROR on this line
//	//~^ ERROR mismatched types       expect ERROR one line above
//	//~^^^ WARNING unused             expect WARNING three lines above
//	//~| NOTE declared here           expect NOTE on the same line as the
//	                                  previous non-| annotation
//	//[rev]~ ERROR ...                same, but only active for revision "rev"
type ExpectedError struct {
	// LineNum is the 1-based source line the expectation targets, which is
	// not necessarily the line the annotation appears on.
	LineNum int

	// Kind is the lower-cased first word after the marker ("error",
	// "warning", ...). May be empty when the annotation carries no text.
	Kind string

	// Msg is the remaining annotation text, trimmed. Matched against actual
	// diagnostics as a substring.
	Msg string
}

// Usage errors in the annotated file itself. Both abort the scan of the
// whole file: skipping them would silently hide broken test expectations.
var (
	ErrOrphanFollow     = errors.New("//~| annotation without a preceding non-follow annotation")
	ErrFollowWithAdjust = errors.New("use either //~| or //~^, not both")
)

// target describes how an annotation resolves its target line.
type targetKind uint8

const (
	thisLine       targetKind = iota // the line the annotation appears on
	adjustBackward                   // n lines above the annotation
	followPrevious                   // same line as the previous anchor
)

type target struct {
	kind targetKind
	// n is the caret count for adjustBackward and the anchor line for
	// followPrevious; unused for thisLine.
	n int
}

// Scanner extracts expected-diagnostic annotations from the lines of one
// test file. It carries a single piece of sequential state: the target line
// of the most recent non-follow annotation, which later //~| annotations
// chain to. The zero value is not usable; construct with NewScanner.
type Scanner struct {
	trigger string

	// anchor is the resolved target line of the last non-follow annotation.
	// anchorSet distinguishes "no annotation seen yet" from line 0.
	anchor    int
	anchorSet bool
}

// NewScanner returns a scanner for the given revision. With an empty
// revision the trigger is the plain `//~`; otherwise only `//[revision]~`
// annotations are active, so a single file can carry per-revision
// expectations.
func NewScanner(revision string) *Scanner {
	trigger := "//~"
	if revision != "" {
		trigger = "//[" + revision + "]~"
	}
	return &Scanner{trigger: trigger}
}

// ScanLine inspects one source line. lineNum is the 1-based physical line
// number. It returns ok=false when the line carries no annotation. Only the
// first occurrence of the trigger on a line is considered.
func (s *Scanner) ScanLine(lineNum int, line string) (exp ExpectedError, ok bool, err error) {
	start := strings.Index(line, s.trigger)
	if start < 0 {
		return ExpectedError{}, false, nil
	}
	rest := line[start+len(s.trigger):]

	follow := strings.HasPrefix(rest, "|")
	if follow {
		rest = rest[1:]
	}
	// A caret run after the follow marker is an authoring mistake; counting
	// it here lets resolve reject it instead of leaking it into the kind.
	adjusts := caretRun(rest)

	tgt, err := s.resolve(lineNum, follow, adjusts)
	if err != nil {
		return ExpectedError{}, false, fmt.Errorf("line %d: %w", lineNum, err)
	}

	text := rest
	if !follow {
		text = rest[adjusts:]
	}

	// Kind and message are extracted by two independent scans from the same
	// offset: kind is the first whitespace-delimited token lower-cased, the
	// message is everything after that token, trimmed. Downstream matching
	// depends on this exact split, so the two passes are kept separate.
	kind := scanKind(text)
	msg := scanMsg(text)

	switch tgt.kind {
	case followPrevious:
		return ExpectedError{LineNum: tgt.n, Kind: kind, Msg: msg}, true, nil
	case adjustBackward:
		line := lineNum - tgt.n
		s.setAnchor(line)
		return ExpectedError{LineNum: line, Kind: kind, Msg: msg}, true, nil
	case thisLine:
		s.setAnchor(lineNum)
		return ExpectedError{LineNum: lineNum, Kind: kind, Msg: msg}, true, nil
	default:
		return ExpectedError{}, false, fmt.Errorf("line %d: unknown target kind %d", lineNum, tgt.kind)
	}
}

// resolve maps the parsed marker shape onto a target. Follow annotations
// must have an anchor and must not carry an adjustment count.
func (s *Scanner) resolve(lineNum int, follow bool, adjusts int) (target, error) {
	if follow {
		if adjusts > 0 {
			return target{}, ErrFollowWithAdjust
		}
		if !s.anchorSet {
			return target{}, ErrOrphanFollow
		}
		return target{kind: followPrevious, n: s.anchor}, nil
	}
	if adjusts > 0 {
		return target{kind: adjustBackward, n: adjusts}, nil
	}
	return target{kind: thisLine}, nil
}

func (s *Scanner) setAnchor(line int) {
	s.anchor = line
	s.anchorSet = true
}

// caretRun counts the leading run of '^' characters.
func caretRun(s string) int {
	n := 0
	for n < len(s) && s[n] == '^' {
		n++
	}
	return n
}

// scanKind returns the first whitespace-delimited token, lower-cased.
func scanKind(text string) string {
	t := strings.TrimLeftFunc(text, unicode.IsSpace)
	if i := strings.IndexFunc(t, unicode.IsSpace); i >= 0 {
		t = t[:i]
	}
	return strings.ToLower(t)
}

// scanMsg re-scans from the same offset as scanKind: skip leading
// whitespace, skip the kind token, take the rest trimmed.
func scanMsg(text string) string {
	t := strings.TrimLeftFunc(text, unicode.IsSpace)
	i := strings.IndexFunc(t, unicode.IsSpace)
	if i < 0 {
		return ""
	}
	return strings.TrimSpace(t[i:])
}

// ScanLines folds ScanLine over an ordered slice of lines. Lines are
// 1-indexed by position. The scan aborts on the first usage error; there is
// no partial result.
func ScanLines(lines []string, revision string) ([]ExpectedError, error) {
	s := NewScanner(revision)
	var out []ExpectedError
	for i, line := range lines {
		exp, ok, err := s.ScanLine(i+1, line)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, exp)
		}
	}
	return out, nil
}

// ScanReader scans an ordered line stream. Each line is consumed exactly
// once, in order; the scan is strictly causal, so streaming input works.
func ScanReader(r io.Reader, revision string) ([]ExpectedError, error) {
	s := NewScanner(revision)
	var out []ExpectedError

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNum := 0
	for sc.Scan() {
		lineNum++
		exp, ok, err := s.ScanLine(lineNum, sc.Text())
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, exp)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// LoadErrors reads a test file and returns its expected diagnostics in
// source order.
func LoadErrors(path string, revision string) ([]ExpectedError, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	out, err := ScanReader(f, revision)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return out, nil
}
