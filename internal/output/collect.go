package output

import (
	"bufio"
	"io"
	"strings"

	"expectest/internal/diag"
)

// Collector folds output lines into diagnostics. A rustc-style headline is
// held pending until the next line: if that line is an `-->` location it is
// attached, otherwise the headline is emitted without one.
type Collector struct {
	diags     []diag.Diagnostic
	unmatched []string
	pending   *diag.Diagnostic
}

func NewCollector() *Collector {
	return &Collector{}
}

// Line feeds one output line into the collector. Blank lines are dropped.
func (c *Collector) Line(text string) {
	if strings.TrimSpace(text) == "" {
		c.flush()
		return
	}

	parsed, err := parseLine(text)
	if err != nil {
		c.flush()
		c.unmatched = append(c.unmatched, text)
		return
	}

	switch {
	case parsed.Arrow != nil:
		if c.pending == nil {
			// A location line with nothing to attach to.
			c.unmatched = append(c.unmatched, text)
			return
		}
		d := *c.pending
		c.pending = nil
		if file, line, col, err := splitLocation(parsed.Arrow.Location); err == nil {
			d.File, d.Line, d.Col = file, line, col
		}
		c.diags = append(c.diags, d)

	case parsed.Diag != nil:
		c.flush()
		d, err := parsed.Diag.toDiagnostic()
		if err != nil {
			c.unmatched = append(c.unmatched, text)
			return
		}
		if d.File == "" {
			// Headline without a location: the next line may carry it.
			c.pending = &d
			return
		}
		c.diags = append(c.diags, d)
	}
}

// flush emits a pending headline that never received a location line.
func (c *Collector) flush() {
	if c.pending != nil {
		c.diags = append(c.diags, *c.pending)
		c.pending = nil
	}
}

// Finish returns the collected diagnostics and unmatched lines.
func (c *Collector) Finish() ([]diag.Diagnostic, []string) {
	c.flush()
	return c.diags, c.unmatched
}

// Collect parses a whole output stream.
func Collect(r io.Reader) ([]diag.Diagnostic, []string, error) {
	c := NewCollector()
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		c.Line(sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, nil, err
	}
	diags, unmatched := c.Finish()
	return diags, unmatched, nil
}
