// Package output parses the textual output of the compiler under test into
// structured diagnostics.
//
// Two line shapes are recognized:
//
//	src/a.sg:3:7: error: mismatched types     (location-first, gcc style)
//	error[E0308]: mismatched types            (headline, rustc style)
//	  --> src/a.sg:3:7                        (location attached to headline)
//
// Everything else passes through as an unmatched line; unmatched output is
// never an error.
package output

import (
	"fmt"
	"strconv"
	"strings"

	"fortio.org/safecast"
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"expectest/internal/diag"
)

// The lexer switches into the Message state once a severity header has been
// seen, so message text is captured verbatim regardless of what it contains.
var outputLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{Name: "Arrow", Pattern: `-->`, Action: nil},
		{Name: "Header", Pattern: `(?:error|warning|warn|note|help|info)(?:\[[A-Za-z]+\d+\])?:`, Action: lexer.Push("Message")},
		{Name: "Location", Pattern: `[^\s:]+:\d+(?::\d+)?`, Action: nil},
		{Name: "Colon", Pattern: `:`, Action: nil},
		{Name: "Whitespace", Pattern: `[ \t]+`, Action: nil},
	},
	"Message": {
		{Name: "Rest", Pattern: `[^\n]+`, Action: nil},
	},
})

type outputLine struct {
	Arrow *arrowLine `parser:"  @@"`
	Diag  *diagLine  `parser:"| @@"`
}

// arrowLine is a rustc-style location line attaching to the previous headline.
type arrowLine struct {
	Location string `parser:"Arrow @Location"`
}

// diagLine is a diagnostic line, with an optional leading location.
type diagLine struct {
	Location string `parser:"(@Location \":\")?"`
	Header   string `parser:"@Header"`
	Message  string `parser:"@Rest?"`
}

var lineParser = participle.MustBuild[outputLine](
	participle.Lexer(outputLexer),
	participle.Elide("Whitespace"),
)

// parseLine parses a single output line. A parse failure means the line is
// not a diagnostic, which callers treat as unmatched passthrough.
func parseLine(line string) (*outputLine, error) {
	return lineParser.ParseString("", line)
}

// toDiagnostic converts a parsed diagnostic line into the shared model.
func (d *diagLine) toDiagnostic() (diag.Diagnostic, error) {
	kind, code := splitHeader(d.Header)
	sev, _ := diag.FromKind(kind)

	out := diag.Diagnostic{
		Severity: sev,
		Kind:     kind,
		Code:     code,
		Message:  strings.TrimSpace(d.Message),
	}
	if d.Location != "" {
		file, line, col, err := splitLocation(d.Location)
		if err != nil {
			return diag.Diagnostic{}, err
		}
		out.File, out.Line, out.Col = file, line, col
	}
	return out, nil
}

// splitHeader breaks "error[E0308]:" into kind and code.
func splitHeader(header string) (kind, code string) {
	header = strings.TrimSuffix(header, ":")
	if i := strings.IndexByte(header, '['); i >= 0 {
		return strings.ToLower(header[:i]), strings.TrimSuffix(header[i+1:], "]")
	}
	return strings.ToLower(header), ""
}

// splitLocation breaks "path:line[:col]" into its parts. Col is 0 when the
// compiler did not report a column.
func splitLocation(loc string) (file string, line, col uint32, err error) {
	parts := strings.Split(loc, ":")
	if len(parts) < 2 {
		return "", 0, 0, fmt.Errorf("malformed location %q", loc)
	}
	file = parts[0]

	n, err := strconv.Atoi(parts[1])
	if err != nil {
		return "", 0, 0, fmt.Errorf("malformed line number in %q: %w", loc, err)
	}
	line, err = safecast.Conv[uint32](n)
	if err != nil {
		return "", 0, 0, fmt.Errorf("line number out of range in %q: %w", loc, err)
	}

	if len(parts) >= 3 {
		n, err = strconv.Atoi(parts[2])
		if err != nil {
			return "", 0, 0, fmt.Errorf("malformed column in %q: %w", loc, err)
		}
		col, err = safecast.Conv[uint32](n)
		if err != nil {
			return "", 0, 0, fmt.Errorf("column out of range in %q: %w", loc, err)
		}
	}
	return file, line, col, nil
}
