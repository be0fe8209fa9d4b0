package compare

import (
	"strings"
	"testing"

	"expectest/internal/diag"
	"expectest/internal/expect"
)

func TestDiagnostics_AllMatched(t *testing.T) {
	expected := []expect.ExpectedError{
		{LineNum: 3, Kind: "error", Msg: "mismatched types"},
		{LineNum: 3, Kind: "note", Msg: "expected int"},
	}
	actual := []diag.Diagnostic{
		{Line: 3, Kind: "error", Severity: diag.SevError, Message: "mismatched types in assignment"},
		{Line: 3, Kind: "note", Severity: diag.SevInfo, Message: "expected int, found string"},
	}

	res := Diagnostics(expected, actual)
	if !res.OK() {
		t.Fatalf("result not OK: unmatched=%+v unexpected=%+v", res.Unmatched, res.Unexpected)
	}
}

func TestDiagnostics_SubstringMatching(t *testing.T) {
	expected := []expect.ExpectedError{{LineNum: 1, Kind: "error", Msg: "types"}}
	actual := []diag.Diagnostic{{Line: 1, Kind: "error", Severity: diag.SevError, Message: "mismatched types"}}

	if res := Diagnostics(expected, actual); !res.OK() {
		t.Fatalf("substring match failed: %+v", res)
	}
}

func TestDiagnostics_EmptyKindMatchesAny(t *testing.T) {
	expected := []expect.ExpectedError{{LineNum: 2, Kind: "", Msg: ""}}
	actual := []diag.Diagnostic{{Line: 2, Kind: "warning", Severity: diag.SevWarning, Message: "whatever"}}

	if res := Diagnostics(expected, actual); !res.OK() {
		t.Fatalf("empty kind should match any severity: %+v", res)
	}
}

func TestDiagnostics_KindMismatch(t *testing.T) {
	expected := []expect.ExpectedError{{LineNum: 2, Kind: "error", Msg: "boom"}}
	actual := []diag.Diagnostic{{Line: 2, Kind: "warning", Severity: diag.SevWarning, Message: "boom"}}

	res := Diagnostics(expected, actual)
	if len(res.Unmatched) != 1 {
		t.Errorf("Unmatched = %+v, want the error expectation", res.Unmatched)
	}
	if len(res.Unexpected) != 1 {
		t.Errorf("Unexpected = %+v, want the warning", res.Unexpected)
	}
}

func TestDiagnostics_EachActualSatisfiesOneExpectation(t *testing.T) {
	expected := []expect.ExpectedError{
		{LineNum: 4, Kind: "error", Msg: "boom"},
		{LineNum: 4, Kind: "error", Msg: "boom"},
	}
	actual := []diag.Diagnostic{
		{Line: 4, Kind: "error", Severity: diag.SevError, Message: "boom"},
	}

	res := Diagnostics(expected, actual)
	if len(res.Unmatched) != 1 {
		t.Fatalf("Unmatched = %+v, want exactly one leftover expectation", res.Unmatched)
	}
}

func TestDiagnostics_InfoNeverUnexpected(t *testing.T) {
	actual := []diag.Diagnostic{
		{Line: 1, Kind: "note", Severity: diag.SevInfo, Message: "chatty note"},
		{Line: 1, Kind: "help", Severity: diag.SevInfo, Message: "try this"},
	}

	res := Diagnostics(nil, actual)
	if !res.OK() {
		t.Fatalf("unclaimed informational diagnostics should not fail the run: %+v", res)
	}
}

func TestDiagnostics_UnexpectedError(t *testing.T) {
	actual := []diag.Diagnostic{
		{Line: 7, Kind: "error", Severity: diag.SevError, Message: "surprise"},
	}

	res := Diagnostics(nil, actual)
	if len(res.Unexpected) != 1 {
		t.Fatalf("Unexpected = %+v, want the surprise error", res.Unexpected)
	}
}

func TestResult_Render(t *testing.T) {
	res := Result{
		Unmatched: []expect.ExpectedError{{LineNum: 3, Kind: "error", Msg: "boom"}},
		Unexpected: []diag.Diagnostic{
			{File: "a.sg", Line: 7, Col: 2, Kind: "warning", Severity: diag.SevWarning, Message: "surprise"},
		},
	}

	var b strings.Builder
	res.Render(&b, false)
	out := b.String()

	if !strings.Contains(out, "missing expected diagnostic: line 3: error boom") {
		t.Errorf("missing-expectation line not rendered:\n%s", out)
	}
	if !strings.Contains(out, "unexpected diagnostic: warning a.sg:7:2 surprise") {
		t.Errorf("unexpected-diagnostic line not rendered:\n%s", out)
	}
}
