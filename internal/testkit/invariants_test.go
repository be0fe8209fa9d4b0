package testkit

import (
	"testing"

	"expectest/internal/expect"
)

func TestCheckExpectationInvariants(t *testing.T) {
	good := []expect.ExpectedError{
		{LineNum: 1, Kind: "error", Msg: "boom"},
		{LineNum: 200, Kind: "note", Msg: ""},
	}
	if err := CheckExpectationInvariants(good); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	if err := CheckExpectationInvariants([]expect.ExpectedError{{LineNum: -2, Kind: "error"}}); err == nil {
		t.Error("expected an error for a non-positive target line")
	}

	if err := CheckExpectationInvariants([]expect.ExpectedError{{LineNum: 1, Kind: "ERROR"}}); err == nil {
		t.Error("expected an error for a non-lower-cased kind")
	}
}
