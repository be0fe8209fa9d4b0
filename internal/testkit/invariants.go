package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"expectest/internal/expect"
)

// CheckExpectationInvariants runs a minimal set of sanity checks on a
// scanned expectation list:
// 1) every target line is positive (an adjustment did not walk off the top
//    of the file)
// 2) every target fits the uint32 line range used by the diagnostic model
// 3) kinds are already lower-cased
func CheckExpectationInvariants(exps []expect.ExpectedError) error {
	for i, exp := range exps {
		if exp.LineNum <= 0 {
			return fmt.Errorf("expectation %d targets non-positive line %d (adjustment walked past the top of the file)", i, exp.LineNum)
		}
		if _, err := safecast.Conv[uint32](exp.LineNum); err != nil {
			return fmt.Errorf("expectation %d line %d overflows the diagnostic line range: %w", i, exp.LineNum, err)
		}
		for _, r := range exp.Kind {
			if r >= 'A' && r <= 'Z' {
				return fmt.Errorf("expectation %d kind %q is not lower-cased", i, exp.Kind)
			}
		}
	}
	return nil
}
