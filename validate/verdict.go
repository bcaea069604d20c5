// Package validate classifies observed latency distributions against
// expected values or ratios, per trial and across batches of trials.
package validate

import "fmt"

// Outcome is the classification of one validation.
type Outcome int

const (
	// Inconclusive means the statistical evidence was insufficient, e.g.
	// an empty histogram. It is a defined outcome, not an error, and is
	// never escalated to Fail by default.
	Inconclusive Outcome = iota
	Pass
	Fail
)

func (o Outcome) String() string {
	switch o {
	case Pass:
		return "pass"
	case Fail:
		return "fail"
	case Inconclusive:
		return "inconclusive"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o *Outcome) UnmarshalText(text []byte) error {
	switch string(text) {
	case "pass":
		*o = Pass
	case "fail":
		*o = Fail
	case "inconclusive":
		*o = Inconclusive
	default:
		return fmt.Errorf("unknown outcome %q", text)
	}
	return nil
}

// Verdict is the result of validating one observation against an
// expectation: the classification plus the numbers that produced it.
type Verdict struct {
	Outcome   Outcome `json:"outcome"`
	Observed  float64 `json:"observed"`
	Expected  float64 `json:"expected"`
	Deviation float64 `json:"deviation"`
	Tolerance float64 `json:"tolerance"`
}
