package validate

import (
	"fmt"
	"math"
	"time"

	"github.com/calbench/calbench/bench"
	"github.com/calbench/calbench/common"
	"github.com/calbench/calbench/hist"
)

// DefaultPassFraction is the fraction of non-inconclusive trials that
// must pass for an aggregate Pass. A majority criterion, rather than
// all-trials-pass, absorbs the occasional trial perturbed by scheduling
// jitter: correct calibration shows up as a stable majority, not a
// perfect score.
const DefaultPassFraction = 0.8

// ValidateRatio compares the median of target against the median of
// base. Pass when |observed/expected - 1| <= tolerancePct; Inconclusive
// when either median is undefined (empty histogram).
func ValidateRatio(base, target *hist.Recorder, expectedRatio, tolerancePct float64) (Verdict, error) {
	if err := checkTolerance(tolerancePct); err != nil {
		return Verdict{}, err
	}
	if expectedRatio <= 0 {
		return Verdict{}, fmt.Errorf("%w: expected ratio %v must be positive", common.ErrInvalidParameter, expectedRatio)
	}

	bm, tm := base.Median(), target.Median()
	if bm == hist.Undefined || tm == hist.Undefined || bm == 0 {
		return Verdict{Outcome: Inconclusive, Expected: expectedRatio, Tolerance: tolerancePct}, nil
	}
	observed := float64(tm) / float64(bm)
	return classify(observed, expectedRatio, tolerancePct), nil
}

// ValidateValue compares the median of h against an absolute expected
// latency.
func ValidateValue(h *hist.Recorder, expected time.Duration, tolerancePct float64) (Verdict, error) {
	if err := checkTolerance(tolerancePct); err != nil {
		return Verdict{}, err
	}
	if expected <= 0 {
		return Verdict{}, fmt.Errorf("%w: expected latency %v must be positive", common.ErrInvalidParameter, expected)
	}

	m := h.Median()
	if m == hist.Undefined {
		return Verdict{Outcome: Inconclusive, Expected: float64(expected), Tolerance: tolerancePct}, nil
	}
	return classify(float64(m), float64(expected), tolerancePct), nil
}

func classify(observed, expected, tolerancePct float64) Verdict {
	dev := math.Abs(observed-expected) / expected
	out := Fail
	if dev <= tolerancePct {
		out = Pass
	}
	return Verdict{
		Outcome:   out,
		Observed:  observed,
		Expected:  expected,
		Deviation: dev,
		Tolerance: tolerancePct,
	}
}

// BatchSpec parameterizes aggregate validation of a paired batch.
type BatchSpec struct {
	ExpectedRatio        float64 `json:"expectedRatio"`
	TolerancePct         float64 `json:"tolerancePct"`
	RequiredPassFraction float64 `json:"requiredPassFraction"`
}

// DefaultBatchSpec returns a spec with the default tolerance and pass
// fraction for the given expected ratio.
func DefaultBatchSpec(expectedRatio float64) BatchSpec {
	return BatchSpec{
		ExpectedRatio:        expectedRatio,
		TolerancePct:         bench.DefaultTolerance,
		RequiredPassFraction: DefaultPassFraction,
	}
}

func (s BatchSpec) validate() error {
	if s.ExpectedRatio <= 0 {
		return fmt.Errorf("%w: expected ratio %v must be positive", common.ErrInvalidParameter, s.ExpectedRatio)
	}
	if err := checkTolerance(s.TolerancePct); err != nil {
		return err
	}
	if s.RequiredPassFraction <= 0 || s.RequiredPassFraction > 1 {
		return fmt.Errorf("%w: required pass fraction %v outside (0, 1]", common.ErrInvalidParameter, s.RequiredPassFraction)
	}
	return nil
}

// BatchVerdict aggregates per-trial verdicts. The aggregate outcome is a
// pure function of the multiset of trial outcomes; trial order never
// affects it.
type BatchVerdict struct {
	Verdict
	Trials        []Verdict           `json:"trials"`
	Passes        int                 `json:"passes"`
	Fails         int                 `json:"fails"`
	Inconclusives int                 `json:"inconclusives"`
	PassFraction  float64             `json:"passFraction"`
	Ratios        common.StatsSummary `json:"ratios"`
}

// ValidateBatch validates every trial pair and aggregates. Aggregate
// Pass requires spec.RequiredPassFraction of the non-inconclusive trials
// to pass; a batch with no conclusive trial is Inconclusive.
func ValidateBatch(batch *bench.PairedBatch, spec BatchSpec) (BatchVerdict, error) {
	if err := spec.validate(); err != nil {
		return BatchVerdict{}, err
	}
	if batch == nil || len(batch.Pairs) == 0 {
		return BatchVerdict{}, fmt.Errorf("%w: empty trial batch", common.ErrInvalidParameter)
	}

	bv := BatchVerdict{
		Verdict: Verdict{
			Outcome:   Inconclusive,
			Expected:  spec.ExpectedRatio,
			Tolerance: spec.TolerancePct,
		},
		Trials: make([]Verdict, 0, len(batch.Pairs)),
	}

	var ratios common.Stats
	for _, pair := range batch.Pairs {
		v, err := ValidateRatio(pair.Base, pair.Target, spec.ExpectedRatio, spec.TolerancePct)
		if err != nil {
			return BatchVerdict{}, err
		}
		bv.Trials = append(bv.Trials, v)
		switch v.Outcome {
		case Pass:
			bv.Passes++
			ratios.Update(v.Observed)
		case Fail:
			bv.Fails++
			ratios.Update(v.Observed)
		default:
			bv.Inconclusives++
		}
	}

	conclusive := bv.Passes + bv.Fails
	if conclusive == 0 {
		return bv, nil
	}

	bv.PassFraction = float64(bv.Passes) / float64(conclusive)
	bv.Ratios = ratios.Summary(common.C95)
	bv.Observed = bv.Ratios.Mean
	bv.Deviation = math.Abs(bv.Observed-spec.ExpectedRatio) / spec.ExpectedRatio
	if bv.PassFraction >= spec.RequiredPassFraction {
		bv.Outcome = Pass
	} else {
		bv.Outcome = Fail
	}
	return bv, nil
}

func checkTolerance(tolerancePct float64) error {
	if tolerancePct <= 0 || tolerancePct >= 1 {
		return fmt.Errorf("%w: tolerance %v outside (0, 1)", common.ErrInvalidParameter, tolerancePct)
	}
	return nil
}
