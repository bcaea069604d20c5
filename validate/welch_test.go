package validate_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calbench/calbench/testkit"
	"github.com/calbench/calbench/validate"
)

// Deterministic lognormal pair: baseline median ~100µs, target median
// 1.1x higher, same shape.
func lognormalComp(t *testing.T, ratio, sigma float64) validate.Comp {
	t.Helper()
	mu := math.Log(float64(100 * time.Microsecond / time.Nanosecond))
	base, err := testkit.LognormalRecorder(mu, sigma, 30, maxLatency, sigfigs)
	require.NoError(t, err)
	target, err := testkit.LognormalRecorder(mu+math.Log(ratio), sigma, 30, maxLatency, sigfigs)
	require.NoError(t, err)
	return validate.NewComp(base, target)
}

func TestCompRatioMedians(t *testing.T) {
	c := lognormalComp(t, 1.1, 0.1)

	assert.InEpsilon(t, 1.1, c.RatioMedians(), 0.02)
	assert.InEpsilon(t, 1.1, c.RatioMediansFromLns(), 0.01)
	assert.InDelta(t, math.Log(1.1), c.MeanDiffLn(), 0.005)
}

func TestWelchRatioCIBracketsTrueRatio(t *testing.T) {
	c := lognormalComp(t, 1.1, 0.2)

	lo, hi := c.WelchRatioCI(0.05)
	assert.Less(t, lo, 1.1)
	assert.Greater(t, hi, 1.1)
	assert.Less(t, hi-lo, 0.2, "interval implausibly wide for ~1800 samples")
}

func TestWelchTestDetectsShift(t *testing.T) {
	c := lognormalComp(t, 1.1, 0.1)

	reject, p := c.WelchTest(validate.AltGreater, 0.05)
	assert.True(t, reject, "a 10 percent median shift at low variance must be detected")
	assert.Less(t, p, 0.01)

	// Equal distributions: nothing to detect.
	eq := lognormalComp(t, 1.0, 0.1)
	reject, p = eq.WelchTest(validate.AltNotEqual, 0.05)
	assert.False(t, reject)
	assert.Greater(t, p, 0.5)
}

func TestWelchDFPositive(t *testing.T) {
	c := lognormalComp(t, 1.1, 0.2)
	df := c.WelchDF()
	assert.Greater(t, df, 100.0)
	assert.False(t, math.IsNaN(c.WelchT()))
}
