// Package env maps environment variables onto the validated
// configuration structs the engine takes. Only the commands read the
// environment; the library packages never do.
package env

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/calbench/calbench/bench"
	"github.com/calbench/calbench/common"
	"github.com/calbench/calbench/validate"
)

// RunConfig is the complete configuration of a benchmark run as read
// from the environment.
type RunConfig struct {
	// TargetRatio is the expected latency ratio of target over baseline.
	TargetRatio float64
	// Unit is the reporting unit; BaseMedian is expressed in it.
	Unit common.Unit
	// BaseMedian is the latency the baseline busy work is calibrated to,
	// in Unit.
	BaseMedian float64
	// BaseMedianHint is the approximate single-work-unit latency seeding
	// calibration, in Unit.
	BaseMedianHint float64
	// Repeats is the number of measurements per trial; Trials the number
	// of trials per batch.
	Repeats int
	Trials  int
	// TolerancePct and PassFraction parameterize validation.
	TolerancePct float64
	PassFraction float64
	// Warmup applies before each trial's recording phase.
	Warmup time.Duration
	// ReportFile, if set, receives the JSON result document.
	// ReportBucket, if additionally set, receives an uploaded copy.
	ReportFile   string
	ReportBucket string
}

// Load reads the run configuration from the environment, applying
// defaults for unset variables and validating the result.
func Load() (RunConfig, error) {
	c := RunConfig{
		ReportFile:   Get("REPORT_FILE", ""),
		ReportBucket: Get("REPORT_BUCKET", ""),
	}

	var err error
	if c.TargetRatio, err = getFloat("TARGET_RATIO", 1.1); err != nil {
		return c, err
	}
	unitName := Get("LATENCY_UNIT", "micro")
	if c.Unit, err = common.ParseUnit(unitName); err != nil {
		return c, err
	}
	if c.BaseMedian, err = getFloat("BASE_MEDIAN", 100); err != nil {
		return c, err
	}
	if c.BaseMedianHint, err = getFloat("BASE_MEDIAN_HINT", 0.1); err != nil {
		return c, err
	}
	if c.Repeats, err = getInt("NREPEATS", 100); err != nil {
		return c, err
	}
	if c.Trials, err = getInt("NTRIALS", 10); err != nil {
		return c, err
	}
	if c.TolerancePct, err = getFloat("TOLERANCE_PCT", bench.DefaultTolerance); err != nil {
		return c, err
	}
	if c.PassFraction, err = getFloat("PASS_FRACTION", validate.DefaultPassFraction); err != nil {
		return c, err
	}
	warmupMillis, err := getInt("WARMUP_MILLIS", int(bench.DefaultWarmup.Milliseconds()))
	if err != nil {
		return c, err
	}
	c.Warmup = time.Duration(warmupMillis) * time.Millisecond

	return c, c.validate()
}

func (c RunConfig) validate() error {
	if c.TargetRatio <= 0 {
		return fmt.Errorf("%w: TARGET_RATIO must be positive, was %v", common.ErrInvalidParameter, c.TargetRatio)
	}
	if c.BaseMedian <= 0 {
		return fmt.Errorf("%w: BASE_MEDIAN must be positive, was %v", common.ErrInvalidParameter, c.BaseMedian)
	}
	if c.BaseMedianHint <= 0 {
		return fmt.Errorf("%w: BASE_MEDIAN_HINT must be positive, was %v", common.ErrInvalidParameter, c.BaseMedianHint)
	}
	if c.Repeats <= 0 {
		return fmt.Errorf("%w: NREPEATS must be positive, was %d", common.ErrInvalidParameter, c.Repeats)
	}
	if c.Trials <= 0 {
		return fmt.Errorf("%w: NTRIALS must be positive, was %d", common.ErrInvalidParameter, c.Trials)
	}
	return nil
}

// BenchConfig translates the run configuration into measurement
// parameters.
func (c RunConfig) BenchConfig() bench.Config {
	cfg := bench.DefaultConfig()
	cfg.Warmup = c.Warmup
	cfg.ReportingUnit = c.Unit
	cfg.Tolerance = c.TolerancePct
	return cfg
}

// BatchSpec translates the run configuration into validation
// parameters.
func (c RunConfig) BatchSpec() validate.BatchSpec {
	return validate.BatchSpec{
		ExpectedRatio:        c.TargetRatio,
		TolerancePct:         c.TolerancePct,
		RequiredPassFraction: c.PassFraction,
	}
}

// Get returns the named variable or defval when unset or empty.
func Get(name, defval string) string {
	if r := os.Getenv(name); r != "" {
		return r
	}
	return defval
}

func getFloat(name string, defval float64) (float64, error) {
	s := os.Getenv(name)
	if s == "" {
		return defval, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a number, was %q", common.ErrInvalidParameter, name, s)
	}
	return v, nil
}

func getInt(name string, defval int) (int, error) {
	s := os.Getenv(name)
	if s == "" {
		return defval, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer, was %q", common.ErrInvalidParameter, name, s)
	}
	return v, nil
}
