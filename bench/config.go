package bench

import (
	"fmt"
	"time"

	"github.com/calbench/calbench/common"
)

// Defaults. The tolerance and warmup values mirror the harness this
// engine is validated against; treat them as starting points to be
// checked against the local timer resolution and noise floor.
const (
	DefaultWarmup           = 3 * time.Second
	DefaultMaxLatency       = 30 * time.Second
	DefaultSigfigs          = 2
	DefaultCalibrationReps  = 50
	DefaultCalibrationIters = 20
	DefaultTolerance        = 0.05

	// Warmup runs the function in short bursts so elapsed time can be
	// checked between them.
	warmupBurst = 20
)

// Config carries the measurement parameters shared by the Calibrator and
// the Batch Runner. It is validated once and read-only afterwards; there
// is no ambient process-wide configuration.
type Config struct {
	// Warmup is how long to exercise a function before recording.
	Warmup time.Duration

	// ReportingUnit converts latencies on output only; recording is
	// always in nanoseconds.
	ReportingUnit common.Unit

	// MaxLatency and Sigfigs size the histograms: the highest trackable
	// sample and the bucket precision in significant figures.
	MaxLatency time.Duration
	Sigfigs    int

	// CalibrationReps is the sample size per calibration iteration;
	// CalibrationIters bounds the search.
	CalibrationReps  int
	CalibrationIters int

	// Tolerance is the acceptable relative deviation of the calibrated
	// median from the target, in (0, 1).
	Tolerance float64

	// CompensateTimer subtracts the estimated fixed timer-read overhead
	// from every sample. The estimate is taken once per Runner so the
	// compensation is consistent within a run.
	CompensateTimer bool

	// ParallelTrials > 1 runs that many independent trials concurrently,
	// each on its own locked OS thread. Histograms are never shared
	// across trials; they meet only at the merge/validate stage.
	ParallelTrials int

	// Interleave alternates baseline/target repetitions within a paired
	// trial so slow load drift cannot bias one side.
	Interleave bool
}

// DefaultConfig returns the defaults used by the commands.
func DefaultConfig() Config {
	return Config{
		Warmup:           DefaultWarmup,
		ReportingUnit:    common.Micro,
		MaxLatency:       DefaultMaxLatency,
		Sigfigs:          DefaultSigfigs,
		CalibrationReps:  DefaultCalibrationReps,
		CalibrationIters: DefaultCalibrationIters,
		Tolerance:        DefaultTolerance,
		CompensateTimer:  true,
		ParallelTrials:   1,
		Interleave:       true,
	}
}

func (c Config) Validate() error {
	if c.Warmup < 0 {
		return fmt.Errorf("%w: warmup %v is negative", common.ErrInvalidParameter, c.Warmup)
	}
	if c.MaxLatency <= 0 {
		return fmt.Errorf("%w: max latency %v must be positive", common.ErrInvalidParameter, c.MaxLatency)
	}
	if c.Sigfigs < 1 || c.Sigfigs > 5 {
		return fmt.Errorf("%w: sigfigs %d outside 1..5", common.ErrInvalidParameter, c.Sigfigs)
	}
	if c.CalibrationReps <= 0 {
		return fmt.Errorf("%w: calibration repetitions %d must be positive", common.ErrInvalidParameter, c.CalibrationReps)
	}
	if c.CalibrationIters <= 0 {
		return fmt.Errorf("%w: calibration iteration bound %d must be positive", common.ErrInvalidParameter, c.CalibrationIters)
	}
	if c.Tolerance <= 0 || c.Tolerance >= 1 {
		return fmt.Errorf("%w: tolerance %v outside (0, 1)", common.ErrInvalidParameter, c.Tolerance)
	}
	if c.ParallelTrials < 1 {
		return fmt.Errorf("%w: parallel trials %d must be >= 1", common.ErrInvalidParameter, c.ParallelTrials)
	}
	return nil
}
